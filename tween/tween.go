// Package tween eases numeric values toward a moving target one frame at a
// time.
//
// A Value holds a raw (full precision) value and a quantized value that is a
// multiple of its precision. Setting a target with To starts a run: a start
// event, one or more step events as frames advance the raw value through the
// selected easing, and a single stop event once the raw value is within
// precision of the target. Reset jumps straight to a value and fires all three
// events at once.
//
// Multiple groups named Values and re-emits their events coalesced, so a frame
// in which several children step produces one aggregate step.
//
// Time and frames come from the Clock and Scheduler ports. Nothing in this
// package is safe for concurrent use: all calls, including scheduled
// callbacks, are expected to happen on a single goroutine.
package tween

import "time"

// Event names emitted by Value and Multiple.
const (
	EventStart = "start"
	EventStep  = "step"
	EventStop  = "stop"
)

// Defaults applied when the corresponding Options field is zero.
const (
	DefaultForce     = 0.1
	DefaultPrecision = 0.01
	DefaultEasing    = "easeOut"
)

// frameMs is the nominal frame interval that force is normalized to.
const frameMs = 16.0

// Token identifies a scheduled callback. The zero Token means none.
type Token uint64

// Scheduler runs callbacks on a later frame.
type Scheduler interface {
	Schedule(fn func()) Token
	Cancel(t Token)
}

// Clock reports monotonic time in milliseconds.
type Clock interface {
	Now() float64
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() float64

// Now implements Clock.
func (f ClockFunc) Now() float64 {
	return f()
}

type systemClock struct {
	start time.Time
}

// SystemClock returns a Clock measuring milliseconds since its creation using
// the monotonic clock.
func SystemClock() Clock {
	return &systemClock{start: time.Now()}
}

func (c *systemClock) Now() float64 {
	return float64(time.Since(c.start)) / float64(time.Millisecond)
}
