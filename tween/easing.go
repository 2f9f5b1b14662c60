package tween

import (
	"math"
	"sort"
)

// EasingFunc computes the next raw value of v after tdelta milliseconds. It
// must move toward v.Target() and never past it.
type EasingFunc func(v *Value, tdelta float64) float64

var easings = map[string]EasingFunc{
	"easeOut": EaseOut,
	"linear":  Linear,
}

// RegisterEasing adds or replaces a named easing. Values resolve their easing
// when they are created, so replacing an easing does not affect existing
// Values. Not safe to call concurrently with NewValue.
func RegisterEasing(name string, fn EasingFunc) {
	if fn == nil {
		delete(easings, name)
		return
	}
	easings[name] = fn
}

// LookupEasing returns the easing registered under name.
func LookupEasing(name string) (EasingFunc, bool) {
	fn, ok := easings[name]
	return fn, ok
}

// Easings returns the registered easing names, sorted.
func Easings() []string {
	names := make([]string, 0, len(easings))
	for name := range easings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// EaseOut approaches the target exponentially: each nominal 16ms frame covers
// force of the remaining distance.
func EaseOut(v *Value, tdelta float64) float64 {
	delta := v.target - v.raw
	force := v.force * tdelta / frameMs
	next := v.raw + delta*force

	if delta > 0 {
		return math.Min(v.target, next)
	}
	return math.Max(v.target, next)
}

// Linear approaches the target at a constant force units per nominal 16ms
// frame.
func Linear(v *Value, tdelta float64) float64 {
	delta := v.target - v.raw
	force := v.force * tdelta / frameMs

	if delta > 0 {
		return math.Min(v.target, v.raw+force)
	}
	return math.Max(v.target, v.raw-force)
}
