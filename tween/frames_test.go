package tween

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

// manualFrames is a Clock and Scheduler advanced by hand. Callbacks scheduled
// during a frame run on the next one.
type manualFrames struct {
	now      float64
	interval float64
	next     Token
	order    []Token
	pending  map[Token]func()
}

func newManualFrames(interval float64) *manualFrames {
	return &manualFrames{interval: interval, pending: make(map[Token]func())}
}

func (f *manualFrames) Now() float64 { return f.now }

func (f *manualFrames) Schedule(fn func()) Token {
	f.next++
	f.order = append(f.order, f.next)
	f.pending[f.next] = fn
	return f.next
}

func (f *manualFrames) Cancel(t Token) {
	delete(f.pending, t)
}

func (f *manualFrames) Pending() int { return len(f.pending) }

// Frame advances the clock by one interval and runs the due callbacks.
func (f *manualFrames) Frame() {
	f.now += f.interval
	due := f.order
	f.order = nil
	for _, t := range due {
		fn, ok := f.pending[t]
		if !ok {
			continue
		}
		delete(f.pending, t)
		fn()
	}
}

// RunUntilIdle runs frames until nothing is scheduled and returns how many ran.
func (f *manualFrames) RunUntilIdle(t *testing.T, max int) int {
	t.Helper()
	n := 0
	for f.Pending() > 0 {
		require.Less(t, n, max, "frames did not settle")
		f.Frame()
		n++
	}
	return n
}

// recorder collects events in order.
type recorder struct {
	events []string
	values []float64
}

func (r *recorder) attach(v *Value) {
	for _, event := range []string{EventStart, EventStep, EventStop} {
		event := event
		v.On(event, func(value float64) {
			r.events = append(r.events, event)
			r.values = append(r.values, value)
		})
	}
}

func (r *recorder) count(event string) int {
	n := 0
	for _, e := range r.events {
		if e == event {
			n++
		}
	}
	return n
}

func (r *recorder) reset() {
	r.events = nil
	r.values = nil
}

func isMultiple(value, precision float64) bool {
	q := value / precision
	return math.Abs(q-math.Round(q)) < 1e-6
}
