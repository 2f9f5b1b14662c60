package tween

import (
	"math"

	"github.com/matt-g-everett/ledease/events"
)

// Value eases a single number toward a target.
type Value struct {
	clock     Clock
	sched     Scheduler
	easing    EasingFunc
	opts      Options
	force     float64
	precision float64

	raw        float64
	value      float64
	initial    float64
	target     float64
	hasInitial bool
	running    bool
	time       float64
	timer      Token

	// run changes whenever a run starts or is reset, so a step that triggered
	// a listener can tell whether the listener took over.
	run       uint64
	destroyed bool

	stepFn func()
	events events.Emitter[float64]
}

// NewValue creates a Value. Options.Value, when set, is applied with To before
// NewValue returns, firing start, step and stop on the Options listeners.
func NewValue(clock Clock, sched Scheduler, opts Options) (*Value, error) {
	if clock == nil {
		return nil, &ConfigError{Field: "clock", Reason: "must not be nil"}
	}
	if sched == nil {
		return nil, &ConfigError{Field: "scheduler", Reason: "must not be nil"}
	}

	opts, easing, err := opts.withDefaults()
	if err != nil {
		return nil, err
	}

	v := &Value{
		clock:     clock,
		sched:     sched,
		easing:    easing,
		opts:      opts,
		force:     opts.Force,
		precision: opts.Precision,
	}
	v.stepFn = v.step

	v.events.On(EventStep, opts.OnStep)
	v.events.On(EventStart, opts.OnStart)
	v.events.On(EventStop, opts.OnStop)

	if opts.Value != nil {
		if err := v.To(*opts.Value); err != nil {
			return nil, err
		}
	}

	return v, nil
}

// Value returns the quantized value, a multiple of Precision.
func (v *Value) Value() float64 { return v.value }

// Raw returns the full precision value.
func (v *Value) Raw() float64 { return v.raw }

// Target returns the value being approached.
func (v *Value) Target() float64 { return v.target }

// Initial returns the quantized value at the start of the current run.
func (v *Value) Initial() float64 { return v.initial }

// Force returns the approach rate.
func (v *Value) Force() float64 { return v.force }

// Precision returns the quantization step.
func (v *Value) Precision() float64 { return v.precision }

// Options returns the options with defaults applied.
func (v *Value) Options() Options { return v.opts }

// HasValue reports whether To or Reset has ever been called.
func (v *Value) HasValue() bool { return v.hasInitial }

// IsRunning reports whether a frame loop is active.
func (v *Value) IsRunning() bool { return v.running }

// On registers fn for EventStart, EventStep or EventStop.
func (v *Value) On(event string, fn func(float64)) events.ListenerID {
	return v.events.On(event, fn)
}

// Off removes a listener registered with On.
func (v *Value) Off(event string, id events.ListenerID) {
	v.events.Off(event, id)
}

// To sets the target. The first call on a Value without an initial value
// behaves as Reset. Otherwise a run is started unless one is active, in which
// case the new target is picked up by the next frame.
func (v *Value) To(value float64) error {
	if v.destroyed {
		return ErrDestroyed
	}
	if !quantizable(value, v.precision) {
		return ErrNonFinite
	}
	if !v.hasInitial {
		return v.Reset(value)
	}

	v.initial = v.value
	v.target = value

	if v.running {
		return nil
	}

	v.run++
	run := v.run
	v.time = v.clock.Now()

	v.trigger(EventStart, v.value)
	if v.superseded(run) {
		return nil
	}

	v.step()
	return nil
}

// Reset jumps to value without easing, ending any active run, and fires
// start, step and stop. It does nothing when value already is both the raw
// value and the target.
func (v *Value) Reset(value float64) error {
	if v.destroyed {
		return ErrDestroyed
	}
	if !quantizable(value, v.precision) {
		return ErrNonFinite
	}
	if v.hasInitial && value == v.raw && value == v.target {
		return nil
	}

	v.cancel()
	v.run++
	run := v.run

	v.raw, v.initial, v.target = value, value, value
	v.value = v.quantize(value)
	v.hasInitial = true
	v.running = false
	v.time = v.clock.Now()

	for _, event := range []string{EventStart, EventStep, EventStop} {
		v.trigger(event, v.value)
		if v.superseded(run) {
			return nil
		}
	}
	return nil
}

// Destroy cancels the pending frame and removes all listeners. The Value must
// not be used afterwards.
func (v *Value) Destroy() {
	if v.destroyed {
		return
	}
	v.destroyed = true
	v.cancel()
	v.running = false
	v.events.Clear()
}

func (v *Value) step() {
	v.timer = 0
	if v.destroyed {
		return
	}

	firstRun := !v.running
	v.running = true
	run := v.run

	last := v.value
	now := v.clock.Now()
	tdelta := math.Max(0, now-v.time)

	next := v.easing(v, tdelta)

	// Complete once the remaining distance is below what can be observed.
	complete := math.Abs(v.target-next) < v.precision
	if complete {
		v.raw = v.target
	} else {
		v.raw = next
	}
	v.value = v.quantize(v.raw)
	v.time = now

	if v.value != last || firstRun {
		v.trigger(EventStep, v.value)
		if v.superseded(run) {
			return
		}
		// A listener may have moved the target.
		if complete && v.raw != v.target {
			complete = false
		}
	}

	if complete {
		v.running = false
		v.trigger(EventStop, v.value)
		return
	}

	v.timer = v.sched.Schedule(v.stepFn)
}

// trigger emits event. If a listener panics the run is abandoned so the next
// To starts a fresh one.
func (v *Value) trigger(event string, value float64) {
	ok := false
	defer func() {
		if !ok {
			v.cancel()
			v.running = false
		}
	}()
	v.events.Trigger(event, value)
	ok = true
}

func (v *Value) superseded(run uint64) bool {
	return v.destroyed || v.run != run
}

func (v *Value) cancel() {
	if v.timer != 0 {
		v.sched.Cancel(v.timer)
		v.timer = 0
	}
}

func (v *Value) quantize(f float64) float64 {
	return quantize(f, v.precision)
}
