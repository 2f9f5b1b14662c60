package tween

import (
	"errors"
	"sort"

	"github.com/matt-g-everett/ledease/events"
)

// Multiple drives a fixed set of named Values as one. Its start, step and stop
// events carry a snapshot of every child value and are coalesced: however
// many children fire within a frame, each aggregate event fires at most once
// on the following frame.
type Multiple struct {
	sched  Scheduler
	values map[string]*Value
	keys   []string
	value  map[string]float64

	// active holds the children between their start and stop.
	active    map[string]bool
	reqStart  Token
	reqStop   Token
	reqStep   Token
	destroyed bool

	triggerStartFn func()
	triggerStepFn  func()
	triggerStopFn  func()
	events         events.Emitter[map[string]float64]
}

// NewMultiple groups values under their map keys. The Multiple subscribes to
// every child and destroys them all in Destroy.
func NewMultiple(sched Scheduler, values map[string]*Value) (*Multiple, error) {
	if sched == nil {
		return nil, &ConfigError{Field: "scheduler", Reason: "must not be nil"}
	}
	if len(values) == 0 {
		return nil, &ConfigError{Field: "values", Reason: "at least one value is required"}
	}

	m := &Multiple{
		sched:  sched,
		values: make(map[string]*Value, len(values)),
		keys:   make([]string, 0, len(values)),
		active: make(map[string]bool),
	}
	for name, v := range values {
		if v == nil {
			return nil, &ConfigError{Field: "values", Reason: "nil value for " + name}
		}
		m.values[name] = v
		m.keys = append(m.keys, name)
	}
	sort.Strings(m.keys)

	m.triggerStartFn = m.triggerStart
	m.triggerStepFn = m.triggerStep
	m.triggerStopFn = m.triggerStop

	for _, name := range m.keys {
		name := name
		v := m.values[name]
		v.On(EventStart, func(float64) { m.handleStart(name) })
		v.On(EventStep, func(float64) { m.handleStep() })
		v.On(EventStop, func(float64) { m.handleStop(name) })
		if v.IsRunning() {
			m.active[name] = true
		}
	}

	m.value = m.snapshot()

	return m, nil
}

// Keys returns the child names in sorted order.
func (m *Multiple) Keys() []string {
	return append([]string(nil), m.keys...)
}

// Get returns the named child, or nil.
func (m *Multiple) Get(name string) *Value {
	return m.values[name]
}

// Value returns a copy of the last snapshot of child values.
func (m *Multiple) Value() map[string]float64 {
	out := make(map[string]float64, len(m.value))
	for k, v := range m.value {
		out[k] = v
	}
	return out
}

// IsRunning reports whether any child is running.
func (m *Multiple) IsRunning() bool {
	return m.anyRunning()
}

// On registers fn for EventStart, EventStep or EventStop.
func (m *Multiple) On(event string, fn func(map[string]float64)) events.ListenerID {
	return m.events.On(event, fn)
}

// Off removes a listener registered with On.
func (m *Multiple) Off(event string, id events.ListenerID) {
	m.events.Off(event, id)
}

// To calls To on each child named in values. Children not named are left
// alone. Nothing is forwarded if a key is unknown or a value is not finite.
func (m *Multiple) To(values map[string]float64) error {
	return m.forward(values, (*Value).To)
}

// Reset calls Reset on each child named in values.
func (m *Multiple) Reset(values map[string]float64) error {
	return m.forward(values, (*Value).Reset)
}

func (m *Multiple) forward(values map[string]float64, op func(*Value, float64) error) error {
	if m.destroyed {
		return ErrDestroyed
	}
	for name, f := range values {
		if _, ok := m.values[name]; !ok {
			return &UnknownKeyError{Key: name}
		}
		if !quantizable(f, m.values[name].precision) {
			return ErrNonFinite
		}
	}

	var errs []error
	for _, name := range m.keys {
		f, ok := values[name]
		if !ok {
			continue
		}
		if err := op(m.values[name], f); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Destroy cancels pending aggregate events, destroys every child and removes
// all listeners.
func (m *Multiple) Destroy() {
	if m.destroyed {
		return
	}
	m.destroyed = true

	for _, req := range []*Token{&m.reqStart, &m.reqStep, &m.reqStop} {
		if *req != 0 {
			m.sched.Cancel(*req)
			*req = 0
		}
	}
	for _, name := range m.keys {
		m.values[name].Destroy()
	}
	clear(m.active)
	m.events.Clear()
}

func (m *Multiple) handleStart(name string) {
	m.value = m.snapshot()
	m.prune()
	open := len(m.active) > 0
	m.active[name] = true

	if m.reqStop != 0 {
		// The last child had stopped but the aggregate stop has not fired
		// yet, so the aggregate run simply continues.
		m.sched.Cancel(m.reqStop)
		m.reqStop = 0
		return
	}
	if open || m.reqStart != 0 {
		return
	}
	m.reqStart = m.sched.Schedule(m.triggerStartFn)
}

func (m *Multiple) handleStep() {
	m.value = m.snapshot()

	if m.reqStep == 0 {
		m.reqStep = m.sched.Schedule(m.triggerStepFn)
	}
}

func (m *Multiple) handleStop(name string) {
	m.value = m.snapshot()
	delete(m.active, name)
	m.prune()

	if len(m.active) == 0 && m.reqStop == 0 {
		m.reqStop = m.sched.Schedule(m.triggerStopFn)
	}
}

// prune forgets children destroyed mid-run, which never emit stop.
func (m *Multiple) prune() {
	for name := range m.active {
		if m.values[name].destroyed {
			delete(m.active, name)
		}
	}
}

func (m *Multiple) triggerStart() {
	m.reqStart = 0
	m.fire(EventStart)
}

func (m *Multiple) triggerStep() {
	m.reqStep = 0
	m.fire(EventStep)
}

func (m *Multiple) triggerStop() {
	m.reqStop = 0
	m.fire(EventStop)
}

func (m *Multiple) fire(event string) {
	if m.destroyed {
		return
	}
	m.value = m.snapshot()
	m.events.Trigger(event, m.Value())
}

func (m *Multiple) snapshot() map[string]float64 {
	value := make(map[string]float64, len(m.keys))
	for _, name := range m.keys {
		value[name] = m.values[name].Value()
	}
	return value
}

func (m *Multiple) anyRunning() bool {
	for _, name := range m.keys {
		if m.values[name].IsRunning() {
			return true
		}
	}
	return false
}
