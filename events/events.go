package events

// ListenerID identifies a registered listener so it can be removed later.
type ListenerID uint64

type listener[T any] struct {
	id ListenerID
	fn func(T)
}

// Emitter is an ordered registry of named callbacks. Listeners for an event are
// invoked in registration order. The zero value is ready to use.
//
// Emitter is not safe for concurrent use.
type Emitter[T any] struct {
	listeners map[string][]listener[T]
	nextID    ListenerID
	cleared   uint64
}

// On registers fn for the named event and returns an id for Off. A nil fn is
// ignored and yields the zero id.
func (e *Emitter[T]) On(name string, fn func(T)) ListenerID {
	if fn == nil {
		return 0
	}
	if e.listeners == nil {
		e.listeners = make(map[string][]listener[T])
	}
	e.nextID++
	e.listeners[name] = append(e.listeners[name], listener[T]{id: e.nextID, fn: fn})
	return e.nextID
}

// Off removes the listener with the given id from the named event. Unknown ids
// are ignored.
func (e *Emitter[T]) Off(name string, id ListenerID) {
	ls := e.listeners[name]
	for i, l := range ls {
		if l.id == id {
			e.listeners[name] = append(ls[:i:i], ls[i+1:]...)
			return
		}
	}
}

// Trigger calls every listener of the named event with value. Listeners added
// or removed while triggering take effect on the next Trigger, except that
// Clear stops delivery at once.
func (e *Emitter[T]) Trigger(name string, value T) {
	gen := e.cleared
	for _, l := range e.listeners[name] {
		if e.cleared != gen {
			return
		}
		l.fn(value)
	}
}

// Count returns the number of listeners registered for the named event.
func (e *Emitter[T]) Count(name string) int {
	return len(e.listeners[name])
}

// Clear removes all listeners.
func (e *Emitter[T]) Clear() {
	e.listeners = nil
	e.cleared++
}
