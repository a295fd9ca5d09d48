package hookfsm

import (
	"fmt"
	"sync"
)

// Handler reacts to a fired event. A handler with nothing to report returns
// the zero value of R; any other value is its result.
type Handler[E any, R comparable] func(ev E) (R, error)

// Consumer is implemented by events that can halt fan-out early
type Consumer interface {
	Consumed() bool
}

// Result is the outcome of a fire: no value, exactly one value, or an
// ambiguity error when several handlers answered.
type Result[R comparable] struct {
	Value   R
	Defined bool
	Err     error
}

// Merge combines two results under the single-result rule
func (r Result[R]) Merge(other Result[R]) Result[R] {
	switch {
	case r.Err != nil:
		return r
	case other.Err != nil:
		return other
	case !other.Defined:
		return r
	case !r.Defined:
		return other
	}
	return Result[R]{
		Value:   r.Value,
		Defined: true,
		Err:     &AlreadyReturnedError{First: r.Value, Second: other.Value},
	}
}

// Registration is the handle returned by AddListener
type Registration struct {
	once   sync.Once
	detach func()
}

// Detach removes the listener. Calling it more than once is a no-op.
func (r *Registration) Detach() {
	if r == nil || r.detach == nil {
		return
	}
	r.once.Do(r.detach)
}

type listenerEntry[E any, R comparable] struct {
	id uint64
	fn Handler[E, R]
}

// EventListener is a multi-subscriber registry keyed by K. Handlers run in
// registration order; a failing handler never stops its siblings.
type EventListener[K comparable, E any, R comparable] struct {
	mu        sync.RWMutex
	buckets   map[K][]listenerEntry[E, R] // copy-on-write, fire iterates a snapshot
	nextID    uint64
	onFailure func(key K, err error)
}

// NewEventListener creates an empty registry. onFailure receives every error
// or panic raised by a handler; when nil, failures are logged.
func NewEventListener[K comparable, E any, R comparable](onFailure func(key K, err error)) *EventListener[K, E, R] {
	if onFailure == nil {
		onFailure = func(key K, err error) {
			Logger.Warn("listener failed", "key", key, "error", err)
		}
	}
	return &EventListener[K, E, R]{
		buckets:   make(map[K][]listenerEntry[E, R]),
		onFailure: onFailure,
	}
}

// AddListener registers fn under key. Registering the same function twice
// creates two entries.
func (l *EventListener[K, E, R]) AddListener(key K, fn Handler[E, R]) *Registration {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.nextID++
	id := l.nextID
	l.buckets[key] = append(l.buckets[key], listenerEntry[E, R]{id: id, fn: fn})

	return &Registration{detach: func() { l.remove(key, id) }}
}

func (l *EventListener[K, E, R]) remove(key K, id uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	bucket := l.buckets[key]
	for i, e := range bucket {
		if e.id != id {
			continue
		}
		if len(bucket) == 1 {
			delete(l.buckets, key)
			return
		}
		l.buckets[key] = append(bucket[:i:i], bucket[i+1:]...)
		return
	}
}

// Len returns the number of handlers registered under key
func (l *EventListener[K, E, R]) Len(key K) int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.buckets[key])
}

// Fire invokes every handler registered under key with ev.
// If ev implements Consumer, fan-out stops as soon as it reports consumed.
func (l *EventListener[K, E, R]) Fire(key K, ev E) Result[R] {
	l.mu.RLock()
	handlers := l.buckets[key]
	l.mu.RUnlock()

	var res Result[R]
	if len(handlers) == 0 {
		return res
	}

	var zero R
	consumer, _ := any(ev).(Consumer)

	for _, h := range handlers {
		v, err := call(h.fn, ev)
		if err != nil {
			l.onFailure(key, err)
		} else if v != zero {
			if res.Defined {
				res.Err = &AlreadyReturnedError{First: res.Value, Second: v}
				return res
			}
			res.Value, res.Defined = v, true
		}

		if consumer != nil && consumer.Consumed() {
			break
		}
	}

	return res
}

func call[E any, R comparable](fn Handler[E, R], ev E) (v R, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("listener panicked: %v", r)
		}
	}()
	return fn(ev)
}
