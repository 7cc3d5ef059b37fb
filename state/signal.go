// Package state provides the reactive primitives boxes and watchers run on.
//
// Signals hold values, Computed derives values from other signals, Scope
// ties disposers to a lifetime and Scheduler decides where notifications
// run. Nothing here tracks dependencies implicitly: callers name the
// sources a derived value depends on.
package state

import (
	"sync"

	"github.com/oklog/ulid/v2"
)

// EqualFunc compares two values for equality.
type EqualFunc[T any] func(a, b T) bool

// EqualComparable compares comparable values with ==.
func EqualComparable[T comparable](a, b T) bool {
	return a == b
}

// Signal holds a value and notifies subscribers on change.
type Signal[T any] struct {
	mu    sync.Mutex
	id    ulid.ULID
	value T
	subs  subscriberList
	equal EqualFunc[T]
}

// NewSignal creates a new signal with an initial value.
// Without an equality func every Set notifies.
func NewSignal[T any](initial T) *Signal[T] {
	return &Signal[T]{id: NewID(), value: initial}
}

// NewComparableSignal creates a signal that suppresses sets of equal values.
func NewComparableSignal[T comparable](initial T) *Signal[T] {
	s := NewSignal(initial)
	s.equal = EqualComparable[T]
	return s
}

// ID returns the signal identifier.
func (s *Signal[T]) ID() ulid.ULID {
	if s == nil {
		return ulid.ULID{}
	}
	return s.id
}

// SetEqualFunc configures the equality check used to suppress redundant updates.
func (s *Signal[T]) SetEqualFunc(fn EqualFunc[T]) {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.equal = fn
	s.mu.Unlock()
}

// Get returns the current value.
func (s *Signal[T]) Get() T {
	if s == nil {
		var zero T
		return zero
	}
	s.mu.Lock()
	value := s.value
	s.mu.Unlock()
	return value
}

// Set updates the value and notifies subscribers if it changed.
func (s *Signal[T]) Set(value T) bool {
	if s == nil {
		return false
	}
	s.mu.Lock()
	if s.equal != nil && s.equal(s.value, value) {
		s.mu.Unlock()
		return false
	}
	s.value = value
	s.mu.Unlock()

	s.subs.notify()
	return true
}

// Update replaces the value using fn.
// fn runs outside the signal lock; Update is not atomic across goroutines.
func (s *Signal[T]) Update(fn func(T) T) bool {
	if s == nil || fn == nil {
		return false
	}
	return s.Set(fn(s.Get()))
}

// Subscribe registers a listener for change notifications.
func (s *Signal[T]) Subscribe(fn func()) func() {
	return s.SubscribeWithScheduler(nil, fn)
}

// SubscribeWithScheduler registers a listener using a scheduler.
// If scheduler is nil, callbacks run synchronously.
func (s *Signal[T]) SubscribeWithScheduler(scheduler Scheduler, fn func()) func() {
	if s == nil || fn == nil {
		return func() {}
	}
	return s.subs.add(scheduler, fn)
}

// Subscribers reports how many listeners are registered.
func (s *Signal[T]) Subscribers() int {
	if s == nil {
		return 0
	}
	return s.subs.len()
}
