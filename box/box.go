package box

import (
	"sync"

	"github.com/odvcencio/furry-toolbelt/state"
)

// Getter produces a value on demand.
type Getter[T any] func() T

// Readable is a box whose current value can be read any number of times.
// Current returns the live value, never a snapshot taken at construction.
type Readable[T any] interface {
	Current() T
	Subscribe(fn func()) func()
	marker
}

// Writable is a Readable whose assignments route back to its backing store.
type Writable[T any] interface {
	Readable[T]
	SetCurrent(v T)
	writableMarker
}

// marker is the box identity tag. boxTag reports false for nil receivers.
type marker interface {
	boxTag() bool
	currentAny() any
	Subscribe(fn func()) func()
}

type writableMarker interface {
	marker
	writableTag() bool
	setAny(v any) error
}

// IsBox reports whether v is a non-nil box. It never panics.
func IsBox(v any) bool {
	m, ok := v.(marker)
	return ok && m.boxTag()
}

// IsWritableBox reports whether v is a box that accepts assignments.
func IsWritableBox(v any) bool {
	if !IsBox(v) {
		return false
	}
	w, ok := v.(writableMarker)
	return ok && w.writableTag()
}

// New creates a writable box that owns a private cell holding initial.
func New[T any](initial T) Writable[T] {
	return FromWritable[T](state.NewSignal(initial))
}

// Empty creates a writable box holding T's zero value.
func Empty[T any]() Writable[T] {
	var zero T
	return New(zero)
}

// With creates a read-only box that calls get on every read.
// Subscribers are notified whenever any of deps notifies; a box without
// deps never notifies and must be polled.
func With[T any](get func() T, deps ...state.Subscribable) Readable[T] {
	return &readBox[T]{get: get, subscribe: fanOut(deps)}
}

// WithSetter creates a writable box whose reads call get and whose writes
// call set. set alone is responsible for persisting the value.
func WithSetter[T any](get func() T, set func(T), deps ...state.Subscribable) Writable[T] {
	if set == nil {
		panic("box: WithSetter requires a setter")
	}
	return &writeBox[T]{get: get, set: set, subscribe: fanOut(deps)}
}

// FromReadable wraps host state, such as a state.Computed, in a read-only box.
func FromReadable[T any](src state.Readable[T]) Readable[T] {
	if src == nil {
		return With[T](nil)
	}
	return &readBox[T]{get: src.Get, subscribe: src.Subscribe}
}

// FromWritable wraps host state, such as a state.Signal, in a writable box.
func FromWritable[T any](src state.Writable[T]) Writable[T] {
	if src == nil {
		panic("box: FromWritable requires a source")
	}
	return &writeBox[T]{
		get:       src.Get,
		set:       func(v T) { src.Set(v) },
		subscribe: src.Subscribe,
	}
}

// Readonly strips writability from b. Boxes that are already read-only are
// returned unchanged so identity comparisons keep working.
func Readonly[T any](b Readable[T]) Readable[T] {
	if !IsWritableBox(b) {
		return b
	}
	return &readBox[T]{get: b.Current, subscribe: b.Subscribe}
}

// Set assigns v through b, failing with ErrReadOnly when b is not writable.
func Set[T any](b Readable[T], v T) error {
	if !IsWritableBox(b) {
		return ErrReadOnly
	}
	w, ok := b.(Writable[T])
	if !ok {
		return ErrReadOnly
	}
	w.SetCurrent(v)
	return nil
}

// AsWritable returns b as a Writable when it carries the writable tag.
func AsWritable[T any](b Readable[T]) (Writable[T], bool) {
	if !IsWritableBox(b) {
		return nil, false
	}
	w, ok := b.(Writable[T])
	return w, ok
}

func fanOut(deps []state.Subscribable) func(func()) func() {
	live := make([]state.Subscribable, 0, len(deps))
	for _, dep := range deps {
		if dep != nil {
			live = append(live, dep)
		}
	}
	if len(live) == 0 {
		return nil
	}
	return func(fn func()) func() {
		unsubs := make([]func(), 0, len(live))
		for _, dep := range live {
			unsubs = append(unsubs, dep.Subscribe(fn))
		}
		var once sync.Once
		return func() {
			once.Do(func() {
				for _, unsub := range unsubs {
					if unsub != nil {
						unsub()
					}
				}
			})
		}
	}
}

type readBox[T any] struct {
	get       func() T
	subscribe func(func()) func()
}

func (b *readBox[T]) boxTag() bool { return b != nil }

func (b *readBox[T]) Current() T {
	if b == nil || b.get == nil {
		var zero T
		return zero
	}
	return b.get()
}

func (b *readBox[T]) currentAny() any { return b.Current() }

func (b *readBox[T]) Subscribe(fn func()) func() {
	if b == nil || b.subscribe == nil || fn == nil {
		return func() {}
	}
	return b.subscribe(fn)
}

type writeBox[T any] struct {
	get       func() T
	set       func(T)
	subscribe func(func()) func()
}

func (b *writeBox[T]) boxTag() bool      { return b != nil }
func (b *writeBox[T]) writableTag() bool { return b != nil }

func (b *writeBox[T]) Current() T {
	if b == nil || b.get == nil {
		var zero T
		return zero
	}
	return b.get()
}

func (b *writeBox[T]) currentAny() any { return b.Current() }

func (b *writeBox[T]) SetCurrent(v T) {
	if b == nil {
		return
	}
	b.set(v)
}

func (b *writeBox[T]) setAny(v any) error {
	if v == nil && nilable[T]() {
		var zero T
		b.SetCurrent(zero)
		return nil
	}
	typed, ok := v.(T)
	if !ok {
		return newTypeError[T]("set", v)
	}
	b.SetCurrent(typed)
	return nil
}

func (b *writeBox[T]) Subscribe(fn func()) func() {
	if b == nil || b.subscribe == nil || fn == nil {
		return func() {}
	}
	return b.subscribe(fn)
}
