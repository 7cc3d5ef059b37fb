package box

import (
	"reflect"

	"github.com/odvcencio/furry-toolbelt/state"
)

// From normalizes a value-ish input into a box.
//
// Accepted shapes, checked in this order:
//   - a box: returned unchanged, so writable boxes stay writable
//   - a box of another element type whose value is assignable to T: adapted
//   - untyped nil: a writable box holding T's zero value
//   - func() T or Getter[T]: a read-only box via With
//   - state.Writable[T] / state.Readable[T]: FromWritable / FromReadable
//   - any other zero-argument func whose result is assignable to T, such
//     as a func() int requested as From[any]: a read-only box calling it
//   - a T: a writable box via New
//
// Anything else is a programming error and panics with a *TypeError; use
// TryFrom to get the error instead.
func From[T any](v any) Readable[T] {
	b, err := TryFrom[T](v)
	if err != nil {
		panic(err)
	}
	return b
}

// TryFrom is From with the type mismatch reported as an error.
func TryFrom[T any](v any) (Readable[T], error) {
	// Boxes are checked before callables so a box that is also a func is
	// never treated as a getter.
	if IsBox(v) {
		if b, ok := v.(Readable[T]); ok {
			return b, nil
		}
		return adapt[T](v.(marker))
	}
	switch x := v.(type) {
	case nil:
		return Empty[T](), nil
	case Getter[T]:
		return With[T](x), nil
	case func() T:
		return With[T](x), nil
	case state.Writable[T]:
		return FromWritable[T](x), nil
	case state.Readable[T]:
		return FromReadable[T](x), nil
	}
	if get, ok := reflectGetter[T](v); ok {
		return With(get), nil
	}
	if x, ok := v.(T); ok {
		return New(x), nil
	}
	return nil, newTypeError[T]("from", v)
}

// Unbox returns the current value behind v.
//
// Boxes yield Current, getters are called, host state yields Get, and any
// other T is returned as is. Getters include zero-argument funcs whose
// result is assignable to T, so Unbox[any](func() int) calls the func. Untyped nil yields T's zero value. Other
// types panic with a *TypeError; use TryUnbox to get the error instead.
func Unbox[T any](v any) T {
	got, err := TryUnbox[T](v)
	if err != nil {
		panic(err)
	}
	return got
}

// TryUnbox is Unbox with the type mismatch reported as an error.
func TryUnbox[T any](v any) (T, error) {
	var zero T
	if IsBox(v) {
		if b, ok := v.(Readable[T]); ok {
			return b.Current(), nil
		}
		current := v.(marker).currentAny()
		if typed, ok := current.(T); ok {
			return typed, nil
		}
		if current == nil && nilable[T]() {
			return zero, nil
		}
		return zero, newTypeError[T]("unbox", current)
	}
	switch x := v.(type) {
	case nil:
		return zero, nil
	case Getter[T]:
		return x(), nil
	case func() T:
		return x(), nil
	case state.Readable[T]:
		return x.Get(), nil
	}
	if get, ok := reflectGetter[T](v); ok {
		return get(), nil
	}
	if x, ok := v.(T); ok {
		return x, nil
	}
	return zero, newTypeError[T]("unbox", v)
}

// adapt re-types a box whose element type differs from T, for example a
// Readable[int] requested as Readable[any]. Writability is preserved.
func adapt[T any](m marker) (Readable[T], error) {
	current := m.currentAny()
	if _, ok := current.(T); !ok && !(current == nil && nilable[T]()) {
		return nil, newTypeError[T]("from", current)
	}
	get := func() T {
		typed, _ := m.currentAny().(T)
		return typed
	}
	if w, ok := m.(writableMarker); ok && w.writableTag() {
		return &writeBox[T]{
			get: get,
			set: func(v T) {
				if err := w.setAny(v); err != nil {
					panic(err)
				}
			},
			subscribe: m.Subscribe,
		}, nil
	}
	return &readBox[T]{get: get, subscribe: m.Subscribe}, nil
}

// reflectGetter adapts a zero-argument, single-result func whose result type
// is assignable to T but is not T itself.
func reflectGetter[T any](v any) (func() T, bool) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Func || rv.IsNil() {
		return nil, false
	}
	ft := rv.Type()
	if ft.NumIn() != 0 || ft.NumOut() != 1 || !ft.Out(0).AssignableTo(reflect.TypeFor[T]()) {
		return nil, false
	}
	return func() T {
		typed, _ := rv.Call(nil)[0].Interface().(T)
		return typed
	}, true
}
