package box

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
)

// FieldKind describes how a View field was produced.
type FieldKind uint8

const (
	// PlainField holds a non-box value copied from the bag.
	PlainField FieldKind = iota
	// ReadOnlyField forwards reads to a read-only box.
	ReadOnlyField
	// ReadWriteField forwards reads and writes to a writable box.
	ReadWriteField
)

func (k FieldKind) String() string {
	switch k {
	case PlainField:
		return "plain"
	case ReadOnlyField:
		return "read-only"
	case ReadWriteField:
		return "read-write"
	default:
		return fmt.Sprintf("FieldKind(%d)", uint8(k))
	}
}

// Field is a single View entry.
type Field interface {
	Key() string
	Kind() FieldKind
	Get() any
}

// SettableField is implemented by fields that accept writes. Fields backed
// by read-only boxes do not implement it.
type SettableField interface {
	Field
	Set(v any) error
}

// View is the flattened projection of a bag of boxes and plain values.
// It caches nothing: every box-backed read and write is forwarded.
type View struct {
	mu     sync.RWMutex
	fields map[string]Field
	plain  map[string]any
}

// Flatten builds a View with one field per bag entry.
//
// Writable boxes become read/write fields, read-only boxes become read-only
// fields, and every other value, functions included, is copied through as a
// plain field.
func Flatten(bag map[string]any) *View {
	v := &View{
		fields: make(map[string]Field, len(bag)),
		plain:  make(map[string]any),
	}
	for key, value := range bag {
		switch {
		case IsWritableBox(value):
			v.fields[key] = &readWriteField{key: key, dst: value.(writableMarker)}
		case IsBox(value):
			v.fields[key] = &readOnlyField{key: key, src: value.(marker)}
		default:
			v.plain[key] = value
			v.fields[key] = &plainField{key: key, view: v}
		}
	}
	return v
}

// Len returns the number of fields.
func (v *View) Len() int {
	if v == nil {
		return 0
	}
	return len(v.fields)
}

// Keys returns the field names in sorted order.
func (v *View) Keys() []string {
	if v == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(v.fields))
}

// Has reports whether key is a field.
func (v *View) Has(key string) bool {
	_, ok := v.Field(key)
	return ok
}

// Field returns the field for key.
func (v *View) Field(key string) (Field, bool) {
	if v == nil {
		return nil, false
	}
	f, ok := v.fields[key]
	return f, ok
}

// Kind returns how the field for key was produced.
func (v *View) Kind(key string) (FieldKind, bool) {
	f, ok := v.Field(key)
	if !ok {
		return 0, false
	}
	return f.Kind(), true
}

// CanSet reports whether key accepts writes.
func (v *View) CanSet(key string) bool {
	f, ok := v.Field(key)
	if !ok {
		return false
	}
	_, ok = f.(SettableField)
	return ok
}

// Get reads the current value of key.
func (v *View) Get(key string) (any, bool) {
	f, ok := v.Field(key)
	if !ok {
		return nil, false
	}
	return f.Get(), true
}

// Set writes value to key. Read-only fields fail with ErrReadOnly, absent
// keys with ErrUnknownField and mistyped values with a *TypeError.
func (v *View) Set(key string, value any) error {
	f, ok := v.Field(key)
	if !ok {
		return fmt.Errorf("flatten: %w: %q", ErrUnknownField, key)
	}
	settable, ok := f.(SettableField)
	if !ok {
		return fmt.Errorf("flatten: field %q: %w", key, ErrReadOnly)
	}
	return settable.Set(value)
}

// Snapshot returns the current value of every field.
func (v *View) Snapshot() map[string]any {
	if v == nil {
		return nil
	}
	out := make(map[string]any, len(v.fields))
	for key, f := range v.fields {
		out[key] = f.Get()
	}
	return out
}

// Lookup reads key from v as a T.
func Lookup[T any](v *View, key string) (T, error) {
	var zero T
	value, ok := v.Get(key)
	if !ok {
		return zero, fmt.Errorf("flatten: %w: %q", ErrUnknownField, key)
	}
	if typed, ok := value.(T); ok {
		return typed, nil
	}
	if value == nil && nilable[T]() {
		return zero, nil
	}
	err := newTypeError[T]("lookup", value)
	err.Key = key
	return zero, err
}

type plainField struct {
	key  string
	view *View
}

func (f *plainField) Key() string     { return f.key }
func (f *plainField) Kind() FieldKind { return PlainField }

func (f *plainField) Get() any {
	f.view.mu.RLock()
	defer f.view.mu.RUnlock()
	return f.view.plain[f.key]
}

func (f *plainField) Set(v any) error {
	f.view.mu.Lock()
	f.view.plain[f.key] = v
	f.view.mu.Unlock()
	return nil
}

type readOnlyField struct {
	key string
	src marker
}

func (f *readOnlyField) Key() string     { return f.key }
func (f *readOnlyField) Kind() FieldKind { return ReadOnlyField }
func (f *readOnlyField) Get() any        { return f.src.currentAny() }

type readWriteField struct {
	key string
	dst writableMarker
}

func (f *readWriteField) Key() string     { return f.key }
func (f *readWriteField) Kind() FieldKind { return ReadWriteField }
func (f *readWriteField) Get() any        { return f.dst.currentAny() }

func (f *readWriteField) Set(v any) error {
	err := f.dst.setAny(v)
	var typeErr *TypeError
	if errors.As(err, &typeErr) {
		typeErr.Key = f.key
	}
	return err
}
