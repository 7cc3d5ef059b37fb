package box

import (
	"errors"
	"fmt"
	"reflect"
)

// Errors returned by box operations.
var (
	ErrReadOnly     = errors.New("box is read-only")
	ErrUnknownField = errors.New("unknown field")
)

// TypeError reports a value whose type does not match a box's element type.
type TypeError struct {
	Op   string // operation that failed: from, unbox, set, lookup
	Key  string // view field, when the error came from a View
	Want string
	Got  string
}

func (e *TypeError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("box: %s %q: want %s, got %s", e.Op, e.Key, e.Want, e.Got)
	}
	return fmt.Sprintf("box: %s: want %s, got %s", e.Op, e.Want, e.Got)
}

func newTypeError[T any](op string, got any) *TypeError {
	return &TypeError{Op: op, Want: typeName[T](), Got: fmt.Sprintf("%T", got)}
}

func typeName[T any]() string {
	return reflect.TypeFor[T]().String()
}

func nilable[T any]() bool {
	switch reflect.TypeFor[T]().Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
		return true
	}
	return false
}
