package box

import (
	"errors"
	"testing"

	"github.com/odvcencio/furry-toolbelt/state"
)

// callableBox is a box that is also a function. Unbox must read Current
// rather than calling it.
type callableBox func() int

func (c callableBox) boxTag() bool            { return c != nil }
func (c callableBox) currentAny() any         { return c.Current() }
func (c callableBox) Current() int            { return 42 }
func (c callableBox) Subscribe(func()) func() { return func() {} }

func TestFrom_WritableBoxStaysSettable(t *testing.T) {
	src := New(0)
	count := From[int](src)
	if count != Readable[int](src) {
		t.Fatalf("expected From to return the box unchanged")
	}
	w, ok := AsWritable(count)
	if !ok {
		t.Fatalf("expected From of a writable box to stay writable")
	}
	w.SetCurrent(1)
	if got := count.Current(); got != 1 {
		t.Fatalf("expected 1, got %d", got)
	}
}

func TestFrom_ReadableBoxNotSettable(t *testing.T) {
	count := From[int](With(func() int { return 0 }))
	if got := count.Current(); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
	if err := Set(count, 1); !errors.Is(err, ErrReadOnly) {
		t.Fatalf("expected ErrReadOnly, got %v", err)
	}
}

func TestFrom_PlainValueIsSettable(t *testing.T) {
	count := From[int](0)
	if got := count.Current(); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
	if err := Set(count, 1); err != nil {
		t.Fatalf("expected plain value box to be writable, got %v", err)
	}
	if got := count.Current(); got != 1 {
		t.Fatalf("expected 1, got %d", got)
	}
}

func TestFrom_Getter(t *testing.T) {
	value := 5
	b := From[int](func() int { return value })
	if IsWritableBox(b) {
		t.Fatalf("expected getter input to produce a read-only box")
	}
	value = 6
	if got := b.Current(); got != 6 {
		t.Fatalf("expected live read 6, got %d", got)
	}

	named := From[int](Getter[int](func() int { return 7 }))
	if got := named.Current(); got != 7 {
		t.Fatalf("expected named getter to be wrapped, got %d", got)
	}
}

func TestFrom_AdaptsForeignGetter(t *testing.T) {
	value := 7
	b := From[any](func() int { return value })
	if IsWritableBox(b) {
		t.Fatalf("expected adapted getter to be read-only")
	}
	value = 8
	if got := b.Current(); got != 8 {
		t.Fatalf("expected live read 8, got %v", got)
	}

	if got := Unbox[any](func() int { return 7 }); got != 7 {
		t.Fatalf("expected Unbox to call the getter, got %v", got)
	}
	if got := Unbox[any](func() *int { return nil }); got != (*int)(nil) {
		t.Fatalf("expected typed nil result, got %v", got)
	}

	noResult := func() {}
	if _, ok := Unbox[any](noResult).(func()); !ok {
		t.Fatalf("expected a func without results to stay a value")
	}
	if _, err := TryUnbox[string](func() int { return 1 }); err == nil {
		t.Fatalf("expected mismatched getter result to fail")
	}
}

func TestFrom_HostState(t *testing.T) {
	sig := state.NewSignal(3)
	b := From[int](sig)
	if !IsWritableBox(b) {
		t.Fatalf("expected signal input to produce a writable box")
	}
	if err := Set(b, 4); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := sig.Get(); got != 4 {
		t.Fatalf("expected write to reach signal, got %d", got)
	}

	comp := state.NewComputed(func() int { return sig.Get() + 1 }, sig)
	if IsWritableBox(From[int](comp)) {
		t.Fatalf("expected computed input to produce a read-only box")
	}
}

func TestFrom_NilIsEmpty(t *testing.T) {
	b := From[string](nil)
	if got := b.Current(); got != "" {
		t.Fatalf("expected zero value, got %q", got)
	}
	if !IsWritableBox(b) {
		t.Fatalf("expected nil input to produce a writable box")
	}
}

func TestFrom_AdaptsElementType(t *testing.T) {
	src := New(1)
	b := From[any](src)
	if got := b.Current(); got != 1 {
		t.Fatalf("expected adapted read 1, got %v", got)
	}
	if err := Set[any](b, 2); err != nil {
		t.Fatalf("expected adapted box to stay writable, got %v", err)
	}
	if got := src.Current(); got != 2 {
		t.Fatalf("expected write to reach source, got %d", got)
	}

	ro := From[any](With(func() int { return 3 }))
	if IsWritableBox(ro) {
		t.Fatalf("expected adapted read-only box to stay read-only")
	}
}

func TestTryFrom_TypeMismatch(t *testing.T) {
	_, err := TryFrom[int]("nope")
	var typeErr *TypeError
	if !errors.As(err, &typeErr) {
		t.Fatalf("expected *TypeError, got %v", err)
	}
	if typeErr.Want != "int" || typeErr.Got != "string" {
		t.Fatalf("unexpected type error: %+v", typeErr)
	}

	if _, err := TryFrom[int](New("x")); !errors.As(err, &typeErr) {
		t.Fatalf("expected mismatched box to fail, got %v", err)
	}
}

func TestFrom_PanicsOnMismatch(t *testing.T) {
	defer func() {
		r := recover()
		if _, ok := r.(*TypeError); !ok {
			t.Fatalf("expected *TypeError panic, got %v", r)
		}
	}()
	From[int](1.5)
}

func TestRoundTrips(t *testing.T) {
	if got := From[int](New(7)).Current(); got != 7 {
		t.Fatalf("from(box(x)).current: expected 7, got %d", got)
	}
	if got := From[int](7).Current(); got != 7 {
		t.Fatalf("from(x).current: expected 7, got %d", got)
	}
	if got := Unbox[int](New(7)); got != 7 {
		t.Fatalf("unbox(box(x)): expected 7, got %d", got)
	}
	if got := Unbox[int](func() int { return 7 }); got != 7 {
		t.Fatalf("unbox(getter): expected 7, got %d", got)
	}
	if got := Unbox[int](7); got != 7 {
		t.Fatalf("unbox(x): expected 7, got %d", got)
	}
	if got := Unbox[int](state.NewSignal(7)); got != 7 {
		t.Fatalf("unbox(signal): expected 7, got %d", got)
	}
	if got := Unbox[int](nil); got != 0 {
		t.Fatalf("unbox(nil): expected 0, got %d", got)
	}
}

func TestUnbox_ChecksBoxBeforeCallable(t *testing.T) {
	b := callableBox(func() int { return 7 })
	if !IsBox(b) {
		t.Fatalf("expected callable box to be a box")
	}
	if got := Unbox[int](b); got != 42 {
		t.Fatalf("expected Current (42), got %d", got)
	}
	if got := From[int](b).Current(); got != 42 {
		t.Fatalf("expected callable box to pass through From as a box, got %d", got)
	}
}

func TestTryUnbox_TypeMismatch(t *testing.T) {
	if _, err := TryUnbox[int]("x"); err == nil {
		t.Fatalf("expected error for string input")
	}
	got, err := TryUnbox[any](New(3))
	if err != nil || got != 3 {
		t.Fatalf("expected adapted unbox 3, got %v (%v)", got, err)
	}
}
