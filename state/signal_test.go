package state

import "testing"

func TestSignal_SetAndSubscribe(t *testing.T) {
	sig := NewSignal(1)
	calls := 0

	unsub := sig.Subscribe(func() {
		calls++
	})

	if calls != 0 {
		t.Fatalf("expected no calls before set, got %d", calls)
	}
	if !sig.Set(2) {
		t.Fatalf("expected set to report change")
	}
	if calls != 1 {
		t.Fatalf("expected 1 call after set, got %d", calls)
	}

	unsub()
	sig.Set(3)
	if calls != 1 {
		t.Fatalf("expected no calls after unsubscribe, got %d", calls)
	}
}

func TestSignal_SetEqualFunc(t *testing.T) {
	sig := NewSignal(5)
	sig.SetEqualFunc(EqualComparable[int])

	if sig.Set(5) {
		t.Fatalf("expected set of equal value to report no change")
	}
	if !sig.Set(6) {
		t.Fatalf("expected set of new value to report change")
	}
}

func TestSignal_Update(t *testing.T) {
	sig := NewSignal(1)
	sig.SetEqualFunc(EqualComparable[int])

	if !sig.Update(func(v int) int { return v + 1 }) {
		t.Fatalf("expected update to report change")
	}
	if sig.Get() != 2 {
		t.Fatalf("expected updated value 2, got %d", sig.Get())
	}
	if sig.Update(func(v int) int { return v }) {
		t.Fatalf("expected update of equal value to report no change")
	}
	if sig.Update(nil) {
		t.Fatalf("expected nil update to report no change")
	}
}

func TestSignal_SubscribeWithScheduler(t *testing.T) {
	sig := NewSignal(1)
	queue := NewQueue()
	calls := 0

	sig.SubscribeWithScheduler(queue, func() {
		calls++
	})

	if !sig.Set(2) {
		t.Fatalf("expected set to report change")
	}
	if calls != 0 {
		t.Fatalf("expected callback to be queued, got %d", calls)
	}
	if flushed := queue.Flush(); flushed != 1 {
		t.Fatalf("expected 1 callback flushed, got %d", flushed)
	}
	if calls != 1 {
		t.Fatalf("expected callback after flush, got %d", calls)
	}
}

func TestSignal_NotifiesInRegistrationOrder(t *testing.T) {
	sig := NewSignal(0)
	var order []int

	for i := 0; i < 5; i++ {
		i := i
		sig.Subscribe(func() {
			order = append(order, i)
		})
	}

	sig.Set(1)
	for i, got := range order {
		if got != i {
			t.Fatalf("expected registration order, got %v", order)
		}
	}
	if len(order) != 5 {
		t.Fatalf("expected 5 notifications, got %d", len(order))
	}
}

func TestSignal_UnsubscribeIsIdempotent(t *testing.T) {
	sig := NewSignal(0)
	unsubA := sig.Subscribe(func() {})
	sig.Subscribe(func() {})

	unsubA()
	unsubA()
	if got := sig.Subscribers(); got != 1 {
		t.Fatalf("expected 1 subscriber after double unsubscribe, got %d", got)
	}
}

func TestSignal_UnsubscribeDuringNotify(t *testing.T) {
	sig := NewSignal(0)
	calls := 0
	var unsub func()
	unsub = sig.Subscribe(func() {
		calls++
		unsub()
	})

	sig.Set(1)
	sig.Set(2)
	if calls != 1 {
		t.Fatalf("expected listener to run once before removing itself, got %d", calls)
	}
}

func TestNewComparableSignal(t *testing.T) {
	sig := NewComparableSignal("a")
	if sig.Set("a") {
		t.Fatalf("expected equal set to be suppressed")
	}
	if !sig.Set("b") {
		t.Fatalf("expected new value to report change")
	}
}

func TestSignal_IDsAreUnique(t *testing.T) {
	a := NewSignal(0)
	b := NewSignal(0)
	if a.ID() == b.ID() {
		t.Fatalf("expected distinct ids, got %s twice", a.ID())
	}
}

func TestSignal_NilReceiver(t *testing.T) {
	var sig *Signal[int]
	if got := sig.Get(); got != 0 {
		t.Fatalf("expected zero from nil signal, got %d", got)
	}
	if sig.Set(1) {
		t.Fatalf("expected nil signal set to report no change")
	}
	sig.Subscribe(func() {})()
	if got := sig.Subscribers(); got != 0 {
		t.Fatalf("expected no subscribers on nil signal, got %d", got)
	}
}
