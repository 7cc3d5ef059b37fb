package state

import "testing"

func TestQueue_Flush(t *testing.T) {
	queue := NewQueue()
	calls := make([]int, 0, 2)

	queue.Schedule(func() {
		calls = append(calls, 1)
	})
	queue.Schedule(func() {
		calls = append(calls, 2)
	})

	if flushed := queue.Flush(); flushed != 2 {
		t.Fatalf("expected 2 callbacks flushed, got %d", flushed)
	}
	if len(calls) != 2 || calls[0] != 1 || calls[1] != 2 {
		t.Fatalf("unexpected callback order: %v", calls)
	}
	if flushed := queue.Flush(); flushed != 0 {
		t.Fatalf("expected empty flush, got %d", flushed)
	}
}

func TestQueue_FlushDrainsNestedSchedules(t *testing.T) {
	queue := NewQueue()
	var order []string

	queue.Schedule(func() {
		order = append(order, "outer")
		queue.Schedule(func() {
			order = append(order, "inner")
		})
	})

	if flushed := queue.Flush(); flushed != 2 {
		t.Fatalf("expected nested callback to flush in the same pass, got %d", flushed)
	}
	if len(order) != 2 || order[0] != "outer" || order[1] != "inner" {
		t.Fatalf("unexpected flush order: %v", order)
	}
	if queue.Len() != 0 {
		t.Fatalf("expected empty queue, got %d", queue.Len())
	}
}

func TestQueue_FlushBoundsFeedbackLoops(t *testing.T) {
	queue := NewQueue()
	var loop func()
	loop = func() {
		queue.Schedule(loop)
	}
	queue.Schedule(loop)

	if flushed := queue.Flush(); flushed != MaxFlushRounds {
		t.Fatalf("expected %d callbacks before bailing, got %d", MaxFlushRounds, flushed)
	}
	if queue.Len() != 1 {
		t.Fatalf("expected the looping callback to stay queued, got %d", queue.Len())
	}
}

func TestSchedulerFunc_Nil(t *testing.T) {
	var fn SchedulerFunc
	fn.Schedule(func() {
		t.Fatalf("nil scheduler func must not run callbacks")
	})
	DirectScheduler.Schedule(nil)
}
