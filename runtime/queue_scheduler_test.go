package runtime

import (
	"testing"

	"github.com/odvcencio/furry-toolbelt/box"
	"github.com/odvcencio/furry-toolbelt/state"
	"github.com/odvcencio/furry-toolbelt/watch"
)

func countFlushPosts(posted *int) PostFunc {
	return func(msg Message) bool {
		if _, ok := msg.(QueueFlushMsg); ok {
			*posted++
			return true
		}
		return false
	}
}

func TestQueueScheduler_WatcherFiresAfterFlush(t *testing.T) {
	queue := state.NewQueue()
	posted := 0
	scheduler := NewQueueScheduler(queue, countFlushPosts(&posted))
	count := box.New(0)
	var seen [][2]int
	w := watch.Watch[int](count, func(curr, prev int) {
		seen = append(seen, [2]int{prev, curr})
	}, watch.WithScheduler(scheduler))
	defer w.Stop()

	count.SetCurrent(1)
	count.SetCurrent(2)
	if len(seen) != 0 {
		t.Fatalf("expected no callback before flush, got %v", seen)
	}
	if posted != 1 {
		t.Fatalf("expected wake-ups coalesced into 1 post, got %d", posted)
	}
	if queue.Len() != 2 {
		t.Fatalf("expected 2 queued checks, got %d", queue.Len())
	}

	scheduler.resetPending()
	queue.Flush()
	if len(seen) != 1 || seen[0] != [2]int{0, 2} {
		t.Fatalf("expected one 0->2 transition, got %v", seen)
	}

	count.SetCurrent(3)
	if posted != 2 {
		t.Fatalf("expected a new post after the flush, got %d", posted)
	}
}

func TestQueueScheduler_RepostsOnFailedSend(t *testing.T) {
	queue := state.NewQueue()
	attempts := 0
	scheduler := NewQueueScheduler(queue, func(msg Message) bool {
		attempts++
		return false
	})
	count := box.New(0)
	w := watch.Watch[int](count, func(int, int) {}, watch.WithScheduler(scheduler))
	defer w.Stop()

	count.SetCurrent(1)
	count.SetCurrent(2)
	if attempts != 2 {
		t.Fatalf("expected 2 post attempts, got %d", attempts)
	}
	if queue.Len() != 2 {
		t.Fatalf("expected checks to stay queued, got %d", queue.Len())
	}
}

func TestQueueScheduler_LoopPassRunsQueuedWatchers(t *testing.T) {
	count := box.New(0)
	double := box.With(func() int { return count.Current() * 2 }, count)
	var seen []int
	loop := NewLoop(Config{FlushPolicy: FlushManual})
	w := watch.Watch[int](double, func(curr, _ int) {
		seen = append(seen, curr)
		loop.ExecuteCommand(Quit{})
	}, watch.WithScheduler(loop.Scheduler()))
	defer w.Stop()

	count.SetCurrent(1)
	count.SetCurrent(4)
	if err := runWithTimeout(t, loop); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(seen) != 1 || seen[0] != 8 {
		t.Fatalf("expected the wake-up pass to fire once with 8, got %v", seen)
	}
}
