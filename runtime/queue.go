package runtime

import "github.com/odvcencio/furry-toolbelt/state"

// QueueFlushPolicy configures which messages make a pass flush the state
// queue. QueueFlushMsg always flushes.
type QueueFlushPolicy int

const (
	// FlushOnMessageAndTick flushes on any message or tick.
	FlushOnMessageAndTick QueueFlushPolicy = iota
	// FlushOnMessage flushes on messages except TickMsg.
	FlushOnMessage
	// FlushOnTick flushes only on TickMsg.
	FlushOnTick
	// FlushManual flushes only on QueueFlushMsg.
	FlushManual
)

func (p QueueFlushPolicy) String() string {
	switch p {
	case FlushOnMessageAndTick:
		return "message-and-tick"
	case FlushOnMessage:
		return "message"
	case FlushOnTick:
		return "tick"
	case FlushManual:
		return "manual"
	default:
		return "unknown"
	}
}

// ParseFlushPolicy maps a policy name, as produced by String, to a policy.
func ParseFlushPolicy(name string) (QueueFlushPolicy, bool) {
	for _, p := range []QueueFlushPolicy{FlushOnMessageAndTick, FlushOnMessage, FlushOnTick, FlushManual} {
		if p.String() == name {
			return p, true
		}
	}
	return 0, false
}

// WithQueue wraps update to flush queue on TickMsg or QueueFlushMsg.
// If update is nil, DefaultUpdate is used.
func WithQueue(queue *state.Queue, update UpdateFunc) UpdateFunc {
	return WithQueuePolicy(queue, FlushOnTick, update)
}

// WithQueuePolicy wraps update to flush an extra queue based on policy.
// The loop's own queue is flushed by the loop itself.
func WithQueuePolicy(queue *state.Queue, policy QueueFlushPolicy, update UpdateFunc) UpdateFunc {
	if update == nil {
		update = DefaultUpdate
	}
	return func(loop *Loop, msg Message) bool {
		dirty := update(loop, msg)
		if queue == nil {
			return dirty
		}
		if shouldFlushQueue(policy, msg) && queue.Flush() > 0 {
			dirty = true
		}
		return dirty
	}
}

func shouldFlushQueue(policy QueueFlushPolicy, msg Message) bool {
	if _, ok := msg.(QueueFlushMsg); ok {
		return true
	}
	if policy == FlushManual {
		return false
	}
	_, isTick := msg.(TickMsg)
	switch policy {
	case FlushOnMessage:
		return !isTick
	case FlushOnTick:
		return isTick
	default:
		return true
	}
}
