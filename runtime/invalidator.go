package runtime

import (
	"sync"
	"sync/atomic"

	"github.com/odvcencio/furry-toolbelt/state"
)

// Invalidator turns box and signal notifications into render requests. Any
// number of requests made before the loop handles the pending InvalidateMsg
// share that one message.
type Invalidator struct {
	post      PostFunc
	pending   atomic.Bool
	requested atomic.Int64
}

// NewInvalidator creates an invalidator that posts through post.
func NewInvalidator(post PostFunc) *Invalidator {
	return &Invalidator{post: post}
}

// Invalidate requests a render pass. A failed post leaves nothing pending,
// so the next request tries again.
func (i *Invalidator) Invalidate() {
	if i == nil {
		return
	}
	i.requested.Add(1)
	if i.post == nil || !i.pending.CompareAndSwap(false, true) {
		return
	}
	if !i.post(InvalidateMsg{}) {
		i.pending.Store(false)
	}
}

// Requests reports how many renders were requested, coalesced or not.
func (i *Invalidator) Requests() int64 {
	if i == nil {
		return 0
	}
	return i.requested.Load()
}

// Track requests a render whenever any source notifies. The returned func
// drops every subscription and may be called more than once.
func (i *Invalidator) Track(sources ...state.Subscribable) func() {
	unsubs := make([]func(), 0, len(sources))
	for _, src := range sources {
		if src != nil {
			unsubs = append(unsubs, src.Subscribe(i.Invalidate))
		}
	}
	var once sync.Once
	return func() {
		once.Do(func() {
			for _, unsub := range unsubs {
				unsub()
			}
		})
	}
}

// Schedule runs fn in place and then requests a render, for subscriptions
// whose only job is to repaint.
func (i *Invalidator) Schedule(fn func()) {
	if fn == nil {
		return
	}
	fn()
	i.Invalidate()
}

func (i *Invalidator) resetPending() {
	if i == nil {
		return
	}
	i.pending.Store(false)
}
