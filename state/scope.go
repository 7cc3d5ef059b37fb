package state

import (
	"sync"

	"github.com/oklog/ulid/v2"
)

// Scope owns disposers for a computation's lifetime.
//
// Scopes nest: disposing a scope disposes its children first, then runs its
// own cleanups in reverse registration order. The zero value is usable.
type Scope struct {
	mu       sync.Mutex
	id       ulid.ULID
	parent   *Scope
	children []*Scope
	cleanups []func()
	sched    Scheduler
	disposed bool
}

// NewScope creates a root scope with a default scheduler.
func NewScope(scheduler Scheduler) *Scope {
	return &Scope{id: NewID(), sched: scheduler}
}

// ID returns the scope identifier. Zero-value scopes report a zero ID.
func (s *Scope) ID() ulid.ULID {
	if s == nil {
		return ulid.ULID{}
	}
	return s.id
}

// Child creates a nested scope inheriting the default scheduler.
// A child of a disposed scope is returned already disposed.
func (s *Scope) Child() *Scope {
	if s == nil {
		return NewScope(nil)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	child := &Scope{id: NewID(), parent: s, sched: s.sched}
	if s.disposed {
		child.disposed = true
		return child
	}
	s.children = append(s.children, child)
	return child
}

// Parent returns the enclosing scope, or nil for a root.
func (s *Scope) Parent() *Scope {
	if s == nil {
		return nil
	}
	return s.parent
}

// SetScheduler updates the default scheduler.
func (s *Scope) SetScheduler(scheduler Scheduler) {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.sched = scheduler
	s.mu.Unlock()
}

// Scheduler returns the default scheduler.
func (s *Scope) Scheduler() Scheduler {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sched
}

// OnCleanup registers fn to run when the scope is disposed.
// On an already disposed scope fn runs immediately.
func (s *Scope) OnCleanup(fn func()) {
	if s == nil || fn == nil {
		return
	}
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		fn()
		return
	}
	s.cleanups = append(s.cleanups, fn)
	s.mu.Unlock()
}

// Subscribe registers a synchronous listener and tracks the unsubscribe.
func (s *Scope) Subscribe(sub Subscribable, fn func()) {
	s.SubscribeWithScheduler(sub, nil, fn)
}

// Observe registers a listener using the default scheduler.
func (s *Scope) Observe(sub Subscribable, fn func()) {
	if s == nil {
		return
	}
	s.SubscribeWithScheduler(sub, s.Scheduler(), fn)
}

// SubscribeWithScheduler registers a listener using a scheduler and tracks it.
// Sources without scheduler support get the scheduler applied around fn.
func (s *Scope) SubscribeWithScheduler(sub Subscribable, scheduler Scheduler, fn func()) {
	if s == nil || sub == nil || fn == nil {
		return
	}
	var unsub func()
	switch {
	case scheduler == nil:
		unsub = sub.Subscribe(fn)
	default:
		if sched, ok := sub.(interface {
			SubscribeWithScheduler(Scheduler, func()) func()
		}); ok {
			unsub = sched.SubscribeWithScheduler(scheduler, fn)
		} else {
			unsub = sub.Subscribe(func() { scheduler.Schedule(fn) })
		}
	}
	s.OnCleanup(unsub)
}

// Disposed reports whether Dispose has run.
func (s *Scope) Disposed() bool {
	if s == nil {
		return true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disposed
}

// Clear runs the scope's cleanups and disposes its children but leaves the
// scope open for new registrations.
func (s *Scope) Clear() {
	if s == nil {
		return
	}
	s.mu.Lock()
	children := s.children
	cleanups := s.cleanups
	s.children = nil
	s.cleanups = nil
	s.mu.Unlock()
	s.release(children, cleanups)
}

// Dispose releases everything the scope owns. Calling it again is a no-op.
func (s *Scope) Dispose() {
	if s == nil {
		return
	}
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return
	}
	s.disposed = true
	children := s.children
	cleanups := s.cleanups
	s.children = nil
	s.cleanups = nil
	parent := s.parent
	s.mu.Unlock()

	s.release(children, cleanups)
	if parent != nil {
		parent.removeChild(s)
	}
}

func (s *Scope) release(children []*Scope, cleanups []func()) {
	for _, child := range children {
		child.detachAndDispose()
	}
	for i := len(cleanups) - 1; i >= 0; i-- {
		if cleanups[i] != nil {
			cleanups[i]()
		}
	}
}

// detachAndDispose disposes a child whose parent already dropped it.
func (s *Scope) detachAndDispose() {
	s.mu.Lock()
	s.parent = nil
	s.mu.Unlock()
	s.Dispose()
}

func (s *Scope) removeChild(child *Scope) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.children {
		if c == child {
			s.children = append(s.children[:i:i], s.children[i+1:]...)
			return
		}
	}
}
