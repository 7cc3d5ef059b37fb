package state

import "sync"

type subscriber struct {
	id        uint64
	fn        func()
	scheduler Scheduler
}

// subscriberList keeps listeners in registration order so notifications
// are delivered deterministically.
type subscriberList struct {
	mu   sync.Mutex
	subs []subscriber
	next uint64
}

func (l *subscriberList) add(scheduler Scheduler, fn func()) func() {
	l.mu.Lock()
	id := l.next
	l.next++
	l.subs = append(l.subs, subscriber{id: id, fn: fn, scheduler: scheduler})
	l.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			l.remove(id)
		})
	}
}

func (l *subscriberList) remove(id uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, sub := range l.subs {
		if sub.id != id {
			continue
		}
		l.subs = append(l.subs[:i:i], l.subs[i+1:]...)
		return
	}
}

func (l *subscriberList) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.subs)
}

// snapshot copies the listeners so they can be invoked without holding the lock.
func (l *subscriberList) snapshot() []subscriber {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.subs) == 0 {
		return nil
	}
	subs := make([]subscriber, len(l.subs))
	copy(subs, l.subs)
	return subs
}

func (l *subscriberList) notify() {
	for _, sub := range l.snapshot() {
		if sub.fn == nil {
			continue
		}
		if sub.scheduler == nil {
			sub.fn()
			continue
		}
		sub.scheduler.Schedule(sub.fn)
	}
}
