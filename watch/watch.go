// Package watch observes box transitions.
//
// A Watcher remembers the value a box held the last time its callback ran
// and calls back with (current, previous) whenever a notification from the
// box reveals a different value:
//
//	count := box.New(0)
//	w := watch.Watch(count, func(curr, prev int) {
//		fmt.Println(prev, "->", curr)
//	})
//	defer w.Stop()
//	count.SetCurrent(1) // prints "0 -> 1"
//
// A check compares the box's value with the previous one once and fires at
// most once. Immediate watchers log their checks under the "pre" phase and
// the others under "post"; the phase is only a label and changes no timing.
package watch

import (
	"log/slog"
	"reflect"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/odvcencio/furry-toolbelt/box"
	"github.com/odvcencio/furry-toolbelt/state"
)

// Callback receives the current value and the value seen when the callback
// last ran, or the value at registration.
type Callback[T any] func(curr, prev T)

// Watcher calls a Callback on box transitions until stopped.
type Watcher[T any] struct {
	mu        sync.Mutex
	id        ulid.ULID
	src       box.Readable[T]
	cb        Callback[T]
	equal     state.EqualFunc[T]
	prev      T
	immediate bool
	once      bool
	fired     bool
	running   bool
	pending   bool
	stopped   bool
	unsub     func()
	stopOnce  sync.Once
	logger    *slog.Logger
}

// Watch registers cb on b, comparing values with ==. When T is an interface
// type, values whose dynamic type cannot be compared (slices, maps, funcs)
// are always treated as changed.
func Watch[T comparable](b box.Readable[T], cb Callback[T], opts ...Option) *Watcher[T] {
	return WatchFunc(b, sameValue[T], cb, opts...)
}

func sameValue[T comparable](a, b T) bool {
	if !comparableValue(a) || !comparableValue(b) {
		return false
	}
	return a == b
}

// comparableValue reports whether == on v cannot panic. Untyped nil is
// comparable.
func comparableValue(v any) bool {
	rv := reflect.ValueOf(v)
	return !rv.IsValid() || rv.Comparable()
}

// WatchFunc registers cb on b using equal to decide whether a value changed.
// A nil equal treats every check as a change.
func WatchFunc[T any](b box.Readable[T], equal state.EqualFunc[T], cb Callback[T], opts ...Option) *Watcher[T] {
	if !box.IsBox(b) {
		panic("watch: nil box")
	}
	if cb == nil {
		panic("watch: nil callback")
	}
	if equal == nil {
		equal = func(T, T) bool { return false }
	}
	o := collect(opts)
	w := &Watcher[T]{
		id:        state.NewID(),
		src:       b,
		cb:        cb,
		equal:     equal,
		prev:      b.Current(),
		immediate: o.immediate,
		once:      o.once,
	}
	w.logger = o.logger.With("watcher", w.id.String())

	notify := w.Check
	if o.scheduler != nil {
		scheduler := o.scheduler
		notify = func() { scheduler.Schedule(w.Check) }
	}
	w.unsub = b.Subscribe(notify)
	if o.scope != nil {
		o.scope.OnCleanup(w.Stop)
	}
	w.logger.Debug("watch registered", "immediate", w.immediate, "once", w.once)

	if w.immediate {
		w.run(true)
	}
	return w
}

// ID returns the watcher identifier.
func (w *Watcher[T]) ID() ulid.ULID {
	if w == nil {
		return ulid.ULID{}
	}
	return w.id
}

// Check re-reads the box and fires the callback if the value changed.
// Notifications from the box call Check; callers may also call it to force a
// re-evaluation. Checks requested while the callback is running are folded
// into one more pass once it returns.
func (w *Watcher[T]) Check() {
	if w == nil {
		return
	}
	w.run(false)
}

// Stop unsubscribes the watcher and releases the box and callback. It is
// safe to call more than once.
func (w *Watcher[T]) Stop() {
	if w == nil {
		return
	}
	w.stopOnce.Do(func() {
		w.mu.Lock()
		w.stopped = true
		unsub := w.unsub
		w.unsub = nil
		w.src = nil
		w.cb = nil
		w.mu.Unlock()
		if unsub != nil {
			unsub()
		}
		w.logger.Debug("watch stopped")
	})
}

// Stopped reports whether Stop has run.
func (w *Watcher[T]) Stopped() bool {
	if w == nil {
		return true
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stopped
}

func (w *Watcher[T]) run(initial bool) {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	if w.running {
		w.pending = true
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.running = false
		w.pending = false
		w.mu.Unlock()
	}()

	if initial {
		w.fireInitial()
	} else {
		w.evaluate()
	}
	for w.takePending() {
		w.evaluate()
	}
}

func (w *Watcher[T]) takePending() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	again := w.pending && !w.stopped
	w.pending = false
	return again
}

func (w *Watcher[T]) fireInitial() {
	w.mu.Lock()
	cb, prev := w.cb, w.prev
	w.mu.Unlock()
	if cb == nil {
		return
	}
	w.logger.Debug("watch fired", "phase", "register")
	cb(prev, prev)
	w.mu.Lock()
	w.fired = true
	w.mu.Unlock()
}

func (w *Watcher[T]) evaluate() {
	w.mu.Lock()
	if w.stopped || (w.once && w.fired) {
		w.mu.Unlock()
		return
	}
	src, cb, prev := w.src, w.cb, w.prev
	w.mu.Unlock()

	curr := src.Current()
	if w.equal(curr, prev) {
		return
	}
	phase := "post"
	if w.immediate {
		phase = "pre"
	}
	w.logger.Debug("watch fired", "phase", phase)
	cb(curr, prev)

	w.mu.Lock()
	w.prev = curr
	w.fired = true
	w.mu.Unlock()
}
