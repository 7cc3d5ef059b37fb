// Package runtime drives boxes and watchers through evaluation passes.
//
// A Loop handles one message per pass. Each pass runs the update function,
// flushes the state queue according to the flush policy, runs callbacks
// registered with AfterPass and renders if anything changed. Watchers
// registered with the loop's scheduler therefore observe writes made during
// update in the same pass.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/odvcencio/furry-toolbelt/state"
)

// ErrLoopRunning is returned by Run when the loop is already running.
var ErrLoopRunning = errors.New("runtime: loop already running")

// UpdateFunc handles a message and returns true if a render is needed.
type UpdateFunc func(loop *Loop, msg Message) bool

// RenderFunc draws the current state. It runs on the loop goroutine.
type RenderFunc func(loop *Loop)

// EventSource supplies terminal events; tcell.Screen satisfies it.
// A nil event ends polling.
type EventSource interface {
	PollEvent() tcell.Event
}

// PassStats describes one evaluation pass.
type PassStats struct {
	Pass      int64
	Message   Message
	Flushed   int
	AfterPass int
	Rendered  bool
	Started   time.Time
	Duration  time.Duration
}

// PassObserver receives stats after every pass.
type PassObserver interface {
	ObservePass(stats PassStats)
}

// PassObserverFunc adapts a function into a PassObserver.
type PassObserverFunc func(PassStats)

// ObservePass calls f.
func (f PassObserverFunc) ObservePass(stats PassStats) {
	if f != nil {
		f(stats)
	}
}

// Config configures a Loop.
type Config struct {
	Events         EventSource
	Root           Node
	Update         UpdateFunc
	Render         RenderFunc
	CommandHandler CommandHandler
	MessageBuffer  int
	TickRate       time.Duration
	Queue          *state.Queue
	FlushPolicy    QueueFlushPolicy
	PassObserver   PassObserver
	Logger         *slog.Logger
}

// Loop runs evaluation passes until quit or context cancellation.
type Loop struct {
	events         EventSource
	root           Node
	update         UpdateFunc
	render         RenderFunc
	commandHandler CommandHandler
	messages       chan Message
	tickRate       time.Duration
	queue          *state.Queue
	queueScheduler *QueueScheduler
	flushPolicy    QueueFlushPolicy
	invalidator    *Invalidator
	observer       PassObserver
	logger         *slog.Logger

	taskMu         sync.Mutex
	taskCtx        context.Context
	taskCancel     context.CancelFunc
	pendingEffects []Effect
	quit           chan struct{}
	scope          *state.Scope

	afterMu   sync.Mutex
	afterPass []func()

	running atomic.Bool
	dirty   bool
	passes  int64
}

// NewLoop creates a Loop from cfg.
func NewLoop(cfg Config) *Loop {
	bufferSize := cfg.MessageBuffer
	if bufferSize <= 0 {
		bufferSize = 128
	}
	queue := cfg.Queue
	if queue == nil {
		queue = state.NewQueue()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	update := cfg.Update
	if update == nil {
		update = DefaultUpdate
	}
	l := &Loop{
		events:         cfg.Events,
		root:           cfg.Root,
		update:         update,
		render:         cfg.Render,
		commandHandler: cfg.CommandHandler,
		messages:       make(chan Message, bufferSize),
		tickRate:       cfg.TickRate,
		queue:          queue,
		flushPolicy:    cfg.FlushPolicy,
		observer:       cfg.PassObserver,
		logger:         logger,
	}
	l.queueScheduler = NewQueueScheduler(queue, l.tryPost)
	l.invalidator = NewInvalidator(l.tryPost)
	l.scope = state.NewScope(l.queueScheduler)
	return l
}

// Queue returns the state queue flushed by each pass.
func (l *Loop) Queue() *state.Queue {
	if l == nil {
		return nil
	}
	return l.queue
}

// Scheduler returns a scheduler that enqueues callbacks for the next pass.
func (l *Loop) Scheduler() state.Scheduler {
	if l == nil || l.queueScheduler == nil {
		return nil
	}
	return l.queueScheduler
}

// InvalidateScheduler returns a scheduler that runs callbacks immediately and
// requests a render.
func (l *Loop) InvalidateScheduler() state.Scheduler {
	if l == nil || l.invalidator == nil {
		return nil
	}
	return l.invalidator
}

// Scope returns the loop's root scope. It uses the loop scheduler and is
// disposed when Run returns; a later Run starts with a fresh scope.
func (l *Loop) Scope() *state.Scope {
	if l == nil {
		return nil
	}
	l.taskMu.Lock()
	defer l.taskMu.Unlock()
	return l.scope
}

// Logger returns the loop logger.
func (l *Loop) Logger() *slog.Logger {
	if l == nil || l.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return l.logger
}

// Running reports whether Run is active.
func (l *Loop) Running() bool {
	return l != nil && l.running.Load()
}

// Invalidate requests a render pass.
func (l *Loop) Invalidate() {
	if l == nil {
		return
	}
	l.invalidator.Invalidate()
}

// InvalidateOn requests a render whenever any source notifies. Tracking
// ends when the returned func is called or when Run returns.
func (l *Loop) InvalidateOn(sources ...state.Subscribable) func() {
	if l == nil {
		return func() {}
	}
	release := l.invalidator.Track(sources...)
	l.Scope().OnCleanup(release)
	return release
}

// PostQueueFlush requests a pass that flushes the state queue.
func (l *Loop) PostQueueFlush() {
	l.Post(QueueFlushMsg{})
}

// Post sends a message to the loop, dropping it if the buffer is full.
func (l *Loop) Post(msg Message) {
	_ = l.tryPost(msg)
}

// TryPost sends a message to the loop without blocking.
func (l *Loop) TryPost(msg Message) bool {
	return l.tryPost(msg)
}

func (l *Loop) tryPost(msg Message) bool {
	if l == nil || l.messages == nil || msg == nil {
		return false
	}
	select {
	case l.messages <- msg:
		return true
	default:
		return false
	}
}

// Spawn starts an effect using the loop task context.
// If Run has not started, the effect is queued until start.
func (l *Loop) Spawn(effect Effect) {
	if l == nil || effect.Run == nil {
		return
	}
	l.taskMu.Lock()
	ctx := l.taskCtx
	if ctx == nil {
		l.pendingEffects = append(l.pendingEffects, effect)
		l.taskMu.Unlock()
		return
	}
	l.taskMu.Unlock()
	go effect.Run(ctx, l.tryPost)
}

// After schedules a delayed message.
func (l *Loop) After(delay time.Duration, msg Message) {
	l.Spawn(After(delay, msg))
}

// Every schedules a recurring message.
func (l *Loop) Every(interval time.Duration, fn func(time.Time) Message) {
	l.Spawn(Every(interval, fn))
}

// Delay runs fn in a pass once delay has elapsed.
func (l *Loop) Delay(delay time.Duration, fn func()) {
	l.Spawn(Delay(delay, fn))
}

// AfterPass runs fn at the end of the current pass, after the state queue
// has been flushed and before rendering. Called outside a pass, it wakes
// the loop for one.
func (l *Loop) AfterPass(fn func()) {
	if l == nil || fn == nil {
		return
	}
	l.afterMu.Lock()
	l.afterPass = append(l.afterPass, fn)
	l.afterMu.Unlock()
	l.queueScheduler.wake()
}

// ExecuteCommand runs a command and reports whether it requires a render.
func (l *Loop) ExecuteCommand(cmd Command) bool {
	if l == nil || cmd == nil {
		return false
	}
	return l.handleCommand(cmd)
}

// Run processes messages until a Quit command or ctx is done. It returns
// ctx.Err(), so a quit yields nil.
func (l *Loop) Run(ctx context.Context) error {
	if l == nil {
		return errors.New("runtime: nil loop")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	l.taskMu.Lock()
	if !l.running.CompareAndSwap(false, true) {
		l.taskMu.Unlock()
		return ErrLoopRunning
	}
	taskCtx, cancel := context.WithCancel(ctx)
	l.taskCtx = taskCtx
	l.taskCancel = cancel
	l.quit = make(chan struct{})
	quit := l.quit
	pending := l.pendingEffects
	l.pendingEffects = nil
	l.taskMu.Unlock()

	defer l.teardown()

	l.logger.Info("loop started", "tick", l.tickRate, "flush", l.flushPolicy.String())
	if l.root != nil {
		BindTree(l.root, l.Services())
		MountTree(l.root)
	}
	for _, effect := range pending {
		go effect.Run(taskCtx, l.tryPost)
	}
	if l.events != nil {
		go l.pollEvents(taskCtx)
	}

	var ticks <-chan time.Time
	if l.tickRate > 0 {
		ticker := time.NewTicker(l.tickRate)
		defer ticker.Stop()
		ticks = ticker.C
	}

	l.dirty = true
	l.renderIfDirty()

	for l.running.Load() {
		select {
		case <-ctx.Done():
			l.stop()
		case <-quit:
		case msg := <-l.messages:
			l.pass(msg)
		case now := <-ticks:
			l.pass(TickMsg{Time: now})
		}
	}
	l.logger.Info("loop stopped", "passes", l.passes)
	return ctx.Err()
}

// DefaultUpdate requests renders for resize and invalidate messages and
// quits on Ctrl-C.
func DefaultUpdate(loop *Loop, msg Message) bool {
	switch m := msg.(type) {
	case ResizeMsg, InvalidateMsg:
		return true
	case KeyMsg:
		if m.Key == tcell.KeyCtrlC {
			loop.ExecuteCommand(Quit{})
		}
		return false
	default:
		return false
	}
}

func (l *Loop) pass(msg Message) {
	if msg == nil {
		return
	}
	l.passes++
	stats := PassStats{Pass: l.passes, Message: msg, Started: time.Now()}

	var dirty bool
	if fm, ok := msg.(funcMsg); ok {
		fm.fn()
		dirty = true
	} else {
		dirty = l.update(l, msg)
	}
	if !l.running.Load() {
		return
	}

	if shouldFlushQueue(l.flushPolicy, msg) {
		l.queueScheduler.resetPending()
		stats.Flushed = l.queue.Flush()
		if stats.Flushed > 0 {
			dirty = true
		}
	}
	if _, ok := msg.(InvalidateMsg); ok {
		l.invalidator.resetPending()
	}
	stats.AfterPass = l.runAfterPass()

	if dirty {
		l.dirty = true
	}
	stats.Rendered = l.renderIfDirty()
	stats.Duration = time.Since(stats.Started)

	l.logger.Debug("pass",
		"pass", stats.Pass,
		"message", fmt.Sprintf("%T", msg),
		"flushed", stats.Flushed,
		"after_pass", stats.AfterPass,
		"rendered", stats.Rendered,
	)
	if l.observer != nil {
		l.observer.ObservePass(stats)
	}
}

func (l *Loop) runAfterPass() int {
	l.afterMu.Lock()
	fns := l.afterPass
	l.afterPass = nil
	l.afterMu.Unlock()
	for _, fn := range fns {
		fn()
	}
	return len(fns)
}

func (l *Loop) renderIfDirty() bool {
	if !l.dirty {
		return false
	}
	l.dirty = false
	if l.render == nil {
		return false
	}
	l.render(l)
	return true
}

func (l *Loop) handleCommand(cmd Command) bool {
	switch c := cmd.(type) {
	case Quit:
		l.stop()
		return false
	case Refresh:
		l.Invalidate()
		return true
	case SendMsg:
		if c.Message != nil {
			l.Post(c.Message)
		}
		return false
	case Effect:
		l.Spawn(c)
		return false
	default:
		if l.commandHandler != nil {
			return l.commandHandler(cmd)
		}
		l.logger.Warn("unhandled command", "command", fmt.Sprintf("%T", cmd))
		return false
	}
}

func (l *Loop) pollEvents(ctx context.Context) {
	for {
		ev := l.events.PollEvent()
		if ev == nil || ctx.Err() != nil {
			return
		}
		if msg := fromEvent(ev); msg != nil {
			l.Post(msg)
		}
	}
}

func (l *Loop) stop() {
	l.taskMu.Lock()
	defer l.taskMu.Unlock()
	if !l.running.CompareAndSwap(true, false) {
		return
	}
	if l.quit != nil {
		close(l.quit)
	}
	if l.taskCancel != nil {
		l.taskCancel()
	}
}

// teardown unmounts the root, disposes the scope and resets the task
// context so Run can be called again.
func (l *Loop) teardown() {
	l.stop()
	if l.root != nil {
		UnmountTree(l.root)
		UnbindTree(l.root)
	}

	l.taskMu.Lock()
	scope := l.scope
	l.scope = state.NewScope(l.queueScheduler)
	l.taskCtx = nil
	l.taskCancel = nil
	l.quit = nil
	l.taskMu.Unlock()
	scope.Dispose()

	l.afterMu.Lock()
	l.afterPass = nil
	l.afterMu.Unlock()
}
