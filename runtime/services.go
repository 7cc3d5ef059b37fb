package runtime

import (
	"log/slog"
	"time"

	"github.com/odvcencio/furry-toolbelt/state"
)

// Services exposes loop scheduling and messaging helpers to bound nodes.
type Services struct {
	loop *Loop
}

// Services returns a service handle for the loop.
func (l *Loop) Services() Services {
	return Services{loop: l}
}

func (s Services) isZero() bool {
	return s.loop == nil
}

// Scheduler returns the loop state scheduler.
func (s Services) Scheduler() state.Scheduler {
	return s.loop.Scheduler()
}

// InvalidateScheduler returns the loop invalidation scheduler.
func (s Services) InvalidateScheduler() state.Scheduler {
	return s.loop.InvalidateScheduler()
}

// Scope returns a new child of the loop scope, or nil without a loop.
func (s Services) Scope() *state.Scope {
	if s.loop == nil {
		return nil
	}
	return s.loop.Scope().Child()
}

// Logger returns the loop logger.
func (s Services) Logger() *slog.Logger {
	return s.loop.Logger()
}

// Invalidate requests a render pass.
func (s Services) Invalidate() {
	s.loop.Invalidate()
}

// InvalidateOn requests a render whenever any source notifies.
func (s Services) InvalidateOn(sources ...state.Subscribable) func() {
	return s.loop.InvalidateOn(sources...)
}

// Post sends a message into the loop.
func (s Services) Post(msg Message) bool {
	return s.loop.tryPost(msg)
}

// Execute runs a command on the loop.
func (s Services) Execute(cmd Command) bool {
	return s.loop.ExecuteCommand(cmd)
}

// Spawn starts an effect using the loop task context.
func (s Services) Spawn(effect Effect) {
	s.loop.Spawn(effect)
}

// After schedules a delayed message.
func (s Services) After(delay time.Duration, msg Message) {
	s.loop.After(delay, msg)
}

// Every schedules a recurring message.
func (s Services) Every(interval time.Duration, fn func(time.Time) Message) {
	s.loop.Every(interval, fn)
}

// Delay runs fn in a pass once delay has elapsed.
func (s Services) Delay(delay time.Duration, fn func()) {
	s.loop.Delay(delay, fn)
}

// AfterPass runs fn at the end of the current or next pass.
func (s Services) AfterPass(fn func()) {
	s.loop.AfterPass(fn)
}
