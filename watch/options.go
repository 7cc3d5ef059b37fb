package watch

import (
	"log/slog"

	"github.com/odvcencio/furry-toolbelt/state"
)

// Option configures a Watcher.
type Option func(*options)

type options struct {
	immediate bool
	once      bool
	scheduler state.Scheduler
	scope     *state.Scope
	logger    *slog.Logger
}

// Immediate fires the callback with (initial, initial) on registration and
// compares in the pre phase on every later pass.
func Immediate() Option {
	return func(o *options) {
		o.immediate = true
	}
}

// Once stops the callback from firing after its first invocation.
func Once() Option {
	return func(o *options) {
		o.once = true
	}
}

// WithScheduler routes change checks through scheduler. A state.Queue
// defers them until the queue is flushed.
func WithScheduler(scheduler state.Scheduler) Option {
	return func(o *options) {
		o.scheduler = scheduler
	}
}

// InScope stops the watcher when scope is disposed. Unless WithScheduler is
// also given, the scope's scheduler is used for change checks.
func InScope(scope *state.Scope) Option {
	return func(o *options) {
		o.scope = scope
	}
}

// WithLogger enables debug logging of registration, firing and disposal.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func collect(opts []Option) options {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.scheduler == nil && o.scope != nil {
		o.scheduler = o.scope.Scheduler()
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	return o
}
