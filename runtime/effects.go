package runtime

import (
	"context"
	"time"
)

// After posts a message after a delay.
func After(delay time.Duration, msg Message) Effect {
	return Effect{
		Run: func(ctx context.Context, post PostFunc) {
			if msg == nil || post == nil {
				return
			}
			if delay <= 0 {
				post(msg)
				return
			}
			if sleep(ctx, delay) {
				post(msg)
			}
		},
	}
}

// Every posts messages on a fixed interval.
// Returning nil from fn skips posting.
func Every(interval time.Duration, fn func(time.Time) Message) Effect {
	return Effect{
		Run: func(ctx context.Context, post PostFunc) {
			if interval <= 0 || fn == nil || post == nil {
				return
			}
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case now := <-ticker.C:
					if msg := fn(now); msg != nil {
						post(msg)
					}
				}
			}
		},
	}
}

// Delay runs fn on the loop goroutine once delay has elapsed, as part of an
// evaluation pass. Nothing runs if the loop stops first.
func Delay(delay time.Duration, fn func()) Effect {
	if fn == nil {
		return Effect{}
	}
	return After(delay, funcMsg{fn: fn})
}

// funcMsg runs a callback inside a pass before update sees the message.
type funcMsg struct {
	fn func()
}

func (funcMsg) isMessage() {}

func sleep(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
