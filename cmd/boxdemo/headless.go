package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/odvcencio/furry-toolbelt/internal/config"
	"github.com/odvcencio/furry-toolbelt/runtime"
	"github.com/odvcencio/furry-toolbelt/watch"
)

type scriptStep struct {
	step string
}

type scriptDone struct{}

// runHeadless applies steps one per pass and prints every change seen by
// the watchers.
func runHeadless(ctx context.Context, out io.Writer, cfg *config.Config, steps []string, logger *slog.Logger) error {
	c := newCounter(cfg.Counter)

	lc := loopConfig(cfg, logger)
	lc.TickRate = 0
	// Every step is posted before Run, plus done and one queue flush.
	if need := len(steps) + 2; lc.MessageBuffer < need {
		lc.MessageBuffer = need
	}

	var stepErr error
	lc.Update = func(l *runtime.Loop, msg runtime.Message) bool {
		custom, ok := msg.(runtime.CustomMsg)
		if !ok {
			return runtime.DefaultUpdate(l, msg)
		}
		switch v := custom.Value.(type) {
		case scriptStep:
			if err := c.apply(v.step); err != nil && stepErr == nil {
				stepErr = err
				l.ExecuteCommand(runtime.Quit{})
			}
		case scriptDone:
			l.Queue().Flush()
			l.ExecuteCommand(runtime.Quit{})
		}
		return false
	}
	loop := runtime.NewLoop(lc)

	watchOpts := []watch.Option{
		watch.WithScheduler(loop.Scheduler()),
		watch.InScope(loop.Scope()),
		watch.WithLogger(logger),
	}
	watch.Sync[string](c.title, func(title string) {
		fmt.Fprintln(out, title)
	}, watchOpts...)
	watch.Watch[int](c.double, func(curr, prev int) {
		fmt.Fprintf(out, "double: %d -> %d\n", prev, curr)
	}, watchOpts...)
	watch.Watch[int](c.count, func(curr, _ int) {
		fmt.Fprintf(out, "first change: %d\n", curr)
	}, append(watchOpts, watch.Once())...)

	for _, step := range steps {
		loop.Post(runtime.CustomMsg{Value: scriptStep{step: step}})
	}
	loop.Post(runtime.CustomMsg{Value: scriptDone{}})

	if err := runLoop(ctx, loop); err != nil {
		return err
	}
	if stepErr != nil {
		return stepErr
	}
	fmt.Fprintf(out, "final: count=%d double=%d\n", c.count.Current(), c.double.Current())
	return nil
}
