package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gdamore/tcell/v2"

	"github.com/odvcencio/furry-toolbelt/box"
	"github.com/odvcencio/furry-toolbelt/internal/config"
	"github.com/odvcencio/furry-toolbelt/runtime"
	"github.com/odvcencio/furry-toolbelt/watch"
	"github.com/odvcencio/furry-toolbelt/widgets"
)

const helpText = "+/- change  up/down select  enter call  r reset  q quit"

// panel is the interactive root: title, field table, status and help rows.
type panel struct {
	*widgets.Column
	counter *counter
	title   *widgets.BoxLabel
	table   *widgets.FieldTable
	status  *widgets.BoxLabel
	help    *widgets.BoxLabel
	changes box.Writable[string]
	watcher *watch.Watcher[int]
	logger  *slog.Logger
}

func newPanel(c *counter, logger *slog.Logger) *panel {
	p := &panel{
		counter: c,
		title:   widgets.NewBoxLabel(c.title),
		table:   widgets.NewFieldTable(c.view),
		changes: box.New(""),
		help:    widgets.NewBoxLabel(helpText),
		logger:  logger,
	}
	p.status = widgets.NewBoxLabel(p.changes)
	p.title.SetAlignment(widgets.AlignCenter)
	p.title.SetStyle(tcell.StyleDefault.Bold(true))
	p.help.SetStyle(tcell.StyleDefault.Dim(true))
	p.Column = widgets.NewColumn().
		Add(p.title, 1).
		Add(p.table, 0).
		Add(p.status, 1).
		Add(p.help, 1)
	return p
}

// Mount runs after the tree is bound, so the table can track the count.
func (p *panel) Mount() {
	p.table.Track(p.counter.count)
	p.watcher = watch.Watch[int](p.counter.double, func(curr, prev int) {
		p.changes.SetCurrent(fmt.Sprintf("double %d -> %d", prev, curr))
		p.logger.Debug("double changed", "prev", prev, "curr", curr)
	}, watch.WithScheduler(p.table.Scheduler()), watch.WithLogger(p.logger))
}

func (p *panel) Unmount() {
	p.watcher.Stop()
	p.watcher = nil
}

// handleKey applies a key and reports whether the loop should quit.
func (p *panel) handleKey(key runtime.KeyMsg) (quit bool) {
	switch key.Key {
	case tcell.KeyEscape:
		return true
	case tcell.KeyUp:
		p.table.MoveSelection(-1)
	case tcell.KeyDown:
		p.table.MoveSelection(1)
	case tcell.KeyEnter:
		if name, ok := p.table.Selected(); ok && !p.counter.call(name) {
			p.changes.SetCurrent(name + " is not callable")
		}
	case tcell.KeyRune:
		switch key.Rune {
		case 'q':
			return true
		case '+', '=':
			p.counter.increment()
		case '-', '_':
			p.counter.decrement()
		case 'r':
			p.counter.reset()
		}
	}
	return false
}

func runInteractive(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to init screen: %w", err)
	}
	defer screen.Fini()

	root := newPanel(newCounter(cfg.Counter), logger)
	width, height := screen.Size()
	root.Layout(widgets.Rect{Width: width, Height: height})

	lc := loopConfig(cfg, logger)
	lc.Events = screen
	lc.Root = root
	lc.Update = func(l *runtime.Loop, msg runtime.Message) bool {
		switch m := msg.(type) {
		case runtime.ResizeMsg:
			root.Layout(widgets.Rect{Width: m.Width, Height: m.Height})
			screen.Sync()
		case runtime.KeyMsg:
			if root.handleKey(m) {
				l.ExecuteCommand(runtime.Quit{})
				return false
			}
			runtime.DefaultUpdate(l, msg)
			return true
		}
		return runtime.DefaultUpdate(l, msg)
	}
	lc.Render = func(*runtime.Loop) {
		screen.Clear()
		root.Render(screen)
		screen.Show()
	}

	logger.Info("boxdemo started", "width", width, "height", height, "flush", cfg.Loop.FlushPolicy)
	return runLoop(ctx, runtime.NewLoop(lc))
}
