package widgets

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/odvcencio/furry-toolbelt/box"
	"github.com/odvcencio/furry-toolbelt/state"
	"github.com/odvcencio/furry-toolbelt/watch"
)

// BoxLabel is a one-line label that follows a string box while mounted.
type BoxLabel struct {
	Component
	source    box.Readable[string]
	scheduler state.Scheduler
	watcher   *watch.Watcher[string]
	text      string
	style     tcell.Style
	alignment Alignment
}

// NewBoxLabel creates a label over source, which may be a string, a string
// box, a getter or host state; see box.From.
func NewBoxLabel(source any) *BoxLabel {
	b := box.From[string](source)
	return &BoxLabel{
		source: b,
		text:   b.Current(),
		style:  tcell.StyleDefault,
	}
}

// Source returns the box the label follows.
func (l *BoxLabel) Source() box.Readable[string] {
	return l.source
}

// Text returns the text last synced from the source.
func (l *BoxLabel) Text() string {
	return l.text
}

// SetText writes through the source box. It fails with box.ErrReadOnly for
// read-only sources.
func (l *BoxLabel) SetText(text string) error {
	return box.Set(l.source, text)
}

// SetScheduler sets the scheduler used when the label is not bound to a loop.
func (l *BoxLabel) SetScheduler(scheduler state.Scheduler) {
	l.scheduler = scheduler
}

// SetStyle sets the label style.
func (l *BoxLabel) SetStyle(style tcell.Style) {
	l.style = style
}

// SetAlignment sets text alignment.
func (l *BoxLabel) SetAlignment(align Alignment) {
	l.alignment = align
}

// Width returns the cell width of the current text.
func (l *BoxLabel) Width() int {
	return runewidth.StringWidth(l.text)
}

// Mount starts following the source.
func (l *BoxLabel) Mount() {
	l.watcher.Stop()
	scheduler := l.Scheduler()
	if scheduler == nil {
		scheduler = l.scheduler
	}
	opts := []watch.Option{watch.WithScheduler(scheduler)}
	if l.Scope != nil {
		opts = append(opts, watch.InScope(l.Scope), watch.WithLogger(l.Services.Logger()))
	}
	l.watcher = watch.Sync(l.source, l.onText, opts...)
}

// Unmount stops following the source.
func (l *BoxLabel) Unmount() {
	l.watcher.Stop()
	l.watcher = nil
}

// Render draws the label on the first row of its bounds.
func (l *BoxLabel) Render(s Surface) {
	bounds := l.bounds
	if bounds.Empty() || s == nil {
		return
	}
	fillRect(s, Rect{X: bounds.X, Y: bounds.Y, Width: bounds.Width, Height: 1}, ' ', l.style)
	text := truncateString(l.text, bounds.Width)
	x := bounds.X + alignOffset(text, bounds.Width, l.alignment)
	drawString(s, x, bounds.Y, bounds.X+bounds.Width, text, l.style)
	l.ClearInvalidation()
}

func (l *BoxLabel) onText(text string) {
	l.text = text
	l.Invalidate()
}
