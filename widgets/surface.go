// Package widgets renders boxes onto a terminal surface.
package widgets

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// Surface is a grid of terminal cells; tcell.Screen satisfies it.
type Surface interface {
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
	Size() (width, height int)
}

// Rect is a cell rectangle.
type Rect struct {
	X, Y, Width, Height int
}

// Empty reports whether r covers no cells.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Alignment positions text inside its bounds.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

// Base stores layout bounds and a render-needed flag.
type Base struct {
	bounds      Rect
	needsRender bool
}

// Layout stores the assigned bounds.
func (b *Base) Layout(bounds Rect) {
	if b == nil {
		return
	}
	if b.bounds != bounds {
		b.bounds = bounds
		b.needsRender = true
	}
}

// Bounds returns the assigned bounds.
func (b *Base) Bounds() Rect {
	if b == nil {
		return Rect{}
	}
	return b.bounds
}

// Invalidate marks the widget as needing a render pass.
func (b *Base) Invalidate() {
	if b == nil {
		return
	}
	b.needsRender = true
}

// NeedsRender reports whether the widget needs to re-render.
func (b *Base) NeedsRender() bool {
	if b == nil {
		return false
	}
	return b.needsRender
}

// ClearInvalidation clears the render-needed flag.
func (b *Base) ClearInvalidation() {
	if b == nil {
		return
	}
	b.needsRender = false
}

// drawString writes text starting at x and returns the column after it.
// Wide runes advance by their cell width; nothing is drawn past maxX.
func drawString(s Surface, x, y, maxX int, text string, style tcell.Style) int {
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if x+w > maxX {
			break
		}
		s.SetContent(x, y, r, nil, style)
		x += w
	}
	return x
}

// fillRect fills bounds with ch, clipped to the surface.
func fillRect(s Surface, bounds Rect, ch rune, style tcell.Style) {
	sw, sh := s.Size()
	for y := max(bounds.Y, 0); y < min(bounds.Y+bounds.Height, sh); y++ {
		for x := max(bounds.X, 0); x < min(bounds.X+bounds.Width, sw); x++ {
			s.SetContent(x, y, ch, nil, style)
		}
	}
}

// truncateString truncates s to maxWidth cells, ending in "..." when cut.
func truncateString(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	return runewidth.Truncate(s, maxWidth, "...")
}

// padRight pads s with spaces to width cells.
func padRight(s string, width int) string {
	return runewidth.FillRight(s, width)
}

// alignOffset returns the column offset of text within width.
func alignOffset(text string, width int, align Alignment) int {
	gap := width - runewidth.StringWidth(text)
	if gap <= 0 {
		return 0
	}
	switch align {
	case AlignCenter:
		return gap / 2
	case AlignRight:
		return gap
	default:
		return 0
	}
}
