// Package scroll tracks a vertical window over a list of rows and the
// scrollbar drawn beside it.
package scroll

// Policy configures when a scrollbar appears.
type Policy int

const (
	Auto Policy = iota
	Always
	Never
)

// Window is the visible slice of a row list.
type Window struct {
	offset int
	rows   int
	height int
}

// Resize sets the row count and visible height and clamps the offset.
func (w *Window) Resize(rows, height int) {
	w.rows = max(rows, 0)
	w.height = max(height, 0)
	w.offset = w.clamp(w.offset)
}

// Rows returns the row count.
func (w *Window) Rows() int { return w.rows }

// Height returns the visible height.
func (w *Window) Height() int { return w.height }

// Offset returns the first visible row.
func (w *Window) Offset() int { return w.offset }

// MaxOffset returns the largest valid offset.
func (w *Window) MaxOffset() int {
	return max(w.rows-w.height, 0)
}

// ScrollTo moves the first visible row to offset.
func (w *Window) ScrollTo(offset int) {
	w.offset = w.clamp(offset)
}

// ScrollBy moves the window by delta rows.
func (w *Window) ScrollBy(delta int) {
	w.ScrollTo(w.offset + delta)
}

// Reveal scrolls the minimum distance that makes index visible.
func (w *Window) Reveal(index int) {
	if w.height == 0 {
		return
	}
	if index < w.offset {
		w.ScrollTo(index)
	} else if index >= w.offset+w.height {
		w.ScrollTo(index - w.height + 1)
	}
}

// Visible returns the half-open row range [start, end) on screen.
func (w *Window) Visible() (start, end int) {
	return w.offset, min(w.offset+w.height, w.rows)
}

// Overflows reports whether some rows are off screen.
func (w *Window) Overflows() bool {
	return w.rows > w.height
}

// ShowBar applies policy to the window.
func (w *Window) ShowBar(policy Policy) bool {
	switch policy {
	case Always:
		return w.height > 0
	case Never:
		return false
	default:
		return w.height > 0 && w.Overflows()
	}
}

// Thumb returns the scrollbar thumb position and length within a track of
// Height cells. The thumb is at least one cell long.
func (w *Window) Thumb() (pos, size int) {
	if w.height == 0 {
		return 0, 0
	}
	if !w.Overflows() {
		return 0, w.height
	}
	size = max(w.height*w.height/w.rows, 1)
	if travel := w.MaxOffset(); travel > 0 {
		pos = (w.height - size) * w.offset / travel
	}
	return pos, size
}

func (w *Window) clamp(offset int) int {
	return min(max(offset, 0), w.MaxOffset())
}

// Chars are the runes used to draw a vertical scrollbar.
type Chars struct {
	Track rune
	Thumb rune
}

// DefaultChars returns ASCII defaults.
func DefaultChars() Chars {
	return Chars{
		Track: '|',
		Thumb: '#',
	}
}

// Bar returns the rune for each track cell, top to bottom.
func (w *Window) Bar(chars Chars) []rune {
	cells := make([]rune, w.height)
	pos, size := w.Thumb()
	for i := range cells {
		if i >= pos && i < pos+size {
			cells[i] = chars.Thumb
		} else {
			cells[i] = chars.Track
		}
	}
	return cells
}
