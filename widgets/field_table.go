package widgets

import (
	"fmt"
	"reflect"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/odvcencio/furry-toolbelt/box"
	"github.com/odvcencio/furry-toolbelt/scroll"
	"github.com/odvcencio/furry-toolbelt/state"
)

const readOnlySuffix = " (read-only)"

// FieldRow is one rendered View field.
type FieldRow struct {
	Key   string
	Value string
	Kind  box.FieldKind
}

// FieldTable lists the fields of a flattened view, one per row, with a
// movable selection.
type FieldTable struct {
	Component
	view          *box.View
	selected      int
	window        scroll.Window
	scrollbar     scroll.Policy
	barChars      scroll.Chars
	style         tcell.Style
	selectedStyle tcell.Style
	readOnlyStyle tcell.Style
}

// NewFieldTable creates a table over view.
func NewFieldTable(view *box.View) *FieldTable {
	return &FieldTable{
		view:          view,
		style:         tcell.StyleDefault,
		selectedStyle: tcell.StyleDefault.Reverse(true),
		readOnlyStyle: tcell.StyleDefault.Dim(true),
		barChars:      scroll.DefaultChars(),
	}
}

// SetScrollbar sets when the scrollbar is drawn in the last column.
func (t *FieldTable) SetScrollbar(policy scroll.Policy) {
	t.scrollbar = policy
}

// View returns the underlying view.
func (t *FieldTable) View() *box.View {
	if t == nil {
		return nil
	}
	return t.view
}

// Rows returns the current field values in key order.
func (t *FieldTable) Rows() []FieldRow {
	if t == nil || t.view == nil {
		return nil
	}
	keys := t.view.Keys()
	rows := make([]FieldRow, 0, len(keys))
	for _, key := range keys {
		kind, _ := t.view.Kind(key)
		value, _ := t.view.Get(key)
		rows = append(rows, FieldRow{Key: key, Value: formatValue(value), Kind: kind})
	}
	return rows
}

// Selected returns the selected key.
func (t *FieldTable) Selected() (string, bool) {
	keys := t.View().Keys()
	if len(keys) == 0 {
		return "", false
	}
	return keys[clamp(t.selected, 0, len(keys)-1)], true
}

// Select moves the selection to key.
func (t *FieldTable) Select(key string) bool {
	for i, k := range t.View().Keys() {
		if k == key {
			t.selected = i
			t.Base.Invalidate()
			return true
		}
	}
	return false
}

// MoveSelection moves the selection by delta rows, clamped to the table.
func (t *FieldTable) MoveSelection(delta int) {
	if t == nil {
		return
	}
	n := t.view.Len()
	if n == 0 {
		t.selected = 0
		return
	}
	t.selected = clamp(t.selected+delta, 0, n-1)
	t.Base.Invalidate()
}

// Track invalidates the table whenever any of sources notifies. It needs
// the table to be bound; registrations end with Unbind.
func (t *FieldTable) Track(sources ...state.Subscribable) {
	for _, src := range sources {
		t.Observe(src, t.Invalidate)
	}
}

// Render draws the rows inside the table bounds.
func (t *FieldTable) Render(s Surface) {
	if t == nil || s == nil {
		return
	}
	bounds := t.bounds
	if bounds.Empty() {
		return
	}
	fillRect(s, bounds, ' ', t.style)
	rows := t.Rows()
	if len(rows) == 0 {
		return
	}

	keyWidth := 0
	for _, row := range rows {
		keyWidth = max(keyWidth, runewidth.StringWidth(row.Key))
	}
	keyWidth = min(keyWidth, bounds.Width/2)

	t.selected = clamp(t.selected, 0, len(rows)-1)
	t.window.Resize(len(rows), bounds.Height)
	t.window.Reveal(t.selected)

	maxX := bounds.X + bounds.Width
	if t.window.ShowBar(t.scrollbar) && bounds.Width > 1 {
		maxX--
		for i, ch := range t.window.Bar(t.barChars) {
			s.SetContent(maxX, bounds.Y+i, ch, nil, t.style)
		}
	}
	start, end := t.window.Visible()
	for index := start; index < end; index++ {
		row := rows[index]
		style := t.style
		if row.Kind == box.ReadOnlyField {
			style = t.readOnlyStyle
		}
		if index == t.selected {
			style = t.selectedStyle
		}
		value := row.Value
		if row.Kind == box.ReadOnlyField {
			value += readOnlySuffix
		}
		y := bounds.Y + index - start
		fillRect(s, Rect{X: bounds.X, Y: y, Width: maxX - bounds.X, Height: 1}, ' ', style)
		x := drawString(s, bounds.X, y, maxX, padRight(truncateString(row.Key, keyWidth), keyWidth), style)
		valueWidth := maxX - x - 1
		drawString(s, x+1, y, maxX, truncateString(value, valueWidth), style)
	}
	t.ClearInvalidation()
}

func formatValue(v any) string {
	if v == nil {
		return "<nil>"
	}
	if reflect.TypeOf(v).Kind() == reflect.Func {
		return "<func>"
	}
	return fmt.Sprint(v)
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
