package widgets

import (
	"strings"
	"testing"

	"github.com/odvcencio/furry-toolbelt/box"
	"github.com/odvcencio/furry-toolbelt/runtime"
	"github.com/odvcencio/furry-toolbelt/scroll"
)

func newCounterView() (box.Writable[int], *box.View) {
	count := box.New(2)
	double := box.With(func() int { return count.Current() * 2 }, count)
	view := box.Flatten(map[string]any{
		"count":  count,
		"double": double,
		"label":  "clicks",
		"reset":  func() { count.SetCurrent(0) },
	})
	return count, view
}

func TestFieldTable_Rows(t *testing.T) {
	count, view := newCounterView()
	table := NewFieldTable(view)

	rows := table.Rows()
	want := []FieldRow{
		{Key: "count", Value: "2", Kind: box.ReadWriteField},
		{Key: "double", Value: "4", Kind: box.ReadOnlyField},
		{Key: "label", Value: "clicks", Kind: box.PlainField},
		{Key: "reset", Value: "<func>", Kind: box.PlainField},
	}
	if len(rows) != len(want) {
		t.Fatalf("expected %d rows, got %d", len(want), len(rows))
	}
	for i := range want {
		if rows[i] != want[i] {
			t.Fatalf("row %d: expected %+v, got %+v", i, want[i], rows[i])
		}
	}

	count.SetCurrent(5)
	if rows := table.Rows(); rows[1].Value != "10" {
		t.Fatalf("expected derived row to follow source, got %q", rows[1].Value)
	}
}

func TestFieldTable_Selection(t *testing.T) {
	_, view := newCounterView()
	table := NewFieldTable(view)

	if key, ok := table.Selected(); !ok || key != "count" {
		t.Fatalf("expected first key selected, got %q", key)
	}
	table.MoveSelection(1)
	if key, _ := table.Selected(); key != "double" {
		t.Fatalf("expected double, got %q", key)
	}
	table.MoveSelection(10)
	if key, _ := table.Selected(); key != "reset" {
		t.Fatalf("expected selection clamped to last row, got %q", key)
	}
	table.MoveSelection(-10)
	if key, _ := table.Selected(); key != "count" {
		t.Fatalf("expected selection clamped to first row, got %q", key)
	}
	if !table.Select("label") {
		t.Fatalf("expected label to be selectable")
	}
	if table.Select("missing") {
		t.Fatalf("expected unknown key to be rejected")
	}

	empty := NewFieldTable(box.Flatten(nil))
	if _, ok := empty.Selected(); ok {
		t.Fatalf("expected no selection in an empty table")
	}
}

func TestFieldTable_Render(t *testing.T) {
	_, view := newCounterView()
	table := NewFieldTable(view)
	table.Layout(Rect{X: 0, Y: 0, Width: 24, Height: 3})
	s := newTestSurface(24, 4)

	table.Render(s)

	lines := []string{
		"count  2",
		"double 4 (read-only)",
		"label  clicks",
	}
	for y, want := range lines {
		if got := strings.TrimRight(s.row(y)[:23], " "); got != want {
			t.Fatalf("row %d: expected %q, got %q", y, want, got)
		}
	}
	bar := string([]rune{s.cells[0][23], s.cells[1][23], s.cells[2][23]})
	if bar != "##|" {
		t.Fatalf("expected scrollbar %q, got %q", "##|", bar)
	}
	if got := s.row(3); got != strings.Repeat(".", 24) {
		t.Fatalf("expected rows past the bounds untouched, got %q", got)
	}
	if s.styles[0][0] != table.selectedStyle {
		t.Fatalf("expected selected row style")
	}
	if s.styles[1][0] != table.readOnlyStyle {
		t.Fatalf("expected read-only row style")
	}
}

func TestFieldTable_RenderScrolls(t *testing.T) {
	_, view := newCounterView()
	table := NewFieldTable(view)
	table.Layout(Rect{X: 0, Y: 0, Width: 20, Height: 2})
	table.Select("reset")
	s := newTestSurface(20, 2)

	table.Render(s)
	if got := strings.TrimRight(s.row(0)[:19], " "); got != "label  clicks" {
		t.Fatalf("expected label row on top, got %q", got)
	}
	if got := strings.TrimRight(s.row(1)[:19], " "); got != "reset  <func>" {
		t.Fatalf("expected selected row scrolled into view, got %q", got)
	}
	if s.cells[0][19] != '|' || s.cells[1][19] != '#' {
		t.Fatalf("expected thumb at the bottom, got %q%q", s.cells[0][19], s.cells[1][19])
	}

	table.SetScrollbar(scroll.Never)
	table.Render(s)
	if got := strings.TrimRight(s.row(1), " "); got != "reset  <func>" {
		t.Fatalf("expected full-width row without scrollbar, got %q", got)
	}
}

func TestFieldTable_TrackWhenBound(t *testing.T) {
	count, view := newCounterView()
	table := NewFieldTable(view)
	loop := runtime.NewLoop(runtime.Config{})

	table.Track(count)
	count.SetCurrent(3)
	if loop.Queue().Len() != 0 {
		t.Fatalf("expected unbound table to register nothing")
	}

	runtime.BindTree(table, loop.Services())
	table.Track(count)
	table.ClearInvalidation()
	count.SetCurrent(4)
	if loop.Queue().Flush() != 1 || !table.NeedsRender() {
		t.Fatalf("expected tracked change to invalidate the table")
	}

	runtime.UnbindTree(table)
	count.SetCurrent(5)
	if loop.Queue().Flush() != 0 {
		t.Fatalf("expected unbind to release tracking")
	}
}

func TestColumn_Layout(t *testing.T) {
	header := NewBoxLabel("header")
	_, view := newCounterView()
	table := NewFieldTable(view)
	footer := NewBoxLabel("footer")
	col := NewColumn().Add(header, 1).Add(table, 0).Add(footer, 1)

	col.Layout(Rect{X: 0, Y: 0, Width: 30, Height: 6})
	if header.Bounds() != (Rect{X: 0, Y: 0, Width: 30, Height: 1}) {
		t.Fatalf("unexpected header bounds %+v", header.Bounds())
	}
	if table.Bounds() != (Rect{X: 0, Y: 1, Width: 30, Height: 4}) {
		t.Fatalf("unexpected table bounds %+v", table.Bounds())
	}
	if footer.Bounds() != (Rect{X: 0, Y: 5, Width: 30, Height: 1}) {
		t.Fatalf("unexpected footer bounds %+v", footer.Bounds())
	}
	if len(col.ChildNodes()) != 3 {
		t.Fatalf("expected 3 child nodes")
	}

	s := newTestSurface(30, 6)
	col.Render(s)
	if !strings.HasPrefix(s.row(0), "header") || !strings.HasPrefix(s.row(5), "footer") {
		t.Fatalf("unexpected column render %q / %q", s.row(0), s.row(5))
	}
}
