package widgets

import "github.com/odvcencio/furry-toolbelt/runtime"

// Widget is anything a Column can lay out and draw.
type Widget interface {
	Layout(bounds Rect)
	Render(s Surface)
}

type columnItem struct {
	widget Widget
	height int
}

// Column stacks widgets vertically. Items with a fixed height get exactly
// that many rows; the rest share what is left.
type Column struct {
	Base
	items []columnItem
}

// NewColumn creates an empty column.
func NewColumn() *Column {
	return &Column{}
}

// Add appends w with the given row height; zero or less means flexible.
func (c *Column) Add(w Widget, height int) *Column {
	if w != nil {
		c.items = append(c.items, columnItem{widget: w, height: height})
	}
	return c
}

// ChildNodes exposes the column's widgets to runtime tree walks.
func (c *Column) ChildNodes() []runtime.Node {
	nodes := make([]runtime.Node, 0, len(c.items))
	for _, item := range c.items {
		nodes = append(nodes, item.widget)
	}
	return nodes
}

// Layout assigns rows to each item.
func (c *Column) Layout(bounds Rect) {
	c.Base.Layout(bounds)
	fixed, flex := 0, 0
	for _, item := range c.items {
		if item.height > 0 {
			fixed += item.height
		} else {
			flex++
		}
	}
	share, extra := 0, 0
	if flex > 0 {
		remaining := max(bounds.Height-fixed, 0)
		share, extra = remaining/flex, remaining%flex
	}

	y := bounds.Y
	bottom := bounds.Y + bounds.Height
	for _, item := range c.items {
		h := item.height
		if h <= 0 {
			h = share
			if extra > 0 {
				h++
				extra--
			}
		}
		h = min(h, max(bottom-y, 0))
		item.widget.Layout(Rect{X: bounds.X, Y: y, Width: bounds.Width, Height: h})
		y += h
	}
}

// Render draws every item.
func (c *Column) Render(s Surface) {
	for _, item := range c.items {
		item.widget.Render(s)
	}
	c.ClearInvalidation()
}
