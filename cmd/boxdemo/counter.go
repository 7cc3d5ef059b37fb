package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/odvcencio/furry-toolbelt/box"
	"github.com/odvcencio/furry-toolbelt/internal/config"
)

// counter is the demo model: a writable count, values derived from it, and
// a flattened view over all of them.
type counter struct {
	cfg    config.CounterConfig
	count  box.Writable[int]
	double box.Readable[int]
	frozen box.Readable[int]
	title  box.Readable[string]
	view   *box.View
}

func newCounter(cfg config.CounterConfig) *counter {
	c := &counter{cfg: cfg}
	c.count = box.New(cfg.Clamp(cfg.Initial))
	c.double = box.With(func() int { return c.count.Current() * 2 }, c.count)
	c.frozen = box.Readonly[int](c.count)
	c.title = box.With(func() string {
		return fmt.Sprintf("%s: %d", cfg.Label, c.count.Current())
	}, c.count)
	c.view = box.Flatten(map[string]any{
		"count":     c.count,
		"double":    c.double,
		"readonly":  c.frozen,
		"label":     cfg.Label,
		"step":      cfg.Step,
		"increment": c.increment,
		"decrement": c.decrement,
		"reset":     c.reset,
	})
	return c
}

func (c *counter) increment() { c.add(c.step()) }
func (c *counter) decrement() { c.add(-c.step()) }

func (c *counter) reset() {
	c.count.SetCurrent(c.cfg.Clamp(c.cfg.Initial))
}

func (c *counter) add(delta int) {
	c.count.SetCurrent(c.cfg.Clamp(c.count.Current() + delta))
}

// step reads the step through the view so edits to the plain field apply.
func (c *counter) step() int {
	step, err := box.Lookup[int](c.view, "step")
	if err != nil || step <= 0 {
		return c.cfg.Step
	}
	return step
}

// call invokes a function-valued field.
func (c *counter) call(key string) bool {
	v, ok := c.view.Get(key)
	if !ok {
		return false
	}
	fn, ok := v.(func())
	if !ok {
		return false
	}
	fn()
	return true
}

// apply runs one scripted step: "+", "-", "reset", a function field name,
// or "key=value" to write an int field through the view.
func (c *counter) apply(step string) error {
	step = strings.TrimSpace(step)
	switch step {
	case "+":
		c.increment()
		return nil
	case "-":
		c.decrement()
		return nil
	}
	key, raw, found := strings.Cut(step, "=")
	if !found {
		if c.call(step) {
			return nil
		}
		return fmt.Errorf("unknown step %q", step)
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return fmt.Errorf("step %q: %w", step, err)
	}
	key = strings.TrimSpace(key)
	if key == "count" {
		n = c.cfg.Clamp(n)
	}
	if err := c.view.Set(key, n); err != nil {
		return fmt.Errorf("step %q: %w", step, err)
	}
	return nil
}
