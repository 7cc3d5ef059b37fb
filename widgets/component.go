package widgets

import (
	"github.com/odvcencio/furry-toolbelt/runtime"
	"github.com/odvcencio/furry-toolbelt/state"
)

// Component is a widget base with bound loop services and a scope that
// owns its subscriptions and watchers while bound.
type Component struct {
	Base
	Services runtime.Services
	Scope    *state.Scope
}

// Bind attaches loop services and opens a child of the loop scope.
func (c *Component) Bind(services runtime.Services) {
	c.Scope.Dispose()
	c.Services = services
	c.Scope = services.Scope()
}

// Unbind disposes the component scope and releases loop services.
func (c *Component) Unbind() {
	c.Scope.Dispose()
	c.Scope = nil
	c.Services = runtime.Services{}
}

// Invalidate marks the component dirty and requests a render pass.
func (c *Component) Invalidate() {
	c.Base.Invalidate()
	c.Services.Invalidate()
}

// Observe registers a subscription using the scope scheduler. It is a
// no-op while unbound.
func (c *Component) Observe(sub state.Subscribable, fn func()) {
	c.Scope.Observe(sub, fn)
}

// Scheduler returns the loop scheduler, or nil while unbound.
func (c *Component) Scheduler() state.Scheduler {
	return c.Services.Scheduler()
}
