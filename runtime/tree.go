package runtime

// Node is anything placed in the loop's mount tree. Nodes opt into
// behaviour by implementing Lifecycle, Bindable, Unbindable or
// ChildProvider.
type Node any

// ChildProvider exposes child nodes for tree walks.
type ChildProvider interface {
	ChildNodes() []Node
}

// Lifecycle is implemented by nodes that need mount/unmount hooks.
// Mount runs parents first; Unmount runs children first.
type Lifecycle interface {
	Mount()
	Unmount()
}

// Bindable nodes receive loop services when mounted.
type Bindable interface {
	Bind(services Services)
}

// Unbindable nodes release loop services when removed.
type Unbindable interface {
	Unbind()
}

// MountTree calls Mount on nodes that implement Lifecycle.
func MountTree(root Node) {
	walkDown(root, func(n Node) {
		if m, ok := n.(Lifecycle); ok {
			m.Mount()
		}
	})
}

// UnmountTree calls Unmount on nodes that implement Lifecycle.
func UnmountTree(root Node) {
	walkUp(root, func(n Node) {
		if m, ok := n.(Lifecycle); ok {
			m.Unmount()
		}
	})
}

// BindTree calls Bind on nodes that implement Bindable. Zero services bind
// nothing.
func BindTree(root Node, services Services) {
	if services.isZero() {
		return
	}
	walkDown(root, func(n Node) {
		if b, ok := n.(Bindable); ok {
			b.Bind(services)
		}
	})
}

// UnbindTree calls Unbind on nodes that implement Unbindable.
func UnbindTree(root Node) {
	walkUp(root, func(n Node) {
		if u, ok := n.(Unbindable); ok {
			u.Unbind()
		}
	})
}

func walkDown(n Node, visit func(Node)) {
	if n == nil {
		return
	}
	visit(n)
	if children, ok := n.(ChildProvider); ok {
		for _, child := range children.ChildNodes() {
			walkDown(child, visit)
		}
	}
}

func walkUp(n Node, visit func(Node)) {
	if n == nil {
		return
	}
	if children, ok := n.(ChildProvider); ok {
		for _, child := range children.ChildNodes() {
			walkUp(child, visit)
		}
	}
	visit(n)
}
