package runtime

import (
	"strings"
	"testing"
)

type treeNode struct {
	name     string
	log      *[]string
	children []Node
	services Services
}

func (n *treeNode) ChildNodes() []Node { return n.children }
func (n *treeNode) Mount()             { *n.log = append(*n.log, "mount "+n.name) }
func (n *treeNode) Unmount()           { *n.log = append(*n.log, "unmount "+n.name) }
func (n *treeNode) Unbind()            { *n.log = append(*n.log, "unbind "+n.name) }

func (n *treeNode) Bind(services Services) {
	n.services = services
	*n.log = append(*n.log, "bind "+n.name)
}

func newTree(log *[]string) (*treeNode, *treeNode) {
	child := &treeNode{name: "child", log: log}
	root := &treeNode{name: "root", log: log, children: []Node{child, nil, "plain"}}
	return root, child
}

func TestMountTree_Order(t *testing.T) {
	var log []string
	root, _ := newTree(&log)

	MountTree(root)
	UnmountTree(root)

	want := "mount root,mount child,unmount child,unmount root"
	if got := strings.Join(log, ","); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestBindTree(t *testing.T) {
	var log []string
	root, child := newTree(&log)

	BindTree(root, Services{})
	if len(log) != 0 {
		t.Fatalf("expected zero services to bind nothing, got %v", log)
	}

	loop := NewLoop(Config{})
	BindTree(root, loop.Services())
	if child.services.isZero() {
		t.Fatalf("expected child to receive services")
	}
	UnbindTree(root)

	want := "bind root,bind child,unbind child,unbind root"
	if got := strings.Join(log, ","); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestMountTree_Nil(t *testing.T) {
	MountTree(nil)
	UnmountTree(nil)
	BindTree(nil, NewLoop(Config{}).Services())
	UnbindTree(nil)
}
