// Package view is a small retained render tree with element lifecycles and
// delegated click handling. The terminal UI draws it and feeds clicks into it.
package view

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
)

// NodeID identifies a node in a Tree. The zero value is never a valid node.
type NodeID int

// Async is deferred work scheduled by a click handler. It runs off the UI
// loop and returns a completion that must be applied on the UI loop.
type Async func(ctx context.Context) func()

// Node is a single element in the tree
type Node struct {
	ID       NodeID
	Tag      string
	Text     string
	Hidden   bool
	classes  []string
	attrs    map[string]string
	parent   NodeID
	children []NodeID
	onClick  []func(*ClickEvent)
}

// HasClass reports whether the node carries class
func (n *Node) HasClass(class string) bool {
	return slices.Contains(n.classes, class)
}

// AddClass adds class if not already present
func (n *Node) AddClass(class string) {
	if !n.HasClass(class) {
		n.classes = append(n.classes, class)
	}
}

// RemoveClass removes class if present
func (n *Node) RemoveClass(class string) {
	n.classes = slices.DeleteFunc(n.classes, func(c string) bool { return c == class })
}

// Attr returns an attribute value
func (n *Node) Attr(key string) (string, bool) {
	v, ok := n.attrs[key]
	return v, ok
}

// SetAttr sets an attribute value
func (n *Node) SetAttr(key, value string) {
	if n.attrs == nil {
		n.attrs = make(map[string]string)
	}
	n.attrs[key] = value
}

// Data returns the "data-<key>" attribute, or "" when absent
func (n *Node) Data(key string) string {
	return n.attrs["data-"+key]
}

// Parent returns the parent id, zero for detached nodes and the root
func (n *Node) Parent() NodeID { return n.parent }

// Children returns a copy of the child ids in order
func (n *Node) Children() []NodeID { return slices.Clone(n.children) }

// NodeOption configures a node at creation
type NodeOption func(*Node)

// WithClass adds classes to the node
func WithClass(classes ...string) NodeOption {
	return func(n *Node) {
		for _, c := range classes {
			n.AddClass(c)
		}
	}
}

// WithText sets the node's text content
func WithText(text string) NodeOption {
	return func(n *Node) { n.Text = text }
}

// WithAttr sets an attribute
func WithAttr(key, value string) NodeOption {
	return func(n *Node) { n.SetAttr(key, value) }
}

// WithData sets a "data-<key>" attribute
func WithData(key, value string) NodeOption {
	return func(n *Node) { n.SetAttr("data-"+key, value) }
}

// Tree is an arena of nodes indexed by id. It is not safe for concurrent
// use; all mutation happens on the UI loop.
type Tree struct {
	nodes  map[NodeID]*Node
	nextID NodeID
	root   NodeID
	logger *slog.Logger
}

// NewTree creates a tree containing only the root wrapper node
func NewTree(logger *slog.Logger) *Tree {
	if logger == nil {
		logger = slog.Default()
	}
	t := &Tree{nodes: make(map[NodeID]*Node), logger: logger}
	t.root = t.Create("div", WithClass("wrapper"))
	return t
}

// Root returns the root node id
func (t *Tree) Root() NodeID { return t.root }

// Logger returns the tree's logger
func (t *Tree) Logger() *slog.Logger { return t.logger }

// Create allocates a detached node
func (t *Tree) Create(tag string, opts ...NodeOption) NodeID {
	t.nextID++
	n := &Node{ID: t.nextID, Tag: tag}
	for _, opt := range opts {
		opt(n)
	}
	t.nodes[n.ID] = n
	return n.ID
}

// Node returns the node for id
func (t *Tree) Node(id NodeID) (*Node, bool) {
	n, ok := t.nodes[id]
	return n, ok
}

// Contains reports whether id is a live node (attached or not)
func (t *Tree) Contains(id NodeID) bool {
	_, ok := t.nodes[id]
	return ok
}

// Len returns the number of live nodes, including detached ones
func (t *Tree) Len() int { return len(t.nodes) }

// Append moves child under parent as its last child
func (t *Tree) Append(parent, child NodeID) error {
	p, ok := t.nodes[parent]
	if !ok {
		return fmt.Errorf("append to missing node %d", parent)
	}
	c, ok := t.nodes[child]
	if !ok {
		return fmt.Errorf("append missing node %d", child)
	}
	if child == t.root || t.isAncestor(child, parent) {
		return fmt.Errorf("append %d under %d would create a cycle", child, parent)
	}

	t.detach(c)
	c.parent = parent
	p.children = append(p.children, child)
	return nil
}

func (t *Tree) isAncestor(ancestor, id NodeID) bool {
	for cur := id; cur != 0; {
		if cur == ancestor {
			return true
		}
		n, ok := t.nodes[cur]
		if !ok {
			return false
		}
		cur = n.parent
	}
	return false
}

func (t *Tree) detach(n *Node) {
	if n.parent == 0 {
		return
	}
	if p, ok := t.nodes[n.parent]; ok {
		p.children = slices.DeleteFunc(p.children, func(c NodeID) bool { return c == n.ID })
	}
	n.parent = 0
}

// Remove detaches id and frees it together with its whole subtree.
// Removing a missing node is a no-op.
func (t *Tree) Remove(id NodeID) {
	n, ok := t.nodes[id]
	if !ok || id == t.root {
		return
	}
	t.detach(n)
	t.free(n)
}

func (t *Tree) free(n *Node) {
	for _, c := range n.children {
		if child, ok := t.nodes[c]; ok {
			t.free(child)
		}
	}
	delete(t.nodes, n.ID)
}

// Clear removes every child of id
func (t *Tree) Clear(id NodeID) {
	n, ok := t.nodes[id]
	if !ok {
		return
	}
	for _, c := range slices.Clone(n.children) {
		t.Remove(c)
	}
}

// SetHidden toggles display of id and its subtree
func (t *Tree) SetHidden(id NodeID, hidden bool) {
	if n, ok := t.nodes[id]; ok {
		n.Hidden = hidden
	}
}

// Walk visits attached nodes depth-first in document order. Returning false
// from fn skips the node's children.
func (t *Tree) Walk(fn func(n *Node, depth int) bool) {
	t.walk(t.root, 0, fn)
}

func (t *Tree) walk(id NodeID, depth int, fn func(*Node, int) bool) {
	n, ok := t.nodes[id]
	if !ok {
		return
	}
	if !fn(n, depth) {
		return
	}
	for _, c := range n.children {
		t.walk(c, depth+1, fn)
	}
}

// Find returns attached nodes matching pred in document order
func (t *Tree) Find(pred func(*Node) bool) []NodeID {
	var out []NodeID
	t.Walk(func(n *Node, _ int) bool {
		if pred(n) {
			out = append(out, n.ID)
		}
		return true
	})
	return out
}

// AddClickListener registers fn for clicks on id or any of its descendants
func (t *Tree) AddClickListener(id NodeID, fn func(*ClickEvent)) error {
	n, ok := t.nodes[id]
	if !ok {
		return fmt.Errorf("listen on missing node %d", id)
	}
	n.onClick = append(n.onClick, fn)
	return nil
}

// Click dispatches a click on target, bubbling from the target up to the
// root. It returns the async work queued by the handlers.
func (t *Tree) Click(target NodeID) []Async {
	n, ok := t.nodes[target]
	if !ok {
		t.logger.Debug("click on missing node", "node", target)
		return nil
	}

	ev := &ClickEvent{Target: n, tree: t}
	for cur := target; cur != 0 && !ev.stopped; {
		node, ok := t.nodes[cur]
		if !ok {
			break
		}
		// Handlers may mutate the tree; iterate over a snapshot
		for _, fn := range slices.Clone(node.onClick) {
			fn(ev)
		}
		cur = node.parent
	}
	return ev.pending
}

// ClickEvent is passed to click listeners
type ClickEvent struct {
	Target  *Node
	tree    *Tree
	pending []Async
	stopped bool
}

// Tree returns the tree the event is dispatched on
func (e *ClickEvent) Tree() *Tree { return e.tree }

// Go queues async work to run after dispatch. Nil work is ignored.
func (e *ClickEvent) Go(work Async) {
	if work != nil {
		e.pending = append(e.pending, work)
	}
}

// StopPropagation prevents ancestors from seeing the event
func (e *ClickEvent) StopPropagation() { e.stopped = true }
