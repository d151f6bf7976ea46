// Package expand tracks lazily expanded nodes of a rendered list. Each node
// moves Idle -> Loading -> Loaded|Error on its first click and back to Idle on
// the next one, mounting and tearing down its child subtree as it goes.
package expand

import (
	"context"
	"log/slog"

	"github.com/mmcdole/photodeck/internal/view"
)

// Status is the load state of an expanded node. Idle nodes have no entry.
type Status int

const (
	StatusLoading Status = iota + 1
	StatusLoaded
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusLoaded:
		return "loaded"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// View is a mounted element owned by an entry
type View interface {
	Node() (view.NodeID, error)
	Destroy() error
}

// Child is a nested coordinator owned by a loaded entry
type Child interface {
	Destroy()
}

// Rows resolves the container rendered for a node id
type Rows interface {
	Row(id int) (view.NodeID, bool)
}

// Fetcher loads the children of node id
type Fetcher[T any] func(ctx context.Context, id int) ([]T, error)

// Builder renders fetched children into a detached view, wiring any click
// handling, and optionally returns a coordinator for the next level down.
type Builder[T any] func(t *view.Tree, id int, items []T) (View, Child)

// Entry is the state of one expanded node
type Entry struct {
	Status Status
	View   View
	Child  Child
	token  uint64
}

// Coordinator owns the expansion entries of one list
type Coordinator[T any] struct {
	tree    *view.Tree
	rows    Rows
	fetch   Fetcher[T]
	build   Builder[T]
	logger  *slog.Logger
	entries map[int]*Entry
	gen     uint64
}

// NewCoordinator creates a coordinator over the rows of a rendered list
func NewCoordinator[T any](tree *view.Tree, rows Rows, fetch Fetcher[T], build Builder[T], logger *slog.Logger) *Coordinator[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator[T]{
		tree:    tree,
		rows:    rows,
		fetch:   fetch,
		build:   build,
		logger:  logger,
		entries: make(map[int]*Entry),
	}
}

// Click toggles node id. Expanding mounts a loading view and returns the fetch
// to run; its completion must be applied on the UI loop. Collapsing tears the
// entry down and returns nil.
func (c *Coordinator[T]) Click(id int) view.Async {
	if e, ok := c.entries[id]; ok {
		c.collapse(id, e)
		return nil
	}

	row, ok := c.rows.Row(id)
	if !ok {
		c.logger.Warn("expand: no row for node", "id", id)
		return nil
	}

	loader := view.NewLoading()
	if err := loader.MountTo(c.tree, row); err != nil {
		c.logger.Error("expand: mount loader", "id", id, "error", err)
		return nil
	}

	c.gen++
	token := c.gen
	c.entries[id] = &Entry{Status: StatusLoading, View: loader, token: token}
	c.logger.Debug("expand: loading", "id", id)

	fetch := c.fetch
	return func(ctx context.Context) func() {
		items, err := fetch(ctx, id)
		return func() { c.settle(id, token, items, err) }
	}
}

// settle applies a finished fetch to the entry that started it
func (c *Coordinator[T]) settle(id int, token uint64, items []T, err error) {
	e, ok := c.entries[id]
	if !ok || e.token != token {
		c.logger.Debug("expand: discarding stale fetch", "id", id)
		return
	}
	row, ok := c.rows.Row(id)
	if !ok {
		c.logger.Debug("expand: row gone before fetch completed", "id", id)
		c.collapse(id, e)
		return
	}

	c.destroyView(id, e)

	if err != nil {
		c.logger.Warn("expand: fetch failed", "id", id, "error", err)
		ev := view.NewError(err)
		if mountErr := ev.MountTo(c.tree, row); mountErr != nil {
			c.logger.Error("expand: mount error view", "id", id, "error", mountErr)
		}
		e.Status = StatusError
		e.View = ev
		return
	}

	v, child := c.build(c.tree, id, items)
	node, nodeErr := v.Node()
	if nodeErr == nil {
		nodeErr = c.tree.Append(row, node)
	}
	if nodeErr != nil {
		c.logger.Error("expand: mount children", "id", id, "error", nodeErr)
		if child != nil {
			child.Destroy()
		}
		ev := view.NewError(nodeErr)
		_ = ev.MountTo(c.tree, row)
		e.Status = StatusError
		e.View = ev
		return
	}

	e.Status = StatusLoaded
	e.View = v
	e.Child = child
	c.logger.Debug("expand: loaded", "id", id, "count", len(items))
}

func (c *Coordinator[T]) collapse(id int, e *Entry) {
	if e.Child != nil {
		e.Child.Destroy()
		e.Child = nil
	}
	c.destroyView(id, e)
	delete(c.entries, id)
	c.logger.Debug("expand: collapsed", "id", id)
}

func (c *Coordinator[T]) destroyView(id int, e *Entry) {
	if e.View == nil {
		return
	}
	if err := e.View.Destroy(); err != nil {
		// The subtree may already be gone with its parent
		c.logger.Debug("expand: destroy view", "id", id, "error", err)
	}
	e.View = nil
}

// Status returns the state of node id; false means idle
func (c *Coordinator[T]) Status(id int) (Status, bool) {
	e, ok := c.entries[id]
	if !ok {
		return 0, false
	}
	return e.Status, true
}

// Entry returns the live entry for node id
func (c *Coordinator[T]) Entry(id int) (*Entry, bool) {
	e, ok := c.entries[id]
	return e, ok
}

// Len returns the number of non-idle nodes
func (c *Coordinator[T]) Len() int { return len(c.entries) }

// Destroy collapses every node. Fetches still in flight are dropped when they
// complete.
func (c *Coordinator[T]) Destroy() {
	for id, e := range c.entries {
		c.collapse(id, e)
	}
}
