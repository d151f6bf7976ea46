package view

import (
	"fmt"
	"log/slog"

	"github.com/mmcdole/photodeck/internal/domain"
)

// Template renders one item into a detached row node and returns it
type Template[T any] func(t *Tree, item T) NodeID

// List renders an ordered sequence of items into a single container.
// Rows are indexed by key so callers can find the container for an item
// without walking the tree.
type List[T any] struct {
	Element
	items    []T
	template Template[T]
	key      func(T) int
	class    string
	rows     map[int]NodeID
}

// ListOption configures a List
type ListOption[T any] func(*List[T])

// WithKey indexes rows by the key returned for each item
func WithKey[T any](key func(T) int) ListOption[T] {
	return func(l *List[T]) { l.key = key }
}

// WithListClass sets the container class
func WithListClass[T any](class string) ListOption[T] {
	return func(l *List[T]) { l.class = class }
}

// NewList creates an unrendered list view
func NewList[T any](items []T, template Template[T], opts ...ListOption[T]) *List[T] {
	l := &List[T]{
		Element:  Element{kind: KindList},
		items:    items,
		template: template,
		rows:     make(map[int]NodeID),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Render builds the container and one row per item
func (l *List[T]) Render(t *Tree) NodeID {
	if l.Rendered() {
		l.tree.Remove(l.node)
	}
	l.tree = t
	l.rows = make(map[int]NodeID, len(l.items))

	var opts []NodeOption
	if l.class != "" {
		opts = append(opts, WithClass(l.class))
	}
	l.node = t.Create("ul", opts...)

	for _, item := range l.items {
		row := l.template(t, item)
		t.Append(l.node, row)
		if l.key != nil {
			l.rows[l.key(item)] = row
		}
	}
	return l.node
}

// MountTo renders the list if needed and appends it under parent
func (l *List[T]) MountTo(t *Tree, parent NodeID) error {
	if !l.Rendered() {
		l.Render(t)
	}
	return t.Append(parent, l.node)
}

// Items returns the items the list was built from
func (l *List[T]) Items() []T { return l.items }

// Len returns the number of items
func (l *List[T]) Len() int { return len(l.items) }

// Row returns the row container rendered for key
func (l *List[T]) Row(key int) (NodeID, bool) {
	if !l.Rendered() {
		return 0, false
	}
	row, ok := l.rows[key]
	if !ok || !l.tree.Contains(row) {
		return 0, false
	}
	return row, true
}

// OnClick attaches one delegated listener to the list container. It sees
// every click on the list's descendants. Calling it before Render logs a
// warning and does nothing.
func (l *List[T]) OnClick(fn func(*ClickEvent)) {
	if !l.Rendered() {
		logger := slog.Default()
		if l.tree != nil {
			logger = l.tree.Logger()
		}
		logger.Warn("click listener ignored",
			"error", fmt.Errorf("list view: %w", domain.ErrUninitializedView))
		return
	}
	l.tree.AddClickListener(l.node, fn)
}
