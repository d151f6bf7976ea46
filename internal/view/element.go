package view

import (
	"fmt"

	"github.com/mmcdole/photodeck/internal/domain"
)

// Kind is the variant of a renderable element
type Kind int

const (
	KindLoading Kind = iota
	KindList
	KindError
	KindPreview
)

func (k Kind) String() string {
	switch k {
	case KindLoading:
		return "loading"
	case KindList:
		return "list"
	case KindError:
		return "error"
	case KindPreview:
		return "preview"
	default:
		return "unknown"
	}
}

// Default copy for the error view
const (
	ErrorHeadline = "Server is not responding"
	ErrorDetail   = "We are already working on it"
)

// Element is the create/destroy lifecycle shared by every view kind.
// It is created unrendered; Render builds its subtree in a Tree.
type Element struct {
	kind Kind
	tree *Tree
	node NodeID

	err error  // KindError
	url string // KindPreview
}

// NewLoading creates a loading indicator
func NewLoading() *Element {
	return &Element{kind: KindLoading}
}

// NewError creates an error view for err
func NewError(err error) *Element {
	return &Element{kind: KindError, err: err}
}

// NewPreview creates a full-size photo preview for url
func NewPreview(url string) *Element {
	return &Element{kind: KindPreview, url: url}
}

// Kind returns the element variant
func (e *Element) Kind() Kind { return e.kind }

// Err returns the error shown by an error view
func (e *Element) Err() error { return e.err }

// URL returns the image shown by a preview
func (e *Element) URL() string { return e.url }

// Rendered reports whether the element currently owns a live node
func (e *Element) Rendered() bool {
	return e.tree != nil && e.tree.Contains(e.node)
}

// Node returns the element's root node
func (e *Element) Node() (NodeID, error) {
	if !e.Rendered() {
		return 0, fmt.Errorf("%s view: %w", e.kind, domain.ErrUninitializedView)
	}
	return e.node, nil
}

// Render builds the element's subtree, detached, and returns its root node.
// Rendering twice replaces the previous subtree.
func (e *Element) Render(t *Tree) NodeID {
	if e.Rendered() {
		e.tree.Remove(e.node)
	}
	e.tree = t

	switch e.kind {
	case KindLoading:
		e.node = t.Create("h2", WithClass("loading"))
		t.Append(e.node, t.Create("img", WithClass("loader")))
	case KindError:
		e.node = t.Create("div", WithClass("error"))
		list := t.Create("ul", WithClass("error-detail"))
		t.Append(e.node, list)
		for _, line := range []string{ErrorHeadline, ErrorDetail} {
			t.Append(list, t.Create("li", WithText(line)))
		}
	case KindPreview:
		e.node = t.Create("div", WithClass("preview"))
		t.Append(e.node, t.Create("img", WithClass("preview-img"), WithAttr("src", e.url)))
		t.Append(e.node, t.Create("span", WithClass("close-preview"), WithText("close")))
	}
	return e.node
}

// MountTo renders the element if needed and appends it under parent
func (e *Element) MountTo(t *Tree, parent NodeID) error {
	if !e.Rendered() {
		e.Render(t)
	}
	return t.Append(parent, e.node)
}

// Destroy removes the element's subtree from the tree
func (e *Element) Destroy() error {
	if !e.Rendered() {
		return fmt.Errorf("destroy %s view: %w", e.kind, domain.ErrUninitializedView)
	}
	e.tree.Remove(e.node)
	e.node = 0
	return nil
}
