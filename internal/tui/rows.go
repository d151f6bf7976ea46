package tui

import (
	"strconv"

	"github.com/mmcdole/photodeck/internal/catalog"
	"github.com/mmcdole/photodeck/internal/view"
)

// RowKind is what a terminal row shows
type RowKind int

const (
	RowUser RowKind = iota
	RowAlbum
	RowPhoto
	RowLoading
	RowError
	RowInfo
)

// Row is one line of the flattened render tree
type Row struct {
	Kind       RowKind
	Depth      int
	Text       string
	Target     view.NodeID // node clicked when the row is activated
	Star       view.NodeID // photo rows only
	Starred    bool
	Expandable bool
	Expanded   bool
	PhotoID    int
	URL        string
}

// Selectable reports whether the cursor may rest on the row
func (r Row) Selectable() bool {
	switch r.Kind {
	case RowUser, RowAlbum, RowPhoto:
		return true
	default:
		return false
	}
}

// Flatten walks the visible part of t in document order and returns one row
// per user, album or photo, plus loader, error and placeholder lines. The
// header and the preview overlay are drawn separately.
func Flatten(t *view.Tree) []Row {
	var rows []Row
	flatten(t, t.Root(), 0, &rows)
	return rows
}

func flatten(t *view.Tree, id view.NodeID, depth int, rows *[]Row) {
	n, ok := t.Node(id)
	if !ok || n.Hidden {
		return
	}

	switch {
	case n.HasClass("header"), n.HasClass("preview"):
		return

	case n.Tag == "li" && (n.HasClass("user") || n.HasClass("album")):
		row := Row{
			Kind:       RowUser,
			Depth:      depth,
			Expandable: n.Data("expandable") == "true",
			Expanded:   n.HasClass("expanded"),
		}
		linkClass := "user-link"
		if n.HasClass("album") {
			row.Kind = RowAlbum
			linkClass = "album-link"
		}
		for _, c := range n.Children() {
			if link, ok := t.Node(c); ok && link.HasClass(linkClass) {
				row.Text = link.Text
				row.Target = link.ID
			}
		}
		*rows = append(*rows, row)
		for _, c := range n.Children() {
			flatten(t, c, depth+1, rows)
		}
		return

	case n.Tag == "li" && n.HasClass("photo"):
		*rows = append(*rows, photoRow(t, n, depth))
		return

	case n.HasClass("loading"):
		*rows = append(*rows, Row{Kind: RowLoading, Depth: depth, Text: "Loading..."})
		return

	case n.HasClass("error"):
		for _, line := range descendants(t, n, "li") {
			*rows = append(*rows, Row{Kind: RowError, Depth: depth, Text: line.Text})
		}
		return

	case n.HasClass("bookmark"):
		for _, c := range n.Children() {
			if line, ok := t.Node(c); ok && line.Text != "" {
				*rows = append(*rows, Row{Kind: RowInfo, Depth: depth, Text: line.Text})
			}
		}
		return
	}

	for _, c := range n.Children() {
		flatten(t, c, depth, rows)
	}
}

func photoRow(t *view.Tree, n *view.Node, depth int) Row {
	row := Row{Kind: RowPhoto, Depth: depth}
	row.PhotoID, _ = strconv.Atoi(n.Data("photo-id"))
	for _, c := range n.Children() {
		child, ok := t.Node(c)
		if !ok {
			continue
		}
		switch {
		case child.HasClass("thumb"):
			row.Target = child.ID
			row.URL = child.Data("url")
		case child.HasClass("star"):
			row.Star = child.ID
			row.Starred = child.Data("state") == catalog.StarActive
		case child.HasClass("title"):
			row.Text = child.Text
		}
	}
	return row
}

// descendants returns the nodes under n with the given tag, in order
func descendants(t *view.Tree, n *view.Node, tag string) []*view.Node {
	var out []*view.Node
	for _, c := range n.Children() {
		child, ok := t.Node(c)
		if !ok {
			continue
		}
		if child.Tag == tag {
			out = append(out, child)
		}
		out = append(out, descendants(t, child, tag)...)
	}
	return out
}

// findClass returns the first attached node carrying class
func findClass(t *view.Tree, class string) (view.NodeID, bool) {
	ids := t.Find(func(n *view.Node) bool { return n.HasClass(class) })
	if len(ids) == 0 {
		return 0, false
	}
	return ids[0], true
}

// menuItem returns the header entry for s
func menuItem(t *view.Tree, s catalog.Section) (view.NodeID, bool) {
	ids := t.Find(func(n *view.Node) bool {
		id, _ := n.Attr("id")
		return n.HasClass("menu-item") && id == string(s)
	})
	if len(ids) == 0 {
		return 0, false
	}
	return ids[0], true
}
