package tui

import (
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/mmcdole/photodeck/internal/catalog"
	"github.com/mmcdole/photodeck/internal/favourites"
)

func (m *Model) filterTyping() bool {
	return m.filterActive && m.filterInput.Focused()
}

func (m *Model) clearFilter() {
	m.filterActive = false
	m.filterInput.SetValue("")
	m.filterInput.Blur()
	m.applyFilter()
	m.clampCursor()
	m.ensureVisible()
}

// applyFilter narrows the rows to those matching the filter query. The
// catalog keeps document order so nesting stays readable; favourites are
// ranked closest match first.
func (m *Model) applyFilter() {
	query := strings.TrimSpace(m.filterInput.Value())
	if !m.filterActive || query == "" {
		m.visible = make([]int, len(m.rows))
		for i := range m.rows {
			m.visible[i] = i
		}
		return
	}

	if m.app.Section() == catalog.SectionFavourites {
		m.visible = m.filterFavourites(query)
		return
	}

	var (
		idx         []int
		lowerTitles []string
	)
	for i, row := range m.rows {
		if !row.Selectable() {
			continue
		}
		idx = append(idx, i)
		lowerTitles = append(lowerTitles, strings.ToLower(row.Text))
	}

	matches := fuzzy.Find(strings.ToLower(query), lowerTitles)
	sort.Slice(matches, func(i, j int) bool { return matches[i].Index < matches[j].Index })

	m.visible = make([]int, len(matches))
	for i, match := range matches {
		m.visible[i] = idx[match.Index]
	}
}

func (m *Model) filterFavourites(query string) []int {
	byPhoto := make(map[int]int)
	for i, row := range m.rows {
		if row.Kind == RowPhoto {
			byPhoto[row.PhotoID] = i
		}
	}

	ranked := favourites.Filter(m.app.Favourites(), query)
	out := make([]int, 0, len(ranked))
	for _, p := range ranked {
		if i, ok := byPhoto[p.ID]; ok {
			out = append(out, i)
		}
	}
	return out
}

// matchCount returns the filtered and total selectable row counts
func (m *Model) matchCount() (int, int) {
	total := 0
	for _, row := range m.rows {
		if row.Selectable() {
			total++
		}
	}
	return len(m.visible), total
}
