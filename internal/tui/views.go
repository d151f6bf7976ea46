package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/photodeck/internal/catalog"
	"github.com/mmcdole/photodeck/internal/tui/styles"
)

// View renders the entire application
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	if m.ShowHelp {
		return m.renderHelp()
	}
	if url, open := m.app.Preview(); open {
		return m.renderPreview(url)
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderRows())
	if m.filterActive {
		b.WriteString("\n")
		b.WriteString(m.renderFilterBar())
	}
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

// renderHeader renders the section tabs and a rule beneath them
func (m Model) renderHeader() string {
	var tabs []string
	for i, s := range []catalog.Section{catalog.SectionCatalog, catalog.SectionFavourites} {
		label := fmt.Sprintf("%d %s", i+1, s.Title())
		if s == m.app.Section() {
			tabs = append(tabs, styles.ActiveTabStyle.Render(label))
		} else {
			tabs = append(tabs, styles.TabStyle.Render(label))
		}
	}
	left := lipgloss.JoinHorizontal(lipgloss.Top, tabs...)

	right := styles.AccentStyle.Render(styles.StarActiveChar) +
		styles.DimStyle.Render(fmt.Sprintf(" %d ", len(m.app.Favourites())))

	gap := m.Width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	rule := styles.DimStyle.Render(strings.Repeat("─", max(m.Width, 0)))
	return left + strings.Repeat(" ", gap) + right + "\n" + rule
}

func (m Model) renderRows() string {
	maxVisible := m.maxVisible()
	lines := make([]string, 0, maxVisible)

	end := min(m.offset+maxVisible, len(m.visible))
	for i := m.offset; i < end; i++ {
		lines = append(lines, m.renderRow(m.rows[m.visible[i]], i == m.cursor))
	}
	if len(m.visible) == 0 && m.filterActive {
		lines = append(lines, " "+styles.DimStyle.Render("No matches"))
	}
	for len(lines) < maxVisible {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// renderRow renders a single row of the flattened tree
func (m Model) renderRow(row Row, selected bool) string {
	indent := styles.Indent(row.Depth)
	width := m.Width - 2 - lipgloss.Width(indent)

	switch row.Kind {
	case RowUser, RowAlbum:
		marker := " "
		switch {
		case row.Expanded:
			marker = styles.ExpandedChar
		case row.Expandable:
			marker = styles.CollapsedChar
		}
		accent := styles.Accent
		parts := []styles.RowPart{
			{Text: indent + marker + " ", Foreground: &accent},
			{Text: styles.Truncate(row.Text, width-2)},
		}
		return styles.RenderListRow(parts, selected, m.Width)

	case RowPhoto:
		starFg := styles.DimGray
		star := styles.StarEmptyChar
		if row.Starred {
			starFg = styles.Accent
			star = styles.StarActiveChar
		}
		dim := styles.DimGray
		id := fmt.Sprintf(" #%d", row.PhotoID)
		parts := []styles.RowPart{
			{Text: indent + star + " ", Foreground: &starFg},
			{Text: styles.Truncate(row.Text, width-2-len(id))},
			{Text: id, Foreground: &dim},
		}
		return styles.RenderListRow(parts, selected, m.Width)

	case RowLoading:
		return " " + indent + RenderSpinner(m.SpinnerFrame) + " " + styles.DimStyle.Render(row.Text)

	case RowError:
		return " " + indent + styles.ErrorStyle.Render(styles.ErrorChar+" "+styles.Truncate(row.Text, width-2))

	case RowInfo:
		return " " + indent + styles.SubtitleStyle.Render(styles.Truncate(row.Text, width))
	}
	return ""
}

func (m Model) renderFilterBar() string {
	input := m.filterInput.View()
	countStr := ""
	if m.filterInput.Value() != "" {
		count, total := m.matchCount()
		countStr = styles.DimStyle.Render(fmt.Sprintf(" [%d/%d]", count, total))
	}
	return " " + input + countStr
}

// renderFooter renders the status line
func (m Model) renderFooter() string {
	var left string
	switch {
	case m.app.Loading():
		left = RenderSpinner(m.SpinnerFrame) + " " + styles.DimStyle.Render("Loading...")
	case m.StatusMsg != "":
		if m.StatusIsErr {
			left = styles.ErrorStyle.Render(m.StatusMsg)
		} else {
			left = styles.DimStyle.Render(m.StatusMsg)
		}
	case m.app.Notice() != nil:
		left = styles.ErrorStyle.Render("Favourites unavailable: " + m.app.Notice().Error())
	}
	left = " " + left

	right := styles.AccentStyle.Render("?") + styles.DimStyle.Render(" help ")

	gap := m.Width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}
	return left + strings.Repeat(" ", gap) + right
}

// renderPreview renders the open photo as a modal
func (m Model) renderPreview(url string) string {
	title := styles.ModalTitleStyle.Render("Preview")
	body := styles.AccentStyle.Render(styles.Truncate(url, max(m.Width-12, 10)))
	hints := styles.HelpKeyStyle.Render("o") + styles.HelpDescStyle.Render(" open in viewer   ") +
		styles.HelpKeyStyle.Render("esc") + styles.HelpDescStyle.Render(" close")

	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(title+"\n"+body+"\n\n"+hints))
}

// renderHelp renders the help overlay
func (m Model) renderHelp() string {
	help := `
NAVIGATION                      PHOTOS
  j/k        Up/down               s/Space  Star / unstar
  g/G        First/last item       Enter    Preview
  Ctrl+u/d   Scroll half page      o        Open in viewer
  Enter/l    Expand/collapse
  h          Collapse / parent

SECTIONS                        OTHER
  Tab        Switch section        /        Filter
  1          Catalog (reload)      Esc      Close / Clear
  2          Favourites            q        Quit
                                   ?        This help

Press any key to return...
`

	return lipgloss.Place(m.Width, m.Height,
		lipgloss.Center, lipgloss.Center,
		styles.ModalStyle.Render(help))
}

// RenderSpinner renders a loading spinner
func RenderSpinner(frame int) string {
	frames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	return styles.SpinnerStyle.Render(frames[frame%len(frames)])
}
