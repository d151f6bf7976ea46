package tui

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/photodeck/internal/catalog"
	"github.com/mmcdole/photodeck/internal/tui/styles"
	"github.com/mmcdole/photodeck/internal/view"
)

// Layout constants
const (
	HeaderHeight = 2 // tabs + rule
	FooterHeight = 1
)

// Model is the main Bubble Tea model for the application
type Model struct {
	ctx    context.Context
	app    *catalog.App
	opener Opener
	logger *slog.Logger

	// Flattened render tree and the rows passing the filter
	rows    []Row
	visible []int

	cursor int
	offset int

	// Filter state
	filterActive bool
	filterInput  textinput.Model

	// Dimensions
	Width  int
	Height int
	Ready  bool

	// UI state
	ShowHelp     bool
	StatusMsg    string
	StatusIsErr  bool
	SpinnerFrame int

	pending view.Async // bootstrap, started by Init
}

// NewModel creates the model and kicks off the user load. ctx bounds every
// request made on behalf of the UI.
func NewModel(ctx context.Context, app *catalog.App, opener Opener, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.Default()
	}

	ti := textinput.New()
	ti.Placeholder = "type to filter..."
	ti.Prompt = "/ "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = styles.FilterStyle

	m := Model{
		ctx:         ctx,
		app:         app,
		opener:      opener,
		logger:      logger,
		filterInput: ti,
	}
	m.pending = app.Start()
	m.refresh()
	return m
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{TickCmd(100 * time.Millisecond)}
	if m.pending != nil {
		cmds = append(cmds, RunAsyncCmd(m.ctx, m.pending))
	}
	return tea.Batch(cmds...)
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.ensureVisible()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.MouseMsg:
		return m.handleMouseMsg(msg)

	case TickMsg:
		m.SpinnerFrame++
		return m, TickCmd(100 * time.Millisecond)

	case AsyncDoneMsg:
		if msg.Apply != nil {
			msg.Apply()
		}
		m.refresh()
		return m, nil

	case PhotoOpenedMsg:
		m.logger.Info("photo opened", "url", msg.URL)
		m.StatusMsg = "Opened in viewer"
		m.StatusIsErr = false
		return m, ClearStatusCmd(3 * time.Second)

	case ErrMsg:
		m.logger.Error("command failed", "context", msg.Context, "error", msg.Err)
		m.StatusMsg = msg.Error()
		m.StatusIsErr = true
		return m, ClearStatusCmd(5 * time.Second)

	case StatusMsg:
		m.StatusMsg = msg.Message
		m.StatusIsErr = msg.IsError
		return m, ClearStatusCmd(3 * time.Second)

	case ClearStatusMsg:
		m.StatusMsg = ""
		m.StatusIsErr = false
		return m, nil
	}

	return m, nil
}

// handleKeyMsg processes keyboard input
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" || (key.Matches(msg, Keys.Quit) && !m.filterTyping()) {
		return m, tea.Quit
	}

	// Help overlay: any key returns
	if m.ShowHelp {
		m.ShowHelp = false
		return m, nil
	}

	if _, open := m.app.Preview(); open {
		return m.handlePreviewKey(msg)
	}

	if m.filterTyping() {
		return m.handleFilterKey(msg)
	}

	switch {
	case key.Matches(msg, Keys.Help):
		m.ShowHelp = true
		return m, nil

	case key.Matches(msg, Keys.Filter):
		m.filterActive = true
		m.filterInput.Focus()
		m.ensureVisible()
		return m, nil

	case key.Matches(msg, Keys.Escape):
		if m.filterActive {
			m.clearFilter()
		}
		return m, nil

	case key.Matches(msg, Keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, Keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, Keys.HalfUp):
		m.moveCursor(-m.maxVisible() / 2)
	case key.Matches(msg, Keys.HalfDown):
		m.moveCursor(m.maxVisible() / 2)
	case key.Matches(msg, Keys.Home):
		m.moveCursor(-len(m.visible))
	case key.Matches(msg, Keys.End):
		m.moveCursor(len(m.visible))

	case key.Matches(msg, Keys.Toggle):
		next := catalog.SectionFavourites
		if m.app.Section() == catalog.SectionFavourites {
			next = catalog.SectionCatalog
		}
		return m, m.showSection(next)
	case key.Matches(msg, Keys.Catalog):
		return m, m.showSection(catalog.SectionCatalog)
	case key.Matches(msg, Keys.Favourites):
		return m, m.showSection(catalog.SectionFavourites)

	case key.Matches(msg, Keys.Expand):
		return m, m.activate()
	case key.Matches(msg, Keys.Collapse):
		return m, m.collapse()
	case key.Matches(msg, Keys.Star):
		if row, ok := m.selected(); ok && row.Kind == RowPhoto && row.Star != 0 {
			return m, m.click(row.Star)
		}
	case key.Matches(msg, Keys.Open):
		if row, ok := m.selected(); ok && row.Kind == RowPhoto && row.URL != "" {
			return m, OpenPhotoCmd(m.opener, row.URL)
		}
	}

	return m, nil
}

func (m Model) handlePreviewKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, Keys.Open):
		url, _ := m.app.Preview()
		return m, OpenPhotoCmd(m.opener, url)
	case key.Matches(msg, Keys.Escape), key.Matches(msg, Keys.Expand), key.Matches(msg, Keys.Collapse):
		if id, ok := findClass(m.app.Tree(), "close-preview"); ok {
			return m, m.click(id)
		}
	}
	return m, nil
}

func (m Model) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.clearFilter()
		return m, nil
	case "enter":
		// Accept filter, blur input to allow navigation
		m.filterInput.Blur()
		return m, nil
	case "backspace":
		if m.filterInput.Value() == "" {
			m.clearFilter()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	m.applyFilter()
	m.cursor, m.offset = 0, 0
	return m, cmd
}

// handleMouseMsg scrolls with the wheel and activates rows on left click
func (m Model) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.ShowHelp {
		return m, nil
	}
	if _, open := m.app.Preview(); open {
		return m, nil
	}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.moveCursor(-1)
		return m, nil
	case tea.MouseButtonWheelDown:
		m.moveCursor(1)
		return m, nil
	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress {
			return m, nil
		}
		line := msg.Y - HeaderHeight
		if line < 0 || line >= m.maxVisible() {
			return m, nil
		}
		idx := m.offset + line
		if idx >= len(m.visible) {
			return m, nil
		}
		m.cursor = idx
		return m, m.activate()
	}
	return m, nil
}

// activate clicks the selected row: users and albums toggle, photos preview
func (m *Model) activate() tea.Cmd {
	row, ok := m.selected()
	if !ok || !row.Selectable() || row.Target == 0 {
		return nil
	}
	return m.click(row.Target)
}

// collapse closes an expanded row, or moves to the enclosing one
func (m *Model) collapse() tea.Cmd {
	row, ok := m.selected()
	if !ok {
		return nil
	}
	if row.Expanded {
		return m.click(row.Target)
	}
	for i := m.cursor - 1; i >= 0; i-- {
		parent := m.rows[m.visible[i]]
		if parent.Selectable() && parent.Depth < row.Depth {
			m.cursor = i
			m.ensureVisible()
			break
		}
	}
	return nil
}

func (m *Model) showSection(s catalog.Section) tea.Cmd {
	id, ok := menuItem(m.app.Tree(), s)
	if !ok {
		return nil
	}
	m.clearFilter()
	m.cursor, m.offset = 0, 0
	return m.click(id)
}

// click dispatches a click on the render tree and schedules the work the
// handlers queued
func (m *Model) click(id view.NodeID) tea.Cmd {
	jobs := m.app.Tree().Click(id)
	m.refresh()
	return asyncCmds(m.ctx, jobs)
}

// refresh rebuilds the rows from the render tree, keeping the cursor on the
// same node when it is still visible
func (m *Model) refresh() {
	var target view.NodeID
	if row, ok := m.selected(); ok {
		target = row.Target
	}

	m.rows = Flatten(m.app.Tree())
	m.applyFilter()

	if target != 0 {
		for i, idx := range m.visible {
			if m.rows[idx].Target == target {
				m.cursor = i
				break
			}
		}
	}
	m.clampCursor()
	m.ensureVisible()
}

func (m *Model) selected() (Row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.visible) {
		return Row{}, false
	}
	return m.rows[m.visible[m.cursor]], true
}

func (m *Model) moveCursor(delta int) {
	m.cursor += delta
	m.clampCursor()
	m.ensureVisible()
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.visible) {
		m.cursor = len(m.visible) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) maxVisible() int {
	h := m.Height - HeaderHeight - FooterHeight
	if m.filterActive {
		h--
	}
	if h < 1 {
		h = 1
	}
	return h
}

func (m *Model) ensureVisible() {
	// Don't adjust offset if size hasn't been set yet
	if !m.Ready {
		return
	}
	maxVisible := m.maxVisible()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+maxVisible {
		m.offset = m.cursor - maxVisible + 1
	}
}

// Cursor returns the selected row, if any
func (m Model) Cursor() (Row, bool) {
	return m.selected()
}

// Rows returns the rows currently shown, after filtering
func (m Model) Rows() []Row {
	out := make([]Row, len(m.visible))
	for i, idx := range m.visible {
		out[i] = m.rows[idx]
	}
	return out
}
