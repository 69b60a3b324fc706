package tui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// State represents the current phase of the TUI model.
type State int

const (
	// StatePicking is the fuzzy file picker phase.
	StatePicking State = iota
	// StateConfirming asks y/n for the highlighted file.
	StateConfirming
	// StateDone means the TUI is finished and ready to quit.
	StateDone
)

var promptStyle = lipgloss.NewStyle().Bold(true).Padding(1, 2)

// Model is the bubbletea model for the wallpaper picker TUI.
type Model struct {
	state     State
	list      list.Model
	pending   *FileItem
	selected  *FileItem
	cancelled bool
	width     int
	height    int
	ready     bool
}

// NewPicker creates a new picker Model with the given list items.
func NewPicker(items []list.Item) Model {
	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Select a wallpaper"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.DisableQuitKeybindings()

	return Model{
		state: StatePicking,
		list:  l,
	}
}

// ItemsFromPaths stats each path and wraps it as a list item. Paths that
// cannot be read are skipped.
func ItemsFromPaths(paths []string) []list.Item {
	items := make([]list.Item, 0, len(paths))

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			continue
		}

		items = append(items, NewFileItem(p, info.Size(), info.ModTime()))
	}

	return items
}

// Init returns the initial command. The list handles its own init internally.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = wsm.Width
		m.height = wsm.Height
		m.list.SetSize(wsm.Width, wsm.Height-2)
		m.ready = true

		return m, nil
	}

	switch m.state {
	case StatePicking:
		return m.updatePicking(msg)
	case StateConfirming:
		return m.updateConfirming(msg)
	}

	return m, nil
}

func (m Model) updatePicking(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "ctrl+c":
			return m.cancel()

		case "esc":
			// Only quit on esc when not actively filtering.
			if m.list.FilterState() != list.Filtering {
				return m.cancel()
			}

		case "enter":
			if m.list.FilterState() == list.Filtering {
				break // fall through to list.Update
			}

			item, ok := m.list.SelectedItem().(FileItem)
			if !ok {
				return m, nil
			}

			m.pending = &item
			m.state = StateConfirming

			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)

	return m, cmd
}

func (m Model) updateConfirming(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "ctrl+c":
		return m.cancel()

	case "y", "Y", "enter":
		m.selected = m.pending
		m.state = StateDone

		return m, tea.Quit

	case "n", "N", "esc":
		m.pending = nil
		m.state = StatePicking
	}

	return m, nil
}

func (m Model) cancel() (tea.Model, tea.Cmd) {
	m.cancelled = true
	m.pending = nil
	m.state = StateDone

	return m, tea.Quit
}

// View renders the current TUI state.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	switch m.state {
	case StatePicking:
		return m.list.View()
	case StateConfirming:
		return promptStyle.Render(fmt.Sprintf("Set %s as wallpaper? (y/n)", m.pending.Title()))
	}

	return ""
}

// Selected returns the chosen file, or nil if none was chosen.
func (m Model) Selected() *FileItem { return m.selected }

// Cancelled returns true if the user cancelled the picker.
func (m Model) Cancelled() bool { return m.cancelled }

// State returns the current picker state.
func (m Model) State() State { return m.state }
