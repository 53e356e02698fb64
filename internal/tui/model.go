package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/colonyops/burner/internal/app"
	"github.com/colonyops/burner/internal/core/burner"
	"github.com/colonyops/burner/internal/core/logging"
	"github.com/colonyops/burner/internal/store"
)

func itemStatusPatch(s burner.Status) store.ItemPatch {
	return store.ItemPatch{Status: &s}
}

// stateChangedMsg signals that the state file was rewritten by another
// process and the board should reload.
type stateChangedMsg struct{}

// Model is the interactive board: one column per slot, a cursor, and
// single-key transitions on the selected task.
type Model struct {
	app  *app.App
	keys keyMap
	help help.Model
	log  zerolog.Logger

	state  burner.AppState
	col    int
	cursor [3]int

	adding bool
	input  textinput.Model

	status string

	changes <-chan struct{}

	width  int
	height int
}

// New creates a board model. The changes channel, when non-nil, triggers
// reloads on external state file writes.
func New(a *app.App, changes <-chan struct{}) Model {
	input := textinput.New()
	input.Placeholder = "what needs doing?"
	input.CharLimit = 200

	return Model{
		app:     a,
		keys:    defaultKeyMap(),
		help:    help.New(),
		log:     logging.Component("tui"),
		state:   a.State(),
		changes: changes,
		input:   input,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.waitForChange()
}

// waitForChange blocks on the watcher channel and converts a signal into
// a reload message. A closed channel ends the watch quietly.
func (m Model) waitForChange() tea.Cmd {
	if m.changes == nil {
		return nil
	}
	ch := m.changes
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return stateChangedMsg{}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case stateChangedMsg:
		if err := m.app.Store.Reload(); err != nil {
			m.log.Warn().Err(err).Msg("reload after external change failed")
		}
		m.refresh()
		m.status = "reloaded"
		return m, m.waitForChange()

	case tea.KeyMsg:
		if m.adding {
			return m.updateAdding(msg)
		}
		return m.updateNormal(msg)
	}

	return m, nil
}

func (m Model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Up):
		if m.cursor[m.col] > 0 {
			m.cursor[m.col]--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor[m.col] < len(m.column(m.col).Items)-1 {
			m.cursor[m.col]++
		}

	case key.Matches(msg, m.keys.Left):
		if m.col > 0 {
			m.col--
		}

	case key.Matches(msg, m.keys.Right):
		if m.col < len(burner.SlotTypes())-1 {
			m.col++
		}

	case key.Matches(msg, m.keys.Promote):
		if item, ok := m.selected(); ok {
			m.report(m.app.Store.PromoteItem(item.ID))
			m.followItem(item.ID)
		}

	case key.Matches(msg, m.keys.Demote):
		if item, ok := m.selected(); ok {
			m.report(m.app.Store.DemoteItem(item.ID))
			m.followItem(item.ID)
		}

	case key.Matches(msg, m.keys.Toggle):
		if item, ok := m.selected(); ok {
			status := burner.StatusDone
			if item.Status == burner.StatusDone {
				status = burner.StatusOpen
			}
			slot := burner.SlotTypes()[m.col]
			m.report(m.app.Store.UpdateItem(slot, item.ID, itemStatusPatch(status)))
			m.refresh()
		}

	case key.Matches(msg, m.keys.Snooze):
		if item, ok := m.selected(); ok {
			status := burner.StatusSnoozed
			if item.Status == burner.StatusSnoozed {
				status = burner.StatusOpen
			}
			slot := burner.SlotTypes()[m.col]
			m.report(m.app.Store.UpdateItem(slot, item.ID, itemStatusPatch(status)))
			m.refresh()
		}

	case key.Matches(msg, m.keys.Delete):
		if item, ok := m.selected(); ok {
			slot := burner.SlotTypes()[m.col]
			m.report(m.app.Store.DeleteItem(slot, item.ID))
			m.refresh()
		}

	case key.Matches(msg, m.keys.Add):
		m.adding = true
		m.input.SetValue("")
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.Reload):
		if err := m.app.Store.Reload(); err != nil {
			m.status = "reload failed: " + err.Error()
		} else {
			m.status = "reloaded"
		}
		m.refresh()
	}

	return m, nil
}

func (m Model) updateAdding(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.adding = false
		m.input.Blur()
		return m, nil

	case "enter":
		content := strings.TrimSpace(m.input.Value())
		m.adding = false
		m.input.Blur()
		if content == "" {
			return m, nil
		}
		slot := burner.SlotTypes()[m.col]
		_, err := m.app.AddItem(slot, content, nil)
		m.report(err)
		m.refresh()
		m.cursor[m.col] = len(m.column(m.col).Items) - 1
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// refresh re-reads the state snapshot and keeps the cursors in bounds.
func (m *Model) refresh() {
	m.state = m.app.State()
	for i := range m.cursor {
		if n := len(m.column(i).Items); m.cursor[i] >= n {
			m.cursor[i] = n - 1
		}
		if m.cursor[i] < 0 {
			m.cursor[i] = 0
		}
	}
}

// followItem refreshes and moves cursor and column to the item's new
// location, so a promoted or demoted task stays selected.
func (m *Model) followItem(itemID string) {
	m.refresh()
	for ci, t := range burner.SlotTypes() {
		for ii, item := range m.state.Current.Slot(t).Items {
			if item.ID == itemID {
				m.col = ci
				m.cursor[ci] = ii
				return
			}
		}
	}
}

// report turns a persistence warning into a status line message. Other
// errors are not expected from board transitions.
func (m *Model) report(err error) {
	if err != nil {
		m.status = "warning: changes not saved to disk"
		m.log.Warn().Err(err).Msg("board transition not persisted")
	}
}

func (m *Model) column(i int) *burner.Slot {
	return m.state.Current.Slot(burner.SlotTypes()[i])
}

func (m *Model) selected() (burner.Item, bool) {
	items := m.column(m.col).Items
	if len(items) == 0 || m.cursor[m.col] >= len(items) {
		return burner.Item{}, false
	}
	return items[m.cursor[m.col]], true
}
