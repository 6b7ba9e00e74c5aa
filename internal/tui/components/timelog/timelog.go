package timelog

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/tminus/internal/models"
	"github.com/julianstephens/tminus/internal/tracker"
)

type AddEntryMsg struct{}

type DeleteEntryMsg struct {
	ID int64
}

type Item struct {
	Entry models.TimeEntry
}

func (i Item) Title() string {
	return fmt.Sprintf("%s  %s h", i.Entry.Date, strconv.FormatFloat(i.Entry.Hours, 'f', -1, 64))
}

func (i Item) Description() string {
	if i.Entry.Note == "" {
		return "no note"
	}
	return i.Entry.Note
}

func (i Item) FilterValue() string { return i.Entry.Date + " " + i.Entry.Note }

type KeyMap struct {
	Add    key.Binding
	Delete key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "log time"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete entry"),
		),
	}
}

// Model lists one project's time log, newest first.
type Model struct {
	list list.Model
	keys KeyMap
}

func New(width, height int) Model {
	l := list.New(nil, list.NewDefaultDelegate(), width, height)
	l.SetShowHelp(false) // We handle help globally in the main model
	l.SetFilteringEnabled(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Delete}
	}

	return Model{list: l, keys: keys}
}

// SetProject loads p's entries and puts the running total in the title.
func (m *Model) SetProject(p models.Project) {
	entries := tracker.SortedTimeLog(p)
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = Item{Entry: e}
	}
	m.list.SetItems(items)
	m.list.Title = fmt.Sprintf("%s · %.2f hours", p.Name, tracker.TotalHours(entries))
}

func (m Model) Title() string {
	return m.list.Title
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddEntryMsg{} }
		case key.Matches(msg, m.keys.Delete):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return DeleteEntryMsg{ID: i.Entry.ID} }
			}
			return m, nil
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return "\n  " + m.list.Title + "\n\n  No time logged yet.\n  Press 'a' to log some."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
