package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/tminus/internal/debounce"
	"github.com/julianstephens/tminus/internal/logger"
)

const notesField = "notes"

// notesSaveMsg comes back from tea.Tick once the debounce delay has passed.
type notesSaveMsg struct {
	ticket debounce.Ticket
	target target
}

func (m *Model) openNotes(t target) tea.Cmd {
	var notes string
	if t.project {
		p, err := m.tracker.Project(t.id)
		if err != nil {
			m.fail(err)
			return nil
		}
		notes = p.Notes
	} else {
		c, err := m.tracker.Countdown(t.id)
		if err != nil {
			m.fail(err)
			return nil
		}
		notes = c.Notes
	}

	m.notesTarget = t
	m.notes.SetValue(notes)
	m.previousState = m.state
	m.state = StateNotes
	return m.notes.Focus()
}

// scheduleNotesSave replaces any pending save for the open editor.
func (m *Model) scheduleNotesSave() tea.Cmd {
	t := m.notesTarget
	ticket := m.debouncer.Schedule(t.field(notesField))
	return tea.Tick(m.debouncer.Delay(), func(time.Time) tea.Msg {
		return notesSaveMsg{ticket: ticket, target: t}
	})
}

func (m *Model) handleNotesSave(msg notesSaveMsg) {
	if !m.debouncer.Ready(msg.ticket) {
		return
	}
	if msg.target != m.notesTarget {
		return
	}
	m.saveNotes()
}

// closeNotes writes any edit still waiting on its delay and leaves the editor.
func (m *Model) closeNotes() {
	if m.debouncer.Flush(m.notesTarget.field(notesField)) {
		m.saveNotes()
	}
	m.notes.Blur()
	m.state = m.previousState
	m.refresh()
}

func (m *Model) saveNotes() {
	t := m.notesTarget
	var err error
	if t.project {
		err = m.tracker.SetProjectNotes(t.id, m.notes.Value())
	} else {
		err = m.tracker.SetCountdownNotes(t.id, m.notes.Value())
	}
	if err != nil {
		logger.Error("failed to save notes", "field", t.field(notesField), "error", err)
		m.fail(err)
		return
	}
	logger.Debug("notes saved", "field", t.field(notesField))
}
