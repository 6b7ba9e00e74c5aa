package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/tminus/internal/logger"
	"github.com/julianstephens/tminus/internal/tui/components/timelog"
)

const unlockMessage = "🎉 First countdown completed! Something new has been unlocked."

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.setSizes()
		return m, nil

	case tickMsg:
		m.refresh()
		m.poll()
		return m, tick()

	case notesSaveMsg:
		m.handleNotesSave(msg)
		return m, nil

	case timelog.AddEntryMsg:
		cmd := m.openForm(formTimeEntry, m.selected)
		return m, cmd

	case timelog.DeleteEntryMsg:
		if err := m.tracker.DeleteTimeEntry(m.selected.id, msg.ID); err != nil {
			m.fail(err)
		}
		m.refresh()
		return m, nil
	}

	switch m.state {
	case StateForm:
		return m.updateForm(msg)
	case StateNotes:
		return m.updateNotes(msg)
	case StateExtend:
		return m.updateExtend(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	if key.Matches(keyMsg, m.keys.Quit) {
		m.quitting = true
		return m, tea.Quit
	}
	m.message, m.errMsg = "", ""

	switch m.state {
	case StateCompletion:
		return m.updateCompletion(keyMsg)
	case StateConfirmDelete:
		return m.updateConfirmDelete(keyMsg)
	case StateTimeLog:
		if key.Matches(keyMsg, m.keys.Back) {
			m.state = StateProjects
			return m, nil
		}
		var cmd tea.Cmd
		m.timeLog, cmd = m.timeLog.Update(keyMsg)
		return m, cmd
	}
	return m.updateBoard(keyMsg)
}

// poll surfaces a completed countdown only while a board is showing, so a
// form or editor in progress is never interrupted.
func (m *Model) poll() {
	if m.state != StateCountdowns && m.state != StateProjects {
		return
	}
	c, ok := m.poller.Tick(m.tracker.Now())
	if !ok {
		return
	}
	m.pending = c
	m.previousState = m.state
	m.state = StateCompletion
}

func (m Model) updateBoard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Tab):
		m.state = (m.state + 1) % tabCount
		return m, nil
	case key.Matches(msg, m.keys.ShiftTab):
		m.state = (m.state - 1 + tabCount) % tabCount
		return m, nil
	case key.Matches(msg, m.keys.Add):
		if m.state == StateProjects {
			cmd := m.openForm(formAddProject, target{project: true})
			return m, cmd
		}
		cmd := m.openForm(formAddCountdown, target{})
		return m, cmd
	}

	sel, ok := m.selection()
	if ok {
		switch {
		case key.Matches(msg, m.keys.Edit):
			if sel.project {
				cmd := m.openForm(formEditProject, sel)
				return m, cmd
			}
			cmd := m.openForm(formEditCountdown, sel)
			return m, cmd
		case key.Matches(msg, m.keys.Delete):
			m.selected = sel
			m.previousState = m.state
			m.state = StateConfirmDelete
			return m, nil
		case key.Matches(msg, m.keys.Complete):
			m.complete(sel)
			return m, nil
		case key.Matches(msg, m.keys.Cancel):
			m.cancel(sel)
			return m, nil
		case key.Matches(msg, m.keys.Notes):
			cmd := m.openNotes(sel)
			return m, cmd
		case key.Matches(msg, m.keys.Link):
			cmd := m.openForm(formLink, sel)
			return m, cmd
		case key.Matches(msg, m.keys.TimeLog):
			if sel.project {
				m.selected = sel
				m.state = StateTimeLog
				m.refresh()
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	if m.state == StateProjects {
		m.projectBoard, cmd = m.projectBoard.Update(msg)
	} else {
		m.countdownBoard, cmd = m.countdownBoard.Update(msg)
	}
	return m, cmd
}

func (m *Model) complete(t target) {
	if t.project {
		if err := m.tracker.ArchiveProject(t.id); err != nil {
			m.fail(err)
			return
		}
		m.message = "✓ Project complete"
	} else {
		unlocked, err := m.tracker.ArchiveCountdown(t.id)
		if err != nil {
			m.fail(err)
			return
		}
		m.message = "✓ Countdown complete"
		if unlocked {
			m.message = unlockMessage
		}
	}
	m.refresh()
}

func (m *Model) cancel(t target) {
	var err error
	if t.project {
		err = m.tracker.CancelProject(t.id)
	} else {
		err = m.tracker.CancelCountdown(t.id)
	}
	if err != nil {
		m.fail(err)
		return
	}
	m.message = "Canceled"
	m.refresh()
}

func (m Model) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Yes):
		var err error
		if m.selected.project {
			err = m.tracker.DeleteProject(m.selected.id)
		} else {
			err = m.tracker.DeleteCountdown(m.selected.id)
		}
		m.state = m.previousState
		if err != nil {
			m.fail(err)
		} else {
			m.message = "Deleted"
		}
		m.refresh()
	case key.Matches(msg, m.keys.No), key.Matches(msg, m.keys.Back):
		m.state = m.previousState
	}
	return m, nil
}

func (m Model) updateCompletion(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Yes):
		unlocked, err := m.poller.Confirm()
		m.state = m.previousState
		if err != nil {
			m.fail(err)
		} else {
			m.message = "✓ " + m.pending.Name + " complete"
			if unlocked {
				m.message = unlockMessage
			}
		}
		m.refresh()
		return m, nil
	case key.Matches(msg, m.keys.No):
		m.extendInput.SetValue("")
		m.state = StateExtend
		cmd := m.extendInput.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.Back):
		m.poller.Dismiss()
		m.state = m.previousState
	}
	return m, nil
}

// updateExtend reads the number of days to push the pending countdown out.
// "c" cancels it instead; anything unparseable uses the configured default.
func (m Model) updateExtend(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			m.poller.Dismiss()
			m.extendInput.Blur()
			m.state = m.previousState
			return m, nil
		case "enter":
			m.resolveExtend(strings.TrimSpace(m.extendInput.Value()))
			m.extendInput.Blur()
			m.state = m.previousState
			m.refresh()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.extendInput, cmd = m.extendInput.Update(msg)
	return m, cmd
}

func (m *Model) resolveExtend(answer string) {
	if strings.EqualFold(answer, "c") {
		if err := m.poller.Cancel(); err != nil {
			m.fail(err)
			return
		}
		m.message = m.pending.Name + " canceled"
		return
	}
	days, err := strconv.Atoi(answer)
	if err != nil || days < 1 {
		days = m.cfg.ExtendDays
	}
	if err := m.poller.Extend(days); err != nil {
		m.fail(err)
		return
	}
	m.message = "Extended " + m.pending.Name + " by " + strconv.Itoa(days) + " days"
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && key.Matches(keyMsg, m.keys.Back) {
		m.closeForm()
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		if err := m.submitForm(); err != nil {
			logger.Warn("form rejected", "error", err)
			m.fail(err)
		}
		m.closeForm()
		m.refresh()
		return m, nil
	case huh.StateAborted:
		m.closeForm()
		return m, nil
	}
	return m, cmd
}

func (m Model) updateNotes(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && key.Matches(keyMsg, m.keys.Back) {
		m.closeNotes()
		return m, nil
	}

	before := m.notes.Value()
	var cmd tea.Cmd
	m.notes, cmd = m.notes.Update(msg)
	if m.notes.Value() != before {
		return m, tea.Batch(cmd, m.scheduleNotesSave())
	}
	return m, cmd
}
