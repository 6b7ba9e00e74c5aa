package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/tminus/internal/display"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string

	switch m.state {
	case StateCountdowns:
		content = docStyle.Render(m.countdownBoard.View())
	case StateProjects:
		content = docStyle.Render(m.projectBoard.View())
	case StateTimeLog:
		content = docStyle.Render(m.timeLog.View())
	case StateForm:
		content = docStyle.Render(m.form.View())
	case StateNotes:
		content = m.viewNotes()
	case StateConfirmDelete:
		content = m.viewConfirmDelete()
	case StateCompletion:
		content = m.viewCompletion()
	case StateExtend:
		content = m.viewExtend()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		content,
		m.viewStatus(),
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	active := m.state
	if active != StateCountdowns && active != StateProjects {
		active = m.previousState
	}
	if active == StateTimeLog {
		active = StateProjects
	}

	var tabs []string
	for i, title := range []string{"Countdowns", "Projects"} {
		if active == SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewStatus() string {
	if m.errMsg != "" {
		return errorStyle.Render("Error: " + m.errMsg)
	}
	if m.message != "" {
		return messageStyle.Render(m.message)
	}
	return ""
}

func (m Model) viewNotes() string {
	status := mutedStyle.Render("saved")
	if m.debouncer.Pending(m.notesTarget.field(notesField)) {
		status = mutedStyle.Render("editing...")
	}
	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left,
		nameStyle.Render("Notes")+"  "+status,
		"",
		m.notes.View(),
		"",
		mutedStyle.Render("esc to close"),
	))
}

func (m Model) modal(lines ...string) string {
	return lipgloss.Place(m.width, max(m.height-4, 0),
		lipgloss.Center, lipgloss.Center,
		modalStyle.Render(lipgloss.JoinVertical(lipgloss.Center, lines...)),
	)
}

func (m Model) viewConfirmDelete() string {
	what := "countdown"
	if m.selected.project {
		what = "project"
	}
	return m.modal(
		dangerStyle.Render(fmt.Sprintf("Are you sure you want to delete this %s?", what)),
		"",
		"[y] Yes",
		"[n] No",
	)
}

func (m Model) viewCompletion() string {
	loc := m.tracker.Location()
	when := m.pending.TargetDate
	if target, err := m.pending.Target(loc); err == nil {
		when = target.Format("Monday, Jan 2 15:04")
	}
	return m.modal(
		nameStyle.Render("⏰ "+m.pending.Name),
		mutedStyle.Render(when),
		"",
		"Did you complete it?",
		"",
		"[y] Yes, mark complete",
		"[n] No, extend or cancel",
		"[esc] Ask me later",
	)
}

func (m Model) viewExtend() string {
	return m.modal(
		nameStyle.Render(m.pending.Name),
		"",
		fmt.Sprintf("Extend by how many days? (default %d)", m.cfg.ExtendDays),
		m.extendInput.View(),
		"",
		mutedStyle.Render("type c to cancel it instead"),
		mutedStyle.Render("currently "+display.ForCountdown(m.pending, m.tracker.Now(), m.tracker.Location()).String()),
	)
}
