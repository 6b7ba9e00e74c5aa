package tui

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/tminus/internal/config"
	"github.com/julianstephens/tminus/internal/debounce"
	"github.com/julianstephens/tminus/internal/display"
	"github.com/julianstephens/tminus/internal/models"
	"github.com/julianstephens/tminus/internal/poller"
	"github.com/julianstephens/tminus/internal/tracker"
	"github.com/julianstephens/tminus/internal/tui/components/board"
	"github.com/julianstephens/tminus/internal/tui/components/timelog"
)

type SessionState int

const (
	StateCountdowns SessionState = iota
	StateProjects
	StateForm
	StateConfirmDelete
	StateCompletion
	StateExtend
	StateNotes
	StateTimeLog
)

const tabCount = 2

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// target names the record an edit, delete or notes session applies to.
type target struct {
	project bool
	id      int64
}

func (t target) field(name string) string {
	kind := "countdown"
	if t.project {
		kind = "project"
	}
	return kind + ":" + strconv.FormatInt(t.id, 10) + ":" + name
}

type Model struct {
	tracker   *tracker.Tracker
	poller    *poller.Poller
	debouncer *debounce.Debouncer
	cfg       config.Config

	state         SessionState
	previousState SessionState
	keys          KeyMap
	help          help.Model

	countdownBoard board.Model
	projectBoard   board.Model
	timeLog        timelog.Model

	form     *huh.Form
	formKind formKind
	fields   *formFields

	notes       textarea.Model
	notesTarget target
	extendInput textinput.Model

	selected target
	pending  models.Countdown

	message  string
	errMsg   string
	quitting bool
	width    int
	height   int
}

func NewModel(t *tracker.Tracker, cfg config.Config) Model {
	ta := textarea.New()
	ta.Placeholder = "Markdown notes..."
	ta.ShowLineNumbers = false

	ti := textinput.New()
	ti.Placeholder = strconv.Itoa(cfg.ExtendDays)
	ti.CharLimit = 4

	m := Model{
		tracker:        t,
		poller:         poller.New(t),
		debouncer:      debounce.New(cfg.NotesDebounce()),
		cfg:            cfg,
		state:          StateCountdowns,
		keys:           DefaultKeyMap(),
		help:           help.New(),
		countdownBoard: board.New(0, 0),
		projectBoard:   board.New(0, 0),
		timeLog:        timelog.New(0, 0),
		notes:          ta,
		extendInput:    ti,
	}
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) ShortHelp() []key.Binding {
	switch m.state {
	case StateCompletion, StateConfirmDelete:
		return []key.Binding{m.keys.Yes, m.keys.No}
	case StateNotes, StateExtend, StateForm:
		return []key.Binding{m.keys.Back}
	case StateTimeLog:
		return []key.Binding{m.keys.Back, m.keys.Add, m.keys.Delete, m.keys.Quit}
	}
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help, m.keys.Add, m.keys.Complete, m.keys.Notes}
	if m.state == StateProjects {
		keys = append(keys, m.keys.TimeLog)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help}
	navigation := []key.Binding{m.keys.Up, m.keys.Down, m.keys.Back}
	actions := []key.Binding{m.keys.Add, m.keys.Edit, m.keys.Delete, m.keys.Complete, m.keys.Cancel, m.keys.Notes, m.keys.Link}
	if m.state == StateProjects {
		actions = append(actions, m.keys.TimeLog)
	}
	return [][]key.Binding{global, navigation, actions}
}

// refresh re-reads the tracker and rebuilds both boards. Time displays are
// recomputed from the current clock every call.
func (m *Model) refresh() {
	now := m.tracker.Now()
	loc := m.tracker.Location()

	active := make([]board.Row, 0)
	for _, c := range m.tracker.ActiveCountdowns() {
		td := display.ForCountdown(c, now, loc)
		style := calmStyle
		switch {
		case td.Urgent:
			style = urgentStyle
		case display.Soon(td):
			style = soonStyle
		}
		active = append(active, board.Row{ID: c.ID, Title: c.Name, Detail: td.String(), TitleStyle: nameStyle, DetailStyle: style})
	}
	closed := func(list []models.Countdown) []board.Row {
		rows := make([]board.Row, 0, len(list))
		for _, c := range list {
			rows = append(rows, board.Row{ID: c.ID, Title: c.Name, Detail: display.ClosedLabel(c, loc), TitleStyle: mutedStyle, DetailStyle: mutedStyle})
		}
		return rows
	}
	m.countdownBoard.SetSections([]board.Section{
		{Title: "Active", Empty: "No active countdowns. Press 'a' to add one.", Rows: active},
		{Title: "Completed", Empty: "Nothing completed yet.", Rows: closed(m.tracker.ArchivedCountdowns())},
		{Title: "Canceled", Empty: "Nothing canceled.", Rows: closed(m.tracker.CanceledCountdowns())},
	})

	projectRows := func(status models.Status) []board.Row {
		list := m.tracker.ProjectsByStatus(status)
		rows := make([]board.Row, 0, len(list))
		for _, p := range list {
			title := projectStyle(p.Color)
			if status != models.StatusActive {
				title = title.Faint(true)
			}
			detail := fmt.Sprintf("%.2f hours", tracker.TotalHours(p.TimeLog))
			if len(p.Links) > 0 {
				detail += fmt.Sprintf(" · %d links", len(p.Links))
			}
			rows = append(rows, board.Row{ID: p.ID, Title: p.Name, Detail: detail, TitleStyle: title, DetailStyle: mutedStyle})
		}
		return rows
	}
	m.projectBoard.SetSections([]board.Section{
		{Title: "Active", Empty: "No active projects. Press 'a' to add one.", Rows: projectRows(models.StatusActive)},
		{Title: "Completed", Empty: "Nothing completed yet.", Rows: projectRows(models.StatusArchived)},
		{Title: "Canceled", Empty: "Nothing canceled.", Rows: projectRows(models.StatusCanceled)},
	})

	if m.state == StateTimeLog {
		if p, err := m.tracker.Project(m.selected.id); err == nil {
			m.timeLog.SetProject(p)
		}
	}
}

// selection returns the record under the cursor of the visible tab.
func (m Model) selection() (target, bool) {
	switch m.state {
	case StateCountdowns:
		if row, ok := m.countdownBoard.Selected(); ok {
			return target{id: row.ID}, true
		}
	case StateProjects:
		if row, ok := m.projectBoard.Selected(); ok {
			return target{project: true, id: row.ID}, true
		}
	}
	return target{}, false
}

func (m *Model) setSizes() {
	h := max(m.height-4, 0)
	w := max(m.width-4, 0)
	m.countdownBoard.SetSize(w, h)
	m.projectBoard.SetSize(w, h)
	m.timeLog.SetSize(w, h)
	m.notes.SetWidth(w)
	m.notes.SetHeight(max(h-4, 3))
}

func (m *Model) fail(err error) {
	m.message = ""
	m.errMsg = err.Error()
}
