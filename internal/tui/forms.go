package tui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/tminus/internal/constants"
	"github.com/julianstephens/tminus/internal/models"
	"github.com/julianstephens/tminus/internal/utils"
)

type formKind int

const (
	formAddCountdown formKind = iota
	formEditCountdown
	formAddProject
	formEditProject
	formLink
	formTimeEntry
)

// formFields backs every huh form; each form binds the fields it needs.
type formFields struct {
	Name  string
	Date  string
	Time  string
	Color string
	Hours string
	Note  string
	Label string
	URL   string
}

func required(label string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", label)
		}
		return nil
	}
}

func validDate(optional bool) func(string) error {
	return func(s string) error {
		s = strings.TrimSpace(s)
		if s == "" && optional {
			return nil
		}
		if !utils.ValidateDateFormat(s) {
			return fmt.Errorf("use YYYY-MM-DD")
		}
		return nil
	}
}

func validClock(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if !utils.ValidateTimeFormat(s) {
		return fmt.Errorf("use HH:MM")
	}
	return nil
}

func validHours(s string) error {
	h, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || h <= 0 {
		return fmt.Errorf("hours must be a positive number")
	}
	return nil
}

func colorOptions() []huh.Option[string] {
	names := make([]string, len(models.Colors))
	for i, c := range models.Colors {
		names[i] = string(c)
	}
	return huh.NewOptions(names...)
}

func (m *Model) openForm(kind formKind, t target) tea.Cmd {
	f := &formFields{Color: string(models.ColorTeal)}
	var group *huh.Group

	switch kind {
	case formAddCountdown, formEditCountdown:
		if kind == formEditCountdown {
			c, err := m.tracker.Countdown(t.id)
			if err != nil {
				m.fail(err)
				return nil
			}
			f.Name = c.Name
			if when, err := c.Target(m.tracker.Location()); err == nil {
				f.Date = when.Format(constants.DateFormat)
				f.Time = when.Format(constants.TimeFormat)
			}
		}
		group = huh.NewGroup(
			huh.NewInput().Title("Name").Value(&f.Name).Validate(required("name")),
			huh.NewInput().Title("Date").Placeholder("YYYY-MM-DD").Value(&f.Date).Validate(validDate(false)),
			huh.NewInput().Title("Time").Placeholder("HH:MM (optional)").Value(&f.Time).Validate(validClock),
		)
	case formAddProject, formEditProject:
		if kind == formEditProject {
			p, err := m.tracker.Project(t.id)
			if err != nil {
				m.fail(err)
				return nil
			}
			f.Name = p.Name
			f.Color = string(p.Color)
		}
		group = huh.NewGroup(
			huh.NewInput().Title("Name").Value(&f.Name).Validate(required("name")),
			huh.NewSelect[string]().Title("Color").Options(colorOptions()...).Value(&f.Color),
		)
	case formLink:
		group = huh.NewGroup(
			huh.NewInput().Title("Label").Value(&f.Label).Validate(required("label")),
			huh.NewInput().Title("URL").Value(&f.URL).Validate(required("url")),
		)
	case formTimeEntry:
		f.Date = m.tracker.Now().In(m.tracker.Location()).Format(constants.DateFormat)
		group = huh.NewGroup(
			huh.NewInput().Title("Date").Value(&f.Date).Validate(validDate(true)),
			huh.NewInput().Title("Hours").Value(&f.Hours).Validate(validHours),
			huh.NewInput().Title("Note").Placeholder("optional").Value(&f.Note),
		)
	}

	m.fields = f
	m.formKind = kind
	m.selected = t
	m.form = huh.NewForm(group)
	m.previousState = m.state
	m.state = StateForm
	return m.form.Init()
}

// submitForm applies a completed form to the tracker.
func (m *Model) submitForm() error {
	f := m.fields
	id := m.selected.id

	switch m.formKind {
	case formAddCountdown:
		c, err := m.tracker.AddCountdown(f.Name, models.FormatTarget(f.Date, f.Time))
		if err != nil {
			return err
		}
		m.message = "Added " + c.Name
	case formEditCountdown:
		if err := m.tracker.EditCountdown(id, f.Name, models.FormatTarget(f.Date, f.Time)); err != nil {
			return err
		}
		m.message = "Updated " + strings.TrimSpace(f.Name)
	case formAddProject:
		p, err := m.tracker.AddProject(f.Name, f.Color)
		if err != nil {
			return err
		}
		m.message = "Added " + p.Name
	case formEditProject:
		if err := m.tracker.EditProject(id, f.Name, f.Color); err != nil {
			return err
		}
		m.message = "Updated " + strings.TrimSpace(f.Name)
	case formLink:
		var err error
		if m.selected.project {
			err = m.tracker.AddProjectLink(id, f.Label, f.URL)
		} else {
			err = m.tracker.AddCountdownLink(id, f.Label, f.URL)
		}
		if err != nil {
			return err
		}
		m.message = "Added link " + strings.TrimSpace(f.Label)
	case formTimeEntry:
		hours, err := strconv.ParseFloat(strings.TrimSpace(f.Hours), 64)
		if err != nil {
			return fmt.Errorf("invalid hours %q", f.Hours)
		}
		entry, err := m.tracker.AddTimeEntry(id, strings.TrimSpace(f.Date), hours, f.Note)
		if err != nil {
			return err
		}
		m.message = fmt.Sprintf("Logged %s hours on %s", strconv.FormatFloat(entry.Hours, 'f', -1, 64), entry.Date)
	}
	return nil
}

func (m *Model) closeForm() {
	m.form = nil
	m.fields = nil
	m.state = m.previousState
}
