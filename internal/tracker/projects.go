package tracker

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/tminus/internal/constants"
	"github.com/julianstephens/tminus/internal/logger"
	"github.com/julianstephens/tminus/internal/models"
	"github.com/julianstephens/tminus/internal/utils"
)

// Projects returns every project in store order.
func (t *Tracker) Projects() []models.Project {
	return cloneProjects(t.projects)
}

func (t *Tracker) Project(id int64) (models.Project, error) {
	idx := t.projectIndex(id)
	if idx < 0 {
		return models.Project{}, notFound("project", id)
	}
	return t.projects[idx].Clone(), nil
}

// ProjectsByStatus returns the projects in one section, sorted by name
// ignoring case.
func (t *Tracker) ProjectsByStatus(status models.Status) []models.Project {
	out := []models.Project{}
	for _, p := range t.projects {
		if p.Status == status {
			out = append(out, p.Clone())
		}
	}
	sortByName(out)
	return out
}

func (t *Tracker) AddProject(name, color string) (models.Project, error) {
	name, err := requireName(name)
	if err != nil {
		return models.Project{}, err
	}
	c, err := models.ParseColor(color)
	if err != nil {
		return models.Project{}, invalid("%s", err.Error())
	}

	p := models.Project{
		ID:        t.nextID(),
		Name:      name,
		Status:    models.StatusActive,
		Color:     c,
		CreatedAt: t.now(),
	}
	if err := t.insertProject(p); err != nil {
		return models.Project{}, err
	}
	logger.Info("project added", "id", p.ID, "name", p.Name)
	return p.Clone(), nil
}

// ImportProject adds a project read from a single-project export. It always
// gets a fresh id, starts active, and is created now. Every time entry must
// pass the same checks as AddTimeEntry and is given a fresh id too.
func (t *Tracker) ImportProject(p models.Project) (models.Project, error) {
	name, err := requireName(p.Name)
	if err != nil {
		return models.Project{}, err
	}
	c := p.Color
	if c == "" {
		c = models.ColorTeal
	}
	if !c.Valid() {
		return models.Project{}, invalid("invalid color: %q", c)
	}
	for i, e := range p.TimeLog {
		if err := e.Validate(); err != nil {
			return models.Project{}, invalid("time entry %d: %s", i+1, err.Error())
		}
	}

	imported := p.Clone()
	imported.ID = t.nextID()
	for i := range imported.TimeLog {
		imported.TimeLog[i].ID = t.nextID()
	}
	imported.Name = name
	imported.Color = c
	imported.Status = models.StatusActive
	imported.CreatedAt = t.now()
	imported.ModifiedAt = nil
	imported.CompletedAt = nil
	imported.CanceledAt = nil
	if err := t.insertProject(imported); err != nil {
		return models.Project{}, err
	}
	logger.Info("project imported", "id", imported.ID, "name", imported.Name)
	return imported.Clone(), nil
}

func (t *Tracker) insertProject(p models.Project) error {
	next := append(cloneProjects(t.projects), p)
	if err := t.store.SaveProjects(next); err != nil {
		return err
	}
	t.projects = next
	return nil
}

func (t *Tracker) EditProject(id int64, name, color string) error {
	name, err := requireName(name)
	if err != nil {
		return err
	}
	c, err := models.ParseColor(color)
	if err != nil {
		return invalid("%s", err.Error())
	}
	return t.updateProject(id, func(p *models.Project) error {
		p.Name = name
		p.Color = c
		return nil
	})
}

func (t *Tracker) DeleteProject(id int64) error {
	idx := t.projectIndex(id)
	if idx < 0 {
		return notFound("project", id)
	}
	next := make([]models.Project, 0, len(t.projects)-1)
	next = append(next, cloneProjects(t.projects[:idx])...)
	next = append(next, cloneProjects(t.projects[idx+1:])...)
	if err := t.store.SaveProjects(next); err != nil {
		return err
	}
	t.projects = next
	logger.Info("project deleted", "id", id)
	return nil
}

func (t *Tracker) ArchiveProject(id int64) error {
	return t.updateProject(id, func(p *models.Project) error {
		if p.Status.IsTerminal() {
			return errUnchanged
		}
		p.Status = models.StatusArchived
		p.CompletedAt = t.stamp()
		return nil
	})
}

func (t *Tracker) CancelProject(id int64) error {
	return t.updateProject(id, func(p *models.Project) error {
		if p.Status.IsTerminal() {
			return errUnchanged
		}
		p.Status = models.StatusCanceled
		p.CanceledAt = t.stamp()
		return nil
	})
}

func (t *Tracker) AddProjectLink(id int64, label, url string) error {
	link, err := models.NewLink(label, url)
	if err != nil {
		return invalid("%s", err.Error())
	}
	return t.updateProject(id, func(p *models.Project) error {
		p.Links = append(p.Links, link)
		return nil
	})
}

func (t *Tracker) DeleteProjectLink(id int64, index int) error {
	return t.updateProject(id, func(p *models.Project) error {
		if index < 0 || index >= len(p.Links) {
			return invalid("no link at position %d", index)
		}
		p.Links = append(p.Links[:index], p.Links[index+1:]...)
		return nil
	})
}

func (t *Tracker) SetProjectNotes(id int64, notes string) error {
	return t.updateProject(id, func(p *models.Project) error {
		if p.Notes == notes {
			return errUnchanged
		}
		p.Notes = notes
		return nil
	})
}

// AddTimeEntry logs hours against a project. An empty date means today.
func (t *Tracker) AddTimeEntry(id int64, date string, hours float64, note string) (models.TimeEntry, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		date = t.now().In(t.loc).Format(constants.DateFormat)
	}
	entry := models.TimeEntry{
		Date:  date,
		Hours: hours,
		Note:  strings.TrimSpace(note),
	}
	if err := entry.Validate(); err != nil {
		return models.TimeEntry{}, invalid("%s", err.Error())
	}
	if t.projectIndex(id) < 0 {
		return models.TimeEntry{}, notFound("project", id)
	}

	entry.ID = t.nextID()
	err := t.updateProject(id, func(p *models.Project) error {
		p.TimeLog = append(p.TimeLog, entry)
		return nil
	})
	if err != nil {
		return models.TimeEntry{}, err
	}
	return entry, nil
}

// DeleteTimeEntry removes an entry by its stable id, never by display position.
func (t *Tracker) DeleteTimeEntry(id, entryID int64) error {
	return t.updateProject(id, func(p *models.Project) error {
		for i, e := range p.TimeLog {
			if e.ID == entryID {
				p.TimeLog = append(p.TimeLog[:i], p.TimeLog[i+1:]...)
				return nil
			}
		}
		return notFound("time entry", entryID)
	})
}

// TimeEntryIDAt maps a position in the date-sorted log back to the entry id.
func (t *Tracker) TimeEntryIDAt(id int64, index int) (int64, error) {
	p, err := t.Project(id)
	if err != nil {
		return 0, err
	}
	sorted := SortedTimeLog(p)
	if index < 0 || index >= len(sorted) {
		return 0, invalid("no time entry at position %d", index)
	}
	return sorted[index].ID, nil
}

// SortedTimeLog returns the project's entries newest date first.
func SortedTimeLog(p models.Project) []models.TimeEntry {
	out := make([]models.TimeEntry, len(p.TimeLog))
	copy(out, p.TimeLog)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date > out[j].Date
	})
	return out
}

func TotalHours(entries []models.TimeEntry) float64 {
	total := 0.0
	for _, e := range entries {
		total += e.Hours
	}
	return total
}

// EntriesBetween returns entries dated within [start, end] inclusive, oldest
// first. Both bounds are YYYY-MM-DD; an empty bound is open.
func EntriesBetween(p models.Project, start, end string) ([]models.TimeEntry, error) {
	var from, to time.Time
	var err error
	if start != "" {
		if from, err = utils.ParseDateInLocation(start, time.UTC); err != nil {
			return nil, invalid("invalid start date %q", start)
		}
	}
	if end != "" {
		if to, err = utils.EndOfDay(end, time.UTC); err != nil {
			return nil, invalid("invalid end date %q", end)
		}
	}

	out := []models.TimeEntry{}
	for _, e := range p.TimeLog {
		d, err := utils.ParseDateInLocation(e.Date, time.UTC)
		if err != nil {
			continue
		}
		if start != "" && d.Before(from) {
			continue
		}
		if end != "" && d.After(to) {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date < out[j].Date
	})
	return out, nil
}

func (t *Tracker) updateProject(id int64, fn func(*models.Project) error) error {
	idx := t.projectIndex(id)
	if idx < 0 {
		return notFound("project", id)
	}
	next := cloneProjects(t.projects)
	if err := fn(&next[idx]); err != nil {
		if errors.Is(err, errUnchanged) {
			return nil
		}
		return err
	}
	next[idx].ModifiedAt = t.stamp()
	if err := t.store.SaveProjects(next); err != nil {
		return err
	}
	t.projects = next
	return nil
}

func (t *Tracker) projectIndex(id int64) int {
	for i, p := range t.projects {
		if p.ID == id {
			return i
		}
	}
	return -1
}
