package backup

import (
	"fmt"
	"time"

	"github.com/julianstephens/tminus/internal/logger"
	"github.com/julianstephens/tminus/internal/models"
	"github.com/julianstephens/tminus/internal/tracker"
)

type Mode string

const (
	ModeReplace Mode = "replace"
	ModeMerge   Mode = "merge"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeReplace, ModeMerge:
		return Mode(s), nil
	case "":
		return ModeMerge, nil
	}
	return "", fmt.Errorf("invalid import mode: %q (expected replace or merge)", s)
}

type Counts struct {
	Added   int `json:"added"`
	Updated int `json:"updated"`
}

type Report struct {
	Countdowns Counts `json:"countdowns"`
	Projects   Counts `json:"projects"`
}

// Import applies a snapshot to the tracker. Replace swaps both collections
// and reports everything as added. Merge keeps every existing record and
// overwrites one only when the incoming copy was modified strictly later.
func Import(t *tracker.Tracker, s *Snapshot, mode Mode) (Report, error) {
	if s == nil || s.Countdowns == nil {
		return Report{}, fmt.Errorf("%w: countdowns must be a list", ErrInvalidFormat)
	}

	var (
		countdowns []models.Countdown
		projects   []models.Project
		report     Report
	)
	switch mode {
	case ModeReplace:
		countdowns = s.Countdowns
		projects = s.Projects
		report.Countdowns.Added = len(countdowns)
		report.Projects.Added = len(projects)
	case ModeMerge:
		existingCountdowns, existingProjects := t.Snapshot()
		countdowns, report.Countdowns = MergeCountdowns(existingCountdowns, s.Countdowns)
		projects, report.Projects = MergeProjects(existingProjects, s.Projects)
	default:
		return Report{}, fmt.Errorf("invalid import mode: %q", mode)
	}

	if err := t.ReplaceAll(countdowns, projects); err != nil {
		return Report{}, err
	}
	logger.Info("import complete", "mode", mode,
		"countdowns_added", report.Countdowns.Added, "countdowns_updated", report.Countdowns.Updated,
		"projects_added", report.Projects.Added, "projects_updated", report.Projects.Updated)
	return report, nil
}

// ImportSingleProject adds the exported project as a new active project.
func ImportSingleProject(t *tracker.Tracker, e *ProjectExport) (models.Project, error) {
	if e == nil {
		return models.Project{}, fmt.Errorf("%w: empty project export", ErrInvalidFormat)
	}
	return t.ImportProject(models.Project{
		Name:    e.Project.Name,
		Color:   e.Project.Color,
		Links:   e.Project.Links,
		Notes:   e.Project.Notes,
		TimeLog: e.Project.TimeLog,
	})
}

func MergeCountdowns(existing, incoming []models.Countdown) ([]models.Countdown, Counts) {
	return merge(existing, incoming,
		func(c models.Countdown) int64 { return c.ID },
		models.Countdown.EffectiveModified)
}

func MergeProjects(existing, incoming []models.Project) ([]models.Project, Counts) {
	return merge(existing, incoming,
		func(p models.Project) int64 { return p.ID },
		models.Project.EffectiveModified)
}

func merge[T any](existing, incoming []T, id func(T) int64, modified func(T) time.Time) ([]T, Counts) {
	out := make([]T, len(existing), len(existing)+len(incoming))
	copy(out, existing)
	index := make(map[int64]int, len(existing))
	for i, rec := range out {
		index[id(rec)] = i
	}

	var counts Counts
	for _, rec := range incoming {
		i, ok := index[id(rec)]
		if !ok {
			index[id(rec)] = len(out)
			out = append(out, rec)
			counts.Added++
			continue
		}
		if modified(rec).After(modified(out[i])) {
			out[i] = rec
			counts.Updated++
		}
	}
	return out, counts
}
