package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/tminus/internal/models"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictDuplicateID       ConflictType = "duplicate_id"
	ConflictDuplicateEntryID  ConflictType = "duplicate_entry_id"
	ConflictInvalidRecord     ConflictType = "invalid_record"
	ConflictInvalidDateTime   ConflictType = "invalid_datetime"
	ConflictInvalidTimeEntry  ConflictType = "invalid_time_entry"
	ConflictMissingTransition ConflictType = "missing_transition_time"
	ConflictModifiedBeforeNew ConflictType = "modified_before_created"
)

// Conflict represents a problem found in stored data
type Conflict struct {
	Type        ConflictType
	Description string
	Items       []string // Names of the records involved
	IDs         []int64  // IDs of the records involved
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, conflict := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", conflict.Description)
	}
	return b.String()
}

func (vr *ValidationResult) add(c Conflict) {
	vr.Conflicts = append(vr.Conflicts, c)
}

// Validator checks loaded collections for records the store would never
// produce itself, usually the result of a hand-edited or imported file.
type Validator struct {
	loc *time.Location
}

// New creates a Validator that reads zone-less targets in loc
func New(loc *time.Location) *Validator {
	if loc == nil {
		loc = time.Local
	}
	return &Validator{loc: loc}
}

// Validate checks both collections, including ids shared across them
func (v *Validator) Validate(countdowns []models.Countdown, projects []models.Project) ValidationResult {
	result := v.ValidateCountdowns(countdowns)
	projectResult := v.ValidateProjects(projects)
	result.Conflicts = append(result.Conflicts, projectResult.Conflicts...)

	seen := make(map[int64]string, len(countdowns))
	for _, c := range countdowns {
		seen[c.ID] = c.Name
	}
	for _, p := range projects {
		if name, ok := seen[p.ID]; ok {
			result.add(Conflict{
				Type:        ConflictDuplicateID,
				Description: fmt.Sprintf("Countdown %q and project %q share id %d", name, p.Name, p.ID),
				Items:       []string{name, p.Name},
				IDs:         []int64{p.ID},
			})
		}
	}
	return result
}

// ValidateCountdowns checks countdowns for conflicts
func (v *Validator) ValidateCountdowns(countdowns []models.Countdown) ValidationResult {
	var result ValidationResult
	seen := make(map[int64]string, len(countdowns))

	for _, c := range countdowns {
		if name, ok := seen[c.ID]; ok {
			result.add(Conflict{
				Type:        ConflictDuplicateID,
				Description: fmt.Sprintf("Countdowns %q and %q share id %d", name, c.Name, c.ID),
				Items:       []string{name, c.Name},
				IDs:         []int64{c.ID},
			})
		}
		seen[c.ID] = c.Name

		if strings.TrimSpace(c.Name) == "" {
			result.add(invalidRecord("countdown", c.ID, c.Name, "has no name"))
		}
		if !c.Status.Valid() {
			result.add(invalidRecord("countdown", c.ID, c.Name, fmt.Sprintf("has unknown status %q", c.Status)))
		}
		if _, err := c.Target(v.loc); err != nil {
			result.add(Conflict{
				Type:        ConflictInvalidDateTime,
				Description: fmt.Sprintf("Countdown %q has an unreadable target %q", c.Name, c.TargetDate),
				Items:       []string{c.Name},
				IDs:         []int64{c.ID},
			})
		}
		v.checkModified("Countdown", c.ID, c.Name, c.CreatedAt, c.ModifiedAt, &result)
	}

	return result
}

// ValidateProjects checks projects and their time logs for conflicts
func (v *Validator) ValidateProjects(projects []models.Project) ValidationResult {
	var result ValidationResult
	seen := make(map[int64]string, len(projects))

	for _, p := range projects {
		if name, ok := seen[p.ID]; ok {
			result.add(Conflict{
				Type:        ConflictDuplicateID,
				Description: fmt.Sprintf("Projects %q and %q share id %d", name, p.Name, p.ID),
				Items:       []string{name, p.Name},
				IDs:         []int64{p.ID},
			})
		}
		seen[p.ID] = p.Name

		if err := p.Validate(); err != nil {
			result.add(invalidRecord("project", p.ID, p.Name, err.Error()))
		}

		switch {
		case p.Status == models.StatusArchived && p.CompletedAt == nil:
			result.add(missingTransition(p, "archived", "completedAt"))
		case p.Status == models.StatusCanceled && p.CanceledAt == nil:
			result.add(missingTransition(p, "canceled", "canceledAt"))
		}
		v.checkModified("Project", p.ID, p.Name, p.CreatedAt, p.ModifiedAt, &result)

		entryIDs := make(map[int64]bool, len(p.TimeLog))
		for _, e := range p.TimeLog {
			if entryIDs[e.ID] {
				result.add(Conflict{
					Type:        ConflictDuplicateEntryID,
					Description: fmt.Sprintf("Project %q has two time entries with id %d", p.Name, e.ID),
					Items:       []string{p.Name},
					IDs:         []int64{p.ID, e.ID},
				})
			}
			entryIDs[e.ID] = true

			if err := e.Validate(); err != nil {
				result.add(Conflict{
					Type:        ConflictInvalidTimeEntry,
					Description: fmt.Sprintf("Project %q time entry %d: %v", p.Name, e.ID, err),
					Items:       []string{p.Name},
					IDs:         []int64{p.ID, e.ID},
				})
			}
		}
	}

	return result
}

func (v *Validator) checkModified(kind string, id int64, name string, created time.Time, modified *time.Time, result *ValidationResult) {
	if modified == nil || created.IsZero() {
		return
	}
	if modified.Before(created) {
		result.add(Conflict{
			Type:        ConflictModifiedBeforeNew,
			Description: fmt.Sprintf("%s %q was modified before it was created", kind, name),
			Items:       []string{name},
			IDs:         []int64{id},
		})
	}
}

func invalidRecord(kind string, id int64, name, problem string) Conflict {
	return Conflict{
		Type:        ConflictInvalidRecord,
		Description: fmt.Sprintf("%s %d (%q) %s", strings.ToUpper(kind[:1])+kind[1:], id, name, problem),
		Items:       []string{name},
		IDs:         []int64{id},
	}
}

func missingTransition(p models.Project, status, field string) Conflict {
	return Conflict{
		Type:        ConflictMissingTransition,
		Description: fmt.Sprintf("Project %q is %s but has no %s", p.Name, status, field),
		Items:       []string{p.Name},
		IDs:         []int64{p.ID},
	}
}
