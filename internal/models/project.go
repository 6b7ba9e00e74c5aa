package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type TimeEntry struct {
	ID    int64   `json:"id"`
	Date  string  `json:"date"` // YYYY-MM-DD format
	Hours float64 `json:"hours"`
	Note  string  `json:"note,omitempty"`
}

func (e TimeEntry) Validate() error {
	if e.Hours <= 0 {
		return fmt.Errorf("hours must be positive")
	}
	if _, err := time.Parse("2006-01-02", e.Date); err != nil {
		return fmt.Errorf("invalid entry date %q (expected YYYY-MM-DD)", e.Date)
	}
	return nil
}

type Project struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	Status      Status      `json:"status,omitempty"`
	Color       Color       `json:"color,omitempty"`
	Links       []Link      `json:"links,omitempty"`
	Notes       string      `json:"notes,omitempty"`
	TimeLog     []TimeEntry `json:"timeLog,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	ModifiedAt  *time.Time  `json:"modifiedAt,omitempty"`
	CompletedAt *time.Time  `json:"completedAt,omitempty"`
	CanceledAt  *time.Time  `json:"canceledAt,omitempty"`
}

// UnmarshalJSON fills in the defaults legacy entries were saved without.
func (p *Project) UnmarshalJSON(data []byte) error {
	type alias Project
	var raw alias
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = Project(raw)
	if p.Status == "" {
		p.Status = StatusActive
	}
	if p.Color == "" {
		p.Color = ColorTeal
	}
	return nil
}

func (p Project) EffectiveModified() time.Time {
	return effectiveModified(p.ModifiedAt, p.CreatedAt)
}

func (p Project) Clone() Project {
	out := p
	out.Links = cloneLinks(p.Links)
	if p.TimeLog != nil {
		out.TimeLog = make([]TimeEntry, len(p.TimeLog))
		copy(out.TimeLog, p.TimeLog)
	}
	out.ModifiedAt = cloneTime(p.ModifiedAt)
	out.CompletedAt = cloneTime(p.CompletedAt)
	out.CanceledAt = cloneTime(p.CanceledAt)
	return out
}

func (p Project) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("project name cannot be empty")
	}
	if !p.Status.Valid() {
		return fmt.Errorf("invalid status: %q", p.Status)
	}
	if !p.Color.Valid() {
		return fmt.Errorf("invalid color: %q", p.Color)
	}
	return nil
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
