package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

var targetLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

type Countdown struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	TargetDate string     `json:"targetDate"` // local YYYY-MM-DDTHH:MM[:SS] or RFC3339
	Status     Status     `json:"status"`
	CreatedAt  time.Time  `json:"createdAt"`
	ModifiedAt *time.Time `json:"modifiedAt,omitempty"`
	Links      []Link     `json:"links,omitempty"`
	Notes      string     `json:"notes,omitempty"`
}

// UnmarshalJSON treats entries saved without a status as active.
func (c *Countdown) UnmarshalJSON(data []byte) error {
	type alias Countdown
	var raw alias
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*c = Countdown(raw)
	if c.Status == "" {
		c.Status = StatusActive
	}
	return nil
}

// Target parses TargetDate. Strings without a zone are read in loc.
func (c Countdown) Target(loc *time.Location) (time.Time, error) {
	return ParseTarget(c.TargetDate, loc)
}

func (c Countdown) EffectiveModified() time.Time {
	return effectiveModified(c.ModifiedAt, c.CreatedAt)
}

func (c Countdown) Clone() Countdown {
	out := c
	out.Links = cloneLinks(c.Links)
	if c.ModifiedAt != nil {
		m := *c.ModifiedAt
		out.ModifiedAt = &m
	}
	return out
}

func (c Countdown) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("countdown name cannot be empty")
	}
	if strings.TrimSpace(c.TargetDate) == "" {
		return fmt.Errorf("countdown date cannot be empty")
	}
	if _, err := ParseTarget(c.TargetDate, time.Local); err != nil {
		return err
	}
	if !c.Status.Valid() {
		return fmt.Errorf("invalid status: %q", c.Status)
	}
	return nil
}

// ParseTarget accepts RFC3339 instants and the zone-less forms a user types.
func ParseTarget(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("target date cannot be empty")
	}
	if loc == nil {
		loc = time.Local
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.In(loc), nil
	}
	for _, layout := range targetLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid target date %q (expected YYYY-MM-DDTHH:MM)", s)
}

// FormatTarget builds the stored target text from a date and an optional HH:MM time.
func FormatTarget(date, clock string) string {
	date = strings.TrimSpace(date)
	clock = strings.TrimSpace(clock)
	if clock == "" {
		clock = "00:00"
	}
	return date + "T" + clock
}

func effectiveModified(modified *time.Time, created time.Time) time.Time {
	if modified != nil && !modified.IsZero() {
		return *modified
	}
	if !created.IsZero() {
		return created
	}
	return time.Unix(0, 0).UTC()
}
