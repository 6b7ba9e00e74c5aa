package models

import (
	"fmt"
	"strings"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusArchived Status = "archived"
	StatusCanceled Status = "canceled"
)

// IsTerminal reports whether the status can no longer change.
func (s Status) IsTerminal() bool {
	return s == StatusArchived || s == StatusCanceled
}

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusArchived, StatusCanceled:
		return true
	}
	return false
}

func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("invalid status: %q", s)
	}
	return st, nil
}

type Color string

const (
	ColorTeal     Color = "teal"
	ColorCoral    Color = "coral"
	ColorMustard  Color = "mustard"
	ColorCharcoal Color = "charcoal"
)

var Colors = []Color{ColorTeal, ColorCoral, ColorMustard, ColorCharcoal}

func (c Color) Valid() bool {
	for _, known := range Colors {
		if c == known {
			return true
		}
	}
	return false
}

// ParseColor accepts an empty string as the default color.
func ParseColor(s string) (Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ColorTeal, nil
	}
	c := Color(s)
	if !c.Valid() {
		return "", fmt.Errorf("invalid color: %q (expected teal, coral, mustard or charcoal)", s)
	}
	return c, nil
}
