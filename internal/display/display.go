// Package display derives the human readable countdown figure shown for a
// target time. Nothing here is cached: callers re-run Format on every tick.
package display

import (
	"strconv"
	"time"

	"github.com/julianstephens/tminus/internal/models"
)

const (
	msPerMinute = int64(60 * 1000)
	msPerHour   = 60 * msPerMinute
	msPerDay    = 24 * msPerHour

	shortDateLayout = "Jan 2"
	longDateLayout  = "Monday, Jan 2"
	closedLayout    = "Jan 2, 2006"
)

type TimeDisplay struct {
	Number  int
	Unit    string
	DateStr string
	Urgent  bool
}

// Format maps a target time to its display record relative to now.
func Format(target, now time.Time) TimeDisplay {
	diff := target.Sub(now).Milliseconds()
	if diff <= 0 {
		return TimeDisplay{Number: 0, Unit: "", DateStr: "Completed", Urgent: true}
	}

	minutes := diff / msPerMinute
	hours := diff / msPerHour
	days := diff / msPerDay

	if days > 7 {
		return TimeDisplay{
			Number:  int(days),
			Unit:    plural(days, "day"),
			DateStr: target.Format(shortDateLayout),
			Urgent:  false,
		}
	}

	weekdayDate := target.Format(longDateLayout)

	// hours == 36 falls through to the hours branch
	if hours > 36 {
		return TimeDisplay{
			Number:  int(days),
			Unit:    plural(days, "day"),
			DateStr: weekdayDate,
			Urgent:  false,
		}
	}

	if minutes > 60 {
		return TimeDisplay{
			Number:  int(hours),
			Unit:    plural(hours, "hour"),
			DateStr: weekdayDate,
			Urgent:  true,
		}
	}

	n := max(minutes, 1)
	return TimeDisplay{
		Number:  int(n),
		Unit:    plural(n, "minute"),
		DateStr: weekdayDate,
		Urgent:  true,
	}
}

// Soon reports the "within a week" tint for non-urgent displays.
func Soon(td TimeDisplay) bool {
	return !td.Urgent && td.Number <= 7
}

// ForCountdown formats an active countdown, reading zone-less targets and
// rendering dates in loc. Unparseable targets render as completed.
func ForCountdown(c models.Countdown, now time.Time, loc *time.Location) TimeDisplay {
	if loc == nil {
		loc = time.Local
	}
	now = now.In(loc)
	target, err := c.Target(loc)
	if err != nil {
		return Format(now, now)
	}
	return Format(target, now)
}

// ClosedLabel is the text shown for archived and canceled countdowns.
func ClosedLabel(c models.Countdown, loc *time.Location) string {
	dateStr := c.TargetDate
	if target, err := c.Target(loc); err == nil {
		dateStr = target.Format(closedLayout)
	}
	switch c.Status {
	case models.StatusArchived:
		return "Completed " + dateStr
	case models.StatusCanceled:
		return "Canceled - " + dateStr
	}
	return dateStr
}

func (td TimeDisplay) String() string {
	if td.Unit == "" {
		return td.DateStr
	}
	return strconv.Itoa(td.Number) + " " + td.Unit + " | " + td.DateStr
}

func plural(n int64, unit string) string {
	if n == 1 {
		return unit
	}
	return unit + "s"
}
