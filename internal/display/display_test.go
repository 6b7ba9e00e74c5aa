package display

import (
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/tminus/internal/models"
)

var now = time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

func TestFormat(t *testing.T) {
	tests := []struct {
		name   string
		target time.Time
		want   TimeDisplay
	}{
		{
			name:   "past",
			target: now.Add(-time.Hour),
			want:   TimeDisplay{0, "", "Completed", true},
		},
		{
			name:   "exactly now",
			target: now,
			want:   TimeDisplay{0, "", "Completed", true},
		},
		{
			name:   "two weeks",
			target: now.AddDate(0, 0, 14),
			want:   TimeDisplay{14, "days", "Jan 24", false},
		},
		{
			name:   "eight days",
			target: now.AddDate(0, 0, 8),
			want:   TimeDisplay{8, "days", "Jan 18", false},
		},
		{
			name:   "exactly seven days",
			target: now.AddDate(0, 0, 7),
			want:   TimeDisplay{7, "days", "Wednesday, Jan 17", false},
		},
		{
			name:   "forty hours",
			target: now.Add(40 * time.Hour),
			want:   TimeDisplay{1, "day", "Friday, Jan 12", false},
		},
		{
			name:   "exactly thirty six hours",
			target: now.Add(36 * time.Hour),
			want:   TimeDisplay{36, "hours", "Friday, Jan 12", true},
		},
		{
			name:   "one hour one minute",
			target: now.Add(61 * time.Minute),
			want:   TimeDisplay{1, "hour", "Wednesday, Jan 10", true},
		},
		{
			name:   "exactly sixty minutes",
			target: now.Add(60 * time.Minute),
			want:   TimeDisplay{60, "minutes", "Wednesday, Jan 10", true},
		},
		{
			name:   "one minute",
			target: now.Add(time.Minute + 30*time.Second),
			want:   TimeDisplay{1, "minute", "Wednesday, Jan 10", true},
		},
		{
			name:   "under a minute rounds up",
			target: now.Add(10 * time.Second),
			want:   TimeDisplay{1, "minute", "Wednesday, Jan 10", true},
		},
		{
			name:   "two minutes",
			target: now.Add(2 * time.Minute),
			want:   TimeDisplay{2, "minutes", "Wednesday, Jan 10", true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Format(tt.target, now)
			if got != tt.want {
				t.Errorf("Format() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestFormatBeyondWeekHasNoWeekday(t *testing.T) {
	weekdays := []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
	for d := 8; d < 400; d += 13 {
		got := Format(now.AddDate(0, 0, d).Add(5*time.Minute), now)
		if got.Urgent {
			t.Errorf("day %d: expected non-urgent display", d)
		}
		if got.Unit != "days" {
			t.Errorf("day %d: expected days unit, got %q", d, got.Unit)
		}
		for _, wd := range weekdays {
			if strings.Contains(got.DateStr, wd) {
				t.Errorf("day %d: date string %q should not contain a weekday", d, got.DateStr)
			}
		}
	}
}

func TestFormatSingularUnits(t *testing.T) {
	for _, target := range []time.Time{
		now.Add(30 * time.Hour),
		now.Add(90 * time.Minute),
		now.Add(61 * time.Second),
	} {
		got := Format(target, now)
		if got.Number == 1 && strings.HasSuffix(got.Unit, "s") {
			t.Errorf("number 1 should use singular unit, got %q", got.Unit)
		}
	}
}

func TestSoon(t *testing.T) {
	if !Soon(Format(now.AddDate(0, 0, 3), now)) {
		t.Error("three days out should be soon")
	}
	if Soon(Format(now.AddDate(0, 0, 30), now)) {
		t.Error("a month out should not be soon")
	}
	if Soon(Format(now.Add(time.Hour*2), now)) {
		t.Error("urgent displays are not soon")
	}
}

func TestClosedLabel(t *testing.T) {
	c := models.Countdown{TargetDate: "2024-03-05T10:00", Status: models.StatusArchived}
	if got := ClosedLabel(c, time.UTC); got != "Completed Mar 5, 2024" {
		t.Errorf("unexpected archived label %q", got)
	}
	c.Status = models.StatusCanceled
	if got := ClosedLabel(c, time.UTC); got != "Canceled - Mar 5, 2024" {
		t.Errorf("unexpected canceled label %q", got)
	}
}

func TestString(t *testing.T) {
	td := TimeDisplay{Number: 3, Unit: "hours", DateStr: "Friday, Jan 12", Urgent: true}
	if td.String() != "3 hours | Friday, Jan 12" {
		t.Errorf("unexpected string %q", td.String())
	}
	if (TimeDisplay{DateStr: "Completed"}).String() != "Completed" {
		t.Error("completed display should print only the date string")
	}
}

func TestForCountdown(t *testing.T) {
	now := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)

	td := ForCountdown(models.Countdown{TargetDate: "2024-01-10T14:30"}, now, time.UTC)
	if td.Number != 2 || td.Unit != "hours" || !td.Urgent {
		t.Errorf("unexpected display %+v", td)
	}

	td = ForCountdown(models.Countdown{TargetDate: "not a date"}, now, time.UTC)
	if td.DateStr != "Completed" {
		t.Errorf("expected unparseable target to read as completed, got %+v", td)
	}
}
