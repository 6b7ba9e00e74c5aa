package utils

import (
	"testing"
	"time"
)

func TestLoadLocation(t *testing.T) {
	tests := []struct {
		name     string
		timezone string
		wantErr  bool
	}{
		{"empty is local", "", false},
		{"local", "Local", false},
		{"utc", "UTC", false},
		{"iana", "America/New_York", false},
		{"bogus", "Mars/Olympus_Mons", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := LoadLocation(tt.timezone)
			if (err != nil) != tt.wantErr {
				t.Fatalf("LoadLocation(%q) error = %v, wantErr %v", tt.timezone, err, tt.wantErr)
			}
			if !tt.wantErr && loc == nil {
				t.Error("expected a location")
			}
			if ValidateTimezone(tt.timezone) == tt.wantErr {
				t.Errorf("ValidateTimezone(%q) disagrees with LoadLocation", tt.timezone)
			}
		})
	}
}

func TestParseDateInLocation(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	got, err := ParseDateInLocation("2024-03-05", loc)
	if err != nil {
		t.Fatal(err)
	}
	want := time.Date(2024, 3, 5, 0, 0, 0, 0, loc)
	if !got.Equal(want) || got.Location() != loc {
		t.Errorf("got %v, want %v", got, want)
	}

	if _, err := ParseDateInLocation("03/05/2024", loc); err == nil {
		t.Error("expected an error for the wrong layout")
	}
}

func TestEndOfDay(t *testing.T) {
	got, err := EndOfDay("2024-02-28", time.UTC)
	if err != nil {
		t.Fatal(err)
	}
	next := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)
	if !got.Before(next) || next.Sub(got) != time.Nanosecond {
		t.Errorf("expected the instant before %v, got %v", next, got)
	}
}

func TestValidateFormats(t *testing.T) {
	if !ValidateDateFormat("2024-12-31") || ValidateDateFormat("2024-13-01") || ValidateDateFormat("") {
		t.Error("ValidateDateFormat misclassified input")
	}
	if !ValidateTimeFormat("23:59") || ValidateTimeFormat("24:00") || ValidateTimeFormat("9am") {
		t.Error("ValidateTimeFormat misclassified input")
	}
}
