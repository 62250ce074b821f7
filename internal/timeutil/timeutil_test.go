package timeutil

import (
	"testing"
	"time"
)

func TestClockToMinutes(t *testing.T) {
	tests := []struct {
		clock   string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"08:00", 480, false},
		{"09:15", 555, false},
		{"23:59", 1439, false},
		{"0800", 0, true},
		{"ab:cd", 0, true},
	}

	for _, tt := range tests {
		got, err := ClockToMinutes(tt.clock)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ClockToMinutes(%q): expected error, got %d", tt.clock, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ClockToMinutes(%q): unexpected error: %v", tt.clock, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ClockToMinutes(%q) = %d, want %d", tt.clock, got, tt.want)
		}
	}
}

func TestMinutesToClock(t *testing.T) {
	if got := MinutesToClock(570); got != "09:30" {
		t.Errorf("MinutesToClock(570) = %q, want 09:30", got)
	}
	if got := MinutesToClock(480); got != "08:00" {
		t.Errorf("MinutesToClock(480) = %q, want 08:00", got)
	}
}

func TestDuration(t *testing.T) {
	if got := Duration("09:00", "09:30"); got != 30 {
		t.Errorf("Duration = %d, want 30", got)
	}
	if got := Duration("bad", "09:30"); got != 0 {
		t.Errorf("Duration with bad input = %d, want 0", got)
	}
}

func TestWeekStart(t *testing.T) {
	tests := []struct {
		date string
		want string
	}{
		{"2025-12-09", "2025-12-08"}, // Tuesday -> Monday
		{"2025-12-08", "2025-12-08"}, // Monday -> itself
		{"2025-12-14", "2025-12-08"}, // Sunday belongs to the preceding Monday's week
	}

	for _, tt := range tests {
		d, err := ParseDate(tt.date)
		if err != nil {
			t.Fatalf("ParseDate(%q): %v", tt.date, err)
		}
		if got := DateKey(WeekStart(d)); got != tt.want {
			t.Errorf("WeekStart(%s) = %s, want %s", tt.date, got, tt.want)
		}
	}
}

func TestWeekDates(t *testing.T) {
	start, _ := ParseDate("2025-12-08")
	dates := WeekDates(start)
	if len(dates) != 7 {
		t.Fatalf("expected 7 dates, got %d", len(dates))
	}
	if DateKey(dates[0]) != "2025-12-08" || DateKey(dates[6]) != "2025-12-14" {
		t.Errorf("unexpected range %s..%s", DateKey(dates[0]), DateKey(dates[6]))
	}
	if dates[4].Weekday() != time.Friday {
		t.Errorf("expected Friday at index 4, got %s", dates[4].Weekday())
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{0, "0m"},
		{45, "45m"},
		{60, "1h"},
		{150, "2h 30m"},
		{-30, "0m"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.minutes); got != tt.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.minutes, got, tt.want)
		}
	}
}
