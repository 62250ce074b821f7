package timeutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// ClockToMinutes parses an HH:MM clock time into minutes since midnight.
func ClockToMinutes(clock string) (int, error) {
	parts := strings.Split(clock, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time format: %q", clock)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid hour in %q: %w", clock, err)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid minute in %q: %w", clock, err)
	}
	return hour*60 + minute, nil
}

// MinutesToClock formats minutes since midnight as HH:MM.
func MinutesToClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// Duration returns end-start in minutes. Unparseable inputs yield 0, which
// the caller should have caught at the validation edge.
func Duration(start, end string) int {
	s, err := ClockToMinutes(start)
	if err != nil {
		return 0
	}
	e, err := ClockToMinutes(end)
	if err != nil {
		return 0
	}
	return e - s
}

// DateKey formats a time as the YYYY-MM-DD key used throughout storage.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD date key.
func ParseDate(date string) (time.Time, error) {
	return time.Parse(DateLayout, date)
}

// WeekStart returns the Monday of the week containing t, at midnight.
func WeekStart(t time.Time) time.Time {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	offset := int(d.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7
	}
	return d.AddDate(0, 0, -offset)
}

// WeekDates returns the seven dates of the week starting at weekStart.
func WeekDates(weekStart time.Time) []time.Time {
	dates := make([]time.Time, 7)
	for i := range dates {
		dates[i] = weekStart.AddDate(0, 0, i)
	}
	return dates
}

// FormatDuration renders minutes as "2h 30m", "45m" or "3h". Negative
// values are clamped to zero.
func FormatDuration(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	hours := minutes / 60
	mins := minutes % 60
	switch {
	case hours == 0:
		return fmt.Sprintf("%dm", mins)
	case mins == 0:
		return fmt.Sprintf("%dh", hours)
	default:
		return fmt.Sprintf("%dh %dm", hours, mins)
	}
}
