// Package capacity computes available, scheduled and remaining minutes per
// day and per week from the work-hours profile, external commitments and
// scheduled time blocks. The computation is total and side-effect free: the
// same inputs always yield the same result. Malformed inputs are not
// validated here; that is the input-validation edge's job.
package capacity

import (
	"math"
	"time"

	"github.com/julianstephens/weekplan/internal/models"
	"github.com/julianstephens/weekplan/internal/timeutil"
)

// DayCapacity is the derived capacity picture for one date. It is never
// persisted.
type DayCapacity struct {
	Date             string `json:"date"`
	TotalWorkMinutes int    `json:"total_work_minutes"`
	ExternalMinutes  int    `json:"external_minutes"`
	BufferMinutes    int    `json:"buffer_minutes"`
	AvailableMinutes int    `json:"available_minutes"`
	ScheduledMinutes int    `json:"scheduled_minutes"`
	RemainingMinutes int    `json:"remaining_minutes"`
	IsOverCapacity   bool   `json:"is_over_capacity"`
	OverflowMinutes  int    `json:"overflow_minutes"`
}

// WeekCapacity aggregates the active weekdays of one week. Each numeric
// field is the sum of the corresponding per-day field.
type WeekCapacity struct {
	WeekStart        string        `json:"week_start"`
	Days             []DayCapacity `json:"days"`
	TotalWorkMinutes int           `json:"total_work_minutes"`
	ExternalMinutes  int           `json:"external_minutes"`
	BufferMinutes    int           `json:"buffer_minutes"`
	AvailableMinutes int           `json:"available_minutes"`
	ScheduledMinutes int           `json:"scheduled_minutes"`
	RemainingMinutes int           `json:"remaining_minutes"`
	IsOverCapacity   bool          `json:"is_over_capacity"`
	OverflowMinutes  int           `json:"overflow_minutes"`
}

// ForDay computes the capacity picture for a single date. Commitments and
// blocks not on that date are ignored. Overlapping commitments are summed
// independently, not merged, so overlap double-counts; afterExternals may go
// negative and is intentionally not clamped.
func ForDay(date string, profile models.WorkProfile, commitments []models.ExternalCommitment, blocks []models.TimeBlock) DayCapacity {
	totalWork := timeutil.Duration(profile.DayStart, profile.DayEnd)

	external := 0
	for _, c := range commitments {
		if c.Date == date {
			external += timeutil.Duration(c.Start, c.End)
		}
	}

	afterExternals := totalWork - external
	buffer := int(math.Round(float64(afterExternals) * profile.BufferFraction))
	available := afterExternals - buffer

	scheduled := 0
	for _, b := range blocks {
		if b.Date == date {
			scheduled += timeutil.Duration(b.Start, b.End)
		}
	}

	remaining := available - scheduled
	over := remaining < 0
	overflow := 0
	if over {
		overflow = -remaining
	}

	return DayCapacity{
		Date:             date,
		TotalWorkMinutes: totalWork,
		ExternalMinutes:  external,
		BufferMinutes:    buffer,
		AvailableMinutes: available,
		ScheduledMinutes: scheduled,
		RemainingMinutes: remaining,
		IsOverCapacity:   over,
		OverflowMinutes:  overflow,
	}
}

// ForWeek computes per-day capacity for every active weekday of the week
// starting at weekStart, plus the week aggregate.
func ForWeek(weekStart time.Time, profile models.WorkProfile, commitments []models.ExternalCommitment, blocks []models.TimeBlock) WeekCapacity {
	week := WeekCapacity{WeekStart: timeutil.DateKey(weekStart)}

	for _, d := range timeutil.WeekDates(weekStart) {
		if !profile.ActiveOn(d.Weekday()) {
			continue
		}
		day := ForDay(timeutil.DateKey(d), profile, commitments, blocks)
		week.Days = append(week.Days, day)
		week.TotalWorkMinutes += day.TotalWorkMinutes
		week.ExternalMinutes += day.ExternalMinutes
		week.BufferMinutes += day.BufferMinutes
		week.AvailableMinutes += day.AvailableMinutes
		week.ScheduledMinutes += day.ScheduledMinutes
		week.RemainingMinutes += day.RemainingMinutes
		week.OverflowMinutes += day.OverflowMinutes
	}

	week.IsOverCapacity = week.RemainingMinutes < 0
	return week
}
