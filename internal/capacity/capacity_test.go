package capacity

import (
	"testing"
	"time"

	"github.com/julianstephens/weekplan/internal/models"
	"github.com/julianstephens/weekplan/internal/timeutil"
)

func weekdayProfile(buffer float64) models.WorkProfile {
	return models.WorkProfile{
		DayStart:       "08:00",
		DayEnd:         "17:00",
		Weekdays:       []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday},
		BufferFraction: buffer,
	}
}

func TestForDay_BufferAndExternals(t *testing.T) {
	// 9h day, 40% buffer, one 30m commitment:
	// external=30, afterExternals=510, buffer=204, available=306.
	profile := weekdayProfile(0.4)
	commitments := []models.ExternalCommitment{
		{ID: "c1", Title: "Standup", Date: "2025-12-09", Start: "09:00", End: "09:30"},
	}

	day := ForDay("2025-12-09", profile, commitments, nil)

	if day.TotalWorkMinutes != 540 {
		t.Errorf("TotalWorkMinutes = %d, want 540", day.TotalWorkMinutes)
	}
	if day.ExternalMinutes != 30 {
		t.Errorf("ExternalMinutes = %d, want 30", day.ExternalMinutes)
	}
	if day.BufferMinutes != 204 {
		t.Errorf("BufferMinutes = %d, want 204", day.BufferMinutes)
	}
	if day.AvailableMinutes != 306 {
		t.Errorf("AvailableMinutes = %d, want 306", day.AvailableMinutes)
	}
}

func TestForDay_Overflow(t *testing.T) {
	// available=306, scheduled=360 -> over capacity by 54.
	profile := weekdayProfile(0.4)
	commitments := []models.ExternalCommitment{
		{ID: "c1", Title: "Standup", Date: "2025-12-09", Start: "09:00", End: "09:30"},
	}
	blocks := []models.TimeBlock{
		{ID: "b1", SubtaskID: "s1", Date: "2025-12-09", Start: "10:00", End: "14:00", Status: models.BlockStatusScheduled},
		{ID: "b2", SubtaskID: "s2", Date: "2025-12-09", Start: "14:00", End: "16:00", Status: models.BlockStatusScheduled},
	}

	day := ForDay("2025-12-09", profile, commitments, blocks)

	if day.ScheduledMinutes != 360 {
		t.Errorf("ScheduledMinutes = %d, want 360", day.ScheduledMinutes)
	}
	if !day.IsOverCapacity {
		t.Error("expected IsOverCapacity")
	}
	if day.OverflowMinutes != 54 {
		t.Errorf("OverflowMinutes = %d, want 54", day.OverflowMinutes)
	}
	if day.RemainingMinutes != -54 {
		t.Errorf("RemainingMinutes = %d, want -54", day.RemainingMinutes)
	}
}

func TestForDay_IgnoresOtherDates(t *testing.T) {
	profile := weekdayProfile(0)
	commitments := []models.ExternalCommitment{
		{ID: "c1", Date: "2025-12-10", Start: "09:00", End: "10:00"},
	}
	blocks := []models.TimeBlock{
		{ID: "b1", Date: "2025-12-10", Start: "10:00", End: "11:00"},
	}

	day := ForDay("2025-12-09", profile, commitments, blocks)
	if day.ExternalMinutes != 0 || day.ScheduledMinutes != 0 {
		t.Errorf("expected other dates ignored, got external=%d scheduled=%d", day.ExternalMinutes, day.ScheduledMinutes)
	}
}

func TestForDay_OverlappingCommitmentsDoubleCount(t *testing.T) {
	// Overlap is summed independently, not merged.
	profile := weekdayProfile(0)
	commitments := []models.ExternalCommitment{
		{ID: "c1", Date: "2025-12-09", Start: "09:00", End: "10:00"},
		{ID: "c2", Date: "2025-12-09", Start: "09:30", End: "10:30"},
	}

	day := ForDay("2025-12-09", profile, commitments, nil)
	if day.ExternalMinutes != 120 {
		t.Errorf("ExternalMinutes = %d, want 120 (independent sum)", day.ExternalMinutes)
	}
}

func TestForDay_ExternalsExceedDay(t *testing.T) {
	// afterExternals goes negative and is not clamped.
	profile := models.WorkProfile{DayStart: "09:00", DayEnd: "10:00", BufferFraction: 0.5}
	commitments := []models.ExternalCommitment{
		{ID: "c1", Date: "2025-12-09", Start: "08:00", End: "11:00"},
	}

	day := ForDay("2025-12-09", profile, commitments, nil)
	if day.AvailableMinutes >= 0 {
		t.Errorf("AvailableMinutes = %d, want negative", day.AvailableMinutes)
	}
	// buffer = round(-120 * 0.5) = -60, available = -120 - (-60) = -60
	if day.BufferMinutes != -60 || day.AvailableMinutes != -60 {
		t.Errorf("buffer=%d available=%d, want -60/-60", day.BufferMinutes, day.AvailableMinutes)
	}
}

func TestForWeek_Aggregation(t *testing.T) {
	profile := weekdayProfile(0.4)
	weekStart, _ := timeutil.ParseDate("2025-12-08")

	commitments := []models.ExternalCommitment{
		{ID: "c1", Date: "2025-12-09", Start: "09:00", End: "09:30"},
		{ID: "c2", Date: "2025-12-13", Start: "09:00", End: "12:00"}, // Saturday, inactive
	}
	blocks := []models.TimeBlock{
		{ID: "b1", Date: "2025-12-08", Start: "08:00", End: "10:00"},
	}

	week := ForWeek(weekStart, profile, commitments, blocks)

	if len(week.Days) != 5 {
		t.Fatalf("expected 5 active days, got %d", len(week.Days))
	}
	if week.TotalWorkMinutes != 5*540 {
		t.Errorf("TotalWorkMinutes = %d, want %d", week.TotalWorkMinutes, 5*540)
	}
	// Saturday commitment is outside the active weekdays and must not count.
	if week.ExternalMinutes != 30 {
		t.Errorf("ExternalMinutes = %d, want 30", week.ExternalMinutes)
	}
	if week.ScheduledMinutes != 120 {
		t.Errorf("ScheduledMinutes = %d, want 120", week.ScheduledMinutes)
	}
	if week.IsOverCapacity {
		t.Error("week should not be over capacity")
	}
}

func TestForWeek_Deterministic(t *testing.T) {
	profile := weekdayProfile(0.25)
	weekStart, _ := timeutil.ParseDate("2025-12-08")
	blocks := []models.TimeBlock{
		{ID: "b1", Date: "2025-12-10", Start: "08:00", End: "11:30"},
	}

	first := ForWeek(weekStart, profile, nil, blocks)
	second := ForWeek(weekStart, profile, nil, blocks)
	if first.AvailableMinutes != second.AvailableMinutes || first.ScheduledMinutes != second.ScheduledMinutes {
		t.Error("same inputs must yield the same result")
	}
}
