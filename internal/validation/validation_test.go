package validation

import (
	"testing"
	"time"

	"github.com/julianstephens/weekplan/internal/models"
)

func TestValidateItems_DuplicateTitles(t *testing.T) {
	validator := New()

	items := []models.WorkItem{
		{ID: "1", Title: "Item A", Status: models.ItemStatusOpen},
		{ID: "2", Title: "Item B", Status: models.ItemStatusOpen},
		{ID: "3", Title: "Item A", Status: models.ItemStatusOpen}, // Duplicate
	}

	result := validator.ValidateItems(items)

	if !result.HasConflicts() {
		t.Error("Expected to detect duplicate item titles")
	}

	found := false
	for _, conflict := range result.Conflicts {
		if conflict.Type == ConflictDuplicateItemTitle {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("no duplicate-title conflict in %+v", result.Conflicts)
	}
}

func TestValidateItems_ArchivedExcluded(t *testing.T) {
	validator := New()

	items := []models.WorkItem{
		{ID: "1", Title: "Item A", Status: models.ItemStatusOpen},
		{ID: "2", Title: "Item A", Status: models.ItemStatusArchived},
	}

	if result := validator.ValidateItems(items); result.HasConflicts() {
		t.Errorf("archived items should not count toward duplicates: %+v", result.Conflicts)
	}
}

func TestValidateItems_BadDueDate(t *testing.T) {
	validator := New()

	items := []models.WorkItem{
		{ID: "1", Title: "Item A", Status: models.ItemStatusOpen, DueDate: "12/25/2025"},
	}

	result := validator.ValidateItems(items)
	if !result.HasConflicts() || result.Conflicts[0].Type != ConflictInvalidDateTime {
		t.Errorf("expected invalid-datetime conflict, got %+v", result.Conflicts)
	}
}

func TestValidateProfile(t *testing.T) {
	validator := New()

	good := models.WorkProfile{
		DayStart: "08:00", DayEnd: "17:00",
		Weekdays:       []time.Weekday{time.Monday},
		BufferFraction: 0.4,
	}
	if result := validator.ValidateProfile(good); result.HasConflicts() {
		t.Errorf("valid profile flagged: %s", result.FormatReport())
	}

	cases := []struct {
		name    string
		profile models.WorkProfile
	}{
		{"inverted hours", models.WorkProfile{DayStart: "17:00", DayEnd: "08:00", Weekdays: good.Weekdays, BufferFraction: 0.4}},
		{"bad clock", models.WorkProfile{DayStart: "8am", DayEnd: "17:00", Weekdays: good.Weekdays, BufferFraction: 0.4}},
		{"buffer too large", models.WorkProfile{DayStart: "08:00", DayEnd: "17:00", Weekdays: good.Weekdays, BufferFraction: 1.5}},
		{"no weekdays", models.WorkProfile{DayStart: "08:00", DayEnd: "17:00", BufferFraction: 0.4}},
	}
	for _, tc := range cases {
		if result := validator.ValidateProfile(tc.profile); !result.HasConflicts() {
			t.Errorf("%s: expected a conflict", tc.name)
		}
	}
}

func TestValidateSubtasks_EstimateBuckets(t *testing.T) {
	validator := New()

	subs := []models.Subtask{
		{ID: "s1", Title: "ok", EstimatedMinutes: 90, Status: models.SubtaskStatusEstimated},
		{ID: "s2", Title: "odd", EstimatedMinutes: 45, Status: models.SubtaskStatusEstimated},
	}

	result := validator.ValidateSubtasks(subs, nil)
	if len(result.Conflicts) != 1 || result.Conflicts[0].Type != ConflictInvalidEstimate {
		t.Errorf("got %+v, want one invalid-estimate conflict", result.Conflicts)
	}
}

func TestValidateSubtasks_ScheduledNeedsBlock(t *testing.T) {
	validator := New()

	subs := []models.Subtask{
		{ID: "s1", Title: "has block", EstimatedMinutes: 60, Status: models.SubtaskStatusScheduled, BlockID: "b1"},
		{ID: "s2", Title: "lost block", EstimatedMinutes: 60, Status: models.SubtaskStatusScheduled, BlockID: "b9"},
	}
	blocks := []models.TimeBlock{
		{ID: "b1", SubtaskID: "s1", Date: "2025-12-09", Start: "08:00", End: "09:00"},
	}

	result := validator.ValidateSubtasks(subs, blocks)
	if len(result.Conflicts) != 1 || result.Conflicts[0].Type != ConflictMissingBlock {
		t.Errorf("got %+v, want one missing-block conflict", result.Conflicts)
	}
}

func TestValidateSubtasks_DanglingBlock(t *testing.T) {
	validator := New()

	blocks := []models.TimeBlock{
		{ID: "b1", SubtaskID: "ghost", Date: "2025-12-09", Start: "08:00", End: "09:00"},
	}

	result := validator.ValidateSubtasks(nil, blocks)
	if len(result.Conflicts) != 1 || result.Conflicts[0].Type != ConflictDanglingBlock {
		t.Errorf("got %+v, want one dangling-block conflict", result.Conflicts)
	}
}

func TestValidateBlocks_EndBeforeStart(t *testing.T) {
	validator := New()

	blocks := []models.TimeBlock{
		{ID: "b1", Date: "2025-12-09", Start: "10:00", End: "09:00"},
	}

	result := validator.ValidateBlocks(blocks)
	if len(result.Conflicts) != 1 || result.Conflicts[0].Type != ConflictBlockEndsBeforeStart {
		t.Errorf("got %+v", result.Conflicts)
	}
}

func TestValidateBlocks_Overlap(t *testing.T) {
	validator := New()

	blocks := []models.TimeBlock{
		{ID: "b1", Date: "2025-12-09", Start: "08:00", End: "10:00"},
		{ID: "b2", Date: "2025-12-09", Start: "09:30", End: "11:00"},
		{ID: "b3", Date: "2025-12-10", Start: "08:00", End: "10:00"}, // other day
	}

	result := validator.ValidateBlocks(blocks)
	if len(result.Conflicts) != 1 || result.Conflicts[0].Type != ConflictOverlappingBlocks {
		t.Errorf("got %+v, want one overlap conflict", result.Conflicts)
	}
}

func TestFormatReport(t *testing.T) {
	r := Result{}
	if r.FormatReport() != "No conflicts detected." {
		t.Errorf("empty report = %q", r.FormatReport())
	}

	r.Conflicts = append(r.Conflicts, Conflict{Description: "something is off"})
	if r.FormatReport() != "Conflicts detected:\n- something is off\n" {
		t.Errorf("report = %q", r.FormatReport())
	}
}
