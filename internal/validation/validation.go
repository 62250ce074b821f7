package validation

import (
	"fmt"
	"sort"
	"time"

	"github.com/julianstephens/weekplan/internal/constants"
	"github.com/julianstephens/weekplan/internal/models"
	"github.com/julianstephens/weekplan/internal/timeutil"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictDuplicateItemTitle   ConflictType = "duplicate_item_title"
	ConflictInvalidDateTime      ConflictType = "invalid_datetime"
	ConflictInvalidEstimate      ConflictType = "invalid_estimate"
	ConflictBlockEndsBeforeStart ConflictType = "block_ends_before_start"
	ConflictOverlappingBlocks    ConflictType = "overlapping_blocks"
	ConflictDanglingBlock        ConflictType = "dangling_block"
	ConflictMissingBlock         ConflictType = "missing_block"
	ConflictInvalidProfile       ConflictType = "invalid_profile"
)

// Conflict represents a detected inconsistency in stored data
type Conflict struct {
	Type        ConflictType
	Description string
	Date        string   // YYYY-MM-DD format (if applicable)
	Items       []string // Titles involved
	IDs         []string // Record ids involved
}

// Result contains all detected conflicts
type Result struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (r *Result) HasConflicts() bool {
	return len(r.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (r *Result) FormatReport() string {
	if !r.HasConflicts() {
		return "No conflicts detected."
	}

	report := "Conflicts detected:\n"
	for _, conflict := range r.Conflicts {
		report += fmt.Sprintf("- %s\n", conflict.Description)
	}
	return report
}

// Validator checks stored records for conflicts before they reach the
// capacity and scheduling math, which assumes well-formed input.
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// ValidateProfile checks the work-hours profile.
func (v *Validator) ValidateProfile(profile models.WorkProfile) Result {
	result := Result{Conflicts: []Conflict{}}

	if !isValidClock(profile.DayStart) || !isValidClock(profile.DayEnd) {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictInvalidProfile,
			Description: fmt.Sprintf("Work hours must be HH:MM clock times, got %q-%q", profile.DayStart, profile.DayEnd),
		})
	} else if timeutil.Duration(profile.DayStart, profile.DayEnd) <= 0 {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictInvalidProfile,
			Description: fmt.Sprintf("Work day must end after it starts: %s-%s", profile.DayStart, profile.DayEnd),
		})
	}

	if profile.BufferFraction < 0 || profile.BufferFraction > 1 {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictInvalidProfile,
			Description: fmt.Sprintf("Buffer fraction must be between 0 and 1, got %g", profile.BufferFraction),
		})
	}

	if len(profile.Weekdays) == 0 {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        ConflictInvalidProfile,
			Description: "At least one active weekday is required",
		})
	}

	return result
}

// ValidateItems checks work items for duplicate titles and malformed dates.
func (v *Validator) ValidateItems(items []models.WorkItem) Result {
	result := Result{Conflicts: []Conflict{}}

	titleCount := make(map[string][]string)
	for _, item := range items {
		if item.Status == models.ItemStatusArchived {
			continue
		}
		if item.Title == "" {
			continue
		}
		titleCount[item.Title] = append(titleCount[item.Title], item.ID)
	}

	for title, ids := range titleCount {
		if len(ids) > 1 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictDuplicateItemTitle,
				Description: fmt.Sprintf("Duplicate item title: %q (IDs: %v)", title, ids),
				Items:       []string{title},
				IDs:         ids,
			})
		}
	}

	for _, item := range items {
		if item.DueDate != "" && !isValidDate(item.DueDate) {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidDateTime,
				Description: fmt.Sprintf("Item %q has invalid due date: %s", item.Title, item.DueDate),
				Items:       []string{item.Title},
				IDs:         []string{item.ID},
			})
		}
		if item.DueTime != "" && !isValidClock(item.DueTime) {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidDateTime,
				Description: fmt.Sprintf("Item %q has invalid due time: %s", item.Title, item.DueTime),
				Items:       []string{item.Title},
				IDs:         []string{item.ID},
			})
		}
	}

	return result
}

// ValidateSubtasks checks estimates against the allowed buckets and the
// scheduled-subtask/block pairing invariant.
func (v *Validator) ValidateSubtasks(subtasks []models.Subtask, blocks []models.TimeBlock) Result {
	result := Result{Conflicts: []Conflict{}}

	blockByID := make(map[string]models.TimeBlock, len(blocks))
	for _, b := range blocks {
		blockByID[b.ID] = b
	}

	for _, sub := range subtasks {
		if !constants.IsEstimateBucket(sub.EstimatedMinutes) {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type: ConflictInvalidEstimate,
				Description: fmt.Sprintf("Subtask %q has estimate %d min, allowed values are %v",
					sub.Title, sub.EstimatedMinutes, constants.EstimateBuckets),
				Items: []string{sub.Title},
				IDs:   []string{sub.ID},
			})
		}

		if sub.Status == models.SubtaskStatusScheduled {
			if _, ok := blockByID[sub.BlockID]; sub.BlockID == "" || !ok {
				result.Conflicts = append(result.Conflicts, Conflict{
					Type:        ConflictMissingBlock,
					Description: fmt.Sprintf("Scheduled subtask %q has no time block", sub.Title),
					Items:       []string{sub.Title},
					IDs:         []string{sub.ID},
				})
			}
		}
	}

	subByID := make(map[string]bool, len(subtasks))
	for _, sub := range subtasks {
		subByID[sub.ID] = true
	}
	for _, b := range blocks {
		if !subByID[b.SubtaskID] {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictDanglingBlock,
				Description: fmt.Sprintf("Time block %s on %s references missing subtask %s", b.ID, b.Date, b.SubtaskID),
				Date:        b.Date,
				IDs:         []string{b.ID},
			})
		}
	}

	return result
}

// ValidateBlocks checks block time ranges and flags same-day overlaps.
// Overlaps are reported, not fixed: the ceiling rule normally prevents them,
// so any overlap means the data was edited outside the scheduler.
func (v *Validator) ValidateBlocks(blocks []models.TimeBlock) Result {
	result := Result{Conflicts: []Conflict{}}

	byDate := make(map[string][]models.TimeBlock)
	for _, b := range blocks {
		if !isValidDate(b.Date) || !isValidClock(b.Start) || !isValidClock(b.End) {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidDateTime,
				Description: fmt.Sprintf("Time block %s has malformed date or times: %s %s-%s", b.ID, b.Date, b.Start, b.End),
				Date:        b.Date,
				IDs:         []string{b.ID},
			})
			continue
		}
		if timeutil.Duration(b.Start, b.End) <= 0 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictBlockEndsBeforeStart,
				Description: fmt.Sprintf("Time block %s on %s ends at or before its start: %s-%s", b.ID, b.Date, b.Start, b.End),
				Date:        b.Date,
				IDs:         []string{b.ID},
			})
			continue
		}
		byDate[b.Date] = append(byDate[b.Date], b)
	}

	for date, day := range byDate {
		sort.Slice(day, func(i, j int) bool { return day[i].Start < day[j].Start })
		for i := 1; i < len(day); i++ {
			prev, cur := day[i-1], day[i]
			if cur.Start < prev.End {
				result.Conflicts = append(result.Conflicts, Conflict{
					Type: ConflictOverlappingBlocks,
					Description: fmt.Sprintf("Overlapping blocks on %s: %s-%s and %s-%s",
						date, prev.Start, prev.End, cur.Start, cur.End),
					Date: date,
					IDs:  []string{prev.ID, cur.ID},
				})
			}
		}
	}

	return result
}

func isValidClock(clock string) bool {
	_, err := time.Parse(timeutil.ClockLayout, clock)
	return err == nil
}

func isValidDate(date string) bool {
	_, err := timeutil.ParseDate(date)
	return err == nil
}
