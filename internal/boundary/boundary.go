// Package boundary detects when the active time block of the day ends and
// emits a single notification per block so the caller can ask what happened.
package boundary

import (
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/weekplan/internal/models"
	"github.com/julianstephens/weekplan/internal/timeutil"
)

// State carries the watcher's memory between polls. Handled ids persist for
// the session so a block never fires twice.
type State struct {
	Active  *models.TimeBlock
	Handled map[string]bool
}

// NewState returns an empty watcher state.
func NewState() State {
	return State{Handled: make(map[string]bool)}
}

// Check is the outcome of a single poll.
type Check struct {
	// Active is the block whose [start,end) interval contains now, or nil.
	Active *models.TimeBlock
	// Ended is set at most once per block id, on the first poll after the
	// previously active block's interval elapsed.
	Ended *models.TimeBlock
	// MinutesRemaining is the time left in the active block, 0 when none.
	MinutesRemaining int
}

// Poll evaluates today's blocks against now and returns the updated state.
// A block that was marked completed before its end time passes is treated
// as already resolved and never reported as ended.
func Poll(st State, todayBlocks []models.TimeBlock, now time.Time) (State, Check) {
	if st.Handled == nil {
		st.Handled = make(map[string]bool)
	}

	today := timeutil.DateKey(now)
	nowMin := now.Hour()*60 + now.Minute()

	var check Check
	for i := range todayBlocks {
		b := todayBlocks[i]
		if b.Date != today || b.Status == models.BlockStatusCompleted {
			continue
		}
		start, err := timeutil.ClockToMinutes(b.Start)
		if err != nil {
			continue
		}
		end, err := timeutil.ClockToMinutes(b.End)
		if err != nil {
			continue
		}
		if nowMin >= start && nowMin < end {
			check.Active = &todayBlocks[i]
			check.MinutesRemaining = end - nowMin
			break
		}
	}

	if prev := st.Active; prev != nil && !st.Handled[prev.ID] {
		if elapsed(prev, today, nowMin) && !completedSince(prev.ID, todayBlocks) {
			st.Handled[prev.ID] = true
			check.Ended = prev
		}
	}

	st.Active = check.Active
	return st, check
}

func elapsed(b *models.TimeBlock, today string, nowMin int) bool {
	if b.Date != today {
		return true
	}
	end, err := timeutil.ClockToMinutes(b.End)
	if err != nil {
		return false
	}
	return nowMin >= end
}

// completedSince reports whether the block was marked completed by the time
// of the current poll, consulting the freshly loaded copy of the day.
func completedSince(id string, todayBlocks []models.TimeBlock) bool {
	for _, b := range todayBlocks {
		if b.ID == id {
			return b.Status == models.BlockStatusCompleted
		}
	}
	return false
}

// MarkComplete resolves an ended block as done. The subtask records the
// actual duration (falling back to the block length when zero) and a
// completion timestamp.
func MarkComplete(sub models.Subtask, block models.TimeBlock, actualMinutes int, now time.Time) (models.Subtask, models.TimeBlock) {
	if actualMinutes <= 0 {
		actualMinutes = timeutil.Duration(block.Start, block.End)
	}
	ts := now.Format(time.RFC3339)
	sub.Status = models.SubtaskStatusCompleted
	sub.ActualMinutes = actualMinutes
	sub.CompletedAt = &ts

	block.Status = models.BlockStatusCompleted
	return sub, block
}

// CreateFollowUp resolves an ended block as partially done: the original
// block becomes partial, the subtask completes with a progress note, and a
// new subtask linked by parent id carries the same estimate for the
// remaining work.
func CreateFollowUp(sub models.Subtask, block models.TimeBlock, progressNote string, now time.Time) (models.Subtask, models.TimeBlock, models.Subtask) {
	ts := now.Format(time.RFC3339)
	sub.Status = models.SubtaskStatusCompleted
	sub.ProgressNote = progressNote
	sub.ActualMinutes = timeutil.Duration(block.Start, block.End)
	sub.CompletedAt = &ts

	block.Status = models.BlockStatusPartial

	followUp := models.Subtask{
		ID:               uuid.NewString(),
		WorkItemID:       sub.WorkItemID,
		ParentSubtaskID:  sub.ID,
		Title:            sub.Title + " (continued)",
		DefinitionOfDone: sub.DefinitionOfDone,
		EstimatedMinutes: sub.EstimatedMinutes,
		Status:           models.SubtaskStatusEstimated,
	}
	return sub, block, followUp
}
