// Package overflow resolves subtasks that could not be placed within the
// committed capacity of a week.
package overflow

import (
	"github.com/julianstephens/weekplan/internal/constants"
	"github.com/julianstephens/weekplan/internal/models"
)

// Resolution is the action chosen for one overflowed subtask.
type Resolution string

const (
	// ResolutionReschedule returns the subtask to the pool for placement in a
	// following week. Targeting the new week is the caller's job.
	ResolutionReschedule Resolution = "reschedule"
	// ResolutionBacklog returns the subtask to the unscheduled backlog.
	ResolutionBacklog Resolution = "backlog"
	// ResolutionReduce returns the subtask with its estimate stepped down
	// one bucket, see ReduceEstimate.
	ResolutionReduce Resolution = "reduce"
	// ResolutionDelete removes the subtask entirely.
	ResolutionDelete Resolution = "delete"
)

// Valid reports whether r is one of the known resolution actions.
func (r Resolution) Valid() bool {
	switch r {
	case ResolutionReschedule, ResolutionBacklog, ResolutionReduce, ResolutionDelete:
		return true
	}
	return false
}

// Result describes the mutations produced by resolving a batch of
// overflowed subtasks.
type Result struct {
	// Updated holds subtasks whose status changed back to estimated.
	Updated []models.Subtask
	// DeletedIDs holds ids of subtasks the caller must remove from storage.
	DeletedIDs []string
	// Unresolved holds overflowed subtasks with no resolution in the batch.
	Unresolved []models.Subtask
}

// Complete reports whether every subtask in the batch was resolved. Plan
// commit stays blocked while a batch is incomplete.
func (r Result) Complete() bool {
	return len(r.Unresolved) == 0
}

// Resolve applies the chosen resolution to each overflowed subtask. Each id
// is acted on at most once; subtasks not in status overflow pass through
// untouched as unresolved so the caller can see what was skipped. Unknown
// resolution values leave the subtask unresolved rather than guessing.
func Resolve(subtasks []models.Subtask, resolutions map[string]Resolution) Result {
	var result Result
	applied := make(map[string]bool, len(resolutions))

	for _, sub := range subtasks {
		if sub.Status != models.SubtaskStatusOverflow {
			result.Unresolved = append(result.Unresolved, sub)
			continue
		}
		res, ok := resolutions[sub.ID]
		if !ok || !res.Valid() || applied[sub.ID] {
			result.Unresolved = append(result.Unresolved, sub)
			continue
		}
		applied[sub.ID] = true

		switch res {
		case ResolutionDelete:
			result.DeletedIDs = append(result.DeletedIDs, sub.ID)
		default:
			if res == ResolutionReduce {
				sub.EstimatedMinutes = ReduceEstimate(sub.EstimatedMinutes)
			}
			sub.Status = models.SubtaskStatusEstimated
			sub.BlockID = ""
			result.Updated = append(result.Updated, sub)
		}
	}

	return result
}

// ReduceEstimate steps an estimate down one bucket. The smallest bucket
// stays where it is.
func ReduceEstimate(minutes int) int {
	prev := minutes
	for _, b := range constants.EstimateBuckets {
		if b >= minutes {
			break
		}
		prev = b
	}
	return prev
}
