package models

type SubtaskStatus string

const (
	SubtaskStatusEstimated  SubtaskStatus = "estimated"
	SubtaskStatusScheduled  SubtaskStatus = "scheduled"
	SubtaskStatusInProgress SubtaskStatus = "in_progress"
	SubtaskStatusCompleted  SubtaskStatus = "completed"
	SubtaskStatusOverflow   SubtaskStatus = "overflow"
	SubtaskStatusDeferred   SubtaskStatus = "deferred"
)

// Subtask is a time-boxed unit of work belonging to one WorkItem. A scheduled
// subtask has exactly one associated TimeBlock, referenced by BlockID; a
// subtask never has more than one active block.
type Subtask struct {
	ID               string        `json:"id"`
	WorkItemID       string        `json:"work_item_id"`
	ParentSubtaskID  string        `json:"parent_subtask_id,omitempty"` // set on follow-ups
	Title            string        `json:"title"`
	DefinitionOfDone string        `json:"definition_of_done,omitempty"`
	EstimatedMinutes int           `json:"estimated_minutes"` // one of the estimate buckets
	Status           SubtaskStatus `json:"status"`
	BlockID          string        `json:"block_id,omitempty"`
	ActualMinutes    int           `json:"actual_minutes,omitempty"` // logged after completion
	CompletedAt      *string       `json:"completed_at,omitempty"`   // RFC3339 timestamp
	ProgressNote     string        `json:"progress_note,omitempty"`
	Rationale        string        `json:"rationale,omitempty"` // decomposition service reasoning
}
