package models

type BlockStatus string

const (
	BlockStatusScheduled BlockStatus = "scheduled"
	BlockStatusCompleted BlockStatus = "completed"
	BlockStatusPartial   BlockStatus = "partial"
)

// TimeBlock is a scheduled stretch of time owned by exactly one Subtask.
// End is strictly after Start.
type TimeBlock struct {
	ID        string      `json:"id"`
	SubtaskID string      `json:"subtask_id"`
	Date      string      `json:"date"`  // YYYY-MM-DD
	Start     string      `json:"start"` // HH:MM
	End       string      `json:"end"`   // HH:MM
	Status    BlockStatus `json:"status"`
}

// ExternalCommitment is a fixed-time obligation (an appointment, a standing
// meeting). It is read-only input to capacity math and is never created or
// moved by the scheduler.
type ExternalCommitment struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Date  string `json:"date"`  // YYYY-MM-DD
	Start string `json:"start"` // HH:MM
	End   string `json:"end"`   // HH:MM
}
