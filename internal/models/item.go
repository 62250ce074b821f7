package models

type ItemStatus string

const (
	ItemStatusOpen       ItemStatus = "open"
	ItemStatusDecomposed ItemStatus = "decomposed"
	ItemStatusArchived   ItemStatus = "archived"
)

type PriorityLevel string

const (
	PriorityHigh   PriorityLevel = "high"
	PriorityMedium PriorityLevel = "medium"
	PriorityLow    PriorityLevel = "low"
	PriorityNone   PriorityLevel = "none"
)

type RecurringFrequency string

const (
	RecurringDaily   RecurringFrequency = "daily"
	RecurringWeekly  RecurringFrequency = "weekly"
	RecurringMonthly RecurringFrequency = "monthly"
	RecurringYearly  RecurringFrequency = "yearly"
	RecurringCustom  RecurringFrequency = "custom"
)

// WorkItem is a loosely-specified backlog item. It owns zero or more
// Subtasks once decomposed.
type WorkItem struct {
	ID           string             `json:"id"`
	Title        string             `json:"title"`
	Description  string             `json:"description,omitempty"`
	Status       ItemStatus         `json:"status"`
	PriorityRank int                `json:"priority_rank"`
	Priority     PriorityLevel      `json:"priority,omitempty"`
	DueDate      string             `json:"due_date,omitempty"` // YYYY-MM-DD
	DueTime      string             `json:"due_time,omitempty"` // HH:MM
	Recurring    RecurringFrequency `json:"recurring,omitempty"`
	RecurringN   int                `json:"recurring_interval,omitempty"` // e.g. every 2 weeks
	Tags         []string           `json:"tags,omitempty"`
	CompletedAt  *string            `json:"completed_at,omitempty"` // RFC3339 timestamp
}
