package models

type PlanStatus string

const (
	PlanStatusPlanning  PlanStatus = "planning"
	PlanStatusCommitted PlanStatus = "committed"
)

// WeeklyPlan tracks the commit state of one work week. There is one per
// week-start date, created lazily on first view. Status only ever moves
// planning -> committed -> planning; while committed, scheduling edits are
// refused by the calling layer (the plan status is advisory, not enforced
// on every mutation).
type WeeklyPlan struct {
	ID              string     `json:"id"`
	WeekStart       string     `json:"week_start"` // YYYY-MM-DD, always a Monday
	Status          PlanStatus `json:"status"`
	CommittedAt     *string    `json:"committed_at,omitempty"` // RFC3339 timestamp
	ReflectionNotes string     `json:"reflection_notes,omitempty"`
}
