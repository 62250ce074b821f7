// Package lifecycle implements the two-state weekly plan machine. A plan is
// either planning or committed; commit is gated on the week fitting within
// capacity with no overflowed subtasks left to resolve.
package lifecycle

import (
	"time"

	"github.com/julianstephens/weekplan/internal/capacity"
	"github.com/julianstephens/weekplan/internal/models"
)

// Commit transitions a planning-state plan to committed. It refuses, leaving
// the plan untouched, when the week is over capacity, when overflowed
// subtasks remain, or when the plan is already committed. The bool reports
// whether the transition happened.
func Commit(plan models.WeeklyPlan, week capacity.WeekCapacity, overflowCount int, now time.Time) (models.WeeklyPlan, bool) {
	if plan.Status != models.PlanStatusPlanning {
		return plan, false
	}
	if week.IsOverCapacity || overflowCount > 0 {
		return plan, false
	}
	ts := now.Format(time.RFC3339)
	plan.Status = models.PlanStatusCommitted
	plan.CommittedAt = &ts
	return plan, true
}

// Replan returns a committed plan to the planning state and clears the
// commit timestamp. Calling it on a plan already in planning is a no-op.
func Replan(plan models.WeeklyPlan) (models.WeeklyPlan, bool) {
	if plan.Status != models.PlanStatusCommitted {
		return plan, false
	}
	plan.Status = models.PlanStatusPlanning
	plan.CommittedAt = nil
	return plan, true
}

// CanEdit reports whether scheduling mutations are allowed for the plan.
// The lock is advisory: callers must check it before scheduling or deleting
// blocks, the engine itself does not refuse mutations.
func CanEdit(plan models.WeeklyPlan) bool {
	return plan.Status == models.PlanStatusPlanning
}
