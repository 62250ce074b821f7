package lifecycle

import (
	"testing"
	"time"

	"github.com/julianstephens/weekplan/internal/capacity"
	"github.com/julianstephens/weekplan/internal/models"
)

var testNow = time.Date(2025, 12, 8, 9, 30, 0, 0, time.UTC)

func planningPlan() models.WeeklyPlan {
	return models.WeeklyPlan{ID: "p1", WeekStart: "2025-12-08", Status: models.PlanStatusPlanning}
}

func TestCommit_Succeeds(t *testing.T) {
	week := capacity.WeekCapacity{RemainingMinutes: 120}

	plan, ok := Commit(planningPlan(), week, 0, testNow)
	if !ok {
		t.Fatal("expected commit to succeed")
	}
	if plan.Status != models.PlanStatusCommitted {
		t.Errorf("Status = %q, want committed", plan.Status)
	}
	if plan.CommittedAt == nil || *plan.CommittedAt != "2025-12-08T09:30:00Z" {
		t.Errorf("CommittedAt = %v, want 2025-12-08T09:30:00Z", plan.CommittedAt)
	}
}

func TestCommit_RefusedOverCapacity(t *testing.T) {
	week := capacity.WeekCapacity{RemainingMinutes: -54, IsOverCapacity: true, OverflowMinutes: 54}

	plan, ok := Commit(planningPlan(), week, 0, testNow)
	if ok {
		t.Fatal("expected commit to be refused")
	}
	if plan.Status != models.PlanStatusPlanning || plan.CommittedAt != nil {
		t.Errorf("refused commit mutated plan: %+v", plan)
	}
}

func TestCommit_RefusedWithOverflowSubtasks(t *testing.T) {
	week := capacity.WeekCapacity{RemainingMinutes: 300}

	if _, ok := Commit(planningPlan(), week, 2, testNow); ok {
		t.Error("expected commit to be refused while overflow subtasks remain")
	}
}

func TestCommit_RefusedAlreadyCommitted(t *testing.T) {
	ts := "2025-12-07T10:00:00Z"
	plan := models.WeeklyPlan{ID: "p1", WeekStart: "2025-12-08", Status: models.PlanStatusCommitted, CommittedAt: &ts}

	got, ok := Commit(plan, capacity.WeekCapacity{}, 0, testNow)
	if ok {
		t.Fatal("expected commit on committed plan to be a no-op")
	}
	if got.CommittedAt == nil || *got.CommittedAt != ts {
		t.Errorf("original commit timestamp was disturbed: %v", got.CommittedAt)
	}
}

func TestReplan(t *testing.T) {
	ts := "2025-12-08T09:30:00Z"
	plan := models.WeeklyPlan{ID: "p1", Status: models.PlanStatusCommitted, CommittedAt: &ts}

	got, ok := Replan(plan)
	if !ok {
		t.Fatal("expected replan to succeed")
	}
	if got.Status != models.PlanStatusPlanning {
		t.Errorf("Status = %q, want planning", got.Status)
	}
	if got.CommittedAt != nil {
		t.Errorf("CommittedAt = %v, want nil", got.CommittedAt)
	}
}

func TestReplan_NoOpFromPlanning(t *testing.T) {
	if _, ok := Replan(planningPlan()); ok {
		t.Error("replan from planning should be refused")
	}
}

func TestCommitReplanCycle(t *testing.T) {
	week := capacity.WeekCapacity{RemainingMinutes: 60}

	plan, ok := Commit(planningPlan(), week, 0, testNow)
	if !ok {
		t.Fatal("commit failed")
	}
	plan, ok = Replan(plan)
	if !ok {
		t.Fatal("replan failed")
	}
	plan, ok = Commit(plan, week, 0, testNow.Add(time.Hour))
	if !ok {
		t.Fatal("second commit failed")
	}
	if *plan.CommittedAt != "2025-12-08T10:30:00Z" {
		t.Errorf("CommittedAt = %q, want the second commit time", *plan.CommittedAt)
	}
}

func TestCanEdit(t *testing.T) {
	if !CanEdit(planningPlan()) {
		t.Error("planning plan should be editable")
	}
	if CanEdit(models.WeeklyPlan{Status: models.PlanStatusCommitted}) {
		t.Error("committed plan should not be editable")
	}
}
