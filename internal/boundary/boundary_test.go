package boundary

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/julianstephens/weekplan/internal/models"
)

func at(hour, minute int) time.Time {
	return time.Date(2025, 12, 9, hour, minute, 0, 0, time.UTC)
}

func dayBlocks(status models.BlockStatus) []models.TimeBlock {
	return []models.TimeBlock{
		{ID: "b1", SubtaskID: "s1", Date: "2025-12-09", Start: "09:00", End: "10:00", Status: status},
	}
}

func TestPoll_ActiveBlock(t *testing.T) {
	st, check := Poll(NewState(), dayBlocks(models.BlockStatusScheduled), at(9, 15))

	if check.Active == nil || check.Active.ID != "b1" {
		t.Fatalf("Active = %v, want b1", check.Active)
	}
	if check.MinutesRemaining != 45 {
		t.Errorf("MinutesRemaining = %d, want 45", check.MinutesRemaining)
	}
	if st.Active == nil || st.Active.ID != "b1" {
		t.Errorf("state did not record the active block")
	}
}

func TestPoll_EndIsExclusive(t *testing.T) {
	_, check := Poll(NewState(), dayBlocks(models.BlockStatusScheduled), at(10, 0))
	if check.Active != nil {
		t.Errorf("block should no longer be active at its end time")
	}
}

func TestPoll_SingleFire(t *testing.T) {
	blocks := dayBlocks(models.BlockStatusScheduled)
	st := NewState()

	var endedIDs []string
	for _, now := range []time.Time{at(9, 30), at(10, 0), at(10, 1), at(10, 30)} {
		var check Check
		st, check = Poll(st, blocks, now)
		if check.Ended != nil {
			endedIDs = append(endedIDs, check.Ended.ID)
		}
	}

	if len(endedIDs) != 1 || endedIDs[0] != "b1" {
		t.Errorf("ended notifications = %v, want exactly [b1]", endedIDs)
	}
}

func TestPoll_NoFireWithoutPriorActive(t *testing.T) {
	// The watcher never saw the block while it was active, so its end is
	// not reported.
	_, check := Poll(NewState(), dayBlocks(models.BlockStatusScheduled), at(11, 0))
	if check.Ended != nil {
		t.Errorf("Ended = %v, want nil", check.Ended)
	}
}

func TestPoll_CompletedBeforeExpiryIsSilent(t *testing.T) {
	st := NewState()
	st, _ = Poll(st, dayBlocks(models.BlockStatusScheduled), at(9, 30))

	// The block got marked completed before the end time passed.
	_, check := Poll(st, dayBlocks(models.BlockStatusCompleted), at(10, 5))
	if check.Ended != nil {
		t.Errorf("completed block reported as ended: %v", check.Ended)
	}
}

func TestPoll_BackToBackBlocks(t *testing.T) {
	blocks := []models.TimeBlock{
		{ID: "b1", Date: "2025-12-09", Start: "09:00", End: "10:00", Status: models.BlockStatusScheduled},
		{ID: "b2", Date: "2025-12-09", Start: "10:00", End: "11:00", Status: models.BlockStatusScheduled},
	}
	st := NewState()
	st, _ = Poll(st, blocks, at(9, 30))
	_, check := Poll(st, blocks, at(10, 0))

	if check.Ended == nil || check.Ended.ID != "b1" {
		t.Fatalf("Ended = %v, want b1", check.Ended)
	}
	if check.Active == nil || check.Active.ID != "b2" {
		t.Errorf("Active = %v, want b2", check.Active)
	}
}

func TestPoll_IgnoresOtherDates(t *testing.T) {
	blocks := []models.TimeBlock{
		{ID: "b1", Date: "2025-12-10", Start: "09:00", End: "10:00", Status: models.BlockStatusScheduled},
	}
	_, check := Poll(NewState(), blocks, at(9, 30))
	if check.Active != nil {
		t.Errorf("tomorrow's block reported active")
	}
}

func TestMarkComplete(t *testing.T) {
	sub := models.Subtask{ID: "s1", EstimatedMinutes: 60, Status: models.SubtaskStatusInProgress}
	block := models.TimeBlock{ID: "b1", Start: "09:00", End: "10:00", Status: models.BlockStatusScheduled}

	gotSub, gotBlock := MarkComplete(sub, block, 75, at(10, 1))

	if gotSub.Status != models.SubtaskStatusCompleted || gotSub.ActualMinutes != 75 {
		t.Errorf("subtask = %+v, want completed with actual 75", gotSub)
	}
	if gotSub.CompletedAt == nil || *gotSub.CompletedAt != "2025-12-09T10:01:00Z" {
		t.Errorf("CompletedAt = %v", gotSub.CompletedAt)
	}
	if gotBlock.Status != models.BlockStatusCompleted {
		t.Errorf("block status = %q, want completed", gotBlock.Status)
	}
}

func TestMarkComplete_DefaultsToBlockLength(t *testing.T) {
	sub := models.Subtask{ID: "s1"}
	block := models.TimeBlock{Start: "09:00", End: "10:30"}

	gotSub, _ := MarkComplete(sub, block, 0, at(10, 30))
	if gotSub.ActualMinutes != 90 {
		t.Errorf("ActualMinutes = %d, want 90 (block length)", gotSub.ActualMinutes)
	}
}

func TestCreateFollowUp(t *testing.T) {
	sub := models.Subtask{
		ID: "s1", WorkItemID: "i1", Title: "Draft report",
		DefinitionOfDone: "Report sent", EstimatedMinutes: 90,
		Status: models.SubtaskStatusInProgress,
	}
	block := models.TimeBlock{ID: "b1", Start: "09:00", End: "10:30", Status: models.BlockStatusScheduled}

	gotSub, gotBlock, followUp := CreateFollowUp(sub, block, "intro done, body remaining", at(10, 31))

	if gotSub.Status != models.SubtaskStatusCompleted || gotSub.ProgressNote != "intro done, body remaining" {
		t.Errorf("subtask = %+v", gotSub)
	}
	if gotBlock.Status != models.BlockStatusPartial {
		t.Errorf("block status = %q, want partial", gotBlock.Status)
	}
	if followUp.ParentSubtaskID != "s1" {
		t.Errorf("ParentSubtaskID = %q, want s1", followUp.ParentSubtaskID)
	}
	if followUp.EstimatedMinutes != 90 {
		t.Errorf("EstimatedMinutes = %d, want the original estimate", followUp.EstimatedMinutes)
	}
	if followUp.Status != models.SubtaskStatusEstimated {
		t.Errorf("follow-up status = %q, want estimated", followUp.Status)
	}
	if followUp.ID == "" || followUp.ID == sub.ID {
		t.Errorf("follow-up needs its own id, got %q", followUp.ID)
	}
}

func TestWatcher_RunChecksImmediately(t *testing.T) {
	var mu sync.Mutex
	var checks int

	w := &Watcher{
		Interval: time.Hour,
		Load: func(date string) ([]models.TimeBlock, error) {
			return dayBlocks(models.BlockStatusScheduled), nil
		},
		OnCheck: func(Check) {
			mu.Lock()
			checks++
			mu.Unlock()
		},
		Now: func() time.Time { return at(9, 15) },
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	deadline := time.After(2 * time.Second)
	for {
		mu.Lock()
		n := checks
		mu.Unlock()
		if n >= 1 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("no check fired before cancellation")
		default:
			time.Sleep(5 * time.Millisecond)
		}
	}

	cancel()
	if err := <-done; err != context.Canceled {
		t.Errorf("Run returned %v, want context.Canceled", err)
	}
}
