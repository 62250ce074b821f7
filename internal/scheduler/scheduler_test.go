package scheduler

import (
	"fmt"
	"testing"

	"pgregory.net/rapid"

	"github.com/julianstephens/weekplan/internal/models"
	"github.com/julianstephens/weekplan/internal/timeutil"
)

func TestPlace_EmptyDay(t *testing.T) {
	// 90 minutes into an empty day lands at 08:00-09:30.
	block := Place("2025-12-09", 90, nil, nil)

	if block.Start != "08:00" {
		t.Errorf("Start = %q, want 08:00", block.Start)
	}
	if block.End != "09:30" {
		t.Errorf("End = %q, want 09:30", block.End)
	}
	if block.Status != models.BlockStatusScheduled {
		t.Errorf("Status = %q, want scheduled", block.Status)
	}
}

func TestPlace_CeilingAfterFractionalEnd(t *testing.T) {
	// An existing block ending 09:15 pushes the candidate to ceil(9.25)=10,
	// introducing a 45-minute gap on purpose.
	existing := []models.TimeBlock{
		{ID: "b1", Date: "2025-12-09", Start: "08:00", End: "09:15", Status: models.BlockStatusScheduled},
	}

	block := Place("2025-12-09", 60, existing, nil)

	if block.Start != "10:00" {
		t.Errorf("Start = %q, want 10:00", block.Start)
	}
	if block.End != "11:00" {
		t.Errorf("End = %q, want 11:00", block.End)
	}
}

func TestPlace_CommitmentsAdvanceStart(t *testing.T) {
	commitments := []models.ExternalCommitment{
		{ID: "c1", Date: "2025-12-09", Start: "08:30", End: "11:30"},
	}

	block := Place("2025-12-09", 30, nil, commitments)

	if block.Start != "12:00" {
		t.Errorf("Start = %q, want 12:00", block.Start)
	}
}

func TestPlace_OnlyMaxEndMatters(t *testing.T) {
	// Overlapping items: only the latest end hour decides, order is irrelevant.
	blocks := []models.TimeBlock{
		{ID: "b1", Date: "2025-12-09", Start: "08:00", End: "12:00"},
		{ID: "b2", Date: "2025-12-09", Start: "09:00", End: "10:00"},
	}
	reversed := []models.TimeBlock{blocks[1], blocks[0]}

	a := Place("2025-12-09", 60, blocks, nil)
	b := Place("2025-12-09", 60, reversed, nil)

	if a.Start != "12:00" || b.Start != "12:00" {
		t.Errorf("Start = %q / %q, want 12:00 for both orders", a.Start, b.Start)
	}
}

func TestPlace_IgnoresOtherDates(t *testing.T) {
	blocks := []models.TimeBlock{
		{ID: "b1", Date: "2025-12-10", Start: "08:00", End: "16:00"},
	}

	block := Place("2025-12-09", 60, blocks, nil)
	if block.Start != "08:00" {
		t.Errorf("Start = %q, want 08:00 (other dates ignored)", block.Start)
	}
}

func TestPlace_SchedulesPastCapacity(t *testing.T) {
	// The scheduler never refuses: it stacks past any sensible day end and
	// leaves overflow detection to the capacity layer.
	blocks := []models.TimeBlock{
		{ID: "b1", Date: "2025-12-09", Start: "08:00", End: "16:00"},
	}

	block := Place("2025-12-09", 240, blocks, nil)
	if block.Start != "16:00" || block.End != "20:00" {
		t.Errorf("got %s-%s, want 16:00-20:00", block.Start, block.End)
	}
}

func TestSchedule_TransitionsSubtask(t *testing.T) {
	sub := models.Subtask{ID: "s1", WorkItemID: "i1", EstimatedMinutes: 120, Status: models.SubtaskStatusEstimated}

	block, scheduled := Schedule(sub, "2025-12-09", nil, nil)

	if block.SubtaskID != "s1" {
		t.Errorf("block.SubtaskID = %q, want s1", block.SubtaskID)
	}
	if scheduled.Status != models.SubtaskStatusScheduled {
		t.Errorf("Status = %q, want scheduled", scheduled.Status)
	}
	if scheduled.BlockID != block.ID {
		t.Errorf("BlockID = %q, want %q", scheduled.BlockID, block.ID)
	}
}

func TestUnschedule(t *testing.T) {
	sub := models.Subtask{ID: "s1", Status: models.SubtaskStatusScheduled, BlockID: "b1"}

	got := Unschedule(sub)
	if got.Status != models.SubtaskStatusEstimated || got.BlockID != "" {
		t.Errorf("got status=%q blockID=%q, want estimated/empty", got.Status, got.BlockID)
	}
}

// The assigned start is always >= the day-open hour and >= the ceiling of
// the latest existing end time on the day.
func TestPlaceMonotonicityProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		date := "2025-12-09"
		var blocks []models.TimeBlock
		maxEnd := 0
		for i := 0; i < rapid.IntRange(0, 5).Draw(rt, "numBlocks"); i++ {
			start := rapid.IntRange(0, 1200).Draw(rt, fmt.Sprintf("start_%d", i))
			length := rapid.IntRange(15, 180).Draw(rt, fmt.Sprintf("len_%d", i))
			end := start + length
			if end > 1439 {
				end = 1439
			}
			if end > maxEnd {
				maxEnd = end
			}
			blocks = append(blocks, models.TimeBlock{
				Date:  date,
				Start: timeutil.MinutesToClock(start),
				End:   timeutil.MinutesToClock(end),
			})
		}

		duration := rapid.SampledFrom([]int{30, 60, 90, 120, 180, 240}).Draw(rt, "duration")
		block := Place(date, duration, blocks, nil)

		startMin, err := timeutil.ClockToMinutes(block.Start)
		if err != nil {
			rt.Fatalf("unparseable start %q: %v", block.Start, err)
		}
		if startMin < 8*60 {
			rt.Errorf("start %s before day-open hour", block.Start)
		}
		ceilEnd := ((maxEnd + 59) / 60) * 60
		if maxEnd > 8*60 && startMin < ceilEnd {
			rt.Errorf("start %s before ceiling of latest end %s", block.Start, timeutil.MinutesToClock(maxEnd))
		}
	})
}
