// Package scheduler places one new subtask of known duration into a day,
// producing a time block. Placement is greedy: blocks stack after the latest
// whole-hour boundary following anything already on the day. It does not
// search for gaps between existing items and it does not consult capacity;
// scheduling past the day's available minutes is allowed and surfaced later
// by the capacity/overflow layers.
package scheduler

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/julianstephens/weekplan/internal/constants"
	"github.com/julianstephens/weekplan/internal/models"
)

// Place computes a time block for a duration on the given date. The
// candidate start opens at the fixed day-open hour; every existing block
// and commitment on that date whose fractional end-hour exceeds the
// candidate pushes it up to the ceiling of that end-hour. Iteration order
// is irrelevant: only the maximum end hour matters.
func Place(date string, durationMinutes int, blocks []models.TimeBlock, commitments []models.ExternalCommitment) models.TimeBlock {
	startHour := float64(constants.DayOpenHour)

	for _, b := range blocks {
		if b.Date != date {
			continue
		}
		if end := endHourOf(b.End); end > startHour {
			startHour = math.Ceil(end)
		}
	}
	for _, c := range commitments {
		if c.Date != date {
			continue
		}
		if end := endHourOf(c.End); end > startHour {
			startHour = math.Ceil(end)
		}
	}

	endHour := startHour + float64(durationMinutes)/60

	return models.TimeBlock{
		ID:     uuid.NewString(),
		Date:   date,
		Start:  formatHour(startHour),
		End:    formatHour(endHour),
		Status: models.BlockStatusScheduled,
	}
}

// Schedule places sub on date and returns the new block together with the
// subtask transitioned to scheduled. The block is not persisted here.
func Schedule(sub models.Subtask, date string, blocks []models.TimeBlock, commitments []models.ExternalCommitment) (models.TimeBlock, models.Subtask) {
	block := Place(date, sub.EstimatedMinutes, blocks, commitments)
	block.SubtaskID = sub.ID

	sub.Status = models.SubtaskStatusScheduled
	sub.BlockID = block.ID
	return block, sub
}

// Unschedule reverts a subtask to estimated, detaching it from its block.
// The caller deletes the block itself.
func Unschedule(sub models.Subtask) models.Subtask {
	sub.Status = models.SubtaskStatusEstimated
	sub.BlockID = ""
	return sub
}

// endHourOf converts an HH:MM clock time to a fractional hour value.
// Unparseable input counts as hour zero and so never advances the start.
func endHourOf(clock string) float64 {
	parts := strings.Split(clock, ":")
	if len(parts) != 2 {
		return 0
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0
	}
	return float64(h) + float64(m)/60
}

func formatHour(h float64) string {
	hours := int(h)
	mins := int(math.Round((h - float64(hours)) * 60))
	return fmt.Sprintf("%02d:%02d", hours, mins)
}
