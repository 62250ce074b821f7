// Package calibration derives an actual-vs-estimate multiplier and a
// human-readable insight from completed subtask history. The multiplier is
// presentation only: it never feeds back into scheduling or the profile.
package calibration

import (
	"fmt"
	"math"
	"sort"

	"github.com/julianstephens/weekplan/internal/constants"
	"github.com/julianstephens/weekplan/internal/models"
)

const (
	// Window is how many recent completions feed the multiplier.
	Window = constants.CalibrationWindow
	// MinSamples is the confidence gate before any insight is surfaced.
	MinSamples = constants.CalibrationMinSamples
)

// Stats summarizes estimation accuracy over completed work.
type Stats struct {
	CompletedCount int     `json:"completedCount"`
	Multiplier     float64 `json:"multiplier"`
	Insight        string  `json:"insight"`
	HasEnoughData  bool    `json:"hasEnoughData"`
	// AverageAccuracy is the share of completions whose actual landed
	// within 10% of the estimate, as a percentage.
	AverageAccuracy int `json:"averageAccuracy"`
}

// Compute filters history to completed subtasks carrying both an estimate
// and an actual duration, and derives the mean actual/estimate ratio over
// the most recent Window of them, rounded to two decimals. Below MinSamples
// the multiplier stays at the neutral 1.0 and no insight is given.
func Compute(history []models.Subtask) Stats {
	samples := qualifying(history)

	stats := Stats{CompletedCount: len(samples), Multiplier: 1.0}
	if len(samples) < MinSamples {
		return stats
	}

	accurate := 0
	for _, sub := range samples {
		ratio := float64(sub.ActualMinutes) / float64(sub.EstimatedMinutes)
		if ratio >= 0.9 && ratio <= 1.1 {
			accurate++
		}
	}
	stats.AverageAccuracy = int(math.Round(float64(accurate) / float64(len(samples)) * 100))

	recent := samples
	if len(recent) > Window {
		recent = recent[:Window]
	}
	var ratioSum float64
	for _, sub := range recent {
		ratioSum += float64(sub.ActualMinutes) / float64(sub.EstimatedMinutes)
	}
	stats.Multiplier = math.Round(ratioSum/float64(len(recent))*100) / 100
	stats.HasEnoughData = true
	stats.Insight = insight(stats.Multiplier)
	return stats
}

func qualifying(history []models.Subtask) []models.Subtask {
	var samples []models.Subtask
	for _, sub := range history {
		if sub.Status != models.SubtaskStatusCompleted {
			continue
		}
		if sub.EstimatedMinutes <= 0 || sub.ActualMinutes <= 0 || sub.CompletedAt == nil {
			continue
		}
		samples = append(samples, sub)
	}
	// RFC3339 timestamps sort lexicographically, newest first.
	sort.SliceStable(samples, func(i, j int) bool {
		return *samples[i].CompletedAt > *samples[j].CompletedAt
	})
	return samples
}

// insight buckets are strict: exactly 1.10 still reads as accurate.
func insight(multiplier float64) string {
	switch {
	case multiplier > 1.10:
		pct := int(math.Round((multiplier - 1) * 100))
		return fmt.Sprintf("Your tasks typically take %d%% longer than estimated", pct)
	case multiplier < 0.90:
		pct := int(math.Round((1 - multiplier) * 100))
		return fmt.Sprintf("You tend to finish %d%% faster than estimated", pct)
	default:
		return "Your estimates are accurate (within 10%)"
	}
}

// Apply scales an estimate by the multiplier and rounds to the nearest 5
// minutes, for display alongside the raw estimate.
func Apply(estimatedMinutes int, multiplier float64) int {
	adjusted := float64(estimatedMinutes) * multiplier
	return int(math.Round(adjusted/5) * 5)
}
