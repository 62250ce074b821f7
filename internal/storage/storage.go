package storage

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/weekplan/internal/constants"
	"github.com/julianstephens/weekplan/internal/models"
)

// ForPath picks a backend from the storage path: a .json extension selects
// the JSON store, anything else gets SQLite.
func ForPath(path string) Provider {
	if strings.HasSuffix(path, ".json") {
		return NewJSONStore(path)
	}
	return NewSQLiteStore(path)
}

func defaultProfile() models.WorkProfile {
	return models.WorkProfile{
		DayStart: constants.DefaultWorkStart,
		DayEnd:   constants.DefaultWorkEnd,
		Weekdays: []time.Weekday{
			time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday,
		},
		BufferFraction: constants.DefaultBufferFraction,
	}
}

func newWeeklyPlan(weekStart string) models.WeeklyPlan {
	return models.WeeklyPlan{
		ID:        uuid.NewString(),
		WeekStart: weekStart,
		Status:    models.PlanStatusPlanning,
	}
}
