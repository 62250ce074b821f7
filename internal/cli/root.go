package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/weekplan/internal/backup"
	"github.com/julianstephens/weekplan/internal/capacity"
	"github.com/julianstephens/weekplan/internal/logger"
	"github.com/julianstephens/weekplan/internal/models"
	"github.com/julianstephens/weekplan/internal/storage"
	"github.com/julianstephens/weekplan/internal/timeutil"
)

// Context is passed to every command's Run method.
type Context struct {
	Store storage.Provider
	Debug bool
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	mgr := backup.NewManager(c.Store.GetConfigPath())
	if _, err := mgr.CreateBackup(); err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// weekData bundles everything the capacity view and the commit gate need
// for one week.
type weekData struct {
	WeekStart   time.Time
	Profile     models.WorkProfile
	Blocks      []models.TimeBlock
	Commitments []models.ExternalCommitment
	Plan        models.WeeklyPlan
	Capacity    capacity.WeekCapacity
}

// loadWeek loads the profile, blocks, commitments and plan for the week
// containing t and computes its capacity picture.
func loadWeek(ctx *Context, t time.Time) (weekData, error) {
	var wd weekData
	wd.WeekStart = timeutil.WeekStart(t)

	profile, err := ctx.Store.GetProfile()
	if err != nil {
		return wd, fmt.Errorf("failed to load work profile: %w", err)
	}
	wd.Profile = profile

	startKey := timeutil.DateKey(wd.WeekStart)
	endKey := timeutil.DateKey(wd.WeekStart.AddDate(0, 0, 6))

	wd.Blocks, err = ctx.Store.GetBlocksInRange(startKey, endKey)
	if err != nil {
		return wd, fmt.Errorf("failed to load time blocks: %w", err)
	}

	wd.Commitments, err = ctx.Store.GetCommitmentsInRange(startKey, endKey)
	if err != nil {
		return wd, fmt.Errorf("failed to load commitments: %w", err)
	}

	wd.Plan, err = ctx.Store.GetWeeklyPlan(startKey)
	if err != nil {
		return wd, fmt.Errorf("failed to load weekly plan: %w", err)
	}

	wd.Capacity = capacity.ForWeek(wd.WeekStart, profile, wd.Commitments, wd.Blocks)
	return wd, nil
}

// resolveDate parses a date argument, accepting "today" as an alias for the
// current date.
func resolveDate(arg string) (time.Time, error) {
	if arg == "" || arg == "today" {
		return time.Now(), nil
	}
	t, err := timeutil.ParseDate(arg)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format, use YYYY-MM-DD or 'today': %w", err)
	}
	return t, nil
}

// resolveDay parses a scheduling target: "today", a weekday name within the
// current week, or an explicit date.
func resolveDay(arg string) (time.Time, error) {
	if day, ok := weekdayNames[strings.ToLower(arg)]; ok {
		start := timeutil.WeekStart(time.Now())
		offset := (int(day) - int(time.Monday) + 7) % 7
		return start.AddDate(0, 0, offset), nil
	}
	return resolveDate(arg)
}

var weekdayNames = map[string]time.Weekday{
	"monday":    time.Monday,
	"mon":       time.Monday,
	"tuesday":   time.Tuesday,
	"tue":       time.Tuesday,
	"wednesday": time.Wednesday,
	"wed":       time.Wednesday,
	"thursday":  time.Thursday,
	"thu":       time.Thursday,
	"friday":    time.Friday,
	"fri":       time.Friday,
	"saturday":  time.Saturday,
	"sat":       time.Saturday,
	"sunday":    time.Sunday,
	"sun":       time.Sunday,
}

// parseWeekdays converts a comma-separated list of weekday names or numbers
// (0=Sunday) to weekday values.
func parseWeekdays(s string) ([]time.Weekday, error) {
	var days []time.Weekday
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(strings.ToLower(part))
		if part == "" {
			continue
		}
		if day, ok := weekdayNames[part]; ok {
			days = append(days, day)
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 || n > 6 {
			return nil, fmt.Errorf("invalid weekday: %s", part)
		}
		days = append(days, time.Weekday(n))
	}
	if len(days) == 0 {
		return nil, fmt.Errorf("no weekdays given")
	}
	return days, nil
}

// overflowSubtasks filters the subtasks currently in overflow status.
func overflowSubtasks(subtasks []models.Subtask) []models.Subtask {
	var out []models.Subtask
	for _, s := range subtasks {
		if s.Status == models.SubtaskStatusOverflow {
			out = append(out, s)
		}
	}
	return out
}

// findSubtask resolves a subtask by id or unique title prefix.
func findSubtask(ctx *Context, ref string) (models.Subtask, error) {
	if sub, err := ctx.Store.GetSubtask(ref); err == nil {
		return sub, nil
	}

	subtasks, err := ctx.Store.GetAllSubtasks()
	if err != nil {
		return models.Subtask{}, err
	}

	var matches []models.Subtask
	lower := strings.ToLower(ref)
	for _, s := range subtasks {
		if strings.HasPrefix(s.ID, ref) || strings.HasPrefix(strings.ToLower(s.Title), lower) {
			matches = append(matches, s)
		}
	}
	switch len(matches) {
	case 0:
		return models.Subtask{}, fmt.Errorf("subtask not found: %s", ref)
	case 1:
		return matches[0], nil
	default:
		return models.Subtask{}, fmt.Errorf("ambiguous subtask reference %q matches %d subtasks", ref, len(matches))
	}
}

// findItem resolves a work item by id or unique title prefix.
func findItem(ctx *Context, ref string) (models.WorkItem, error) {
	if item, err := ctx.Store.GetItem(ref); err == nil {
		return item, nil
	}

	items, err := ctx.Store.GetAllItems()
	if err != nil {
		return models.WorkItem{}, err
	}

	var matches []models.WorkItem
	lower := strings.ToLower(ref)
	for _, it := range items {
		if strings.HasPrefix(it.ID, ref) || strings.HasPrefix(strings.ToLower(it.Title), lower) {
			matches = append(matches, it)
		}
	}
	switch len(matches) {
	case 0:
		return models.WorkItem{}, fmt.Errorf("item not found: %s", ref)
	case 1:
		return matches[0], nil
	default:
		return models.WorkItem{}, fmt.Errorf("ambiguous item reference %q matches %d items", ref, len(matches))
	}
}
