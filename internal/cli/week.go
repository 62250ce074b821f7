package cli

import (
	"fmt"

	"github.com/julianstephens/weekplan/internal/models"
	"github.com/julianstephens/weekplan/internal/timeutil"
)

type WeekCmd struct {
	Date string `arg:"" optional:"" help:"Any date inside the week to show (YYYY-MM-DD or 'today')." default:"today"`
}

func (c *WeekCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	t, err := resolveDate(c.Date)
	if err != nil {
		return err
	}

	wd, err := loadWeek(ctx, t)
	if err != nil {
		return err
	}

	status := string(wd.Plan.Status)
	if wd.Plan.Status == models.PlanStatusCommitted && wd.Plan.CommittedAt != nil {
		status = fmt.Sprintf("committed (%s)", *wd.Plan.CommittedAt)
	}
	fmt.Printf("Week of %s  [%s]\n\n", wd.Capacity.WeekStart, status)

	fmt.Printf("  %-12s %10s %10s %10s %10s %10s\n",
		"Day", "Work", "External", "Buffer", "Scheduled", "Remaining")
	for _, day := range wd.Capacity.Days {
		d, err := timeutil.ParseDate(day.Date)
		if err != nil {
			continue
		}
		marker := ""
		if day.IsOverCapacity {
			marker = fmt.Sprintf("  OVER by %s", timeutil.FormatDuration(day.OverflowMinutes))
		}
		fmt.Printf("  %-12s %10s %10s %10s %10s %10s%s\n",
			d.Weekday().String(),
			timeutil.FormatDuration(day.TotalWorkMinutes),
			timeutil.FormatDuration(day.ExternalMinutes),
			timeutil.FormatDuration(day.BufferMinutes),
			timeutil.FormatDuration(day.ScheduledMinutes),
			timeutil.FormatDuration(day.RemainingMinutes),
			marker)
	}

	fmt.Printf("\n  %-12s %10s %10s %10s %10s %10s\n",
		"Week",
		timeutil.FormatDuration(wd.Capacity.TotalWorkMinutes),
		timeutil.FormatDuration(wd.Capacity.ExternalMinutes),
		timeutil.FormatDuration(wd.Capacity.BufferMinutes),
		timeutil.FormatDuration(wd.Capacity.ScheduledMinutes),
		timeutil.FormatDuration(wd.Capacity.RemainingMinutes))

	if wd.Capacity.IsOverCapacity {
		fmt.Printf("\n⚠ Week is over capacity by %s\n", timeutil.FormatDuration(wd.Capacity.OverflowMinutes))
	}

	subtasks, err := ctx.Store.GetAllSubtasks()
	if err != nil {
		return err
	}
	if over := overflowSubtasks(subtasks); len(over) > 0 {
		fmt.Printf("\nOverflow subtasks awaiting resolution (%d):\n", len(over))
		for _, s := range over {
			fmt.Printf("  %s  %s (%s)\n", s.ID[:8], s.Title, timeutil.FormatDuration(s.EstimatedMinutes))
		}
		fmt.Println("\nRun 'weekplan resolve' to resolve them.")
	}

	return nil
}
