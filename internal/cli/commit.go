package cli

import (
	"fmt"
	"time"

	"github.com/julianstephens/weekplan/internal/lifecycle"
	"github.com/julianstephens/weekplan/internal/models"
	"github.com/julianstephens/weekplan/internal/timeutil"
)

type CommitCmd struct {
	Date string `arg:"" optional:"" help:"Any date inside the week to commit (YYYY-MM-DD or 'today')." default:"today"`
}

func (c *CommitCmd) Run(ctx *Context) error {
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

	subtasks, err := ctx.Store.GetAllSubtasks()
	if err != nil {
		return err
	}
	over := overflowSubtasks(subtasks)

	committed, ok := lifecycle.Commit(wd.Plan, wd.Capacity, len(over), time.Now())
	if !ok {
		if wd.Plan.Status == models.PlanStatusCommitted {
			fmt.Printf("Week of %s is already committed.\n", wd.Capacity.WeekStart)
			return nil
		}
		if wd.Capacity.IsOverCapacity {
			return fmt.Errorf("cannot commit: week is over capacity by %s", timeutil.FormatDuration(wd.Capacity.OverflowMinutes))
		}
		if len(over) > 0 {
			return fmt.Errorf("cannot commit: %d overflow subtasks need resolving, run 'weekplan resolve'", len(over))
		}
		return fmt.Errorf("cannot commit week of %s", wd.Capacity.WeekStart)
	}

	if err := ctx.Store.SaveWeeklyPlan(committed); err != nil {
		return fmt.Errorf("failed to save plan: %w", err)
	}

	fmt.Printf("✓ Committed week of %s (%s scheduled, %s remaining)\n",
		wd.Capacity.WeekStart,
		timeutil.FormatDuration(wd.Capacity.ScheduledMinutes),
		timeutil.FormatDuration(wd.Capacity.RemainingMinutes))
	return nil
}

type ReplanCmd struct {
	Date string `arg:"" optional:"" help:"Any date inside the week to reopen (YYYY-MM-DD or 'today')." default:"today"`
}

func (c *ReplanCmd) Run(ctx *Context) error {
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

	reopened, ok := lifecycle.Replan(wd.Plan)
	if !ok {
		fmt.Printf("Week of %s is not committed, nothing to reopen.\n", wd.Capacity.WeekStart)
		return nil
	}

	if err := ctx.Store.SaveWeeklyPlan(reopened); err != nil {
		return fmt.Errorf("failed to save plan: %w", err)
	}

	fmt.Printf("Week of %s reopened for planning.\n", wd.Capacity.WeekStart)
	return nil
}
