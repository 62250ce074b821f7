package cli

import (
	"fmt"

	"github.com/julianstephens/weekplan/internal/lifecycle"
	"github.com/julianstephens/weekplan/internal/models"
	"github.com/julianstephens/weekplan/internal/scheduler"
	"github.com/julianstephens/weekplan/internal/timeutil"
)

type ScheduleCmd struct {
	Subtask string `arg:"" help:"Subtask ID or title prefix."`
	Day     string `arg:"" help:"Target day (weekday name, YYYY-MM-DD or 'today')."`
	Force   bool   `short:"f" help:"Schedule even while the week is committed."`
}

func (c *ScheduleCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	sub, err := findSubtask(ctx, c.Subtask)
	if err != nil {
		return err
	}
	if sub.Status == models.SubtaskStatusScheduled {
		return fmt.Errorf("subtask %q is already scheduled, unschedule it first", sub.Title)
	}
	if sub.Status == models.SubtaskStatusCompleted {
		return fmt.Errorf("subtask %q is already completed", sub.Title)
	}

	day, err := resolveDay(c.Day)
	if err != nil {
		return err
	}

	wd, err := loadWeek(ctx, day)
	if err != nil {
		return err
	}
	if !lifecycle.CanEdit(wd.Plan) && !c.Force {
		return fmt.Errorf("week of %s is committed; run 'weekplan replan' first or use --force", wd.Capacity.WeekStart)
	}

	block, updated := scheduler.Schedule(sub, timeutil.DateKey(day), wd.Blocks, wd.Commitments)

	if err := ctx.Store.AddBlock(block); err != nil {
		return fmt.Errorf("failed to save time block: %w", err)
	}
	if err := ctx.Store.UpdateSubtask(updated); err != nil {
		// Revert the block so the subtask never points at orphaned state.
		if delErr := ctx.Store.DeleteBlock(block.ID); delErr != nil {
			return fmt.Errorf("failed to update subtask (%v) and failed to revert block: %w", err, delErr)
		}
		return fmt.Errorf("failed to update subtask: %w", err)
	}

	fmt.Printf("Scheduled %q on %s %s–%s\n", sub.Title, block.Date, block.Start, block.End)

	after, err := loadWeek(ctx, day)
	if err == nil {
		for _, d := range after.Capacity.Days {
			if d.Date == block.Date && d.IsOverCapacity {
				fmt.Printf("⚠ %s is now over capacity by %s\n", d.Date, timeutil.FormatDuration(d.OverflowMinutes))
			}
		}
	}
	return nil
}

type UnscheduleCmd struct {
	Subtask string `arg:"" help:"Subtask ID or title prefix."`
	Force   bool   `short:"f" help:"Unschedule even while the week is committed."`
}

func (c *UnscheduleCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	sub, err := findSubtask(ctx, c.Subtask)
	if err != nil {
		return err
	}
	if sub.Status != models.SubtaskStatusScheduled || sub.BlockID == "" {
		return fmt.Errorf("subtask %q is not scheduled", sub.Title)
	}

	block, err := ctx.Store.GetBlock(sub.BlockID)
	if err != nil {
		return fmt.Errorf("failed to load time block: %w", err)
	}

	day, err := timeutil.ParseDate(block.Date)
	if err != nil {
		return fmt.Errorf("block has malformed date %q: %w", block.Date, err)
	}
	wd, err := loadWeek(ctx, day)
	if err != nil {
		return err
	}
	if !lifecycle.CanEdit(wd.Plan) && !c.Force {
		return fmt.Errorf("week of %s is committed; run 'weekplan replan' first or use --force", wd.Capacity.WeekStart)
	}

	updated := scheduler.Unschedule(sub)
	if err := ctx.Store.UpdateSubtask(updated); err != nil {
		return fmt.Errorf("failed to update subtask: %w", err)
	}
	if err := ctx.Store.DeleteBlock(block.ID); err != nil {
		// Revert the subtask to its prior scheduled state.
		if revErr := ctx.Store.UpdateSubtask(sub); revErr != nil {
			return fmt.Errorf("failed to delete block (%v) and failed to revert subtask: %w", err, revErr)
		}
		return fmt.Errorf("failed to delete block: %w", err)
	}

	fmt.Printf("Unscheduled %q (was %s %s–%s)\n", sub.Title, block.Date, block.Start, block.End)
	return nil
}
