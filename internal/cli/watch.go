package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/weekplan/internal/boundary"
	"github.com/julianstephens/weekplan/internal/models"
	"github.com/julianstephens/weekplan/internal/timeutil"
)

type WatchCmd struct {
	Interval time.Duration `help:"Poll interval for block boundaries." default:"30s"`
}

func (c *WatchCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Println("Watching for block boundaries. Press Ctrl+C to stop.")

	w := &boundary.Watcher{
		Interval: c.Interval,
		Load: func(date string) ([]models.TimeBlock, error) {
			return ctx.Store.GetBlocksInRange(date, date)
		},
		OnCheck: func(check boundary.Check) {
			if check.Active != nil && check.Ended == nil {
				return
			}
			if check.Ended != nil {
				if err := c.handleEnded(ctx, *check.Ended); err != nil {
					fmt.Fprintf(os.Stderr, "boundary prompt failed: %v\n", err)
				}
			}
		},
	}

	err := w.Run(runCtx)
	if errors.Is(err, context.Canceled) {
		fmt.Println("\nStopped watching.")
		return nil
	}
	return err
}

func (c *WatchCmd) handleEnded(ctx *Context, block models.TimeBlock) error {
	sub, err := ctx.Store.GetSubtask(block.SubtaskID)
	if err != nil {
		return fmt.Errorf("block %s has no subtask: %w", block.ID, err)
	}

	fmt.Printf("\n⏰ Block ended: %s (%s %s–%s)\n", sub.Title, block.Date, block.Start, block.End)

	var done bool
	var progressNote string
	actualStr := fmt.Sprintf("%d", timeutil.Duration(block.Start, block.End))

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Did you finish this subtask?").
				Affirmative("Done").
				Negative("Not yet").
				Value(&done),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Actual minutes spent").
				Value(&actualStr),
		).WithHideFunc(func() bool { return !done }),
		huh.NewGroup(
			huh.NewText().
				Title("Progress so far").
				Value(&progressNote),
		).WithHideFunc(func() bool { return done }),
	)
	if err := form.Run(); err != nil {
		return fmt.Errorf("interactive form error: %w", err)
	}

	now := time.Now()
	if done {
		actual := 0
		fmt.Sscanf(actualStr, "%d", &actual)
		updatedSub, updatedBlock := boundary.MarkComplete(sub, block, actual, now)
		if err := ctx.Store.UpdateSubtask(updatedSub); err != nil {
			return fmt.Errorf("failed to update subtask: %w", err)
		}
		if err := ctx.Store.UpdateBlock(updatedBlock); err != nil {
			return fmt.Errorf("failed to update block: %w", err)
		}
		fmt.Printf("✓ Marked %q complete (%s)\n", sub.Title, timeutil.FormatDuration(updatedSub.ActualMinutes))
		return nil
	}

	updatedSub, updatedBlock, followUp := boundary.CreateFollowUp(sub, block, progressNote, now)
	if err := ctx.Store.UpdateSubtask(updatedSub); err != nil {
		return fmt.Errorf("failed to update subtask: %w", err)
	}
	if err := ctx.Store.UpdateBlock(updatedBlock); err != nil {
		return fmt.Errorf("failed to update block: %w", err)
	}
	if err := ctx.Store.AddSubtask(followUp); err != nil {
		return fmt.Errorf("failed to create follow-up subtask: %w", err)
	}
	fmt.Printf("Created follow-up %q (%s), schedule it with 'weekplan schedule'\n",
		followUp.Title, timeutil.FormatDuration(followUp.EstimatedMinutes))
	return nil
}
