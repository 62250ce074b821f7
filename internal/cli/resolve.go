package cli

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/weekplan/internal/overflow"
	"github.com/julianstephens/weekplan/internal/timeutil"
)

type ResolveCmd struct {
	Action string `short:"a" help:"Apply one action to every overflow subtask (reschedule|backlog|reduce|delete) instead of prompting."`
}

func (c *ResolveCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	subtasks, err := ctx.Store.GetAllSubtasks()
	if err != nil {
		return err
	}

	over := overflowSubtasks(subtasks)
	if len(over) == 0 {
		fmt.Println("No overflow subtasks to resolve.")
		return nil
	}

	resolutions := make(map[string]overflow.Resolution, len(over))
	if c.Action != "" {
		res := overflow.Resolution(c.Action)
		if !res.Valid() {
			return fmt.Errorf("invalid resolution action: %s", c.Action)
		}
		for _, s := range over {
			resolutions[s.ID] = res
		}
	} else {
		for i, s := range over {
			fmt.Printf("\n[%d/%d] %s (%s)\n", i+1, len(over), s.Title, timeutil.FormatDuration(s.EstimatedMinutes))

			var choice overflow.Resolution
			form := huh.NewForm(
				huh.NewGroup(
					huh.NewSelect[overflow.Resolution]().
						Title("How should this overflow be handled?").
						Options(
							huh.NewOption("Reschedule next week", overflow.ResolutionReschedule),
							huh.NewOption("Return to backlog", overflow.ResolutionBacklog),
							huh.NewOption("Reduce estimate", overflow.ResolutionReduce),
							huh.NewOption("Delete subtask", overflow.ResolutionDelete),
						).
						Value(&choice),
				),
			)
			if err := form.Run(); err != nil {
				return fmt.Errorf("interactive form error: %w", err)
			}
			resolutions[s.ID] = choice
		}
	}

	result := overflow.Resolve(over, resolutions)

	for _, s := range result.Updated {
		if err := ctx.Store.UpdateSubtask(s); err != nil {
			return fmt.Errorf("failed to update subtask %s: %w", s.ID, err)
		}
	}
	for _, id := range result.DeletedIDs {
		if err := ctx.Store.DeleteSubtask(id); err != nil {
			return fmt.Errorf("failed to delete subtask %s: %w", id, err)
		}
	}

	fmt.Printf("\n✓ Resolved %d overflow subtasks (%d updated, %d deleted)\n",
		len(result.Updated)+len(result.DeletedIDs), len(result.Updated), len(result.DeletedIDs))
	if !result.Complete() {
		fmt.Printf("⚠ %d subtasks remain unresolved.\n", len(result.Unresolved))
	}
	return nil
}
