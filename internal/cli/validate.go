package cli

import (
	"fmt"
	"time"

	"github.com/julianstephens/weekplan/internal/timeutil"
	"github.com/julianstephens/weekplan/internal/validation"
)

type ValidateCmd struct{}

func (cmd *ValidateCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}
	defer ctx.Store.Close()

	profile, err := ctx.Store.GetProfile()
	if err != nil {
		return fmt.Errorf("failed to load work profile: %w", err)
	}

	items, err := ctx.Store.GetAllItems()
	if err != nil {
		return fmt.Errorf("failed to load items: %w", err)
	}

	subtasks, err := ctx.Store.GetAllSubtasks()
	if err != nil {
		return fmt.Errorf("failed to load subtasks: %w", err)
	}

	weekStart := timeutil.WeekStart(time.Now())
	blocks, err := ctx.Store.GetBlocksInRange(
		timeutil.DateKey(weekStart), timeutil.DateKey(weekStart.AddDate(0, 0, 6)))
	if err != nil {
		return fmt.Errorf("failed to load time blocks: %w", err)
	}

	validator := validation.New()

	fmt.Println("Validating work profile...")
	profileResult := validator.ValidateProfile(profile)

	fmt.Println("Validating items...")
	itemResult := validator.ValidateItems(items)

	fmt.Println("Validating subtasks...")
	subtaskResult := validator.ValidateSubtasks(subtasks, blocks)

	fmt.Println("Validating this week's blocks...")
	blockResult := validator.ValidateBlocks(blocks)

	var all []validation.Conflict
	all = append(all, profileResult.Conflicts...)
	all = append(all, itemResult.Conflicts...)
	all = append(all, subtaskResult.Conflicts...)
	all = append(all, blockResult.Conflicts...)
	combined := validation.Result{Conflicts: all}

	fmt.Println()
	fmt.Println(combined.FormatReport())

	return nil
}
