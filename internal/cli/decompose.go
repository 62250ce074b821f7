package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/weekplan/internal/decompose"
	"github.com/julianstephens/weekplan/internal/keyring"
	"github.com/julianstephens/weekplan/internal/models"
	"github.com/julianstephens/weekplan/internal/timeutil"
)

type DecomposeCmd struct {
	Item    string        `arg:"" help:"Work item ID or title prefix."`
	URL     string        `help:"Decomposition service base URL." env:"WEEKPLAN_DECOMPOSE_URL" default:"https://api.weekplan.dev"`
	Timeout time.Duration `help:"Request timeout." default:"60s"`
}

func (c *DecomposeCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	item, err := findItem(ctx, c.Item)
	if err != nil {
		return err
	}
	if item.Status == models.ItemStatusDecomposed {
		return fmt.Errorf("item %q is already decomposed", item.Title)
	}

	apiKey, err := keyring.GetAPIKey()
	if err != nil {
		return fmt.Errorf("decomposition service key unavailable, set it with 'weekplan key set': %w", err)
	}

	client := decompose.NewClient(c.URL, apiKey)

	reqCtx, cancel := context.WithTimeout(context.Background(), c.Timeout)
	defer cancel()

	fmt.Printf("Decomposing %q...\n", item.Title)
	proposals, err := client.Decompose(reqCtx, item.Title, item.Description, decompose.DefaultConstraints())
	if err != nil {
		return fmt.Errorf("decomposition failed: %w", err)
	}
	if len(proposals) == 0 {
		return fmt.Errorf("decomposition service returned no subtasks")
	}

	var added []models.Subtask
	for _, p := range proposals {
		sub := models.Subtask{
			ID:               uuid.NewString(),
			WorkItemID:       item.ID,
			Title:            p.Title,
			DefinitionOfDone: p.DefinitionOfDone,
			EstimatedMinutes: p.EstimatedMinutes,
			Status:           models.SubtaskStatusEstimated,
			Rationale:        p.Rationale,
		}
		if err := ctx.Store.AddSubtask(sub); err != nil {
			// Revert subtasks persisted so far so the item stays whole.
			for _, a := range added {
				if delErr := ctx.Store.DeleteSubtask(a.ID); delErr != nil {
					return fmt.Errorf("failed to add subtask (%v) and failed to revert %s: %w", err, a.ID, delErr)
				}
			}
			return fmt.Errorf("failed to save subtask: %w", err)
		}
		added = append(added, sub)
	}

	item.Status = models.ItemStatusDecomposed
	if err := ctx.Store.UpdateItem(item); err != nil {
		return fmt.Errorf("failed to update item status: %w", err)
	}

	fmt.Printf("\n✓ Created %d subtasks:\n", len(added))
	for _, s := range added {
		fmt.Printf("  %s  %s (%s)\n", s.ID[:8], s.Title, timeutil.FormatDuration(s.EstimatedMinutes))
	}
	return nil
}

type KeySetCmd struct {
	Key string `arg:"" help:"Decomposition service API key."`
}

func (c *KeySetCmd) Run(ctx *Context) error {
	if err := keyring.SetAPIKey(c.Key); err != nil {
		return fmt.Errorf("failed to store API key: %w", err)
	}
	fmt.Println("✓ API key stored in system keyring")
	return nil
}

type KeyClearCmd struct{}

func (c *KeyClearCmd) Run(ctx *Context) error {
	if err := keyring.DeleteAPIKey(); err != nil {
		return fmt.Errorf("failed to delete API key: %w", err)
	}
	fmt.Println("✓ API key removed from system keyring")
	return nil
}
