package cli

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/julianstephens/weekplan/internal/models"
	"github.com/julianstephens/weekplan/internal/timeutil"
)

type ItemAddCmd struct {
	Title       string `arg:"" help:"Work item title."`
	Description string `short:"d" help:"Longer description, passed to decomposition."`
	Priority    string `short:"p" help:"Priority (high|medium|low)." default:"medium"`
	Due         string `help:"Due date (YYYY-MM-DD)."`
	DueTime     string `help:"Due time (HH:MM)."`
	Tags        string `short:"t" help:"Comma-separated tags."`
}

func (c *ItemAddCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	var priority models.PriorityLevel
	switch c.Priority {
	case "high":
		priority = models.PriorityHigh
	case "medium":
		priority = models.PriorityMedium
	case "low":
		priority = models.PriorityLow
	case "none", "":
		priority = models.PriorityNone
	default:
		return fmt.Errorf("invalid priority: %s", c.Priority)
	}

	if c.Due != "" {
		if _, err := timeutil.ParseDate(c.Due); err != nil {
			return fmt.Errorf("invalid due date, use YYYY-MM-DD: %w", err)
		}
	}
	if c.DueTime != "" {
		if _, err := timeutil.ClockToMinutes(c.DueTime); err != nil {
			return fmt.Errorf("invalid due time, use HH:MM: %w", err)
		}
	}

	existing, err := ctx.Store.GetAllItems()
	if err != nil {
		return err
	}

	var tags []string
	for _, t := range strings.Split(c.Tags, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}

	item := models.WorkItem{
		ID:           uuid.NewString(),
		Title:        c.Title,
		Description:  c.Description,
		Status:       models.ItemStatusOpen,
		PriorityRank: len(existing) + 1,
		Priority:     priority,
		DueDate:      c.Due,
		DueTime:      c.DueTime,
		Tags:         tags,
	}

	if err := ctx.Store.AddItem(item); err != nil {
		return err
	}

	fmt.Printf("Added item: %s (ID: %s)\n", item.Title, item.ID)
	return nil
}

type ItemListCmd struct {
	All bool `help:"Include archived items."`
}

func (c *ItemListCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	items, err := ctx.Store.GetAllItems()
	if err != nil {
		return err
	}
	if len(items) == 0 {
		fmt.Println("No items found")
		return nil
	}

	fmt.Println("Items:")
	for _, item := range items {
		if item.Status == models.ItemStatusArchived && !c.All {
			continue
		}

		due := ""
		if item.DueDate != "" {
			due = fmt.Sprintf(", due %s", item.DueDate)
			if item.DueTime != "" {
				due += " " + item.DueTime
			}
		}
		fmt.Printf("  [%s] %s  %s (%s%s)\n", item.Status, item.ID[:8], item.Title, item.Priority, due)

		subtasks, err := ctx.Store.GetSubtasksForItem(item.ID)
		if err != nil {
			continue
		}
		for _, s := range subtasks {
			fmt.Printf("      [%s] %s (%s)\n", s.Status, s.Title, timeutil.FormatDuration(s.EstimatedMinutes))
		}
	}
	return nil
}

type ItemArchiveCmd struct {
	Item string `arg:"" help:"Work item ID or title prefix."`
}

func (c *ItemArchiveCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	item, err := findItem(ctx, c.Item)
	if err != nil {
		return err
	}

	item.Status = models.ItemStatusArchived
	if err := ctx.Store.UpdateItem(item); err != nil {
		return err
	}

	fmt.Printf("Archived item: %s\n", item.Title)
	return nil
}
