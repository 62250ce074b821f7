package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/julianstephens/weekplan/internal/gcal"
	"github.com/julianstephens/weekplan/internal/models"
	"github.com/julianstephens/weekplan/internal/timeutil"
)

type CommitmentAddCmd struct {
	Title string `arg:"" help:"Commitment title."`
	Date  string `arg:"" help:"Date (YYYY-MM-DD or 'today')."`
	Start string `arg:"" help:"Start time (HH:MM)."`
	End   string `arg:"" help:"End time (HH:MM)."`
}

func (c *CommitmentAddCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	day, err := resolveDate(c.Date)
	if err != nil {
		return err
	}
	startMin, err := timeutil.ClockToMinutes(c.Start)
	if err != nil {
		return fmt.Errorf("invalid start time, use HH:MM: %w", err)
	}
	endMin, err := timeutil.ClockToMinutes(c.End)
	if err != nil {
		return fmt.Errorf("invalid end time, use HH:MM: %w", err)
	}
	if endMin <= startMin {
		return fmt.Errorf("end time must be after start time")
	}

	commitment := models.ExternalCommitment{
		ID:    uuid.NewString(),
		Title: c.Title,
		Date:  timeutil.DateKey(day),
		Start: c.Start,
		End:   c.End,
	}

	if err := ctx.Store.AddCommitment(commitment); err != nil {
		return err
	}

	fmt.Printf("Added commitment: %s on %s %s–%s\n", c.Title, commitment.Date, c.Start, c.End)
	return nil
}

type CommitmentListCmd struct {
	Date string `arg:"" optional:"" help:"Any date inside the week to show (YYYY-MM-DD or 'today')." default:"today"`
}

func (c *CommitmentListCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	t, err := resolveDate(c.Date)
	if err != nil {
		return err
	}
	weekStart := timeutil.WeekStart(t)
	startKey := timeutil.DateKey(weekStart)
	endKey := timeutil.DateKey(weekStart.AddDate(0, 0, 6))

	commitments, err := ctx.Store.GetCommitmentsInRange(startKey, endKey)
	if err != nil {
		return err
	}
	if len(commitments) == 0 {
		fmt.Printf("No commitments for week of %s\n", startKey)
		return nil
	}

	fmt.Printf("Commitments for week of %s:\n", startKey)
	for _, cm := range commitments {
		fmt.Printf("  %s %s–%s  %s\n", cm.Date, cm.Start, cm.End, cm.Title)
	}
	return nil
}

type CommitmentImportCmd struct {
	Date     string `arg:"" optional:"" help:"Any date inside the week to import (YYYY-MM-DD or 'today')." default:"today"`
	Calendar string `help:"Google Calendar ID." default:"primary"`
}

func (c *CommitmentImportCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	t, err := resolveDate(c.Date)
	if err != nil {
		return err
	}
	weekStart := timeutil.WeekStart(t)
	weekEnd := weekStart.AddDate(0, 0, 7)

	configDir := filepath.Dir(ctx.Store.GetConfigPath())
	importer, err := gcal.NewImporter(context.Background(), configDir, c.Calendar)
	if err != nil {
		return fmt.Errorf("failed to connect to Google Calendar: %w", err)
	}

	imported, err := importer.Commitments(weekStart, weekEnd)
	if err != nil {
		return fmt.Errorf("failed to fetch calendar events: %w", err)
	}
	if len(imported) == 0 {
		fmt.Printf("No timed events found for week of %s\n", timeutil.DateKey(weekStart))
		return nil
	}

	// Skip events already imported for this week (same date, start and
	// title), so re-running import stays idempotent.
	existing, err := ctx.Store.GetCommitmentsInRange(
		timeutil.DateKey(weekStart), timeutil.DateKey(weekStart.AddDate(0, 0, 6)))
	if err != nil {
		return err
	}
	seen := make(map[string]bool, len(existing))
	for _, cm := range existing {
		seen[cm.Date+cm.Start+cm.Title] = true
	}

	added := 0
	for _, cm := range imported {
		if seen[cm.Date+cm.Start+cm.Title] {
			continue
		}
		if err := ctx.Store.AddCommitment(cm); err != nil {
			return fmt.Errorf("failed to save commitment: %w", err)
		}
		added++
	}

	fmt.Printf("✓ Imported %d commitments (%d already present)\n", added, len(imported)-added)
	return nil
}
