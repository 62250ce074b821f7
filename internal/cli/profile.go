package cli

import (
	"fmt"
	"strings"

	"github.com/julianstephens/weekplan/internal/timeutil"
	"github.com/julianstephens/weekplan/internal/validation"
)

type ProfileShowCmd struct{}

func (c *ProfileShowCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	profile, err := ctx.Store.GetProfile()
	if err != nil {
		return err
	}

	var days []string
	for _, d := range profile.Weekdays {
		days = append(days, d.String())
	}

	fmt.Println("Work profile:")
	fmt.Printf("  Hours:   %s–%s (%s/day)\n", profile.DayStart, profile.DayEnd,
		timeutil.FormatDuration(timeutil.Duration(profile.DayStart, profile.DayEnd)))
	fmt.Printf("  Days:    %s\n", strings.Join(days, ", "))
	fmt.Printf("  Buffer:  %.0f%% of post-commitment time\n", profile.BufferFraction*100)
	return nil
}

type ProfileSetCmd struct {
	Start    string  `short:"s" help:"Work day start (HH:MM)."`
	End      string  `short:"e" help:"Work day end (HH:MM)."`
	Weekdays string  `short:"w" help:"Comma-separated work days (e.g. mon,tue,wed,thu,fri)."`
	Buffer   float64 `short:"b" help:"Buffer fraction of post-commitment time, 0-1." default:"-1"`
}

func (c *ProfileSetCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	profile, err := ctx.Store.GetProfile()
	if err != nil {
		return err
	}

	if c.Start != "" {
		profile.DayStart = c.Start
	}
	if c.End != "" {
		profile.DayEnd = c.End
	}
	if c.Weekdays != "" {
		days, err := parseWeekdays(c.Weekdays)
		if err != nil {
			return err
		}
		profile.Weekdays = days
	}
	if c.Buffer >= 0 {
		profile.BufferFraction = c.Buffer
	}

	if result := validation.New().ValidateProfile(profile); result.HasConflicts() {
		return fmt.Errorf("invalid profile:\n%s", result.FormatReport())
	}

	if err := ctx.Store.SaveProfile(profile); err != nil {
		return err
	}

	fmt.Println("✓ Work profile updated")
	return nil
}
