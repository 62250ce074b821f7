package cli

import (
	"fmt"

	"github.com/julianstephens/weekplan/internal/calibration"
	"github.com/julianstephens/weekplan/internal/timeutil"
)

type StatsCmd struct {
	Estimate int `short:"e" help:"Optionally show a calibrated version of this estimate (minutes)."`
}

func (c *StatsCmd) Run(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return err
	}

	subtasks, err := ctx.Store.GetAllSubtasks()
	if err != nil {
		return err
	}

	stats := calibration.Compute(subtasks)

	fmt.Println("Estimation calibration")
	fmt.Println()
	fmt.Printf("  Completed subtasks with actuals: %d\n", stats.CompletedCount)

	if !stats.HasEnoughData {
		fmt.Printf("\nNot enough history yet (need %d completed subtasks with logged time).\n", calibration.MinSamples)
		return nil
	}

	fmt.Printf("  Calibration multiplier:          %.2f\n", stats.Multiplier)
	fmt.Printf("  Estimate accuracy:               %d%% within 10%%\n", stats.AverageAccuracy)
	fmt.Printf("\n%s\n", stats.Insight)

	if c.Estimate > 0 {
		adjusted := calibration.Apply(c.Estimate, stats.Multiplier)
		fmt.Printf("\nCalibrated estimate: %s -> %s\n",
			timeutil.FormatDuration(c.Estimate), timeutil.FormatDuration(adjusted))
	}
	return nil
}
