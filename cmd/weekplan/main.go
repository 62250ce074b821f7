package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/weekplan/internal/cli"
	errs "github.com/julianstephens/weekplan/internal/errors"
	"github.com/julianstephens/weekplan/internal/logger"
	"github.com/julianstephens/weekplan/internal/storage"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Storage file path." type:"path" default:"~/.config/weekplan/weekplan.db"`
	Debug   bool   `help:"Enable debug logging to stderr."`

	Init       cli.InitCmd       `cmd:"" help:"Initialize weekplan storage."`
	Tui        cli.TuiCmd        `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Week       cli.WeekCmd       `cmd:"" help:"Show the week's capacity overview."`
	Schedule   cli.ScheduleCmd   `cmd:"" help:"Place a subtask on a day."`
	Unschedule cli.UnscheduleCmd `cmd:"" help:"Remove a subtask from the schedule."`
	Commit     cli.CommitCmd     `cmd:"" help:"Commit the week's plan."`
	Replan     cli.ReplanCmd     `cmd:"" help:"Reopen a committed week for planning."`
	Resolve    cli.ResolveCmd    `cmd:"" help:"Resolve overflow subtasks."`
	Watch      cli.WatchCmd      `cmd:"" help:"Watch for time block boundaries."`
	Stats      cli.StatsCmd      `cmd:"" help:"Show estimation calibration."`
	Decompose  cli.DecomposeCmd  `cmd:"" help:"Break a work item into subtasks."`
	Validate   cli.ValidateCmd   `cmd:"" help:"Check stored data for conflicts."`
	Doctor     cli.DoctorCmd     `cmd:"" help:"Run health diagnostics."`
	Item       struct {
		Add     cli.ItemAddCmd     `cmd:"" help:"Add a backlog item."`
		List    cli.ItemListCmd    `cmd:"" help:"List backlog items." default:"1"`
		Archive cli.ItemArchiveCmd `cmd:"" help:"Archive an item."`
	} `cmd:"" help:"Manage backlog items."`
	Commitment struct {
		Add    cli.CommitmentAddCmd    `cmd:"" help:"Add an external commitment."`
		List   cli.CommitmentListCmd   `cmd:"" help:"List a week's commitments." default:"1"`
		Import cli.CommitmentImportCmd `cmd:"" help:"Import commitments from Google Calendar."`
	} `cmd:"" help:"Manage external commitments."`
	Profile struct {
		Show cli.ProfileShowCmd `cmd:"" help:"Show the work-hours profile." default:"1"`
		Set  cli.ProfileSetCmd  `cmd:"" help:"Update the work-hours profile."`
	} `cmd:"" help:"Manage the work-hours profile."`
	Key struct {
		Set   cli.KeySetCmd   `cmd:"" help:"Store the decomposition service API key."`
		Clear cli.KeyClearCmd `cmd:"" help:"Remove the stored API key."`
	} `cmd:"" help:"Manage the decomposition service API key."`
	Backup struct {
		Create  cli.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    cli.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore cli.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage storage backups."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("weekplan"),
		kong.Description("Weekly capacity planner / time-blocking companion"),
		kong.UsageOnError(),
		kong.Vars{"version": "v0.1.0"},
	)

	if err := logger.Init(logger.Config{
		Debug:     CLI.Debug,
		ConfigDir: filepath.Dir(CLI.Config),
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize logging: %v\n", err)
		os.Exit(1)
	}

	appCtx := &cli.Context{
		Store: storage.ForPath(CLI.Config),
		Debug: CLI.Debug,
	}

	if err := ctx.Run(appCtx); err != nil {
		errs.Fatal(err)
	}
}
