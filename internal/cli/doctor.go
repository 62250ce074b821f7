package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/weekplan/internal/backup"
	"github.com/julianstephens/weekplan/internal/constants"
	"github.com/julianstephens/weekplan/internal/keyring"
	"github.com/julianstephens/weekplan/internal/storage"
	"github.com/julianstephens/weekplan/internal/validation"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	storeReachable := false

	// Check 1: storage reachable
	if err := checkStoreReachable(ctx); err != nil {
		fmt.Printf("❌ Storage reachable: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Storage reachable: OK\n")
		storeReachable = true
	}

	// Check 2: backups present (warning only)
	if err := checkBackupsPresent(ctx); err != nil {
		fmt.Printf("⚠ Backups present: WARNING\n")
		fmt.Printf("   %v\n", err)
	} else {
		fmt.Printf("✓ Backups present: OK\n")
	}

	// Check 3: data validation (only if storage is reachable)
	if storeReachable {
		if err := checkValidation(ctx); err != nil {
			fmt.Printf("❌ Data validation: FAIL\n")
			fmt.Printf("   Error: %v\n", err)
			hasError = true
		} else {
			fmt.Printf("✓ Data validation: OK\n")
		}
	} else {
		fmt.Printf("⊘ Data validation: SKIPPED (storage not reachable)\n")
	}

	// Check 4: single writer
	if err := checkSingleWriter(); err != nil {
		fmt.Printf("⚠ Single writer: WARNING\n")
		fmt.Printf("   %v\n", err)
	} else {
		fmt.Printf("✓ Single writer: OK\n")
	}

	// Check 5: keyring available (warning only; decompose needs it)
	if keyring.IsAvailable() {
		fmt.Printf("✓ System keyring: OK\n")
	} else {
		fmt.Printf("⚠ System keyring: WARNING\n")
		fmt.Printf("   keyring unavailable, 'weekplan decompose' will not work\n")
	}

	// Check 6: clock/timezone sanity
	if err := checkClockTimezone(); err != nil {
		fmt.Printf("❌ Clock/timezone: FAIL\n")
		fmt.Printf("   Error: %v\n", err)
		hasError = true
	} else {
		fmt.Printf("✓ Clock/timezone: OK\n")
	}

	fmt.Println()
	if hasError {
		fmt.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	fmt.Println("All diagnostics passed!")
	return nil
}

func checkStoreReachable(ctx *Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}

	if sqliteStore, ok := ctx.Store.(*storage.SQLiteStore); ok {
		db := sqliteStore.GetDB()
		if db == nil {
			return fmt.Errorf("database connection is nil")
		}
		var result int
		if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}

	return nil
}

func checkBackupsPresent(ctx *Context) error {
	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'weekplan backup create'")
	}

	return nil
}

func checkValidation(ctx *Context) error {
	profile, err := ctx.Store.GetProfile()
	if err != nil {
		return fmt.Errorf("failed to get work profile: %w", err)
	}

	items, err := ctx.Store.GetAllItems()
	if err != nil {
		return fmt.Errorf("failed to get items: %w", err)
	}

	validator := validation.New()
	if result := validator.ValidateProfile(profile); result.HasConflicts() {
		return fmt.Errorf("work profile has conflicts, run 'weekplan validate'")
	}
	if result := validator.ValidateItems(items); result.HasConflicts() {
		return fmt.Errorf("items have conflicts, run 'weekplan validate'")
	}

	// Basic integrity: duplicate IDs
	itemIDs := make(map[string]bool)
	for _, item := range items {
		if itemIDs[item.ID] {
			return fmt.Errorf("duplicate item ID found: %s", item.ID)
		}
		itemIDs[item.ID] = true
	}

	return nil
}

// checkSingleWriter scans the process table for other weekplan processes.
// The storage layer assumes one writer; a second instance risks clobbering
// plans.
func checkSingleWriter() error {
	processes, err := ps.Processes()
	if err != nil {
		return fmt.Errorf("failed to list processes: %w", err)
	}

	self := os.Getpid()
	var others []int
	for _, p := range processes {
		if p.Pid() == self {
			continue
		}
		name := strings.TrimSuffix(p.Executable(), ".exe")
		if name == constants.AppName {
			others = append(others, p.Pid())
		}
	}

	if len(others) > 0 {
		return fmt.Errorf("found %d other weekplan process(es) (pids %v); concurrent edits may be lost", len(others), others)
	}
	return nil
}

func checkClockTimezone() error {
	now := time.Now()

	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}

	_, offset := now.Zone()
	if offset == 0 && now.Location() == time.UTC {
		fmt.Printf("   Note: timezone is UTC\n")
	}

	return nil
}
