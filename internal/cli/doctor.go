package cli

import (
	"fmt"
	"time"

	"github.com/julianstephens/tminus/internal/storage"
	"github.com/julianstephens/tminus/internal/validation"
)

type DoctorCmd struct{}

func (cmd *DoctorCmd) Run(ctx *Context) error {
	ctx.println("Running diagnostics...")
	ctx.println()

	hasError := false
	storeReachable := false

	// Check 1: Config valid
	if err := ctx.Config.Validate(); err != nil {
		ctx.printf("❌ Config valid: FAIL\n")
		ctx.printf("   Error: %v\n", err)
		hasError = true
	} else {
		ctx.printf("✓ Config valid: OK\n")
	}

	// Check 2: Store reachable
	if err := checkStoreReachable(ctx); err != nil {
		ctx.printf("❌ Storage reachable: FAIL\n")
		ctx.printf("   Error: %v\n", err)
		hasError = true
	} else {
		ctx.printf("✓ Storage reachable: OK\n")
		storeReachable = true
	}

	if storeReachable {
		// Check 3: Schema current
		if err := checkSchemaVersion(ctx); err != nil {
			ctx.printf("❌ Schema version: FAIL\n")
			ctx.printf("   Error: %v\n", err)
			hasError = true
		} else {
			ctx.printf("✓ Schema version: OK\n")
		}

		// Check 4: Backups present (warning only)
		if err := checkBackupsPresent(ctx); err != nil {
			ctx.printf("⚠ Backups present: WARNING\n")
			ctx.printf("   %v\n", err)
		} else {
			ctx.printf("✓ Backups present: OK\n")
		}

		// Check 5: Validation passes
		if err := checkValidation(ctx); err != nil {
			ctx.printf("❌ Data validation: FAIL\n")
			ctx.printf("   Error: %v\n", err)
			hasError = true
		} else {
			ctx.printf("✓ Data validation: OK\n")
		}
	} else {
		ctx.printf("⊘ Schema, backups and validation: SKIPPED (storage not reachable)\n")
	}

	// Check 6: Clock/timezone sanity
	if err := checkClockTimezone(ctx); err != nil {
		ctx.printf("❌ Clock/timezone: FAIL\n")
		ctx.printf("   Error: %v\n", err)
		hasError = true
	} else {
		ctx.printf("✓ Clock/timezone: OK\n")
	}

	ctx.println()
	if hasError {
		ctx.println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	ctx.println("All diagnostics passed!")
	return nil
}

func checkStoreReachable(ctx *Context) error {
	a, err := ctx.View()
	if err != nil {
		return err
	}

	// For SQLite, also try a simple query
	if sqliteStore, ok := a.Store.(*storage.SQLiteStore); ok {
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

func checkSchemaVersion(ctx *Context) error {
	a, err := ctx.View()
	if err != nil {
		return err
	}
	sqliteStore, ok := a.Store.(*storage.SQLiteStore)
	if !ok {
		// JSON store doesn't have schema version
		return nil
	}

	currentVersion, latestVersion, err := sqliteStore.SchemaVersion()
	if err != nil {
		return err
	}
	if currentVersion > latestVersion {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", currentVersion, latestVersion)
	}
	if currentVersion < latestVersion {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d", currentVersion, latestVersion)
	}
	return nil
}

func checkBackupsPresent(ctx *Context) error {
	a, err := ctx.View()
	if err != nil {
		return err
	}
	backups, err := a.Backups.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'tminus backup create'")
	}

	return nil
}

func checkValidation(ctx *Context) error {
	a, err := ctx.View()
	if err != nil {
		return err
	}
	countdowns, projects := a.Tracker.Snapshot()
	result := validation.New(a.Tracker.Location()).Validate(countdowns, projects)
	if result.HasConflicts() {
		return fmt.Errorf("%d conflicts found, run 'tminus validate' for details", len(result.Conflicts))
	}
	return nil
}

func checkClockTimezone(ctx *Context) error {
	// Check if system time is reasonable
	now := time.Now()

	// Check if time is in a reasonable range (after 2020 and before 2100)
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}

	loc := ctx.Config.Location()
	if loc == time.UTC {
		// This might be intentional, so just note it
		ctx.printf("   Note: timezone is UTC\n")
	}

	return nil
}
