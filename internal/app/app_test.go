package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/julianstephens/tminus/internal/config"
	"github.com/julianstephens/tminus/internal/constants"
)

func testConfig(t *testing.T, backend string) config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.DataDir = t.TempDir()
	cfg.Backend = backend
	cfg.Timezone = "UTC"
	return cfg
}

func TestNewOpensStore(t *testing.T) {
	for _, backend := range []string{constants.BackendJSON, constants.BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			cfg := testConfig(t, backend)

			a, err := New(cfg)
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}
			if _, err := a.Tracker.AddCountdown("Launch", "2030-01-01T09:00"); err != nil {
				t.Fatalf("AddCountdown failed: %v", err)
			}
			if err := a.Close(); err != nil {
				t.Fatalf("Close failed: %v", err)
			}

			reopened, err := New(cfg)
			if err != nil {
				t.Fatalf("reopen failed: %v", err)
			}
			defer reopened.Close()
			if len(reopened.Tracker.Countdowns()) != 1 {
				t.Errorf("expected countdown to survive reopen")
			}
		})
	}
}

func TestSecondInstanceIsRejected(t *testing.T) {
	cfg := testConfig(t, constants.BackendJSON)

	a, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer a.Close()

	if _, err := New(cfg); err == nil {
		t.Error("expected second instance to fail to lock")
	}
}

func TestAutoBackup(t *testing.T) {
	cfg := testConfig(t, constants.BackendJSON)
	a, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()

	backupDir := filepath.Join(cfg.DataDir, constants.BackupDirName)

	// Nothing to back up yet
	a.AutoBackup()
	if _, err := os.Stat(backupDir); !os.IsNotExist(err) {
		t.Error("expected no backup for an empty store")
	}

	_, _ = a.Tracker.AddProject("Website", "")
	a.AutoBackup()
	backups, err := a.Backups.ListBackups()
	if err != nil || len(backups) != 1 {
		t.Errorf("expected one backup, got %d (%v)", len(backups), err)
	}
}
