package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"github.com/julianstephens/tminus/internal/backup"
	"github.com/julianstephens/tminus/internal/config"
	"github.com/julianstephens/tminus/internal/constants"
	"github.com/julianstephens/tminus/internal/logger"
	"github.com/julianstephens/tminus/internal/storage"
	"github.com/julianstephens/tminus/internal/tracker"
)

// App holds the opened store and everything built on top of it
type App struct {
	Config  config.Config
	Store   storage.Provider
	Tracker *tracker.Tracker
	Backups *backup.Manager

	lockFile *flock.Flock
}

// New opens the configured store and loads both collections. Only one
// process may hold a data directory at a time.
func New(cfg config.Config) (*App, error) {
	return open(cfg, true)
}

// NewReadOnly opens the store without taking the data directory lock, so
// listing and inspecting still work while another process holds it. Callers
// must not mutate through the returned tracker.
func NewReadOnly(cfg config.Config) (*App, error) {
	return open(cfg, false)
}

func open(cfg config.Config, lock bool) (*App, error) {
	// Ensure data directory exists
	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	a := &App{Config: cfg}

	// Acquire lock to ensure single instance
	if lock {
		if err := a.acquireLock(); err != nil {
			return nil, err
		}
	}

	store, err := storage.Open(cfg)
	if err != nil {
		a.releaseLock()
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}
	a.Store = store

	a.Tracker = tracker.New(storage.NewCollections(store), tracker.WithLocation(cfg.Location()))
	a.Backups = backup.NewManager(a.Tracker, filepath.Join(cfg.DataDir, constants.BackupDirName), cfg.MaxBackups)
	return a, nil
}

// acquireLock acquires an exclusive file lock to prevent multiple instances
func (a *App) acquireLock() error {
	lockPath := filepath.Join(a.Config.DataDir, constants.LockFileName)
	a.lockFile = flock.New(lockPath)

	locked, err := a.lockFile.TryLock()
	if err != nil {
		return fmt.Errorf("failed to acquire lock: %w", err)
	}

	if !locked {
		return fmt.Errorf("another instance of %s is already using %s", constants.AppName, a.Config.DataDir)
	}

	return nil
}

// releaseLock releases the file lock
func (a *App) releaseLock() {
	if a.lockFile != nil {
		if err := a.lockFile.Unlock(); err != nil {
			logger.Warn("failed to release lock", "error", err)
		}
	}
}

// AutoBackup writes a rotating backup, logging instead of failing.
func (a *App) AutoBackup() {
	if len(a.Tracker.Countdowns()) == 0 && len(a.Tracker.Projects()) == 0 {
		return
	}
	if _, err := a.Backups.CreateBackup(); err != nil {
		logger.Warn("automatic backup failed", "error", err)
	}
}

// Close cleans up application resources
func (a *App) Close() error {
	var errs []error

	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close storage: %w", err))
		}
	}

	a.releaseLock()

	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}
