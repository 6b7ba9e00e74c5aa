package backup

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/julianstephens/tminus/internal/constants"
	"github.com/julianstephens/tminus/internal/logger"
	"github.com/julianstephens/tminus/internal/tracker"
)

// BackupInfo contains information about a backup file
type BackupInfo struct {
	Path      string
	Timestamp time.Time
	Size      int64
}

// Manager keeps a rotating directory of full JSON backups
type Manager struct {
	tracker    *tracker.Tracker
	backupDir  string
	maxBackups int
}

// NewManager creates a backup manager writing into backupDir
func NewManager(t *tracker.Tracker, backupDir string, maxBackups int) *Manager {
	if maxBackups <= 0 {
		maxBackups = constants.MaxBackups
	}
	return &Manager{
		tracker:    t,
		backupDir:  backupDir,
		maxBackups: maxBackups,
	}
}

// GetBackupDir returns the backup directory path
func (m *Manager) GetBackupDir() string {
	return m.backupDir
}

// ensureBackupDir creates the backup directory if it doesn't exist
func (m *Manager) ensureBackupDir() error {
	return os.MkdirAll(m.backupDir, 0700)
}

// CreateBackup writes the current state to a new timestamped file
func (m *Manager) CreateBackup() (string, error) {
	return m.createBackup(false)
}

// createBackup writes a backup file.
// skipRotation is set during restore so the pre-restore copy never evicts anything.
func (m *Manager) createBackup(skipRotation bool) (string, error) {
	if err := m.ensureBackupDir(); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	now := m.tracker.Now()

	// Try with minute precision first
	timestamp := now.Format("20060102-1504")
	backupPath := m.backupPath(timestamp, 0)

	// If a backup with the same name exists, add seconds
	if _, err := os.Stat(backupPath); err == nil {
		timestamp = now.Format("20060102-150405")
		backupPath = m.backupPath(timestamp, 0)

		// If still exists, add a counter
		counter := 1
		for {
			if _, err := os.Stat(backupPath); os.IsNotExist(err) {
				break
			}
			backupPath = m.backupPath(timestamp, counter)
			counter++
			if counter > 100 {
				return "", fmt.Errorf("failed to generate unique backup filename")
			}
		}
	}

	data, err := Export(m.tracker, now).Marshal()
	if err != nil {
		return "", fmt.Errorf("failed to serialize backup: %w", err)
	}
	if err := os.WriteFile(backupPath, data, 0600); err != nil {
		return "", fmt.Errorf("failed to write backup: %w", err)
	}

	// Rotate old backups (unless this is part of a restore operation)
	if !skipRotation {
		if err := m.rotateBackups(); err != nil {
			// Log error but don't fail the backup operation
			logger.Warn("failed to rotate old backups", "error", err)
		}
	}

	logger.Info("backup created", "path", backupPath)
	return backupPath, nil
}

func (m *Manager) backupPath(timestamp string, counter int) string {
	name := constants.BackupFilePrefix + timestamp
	if counter > 0 {
		name = fmt.Sprintf("%s-%d", name, counter)
	}
	return filepath.Join(m.backupDir, name+constants.BackupFileSuffix)
}

// ListBackups returns a list of all available backups, sorted by timestamp (newest first)
func (m *Manager) ListBackups() ([]BackupInfo, error) {
	// Check if backup directory exists
	if _, err := os.Stat(m.backupDir); os.IsNotExist(err) {
		return []BackupInfo{}, nil
	}

	entries, err := os.ReadDir(m.backupDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	var backups []BackupInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if !strings.HasPrefix(name, constants.BackupFilePrefix) || !strings.HasSuffix(name, constants.BackupFileSuffix) {
			continue
		}

		timestamp, ok := parseBackupTimestamp(name)
		if !ok {
			// Skip files with invalid timestamp format
			continue
		}

		path := filepath.Join(m.backupDir, name)
		info, err := os.Stat(path)
		if err != nil {
			continue
		}

		backups = append(backups, BackupInfo{
			Path:      path,
			Timestamp: timestamp,
			Size:      info.Size(),
		})
	}

	// Sort by timestamp, newest first
	sort.Slice(backups, func(i, j int) bool {
		return backups[i].Timestamp.After(backups[j].Timestamp)
	})

	return backups, nil
}

// parseBackupTimestamp reads YYYYMMDD-HHMM[SS][-N] out of a backup filename.
func parseBackupTimestamp(name string) (time.Time, bool) {
	timestampStr := strings.TrimPrefix(name, constants.BackupFilePrefix)
	timestampStr = strings.TrimSuffix(timestampStr, constants.BackupFileSuffix)

	// Counter is always after the last hyphen and is all digits
	parts := strings.Split(timestampStr, "-")
	if len(parts) > 2 {
		lastPart := parts[len(parts)-1]
		if len(lastPart) != 4 && len(lastPart) != 6 && isDigits(lastPart) {
			timestampStr = strings.Join(parts[:len(parts)-1], "-")
		}
	}

	if t, err := time.Parse("20060102-1504", timestampStr); err == nil {
		return t, true
	}
	if t, err := time.Parse("20060102-150405", timestampStr); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// rotateBackups removes old backups beyond the retention limit
func (m *Manager) rotateBackups() error {
	backups, err := m.ListBackups()
	if err != nil {
		return err
	}

	if len(backups) <= m.maxBackups {
		return nil
	}

	// Delete oldest backups
	for i := m.maxBackups; i < len(backups); i++ {
		if err := os.Remove(backups[i].Path); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", backups[i].Path, err)
		}
	}

	return nil
}

// RestoreBackup imports a backup file. The current state is saved to a new
// backup first so a bad restore can itself be undone.
func (m *Manager) RestoreBackup(backupPath string, mode Mode) (string, Report, error) {
	data, err := os.ReadFile(backupPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", Report{}, fmt.Errorf("backup file does not exist: %s", backupPath)
		}
		return "", Report{}, fmt.Errorf("failed to read backup: %w", err)
	}

	snapshot, err := ParseSnapshot(data)
	if err != nil {
		return "", Report{}, fmt.Errorf("backup file is corrupted or invalid: %w", err)
	}

	// Use skipRotation=true so the restore never deletes the file it reads
	currentBackup, err := m.createBackup(true)
	if err != nil {
		return "", Report{}, fmt.Errorf("failed to backup current state before restore: %w", err)
	}

	report, err := Import(m.tracker, snapshot, mode)
	if err != nil {
		return currentBackup, Report{}, fmt.Errorf("failed to restore backup: %w", err)
	}
	return currentBackup, report, nil
}
