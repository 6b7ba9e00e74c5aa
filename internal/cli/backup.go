package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/julianstephens/tminus/internal/backup"
)

type BackupCmd struct {
	Export  BackupExportCmd  `cmd:"" help:"Write a full JSON backup."`
	Import  BackupImportCmd  `cmd:"" help:"Import a full backup or a single-project export."`
	Create  BackupCreateCmd  `cmd:"" help:"Create a rotating backup in the data directory."`
	List    BackupListCmd    `cmd:"" aliases:"ls" help:"List rotating backups."`
	Restore BackupRestoreCmd `cmd:"" help:"Restore a rotating backup."`
}

type BackupExportCmd struct {
	Out string `short:"o" help:"Directory to write into." type:"path" default:"."`
}

func (c *BackupExportCmd) Run(ctx *Context) error {
	a, err := ctx.View()
	if err != nil {
		return err
	}
	now := a.Tracker.Now()
	data, err := backup.Export(a.Tracker, now).Marshal()
	if err != nil {
		return fmt.Errorf("failed to serialize backup: %w", err)
	}
	path, err := writeExport(c.Out, backup.ExportFilename(now.In(a.Tracker.Location())), data)
	if err != nil {
		return err
	}
	ctx.printf("✓ Backup exported: %s\n", path)
	return nil
}

type BackupImportCmd struct {
	File string `arg:"" help:"Backup file to import." type:"existingfile"`
	Mode string `short:"m" help:"How to apply a full backup (merge|replace)." enum:"merge,replace" default:"merge"`
	Yes  bool   `short:"y" help:"Skip the confirmation for replace."`
}

func (c *BackupImportCmd) Run(ctx *Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(c.File)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", c.File, err)
	}
	doc, err := backup.ParseDocument(data)
	if err != nil {
		return err
	}

	if doc.Project != nil {
		p, err := backup.ImportSingleProject(a.Tracker, doc.Project)
		if err != nil {
			return err
		}
		ctx.printf("✓ Imported project: %s (ID: %d)\n", p.Name, p.ID)
		return nil
	}

	mode, err := backup.ParseMode(c.Mode)
	if err != nil {
		return err
	}
	if mode == backup.ModeReplace && !c.Yes {
		ok, err := ctx.confirm("⚠️  Replace ALL countdowns and projects with this backup?")
		if err != nil {
			return err
		}
		if !ok {
			ctx.println("Import cancelled.")
			return nil
		}
	}

	report, err := backup.Import(a.Tracker, doc.Snapshot, mode)
	if err != nil {
		return err
	}
	ctx.printReport(report)
	return nil
}

type BackupCreateCmd struct{}

func (c *BackupCreateCmd) Run(ctx *Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}

	backupPath, err := a.Backups.CreateBackup()
	if err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}

	ctx.printf("✓ Backup created: %s\n", filepath.Base(backupPath))
	return nil
}

type BackupListCmd struct{}

func (c *BackupListCmd) Run(ctx *Context) error {
	a, err := ctx.View()
	if err != nil {
		return err
	}

	mgr := a.Backups
	backups, err := mgr.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}

	if len(backups) == 0 {
		ctx.println("No backups found.")
		ctx.printf("Backups are stored in: %s\n", mgr.GetBackupDir())
		return nil
	}

	ctx.printf("Available backups (%d total, keeping most recent %d):\n", len(backups), ctx.Config.MaxBackups)
	t := ctx.newTable()
	t.AppendHeader(header("Created", "File", "Size"))
	for _, b := range backups {
		t.AppendRow(table.Row{
			b.Timestamp.Format("2006-01-02 15:04:05"),
			filepath.Base(b.Path),
			fmt.Sprintf("%.1f KB", float64(b.Size)/1024.0),
		})
	}
	t.Render()
	ctx.printf("Backup directory: %s\n", mgr.GetBackupDir())

	return nil
}

type BackupRestoreCmd struct {
	BackupFile string `arg:"" help:"Path or filename of the backup to restore."`
	Mode       string `short:"m" help:"How to apply the backup (replace|merge)." enum:"replace,merge" default:"replace"`
	Yes        bool   `short:"y" help:"Skip confirmation."`
}

func (c *BackupRestoreCmd) Run(ctx *Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	mgr := a.Backups

	// Determine the full path to the backup file
	backupPath := c.BackupFile
	if !filepath.IsAbs(backupPath) {
		// If it's not an absolute path, check if it exists relative to backup directory
		possiblePath := filepath.Join(mgr.GetBackupDir(), c.BackupFile)
		if _, err := os.Stat(possiblePath); err == nil {
			backupPath = possiblePath
		}
	}

	// Verify backup file exists
	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		return fmt.Errorf("backup file not found: %s", backupPath)
	}

	mode, err := backup.ParseMode(c.Mode)
	if err != nil {
		return err
	}

	if !c.Yes {
		ctx.printf("Restore from: %s (%s)\n", filepath.Base(backupPath), mode)
		ctx.println("A backup of your current data will be created before restoring.")
		ok, err := ctx.confirm("Continue?")
		if err != nil {
			return err
		}
		if !ok {
			ctx.println("Restore cancelled.")
			return nil
		}
	}

	preRestore, report, err := mgr.RestoreBackup(backupPath, mode)
	if err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}

	ctx.printf("Saved current data to: %s\n", filepath.Base(preRestore))
	ctx.printReport(report)
	return nil
}

func (c *Context) printReport(r backup.Report) {
	c.println("✓ Import complete")
	c.printf("  Countdowns: %d added, %d updated\n", r.Countdowns.Added, r.Countdowns.Updated)
	c.printf("  Projects:   %d added, %d updated\n", r.Projects.Added, r.Projects.Updated)
}
