package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/julianstephens/tminus/internal/backup"
	"github.com/julianstephens/tminus/internal/constants"
	"github.com/julianstephens/tminus/internal/models"
	"github.com/julianstephens/tminus/internal/tracker"
)

type ProjectCmd struct {
	Add     ProjectAddCmd     `cmd:"" help:"Add a project."`
	List    ProjectListCmd    `cmd:"" aliases:"ls" help:"List projects by status."`
	Show    ProjectShowCmd    `cmd:"" help:"Show a project with its links, notes and time log."`
	Edit    ProjectEditCmd    `cmd:"" help:"Rename or recolor a project."`
	Delete  ProjectDeleteCmd  `cmd:"" aliases:"rm" help:"Delete a project."`
	Archive ProjectArchiveCmd `cmd:"" help:"Mark a project complete."`
	Cancel  ProjectCancelCmd  `cmd:"" help:"Cancel a project."`
	Link    struct {
		Add ProjectLinkAddCmd `cmd:"" help:"Attach a link."`
		Rm  ProjectLinkRmCmd  `cmd:"" help:"Remove a link by position."`
	} `cmd:"" help:"Manage project links."`
	Notes ProjectNotesCmd `cmd:"" help:"Show or replace project notes."`
	Log   struct {
		Add  ProjectLogAddCmd  `cmd:"" help:"Log hours against a project."`
		Rm   ProjectLogRmCmd   `cmd:"" help:"Remove a time entry by its position in 'log list'."`
		List ProjectLogListCmd `cmd:"" aliases:"ls" help:"List time entries, newest first."`
	} `cmd:"" help:"Manage the project time log."`
	Export ProjectExportCmd `cmd:"" help:"Export a project or its time log."`
}

type ProjectAddCmd struct {
	Name  string `arg:"" help:"Project name."`
	Color string `short:"c" help:"Color tag (teal|coral|mustard|charcoal)." default:"teal"`
}

func (c *ProjectAddCmd) Run(ctx *Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	p, err := a.Tracker.AddProject(c.Name, c.Color)
	if err != nil {
		return err
	}
	ctx.printf("Added project: %s (ID: %d)\n", p.Name, p.ID)
	return nil
}

type ProjectListCmd struct {
	Status string `short:"s" help:"Only show one section (active|archived|canceled)." enum:",active,archived,canceled" default:""`
}

func (c *ProjectListCmd) Run(ctx *Context) error {
	a, err := ctx.View()
	if err != nil {
		return err
	}

	shown := 0
	for _, status := range []models.Status{models.StatusActive, models.StatusArchived, models.StatusCanceled} {
		if c.Status != "" && string(status) != c.Status {
			continue
		}
		projects := a.Tracker.ProjectsByStatus(status)
		if len(projects) == 0 {
			continue
		}
		shown += len(projects)

		ctx.printf("\n%s\n", text.Bold.Sprint(sectionTitle(status)))
		t := ctx.newTable()
		t.AppendHeader(header("ID", "Name", "Color", "Hours", "Entries"))
		for _, p := range projects {
			t.AppendRow(table.Row{
				p.ID,
				colorize(p.Color, p.Name),
				p.Color,
				fmt.Sprintf("%.2f", tracker.TotalHours(p.TimeLog)),
				len(p.TimeLog),
			})
		}
		t.Render()
	}

	if shown == 0 {
		ctx.println("No projects found")
	}
	return nil
}

type ProjectShowCmd struct {
	ID string `arg:"" help:"Project ID."`
}

func (c *ProjectShowCmd) Run(ctx *Context) error {
	a, err := ctx.View()
	if err != nil {
		return err
	}
	p, err := lookupProject(a.Tracker, c.ID)
	if err != nil {
		return err
	}

	loc := a.Tracker.Location()
	ctx.printf("[%d] %s\n", p.ID, text.Bold.Sprint(colorize(p.Color, p.Name)))
	ctx.printf("Status: %s\n", p.Status)
	ctx.printf("Color: %s\n", p.Color)
	ctx.printf("Created: %s\n", p.CreatedAt.In(loc).Format("2006-01-02 15:04"))
	if p.CompletedAt != nil {
		ctx.printf("Completed: %s\n", p.CompletedAt.In(loc).Format("2006-01-02 15:04"))
	}
	if p.CanceledAt != nil {
		ctx.printf("Canceled: %s\n", p.CanceledAt.In(loc).Format("2006-01-02 15:04"))
	}
	ctx.printf("Total: %.2f hours\n", tracker.TotalHours(p.TimeLog))
	ctx.printLinks(p.Links)
	ctx.println()
	ctx.renderNotes(p.Notes)
	return nil
}

type ProjectEditCmd struct {
	ID    string `arg:"" help:"Project ID."`
	Name  string `short:"n" help:"New name."`
	Color string `short:"c" help:"New color tag."`
}

func (c *ProjectEditCmd) Run(ctx *Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	p, err := lookupProject(a.Tracker, c.ID)
	if err != nil {
		return err
	}
	name, color := p.Name, string(p.Color)
	if c.Name != "" {
		name = c.Name
	}
	if c.Color != "" {
		color = c.Color
	}
	if err := a.Tracker.EditProject(p.ID, name, color); err != nil {
		return err
	}
	ctx.printf("Updated project: %s\n", name)
	return nil
}

type ProjectDeleteCmd struct {
	ID  string `arg:"" help:"Project ID."`
	Yes bool   `short:"y" help:"Skip confirmation."`
}

func (c *ProjectDeleteCmd) Run(ctx *Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	p, err := lookupProject(a.Tracker, c.ID)
	if err != nil {
		return err
	}
	if !c.Yes {
		ok, err := ctx.confirm(fmt.Sprintf("Delete project %q and its %d time entries?", p.Name, len(p.TimeLog)))
		if err != nil {
			return err
		}
		if !ok {
			ctx.println("Delete cancelled.")
			return nil
		}
	}
	if err := a.Tracker.DeleteProject(p.ID); err != nil {
		return err
	}
	ctx.printf("Deleted project: %s\n", p.Name)
	return nil
}

type ProjectArchiveCmd struct {
	ID string `arg:"" help:"Project ID."`
}

func (c *ProjectArchiveCmd) Run(ctx *Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	id, err := parseID(c.ID)
	if err != nil {
		return err
	}
	if err := a.Tracker.ArchiveProject(id); err != nil {
		return err
	}
	ctx.println("✓ Project complete")
	return nil
}

type ProjectCancelCmd struct {
	ID string `arg:"" help:"Project ID."`
}

func (c *ProjectCancelCmd) Run(ctx *Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	id, err := parseID(c.ID)
	if err != nil {
		return err
	}
	if err := a.Tracker.CancelProject(id); err != nil {
		return err
	}
	ctx.println("Project canceled")
	return nil
}

type ProjectLinkAddCmd struct {
	ID    string `arg:"" help:"Project ID."`
	Label string `arg:"" help:"Link label."`
	URL   string `arg:"" help:"Link URL."`
}

func (c *ProjectLinkAddCmd) Run(ctx *Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	id, err := parseID(c.ID)
	if err != nil {
		return err
	}
	if err := a.Tracker.AddProjectLink(id, c.Label, c.URL); err != nil {
		return err
	}
	ctx.printf("Added link: %s\n", c.Label)
	return nil
}

type ProjectLinkRmCmd struct {
	ID       string `arg:"" help:"Project ID."`
	Position int    `arg:"" help:"Link position as shown by 'show' (1-based)."`
}

func (c *ProjectLinkRmCmd) Run(ctx *Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	id, err := parseID(c.ID)
	if err != nil {
		return err
	}
	if err := a.Tracker.DeleteProjectLink(id, c.Position-1); err != nil {
		return err
	}
	ctx.println("Link removed")
	return nil
}

type ProjectNotesCmd struct {
	ID    string  `arg:"" help:"Project ID."`
	Text  *string `arg:"" optional:"" help:"New notes (markdown). Use - to read from stdin. Omit to show."`
	Clear bool    `help:"Remove the notes."`
}

func (c *ProjectNotesCmd) Run(ctx *Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	p, err := lookupProject(a.Tracker, c.ID)
	if err != nil {
		return err
	}

	if !c.Clear && c.Text == nil {
		ctx.renderNotes(p.Notes)
		return nil
	}

	notes := ""
	if !c.Clear {
		if notes, err = ctx.readText(*c.Text); err != nil {
			return err
		}
	}
	if err := a.Tracker.SetProjectNotes(p.ID, notes); err != nil {
		return err
	}
	ctx.println("Notes saved")
	return nil
}

type ProjectLogAddCmd struct {
	ID    string  `arg:"" help:"Project ID."`
	Hours float64 `arg:"" help:"Hours worked (positive, decimals allowed)."`
	Date  string  `short:"d" help:"Date worked (YYYY-MM-DD), defaults to today."`
	Note  string  `short:"m" help:"What the time was spent on."`
}

func (c *ProjectLogAddCmd) Run(ctx *Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	id, err := parseID(c.ID)
	if err != nil {
		return err
	}
	entry, err := a.Tracker.AddTimeEntry(id, c.Date, c.Hours, c.Note)
	if err != nil {
		return err
	}
	ctx.printf("Logged %s hours on %s\n", formatHours(entry.Hours), entry.Date)
	return nil
}

type ProjectLogRmCmd struct {
	ID       string `arg:"" help:"Project ID."`
	Position int    `arg:"" help:"Entry position as shown by 'log list' (1-based)."`
}

func (c *ProjectLogRmCmd) Run(ctx *Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	id, err := parseID(c.ID)
	if err != nil {
		return err
	}
	entryID, err := a.Tracker.TimeEntryIDAt(id, c.Position-1)
	if err != nil {
		return err
	}
	if err := a.Tracker.DeleteTimeEntry(id, entryID); err != nil {
		return err
	}
	ctx.println("Time entry removed")
	return nil
}

type ProjectLogListCmd struct {
	ID string `arg:"" help:"Project ID."`
}

func (c *ProjectLogListCmd) Run(ctx *Context) error {
	a, err := ctx.View()
	if err != nil {
		return err
	}
	p, err := lookupProject(a.Tracker, c.ID)
	if err != nil {
		return err
	}

	entries := tracker.SortedTimeLog(p)
	if len(entries) == 0 {
		ctx.println("No time logged")
		return nil
	}

	t := ctx.newTable()
	t.AppendHeader(header("#", "Date", "Hours", "Note"))
	for i, e := range entries {
		t.AppendRow(table.Row{i + 1, e.Date, formatHours(e.Hours), e.Note})
	}
	t.AppendFooter(table.Row{"", "Total", fmt.Sprintf("%.2f", tracker.TotalHours(entries)), ""})
	t.Render()
	return nil
}

type ProjectExportCmd struct {
	ID     string `arg:"" help:"Project ID."`
	Format string `short:"f" help:"Export format (json|csv|xlsx)." enum:"json,csv,xlsx" default:"json"`
	From   string `help:"First day of the time log range (YYYY-MM-DD), defaults to the earliest entry."`
	To     string `help:"Last day of the time log range (YYYY-MM-DD), defaults to today."`
	Out    string `short:"o" help:"Directory to write into." type:"path" default:"."`
}

func (c *ProjectExportCmd) Run(ctx *Context) error {
	a, err := ctx.View()
	if err != nil {
		return err
	}
	p, err := lookupProject(a.Tracker, c.ID)
	if err != nil {
		return err
	}
	now := a.Tracker.Now()

	var (
		data     []byte
		filename string
	)
	switch c.Format {
	case "json":
		data, err = backup.ExportProject(p, now).Marshal()
		filename = backup.ProjectExportFilename(p)
	default:
		from, to := c.From, c.To
		if from == "" {
			from = earliestEntry(p, now.In(a.Tracker.Location()).Format(constants.DateFormat))
		}
		if to == "" {
			to = now.In(a.Tracker.Location()).Format(constants.DateFormat)
		}
		if c.Format == "csv" {
			data, err = backup.TimeLogCSV(p, from, to)
		} else {
			data, err = backup.TimeLogXLSX(p, from, to)
		}
		filename = backup.TimeLogFilename(p, from, to, c.Format)
	}
	if err != nil {
		return err
	}

	path, err := writeExport(c.Out, filename, data)
	if err != nil {
		return err
	}
	ctx.printf("✓ Exported %s\n", path)
	return nil
}

func lookupProject(tr *tracker.Tracker, rawID string) (models.Project, error) {
	id, err := parseID(rawID)
	if err != nil {
		return models.Project{}, err
	}
	return tr.Project(id)
}

func earliestEntry(p models.Project, fallback string) string {
	earliest := ""
	for _, e := range p.TimeLog {
		if earliest == "" || e.Date < earliest {
			earliest = e.Date
		}
	}
	if earliest == "" {
		return fallback
	}
	return earliest
}

func writeExport(dir, filename string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return path, nil
}

func formatHours(h float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", h), "0"), ".")
}

func colorize(c models.Color, s string) string {
	switch c {
	case models.ColorCoral:
		return text.FgHiRed.Sprint(s)
	case models.ColorMustard:
		return text.FgYellow.Sprint(s)
	case models.ColorCharcoal:
		return text.FgHiBlack.Sprint(s)
	}
	return text.FgCyan.Sprint(s)
}
