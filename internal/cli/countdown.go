package cli

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/julianstephens/tminus/internal/display"
	"github.com/julianstephens/tminus/internal/models"
)

type CountdownCmd struct {
	Add     CountdownAddCmd     `cmd:"" help:"Add a countdown."`
	List    CountdownListCmd    `cmd:"" aliases:"ls" help:"List countdowns by status."`
	Show    CountdownShowCmd    `cmd:"" help:"Show a countdown with its links and notes."`
	Edit    CountdownEditCmd    `cmd:"" help:"Rename or reschedule a countdown."`
	Delete  CountdownDeleteCmd  `cmd:"" aliases:"rm" help:"Delete a countdown."`
	Archive CountdownArchiveCmd `cmd:"" help:"Mark a countdown complete."`
	Cancel  CountdownCancelCmd  `cmd:"" help:"Cancel a countdown."`
	Extend  CountdownExtendCmd  `cmd:"" help:"Push a countdown out by some days."`
	Link    struct {
		Add CountdownLinkAddCmd `cmd:"" help:"Attach a link."`
		Rm  CountdownLinkRmCmd  `cmd:"" help:"Remove a link by position."`
	} `cmd:"" help:"Manage countdown links."`
	Notes CountdownNotesCmd `cmd:"" help:"Show or replace countdown notes."`
}

type CountdownAddCmd struct {
	Name string `arg:"" help:"Countdown name."`
	Date string `short:"d" help:"Target date (YYYY-MM-DD)." required:""`
	Time string `short:"t" help:"Target time (HH:MM), defaults to midnight."`
}

func (c *CountdownAddCmd) Run(ctx *Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	cd, err := a.Tracker.AddCountdown(c.Name, models.FormatTarget(c.Date, c.Time))
	if err != nil {
		return err
	}
	ctx.printf("Added countdown: %s (ID: %d)\n", cd.Name, cd.ID)
	return nil
}

type CountdownListCmd struct {
	Status string `short:"s" help:"Only show one section (active|archived|canceled)." enum:",active,archived,canceled" default:""`
}

func (c *CountdownListCmd) Run(ctx *Context) error {
	a, err := ctx.View()
	if err != nil {
		return err
	}
	tr := a.Tracker
	now := tr.Now()

	sections := []struct {
		status models.Status
		items  []models.Countdown
	}{
		{models.StatusActive, tr.ActiveCountdowns()},
		{models.StatusArchived, tr.ArchivedCountdowns()},
		{models.StatusCanceled, tr.CanceledCountdowns()},
	}

	shown := 0
	for _, s := range sections {
		if c.Status != "" && string(s.status) != c.Status {
			continue
		}
		if len(s.items) == 0 {
			continue
		}
		shown += len(s.items)

		ctx.printf("\n%s\n", text.Bold.Sprint(sectionTitle(s.status)))
		t := ctx.newTable()
		if s.status == models.StatusActive {
			t.AppendHeader(header("ID", "Name", "Remaining", "When"))
			for _, cd := range s.items {
				td := display.ForCountdown(cd, now, tr.Location())
				remaining := fmt.Sprintf("%d %s", td.Number, td.Unit)
				if td.Unit == "" {
					remaining = td.DateStr
				}
				if td.Urgent {
					remaining = text.FgRed.Sprint(remaining)
				}
				t.AppendRow(table.Row{cd.ID, cd.Name, remaining, td.DateStr})
			}
		} else {
			t.AppendHeader(header("ID", "Name", "Closed"))
			for _, cd := range s.items {
				t.AppendRow(table.Row{cd.ID, cd.Name, display.ClosedLabel(cd, tr.Location())})
			}
		}
		t.Render()
	}

	if shown == 0 {
		ctx.println("No countdowns found")
	}
	return nil
}

type CountdownShowCmd struct {
	ID string `arg:"" help:"Countdown ID."`
}

func (c *CountdownShowCmd) Run(ctx *Context) error {
	a, err := ctx.View()
	if err != nil {
		return err
	}
	id, err := parseID(c.ID)
	if err != nil {
		return err
	}
	cd, err := a.Tracker.Countdown(id)
	if err != nil {
		return err
	}

	loc := a.Tracker.Location()
	ctx.printf("[%d] %s\n", cd.ID, text.Bold.Sprint(cd.Name))
	ctx.printf("Status: %s\n", cd.Status)
	ctx.printf("Target: %s\n", cd.TargetDate)
	if cd.Status == models.StatusActive {
		ctx.printf("Remaining: %s\n", display.ForCountdown(cd, a.Tracker.Now(), loc))
	} else {
		ctx.printf("%s\n", display.ClosedLabel(cd, loc))
	}
	ctx.printf("Created: %s\n", cd.CreatedAt.In(loc).Format("2006-01-02 15:04"))
	if cd.ModifiedAt != nil {
		ctx.printf("Modified: %s\n", cd.ModifiedAt.In(loc).Format("2006-01-02 15:04"))
	}
	ctx.printLinks(cd.Links)
	ctx.println()
	ctx.renderNotes(cd.Notes)
	return nil
}

type CountdownEditCmd struct {
	ID   string `arg:"" help:"Countdown ID."`
	Name string `short:"n" help:"New name."`
	Date string `short:"d" help:"New target date (YYYY-MM-DD)."`
	Time string `short:"t" help:"New target time (HH:MM)."`
}

func (c *CountdownEditCmd) Run(ctx *Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	id, err := parseID(c.ID)
	if err != nil {
		return err
	}
	cd, err := a.Tracker.Countdown(id)
	if err != nil {
		return err
	}

	name := cd.Name
	if c.Name != "" {
		name = c.Name
	}
	target := cd.TargetDate
	if c.Date != "" || c.Time != "" {
		current, err := cd.Target(a.Tracker.Location())
		if err != nil {
			return err
		}
		date, clock := current.Format("2006-01-02"), current.Format("15:04")
		if c.Date != "" {
			date = c.Date
		}
		if c.Time != "" {
			clock = c.Time
		}
		target = models.FormatTarget(date, clock)
	}

	if err := a.Tracker.EditCountdown(id, name, target); err != nil {
		return err
	}
	ctx.printf("Updated countdown: %s\n", name)
	return nil
}

type CountdownDeleteCmd struct {
	ID  string `arg:"" help:"Countdown ID."`
	Yes bool   `short:"y" help:"Skip confirmation."`
}

func (c *CountdownDeleteCmd) Run(ctx *Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	id, err := parseID(c.ID)
	if err != nil {
		return err
	}
	cd, err := a.Tracker.Countdown(id)
	if err != nil {
		return err
	}
	if !c.Yes {
		ok, err := ctx.confirm(fmt.Sprintf("Delete countdown %q?", cd.Name))
		if err != nil {
			return err
		}
		if !ok {
			ctx.println("Delete cancelled.")
			return nil
		}
	}
	if err := a.Tracker.DeleteCountdown(id); err != nil {
		return err
	}
	ctx.printf("Deleted countdown: %s\n", cd.Name)
	return nil
}

type CountdownArchiveCmd struct {
	ID string `arg:"" help:"Countdown ID."`
}

func (c *CountdownArchiveCmd) Run(ctx *Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	id, err := parseID(c.ID)
	if err != nil {
		return err
	}
	unlocked, err := a.Tracker.ArchiveCountdown(id)
	if err != nil {
		return err
	}
	ctx.println("✓ Countdown complete")
	if unlocked {
		ctx.println(unlockMessage)
	}
	return nil
}

type CountdownCancelCmd struct {
	ID string `arg:"" help:"Countdown ID."`
}

func (c *CountdownCancelCmd) Run(ctx *Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	id, err := parseID(c.ID)
	if err != nil {
		return err
	}
	if err := a.Tracker.CancelCountdown(id); err != nil {
		return err
	}
	ctx.println("Countdown canceled")
	return nil
}

type CountdownExtendCmd struct {
	ID   string `arg:"" help:"Countdown ID."`
	Days int    `short:"n" help:"Days from now (defaults to extend_days from config)."`
}

func (c *CountdownExtendCmd) Run(ctx *Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	id, err := parseID(c.ID)
	if err != nil {
		return err
	}
	days := c.Days
	if days == 0 {
		days = ctx.Config.ExtendDays
	}
	if err := a.Tracker.ExtendCountdown(id, days); err != nil {
		return err
	}
	cd, _ := a.Tracker.Countdown(id)
	ctx.printf("Extended %s to %s\n", cd.Name, cd.TargetDate)
	return nil
}

type CountdownLinkAddCmd struct {
	ID    string `arg:"" help:"Countdown ID."`
	Label string `arg:"" help:"Link label."`
	URL   string `arg:"" help:"Link URL."`
}

func (c *CountdownLinkAddCmd) Run(ctx *Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	id, err := parseID(c.ID)
	if err != nil {
		return err
	}
	if err := a.Tracker.AddCountdownLink(id, c.Label, c.URL); err != nil {
		return err
	}
	ctx.printf("Added link: %s\n", c.Label)
	return nil
}

type CountdownLinkRmCmd struct {
	ID       string `arg:"" help:"Countdown ID."`
	Position int    `arg:"" help:"Link position as shown by 'show' (1-based)."`
}

func (c *CountdownLinkRmCmd) Run(ctx *Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	id, err := parseID(c.ID)
	if err != nil {
		return err
	}
	if err := a.Tracker.DeleteCountdownLink(id, c.Position-1); err != nil {
		return err
	}
	ctx.println("Link removed")
	return nil
}

type CountdownNotesCmd struct {
	ID    string  `arg:"" help:"Countdown ID."`
	Text  *string `arg:"" optional:"" help:"New notes (markdown). Use - to read from stdin. Omit to show."`
	Clear bool    `help:"Remove the notes."`
}

func (c *CountdownNotesCmd) Run(ctx *Context) error {
	a, err := ctx.App()
	if err != nil {
		return err
	}
	id, err := parseID(c.ID)
	if err != nil {
		return err
	}

	if !c.Clear && c.Text == nil {
		cd, err := a.Tracker.Countdown(id)
		if err != nil {
			return err
		}
		ctx.renderNotes(cd.Notes)
		return nil
	}

	notes := ""
	if !c.Clear {
		if notes, err = ctx.readText(*c.Text); err != nil {
			return err
		}
	}
	if err := a.Tracker.SetCountdownNotes(id, notes); err != nil {
		return err
	}
	ctx.println("Notes saved")
	return nil
}

func (c *Context) printLinks(links []models.Link) {
	if len(links) == 0 {
		return
	}
	c.println("Links:")
	for i, l := range links {
		c.printf("  %d. %s  %s\n", i+1, l.Label, text.Underline.Sprint(l.URL))
	}
}

func sectionTitle(s models.Status) string {
	switch s {
	case models.StatusArchived:
		return "Archived"
	case models.StatusCanceled:
		return "Canceled"
	}
	return "Active"
}

const unlockMessage = "🎉 First countdown completed! Something new has been unlocked."
