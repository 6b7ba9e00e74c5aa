package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/julianstephens/tminus/internal/tracker"
)

type DebugCmd struct {
	StorePath     DebugStorePathCmd     `cmd:"" help:"Show storage and config paths."`
	DumpCountdown DebugDumpCountdownCmd `cmd:"" help:"Dump countdown data as JSON."`
	DumpProject   DebugDumpProjectCmd   `cmd:"" help:"Dump project data as JSON."`
}

type DebugStorePathCmd struct{}

func (cmd *DebugStorePathCmd) Run(ctx *Context) error {
	// Output in machine-readable format
	output := map[string]string{
		"backend": ctx.Config.Backend,
		"config":  ctx.ConfigPath,
		"path":    ctx.Config.StorePath(),
	}
	return ctx.printJSON(output)
}

type DebugDumpCountdownCmd struct {
	ID string `arg:"" help:"ID of the countdown to dump."`
}

func (cmd *DebugDumpCountdownCmd) Run(ctx *Context) error {
	a, err := ctx.View()
	if err != nil {
		return err
	}
	id, err := parseID(cmd.ID)
	if err != nil {
		return err
	}

	c, err := a.Tracker.Countdown(id)
	if err != nil {
		if errors.Is(err, tracker.ErrNotFound) {
			return fmt.Errorf("countdown not found: %s", cmd.ID)
		}
		return fmt.Errorf("failed to get countdown: %w", err)
	}
	return ctx.printJSON(c)
}

type DebugDumpProjectCmd struct {
	ID string `arg:"" help:"ID of the project to dump."`
}

func (cmd *DebugDumpProjectCmd) Run(ctx *Context) error {
	a, err := ctx.View()
	if err != nil {
		return err
	}
	id, err := parseID(cmd.ID)
	if err != nil {
		return err
	}

	p, err := a.Tracker.Project(id)
	if err != nil {
		if errors.Is(err, tracker.ErrNotFound) {
			return fmt.Errorf("project not found: %s", cmd.ID)
		}
		return fmt.Errorf("failed to get project: %w", err)
	}
	return ctx.printJSON(p)
}

func (c *Context) printJSON(v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	c.println(string(jsonBytes))
	return nil
}
