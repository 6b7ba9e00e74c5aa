package main

import (
	"github.com/alecthomas/kong"

	"github.com/julianstephens/tminus/internal/cli"
	"github.com/julianstephens/tminus/internal/config"
	"github.com/julianstephens/tminus/internal/constants"
	"github.com/julianstephens/tminus/internal/errors"
	"github.com/julianstephens/tminus/internal/logger"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path (defaults to $TMINUS_CONFIG or the user config dir)." type:"path"`
	DataDir string `help:"Override the data directory." type:"path"`
	Backend string `help:"Override the storage backend (json|sqlite)." enum:",json,sqlite" default:""`
	Verbose bool   `short:"v" help:"Enable debug logging."`

	Init      cli.InitCmd      `cmd:"" help:"Write the config file and initialize storage."`
	Tui       cli.TuiCmd       `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Watch     cli.WatchCmd     `cmd:"" help:"Prompt as countdowns reach their target."`
	Countdown cli.CountdownCmd `cmd:"" aliases:"cd" help:"Manage countdowns."`
	Project   cli.ProjectCmd   `cmd:"" aliases:"p" help:"Manage projects and time logs."`
	Backup    cli.BackupCmd    `cmd:"" help:"Export, import and restore backups."`
	Validate  cli.ValidateCmd  `cmd:"" help:"Check stored data for conflicts."`
	Doctor    cli.DoctorCmd    `cmd:"" help:"Run health checks and diagnostics."`
	Debug     cli.DebugCmd     `cmd:"" help:"Debug commands for troubleshooting."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Countdowns to the things that matter, and the hours spent getting there"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	configPath := CLI.Config
	if configPath == "" {
		path, err := config.Path()
		if err != nil {
			errors.Fatal(err)
		}
		configPath = path
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		errors.Fatal(err)
	}
	if CLI.DataDir != "" {
		cfg.DataDir = CLI.DataDir
	}
	if CLI.Backend != "" {
		cfg.Backend = CLI.Backend
	}
	if CLI.Verbose {
		cfg.Debug = true
	}

	if err := logger.Init(logger.Config{
		Debug:   cfg.Debug,
		DataDir: cfg.DataDir,
		Quiet:   ctx.Command() == "tui",
	}); err != nil {
		errors.Fatalf("failed to initialize logger: %v", err)
	}
	logger.Debug("starting", "command", ctx.Command(), "config", configPath, "backend", cfg.Backend)

	appCtx := cli.NewContext(cfg, configPath)
	err = ctx.Run(appCtx)
	if closeErr := appCtx.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	errors.Fatal(err)
}
