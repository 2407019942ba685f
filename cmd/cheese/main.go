package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/cheese/internal/cli"
	"github.com/julianstephens/cheese/internal/cli/backups"
	"github.com/julianstephens/cheese/internal/cli/entries"
	"github.com/julianstephens/cheese/internal/cli/hamsters"
	"github.com/julianstephens/cheese/internal/cli/insights"
	"github.com/julianstephens/cheese/internal/cli/settings"
	"github.com/julianstephens/cheese/internal/cli/system"
	"github.com/julianstephens/cheese/internal/config"
	"github.com/julianstephens/cheese/internal/constants"
	"github.com/julianstephens/cheese/internal/errors"
	"github.com/julianstephens/cheese/internal/logger"
)

var CLI struct {
	Version    kong.VersionFlag
	Data       string `help:"Data file path. A .json suffix selects the JSON file backend (default ${default_data})." type:"path"`
	ConfigFile string `help:"YAML config file path." type:"path" default:"${default_config}"`
	Debug      bool   `help:"Mirror logs to stderr at debug level."`

	Init    system.InitCmd      `cmd:"" help:"Initialize cheese storage."`
	Migrate system.MigrateCmd   `cmd:"" help:"Upgrade stored data to the current format."`
	Doctor  system.DoctorCmd    `cmd:"" help:"Run health checks and diagnostics."`
	Status  hamsters.StatusCmd  `cmd:"" help:"Show the current hamster." default:"1"`
	Hamster hamsters.HamsterCmd `cmd:"" help:"Manage hamsters."`
	Entry   entries.EntryCmd    `cmd:"" help:"Record and manage daily entries."`

	Settings settings.SettingsCmd `cmd:"" help:"View or change settings."`
	Export   backups.ExportCmd    `cmd:"" help:"Export all data to a backup file."`
	Import   backups.ImportCmd    `cmd:"" help:"Import a backup, entry list or settings file."`
	Backup   backups.BackupCmd    `cmd:"" help:"Manage automatic and manual backups."`
	Clear    system.ClearCmd      `cmd:"" help:"Delete all hamsters, entries and settings."`
	Prompt   insights.PromptCmd   `cmd:"" help:"Show the analysis prompt for a hamster."`
	Keyring  struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store the API key in the OS keyring."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show the stored API key (masked)."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove the API key from the OS keyring."`
		Status system.KeyringStatusCmd `cmd:"" help:"Check whether the OS keyring is usable." default:"1"`
	} `cmd:"" help:"Manage the analysis API key in the OS keyring."`
	Inspect system.DebugCmd `cmd:"" hidden:"" help:"Debug commands for troubleshooting."`
}

// commands that manage storage themselves or never touch it
var skipLoad = map[string]bool{
	"init":    true,
	"doctor":  true,
	"keyring": true,
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Local hamster care tracker"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":        constants.Version,
			"default_data":   constants.DefaultDataPath,
			"default_config": constants.DefaultConfigFile,
		},
	)

	cfg, err := config.Load(CLI.ConfigFile)
	if err != nil {
		errors.Fatal(err)
	}

	dataPath := CLI.Data
	if dataPath == "" {
		dataPath = cfg.DataPath
	}
	if dataPath == "" {
		dataPath = constants.DefaultDataPath
	}
	if dataPath, err = config.ExpandPath(dataPath); err != nil {
		errors.Fatal(err)
	}

	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: filepath.Dir(dataPath)}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logging: %v\n", err)
	}

	store := cli.NewStore(dataPath)
	appCtx := &cli.Context{
		Store:      store,
		Config:     cfg,
		ConfigPath: CLI.ConfigFile,
	}
	defer func() {
		if err := appCtx.Close(); err != nil {
			logger.Warn("Failed to close storage", "error", err)
		}
	}()

	command := strings.Fields(ctx.Command())
	if len(command) > 0 && !skipLoad[command[0]] {
		if err := store.Load(); err != nil {
			errors.Fatal(err)
		}
	}

	logger.Debug("Running command", "command", ctx.Command(), "data", dataPath)
	if err := ctx.Run(appCtx); err != nil {
		appCtx.Close()
		errors.Fatal(err)
	}
}
