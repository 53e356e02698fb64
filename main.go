package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/burner/internal/app"
	"github.com/colonyops/burner/internal/commands"
	"github.com/colonyops/burner/internal/core/config"
	"github.com/colonyops/burner/internal/core/styles"
	"github.com/colonyops/burner/internal/store"
	"github.com/colonyops/burner/internal/store/jsonfile"
	"github.com/colonyops/burner/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, init() populates
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	// When installed via `go install module@version`, ldflags aren't set
	// so version remains "dev". Fall back to runtime/debug.BuildInfo which
	// Go populates automatically with the module version and VCS metadata.
	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

func main() {
	ctx := context.Background()

	var (
		logCloser func()
		burnerApp = &app.App{}
	)

	flags := &commands.Flags{}

	root := &cli.Command{
		Name:      "burner",
		Usage:     "Triage tasks across a front burner, a back burner, and the sink",
		UsageText: "burner [global options] command [command options]",
		Description: `Burner keeps one task on the front burner, the next few on the back
burner, and everything else in the sink. Sessions roll over daily or
weekly; unfinished work sinks so each period starts with a deliberate
re-triage.

Run 'burner' with no arguments to open the interactive board.
Run 'burner add <task>' to capture something for later.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("BURNER_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to <data-dir>/burner.log)",
				Sources:     cli.EnvVars("BURNER_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("BURNER_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("BURNER_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			// Always log to a file; stdout belongs to command output.
			logFile := flags.LogFile
			if logFile == "" {
				logFile = filepath.Join(flags.DataDir, "burner.log")
			}

			logger, closer, err := logutils.New(flags.LogLevel, logFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger
			logCloser = closer

			cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}

			// Apply configured theme (validation ensures name is valid)
			palette, _ := styles.GetPalette(cfg.TUI.Theme)
			styles.SetTheme(palette)

			statePath := filepath.Join(cfg.DataDir, "state.json")
			st := store.New(jsonfile.NewStateFile(statePath), cfg.Settings())

			// Populate the pre-allocated App struct (commands already hold
			// a pointer to it).
			*burnerApp = *app.New(st, cfg, statePath)

			// Automatic rollover: a session whose period boundary has
			// passed is archived before the command runs.
			if rolled, err := burnerApp.CheckRollover(time.Now()); rolled && err != nil {
				fmt.Fprintln(c.Root().Writer, "warning: rolled over but the new session was not saved to disk")
			}

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	tuiCmd := commands.NewTuiCmd(flags, burnerApp)

	root = commands.NewAddCmd(flags, burnerApp).Register(root)
	root = commands.NewLsCmd(flags, burnerApp).Register(root)
	root = commands.NewPromoteCmd(flags, burnerApp).Register(root)
	root = commands.NewDemoteCmd(flags, burnerApp).Register(root)
	root = commands.NewMoveCmd(flags, burnerApp).Register(root)
	root = commands.NewSetCmd(flags, burnerApp).Register(root)
	root = commands.NewRmCmd(flags, burnerApp).Register(root)
	root = commands.NewSubCmd(flags, burnerApp).Register(root)
	root = commands.NewRolloverCmd(flags, burnerApp).Register(root)
	root = commands.NewSettingsCmd(flags, burnerApp).Register(root)
	root = commands.NewHistoryCmd(flags, burnerApp).Register(root)
	root = tuiCmd.Register(root)

	// Open the board when no subcommand is provided.
	root.Action = func(ctx context.Context, c *cli.Command) error {
		if c.Args().Len() > 0 {
			return fmt.Errorf("unknown command %q. Run 'burner --help' for usage", c.Args().First())
		}
		return tuiCmd.Run(ctx, c)
	}

	exitCode := 0
	if err := root.Run(ctx, os.Args); err != nil {
		fmt.Println()
		fmt.Println(err.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}
