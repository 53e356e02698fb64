package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/burner/internal/app"
	"github.com/colonyops/burner/internal/core/burner"
	"github.com/colonyops/burner/internal/core/validate"
	"github.com/colonyops/burner/internal/store"
	"github.com/colonyops/burner/pkg/iojson"
)

// SettingsCmd implements the burner settings command.
type SettingsCmd struct {
	flags *Flags
	app   *app.App

	period        string
	autoDowngrade bool
	push          bool
	jsonOut       bool
}

// NewSettingsCmd creates a new settings command.
func NewSettingsCmd(flags *Flags, a *app.App) *SettingsCmd {
	return &SettingsCmd{flags: flags, app: a}
}

// Register adds the settings command to the application.
func (cmd *SettingsCmd) Register(root *cli.Command) *cli.Command {
	root.Commands = append(root.Commands, &cli.Command{
		Name:      "settings",
		Usage:     "Show or change the persisted session defaults",
		UsageText: "burner settings [--period <period>] [--auto-downgrade=<bool>] [--push=<bool>]",
		Description: `Without flags, prints the current defaults. With flags, updates
only the named settings. These defaults drive automatic rollover on
startup; an explicit rollover overwrites them too.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "period",
				Usage:       "default session period (day, week)",
				Destination: &cmd.period,
			},
			&cli.BoolFlag{
				Name:        "auto-downgrade",
				Usage:       "sink unfinished tasks on rollover",
				Destination: &cmd.autoDowngrade,
			},
			&cli.BoolFlag{
				Name:        "push",
				Usage:       "enable due-date push reminders",
				Destination: &cmd.push,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "emit settings as JSON",
				Destination: &cmd.jsonOut,
			},
		},
		Action: cmd.run,
	})

	return root
}

func (cmd *SettingsCmd) run(ctx context.Context, c *cli.Command) error {
	patch := store.SettingsPatch{}
	if c.IsSet("period") {
		if err := validate.PeriodField("period", cmd.period); err != nil {
			return err
		}
		period := burner.PeriodType(cmd.period)
		patch.DefaultPeriod = &period
	}
	if c.IsSet("auto-downgrade") {
		patch.AutoDowngradeIncomplete = &cmd.autoDowngrade
	}
	if c.IsSet("push") {
		patch.PushEnabled = &cmd.push
	}

	if patch != (store.SettingsPatch{}) {
		if err := warnPersist(c.Root().Writer, cmd.app.Store.UpdateSettings(patch)); err != nil {
			return err
		}
	}

	settings := cmd.app.State().Settings
	if cmd.jsonOut {
		return iojson.Write(c.Root().Writer, settings)
	}

	fmt.Fprintf(c.Root().Writer, "period          %s\n", settings.DefaultPeriod)
	fmt.Fprintf(c.Root().Writer, "auto-downgrade  %t\n", settings.AutoDowngradeIncomplete)
	fmt.Fprintf(c.Root().Writer, "push            %t\n", settings.PushEnabled)
	return nil
}
