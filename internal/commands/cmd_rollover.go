package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/burner/internal/app"
	"github.com/colonyops/burner/internal/core/burner"
	"github.com/colonyops/burner/internal/core/rollover"
)

// RolloverCmd implements the burner rollover command.
type RolloverCmd struct {
	flags *Flags
	app   *app.App

	period string
	keep   bool
	force  bool
	yes    bool
	label  string
}

// NewRolloverCmd creates a new rollover command.
func NewRolloverCmd(flags *Flags, a *app.App) *RolloverCmd {
	return &RolloverCmd{flags: flags, app: a}
}

// Register adds the rollover command to the application.
func (cmd *RolloverCmd) Register(root *cli.Command) *cli.Command {
	root.Commands = append(root.Commands, &cli.Command{
		Name:      "rollover",
		Usage:     "Archive the current session and start a new one",
		UsageText: "burner rollover [--period <period>] [--keep] [--force] [--yes] [--label <label>]",
		Description: `Archives the current session into history and starts a fresh one.
By default every task lands in the new session's sink marked dropped;
pass --keep to carry tasks forward unchanged. The chosen period and
downgrade behavior become the new defaults for automatic rollover.

Refuses to roll a session that has not reached its period boundary
unless --force is given.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "period",
				Aliases:     []string{"p"},
				Usage:       "period for the new session (day, week)",
				Destination: &cmd.period,
			},
			&cli.BoolFlag{
				Name:        "keep",
				Aliases:     []string{"k"},
				Usage:       "carry tasks forward in place instead of sinking them",
				Destination: &cmd.keep,
			},
			&cli.BoolFlag{
				Name:        "force",
				Aliases:     []string{"f"},
				Usage:       "roll over even if the period boundary has not passed",
				Destination: &cmd.force,
			},
			&cli.BoolFlag{
				Name:        "yes",
				Aliases:     []string{"y"},
				Usage:       "skip the confirmation prompt",
				Destination: &cmd.yes,
			},
			&cli.StringFlag{
				Name:        "label",
				Aliases:     []string{"l"},
				Usage:       "label for the new session",
				Destination: &cmd.label,
			},
		},
		Action: cmd.run,
	})

	return root
}

func (cmd *RolloverCmd) run(ctx context.Context, c *cli.Command) error {
	state := cmd.app.State()

	period := state.Settings.DefaultPeriod
	if cmd.period != "" {
		period = burner.PeriodType(cmd.period)
	}
	autoDowngrade := state.Settings.AutoDowngradeIncomplete
	if c.IsSet("keep") {
		autoDowngrade = !cmd.keep
	}

	if !cmd.force && !rollover.Due(state.Current.Meta.StartedAt, time.Now(), state.Settings.DefaultPeriod) {
		return fmt.Errorf("current %s session has not ended yet; use --force to roll over anyway", state.Settings.DefaultPeriod)
	}

	if !cmd.yes {
		prompt := fmt.Sprintf("Archive the current session? %d tasks will move to the sink.", state.Current.ItemCount())
		if !autoDowngrade {
			prompt = fmt.Sprintf("Archive the current session? %d tasks will carry forward.", state.Current.ItemCount())
		}

		confirmed := false
		err := huh.NewConfirm().
			Title(prompt).
			Affirmative("Roll over").
			Negative("Cancel").
			Value(&confirmed).
			Run()
		if err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return err
		}
		if !confirmed {
			return nil
		}
	}

	err := cmd.app.Rollover(period, autoDowngrade, cmd.label)
	if err := warnPersist(c.Root().Writer, err); err != nil {
		return err
	}

	fmt.Fprintf(c.Root().Writer, "started a new %s session (%d archived)\n", period, len(cmd.app.State().History))
	return nil
}
