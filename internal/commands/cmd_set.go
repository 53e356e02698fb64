package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/burner/internal/app"
	"github.com/colonyops/burner/internal/core/burner"
	"github.com/colonyops/burner/internal/store"
)

// SetCmd implements the burner set command.
type SetCmd struct {
	flags *Flags
	app   *app.App

	content  string
	status   string
	due      string
	clearDue bool
}

// NewSetCmd creates a new set command.
func NewSetCmd(flags *Flags, a *app.App) *SetCmd {
	return &SetCmd{flags: flags, app: a}
}

// Register adds the set command to the application.
func (cmd *SetCmd) Register(root *cli.Command) *cli.Command {
	root.Commands = append(root.Commands, &cli.Command{
		Name:      "set",
		Aliases:   []string{"edit"},
		Usage:     "Edit a task's content, status, or due date",
		UsageText: "burner set <id> [--content <text>] [--status <status>] [--due <when>] [--clear-due]",
		Description: `Applies a partial edit to a task. Only the provided flags change;
everything else is left as is.

Examples:
  burner set f3a1 --status done
  burner set f3a1 --content "write the launch email"
  burner set f3a1 --due 2026-09-05
  burner set f3a1 --clear-due`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "content",
				Aliases:     []string{"c"},
				Usage:       "replace the task text",
				Destination: &cmd.content,
			},
			&cli.StringFlag{
				Name:        "status",
				Aliases:     []string{"s"},
				Usage:       "set the status (open, done, snoozed, dropped)",
				Destination: &cmd.status,
			},
			&cli.StringFlag{
				Name:        "due",
				Usage:       "set a due date (YYYY-MM-DD, YYYY-MM-DD HH:MM, or RFC3339)",
				Destination: &cmd.due,
			},
			&cli.BoolFlag{
				Name:        "clear-due",
				Usage:       "remove the due date",
				Destination: &cmd.clearDue,
			},
		},
		Action: cmd.run,
	})

	return root
}

func (cmd *SetCmd) run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one task id, got %d", c.Args().Len())
	}
	if cmd.due != "" && cmd.clearDue {
		return fmt.Errorf("--due and --clear-due are mutually exclusive")
	}

	patch := store.ItemPatch{ClearDueAt: cmd.clearDue}
	if c.IsSet("content") {
		patch.Content = &cmd.content
	}
	if c.IsSet("status") {
		status := burner.Status(cmd.status)
		patch.Status = &status
	}
	if cmd.due != "" {
		due, err := parseDue(cmd.due)
		if err != nil {
			return err
		}
		patch.DueAt = &due
	}

	ref, err := cmd.app.UpdateItem(c.Args().First(), patch)
	if err := warnPersist(c.Root().Writer, err); err != nil {
		return err
	}

	fmt.Fprintf(c.Root().Writer, "updated %s\n", app.ShortID(ref.Item.ID))
	return nil
}
