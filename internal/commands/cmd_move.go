package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/burner/internal/app"
	"github.com/colonyops/burner/internal/core/burner"
)

// MoveCmd implements the burner move command.
type MoveCmd struct {
	flags *Flags
	app   *app.App

	to string
}

// NewMoveCmd creates a new move command.
func NewMoveCmd(flags *Flags, a *app.App) *MoveCmd {
	return &MoveCmd{flags: flags, app: a}
}

// Register adds the move command to the application.
func (cmd *MoveCmd) Register(root *cli.Command) *cli.Command {
	root.Commands = append(root.Commands, &cli.Command{
		Name:      "move",
		Aliases:   []string{"mv"},
		Usage:     "Move a task directly to a named slot",
		UsageText: "burner move <id> --to <slot>",
		Description: `Relocates a task to any slot without the step-at-a-time rules of
promote and demote. The task's status is left untouched.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "to",
				Usage:       "destination slot (front, back, sink)",
				Required:    true,
				Destination: &cmd.to,
			},
		},
		Action: cmd.run,
	})

	return root
}

func (cmd *MoveCmd) run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one task id, got %d", c.Args().Len())
	}

	ref, err := cmd.app.Move(c.Args().First(), burner.SlotType(cmd.to))
	if err := warnPersist(c.Root().Writer, err); err != nil {
		return err
	}

	fmt.Fprintf(c.Root().Writer, "moved %s to the %s\n", app.ShortID(ref.Item.ID), slotLabel(ref.Slot))
	return nil
}
