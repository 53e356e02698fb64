package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/burner/internal/app"
)

// RmCmd implements the burner rm command.
type RmCmd struct {
	flags *Flags
	app   *app.App
}

// NewRmCmd creates a new rm command.
func NewRmCmd(flags *Flags, a *app.App) *RmCmd {
	return &RmCmd{flags: flags, app: a}
}

// Register adds the rm command to the application.
func (cmd *RmCmd) Register(root *cli.Command) *cli.Command {
	root.Commands = append(root.Commands, &cli.Command{
		Name:      "rm",
		Aliases:   []string{"remove"},
		Usage:     "Delete a task from the current session",
		UsageText: "burner rm <id>",
		Action:    cmd.run,
	})

	return root
}

func (cmd *RmCmd) run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one task id, got %d", c.Args().Len())
	}

	ref, err := cmd.app.RemoveItem(c.Args().First())
	if err := warnPersist(c.Root().Writer, err); err != nil {
		return err
	}

	fmt.Fprintf(c.Root().Writer, "removed %s from the %s\n", app.ShortID(ref.Item.ID), slotLabel(ref.Slot))
	return nil
}
