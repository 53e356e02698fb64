package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/burner/internal/app"
)

// PromoteCmd implements the burner promote command.
type PromoteCmd struct {
	flags *Flags
	app   *app.App
}

// NewPromoteCmd creates a new promote command.
func NewPromoteCmd(flags *Flags, a *app.App) *PromoteCmd {
	return &PromoteCmd{flags: flags, app: a}
}

// Register adds the promote command to the application.
func (cmd *PromoteCmd) Register(root *cli.Command) *cli.Command {
	root.Commands = append(root.Commands, &cli.Command{
		Name:      "promote",
		Aliases:   []string{"up"},
		Usage:     "Move a task one step toward the front burner",
		UsageText: "burner promote <id>",
		Description: `Moves a task up one slot: sink to back burner, back burner to
front burner. Promoting into an occupied front burner bumps the current
front task back down as dropped. The id may be any unique prefix.`,
		Action: cmd.run,
	})

	return root
}

func (cmd *PromoteCmd) run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one task id, got %d", c.Args().Len())
	}

	ref, err := cmd.app.Promote(c.Args().First())
	if err := warnPersist(c.Root().Writer, err); err != nil {
		return err
	}

	fmt.Fprintf(c.Root().Writer, "%s is now on the %s\n", app.ShortID(ref.Item.ID), slotLabel(ref.Slot))
	return nil
}
