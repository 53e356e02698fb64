package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/burner/internal/app"
)

// DemoteCmd implements the burner demote command.
type DemoteCmd struct {
	flags *Flags
	app   *app.App
}

// NewDemoteCmd creates a new demote command.
func NewDemoteCmd(flags *Flags, a *app.App) *DemoteCmd {
	return &DemoteCmd{flags: flags, app: a}
}

// Register adds the demote command to the application.
func (cmd *DemoteCmd) Register(root *cli.Command) *cli.Command {
	root.Commands = append(root.Commands, &cli.Command{
		Name:      "demote",
		Aliases:   []string{"down"},
		Usage:     "Move a task one step toward the sink",
		UsageText: "burner demote <id>",
		Description: `Moves a task down one slot: front burner to back burner, back
burner to sink. Demotion marks the task dropped. The id may be any
unique prefix.`,
		Action: cmd.run,
	})

	return root
}

func (cmd *DemoteCmd) run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one task id, got %d", c.Args().Len())
	}

	ref, err := cmd.app.Demote(c.Args().First())
	if err := warnPersist(c.Root().Writer, err); err != nil {
		return err
	}

	fmt.Fprintf(c.Root().Writer, "%s is now in the %s\n", app.ShortID(ref.Item.ID), slotLabel(ref.Slot))
	return nil
}
