package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/burner/internal/app"
	"github.com/colonyops/burner/internal/core/burner"
)

// SubCmd implements the burner sub command group.
type SubCmd struct {
	flags *Flags
	app   *app.App
}

// NewSubCmd creates a new sub command.
func NewSubCmd(flags *Flags, a *app.App) *SubCmd {
	return &SubCmd{flags: flags, app: a}
}

// Register adds the sub command group to the application.
func (cmd *SubCmd) Register(root *cli.Command) *cli.Command {
	root.Commands = append(root.Commands, &cli.Command{
		Name:      "sub",
		Usage:     "Manage subtasks on front and back burner tasks",
		UsageText: "burner sub <command>",
		Description: `Subtasks are lightweight checklist entries on a task. Only tasks
on the front or back burner accept subtask edits; promote a sink task
first.`,
		Commands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Add a subtask to a task",
				UsageText: "burner sub add <id> <content>...",
				Action:    cmd.runAdd,
			},
			{
				Name:      "toggle",
				Usage:     "Flip a subtask between open and done",
				UsageText: "burner sub toggle <id> <subtask-id>",
				Action:    cmd.runToggle,
			},
		},
	})

	return root
}

func (cmd *SubCmd) runAdd(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() < 2 {
		return fmt.Errorf("usage: burner sub add <id> <content>...")
	}

	content := strings.Join(c.Args().Slice()[1:], " ")
	sub, err := cmd.app.AddSubtask(c.Args().First(), content)
	if err := warnPersist(c.Root().Writer, err); err != nil {
		return err
	}

	fmt.Fprintf(c.Root().Writer, "added subtask %s\n", app.ShortID(sub.ID))
	return nil
}

func (cmd *SubCmd) runToggle(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 2 {
		return fmt.Errorf("usage: burner sub toggle <id> <subtask-id>")
	}

	sub, err := cmd.app.ToggleSubtask(c.Args().Get(0), c.Args().Get(1))
	if err := warnPersist(c.Root().Writer, err); err != nil {
		return err
	}

	state := "open"
	if sub.Status == burner.StatusDone {
		state = "done"
	}
	fmt.Fprintf(c.Root().Writer, "subtask %s is now %s\n", app.ShortID(sub.ID), state)
	return nil
}
