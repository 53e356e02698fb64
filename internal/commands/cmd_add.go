package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/burner/internal/app"
	"github.com/colonyops/burner/internal/core/burner"
)

// AddCmd implements the burner add command.
type AddCmd struct {
	flags *Flags
	app   *app.App

	slot     string
	subtasks []string
}

// NewAddCmd creates a new add command.
func NewAddCmd(flags *Flags, a *app.App) *AddCmd {
	return &AddCmd{flags: flags, app: a}
}

// Register adds the add command to the application.
func (cmd *AddCmd) Register(root *cli.Command) *cli.Command {
	root.Commands = append(root.Commands, &cli.Command{
		Name:      "add",
		Usage:     "Add a task",
		UsageText: "burner add [--slot <slot>] [--sub <subtask>]... [content...]",
		Description: `Adds a new open task. With no content arguments an interactive
form prompts for the task and its subtasks.

New tasks land in the sink by default; triage them upward with
"burner promote".

Examples:
  burner add Buy milk
  burner add --slot back "Ship the release" --sub "tag" --sub "changelog"
  burner add`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "slot",
				Aliases:     []string{"s"},
				Usage:       "slot to add into (front, back, sink)",
				Value:       string(burner.SlotSink),
				Destination: &cmd.slot,
			},
			&cli.StringSliceFlag{
				Name:        "sub",
				Usage:       "subtask content (repeatable)",
				Destination: &cmd.subtasks,
			},
		},
		Action: cmd.run,
	})

	return root
}

func (cmd *AddCmd) run(ctx context.Context, c *cli.Command) error {
	content := strings.Join(c.Args().Slice(), " ")

	if strings.TrimSpace(content) == "" {
		var err error
		content, err = cmd.runForm()
		if err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return fmt.Errorf("form: %w", err)
		}
	}

	item, err := cmd.app.AddItem(burner.SlotType(cmd.slot), content, cmd.subtasks)
	if err != nil {
		if err = warnPersist(c.Root().ErrWriter, err); err != nil {
			return err
		}
	}

	fmt.Fprintf(c.Root().Writer, "added %s to %s (%s)\n", item.Content, slotLabel(burner.SlotType(cmd.slot)), app.ShortID(item.ID))
	return nil
}

// runForm collects the task interactively.
func (cmd *AddCmd) runForm() (string, error) {
	var (
		content string
		subs    string
	)

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Task").
				Placeholder("What needs doing?").
				Value(&content),
			huh.NewText().
				Title("Subtasks").
				Description("One per line, optional").
				Value(&subs),
		),
	)

	if err := form.Run(); err != nil {
		return "", err
	}

	for _, line := range strings.Split(subs, "\n") {
		if s := strings.TrimSpace(line); s != "" {
			cmd.subtasks = append(cmd.subtasks, s)
		}
	}

	return content, nil
}
