package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/colonyops/burner/internal/app"
	"github.com/colonyops/burner/internal/core/burner"
	"github.com/colonyops/burner/internal/core/styles"
	"github.com/colonyops/burner/internal/core/validate"
	"github.com/colonyops/burner/pkg/iojson"
)

// LsCmd implements the burner ls command.
type LsCmd struct {
	flags *Flags
	app   *app.App

	slot    string
	status  string
	jsonOut bool
}

// NewLsCmd creates a new ls command.
func NewLsCmd(flags *Flags, a *app.App) *LsCmd {
	return &LsCmd{flags: flags, app: a}
}

// Register adds the ls command to the application.
func (cmd *LsCmd) Register(root *cli.Command) *cli.Command {
	root.Commands = append(root.Commands, &cli.Command{
		Name:      "ls",
		Aliases:   []string{"list"},
		Usage:     "List tasks in the current session",
		UsageText: "burner ls [--slot <slot>] [--status <status>] [--json]",
		Description: `Lists the current session's tasks grouped by slot.

Examples:
  burner ls
  burner ls --slot sink
  burner ls --status open --json`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "slot",
				Aliases:     []string{"s"},
				Usage:       "only show one slot (front, back, sink)",
				Destination: &cmd.slot,
			},
			&cli.StringFlag{
				Name:        "status",
				Usage:       "filter by status (open, done, snoozed, dropped)",
				Destination: &cmd.status,
			},
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "emit items as JSON lines",
				Destination: &cmd.jsonOut,
			},
		},
		Action: cmd.run,
	})

	return root
}

// lsItem is the JSON-lines output shape: the item plus its owning slot.
type lsItem struct {
	Slot burner.SlotType `json:"slot"`
	burner.Item
}

func (cmd *LsCmd) run(ctx context.Context, c *cli.Command) error {
	if cmd.slot != "" {
		if err := validate.SlotField("slot", cmd.slot); err != nil {
			return err
		}
	}
	if cmd.status != "" {
		if err := validate.StatusField("status", cmd.status); err != nil {
			return err
		}
	}

	state := cmd.app.State()
	slots := burner.SlotTypes()
	if cmd.slot != "" {
		slots = []burner.SlotType{burner.SlotType(cmd.slot)}
	}

	if cmd.jsonOut {
		for _, t := range slots {
			for _, item := range state.Current.Slot(t).Items {
				if cmd.status != "" && item.Status != burner.Status(cmd.status) {
					continue
				}
				if err := iojson.WriteLine(c.Root().Writer, lsItem{Slot: t, Item: item}); err != nil {
					return err
				}
			}
		}
		return nil
	}

	var sb strings.Builder
	meta := state.Current.Meta
	header := fmt.Sprintf("%s session started %s", meta.PeriodType, meta.StartedAt.Format("Mon Jan 2"))
	if meta.Label != "" {
		header = meta.Label + ": " + header
	}
	sb.WriteString(styles.Title.Render(header) + "\n\n")

	for _, t := range slots {
		sb.WriteString(styles.SlotHeader.Render(strings.ToUpper(slotLabel(t))) + "\n")
		items := state.Current.Slot(t).Items
		shown := 0
		for _, item := range items {
			if cmd.status != "" && item.Status != burner.Status(cmd.status) {
				continue
			}
			renderItem(&sb, item)
			shown++
		}
		if shown == 0 {
			sb.WriteString(styles.TextMuted.Render("  (empty)") + "\n")
		}
		sb.WriteString("\n")
	}

	fmt.Fprint(c.Root().Writer, sb.String())
	return nil
}
