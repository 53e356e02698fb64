package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/burner/internal/app"
	"github.com/colonyops/burner/internal/core/burner"
	"github.com/colonyops/burner/pkg/iojson"
)

// HistoryCmd implements the burner history command group.
type HistoryCmd struct {
	flags *Flags
	app   *app.App

	label   string
	jsonOut bool
}

// NewHistoryCmd creates a new history command.
func NewHistoryCmd(flags *Flags, a *app.App) *HistoryCmd {
	return &HistoryCmd{flags: flags, app: a}
}

// Register adds the history command group to the application.
func (cmd *HistoryCmd) Register(root *cli.Command) *cli.Command {
	root.Commands = append(root.Commands, &cli.Command{
		Name:      "history",
		Aliases:   []string{"hist"},
		Usage:     "Browse archived sessions",
		UsageText: "burner history <command>",
		Commands: []*cli.Command{
			{
				Name:      "ls",
				Usage:     "List archived sessions, oldest first",
				UsageText: "burner history ls [--label <glob>] [--json]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "label",
						Aliases:     []string{"l"},
						Usage:       "filter by session label glob",
						Destination: &cmd.label,
					},
					&cli.BoolFlag{
						Name:        "json",
						Usage:       "emit sessions as JSON lines",
						Destination: &cmd.jsonOut,
					},
				},
				Action: cmd.runLs,
			},
			{
				Name:      "show",
				Usage:     "Render an archived session (1 = most recent)",
				UsageText: "burner history show [n]",
				Action:    cmd.runShow,
			},
		},
	})

	return root
}

func (cmd *HistoryCmd) runLs(ctx context.Context, c *cli.Command) error {
	sessions, err := cmd.app.History(cmd.label)
	if err != nil {
		return err
	}

	if cmd.jsonOut {
		for _, sess := range sessions {
			if err := iojson.WriteLine(c.Root().Writer, sess); err != nil {
				return err
			}
		}
		return nil
	}

	if len(sessions) == 0 {
		fmt.Fprintln(c.Root().Writer, "no archived sessions")
		return nil
	}

	for i, sess := range sessions {
		label := sess.Meta.Label
		if label == "" {
			label = "(no label)"
		}
		fmt.Fprintf(c.Root().Writer, "%3d  %s  %-4s  %-24s  %d tasks\n",
			len(sessions)-i,
			sess.Meta.StartedAt.Format("2006-01-02"),
			sess.Meta.PeriodType,
			label,
			sess.ItemCount(),
		)
	}
	return nil
}

func (cmd *HistoryCmd) runShow(ctx context.Context, c *cli.Command) error {
	sessions, err := cmd.app.History("")
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		return fmt.Errorf("no archived sessions")
	}

	n := 1
	if c.Args().Len() > 0 {
		n, err = strconv.Atoi(c.Args().First())
		if err != nil || n < 1 || n > len(sessions) {
			return fmt.Errorf("session number must be between 1 and %d", len(sessions))
		}
	}
	sess := sessions[len(sessions)-n]

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return fmt.Errorf("markdown renderer: %w", err)
	}

	out, err := renderer.Render(sessionMarkdown(sess))
	if err != nil {
		return fmt.Errorf("render session: %w", err)
	}

	fmt.Fprint(c.Root().Writer, out)
	return nil
}

// sessionMarkdown formats an archived session as a markdown document for
// terminal rendering.
func sessionMarkdown(sess burner.Session) string {
	var sb strings.Builder

	title := sess.Meta.StartedAt.Format("Monday, January 2 2006")
	if sess.Meta.Label != "" {
		title = sess.Meta.Label + " (" + title + ")"
	}
	fmt.Fprintf(&sb, "# %s\n\n_%s session_\n", title, sess.Meta.PeriodType)

	for _, t := range burner.SlotTypes() {
		items := sess.Slot(t).Items
		if len(items) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "\n## %s\n\n", slotLabel(t))
		for _, item := range items {
			check := " "
			if item.Status == burner.StatusDone {
				check = "x"
			}
			fmt.Fprintf(&sb, "- [%s] %s", check, item.Content)
			if item.Status == burner.StatusSnoozed || item.Status == burner.StatusDropped {
				fmt.Fprintf(&sb, " *(%s)*", item.Status)
			}
			sb.WriteString("\n")
			for _, sub := range item.Subtasks {
				check = " "
				if sub.Status == burner.StatusDone {
					check = "x"
				}
				fmt.Fprintf(&sb, "  - [%s] %s\n", check, sub.Content)
			}
		}
	}

	return sb.String()
}
