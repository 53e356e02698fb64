package commands

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/colonyops/burner/internal/app"
	"github.com/colonyops/burner/internal/store/jsonfile"
	"github.com/colonyops/burner/internal/tui"
)

// TuiCmd runs the interactive board. It is also the root command's
// default action.
type TuiCmd struct {
	flags *Flags
	app   *app.App
}

// NewTuiCmd creates a new tui command.
func NewTuiCmd(flags *Flags, a *app.App) *TuiCmd {
	return &TuiCmd{flags: flags, app: a}
}

// Register adds the tui command to the application.
func (cmd *TuiCmd) Register(root *cli.Command) *cli.Command {
	root.Commands = append(root.Commands, &cli.Command{
		Name:      "board",
		Aliases:   []string{"tui"},
		Usage:     "Open the interactive board",
		UsageText: "burner board",
		Action:    cmd.Run,
	})

	return root
}

// Run starts the board. Exported so the root command can use it as its
// default action.
func (cmd *TuiCmd) Run(ctx context.Context, c *cli.Command) error {
	var changes <-chan struct{}

	if cmd.app.StatePath != "" {
		watcher, err := jsonfile.NewWatcher(cmd.app.StatePath)
		if err == nil {
			defer watcher.Close()
			changes = watcher.Watch(ctx)
		}
	}

	program := tea.NewProgram(tui.New(cmd.app, changes), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run board: %w", err)
	}
	return nil
}
