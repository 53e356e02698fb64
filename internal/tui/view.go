package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/colonyops/burner/internal/core/burner"
	"github.com/colonyops/burner/internal/core/styles"
)

const minColumnWidth = 24

// View implements tea.Model.
func (m Model) View() string {
	var sb strings.Builder

	meta := m.state.Current.Meta
	header := fmt.Sprintf("burner · %s session · %s", meta.PeriodType, meta.StartedAt.Format("Mon Jan 2"))
	if meta.Label != "" {
		header += " · " + meta.Label
	}
	sb.WriteString(styles.Title.Render(header) + "\n\n")

	colWidth := minColumnWidth
	if m.width > 0 {
		if w := m.width/3 - 4; w > colWidth {
			colWidth = w
		}
	}

	cols := make([]string, 0, 3)
	for i, t := range burner.SlotTypes() {
		cols = append(cols, m.renderColumn(i, t, colWidth))
	}
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cols...))
	sb.WriteString("\n")

	if m.adding {
		slot := burner.SlotTypes()[m.col]
		sb.WriteString(fmt.Sprintf("\nadd to %s: %s\n", slot, m.input.View()))
	} else if m.status != "" {
		sb.WriteString("\n" + styles.Warning.Render(m.status) + "\n")
	}

	sb.WriteString("\n" + styles.Help.Render(m.help.View(m.keys)))
	return sb.String()
}

func (m Model) renderColumn(i int, t burner.SlotType, width int) string {
	var sb strings.Builder

	title := columnTitle(t)
	sb.WriteString(styles.SlotHeader.Render(title) + "\n\n")

	items := m.state.Current.Slot(t).Items
	if len(items) == 0 {
		sb.WriteString(styles.TextMuted.Render("(empty)"))
	}

	for ii, item := range items {
		line := statusGlyph(item.Status) + " " + item.Content
		if n := doneSubtasks(item); len(item.Subtasks) > 0 {
			line += styles.TextMuted.Render(fmt.Sprintf(" [%d/%d]", n, len(item.Subtasks)))
		}
		if item.DueAt != nil {
			line += styles.Warning.Render(" !" + item.DueAt.Format("Jan 2"))
		}

		style := itemStyle(item.Status)
		if i == m.col && ii == m.cursor[i] {
			sb.WriteString(styles.Selected.Render("▸ ") + style.Render(line))
		} else {
			sb.WriteString("  " + style.Render(line))
		}
		sb.WriteString("\n")
	}

	return styles.Column.Width(width).Render(sb.String())
}

func columnTitle(t burner.SlotType) string {
	switch t {
	case burner.SlotFront:
		return "FRONT BURNER"
	case burner.SlotBack:
		return "BACK BURNER"
	case burner.SlotSink:
		return "SINK"
	}
	return strings.ToUpper(string(t))
}

func statusGlyph(s burner.Status) string {
	switch s {
	case burner.StatusDone:
		return "✓"
	case burner.StatusSnoozed:
		return "…"
	case burner.StatusDropped:
		return "✗"
	}
	return "○"
}

func itemStyle(s burner.Status) lipgloss.Style {
	switch s {
	case burner.StatusDone:
		return styles.Success
	case burner.StatusSnoozed:
		return styles.Warning
	case burner.StatusDropped:
		return styles.Dropped
	}
	return styles.Text
}

func doneSubtasks(item burner.Item) int {
	n := 0
	for _, sub := range item.Subtasks {
		if sub.Status == burner.StatusDone {
			n++
		}
	}
	return n
}
