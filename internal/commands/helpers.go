package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/colonyops/burner/internal/app"
	"github.com/colonyops/burner/internal/core/burner"
	"github.com/colonyops/burner/internal/core/styles"
	"github.com/colonyops/burner/internal/store"
)

// dueLayouts are the accepted --due formats, most specific first.
var dueLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02",
}

// parseDue parses a due timestamp. Date-only input means end of that day
// in local time.
func parseDue(s string) (time.Time, error) {
	for _, layout := range dueLayouts {
		t, err := time.ParseInLocation(layout, s, time.Local)
		if err != nil {
			continue
		}
		if layout == "2006-01-02" {
			t = t.Add(24*time.Hour - time.Second)
		}
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unrecognized due date %q (want YYYY-MM-DD, YYYY-MM-DD HH:MM, or RFC3339)", s)
}

// warnPersist downgrades a persistence failure to a printed warning.
// The in-memory transition already succeeded; the command should not fail.
func warnPersist(w io.Writer, err error) error {
	var pe *store.PersistError
	if errors.As(err, &pe) {
		fmt.Fprintf(w, "warning: %s\n", pe.Error())
		return nil
	}
	return err
}

// slotLabel maps slot types to display names. Presentation only; the core
// never sees these strings.
func slotLabel(t burner.SlotType) string {
	switch t {
	case burner.SlotFront:
		return "front burner"
	case burner.SlotBack:
		return "back burner"
	case burner.SlotSink:
		return "sink"
	}
	return string(t)
}

func statusIcon(s burner.Status) string {
	switch s {
	case burner.StatusOpen:
		return "○"
	case burner.StatusDone:
		return "✓"
	case burner.StatusSnoozed:
		return "…"
	case burner.StatusDropped:
		return "✗"
	}
	return "?"
}

func statusStyle(s burner.Status) func(...string) string {
	switch s {
	case burner.StatusDone:
		return styles.Success.Render
	case burner.StatusSnoozed:
		return styles.Warning.Render
	case burner.StatusDropped:
		return styles.Dropped.Render
	}
	return styles.Text.Render
}

// renderItem formats a single item line plus indented subtask lines.
func renderItem(sb *strings.Builder, item burner.Item) {
	render := statusStyle(item.Status)
	fmt.Fprintf(sb, "  %s %s  %s", statusIcon(item.Status), styles.TextMuted.Render(app.ShortID(item.ID)), render(item.Content))
	if item.DueAt != nil {
		fmt.Fprintf(sb, " %s", styles.Warning.Render("(due "+item.DueAt.Format("2006-01-02")+")"))
	}
	sb.WriteString("\n")

	for _, sub := range item.Subtasks {
		icon := "○"
		if sub.Status == burner.StatusDone {
			icon = "✓"
		}
		fmt.Fprintf(sb, "      %s %s  %s\n", icon, styles.TextMuted.Render(app.ShortID(sub.ID)), sub.Content)
	}
}
