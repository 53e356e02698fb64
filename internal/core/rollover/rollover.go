// Package rollover decides when a session's period has ended and a new
// one should begin. It is a point-in-time check run at startup, not a
// background scheduler.
package rollover

import (
	"time"

	"github.com/colonyops/burner/internal/core/burner"
)

// Due reports whether the period boundary between startedAt and now has
// been crossed. Calendar comparisons happen in now's location so a state
// file written in one timezone still rolls over on the local wall clock.
//
//   - day: the calendar date (year, month, day) differs
//   - week: the ISO-8601 week number or ISO week-numbering year differs
func Due(startedAt, now time.Time, period burner.PeriodType) bool {
	started := startedAt.In(now.Location())

	switch period {
	case burner.PeriodDay:
		sy, sm, sd := started.Date()
		ny, nm, nd := now.Date()
		return sy != ny || sm != nm || sd != nd
	case burner.PeriodWeek:
		sy, sw := started.ISOWeek()
		ny, nw := now.ISOWeek()
		return sy != ny || sw != nw
	}

	return false
}
