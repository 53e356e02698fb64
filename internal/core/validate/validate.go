// Package validate provides shared validation functions. Validation runs
// at the command boundary; store transitions never validate and never fail.
package validate

import (
	"fmt"
	"strings"

	"github.com/hay-kot/criterio"

	"github.com/colonyops/burner/internal/core/burner"
)

// Content validates that task or subtask text is non-empty after trimming.
func Content(content string) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("content is required")
	}
	return nil
}

// ContentField returns a criterio validator result for item content.
func ContentField(field, content string) error {
	return criterio.Run(field, content, Content)
}

// Period validates a period type name.
func Period(period string) error {
	if !burner.PeriodType(period).IsValid() {
		return fmt.Errorf("must be one of day, week")
	}
	return nil
}

// PeriodField returns a criterio validator result for a period name.
func PeriodField(field, period string) error {
	return criterio.Run(field, period, Period)
}

// Slot validates a slot type name.
func Slot(slot string) error {
	if !burner.SlotType(slot).IsValid() {
		return fmt.Errorf("must be one of front, back, sink")
	}
	return nil
}

// SlotField returns a criterio validator result for a slot name.
func SlotField(field, slot string) error {
	return criterio.Run(field, slot, Slot)
}

// Status validates an item status name.
func Status(status string) error {
	if !burner.Status(status).IsValid() {
		return fmt.Errorf("must be one of open, done, snoozed, dropped")
	}
	return nil
}

// StatusField returns a criterio validator result for a status name.
func StatusField(field, status string) error {
	return criterio.Run(field, status, Status)
}
