// Package iojson contains utilities for writing JSON output from a
// command line interface perspective.
package iojson

import (
	"encoding/json"
	"fmt"
	"io"
)

// Write marshals obj with indentation and writes it to w, for single
// objects meant to be read by a human or piped to a tool.
func Write(w io.Writer, obj any) error {
	bits, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}

	_, err = fmt.Fprintln(w, string(bits))
	return err
}

// WriteLine marshals obj compactly onto a single line, for list output
// consumed as JSON lines.
func WriteLine(w io.Writer, obj any) error {
	bits, err := json.Marshal(obj)
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}

	_, err = fmt.Fprintln(w, string(bits))
	return err
}
