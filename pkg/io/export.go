package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/dependents/pkg/dependents"
)

// FormatVersion is written into every report file. ReadJSON accepts files
// without it for compatibility with hand-written fixtures.
const FormatVersion = 1

type document struct {
	Format int `json:"format"`
	*dependents.Report
}

// WriteJSON encodes a report as indented JSON and writes it to w.
// The output can be re-imported with [ReadJSON].
func WriteJSON(r *dependents.Report, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(document{Format: FormatVersion, Report: r}); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a report to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(r *dependents.Report, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(r, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
