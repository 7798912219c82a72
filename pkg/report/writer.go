package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Writer handles writing the run report artifact
type Writer struct {
	path string
}

// NewWriter creates a writer for the JSON report at path
func NewWriter(path string) *Writer {
	return &Writer{
		path: path,
	}
}

// Path returns the report path
func (w *Writer) Path() string {
	return w.path
}

// WriteJSON writes the full report as indented JSON
func (w *Writer) WriteJSON(r *Report) error {
	if dir := filepath.Dir(w.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run report: %w", err)
	}

	if writeErr := os.WriteFile(w.path, data, 0600); writeErr != nil {
		return fmt.Errorf("failed to write run report: %w", writeErr)
	}

	return nil
}
