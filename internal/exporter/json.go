package exporter

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
)

// JSONWriter writes aggregation results as JSON array-of-objects artifacts
type JSONWriter struct {
	logger *slog.Logger
}

// NewJSONWriter creates a new JSON artifact writer
func NewJSONWriter(logger *slog.Logger) *JSONWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &JSONWriter{logger: logger}
}

// WriteArtifact marshals rows (a slice of result structs) to path, creating
// parent directories as needed, and returns the row count. A nil or empty
// slice writes the empty array "[]" — an empty result set is a valid
// artifact, not a failure.
func (w *JSONWriter) WriteArtifact(path string, rows any) (int, error) {
	count, err := rowCount(rows)
	if err != nil {
		return 0, err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	data, err := json.Marshal(rows)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal artifact: %w", err)
	}
	if count == 0 {
		data = []byte("[]")
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return 0, fmt.Errorf("failed to write artifact: %w", err)
	}

	w.logger.Info("wrote artifact",
		slog.String("path", path),
		slog.Int("rows", count))

	return count, nil
}

// rowCount returns the length of the slice behind rows
func rowCount(rows any) (int, error) {
	v := reflect.ValueOf(rows)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Slice {
		return 0, fmt.Errorf("artifact rows must be a slice, got %T", rows)
	}
	return v.Len(), nil
}
