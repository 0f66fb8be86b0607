// Package storage persists the extracted series as the JSON document read by
// the public site.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"ufscraper/internal/models"
)

// TimestampLayout renders updated_at as ISO-8601 with microseconds and offset.
const TimestampLayout = "2006-01-02T15:04:05.000000-07:00"

// ErrNoRecords is returned instead of writing a document with an empty series.
var ErrNoRecords = errors.New("refusing to save empty series")

// Writer saves datasets to disk.
type Writer struct {
	now func() time.Time
}

// WriterOption customizes a Writer.
type WriterOption func(*Writer)

// WithClock replaces time.Now as the source of updated_at.
func WithClock(now func() time.Time) WriterOption {
	return func(w *Writer) {
		w.now = now
	}
}

// NewWriter creates a writer stamping documents with the local time.
func NewWriter(opts ...WriterOption) *Writer {
	w := &Writer{now: time.Now}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// NewDataset wraps records with the retrieval metadata.
func (w *Writer) NewDataset(records []models.DateValueRecord, source string) *models.Dataset {
	return &models.Dataset{
		Data:      records,
		UpdatedAt: w.now().Format(TimestampLayout),
		Source:    source,
	}
}

// Save writes records to outputPath. The file is replaced atomically, so a
// failed save leaves any previous document untouched.
func (w *Writer) Save(records []models.DateValueRecord, source, outputPath string) (*models.Dataset, error) {
	if len(records) == 0 {
		return nil, ErrNoRecords
	}

	dataset := w.NewDataset(records, source)

	jsonData, err := json.MarshalIndent(dataset, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if err := writeFileAtomic(outputPath, append(jsonData, '\n')); err != nil {
		return nil, err
	}

	return dataset, nil
}

// Load reads a document previously written by Save.
func Load(path string) (*models.Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var dataset models.Dataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return &dataset, nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	tmpName := tmp.Name()

	defer func() {
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()

		return fmt.Errorf("failed to write file: %w", err)
	}

	if err := tmp.Chmod(0644); err != nil {
		_ = tmp.Close()

		return fmt.Errorf("failed to set permissions: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}

	return nil
}
