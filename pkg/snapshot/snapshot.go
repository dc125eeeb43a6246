package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"malawi-news/pkg/domain"
)

// Writer replaces the snapshot file at Path with each call to Write
type Writer struct {
	Path string
}

// NewWriter creates a writer for the snapshot at path
func NewWriter(path string) *Writer {
	return &Writer{Path: path}
}

// Encode renders entries as an indented JSON array.
// Non-ASCII text and markup characters are written as-is.
func Encode(entries []domain.SnapshotEntry) ([]byte, error) {
	if entries == nil {
		entries = []domain.SnapshotEntry{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return buf.Bytes(), nil
}

// Write fully replaces the snapshot with entries, creating the parent directory if needed
func (w *Writer) Write(entries []domain.SnapshotEntry) error {
	data, err := Encode(entries)
	if err != nil {
		return err
	}

	dir := filepath.Dir(w.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(w.Path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp snapshot: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp snapshot: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to set snapshot permissions: %w", err)
	}

	if err := os.Rename(tmpPath, w.Path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace snapshot %s: %w", w.Path, err)
	}
	return nil
}

// Read loads a snapshot written by Writer
func Read(path string) ([]domain.SnapshotEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", path, err)
	}

	var entries []domain.SnapshotEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot %s: %w", path, err)
	}
	return entries, nil
}
