// Package output persists the reconciled schedule as a JSON document. The
// write is gated on a content hash so downstream watchers only ever see a
// new mtime when the schedule actually changed.
package output

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/fortuna/kickoff/internal/schedule"
)

// Writer serializes match sets to a file.
type Writer struct {
	path string
	log  *zap.Logger
}

// NewWriter creates a writer targeting path.
func NewWriter(path string, log *zap.Logger) *Writer {
	return &Writer{path: path, log: log}
}

// Path returns the output file location.
func (w *Writer) Path() string {
	return w.path
}

// Encode renders matches as the canonical indented JSON document. Output
// is deterministic for a given match set: array order is the set's
// insertion order and keys follow the struct layout.
func Encode(matches []*schedule.Match) ([]byte, error) {
	data, err := json.MarshalIndent(matches, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode schedule: %w", err)
	}
	return append(data, '\n'), nil
}

// Write persists the match set, skipping the disk write when the encoded
// content hash matches the file already on disk. Returns true when the
// file changed.
func (w *Writer) Write(matches []*schedule.Match) (bool, error) {
	data, err := Encode(matches)
	if err != nil {
		return false, err
	}

	newHash := sha256.Sum256(data)
	if existing, err := os.ReadFile(w.path); err == nil {
		if sha256.Sum256(existing) == newHash {
			w.log.Info("schedule unchanged, skipping write",
				zap.String("path", w.path),
				zap.String("hash", hex.EncodeToString(newHash[:8])))
			return false, nil
		}
	}

	if dir := filepath.Dir(w.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return false, fmt.Errorf("create output directory: %w", err)
		}
	}

	// Write-then-rename so readers never observe a partial document.
	tmp := w.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return false, fmt.Errorf("write schedule: %w", err)
	}
	if err := os.Rename(tmp, w.path); err != nil {
		os.Remove(tmp)
		return false, fmt.Errorf("replace schedule: %w", err)
	}

	w.log.Info("schedule written",
		zap.String("path", w.path), zap.Int("matches", len(matches)),
		zap.String("hash", hex.EncodeToString(newHash[:8])))
	return true, nil
}
