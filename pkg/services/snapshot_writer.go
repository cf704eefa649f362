package services

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
)

// CSVSnapshotWriter dumps the last built vector of each kind to
// <dir>/user_dataset_<kind>.csv. Files are overwritten on every build and never read back.
type CSVSnapshotWriter struct {
	dir string
	mu  sync.Mutex
}

// NewCSVSnapshotWriter returns nil when dir is empty, which disables snapshots
func NewCSVSnapshotWriter(dir string) *CSVSnapshotWriter {
	if dir == "" {
		return nil
	}
	return &CSVSnapshotWriter{dir: dir}
}

// Path returns the snapshot file of a kind
func (w *CSVSnapshotWriter) Path(kind string) string {
	return filepath.Join(w.dir, "user_dataset_"+kind+".csv")
}

// Snapshot writes v. Failures are logged and never reach the caller.
func (w *CSVSnapshotWriter) Snapshot(kind string, v *FeatureVector) {
	if w == nil {
		return
	}
	if err := w.write(kind, v); err != nil {
		builderLog.WithError(err).WithField("kind", kind).Warn("failed to write feature snapshot")
	}
}

func (w *CSVSnapshotWriter) write(kind string, v *FeatureVector) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}
	file, err := os.Create(w.Path(kind))
	if err != nil {
		return fmt.Errorf("failed to create snapshot file: %w", err)
	}
	defer file.Close()

	// UTF-8 BOM so spreadsheet tools read the accented column names
	if _, err := file.WriteString("\ufeff"); err != nil {
		return err
	}

	writer := csv.NewWriter(file)
	if err := writer.Write(v.Columns()); err != nil {
		return fmt.Errorf("failed to write snapshot header: %w", err)
	}
	row := make([]string, 0, v.Len())
	for _, x := range v.values {
		row = append(row, strconv.FormatFloat(x, 'f', -1, 64))
	}
	if err := writer.Write(row); err != nil {
		return fmt.Errorf("failed to write snapshot row: %w", err)
	}
	writer.Flush()
	return writer.Error()
}
