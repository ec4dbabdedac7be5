package snapshot

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"

	"mortsig/internal/logger"
	"mortsig/pkg/manifest"
)

// Writer publishes snapshots into a target directory using a
// write-to-temp-then-swap scheme: either the whole snapshot appears or
// the previous one stays untouched.
type Writer struct {
	dir      string
	writeCSV bool
	log      *logger.Logger
}

// NewWriter creates a writer publishing into dir. When writeCSV is set,
// the long table is additionally written as CSV for direct BI import.
func NewWriter(dir string, writeCSV bool, log *logger.Logger) *Writer {
	return &Writer{dir: dir, writeCSV: writeCSV, log: log}
}

// Publish writes all tables of snap into a temporary directory next to
// the target, signs the manifest, and atomically swaps the directory
// into place. In-flight readers of the previous snapshot keep their open
// files; they are unaffected by the swap.
func (w *Writer) Publish(snap *Snapshot) (err error) {
	parent := filepath.Dir(w.dir)
	if err := os.MkdirAll(parent, 0755); err != nil {
		return fmt.Errorf("failed to create snapshot parent directory: %w", err)
	}

	tmp, err := os.MkdirTemp(parent, ".snapshot-*")
	if err != nil {
		return fmt.Errorf("failed to create staging directory: %w", err)
	}

	defer func() {
		if err != nil {
			os.RemoveAll(tmp)
		}
	}()

	rows, err := w.writeTables(tmp, snap)
	if err != nil {
		return err
	}

	m, err := manifest.Build(tmp, rows)
	if err != nil {
		return fmt.Errorf("failed to build manifest: %w", err)
	}

	if err = m.Write(tmp); err != nil {
		return err
	}

	return w.swap(tmp)
}

func (w *Writer) writeTables(dir string, snap *Snapshot) (map[string]int, error) {
	rows := make(map[string]int)

	if err := writeParquet(filepath.Join(dir, FileCauseDeaths), snap.CauseDeaths); err != nil {
		return nil, err
	}

	rows[FileCauseDeaths] = len(snap.CauseDeaths)

	if err := writeParquet(filepath.Join(dir, FileGlobalByYear), snap.GlobalByYear); err != nil {
		return nil, err
	}

	rows[FileGlobalByYear] = len(snap.GlobalByYear)

	if err := writeParquet(filepath.Join(dir, FileEntityByYear), snap.EntityByYear); err != nil {
		return nil, err
	}

	rows[FileEntityByYear] = len(snap.EntityByYear)

	if err := writeParquet(filepath.Join(dir, FileCauseByYear), snap.CauseByYear); err != nil {
		return nil, err
	}

	rows[FileCauseByYear] = len(snap.CauseByYear)

	if err := writeParquet(filepath.Join(dir, FileCauseMix), snap.CauseMix); err != nil {
		return nil, err
	}

	rows[FileCauseMix] = len(snap.CauseMix)

	if err := writeParquet(filepath.Join(dir, FileAnomalies), snap.Anomalies); err != nil {
		return nil, err
	}

	rows[FileAnomalies] = len(snap.Anomalies)

	if w.writeCSV {
		if err := writeLongCSV(filepath.Join(dir, FileCauseDeathsCSV), snap.CauseDeaths); err != nil {
			return nil, err
		}

		rows[FileCauseDeathsCSV] = len(snap.CauseDeaths)
	}

	if snap.Profile != "" {
		if err := os.WriteFile(filepath.Join(dir, FileProfile), []byte(snap.Profile), 0644); err != nil {
			return nil, fmt.Errorf("failed to write profile: %w", err)
		}
	}

	return rows, nil
}

func writeParquet[T any](path string, rows []T) error {
	if err := parquet.WriteFile(path, rows); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}

	return nil
}

// swap moves the staged directory into place. The previous snapshot is
// renamed aside first so a crash between the two renames still leaves a
// complete directory on disk.
func (w *Writer) swap(tmp string) error {
	old := w.dir + ".old"

	if _, err := os.Stat(w.dir); err == nil {
		// Leftover from an earlier interrupted swap.
		if err := os.RemoveAll(old); err != nil {
			return fmt.Errorf("failed to clear previous snapshot backup: %w", err)
		}

		if err := os.Rename(w.dir, old); err != nil {
			return fmt.Errorf("failed to move previous snapshot aside: %w", err)
		}
	}

	if err := os.Rename(tmp, w.dir); err != nil {
		// Try to restore the previous snapshot before giving up.
		if _, statErr := os.Stat(old); statErr == nil {
			if restoreErr := os.Rename(old, w.dir); restoreErr != nil && w.log != nil {
				w.log.Error("failed to restore previous snapshot", "error", restoreErr)
			}
		}

		return fmt.Errorf("failed to publish snapshot: %w", err)
	}

	if err := os.RemoveAll(old); err != nil && w.log != nil {
		w.log.Warn("failed to remove previous snapshot backup", "error", err)
	}

	return nil
}
