package snapshot

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"

	"mortsig/internal/models"
	"mortsig/pkg/manifest"
)

// Load reads a published snapshot into memory after verifying its
// manifest. The returned Snapshot is a fresh value owned by the caller;
// the serving layer holds it as an immutable, read-only view.
func Load(dir string) (*Snapshot, error) {
	if _, err := manifest.Verify(dir); err != nil {
		return nil, fmt.Errorf("snapshot verification failed: %w", err)
	}

	snap := &Snapshot{}

	var err error

	if snap.CauseDeaths, err = readParquet[models.CauseDeath](dir, FileCauseDeaths); err != nil {
		return nil, err
	}

	if snap.GlobalByYear, err = readParquet[models.GlobalYear](dir, FileGlobalByYear); err != nil {
		return nil, err
	}

	if snap.EntityByYear, err = readParquet[models.EntityYear](dir, FileEntityByYear); err != nil {
		return nil, err
	}

	if snap.CauseByYear, err = readParquet[models.CauseYear](dir, FileCauseByYear); err != nil {
		return nil, err
	}

	if snap.CauseMix, err = readParquet[models.CauseMixShare](dir, FileCauseMix); err != nil {
		return nil, err
	}

	if snap.Anomalies, err = readParquet[models.Anomaly](dir, FileAnomalies); err != nil {
		return nil, err
	}

	if profile, readErr := os.ReadFile(filepath.Join(dir, FileProfile)); readErr == nil {
		snap.Profile = string(profile)
	}

	return snap, nil
}

func readParquet[T any](dir, name string) ([]T, error) {
	rows, err := parquet.ReadFile[T](filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	return rows, nil
}
