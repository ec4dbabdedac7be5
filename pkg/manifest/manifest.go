// Package manifest signs and verifies snapshot directories: a YAML
// manifest records row counts and content hashes for every table file,
// so the serving layer can detect a tampered or half-copied snapshot.
package manifest

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is the manifest file name inside a snapshot directory.
const FileName = "manifest.yaml"

// Version identifies the manifest schema.
const Version = "1"

// Manifest verification errors.
var (
	ErrNoManifest   = errors.New("no manifest found in snapshot directory")
	ErrFileMissing  = errors.New("file listed in manifest is missing")
	ErrHashMismatch = errors.New("file hash does not match manifest")
)

// FileInfo describes one table file in a snapshot.
type FileInfo struct {
	Rows   int    `yaml:"rows"`
	SHA256 string `yaml:"sha256"`
}

// Manifest describes a complete snapshot.
type Manifest struct {
	Version   string              `yaml:"version"`
	CreatedAt time.Time           `yaml:"created_at"`
	Files     map[string]FileInfo `yaml:"files"`
}

// Build hashes every regular file in dir (except the manifest itself)
// and records the given per-file row counts. Files without a row count
// entry are recorded with zero rows.
func Build(dir string, rows map[string]int) (*Manifest, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot directory: %w", err)
	}

	m := &Manifest{
		Version:   Version,
		CreatedAt: time.Now().UTC(),
		Files:     make(map[string]FileInfo),
	}

	for _, entry := range entries {
		if entry.IsDir() || entry.Name() == FileName {
			continue
		}

		sum, hashErr := hashFile(filepath.Join(dir, entry.Name()))
		if hashErr != nil {
			return nil, hashErr
		}

		m.Files[entry.Name()] = FileInfo{
			Rows:   rows[entry.Name()],
			SHA256: sum,
		}
	}

	return m, nil
}

// Write saves the manifest into dir.
func (m *Manifest) Write(dir string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, FileName), data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	return nil
}

// Load reads the manifest from dir without verifying file hashes.
func Load(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoManifest, dir)
		}

		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	return &m, nil
}

// Verify loads the manifest from dir and re-hashes every listed file.
func Verify(dir string) (*Manifest, error) {
	m, err := Load(dir)
	if err != nil {
		return nil, err
	}

	for name, info := range m.Files {
		path := filepath.Join(dir, name)

		sum, hashErr := hashFile(path)
		if hashErr != nil {
			if os.IsNotExist(errors.Unwrap(hashErr)) || os.IsNotExist(hashErr) {
				return nil, fmt.Errorf("%w: %s", ErrFileMissing, name)
			}

			return nil, hashErr
		}

		if sum != info.SHA256 {
			return nil, fmt.Errorf("%w: %s", ErrHashMismatch, name)
		}
	}

	return m, nil
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash %s: %w", path, err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
