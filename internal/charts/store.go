// Package charts renders tier charts into the artifact directory.
package charts

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cleared-dev/spendwise/internal/id"
)

// Store is the output directory for one run's artifacts.
type Store struct {
	Dir       string
	URLPrefix string // prepended to artifact names; empty means filesystem paths
}

// Reset creates Dir if needed and removes every regular file in it.
// Subdirectories are left alone.
func (s Store) Reset() error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return fmt.Errorf("reading output dir: %w", err)
	}
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		if err := os.Remove(filepath.Join(s.Dir, e.Name())); err != nil {
			return fmt.Errorf("clearing output dir: %w", err)
		}
	}
	return nil
}

// NewName returns a fresh PNG artifact name of the given kind.
func (s Store) NewName(kind string) string {
	return id.FormatArtifact(kind, "png")
}

// Path is where name lives on disk.
func (s Store) Path(name string) string {
	return filepath.Join(s.Dir, name)
}

// Ref is the reference handed back to callers for name.
func (s Store) Ref(name string) string {
	if s.URLPrefix == "" {
		return s.Path(name)
	}
	return strings.TrimRight(s.URLPrefix, "/") + "/" + name
}

// Artifacts lists the artifact names currently in Dir, keyed by kind.
func (s Store) Artifacts() (map[string][]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, fmt.Errorf("reading output dir: %w", err)
	}
	out := make(map[string][]string)
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		kind, _, err := id.ParseArtifact(e.Name())
		if err != nil {
			continue
		}
		out[kind] = append(out[kind], e.Name())
	}
	return out, nil
}
