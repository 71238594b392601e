// Package reportstore keeps generated report files until they are downloaded
// or expire.
package reportstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"finassist/internal/report"
)

// ErrNotFound is returned when a report does not exist or its name is not
// an allow-listed report filename.
var ErrNotFound = errors.New("report not found")

// Store persists report files by name.
type Store interface {
	Save(ctx context.Context, name string, data []byte) error
	Open(ctx context.Context, name string) ([]byte, error)
	// Purge removes reports last modified before cutoff and reports how many went.
	Purge(ctx context.Context, cutoff time.Time) (int, error)
}

// Local stores reports as files in a single directory.
type Local struct {
	dir string
}

// NewLocal creates the directory if needed.
func NewLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create reports dir %q: %w", dir, err)
	}
	return &Local{dir: dir}, nil
}

func (l *Local) Save(_ context.Context, name string, data []byte) error {
	if !report.ValidPDFFilename(name) {
		return fmt.Errorf("refusing to save %q: not a report filename", name)
	}
	return os.WriteFile(filepath.Join(l.dir, name), data, 0o640)
}

func (l *Local) Open(_ context.Context, name string) ([]byte, error) {
	if !report.ValidPDFFilename(name) {
		return nil, ErrNotFound
	}
	data, err := os.ReadFile(filepath.Join(l.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read report %q: %w", name, err)
	}
	return data, nil
}

func (l *Local) Purge(_ context.Context, cutoff time.Time) (int, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return 0, fmt.Errorf("list reports dir: %w", err)
	}
	removed := 0
	for _, e := range entries {
		if e.IsDir() || !report.ValidPDFFilename(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(l.dir, e.Name())); err != nil && !errors.Is(err, os.ErrNotExist) {
				return removed, fmt.Errorf("remove report %q: %w", e.Name(), err)
			}
			removed++
		}
	}
	return removed, nil
}
