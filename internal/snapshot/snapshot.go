// Package snapshot persists the position graph between runs.
package snapshot

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/headsrooms/PlaywrightING/internal/model"
)

var (
	// ErrSnapshotExists is returned when a snapshot would be overwritten
	// without force.
	ErrSnapshotExists = errors.New("snapshot already exists")
	// ErrNoSnapshot is returned when an operation needs a stored snapshot.
	ErrNoSnapshot = errors.New("no snapshot")
)

// Store saves and loads one position graph.
type Store interface {
	// Load returns nil and no error when nothing was saved yet.
	Load() (*model.Position, error)
	// Save replaces the stored graph.
	Save(p *model.Position) error
	Exists() (bool, error)
	Path() string
}

// Backend names a Store implementation.
type Backend string

const (
	BackendGob    Backend = "gob"
	BackendSQLite Backend = "sqlite"
)

// Valid reports whether b names a known backend.
func (b Backend) Valid() bool {
	return b == BackendGob || b == BackendSQLite
}

// Ext is the file extension used by the backend.
func (b Backend) Ext() string {
	if b == BackendSQLite {
		return ".db"
	}
	return ".gob"
}

// Open returns the store for backend at path.
func Open(backend Backend, path string) (Store, error) {
	switch backend {
	case BackendGob, "":
		return NewFileStore(path), nil
	case BackendSQLite:
		return NewSQLiteStore(path), nil
	default:
		return nil, fmt.Errorf("unknown snapshot backend %q", backend)
	}
}

// BackupName is the default backup file name for t, e.g. "05Mar24-1432".
func BackupName(t time.Time) string {
	return t.Format("02Jan06-1504")
}

// Backup copies the stored snapshot to dir/name, keeping the extension of
// the snapshot file. It returns the path written.
func Backup(s Store, dir, name string) (string, error) {
	exists, err := s.Exists()
	if err != nil {
		return "", err
	}
	if !exists {
		return "", fmt.Errorf("cannot back up: %w", ErrNoSnapshot)
	}

	dst := filepath.Join(dir, name+filepath.Ext(s.Path()))
	if err := copyFile(s.Path(), dst); err != nil {
		return "", fmt.Errorf("backing up snapshot: %w", err)
	}
	return dst, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func fileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("checking snapshot: %w", err)
}
