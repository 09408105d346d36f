package snapshot

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"github.com/headsrooms/PlaywrightING/internal/model"
)

// FileStore keeps the graph as a single gob-encoded file. Writes are not
// atomic; an interrupted save can leave a truncated file behind.
type FileStore struct {
	path string
}

// NewFileStore returns a FileStore at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path implements Store.
func (s *FileStore) Path() string { return s.path }

// Exists implements Store.
func (s *FileStore) Exists() (bool, error) { return fileExists(s.path) }

// Load implements Store.
func (s *FileStore) Load() (*model.Position, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening snapshot: %w", err)
	}
	defer f.Close()

	var p model.Position
	if err := gob.NewDecoder(f).Decode(&p); err != nil {
		return nil, fmt.Errorf("decoding snapshot %s: %w", s.path, err)
	}
	return &p, nil
}

// Save implements Store.
func (s *FileStore) Save(p *model.Position) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating snapshot dir: %w", err)
	}
	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("creating snapshot: %w", err)
	}
	if err := gob.NewEncoder(f).Encode(p); err != nil {
		f.Close()
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return f.Close()
}
