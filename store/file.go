package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"
)

// FileStore keeps the table msgpack-encoded in a single file
type FileStore struct {
	Path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// Load reads the table. A missing file yields an empty table and an error
// wrapping ErrNoHighscores.
func (f *FileStore) Load() (Table, error) {
	var t Table
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return t, fmt.Errorf("%w: %s", ErrNoHighscores, f.Path)
	}
	if err != nil {
		return t, err
	}

	var rows []Record
	if err := msgpack.Unmarshal(data, &rows); err != nil {
		return Table{}, fmt.Errorf("decode %s: %w", f.Path, err)
	}
	copy(t[:], rows)
	return t, nil
}

// Save writes the table to a temp file and renames it into place
func (f *FileStore) Save(t Table) error {
	data, err := msgpack.Marshal(t[:])
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.Path), ".highscores-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), f.Path)
}
