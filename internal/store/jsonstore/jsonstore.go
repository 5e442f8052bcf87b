package jsonstore

import (
	"errors"
	"os"
	"path/filepath"

	pkgerrors "github.com/pkg/errors"
)

// File-backed KV. One JSON file per key inside a directory, human-readable
// and portable. No locking; fine for a local single-user tool.

const fileExt = ".json"

// Store keeps each key at <dir>/<key>.json.
type Store struct {
	dir string
}

// New returns a store rooted at dir. An empty dir means the working directory.
func New(dir string) (*Store, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, pkgerrors.Wrap(err, "getwd")
		}
		dir = wd
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "abs path")
	}
	return &Store{dir: abs}, nil
}

func (s *Store) Dir() string { return s.dir }

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+fileExt)
}

func (s *Store) Get(key string) (string, bool, error) {
	b, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, pkgerrors.Wrap(err, "read file")
	}
	return string(b), true, nil
}

// Set writes through a temp file and a rename so a crash never leaves half a file.
func (s *Store) Set(key, value string) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return pkgerrors.Wrap(err, "mkdir")
	}
	tmp, err := os.CreateTemp(s.dir, key+".*.tmp")
	if err != nil {
		return pkgerrors.Wrap(err, "create temp")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		return pkgerrors.Wrap(err, "write file")
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return pkgerrors.Wrap(err, "chmod")
	}
	if err := tmp.Close(); err != nil {
		return pkgerrors.Wrap(err, "close file")
	}
	if err := os.Rename(tmp.Name(), s.path(key)); err != nil {
		return pkgerrors.Wrap(err, "rename file")
	}
	return nil
}
