package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// FileKV stores each key as its own file under dir.
type FileKV struct {
	fs  afero.Fs
	dir string
}

func NewFileKV(fs afero.Fs, dir string) (*FileKV, error) {
	if dir == "" {
		return nil, errors.New("data dir is empty")
	}
	if ok, _ := afero.DirExists(fs, dir); !ok {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return &FileKV{fs: fs, dir: dir}, nil
}

func (f *FileKV) Get(key string) (string, error) {
	path, err := f.path(key)
	if err != nil {
		return "", err
	}
	data, err := afero.ReadFile(f.fs, path)
	if errors.Is(err, os.ErrNotExist) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", key, err)
	}
	return string(data), nil
}

func (f *FileKV) Set(key, value string) error {
	path, err := f.path(key)
	if err != nil {
		return err
	}
	return writeFileAtomic(f.fs, path, []byte(value))
}

func (f *FileKV) Close() error {
	return nil
}

func (f *FileKV) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(f.dir, key), nil
}

// writeFileAtomic writes through a temp file in the same directory and
// renames it over path, so readers see either the old or the new value.
func writeFileAtomic(fs afero.Fs, path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := afero.TempFile(fs, dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer fs.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := fs.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename temp file to %s: %w", path, err)
	}
	return nil
}
