package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const rejectedSuffix = ".rejected-"

// FileStore keeps the settings document in a single file
type FileStore struct {
	path     string
	filePerm os.FileMode
	dirPerm  os.FileMode
}

// NewFileStore returns a store writing to path
func NewFileStore(path string, filePerm, dirPerm os.FileMode) *FileStore {
	return &FileStore{path: path, filePerm: filePerm, dirPerm: dirPerm}
}

// Path returns the settings file path
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the settings file
func (s *FileStore) Load(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}
	return data, nil
}

// Save replaces the settings file. The new content is written to a
// temporary file in the same directory and renamed over the old one.
func (s *FileStore) Save(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return writeAtomic(s.path, data, s.filePerm, s.dirPerm)
}

// Backup copies data next to the settings file with a timestamp suffix
// and returns the backup path
func (s *FileStore) Backup(ctx context.Context, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if latest, ok := s.latestBackup(); ok {
		if existing, err := os.ReadFile(latest); err == nil && bytes.Equal(existing, data) {
			return latest, nil
		}
	}

	base := s.path + rejectedSuffix + time.Now().Format("20060102_150405")
	backupPath := base
	for i := 1; fileExists(backupPath); i++ {
		backupPath = fmt.Sprintf("%s-%d", base, i)
	}
	if err := writeAtomic(backupPath, data, s.filePerm, s.dirPerm); err != nil {
		return "", fmt.Errorf("failed to back up settings: %w", err)
	}
	return backupPath, nil
}

// latestBackup returns the newest backup file; the timestamp suffix
// sorts chronologically
func (s *FileStore) latestBackup() (string, bool) {
	entries, err := os.ReadDir(filepath.Dir(s.path))
	if err != nil {
		return "", false
	}

	prefix := filepath.Base(s.path) + rejectedSuffix
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), prefix) {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return "", false
	}
	sort.Strings(names)
	return filepath.Join(filepath.Dir(s.path), names[len(names)-1]), true
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func writeAtomic(path string, data []byte, filePerm, dirPerm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	if err := os.Chmod(tmpPath, filePerm); err != nil {
		return fmt.Errorf("failed to set settings file permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to replace settings file: %w", err)
	}
	return nil
}
