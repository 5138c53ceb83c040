package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Load when nothing has been saved yet
var ErrNotFound = errors.New("settings not found")

// Store loads and saves the raw settings document
type Store interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}

// Backuper is implemented by stores that can keep a copy of a document
// the application refused to load. Backing up the same bytes as the
// latest backup returns that backup's reference without writing again.
type Backuper interface {
	Backup(ctx context.Context, data []byte) (string, error)
}
