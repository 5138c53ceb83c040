package store

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/studiowebux/nightkeys/internal/migrations"
)

// Snapshot kinds
const (
	KindSave     = "save"
	KindRejected = "rejected"
)

const timestampLayout = "2006-01-02 15:04:05"

// Snapshot is one stored copy of the settings document
type Snapshot struct {
	ID         int64
	SavedAt    time.Time
	Kind       string
	AppVersion string
	Size       int
	Content    []byte
}

// SQLiteStore keeps every saved document as a snapshot row. Load returns
// the most recent save.
type SQLiteStore struct {
	db         *sql.DB
	appVersion string
}

// NewSQLiteStore opens (or creates) the database at dbPath and applies
// pending migrations. appVersion is recorded with each snapshot.
func NewSQLiteStore(ctx context.Context, dbPath string, dirPerm os.FileMode, appVersion string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open settings database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to settings database: %w", err)
	}

	if err := migrations.Run(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db, appVersion: appVersion}, nil
}

// Load returns the content of the latest saved snapshot
func (s *SQLiteStore) Load(ctx context.Context) ([]byte, error) {
	var content []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT content FROM settings_snapshots
		WHERE kind = ?
		ORDER BY id DESC
		LIMIT 1
	`, KindSave).Scan(&content)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return content, nil
}

// Save records data as a new snapshot
func (s *SQLiteStore) Save(ctx context.Context, data []byte) error {
	if _, err := s.insert(ctx, KindSave, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}

// Backup records data as a rejected snapshot and returns its reference
func (s *SQLiteStore) Backup(ctx context.Context, data []byte) (string, error) {
	var latestID int64
	var latest []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT id, content FROM settings_snapshots
		WHERE kind = ?
		ORDER BY id DESC
		LIMIT 1
	`, KindRejected).Scan(&latestID, &latest)
	switch {
	case err == nil && bytes.Equal(latest, data):
		return snapshotRef(latestID), nil
	case err != nil && !errors.Is(err, sql.ErrNoRows):
		return "", fmt.Errorf("failed to check previous backup: %w", err)
	}

	id, err := s.insert(ctx, KindRejected, data)
	if err != nil {
		return "", fmt.Errorf("failed to back up settings: %w", err)
	}
	return snapshotRef(id), nil
}

func snapshotRef(id int64) string {
	return fmt.Sprintf("snapshot #%d", id)
}

func (s *SQLiteStore) insert(ctx context.Context, kind string, data []byte) (int64, error) {
	// Stored in UTC, the driver reads DATETIME columns back as UTC
	timestampStr := time.Now().UTC().Format(timestampLayout)

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO settings_snapshots (saved_at, kind, app_version, size, content)
		VALUES (?, ?, ?, ?, ?)
	`, timestampStr, kind, s.appVersion, len(data), data)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// History returns the most recent snapshots, newest first. A limit of
// zero or less returns every snapshot.
func (s *SQLiteStore) History(ctx context.Context, limit int) ([]Snapshot, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, saved_at, kind, app_version, size, content
		FROM settings_snapshots
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	defer rows.Close()

	var snapshots []Snapshot
	for rows.Next() {
		var snap Snapshot
		var savedAt string
		if err := rows.Scan(&snap.ID, &savedAt, &snap.Kind, &snap.AppVersion, &snap.Size, &snap.Content); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		snap.SavedAt = parseTimestamp(savedAt)
		snapshots = append(snapshots, snap)
	}
	return snapshots, rows.Err()
}

// Snapshot returns one snapshot by id
func (s *SQLiteStore) Snapshot(ctx context.Context, id int64) (Snapshot, error) {
	var snap Snapshot
	var savedAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, saved_at, kind, app_version, size, content
		FROM settings_snapshots
		WHERE id = ?
	`, id).Scan(&snap.ID, &savedAt, &snap.Kind, &snap.AppVersion, &snap.Size, &snap.Content)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Snapshot{}, fmt.Errorf("snapshot %d: %w", id, ErrNotFound)
		}
		return Snapshot{}, fmt.Errorf("failed to load snapshot %d: %w", id, err)
	}
	snap.SavedAt = parseTimestamp(savedAt)
	return snap, nil
}

// Prune keeps the newest keep snapshots and deletes the rest. It
// returns the number of deleted rows.
func (s *SQLiteStore) Prune(ctx context.Context, keep int) (int64, error) {
	if keep < 0 {
		keep = 0
	}
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM settings_snapshots
		WHERE id NOT IN (
			SELECT id FROM settings_snapshots ORDER BY id DESC LIMIT ?
		)
	`, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to prune history: %w", err)
	}
	return res.RowsAffected()
}

// Count returns the number of stored snapshots
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM settings_snapshots").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get history count: %w", err)
	}
	return count, nil
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// parseTimestamp reads the layout used on insert. The driver may already
// have converted the column, in which case it arrives as RFC3339.
func parseTimestamp(value string) time.Time {
	parsed, err := time.ParseInLocation(timestampLayout, value, time.UTC)
	if err != nil {
		// Try RFC3339 format as fallback
		parsed, err = time.Parse(time.RFC3339, value)
		if err != nil {
			return time.Time{}
		}
	}
	return parsed
}
