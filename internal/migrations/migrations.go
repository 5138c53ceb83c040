package migrations

import (
	"context"
	"database/sql"
	"fmt"
)

// Migration represents a single database migration
type Migration struct {
	Version int
	Name    string
	Up      string
	Down    string
}

// AllMigrations contains all database migrations in order
var AllMigrations = []Migration{
	{
		Version: 1,
		Name:    "Add kind index for snapshot history",
		Up: `
			CREATE INDEX IF NOT EXISTS idx_snapshots_kind ON settings_snapshots(kind, id DESC);
		`,
		Down: `
			DROP INDEX IF EXISTS idx_snapshots_kind;
		`,
	},
	{
		Version: 2,
		Name:    "Add query bookmarks",
		Up: `
			CREATE TABLE IF NOT EXISTS query_bookmarks (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				expression TEXT NOT NULL UNIQUE,
				created_at DATETIME NOT NULL
			);
		`,
		Down: `
			DROP TABLE IF EXISTS query_bookmarks;
		`,
	},
}

// InitSchema creates all tables required by the snapshot store
// This must be called before running migrations to ensure all tables exist
func InitSchema(ctx context.Context, db *sql.DB) error {
	schema := `
	-- Settings snapshots: every saved document, plus rejected documents kept for recovery
	CREATE TABLE IF NOT EXISTS settings_snapshots (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		saved_at DATETIME NOT NULL,
		kind TEXT NOT NULL DEFAULT 'save',
		app_version TEXT NOT NULL DEFAULT '',
		size INTEGER NOT NULL,
		content BLOB NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_snapshots_saved_at ON settings_snapshots(saved_at DESC);
	`

	_, err := db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	return nil
}

// Run executes all pending migrations on the database
func Run(ctx context.Context, db *sql.DB) error {
	// Initialize schema first to ensure all tables exist
	if err := InitSchema(ctx, db); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	// Create migrations tracking table if it doesn't exist
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	currentVersion, err := GetCurrentVersion(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to get current migration version: %w", err)
	}

	// Apply pending migrations
	for _, migration := range AllMigrations {
		if migration.Version <= currentVersion {
			continue
		}

		_, err := db.ExecContext(ctx, migration.Up)
		if err != nil {
			return fmt.Errorf("failed to apply migration %d (%s): %w", migration.Version, migration.Name, err)
		}

		_, err = db.ExecContext(ctx,
			"INSERT INTO schema_migrations (version, name) VALUES (?, ?)",
			migration.Version,
			migration.Name,
		)
		if err != nil {
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}
	}

	return nil
}

// GetCurrentVersion returns the current database schema version
func GetCurrentVersion(ctx context.Context, db *sql.DB) (int, error) {
	var version int
	err := db.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(version), 0)
		FROM schema_migrations
	`).Scan(&version)
	if err != nil && err != sql.ErrNoRows {
		return 0, err
	}
	return version, nil
}
