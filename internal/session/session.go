package session

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/studiowebux/nightkeys/internal/keybinds"
	"github.com/studiowebux/nightkeys/internal/schema"
	"github.com/studiowebux/nightkeys/internal/settings"
	"github.com/studiowebux/nightkeys/internal/store"
)

// Recovery decides what Load does with a document that fails validation
type Recovery int

const (
	// RecoverDefaults backs up the rejected document, logs a warning and
	// starts from the factory defaults
	RecoverDefaults Recovery = iota
	// RecoverAbort returns the validation error
	RecoverAbort
)

var flagNamePattern = regexp.MustCompile(`^[a-zA-Z0-9]+$`)

// Pruner is implemented by stores that keep a bounded history
type Pruner interface {
	Prune(ctx context.Context, keep int) (int64, error)
}

// Options configures a Manager
type Options struct {
	Store      store.Store
	Codec      *keybinds.Codec // nil means the default modifier catalogue
	Platform   string          // "" means the running platform
	Format     settings.Format
	AppVersion string
	ActionKeys []string // accepted actions, nil means the default actions
	Recovery   Recovery

	// HistoryKeep bounds the snapshots kept by a Pruner store; 0 keeps all
	HistoryKeep int

	Logger *log.Logger
}

// LoadStatus describes how the current document was obtained
type LoadStatus struct {
	FirstRun  bool
	Recovered bool
	Rejection error  // validation error of the rejected document
	BackupRef string // where the rejected document was kept
	Migration settings.MigrationResult
}

// Manager owns the settings document and the keybind table of one
// settings session. It is not safe for concurrent use.
type Manager struct {
	opts     Options
	defaults *settings.Document
	doc      *settings.Document
	table    *keybinds.Table
	status   LoadStatus
}

// NewManager creates a new session manager
func NewManager(opts Options) *Manager {
	if opts.Codec == nil {
		opts.Codec = keybinds.NewCodec(nil)
	}
	if opts.Platform == "" {
		opts.Platform = keybinds.CurrentPlatform()
	}
	if opts.Format == "" {
		opts.Format = settings.FormatStructured
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return &Manager{
		opts:     opts,
		defaults: settings.BuildDefaults(opts.AppVersion),
	}
}

// Load reads the document from the store. A missing document starts a
// first run from defaults; a rejected one follows Options.Recovery.
func (m *Manager) Load(ctx context.Context) error {
	m.status = LoadStatus{}

	data, err := m.opts.Store.Load(ctx)
	if errors.Is(err, store.ErrNotFound) {
		m.opts.Logger.Info("no settings found, using defaults")
		m.status.FirstRun = true
		return m.use(m.defaults.Clone())
	}
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	doc, err := settings.DecodeFormat(data, m.opts.Format, m.opts.ActionKeys, m.opts.Codec)
	if err != nil {
		return m.reject(ctx, data, err)
	}

	migrated, result := settings.Migrate(doc, m.defaults, m.opts.AppVersion)
	m.status.Migration = result
	switch {
	case result.Newer:
		m.opts.Logger.Warn("settings written by a newer version", "version", doc.Version, "app", m.opts.AppVersion)
	case result.Changed():
		m.opts.Logger.Info("settings migrated",
			"from", result.From,
			"to", result.To,
			"actions", result.AddedActions,
			"flags", result.AddedFlags,
		)
	}

	if err := m.use(migrated); err != nil {
		return m.reject(ctx, data, err)
	}
	return nil
}

// reject applies the recovery policy to a document that failed to load
func (m *Manager) reject(ctx context.Context, data []byte, cause error) error {
	if m.opts.Recovery == RecoverAbort {
		return fmt.Errorf("failed to load settings: %w", cause)
	}

	m.status.Recovered = true
	m.status.Rejection = cause

	if b, ok := m.opts.Store.(store.Backuper); ok {
		ref, err := b.Backup(ctx, data)
		if err != nil {
			m.opts.Logger.Error("failed to back up rejected settings", "error", err)
		} else {
			m.status.BackupRef = ref
		}
	}

	m.opts.Logger.Warn("settings rejected, using defaults", "error", cause, "backup", m.status.BackupRef)
	return m.use(m.defaults.Clone())
}

func (m *Manager) use(doc *settings.Document) error {
	table, err := keybinds.NewTable(m.opts.Codec, doc.Keybinds, m.opts.Platform)
	if err != nil {
		return err
	}
	m.doc = doc
	m.table = table
	return nil
}

// Status returns how the current document was loaded
func (m *Manager) Status() LoadStatus {
	return m.status
}

// Table returns the keybind table. Edits made through it are persisted
// by the next Save.
func (m *Manager) Table() *keybinds.Table {
	return m.table
}

// Codec returns the trigger codec of the session
func (m *Manager) Codec() *keybinds.Codec {
	return m.opts.Codec
}

// Platform returns the platform used for display and matching
func (m *Manager) Platform() string {
	return m.opts.Platform
}

// Document returns a copy of the current document with the table's
// keybinds
func (m *Manager) Document() *settings.Document {
	doc := m.doc.Clone()
	doc.Keybinds = m.table.Export()
	return doc
}

// Encode returns the current document in the configured format
func (m *Manager) Encode() ([]byte, error) {
	return settings.EncodeFormat(m.Document(), m.opts.Format, m.opts.Codec)
}

// Save writes the current document to the store
func (m *Manager) Save(ctx context.Context) error {
	data, err := m.Encode()
	if err != nil {
		return err
	}
	if err := m.opts.Store.Save(ctx, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	if p, ok := m.opts.Store.(Pruner); ok && m.opts.HistoryKeep > 0 {
		deleted, err := p.Prune(ctx, m.opts.HistoryKeep)
		if err != nil {
			m.opts.Logger.Warn("failed to prune settings history", "error", err)
		} else if deleted > 0 {
			m.opts.Logger.Debug("pruned settings history", "deleted", deleted)
		}
	}
	return nil
}

// Validate checks the table for chord conflicts on every platform
func (m *Manager) Validate() *keybinds.ValidationResult {
	return keybinds.NewValidator().ValidateTable(m.table)
}

// Reset restores the factory keybinds and general flags. Opened files
// are kept.
func (m *Manager) Reset() error {
	doc := m.defaults.Clone()
	doc.OpenedFiles = append([]string{}, m.doc.OpenedFiles...)
	return m.use(doc)
}

// ResetAction restores the factory keybinds of one action
func (m *Manager) ResetAction(action string) error {
	def, ok := m.defaults.Keybinds[action]
	if !ok {
		return fmt.Errorf("%w: %s has no default", keybinds.ErrUnknownAction, action)
	}
	doc := m.Document()
	doc.Keybinds[action] = def.Clone()
	return m.use(doc)
}

// Flag returns a general flag and whether it is set
func (m *Manager) Flag(name string) (bool, bool) {
	return m.doc.Flag(name)
}

// Flags returns a copy of the general flags
func (m *Manager) Flags() map[string]bool {
	return m.doc.Clone().General
}

// SetFlag sets a general flag. Names must be alphanumeric.
func (m *Manager) SetFlag(name string, value bool) error {
	if !flagNamePattern.MatchString(name) {
		return &schema.ValidationError{
			Path:     "$.general",
			Expected: "key matching " + flagNamePattern.String(),
			Actual:   strconv.Quote(name),
		}
	}
	m.doc.SetFlag(name, value)
	return nil
}

// OpenedFiles returns the opened file list
func (m *Manager) OpenedFiles() []string {
	return append([]string{}, m.doc.OpenedFiles...)
}

// AddOpenedFile appends a file to the opened list. Duplicates are
// ignored; it returns false when the file was already listed.
func (m *Manager) AddOpenedFile(path string) bool {
	for _, f := range m.doc.OpenedFiles {
		if f == path {
			return false
		}
	}
	m.doc.OpenedFiles = append(m.doc.OpenedFiles, path)
	return true
}

// RemoveOpenedFile removes a file from the opened list, keeping the order
// of the others. It returns false when the file was not listed.
func (m *Manager) RemoveOpenedFile(path string) bool {
	kept := make([]string, 0, len(m.doc.OpenedFiles))
	for _, f := range m.doc.OpenedFiles {
		if f != path {
			kept = append(kept, f)
		}
	}
	removed := len(kept) != len(m.doc.OpenedFiles)
	m.doc.OpenedFiles = kept
	return removed
}

// ClearOpenedFiles empties the opened list
func (m *Manager) ClearOpenedFiles() {
	m.doc.OpenedFiles = []string{}
}
