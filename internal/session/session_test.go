package session

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studiowebux/nightkeys/internal/keybinds"
	"github.com/studiowebux/nightkeys/internal/schema"
	"github.com/studiowebux/nightkeys/internal/settings"
	"github.com/studiowebux/nightkeys/internal/store"
)

const testVersion = "1.0.0"

func newFileManager(t *testing.T, recovery Recovery) (*Manager, *store.FileStore) {
	t.Helper()
	fs := store.NewFileStore(filepath.Join(t.TempDir(), "settings.json"), 0644, 0755)
	m := NewManager(Options{
		Store:      fs,
		Platform:   keybinds.PlatformLinux,
		AppVersion: testVersion,
		Recovery:   recovery,
		Logger:     log.New(io.Discard),
	})
	return m, fs
}

func writeDocument(t *testing.T, fs *store.FileStore, doc *settings.Document) {
	t.Helper()
	data, err := settings.Encode(doc)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(fs.Path(), data, 0644))
}

func TestLoad_FirstRun(t *testing.T) {
	m, _ := newFileManager(t, RecoverDefaults)
	require.NoError(t, m.Load(context.Background()))

	assert.True(t, m.Status().FirstRun)
	assert.False(t, m.Status().Recovered)
	assert.Equal(t, settings.BuildDefaults(testVersion), m.Document())
	assert.Equal(t, keybinds.DefaultActionKeys(), m.Table().Actions())
}

func TestSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	m, fs := newFileManager(t, RecoverAbort)
	require.NoError(t, m.Load(ctx))

	_, err := m.Table().SetKeybindAt(keybinds.ActionOpenWindow, 0, keybinds.NewKeybind("n", "CmdOrCtrl"))
	require.NoError(t, err)
	m.AddOpenedFile("/docs/a.pdf")
	require.NoError(t, m.SetFlag(settings.FlagDisplayThumbs, false))
	require.NoError(t, m.Save(ctx))

	reloaded := NewManager(Options{
		Store:      fs,
		Platform:   keybinds.PlatformLinux,
		AppVersion: testVersion,
		Recovery:   RecoverAbort,
		Logger:     log.New(io.Discard),
	})
	require.NoError(t, reloaded.Load(ctx))

	assert.False(t, reloaded.Status().FirstRun)
	assert.Equal(t, m.Document(), reloaded.Document())

	triggers, err := reloaded.Table().TriggerStringsFor(keybinds.ActionOpenWindow)
	require.NoError(t, err)
	assert.Equal(t, []string{"CmdOrCtrl+n"}, triggers)

	thumbs, ok := reloaded.Flag(settings.FlagDisplayThumbs)
	assert.True(t, ok)
	assert.False(t, thumbs)
	assert.Equal(t, []string{"/docs/a.pdf"}, reloaded.OpenedFiles())
}

func TestLoad_RejectedDocument(t *testing.T) {
	ctx := context.Background()
	invalid := []byte(`{"version": "1.0.0", "general": {}, "keybinds": {}}`)

	t.Run("recover with defaults", func(t *testing.T) {
		m, fs := newFileManager(t, RecoverDefaults)
		require.NoError(t, os.WriteFile(fs.Path(), invalid, 0644))

		require.NoError(t, m.Load(ctx))
		status := m.Status()
		assert.True(t, status.Recovered)

		var verr *schema.ValidationError
		require.ErrorAs(t, status.Rejection, &verr)
		assert.Equal(t, "$.openedFiles", verr.Path)

		backup, err := os.ReadFile(status.BackupRef)
		require.NoError(t, err)
		assert.Equal(t, invalid, backup)

		assert.Equal(t, settings.BuildDefaults(testVersion), m.Document())

		// the rejected file is left in place until the next save
		onDisk, err := os.ReadFile(fs.Path())
		require.NoError(t, err)
		assert.Equal(t, invalid, onDisk)
	})

	t.Run("abort", func(t *testing.T) {
		m, fs := newFileManager(t, RecoverAbort)
		require.NoError(t, os.WriteFile(fs.Path(), invalid, 0644))

		err := m.Load(ctx)
		require.Error(t, err)
		var verr *schema.ValidationError
		assert.ErrorAs(t, err, &verr)
		assert.Contains(t, err.Error(), "failed to load settings")
	})
}

func TestLoad_RejectedDocumentBackedUpOnce(t *testing.T) {
	ctx := context.Background()
	db, err := store.NewSQLiteStore(ctx, filepath.Join(t.TempDir(), "nightkeys.db"), 0755, testVersion)
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, db.Save(ctx, []byte(`{"version": "1.0.0"}`)))

	var refs []string
	for i := 0; i < 3; i++ {
		m := NewManager(Options{
			Store:      db,
			AppVersion: testVersion,
			Recovery:   RecoverDefaults,
			Logger:     log.New(io.Discard),
		})
		require.NoError(t, m.Load(ctx))
		require.True(t, m.Status().Recovered)
		refs = append(refs, m.Status().BackupRef)
	}
	assert.Equal(t, []string{"snapshot #2", "snapshot #2", "snapshot #2"}, refs)

	count, err := db.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestLoad_UnknownModifier(t *testing.T) {
	ctx := context.Background()
	doc := settings.BuildDefaults(testVersion)
	entry := doc.Keybinds[keybinds.ActionOpenWindow]
	entry.Keybind[0] = keybinds.NewKeybind("t", "Hyper")
	doc.Keybinds[keybinds.ActionOpenWindow] = entry

	m, fs := newFileManager(t, RecoverAbort)
	writeDocument(t, fs, doc)
	err := m.Load(ctx)
	assert.ErrorIs(t, err, keybinds.ErrUnknownModifier)

	m, fs = newFileManager(t, RecoverDefaults)
	writeDocument(t, fs, doc)
	require.NoError(t, m.Load(ctx))
	assert.True(t, m.Status().Recovered)
	assert.ErrorIs(t, m.Status().Rejection, keybinds.ErrUnknownModifier)
}

func TestLoad_Migrates(t *testing.T) {
	old := settings.BuildDefaults("0.9.0")
	delete(old.Keybinds, keybinds.ActionEndTab)
	delete(old.General, settings.FlagDisplayThumbs)
	old.General[settings.FlagMaximizeOnOpen] = false

	m, fs := newFileManager(t, RecoverAbort)
	writeDocument(t, fs, old)
	require.NoError(t, m.Load(context.Background()))

	result := m.Status().Migration
	assert.True(t, result.Changed())
	assert.Equal(t, "0.9.0", result.From)
	assert.Equal(t, testVersion, result.To)
	assert.Equal(t, []string{keybinds.ActionEndTab}, result.AddedActions)
	assert.Equal(t, []string{settings.FlagDisplayThumbs}, result.AddedFlags)

	assert.True(t, m.Table().Has(keybinds.ActionEndTab))
	maximize, _ := m.Flag(settings.FlagMaximizeOnOpen)
	assert.False(t, maximize)
	assert.Equal(t, testVersion, m.Document().Version)
}

func TestLoad_NewerDocument(t *testing.T) {
	newer := settings.BuildDefaults("9.0.0")
	delete(newer.Keybinds, keybinds.ActionEndTab)

	m, fs := newFileManager(t, RecoverAbort)
	writeDocument(t, fs, newer)
	require.NoError(t, m.Load(context.Background()))

	assert.True(t, m.Status().Migration.Newer)
	assert.Equal(t, "9.0.0", m.Document().Version)
	assert.False(t, m.Table().Has(keybinds.ActionEndTab))
}

func TestSave_TriggerFormSQLite(t *testing.T) {
	ctx := context.Background()
	db, err := store.NewSQLiteStore(ctx, filepath.Join(t.TempDir(), "nightkeys.db"), 0755, testVersion)
	require.NoError(t, err)
	defer db.Close()

	opts := Options{
		Store:       db,
		Platform:    keybinds.PlatformDarwin,
		Format:      settings.FormatTriggers,
		AppVersion:  testVersion,
		HistoryKeep: 2,
		Logger:      log.New(io.Discard),
	}
	m := NewManager(opts)
	require.NoError(t, m.Load(ctx))

	for i := 0; i < 4; i++ {
		m.AddOpenedFile(filepath.Join("/docs", string(rune('a'+i))+".pdf"))
		require.NoError(t, m.Save(ctx))
	}

	count, err := db.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	data, err := db.Load(ctx)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"CmdOrCtrl+w"`)

	reloaded := NewManager(opts)
	require.NoError(t, reloaded.Load(ctx))
	assert.Equal(t, m.Document(), reloaded.Document())
	assert.Len(t, reloaded.OpenedFiles(), 4)
}

func TestSave_TriggerFormKeepsClearedSlots(t *testing.T) {
	ctx := context.Background()
	fs := store.NewFileStore(filepath.Join(t.TempDir(), "settings.json"), 0644, 0755)
	opts := Options{
		Store:      fs,
		Platform:   keybinds.PlatformLinux,
		Format:     settings.FormatTriggers,
		AppVersion: testVersion,
		Recovery:   RecoverDefaults,
		Logger:     log.New(io.Discard),
	}
	m := NewManager(opts)
	require.NoError(t, m.Load(ctx))

	_, err := m.Table().ClearKeybindAt(keybinds.ActionCloseTab, 1)
	require.NoError(t, err)
	_, err = m.Table().SetKeybindAt(keybinds.ActionOpenWindow, 0, keybinds.NewKeybind("o", "Alt"))
	require.NoError(t, err)
	require.NoError(t, m.Save(ctx))

	reloaded := NewManager(opts)
	require.NoError(t, reloaded.Load(ctx))
	assert.False(t, reloaded.Status().Recovered)
	assert.NoError(t, reloaded.Status().Rejection)
	assert.Equal(t, m.Document(), reloaded.Document())

	triggers, err := reloaded.Table().TriggerStringsFor(keybinds.ActionOpenWindow)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alt+o"}, triggers)

	kb, err := reloaded.Table().KeybindAt(keybinds.ActionCloseTab, 1)
	require.NoError(t, err)
	assert.True(t, kb.IsUnbound())
}

func TestReset(t *testing.T) {
	m, _ := newFileManager(t, RecoverDefaults)
	require.NoError(t, m.Load(context.Background()))

	_, err := m.Table().ClearKeybindAt(keybinds.ActionCloseTab, 0)
	require.NoError(t, err)
	require.NoError(t, m.SetFlag(settings.FlagMaximizeOnOpen, false))
	m.AddOpenedFile("/docs/a.pdf")

	require.NoError(t, m.Reset())

	defaults := settings.BuildDefaults(testVersion)
	doc := m.Document()
	assert.Equal(t, defaults.Keybinds, doc.Keybinds)
	assert.Equal(t, defaults.General, doc.General)
	assert.Equal(t, []string{"/docs/a.pdf"}, doc.OpenedFiles)
}

func TestResetAction(t *testing.T) {
	m, _ := newFileManager(t, RecoverDefaults)
	require.NoError(t, m.Load(context.Background()))

	_, err := m.Table().ClearKeybindAt(keybinds.ActionCloseTab, 0)
	require.NoError(t, err)
	_, err = m.Table().SetKeybindAt(keybinds.ActionOpenWindow, 0, keybinds.NewKeybind("o", "Alt"))
	require.NoError(t, err)

	require.NoError(t, m.ResetAction(keybinds.ActionCloseTab))

	closeTab, err := m.Table().TriggerStringsFor(keybinds.ActionCloseTab)
	require.NoError(t, err)
	assert.Equal(t, []string{"CmdOrCtrl+w", "Control+F4"}, closeTab)

	openWindow, err := m.Table().TriggerStringsFor(keybinds.ActionOpenWindow)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alt+o"}, openWindow)

	assert.ErrorIs(t, m.ResetAction("Zoom"), keybinds.ErrUnknownAction)
}

func TestOpenedFiles(t *testing.T) {
	m, _ := newFileManager(t, RecoverDefaults)
	require.NoError(t, m.Load(context.Background()))

	assert.Empty(t, m.OpenedFiles())
	assert.True(t, m.AddOpenedFile("/a.pdf"))
	assert.True(t, m.AddOpenedFile("/b.pdf"))
	assert.True(t, m.AddOpenedFile("/c.pdf"))
	assert.False(t, m.AddOpenedFile("/a.pdf"))
	assert.Equal(t, []string{"/a.pdf", "/b.pdf", "/c.pdf"}, m.OpenedFiles())

	assert.True(t, m.RemoveOpenedFile("/b.pdf"))
	assert.False(t, m.RemoveOpenedFile("/b.pdf"))
	assert.Equal(t, []string{"/a.pdf", "/c.pdf"}, m.OpenedFiles())

	files := m.OpenedFiles()
	files[0] = "/changed.pdf"
	assert.Equal(t, "/a.pdf", m.OpenedFiles()[0])

	m.ClearOpenedFiles()
	assert.Empty(t, m.OpenedFiles())
	assert.NotNil(t, m.Document().OpenedFiles)
}

func TestSetFlag(t *testing.T) {
	m, _ := newFileManager(t, RecoverDefaults)
	require.NoError(t, m.Load(context.Background()))

	require.NoError(t, m.SetFlag("DarkMode", true))
	v, ok := m.Flag("DarkMode")
	assert.True(t, ok)
	assert.True(t, v)

	err := m.SetFlag("dark-mode", true)
	var verr *schema.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "$.general", verr.Path)

	_, ok = m.Flag("dark-mode")
	assert.False(t, ok)

	flags := m.Flags()
	flags["DarkMode"] = false
	v, _ = m.Flag("DarkMode")
	assert.True(t, v)
}

func TestValidate(t *testing.T) {
	m, _ := newFileManager(t, RecoverDefaults)
	require.NoError(t, m.Load(context.Background()))
	assert.False(t, m.Validate().HasErrors())

	_, err := m.Table().SetKeybindAt(keybinds.ActionOpenWindow, 0, keybinds.NewKeybind("w", "CmdOrCtrl"))
	require.NoError(t, err)
	assert.True(t, m.Validate().HasErrors())
}
