package settings

import (
	"sort"

	"github.com/studiowebux/nightkeys/internal/version"
)

// MigrationResult reports what Migrate changed
type MigrationResult struct {
	From         string
	To           string
	AddedActions []string
	AddedFlags   []string

	// Newer is set when the document was written by a newer release;
	// such documents are returned unchanged
	Newer bool
}

// Changed reports whether the returned document differs from the input
func (r MigrationResult) Changed() bool {
	return r.From != r.To || len(r.AddedActions) > 0 || len(r.AddedFlags) > 0
}

// Migrate upgrades a document written by an older release to
// appVersion: actions and general flags present in defaults but missing
// from doc are added, existing values are kept. The input is not
// modified.
func Migrate(doc *Document, defaults *Document, appVersion string) (*Document, MigrationResult) {
	result := MigrationResult{From: doc.Version, To: doc.Version}
	out := doc.Clone()

	if !version.IsValid(appVersion) {
		return out, result
	}
	switch version.Compare(doc.Version, appVersion) {
	case 1:
		result.Newer = true
		return out, result
	case 0:
		return out, result
	}

	for key, entry := range defaults.Keybinds {
		if _, ok := out.Keybinds[key]; !ok {
			out.Keybinds[key] = entry.Clone()
			result.AddedActions = append(result.AddedActions, key)
		}
	}
	for name, value := range defaults.General {
		if _, ok := out.General[name]; !ok {
			out.General[name] = value
			result.AddedFlags = append(result.AddedFlags, name)
		}
	}
	sort.Strings(result.AddedActions)
	sort.Strings(result.AddedFlags)

	out.Version = appVersion
	result.To = appVersion
	return out, result
}
