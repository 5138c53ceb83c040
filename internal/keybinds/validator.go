package keybinds

import (
	"fmt"
	"sort"
	"strings"
)

// Issue represents a keybinding validation error or warning
type Issue struct {
	Type     string // "conflict", "reserved", "unbound", "duplicate"
	Platform string
	Action   string
	Trigger  string
	Message  string
}

func (e *Issue) Error() string {
	if e.Trigger == "" {
		return fmt.Sprintf("[%s] %s on '%s': %s", e.Type, e.Action, e.Platform, e.Message)
	}
	return fmt.Sprintf("[%s] %s (%s) on '%s': %s", e.Type, e.Action, e.Trigger, e.Platform, e.Message)
}

// ValidationResult contains all validation errors and warnings
type ValidationResult struct {
	Errors   []Issue
	Warnings []Issue
}

// HasErrors returns true if there are any errors
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// HasWarnings returns true if there are any warnings
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// String returns a human-readable summary of validation results
func (r *ValidationResult) String() string {
	var sb strings.Builder

	if len(r.Errors) > 0 {
		sb.WriteString(fmt.Sprintf("Errors (%d):\n", len(r.Errors)))
		for _, err := range r.Errors {
			sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
		}
	}

	if len(r.Warnings) > 0 {
		sb.WriteString(fmt.Sprintf("Warnings (%d):\n", len(r.Warnings)))
		for _, warn := range r.Warnings {
			sb.WriteString(fmt.Sprintf("  - %s\n", warn.Error()))
		}
	}

	if !r.HasErrors() && !r.HasWarnings() {
		sb.WriteString("No issues found")
	}

	return sb.String()
}

// Validator checks a keybind table for clashes between actions
type Validator struct {
	// platforms are checked one by one since CmdOrCtrl means a
	// different physical modifier on each
	platforms []string

	// reserved maps platform -> physical chord -> owner, shortcuts the
	// operating system handles before the application sees them
	reserved map[string]map[string]string
}

// NewValidator creates a validator for the given platforms, or for
// darwin, win32 and linux when none is given
func NewValidator(platforms ...string) *Validator {
	if len(platforms) == 0 {
		platforms = []string{PlatformDarwin, PlatformWin32, PlatformLinux}
	}
	return &Validator{
		platforms: platforms,
		reserved: map[string]map[string]string{
			PlatformDarwin: {
				"Meta+q":   "quit application",
				"Meta+h":   "hide application",
				"Meta+tab": "application switcher",
			},
			PlatformWin32: {
				"Alt+f4":  "close window",
				"Alt+tab": "window switcher",
				"Meta+l":  "lock screen",
			},
			PlatformLinux: {
				"Alt+tab": "window switcher",
			},
		},
	}
}

type slot struct {
	action string
	index  int
}

// ValidateTable validates every bound keybind of the table
func (v *Validator) ValidateTable(t *Table) *ValidationResult {
	result := &ValidationResult{
		Errors:   []Issue{},
		Warnings: []Issue{},
	}

	v.checkUnbound(t, result)
	for _, platform := range v.platforms {
		chords := v.collectChords(t, platform)
		v.checkDuplicateBindings(t, platform, chords, result)
		v.checkReservedKeys(t, platform, chords, result)
	}
	return result
}

// collectChords maps each physical chord to the slots bound to it
func (v *Validator) collectChords(t *Table, platform string) map[string][]slot {
	chords := make(map[string][]slot)
	for _, action := range t.Actions() {
		for i, kb := range t.entries[action].Keybind {
			if kb.IsUnbound() {
				continue
			}
			chord := t.codec.Chord(kb, platform)
			chords[chord] = append(chords[chord], slot{action: action, index: i})
		}
	}
	return chords
}

// checkDuplicateBindings reports chords bound more than once. Two actions
// sharing a chord is an error, one action listing it twice a warning.
func (v *Validator) checkDuplicateBindings(t *Table, platform string, chords map[string][]slot, result *ValidationResult) {
	for _, chord := range sortedChords(chords) {
		slots := chords[chord]
		if len(slots) < 2 {
			continue
		}

		actions := make([]string, 0, len(slots))
		seen := make(map[string]bool)
		for _, s := range slots {
			if !seen[s.action] {
				seen[s.action] = true
				actions = append(actions, s.action)
			}
		}

		if len(actions) == 1 {
			result.Warnings = append(result.Warnings, Issue{
				Type:     "duplicate",
				Platform: platform,
				Action:   actions[0],
				Trigger:  chord,
				Message:  fmt.Sprintf("bound %d times", len(slots)),
			})
			continue
		}

		result.Errors = append(result.Errors, Issue{
			Type:     "conflict",
			Platform: platform,
			Action:   strings.Join(actions, ", "),
			Trigger:  chord,
			Message:  fmt.Sprintf("chord shared by %d actions", len(actions)),
		})
	}
}

// checkReservedKeys warns about chords the platform keeps for itself
func (v *Validator) checkReservedKeys(t *Table, platform string, chords map[string][]slot, result *ValidationResult) {
	reserved := v.reserved[platform]
	for _, chord := range sortedChords(chords) {
		owner, ok := reserved[chord]
		if !ok {
			continue
		}
		for _, s := range chords[chord] {
			result.Warnings = append(result.Warnings, Issue{
				Type:     "reserved",
				Platform: platform,
				Action:   s.action,
				Trigger:  chord,
				Message:  fmt.Sprintf("reserved by the platform (%s)", owner),
			})
		}
	}
}

// checkUnbound warns about actions without any usable shortcut
func (v *Validator) checkUnbound(t *Table, result *ValidationResult) {
	for _, action := range t.Actions() {
		bound := false
		for _, kb := range t.entries[action].Keybind {
			if !kb.IsUnbound() {
				bound = true
				break
			}
		}
		if !bound {
			result.Warnings = append(result.Warnings, Issue{
				Type:     "unbound",
				Platform: t.platform,
				Action:   action,
				Message:  "action has no shortcut",
			})
		}
	}
}

// FindConflicts returns the chord conflicts of a table as strings
func FindConflicts(t *Table) []string {
	result := NewValidator().ValidateTable(t)

	var conflicts []string
	for _, err := range result.Errors {
		if err.Type == "conflict" {
			conflicts = append(conflicts, err.Error())
		}
	}
	return conflicts
}

func sortedChords(chords map[string][]slot) []string {
	keys := make([]string, 0, len(chords))
	for k := range chords {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
