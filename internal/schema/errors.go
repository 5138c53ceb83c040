package schema

import (
	"fmt"
	"strings"
)

// ValidationError describes one structural mismatch
type ValidationError struct {
	Path     string // e.g. $.keybinds.CloseTab.keybind[0].key
	Expected string
	Actual   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("[invalid] %s: expected %s, got %s", e.Path, e.Expected, e.Actual)
}

// Result contains all mismatches found by Check
type Result struct {
	Errors []ValidationError
}

func (r *Result) add(path, expected, actual string) {
	r.Errors = append(r.Errors, ValidationError{Path: path, Expected: expected, Actual: actual})
}

// Valid returns true if no mismatch was found
func (r *Result) Valid() bool {
	return len(r.Errors) == 0
}

// Err returns the first mismatch, or nil
func (r *Result) Err() error {
	if r.Valid() {
		return nil
	}
	first := r.Errors[0]
	return &first
}

// String returns a human-readable summary of the result
func (r *Result) String() string {
	if r.Valid() {
		return "No issues found"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Errors (%d):\n", len(r.Errors)))
	for _, err := range r.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}
