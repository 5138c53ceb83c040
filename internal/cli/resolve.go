package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/studiowebux/nightkeys/internal/keybinds"
)

// ResolveAction finds the action key meant by name: an exact match
// ignoring case, otherwise the only fuzzy match
func ResolveAction(actions []string, name string) (string, error) {
	for _, a := range actions {
		if strings.EqualFold(a, name) {
			return a, nil
		}
	}

	matches := fuzzy.Find(name, actions)
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %s", keybinds.ErrUnknownAction, name)
	case 1:
		return matches[0].Str, nil
	}

	candidates := make([]string, len(matches))
	for i, m := range matches {
		candidates[i] = m.Str
	}
	return "", fmt.Errorf("ambiguous action %q (candidates: %s)", name, strings.Join(candidates, ", "))
}

// ParseIndex parses a zero-based keybind slot index
func ParseIndex(s string) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid keybind index %q: must be a number", s)
	}
	return i, nil
}
