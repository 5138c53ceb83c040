package filter

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jmespath/go-jmespath"

	"github.com/studiowebux/nightkeys/internal/settings"
)

// Apply runs JMESPath expressions over a JSON document: filter narrows
// it (keybinds.*|[?data=='next']), then query selects from the result
// (keybinds.CloseTab.keybind[].key). Empty expressions are skipped; the
// document is returned unchanged when both are empty.
func Apply(body string, filter string, query string) (string, error) {
	if filter == "" && query == "" {
		return body, nil
	}

	var data any
	if err := json.Unmarshal([]byte(body), &data); err != nil {
		return "", fmt.Errorf("invalid JSON: %w", err)
	}

	steps := []struct {
		name       string
		expression string
	}{
		{"filter", filter},
		{"query", query},
	}
	for _, step := range steps {
		if step.expression == "" {
			continue
		}
		result, err := search(data, step.expression)
		if err != nil {
			return "", fmt.Errorf("failed to apply %s: %w", step.name, err)
		}
		data = result
	}

	if data == nil {
		return "null", nil
	}
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal result: %w", err)
	}
	return string(out), nil
}

// QueryDocument encodes doc in its structured form and applies the
// expressions to it
func QueryDocument(doc *settings.Document, filter string, query string) (string, error) {
	data, err := settings.Encode(doc)
	if err != nil {
		return "", err
	}
	return Apply(string(data), filter, query)
}

func search(data any, expression string) (any, error) {
	jp, err := jmespath.Compile(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid JMESPath expression %q: %w", expression, err)
	}
	result, err := jp.Search(data)
	if err != nil {
		return nil, fmt.Errorf("JMESPath search failed: %w", err)
	}
	return result, nil
}

// MatchActions keeps the action keys matching ANY of the glob patterns,
// compared case-insensitively. No pattern keeps every action.
func MatchActions(actions []string, patterns []string) []string {
	if len(patterns) == 0 {
		return actions
	}

	var matched []string
	for _, action := range actions {
		if matchesAny(action, patterns) {
			matched = append(matched, action)
		}
	}
	return matched
}

func matchesAny(action string, patterns []string) bool {
	lower := strings.ToLower(action)
	for _, pattern := range patterns {
		ok, err := filepath.Match(strings.ToLower(pattern), lower)
		if err == nil && ok {
			return true
		}
	}
	return false
}
