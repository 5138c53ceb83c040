package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studiowebux/nightkeys/internal/settings"
)

func TestApply(t *testing.T) {
	body := `{"keybinds": {"A": {"action": "x", "data": "next"}, "B": {"action": "y"}}, "openedFiles": ["/a.pdf"]}`

	tests := []struct {
		name     string
		filter   string
		query    string
		expected string
	}{
		{"no expressions", "", "", body},
		{"query field", "", "keybinds.A.action", `"x"`},
		{"query missing", "", "keybinds.C", "null"},
		{"filter then query", "keybinds.*", "[?data=='next'].action", "[\n  \"x\"\n]"},
		{"array", "", "openedFiles[0]", `"/a.pdf"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Apply(body, tt.filter, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestApply_Errors(t *testing.T) {
	_, err := Apply(`{}`, "", "keybinds[")
	assert.ErrorContains(t, err, "failed to apply query")
	assert.ErrorContains(t, err, "invalid JMESPath expression")

	_, err = Apply(`{}`, "keybinds[", "")
	assert.ErrorContains(t, err, "failed to apply filter")

	_, err = Apply(`not json`, "", "a")
	assert.ErrorContains(t, err, "invalid JSON")
}

func TestApply_ShellSyntaxIsJMESPath(t *testing.T) {
	// $(...) is not a shell escape; it must fail as JMESPath
	_, err := Apply(`{"version": "1.0.0"}`, "", "$(echo hi)")
	assert.ErrorContains(t, err, "invalid JMESPath expression")
}

func TestQueryDocument(t *testing.T) {
	doc := settings.BuildDefaults("1.0.0")

	got, err := QueryDocument(doc, "", "keybinds.CloseTab.keybind[].key")
	require.NoError(t, err)
	assert.JSONEq(t, `["w", "F4"]`, got)

	got, err = QueryDocument(doc, "", "general.MaximizeOnOpen")
	require.NoError(t, err)
	assert.Equal(t, "true", got)
}

func TestMatchActions(t *testing.T) {
	actions := []string{"OpenWindow", "CloseTab", "SwitchTab", "StartTab"}

	tests := []struct {
		name     string
		patterns []string
		expected []string
	}{
		{"no patterns", nil, actions},
		{"exact", []string{"CloseTab"}, []string{"CloseTab"}},
		{"case insensitive", []string{"closetab"}, []string{"CloseTab"}},
		{"glob", []string{"*Tab"}, []string{"CloseTab", "SwitchTab", "StartTab"}},
		{"any of", []string{"open*", "s*"}, []string{"OpenWindow", "SwitchTab", "StartTab"}},
		{"none", []string{"Zoom"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MatchActions(actions, tt.patterns))
		})
	}
}
