package settings

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studiowebux/nightkeys/internal/keybinds"
	"github.com/studiowebux/nightkeys/internal/schema"
)

const validDocument = `{
  "version": "1.0.0",
  "general": {"MaximizeOnOpen": true, "DisplayThumbs": false},
  "keybinds": {
    "CloseTab": {
      "keybind": [
        {"modifiers": {"CmdOrCtrl": true}, "key": "w"},
        {"modifiers": {"Shift": true}, "key": null}
      ],
      "action": "close-tab",
      "displayName": "Close Tab"
    },
    "SwitchTab": {
      "keybind": [],
      "action": "switch-tab",
      "data": "next"
    }
  },
  "openedFiles": ["/tmp/a.pdf"]
}`

func requireValidationError(t *testing.T, err error) *schema.ValidationError {
	t.Helper()
	var verr *schema.ValidationError
	require.True(t, errors.As(err, &verr), "expected *schema.ValidationError, got %v", err)
	return verr
}

func TestBuildDefaults(t *testing.T) {
	doc := BuildDefaults("1.2.0")

	assert.Equal(t, "1.2.0", doc.Version)
	assert.Equal(t, map[string]bool{FlagMaximizeOnOpen: true, FlagDisplayThumbs: true}, doc.General)
	assert.Empty(t, doc.OpenedFiles)
	assert.NotNil(t, doc.OpenedFiles)
	assert.Len(t, doc.Keybinds, len(keybinds.DefaultActions()))

	closeTab := doc.Keybinds[keybinds.ActionCloseTab]
	assert.Equal(t, keybinds.DispatchCloseTab, closeTab.Action)
	assert.Equal(t, "Close Tab", closeTab.DisplayName)
	require.Len(t, closeTab.Keybind, 2)
}

func TestBuildDefaults_Deterministic(t *testing.T) {
	assert.Equal(t, BuildDefaults("1.0.0"), BuildDefaults("1.0.0"))
}

func TestBuildDefaultsWith_InvalidTable(t *testing.T) {
	_, err := BuildDefaultsWith(keybinds.NewCodec(nil), []keybinds.ActionDefault{
		{Key: "Broken", Triggers: []string{"Shift+"}, Action: "broken"},
	}, "1.0.0")
	requireValidationError(t, err)
}

func TestDecode_Valid(t *testing.T) {
	doc, err := Decode([]byte(validDocument), nil)
	require.NoError(t, err)

	assert.Equal(t, "1.0.0", doc.Version)
	assert.Equal(t, []string{"/tmp/a.pdf"}, doc.OpenedFiles)

	flag, ok := doc.Flag(FlagDisplayThumbs)
	assert.True(t, ok)
	assert.False(t, flag)

	closeTab := doc.Keybinds[keybinds.ActionCloseTab]
	require.Len(t, closeTab.Keybind, 2)
	assert.Equal(t, "w", closeTab.Keybind[0].KeyName())
	assert.True(t, closeTab.Keybind[0].Modifiers.Has("CmdOrCtrl"))
	assert.True(t, closeTab.Keybind[1].IsUnbound())

	assert.Equal(t, keybinds.DataNext, doc.Keybinds[keybinds.ActionSwitchTab].Data)
}

func TestDecode_AcceptsComments(t *testing.T) {
	data := `{
  // hand edited
  "version": "1.0.0",
  "general": {},
  "keybinds": {},
  "openedFiles": [],
}`
	doc, err := Decode([]byte(data), nil)
	require.NoError(t, err)
	assert.Equal(t, "1.0.0", doc.Version)
	assert.NotNil(t, doc.Keybinds)
}

func TestDecode_Rejects(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(string) string
		path     string
		expected string
	}{
		{
			name:     "extra top-level key",
			mutate:   func(s string) string { return strings.Replace(s, `"version"`, `"extra": 1, "version"`, 1) },
			path:     "$.extra",
			expected: "no additional properties",
		},
		{
			name:     "missing required key",
			mutate:   func(s string) string { return strings.Replace(s, `"openedFiles"`, `"openFiles"`, 1) },
			path:     "$.openedFiles",
			expected: "required property",
		},
		{
			name:     "unknown action",
			mutate:   func(s string) string { return strings.Replace(s, `"SwitchTab"`, `"Zoom"`, 1) },
			path:     "$.keybinds.Zoom",
			expected: "no additional properties",
		},
		{
			name:     "key is a number",
			mutate:   func(s string) string { return strings.Replace(s, `"key": "w"`, `"key": 5`, 1) },
			path:     "$.keybinds.CloseTab.keybind[0].key",
			expected: "null or string",
		},
		{
			name:     "modifier value not boolean",
			mutate:   func(s string) string { return strings.Replace(s, `{"CmdOrCtrl": true}`, `{"CmdOrCtrl": "yes"}`, 1) },
			path:     "$.keybinds.CloseTab.keybind[0].modifiers.CmdOrCtrl",
			expected: "boolean",
		},
		{
			name:     "modifier name pattern",
			mutate:   func(s string) string { return strings.Replace(s, `{"CmdOrCtrl": true}`, `{"Cmd-Or": true}`, 1) },
			path:     `$.keybinds.CloseTab.keybind[0].modifiers["Cmd-Or"]`,
			expected: "key matching ^[a-zA-Z0-9]+$",
		},
		{
			name: "too many keybinds",
			mutate: func(s string) string {
				return strings.Replace(s, `{"modifiers": {"Shift": true}, "key": null}`,
					`{"modifiers": {"Shift": true}, "key": null}, {"modifiers": {}, "key": "x"}`, 1)
			},
			path:     "$.keybinds.CloseTab.keybind",
			expected: "at most 2 items",
		},
		{
			name:     "missing action",
			mutate:   func(s string) string { return strings.Replace(s, `"action": "switch-tab",`, "", 1) },
			path:     "$.keybinds.SwitchTab.action",
			expected: "required property",
		},
		{
			name:     "extra keybind property",
			mutate:   func(s string) string { return strings.Replace(s, `"key": "w"`, `"key": "w", "code": 87`, 1) },
			path:     "$.keybinds.CloseTab.keybind[0].code",
			expected: "no additional properties",
		},
		{
			name:     "general flag not boolean",
			mutate:   func(s string) string { return strings.Replace(s, `"DisplayThumbs": false`, `"DisplayThumbs": 0`, 1) },
			path:     "$.general.DisplayThumbs",
			expected: "boolean",
		},
		{
			name:     "malformed",
			mutate:   func(s string) string { return s[:len(s)-2] },
			path:     "$",
			expected: "valid JSON",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := tt.mutate(validDocument)
			require.NotEqual(t, validDocument, data, "mutation did not apply")

			doc, err := Decode([]byte(data), nil)
			assert.Nil(t, doc)
			verr := requireValidationError(t, err)
			assert.Equal(t, tt.path, verr.Path)
			assert.Equal(t, tt.expected, verr.Expected)
		})
	}
}

func TestDecode_CustomActionKeys(t *testing.T) {
	data := `{"version": "1", "general": {}, "keybinds": {"Zoom": {"keybind": [], "action": "zoom"}}, "openedFiles": []}`

	_, err := Decode([]byte(data), nil)
	requireValidationError(t, err)

	doc, err := Decode([]byte(data), []string{"Zoom"})
	require.NoError(t, err)
	assert.Equal(t, "zoom", doc.Keybinds["Zoom"].Action)
}

func TestEncode_RoundTrip(t *testing.T) {
	doc := BuildDefaults("1.0.0")
	doc.OpenedFiles = append(doc.OpenedFiles, "/tmp/b.pdf")

	data, err := Encode(doc)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"openedFiles": [`)
	assert.Contains(t, string(data), `"CmdOrCtrl": true`)

	decoded, err := Decode(data, nil)
	require.NoError(t, err)
	assert.Equal(t, doc, decoded)
}

func TestEncode_NilCollections(t *testing.T) {
	data, err := Encode(&Document{Version: "1.0.0"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"version": "1.0.0", "general": {}, "keybinds": {}, "openedFiles": []}`, string(data))
}

func TestTriggerForm(t *testing.T) {
	codec := keybinds.NewCodec(nil)
	doc := BuildDefaults("1.0.0")

	data, err := EncodeTriggerForm(doc, codec)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"CmdOrCtrl+w"`)
	assert.Contains(t, string(data), `"Control+F4"`)

	decoded, err := DecodeTriggerForm(data, nil, codec)
	require.NoError(t, err)
	assert.Equal(t, doc, decoded)

	// the structured schema rejects trigger strings
	_, err = Decode(data, nil)
	requireValidationError(t, err)
}

func TestRoundTrip_UnboundSlots(t *testing.T) {
	codec := keybinds.NewCodec(nil)
	doc := BuildDefaults("1.0.0")

	closeTab := doc.Keybinds["CloseTab"]
	closeTab.Keybind[1].Key = nil // "Control+"
	doc.Keybinds["CloseTab"] = closeTab

	openWindow := doc.Keybinds["OpenWindow"]
	openWindow.Keybind = append(openWindow.Keybind, keybinds.UnboundKeybind()) // ""
	doc.Keybinds["OpenWindow"] = openWindow

	for _, format := range []Format{FormatStructured, FormatTriggers} {
		t.Run(string(format), func(t *testing.T) {
			data, err := EncodeFormat(doc, format, codec)
			require.NoError(t, err)

			decoded, err := DecodeFormat(data, format, nil, codec)
			require.NoError(t, err)
			assert.Equal(t, doc, decoded)
			assert.True(t, decoded.Keybinds["CloseTab"].Keybind[1].IsUnbound())
			assert.Equal(t, keybinds.ModifierSet{"Control": true}, decoded.Keybinds["CloseTab"].Keybind[1].Modifiers)
			assert.True(t, decoded.Keybinds["OpenWindow"].Keybind[1].IsUnbound())
		})
	}

	data, err := EncodeTriggerForm(doc, codec)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Control+"`)
	assert.Contains(t, string(data), `""`)
}

func TestDecodeTriggerForm_Errors(t *testing.T) {
	codec := keybinds.NewCodec(nil)

	unknown := `{"version": "1", "general": {}, "keybinds": {"CloseTab": {"keybind": ["Hyper+w"], "action": "close-tab"}}, "openedFiles": []}`
	_, err := DecodeTriggerForm([]byte(unknown), nil, codec)
	require.ErrorIs(t, err, keybinds.ErrUnknownModifier)
	assert.Contains(t, err.Error(), "action CloseTab")

	malformed := `{"version": "1", "general": {}, "keybinds": {"CloseTab": {"keybind": ["Shift+Hyper+"], "action": "close-tab"}}, "openedFiles": []}`
	_, err = DecodeTriggerForm([]byte(malformed), nil, codec)
	require.ErrorIs(t, err, keybinds.ErrUnknownModifier)

	structured := `{"version": "1", "general": {}, "keybinds": {"CloseTab": {"keybind": [{"modifiers": {}, "key": "w"}], "action": "close-tab"}}, "openedFiles": []}`
	_, err = DecodeTriggerForm([]byte(structured), nil, codec)
	verr := requireValidationError(t, err)
	assert.Equal(t, "$.keybinds.CloseTab.keybind[0]", verr.Path)
}

func TestFormatDispatch(t *testing.T) {
	codec := keybinds.NewCodec(nil)
	doc := BuildDefaults("1.0.0")

	for _, format := range []Format{FormatStructured, FormatTriggers} {
		t.Run(string(format), func(t *testing.T) {
			data, err := EncodeFormat(doc, format, codec)
			require.NoError(t, err)
			decoded, err := DecodeFormat(data, format, nil, codec)
			require.NoError(t, err)
			assert.Equal(t, doc, decoded)
		})
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatStructured, f)

	f, err = ParseFormat("triggers")
	require.NoError(t, err)
	assert.Equal(t, FormatTriggers, f)

	_, err = ParseFormat("toml")
	assert.Error(t, err)
}

func TestEncodeYAML(t *testing.T) {
	data, err := EncodeYAML(BuildDefaults("1.0.0"))
	require.NoError(t, err)

	out := string(data)
	assert.Contains(t, out, "version: 1.0.0")
	assert.Contains(t, out, "action: close-tab")
	assert.Contains(t, out, "CmdOrCtrl: true")
}

func TestMigrate(t *testing.T) {
	defaults := BuildDefaults("2.0.0")

	old := BuildDefaults("1.0.0")
	delete(old.Keybinds, keybinds.ActionEndTab)
	delete(old.General, FlagDisplayThumbs)
	old.General[FlagMaximizeOnOpen] = false
	closeTab := old.Keybinds[keybinds.ActionCloseTab]
	closeTab.Keybind = closeTab.Keybind[:1]
	old.Keybinds[keybinds.ActionCloseTab] = closeTab

	migrated, result := Migrate(old, defaults, "2.0.0")

	assert.True(t, result.Changed())
	assert.False(t, result.Newer)
	assert.Equal(t, "1.0.0", result.From)
	assert.Equal(t, "2.0.0", result.To)
	assert.Equal(t, []string{keybinds.ActionEndTab}, result.AddedActions)
	assert.Equal(t, []string{FlagDisplayThumbs}, result.AddedFlags)

	assert.Equal(t, "2.0.0", migrated.Version)
	assert.Contains(t, migrated.Keybinds, keybinds.ActionEndTab)
	// user values survive
	assert.False(t, migrated.General[FlagMaximizeOnOpen])
	assert.Len(t, migrated.Keybinds[keybinds.ActionCloseTab].Keybind, 1)

	// the input is left alone
	assert.Equal(t, "1.0.0", old.Version)
	assert.NotContains(t, old.Keybinds, keybinds.ActionEndTab)
}

func TestMigrate_NoChange(t *testing.T) {
	defaults := BuildDefaults("1.0.0")

	tests := []struct {
		name       string
		docVersion string
		appVersion string
		newer      bool
	}{
		{"same version", "1.0.0", "1.0.0", false},
		{"newer document", "3.0.0", "1.0.0", true},
		{"unknown app version", "1.0.0", "dev", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := BuildDefaults(tt.docVersion)
			delete(doc.Keybinds, keybinds.ActionEndTab)

			migrated, result := Migrate(doc, defaults, tt.appVersion)
			assert.False(t, result.Changed())
			assert.Equal(t, tt.newer, result.Newer)
			assert.Equal(t, tt.docVersion, migrated.Version)
			assert.NotContains(t, migrated.Keybinds, keybinds.ActionEndTab)
		})
	}
}
