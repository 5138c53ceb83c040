package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/studiowebux/nightkeys/internal/keybinds"
	"github.com/studiowebux/nightkeys/internal/settings"
)

// Export formats
const (
	ExportJSON     = "json"
	ExportTriggers = "triggers"
	ExportYAML     = "yaml"
	ExportSchema   = "schema"
)

// Export encodes doc for output. json is the structured document,
// triggers the trigger form and yaml the structured document as YAML.
// schema writes the JSON Schema the document is validated against.
func Export(doc *settings.Document, format string, codec *keybinds.Codec) ([]byte, error) {
	switch strings.ToLower(format) {
	case "", ExportJSON:
		return settings.Encode(doc)
	case ExportTriggers:
		return settings.EncodeTriggerForm(doc, codec)
	case ExportYAML:
		return settings.EncodeYAML(doc)
	case ExportSchema:
		return exportSchema(doc)
	default:
		return nil, fmt.Errorf("unknown export format %q (want %s, %s, %s or %s)", format, ExportJSON, ExportTriggers, ExportYAML, ExportSchema)
	}
}

func exportSchema(doc *settings.Document) ([]byte, error) {
	keys := make([]string, 0, len(doc.Keybinds))
	for key := range doc.Keybinds {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	data, err := json.MarshalIndent(settings.Schema(keys), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode schema: %w", err)
	}
	return append(data, '\n'), nil
}

// ValidateFile decodes a settings file and checks its keybinds for
// conflicts. Schema errors are returned as *schema.ValidationError.
func ValidateFile(path string, format settings.Format, codec *keybinds.Codec, platform string) (*keybinds.ValidationResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	doc, err := settings.DecodeFormat(data, format, nil, codec)
	if err != nil {
		return nil, err
	}

	table, err := keybinds.NewTable(codec, doc.Keybinds, platform)
	if err != nil {
		return nil, err
	}
	return keybinds.NewValidator().ValidateTable(table), nil
}

// CopyShortcuts copies the display strings of an action to the system
// clipboard and returns the copied text
func CopyShortcuts(t *keybinds.Table, action string) (string, error) {
	label, err := shortcutLabel(t, action)
	if err != nil {
		return "", err
	}
	if err := clipboard.WriteAll(label); err != nil {
		return "", fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	return label, nil
}
