package settings

import (
	"github.com/studiowebux/nightkeys/internal/keybinds"
	"github.com/studiowebux/nightkeys/internal/schema"
)

// namePattern restricts general flag names and modifier identifiers
const namePattern = `^[a-zA-Z0-9]+$`

var topLevel = []string{"version", "general", "keybinds", "openedFiles"}

// Schema returns the JSON Schema of the structured document: each
// keybind is a {modifiers, key} object. Only actionKeys may appear
// under keybinds.
func Schema(actionKeys []string) map[string]any {
	keybind := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"modifiers": booleanMap(),
			"key":       map[string]any{"type": []string{"string", "null"}},
		},
		"required":             []string{"modifiers", "key"},
		"additionalProperties": false,
	}
	return document(actionKeys, keybind)
}

// TriggerSchema returns the JSON Schema of the trigger form, where each
// keybind is persisted as a trigger string such as "CmdOrCtrl+w"
func TriggerSchema(actionKeys []string) map[string]any {
	return document(actionKeys, map[string]any{"type": "string"})
}

func booleanMap() map[string]any {
	return map[string]any{
		"type":                 "object",
		"propertyNames":        map[string]any{"pattern": namePattern},
		"additionalProperties": map[string]any{"type": "boolean"},
	}
}

func document(actionKeys []string, keybind map[string]any) map[string]any {
	str := map[string]any{"type": "string"}
	entry := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"keybind": map[string]any{
				"type":     "array",
				"items":    keybind,
				"maxItems": keybinds.MaxKeybinds,
			},
			"action":      str,
			"data":        str,
			"displayName": str,
		},
		"required":             []string{"keybind", "action"},
		"additionalProperties": false,
	}

	actions := make(map[string]any, len(actionKeys))
	for _, key := range actionKeys {
		actions[key] = entry
	}

	return map[string]any{
		"$schema": schema.Draft,
		"title":   "nightkeys settings",
		"type":    "object",
		"properties": map[string]any{
			"version":  str,
			"general":  booleanMap(),
			"keybinds": map[string]any{
				"type":                 "object",
				"properties":           actions,
				"additionalProperties": false,
			},
			"openedFiles": map[string]any{"type": "array", "items": str},
		},
		"required":             topLevel,
		"additionalProperties": false,
	}
}
