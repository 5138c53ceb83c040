package settings

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/studiowebux/nightkeys/internal/keybinds"
	"github.com/studiowebux/nightkeys/internal/schema"
)

// Format selects how keybinds are persisted
type Format string

const (
	// FormatStructured stores each keybind as {"modifiers": {...}, "key": ...}
	FormatStructured Format = "structured"
	// FormatTriggers stores each keybind as a trigger string
	FormatTriggers Format = "triggers"
)

// ParseFormat validates a format name, "" meaning structured
func ParseFormat(name string) (Format, error) {
	switch Format(name) {
	case "", FormatStructured:
		return FormatStructured, nil
	case FormatTriggers:
		return FormatTriggers, nil
	default:
		return "", fmt.Errorf("unknown settings format %q (want %s or %s)", name, FormatStructured, FormatTriggers)
	}
}

// triggerEntry is the trigger-form counterpart of keybinds.Keybinds
type triggerEntry struct {
	Keybind     []string `json:"keybind"`
	Action      string   `json:"action"`
	Data        string   `json:"data,omitempty"`
	DisplayName string   `json:"displayName,omitempty"`
}

type triggerDocument struct {
	Version     string                  `json:"version"`
	General     map[string]bool         `json:"general"`
	Keybinds    map[string]triggerEntry `json:"keybinds"`
	OpenedFiles []string                `json:"openedFiles"`
}

// Decode validates and decodes a structured document. Comments and
// trailing commas are accepted. actionKeys lists the actions allowed
// under "keybinds"; nil means the default actions. A document that does
// not match the schema fails with a *schema.ValidationError and is
// never partially decoded.
func Decode(data []byte, actionKeys []string) (*Document, error) {
	if err := validate(Schema(actionKeysOrDefault(actionKeys)), data); err != nil {
		return nil, err
	}

	var doc Document
	if err := json.Unmarshal(jsonc.ToJSON(data), &doc); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}
	doc.ensure()
	return &doc, nil
}

// DecodeTriggerForm validates a trigger-form document and parses each
// trigger with codec
func DecodeTriggerForm(data []byte, actionKeys []string, codec *keybinds.Codec) (*Document, error) {
	if err := validate(TriggerSchema(actionKeysOrDefault(actionKeys)), data); err != nil {
		return nil, err
	}

	var raw triggerDocument
	if err := json.Unmarshal(jsonc.ToJSON(data), &raw); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}

	doc := &Document{
		Version:     raw.Version,
		General:     raw.General,
		Keybinds:    make(map[string]keybinds.Keybinds, len(raw.Keybinds)),
		OpenedFiles: raw.OpenedFiles,
	}
	for key, entry := range raw.Keybinds {
		kbs, err := codec.ParseStoredMany(entry.Keybind, keybinds.PlatformNone)
		if err != nil {
			return nil, fmt.Errorf("action %s: %w", key, err)
		}
		doc.Keybinds[key] = keybinds.Keybinds{
			Keybind:     kbs,
			Action:      entry.Action,
			Data:        entry.Data,
			DisplayName: entry.DisplayName,
		}
	}
	doc.ensure()
	return doc, nil
}

// DecodeFormat decodes data in the given format
func DecodeFormat(data []byte, format Format, actionKeys []string, codec *keybinds.Codec) (*Document, error) {
	if format == FormatTriggers {
		return DecodeTriggerForm(data, actionKeys, codec)
	}
	return Decode(data, actionKeys)
}

// Encode writes the structured document as indented JSON
func Encode(doc *Document) ([]byte, error) {
	out := doc.Clone()
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode settings: %w", err)
	}
	return append(data, '\n'), nil
}

// EncodeTriggerForm writes the document with keybinds as trigger strings
func EncodeTriggerForm(doc *Document, codec *keybinds.Codec) ([]byte, error) {
	out := doc.Clone()
	raw := triggerDocument{
		Version:     out.Version,
		General:     out.General,
		Keybinds:    make(map[string]triggerEntry, len(out.Keybinds)),
		OpenedFiles: out.OpenedFiles,
	}
	for key, entry := range out.Keybinds {
		triggers := make([]string, len(entry.Keybind))
		for i, kb := range entry.Keybind {
			triggers[i] = codec.Serialize(kb)
		}
		raw.Keybinds[key] = triggerEntry{
			Keybind:     triggers,
			Action:      entry.Action,
			Data:        entry.Data,
			DisplayName: entry.DisplayName,
		}
	}

	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode settings: %w", err)
	}
	return append(data, '\n'), nil
}

// EncodeFormat encodes doc in the given format
func EncodeFormat(doc *Document, format Format, codec *keybinds.Codec) ([]byte, error) {
	if format == FormatTriggers {
		return EncodeTriggerForm(doc, codec)
	}
	return Encode(doc)
}

// EncodeYAML writes the structured document as YAML, for export only
func EncodeYAML(doc *Document) ([]byte, error) {
	data, err := yaml.Marshal(doc.Clone())
	if err != nil {
		return nil, fmt.Errorf("failed to encode settings as yaml: %w", err)
	}
	return data, nil
}

func validate(doc map[string]any, data []byte) error {
	compiled, err := schema.Compile(doc)
	if err != nil {
		return err
	}
	_, err = compiled.ValidateJSON(jsonc.ToJSON(data))
	return err
}

func actionKeysOrDefault(keys []string) []string {
	if keys == nil {
		return keybinds.DefaultActionKeys()
	}
	return keys
}
