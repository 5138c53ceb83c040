package keybinds

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/studiowebux/nightkeys/internal/schema"
)

// TriggerSeparator joins modifiers and key in a trigger string
const TriggerSeparator = "+"

// DisplaySeparator joins the labels of a display string
const DisplaySeparator = " + "

// Codec converts between trigger strings, keybinds and display labels
type Codec struct {
	registry *ModifierRegistry
}

// NewCodec creates a codec over registry, or the default registry if nil
func NewCodec(registry *ModifierRegistry) *Codec {
	if registry == nil {
		registry = DefaultModifierRegistry()
	}
	return &Codec{registry: registry}
}

// Registry returns the modifier catalogue used by the codec
func (c *Codec) Registry() *ModifierRegistry {
	return c.registry
}

// Parse converts a trigger such as "CmdOrCtrl+Shift+t" into a keybind.
// The last segment is the key, every other segment must name a modifier.
// Parsing does not depend on platform; it is accepted so callers can pass
// the same context they use for DisplaySequence.
func (c *Codec) Parse(trigger, platform string) (Keybind, error) {
	return c.parse(trigger, false)
}

// ParseStored parses a persisted trigger. Unlike Parse it accepts what
// Serialize writes for an unbound keybind ("Shift+", or "" without
// modifiers) and returns it with a nil key.
func (c *Codec) ParseStored(trigger, platform string) (Keybind, error) {
	return c.parse(trigger, true)
}

func (c *Codec) parse(trigger string, allowUnbound bool) (Keybind, error) {
	kb := Keybind{Modifiers: ModifierSet{}}
	if allowUnbound && strings.TrimSpace(trigger) == "" {
		return kb, nil
	}

	segments := strings.Split(trigger, TriggerSeparator)
	key := strings.TrimSpace(segments[len(segments)-1])
	switch {
	case key != "":
		kb.Key = &key
	case !allowUnbound:
		return Keybind{}, &schema.ValidationError{
			Path:     "trigger",
			Expected: "non-modifier key",
			Actual:   strconv.Quote(trigger),
		}
	}

	for _, segment := range segments[:len(segments)-1] {
		m, err := c.registry.Lookup(strings.TrimSpace(segment))
		if err != nil {
			return Keybind{}, fmt.Errorf("failed to parse trigger %q: %w", trigger, err)
		}
		kb.Modifiers[m.Name] = true
	}
	return kb, nil
}

// ParseMany parses each trigger independently
func (c *Codec) ParseMany(triggers []string, platform string) ([]Keybind, error) {
	return c.parseMany(triggers, platform, c.Parse)
}

// ParseStoredMany is ParseMany for persisted triggers, see ParseStored
func (c *Codec) ParseStoredMany(triggers []string, platform string) ([]Keybind, error) {
	return c.parseMany(triggers, platform, c.ParseStored)
}

func (c *Codec) parseMany(triggers []string, platform string, parse func(string, string) (Keybind, error)) ([]Keybind, error) {
	keybinds := make([]Keybind, 0, len(triggers))
	for i, trigger := range triggers {
		kb, err := parse(trigger, platform)
		if err != nil {
			return nil, fmt.Errorf("trigger %d: %w", i, err)
		}
		keybinds = append(keybinds, kb)
	}
	return keybinds, nil
}

// Serialize writes kb as a trigger string: active modifiers in registry
// order using their savesAs token, then the key. An unbound keybind
// yields the modifier prefix only ("Shift+").
func (c *Codec) Serialize(kb Keybind) string {
	var sb strings.Builder
	for _, name := range c.ordered(kb.Modifiers) {
		token := name
		if m, err := c.registry.Lookup(name); err == nil {
			token = m.SavesAs
		}
		sb.WriteString(token)
		sb.WriteString(TriggerSeparator)
	}
	sb.WriteString(kb.KeyName())
	return sb.String()
}

// Canonicalize parses and re-serializes a trigger, fixing modifier order
// and replacing aliases by their savesAs token
func (c *Codec) Canonicalize(trigger string) (string, error) {
	kb, err := c.Parse(trigger, PlatformNone)
	if err != nil {
		return "", err
	}
	return c.Serialize(kb), nil
}

// DisplaySequence returns one label per active modifier followed by the
// key. Unbound keybinds have no display.
func (c *Codec) DisplaySequence(kb Keybind, platform string) []string {
	if kb.IsUnbound() {
		return []string{}
	}
	labels := make([]string, 0, len(kb.Modifiers)+1)
	for _, name := range c.ordered(kb.Modifiers) {
		labels = append(labels, c.registry.DisplayLabel(name, platform))
	}
	return append(labels, *kb.Key)
}

// DisplayString joins DisplaySequence with " + "
func (c *Codec) DisplayString(kb Keybind, platform string) string {
	return strings.Join(c.DisplaySequence(kb, platform), DisplaySeparator)
}

// Physical replaces logical modifiers (CmdOrCtrl) by the modifier they
// stand for on platform
func (c *Codec) Physical(kb Keybind, platform string) Keybind {
	out := Keybind{Modifiers: ModifierSet{}}
	for _, name := range kb.Modifiers.active() {
		out.Modifiers[c.registry.physical(name, platform)] = true
	}
	if kb.Key != nil {
		key := *kb.Key
		out.Key = &key
	}
	return out
}

// Chord returns the trigger of the physical keybind with a lower-cased
// key, used to compare bindings typed with different spellings
func (c *Codec) Chord(kb Keybind, platform string) string {
	p := c.Physical(kb, platform)
	if p.Key != nil {
		key := strings.ToLower(*p.Key)
		p.Key = &key
	}
	return c.Serialize(p)
}

// Normalize returns a copy of kb whose modifiers use canonical names and
// whose inactive entries are dropped. Unknown modifiers fail.
func (c *Codec) Normalize(kb Keybind) (Keybind, error) {
	out := Keybind{Modifiers: ModifierSet{}}
	for _, name := range kb.Modifiers.active() {
		m, err := c.registry.Lookup(name)
		if err != nil {
			return Keybind{}, err
		}
		out.Modifiers[m.Name] = true
	}
	if kb.Key != nil {
		if *kb.Key == "" {
			return Keybind{}, &schema.ValidationError{Path: "key", Expected: "non-empty key or null", Actual: `""`}
		}
		key := *kb.Key
		out.Key = &key
	}
	return out, nil
}

// ordered returns the active modifiers in canonical order. Names unknown
// to the registry come last, sorted, so they are never dropped.
func (c *Codec) ordered(set ModifierSet) []string {
	names := set.active()
	sort.SliceStable(names, func(i, j int) bool {
		ri, rj := c.registry.Rank(names[i]), c.registry.Rank(names[j])
		switch {
		case ri < 0 && rj < 0:
			return names[i] < names[j]
		case ri < 0:
			return false
		case rj < 0:
			return true
		default:
			return ri < rj
		}
	})
	return names
}
