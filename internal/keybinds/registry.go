package keybinds

import (
	"fmt"
	"regexp"
)

// DefaultVariant is the mandatory fallback entry of a Variants map
const DefaultVariant = "default"

// modifierNamePattern is also enforced by the settings schema on the
// keys of a persisted modifier set
var modifierNamePattern = regexp.MustCompile(`^[a-zA-Z0-9]+$`)

// Variants maps a platform identifier to a value, with a required
// DefaultVariant entry used for every other platform
type Variants map[string]string

// Resolve returns the value for platform, falling back to DefaultVariant
func (v Variants) Resolve(platform string) (string, bool) {
	if value, ok := v[platform]; ok {
		return value, true
	}
	value, ok := v[DefaultVariant]
	return value, ok
}

func (v Variants) clone() Variants {
	if v == nil {
		return nil
	}
	out := make(Variants, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}

// Modifier describes one recognized modifier key
type Modifier struct {
	Name        string   // identifier used in modifier sets
	SavesAs     string   // token written in trigger strings, defaults to Name
	OSDependent bool     // label comes from OSVariants
	DisplayAs   string   // fixed label when not OS dependent
	OSVariants  Variants // platform -> label, needs DefaultVariant
	ResolvesTo  Variants // platform -> physical modifier name, for matching
	Aliases     []string // extra names accepted when parsing
}

func (m Modifier) clone() Modifier {
	m.OSVariants = m.OSVariants.clone()
	m.ResolvesTo = m.ResolvesTo.clone()
	m.Aliases = append([]string(nil), m.Aliases...)
	return m
}

// ModifierRegistry is an immutable, ordered catalogue of modifiers.
// Declaration order is the canonical order used for serialization.
type ModifierRegistry struct {
	modifiers []Modifier
	index     map[string]int // name, savesAs and aliases -> position
}

// NewModifierRegistry validates the given modifiers and builds a registry
func NewModifierRegistry(mods ...Modifier) (*ModifierRegistry, error) {
	r := &ModifierRegistry{
		modifiers: make([]Modifier, 0, len(mods)),
		index:     make(map[string]int),
	}

	for _, mod := range mods {
		m := mod.clone()
		if m.SavesAs == "" {
			m.SavesAs = m.Name
		}
		if err := validateModifier(m); err != nil {
			return nil, err
		}

		pos := len(r.modifiers)
		for _, id := range identifiers(m) {
			if prev, taken := r.index[id]; taken && prev != pos {
				return nil, fmt.Errorf("invalid modifier %q: identifier %q already used by %q", m.Name, id, r.modifiers[prev].Name)
			}
			r.index[id] = pos
		}
		r.modifiers = append(r.modifiers, m)
	}

	// ResolvesTo targets must exist once the whole catalogue is known
	for _, m := range r.modifiers {
		for platform, target := range m.ResolvesTo {
			if _, ok := r.index[target]; !ok {
				return nil, fmt.Errorf("invalid modifier %q: resolves to unknown modifier %q on %s", m.Name, target, platform)
			}
		}
	}

	return r, nil
}

func validateModifier(m Modifier) error {
	if !modifierNamePattern.MatchString(m.Name) {
		return fmt.Errorf("invalid modifier name %q", m.Name)
	}
	if !modifierNamePattern.MatchString(m.SavesAs) {
		return fmt.Errorf("invalid modifier %q: savesAs %q", m.Name, m.SavesAs)
	}
	for _, alias := range m.Aliases {
		if !modifierNamePattern.MatchString(alias) {
			return fmt.Errorf("invalid modifier %q: alias %q", m.Name, alias)
		}
	}
	if m.OSDependent {
		if _, ok := m.OSVariants[DefaultVariant]; !ok {
			return fmt.Errorf("invalid modifier %q: os dependent without a %q variant", m.Name, DefaultVariant)
		}
	}
	if m.ResolvesTo != nil {
		if _, ok := m.ResolvesTo[DefaultVariant]; !ok {
			return fmt.Errorf("invalid modifier %q: resolvesTo without a %q variant", m.Name, DefaultVariant)
		}
	}
	return nil
}

func identifiers(m Modifier) []string {
	ids := []string{m.Name}
	if m.SavesAs != m.Name {
		ids = append(ids, m.SavesAs)
	}
	return append(ids, m.Aliases...)
}

// DefaultModifiers returns the built-in catalogue in canonical order
func DefaultModifiers() []Modifier {
	return []Modifier{
		{
			Name:        "CmdOrCtrl",
			OSDependent: true,
			OSVariants:  Variants{PlatformDarwin: "⌘", DefaultVariant: "Ctrl"},
			ResolvesTo:  Variants{PlatformDarwin: "Meta", DefaultVariant: "Control"},
			Aliases:     []string{"CommandOrControl"},
		},
		{
			Name:      "Control",
			DisplayAs: "Ctrl",
			Aliases:   []string{"Ctrl"},
		},
		{
			Name:        "Meta",
			OSDependent: true,
			OSVariants:  Variants{PlatformDarwin: "⌘", PlatformWin32: "Win", DefaultVariant: "Meta"},
			Aliases:     []string{"Cmd", "Command", "Super"},
		},
		{
			Name:    "Alt",
			Aliases: []string{"Option"},
		},
		{
			Name:      "AltGraph",
			DisplayAs: "AltGr",
			Aliases:   []string{"AltGr"},
		},
		{
			Name: "Shift",
		},
	}
}

var defaultRegistry = mustRegistry(DefaultModifiers()...)

func mustRegistry(mods ...Modifier) *ModifierRegistry {
	r, err := NewModifierRegistry(mods...)
	if err != nil {
		panic(err)
	}
	return r
}

// DefaultModifierRegistry returns the shared registry of DefaultModifiers
func DefaultModifierRegistry() *ModifierRegistry {
	return defaultRegistry
}

// Extend returns a new registry with mods appended after the existing ones
func (r *ModifierRegistry) Extend(mods ...Modifier) (*ModifierRegistry, error) {
	return NewModifierRegistry(append(r.All(), mods...)...)
}

// All returns a copy of the catalogue in canonical order
func (r *ModifierRegistry) All() []Modifier {
	out := make([]Modifier, len(r.modifiers))
	for i, m := range r.modifiers {
		out[i] = m.clone()
	}
	return out
}

// Names returns the canonical modifier names in order
func (r *ModifierRegistry) Names() []string {
	names := make([]string, len(r.modifiers))
	for i, m := range r.modifiers {
		names[i] = m.Name
	}
	return names
}

// Lookup finds a modifier by name, savesAs token or alias
func (r *ModifierRegistry) Lookup(name string) (Modifier, error) {
	pos, ok := r.index[name]
	if !ok {
		return Modifier{}, fmt.Errorf("%w: %q", ErrUnknownModifier, name)
	}
	return r.modifiers[pos].clone(), nil
}

// Rank returns the canonical position of a modifier, or -1
func (r *ModifierRegistry) Rank(name string) int {
	if pos, ok := r.index[name]; ok {
		return pos
	}
	return -1
}

// DisplayLabel returns the label of a modifier on the given platform.
// Unknown names are returned unchanged.
func (r *ModifierRegistry) DisplayLabel(name, platform string) string {
	pos, ok := r.index[name]
	if !ok {
		return name
	}
	m := r.modifiers[pos]

	if !m.OSDependent || m.OSVariants == nil {
		if m.DisplayAs != "" {
			return m.DisplayAs
		}
		return m.Name
	}
	if label, ok := m.OSVariants.Resolve(platform); ok && label != "" {
		return label
	}
	return name
}

// physical returns the name of the modifier actually held on platform
func (r *ModifierRegistry) physical(name, platform string) string {
	pos, ok := r.index[name]
	if !ok {
		return name
	}
	m := r.modifiers[pos]
	if target, ok := m.ResolvesTo.Resolve(platform); ok {
		return r.modifiers[r.index[target]].Name
	}
	return m.Name
}
