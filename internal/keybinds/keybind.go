package keybinds

import (
	"encoding/json"
	"sort"
)

// MaxKeybinds is the number of shortcuts an action may hold
const MaxKeybinds = 2

// ModifierSet holds the active modifiers of a keybind, keyed by
// canonical modifier name. A false entry is inactive.
type ModifierSet map[string]bool

// Has reports whether the modifier is active
func (s ModifierSet) Has(name string) bool {
	return s[name]
}

func (s ModifierSet) active() []string {
	names := make([]string, 0, len(s))
	for name, on := range s {
		if on {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func (s ModifierSet) clone() ModifierSet {
	out := make(ModifierSet, len(s))
	for name, on := range s {
		out[name] = on
	}
	return out
}

// Keybind is one binding: a key plus a set of active modifiers.
// A nil Key marks an unbound slot.
type Keybind struct {
	Modifiers ModifierSet `json:"modifiers" yaml:"modifiers"`
	Key       *string     `json:"key" yaml:"key"`
}

// NewKeybind builds a bound keybind from canonical modifier names
func NewKeybind(key string, modifiers ...string) Keybind {
	kb := UnboundKeybind(modifiers...)
	kb.Key = &key
	return kb
}

// UnboundKeybind builds a keybind with no key
func UnboundKeybind(modifiers ...string) Keybind {
	set := make(ModifierSet, len(modifiers))
	for _, m := range modifiers {
		set[m] = true
	}
	return Keybind{Modifiers: set}
}

// IsUnbound returns true if the slot has no key
func (k Keybind) IsUnbound() bool {
	return k.Key == nil
}

// KeyName returns the key, or "" when unbound
func (k Keybind) KeyName() string {
	if k.Key == nil {
		return ""
	}
	return *k.Key
}

// Clone returns a deep copy with a non-nil modifier set
func (k Keybind) Clone() Keybind {
	out := Keybind{Modifiers: k.Modifiers.clone()}
	if k.Key != nil {
		key := *k.Key
		out.Key = &key
	}
	return out
}

// Equal compares active modifiers and keys
func (k Keybind) Equal(other Keybind) bool {
	if (k.Key == nil) != (other.Key == nil) {
		return false
	}
	if k.Key != nil && *k.Key != *other.Key {
		return false
	}
	a, b := k.Modifiers.active(), other.Modifiers.active()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// MarshalJSON always writes a modifiers object, never null
func (k Keybind) MarshalJSON() ([]byte, error) {
	type plain Keybind
	return json.Marshal(plain(k.Clone()))
}

// Keybinds is the configuration of one action
type Keybinds struct {
	Keybind     []Keybind `json:"keybind" yaml:"keybind"`
	Action      string    `json:"action" yaml:"action"`
	Data        string    `json:"data,omitempty" yaml:"data,omitempty"`
	DisplayName string    `json:"displayName,omitempty" yaml:"displayName,omitempty"`
}

// Clone returns a deep copy with a non-nil keybind list
func (k Keybinds) Clone() Keybinds {
	out := k
	out.Keybind = make([]Keybind, len(k.Keybind))
	for i, kb := range k.Keybind {
		out.Keybind[i] = kb.Clone()
	}
	return out
}

// MarshalJSON always writes a keybind array, never null
func (k Keybinds) MarshalJSON() ([]byte, error) {
	type plain Keybinds
	return json.Marshal(plain(k.Clone()))
}
