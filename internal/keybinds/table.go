package keybinds

import (
	"fmt"
	"sort"
)

// Dispatch is what the host receives when a chord matches an action
type Dispatch struct {
	ActionKey string // table entry, e.g. "SwitchTab"
	Action    string // dispatch name, e.g. "switch-tab"
	Data      string // optional payload, e.g. "next"
}

// Table owns the keybinds of every action for one settings session.
// It is not safe for concurrent use; callers keep a single owner.
type Table struct {
	codec    *Codec
	platform string
	entries  map[string]*Keybinds
}

// NewTable copies entries into a new table. Every keybind must use known
// modifiers and no action may hold more than MaxKeybinds bindings.
func NewTable(codec *Codec, entries map[string]Keybinds, platform string) (*Table, error) {
	if codec == nil {
		codec = NewCodec(nil)
	}
	t := &Table{
		codec:    codec,
		platform: platform,
		entries:  make(map[string]*Keybinds, len(entries)),
	}

	for key, entry := range entries {
		if len(entry.Keybind) > MaxKeybinds {
			return nil, fmt.Errorf("action %s holds %d keybinds: %w", key, len(entry.Keybind), ErrCapacityExceeded)
		}
		e := entry.Clone()
		for i, kb := range e.Keybind {
			normalized, err := codec.Normalize(kb)
			if err != nil {
				return nil, fmt.Errorf("action %s keybind %d: %w", key, i, err)
			}
			e.Keybind[i] = normalized
		}
		t.entries[key] = &e
	}
	return t, nil
}

// Platform returns the platform used for display and matching
func (t *Table) Platform() string {
	return t.platform
}

// Codec returns the codec used by the table
func (t *Table) Codec() *Codec {
	return t.codec
}

// Actions returns the action keys: defaults in declaration order, then
// any other key sorted
func (t *Table) Actions() []string {
	var keys []string
	known := make(map[string]bool)
	for _, key := range DefaultActionKeys() {
		known[key] = true
		if _, ok := t.entries[key]; ok {
			keys = append(keys, key)
		}
	}

	var extra []string
	for key := range t.entries {
		if !known[key] {
			extra = append(extra, key)
		}
	}
	sort.Strings(extra)
	return append(keys, extra...)
}

// Has reports whether the table holds action
func (t *Table) Has(action string) bool {
	_, ok := t.entries[action]
	return ok
}

func (t *Table) entry(action string) (*Keybinds, error) {
	e, ok := t.entries[action]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAction, action)
	}
	return e, nil
}

func checkIndex(action string, e *Keybinds, index int) error {
	if index < 0 || index >= len(e.Keybind) {
		return fmt.Errorf("%w: %s[%d] (has %d)", ErrIndexOutOfRange, action, index, len(e.Keybind))
	}
	return nil
}

// Entry returns a copy of the whole configuration of action
func (t *Table) Entry(action string) (Keybinds, error) {
	e, err := t.entry(action)
	if err != nil {
		return Keybinds{}, err
	}
	return e.Clone(), nil
}

// KeybindsFor returns a copy of the keybinds of action
func (t *Table) KeybindsFor(action string) ([]Keybind, error) {
	e, err := t.entry(action)
	if err != nil {
		return nil, err
	}
	return e.Clone().Keybind, nil
}

// KeybindAt returns a copy of one keybind of action
func (t *Table) KeybindAt(action string, index int) (Keybind, error) {
	e, err := t.entry(action)
	if err != nil {
		return Keybind{}, err
	}
	if err := checkIndex(action, e, index); err != nil {
		return Keybind{}, err
	}
	return e.Keybind[index].Clone(), nil
}

// DisplayStringsFor returns the display string of each keybind of action
func (t *Table) DisplayStringsFor(action string) ([]string, error) {
	e, err := t.entry(action)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(e.Keybind))
	for i, kb := range e.Keybind {
		out[i] = t.codec.DisplayString(kb, t.platform)
	}
	return out, nil
}

// TriggerStringsFor returns the trigger string of each keybind of action
func (t *Table) TriggerStringsFor(action string) ([]string, error) {
	e, err := t.entry(action)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(e.Keybind))
	for i, kb := range e.Keybind {
		out[i] = t.codec.Serialize(kb)
	}
	return out, nil
}

// DisplayNameFor returns the configured display name, or the action key
func (t *Table) DisplayNameFor(action string) string {
	if e, ok := t.entries[action]; ok && e.DisplayName != "" {
		return e.DisplayName
	}
	return action
}

// DataFor returns the data payload of action, if any
func (t *Table) DataFor(action string) (string, bool) {
	e, ok := t.entries[action]
	if !ok || e.Data == "" {
		return "", false
	}
	return e.Data, true
}

// DispatchNameFor returns the name sent to the action channel
func (t *Table) DispatchNameFor(action string) (string, error) {
	e, err := t.entry(action)
	if err != nil {
		return "", err
	}
	return e.Action, nil
}

// SetKeybindAt replaces an existing slot. Slots past MaxKeybinds fail
// with ErrCapacityExceeded, other missing slots with ErrIndexOutOfRange.
func (t *Table) SetKeybindAt(action string, index int, kb Keybind) (Keybinds, error) {
	e, err := t.entry(action)
	if err != nil {
		return Keybinds{}, err
	}
	if index >= MaxKeybinds {
		return Keybinds{}, fmt.Errorf("%w: %s[%d] (max %d)", ErrCapacityExceeded, action, index, MaxKeybinds)
	}
	if err := checkIndex(action, e, index); err != nil {
		return Keybinds{}, err
	}
	normalized, err := t.codec.Normalize(kb)
	if err != nil {
		return Keybinds{}, err
	}
	e.Keybind[index] = normalized
	return e.Clone(), nil
}

// AddKeybind appends a keybind to action
func (t *Table) AddKeybind(action string, kb Keybind) (Keybinds, error) {
	e, err := t.entry(action)
	if err != nil {
		return Keybinds{}, err
	}
	if len(e.Keybind) >= MaxKeybinds {
		return Keybinds{}, fmt.Errorf("%w: %s already has %d keybinds", ErrCapacityExceeded, action, len(e.Keybind))
	}
	normalized, err := t.codec.Normalize(kb)
	if err != nil {
		return Keybinds{}, err
	}
	e.Keybind = append(e.Keybind, normalized)
	return e.Clone(), nil
}

// RemoveKeybindAt deletes a slot and shifts the following ones left
func (t *Table) RemoveKeybindAt(action string, index int) (Keybinds, error) {
	e, err := t.entry(action)
	if err != nil {
		return Keybinds{}, err
	}
	if err := checkIndex(action, e, index); err != nil {
		return Keybinds{}, err
	}
	e.Keybind = append(e.Keybind[:index], e.Keybind[index+1:]...)
	return e.Clone(), nil
}

// ClearKeybindAt unbinds a slot but keeps it and its modifiers
func (t *Table) ClearKeybindAt(action string, index int) (Keybinds, error) {
	e, err := t.entry(action)
	if err != nil {
		return Keybinds{}, err
	}
	if err := checkIndex(action, e, index); err != nil {
		return Keybinds{}, err
	}
	e.Keybind[index].Key = nil
	return e.Clone(), nil
}

// Match resolves a pressed chord to the first action bound to it, in
// Actions order. Logical modifiers are compared by the physical modifier
// they stand for on the table's platform, keys case-insensitively.
func (t *Table) Match(trigger string) (Dispatch, bool, error) {
	pressed, err := t.codec.Parse(trigger, t.platform)
	if err != nil {
		return Dispatch{}, false, err
	}
	chord := t.codec.Chord(pressed, t.platform)

	for _, action := range t.Actions() {
		e := t.entries[action]
		for _, kb := range e.Keybind {
			if kb.IsUnbound() {
				continue
			}
			if t.codec.Chord(kb, t.platform) == chord {
				return Dispatch{ActionKey: action, Action: e.Action, Data: e.Data}, true, nil
			}
		}
	}
	return Dispatch{}, false, nil
}

// Export returns a deep copy of every entry, ready to persist
func (t *Table) Export() map[string]Keybinds {
	out := make(map[string]Keybinds, len(t.entries))
	for key, e := range t.entries {
		out[key] = e.Clone()
	}
	return out
}

// ExportTriggers returns the trigger strings of every action
func (t *Table) ExportTriggers() map[string][]string {
	out := make(map[string][]string, len(t.entries))
	for key := range t.entries {
		triggers, _ := t.TriggerStringsFor(key)
		out[key] = triggers
	}
	return out
}
