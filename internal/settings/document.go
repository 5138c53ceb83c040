package settings

import (
	"github.com/studiowebux/nightkeys/internal/keybinds"
)

// General flag names of the factory configuration
const (
	FlagMaximizeOnOpen = "MaximizeOnOpen"
	FlagDisplayThumbs  = "DisplayThumbs"
)

// Document is the persisted settings document
type Document struct {
	Version     string                       `json:"version" yaml:"version"`
	General     map[string]bool              `json:"general" yaml:"general"`
	Keybinds    map[string]keybinds.Keybinds `json:"keybinds" yaml:"keybinds"`
	OpenedFiles []string                     `json:"openedFiles" yaml:"openedFiles"`
}

// Clone returns a deep copy with non-nil collections
func (d *Document) Clone() *Document {
	out := &Document{
		Version:     d.Version,
		General:     make(map[string]bool, len(d.General)),
		Keybinds:    make(map[string]keybinds.Keybinds, len(d.Keybinds)),
		OpenedFiles: append([]string{}, d.OpenedFiles...),
	}
	for k, v := range d.General {
		out.General[k] = v
	}
	for k, v := range d.Keybinds {
		out.Keybinds[k] = v.Clone()
	}
	return out
}

// ensure fills nil collections so encoding never writes null
func (d *Document) ensure() {
	if d.General == nil {
		d.General = map[string]bool{}
	}
	if d.Keybinds == nil {
		d.Keybinds = map[string]keybinds.Keybinds{}
	}
	if d.OpenedFiles == nil {
		d.OpenedFiles = []string{}
	}
}

// Flag returns a general flag and whether it is set
func (d *Document) Flag(name string) (bool, bool) {
	v, ok := d.General[name]
	return v, ok
}

// SetFlag sets a general flag
func (d *Document) SetFlag(name string, value bool) {
	d.ensure()
	d.General[name] = value
}
