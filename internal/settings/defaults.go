package settings

import (
	"fmt"

	"github.com/studiowebux/nightkeys/internal/keybinds"
)

// DefaultGeneral returns the factory general flags
func DefaultGeneral() map[string]bool {
	return map[string]bool{
		FlagMaximizeOnOpen: true,
		FlagDisplayThumbs:  true,
	}
}

// BuildDefaults returns the factory document for version. It panics only
// if the compiled-in action table does not parse.
func BuildDefaults(version string) *Document {
	doc, err := BuildDefaultsWith(keybinds.NewCodec(nil), keybinds.DefaultActions(), version)
	if err != nil {
		panic(fmt.Sprintf("built-in keybind defaults are invalid: %v", err))
	}
	return doc
}

// BuildDefaultsWith builds a factory document from a custom action table
// and modifier catalogue
func BuildDefaultsWith(codec *keybinds.Codec, actions []keybinds.ActionDefault, version string) (*Document, error) {
	entries, err := keybinds.BuildKeybinds(codec, actions)
	if err != nil {
		return nil, err
	}
	return &Document{
		Version:     version,
		General:     DefaultGeneral(),
		Keybinds:    entries,
		OpenedFiles: []string{},
	}, nil
}
