package keybinds

import "fmt"

// BuildKeybinds parses the triggers of each action default with the
// neutral platform. Labels are resolved later, at display time.
func BuildKeybinds(codec *Codec, defaults []ActionDefault) (map[string]Keybinds, error) {
	out := make(map[string]Keybinds, len(defaults))
	for _, d := range defaults {
		kbs, err := codec.ParseMany(d.Triggers, PlatformNone)
		if err != nil {
			return nil, fmt.Errorf("default action %s: %w", d.Key, err)
		}
		out[d.Key] = Keybinds{
			Keybind:     kbs,
			Action:      d.Action,
			Data:        d.Data,
			DisplayName: d.DisplayName,
		}
	}
	return out, nil
}

// BuildDefaultKeybinds builds the factory keybind table
func BuildDefaultKeybinds(codec *Codec) (map[string]Keybinds, error) {
	return BuildKeybinds(codec, DefaultActions())
}
