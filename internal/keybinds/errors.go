package keybinds

import "errors"

var (
	// ErrUnknownModifier is returned when a trigger or keybind names a
	// modifier that is not in the registry
	ErrUnknownModifier = errors.New("unknown modifier")

	// ErrIndexOutOfRange is returned when accessing a slot that does not exist
	ErrIndexOutOfRange = errors.New("keybind index out of range")

	// ErrCapacityExceeded is returned when an action would hold more than
	// MaxKeybinds bindings
	ErrCapacityExceeded = errors.New("keybind capacity exceeded")

	// ErrUnknownAction is returned for action keys missing from the table
	ErrUnknownAction = errors.New("unknown action")
)
