/*
Package keybinds converts keyboard shortcuts between their persisted
trigger form, a structured Keybind and a platform-specific label.

# Overview

A trigger string lists modifiers then a key, joined by "+":

	CmdOrCtrl+Shift+t

The Codec parses it into a Keybind (a key plus a set of modifier names)
and renders it back, either as a trigger for storage or as a display
sequence for the UI:

	codec := keybinds.NewCodec(nil)
	kb, err := codec.Parse("CmdOrCtrl+Shift+t", keybinds.PlatformDarwin)
	codec.DisplayString(kb, keybinds.PlatformDarwin) // "⌘ + Shift + t"
	codec.DisplayString(kb, keybinds.PlatformWin32)  // "Ctrl + Shift + t"
	codec.Serialize(kb)                              // "CmdOrCtrl+Shift+t"

# Modifier Registry

Modifiers come from an immutable ModifierRegistry. Its declaration order
is the canonical order used when serializing, so "Shift+CmdOrCtrl+t"
and "CmdOrCtrl+Shift+t" serialize identically. Applications add their
own modifiers with Extend or NewModifierRegistry; the default catalogue
is CmdOrCtrl, Control, Meta, Alt, AltGraph and Shift, with aliases such
as Ctrl, Cmd and Option accepted when parsing.

# Table

Table owns the keybinds of every action for a loaded settings session.
Each action holds at most MaxKeybinds keybinds, a dispatch name sent to
the host, an optional data payload and an optional display name.
Mutations (SetKeybindAt, AddKeybind, RemoveKeybindAt, ClearKeybindAt)
return the updated entry so the caller can persist it.

Match resolves a pressed chord to a Dispatch. Logical modifiers are
compared through the physical modifier they stand for: on darwin
"Meta+w" matches a "CmdOrCtrl+w" binding.

# Errors

	ErrUnknownModifier   trigger or keybind names an unregistered modifier
	ErrIndexOutOfRange   slot does not exist
	ErrCapacityExceeded  action would hold more than MaxKeybinds keybinds
	ErrUnknownAction     action key not in the table

A trigger without a key ("Shift+") is rejected with a
*schema.ValidationError.

# Thread Safety

Nothing in this package locks. Registries are immutable and safe to
share; a Table belongs to a single owner.
*/
package keybinds
