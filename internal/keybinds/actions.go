package keybinds

// Action keys identify an entry of the keybind table and of the
// persisted "keybinds" object
const (
	ActionOpenWindow  = "OpenWindow"
	ActionCloseTab    = "CloseTab"
	ActionReOpen      = "ReOpen"
	ActionSwitchTab   = "SwitchTab"
	ActionPreviousTab = "PreviousTab"
	ActionLeftTab     = "LeftTab"
	ActionRightTab    = "RightTab"
	ActionStartTab    = "StartTab"
	ActionEndTab      = "EndTab"
)

// Dispatch names sent to the host's action channel
const (
	DispatchOpenNewPDF = "openNewPDF"
	DispatchCloseTab   = "close-tab"
	DispatchReopenTab  = "reopen-tab"
	DispatchSwitchTab  = "switch-tab"
	DispatchMoveTab    = "move-tab"
)

// Data payloads shared by switch-tab and move-tab
const (
	DataNext  = "next"
	DataPrev  = "prev"
	DataStart = "start"
	DataEnd   = "end"
)

// ActionDefault is the factory configuration of one action
type ActionDefault struct {
	Key         string
	Triggers    []string
	Action      string
	Data        string
	DisplayName string
}

// DefaultActions returns the factory action table in declaration order
func DefaultActions() []ActionDefault {
	return []ActionDefault{
		{ActionOpenWindow, []string{"CmdOrCtrl+t"}, DispatchOpenNewPDF, "", "Open New PDF"},
		{ActionCloseTab, []string{"CmdOrCtrl+w", "Ctrl+F4"}, DispatchCloseTab, "", "Close Tab"},
		{ActionReOpen, []string{"CmdOrCtrl+Shift+t"}, DispatchReopenTab, "", "Reopen Tab"},
		{ActionSwitchTab, []string{"Ctrl+Tab", "Ctrl+PageDown"}, DispatchSwitchTab, DataNext, "Switch Tab"},
		{ActionPreviousTab, []string{"Ctrl+Shift+Tab", "Ctrl+PageUp"}, DispatchSwitchTab, DataPrev, "Previous Tab"},
		{ActionLeftTab, []string{"Ctrl+Shift+PageUp"}, DispatchMoveTab, DataPrev, "Move Tab Left"},
		{ActionRightTab, []string{"Ctrl+Shift+PageDown"}, DispatchMoveTab, DataNext, "Move Tab Right"},
		{ActionStartTab, []string{"Ctrl+Shift+Home"}, DispatchMoveTab, DataStart, "Move Tab to Start"},
		{ActionEndTab, []string{"Ctrl+Shift+End"}, DispatchMoveTab, DataEnd, "Move Tab to End"},
	}
}

// DefaultActionKeys returns the action keys of DefaultActions in order
func DefaultActionKeys() []string {
	defaults := DefaultActions()
	keys := make([]string, len(defaults))
	for i, d := range defaults {
		keys[i] = d.Key
	}
	return keys
}
