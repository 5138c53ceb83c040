package keybinds

import "runtime"

// Platform identifiers used to pick display labels. They follow the
// values reported by Electron's process.platform.
const (
	PlatformDarwin = "darwin"
	PlatformWin32  = "win32"
	PlatformLinux  = "linux"

	// PlatformNone is the neutral placeholder used when authoring defaults
	PlatformNone = "none"
)

// CurrentPlatform returns the platform identifier of the running process
func CurrentPlatform() string {
	if runtime.GOOS == "windows" {
		return PlatformWin32
	}
	return runtime.GOOS
}
