// Package platform registers hotclick to start at login: a systemd user unit
// on Linux, a launchd agent on macOS and an HKCU Run value on Windows.
package platform

import (
	"errors"
	"runtime"
)

// Platform identifies the current OS platform.
type Platform string

const (
	// Darwin represents macOS.
	Darwin Platform = "darwin"
	// Linux represents Linux distributions.
	Linux Platform = "linux"
	// Windows represents Windows.
	Windows Platform = "windows"
)

// AppName names the unit, agent and Run value.
const AppName = "hotclick"

// ErrUnsupported is returned on platforms without a startup mechanism.
var ErrUnsupported = errors.New("login startup is not supported on this platform")

// Current returns the platform for the running OS.
func Current() Platform {
	return Platform(runtime.GOOS)
}

// StartupEntry describes how the listener is started at login.
type StartupEntry struct {
	BinaryPath string // absolute path to the hotclick binary
	ConfigPath string // config file passed with --config; empty omits it
	LogPath    string // stdout/stderr destination for launchd and systemd
}

// Args returns the listener's arguments after the binary path.
func (e StartupEntry) Args() []string {
	args := []string{"run"}
	if e.ConfigPath != "" {
		args = append([]string{"--config", e.ConfigPath}, args...)
	}
	return args
}

// Install registers the entry and starts it where the platform allows.
func Install(e StartupEntry) error {
	return plInstall(e)
}

// Uninstall removes the entry. Removing an absent entry is not an error.
func Uninstall() error {
	return plUninstall()
}

// Installed reports whether an entry is registered, and where.
func Installed() (string, bool) {
	return plInstalled()
}
