//go:build darwin

package platform

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// plLaunchdPlistPath returns the path to the launchd plist file.
func plLaunchdPlistPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.Getenv("HOME")
	}
	return PlLaunchdPlistPathFunc(home)
}

// plInstall writes the plist and loads it via launchctl.
func plInstall(e StartupEntry) error {
	plistPath := plLaunchdPlistPath()

	if err := os.MkdirAll(filepath.Dir(plistPath), 0o755); err != nil {
		return fmt.Errorf("creating LaunchAgents directory: %w", err)
	}
	if err := os.WriteFile(plistPath, []byte(PlGenerateLaunchdPlistFunc(e)), 0o644); err != nil {
		return fmt.Errorf("writing plist: %w", err)
	}

	// Unload first if already loaded.
	_ = exec.Command("launchctl", "unload", plistPath).Run()
	if err := exec.Command("launchctl", "load", plistPath).Run(); err != nil {
		return fmt.Errorf("loading launchd agent: %w", err)
	}
	return nil
}

// plUninstall unloads and removes the plist.
func plUninstall() error {
	plistPath := plLaunchdPlistPath()
	_ = exec.Command("launchctl", "unload", plistPath).Run()

	if err := os.Remove(plistPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing plist: %w", err)
	}
	return nil
}

func plInstalled() (string, bool) {
	p := plLaunchdPlistPath()
	_, err := os.Stat(p)
	return p, err == nil
}
