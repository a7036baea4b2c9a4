//go:build linux

package platform

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// plSystemdUnitPath returns the path to the systemd user service unit file.
func plSystemdUnitPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.Getenv("HOME")
	}
	return PlSystemdUnitPathFunc(home)
}

// plInstall writes the unit file and enables it.
func plInstall(e StartupEntry) error {
	unitPath := plSystemdUnitPath()

	if err := os.MkdirAll(filepath.Dir(unitPath), 0o755); err != nil {
		return fmt.Errorf("creating systemd user directory: %w", err)
	}
	if err := os.WriteFile(unitPath, []byte(PlGenerateSystemdUnitFunc(e)), 0o644); err != nil {
		return fmt.Errorf("writing unit file: %w", err)
	}

	if err := exec.Command("systemctl", "--user", "daemon-reload").Run(); err != nil {
		return fmt.Errorf("reloading systemd: %w", err)
	}
	if err := exec.Command("systemctl", "--user", "enable", "--now", AppName+".service").Run(); err != nil {
		return fmt.Errorf("enabling service: %w", err)
	}
	return nil
}

// plUninstall stops, disables, and removes the service.
func plUninstall() error {
	// Not running or not enabled is fine.
	_ = exec.Command("systemctl", "--user", "stop", AppName+".service").Run()
	_ = exec.Command("systemctl", "--user", "disable", AppName+".service").Run()

	if err := os.Remove(plSystemdUnitPath()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing unit file: %w", err)
	}

	_ = exec.Command("systemctl", "--user", "daemon-reload").Run()
	return nil
}

func plInstalled() (string, bool) {
	p := plSystemdUnitPath()
	_, err := os.Stat(p)
	return p, err == nil
}
