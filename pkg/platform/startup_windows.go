//go:build windows

package platform

import (
	"errors"
	"fmt"

	"golang.org/x/sys/windows/registry"
)

// plInstall writes the Run value. Windows starts it at the next login;
// nothing is started now.
func plInstall(e StartupEntry) error {
	k, _, err := registry.CreateKey(registry.CURRENT_USER, RunKeyPath, registry.SET_VALUE)
	if err != nil {
		return fmt.Errorf("opening Run key: %w", err)
	}
	defer k.Close()

	if err := k.SetStringValue(AppName, PlRunValueFunc(e)); err != nil {
		return fmt.Errorf("writing Run value: %w", err)
	}
	return nil
}

// plUninstall deletes the Run value.
func plUninstall() error {
	k, err := registry.OpenKey(registry.CURRENT_USER, RunKeyPath, registry.SET_VALUE)
	if err != nil {
		if errors.Is(err, registry.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("opening Run key: %w", err)
	}
	defer k.Close()

	if err := k.DeleteValue(AppName); err != nil && !errors.Is(err, registry.ErrNotExist) {
		return fmt.Errorf("deleting Run value: %w", err)
	}
	return nil
}

func plInstalled() (string, bool) {
	where := `HKCU\` + RunKeyPath + `\` + AppName
	k, err := registry.OpenKey(registry.CURRENT_USER, RunKeyPath, registry.QUERY_VALUE)
	if err != nil {
		return where, false
	}
	defer k.Close()
	_, _, err = k.GetStringValue(AppName)
	return where, err == nil
}
