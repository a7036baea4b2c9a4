//go:build !linux && !darwin && !windows

package platform

func plInstall(StartupEntry) error { return ErrUnsupported }

func plUninstall() error { return ErrUnsupported }

func plInstalled() (string, bool) { return "", false }
