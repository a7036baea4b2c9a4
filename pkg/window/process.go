package window

import (
	"github.com/shirou/gopsutil/v4/process"
)

// GopsutilReader reads process metadata through gopsutil, which covers
// Windows, Linux and macOS without per-platform code here.
type GopsutilReader struct{}

// Name returns the executable name, e.g. "code.exe" or "nautilus".
func (GopsutilReader) Name(pid int32) (string, error) {
	p, err := process.NewProcess(pid)
	if err != nil {
		return "", err
	}
	return p.Name()
}

// CommandLine returns argv, including the executable as the first element.
func (GopsutilReader) CommandLine(pid int32) ([]string, error) {
	p, err := process.NewProcess(pid)
	if err != nil {
		return nil, err
	}
	return p.CmdlineSlice()
}

// WorkingDir returns the process's current directory.
func (GopsutilReader) WorkingDir(pid int32) (string, error) {
	p, err := process.NewProcess(pid)
	if err != nil {
		return "", err
	}
	return p.Cwd()
}
