package daemon

import (
	"github.com/shirou/gopsutil/v4/process"
)

// IsProcessAlive reports whether a process with the given PID exists.
// Windows has no signal 0; the process table is consulted instead.
func IsProcessAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	ok, err := process.PidExists(int32(pid))
	return err == nil && ok
}
