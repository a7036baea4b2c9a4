//go:build !windows

package daemon

import (
	"errors"

	"golang.org/x/sys/unix"
)

// IsProcessAlive checks whether a process with the given PID exists by
// sending signal 0. EPERM means the process exists but belongs to someone
// else.
func IsProcessAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	err := unix.Kill(pid, 0)
	return err == nil || errors.Is(err, unix.EPERM)
}
