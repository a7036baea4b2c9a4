// Package daemon keeps one hotclick listener per user. It owns the PID file,
// the status file, the control socket and the process tooling used by the
// stop and restart commands.
package daemon

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrAlreadyRunning is returned by AcquirePID when a live listener holds the
// PID file.
var ErrAlreadyRunning = errors.New("hotclick is already running")

// AcquirePID claims the PID file at path for the current process. The file
// is created exclusively, so two listeners starting together cannot both
// win. A file left by a dead process, or one that does not parse, is
// replaced. Claiming a file that already holds our own PID succeeds.
func AcquirePID(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create PID directory: %w", err)
	}
	self := os.Getpid()

	for attempt := 0; attempt < 2; attempt++ {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			_, werr := f.WriteString(strconv.Itoa(self))
			cerr := f.Close()
			if werr != nil || cerr != nil {
				os.Remove(path)
				return fmt.Errorf("write PID file: %w", errors.Join(werr, cerr))
			}
			return nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("create PID file: %w", err)
		}

		holder, rerr := ReadPID(path)
		switch {
		case rerr == nil && holder == self:
			return nil
		case rerr == nil && IsProcessAlive(holder):
			return fmt.Errorf("%w (PID %d)", ErrAlreadyRunning, holder)
		}
		// Stale or corrupt.
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("remove stale PID file: %w", err)
		}
	}
	return fmt.Errorf("%w: PID file %s keeps reappearing", ErrAlreadyRunning, path)
}

// ReleasePID removes the PID file. A missing file is not an error.
func ReleasePID(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove PID file: %w", err)
	}
	return nil
}

// ReadPID returns the PID recorded at path.
func ReadPID(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read PID file: %w", err)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("parse PID file %s: %w", path, err)
	}
	return pid, nil
}

// Running returns the PID recorded at path if that process is alive.
func Running(path string) (int, bool) {
	pid, err := ReadPID(path)
	if err != nil || !IsProcessAlive(pid) {
		return 0, false
	}
	return pid, true
}
