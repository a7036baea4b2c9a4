package daemon

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/shirou/gopsutil/v4/process"
)

// listenerCommands are the subcommands that run a listener. A bare
// invocation runs one too.
var listenerCommands = map[string]bool{"run": true}

// valueFlags are global flags that consume the next argument.
var valueFlags = map[string]bool{"--config": true, "-config": true, "-c": true}

// IsListener reports whether a process with the given name and command line
// is a hotclick listener built from exeName.
func IsListener(name string, cmdline []string, exeName string) bool {
	if normalizeExe(name) != normalizeExe(exeName) {
		return false
	}
	args := cmdline[min(1, len(cmdline)):]
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if strings.HasPrefix(arg, "-") {
			if valueFlags[arg] {
				i++
			}
			continue
		}
		return listenerCommands[arg]
	}
	return true
}

func normalizeExe(name string) string {
	name = strings.ToLower(filepath.Base(strings.TrimSpace(name)))
	return strings.TrimSuffix(name, ".exe")
}

// FindInstances lists the PIDs of running listeners named exeName, other
// than selfPID.
func FindInstances(exeName string, selfPID int32) ([]int32, error) {
	procs, err := process.Processes()
	if err != nil {
		return nil, fmt.Errorf("list processes: %w", err)
	}
	var pids []int32
	for _, p := range procs {
		if p.Pid == selfPID {
			continue
		}
		name, err := p.Name()
		if err != nil {
			continue
		}
		cmdline, _ := p.CmdlineSlice()
		if IsListener(name, cmdline, exeName) {
			pids = append(pids, p.Pid)
		}
	}
	return pids, nil
}

// KillInstances terminates each PID and returns how many were signalled.
func KillInstances(pids []int32) (int, error) {
	var errs []error
	killed := 0
	for _, pid := range pids {
		p, err := process.NewProcess(pid)
		if err != nil {
			// Already gone.
			continue
		}
		if err := p.Terminate(); err != nil {
			errs = append(errs, fmt.Errorf("terminate %d: %w", pid, err))
			continue
		}
		killed++
	}
	return killed, errors.Join(errs...)
}

// SpawnDetached starts exe with args in a new session so it outlives the
// caller. Output goes to logPath when set.
func SpawnDetached(exe string, args []string, logPath string) (int, error) {
	cmd := exec.Command(exe, args...)
	setDetached(cmd)

	if logPath != "" {
		if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
			return 0, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return 0, fmt.Errorf("open log: %w", err)
		}
		defer f.Close()
		cmd.Stdout = f
		cmd.Stderr = f
	}

	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("start %s: %w", exe, err)
	}
	pid := cmd.Process.Pid
	if err := cmd.Process.Release(); err != nil {
		return pid, fmt.Errorf("release %d: %w", pid, err)
	}
	return pid, nil
}
