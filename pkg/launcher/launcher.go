// Package launcher opens the target CLI tool in a new terminal window rooted
// at a resolved directory.
package launcher

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"runtime"

	"github.com/atotto/clipboard"
)

// Defaults for the Gemini CLI.
const (
	DefaultTool         = "gemini"
	DefaultFallbackTool = "npx @google/gemini-cli"
	DefaultTitle        = "Gemini CLI"
)

var (
	// ErrAllAttemptsFailed means neither the primary nor the fallback
	// invocation could be started.
	ErrAllAttemptsFailed = errors.New("all launch attempts failed")
	// ErrNoWorkingDir is returned for a request without a directory.
	ErrNoWorkingDir = errors.New("launch request has no working directory")
)

// Request is one launch.
type Request struct {
	WorkingDir string
	// ClipboardHint, when set, is written to the clipboard before the
	// terminal opens.
	ClipboardHint string
}

// Spawner starts a process without waiting for it.
type Spawner interface {
	Spawn(cmd Command) error
}

// SpawnerFunc adapts a function to Spawner.
type SpawnerFunc func(cmd Command) error

func (f SpawnerFunc) Spawn(cmd Command) error { return f(cmd) }

// Clipboard is a write-only system clipboard.
type Clipboard interface {
	WriteAll(text string) error
}

// SystemClipboard writes to the OS clipboard.
type SystemClipboard struct{}

func (SystemClipboard) WriteAll(text string) error { return clipboard.WriteAll(text) }

// ExecSpawner starts commands with os/exec. The child runs in its own
// process group and is reaped in the background; its exit is never
// reported.
type ExecSpawner struct {
	Logger *slog.Logger
}

func (s ExecSpawner) Spawn(c Command) error {
	if len(c.Argv) == 0 {
		return errors.New("empty command")
	}
	cmd := exec.Command(c.Argv[0], c.Argv[1:]...)
	cmd.Dir = c.Dir
	cmd.Stdin, cmd.Stdout, cmd.Stderr = nil, nil, nil
	detach(cmd, c)
	if err := cmd.Start(); err != nil {
		return err
	}
	pid := cmd.Process.Pid
	go func() {
		err := cmd.Wait()
		if s.Logger != nil {
			s.Logger.Debug("terminal process exited", "pid", pid, "error", err)
		}
	}()
	return nil
}

// Options configures a Launcher.
type Options struct {
	GOOS         string
	Tool         string
	FallbackTool string
	Title        string
	// Terminal is a command template with {dir}, {tool} and {title}
	// placeholders. Empty selects the platform default.
	Terminal  string
	Spawner   Spawner
	Clipboard Clipboard
	Getenv    func(string) string
	Logger    *slog.Logger
}

// Launcher opens terminals. It is safe for concurrent use.
type Launcher struct {
	opts   Options
	logger *slog.Logger
}

// New creates a Launcher with defaults for unset options.
func New(opts Options) *Launcher {
	if opts.GOOS == "" {
		opts.GOOS = runtime.GOOS
	}
	if opts.Tool == "" {
		opts.Tool = DefaultTool
	}
	if opts.Title == "" {
		opts.Title = DefaultTitle
	}
	if opts.Getenv == nil {
		opts.Getenv = os.Getenv
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Spawner == nil {
		opts.Spawner = ExecSpawner{Logger: opts.Logger}
	}
	if opts.Clipboard == nil {
		opts.Clipboard = SystemClipboard{}
	}
	return &Launcher{opts: opts, logger: opts.Logger}
}

// Command returns the invocation for tool in dir.
func (l *Launcher) Command(dir, tool string) (Command, error) {
	if l.opts.Terminal != "" {
		return TemplateCommand(l.opts.Terminal, l.opts.Title, dir, tool)
	}
	return TerminalCommand(l.opts.GOOS, l.opts.Getenv("TERMINAL"), l.opts.Title, dir, tool), nil
}

// Launch primes the clipboard and opens the tool in req.WorkingDir, trying
// the fallback tool if the primary invocation cannot be started.
func (l *Launcher) Launch(req Request) error {
	if req.WorkingDir == "" {
		return ErrNoWorkingDir
	}

	if req.ClipboardHint != "" {
		if err := l.opts.Clipboard.WriteAll(req.ClipboardHint); err != nil {
			l.logger.Warn("clipboard write failed", "hint", req.ClipboardHint, "error", err)
		} else {
			l.logger.Info("clipboard primed", "hint", req.ClipboardHint)
		}
	}

	primaryErr := l.attempt(req.WorkingDir, l.opts.Tool)
	if primaryErr == nil {
		return nil
	}
	l.logger.Warn("primary launch failed", "tool", l.opts.Tool, "error", primaryErr)

	if l.opts.FallbackTool == "" {
		return fmt.Errorf("%w: %w", ErrAllAttemptsFailed, primaryErr)
	}
	fallbackErr := l.attempt(req.WorkingDir, l.opts.FallbackTool)
	if fallbackErr == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrAllAttemptsFailed, errors.Join(primaryErr, fallbackErr))
}

func (l *Launcher) attempt(dir, tool string) error {
	cmd, err := l.Command(dir, tool)
	if err != nil {
		return err
	}
	if err := l.opts.Spawner.Spawn(cmd); err != nil {
		return fmt.Errorf("start %q: %w", cmd.String(), err)
	}
	l.logger.Info("launched", "tool", tool, "dir", dir)
	return nil
}
