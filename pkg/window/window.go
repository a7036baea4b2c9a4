// Package window resolves the top-level window under a screen point and the
// metadata of the process that owns it.
//
// All lookups are best effort. Inspect never returns an error: a window that
// vanished or a process that cannot be read yields a Context with empty
// fields, which the heuristic engine treats as "no information".
package window

import (
	"errors"
	"image"
	"log/slog"
	"strings"
)

// ErrNoWindow is returned by a Locator when there is no window at a point.
var ErrNoWindow = errors.New("no window at point")

// ErrUnsupported is returned by Locator and FolderQuerier implementations on
// platforms without a backend.
var ErrUnsupported = errors.New("window inspection not supported on this platform")

// Handle is an opaque OS window identifier (HWND on Windows, X11 window id).
type Handle uintptr

// Context describes the window a gesture landed on. It is created fresh for
// every trigger and never modified afterwards.
type Context struct {
	ProcessName string   `yaml:"process_name"`
	WindowTitle string   `yaml:"window_title"`
	WindowClass string   `yaml:"window_class"`
	CommandLine []string `yaml:"command_line,omitempty"`
	// WorkingDir is only meaningful when HasWorkingDir is true.
	WorkingDir    string          `yaml:"working_dir,omitempty"`
	HasWorkingDir bool            `yaml:"has_working_dir"`
	PID           int32           `yaml:"pid"`
	Handle        Handle          `yaml:"handle"`
	Bounds        image.Rectangle `yaml:"-"`
}

// Empty reports whether nothing at all could be learned about the window.
func (c Context) Empty() bool {
	return c.Handle == 0 && c.ProcessName == "" && c.WindowTitle == ""
}

// Inspector resolves a screen point to a window Context.
type Inspector interface {
	Inspect(x, y int) Context
}

// Locator is the OS window query surface. Every method may fail.
type Locator interface {
	WindowAt(x, y int) (Handle, error)
	Parent(h Handle) (Handle, error)
	PID(h Handle) (int32, error)
	Title(h Handle) (string, error)
	Class(h Handle) (string, error)
	Bounds(h Handle) (image.Rectangle, error)
}

// ProcessReader reads metadata of a running process.
type ProcessReader interface {
	Name(pid int32) (string, error)
	CommandLine(pid int32) ([]string, error)
	WorkingDir(pid int32) (string, error)
}

// maxParentDepth bounds the parent walk in case a backend reports a cycle.
const maxParentDepth = 64

// TopLevel walks the parent chain from h to its top-level ancestor: a window
// with no parent, or whose parent is itself.
func TopLevel(loc Locator, h Handle) Handle {
	for i := 0; i < maxParentDepth; i++ {
		parent, err := loc.Parent(h)
		if err != nil || parent == 0 || parent == h {
			return h
		}
		h = parent
	}
	return h
}

// SystemInspector combines a Locator and a ProcessReader.
type SystemInspector struct {
	Locator   Locator
	Processes ProcessReader
	Logger    *slog.Logger
}

// NewSystemInspector returns an Inspector using the platform's native
// Locator and a gopsutil-backed ProcessReader.
func NewSystemInspector(logger *slog.Logger) *SystemInspector {
	if logger == nil {
		logger = slog.Default()
	}
	return &SystemInspector{
		Locator:   NewLocator(),
		Processes: GopsutilReader{},
		Logger:    logger,
	}
}

// Inspect resolves the window at (x, y). Failures leave fields empty.
func (s *SystemInspector) Inspect(x, y int) Context {
	var ctx Context

	h, err := s.Locator.WindowAt(x, y)
	if err != nil || h == 0 {
		s.Logger.Debug("no window at point", "x", x, "y", y, "error", err)
		return ctx
	}
	h = TopLevel(s.Locator, h)
	ctx.Handle = h

	if title, err := s.Locator.Title(h); err == nil {
		ctx.WindowTitle = title
	}
	if class, err := s.Locator.Class(h); err == nil {
		ctx.WindowClass = class
	}
	if r, err := s.Locator.Bounds(h); err == nil {
		ctx.Bounds = r
	}

	pid, err := s.Locator.PID(h)
	if err != nil || pid <= 0 {
		s.Logger.Debug("window owner unavailable", "handle", h, "error", err)
		return ctx
	}
	ctx.PID = pid

	if s.Processes == nil {
		return ctx
	}
	if name, err := s.Processes.Name(pid); err == nil {
		ctx.ProcessName = strings.ToLower(name)
	} else {
		s.Logger.Debug("process name unavailable", "pid", pid, "error", err)
	}
	if args, err := s.Processes.CommandLine(pid); err == nil {
		ctx.CommandLine = args
	}
	if cwd, err := s.Processes.WorkingDir(pid); err == nil && cwd != "" {
		ctx.WorkingDir = cwd
		ctx.HasWorkingDir = true
	}
	return ctx
}
