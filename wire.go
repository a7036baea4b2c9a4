package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"gitlab.com/tinyland/lab/hotclick/pkg/capture"
	"gitlab.com/tinyland/lab/hotclick/pkg/config"
	"gitlab.com/tinyland/lab/hotclick/pkg/daemon"
	"gitlab.com/tinyland/lab/hotclick/pkg/gesture"
	"gitlab.com/tinyland/lab/hotclick/pkg/heuristic"
	"gitlab.com/tinyland/lab/hotclick/pkg/input"
	"gitlab.com/tinyland/lab/hotclick/pkg/launcher"
	"gitlab.com/tinyland/lab/hotclick/pkg/listener"
	"gitlab.com/tinyland/lab/hotclick/pkg/window"
)

// loadConfig reads --config when given and the default search path
// otherwise, then validates the result.
func loadConfig(path string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, err = config.LoadFromFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// setupLogger writes to stderr and, when configured, to the log file as
// well. The returned func closes the log file.
func setupLogger(cfg *config.Config, verbose bool) (*slog.Logger, func(), error) {
	level, err := config.ParseLevel(cfg.General.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	if verbose {
		level = slog.LevelDebug
	}

	var w io.Writer = os.Stderr
	closeFn := func() {}
	if cfg.General.LogFile != "" {
		if err := ensureLogDir(cfg.General.LogFile); err != nil {
			return nil, nil, fmt.Errorf("create log directory: %w", err)
		}
		logFile, err := os.OpenFile(cfg.General.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w = io.MultiWriter(os.Stderr, logFile)
		closeFn = func() { logFile.Close() }
	}

	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
	return logger, closeFn, nil
}

func ensureLogDir(logFile string) error {
	dir := filepath.Dir(logFile)
	return os.MkdirAll(dir, 0755)
}

// withSignals returns a context cancelled on SIGINT or SIGTERM.
func withSignals(parent context.Context, logger *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigChan:
			logger.Info("received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()
	return ctx, cancel
}

// heuristicOptions maps the [resolve] section onto the engine. Empty lists
// keep the platform defaults.
func heuristicOptions(cfg *config.Config, logger *slog.Logger) heuristic.Options {
	r := cfg.Resolve
	sigs := heuristic.DefaultSignatures(runtime.GOOS)
	if len(r.FileManagers) > 0 {
		sigs.FileManagers = make([]heuristic.FileManager, 0, len(r.FileManagers))
		for _, fm := range r.FileManagers {
			sigs.FileManagers = append(sigs.FileManagers, heuristic.FileManager{Process: fm.Process, Class: fm.Class})
		}
	}
	if len(r.Editors) > 0 {
		sigs.Editors = r.Editors
	}
	if len(r.Browsers) > 0 {
		sigs.Browsers = r.Browsers
	}
	if len(r.Denylist) > 0 {
		sigs.Denylist = r.Denylist
	}
	if len(r.TitleSuffixes) > 0 {
		sigs.TitleSuffixes = r.TitleSuffixes
	}

	dirs := heuristic.DefaultDirs()
	for _, root := range r.SearchRoots {
		dirs.ProjectRoots = append(dirs.ProjectRoots, expandHome(root, dirs.Home))
	}

	return heuristic.Options{
		Dirs:              &dirs,
		Signatures:        &sigs,
		FolderQuerier:     window.NewFolderQuerier(),
		AutomationTimeout: r.AutomationTimeout.Duration,
		BrowserRepoLookup: r.BrowserRepoLookup,
		Logger:            logger,
	}
}

func expandHome(p, home string) string {
	if home == "" {
		return p
	}
	if p == "~" {
		return home
	}
	if strings.HasPrefix(p, "~/") || strings.HasPrefix(p, `~\`) {
		return filepath.Join(home, p[2:])
	}
	return p
}

// buildListener assembles the pipeline from cfg. The source is not started.
func buildListener(cfg *config.Config, logger *slog.Logger, src input.Source) (*listener.Listener, error) {
	mod, err := input.ParseModifier(cfg.Gesture.Modifier)
	if err != nil {
		return nil, err
	}

	// A nil *capture.Capturer in the interface would not read as disabled.
	var capturer listener.Capturer
	if cfg.Capture.Enabled {
		capturer = capture.New(capture.Options{
			Prefix:   cfg.Capture.Prefix,
			MaxWidth: cfg.Capture.MaxWidth,
			Logger:   logger,
		})
	}

	return listener.New(listener.Config{
		Source: src,
		Detector: gesture.NewDetector(gesture.Config{
			Modifier:  mod,
			Threshold: cfg.Gesture.DoubleClick.Duration,
		}),
		Inspector: window.NewSystemInspector(logger),
		Resolver:  heuristic.NewEngine(heuristicOptions(cfg, logger)),
		Capturer:  capturer,
		Launcher: launcher.New(launcher.Options{
			Tool:         cfg.Launch.Tool,
			FallbackTool: cfg.Launch.FallbackTool,
			Title:        cfg.Launch.Title,
			Terminal:     cfg.Launch.Terminal,
			Logger:       logger,
		}),
		Workers:    cfg.Resolve.Workers,
		StatusPath: cfg.StatusPath(),
		Logger:     logger,
	})
}

// pipeline is the part of the listener the control socket needs.
type pipeline interface {
	Stats() daemon.Status
	Resolve(x, y int) listener.Outcome
}

// controlHandler answers STATUS, RESOLVE and QUIT on the control socket.
func controlHandler(p pipeline, quit func()) daemon.Handler {
	return daemon.HandlerFunc(func(req daemon.Request) (any, error) {
		switch req.Cmd {
		case "STATUS":
			return p.Stats(), nil
		case "RESOLVE":
			xy, err := req.Ints(2)
			if err != nil {
				return nil, fmt.Errorf("usage: RESOLVE <x> <y>: %w", err)
			}
			return p.Resolve(xy[0], xy[1]), nil
		case "QUIT":
			quit()
			return map[string]bool{"ok": true}, nil
		default:
			return nil, fmt.Errorf("unknown command %q", req.Cmd)
		}
	})
}

func marshal(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

var (
	bannerTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	bannerDim   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
)

// printBanner tells an interactive user how to trigger the tool. Nothing is
// printed when w is not a terminal.
func printBanner(w io.Writer, cfg *config.Config) {
	if f, ok := w.(*os.File); !ok || !isatty.IsTerminal(f.Fd()) {
		return
	}
	fmt.Fprintln(w, bannerText(cfg))
}

func bannerText(cfg *config.Config) string {
	mod := cfg.Gesture.Modifier
	if m, err := input.ParseModifier(mod); err == nil {
		mod = m.String()
	}
	lines := []string{
		bannerTitle.Render("hotclick " + version),
		fmt.Sprintf("Hold %s and double middle-click any window to open %s there.", titleCase(mod), cfg.Launch.Title),
		bannerDim.Render("Press Ctrl+C to stop."),
	}
	return strings.Join(lines, "\n")
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
