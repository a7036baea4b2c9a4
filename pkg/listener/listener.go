// Package listener wires the input source, gesture detector, window
// inspector, heuristic engine, capturer and launcher into the running
// hotclick pipeline.
//
// Events are consumed on a single goroutine that only feeds the detector.
// Each trigger is handed to a bounded worker pool, so a slow window or
// automation query never stalls the input hook.
package listener

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/errgroup"

	"gitlab.com/tinyland/lab/hotclick/pkg/capture"
	"gitlab.com/tinyland/lab/hotclick/pkg/daemon"
	"gitlab.com/tinyland/lab/hotclick/pkg/gesture"
	"gitlab.com/tinyland/lab/hotclick/pkg/heuristic"
	"gitlab.com/tinyland/lab/hotclick/pkg/input"
	"gitlab.com/tinyland/lab/hotclick/pkg/launcher"
	"gitlab.com/tinyland/lab/hotclick/pkg/window"
)

// DefaultWorkers bounds concurrent trigger tasks.
const DefaultWorkers = 4

// ErrSourceClosed is returned by Run when the input source ends on its own.
var ErrSourceClosed = errors.New("input source closed")

// Resolver picks the working directory for a window.
type Resolver interface {
	Resolve(wc window.Context) heuristic.Resolution
}

// Capturer saves a screenshot of a window region into a directory.
type Capturer interface {
	Capture(bounds image.Rectangle, dir string) (*capture.Artifact, bool)
}

// Launcher opens the tool.
type Launcher interface {
	Launch(req launcher.Request) error
}

// Config holds the pipeline's collaborators.
type Config struct {
	Source    input.Source
	Detector  *gesture.Detector
	Inspector window.Inspector
	Resolver  Resolver
	// Capturer may be nil to disable screenshots.
	Capturer Capturer
	Launcher Launcher
	// Workers defaults to DefaultWorkers.
	Workers int
	// StatusPath, when set, receives a status snapshot after every trigger.
	StatusPath string
	Logger     *slog.Logger
	Now        func() time.Time
}

// Outcome is the result of one trigger.
type Outcome struct {
	ID         string               `yaml:"id" json:"id"`
	Trigger    gesture.Trigger      `yaml:"-" json:"-"`
	Window     window.Context       `yaml:"window" json:"window"`
	Resolution heuristic.Resolution `yaml:"resolution" json:"resolution"`
	Artifact   *capture.Artifact    `yaml:"artifact,omitempty" json:"artifact,omitempty"`
	// Err is the launch error, if any.
	Err error `yaml:"-" json:"-"`
}

// Listener runs the pipeline.
type Listener struct {
	cfg    Config
	logger *slog.Logger

	startedAt time.Time

	triggers atomic.Uint64
	launches atomic.Uint64
	failures atomic.Uint64
	dropped  atomic.Uint64
	captures atomic.Uint64

	statusMu sync.Mutex

	mu          sync.Mutex
	lastTrigger time.Time
	lastDir     string
	lastRule    string
}

// New creates a Listener. Source, Detector, Inspector, Resolver and Launcher
// are required.
func New(cfg Config) (*Listener, error) {
	switch {
	case cfg.Source == nil:
		return nil, errors.New("listener: no input source")
	case cfg.Detector == nil:
		return nil, errors.New("listener: no gesture detector")
	case cfg.Inspector == nil:
		return nil, errors.New("listener: no window inspector")
	case cfg.Resolver == nil:
		return nil, errors.New("listener: no resolver")
	case cfg.Launcher == nil:
		return nil, errors.New("listener: no launcher")
	}
	if cfg.Workers < 1 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Listener{cfg: cfg, logger: cfg.Logger, startedAt: cfg.Now()}, nil
}

// Run starts the input source and processes events until ctx is cancelled.
// Failing to start the source is the only fatal error. On return the source
// is stopped and every in-flight trigger has finished.
func (l *Listener) Run(ctx context.Context) error {
	events, err := l.cfg.Source.Start(ctx)
	if err != nil {
		return fmt.Errorf("start input source: %w", err)
	}
	defer l.cfg.Source.Stop()

	var g errgroup.Group
	g.SetLimit(l.cfg.Workers)
	defer l.writeStatus()

	l.logger.Info("listening", "workers", l.cfg.Workers)
	for {
		select {
		case <-ctx.Done():
			l.cfg.Source.Stop()
			g.Wait()
			l.logger.Info("listener stopped", "triggers", l.triggers.Load())
			return nil
		case ev, ok := <-events:
			if !ok {
				g.Wait()
				if ctx.Err() != nil {
					return nil
				}
				return ErrSourceClosed
			}
			trig, fired := l.cfg.Detector.Handle(ev)
			if !fired {
				continue
			}
			l.dispatch(&g, trig)
		}
	}
}

// dispatch hands trig to the pool without blocking the event loop.
func (l *Listener) dispatch(g *errgroup.Group, trig gesture.Trigger) {
	l.triggers.Add(1)
	id := ulid.Make().String()
	ok := g.TryGo(func() error {
		l.Handle(id, trig)
		return nil
	})
	if !ok {
		l.dropped.Add(1)
		l.logger.Warn("trigger dropped: all workers busy", "trigger", id, "workers", l.cfg.Workers)
	}
}

// Handle runs one trigger to completion: inspect, resolve, capture for
// browsers, launch. It never panics and never returns an error; the outcome
// records what happened.
func (l *Listener) Handle(id string, trig gesture.Trigger) (out Outcome) {
	out = Outcome{ID: id, Trigger: trig}
	log := l.logger.With("trigger", id)

	defer func() {
		if rec := recover(); rec != nil {
			out.Err = fmt.Errorf("trigger panicked: %v", rec)
			l.failures.Add(1)
			log.Error("trigger failed", "panic", rec)
		}
		l.writeStatus()
	}()

	log.Info("gesture detected", "x", trig.X, "y", trig.Y)

	out.Window = l.cfg.Inspector.Inspect(trig.X, trig.Y)
	log.Info("window",
		"title", out.Window.WindowTitle,
		"process", out.Window.ProcessName,
		"class", out.Window.WindowClass,
		"pid", out.Window.PID)

	out.Resolution = l.cfg.Resolver.Resolve(out.Window)
	log.Info("directory", "path", out.Resolution.Path, "rule", out.Resolution.Rule, "source", out.Resolution.Source)

	l.mu.Lock()
	l.lastTrigger = trig.At
	l.lastDir = out.Resolution.Path
	l.lastRule = out.Resolution.Rule
	l.mu.Unlock()

	req := launcher.Request{WorkingDir: out.Resolution.Path}
	if out.Resolution.Browser && l.cfg.Capturer != nil {
		if a, ok := l.cfg.Capturer.Capture(out.Window.Bounds, out.Resolution.Path); ok {
			out.Artifact = a
			req.ClipboardHint = a.ClipboardHint()
			l.captures.Add(1)
		}
	}

	if err := l.cfg.Launcher.Launch(req); err != nil {
		out.Err = err
		l.failures.Add(1)
		log.Error("launch failed", "dir", req.WorkingDir, "error", err)
		return out
	}
	l.launches.Add(1)
	return out
}

// Resolve inspects the window at (x, y) and resolves its directory without
// capturing or launching anything.
func (l *Listener) Resolve(x, y int) Outcome {
	out := Outcome{Trigger: gesture.Trigger{X: x, Y: y, At: l.cfg.Now()}}
	out.Window = l.cfg.Inspector.Inspect(x, y)
	out.Resolution = l.cfg.Resolver.Resolve(out.Window)
	return out
}

// Stats returns a snapshot of the listener's counters.
func (l *Listener) Stats() daemon.Status {
	l.mu.Lock()
	defer l.mu.Unlock()
	return daemon.Status{
		PID:         os.Getpid(),
		StartedAt:   l.startedAt,
		Triggers:    l.triggers.Load(),
		Launches:    l.launches.Load(),
		Failures:    l.failures.Load(),
		Dropped:     l.dropped.Load(),
		Captures:    l.captures.Load(),
		LastTrigger: l.lastTrigger,
		LastDir:     l.lastDir,
		LastRule:    l.lastRule,
	}
}

func (l *Listener) writeStatus() {
	if l.cfg.StatusPath == "" {
		return
	}
	l.statusMu.Lock()
	defer l.statusMu.Unlock()
	st := l.Stats()
	if err := daemon.WriteStatusFile(l.cfg.StatusPath, &st); err != nil {
		l.logger.Debug("status file not written", "error", err)
	}
}
