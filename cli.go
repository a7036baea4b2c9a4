package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"gitlab.com/tinyland/lab/hotclick/pkg/config"
	"gitlab.com/tinyland/lab/hotclick/pkg/daemon"
	"gitlab.com/tinyland/lab/hotclick/pkg/input"
	"gitlab.com/tinyland/lab/hotclick/pkg/platform"
)

// stopTimeout bounds how long stop and restart wait for the old listener to
// release its PID file.
const stopTimeout = 5 * time.Second

// newApp creates the CLI application with all commands.
func newApp() *cli.App {
	app := &cli.App{
		Name:    "hotclick",
		Usage:   "Open an AI coding CLI in the directory of the window you double middle-click",
		Version: fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "Path to configuration file"},
			&cli.BoolFlag{Name: "verbose", Usage: "Enable verbose logging"},
		},
		Commands: []*cli.Command{
			runCmd(),
			inspectCmd(),
			statusCmd(),
			stopCmd(),
			restartCmd(),
			installCmd(),
			uninstallCmd(),
			presetsCmd(),
		},
	}
	// Errors are printed once by main.
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// runCmd creates the run command.
func runCmd() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Listen for the gesture in the foreground",
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c.String("config"))
			if err != nil {
				return err
			}
			logger, closeLog, err := setupLogger(cfg, c.Bool("verbose"))
			if err != nil {
				return err
			}
			defer closeLog()

			if err := daemon.AcquirePID(cfg.PIDPath()); err != nil {
				return err
			}
			defer daemon.ReleasePID(cfg.PIDPath())

			ctx, cancel := withSignals(c.Context, logger)
			defer cancel()

			l, err := buildListener(cfg, logger, input.NewHookSource(logger))
			if err != nil {
				return err
			}

			srv := daemon.NewControlServer(cfg.SocketPath(), controlHandler(l, cancel))
			if err := srv.Start(); err != nil {
				logger.Warn("control socket unavailable", "error", err)
			}
			defer srv.Close()

			logger.Info("hotclick starting",
				"version", version,
				"pid", os.Getpid(),
				"modifier", cfg.Gesture.Modifier,
				"tool", cfg.Launch.Tool,
				"config", c.String("config"))
			printBanner(os.Stdout, cfg)

			return l.Run(ctx)
		},
	}
}

// inspectCmd creates the inspect command.
func inspectCmd() *cli.Command {
	return &cli.Command{
		Name:  "inspect",
		Usage: "Resolve the window at a screen point without launching anything",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "x", Required: true, Usage: "Screen X coordinate"},
			&cli.IntFlag{Name: "y", Required: true, Usage: "Screen Y coordinate"},
			&cli.BoolFlag{Name: "remote", Usage: "Ask the running listener and print its JSON reply"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c.String("config"))
			if err != nil {
				return err
			}

			if c.Bool("remote") {
				line, err := daemon.NewControlClient(cfg.SocketPath()).
					Raw(fmt.Sprintf("RESOLVE %d %d", c.Int("x"), c.Int("y")))
				if err != nil {
					return err
				}
				fmt.Fprintln(c.App.Writer, line)
				return nil
			}

			logger, closeLog, err := setupLogger(cfg, c.Bool("verbose"))
			if err != nil {
				return err
			}
			defer closeLog()

			l, err := buildListener(cfg, logger, input.NewHookSource(logger))
			if err != nil {
				return err
			}
			return writeYAML(c.App.Writer, l.Resolve(c.Int("x"), c.Int("y")))
		},
	}
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

// statusCmd creates the status command.
func statusCmd() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show whether a listener is running and what it has done",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "Print the status as JSON"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c.String("config"))
			if err != nil {
				return err
			}
			st, running := currentStatus(cfg)
			if c.Bool("json") {
				out, err := marshal(st)
				if err != nil {
					return err
				}
				fmt.Fprintln(c.App.Writer, out)
				return nil
			}

			entry, installed := platform.Installed()
			printStatus(c.App.Writer, st, running, entry, installed, time.Now())
			return nil
		},
	}
}

// currentStatus asks the running listener first and falls back to the
// status file it last wrote.
func currentStatus(cfg *config.Config) (*daemon.Status, bool) {
	pid, running := daemon.Running(cfg.PIDPath())
	if running {
		var st daemon.Status
		if err := daemon.NewControlClient(cfg.SocketPath()).Call(&st, "STATUS"); err == nil {
			return &st, true
		}
	}
	st, err := daemon.ReadStatusFile(cfg.StatusPath())
	if err != nil {
		st = &daemon.Status{}
	}
	if running {
		st.PID = pid
	}
	return st, running
}

func printStatus(w io.Writer, st *daemon.Status, running bool, entry string, installed bool, now time.Time) {
	if running {
		fmt.Fprintf(w, "listener:   running (PID %d, up %s)\n", st.PID, st.Uptime(now).Round(time.Second))
	} else {
		fmt.Fprintln(w, "listener:   not running")
	}
	if installed {
		fmt.Fprintf(w, "startup:    installed (%s)\n", entry)
	} else {
		fmt.Fprintln(w, "startup:    not installed")
	}
	fmt.Fprintf(w, "triggers:   %d (dropped %d)\n", st.Triggers, st.Dropped)
	fmt.Fprintf(w, "launches:   %d (failed %d)\n", st.Launches, st.Failures)
	fmt.Fprintf(w, "captures:   %d\n", st.Captures)
	if !st.LastTrigger.IsZero() {
		fmt.Fprintf(w, "last:       %s -> %s [%s]\n",
			st.LastTrigger.Local().Format(time.DateTime), st.LastDir, st.LastRule)
	}
}

// stopCmd creates the stop command.
func stopCmd() *cli.Command {
	return &cli.Command{
		Name:  "stop",
		Usage: "Stop the running listener",
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c.String("config"))
			if err != nil {
				return err
			}
			pid, running := daemon.Running(cfg.PIDPath())
			if !running {
				fmt.Fprintln(c.App.Writer, "hotclick is not running")
				return nil
			}
			if err := stopListener(cfg, pid); err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "stopped hotclick (PID %d)\n", pid)
			return nil
		},
	}
}

// stopListener asks pid to quit over the control socket, terminates it if
// the socket does not answer, and waits for the PID file to be released.
func stopListener(cfg *config.Config, pid int) error {
	if err := daemon.NewControlClient(cfg.SocketPath()).Call(nil, "QUIT"); err != nil {
		if _, err := daemon.KillInstances([]int32{int32(pid)}); err != nil {
			return err
		}
	}
	return waitStopped(cfg.PIDPath(), stopTimeout)
}

func waitStopped(pidPath string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if _, running := daemon.Running(pidPath); !running {
			return nil
		}
		time.Sleep(100 * time.Millisecond)
	}
	return fmt.Errorf("listener still running after %s", timeout)
}

// restartCmd creates the restart command.
func restartCmd() *cli.Command {
	return &cli.Command{
		Name:  "restart",
		Usage: "Stop every running listener and start a detached one",
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c.String("config"))
			if err != nil {
				return err
			}
			exe, err := os.Executable()
			if err != nil {
				return fmt.Errorf("locate executable: %w", err)
			}

			pids, err := daemon.FindInstances(filepath.Base(exe), int32(os.Getpid()))
			if err != nil {
				return err
			}
			if len(pids) > 0 {
				killed, err := daemon.KillInstances(pids)
				if err != nil {
					fmt.Fprintf(c.App.ErrWriter, "warning: %v\n", err)
				}
				fmt.Fprintf(c.App.Writer, "stopped %d listener(s)\n", killed)
				if err := waitStopped(cfg.PIDPath(), stopTimeout); err != nil {
					return err
				}
			}

			args, err := listenerArgs(c.String("config"))
			if err != nil {
				return err
			}
			// The listener copies its own log lines to the log file; the
			// spawn log only catches output from before logging starts.
			spawnLog := filepath.Join(cfg.General.StateDir, "hotclick.out")
			pid, err := daemon.SpawnDetached(exe, args, spawnLog)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "started hotclick (PID %d)\n", pid)
			return nil
		},
	}
}

// listenerArgs builds the argv for a detached listener, pinning the config
// file to an absolute path.
func listenerArgs(configPath string) ([]string, error) {
	if configPath == "" {
		return []string{"run"}, nil
	}
	abs, err := filepath.Abs(configPath)
	if err != nil {
		return nil, fmt.Errorf("resolve config path: %w", err)
	}
	return []string{"--config", abs, "run"}, nil
}

// installCmd creates the install command.
func installCmd() *cli.Command {
	return &cli.Command{
		Name:  "install",
		Usage: "Start hotclick automatically at login",
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c.String("config"))
			if err != nil {
				return err
			}
			exe, err := os.Executable()
			if err != nil {
				return fmt.Errorf("locate executable: %w", err)
			}
			entry := platform.StartupEntry{
				BinaryPath: exe,
				LogPath:    filepath.Join(cfg.General.StateDir, "hotclick.out"),
			}
			if p := c.String("config"); p != "" {
				if entry.ConfigPath, err = filepath.Abs(p); err != nil {
					return fmt.Errorf("resolve config path: %w", err)
				}
			}
			if err := platform.Install(entry); err != nil {
				return err
			}
			where, _ := platform.Installed()
			fmt.Fprintf(c.App.Writer, "installed login startup for %s (%s)\n", platform.Current(), where)
			return nil
		},
	}
}

// uninstallCmd creates the uninstall command.
func uninstallCmd() *cli.Command {
	return &cli.Command{
		Name:  "uninstall",
		Usage: "Remove the login startup entry",
		Action: func(c *cli.Context) error {
			if _, installed := platform.Installed(); !installed {
				fmt.Fprintln(c.App.Writer, "login startup is not installed")
				return nil
			}
			if err := platform.Uninstall(); err != nil {
				return fmt.Errorf("uninstall: %w", err)
			}
			fmt.Fprintln(c.App.Writer, "removed login startup")
			return nil
		},
	}
}

// presetsCmd creates the presets command.
func presetsCmd() *cli.Command {
	return &cli.Command{
		Name:  "presets",
		Usage: "List the built-in tool presets",
		Action: func(c *cli.Context) error {
			for _, name := range config.PresetNames() {
				p := config.ToolPreset(name)
				fmt.Fprintf(c.App.Writer, "%-8s %-10s %-30s %s\n", name, p.Tool, p.FallbackTool, p.Title)
			}
			return nil
		},
	}
}
