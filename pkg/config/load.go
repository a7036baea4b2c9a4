package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"gitlab.com/tinyland/lab/hotclick/pkg/input"
)

// Load reads configuration from the standard config path.
// Search order:
//  1. $XDG_CONFIG_HOME/hotclick/config.toml
//  2. ~/.config/hotclick/config.toml
//  3. the OS config directory (%AppData%\hotclick\config.toml on Windows)
//
// If no file exists, returns DefaultConfig() with environment overrides.
func Load() (*Config, error) {
	paths := configSearchPaths()
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return LoadFromFile(p)
		}
	}
	cfg := DefaultConfig()
	applyEnvOverrides(cfg)
	return cfg, nil
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := DefaultConfig()
			applyEnvOverrides(cfg)
			return cfg, nil
		}
		return nil, err
	}
	defer f.Close()
	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader reads configuration from an io.Reader.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()
	md, err := toml.NewDecoder(r).Decode(cfg)
	if err != nil {
		return nil, err
	}
	applyPreset(cfg, md)
	applyEnvOverrides(cfg)
	return cfg, nil
}

// DefaultConfig returns the default configuration with sensible defaults.
func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	stateDir := filepath.Join(xdgStateHome(home), "hotclick")
	gemini := ToolPreset("gemini")

	return &Config{
		General: GeneralConfig{
			LogLevel: "info",
			LogFile:  filepath.Join(stateDir, "hotclick.log"),
			StateDir: stateDir,
		},
		Gesture: GestureConfig{
			Modifier:    "shift",
			DoubleClick: Duration{500 * time.Millisecond},
		},
		Resolve: ResolveConfig{
			AutomationTimeout: Duration{2 * time.Second},
			Workers:           4,
		},
		Capture: CaptureConfig{
			Enabled: true,
			Prefix:  "gemini_screenshot_",
		},
		Launch: gemini,
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if _, err := ParseLevel(c.General.LogLevel); err != nil {
		return err
	}
	if _, err := input.ParseModifier(c.Gesture.Modifier); err != nil {
		return fmt.Errorf("gesture.modifier: %w", err)
	}
	if c.Gesture.DoubleClick.Duration <= 0 {
		return fmt.Errorf("gesture.double_click must be positive")
	}
	if c.Resolve.AutomationTimeout.Duration <= 0 {
		return fmt.Errorf("resolve.automation_timeout must be positive")
	}
	if c.Resolve.Workers < 1 {
		return fmt.Errorf("resolve.workers must be at least 1, got %d", c.Resolve.Workers)
	}
	for i, fm := range c.Resolve.FileManagers {
		if fm.Process == "" || fm.Class == "" {
			return fmt.Errorf("resolve.file_manager[%d] needs both process and class", i)
		}
	}
	if c.Capture.MaxWidth < 0 {
		return fmt.Errorf("capture.max_width must not be negative")
	}
	if p := c.Launch.Preset; p != "" && !knownPreset(p) {
		return fmt.Errorf("launch.preset: unknown preset %q (known: %s)", p, strings.Join(PresetNames(), ", "))
	}
	if strings.TrimSpace(c.Launch.Tool) == "" {
		return fmt.Errorf("launch.tool is empty")
	}
	return nil
}

// ParseLevel maps a log level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("general.log_level: unknown level %q", s)
	}
}

// PIDPath is the listener's PID file.
func (c *Config) PIDPath() string { return filepath.Join(c.General.StateDir, "hotclick.pid") }

// StatusPath is the listener's status file.
func (c *Config) StatusPath() string { return filepath.Join(c.General.StateDir, "status.json") }

// SocketPath is the listener's control socket.
func (c *Config) SocketPath() string { return filepath.Join(c.General.StateDir, "hotclick.sock") }

// applyPreset fills launch settings from launch.preset unless the file set
// them explicitly.
func applyPreset(cfg *Config, md toml.MetaData) {
	if cfg.Launch.Preset == "" {
		return
	}
	p := ToolPreset(cfg.Launch.Preset)
	if !md.IsDefined("launch", "tool") {
		cfg.Launch.Tool = p.Tool
	}
	if !md.IsDefined("launch", "fallback_tool") {
		cfg.Launch.FallbackTool = p.FallbackTool
	}
	if !md.IsDefined("launch", "title") {
		cfg.Launch.Title = p.Title
	}
	if !md.IsDefined("capture", "prefix") {
		cfg.Capture.Prefix = p.Preset + "_screenshot_"
	}
}

// applyEnvOverrides checks environment variables and overrides config values.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HOTCLICK_TOOL"); v != "" {
		cfg.Launch.Tool = v
	}
	if v := os.Getenv("HOTCLICK_FALLBACK_TOOL"); v != "" {
		cfg.Launch.FallbackTool = v
	}
	if v := os.Getenv("HOTCLICK_LOG_LEVEL"); v != "" {
		cfg.General.LogLevel = v
	}
	if v := os.Getenv("HOTCLICK_MODIFIER"); v != "" {
		cfg.Gesture.Modifier = v
	}
}

// configSearchPaths returns the ordered list of config file paths to try.
func configSearchPaths() []string {
	home, _ := os.UserHomeDir()
	var paths []string

	xdg := xdgConfigHome(home)
	paths = append(paths, filepath.Join(xdg, "hotclick", "config.toml"))

	// If XDG_CONFIG_HOME was explicitly set, also try the fallback default.
	defaultXDG := filepath.Join(home, ".config")
	if xdg != defaultXDG {
		paths = append(paths, filepath.Join(defaultXDG, "hotclick", "config.toml"))
	}

	if osDir, err := os.UserConfigDir(); err == nil && osDir != xdg && osDir != defaultXDG {
		paths = append(paths, filepath.Join(osDir, "hotclick", "config.toml"))
	}

	return paths
}

// xdgConfigHome returns XDG_CONFIG_HOME or ~/.config as fallback.
func xdgConfigHome(home string) string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	return filepath.Join(home, ".config")
}

// xdgStateHome returns XDG_STATE_HOME, ~/.local/state, or the local app
// data directory on Windows.
func xdgStateHome(home string) string {
	if v := os.Getenv("XDG_STATE_HOME"); v != "" {
		return v
	}
	if runtime.GOOS == "windows" {
		if v := os.Getenv("LOCALAPPDATA"); v != "" {
			return v
		}
	}
	return filepath.Join(home, ".local", "state")
}
