package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"HOTCLICK_TOOL", "HOTCLICK_FALLBACK_TOOL", "HOTCLICK_LOG_LEVEL", "HOTCLICK_MODIFIER"} {
		t.Setenv(k, "")
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Gesture.DoubleClick.Duration != 500*time.Millisecond {
		t.Errorf("double_click = %v", cfg.Gesture.DoubleClick)
	}
	if cfg.Resolve.AutomationTimeout.Duration != 2*time.Second {
		t.Errorf("automation_timeout = %v", cfg.Resolve.AutomationTimeout)
	}
	if cfg.Launch.Tool != "gemini" || cfg.Launch.FallbackTool != "npx @google/gemini-cli" {
		t.Errorf("launch = %+v", cfg.Launch)
	}
	if cfg.Capture.Prefix != "gemini_screenshot_" {
		t.Errorf("capture prefix = %q", cfg.Capture.Prefix)
	}
}

func TestLoadFromReader(t *testing.T) {
	clearEnv(t)
	in := `
[general]
log_level = "debug"
state_dir = "/tmp/hc"

[gesture]
modifier = "ctrl"
double_click = "350ms"

[resolve]
automation_timeout = "1s"
editors = ["code", "zed"]
workers = 2
browser_repo_lookup = true

[[resolve.file_manager]]
process = "nautilus"
class = "org.gnome.Nautilus"

[capture]
enabled = false
max_width = 1280

[launch]
tool = "gemini --yolo"
terminal = "kitty --directory {dir} {tool}"
`
	cfg, err := LoadFromReader(strings.NewReader(in))
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.General.LogLevel != "debug" || cfg.General.StateDir != "/tmp/hc" {
		t.Errorf("general = %+v", cfg.General)
	}
	if cfg.Gesture.Modifier != "ctrl" || cfg.Gesture.DoubleClick.Duration != 350*time.Millisecond {
		t.Errorf("gesture = %+v", cfg.Gesture)
	}
	if len(cfg.Resolve.Editors) != 2 || cfg.Resolve.Workers != 2 || !cfg.Resolve.BrowserRepoLookup {
		t.Errorf("resolve = %+v", cfg.Resolve)
	}
	if len(cfg.Resolve.FileManagers) != 1 || cfg.Resolve.FileManagers[0].Class != "org.gnome.Nautilus" {
		t.Errorf("file managers = %+v", cfg.Resolve.FileManagers)
	}
	if cfg.Capture.Enabled || cfg.Capture.MaxWidth != 1280 {
		t.Errorf("capture = %+v", cfg.Capture)
	}
	if cfg.Launch.Tool != "gemini --yolo" {
		t.Errorf("tool = %q", cfg.Launch.Tool)
	}
	// Unset keys keep their defaults.
	if cfg.Launch.FallbackTool != "npx @google/gemini-cli" {
		t.Errorf("fallback = %q", cfg.Launch.FallbackTool)
	}
	if got := cfg.PIDPath(); got != filepath.Join("/tmp/hc", "hotclick.pid") {
		t.Errorf("PIDPath = %q", got)
	}
}

func TestLoadPreset(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadFromReader(strings.NewReader("[launch]\npreset = \"claude\"\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Launch.Tool != "claude" || cfg.Launch.FallbackTool != "npx @anthropic-ai/claude-code" {
		t.Errorf("launch = %+v", cfg.Launch)
	}
	if cfg.Capture.Prefix != "claude_screenshot_" {
		t.Errorf("prefix = %q", cfg.Capture.Prefix)
	}

	// Explicit keys win over the preset.
	cfg, err = LoadFromReader(strings.NewReader("[launch]\npreset = \"codex\"\ntool = \"my-codex\"\n[capture]\nprefix = \"shot_\"\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Launch.Tool != "my-codex" || cfg.Launch.FallbackTool != "npx @openai/codex" || cfg.Capture.Prefix != "shot_" {
		t.Errorf("launch = %+v capture = %+v", cfg.Launch, cfg.Capture)
	}
}

func TestLoadInvalidTOML(t *testing.T) {
	if _, err := LoadFromReader(strings.NewReader("[gesture\nmodifier=")); err == nil {
		t.Error("expected parse error")
	}
	if _, err := LoadFromReader(strings.NewReader("[gesture]\ndouble_click = \"soon\"\n")); err == nil {
		t.Error("expected duration error")
	}
	if _, err := LoadFromReader(strings.NewReader("[gesture]\ndouble_click = \"-1s\"\n")); err == nil {
		t.Error("expected negative duration error")
	}
}

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	cfg, err := LoadFromFile(filepath.Join(dir, "missing.toml"))
	if err != nil {
		t.Fatalf("missing file: %v", err)
	}
	if cfg.Launch.Tool != "gemini" {
		t.Errorf("missing file should give defaults, got %+v", cfg.Launch)
	}

	path := filepath.Join(dir, "config.toml")
	os.WriteFile(path, []byte("[launch]\ntool = \"aider\"\n"), 0o644)
	cfg, err = LoadFromFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Launch.Tool != "aider" {
		t.Errorf("tool = %q", cfg.Launch.Tool)
	}

	bad := filepath.Join(dir, "bad.toml")
	os.WriteFile(bad, []byte("=="), 0o644)
	if _, err := LoadFromFile(bad); err == nil || !strings.Contains(err.Error(), bad) {
		t.Errorf("error should name the file: %v", err)
	}
}

func TestLoadSearchesXDG(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	clearEnv(t)
	os.MkdirAll(filepath.Join(xdg, "hotclick"), 0o755)
	os.WriteFile(filepath.Join(xdg, "hotclick", "config.toml"), []byte("[launch]\ntool = \"from-xdg\"\n"), 0o644)

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Launch.Tool != "from-xdg" {
		t.Errorf("tool = %q", cfg.Launch.Tool)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("HOTCLICK_TOOL", "env-tool")
	t.Setenv("HOTCLICK_FALLBACK_TOOL", "env-fallback")
	t.Setenv("HOTCLICK_LOG_LEVEL", "warn")
	t.Setenv("HOTCLICK_MODIFIER", "alt")

	cfg, err := LoadFromReader(strings.NewReader("[launch]\ntool = \"file-tool\"\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Launch.Tool != "env-tool" || cfg.Launch.FallbackTool != "env-fallback" {
		t.Errorf("launch = %+v", cfg.Launch)
	}
	if cfg.General.LogLevel != "warn" || cfg.Gesture.Modifier != "alt" {
		t.Errorf("general = %+v gesture = %+v", cfg.General, cfg.Gesture)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"bad level", func(c *Config) { c.General.LogLevel = "loud" }, "log_level"},
		{"bad modifier", func(c *Config) { c.Gesture.Modifier = "hyper" }, "modifier"},
		{"zero threshold", func(c *Config) { c.Gesture.DoubleClick = Duration{} }, "double_click"},
		{"zero timeout", func(c *Config) { c.Resolve.AutomationTimeout = Duration{} }, "automation_timeout"},
		{"no workers", func(c *Config) { c.Resolve.Workers = 0 }, "workers"},
		{"half file manager", func(c *Config) {
			c.Resolve.FileManagers = []FileManagerConfig{{Process: "nemo"}}
		}, "file_manager"},
		{"negative width", func(c *Config) { c.Capture.MaxWidth = -1 }, "max_width"},
		{"unknown preset", func(c *Config) { c.Launch.Preset = "vim" }, "preset"},
		{"empty tool", func(c *Config) { c.Launch.Tool = "  " }, "launch.tool"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.want)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"debug": slog.LevelDebug, "INFO": slog.LevelInfo, "": slog.LevelInfo,
		"warning": slog.LevelWarn, "error": slog.LevelError,
	} {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v", in, got, err)
		}
	}
}

func TestDurationText(t *testing.T) {
	var d Duration
	if err := d.UnmarshalText([]byte("")); err != nil || d.Duration != 0 {
		t.Errorf("empty: %v %v", d, err)
	}
	if err := d.UnmarshalText([]byte("1m30s")); err != nil || d.Duration != 90*time.Second {
		t.Errorf("1m30s: %v %v", d, err)
	}
	b, _ := Duration{500 * time.Millisecond}.MarshalText()
	if string(b) != "500ms" {
		t.Errorf("MarshalText = %q", b)
	}
}

func TestDurationMilliseconds(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadFromReader(strings.NewReader("[gesture]\ndouble_click = 350\n[resolve]\nautomation_timeout = \"3s\"\n"))
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}
	if cfg.Gesture.DoubleClick.Duration != 350*time.Millisecond {
		t.Errorf("double_click = %v, want 350ms", cfg.Gesture.DoubleClick.Duration)
	}
	if cfg.Resolve.AutomationTimeout.Duration != 3*time.Second {
		t.Errorf("automation_timeout = %v, want 3s", cfg.Resolve.AutomationTimeout.Duration)
	}

	if _, err := LoadFromReader(strings.NewReader("[gesture]\ndouble_click = -1\n")); err == nil {
		t.Error("negative milliseconds accepted")
	}
	if _, err := LoadFromReader(strings.NewReader("[gesture]\ndouble_click = true\n")); err == nil {
		t.Error("boolean duration accepted")
	}
}

func TestToolPreset(t *testing.T) {
	for _, name := range PresetNames() {
		p := ToolPreset(name)
		if p.Preset != name || p.Tool == "" || p.FallbackTool == "" || p.Title == "" {
			t.Errorf("preset %q incomplete: %+v", name, p)
		}
	}
	if ToolPreset("nope").Preset != "gemini" {
		t.Error("unknown preset should fall back to gemini")
	}
}
