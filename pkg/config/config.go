package config

// Config is the complete hotclick configuration.
type Config struct {
	General GeneralConfig `toml:"general"`
	Gesture GestureConfig `toml:"gesture"`
	Resolve ResolveConfig `toml:"resolve"`
	Capture CaptureConfig `toml:"capture"`
	Launch  LaunchConfig  `toml:"launch"`
}

// GeneralConfig holds logging and state locations.
type GeneralConfig struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level"`
	// LogFile receives a copy of every log line. Empty disables it.
	LogFile string `toml:"log_file"`
	// StateDir holds the PID file, status file and control socket.
	StateDir string `toml:"state_dir"`
}

// GestureConfig controls the detector.
type GestureConfig struct {
	// Modifier is shift, ctrl, alt or meta.
	Modifier    string   `toml:"modifier"`
	DoubleClick Duration `toml:"double_click"`
}

// FileManagerConfig identifies a file manager window.
type FileManagerConfig struct {
	Process string `toml:"process"`
	Class   string `toml:"class"`
}

// ResolveConfig tunes the heuristic engine. Empty lists keep the platform
// defaults; non-empty lists replace them.
type ResolveConfig struct {
	AutomationTimeout Duration            `toml:"automation_timeout"`
	FileManagers      []FileManagerConfig `toml:"file_manager"`
	Editors           []string            `toml:"editors"`
	Browsers          []string            `toml:"browsers"`
	Denylist          []string            `toml:"denylist"`
	TitleSuffixes     []string            `toml:"title_suffixes"`
	// SearchRoots are extra places bare editor folder names are looked up.
	SearchRoots []string `toml:"search_roots"`
	// Workers bounds concurrently resolving triggers.
	Workers int `toml:"workers"`
	// BrowserRepoLookup prefers a local checkout of a GitHub repository
	// named in the browser title.
	BrowserRepoLookup bool `toml:"browser_repo_lookup"`
}

// CaptureConfig controls browser screenshots.
type CaptureConfig struct {
	Enabled bool   `toml:"enabled"`
	Prefix  string `toml:"prefix"`
	// MaxWidth downscales wide captures; 0 keeps native size.
	MaxWidth int `toml:"max_width"`
}

// LaunchConfig selects the tool and terminal.
type LaunchConfig struct {
	// Preset fills Tool, FallbackTool and Title for a known CLI.
	Preset       string `toml:"preset"`
	Tool         string `toml:"tool"`
	FallbackTool string `toml:"fallback_tool"`
	Title        string `toml:"title"`
	// Terminal is a command template with {dir}, {tool} and {title}
	// placeholders. Empty uses the platform default terminal.
	Terminal string `toml:"terminal"`
}
