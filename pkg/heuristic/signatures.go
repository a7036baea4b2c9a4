package heuristic

import (
	"os"
	"path/filepath"
	"strings"
)

// FileManager identifies a file manager window by process name and window
// class. Both must match.
type FileManager struct {
	Process string `toml:"process"`
	Class   string `toml:"class"`
}

// Signatures drive classification. Process names are compared
// case-insensitively with any ".exe" suffix removed.
type Signatures struct {
	FileManagers []FileManager
	// TitleSuffixes are stripped from file manager titles before the title
	// is interpreted as a folder.
	TitleSuffixes []string
	Editors       []string
	Browsers      []string
	// Denylist holds system directories a process working directory must
	// not be in. A filesystem root only denies itself.
	Denylist []string
}

// DefaultSignatures returns the signatures for goos.
func DefaultSignatures(goos string) Signatures {
	s := Signatures{
		Editors: []string{
			"code", "code-insiders", "cursor", "windsurf", "codium", "vscodium",
			"sublime_text", "zed",
		},
		Browsers: []string{
			"chrome", "google-chrome", "chromium", "firefox", "msedge",
			"microsoft-edge", "brave", "opera", "vivaldi", "safari", "arc",
		},
	}

	switch goos {
	case "windows":
		s.FileManagers = []FileManager{{Process: "explorer", Class: "CabinetWClass"}}
		s.TitleSuffixes = []string{" - File Explorer", " - Explorer"}
		s.Denylist = windowsDenylist()
	case "darwin":
		s.FileManagers = []FileManager{{Process: "finder", Class: "Finder"}}
		s.Denylist = []string{"/", "/System", "/Library", "/Applications", "/usr", "/bin", "/sbin", "/private"}
	default:
		s.FileManagers = []FileManager{
			{Process: "nautilus", Class: "org.gnome.Nautilus"},
			{Process: "nautilus", Class: "Nautilus"},
			{Process: "nemo", Class: "Nemo"},
			{Process: "caja", Class: "Caja"},
			{Process: "thunar", Class: "Thunar"},
			{Process: "dolphin", Class: "dolphin"},
			{Process: "pcmanfm", Class: "Pcmanfm"},
		}
		s.TitleSuffixes = []string{" — Dolphin", " - Dolphin", " - Thunar", " - Nemo", " - Caja", " - File Manager"}
		s.Denylist = []string{"/", "/usr", "/bin", "/sbin", "/etc", "/proc", "/sys", "/opt", "/snap", "/var/lib/flatpak"}
	}
	return s
}

// windowsDenylist builds the Windows system directories from the
// environment, with the stock locations as fallback.
func windowsDenylist() []string {
	home, _ := os.UserHomeDir()
	return windowsDenylistFor(os.Getenv, home)
}

// windowsDenylistFor denies the whole per-user AppData tree, so Local,
// LocalLow and Roaming are covered even when their variables are unset.
func windowsDenylistFor(getenv func(string) string, home string) []string {
	var out []string
	add := func(env, fallback string) {
		if v := getenv(env); v != "" {
			out = append(out, v)
			return
		}
		if fallback != "" {
			out = append(out, fallback)
		}
	}
	add("SystemRoot", `C:\Windows`)
	add("ProgramFiles", `C:\Program Files`)
	add("ProgramFiles(x86)", `C:\Program Files (x86)`)
	add("ProgramData", `C:\ProgramData`)

	profile := getenv("USERPROFILE")
	if profile == "" {
		profile = home
	}
	if profile != "" {
		out = append(out, strings.TrimRight(profile, `\/`)+`\AppData`)
	}
	add("APPDATA", "")
	add("LOCALAPPDATA", "")
	return out
}

// normalizeProcess lower-cases name and drops a ".exe" suffix.
func normalizeProcess(name string) string {
	if strings.TrimSpace(name) == "" {
		return ""
	}
	name = strings.ToLower(strings.TrimSpace(filepath.Base(name)))
	return strings.TrimSuffix(name, ".exe")
}

func (s Signatures) isFileManager(process, class string) bool {
	p := normalizeProcess(process)
	for _, fm := range s.FileManagers {
		if normalizeProcess(fm.Process) == p && strings.EqualFold(fm.Class, class) {
			return true
		}
	}
	return false
}

func (s Signatures) isEditor(process string) bool {
	return containsProcess(s.Editors, process)
}

func (s Signatures) isBrowser(process string) bool {
	return containsProcess(s.Browsers, process)
}

func containsProcess(set []string, process string) bool {
	p := normalizeProcess(process)
	if p == "" {
		return false
	}
	for _, name := range set {
		if normalizeProcess(name) == p {
			return true
		}
	}
	return false
}
