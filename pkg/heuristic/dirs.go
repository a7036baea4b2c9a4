package heuristic

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/adrg/xdg"
)

// Dirs are the well-known directories the rules search and fall back to.
type Dirs struct {
	Home      string
	Desktop   string
	Documents string
	Downloads string
	// DriveRoots are filesystem roots searched for bare folder names
	// (C:\ and D:\ on Windows).
	DriveRoots []string
	// ToolDir is the directory of the running hotclick executable.
	ToolDir string
	// WorkDir is hotclick's own current directory.
	WorkDir string
	// ProjectRoots are conventional places projects live.
	ProjectRoots []string
}

// DefaultDirs discovers the directories for the current user. Desktop,
// documents and downloads come from the user's XDG user-dirs on Unix and
// from the Known Folders on Windows, so relocated folders are honored.
func DefaultDirs() Dirs {
	d := dirsFor(runtime.GOOS, xdg.Home, xdg.UserDirs)

	if exe, err := os.Executable(); err == nil {
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		d.ToolDir = filepath.Dir(exe)
	}
	d.WorkDir, _ = os.Getwd()
	return d
}

func dirsFor(goos, home string, user xdg.UserDirectories) Dirs {
	d := Dirs{
		Home:      home,
		Desktop:   user.Desktop,
		Documents: user.Documents,
		Downloads: user.Download,
	}
	if goos == "windows" {
		d.DriveRoots = []string{`C:\`, `D:\`}
		d.ProjectRoots = []string{
			filepath.Join(home, "source", "repos"),
			`C:\projects`,
			`D:\projects`,
		}
		return d
	}
	d.ProjectRoots = []string{
		filepath.Join(home, "projects"),
		filepath.Join(home, "src"),
		filepath.Join(home, "code"),
		filepath.Join(home, "git"),
	}
	return d
}
