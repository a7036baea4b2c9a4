package heuristic

import (
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeFS is a stat function over a fixed set of paths, used to exercise the
// Windows conventions from any host.
type fakeFS map[string]bool // path -> isDir

type fakeInfo struct {
	name string
	dir  bool
}

func (f fakeInfo) Name() string       { return f.name }
func (f fakeInfo) Size() int64        { return 0 }
func (f fakeInfo) Mode() fs.FileMode  { return 0o755 }
func (f fakeInfo) ModTime() time.Time { return time.Time{} }
func (f fakeInfo) IsDir() bool        { return f.dir }
func (f fakeInfo) Sys() any           { return nil }

func (f fakeFS) stat(p string) (fs.FileInfo, error) {
	dir, ok := f[p]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return fakeInfo{name: p, dir: dir}, nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// windowsDirs is the directory layout used with fakeFS.
func windowsDirs() *Dirs {
	return &Dirs{
		Home:       `C:\Users\me`,
		Desktop:    `C:\Users\me\Desktop`,
		Documents:  `C:\Users\me\Documents`,
		Downloads:  `C:\Users\me\Downloads`,
		DriveRoots: []string{`C:\`, `D:\`},
		ToolDir:    `C:\Users\me\tools\hotclick`,
		WorkDir:    `C:\Users\me\tools\hotclick`,
		ProjectRoots: []string{
			`C:\Users\me\source\repos`,
			`C:\projects`,
			`D:\projects`,
		},
	}
}

func windowsFS() fakeFS {
	return fakeFS{
		`C:\`:                         true,
		`C:\Users\me`:                 true,
		`C:\Users\me\Desktop`:         true,
		`C:\Users\me\Documents`:       true,
		`C:\Users\me\Downloads`:       true,
		`C:\Users\me\Projects`:        true,
		`C:\Users\me\tools\hotclick`:  true,
		`C:\Windows`:                  true,
		`C:\Windows\System32`:         true,
		`C:\Program Files\App`:        true,
		`C:\Users\me\source\repos`:    true,
		`C:\Users\me\source\repos\hc`: true,
		`D:\work\my-app`:              true,
		`D:\work\my app\src`:          true,
		`D:\work\my app\src\main.go`:  false,
	}
}

// noEnv is a getenv for a process started without environment.
func noEnv(string) string { return "" }

func windowsEngine(fsys fakeFS, opts Options) *Engine {
	opts.GOOS = "windows"
	if opts.Dirs == nil {
		opts.Dirs = windowsDirs()
	}
	if opts.Signatures == nil {
		s := DefaultSignatures("windows")
		s.Denylist = windowsDenylistFor(noEnv, `C:\Users\me`)
		opts.Signatures = &s
	}
	opts.Stat = fsys.stat
	opts.Logger = quietLogger()
	return NewEngine(opts)
}

// unixLayout creates a home directory tree under t.TempDir().
type unixLayout struct {
	root string
	dirs Dirs
}

func newUnixLayout(t *testing.T) *unixLayout {
	t.Helper()
	root := t.TempDir()
	home := filepath.Join(root, "home", "me")
	l := &unixLayout{
		root: root,
		dirs: Dirs{
			Home:         home,
			Desktop:      filepath.Join(home, "Desktop"),
			Documents:    filepath.Join(home, "Documents"),
			Downloads:    filepath.Join(home, "Downloads"),
			ToolDir:      filepath.Join(home, "bin", "hotclick"),
			WorkDir:      filepath.Join(home, "bin", "hotclick"),
			ProjectRoots: []string{filepath.Join(home, "projects")},
		},
	}
	for _, d := range []string{l.dirs.Desktop, l.dirs.Documents, l.dirs.Downloads, l.dirs.ToolDir, l.dirs.ProjectRoots[0]} {
		l.mkdir(t, d)
	}
	return l
}

func (l *unixLayout) mkdir(t *testing.T, p string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(p, 0o755))
	return p
}

func (l *unixLayout) engine(opts Options) *Engine {
	opts.GOOS = "linux"
	opts.Dirs = &l.dirs
	if opts.Signatures == nil {
		s := DefaultSignatures("linux")
		s.Denylist = append(s.Denylist, filepath.Join(l.root, "usr"))
		opts.Signatures = &s
	}
	opts.Logger = quietLogger()
	return NewEngine(opts)
}
