package heuristic

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeFolderURI(t *testing.T) {
	tests := []struct {
		raw  string
		goos string
		want string
		ok   bool
	}{
		{"file:///c%3A/Users/me/proj", "windows", `C:\Users\me\proj`, true},
		{"file:///D:/work/my%20app", "windows", `D:\work\my app`, true},
		{"file://server/share/dir", "windows", `\\server\share\dir`, true},
		{"file://localhost/c%3A/x", "windows", `C:\x`, true},
		{"c%3A/Users/me", "windows", `C:\Users\me`, true},
		{"file:///home/me/my%20proj", "linux", "/home/me/my proj", true},
		{"/home/me/plain", "linux", "/home/me/plain", true},
		{"vscode-remote://ssh-remote%2Bbox/home/me", "linux", "", false},
		{"", "linux", "", false},
		{"   ", "windows", "", false},
		{"%zz", "linux", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.goos+"/"+tt.raw, func(t *testing.T) {
			got, ok := decodeFolderURI(tt.raw, tt.goos)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFolderURIArgs(t *testing.T) {
	args := []string{"code", "--folder-uri", "file:///a", "--folder-uri=file:///b", "--reuse-window", "--folder-uri"}
	assert.Equal(t, []string{"file:///a", "file:///b"}, folderURIArgs(args))
	assert.Empty(t, folderURIArgs([]string{"code", "."}))
}

func TestSplitEditorTitle(t *testing.T) {
	tests := []struct {
		title string
		want  string
		ok    bool
	}{
		{"main.go - hotclick - Visual Studio Code", "hotclick", true},
		{"● main.go - hotclick - Cursor", "hotclick", true},
		{"a - b - c - d - Code", "d", true},
		{"Welcome - Visual Studio Code", "", false},
		{"main.go -  - Code", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := splitEditorTitle(tt.title)
		assert.Equal(t, tt.ok, ok, tt.title)
		assert.Equal(t, tt.want, got, tt.title)
	}
}

func TestStripTitleSuffix(t *testing.T) {
	suffixes := []string{" - File Explorer", " - Explorer"}
	assert.Equal(t, "Projects", stripTitleSuffix("Projects - File Explorer", suffixes))
	assert.Equal(t, "Projects", stripTitleSuffix("  Projects - Explorer ", suffixes))
	assert.Equal(t, "Projects", stripTitleSuffix("Projects", suffixes))
}

func TestTitlePathCandidatesWindows(t *testing.T) {
	got := titlePathCandidates(`Editing D:\work\my app\src - Notepad`, "windows")
	assert.Equal(t, []string{
		`D:\work\my app\src - Notepad`,
		`D:\work\my app\src -`,
		`D:\work\my app\src`,
		`D:\work\my`,
	}, got)

	got = titlePathCandidates(`copy "C:\a" to "D:\b"`, "windows")
	assert.Equal(t, []string{`C:\a`, `D:\b`}, got)

	assert.Empty(t, titlePathCandidates("Task Manager", "windows"))
	assert.Empty(t, titlePathCandidates("no drive: here", "windows"))
}

func TestTitlePathCandidatesUnix(t *testing.T) {
	got := titlePathCandidates("me@box: ~/work/my-app", "linux")
	assert.Equal(t, []string{"~/work/my-app", "~/work/my"}, got)

	got = titlePathCandidates("/srv/data", "linux")
	assert.Equal(t, []string{"/srv/data"}, got)

	// A slash inside a word is not a path start.
	assert.Empty(t, titlePathCandidates("tinyland/hotclick", "linux"))
}

func TestTitlePathCandidatesLongestFirst(t *testing.T) {
	got := titlePathCandidates("vim /a/b-c d/e - VIM", "linux")
	for i := 1; i < len(got); i++ {
		assert.Greater(t, len(got[i-1]), len(got[i]))
		assert.True(t, strings.HasPrefix(got[i-1], got[i]))
	}
}

func TestAncestors(t *testing.T) {
	win := &env{goos: "windows"}
	if filepath.Separator != '\\' {
		assert.Equal(t, []string{`C:\Users\me`, `C:\Users`, `C:\`}, win.ancestors(`C:\Users\me\tools`))
	}

	unix := &env{goos: "linux"}
	if filepath.Separator == '/' {
		assert.Equal(t, []string{"/a/b", "/a", "/"}, unix.ancestors("/a/b/c"))
	}
	assert.Empty(t, unix.ancestors(""))
}

func TestCwdWithin(t *testing.T) {
	win := &CwdRule{env: &env{goos: "windows"}}
	assert.True(t, win.within(`C:\Windows\System32`, `C:\Windows`))
	assert.True(t, win.within(`c:/windows`, `C:\Windows\`))
	assert.False(t, win.within(`C:\WindowsApps`, `C:\Windows`))
	assert.True(t, win.within(`C:\`, `C:\`))
	assert.False(t, win.within(`C:\Users`, `C:\`))

	unix := &CwdRule{env: &env{goos: "linux"}}
	if filepath.Separator == '/' {
		assert.True(t, unix.within("/", "/"))
		assert.False(t, unix.within("/home/me", "/"))
		assert.True(t, unix.within("/usr/lib", "/usr"))
		assert.False(t, unix.within("/usrlocal", "/usr"))
	}
	assert.False(t, unix.within("/x", ""))
}

func TestNormalizeProcess(t *testing.T) {
	assert.Equal(t, "code", normalizeProcess("Code.EXE"))
	assert.Equal(t, "firefox", normalizeProcess("/usr/lib/firefox/firefox"))
	assert.Equal(t, "", normalizeProcess(""))
}

func TestSourceString(t *testing.T) {
	assert.Equal(t, "explorer-folder", SourceExplorerFolder.String())
	assert.Equal(t, "default", SourceDefault.String())
	assert.Equal(t, "unknown", Source(0).String())
	b, err := SourceProcessCwd.MarshalText()
	assert.NoError(t, err)
	assert.Equal(t, "process-cwd", string(b))
}
