package heuristic

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gitlab.com/tinyland/lab/hotclick/pkg/window"
)

// Rule proposes a directory for a window. A rule that cannot decide returns
// false; it never returns an error.
type Rule interface {
	Name() string
	Resolve(wc window.Context) (Candidate, bool)
}

// env is the shared view of the filesystem and the user's directories.
type env struct {
	goos   string
	dirs   Dirs
	stat   func(string) (fs.FileInfo, error)
	logger *slog.Logger
}

func (e *env) isDir(p string) bool {
	if p == "" {
		return false
	}
	fi, err := e.stat(p)
	return err == nil && fi.IsDir()
}

func (e *env) exists(p string) (fs.FileInfo, bool) {
	if p == "" {
		return nil, false
	}
	fi, err := e.stat(p)
	return fi, err == nil
}

// join joins with the separator of the target OS so that Windows rules can be
// exercised from any host.
func (e *env) join(dir, name string) string {
	if e.goos == "windows" && filepath.Separator != '\\' {
		return strings.TrimRight(dir, `\`) + `\` + name
	}
	return filepath.Join(dir, name)
}

// firstDirUnder returns the first root/name that is a directory.
func (e *env) firstDirUnder(roots []string, name string) (string, bool) {
	for _, root := range roots {
		if root == "" {
			continue
		}
		p := e.join(root, name)
		if e.isDir(p) {
			return p, true
		}
	}
	return "", false
}

// isAbs reports whether p is absolute on the target OS.
func (e *env) isAbs(p string) bool {
	if e.goos == "windows" {
		return len(p) >= 3 && p[1] == ':' && (p[2] == '\\' || p[2] == '/') || strings.HasPrefix(p, `\\`)
	}
	return strings.HasPrefix(p, "/")
}

// ancestors returns the parents of dir from nearest to the root, excluding
// dir itself.
func (e *env) ancestors(dir string) []string {
	var out []string
	if dir == "" {
		return out
	}
	for {
		parent := e.dir(dir)
		if parent == dir || parent == "." || parent == "" {
			return out
		}
		out = append(out, parent)
		dir = parent
	}
}

func (e *env) dir(p string) string {
	if e.goos == "windows" && filepath.Separator != '\\' {
		i := strings.LastIndex(p, `\`)
		if i <= 2 {
			return p[:i+1]
		}
		return p[:i]
	}
	return filepath.Dir(p)
}

// FileManagerRule asks the file manager which folder its window shows and
// falls back to interpreting the window title.
type FileManagerRule struct {
	env     *env
	sigs    Signatures
	querier window.FolderQuerier
	timeout time.Duration
}

func (r *FileManagerRule) Name() string { return "file-manager" }

func (r *FileManagerRule) Resolve(wc window.Context) (Candidate, bool) {
	if !r.sigs.isFileManager(wc.ProcessName, wc.WindowClass) {
		return Candidate{}, false
	}

	if p, ok := r.queryFolder(wc.Handle); ok && r.env.isDir(p) {
		r.env.logger.Debug("file manager folder from automation", "path", p)
		return Candidate{Path: p, Source: SourceExplorerFolder}, true
	}

	folder := stripTitleSuffix(wc.WindowTitle, r.sigs.TitleSuffixes)
	if folder == "" {
		return Candidate{}, false
	}
	if r.env.isAbs(folder) && r.env.isDir(folder) {
		return Candidate{Path: folder, Source: SourceExplorerFolder}, true
	}

	d := r.env.dirs
	roots := append([]string{d.Home, d.Desktop, d.Documents, d.Downloads}, d.DriveRoots...)
	if p, ok := r.env.firstDirUnder(roots, folder); ok {
		return Candidate{Path: p, Source: SourceExplorerFolder}, true
	}

	if strings.EqualFold(folder, "desktop") && d.Desktop != "" {
		return Candidate{Path: d.Desktop, Source: SourceExplorerFolder}, true
	}
	return Candidate{}, false
}

// queryFolder runs the automation query on its own goroutine and gives up
// after the timeout. An abandoned query finishes in the background and its
// result is discarded.
func (r *FileManagerRule) queryFolder(h window.Handle) (string, bool) {
	if r.querier == nil || h == 0 {
		return "", false
	}
	result := make(chan string, 1)
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				r.env.logger.Warn("folder query panicked", "panic", rec)
				result <- ""
			}
		}()
		p, err := r.querier.FolderFor(h)
		if err != nil {
			r.env.logger.Debug("folder query failed", "error", err)
		}
		result <- p
	}()

	timer := time.NewTimer(r.timeout)
	defer timer.Stop()
	select {
	case p := <-result:
		return p, p != ""
	case <-timer.C:
		r.env.logger.Warn("folder query timed out", "timeout", r.timeout)
		return "", false
	}
}

// EditorRule reads the workspace of VS Code style editors from their
// arguments or window title.
type EditorRule struct {
	env  *env
	sigs Signatures
}

func (r *EditorRule) Name() string { return "editor" }

func (r *EditorRule) Resolve(wc window.Context) (Candidate, bool) {
	if !r.sigs.isEditor(wc.ProcessName) {
		return Candidate{}, false
	}

	for _, raw := range folderURIArgs(wc.CommandLine) {
		if p, ok := decodeFolderURI(raw, r.env.goos); ok && r.env.isDir(p) {
			return Candidate{Path: p, Source: SourceEditorArg}, true
		}
	}

	if len(wc.CommandLine) > 1 {
		for _, arg := range wc.CommandLine[1:] {
			if strings.HasPrefix(arg, "-") {
				continue
			}
			if r.env.isDir(arg) {
				return Candidate{Path: arg, Source: SourceEditorArg}, true
			}
		}
	}

	folder, ok := splitEditorTitle(wc.WindowTitle)
	if !ok {
		return Candidate{}, false
	}
	if r.env.isAbs(folder) && r.env.isDir(folder) {
		return Candidate{Path: folder, Source: SourceEditorTitle}, true
	}
	if p, ok := r.env.firstDirUnder(r.searchRoots(), folder); ok {
		return Candidate{Path: p, Source: SourceEditorTitle}, true
	}
	return Candidate{}, false
}

// searchRoots lists where a bare project folder name is looked up: the tool
// directory and its ancestors, the current directory, home, documents,
// desktop, then project-root conventions.
func (r *EditorRule) searchRoots() []string {
	d := r.env.dirs
	var roots []string
	if d.ToolDir != "" {
		roots = append(roots, d.ToolDir)
		roots = append(roots, r.env.ancestors(d.ToolDir)...)
	}
	roots = append(roots, d.WorkDir, d.Home, d.Documents, d.Desktop)
	roots = append(roots, d.ProjectRoots...)
	return roots
}

// BrowserRule sends browser windows to the downloads directory. With repo
// lookup enabled, a title naming a GitHub owner/repo that is checked out
// locally wins instead.
type BrowserRule struct {
	env        *env
	sigs       Signatures
	repoLookup bool
}

var githubRepo = regexp.MustCompile(`([A-Za-z0-9_.-]+)/([A-Za-z0-9_.-]+)`)

func (r *BrowserRule) Name() string { return "browser" }

func (r *BrowserRule) Resolve(wc window.Context) (Candidate, bool) {
	if !r.sigs.isBrowser(wc.ProcessName) {
		return Candidate{}, false
	}

	if r.repoLookup {
		if p, ok := r.localRepo(wc.WindowTitle); ok {
			return Candidate{Path: p, Source: SourceBrowserRepo}, true
		}
	}

	d := r.env.dirs
	if r.env.isDir(d.Downloads) {
		return Candidate{Path: d.Downloads, Source: SourceBrowserDownloads}, true
	}
	if r.env.isDir(d.Documents) {
		return Candidate{Path: d.Documents, Source: SourceBrowserDownloads}, true
	}
	return Candidate{}, false
}

func (r *BrowserRule) localRepo(title string) (string, bool) {
	if !strings.Contains(strings.ToLower(title), "github") {
		return "", false
	}
	m := githubRepo.FindStringSubmatch(title)
	if m == nil {
		return "", false
	}
	repo := strings.TrimSuffix(m[2], ".git")
	d := r.env.dirs
	roots := []string{d.ToolDir, d.WorkDir}
	roots = append(roots, d.ProjectRoots...)
	roots = append(roots, r.env.join(d.Documents, "GitHub"), d.Documents, d.Desktop)
	return r.env.firstDirUnder(roots, repo)
}

// CwdRule uses the process's own working directory unless it is a system
// directory.
type CwdRule struct {
	env  *env
	sigs Signatures
}

func (r *CwdRule) Name() string { return "process-cwd" }

func (r *CwdRule) Resolve(wc window.Context) (Candidate, bool) {
	if !wc.HasWorkingDir || !r.env.isDir(wc.WorkingDir) {
		return Candidate{}, false
	}
	for _, denied := range r.sigs.Denylist {
		if r.within(wc.WorkingDir, denied) {
			r.env.logger.Debug("working directory denied", "cwd", wc.WorkingDir, "deny", denied)
			return Candidate{}, false
		}
	}
	return Candidate{Path: wc.WorkingDir, Source: SourceProcessCwd}, true
}

// within reports whether p is dir or below it. A root directory only
// matches itself.
func (r *CwdRule) within(p, dir string) bool {
	if dir == "" {
		return false
	}
	sep := string(filepath.Separator)
	if r.env.goos == "windows" {
		sep = `\`
		p = strings.ToLower(strings.ReplaceAll(p, "/", `\`))
		dir = strings.ToLower(strings.ReplaceAll(dir, "/", `\`))
	}
	p = strings.TrimRight(p, sep)
	trimmed := strings.TrimRight(dir, sep)
	if trimmed == "" || (r.env.goos == "windows" && len(trimmed) == 2 && trimmed[1] == ':') {
		// Root: "/" or "C:\".
		return p == trimmed
	}
	return p == trimmed || strings.HasPrefix(p, trimmed+sep)
}

// TitleRegexRule extracts an absolute path from the window title.
type TitleRegexRule struct {
	env *env
}

func (r *TitleRegexRule) Name() string { return "title-path" }

func (r *TitleRegexRule) Resolve(wc window.Context) (Candidate, bool) {
	if wc.WindowTitle == "" {
		return Candidate{}, false
	}
	for _, p := range titlePathCandidates(wc.WindowTitle, r.env.goos) {
		if rest, ok := strings.CutPrefix(p, "~/"); ok {
			p = r.env.join(r.env.dirs.Home, rest)
		}
		if r.isRoot(p) {
			continue
		}
		fi, ok := r.env.exists(p)
		if !ok {
			continue
		}
		if !fi.IsDir() {
			p = r.env.dir(p)
		}
		return Candidate{Path: p, Source: SourceTitleRegex}, true
	}
	return Candidate{}, false
}

func (r *TitleRegexRule) isRoot(p string) bool {
	if r.env.goos == "windows" {
		return len(p) <= 3
	}
	return p == "/" || p == "~"
}

// DefaultRule always answers with the documents directory.
type DefaultRule struct {
	env *env
}

func (r *DefaultRule) Name() string { return "default" }

func (r *DefaultRule) Resolve(window.Context) (Candidate, bool) {
	p := r.env.dirs.Documents
	if p == "" {
		p = r.env.dirs.Home
	}
	if p == "" {
		p, _ = os.Getwd()
	}
	return Candidate{Path: p, Source: SourceDefault}, true
}
