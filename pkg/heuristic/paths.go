package heuristic

import (
	"net/url"
	"regexp"
	"strings"
)

// folderURIFlag is the VS Code family flag naming the opened workspace.
const folderURIFlag = "--folder-uri"

var driveURIPath = regexp.MustCompile(`^/[A-Za-z]:`)

// folderURIArgs returns every value passed with --folder-uri, in either the
// "--folder-uri VALUE" or "--folder-uri=VALUE" form.
func folderURIArgs(args []string) []string {
	var out []string
	for i, arg := range args {
		if v, ok := strings.CutPrefix(arg, folderURIFlag+"="); ok {
			out = append(out, v)
			continue
		}
		if arg == folderURIFlag && i+1 < len(args) {
			out = append(out, args[i+1])
		}
	}
	return out
}

// decodeFolderURI turns a file:// URI into a local path for goos:
//
//	file:///c%3A/Users/me/proj -> C:\Users\me\proj   (windows)
//	file:///home/me/my%20proj  -> /home/me/my proj   (others)
//
// Remote URIs (vscode-remote://...) have no local path and return false.
func decodeFolderURI(raw, goos string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}

	var p string
	if strings.Contains(raw, "://") {
		u, err := url.Parse(raw)
		if err != nil || !strings.EqualFold(u.Scheme, "file") {
			return "", false
		}
		p = u.Path
		if u.Host != "" && !strings.EqualFold(u.Host, "localhost") {
			// UNC share: file://server/share/dir
			p = "//" + u.Host + p
		}
	} else {
		unescaped, err := url.PathUnescape(raw)
		if err != nil {
			return "", false
		}
		p = unescaped
	}
	if p == "" {
		return "", false
	}

	if goos != "windows" {
		return p, true
	}
	if driveURIPath.MatchString(p) {
		p = p[1:]
	}
	if len(p) > 1 && p[1] == ':' {
		p = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.ReplaceAll(p, "/", `\`), true
}

// splitEditorTitle returns the folder segment of an editor title shaped
// "<file> - <folder> - <App>", i.e. the second-to-last " - " segment.
func splitEditorTitle(title string) (string, bool) {
	parts := strings.Split(title, " - ")
	if len(parts) < 3 {
		return "", false
	}
	folder := strings.TrimSpace(parts[len(parts)-2])
	if folder == "" {
		return "", false
	}
	return folder, true
}

// stripTitleSuffix removes the first matching suffix from title.
func stripTitleSuffix(title string, suffixes []string) string {
	title = strings.TrimSpace(title)
	for _, s := range suffixes {
		if rest, ok := strings.CutSuffix(title, s); ok {
			return strings.TrimSpace(rest)
		}
	}
	return title
}

var (
	windowsPathStart = regexp.MustCompile(`[A-Za-z]:\\`)
	unixPathStart    = regexp.MustCompile(`(?:^|[\s"'(\[=:])(~?/)`)
)

// pathStop reports characters that can never be part of a title path.
func pathStop(r rune, goos string) bool {
	switch r {
	case '<', '>', '"', '|', '*', '?', '\n', '\r', '\t':
		return true
	case '[', ']':
		return goos == "windows"
	case ':':
		return goos == "windows"
	}
	return false
}

// boundary reports characters after which a path may end: whitespace,
// quotes, hyphens and closing brackets.
func boundary(r byte) bool {
	switch r {
	case ' ', '\'', '"', '-', ')', ']', ',', ';', ':':
		return true
	}
	return false
}

// titlePathCandidates finds absolute paths embedded in a window title. For
// each path start it yields every plausible end, longest first, so that the
// caller can keep the longest prefix that exists on disk. This recovers paths
// containing spaces or hyphens, which a single greedy or lazy match cannot.
func titlePathCandidates(title, goos string) []string {
	var starts []int
	if goos == "windows" {
		for _, loc := range windowsPathStart.FindAllStringIndex(title, -1) {
			starts = append(starts, loc[0])
		}
	} else {
		for _, loc := range unixPathStart.FindAllStringSubmatchIndex(title, -1) {
			starts = append(starts, loc[2])
		}
	}

	var out []string
	for _, start := range starts {
		// The drive colon is the only ':' allowed in a Windows path.
		scanFrom := start
		if goos == "windows" {
			scanFrom = start + 3
		}
		end := len(title)
		for i, r := range title[scanFrom:] {
			if pathStop(r, goos) {
				end = scanFrom + i
				break
			}
		}
		run := title[start:end]

		seen := make(map[string]bool)
		add := func(s string) {
			s = strings.TrimRight(s, " .,;")
			if s == "" || seen[s] {
				return
			}
			seen[s] = true
			out = append(out, s)
		}
		add(run)
		// Never cut inside a drive prefix.
		minEnd := 1
		if goos == "windows" {
			minEnd = 3
		}
		for i := len(run) - 1; i >= minEnd; i-- {
			if boundary(run[i]) {
				add(run[:i])
			}
		}
	}
	return out
}
