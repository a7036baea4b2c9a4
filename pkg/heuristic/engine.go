package heuristic

import (
	"io/fs"
	"log/slog"
	"os"
	"runtime"
	"time"

	"gitlab.com/tinyland/lab/hotclick/pkg/window"
)

// DefaultAutomationTimeout bounds the file manager folder query.
const DefaultAutomationTimeout = 2 * time.Second

// Options configures an Engine. Zero values select the defaults for the
// running OS.
type Options struct {
	// GOOS selects path conventions and default signatures.
	GOOS       string
	Dirs       *Dirs
	Signatures *Signatures
	// FolderQuerier answers the file manager automation query.
	FolderQuerier     window.FolderQuerier
	AutomationTimeout time.Duration
	// BrowserRepoLookup prefers a local checkout of a GitHub repository
	// named in a browser title over the downloads directory.
	BrowserRepoLookup bool
	// Stat defaults to os.Stat.
	Stat   func(string) (fs.FileInfo, error)
	Logger *slog.Logger
}

// Engine runs the fixed rule chain.
type Engine struct {
	rules    []Rule
	fallback Rule
	env      *env
	logger   *slog.Logger
}

// NewEngine builds the chain: file manager, editor, browser, process working
// directory, title path, default.
func NewEngine(opts Options) *Engine {
	if opts.GOOS == "" {
		opts.GOOS = runtime.GOOS
	}
	if opts.Dirs == nil {
		d := DefaultDirs()
		opts.Dirs = &d
	}
	if opts.Signatures == nil {
		s := DefaultSignatures(opts.GOOS)
		opts.Signatures = &s
	}
	if opts.AutomationTimeout <= 0 {
		opts.AutomationTimeout = DefaultAutomationTimeout
	}
	if opts.Stat == nil {
		opts.Stat = os.Stat
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	e := &env{
		goos:   opts.GOOS,
		dirs:   *opts.Dirs,
		stat:   opts.Stat,
		logger: opts.Logger,
	}
	sigs := *opts.Signatures

	return &Engine{
		rules: []Rule{
			&FileManagerRule{env: e, sigs: sigs, querier: opts.FolderQuerier, timeout: opts.AutomationTimeout},
			&EditorRule{env: e, sigs: sigs},
			&BrowserRule{env: e, sigs: sigs, repoLookup: opts.BrowserRepoLookup},
			&CwdRule{env: e, sigs: sigs},
			&TitleRegexRule{env: e},
		},
		fallback: &DefaultRule{env: e},
		env:      e,
		logger:   opts.Logger,
	}
}

// Rules returns the rule names in evaluation order, default last.
func (en *Engine) Rules() []string {
	names := make([]string, 0, len(en.rules)+1)
	for _, r := range en.rules {
		names = append(names, r.Name())
	}
	return append(names, en.fallback.Name())
}

// Resolve runs the chain for wc. It always returns a Resolution: a rule that
// panics or proposes something that is not a directory counts as no match,
// and the default rule ends the chain.
func (en *Engine) Resolve(wc window.Context) Resolution {
	browser := false
	for _, rule := range en.rules {
		c, ok := en.try(rule, wc)
		if !ok {
			continue
		}
		if !en.env.isDir(c.Path) {
			en.logger.Debug("rule proposed a non-directory", "rule", rule.Name(), "path", c.Path)
			continue
		}
		if _, isBrowser := rule.(*BrowserRule); isBrowser {
			browser = true
		}
		en.logger.Info("context resolved", "rule", rule.Name(), "source", c.Source, "path", c.Path)
		return Resolution{Candidate: c, Rule: rule.Name(), Browser: browser}
	}

	c, _ := en.fallback.Resolve(wc)
	en.logger.Info("context resolved", "rule", en.fallback.Name(), "source", c.Source, "path", c.Path)
	return Resolution{Candidate: c, Rule: en.fallback.Name()}
}

func (en *Engine) try(rule Rule, wc window.Context) (c Candidate, ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			en.logger.Warn("rule panicked", "rule", rule.Name(), "panic", rec)
			c, ok = Candidate{}, false
		}
	}()
	return rule.Resolve(wc)
}
