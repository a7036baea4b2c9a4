// Package heuristic infers the working directory for a window. It runs an
// ordered chain of rules over a window.Context; the first rule that yields an
// existing directory wins and the chain always ends in a default that cannot
// fail.
//
// Order encodes confidence: state the application declares (file manager
// automation, editor arguments) beats state inferred from the process (its
// working directory), which beats text scraped from the title, which beats
// the unconditional default.
package heuristic

// Source records which rule produced a Candidate.
type Source int

const (
	SourceExplorerFolder Source = iota + 1
	SourceEditorArg
	SourceEditorTitle
	SourceBrowserDownloads
	SourceBrowserRepo
	SourceProcessCwd
	SourceTitleRegex
	SourceDefault
)

// String returns a string representation of the source.
func (s Source) String() string {
	switch s {
	case SourceExplorerFolder:
		return "explorer-folder"
	case SourceEditorArg:
		return "editor-arg"
	case SourceEditorTitle:
		return "editor-title"
	case SourceBrowserDownloads:
		return "browser-downloads"
	case SourceBrowserRepo:
		return "browser-repo"
	case SourceProcessCwd:
		return "process-cwd"
	case SourceTitleRegex:
		return "title-regex"
	case SourceDefault:
		return "default"
	default:
		return "unknown"
	}
}

// MarshalText renders the source by name in YAML/JSON dumps.
func (s Source) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Candidate is a directory proposed by exactly one rule.
type Candidate struct {
	Path   string `yaml:"path" json:"path"`
	Source Source `yaml:"source" json:"source"`
}

// Resolution is the outcome of running the chain for one trigger.
type Resolution struct {
	Candidate `yaml:",inline"`
	// Rule is the name of the winning rule.
	Rule string `yaml:"rule" json:"rule"`
	// Browser is set when the window was classified as a web browser; only
	// then is a screenshot artifact captured.
	Browser bool `yaml:"browser" json:"browser"`
}
