//go:build !windows

package window

// NewFolderQuerier returns a querier that always fails. Linux and macOS file
// managers have no identity-matched folder query, so the title fallback is
// used instead.
func NewFolderQuerier() FolderQuerier {
	return FolderQuerierFunc(func(Handle) (string, error) {
		return "", ErrUnsupported
	})
}
