package window

// FolderQuerier asks a file manager for the folder shown in one of its
// windows, matched by window handle.
type FolderQuerier interface {
	FolderFor(h Handle) (string, error)
}

// FolderQuerierFunc adapts a function to FolderQuerier.
type FolderQuerierFunc func(h Handle) (string, error)

// FolderFor calls f(h).
func (f FolderQuerierFunc) FolderFor(h Handle) (string, error) {
	return f(h)
}
