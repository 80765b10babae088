package vcs

// FilesystemManager is the working tree as seen by the engine. All paths
// it accepts and returns are slash-separated and relative to root.
type FilesystemManager interface {
	// ListFiles returns every tracked regular file under root, sorted.
	// The metadata directory and ignored paths are never listed.
	ListFiles(root string) ([]string, error)

	// ReadFile returns the full contents of root/rel.
	ReadFile(root, rel string) ([]byte, error)

	// WriteFile replaces root/rel with content, creating parent directories.
	WriteFile(root, rel string, content []byte) error

	// RemoveFile deletes root/rel and any parent directories it leaves empty,
	// stopping at root.
	RemoveFile(root, rel string) error
}
