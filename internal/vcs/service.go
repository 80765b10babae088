package vcs

// MetadataDir is the private directory inside a workspace root that holds
// the store. The walker never descends into a directory of this name.
const MetadataDir = ".novel"

// StoreFile is the store's file name inside MetadataDir.
const StoreFile = "vcs.db"

// DefaultContextLines is the number of unchanged lines shown around each
// hunk of a unified diff.
const DefaultContextLines = 3

// Service is the version-control engine for one workspace root. It
// coordinates the working tree (FilesystemManager) and the metadata
// store (Store) to commit, check out and compare snapshots.
//
// root must already be canonical (absolute, symlinks resolved).
type Service struct {
	root         string
	store        Store
	fsmgr        FilesystemManager
	logger       Logger
	clock        Clock
	contextLines int
}

// NewService creates a Service bound to root.
func NewService(root string, store Store, fsmgr FilesystemManager, logger Logger, clock Clock) *Service {
	return &Service{
		root:         root,
		store:        store,
		fsmgr:        fsmgr,
		logger:       logger,
		clock:        clock,
		contextLines: DefaultContextLines,
	}
}

// SetContextLines changes the unified diff context. Negative values are
// treated as zero.
func (s *Service) SetContextLines(n int) {
	if n < 0 {
		n = 0
	}
	s.contextLines = n
}

// Root returns the workspace root the service operates on.
func (s *Service) Root() string {
	return s.root
}
