package vcs

// Store is the persistent side of the repository: content-addressed blobs,
// commits with their file associations, the head pointer and the operation
// journal.
//
// Lookups that find nothing return a zero value and a nil error; Service
// turns those into NotFoundError.
type Store interface {
	// Head returns the current commit id, or "" when nothing is committed.
	Head() (string, error)

	// SetHead moves the head pointer. id must name an existing commit.
	SetHead(id string) error

	// CommitExists reports whether a commit with id exists.
	CommitExists(id string) (bool, error)

	// CountCommits returns the number of commits.
	CountCommits() (int64, error)

	// ListCommits returns all commits, newest first, with parents in
	// stored order.
	ListCommits() ([]*Commit, error)

	// CreateCommit atomically records a new commit whose parent is the
	// current head, stores files' blobs and associations, and advances
	// head. It returns the new commit id.
	CreateCommit(message string, createdAtMs int64, files []SnapshotFile) (string, error)

	// PutBlob stores content under id. Storing an existing id is a no-op.
	PutBlob(id string, content []byte) error

	// GetBlob returns the content stored under id, or nil if absent.
	GetBlob(id string) ([]byte, error)

	// SnapshotBlobs returns the path to blob id mapping of a commit.
	SnapshotBlobs(commitID string) (map[string]string, error)

	// SnapshotFiles returns every file of a commit with its content,
	// sorted by path.
	SnapshotFiles(commitID string) ([]SnapshotFile, error)

	// Operation journal.
	CreateOperation(runID, operation, parameters string) (int64, error)
	FinishOperation(id int64, status string) error
	ListOperations(limit int) ([]*Operation, error)

	// BackupTo writes a consistent copy of the store to destPath.
	BackupTo(destPath string) error

	Close() error
}
