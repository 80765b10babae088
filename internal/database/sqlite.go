package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"novel-go/internal/database/migrations"
	"novel-go/internal/database/sqlc"
	"novel-go/internal/vcs"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// DefaultBusyTimeout is how long a connection waits on a locked database
// before failing.
const DefaultBusyTimeout = 5 * time.Second

// SQLiteStore implements vcs.Store on a single SQLite file.
type SQLiteStore struct {
	db      *sql.DB
	queries *sqlc.Queries
	path    string
}

// NewSQLiteStore opens (creating if needed) the store at path and applies
// pending migrations. path can be ":memory:".
func NewSQLiteStore(path string, busyTimeout time.Duration) (*SQLiteStore, error) {
	db, err := OpenConnection(path, busyTimeout)
	if err != nil {
		return nil, err
	}

	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating store: %w", err)
	}

	return &SQLiteStore{
		db:      db,
		queries: sqlc.New(db),
		path:    path,
	}, nil
}

// NewSQLiteStoreFromDB wraps an existing connection. The caller is
// responsible for its schema.
func NewSQLiteStoreFromDB(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{
		db:      db,
		queries: sqlc.New(db),
	}
}

// OpenConnection opens a SQLite connection with foreign keys enforced and a
// busy timeout. The pool is limited to one connection: operations are
// synchronous, and an in-memory database exists per connection.
func OpenConnection(path string, busyTimeout time.Duration) (*sql.DB, error) {
	if busyTimeout <= 0 {
		busyTimeout = DefaultBusyTimeout
	}
	dsn := fmt.Sprintf("%s?_foreign_keys=on&_busy_timeout=%d", path, busyTimeout.Milliseconds())

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	return db, nil
}

// Head and history

func (s *SQLiteStore) Head() (string, error) {
	head, err := s.queries.GetHead(context.Background())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("reading head: %w", err)
	}
	return head.String, nil
}

func (s *SQLiteStore) SetHead(id string) error {
	if err := s.queries.SetHead(context.Background(), sql.NullString{String: id, Valid: id != ""}); err != nil {
		return fmt.Errorf("setting head: %w", err)
	}
	return nil
}

func (s *SQLiteStore) CommitExists(id string) (bool, error) {
	n, err := s.queries.NodeExists(context.Background(), id)
	if err != nil {
		return false, fmt.Errorf("checking commit %s: %w", id, err)
	}
	return n != 0, nil
}

func (s *SQLiteStore) CountCommits() (int64, error) {
	n, err := s.queries.CountNodes(context.Background())
	if err != nil {
		return 0, fmt.Errorf("counting commits: %w", err)
	}
	return n, nil
}

func (s *SQLiteStore) ListCommits() ([]*vcs.Commit, error) {
	ctx := context.Background()

	nodes, err := s.queries.ListNodes(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing commits: %w", err)
	}

	// Parents come back ordered by (node_id, ord); one query for all.
	links, err := s.queries.ListNodeParents(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing parents: %w", err)
	}
	parents := make(map[string][]string, len(links))
	for _, l := range links {
		parents[l.NodeID] = append(parents[l.NodeID], l.ParentID)
	}

	commits := make([]*vcs.Commit, len(nodes))
	for i, n := range nodes {
		ps := parents[n.ID]
		if ps == nil {
			ps = []string{}
		}
		commits[i] = &vcs.Commit{
			ID:              n.ID,
			Parents:         ps,
			Message:         n.Message,
			CreatedAtUnixMs: n.CreatedAtUnixMs,
		}
	}
	return commits, nil
}

// CreateCommit records a commit in one transaction: the node, its parent
// link, the new head, every blob and every file association. Nothing is
// visible unless all of it is.
func (s *SQLiteStore) CreateCommit(message string, createdAtMs int64, files []vcs.SnapshotFile) (string, error) {
	ctx := context.Background()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := s.queries.WithTx(tx)

	head, err := qtx.GetHead(ctx)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("reading head: %w", err)
	}
	parent := head.String

	id := vcs.CommitID(message, createdAtMs, parent)

	if err := qtx.InsertNode(ctx, sqlc.InsertNodeParams{
		ID:              id,
		Message:         message,
		CreatedAtUnixMs: createdAtMs,
	}); err != nil {
		return "", fmt.Errorf("inserting commit: %w", err)
	}

	if parent != "" {
		if err := qtx.InsertNodeParent(ctx, sqlc.InsertNodeParentParams{
			NodeID:   id,
			ParentID: parent,
			Ord:      0,
		}); err != nil {
			return "", fmt.Errorf("inserting parent link: %w", err)
		}
	}

	if err := qtx.SetHead(ctx, sql.NullString{String: id, Valid: true}); err != nil {
		return "", fmt.Errorf("advancing head: %w", err)
	}

	for _, f := range files {
		if err := qtx.InsertBlob(ctx, sqlc.InsertBlobParams{ID: f.BlobID, Content: nonNil(f.Content)}); err != nil {
			return "", fmt.Errorf("storing blob for %s: %w", f.Path, err)
		}
		if err := qtx.InsertNodeFile(ctx, sqlc.InsertNodeFileParams{
			NodeID: id,
			Path:   f.Path,
			BlobID: f.BlobID,
		}); err != nil {
			return "", fmt.Errorf("recording %s: %w", f.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing transaction: %w", err)
	}
	return id, nil
}

// Content

func (s *SQLiteStore) PutBlob(id string, content []byte) error {
	if err := s.queries.InsertBlob(context.Background(), sqlc.InsertBlobParams{ID: id, Content: nonNil(content)}); err != nil {
		return fmt.Errorf("storing blob %s: %w", id, err)
	}
	return nil
}

func (s *SQLiteStore) GetBlob(id string) ([]byte, error) {
	content, err := s.queries.GetBlob(context.Background(), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, fmt.Errorf("reading blob %s: %w", id, err)
	}
	return nonNil(content), nil
}

func (s *SQLiteStore) SnapshotBlobs(commitID string) (map[string]string, error) {
	rows, err := s.queries.ListNodeFileBlobs(context.Background(), commitID)
	if err != nil {
		return nil, fmt.Errorf("loading snapshot %s: %w", commitID, err)
	}
	m := make(map[string]string, len(rows))
	for _, r := range rows {
		m[r.Path] = r.BlobID
	}
	return m, nil
}

// SnapshotFiles loads every file of a commit with content. A file whose
// blob row is missing is an integrity failure, not an omission.
func (s *SQLiteStore) SnapshotFiles(commitID string) ([]vcs.SnapshotFile, error) {
	rows, err := s.queries.ListNodeFileContents(context.Background(), commitID)
	if err != nil {
		return nil, fmt.Errorf("loading snapshot %s: %w", commitID, err)
	}
	files := make([]vcs.SnapshotFile, len(rows))
	for i, r := range rows {
		if r.Content == nil {
			return nil, &vcs.StorageError{
				Op:  "loading snapshot " + commitID,
				Err: &vcs.NotFoundError{Kind: "blob", ID: r.BlobID},
			}
		}
		files[i] = vcs.SnapshotFile{Path: r.Path, BlobID: r.BlobID, Content: r.Content}
	}
	return files, nil
}

// Operation journal

func (s *SQLiteStore) CreateOperation(runID, operation, parameters string) (int64, error) {
	op, err := s.queries.InsertOperation(context.Background(), sqlc.InsertOperationParams{
		RunID:      runID,
		Operation:  operation,
		Parameters: parameters,
		StartedAt:  time.Now().UTC(),
	})
	if err != nil {
		return 0, fmt.Errorf("creating operation: %w", err)
	}
	return op.ID, nil
}

func (s *SQLiteStore) FinishOperation(id int64, status string) error {
	err := s.queries.UpdateOperationFinished(context.Background(), sqlc.UpdateOperationFinishedParams{
		FinishedAt: sql.NullTime{Time: time.Now().UTC(), Valid: true},
		Status:     status,
		ID:         id,
	})
	if err != nil {
		return fmt.Errorf("finishing operation: %w", err)
	}
	return nil
}

func (s *SQLiteStore) ListOperations(limit int) ([]*vcs.Operation, error) {
	ops, err := s.queries.ListOperations(context.Background(), int64(limit))
	if err != nil {
		return nil, fmt.Errorf("listing operations: %w", err)
	}

	result := make([]*vcs.Operation, len(ops))
	for i, op := range ops {
		o := &vcs.Operation{
			ID:         op.ID,
			RunID:      op.RunID,
			Operation:  op.Operation,
			Parameters: op.Parameters,
			StartedAt:  op.StartedAt,
			Status:     op.Status,
		}
		if op.FinishedAt.Valid {
			t := op.FinishedAt.Time
			o.FinishedAt = &t
		}
		result[i] = o
	}
	return result, nil
}

// Path returns the database file path (or ":memory:").
func (s *SQLiteStore) Path() string {
	return s.path
}

// CheckMigrations verifies the schema is up to date.
func (s *SQLiteStore) CheckMigrations() error {
	return migrations.CheckDBMigrationStatus(s.db)
}

// BackupTo creates a complete copy of the database at destPath using VACUUM INTO.
// destPath must not exist or be empty.
func (s *SQLiteStore) BackupTo(destPath string) error {
	if _, err := s.db.Exec("VACUUM INTO ?", destPath); err != nil {
		return fmt.Errorf("backing up store: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// nonNil maps nil to an empty slice; the driver binds nil as NULL.
func nonNil(b []byte) []byte {
	if b == nil {
		return []byte{}
	}
	return b
}

var _ vcs.Store = (*SQLiteStore)(nil)
