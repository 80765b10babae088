package vcs

import "time"

// Commit is one immutable snapshot of the workspace plus its history links.
type Commit struct {
	ID              string   `json:"id" yaml:"id"`
	Parents         []string `json:"parents" yaml:"parents"`
	Message         string   `json:"message" yaml:"message"`
	CreatedAtUnixMs int64    `json:"created_at_unix_ms" yaml:"created_at_unix_ms"`
}

// CreatedAt returns the commit timestamp in UTC.
func (c *Commit) CreatedAt() time.Time {
	return time.UnixMilli(c.CreatedAtUnixMs).UTC()
}

// RepoState is a cheap summary of the repository.
type RepoState struct {
	Head        string `json:"head" yaml:"head"`
	CommitCount int64  `json:"node_count" yaml:"node_count"`
}

// SnapshotFile is one file of a snapshot. Content is nil when only the
// path to blob mapping was loaded.
type SnapshotFile struct {
	Path    string
	BlobID  string
	Content []byte
}

// ChangeKind classifies a per-file difference.
type ChangeKind string

const (
	Added    ChangeKind = "added"
	Removed  ChangeKind = "removed"
	Modified ChangeKind = "modified"
)

// FileDiff describes how one path differs between two snapshots.
// The text fields are nil for binary content; Unified is only set when
// both sides are text.
type FileDiff struct {
	Path       string     `json:"path" yaml:"path"`
	Kind       ChangeKind `json:"kind" yaml:"kind"`
	BeforeText *string    `json:"before_text" yaml:"before_text"`
	AfterText  *string    `json:"after_text" yaml:"after_text"`
	Unified    *string    `json:"unified" yaml:"unified"`
	IsBinary   bool       `json:"is_binary" yaml:"is_binary"`
}

// NodeDiff is the full comparison between two commits, sorted by path.
type NodeDiff struct {
	From  string      `json:"from" yaml:"from"`
	To    string      `json:"to" yaml:"to"`
	Files []*FileDiff `json:"files" yaml:"files"`
}

// FileStatus is a working-tree change relative to head.
type FileStatus struct {
	Path string     `json:"path" yaml:"path"`
	Kind ChangeKind `json:"kind" yaml:"kind"`
}

// Operation is one journaled CLI invocation.
type Operation struct {
	ID         int64      `json:"id" yaml:"id"`
	RunID      string     `json:"run_id" yaml:"run_id"`
	Operation  string     `json:"operation" yaml:"operation"`
	Parameters string     `json:"parameters" yaml:"parameters"`
	StartedAt  time.Time  `json:"started_at" yaml:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty" yaml:"finished_at,omitempty"`
	Status     string     `json:"status" yaml:"status"`
}
