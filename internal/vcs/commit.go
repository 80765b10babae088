package vcs

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Commit snapshots every tracked file in the working tree and records it as
// a new commit whose parent is the current head. The working tree is not
// modified. The message is trimmed and must not be empty.
func (s *Service) Commit(message string) (string, error) {
	msg, err := ValidateMessage(message)
	if err != nil {
		return "", err
	}

	files, err := s.readWorkingTree()
	if err != nil {
		return "", err
	}

	createdAt := s.clock.Now().UnixMilli()
	id, err := s.store.CreateCommit(msg, createdAt, files)
	if err != nil {
		return "", storageErr("creating commit", err)
	}

	s.logger.Info("commit created", "id", id, "files", len(files))
	return id, nil
}

// ValidateMessage trims a commit message and rejects it if nothing is left.
func ValidateMessage(message string) (string, error) {
	msg := strings.TrimSpace(message)
	if err := validation.Validate(msg, validation.Required); err != nil {
		return "", &ValidationError{Field: "message", Err: err}
	}
	return msg, nil
}

// PutBlob stores content and returns its blob id. Storing identical
// content twice is a no-op.
func (s *Service) PutBlob(content []byte) (string, error) {
	id := BlobID(content)
	if err := s.store.PutBlob(id, content); err != nil {
		return "", storageErr("storing blob", err)
	}
	return id, nil
}

// GetBlob returns the content stored under id. A missing blob is a storage
// integrity failure; the error also matches ErrNotFound.
func (s *Service) GetBlob(id string) ([]byte, error) {
	content, err := s.store.GetBlob(id)
	if err != nil {
		return nil, storageErr("reading blob", err)
	}
	if content == nil {
		return nil, &StorageError{Op: "reading blob", Err: &NotFoundError{Kind: "blob", ID: id}}
	}
	return content, nil
}

// readWorkingTree lists and reads every tracked file, computing blob ids.
func (s *Service) readWorkingTree() ([]SnapshotFile, error) {
	paths, err := s.fsmgr.ListFiles(s.root)
	if err != nil {
		return nil, storageErr("listing files", err)
	}

	files := make([]SnapshotFile, 0, len(paths))
	for _, p := range paths {
		content, err := s.fsmgr.ReadFile(s.root, p)
		if err != nil {
			return nil, storageErr("reading "+p, err)
		}
		files = append(files, SnapshotFile{Path: p, BlobID: BlobID(content), Content: content})
	}
	return files, nil
}
