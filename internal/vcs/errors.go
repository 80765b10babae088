package vcs

import (
	"errors"
	"fmt"
)

// Sentinels for errors.Is. Every error returned by Service matches exactly
// one of these (or is a plain wrapped I/O error from the CLI layer).
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrPathEscape   = errors.New("path outside root")
	ErrStorage      = errors.New("storage failure")
	ErrUnsupported  = errors.New("unsupported")
)

// NotFoundError names the entity that could not be found.
type NotFoundError struct {
	Kind string // "commit", "blob", "path"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %q", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// ValidationError reports a rejected argument.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }
func (e *ValidationError) Unwrap() error        { return e.Err }

// PathError reports a path that resolves outside the workspace root, or that
// cannot be expressed relative to it.
type PathError struct {
	Root string
	Path string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("path %q is outside root %q", e.Path, e.Root)
}

func (e *PathError) Is(target error) bool { return target == ErrPathEscape }

// StorageError wraps a failure of the metadata store or the filesystem.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Is(target error) bool { return target == ErrStorage }
func (e *StorageError) Unwrap() error        { return e.Err }

// storageErr wraps err as a StorageError unless it already carries a
// classification.
func storageErr(op string, err error) error {
	if errors.Is(err, ErrStorage) || errors.Is(err, ErrPathEscape) ||
		errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidInput) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return &StorageError{Op: op, Err: err}
}
