package fs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/exp/mmap"

	"novel-go/internal/vcs"
)

// IgnoreFileName is the per-workspace ignore file, read from the root.
const IgnoreFileName = ".novelignore"

// OSFilesystemManager is the working tree on the real filesystem.
type OSFilesystemManager struct {
	ignore []string
}

// NewOSFilesystemManager creates a manager that applies the given ignore
// patterns in addition to each root's .novelignore.
func NewOSFilesystemManager(ignorePatterns []string) *OSFilesystemManager {
	return &OSFilesystemManager{ignore: ignorePatterns}
}

// ListFiles walks root and returns every regular file as a sorted,
// slash-separated path relative to root. Any directory named .novel is
// skipped, as are symlinks, devices and ignored paths.
func (m *OSFilesystemManager) ListFiles(root string) ([]string, error) {
	matcher, err := m.matcher(root)
	if err != nil {
		return nil, err
	}

	var paths []string
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return &vcs.StorageError{Op: "walking " + p, Err: err}
		}
		if p == root {
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return &vcs.PathError{Root: root, Path: p}
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if d.Name() == vcs.MetadataDir || matcher.Match(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if matcher.Match(rel) {
			return nil
		}
		paths = append(paths, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}

	// WalkDir orders per directory; "a.txt" must still sort before "a/b".
	sort.Strings(paths)
	return paths, nil
}

// ReadFile maps root/rel into memory and copies it out. Files smaller than
// a page are read directly. A file truncated by another process while it is
// mapped raises SIGBUS; the window is the length of one copy.
func (m *OSFilesystemManager) ReadFile(root, rel string) ([]byte, error) {
	p, err := resolve(root, rel)
	if err != nil {
		return nil, err
	}
	if err := checkContained(root, rel, p); err != nil {
		return nil, err
	}

	info, err := os.Stat(p)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", rel, err)
	}
	if info.Size() < int64(os.Getpagesize()) {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", rel, err)
		}
		return data, nil
	}

	r, err := mmap.Open(p)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", rel, err)
	}
	defer r.Close()

	data := make([]byte, r.Len())
	if _, err := r.ReadAt(data, 0); err != nil {
		return nil, fmt.Errorf("reading %s: %w", rel, err)
	}
	return data, nil
}

// WriteFile atomically replaces root/rel, creating parent directories. A
// symlinked directory on the way that leads out of root is refused before
// anything is created.
func (m *OSFilesystemManager) WriteFile(root, rel string, content []byte) error {
	p, err := resolve(root, rel)
	if err != nil {
		return err
	}
	dir := filepath.Dir(p)
	if err := checkContained(root, rel, dir); err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating parent of %s: %w", rel, err)
	}
	if err := checkContained(root, rel, dir); err != nil {
		return err
	}
	return SafeWrite(p, content, 0644)
}

// RemoveFile deletes root/rel, then removes parent directories left empty,
// never removing root itself.
func (m *OSFilesystemManager) RemoveFile(root, rel string) error {
	p, err := resolve(root, rel)
	if err != nil {
		return err
	}
	if err := checkContained(root, rel, filepath.Dir(p)); err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing %s: %w", rel, err)
	}

	for dir := filepath.Dir(p); dir != root && strings.HasPrefix(dir, root); dir = filepath.Dir(dir) {
		entries, err := os.ReadDir(dir)
		if err != nil || len(entries) > 0 {
			break
		}
		if err := os.Remove(dir); err != nil {
			break
		}
	}
	return nil
}

func (m *OSFilesystemManager) matcher(root string) (*IgnoreMatcher, error) {
	fromFile, err := ParseIgnoreFile(filepath.Join(root, IgnoreFileName))
	if err != nil {
		return nil, &vcs.StorageError{Op: "reading " + IgnoreFileName, Err: err}
	}
	patterns := append(append([]string{}, m.ignore...), fromFile...)
	return NewIgnoreMatcher(patterns), nil
}

// resolve joins a slash-separated relative path onto root and rejects
// anything that lands outside it lexically. Symlinks are not followed;
// see checkContained.
func resolve(root, rel string) (string, error) {
	p := filepath.Join(root, filepath.FromSlash(rel))
	if !within(root, p) || p == root {
		return "", &vcs.PathError{Root: root, Path: rel}
	}
	return p, nil
}

// checkContained returns a PathError unless p, or its nearest existing
// ancestor, lies inside root once symlinks are resolved.
func checkContained(root, rel, p string) error {
	realRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		return &vcs.StorageError{Op: "resolving root", Err: err}
	}
	for {
		real, err := filepath.EvalSymlinks(p)
		if err == nil {
			if !within(realRoot, real) {
				return &vcs.PathError{Root: root, Path: rel}
			}
			return nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("resolving %s: %w", rel, err)
		}
		parent := filepath.Dir(p)
		if parent == p {
			return nil
		}
		p = parent
	}
}

// within reports whether p is root or lies beneath it. Both must be clean.
func within(root, p string) bool {
	if p == root {
		return true
	}
	prefix := root
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.HasPrefix(p, prefix)
}

var _ vcs.FilesystemManager = (*OSFilesystemManager)(nil)
