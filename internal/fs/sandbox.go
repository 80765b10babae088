package fs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"novel-go/internal/vcs"
)

// Project is an opened workspace. All of its helpers confine paths to Root:
// relative paths are resolved with symlinks followed, and anything that
// lands outside Root is rejected with a PathError.
type Project struct {
	Root string
	Name string
}

// FileEntry is one directory listing entry.
type FileEntry struct {
	Path  string `json:"path" yaml:"path"` // slash-separated, relative to the root
	IsDir bool   `json:"is_dir" yaml:"is_dir"`
}

// OpenProject canonicalizes root, which must be an existing directory.
func OpenProject(root string) (*Project, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, &vcs.ValidationError{Field: "root", Err: fmt.Errorf("%s is not a directory", root)}
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving root: %w", err)
	}
	canonical, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("canonicalizing root: %w", err)
	}

	return &Project{Root: canonical, Name: filepath.Base(canonical)}, nil
}

// Resolve returns the canonical absolute path of rel. The path must exist.
func (p *Project) Resolve(rel string) (string, error) {
	joined := filepath.Join(p.Root, filepath.FromSlash(rel))
	candidate, err := filepath.EvalSymlinks(joined)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", &vcs.NotFoundError{Kind: "path", ID: rel}
		}
		return "", fmt.Errorf("resolving %s: %w", rel, err)
	}
	if !within(p.Root, candidate) {
		return "", &vcs.PathError{Root: p.Root, Path: rel}
	}
	return candidate, nil
}

// List returns the entries of directory rel sorted by path. The metadata
// directory is not listed.
func (p *Project) List(rel string) ([]FileEntry, error) {
	dir, err := p.Resolve(rel)
	if err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", rel, err)
	}

	result := make([]FileEntry, 0, len(entries))
	for _, e := range entries {
		if e.Name() == vcs.MetadataDir {
			continue
		}
		full := filepath.Join(dir, e.Name())
		r, err := p.relative(full)
		if err != nil {
			return nil, err
		}
		info, err := os.Stat(full)
		result = append(result, FileEntry{Path: r, IsDir: err == nil && info.IsDir()})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Path < result[j].Path })
	return result, nil
}

// ReadFile returns the text of regular file rel.
func (p *Project) ReadFile(rel string) (string, error) {
	path, err := p.Resolve(rel)
	if err != nil {
		return "", err
	}
	if info, err := os.Stat(path); err != nil || !info.Mode().IsRegular() {
		return "", &vcs.ValidationError{Field: "path", Err: fmt.Errorf("%s is not a file", rel)}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", rel, err)
	}
	if !utf8.Valid(data) {
		return "", &vcs.ValidationError{Field: "path", Err: fmt.Errorf("%s is not valid UTF-8", rel)}
	}
	return string(data), nil
}

// WriteFile replaces the contents of rel. Its parent directory must exist
// inside the root; an existing target must be a regular file.
func (p *Project) WriteFile(rel, content string) error {
	path := filepath.Join(p.Root, filepath.FromSlash(rel))

	parent, err := filepath.EvalSymlinks(filepath.Dir(path))
	if err != nil {
		return fmt.Errorf("resolving parent of %s: %w", rel, err)
	}
	if !within(p.Root, parent) {
		return &vcs.PathError{Root: p.Root, Path: rel}
	}
	target := filepath.Join(parent, filepath.Base(path))

	if info, err := os.Stat(target); err == nil && !info.Mode().IsRegular() {
		return &vcs.ValidationError{Field: "path", Err: fmt.Errorf("%s is not a file", rel)}
	}
	return SafeWrite(target, []byte(content), 0644)
}

// CreateFile creates an empty file called name inside directory rel and
// returns its path relative to the root. It fails if the file exists.
func (p *Project) CreateFile(rel, name string) (string, error) {
	err := validation.Validate(name,
		validation.Required,
		validation.By(func(any) error {
			if strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
				return errors.New("must be a single path component")
			}
			return nil
		}),
	)
	if err != nil {
		return "", &vcs.ValidationError{Field: "name", Err: err}
	}

	dir, err := p.Resolve(rel)
	if err != nil {
		return "", err
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return "", &vcs.ValidationError{Field: "path", Err: fmt.Errorf("%s is not a directory", rel)}
	}

	full := filepath.Join(dir, name)
	f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", name, err)
	}
	f.Close()

	return p.relative(full)
}

func (p *Project) relative(full string) (string, error) {
	r, err := filepath.Rel(p.Root, full)
	if err != nil || r == ".." || strings.HasPrefix(r, ".."+string(filepath.Separator)) {
		return "", &vcs.PathError{Root: p.Root, Path: full}
	}
	return filepath.ToSlash(r), nil
}
