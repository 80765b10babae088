package testutil

import (
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	"novel-go/internal/vcs"
)

// MockFilesystemManager is an in-memory working tree for testing. Files
// are keyed by root and slash-separated relative path.
type MockFilesystemManager struct {
	mu        sync.Mutex
	files     map[string]map[string][]byte // root -> rel -> content
	failWrite map[string]error
	failList  error
}

// NewMockFilesystemManager creates an empty mock filesystem.
func NewMockFilesystemManager() *MockFilesystemManager {
	return &MockFilesystemManager{
		files:     make(map[string]map[string][]byte),
		failWrite: make(map[string]error),
	}
}

// AddFile puts a file into the tree of root, replacing any existing one.
func (m *MockFilesystemManager) AddFile(root, rel string, content []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.files[root] == nil {
		m.files[root] = make(map[string][]byte)
	}
	m.files[root][rel] = append([]byte{}, content...)
}

// DeleteFile removes a file from the tree of root.
func (m *MockFilesystemManager) DeleteFile(root, rel string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files[root], rel)
}

// Files returns a copy of the tree of root as rel -> content string.
func (m *MockFilesystemManager) Files(root string) map[string]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string, len(m.files[root]))
	for rel, content := range m.files[root] {
		out[rel] = string(content)
	}
	return out
}

// FailWrite makes every later WriteFile of rel return err.
func (m *MockFilesystemManager) FailWrite(rel string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWrite[rel] = err
}

// FailList makes every later ListFiles return err.
func (m *MockFilesystemManager) FailList(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failList = err
}

func (m *MockFilesystemManager) ListFiles(root string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failList != nil {
		return nil, m.failList
	}

	paths := make([]string, 0, len(m.files[root]))
	for rel := range m.files[root] {
		if isMetadata(rel) {
			continue
		}
		paths = append(paths, rel)
	}
	sort.Strings(paths)
	return paths, nil
}

func (m *MockFilesystemManager) ReadFile(root, rel string) ([]byte, error) {
	if err := checkRel(root, rel); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	content, ok := m.files[root][rel]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", rel)
	}
	return append([]byte{}, content...), nil
}

func (m *MockFilesystemManager) WriteFile(root, rel string, content []byte) error {
	if err := checkRel(root, rel); err != nil {
		return err
	}
	m.mu.Lock()
	if err := m.failWrite[rel]; err != nil {
		m.mu.Unlock()
		return err
	}
	m.mu.Unlock()

	m.AddFile(root, rel, content)
	return nil
}

func (m *MockFilesystemManager) RemoveFile(root, rel string) error {
	if err := checkRel(root, rel); err != nil {
		return err
	}
	m.DeleteFile(root, rel)
	return nil
}

func isMetadata(rel string) bool {
	for _, part := range strings.Split(rel, "/") {
		if part == vcs.MetadataDir {
			return true
		}
	}
	return false
}

func checkRel(root, rel string) error {
	clean := path.Clean(rel)
	if rel == "" || path.IsAbs(rel) || clean == ".." || strings.HasPrefix(clean, "../") {
		return &vcs.PathError{Root: root, Path: rel}
	}
	return nil
}

var _ vcs.FilesystemManager = (*MockFilesystemManager)(nil)
