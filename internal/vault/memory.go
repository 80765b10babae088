package vault

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"novel-go/internal/vcs"
)

// MemoryVault keeps archives in memory. It is useful for testing and is
// safe for concurrent use.
type MemoryVault struct {
	name     string
	archives map[string][]byte // workspaceID -> sealed archive
	versions map[string]int64  // workspaceID -> version
	mu       sync.RWMutex
}

// NewMemoryVault creates an empty in-memory vault.
func NewMemoryVault(name string) *MemoryVault {
	return &MemoryVault{
		name:     name,
		archives: make(map[string][]byte),
		versions: make(map[string]int64),
	}
}

func (m *MemoryVault) PutArchive(workspaceID string, r io.Reader, size int64, version int64) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("failed to read archive: %w", err)
	}
	if int64(len(data)) != size {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", size, len(data))
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.archives[workspaceID] = data
	m.versions[workspaceID] = version
	return nil
}

func (m *MemoryVault) GetArchive(workspaceID string, w io.Writer) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.archives[workspaceID]
	if !ok {
		return &vcs.NotFoundError{Kind: "archive", ID: workspaceID}
	}
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write archive: %w", err)
	}
	return nil
}

// GetArchiveVersion returns 0 for a workspace that was never pushed.
func (m *MemoryVault) GetArchiveVersion(workspaceID string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.versions[workspaceID], nil
}

// ValidateSetup always succeeds for the in-memory vault.
func (m *MemoryVault) ValidateSetup() error {
	return nil
}

var _ vcs.Vault = (*MemoryVault)(nil)
