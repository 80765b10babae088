package database

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"novel-go/internal/config"
	"novel-go/internal/vcs"
)

// OpenWorkspaceStore opens the store of the workspace at root, creating
// root/.novel/vcs.db on first use. root must be canonical.
func OpenWorkspaceStore(root string, cfg config.DatabaseConfig) (*SQLiteStore, error) {
	dir := filepath.Join(root, vcs.MetadataDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating metadata directory: %w", err)
	}

	timeout := time.Duration(cfg.BusyTimeoutMs) * time.Millisecond
	store, err := NewSQLiteStore(filepath.Join(dir, vcs.StoreFile), timeout)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	return store, nil
}

// StorePath returns where the store of root lives, without opening it.
func StorePath(root string) string {
	return filepath.Join(root, vcs.MetadataDir, vcs.StoreFile)
}
