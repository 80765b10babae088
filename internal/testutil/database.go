package testutil

import (
	"testing"

	"novel-go/internal/database"
)

// NewTestStore creates a migrated in-memory store.
// The store is automatically closed when the test completes.
func NewTestStore(t *testing.T) *database.SQLiteStore {
	t.Helper()

	store, err := database.NewSQLiteStore(":memory:", 0)
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}

	t.Cleanup(func() {
		store.Close()
	})

	return store
}
