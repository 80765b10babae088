package testutil

import (
	"novel-go/internal/vault"
	"novel-go/internal/vcs"
)

// NewTestVault creates a new in-memory vault for testing.
func NewTestVault() vcs.Vault {
	return vault.NewMemoryVault("test-vault")
}
