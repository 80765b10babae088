package testutil

import (
	"novel-go/internal/encryption"
	"novel-go/internal/vcs"
)

// NewTestEncryptor creates a new test encryptor for testing.
func NewTestEncryptor() vcs.Encryptor {
	return encryption.NewTestEncryptor()
}
