package vcs

import "io"

// Vault stores encrypted archives of a workspace's metadata store.
// Archives are keyed by workspace id and carry a version (the commit count
// at push time) so a stale store never overwrites a newer archive.
type Vault interface {
	// PutArchive stores size bytes read from r as the archive for
	// workspaceID, replacing any previous one.
	PutArchive(workspaceID string, r io.Reader, size int64, version int64) error

	// GetArchive writes the stored archive for workspaceID to w.
	GetArchive(workspaceID string, w io.Writer) error

	// GetArchiveVersion returns the stored version, or 0 if there is none.
	GetArchiveVersion(workspaceID string) (int64, error)

	// ValidateSetup verifies that the vault is accessible.
	ValidateSetup() error
}

// Encryptor encrypts archives with a public key. Decryption needs the
// private key, unlocked with a passphrase into a DecryptionContext.
type Encryptor interface {
	// Setup generates the key pair, protecting the private key with
	// passphrase.
	Setup(passphrase string) error

	// Encrypt reads plaintext from r and writes ciphertext to w.
	Encrypt(r io.Reader, w io.Writer) error

	// Unlock decrypts the private key. It fails on a wrong passphrase.
	Unlock(passphrase string) (DecryptionContext, error)

	// IsConfigured reports whether both key files exist.
	IsConfigured() bool
}

// DecryptionContext holds an unlocked private key in memory.
type DecryptionContext interface {
	Decrypt(r io.Reader, w io.Writer) error
}
