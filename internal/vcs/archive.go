package vcs

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/minio/sha256-simd"
)

// WorkspaceID derives a stable vault key from a canonical root path.
func WorkspaceID(root string) string {
	sum := sha256.Sum256([]byte(root))
	return hex.EncodeToString(sum[:8])
}

// Archiver pushes encrypted snapshots of the metadata store to a vault and
// pulls them back.
type Archiver struct {
	store  Store
	vault  Vault
	enc    Encryptor
	logger Logger
}

func NewArchiver(store Store, vault Vault, enc Encryptor, logger Logger) *Archiver {
	return &Archiver{store: store, vault: vault, enc: enc, logger: logger}
}

// Push encrypts a consistent copy of the store and uploads it with the
// current commit count as its version. It refuses to replace an archive
// with a higher version. It returns the pushed version.
func (a *Archiver) Push(workspaceID string) (int64, error) {
	if !a.enc.IsConfigured() {
		return 0, &ValidationError{Field: "keys", Err: fmt.Errorf("encryption keys not configured: run 'novel archive keys init'")}
	}

	version, err := a.store.CountCommits()
	if err != nil {
		return 0, storageErr("counting commits", err)
	}
	remote, err := a.vault.GetArchiveVersion(workspaceID)
	if err != nil {
		return 0, storageErr("reading archive version", err)
	}
	if remote > version {
		return 0, &StorageError{
			Op:  "pushing archive",
			Err: fmt.Errorf("vault holds a newer archive (vault=%d, local=%d)", remote, version),
		}
	}

	tmp, err := os.CreateTemp("", "novel-archive-*.db")
	if err != nil {
		return 0, storageErr("creating temp file", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)

	if err := a.store.BackupTo(tmpPath); err != nil {
		return 0, storageErr("snapshotting store", err)
	}

	f, err := os.Open(tmpPath)
	if err != nil {
		return 0, storageErr("opening snapshot", err)
	}
	defer f.Close()

	var sealed bytes.Buffer
	if err := a.enc.Encrypt(f, &sealed); err != nil {
		return 0, storageErr("encrypting snapshot", err)
	}

	if err := a.vault.PutArchive(workspaceID, &sealed, int64(sealed.Len()), version); err != nil {
		return 0, storageErr("uploading archive", err)
	}

	a.logger.Info("archive pushed", "workspace", workspaceID, "version", version)
	return version, nil
}

// Pull decrypts the stored archive for workspaceID into w.
func (a *Archiver) Pull(workspaceID string, dec DecryptionContext, w io.Writer) error {
	var sealed bytes.Buffer
	if err := a.vault.GetArchive(workspaceID, &sealed); err != nil {
		return storageErr("downloading archive", err)
	}
	if err := dec.Decrypt(&sealed, w); err != nil {
		return storageErr("decrypting archive", err)
	}
	a.logger.Info("archive pulled", "workspace", workspaceID)
	return nil
}
