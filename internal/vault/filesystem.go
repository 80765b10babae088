package vault

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"novel-go/internal/vcs"
)

// ArchiveExt is the suffix of an encrypted store archive.
const ArchiveExt = ".db.age"

// FileSystemVault keeps archives in a directory, one per workspace:
//
//	<root>/
//	  archives/
//	    <workspaceID>.db.age    (encrypted store snapshot)
//	    <workspaceID>.version   (commit count at push time)
type FileSystemVault struct {
	name       string
	root       string
	archiveDir string
}

// NewFileSystemVault creates a vault rooted at root, creating the
// directory layout if needed.
func NewFileSystemVault(name, root string) (*FileSystemVault, error) {
	archiveDir := filepath.Join(root, "archives")
	if err := os.MkdirAll(archiveDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}

	return &FileSystemVault{
		name:       name,
		root:       root,
		archiveDir: archiveDir,
	}, nil
}

// PutArchive replaces the archive of a workspace. The version file is
// written after the archive, so a reader never sees a version ahead of
// its data.
func (v *FileSystemVault) PutArchive(workspaceID string, r io.Reader, size int64, version int64) error {
	if err := v.writeFile(v.archivePath(workspaceID), r, size); err != nil {
		return err
	}

	versionData := strconv.FormatInt(version, 10)
	return v.writeFile(v.versionPath(workspaceID), strings.NewReader(versionData), int64(len(versionData)))
}

// GetArchive copies the archive of a workspace to w.
func (v *FileSystemVault) GetArchive(workspaceID string, w io.Writer) error {
	f, err := os.Open(v.archivePath(workspaceID))
	if err != nil {
		if os.IsNotExist(err) {
			return &vcs.NotFoundError{Kind: "archive", ID: workspaceID}
		}
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("failed to read archive: %w", err)
	}
	return nil
}

// GetArchiveVersion returns 0 if the workspace was never pushed.
func (v *FileSystemVault) GetArchiveVersion(workspaceID string) (int64, error) {
	data, err := os.ReadFile(v.versionPath(workspaceID))
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("reading version file: %w", err)
	}

	version, err := strconv.ParseInt(strings.TrimSpace(string(data)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing version: %w", err)
	}
	return version, nil
}

// ValidateSetup verifies that the vault directories are accessible.
func (v *FileSystemVault) ValidateSetup() error {
	for _, dir := range []string{v.root, v.archiveDir} {
		info, err := os.Stat(dir)
		if err != nil {
			return fmt.Errorf("vault directory not accessible: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("vault path is not a directory: %s", dir)
		}
	}
	return nil
}

func (v *FileSystemVault) archivePath(workspaceID string) string {
	return filepath.Join(v.archiveDir, workspaceID+ArchiveExt)
}

func (v *FileSystemVault) versionPath(workspaceID string) string {
	return filepath.Join(v.archiveDir, workspaceID+".version")
}

// writeFile copies r to destPath through a temp file and rename, checking
// that exactly expectedSize bytes arrived.
func (v *FileSystemVault) writeFile(destPath string, r io.Reader, expectedSize int64) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	written, err := io.Copy(tmpFile, r)
	if err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write data: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if written != expectedSize {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", expectedSize, written)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	success = true
	return nil
}

var _ vcs.Vault = (*FileSystemVault)(nil)
