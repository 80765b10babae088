package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"novel-go/internal/config"
	"novel-go/internal/database"
	"novel-go/internal/encryption"
	"novel-go/internal/fs"
	"novel-go/internal/vault"
	"novel-go/internal/vcs"
)

// NovelApp is the application layer between the CLI and vcs.Service.
// It constructs all dependencies from config for one workspace root,
// journals mutating operations, and releases resources on Close.
type NovelApp struct {
	cfg     *config.Config
	project *fs.Project
	store   *database.SQLiteStore
	service *vcs.Service
	logger  vcs.Logger
	runID   string
	op      *Operation
	logFile *os.File

	// Built on first archive use.
	vault     vcs.Vault
	encryptor vcs.Encryptor
}

// NewNovelApp opens the workspace at root, creating its metadata store on
// first use. operation names the CLI command being run (e.g. "commit").
// The caller must call Close when done.
func NewNovelApp(cfg *config.Config, root, operation string) (*NovelApp, error) {
	project, err := fs.OpenProject(root)
	if err != nil {
		return nil, fmt.Errorf("opening workspace: %w", err)
	}

	runID := vcs.UUIDGenerator{}.New()
	logger, logFile, err := newLogger(cfg.LogDir, runID, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	adapter := &slogAdapter{l: logger}

	store, err := database.OpenWorkspaceStore(project.Root, cfg.Database)
	if err != nil {
		logFile.Close()
		return nil, &vcs.StorageError{Op: "opening store", Err: err}
	}

	fsmgr := fs.NewOSFilesystemManager(cfg.Workspace.Ignore)
	svc := vcs.NewService(project.Root, store, fsmgr, adapter, vcs.RealClock{})
	svc.SetContextLines(cfg.Diff.ContextLines)

	adapter.Debug("workspace opened", "root", project.Root, "operation", operation)

	return &NovelApp{
		cfg:     cfg,
		project: project,
		store:   store,
		service: svc,
		logger:  adapter,
		runID:   runID,
		op:      NewOperation(operation),
		logFile: logFile,
	}, nil
}

// Root returns the canonical workspace root.
func (a *NovelApp) Root() string {
	return a.project.Root
}

// persistOperation journals the current operation. Only commands that
// change the workspace call it.
func (a *NovelApp) persistOperation(parameters string) error {
	if a.op.Persisted() {
		return nil
	}
	a.op.Parameters = parameters
	id, err := a.store.CreateOperation(a.runID, a.op.Operation, parameters)
	if err != nil {
		return fmt.Errorf("persisting operation: %w", err)
	}
	a.op.ID = id
	return nil
}

// Init records the workspace initialization. The store itself was created
// when the app opened. It returns the store path.
func (a *NovelApp) Init() (string, error) {
	if err := a.persistOperation(a.project.Root); err != nil {
		return "", err
	}
	return a.store.Path(), nil
}

// Commit snapshots the working tree. A blank message is rejected before
// anything is journaled.
func (a *NovelApp) Commit(message string) (string, error) {
	if _, err := vcs.ValidateMessage(message); err != nil {
		return "", err
	}
	if err := a.persistOperation(message); err != nil {
		return "", err
	}
	id, err := a.service.Commit(message)
	return id, a.op.Track(err)
}

// Log returns every commit, newest first.
func (a *NovelApp) Log() ([]*vcs.Commit, error) {
	return a.service.Log()
}

// RepoState returns the head and commit count.
func (a *NovelApp) RepoState() (*vcs.RepoState, error) {
	return a.service.RepoState()
}

// Checkout restores the working tree to commit id.
func (a *NovelApp) Checkout(id string) error {
	if err := a.persistOperation(id); err != nil {
		return err
	}
	return a.op.Track(a.service.Checkout(id))
}

// Diff compares two commits.
func (a *NovelApp) Diff(from, to string) (*vcs.NodeDiff, error) {
	return a.service.DiffNodes(from, to)
}

// Status compares the working tree with head.
func (a *NovelApp) Status() ([]*vcs.FileStatus, error) {
	return a.service.Status()
}

// History returns the most recent journaled operations.
func (a *NovelApp) History(limit int) ([]*vcs.Operation, error) {
	return a.service.History(limit)
}

// ListDir lists a directory of the workspace.
func (a *NovelApp) ListDir(rel string) ([]fs.FileEntry, error) {
	return a.project.List(rel)
}

// ReadFile returns the text of a workspace file.
func (a *NovelApp) ReadFile(rel string) (string, error) {
	return a.project.ReadFile(rel)
}

func (a *NovelApp) archiver() (*vcs.Archiver, error) {
	if a.vault == nil {
		v, err := vault.NewVaultFromConfig(a.cfg.Archive)
		if err != nil {
			return nil, fmt.Errorf("creating vault: %w", err)
		}
		if err := v.ValidateSetup(); err != nil {
			return nil, fmt.Errorf("vault not usable: %w", err)
		}
		a.vault = v
	}
	if a.encryptor == nil {
		enc, err := encryption.NewEncryptorFromConfig(a.cfg.Archive)
		if err != nil {
			return nil, fmt.Errorf("creating encryptor: %w", err)
		}
		a.encryptor = enc
	}
	return vcs.NewArchiver(a.store, a.vault, a.encryptor, a.logger), nil
}

// ArchivePush uploads an encrypted snapshot of the store and returns its
// version.
func (a *NovelApp) ArchivePush() (int64, error) {
	if err := a.persistOperation(""); err != nil {
		return 0, err
	}
	arch, err := a.archiver()
	if err != nil {
		return 0, a.op.Track(err)
	}
	version, err := arch.Push(vcs.WorkspaceID(a.project.Root))
	return version, a.op.Track(err)
}

// ArchivePull decrypts the latest archive into dest, which must not exist
// and must not be the live store.
func (a *NovelApp) ArchivePull(passphrase, dest string) error {
	absDest, err := filepath.Abs(dest)
	if err != nil {
		return fmt.Errorf("resolving destination: %w", err)
	}
	if absDest == a.store.Path() {
		return &vcs.ValidationError{Field: "destination", Err: errors.New("refusing to overwrite the live store")}
	}

	arch, err := a.archiver()
	if err != nil {
		return err
	}
	dec, err := a.encryptor.Unlock(passphrase)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(absDest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return &vcs.ValidationError{Field: "destination", Err: fmt.Errorf("%s already exists", dest)}
		}
		return fmt.Errorf("creating destination: %w", err)
	}

	err = arch.Pull(vcs.WorkspaceID(a.project.Root), dec, f)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("closing destination: %w", cerr)
	}
	if err != nil {
		os.Remove(absDest)
		return err
	}
	return nil
}

// Close finishes the journaled operation, if any, and closes the store
// and log file.
func (a *NovelApp) Close() error {
	var firstErr error

	if a.op.Persisted() {
		if err := a.store.FinishOperation(a.op.ID, a.op.Status); err != nil {
			firstErr = fmt.Errorf("finishing operation: %w", err)
		}
	}

	if err := a.store.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("closing store: %w", err)
	}

	if a.logFile != nil {
		a.logFile.Close()
	}
	return firstErr
}

// InitArchiveKeys generates the archive key pair configured in cfg. It
// does not need a workspace.
func InitArchiveKeys(cfg *config.Config, passphrase string) error {
	enc, err := encryption.NewEncryptorFromConfig(cfg.Archive)
	if err != nil {
		return fmt.Errorf("creating encryptor: %w", err)
	}
	return enc.Setup(passphrase)
}
