package vcs_test

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"novel-go/internal/database"
	"novel-go/internal/testutil"
	"novel-go/internal/vcs"
)

type unconfiguredEncryptor struct{ vcs.Encryptor }

func (unconfiguredEncryptor) IsConfigured() bool { return false }

func TestWorkspaceID(t *testing.T) {
	t.Parallel()
	a := vcs.WorkspaceID("/home/user/novel")
	if len(a) != 16 {
		t.Errorf("WorkspaceID() = %q, want 16 hex chars", a)
	}
	if a != vcs.WorkspaceID("/home/user/novel") {
		t.Error("WorkspaceID() is not stable")
	}
	if a == vcs.WorkspaceID("/home/user/other") {
		t.Error("different roots share a workspace id")
	}
}

func TestArchiver_PushPull(t *testing.T) {
	t.Run("round trip restores the store", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.write("a.txt", "archived")
		f.commit(t, "one")
		f.commit(t, "two")

		vault := testutil.NewTestVault()
		enc := testutil.NewTestEncryptor()
		a := vcs.NewArchiver(f.store, vault, enc, vcs.NewNopLogger())
		wsID := vcs.WorkspaceID(testRoot)

		version, err := a.Push(wsID)
		if err != nil {
			t.Fatalf("Push() error = %v", err)
		}
		if version != 2 {
			t.Errorf("Push() version = %d, want 2", version)
		}
		if v, _ := vault.GetArchiveVersion(wsID); v != 2 {
			t.Errorf("vault version = %d, want 2", v)
		}

		dec, err := enc.Unlock("secret")
		if err != nil {
			t.Fatalf("Unlock() error = %v", err)
		}
		dest := filepath.Join(t.TempDir(), "restored.db")
		out, err := os.Create(dest)
		if err != nil {
			t.Fatal(err)
		}
		if err := a.Pull(wsID, dec, out); err != nil {
			t.Fatalf("Pull() error = %v", err)
		}
		out.Close()

		restored, err := database.NewSQLiteStore(dest, 0)
		if err != nil {
			t.Fatalf("opening restored store: %v", err)
		}
		defer restored.Close()
		n, err := restored.CountCommits()
		if err != nil || n != 2 {
			t.Errorf("restored CountCommits() = %d, %v, want 2", n, err)
		}
	})

	t.Run("archive is not plaintext", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.commit(t, "one")
		vault := testutil.NewTestVault()
		a := vcs.NewArchiver(f.store, vault, testutil.NewTestEncryptor(), vcs.NewNopLogger())

		if _, err := a.Push("ws"); err != nil {
			t.Fatalf("Push() error = %v", err)
		}
		var sealed bytes.Buffer
		if err := vault.GetArchive("ws", &sealed); err != nil {
			t.Fatalf("GetArchive() error = %v", err)
		}
		if bytes.HasPrefix(sealed.Bytes(), []byte("SQLite format 3")) {
			t.Error("archive stored without encryption")
		}
	})

	t.Run("refuses to overwrite a newer archive", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.commit(t, "one")
		vault := testutil.NewTestVault()
		if err := vault.PutArchive("ws", bytes.NewReader([]byte("x")), 1, 5); err != nil {
			t.Fatal(err)
		}
		a := vcs.NewArchiver(f.store, vault, testutil.NewTestEncryptor(), vcs.NewNopLogger())

		_, err := a.Push("ws")
		if !errors.Is(err, vcs.ErrStorage) {
			t.Errorf("Push() error = %v, want ErrStorage", err)
		}
		if v, _ := vault.GetArchiveVersion("ws"); v != 5 {
			t.Errorf("vault version = %d, want 5", v)
		}
	})

	t.Run("requires keys", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		a := vcs.NewArchiver(f.store, testutil.NewTestVault(), unconfiguredEncryptor{}, vcs.NewNopLogger())

		if _, err := a.Push("ws"); !errors.Is(err, vcs.ErrInvalidInput) {
			t.Errorf("Push() error = %v, want ErrInvalidInput", err)
		}
	})

	t.Run("pull without an archive fails", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		enc := testutil.NewTestEncryptor()
		a := vcs.NewArchiver(f.store, testutil.NewTestVault(), enc, vcs.NewNopLogger())
		dec, _ := enc.Unlock("")

		if err := a.Pull("nothing-here", dec, io.Discard); !errors.Is(err, vcs.ErrStorage) {
			t.Errorf("Pull() error = %v, want ErrStorage", err)
		}
	})
}
