package fs

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"novel-go/internal/vcs"
)

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(p, []byte(content), 0644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
}

func TestOSFilesystemManager_ListFiles(t *testing.T) {
	t.Run("sorted slash paths", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		writeTree(t, root, map[string]string{
			"b.txt":     "b",
			"a/b.txt":   "ab",
			"a.txt":     "a",
			"a/c/d.txt": "acd",
		})

		got, err := NewOSFilesystemManager(nil).ListFiles(root)
		if err != nil {
			t.Fatalf("ListFiles() error = %v", err)
		}
		want := []string{"a.txt", "a/b.txt", "a/c/d.txt", "b.txt"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("ListFiles() = %v, want %v", got, want)
		}
	})

	t.Run("skips metadata directories at any depth", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		writeTree(t, root, map[string]string{
			"keep.txt":            "k",
			".novel/vcs.db":       "db",
			"sub/.novel/other.db": "db",
			"sub/visible.txt":     "v",
		})

		got, err := NewOSFilesystemManager(nil).ListFiles(root)
		if err != nil {
			t.Fatalf("ListFiles() error = %v", err)
		}
		want := []string{"keep.txt", "sub/visible.txt"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("ListFiles() = %v, want %v", got, want)
		}
	})

	t.Run("skips symlinks", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		writeTree(t, root, map[string]string{"real.txt": "r"})
		if err := os.Symlink(filepath.Join(root, "real.txt"), filepath.Join(root, "link.txt")); err != nil {
			t.Skipf("symlinks unsupported: %v", err)
		}

		got, err := NewOSFilesystemManager(nil).ListFiles(root)
		if err != nil {
			t.Fatalf("ListFiles() error = %v", err)
		}
		if !reflect.DeepEqual(got, []string{"real.txt"}) {
			t.Errorf("ListFiles() = %v, want [real.txt]", got)
		}
	})

	t.Run("applies configured and workspace ignore patterns", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		writeTree(t, root, map[string]string{
			IgnoreFileName:  "build/\n",
			"main.txt":      "m",
			"debug.log":     "l",
			"build/out.bin": "o",
			"src/build.txt": "s",
		})

		got, err := NewOSFilesystemManager([]string{"*.log"}).ListFiles(root)
		if err != nil {
			t.Fatalf("ListFiles() error = %v", err)
		}
		want := []string{IgnoreFileName, "main.txt", "src/build.txt"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("ListFiles() = %v, want %v", got, want)
		}
	})

	t.Run("empty root", func(t *testing.T) {
		t.Parallel()
		got, err := NewOSFilesystemManager(nil).ListFiles(t.TempDir())
		if err != nil {
			t.Fatalf("ListFiles() error = %v", err)
		}
		if len(got) != 0 {
			t.Errorf("expected no files, got %v", got)
		}
	})

	t.Run("missing root is a storage error", func(t *testing.T) {
		t.Parallel()
		_, err := NewOSFilesystemManager(nil).ListFiles(filepath.Join(t.TempDir(), "gone"))
		if !errors.Is(err, vcs.ErrStorage) {
			t.Errorf("expected ErrStorage, got %v", err)
		}
	})
}

func TestOSFilesystemManager_ReadWrite(t *testing.T) {
	t.Run("write creates parents and read returns bytes", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		m := NewOSFilesystemManager(nil)

		if err := m.WriteFile(root, "x/y/z.txt", []byte("deep")); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
		got, err := m.ReadFile(root, "x/y/z.txt")
		if err != nil {
			t.Fatalf("ReadFile() error = %v", err)
		}
		if string(got) != "deep" {
			t.Errorf("ReadFile() = %q, want %q", got, "deep")
		}
	})

	t.Run("empty file", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		m := NewOSFilesystemManager(nil)
		if err := m.WriteFile(root, "empty", nil); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
		got, err := m.ReadFile(root, "empty")
		if err != nil {
			t.Fatalf("ReadFile() error = %v", err)
		}
		if len(got) != 0 {
			t.Errorf("expected empty content, got %q", got)
		}
	})

	t.Run("overwrite replaces content", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		m := NewOSFilesystemManager(nil)
		writeTree(t, root, map[string]string{"f.txt": "a much longer original"})
		if err := m.WriteFile(root, "f.txt", []byte("short")); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
		got, _ := os.ReadFile(filepath.Join(root, "f.txt"))
		if string(got) != "short" {
			t.Errorf("content = %q, want %q", got, "short")
		}
	})

	t.Run("escaping paths are rejected", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		m := NewOSFilesystemManager(nil)
		for _, rel := range []string{"../outside.txt", "a/../../outside.txt", ""} {
			if err := m.WriteFile(root, rel, []byte("x")); !errors.Is(err, vcs.ErrPathEscape) {
				t.Errorf("WriteFile(%q) error = %v, want ErrPathEscape", rel, err)
			}
			if _, err := m.ReadFile(root, rel); !errors.Is(err, vcs.ErrPathEscape) {
				t.Errorf("ReadFile(%q) error = %v, want ErrPathEscape", rel, err)
			}
		}
		if _, err := os.Stat(filepath.Join(filepath.Dir(root), "outside.txt")); err == nil {
			t.Error("file was written outside the root")
		}
	})

	t.Run("symlinked directories leading out are refused", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		outside := t.TempDir()
		writeTree(t, outside, map[string]string{"secret.txt": "keep out"})
		if err := os.Symlink(outside, filepath.Join(root, "notes")); err != nil {
			t.Skipf("symlinks unavailable: %v", err)
		}
		m := NewOSFilesystemManager(nil)

		for _, rel := range []string{"notes/a.txt", "notes/sub/a.txt"} {
			if err := m.WriteFile(root, rel, []byte("x")); !errors.Is(err, vcs.ErrPathEscape) {
				t.Errorf("WriteFile(%q) error = %v, want ErrPathEscape", rel, err)
			}
		}
		if _, err := m.ReadFile(root, "notes/secret.txt"); !errors.Is(err, vcs.ErrPathEscape) {
			t.Errorf("ReadFile() error = %v, want ErrPathEscape", err)
		}
		if err := m.RemoveFile(root, "notes/secret.txt"); !errors.Is(err, vcs.ErrPathEscape) {
			t.Errorf("RemoveFile() error = %v, want ErrPathEscape", err)
		}

		entries, _ := os.ReadDir(outside)
		if len(entries) != 1 || entries[0].Name() != "secret.txt" {
			t.Errorf("outside directory changed: %v", entries)
		}
	})

	t.Run("symlinked directories inside the root are followed", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		writeTree(t, root, map[string]string{"real/keep.txt": "k"})
		if err := os.Symlink(filepath.Join(root, "real"), filepath.Join(root, "alias")); err != nil {
			t.Skipf("symlinks unavailable: %v", err)
		}
		m := NewOSFilesystemManager(nil)

		if err := m.WriteFile(root, "alias/new.txt", []byte("n")); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
		got, err := os.ReadFile(filepath.Join(root, "real", "new.txt"))
		if err != nil || string(got) != "n" {
			t.Errorf("real/new.txt = %q, %v", got, err)
		}
	})

	t.Run("large files round trip", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		m := NewOSFilesystemManager(nil)
		content := bytes.Repeat([]byte("0123456789abcdef"), os.Getpagesize())

		if err := m.WriteFile(root, "big.bin", content); err != nil {
			t.Fatalf("WriteFile() error = %v", err)
		}
		got, err := m.ReadFile(root, "big.bin")
		if err != nil {
			t.Fatalf("ReadFile() error = %v", err)
		}
		if !bytes.Equal(got, content) {
			t.Errorf("ReadFile() returned %d bytes, want %d", len(got), len(content))
		}
	})
}

func TestOSFilesystemManager_RemoveFile(t *testing.T) {
	t.Run("prunes empty parents but not root", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		writeTree(t, root, map[string]string{"a/b/c.txt": "c"})
		m := NewOSFilesystemManager(nil)

		if err := m.RemoveFile(root, "a/b/c.txt"); err != nil {
			t.Fatalf("RemoveFile() error = %v", err)
		}
		if _, err := os.Stat(filepath.Join(root, "a")); !os.IsNotExist(err) {
			t.Errorf("expected a/ to be pruned, stat error = %v", err)
		}
		if _, err := os.Stat(root); err != nil {
			t.Errorf("root was removed: %v", err)
		}
	})

	t.Run("keeps non-empty parents", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		writeTree(t, root, map[string]string{"a/b/c.txt": "c", "a/keep.txt": "k"})
		m := NewOSFilesystemManager(nil)

		if err := m.RemoveFile(root, "a/b/c.txt"); err != nil {
			t.Fatalf("RemoveFile() error = %v", err)
		}
		if _, err := os.Stat(filepath.Join(root, "a", "b")); !os.IsNotExist(err) {
			t.Errorf("expected a/b to be pruned")
		}
		if _, err := os.Stat(filepath.Join(root, "a", "keep.txt")); err != nil {
			t.Errorf("a/keep.txt missing: %v", err)
		}
	})

	t.Run("missing file is not an error", func(t *testing.T) {
		t.Parallel()
		if err := NewOSFilesystemManager(nil).RemoveFile(t.TempDir(), "nope.txt"); err != nil {
			t.Errorf("RemoveFile() error = %v", err)
		}
	})
}

func TestSafeWrite(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	target := filepath.Join(dir, "out.txt")

	if err := SafeWrite(target, []byte("first"), 0600); err != nil {
		t.Fatalf("SafeWrite() error = %v", err)
	}
	if err := SafeWrite(target, []byte("second"), 0644); err != nil {
		t.Fatalf("SafeWrite() error = %v", err)
	}

	got, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("reading target: %v", err)
	}
	if string(got) != "second" {
		t.Errorf("content = %q, want %q", got, "second")
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("expected only the target in dir, got %d entries", len(entries))
	}
}

func TestSafeWrite_MissingDir(t *testing.T) {
	t.Parallel()
	err := SafeWrite(filepath.Join(t.TempDir(), "no", "such", "f"), []byte("x"), 0644)
	if err == nil {
		t.Fatal("expected error for missing parent directory")
	}
}
