package encryption

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"novel-go/internal/config"
	"novel-go/internal/vcs"
)

func newTestAgeEncryptor(t *testing.T) *AgeEncryptor {
	t.Helper()
	dir := t.TempDir()
	return NewAgeEncryptor(config.ArchiveConfig{
		PublicKeyPath:  filepath.Join(dir, "keys", "novel.pub"),
		PrivateKeyPath: filepath.Join(dir, "keys", "novel.key"),
	})
}

func TestAgeEncryptor_Setup(t *testing.T) {
	t.Run("configures key pair", func(t *testing.T) {
		t.Parallel()
		e := newTestAgeEncryptor(t)
		if e.IsConfigured() {
			t.Fatal("IsConfigured() = true before Setup, want false")
		}

		if err := e.Setup("test-passphrase"); err != nil {
			t.Fatalf("Setup() error = %v", err)
		}
		if !e.IsConfigured() {
			t.Error("IsConfigured() = false after Setup, want true")
		}

		info, err := os.Stat(e.privateKeyPath)
		if err != nil {
			t.Fatalf("private key missing: %v", err)
		}
		if info.Mode().Perm() != 0600 {
			t.Errorf("private key mode = %v, want 0600", info.Mode().Perm())
		}
		pub, _ := os.ReadFile(e.publicKeyPath)
		if !bytes.HasPrefix(pub, []byte("age1")) {
			t.Errorf("public key = %q, want an age1 recipient", pub)
		}
	})

	t.Run("refuses to replace existing keys", func(t *testing.T) {
		t.Parallel()
		e := newTestAgeEncryptor(t)
		if err := e.Setup("first"); err != nil {
			t.Fatalf("Setup() error = %v", err)
		}
		before, _ := os.ReadFile(e.publicKeyPath)

		if err := e.Setup("second"); !errors.Is(err, vcs.ErrInvalidInput) {
			t.Errorf("second Setup() error = %v, want ErrInvalidInput", err)
		}
		after, _ := os.ReadFile(e.publicKeyPath)
		if !bytes.Equal(before, after) {
			t.Error("public key was replaced")
		}
	})

	t.Run("rejects empty passphrase", func(t *testing.T) {
		t.Parallel()
		e := newTestAgeEncryptor(t)
		if err := e.Setup(""); !errors.Is(err, vcs.ErrInvalidInput) {
			t.Errorf("Setup(\"\") error = %v, want ErrInvalidInput", err)
		}
		if e.IsConfigured() {
			t.Error("IsConfigured() = true after rejected Setup")
		}
	})
}

func TestAgeEncryptor_EncryptDecryptRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input []byte
	}{
		{name: "simple text", input: []byte("hello world")},
		{name: "empty", input: []byte{}},
		{name: "binary data", input: []byte{0x00, 0xff, 0x01, 0xfe}},
		{name: "store sized", input: bytes.Repeat([]byte("SQLite format 3\x00"), 10000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			passphrase := "test-passphrase"
			e := newTestAgeEncryptor(t)
			if err := e.Setup(passphrase); err != nil {
				t.Fatalf("Setup() error = %v", err)
			}

			var encrypted bytes.Buffer
			if err := e.Encrypt(bytes.NewReader(tt.input), &encrypted); err != nil {
				t.Fatalf("Encrypt() error = %v", err)
			}
			if len(tt.input) >= 8 && bytes.Contains(encrypted.Bytes(), tt.input[:8]) {
				t.Error("encrypted output contains plaintext")
			}

			ctx, err := e.Unlock(passphrase)
			if err != nil {
				t.Fatalf("Unlock() error = %v", err)
			}

			var decrypted bytes.Buffer
			if err := ctx.Decrypt(bytes.NewReader(encrypted.Bytes()), &decrypted); err != nil {
				t.Fatalf("Decrypt() error = %v", err)
			}
			if !bytes.Equal(decrypted.Bytes(), tt.input) {
				t.Errorf("round-trip failed: got %d bytes, want %d bytes", decrypted.Len(), len(tt.input))
			}
		})
	}
}

func TestAgeEncryptor_UnlockWrongPassphrase(t *testing.T) {
	t.Parallel()

	e := newTestAgeEncryptor(t)
	if err := e.Setup("correct-passphrase"); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}

	_, err := e.Unlock("wrong-passphrase")
	if !errors.Is(err, vcs.ErrInvalidInput) {
		t.Errorf("Unlock() with wrong passphrase error = %v, want ErrInvalidInput", err)
	}
}

func TestAgeEncryptor_DecryptWithOtherKey(t *testing.T) {
	t.Parallel()

	a := newTestAgeEncryptor(t)
	b := newTestAgeEncryptor(t)
	for _, e := range []*AgeEncryptor{a, b} {
		if err := e.Setup("pass"); err != nil {
			t.Fatalf("Setup() error = %v", err)
		}
	}

	var sealed bytes.Buffer
	if err := a.Encrypt(bytes.NewReader([]byte("secret")), &sealed); err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}
	ctx, err := b.Unlock("pass")
	if err != nil {
		t.Fatalf("Unlock() error = %v", err)
	}
	if err := ctx.Decrypt(&sealed, &bytes.Buffer{}); err == nil {
		t.Error("Decrypt() with a foreign key should fail")
	}
}

func TestAgeEncryptor_BeforeSetup(t *testing.T) {
	t.Parallel()

	e := newTestAgeEncryptor(t)
	if err := e.Encrypt(bytes.NewReader([]byte("data")), &bytes.Buffer{}); err == nil {
		t.Error("Encrypt() before Setup should return error")
	}
	if _, err := e.Unlock("passphrase"); err == nil {
		t.Error("Unlock() before Setup should return error")
	}
}

func TestNewEncryptorFromConfig(t *testing.T) {
	tests := []struct {
		encryption string
		wantType   string
		wantErr    bool
	}{
		{"", "*encryption.AgeEncryptor", false},
		{"age", "*encryption.AgeEncryptor", false},
		{"test", "*encryption.TestEncryptor", false},
		{"rot13", "", true},
	}
	for _, tt := range tests {
		got, err := NewEncryptorFromConfig(config.ArchiveConfig{Encryption: tt.encryption})
		if (err != nil) != tt.wantErr {
			t.Errorf("NewEncryptorFromConfig(%q) error = %v, wantErr %v", tt.encryption, err, tt.wantErr)
			continue
		}
		if err == nil {
			if typ := typeName(got); typ != tt.wantType {
				t.Errorf("NewEncryptorFromConfig(%q) = %s, want %s", tt.encryption, typ, tt.wantType)
			}
		}
	}
}

func typeName(v any) string {
	switch v.(type) {
	case *AgeEncryptor:
		return "*encryption.AgeEncryptor"
	case *TestEncryptor:
		return "*encryption.TestEncryptor"
	}
	return "unknown"
}
