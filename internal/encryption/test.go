package encryption

import (
	"bytes"
	"fmt"
	"io"

	"novel-go/internal/vcs"
)

// testHeader marks TestEncryptor output so it never equals the plaintext.
var testHeader = []byte("NOVELENC")

// TestEncryptor is a deterministic, reversible stand-in for AgeEncryptor.
// Encrypt prepends testHeader; Decrypt checks and strips it. It is selected
// with encryption = "test" and used throughout the tests.
type TestEncryptor struct {
	setupCalled bool
}

var _ vcs.Encryptor = (*TestEncryptor)(nil)

func NewTestEncryptor() *TestEncryptor {
	return &TestEncryptor{}
}

func (e *TestEncryptor) Setup(passphrase string) error {
	e.setupCalled = true
	return nil
}

func (e *TestEncryptor) Encrypt(r io.Reader, w io.Writer) error {
	if _, err := w.Write(testHeader); err != nil {
		return fmt.Errorf("writing test header: %w", err)
	}
	if _, err := io.Copy(w, r); err != nil {
		return fmt.Errorf("copying data: %w", err)
	}
	return nil
}

func (e *TestEncryptor) Unlock(passphrase string) (vcs.DecryptionContext, error) {
	return &TestDecryptionContext{}, nil
}

func (e *TestEncryptor) IsConfigured() bool {
	return true
}

// TestDecryptionContext reverses TestEncryptor.Encrypt.
type TestDecryptionContext struct{}

var _ vcs.DecryptionContext = (*TestDecryptionContext)(nil)

func (c *TestDecryptionContext) Decrypt(r io.Reader, w io.Writer) error {
	header := make([]byte, len(testHeader))
	if _, err := io.ReadFull(r, header); err != nil {
		return fmt.Errorf("reading test header: %w", err)
	}
	if !bytes.Equal(header, testHeader) {
		return fmt.Errorf("invalid test encryption header")
	}
	if _, err := io.Copy(w, r); err != nil {
		return fmt.Errorf("copying data: %w", err)
	}
	return nil
}
