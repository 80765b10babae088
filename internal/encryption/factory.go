package encryption

import (
	"fmt"

	"novel-go/internal/config"
	"novel-go/internal/vcs"
)

// NewEncryptorFromConfig creates the Encryptor selected by cfg.Encryption.
func NewEncryptorFromConfig(cfg config.ArchiveConfig) (vcs.Encryptor, error) {
	switch cfg.Encryption {
	case "age", "":
		return NewAgeEncryptor(cfg), nil
	case "test":
		return NewTestEncryptor(), nil
	default:
		return nil, fmt.Errorf("unknown encryption type: %q", cfg.Encryption)
	}
}
