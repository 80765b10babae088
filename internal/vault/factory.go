package vault

import (
	"fmt"

	"novel-go/internal/config"
	"novel-go/internal/vcs"
)

// NewVaultFromConfig creates the Vault selected by cfg.Vault.
func NewVaultFromConfig(cfg config.ArchiveConfig) (vcs.Vault, error) {
	switch cfg.Vault {
	case "memory":
		return NewMemoryVault("memory"), nil
	case "filesystem", "":
		if cfg.VaultRoot == "" {
			return nil, fmt.Errorf("filesystem vault requires vault_root to be set")
		}
		return NewFileSystemVault("filesystem", cfg.VaultRoot)
	default:
		return nil, fmt.Errorf("unknown vault type: %s", cfg.Vault)
	}
}
