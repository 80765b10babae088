package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Config represents the main configuration for novel.
type Config struct {
	LogDir    string          `toml:"log_dir"`
	LogLevel  string          `toml:"log_level"`
	Workspace WorkspaceConfig `toml:"workspace"`
	Diff      DiffConfig      `toml:"diff"`
	Database  DatabaseConfig  `toml:"database"`
	Archive   ArchiveConfig   `toml:"archive"`
}

// WorkspaceConfig holds settings applied to every workspace root.
type WorkspaceConfig struct {
	Ignore []string `toml:"ignore"`
}

// DiffConfig controls unified diff rendering.
type DiffConfig struct {
	ContextLines int `toml:"context_lines"`
}

// DatabaseConfig configures the per-workspace metadata store.
type DatabaseConfig struct {
	BusyTimeoutMs int `toml:"busy_timeout_ms"`
}

// ArchiveConfig configures encrypted store archives.
// Vault and Encryption select implementations; the other fields are only
// read by the implementation they belong to.
type ArchiveConfig struct {
	Vault          string `toml:"vault"`      // "filesystem" (default) or "memory"
	Encryption     string `toml:"encryption"` // "age" (default) or "test"
	VaultRoot      string `toml:"vault_root"`
	PublicKeyPath  string `toml:"public_key_path"`
	PrivateKeyPath string `toml:"private_key_path"`
}

// Log levels accepted in log_level.
var LogLevels = []any{"debug", "info", "warn", "error"}

// NewConfig creates a Config with defaults rooted at baseDir.
func NewConfig(baseDir string) *Config {
	return &Config{
		LogDir:   filepath.Join(baseDir, "log"),
		LogLevel: "info",
		Workspace: WorkspaceConfig{
			Ignore: []string{},
		},
		Diff: DiffConfig{
			ContextLines: 3,
		},
		Database: DatabaseConfig{
			BusyTimeoutMs: 5000,
		},
		Archive: ArchiveConfig{
			Vault:          "filesystem",
			Encryption:     "age",
			VaultRoot:      filepath.Join(baseDir, "vault"),
			PublicKeyPath:  filepath.Join(baseDir, "keys", "novel.pub"),
			PrivateKeyPath: filepath.Join(baseDir, "keys", "novel.key"),
		},
	}
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.LogDir, validation.Required),
		validation.Field(&c.LogLevel, validation.In(LogLevels...)),
		validation.Field(&c.Diff),
		validation.Field(&c.Database),
		validation.Field(&c.Archive),
	)
}

func (d DiffConfig) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.ContextLines, validation.Min(0)),
	)
}

func (d DatabaseConfig) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.BusyTimeoutMs, validation.Min(0)),
	)
}

func (a ArchiveConfig) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Vault, validation.In("filesystem", "memory")),
		validation.Field(&a.Encryption, validation.In("age", "test")),
	)
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from r. Keys absent from r keep the values
// already in defaults; defaults may be nil.
func (m *Manager) Read(r io.Reader, defaults *Config) (*Config, error) {
	cfg := defaults
	if cfg == nil {
		cfg = &Config{}
	}
	if _, err := toml.NewDecoder(r).Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f, nil)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// Load reads the config at path on top of the defaults for baseDir. A
// missing file yields the defaults.
func Load(path, baseDir string) (*Config, error) {
	cfg := NewConfig(baseDir)

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if _, err := m.Read(f, cfg); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// writeToFile writes a Config to the specified file path, creating its
// directory.
func writeToFile(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init writes cfg to path. It refuses to overwrite an existing file.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
