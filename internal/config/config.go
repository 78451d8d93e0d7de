package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/andy/clientcomptage/internal/domain"
	"gopkg.in/yaml.v3"
)

type Config struct {
	// Database settings
	Database DatabaseConfig `yaml:"database"`
}

type DatabaseConfig struct {
	Host           string                `yaml:"host"`
	Port           int                   `yaml:"port"`
	Name           string                `yaml:"name"`
	User           string                `yaml:"user"`
	PasswordPrompt domain.PasswordPolicy `yaml:"password_prompt"` // auto, always or never
	UseKeyring     bool                  `yaml:"use_keyring"`     // Remember prompted passwords in the system keyring
}

// DefaultConfigPath returns ~/.config/clientcomptage/config.yaml
func DefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home dir unavailable
		return filepath.Join(".", ".config", "clientcomptage", "config.yaml")
	}
	return filepath.Join(homeDir, ".config", "clientcomptage", "config.yaml")
}

// DefaultConfig returns the historical deployment target
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Host:           "localhost",
			Port:           5414,
			Name:           "dalibo",
			User:           "postgres",
			PasswordPrompt: domain.PasswordAuto,
			UseKeyring:     false,
		},
	}
}

// Load loads config from the given path, or returns defaults if file doesn't exist
func Load(path string) (*Config, error) {
	// If file doesn't exist, return defaults
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Keys missing from the file keep their default
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// LoadDefault loads from the default config path
func LoadDefault() (*Config, error) {
	return Load(DefaultConfigPath())
}

// Validate checks values a YAML file could get wrong
func (c *Config) Validate() error {
	if c.Database.Port <= 0 || c.Database.Port > 65535 {
		return fmt.Errorf("database.port out of range: %d", c.Database.Port)
	}
	if !c.Database.PasswordPrompt.Valid() {
		return fmt.Errorf("database.password_prompt must be auto, always or never, got %q", c.Database.PasswordPrompt)
	}
	return nil
}

// Apply overlays the non-zero connection overrides from the command line
func (c *Config) Apply(opts domain.Options) {
	if opts.Host != "" {
		c.Database.Host = opts.Host
	}
	if opts.Port != 0 {
		c.Database.Port = opts.Port
	}
	if opts.DBName != "" {
		c.Database.Name = opts.DBName
	}
	if opts.User != "" {
		c.Database.User = opts.User
	}
	if opts.PasswordPolicy != "" {
		c.Database.PasswordPrompt = opts.PasswordPolicy
	}
}

// Save writes the config to the given path
func (c *Config) Save(path string) error {
	// Create parent directories if they don't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
