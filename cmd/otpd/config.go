// config.go - Configuration management for otpd
package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"randbytes/internal/randbytes"
)

// Config represents the application configuration
type Config struct {
	// Randomness. An empty seed means the operating system CSPRNG.
	SeedHex string `json:"seed_hex"`

	// Demo settings
	Messages []string `json:"messages"`

	// File paths
	KeyDir string `json:"key_dir"`

	// Logging
	LogLevel string `json:"log_level"`
	LogFile  string `json:"log_file"`

	// Performance
	MaxConcurrency int `json:"max_concurrency"`

	// Security
	EnableAudit  bool   `json:"enable_audit"`
	AuditLogPath string `json:"audit_log_path"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Messages:       []string{"hi"},
		KeyDir:         "keys",
		LogLevel:       "info",
		LogFile:        "",
		MaxConcurrency: 4,
		EnableAudit:    false,
		AuditLogPath:   "audit.log",
	}
}

// LoadConfig loads configuration from file or creates default
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); err == nil {
		file, err := os.Open(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open config file: %w", err)
		}
		defer file.Close()

		config := DefaultConfig()
		if err := json.NewDecoder(file).Decode(config); err != nil {
			return nil, fmt.Errorf("failed to decode config file: %w", err)
		}

		return config, nil
	}

	config := DefaultConfig()
	if err := SaveConfig(config, configPath); err != nil {
		return nil, fmt.Errorf("failed to save default config: %w", err)
	}

	return config, nil
}

// SaveConfig saves configuration to file
func SaveConfig(config *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.MaxConcurrency <= 0 {
		return fmt.Errorf("max_concurrency must be positive")
	}
	if c.KeyDir == "" {
		return fmt.Errorf("key_dir must be set")
	}
	if c.SeedHex != "" {
		seed, err := hex.DecodeString(c.SeedHex)
		if err != nil {
			return fmt.Errorf("seed_hex is not hex: %w", err)
		}
		if len(seed) != 32 {
			return fmt.Errorf("seed_hex must decode to 32 bytes, got %d", len(seed))
		}
	}
	if c.EnableAudit && c.AuditLogPath == "" {
		return fmt.Errorf("audit_log_path must be set when enable_audit is true")
	}
	return nil
}

// Source returns the randomness source selected by the configuration.
// Seeded sources are wrapped so concurrent scenarios can share them.
func (c *Config) Source() (randbytes.Source, error) {
	if c.SeedHex == "" {
		return randbytes.SystemSource, nil
	}
	seed, err := hex.DecodeString(c.SeedHex)
	if err != nil {
		return nil, fmt.Errorf("seed_hex is not hex: %w", err)
	}
	src, err := randbytes.NewChaChaSource(seed)
	if err != nil {
		return nil, err
	}
	return randbytes.NewLockedSource(src), nil
}
