package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"
)

// BlockchainConfig stores common ledger configuration across all ledger types
type BlockchainConfig struct {
	// --- Ledger Type Selection ---
	LedgerType string `yaml:"ledger_type"` // "chainmaker", "ethereum", etc.

	// --- Common Behavior Configuration ---
	// Confirmation polling: attempts and interval (milliseconds) while waiting
	// for a submitted transaction to reach finality.
	ConfirmAttempts int `yaml:"confirm_attempts"`
	ConfirmInterval int `yaml:"confirm_interval"`
	TimeoutSeconds  int `yaml:"timeout_seconds"`

	// --- Chain-specific Configuration ---
	// This will be loaded separately based on ledger type
	ChainSpecific any `yaml:"-"`
}

// SetDefaults sets reasonable default values for the common ledger configuration
func (c *BlockchainConfig) SetDefaults() {
	if c.ConfirmAttempts <= 0 {
		c.ConfirmAttempts = 20
		fmt.Printf("Warning: blockchain.confirm_attempts not set or invalid, defaulting to %d\n", c.ConfirmAttempts)
	}
	if c.ConfirmInterval <= 0 {
		c.ConfirmInterval = 500
		fmt.Printf("Warning: blockchain.confirm_interval not set or invalid, defaulting to %dms\n", c.ConfirmInterval)
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 15
		fmt.Printf("Warning: blockchain.timeout_seconds not set or invalid, defaulting to %ds\n", c.TimeoutSeconds)
	}
}

// LoadBlockchainConfig loads ledger configuration from the specified YAML file path
func LoadBlockchainConfig(path string) (*BlockchainConfig, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("unable to get absolute path of config file: %w", err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", absPath, err)
	}

	var cfg BlockchainConfig
	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse YAML config file: %w", err)
	}

	cfg.SetDefaults()
	return &cfg, nil
}
