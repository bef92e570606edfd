package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the complete application configuration
type Config struct {
	Operator   *OperatorConfig
	Blockchain *BlockchainConfig
}

// LoadConfig loads all configuration files from a directory
func LoadConfig(configDir string) (*Config, error) {
	absDir, err := filepath.Abs(configDir)
	if err != nil {
		return nil, fmt.Errorf("unable to get absolute path of config directory: %w", err)
	}

	config := &Config{}

	// Load operator config
	operatorPath := filepath.Join(absDir, "operator.defaults.yml")
	if _, err := os.Stat(operatorPath); err == nil {
		operatorCfg, err := LoadOperatorConfig(operatorPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load operator config: %w", err)
		}
		config.Operator = operatorCfg
	}

	// Load ledger client config
	blockchainPath := filepath.Join(absDir, "client_config.yml")
	if _, err := os.Stat(blockchainPath); err == nil {
		blockchainCfg, err := LoadBlockchainConfig(blockchainPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load ledger client config: %w", err)
		}
		config.Blockchain = blockchainCfg
	}

	return config, nil
}
