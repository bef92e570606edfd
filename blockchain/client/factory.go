package client

import (
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"aeropart/blockchain/client/chainmaker"
	"aeropart/config"
)

// Compile-time interface checks.
var (
	_ LedgerClient = (*chainmaker.Client)(nil)
	_ LedgerClient = (*Mock)(nil)
)

// LedgerType represents the type of ledger client
type LedgerType string

const (
	ChainMaker LedgerType = "chainmaker"
	// Future ledger types can be added here:
	// Ethereum          LedgerType = "ethereum"
	// HyperledgerFabric LedgerType = "hyperledger_fabric"
)

// LoadChainSpecificConfig loads chain-specific configuration based on ledger type
func LoadChainSpecificConfig(ledgerType string, configDir string) (any, error) {
	switch LedgerType(ledgerType) {
	case ChainMaker, "":
		// Default to ChainMaker if not specified
		path := filepath.Join(configDir, "clients", "chainmaker.yml")
		return chainmaker.LoadChainMakerConfig(path)
	default:
		return nil, fmt.Errorf("unsupported ledger type: %s", ledgerType)
	}
}

// NewLedgerClient creates a ledger client based on the configuration
func NewLedgerClient(cfg *config.BlockchainConfig, logger zerolog.Logger) (LedgerClient, error) {
	switch LedgerType(cfg.LedgerType) {
	case ChainMaker, "":
		return chainmaker.NewClient(cfg, logger)
	default:
		return nil, fmt.Errorf("unsupported ledger type: %s", cfg.LedgerType)
	}
}

// NewLedgerClientFromFile creates a ledger client from configuration files
func NewLedgerClientFromFile(configPath string, logger zerolog.Logger) (LedgerClient, error) {
	cfg, err := config.LoadBlockchainConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load common config from file '%s': %w", configPath, err)
	}

	configDir := filepath.Dir(configPath)
	chainSpecificCfg, err := LoadChainSpecificConfig(cfg.LedgerType, configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load chain-specific config: %w", err)
	}

	cfg.ChainSpecific = chainSpecificCfg
	return NewLedgerClient(cfg, logger)
}
