package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// WalletConfig defines configuration for the local wallet provider
type WalletConfig struct {
	AccountsPath   string `yaml:"accounts_path"`   // Path to the accounts file (wallet identity source)
	ApprovalPolicy string `yaml:"approval_policy"` // "auto" approves every operation, "deny" rejects all
}

// SetDefaults sets reasonable default values for wallet configuration
func (c *WalletConfig) SetDefaults() {
	if c.ApprovalPolicy == "" {
		c.ApprovalPolicy = "auto"
		fmt.Printf("Warning: wallet.approval_policy not set, defaulting to %s\n", c.ApprovalPolicy)
	}
}

// Validate validates the wallet configuration
func (c *WalletConfig) Validate() error {
	switch c.ApprovalPolicy {
	case "auto", "deny":
		return nil
	default:
		return fmt.Errorf("wallet approval_policy must be 'auto' or 'deny', got %q", c.ApprovalPolicy)
	}
}

// DefaultsConfig defines the substitution values applied to optional form
// fields left blank by the operator.
type DefaultsConfig struct {
	CertificateHash string `yaml:"certificate_hash"` // Used when a register form omits the certificate hash
	ReportHash      string `yaml:"report_hash"`      // Used when a maintenance form omits the report hash
	TransferReason  string `yaml:"transfer_reason"`  // Used when a transfer form omits the reason
}

// SetDefaults sets the historical placeholder values
func (c *DefaultsConfig) SetDefaults() {
	if c.CertificateHash == "" {
		c.CertificateHash = "QmDefault"
	}
	if c.ReportHash == "" {
		c.ReportHash = "QmDefault"
	}
	if c.TransferReason == "" {
		c.TransferReason = "Transfer"
	}
}

// MonitoringConfig defines monitoring configuration for the operator client
type MonitoringConfig struct {
	EnableMetrics   bool   `yaml:"enable_metrics"`    // Enable the metrics endpoint
	ListenAddr      string `yaml:"listen_addr"`       // Address for the metrics/health HTTP listener
	MetricsPath     string `yaml:"metrics_path"`      // Metrics endpoint path
	HealthCheckPath string `yaml:"health_check_path"` // Health check endpoint path
	LogLevel        string `yaml:"log_level"`         // Logging level
}

// SetDefaults sets reasonable default values for monitoring configuration
func (c *MonitoringConfig) SetDefaults() {
	if c.ListenAddr == "" {
		c.ListenAddr = ":9815"
		fmt.Printf("Warning: monitoring.listen_addr not set, defaulting to %s\n", c.ListenAddr)
	}
	if c.MetricsPath == "" {
		c.MetricsPath = "/metrics"
		fmt.Printf("Warning: monitoring.metrics_path not set, defaulting to %s\n", c.MetricsPath)
	}
	if c.HealthCheckPath == "" {
		c.HealthCheckPath = "/health"
		fmt.Printf("Warning: monitoring.health_check_path not set, defaulting to %s\n", c.HealthCheckPath)
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
		fmt.Printf("Warning: monitoring.log_level not set, defaulting to %s\n", c.LogLevel)
	}
}

// OperatorConfig defines all configuration for the operator client
type OperatorConfig struct {
	// Wallet provider configuration
	Wallet WalletConfig `yaml:"wallet"`

	// Blank-field substitution values
	Defaults DefaultsConfig `yaml:"defaults"`

	// Submission journal database; leave DSN empty to disable the journal
	Journal DatabaseConfig `yaml:"journal"`

	// Downstream provenance event publishing; leave brokers empty to disable
	Events EventsConfig `yaml:"events"`

	// Monitoring configuration
	Monitoring MonitoringConfig `yaml:"monitoring"`

	// Ledger client configuration
	LedgerClientConfigPath string `yaml:"ledger_client_config_path"`
}

// JournalEnabled reports whether the submission journal is configured.
func (c *OperatorConfig) JournalEnabled() bool {
	return c.Journal.DSN != ""
}

// EventsEnabled reports whether downstream event publishing is configured.
func (c *OperatorConfig) EventsEnabled() bool {
	return len(c.Events.Brokers) > 0
}

// LoadOperatorConfig loads configuration from the specified YAML file path
func LoadOperatorConfig(path string) (*OperatorConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	var cfg OperatorConfig
	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse YAML config file: %w", err)
	}

	cfg.Wallet.SetDefaults()
	cfg.Defaults.SetDefaults()
	cfg.Monitoring.SetDefaults()
	if cfg.JournalEnabled() {
		cfg.Journal.SetDefaults()
		if err := cfg.Journal.Validate(); err != nil {
			return nil, fmt.Errorf("journal configuration error: %w", err)
		}
	}
	if cfg.EventsEnabled() {
		cfg.Events.SetDefaults()
	}

	if err := cfg.Wallet.Validate(); err != nil {
		return nil, fmt.Errorf("wallet configuration error: %w", err)
	}

	return &cfg, nil
}
