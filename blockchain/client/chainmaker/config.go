package chainmaker

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"
)

// NodeConfig stores detailed configuration for a single ChainMaker node
type NodeConfig struct {
	Address     string   `yaml:"address"`
	ConnCount   int      `yaml:"conn_count"`
	UseTLS      bool     `yaml:"use_tls"`
	TLSHostName string   `yaml:"tls_host_name"`
	CaPaths     []string `yaml:"ca_paths"`
}

// MethodNames maps each ledger operation to the contract method it invokes.
// Unset entries fall back to the canonical contract method names.
type MethodNames struct {
	RegisterPart          string `yaml:"register_part"`
	RecordMaintenance     string `yaml:"record_maintenance"`
	TransferCustody       string `yaml:"transfer_custody"`
	UpdatePartStatus      string `yaml:"update_part_status"`
	GetPartDetails        string `yaml:"get_part_details"`
	GetMaintenanceHistory string `yaml:"get_maintenance_history"`
	GetCustodyHistory     string `yaml:"get_custody_history"`
	GetStakeholderDetails string `yaml:"get_stakeholder_details"`
	GetStakeholderParts   string `yaml:"get_stakeholder_parts"`
}

// SetDefaults fills unset method names with the canonical contract methods
func (m *MethodNames) SetDefaults() {
	if m.RegisterPart == "" {
		m.RegisterPart = "register_part"
	}
	if m.RecordMaintenance == "" {
		m.RecordMaintenance = "record_maintenance"
	}
	if m.TransferCustody == "" {
		m.TransferCustody = "transfer_custody"
	}
	if m.UpdatePartStatus == "" {
		m.UpdatePartStatus = "update_part_status"
	}
	if m.GetPartDetails == "" {
		m.GetPartDetails = "get_part_details"
	}
	if m.GetMaintenanceHistory == "" {
		m.GetMaintenanceHistory = "get_maintenance_history"
	}
	if m.GetCustodyHistory == "" {
		m.GetCustodyHistory = "get_custody_history"
	}
	if m.GetStakeholderDetails == "" {
		m.GetStakeholderDetails = "get_stakeholder_details"
	}
	if m.GetStakeholderParts == "" {
		m.GetStakeholderParts = "get_stakeholder_parts"
	}
}

// ChainMakerConfig stores ChainMaker-specific configuration
type ChainMakerConfig struct {
	// --- SDK Connection Required ---
	ChainID string `yaml:"chain_id"`
	OrgID   string `yaml:"org_id"`

	// TLS Connection Credentials
	UserKeyPath  string `yaml:"user_key_path"`
	UserCertPath string `yaml:"user_cert_path"`

	// Transaction Signing Credentials
	UserSignKeyPath  string `yaml:"user_sign_key_path"`
	UserSignCertPath string `yaml:"user_sign_cert_path"`

	Nodes []NodeConfig `yaml:"nodes"`

	// --- Business Logic Required ---
	ContractName string      `yaml:"contract_name"`
	Methods      MethodNames `yaml:"methods"`
}

// LoadChainMakerConfig loads ChainMaker configuration from the specified YAML file path
func LoadChainMakerConfig(path string) (*ChainMakerConfig, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("unable to get absolute path of ChainMaker config file: %w", err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read ChainMaker config file '%s': %w", absPath, err)
	}

	var cfg ChainMakerConfig
	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse ChainMaker YAML config file: %w", err)
	}

	if cfg.ContractName == "" {
		return nil, fmt.Errorf("contract_name is required in ChainMaker config")
	}
	cfg.Methods.SetDefaults()

	return &cfg, nil
}
