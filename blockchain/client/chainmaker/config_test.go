package chainmaker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeChainConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chainmaker.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadChainMakerConfigRequiresContractName(t *testing.T) {
	path := writeChainConfig(t, "chain_id: chain1\norg_id: org1\n")

	_, err := LoadChainMakerConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "contract_name")
}

func TestLoadChainMakerConfigMethodDefaults(t *testing.T) {
	path := writeChainConfig(t, `
chain_id: chain1
org_id: org1
contract_name: aviation_provenance
methods:
  register_part: RegisterPartV2
`)

	cfg, err := LoadChainMakerConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "aviation_provenance", cfg.ContractName)
	assert.Equal(t, "RegisterPartV2", cfg.Methods.RegisterPart)
	assert.Equal(t, "transfer_custody", cfg.Methods.TransferCustody)
	assert.Equal(t, "get_stakeholder_parts", cfg.Methods.GetStakeholderParts)
}
