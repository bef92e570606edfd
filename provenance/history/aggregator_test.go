package history_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aeropart/blockchain/client"
	"aeropart/blockchain/types"
	"aeropart/provenance/history"
)

// seedPart registers and confirms one part owned by caller, returning its id.
func seedPart(t *testing.T, ledger *client.Mock, caller string) uint64 {
	t.Helper()
	ledger.Caller = caller
	pending, err := ledger.RegisterPart(context.Background(), types.RegisterPartInput{
		PartNumber:   "PN-1000",
		SerialNumber: "SN-0001",
		PartName:     "Fan Blade",
	})
	require.NoError(t, err)
	_, err = ledger.Confirm(context.Background(), pending)
	require.NoError(t, err)
	return 1
}

func TestLoadPartComposesAllThree(t *testing.T) {
	ledger := client.NewMock()
	ledger.AddStakeholder("0xmfg", "Acme", types.RoleManufacturer)
	partID := seedPart(t, ledger, "0xmfg")

	pending, err := ledger.RecordMaintenance(context.Background(), types.MaintenanceInput{
		PartID:          partID,
		MaintenanceType: "Inspection",
		ReportHash:      "QmReport",
	})
	require.NoError(t, err)
	_, err = ledger.Confirm(context.Background(), pending)
	require.NoError(t, err)

	view, err := history.New(ledger, zerolog.Nop()).LoadPart(context.Background(), partID)
	require.NoError(t, err)
	assert.Equal(t, "Fan Blade", view.Details.PartName)
	require.Len(t, view.Maintenance, 1)
	assert.Equal(t, "Inspection", view.Maintenance[0].MaintenanceType)
	assert.NotNil(t, view.Custody)
	assert.Empty(t, view.Custody)
}

func TestLoadPartDetailsFailureFailsWholeLoad(t *testing.T) {
	ledger := client.NewMock()
	aggregator := history.New(ledger, zerolog.Nop())

	view, err := aggregator.LoadPart(context.Background(), 99)
	require.ErrorIs(t, err, types.ErrNotFound)
	assert.Nil(t, view)
}

func TestLoadPartHistoryFailureDegradesToEmpty(t *testing.T) {
	ledger := client.NewMock()
	ledger.AddStakeholder("0xmfg", "Acme", types.RoleManufacturer)
	partID := seedPart(t, ledger, "0xmfg")
	ledger.FailWith("GetMaintenanceHistory", errors.New("node timeout"))

	view, err := history.New(ledger, zerolog.Nop()).LoadPart(context.Background(), partID)
	require.NoError(t, err)
	assert.Equal(t, partID, view.Details.ID)
	assert.NotNil(t, view.Maintenance)
	assert.Empty(t, view.Maintenance)
	assert.NotNil(t, view.Custody)
}

func TestLoadOwnedPartsEmptyAccount(t *testing.T) {
	aggregator := history.New(client.NewMock(), zerolog.Nop())
	summaries := aggregator.LoadOwnedParts(context.Background(), "")
	assert.NotNil(t, summaries)
	assert.Empty(t, summaries)
}

func TestLoadOwnedPartsQueryFailureTreatedAsNone(t *testing.T) {
	ledger := client.NewMock()
	summaries := history.New(ledger, zerolog.Nop()).LoadOwnedParts(context.Background(), "0xunknown")
	assert.Empty(t, summaries)
}

func TestLoadOwnedPartsSkipsUnlistableParts(t *testing.T) {
	ledger := client.NewMock()
	ledger.AddStakeholder("0xmfg", "Acme", types.RoleManufacturer)
	seedPart(t, ledger, "0xmfg")
	ledger.FailWith("GetPartDetails", errors.New("node timeout"))

	summaries := history.New(ledger, zerolog.Nop()).LoadOwnedParts(context.Background(), "0xmfg")
	assert.Empty(t, summaries)
}
