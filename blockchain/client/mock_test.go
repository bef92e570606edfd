package client

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aeropart/blockchain/types"
)

// A buffered mutation must stay invisible until Confirm applies it.
func TestMockMutationVisibleOnlyAfterConfirm(t *testing.T) {
	ledger := NewMock()
	ledger.Caller = "0xmfg"

	pending, err := ledger.RegisterPart(context.Background(), types.RegisterPartInput{
		PartNumber: "PN-1", SerialNumber: "SN-1", PartName: "Sensor",
	})
	require.NoError(t, err)
	require.NotEmpty(t, pending.TxID)

	_, err = ledger.GetPartDetails(context.Background(), 1)
	assert.ErrorIs(t, err, types.ErrNotFound)

	receipt, err := ledger.Confirm(context.Background(), pending)
	require.NoError(t, err)
	assert.Equal(t, "1", receipt.Result)

	part, err := ledger.GetPartDetails(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "0xmfg", part.CurrentOwner)
	assert.Equal(t, types.StatusManufactured, part.Status)
}

func TestMockConfirmUnknownTx(t *testing.T) {
	ledger := NewMock()
	_, err := ledger.Confirm(context.Background(), &types.PendingTx{TxID: "tx-404"})
	assert.Error(t, err)
}
