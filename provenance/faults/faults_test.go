package faults

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aeropart/blockchain/types"
	"aeropart/wallet"
)

func TestClassifyPassesThroughExistingFault(t *testing.T) {
	orig := Validationf("part number is required")
	got := Classify(fmt.Errorf("dispatch register: %w", orig))
	assert.Same(t, orig, got)
}

func TestClassifyUserRejected(t *testing.T) {
	got := Classify(fmt.Errorf("approve transfer: %w", wallet.ErrApprovalDenied))
	require.Equal(t, UserRejected, got.Category)
	assert.ErrorIs(t, got, wallet.ErrApprovalDenied)
}

func TestClassifyLedgerRejectedCarriesReason(t *testing.T) {
	revert := &types.RevertError{Reason: "part is retired"}
	got := Classify(fmt.Errorf("confirm: %w", revert))
	require.Equal(t, LedgerRejected, got.Category)
	assert.Equal(t, "part is retired", got.Message)
}

func TestClassifyNotFound(t *testing.T) {
	got := Classify(fmt.Errorf("query part 42: %w", types.ErrNotFound))
	assert.Equal(t, NotFound, got.Category)
}

func TestClassifyUnknownIsConnectivity(t *testing.T) {
	got := Classify(errors.New("dial tcp: connection refused"))
	assert.Equal(t, Connectivity, got.Category)
}

// A revert wrapped around an approval denial must classify by the outermost
// recognizable shape, matching the documented first-match order.
func TestClassifyOrderApprovalBeforeRevert(t *testing.T) {
	err := fmt.Errorf("%w: %s", wallet.ErrApprovalDenied, "also mentions revert")
	got := Classify(err)
	assert.Equal(t, UserRejected, got.Category)
}

func TestFaultErrorFormat(t *testing.T) {
	f := &Fault{Category: Connectivity, Message: "ledger unreachable", Err: errors.New("timeout")}
	assert.Equal(t, "connectivity: ledger unreachable: timeout", f.Error())
	assert.Equal(t, "validation: bad input", (&Fault{Category: Validation, Message: "bad input"}).Error())
}
