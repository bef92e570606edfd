package dispatch_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aeropart/blockchain/client"
	"aeropart/blockchain/types"
	"aeropart/provenance/dispatch"
	"aeropart/provenance/faults"
	"aeropart/provenance/history"
	"aeropart/provenance/session"
	"aeropart/wallet"
)

var testDefaults = dispatch.Defaults{
	CertificateHash: "QmDefault",
	ReportHash:      "QmDefault",
	TransferReason:  "Transfer",
}

type fixture struct {
	ledger     *client.Mock
	provider   *wallet.MockProvider
	sessions   *session.Manager
	aggregator *history.Aggregator
	dispatcher *dispatch.Dispatcher
}

// newFixture wires a connected session for the given account and role.
func newFixture(t *testing.T, account string, role types.Role) *fixture {
	t.Helper()
	ledger := client.NewMock()
	ledger.Caller = account
	ledger.AddStakeholder(account, "Test Stakeholder", role)
	provider := wallet.NewMock(account)
	sessions := session.New(provider, ledger, zerolog.Nop())
	_, err := sessions.Connect(context.Background())
	require.NoError(t, err)
	aggregator := history.New(ledger, zerolog.Nop())
	return &fixture{
		ledger:     ledger,
		provider:   provider,
		sessions:   sessions,
		aggregator: aggregator,
		dispatcher: dispatch.New(ledger, provider, sessions, aggregator, testDefaults, zerolog.Nop()),
	}
}

func requireFault(t *testing.T, err error, category faults.Category) *faults.Fault {
	t.Helper()
	var fault *faults.Fault
	require.ErrorAs(t, err, &fault)
	require.Equal(t, category, fault.Category)
	return fault
}

func TestRegisterMissingFieldsMakesNoNetworkCalls(t *testing.T) {
	fx := newFixture(t, "0xmfg", types.RoleManufacturer)
	form := &dispatch.RegisterForm{PartNumber: "PN-1000"}

	_, err := fx.dispatcher.Register(context.Background(), form)
	fault := requireFault(t, err, faults.Validation)
	assert.Contains(t, fault.Message, "SerialNumber")
	assert.Contains(t, fault.Message, "PartName")

	assert.Zero(t, fx.ledger.Calls("RegisterPart"))
	assert.Zero(t, fx.provider.ApproveCalls())
	assert.Equal(t, "PN-1000", form.PartNumber, "failed validation must not touch the buffer")
}

func TestRegisterBlankHashGetsPlaceholderDefault(t *testing.T) {
	fx := newFixture(t, "0xmfg", types.RoleManufacturer)
	form := &dispatch.RegisterForm{
		PartNumber:   "PN-1000",
		SerialNumber: "SN-0001",
		PartName:     "Fan Blade",
	}

	result, err := fx.dispatcher.Register(context.Background(), form)
	require.NoError(t, err)
	assert.Equal(t, "Part registered successfully", result.Message)
	assert.Equal(t, "1", result.Receipt.Result)
	require.Len(t, result.OwnedParts, 1)
	assert.Equal(t, uint64(1), result.OwnedParts[0].ID)

	part, err := fx.ledger.GetPartDetails(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "QmDefault", part.CertificateHash)

	assert.Equal(t, dispatch.RegisterForm{}, *form, "buffer cleared after confirmation")
}

func TestApprovalDeniedLeavesBufferAndSkipsSubmission(t *testing.T) {
	fx := newFixture(t, "0xmfg", types.RoleManufacturer)
	fx.provider.SetApproveError(wallet.ErrApprovalDenied)
	form := &dispatch.RegisterForm{
		PartNumber:   "PN-1000",
		SerialNumber: "SN-0001",
		PartName:     "Fan Blade",
	}

	_, err := fx.dispatcher.Register(context.Background(), form)
	requireFault(t, err, faults.UserRejected)
	assert.Zero(t, fx.ledger.Calls("RegisterPart"))
	assert.Equal(t, "PN-1000", form.PartNumber)
}

func TestLedgerRejectedTransferLeavesBufferIntact(t *testing.T) {
	fx := newFixture(t, "0xmfg", types.RoleManufacturer)
	_, err := fx.dispatcher.Register(context.Background(), &dispatch.RegisterForm{
		PartNumber: "PN-1000", SerialNumber: "SN-0001", PartName: "Fan Blade",
	})
	require.NoError(t, err)

	fx.ledger.FailWith("TransferCustody", &types.RevertError{Reason: "caller is not the current owner"})
	form := &dispatch.TransferForm{PartID: 1, ToAddress: "0xair", Reason: "Sale"}

	_, err = fx.dispatcher.TransferCustody(context.Background(), form)
	fault := requireFault(t, err, faults.LedgerRejected)
	assert.Equal(t, "caller is not the current owner", fault.Message)
	assert.Equal(t, dispatch.TransferForm{PartID: 1, ToAddress: "0xair", Reason: "Sale"}, *form)
}

func TestSameFormRejectedWhileBusyDifferentFormAccepted(t *testing.T) {
	fx := newFixture(t, "0xmfg", types.RoleManufacturer)
	gate := make(chan struct{})
	fx.ledger.Gate = gate
	fx.ledger.GateOperation = "register_part"

	first := make(chan error, 1)
	go func() {
		_, err := fx.dispatcher.Register(context.Background(), &dispatch.RegisterForm{
			PartNumber: "PN-1000", SerialNumber: "SN-0001", PartName: "Fan Blade",
		})
		first <- err
	}()
	require.Eventually(t, func() bool {
		return fx.dispatcher.Busy(dispatch.FormRegister)
	}, time.Second, 5*time.Millisecond)

	_, err := fx.dispatcher.Register(context.Background(), &dispatch.RegisterForm{
		PartNumber: "PN-2000", SerialNumber: "SN-0002", PartName: "Turbine Disk",
	})
	fault := requireFault(t, err, faults.Validation)
	assert.Contains(t, fault.Message, "already in flight")

	// A different form is independent of the register gate.
	_, err = fx.dispatcher.UpdateStatus(context.Background(), &dispatch.StatusForm{
		PartID: 1, Status: uint8(types.StatusInTransit),
	})
	require.NoError(t, err)

	close(gate)
	require.NoError(t, <-first)
	assert.False(t, fx.dispatcher.Busy(dispatch.FormRegister))
}

func TestMaintenanceBlankReportHashGetsDefault(t *testing.T) {
	fx := newFixture(t, "0xmro", types.RoleMRO)
	_, err := fx.dispatcher.Register(context.Background(), &dispatch.RegisterForm{
		PartNumber: "PN-1000", SerialNumber: "SN-0001", PartName: "Fan Blade",
	})
	require.NoError(t, err)

	result, err := fx.dispatcher.RecordMaintenance(context.Background(), &dispatch.MaintenanceForm{
		PartID: 1, MaintenanceType: "Overhaul", Notes: "bearing replaced",
	})
	require.NoError(t, err)
	assert.Equal(t, "Maintenance recorded successfully", result.Message)
	assert.Nil(t, result.OwnedParts, "maintenance triggers no automatic reload")

	records, err := fx.ledger.GetMaintenanceHistory(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "QmDefault", records[0].ReportHash)
	assert.Equal(t, "0xmro", records[0].MRO)
}

// End-to-end lifecycle: a manufacturer registers a part, reads it back, and
// sells it to an airline; the custody trail and both owned-part listings
// reflect the transfer.
func TestRegisterQueryTransferScenario(t *testing.T) {
	fx := newFixture(t, "0xmfg", types.RoleManufacturer)
	fx.ledger.AddStakeholder("0xair", "Skyline Air", types.RoleAirline)

	result, err := fx.dispatcher.Register(context.Background(), &dispatch.RegisterForm{
		PartNumber:      "PN-7700",
		SerialNumber:    "SN-0042",
		PartName:        "APU Controller",
		CertificateHash: "QmCert7700",
	})
	require.NoError(t, err)
	assert.Equal(t, "1", result.Receipt.Result)

	view, err := fx.aggregator.LoadPart(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "0xmfg", view.Details.CurrentOwner)
	assert.Equal(t, types.StatusManufactured, view.Details.Status)
	assert.Empty(t, view.Custody)

	result, err = fx.dispatcher.TransferCustody(context.Background(), &dispatch.TransferForm{
		PartID: 1, ToAddress: "0xair", Reason: "Sale",
	})
	require.NoError(t, err)
	assert.Empty(t, result.OwnedParts, "seller no longer owns the part")

	view, err = fx.aggregator.LoadPart(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "0xair", view.Details.CurrentOwner)
	require.Len(t, view.Custody, 1)
	assert.Equal(t, "0xmfg", view.Custody[0].From)
	assert.Equal(t, "0xair", view.Custody[0].To)
	assert.Equal(t, "Sale", view.Custody[0].Reason)

	buyerParts := fx.aggregator.LoadOwnedParts(context.Background(), "0xair")
	require.Len(t, buyerParts, 1)
	assert.Equal(t, "APU Controller", buyerParts[0].PartName)
}
