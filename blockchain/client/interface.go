package client

import (
	"context"

	"aeropart/blockchain/types"
)

// LedgerClient defines the generic interface for provenance ledger
// interactions. This interface is blockchain-agnostic and can be implemented
// by different ledger clients.
//
// Every mutating method is two-phase: it submits the transaction and returns
// a pending handle; Confirm blocks until the ledger has durably recorded the
// transaction (finality) and returns the receipt. Callers must not refresh
// dependent state before Confirm returns.
type LedgerClient interface {
	// RegisterPart submits a new part registration.
	RegisterPart(ctx context.Context, in types.RegisterPartInput) (*types.PendingTx, error)

	// RecordMaintenance submits a maintenance record for an existing part.
	RecordMaintenance(ctx context.Context, in types.MaintenanceInput) (*types.PendingTx, error)

	// TransferCustody submits a custody transfer for an existing part.
	TransferCustody(ctx context.Context, in types.TransferInput) (*types.PendingTx, error)

	// UpdatePartStatus submits a lifecycle status change for an existing part.
	UpdatePartStatus(ctx context.Context, partID uint64, status types.Status) (*types.PendingTx, error)

	// Confirm blocks until the pending transaction reaches finality.
	Confirm(ctx context.Context, pending *types.PendingTx) (*types.TxReceipt, error)

	// GetPartDetails fetches the current snapshot of a part record.
	GetPartDetails(ctx context.Context, partID uint64) (*types.Part, error)

	// GetMaintenanceHistory fetches the ordered maintenance records of a part.
	GetMaintenanceHistory(ctx context.Context, partID uint64) ([]types.MaintenanceRecord, error)

	// GetCustodyHistory fetches the ordered custody transfers of a part.
	GetCustodyHistory(ctx context.Context, partID uint64) ([]types.CustodyTransfer, error)

	// GetStakeholderDetails resolves the display name and role of an address.
	GetStakeholderDetails(ctx context.Context, address string) (*types.Stakeholder, error)

	// GetStakeholderParts fetches the ids of parts currently owned by an address.
	GetStakeholderParts(ctx context.Context, address string) ([]uint64, error)

	// VerifyContract probes that the provenance contract is deployed and
	// reachable at the configured name/address.
	VerifyContract(ctx context.Context) error

	// Close closes the ledger client and releases resources.
	Close() error
}
