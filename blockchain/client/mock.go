package client

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"aeropart/blockchain/types"
)

// Mock is an in-memory LedgerClient used for tests and local dry runs. It
// applies the same record-keeping the provenance contract does (id
// assignment, custody append, owned-part index) so scenario tests can run
// against it end to end.
//
// Mutations are buffered at submit time and applied only when Confirm is
// called, preserving the two-phase contract of the real client.
type Mock struct {
	// Caller is the address the mock signs with, the way the SDK client
	// signs with its configured identity.
	Caller string

	// Gate, when set together with GateOperation, makes Confirm block for
	// that operation until the channel is closed or receives a value.
	Gate          chan struct{}
	GateOperation string

	mu           sync.Mutex
	parts        map[uint64]*types.Part
	maintenance  map[uint64][]types.MaintenanceRecord
	custody      map[uint64][]types.CustodyTransfer
	owned        map[string][]uint64
	stakeholders map[string]types.Stakeholder
	nextID       uint64
	nextTx       int
	pending      map[string]func() string
	calls        map[string]int
	failures     map[string]error
	clock        int64
}

// NewMock creates an empty in-memory ledger.
func NewMock() *Mock {
	return &Mock{
		parts:        make(map[uint64]*types.Part),
		maintenance:  make(map[uint64][]types.MaintenanceRecord),
		custody:      make(map[uint64][]types.CustodyTransfer),
		owned:        make(map[string][]uint64),
		stakeholders: make(map[string]types.Stakeholder),
		nextID:       1,
		pending:      make(map[string]func() string),
		calls:        make(map[string]int),
		failures:     make(map[string]error),
		clock:        time.Now().Unix(),
	}
}

// AddStakeholder registers an identity the way the contract admin would.
func (m *Mock) AddStakeholder(address, name string, role types.Role) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stakeholders[address] = types.Stakeholder{Name: name, Role: role}
	if _, ok := m.owned[address]; !ok {
		m.owned[address] = nil
	}
}

// FailWith makes every subsequent call of the named method return err.
func (m *Mock) FailWith(method string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[method] = err
}

// Calls reports how many times the named method was invoked.
func (m *Mock) Calls(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[method]
}

func (m *Mock) begin(method string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[method]++
	return m.failures[method]
}

func (m *Mock) tick() int64 {
	m.clock++
	return m.clock
}

func (m *Mock) enqueue(op string, apply func() string) (*types.PendingTx, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextTx++
	txID := "tx-" + strconv.Itoa(m.nextTx)
	m.pending[txID] = apply
	return &types.PendingTx{TxID: txID, Operation: op}, nil
}

// RegisterPart buffers a new part registration.
func (m *Mock) RegisterPart(_ context.Context, in types.RegisterPartInput) (*types.PendingTx, error) {
	if err := m.begin("RegisterPart"); err != nil {
		return nil, err
	}
	caller := m.Caller
	return m.enqueue("register_part", func() string {
		id := m.nextID
		m.nextID++
		m.parts[id] = &types.Part{
			ID:              id,
			PartNumber:      in.PartNumber,
			SerialNumber:    in.SerialNumber,
			PartName:        in.PartName,
			Manufacturer:    caller,
			Status:          types.StatusManufactured,
			ManufacturedAt:  m.tick(),
			CertificateHash: in.CertificateHash,
			CurrentOwner:    caller,
		}
		m.owned[caller] = append(m.owned[caller], id)
		return strconv.FormatUint(id, 10)
	})
}

// RecordMaintenance buffers a maintenance record.
func (m *Mock) RecordMaintenance(_ context.Context, in types.MaintenanceInput) (*types.PendingTx, error) {
	if err := m.begin("RecordMaintenance"); err != nil {
		return nil, err
	}
	caller := m.Caller
	return m.enqueue("record_maintenance", func() string {
		m.maintenance[in.PartID] = append(m.maintenance[in.PartID], types.MaintenanceRecord{
			MRO:             caller,
			MaintenanceType: in.MaintenanceType,
			Timestamp:       m.tick(),
			Notes:           in.Notes,
			ReportHash:      in.ReportHash,
		})
		return ""
	})
}

// TransferCustody buffers a custody transfer.
func (m *Mock) TransferCustody(_ context.Context, in types.TransferInput) (*types.PendingTx, error) {
	if err := m.begin("TransferCustody"); err != nil {
		return nil, err
	}
	return m.enqueue("transfer_custody", func() string {
		part, ok := m.parts[in.PartID]
		if !ok {
			return ""
		}
		from := part.CurrentOwner
		m.custody[in.PartID] = append(m.custody[in.PartID], types.CustodyTransfer{
			From:      from,
			To:        in.ToAddress,
			Timestamp: m.tick(),
			Reason:    in.Reason,
		})
		part.CurrentOwner = in.ToAddress
		ids := m.owned[from]
		for i, id := range ids {
			if id == in.PartID {
				m.owned[from] = append(ids[:i], ids[i+1:]...)
				break
			}
		}
		m.owned[in.ToAddress] = append(m.owned[in.ToAddress], in.PartID)
		return ""
	})
}

// UpdatePartStatus buffers a status change.
func (m *Mock) UpdatePartStatus(_ context.Context, partID uint64, status types.Status) (*types.PendingTx, error) {
	if err := m.begin("UpdatePartStatus"); err != nil {
		return nil, err
	}
	return m.enqueue("update_part_status", func() string {
		if part, ok := m.parts[partID]; ok {
			part.Status = status
		}
		return ""
	})
}

// Confirm applies the buffered mutation and returns the receipt.
func (m *Mock) Confirm(ctx context.Context, pending *types.PendingTx) (*types.TxReceipt, error) {
	if err := m.begin("Confirm"); err != nil {
		return nil, err
	}
	if m.Gate != nil && pending.Operation == m.GateOperation {
		select {
		case <-m.Gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	apply, ok := m.pending[pending.TxID]
	if !ok {
		return nil, fmt.Errorf("unknown pending tx %s", pending.TxID)
	}
	delete(m.pending, pending.TxID)
	result := apply()
	return &types.TxReceipt{TxID: pending.TxID, BlockHeight: uint64(m.nextTx), Result: result}, nil
}

// GetPartDetails returns a copy of the part snapshot.
func (m *Mock) GetPartDetails(_ context.Context, partID uint64) (*types.Part, error) {
	if err := m.begin("GetPartDetails"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	part, ok := m.parts[partID]
	if !ok {
		return nil, fmt.Errorf("part %d: %w", partID, types.ErrNotFound)
	}
	snapshot := *part
	return &snapshot, nil
}

// GetMaintenanceHistory returns the ordered maintenance records of a part.
func (m *Mock) GetMaintenanceHistory(_ context.Context, partID uint64) ([]types.MaintenanceRecord, error) {
	if err := m.begin("GetMaintenanceHistory"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]types.MaintenanceRecord(nil), m.maintenance[partID]...), nil
}

// GetCustodyHistory returns the ordered custody transfers of a part.
func (m *Mock) GetCustodyHistory(_ context.Context, partID uint64) ([]types.CustodyTransfer, error) {
	if err := m.begin("GetCustodyHistory"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]types.CustodyTransfer(nil), m.custody[partID]...), nil
}

// GetStakeholderDetails resolves a registered identity.
func (m *Mock) GetStakeholderDetails(_ context.Context, address string) (*types.Stakeholder, error) {
	if err := m.begin("GetStakeholderDetails"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stakeholder, ok := m.stakeholders[address]
	if !ok {
		return nil, fmt.Errorf("stakeholder %s: %w", address, types.ErrNotFound)
	}
	return &stakeholder, nil
}

// GetStakeholderParts lists the part ids owned by an address. Unregistered
// addresses fail the way the contract does.
func (m *Mock) GetStakeholderParts(_ context.Context, address string) ([]uint64, error) {
	if err := m.begin("GetStakeholderParts"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	ids, ok := m.owned[address]
	if !ok {
		return nil, fmt.Errorf("stakeholder %s: %w", address, types.ErrNotFound)
	}
	return append([]uint64(nil), ids...), nil
}

// VerifyContract reports the injected failure, if any.
func (m *Mock) VerifyContract(_ context.Context) error {
	return m.begin("VerifyContract")
}

// Close is a no-op.
func (m *Mock) Close() error { return nil }
