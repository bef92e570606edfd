package types

import (
	"errors"
	"fmt"
)

// Role is the stakeholder role ordinal as encoded by the provenance contract.
type Role uint8

const (
	RoleNone Role = iota
	RoleManufacturer
	RoleAirline
	RoleMRO
	RoleRegulator
)

var roleNames = [...]string{"None", "Manufacturer", "Airline", "MRO", "Regulator"}

// String maps the ordinal to its display name. An out-of-range ordinal is a
// broken contract binding, not a runtime condition, so it panics.
func (r Role) String() string {
	if int(r) >= len(roleNames) {
		panic(fmt.Sprintf("types: role ordinal %d out of range", uint8(r)))
	}
	return roleNames[r]
}

// Status is the part lifecycle status ordinal as encoded by the contract.
// The client treats it as an opaque ordinal-to-name mapping and performs no
// transition-legality checks of its own.
type Status uint8

const (
	StatusManufactured Status = iota
	StatusInTransit
	StatusInstalled
	StatusInMaintenance
	StatusRetired
)

var statusNames = [...]string{"Manufactured", "InTransit", "Installed", "InMaintenance", "Retired"}

// String maps the ordinal to its display name, panicking on out-of-range
// ordinals for the same reason as Role.String.
func (s Status) String() string {
	if int(s) >= len(statusNames) {
		panic(fmt.Sprintf("types: status ordinal %d out of range", uint8(s)))
	}
	return statusNames[s]
}

// StatusCount is the number of valid status ordinals.
const StatusCount = len(statusNames)

// Part is a snapshot of a part record as returned by the contract. The client
// never holds a canonical copy; every Part is fetched on demand and discarded.
// Timestamps are raw integer seconds since epoch, converted only at the
// presentation boundary.
type Part struct {
	ID              uint64 `json:"id"`
	PartNumber      string `json:"part_number"`
	SerialNumber    string `json:"serial_number"`
	PartName        string `json:"part_name"`
	Manufacturer    string `json:"manufacturer"`
	Status          Status `json:"status"`
	ManufacturedAt  int64  `json:"manufactured_at"`
	CertificateHash string `json:"certificate_hash"`
	CurrentOwner    string `json:"current_owner"`
}

// PartSummary is the reduced shape used for owned-parts listings.
type PartSummary struct {
	ID         uint64 `json:"id"`
	PartNumber string `json:"part_number"`
	PartName   string `json:"part_name"`
	Status     Status `json:"status"`
}

// CustodyTransfer is one append-only custody record, in ledger-assigned order.
type CustodyTransfer struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Timestamp int64  `json:"timestamp"`
	Reason    string `json:"reason"`
}

// MaintenanceRecord is one append-only maintenance record, in ledger-assigned
// order. ReportHash is an opaque content-addressed document reference.
type MaintenanceRecord struct {
	MRO             string `json:"mro"`
	MaintenanceType string `json:"maintenance_type"`
	Timestamp       int64  `json:"timestamp"`
	Notes           string `json:"notes"`
	ReportHash      string `json:"report_hash"`
}

// Stakeholder is the resolved identity record for an address.
type Stakeholder struct {
	Name string `json:"name"`
	Role Role   `json:"role"`
}

// RegisterPartInput carries the fields for a part registration transaction.
type RegisterPartInput struct {
	PartNumber      string
	SerialNumber    string
	PartName        string
	CertificateHash string
}

// MaintenanceInput carries the fields for a maintenance record transaction.
type MaintenanceInput struct {
	PartID          uint64
	MaintenanceType string
	ReportHash      string
	Notes           string
}

// TransferInput carries the fields for a custody transfer transaction.
type TransferInput struct {
	PartID    uint64
	ToAddress string
	Reason    string
}

// PendingTx is the handle for a submitted but not yet confirmed transaction.
// No dependent state may be refreshed before it is confirmed.
type PendingTx struct {
	TxID      string
	Operation string
}

// TxReceipt is the proof of a confirmed transaction. Result carries the raw
// contract return payload, if any (e.g. the new part id after registration).
type TxReceipt struct {
	TxID        string
	BlockHeight uint64
	Result      string
}

// ErrNotFound reports that a query matched no record on the ledger. Callers
// treat it as a valid empty result, not a failure.
var ErrNotFound = errors.New("record not found on ledger")

// RevertError carries the reason string supplied by the contract when it
// aborts an operation.
type RevertError struct {
	Reason string
}

func (e *RevertError) Error() string {
	return "ledger rejected operation: " + e.Reason
}
