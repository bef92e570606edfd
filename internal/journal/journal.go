// Package journal keeps a local record of this operator's own confirmed
// submissions: which operation, which part, which transaction, acting as
// which account. It is audit metadata owned by the client, never a copy of
// ledger state.
package journal

import (
	"context"
	"time"
)

// Entry is one confirmed submission.
type Entry struct {
	ID          string    // assigned on insert when empty
	Operation   string
	PartID      uint64
	Account     string
	TxID        string
	BlockHeight uint64
	SubmittedAt time.Time
}

// Journal defines the interface for the submission journal
type Journal interface {
	// Record persists one confirmed submission.
	Record(ctx context.Context, entry *Entry) error

	// Close releases the underlying store.
	Close()
}
