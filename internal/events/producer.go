// Package events publishes confirmed lifecycle operations downstream so
// other systems (ERP, maintenance planning) can follow part provenance
// without polling the ledger.
package events

import "context"

// Event describes one confirmed lifecycle operation.
type Event struct {
	ID          string `json:"id"`
	Operation   string `json:"operation"`
	PartID      uint64 `json:"part_id,omitempty"`
	Account     string `json:"account"`
	TxID        string `json:"tx_id"`
	BlockHeight uint64 `json:"block_height"`
	OccurredAt  int64  `json:"occurred_at"` // unix seconds
}

// Producer defines the interface for the provenance event publisher
type Producer interface {
	// Publish sends a single lifecycle event to the configured topic
	Publish(ctx context.Context, event *Event) error

	// Close closes the producer connection
	Close() error
}
