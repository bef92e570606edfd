// Package history fetches and shapes the maintenance and custody records of
// a part into a single composed view.
package history

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"aeropart/blockchain/client"
	"aeropart/blockchain/types"
	"aeropart/internal/metrics"
)

// PartView is the composed snapshot returned by LoadPart. Both history
// slices are always non-nil; a failed history fetch degrades to an empty
// slice for that history type only.
type PartView struct {
	Details     types.Part
	Maintenance []types.MaintenanceRecord
	Custody     []types.CustodyTransfer
}

// Aggregator composes ledger queries. It holds no state; every view is a
// fresh snapshot.
type Aggregator struct {
	ledger client.LedgerClient
	logger zerolog.Logger
}

// New creates an Aggregator.
func New(l client.LedgerClient, logger zerolog.Logger) *Aggregator {
	return &Aggregator{ledger: l, logger: logger}
}

// LoadPart fetches details, maintenance history, and custody history
// concurrently. A details failure fails the whole load and partial results
// are discarded. A history failure never fails the load: that history
// degrades to empty while the other history and the details stand.
func (a *Aggregator) LoadPart(ctx context.Context, partID uint64) (*PartView, error) {
	view := &PartView{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		part, err := a.ledger.GetPartDetails(gctx, partID)
		if err != nil {
			return err
		}
		view.Details = *part
		return nil
	})
	g.Go(func() error {
		records, err := a.ledger.GetMaintenanceHistory(gctx, partID)
		if err != nil {
			a.logger.Warn().Err(err).Uint64("part_id", partID).Msg("maintenance history unavailable; degrading to empty")
			metrics.HistoryDegradedTotal.WithLabelValues("maintenance").Inc()
			return nil
		}
		view.Maintenance = records
		return nil
	})
	g.Go(func() error {
		transfers, err := a.ledger.GetCustodyHistory(gctx, partID)
		if err != nil {
			a.logger.Warn().Err(err).Uint64("part_id", partID).Msg("custody history unavailable; degrading to empty")
			metrics.HistoryDegradedTotal.WithLabelValues("custody").Inc()
			return nil
		}
		view.Custody = transfers
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if view.Maintenance == nil {
		view.Maintenance = []types.MaintenanceRecord{}
	}
	if view.Custody == nil {
		view.Custody = []types.CustodyTransfer{}
	}
	return view, nil
}

// LoadOwnedParts lists summaries of the parts currently owned by an account.
// "No parts" is a normal state: an empty or failing id list resolves to an
// empty slice, and parts whose details cannot be fetched are skipped.
func (a *Aggregator) LoadOwnedParts(ctx context.Context, account string) []types.PartSummary {
	summaries := []types.PartSummary{}
	if account == "" {
		return summaries
	}

	ids, err := a.ledger.GetStakeholderParts(ctx, account)
	if err != nil {
		a.logger.Debug().Err(err).Str("account", account).Msg("owned-parts query failed; treating as none")
		return summaries
	}

	for _, id := range ids {
		part, err := a.ledger.GetPartDetails(ctx, id)
		if err != nil {
			a.logger.Warn().Err(err).Uint64("part_id", id).Msg("skipping unlistable part")
			continue
		}
		summaries = append(summaries, types.PartSummary{
			ID:         part.ID,
			PartNumber: part.PartNumber,
			PartName:   part.PartName,
			Status:     part.Status,
		})
	}
	return summaries
}
