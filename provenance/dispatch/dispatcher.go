// Package dispatch executes lifecycle operations against the ledger: it
// validates form buffers pre-flight, serializes submissions per form,
// submits and awaits confirmation, and triggers the minimal dependent
// refresh afterwards. Business rules (who may register, which transitions
// are legal) live in the contract; this layer only reflects them.
package dispatch

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"aeropart/blockchain/client"
	"aeropart/blockchain/types"
	"aeropart/internal/events"
	"aeropart/internal/journal"
	"aeropart/internal/metrics"
	"aeropart/provenance/faults"
	"aeropart/provenance/history"
	"aeropart/provenance/session"
	"aeropart/wallet"
)

// Defaults are the substitution values applied to optional fields left blank.
type Defaults struct {
	CertificateHash string
	ReportHash      string
	TransferReason  string
}

// Result is the outcome of a confirmed operation: the display message, the
// transaction receipt, and — for operations that change the owned-parts set —
// the refreshed owned-parts listing. For maintenance and status updates no
// automatic reload happens; the caller re-queries explicitly.
type Result struct {
	Message    string
	Receipt    *types.TxReceipt
	OwnedParts []types.PartSummary
}

// Dispatcher orchestrates lifecycle operations. Journal and events are
// optional; nil disables them.
type Dispatcher struct {
	ledger   client.LedgerClient
	wallet   wallet.Provider
	sessions *session.Manager
	history  *history.Aggregator
	journal  journal.Journal
	events   events.Producer
	defaults Defaults
	validate *validator.Validate
	logger   zerolog.Logger

	mu   sync.Mutex
	busy map[Form]bool
}

// New creates a Dispatcher.
func New(l client.LedgerClient, w wallet.Provider, s *session.Manager, h *history.Aggregator,
	defaults Defaults, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		ledger:   l,
		wallet:   w,
		sessions: s,
		history:  h,
		defaults: defaults,
		validate: validator.New(),
		logger:   logger,
		busy:     make(map[Form]bool),
	}
}

// WithJournal attaches the optional submission journal.
func (d *Dispatcher) WithJournal(j journal.Journal) *Dispatcher {
	d.journal = j
	return d
}

// WithEvents attaches the optional downstream event publisher.
func (d *Dispatcher) WithEvents(p events.Producer) *Dispatcher {
	d.events = p
	return d
}

// Register submits the part registration buffered in form. On success the
// buffer is cleared and the owned-parts listing is reloaded.
func (d *Dispatcher) Register(ctx context.Context, form *RegisterForm) (*Result, error) {
	if err := d.preflight(FormRegister, form); err != nil {
		return nil, err
	}
	certificateHash := orDefault(form.CertificateHash, d.defaults.CertificateHash)
	result, err := d.run(ctx, FormRegister, 0, true, "Part registered successfully",
		func(ctx context.Context) (*types.PendingTx, error) {
			return d.ledger.RegisterPart(ctx, types.RegisterPartInput{
				PartNumber:      form.PartNumber,
				SerialNumber:    form.SerialNumber,
				PartName:        form.PartName,
				CertificateHash: certificateHash,
			})
		})
	if err != nil {
		return nil, err
	}
	*form = RegisterForm{}
	return result, nil
}

// RecordMaintenance submits the maintenance record buffered in form. No
// automatic reload follows; the caller re-queries the part explicitly.
func (d *Dispatcher) RecordMaintenance(ctx context.Context, form *MaintenanceForm) (*Result, error) {
	if err := d.preflight(FormMaintenance, form); err != nil {
		return nil, err
	}
	reportHash := orDefault(form.ReportHash, d.defaults.ReportHash)
	result, err := d.run(ctx, FormMaintenance, form.PartID, false, "Maintenance recorded successfully",
		func(ctx context.Context) (*types.PendingTx, error) {
			return d.ledger.RecordMaintenance(ctx, types.MaintenanceInput{
				PartID:          form.PartID,
				MaintenanceType: form.MaintenanceType,
				ReportHash:      reportHash,
				Notes:           form.Notes,
			})
		})
	if err != nil {
		return nil, err
	}
	*form = MaintenanceForm{}
	return result, nil
}

// TransferCustody submits the custody transfer buffered in form. On success
// the buffer is cleared and the owned-parts listing is reloaded.
func (d *Dispatcher) TransferCustody(ctx context.Context, form *TransferForm) (*Result, error) {
	if err := d.preflight(FormTransfer, form); err != nil {
		return nil, err
	}
	reason := orDefault(form.Reason, d.defaults.TransferReason)
	result, err := d.run(ctx, FormTransfer, form.PartID, true, "Custody transferred successfully",
		func(ctx context.Context) (*types.PendingTx, error) {
			return d.ledger.TransferCustody(ctx, types.TransferInput{
				PartID:    form.PartID,
				ToAddress: form.ToAddress,
				Reason:    reason,
			})
		})
	if err != nil {
		return nil, err
	}
	*form = TransferForm{}
	return result, nil
}

// UpdateStatus submits the status change buffered in form. No automatic
// reload follows.
func (d *Dispatcher) UpdateStatus(ctx context.Context, form *StatusForm) (*Result, error) {
	if err := d.preflight(FormStatus, form); err != nil {
		return nil, err
	}
	status := types.Status(form.Status)
	result, err := d.run(ctx, FormStatus, form.PartID, false, "Status updated successfully",
		func(ctx context.Context) (*types.PendingTx, error) {
			return d.ledger.UpdatePartStatus(ctx, form.PartID, status)
		})
	if err != nil {
		return nil, err
	}
	*form = StatusForm{}
	return result, nil
}

// preflight rejects locally, before any network call, when the gateway is
// unavailable or a required field is blank.
func (d *Dispatcher) preflight(form Form, buffer any) error {
	if d.ledger == nil {
		metrics.OperationsTotal.WithLabelValues(string(form), string(faults.Validation)).Inc()
		return faults.Validationf("ledger connection not available")
	}
	if err := d.validate.Struct(buffer); err != nil {
		metrics.OperationsTotal.WithLabelValues(string(form), string(faults.Validation)).Inc()
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			names := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				names = append(names, fe.Field())
			}
			return faults.Validationf("please fill all required fields: %s", strings.Join(names, ", "))
		}
		return faults.Validationf("invalid form: %v", err)
	}
	return nil
}

// run drives one validated operation through the busy gate, wallet approval,
// submission, and confirmation. Every failure is terminal for the attempt:
// nothing is retried, and the caller's form buffer is left untouched.
func (d *Dispatcher) run(ctx context.Context, form Form, partID uint64, reloadParts bool,
	successMsg string, submit func(context.Context) (*types.PendingTx, error)) (*Result, error) {

	if !d.acquire(form) {
		metrics.OperationsTotal.WithLabelValues(string(form), string(faults.Validation)).Inc()
		return nil, faults.Validationf("a %s operation is already in flight", form)
	}
	defer d.release(form)

	started := time.Now()

	if err := d.wallet.Approve(ctx, string(form)); err != nil {
		return nil, d.fail(form, err)
	}

	pending, err := submit(ctx)
	if err != nil {
		return nil, d.fail(form, err)
	}
	d.logger.Debug().Str("operation", string(form)).Str("tx_id", pending.TxID).Msg("transaction submitted; awaiting confirmation")

	receipt, err := d.ledger.Confirm(ctx, pending)
	if err != nil {
		return nil, d.fail(form, err)
	}

	metrics.OperationsTotal.WithLabelValues(string(form), "confirmed").Inc()
	metrics.OperationDuration.WithLabelValues(string(form)).Observe(time.Since(started).Seconds())

	account := d.sessions.Current().Account
	d.logger.Info().Str("operation", string(form)).Str("tx_id", receipt.TxID).
		Uint64("block_height", receipt.BlockHeight).Msg("operation confirmed")

	d.record(ctx, form, partID, account, receipt)

	result := &Result{Message: successMsg, Receipt: receipt}
	if reloadParts {
		result.OwnedParts = d.history.LoadOwnedParts(ctx, account)
	}
	return result, nil
}

// fail classifies the error, counts it, and surfaces the fault.
func (d *Dispatcher) fail(form Form, err error) error {
	fault := faults.Classify(err)
	metrics.OperationsTotal.WithLabelValues(string(form), string(fault.Category)).Inc()
	d.logger.Warn().Err(err).Str("operation", string(form)).Str("category", string(fault.Category)).
		Msg("operation failed")
	return fault
}

// record journals the confirmed submission and publishes the lifecycle
// event. Both are best effort: a local bookkeeping failure never fails a
// confirmed ledger operation.
func (d *Dispatcher) record(ctx context.Context, form Form, partID uint64, account string, receipt *types.TxReceipt) {
	if d.journal != nil {
		entry := &journal.Entry{
			Operation:   string(form),
			PartID:      partID,
			Account:     account,
			TxID:        receipt.TxID,
			BlockHeight: receipt.BlockHeight,
		}
		if err := d.journal.Record(ctx, entry); err != nil {
			d.logger.Warn().Err(err).Str("tx_id", receipt.TxID).Msg("failed to journal submission")
		}
	}
	if d.events != nil {
		event := &events.Event{
			ID:          uuid.NewString(),
			Operation:   string(form),
			PartID:      partID,
			Account:     account,
			TxID:        receipt.TxID,
			BlockHeight: receipt.BlockHeight,
			OccurredAt:  time.Now().Unix(),
		}
		if err := d.events.Publish(ctx, event); err != nil {
			d.logger.Warn().Err(err).Str("tx_id", receipt.TxID).Msg("failed to publish lifecycle event")
		}
	}
}

func (d *Dispatcher) acquire(form Form) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.busy[form] {
		return false
	}
	d.busy[form] = true
	return true
}

func (d *Dispatcher) release(form Form) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.busy[form] = false
}

// Busy reports whether the given form has an operation in flight.
func (d *Dispatcher) Busy(form Form) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.busy[form]
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
