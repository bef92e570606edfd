// Package faults normalizes the heterogeneous failure shapes of the wallet
// and ledger boundaries into a fixed, user-facing taxonomy. Every gateway
// failure is classified here before it reaches the presentation layer.
package faults

import (
	"errors"
	"fmt"

	"aeropart/blockchain/types"
	"aeropart/wallet"
)

// Category tags a normalized failure.
type Category string

const (
	// Validation: raised locally before any network call; recoverable by
	// editing the form.
	Validation Category = "validation"
	// UserRejected: the signer explicitly declined authorization;
	// recoverable by retrying and approving.
	UserRejected Category = "user_rejected"
	// LedgerRejected: the contract aborted the operation and supplied a
	// reason; recoverable only by changing inputs or state.
	LedgerRejected Category = "ledger_rejected"
	// Connectivity: transport or provider trouble with no contract reason;
	// recoverable by retrying.
	Connectivity Category = "connectivity"
	// NotFound: the query matched nothing. A valid empty result, carried in
	// the taxonomy so callers can branch on it, not an error to surface.
	NotFound Category = "not_found"
)

// Fault is a classified failure: the category for programmatic handling, a
// human-readable message for display, and the underlying cause in full.
type Fault struct {
	Category Category
	Message  string
	Err      error
}

func (f *Fault) Error() string {
	if f.Err != nil {
		return fmt.Sprintf("%s: %s: %v", f.Category, f.Message, f.Err)
	}
	return fmt.Sprintf("%s: %s", f.Category, f.Message)
}

func (f *Fault) Unwrap() error { return f.Err }

// Validationf builds a local pre-flight validation fault.
func Validationf(format string, args ...any) *Fault {
	return &Fault{Category: Validation, Message: fmt.Sprintf(format, args...)}
}

// Classify maps an arbitrary wallet/ledger failure into the taxonomy.
// First match wins; anything unrecognized is a connectivity failure.
// Classify never retries and has no side effects.
func Classify(err error) *Fault {
	var fault *Fault
	if errors.As(err, &fault) {
		return fault
	}

	if errors.Is(err, wallet.ErrApprovalDenied) {
		return &Fault{
			Category: UserRejected,
			Message:  "operation rejected; approve it in your wallet and retry",
			Err:      err,
		}
	}

	var revert *types.RevertError
	if errors.As(err, &revert) {
		return &Fault{Category: LedgerRejected, Message: revert.Reason, Err: err}
	}

	if errors.Is(err, types.ErrNotFound) {
		return &Fault{Category: NotFound, Message: "no matching record on the ledger", Err: err}
	}

	return &Fault{
		Category: Connectivity,
		Message:  "ledger unreachable; check your network and provider",
		Err:      err,
	}
}
