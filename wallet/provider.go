// Package wallet abstracts the external identity provider: the source of the
// operator's accounts and the authority that approves mutating operations
// before they are signed and submitted.
package wallet

import (
	"context"
	"errors"
)

// ErrNoProvider reports that no wallet provider is configured at all. It is a
// hard precondition failure, distinct from a rejected connection.
var ErrNoProvider = errors.New("wallet provider not available")

// ErrApprovalDenied reports that the wallet declined to authorize an
// operation or a connection request.
var ErrApprovalDenied = errors.New("approval denied by wallet")

// Provider is the boundary to the external wallet. AccountsChanged must be
// subscribed at most once per provider instance; the returned channel is
// shared, not per-call.
type Provider interface {
	// RequestAccounts asks the wallet for the available account addresses.
	// An empty slice is a valid answer ("no accounts"), not an error.
	RequestAccounts(ctx context.Context) ([]string, error)

	// AccountsChanged returns the channel on which the provider announces
	// account list changes. The channel is closed when the provider closes.
	AccountsChanged() <-chan []string

	// Approve asks the wallet to authorize the described operation before it
	// is submitted. A denial is reported as ErrApprovalDenied.
	Approve(ctx context.Context, operation string) error

	// Close releases the provider.
	Close() error
}
