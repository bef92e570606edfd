// Package session owns the current account/role/display-name triple. Exactly
// one Session exists per process; it is replaced wholesale on every
// transition so readers observe either the old or the new identity, never a
// hybrid.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"

	"aeropart/blockchain/client"
	"aeropart/blockchain/types"
	"aeropart/internal/metrics"
	"aeropart/wallet"
)

// ErrNoAccounts reports that the wallet answered the connection request with
// an empty account list. The manager stays Disconnected.
var ErrNoAccounts = errors.New("no accounts found; unlock your wallet")

// State is the connection state of the session manager.
type State int32

const (
	Disconnected State = iota
	Connecting
	Connected
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Session is the resolved identity triple. Role and DisplayName are always
// derived by re-querying the ledger for the current account, never carried
// over from a previous one.
type Session struct {
	Account     string
	Role        types.Role
	DisplayName string
}

// Connected reports whether the session has an account.
func (s Session) Connected() bool { return s.Account != "" }

// Manager drives the Disconnected -> Connecting -> Connected state machine
// and re-enters Connected on every account-change notification.
type Manager struct {
	wallet wallet.Provider
	ledger client.LedgerClient
	logger zerolog.Logger

	current atomic.Pointer[Session]
	state   atomic.Int32
	running atomic.Bool

	mu        sync.Mutex
	listeners []func(Session)
}

// New creates a Manager initialized with an empty session.
func New(w wallet.Provider, l client.LedgerClient, logger zerolog.Logger) *Manager {
	m := &Manager{wallet: w, ledger: l, logger: logger}
	m.current.Store(&Session{})
	return m
}

// Current returns the session as of now. Always safe; an empty session means
// Disconnected.
func (m *Manager) Current() Session {
	return *m.current.Load()
}

// State returns the current connection state.
func (m *Manager) State() State {
	return State(m.state.Load())
}

// OnChange registers a listener invoked after every session replacement.
// Listeners use it to discard cached part/history views that belong to the
// previous identity.
func (m *Manager) OnChange(fn func(Session)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

func (m *Manager) transition(s State) {
	m.state.Store(int32(s))
	metrics.SessionTransitionsTotal.WithLabelValues(s.String()).Inc()
}

func (m *Manager) replace(sess Session) {
	m.current.Store(&sess)
	m.mu.Lock()
	listeners := append(([]func(Session))(nil), m.listeners...)
	m.mu.Unlock()
	for _, fn := range listeners {
		fn(sess)
	}
}

// Connect requests identity from the wallet and resolves the primary
// account's role. An empty account list leaves the manager Disconnected with
// ErrNoAccounts; a failed role resolution is not an error path, the role
// defaults to None.
func (m *Manager) Connect(ctx context.Context) (Session, error) {
	accounts, err := m.wallet.RequestAccounts(ctx)
	if err != nil {
		m.transition(Disconnected)
		return Session{}, fmt.Errorf("wallet connection failed: %w", err)
	}
	if len(accounts) == 0 {
		m.transition(Disconnected)
		return Session{}, ErrNoAccounts
	}

	m.transition(Connecting)
	sess := m.resolve(ctx, accounts[0])
	m.replace(sess)
	m.transition(Connected)

	m.logger.Info().Str("account", sess.Account).Str("role", sess.Role.String()).
		Str("name", sess.DisplayName).Msg("wallet connected")
	return sess, nil
}

// resolve queries the ledger for the account's stakeholder record. Unknown
// or unregistered accounts resolve to role None; this never fails.
func (m *Manager) resolve(ctx context.Context, account string) Session {
	sess := Session{Account: account, Role: types.RoleNone}
	stakeholder, err := m.ledger.GetStakeholderDetails(ctx, account)
	if err != nil {
		m.logger.Debug().Err(err).Str("account", account).Msg("stakeholder not registered; role defaults to None")
		return sess
	}
	sess.Role = stakeholder.Role
	sess.DisplayName = stakeholder.Name
	return sess
}

// Run consumes account-change notifications until the context is cancelled
// or the provider closes its channel. The provider channel is subscribed
// exactly once: a second Run call returns immediately.
func (m *Manager) Run(ctx context.Context) {
	if !m.running.CompareAndSwap(false, true) {
		m.logger.Warn().Msg("account-change loop already running; ignoring duplicate subscription")
		return
	}
	changes := m.wallet.AccountsChanged()
	for {
		select {
		case <-ctx.Done():
			return
		case accounts, ok := <-changes:
			if !ok {
				return
			}
			m.handleAccountsChanged(ctx, accounts)
		}
	}
}

// handleAccountsChanged re-runs the Connecting -> Connected resolution for
// the new primary account, or resets to an empty session when no account
// remains connected.
func (m *Manager) handleAccountsChanged(ctx context.Context, accounts []string) {
	if len(accounts) == 0 {
		m.transition(Disconnected)
		m.replace(Session{})
		m.logger.Info().Msg("wallet disconnected; session reset")
		return
	}

	m.transition(Connecting)
	sess := m.resolve(ctx, accounts[0])
	m.replace(sess)
	m.transition(Connected)
	m.logger.Info().Str("account", sess.Account).Str("role", sess.Role.String()).
		Msg("active account changed; session re-resolved")
}
