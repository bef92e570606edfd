package wallet

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v2"

	"aeropart/config"
)

// accountsFile is the on-disk shape of the local accounts list.
type accountsFile struct {
	Accounts []string `yaml:"accounts"`
}

// Local is a file-backed wallet provider. The account list lives in a YAML
// file; Reload re-reads it and announces the new list on the accounts-changed
// channel, which is how account switching reaches the session layer.
type Local struct {
	path   string
	policy string
	logger zerolog.Logger

	mu       sync.Mutex
	accounts []string
	loaded   bool
	closed   bool
	changes  chan []string
}

// NewLocal creates a local wallet provider from configuration.
// A missing accounts path means there is no provider at all.
func NewLocal(cfg config.WalletConfig, logger zerolog.Logger) (*Local, error) {
	if cfg.AccountsPath == "" {
		return nil, ErrNoProvider
	}
	return &Local{
		path:    cfg.AccountsPath,
		policy:  cfg.ApprovalPolicy,
		logger:  logger,
		changes: make(chan []string, 1),
	}, nil
}

func (l *Local) readFile() ([]string, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read accounts file '%s': %w", l.path, err)
	}
	var f accountsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse accounts file '%s': %w", l.path, err)
	}
	return f.Accounts, nil
}

// RequestAccounts loads the account list, honoring the approval policy the
// way an interactive wallet honors a connection prompt.
func (l *Local) RequestAccounts(ctx context.Context) ([]string, error) {
	if l.policy == "deny" {
		return nil, ErrApprovalDenied
	}
	accounts, err := l.readFile()
	if err != nil {
		return nil, err
	}
	l.mu.Lock()
	l.accounts = accounts
	l.loaded = true
	l.mu.Unlock()
	return append([]string(nil), accounts...), nil
}

// AccountsChanged returns the shared change channel.
func (l *Local) AccountsChanged() <-chan []string {
	return l.changes
}

// Reload re-reads the accounts file and, if the list changed, announces it.
// Wired to SIGHUP in the operator binary.
func (l *Local) Reload() {
	accounts, err := l.readFile()
	if err != nil {
		l.logger.Warn().Err(err).Msg("wallet reload failed; keeping current accounts")
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	if l.loaded && equalAccounts(l.accounts, accounts) {
		return
	}
	l.accounts = accounts
	l.loaded = true

	// Drop the stale pending announcement, if any, so the consumer always
	// observes the latest list.
	select {
	case <-l.changes:
	default:
	}
	l.changes <- append([]string(nil), accounts...)
	l.logger.Info().Int("accounts", len(accounts)).Msg("wallet accounts reloaded")
}

// Approve authorizes an operation per the configured policy.
func (l *Local) Approve(ctx context.Context, operation string) error {
	if l.policy == "deny" {
		return fmt.Errorf("%s: %w", operation, ErrApprovalDenied)
	}
	return nil
}

// Close closes the change channel.
func (l *Local) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.closed {
		l.closed = true
		close(l.changes)
	}
	return nil
}

func equalAccounts(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
