package wallet

import (
	"context"
	"sync"
)

// MockProvider is an in-memory wallet provider for tests.
type MockProvider struct {
	mu          sync.Mutex
	accounts    []string
	requestErr  error
	approveErr  error
	requestHits int
	approveHits int
	changes     chan []string
}

// NewMock creates a mock provider holding the given accounts.
func NewMock(accounts ...string) *MockProvider {
	return &MockProvider{
		accounts: accounts,
		changes:  make(chan []string, 4),
	}
}

// SetRequestError makes RequestAccounts fail.
func (m *MockProvider) SetRequestError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestErr = err
}

// SetApproveError makes Approve fail.
func (m *MockProvider) SetApproveError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.approveErr = err
}

// EmitAccounts pushes an accounts-changed notification.
func (m *MockProvider) EmitAccounts(accounts ...string) {
	m.mu.Lock()
	m.accounts = accounts
	m.mu.Unlock()
	m.changes <- accounts
}

// RequestCalls reports how many times RequestAccounts was invoked.
func (m *MockProvider) RequestCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requestHits
}

// ApproveCalls reports how many times Approve was invoked.
func (m *MockProvider) ApproveCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.approveHits
}

func (m *MockProvider) RequestAccounts(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requestHits++
	if m.requestErr != nil {
		return nil, m.requestErr
	}
	return append([]string(nil), m.accounts...), nil
}

func (m *MockProvider) AccountsChanged() <-chan []string {
	return m.changes
}

func (m *MockProvider) Approve(_ context.Context, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.approveHits++
	return m.approveErr
}

func (m *MockProvider) Close() error {
	close(m.changes)
	return nil
}

var _ Provider = (*MockProvider)(nil)
var _ Provider = (*Local)(nil)
