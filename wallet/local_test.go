package wallet

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aeropart/config"
)

func writeAccounts(t *testing.T, dir string, body string) string {
	t.Helper()
	path := filepath.Join(dir, "accounts.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func newLocal(t *testing.T, path, policy string) *Local {
	t.Helper()
	provider, err := NewLocal(config.WalletConfig{AccountsPath: path, ApprovalPolicy: policy}, zerolog.Nop())
	require.NoError(t, err)
	return provider
}

func TestNewLocalWithoutPathIsNoProvider(t *testing.T) {
	_, err := NewLocal(config.WalletConfig{}, zerolog.Nop())
	assert.ErrorIs(t, err, ErrNoProvider)
}

func TestRequestAccountsReadsFile(t *testing.T) {
	path := writeAccounts(t, t.TempDir(), "accounts:\n  - \"0xaaa\"\n  - \"0xbbb\"\n")
	provider := newLocal(t, path, "auto")

	accounts, err := provider.RequestAccounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"0xaaa", "0xbbb"}, accounts)
}

func TestDenyPolicyRejectsConnectionAndApproval(t *testing.T) {
	path := writeAccounts(t, t.TempDir(), "accounts:\n  - \"0xaaa\"\n")
	provider := newLocal(t, path, "deny")

	_, err := provider.RequestAccounts(context.Background())
	assert.ErrorIs(t, err, ErrApprovalDenied)
	assert.ErrorIs(t, provider.Approve(context.Background(), "register"), ErrApprovalDenied)
}

func TestReloadAnnouncesChangedAccounts(t *testing.T) {
	dir := t.TempDir()
	path := writeAccounts(t, dir, "accounts:\n  - \"0xaaa\"\n")
	provider := newLocal(t, path, "auto")
	_, err := provider.RequestAccounts(context.Background())
	require.NoError(t, err)

	// Unchanged file: no announcement.
	provider.Reload()
	select {
	case accounts := <-provider.AccountsChanged():
		t.Fatalf("unexpected announcement %v for unchanged accounts", accounts)
	default:
	}

	writeAccounts(t, dir, "accounts:\n  - \"0xbbb\"\n")
	provider.Reload()
	select {
	case accounts := <-provider.AccountsChanged():
		assert.Equal(t, []string{"0xbbb"}, accounts)
	default:
		t.Fatal("expected an announcement after the accounts changed")
	}
}

func TestReloadDropsStaleAnnouncement(t *testing.T) {
	dir := t.TempDir()
	path := writeAccounts(t, dir, "accounts:\n  - \"0xaaa\"\n")
	provider := newLocal(t, path, "auto")
	_, err := provider.RequestAccounts(context.Background())
	require.NoError(t, err)

	writeAccounts(t, dir, "accounts:\n  - \"0xbbb\"\n")
	provider.Reload()
	writeAccounts(t, dir, "accounts:\n  - \"0xccc\"\n")
	provider.Reload()

	// Only the latest list is observable.
	accounts := <-provider.AccountsChanged()
	assert.Equal(t, []string{"0xccc"}, accounts)
	select {
	case stale := <-provider.AccountsChanged():
		t.Fatalf("stale announcement %v should have been dropped", stale)
	default:
	}
}

func TestCloseIsIdempotentAndReloadAfterCloseIsSafe(t *testing.T) {
	dir := t.TempDir()
	path := writeAccounts(t, dir, "accounts:\n  - \"0xaaa\"\n")
	provider := newLocal(t, path, "auto")

	require.NoError(t, provider.Close())
	require.NoError(t, provider.Close())

	writeAccounts(t, dir, "accounts:\n  - \"0xbbb\"\n")
	provider.Reload()

	_, open := <-provider.AccountsChanged()
	assert.False(t, open)
}
