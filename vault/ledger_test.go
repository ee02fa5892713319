package vault_test

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/clearnetwork/clearnet/core"
	"github.com/clearnetwork/clearnet/vault"
)

func newTestLedger(t *testing.T) *vault.Ledger {
	t.Helper()

	db, err := vault.OpenSlotDB(filepath.Join(t.TempDir(), "slots"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return vault.NewLedger(db)
}

func TestLedger_Deposit(t *testing.T) {
	req := require.New(t)
	ledger := newTestLedger(t)

	balance, err := ledger.Balance("usd")
	req.NoError(err)
	req.Zero(balance)

	req.NoError(ledger.Deposit("alice", "usd", 1000))
	req.NoError(ledger.Deposit("bob", "usd", 500))

	// Deposits pool per asset regardless of depositor.
	balance, err = ledger.Balance("usd")
	req.NoError(err)
	req.EqualValues(1500, balance)

	balance, err = ledger.Balance("eur")
	req.NoError(err)
	req.Zero(balance)

	t.Run("empty_asset", func(t *testing.T) {
		require.Error(t, ledger.Deposit("alice", "", 1))
	})

	t.Run("overflow", func(t *testing.T) {
		require.Error(t, ledger.Deposit("alice", "usd", math.MaxUint64))
	})
}

func TestLedger_TransferOut(t *testing.T) {
	req := require.New(t)
	ledger := newTestLedger(t)

	req.NoError(ledger.Deposit("alice", "usd", 1000))

	t.Run("not_custody_authority", func(t *testing.T) {
		err := ledger.TransferOut("alice", "usd", 100, "alice")
		require.ErrorIs(t, err, core.ErrNotCustodyAuthority)
	})

	t.Run("insufficient_balance", func(t *testing.T) {
		err := ledger.TransferOut(ledger.Authority(), "usd", 2000, "alice")
		require.ErrorIs(t, err, core.ErrInsufficientVaultBalance)
	})

	t.Run("empty_destination", func(t *testing.T) {
		require.Error(t, ledger.TransferOut(ledger.Authority(), "usd", 100, ""))
	})

	req.NoError(ledger.TransferOut(ledger.Authority(), "usd", 400, "alice"))

	balance, err := ledger.Balance("usd")
	req.NoError(err)
	req.EqualValues(600, balance)
}
