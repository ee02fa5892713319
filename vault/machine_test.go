package vault_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/clearnetwork/clearnet/client/modules/keystore"
	"github.com/clearnetwork/clearnet/core"
	"github.com/clearnetwork/clearnet/quorum"
	"github.com/clearnetwork/clearnet/registry"
	"github.com/clearnetwork/clearnet/storage/file_storage"
	"github.com/clearnetwork/clearnet/vault"
)

type testEnv struct {
	machine *vault.Machine
	ledger  *vault.Ledger
	nodes   registry.NodeRegistry
	admin   *keystore.KeyPair
	parts   []*keystore.KeyPair
	now     time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	req := require.New(t)

	tmpDir := t.TempDir()

	db, err := vault.OpenSlotDB(filepath.Join(tmpDir, "slots"))
	req.NoError(err)
	t.Cleanup(func() { db.Close() })

	admin := keystore.NewKeyPair()

	configStore := vault.NewConfigStore(db)
	_, err = configStore.Initialize(admin.GetAddr())
	req.NoError(err)

	nodes := registry.NewLevelDBNodeRegistry(db, configStore)

	parts := []*keystore.KeyPair{
		keystore.NewKeyPair(),
		keystore.NewKeyPair(),
		keystore.NewKeyPair(),
	}
	for _, part := range parts {
		req.NoError(nodes.SetStatus(admin.GetAddr(), part.GetAddr(), true))
	}

	stg, err := file_storage.NewFileStorage(
		filepath.Join(tmpDir, "storage"),
		filepath.Join(tmpDir, "storage.lock"),
	)
	req.NoError(err)
	t.Cleanup(func() { stg.Close() })

	env := &testEnv{
		ledger: vault.NewLedger(db),
		nodes:  nodes,
		admin:  admin,
		parts:  parts,
		now:    time.Unix(1700000000, 0),
	}

	env.machine = vault.NewMachine(
		db,
		configStore,
		nodes,
		quorum.NewEd25519Verifier(quorum.DefaultPolicy),
		env.ledger,
		stg,
		keystore.NewKeyPair(),
	)
	env.machine.SetNowFunc(func() time.Time { return env.now })

	return env
}

// attestedState builds a snapshot co-signed by every active participant.
func (e *testEnv) attestedState(wallet, asset string, height, balance uint64) *core.State {
	participants := make([]string, len(e.parts))
	for i, part := range e.parts {
		participants[i] = part.GetAddr()
	}

	state := &core.State{
		Wallet:       wallet,
		Asset:        asset,
		Height:       height,
		Balance:      balance,
		Participants: participants,
	}

	digest := state.SigningDigest()
	state.Signatures = make([][]byte, len(e.parts))
	for i, part := range e.parts {
		signature, _ := part.Sign(digest)
		state.Signatures[i] = signature
	}

	return state
}

func TestMachine_Deposit(t *testing.T) {
	req := require.New(t)
	env := newTestEnv(t)

	req.NoError(env.machine.Deposit("alice", "usd", 1000))

	balance, err := env.ledger.Balance("usd")
	req.NoError(err)
	req.EqualValues(1000, balance)
}

func TestMachine_Request(t *testing.T) {
	req := require.New(t)
	env := newTestEnv(t)

	req.NoError(env.machine.Deposit("alice", "usd", 1000))

	t.Run("amount_exceeds_attested_balance", func(t *testing.T) {
		state := env.attestedState("alice", "usd", 10, 500)
		err := env.machine.Request("alice", state, 600)
		require.ErrorIs(t, err, core.ErrInsufficientAttestedBalance)

		_, err = env.machine.PendingRequest("alice")
		require.ErrorIs(t, err, core.ErrNoPendingRequest)
	})

	t.Run("quorum_verification_failed", func(t *testing.T) {
		state := env.attestedState("alice", "usd", 10, 500)
		state.Signatures[1] = nil
		state.Signatures[2] = nil

		err := env.machine.Request("alice", state, 400)
		require.ErrorIs(t, err, core.ErrQuorumVerificationFailed)
	})

	t.Run("caller_not_owner", func(t *testing.T) {
		state := env.attestedState("alice", "usd", 10, 500)
		err := env.machine.Request("mallory", state, 400)
		require.ErrorIs(t, err, core.ErrCallerNotOwner)

		_, err = env.machine.PendingRequest("alice")
		require.ErrorIs(t, err, core.ErrNoPendingRequest)
	})

	t.Run("success", func(t *testing.T) {
		state := env.attestedState("alice", "usd", 10, 500)
		require.NoError(t, env.machine.Request("alice", state, 400))

		pending, err := env.machine.PendingRequest("alice")
		require.NoError(t, err)
		require.EqualValues(t, 400, pending.Amount)
		require.EqualValues(t, 10, pending.Height)
		require.Equal(t, env.now.Unix()+vault.DefaultChallengePeriod, pending.Expiration)

		// The request bond joins the pool.
		balance, err := env.ledger.Balance("usd")
		require.NoError(t, err)
		require.EqualValues(t, 1000+vault.DefaultRequestBond, balance)
	})

	t.Run("request_already_pending", func(t *testing.T) {
		state := env.attestedState("alice", "usd", 11, 500)
		err := env.machine.Request("alice", state, 100)
		require.ErrorIs(t, err, core.ErrRequestAlreadyPending)
	})
}

func TestMachine_Challenge(t *testing.T) {
	req := require.New(t)
	env := newTestEnv(t)

	req.NoError(env.machine.Deposit("alice", "usd", 1000))
	req.NoError(env.machine.Request("alice", env.attestedState("alice", "usd", 10, 500), 400))

	t.Run("no_pending_request", func(t *testing.T) {
		candidate := env.attestedState("bob", "usd", 20, 100)
		err := env.machine.Challenge("bob", candidate)
		require.ErrorIs(t, err, core.ErrNoPendingRequest)
	})

	t.Run("challenger_not_authorized", func(t *testing.T) {
		candidate := env.attestedState("alice", "usd", 11, 200)
		err := env.machine.Challenge("mallory", candidate)
		require.ErrorIs(t, err, core.ErrChallengerNotAuthorized)
	})

	t.Run("candidate_not_newer", func(t *testing.T) {
		candidate := env.attestedState("alice", "usd", 10, 200)
		err := env.machine.Challenge("alice", candidate)
		require.ErrorIs(t, err, core.ErrCandidateNotNewer)

		// The claim survives a failed challenge.
		_, err = env.machine.PendingRequest("alice")
		require.NoError(t, err)
	})

	t.Run("success_by_active_node", func(t *testing.T) {
		balanceBefore, err := env.ledger.Balance("usd")
		require.NoError(t, err)

		candidate := env.attestedState("alice", "usd", 11, 200)
		challenger := env.parts[0].GetAddr()
		require.NoError(t, env.machine.Challenge(challenger, candidate))

		// Slot is free again.
		_, err = env.machine.PendingRequest("alice")
		require.ErrorIs(t, err, core.ErrNoPendingRequest)

		// The bond left the pool towards the challenger.
		balanceAfter, err := env.ledger.Balance("usd")
		require.NoError(t, err)
		require.Equal(t, balanceBefore-vault.DefaultRequestBond, balanceAfter)
	})

	t.Run("slot_reusable_after_rejection", func(t *testing.T) {
		state := env.attestedState("alice", "usd", 11, 200)
		require.NoError(t, env.machine.Request("alice", state, 100))

		pending, err := env.machine.PendingRequest("alice")
		require.NoError(t, err)
		require.EqualValues(t, 100, pending.Amount)
	})
}

func TestMachine_Withdraw(t *testing.T) {
	req := require.New(t)
	env := newTestEnv(t)

	req.NoError(env.machine.Deposit("alice", "usd", 1000))

	state := env.attestedState("alice", "usd", 10, 500)
	req.NoError(env.machine.Request("alice", state, 400))

	t.Run("challenge_period_not_expired", func(t *testing.T) {
		err := env.machine.Withdraw("alice", state)
		require.ErrorIs(t, err, core.ErrChallengePeriodNotExpired)
	})

	t.Run("height_mismatch", func(t *testing.T) {
		env.now = env.now.Add(time.Duration(vault.DefaultChallengePeriod+1) * time.Second)

		finalize := env.attestedState("alice", "usd", 11, 500)
		err := env.machine.Withdraw("alice", finalize)
		require.ErrorIs(t, err, core.ErrStateMismatch)
	})

	t.Run("caller_not_owner", func(t *testing.T) {
		err := env.machine.Withdraw("mallory", state)
		require.ErrorIs(t, err, core.ErrCallerNotOwner)

		_, err = env.machine.PendingRequest("alice")
		require.NoError(t, err)
	})

	t.Run("success", func(t *testing.T) {
		require.NoError(t, env.machine.Withdraw("alice", state))

		// Slot is free, payout and bond left the pool.
		_, err := env.machine.PendingRequest("alice")
		require.ErrorIs(t, err, core.ErrNoPendingRequest)

		balance, err := env.ledger.Balance("usd")
		require.NoError(t, err)
		require.EqualValues(t, 600, balance)
	})

	t.Run("no_pending_request_after_payout", func(t *testing.T) {
		err := env.machine.Withdraw("alice", state)
		require.ErrorIs(t, err, core.ErrNoPendingRequest)
	})
}

func TestMachine_WithdrawExactlyAtExpiration(t *testing.T) {
	req := require.New(t)
	env := newTestEnv(t)

	req.NoError(env.machine.Deposit("alice", "usd", 1000))

	state := env.attestedState("alice", "usd", 10, 500)
	req.NoError(env.machine.Request("alice", state, 400))

	// The boundary second counts as expired.
	env.now = env.now.Add(time.Duration(vault.DefaultChallengePeriod) * time.Second)
	req.NoError(env.machine.Withdraw("alice", state))
}

func TestMachine_WithdrawKeepsClaimOnFailedPayout(t *testing.T) {
	req := require.New(t)
	env := newTestEnv(t)

	// The attested balance is an off-chain quantity and may exceed the
	// pooled funds.
	req.NoError(env.machine.Deposit("alice", "usd", 100))

	state := env.attestedState("alice", "usd", 10, 1000)
	req.NoError(env.machine.Request("alice", state, 400))

	env.now = env.now.Add(time.Duration(vault.DefaultChallengePeriod+1) * time.Second)

	err := env.machine.Withdraw("alice", state)
	req.ErrorIs(err, core.ErrInsufficientVaultBalance)

	// The claim survives the failed payout and the pool is untouched.
	_, err = env.machine.PendingRequest("alice")
	req.NoError(err)

	balance, err := env.ledger.Balance("usd")
	req.NoError(err)
	req.EqualValues(100+vault.DefaultRequestBond, balance)

	// Once the pool covers the payout the claim finalizes normally.
	req.NoError(env.machine.Deposit("bob", "usd", 300))
	req.NoError(env.machine.Withdraw("alice", state))

	_, err = env.machine.PendingRequest("alice")
	req.ErrorIs(err, core.ErrNoPendingRequest)

	balance, err = env.ledger.Balance("usd")
	req.NoError(err)
	req.Zero(balance)
}

func TestMachine_ChallengeKeepsClaimOnFailedBondCredit(t *testing.T) {
	req := require.New(t)
	env := newTestEnv(t)

	req.NoError(env.machine.Deposit("alice", "usd", 100))

	aliceState := env.attestedState("alice", "usd", 10, 105)
	req.NoError(env.machine.Request("alice", aliceState, 105))
	req.NoError(env.machine.Request("bob", env.attestedState("bob", "usd", 7, 300), 50))

	// Alice's payout drains the pool below the bond.
	env.now = env.now.Add(time.Duration(vault.DefaultChallengePeriod+1) * time.Second)
	req.NoError(env.machine.Withdraw("alice", aliceState))

	balance, err := env.ledger.Balance("usd")
	req.NoError(err)
	req.Less(balance, vault.DefaultRequestBond)

	challenger := env.parts[0].GetAddr()
	candidate := env.attestedState("bob", "usd", 8, 250)

	err = env.machine.Challenge(challenger, candidate)
	req.ErrorIs(err, core.ErrInsufficientVaultBalance)

	// The rejection did not take effect: bob's claim is still pending.
	_, err = env.machine.PendingRequest("bob")
	req.NoError(err)

	req.NoError(env.machine.Deposit("carol", "usd", 100))
	req.NoError(env.machine.Challenge(challenger, candidate))

	_, err = env.machine.PendingRequest("bob")
	req.ErrorIs(err, core.ErrNoPendingRequest)
}

func TestMachine_RequestPerWalletIsolation(t *testing.T) {
	req := require.New(t)
	env := newTestEnv(t)

	req.NoError(env.machine.Deposit("alice", "usd", 1000))
	req.NoError(env.machine.Deposit("bob", "usd", 1000))

	req.NoError(env.machine.Request("alice", env.attestedState("alice", "usd", 10, 500), 400))
	req.NoError(env.machine.Request("bob", env.attestedState("bob", "usd", 7, 300), 200))

	alicePending, err := env.machine.PendingRequest("alice")
	req.NoError(err)
	req.EqualValues(400, alicePending.Amount)

	bobPending, err := env.machine.PendingRequest("bob")
	req.NoError(err)
	req.EqualValues(200, bobPending.Amount)
}
