package watchtower

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"

	"github.com/clearnetwork/clearnet/client/api/dto"
	"github.com/clearnetwork/clearnet/client/config"
	"github.com/clearnetwork/clearnet/client/modules/keystore"
	"github.com/clearnetwork/clearnet/client/modules/logger"
	"github.com/clearnetwork/clearnet/client/services"
	"github.com/clearnetwork/clearnet/core"
	"github.com/clearnetwork/clearnet/mocks/clientMocks"
	"github.com/clearnetwork/clearnet/mocks/storageMocks"
	"github.com/clearnetwork/clearnet/quorum"
	"github.com/clearnetwork/clearnet/registry"
	"github.com/clearnetwork/clearnet/storage"
	"github.com/clearnetwork/clearnet/vault"
)

type watchtowerTestEnv struct {
	service WatchtowerService
	machine *vault.Machine
	state   *clientMocks.MockState
	stg     *storageMocks.MockStorage
	nodeKey *keystore.KeyPair
	parts   []*keystore.KeyPair
	now     time.Time
	cancel  context.CancelFunc
}

func newWatchtowerTestEnv(t *testing.T) *watchtowerTestEnv {
	t.Helper()
	req := require.New(t)

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	userName := "test_watchtower"
	nodeKey := keystore.NewKeyPair()

	stateMock := clientMocks.NewMockState(ctrl)
	keyStore := clientMocks.NewMockKeyStore(ctrl)
	stg := storageMocks.NewMockStorage(ctrl)

	keyStore.EXPECT().LoadKeys(userName, "").Times(1).Return(nodeKey, nil)

	db, err := vault.OpenSlotDB(filepath.Join(t.TempDir(), "slots"))
	req.NoError(err)
	t.Cleanup(func() { db.Close() })

	admin := keystore.NewKeyPair()
	configStore := vault.NewConfigStore(db)
	_, err = configStore.Initialize(admin.GetAddr())
	req.NoError(err)

	nodes := registry.NewLevelDBNodeRegistry(db, configStore)
	parts := []*keystore.KeyPair{nodeKey, keystore.NewKeyPair(), keystore.NewKeyPair()}
	for _, part := range parts {
		req.NoError(nodes.SetStatus(admin.GetAddr(), part.GetAddr(), true))
	}

	ledger := vault.NewLedger(db)

	env := &watchtowerTestEnv{
		state:   stateMock,
		stg:     stg,
		nodeKey: nodeKey,
		parts:   parts,
		now:     time.Unix(1700000000, 0),
	}

	env.machine = vault.NewMachine(
		db,
		configStore,
		nodes,
		quorum.NewEd25519Verifier(quorum.DefaultPolicy),
		ledger,
		stg,
		nodeKey,
	)
	env.machine.SetNowFunc(func() time.Time { return env.now })

	sp := services.ServiceProvider{}
	sp.SetLogger(logger.NewLogger(userName))
	sp.SetState(stateMock)
	sp.SetKeyStore(keyStore)
	sp.SetStorage(stg)
	sp.SetMachine(env.machine)
	sp.SetNodeRegistry(nodes)
	sp.SetLedger(ledger)

	cfg := config.Config{
		Username: userName,
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	env.cancel = cancel

	service, err := NewWatchtower(ctx, &cfg, &sp)
	req.NoError(err)
	env.service = service

	return env
}

func TestWatchtower_PollStopsOnContextClose(t *testing.T) {
	env := newWatchtowerTestEnv(t)

	env.cancel()
	require.NoError(t, env.service.Poll())
}

func (e *watchtowerTestEnv) attestedState(wallet, asset string, height, balance uint64) *core.State {
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

func stateToDTO(state *core.State) *dto.StateDTO {
	return &dto.StateDTO{
		Wallet:       state.Wallet,
		Asset:        state.Asset,
		Height:       state.Height,
		Balance:      state.Balance,
		Participants: state.Participants,
		Signatures:   state.Signatures,
	}
}

func signedMessage(t *testing.T, sender *keystore.KeyPair, event string, payload interface{}) storage.Message {
	t.Helper()

	data, err := json.Marshal(payload)
	require.NoError(t, err)

	signature, err := sender.Sign(data)
	require.NoError(t, err)

	return storage.Message{
		Event:      event,
		Data:       data,
		Signature:  signature,
		SenderAddr: sender.GetAddr(),
	}
}

func TestWatchtower_ProcessMessage(t *testing.T) {
	env := newWatchtowerTestEnv(t)
	sender := keystore.NewKeyPair()

	t.Run("unsigned_message", func(t *testing.T) {
		err := env.service.ProcessMessage(storage.Message{Event: core.EventDeposited})
		require.Error(t, err)
	})

	t.Run("tampered_message", func(t *testing.T) {
		msg := signedMessage(t, sender, core.EventDeposited, core.DepositedPayload{
			Wallet: "alice", Asset: "usd", Amount: 100,
		})
		msg.Data = append(msg.Data, '!')
		require.Error(t, env.service.ProcessMessage(msg))
	})

	t.Run("unknown_event", func(t *testing.T) {
		msg := signedMessage(t, sender, "unknown_event", struct{}{})
		require.Error(t, env.service.ProcessMessage(msg))
	})

	t.Run("informational_event_ignored", func(t *testing.T) {
		msg := signedMessage(t, sender, core.EventDeposited, core.DepositedPayload{
			Wallet: "alice", Asset: "usd", Amount: 100,
		})
		require.NoError(t, env.service.ProcessMessage(msg))
	})
}

func TestWatchtower_ChallengesStaleClaim(t *testing.T) {
	req := require.New(t)
	env := newWatchtowerTestEnv(t)
	sender := keystore.NewKeyPair()

	// Fund the pool and open a claim at height 10.
	env.stg.EXPECT().Send(gomock.Any()).Times(1).Return(nil)
	req.NoError(env.machine.Deposit("alice", "usd", 1000))

	env.stg.EXPECT().Send(gomock.Any(), gomock.Any()).Times(1).Return(nil)
	req.NoError(env.machine.Request("alice", env.attestedState("alice", "usd", 10, 500), 400))

	pending, err := env.machine.PendingRequest("alice")
	req.NoError(err)

	windowOpened := core.ChallengeWindowOpenedPayload{
		Wallet:     "alice",
		Height:     pending.Height,
		Expiration: pending.Expiration,
	}

	t.Run("fresh_claim_left_alone", func(t *testing.T) {
		env.state.EXPECT().LoadLatestState("alice").Times(1).
			Return(env.attestedState("alice", "usd", 10, 500), true, nil)

		msg := signedMessage(t, sender, core.EventChallengeWindowOpened, windowOpened)
		require.NoError(t, env.service.ProcessMessage(msg))

		_, err := env.machine.PendingRequest("alice")
		require.NoError(t, err)
	})

	t.Run("no_local_state_left_alone", func(t *testing.T) {
		env.state.EXPECT().LoadLatestState("alice").Times(1).Return(nil, false, nil)

		msg := signedMessage(t, sender, core.EventChallengeWindowOpened, windowOpened)
		require.NoError(t, env.service.ProcessMessage(msg))

		_, err := env.machine.PendingRequest("alice")
		require.NoError(t, err)
	})

	t.Run("stale_claim_challenged", func(t *testing.T) {
		env.state.EXPECT().LoadLatestState("alice").Times(1).
			Return(env.attestedState("alice", "usd", 11, 450), true, nil)
		env.stg.EXPECT().Send(gomock.Any()).Times(1).Return(nil)

		msg := signedMessage(t, sender, core.EventChallengeWindowOpened, windowOpened)
		require.NoError(t, env.service.ProcessMessage(msg))

		_, err := env.machine.PendingRequest("alice")
		require.ErrorIs(t, err, core.ErrNoPendingRequest)
	})

	t.Run("already_closed_claim_is_not_an_error", func(t *testing.T) {
		env.state.EXPECT().LoadLatestState("alice").Times(1).
			Return(env.attestedState("alice", "usd", 11, 450), true, nil)

		msg := signedMessage(t, sender, core.EventChallengeWindowOpened, windowOpened)
		require.NoError(t, env.service.ProcessMessage(msg))
	})
}

func TestWatchtower_SignState(t *testing.T) {
	req := require.New(t)
	env := newWatchtowerTestEnv(t)

	state := env.attestedState("alice", "usd", 10, 500)
	form := stateToDTO(state)
	form.Signatures = nil

	signed, err := env.service.SignState(form)
	req.NoError(err)
	req.Len(signed.Signatures, len(state.Participants))

	// The node's signature lands in its own slot and verifies.
	verifier := quorum.NewEd25519Verifier(quorum.Policy{Numerator: 1, Denominator: 3})
	active := make([]string, len(env.parts))
	for i, part := range env.parts {
		active[i] = part.GetAddr()
	}
	req.NoError(verifier.Verify(signed, active))
}

func TestWatchtower_SignState_NotParticipant(t *testing.T) {
	env := newWatchtowerTestEnv(t)

	state := &core.State{
		Wallet:       "alice",
		Asset:        "usd",
		Height:       10,
		Balance:      500,
		Participants: []string{keystore.NewKeyPair().GetAddr()},
	}

	_, err := env.service.SignState(stateToDTO(state))
	require.Error(t, err)
}
