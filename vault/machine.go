package vault

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/syndtr/goleveldb/leveldb"

	"github.com/clearnetwork/clearnet/core"
	"github.com/clearnetwork/clearnet/fsm/state_machines"
	"github.com/clearnetwork/clearnet/fsm/state_machines/withdrawal_fsm"
	"github.com/clearnetwork/clearnet/fsm/types/requests"
	"github.com/clearnetwork/clearnet/quorum"
	"github.com/clearnetwork/clearnet/registry"
	"github.com/clearnetwork/clearnet/storage"
)

// Signer signs the messages the machine publishes to the notification
// stream.
type Signer interface {
	GetAddr() string
	Sign(data []byte) ([]byte, error)
}

// Machine drives the per-wallet request/challenge/withdraw lifecycle. All
// slot mutations run under a single mutex: of two competing operations on
// the same wallet exactly one observes the slot as pending, the loser fails
// its own preconditions. This stands in for the per-slot transaction
// serialization a chain runtime would provide.
type Machine struct {
	mu sync.Mutex

	db          *leveldb.DB
	configStore *ConfigStore
	nodes       registry.NodeRegistry
	verifier    quorum.Verifier
	ledger      *Ledger
	stream      storage.Storage
	signer      Signer

	now func() time.Time
}

func NewMachine(
	db *leveldb.DB,
	configStore *ConfigStore,
	nodes registry.NodeRegistry,
	verifier quorum.Verifier,
	ledger *Ledger,
	stream storage.Storage,
	signer Signer,
) *Machine {
	return &Machine{
		db:          db,
		configStore: configStore,
		nodes:       nodes,
		verifier:    verifier,
		ledger:      ledger,
		stream:      stream,
		signer:      signer,
		now:         time.Now,
	}
}

// SetNowFunc overrides the machine clock. Tests only.
func (m *Machine) SetNowFunc(now func() time.Time) {
	m.now = now
}

// Deposit adds funds to the pooled custody balance. Purely additive, no
// interaction with the wallet's request slot.
func (m *Machine) Deposit(user, asset string, amount uint64) error {
	if err := m.ledger.Deposit(user, asset, amount); err != nil {
		return err
	}

	return m.emit(message(core.EventDeposited, core.DepositedPayload{
		Wallet: user,
		Asset:  asset,
		Amount: amount,
	}))
}

// Request opens a pending withdrawal claim for state.Wallet. Only the wallet
// owner may open a claim on their wallet. The caller posts the request bond
// into the pool; the bond follows the claim to whichever party closes it.
func (m *Machine) Request(caller string, state *core.State, amount uint64) error {
	if state == nil {
		return errors.New("state cannot be nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if caller != state.Wallet {
		return core.ErrCallerNotOwner
	}

	config, err := m.configStore.Config()
	if err != nil {
		return err
	}

	if _, err := m.db.Get(requestKey(state.Wallet), nil); err == nil {
		return core.ErrRequestAlreadyPending
	} else if !errors.Is(err, leveldb.ErrNotFound) {
		return fmt.Errorf("failed to read request slot: %w", err)
	}

	if err := m.verifyQuorum(state); err != nil {
		return err
	}

	instance, err := state_machines.Create(state.Wallet)
	if err != nil {
		return err
	}

	_, dump, err := instance.Do(withdrawal_fsm.EventWithdrawalOpen, requests.WithdrawalOpenRequest{
		State:           state,
		Amount:          amount,
		Bond:            config.RequestBond,
		RequestedAt:     m.now().Unix(),
		ChallengePeriod: config.ChallengePeriod,
	})
	if err != nil {
		return err
	}

	if err := m.ledger.Deposit(caller, state.Asset, config.RequestBond); err != nil {
		return fmt.Errorf("failed to post request bond: %w", err)
	}

	if err := m.db.Put(requestKey(state.Wallet), dump, nil); err != nil {
		return fmt.Errorf("failed to save request slot: %w", err)
	}

	request := instance.Request()
	return m.emit(
		message(core.EventWithdrawalRequested, core.WithdrawalRequestedPayload{
			Wallet: request.Wallet,
			Asset:  request.Asset,
			Amount: request.Amount,
		}),
		message(core.EventChallengeWindowOpened, core.ChallengeWindowOpenedPayload{
			Wallet:     request.Wallet,
			Height:     request.Height,
			Expiration: request.Expiration,
		}),
	)
}

// Challenge rejects a pending claim by presenting a strictly newer attested
// state. The wallet owner or any active node may challenge; the request bond
// is credited to the challenger.
func (m *Machine) Challenge(caller string, candidate *core.State) error {
	if candidate == nil {
		return errors.New("candidate cannot be nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	instance, err := m.pendingInstance(candidate.Wallet)
	if err != nil {
		return err
	}

	if err := m.authorizeChallenger(caller, candidate.Wallet); err != nil {
		return err
	}

	if err := m.verifyQuorum(candidate); err != nil {
		return err
	}

	if _, _, err := instance.Do(withdrawal_fsm.EventWithdrawalChallenge, requests.WithdrawalChallengeRequest{
		Candidate: candidate,
	}); err != nil {
		return err
	}

	// The bond must clear before the slot is released: a failed credit
	// aborts the whole rejection and the claim stays pending.
	if bond := instance.Bond(); bond > 0 {
		if err := m.ledger.TransferOut(m.ledger.Authority(), instance.Request().Asset, bond, caller); err != nil {
			return fmt.Errorf("failed to credit bond to challenger: %w", err)
		}
	}

	if err := m.db.Delete(requestKey(candidate.Wallet), nil); err != nil {
		return fmt.Errorf("failed to release request slot: %w", err)
	}

	request := instance.Request()
	return m.emit(message(core.EventWithdrawalRejected, core.WithdrawalRejectedPayload{
		Wallet: request.Wallet,
		Asset:  request.Asset,
		Amount: request.Amount,
	}))
}

// Withdraw finalizes an undisputed claim after the challenge window. Only
// the wallet owner may finalize; the payout and the bond go to the wallet
// that opened the request.
func (m *Machine) Withdraw(caller string, finalize *core.State) error {
	if finalize == nil {
		return errors.New("finalizing state cannot be nil")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if caller != finalize.Wallet {
		return core.ErrCallerNotOwner
	}

	instance, err := m.pendingInstance(finalize.Wallet)
	if err != nil {
		return err
	}

	if _, _, err := instance.Do(withdrawal_fsm.EventWithdrawalFinalize, requests.WithdrawalFinalizeRequest{
		Finalize:    finalize,
		FinalizedAt: m.now().Unix(),
	}); err != nil {
		return err
	}

	request := instance.Request()

	// The payout must clear before the slot is released: the attested
	// balance can exceed the pooled funds, and a failed transfer aborts the
	// whole operation with the claim still pending.
	payout := request.Amount + instance.Bond()
	if err := m.ledger.TransferOut(m.ledger.Authority(), request.Asset, payout, request.Wallet); err != nil {
		return fmt.Errorf("failed to transfer payout: %w", err)
	}

	if err := m.db.Delete(requestKey(finalize.Wallet), nil); err != nil {
		return fmt.Errorf("failed to release request slot: %w", err)
	}

	return m.emit(message(core.EventWithdrawn, core.WithdrawnPayload{
		Wallet: request.Wallet,
		Asset:  request.Asset,
		Amount: request.Amount,
	}))
}

// PendingRequest returns the wallet's pending withdrawal, or
// core.ErrNoPendingRequest when the slot is free.
func (m *Machine) PendingRequest(wallet string) (*core.WithdrawalRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	instance, err := m.pendingInstance(wallet)
	if err != nil {
		return nil, err
	}

	request := instance.Request()
	return &request, nil
}

func (m *Machine) pendingInstance(wallet string) (*state_machines.WithdrawalInstance, error) {
	dump, err := m.db.Get(requestKey(wallet), nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return nil, core.ErrNoPendingRequest
		}
		return nil, fmt.Errorf("failed to read request slot: %w", err)
	}

	instance, err := state_machines.FromDump(dump)
	if err != nil {
		return nil, err
	}

	return instance, nil
}

func (m *Machine) authorizeChallenger(caller, wallet string) error {
	if caller == wallet {
		return nil
	}

	active, err := m.nodes.IsActive(caller)
	if err != nil {
		return fmt.Errorf("failed to check challenger registration: %w", err)
	}

	if !active {
		return core.ErrChallengerNotAuthorized
	}

	return nil
}

func (m *Machine) verifyQuorum(state *core.State) error {
	active, err := m.nodes.ActiveParticipants()
	if err != nil {
		return fmt.Errorf("failed to load active participants: %w", err)
	}

	if err := m.verifier.Verify(state, active); err != nil {
		return fmt.Errorf("%w: %v", core.ErrQuorumVerificationFailed, err)
	}

	return nil
}

type streamEvent struct {
	name    string
	payload interface{}
}

func message(name string, payload interface{}) streamEvent {
	return streamEvent{name: name, payload: payload}
}

func (m *Machine) emit(events ...streamEvent) error {
	msgs := make([]storage.Message, 0, len(events))
	for _, event := range events {
		data, err := json.Marshal(event.payload)
		if err != nil {
			return fmt.Errorf("failed to marshal %s payload: %w", event.name, err)
		}

		msg := storage.Message{
			Event: event.name,
			Data:  data,
		}

		if m.signer != nil {
			signature, err := m.signer.Sign(data)
			if err != nil {
				return fmt.Errorf("failed to sign %s message: %w", event.name, err)
			}
			msg.Signature = signature
			msg.SenderAddr = m.signer.GetAddr()
		}

		msgs = append(msgs, msg)
	}

	if err := m.stream.Send(msgs...); err != nil {
		return fmt.Errorf("failed to publish notifications: %w", err)
	}

	return nil
}
