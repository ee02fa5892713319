package watchtower

import (
	"context"
	"crypto/ed25519"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/clearnetwork/clearnet/client/api/dto"
	"github.com/clearnetwork/clearnet/client/config"
	"github.com/clearnetwork/clearnet/client/modules/keystore"
	"github.com/clearnetwork/clearnet/client/modules/logger"
	"github.com/clearnetwork/clearnet/client/modules/state"
	"github.com/clearnetwork/clearnet/client/services"
	"github.com/clearnetwork/clearnet/core"
	"github.com/clearnetwork/clearnet/registry"
	"github.com/clearnetwork/clearnet/storage"
	"github.com/clearnetwork/clearnet/vault"
)

const pollingPeriod = time.Second

type WatchtowerService interface {
	Poll() error
	GetLogger() logger.Logger
	GetPubKey() ed25519.PublicKey
	GetUsername() string
	ProcessMessage(message storage.Message) error

	Deposit(dto *dto.DepositDTO) error
	RequestWithdrawal(dto *dto.WithdrawalRequestDTO) error
	Challenge(dto *dto.ChallengeDTO) error
	Withdraw(dto *dto.WithdrawDTO) error
	SetNodeStatus(dto *dto.NodeStatusDTO) error
	GetPendingRequest(wallet string) (*core.WithdrawalRequest, error)
	GetVaultBalance(asset string) (uint64, error)

	SubmitState(dto *dto.StateDTO) error
	SignState(dto *dto.StateDTO) (*core.State, error)
	GetLatestState(wallet string) (*core.State, error)

	SaveOffset(dto *dto.StateOffsetDTO) error
	GetStateOffset() (uint64, error)
}

// BaseWatchtowerService follows the notification stream and guards the vault:
// whenever a challenge window opens for a claim older than the freshest state
// the node has seen, it files a challenge on its own behalf.
type BaseWatchtowerService struct {
	sync.Mutex
	ctx      context.Context
	userName string
	keyPair  *keystore.KeyPair
	state    state.State
	storage  storage.Storage
	machine  *vault.Machine
	nodes    registry.NodeRegistry
	ledger   *vault.Ledger
	Logger   logger.Logger
}

func NewWatchtower(ctx context.Context, config *config.Config, sp *services.ServiceProvider) (WatchtowerService, error) {
	keyPair, err := sp.GetKeyStore().LoadKeys(config.Username, "")
	if err != nil {
		return nil, fmt.Errorf("failed to LoadKeys: %w", err)
	}

	return &BaseWatchtowerService{
		ctx:      ctx,
		userName: config.Username,
		keyPair:  keyPair,
		state:    sp.GetState(),
		storage:  sp.GetStorage(),
		machine:  sp.GetMachine(),
		nodes:    sp.GetNodeRegistry(),
		ledger:   sp.GetLedger(),
		Logger:   sp.GetLogger(),
	}, nil
}

func (s *BaseWatchtowerService) GetLogger() logger.Logger {
	return s.Logger
}

func (s *BaseWatchtowerService) GetPubKey() ed25519.PublicKey {
	return s.keyPair.Pub
}

func (s *BaseWatchtowerService) GetUsername() string {
	return s.userName
}

// Poll is the main node loop: it reads new messages from the append-only
// notification stream and processes them.
func (s *BaseWatchtowerService) Poll() error {
	tk := time.NewTicker(pollingPeriod)
	defer tk.Stop()
	for {
		select {
		case <-tk.C:
			offset, err := s.state.LoadOffset()
			if err != nil {
				return fmt.Errorf("failed to LoadOffset: %w", err)
			}

			messages, err := s.storage.GetMessages(offset)
			if err != nil {
				return fmt.Errorf("failed to GetMessages: %w", err)
			}

			for _, message := range messages {
				s.Logger.Log("Handling message with offset %d, type %s", message.Offset, message.Event)
				if err := s.ProcessMessage(message); err != nil {
					s.Logger.Log("Failed to process message with offset %d: %v", message.Offset, err)
				}
				if err := s.state.SaveOffset(message.Offset + 1); err != nil {
					s.Logger.Log("Failed to save offset: %v", err)
				}
			}
		case <-s.ctx.Done():
			log.Println("Context closed, stop polling...")
			return nil
		}
	}
}

func (s *BaseWatchtowerService) ProcessMessage(message storage.Message) error {
	if err := verifyMessageSignature(message); err != nil {
		return err
	}

	switch message.Event {
	case core.EventChallengeWindowOpened:
		var payload core.ChallengeWindowOpenedPayload
		if err := json.Unmarshal(message.Data, &payload); err != nil {
			return fmt.Errorf("failed to unmarshal %s payload: %w", message.Event, err)
		}
		return s.maybeChallenge(payload)
	case core.EventDeposited, core.EventWithdrawalRequested,
		core.EventWithdrawalRejected, core.EventWithdrawn:
		return nil
	default:
		return fmt.Errorf("unknown event type %s", message.Event)
	}
}

func verifyMessageSignature(message storage.Message) error {
	if message.SenderAddr == "" {
		return errors.New("message has no sender")
	}

	senderPubKey, err := hex.DecodeString(message.SenderAddr)
	if err != nil {
		return fmt.Errorf("failed to decode sender public key: %w", err)
	}
	if len(senderPubKey) != ed25519.PublicKeySize {
		return fmt.Errorf("unexpected sender public key length %d", len(senderPubKey))
	}

	if !ed25519.Verify(senderPubKey, message.Data, message.Signature) {
		return errors.New("message signature is invalid")
	}

	return nil
}

// maybeChallenge checks a freshly opened challenge window against the local
// view and files a challenge when the claim's height is stale. A claim that
// was already closed by another node is not an error.
func (s *BaseWatchtowerService) maybeChallenge(payload core.ChallengeWindowOpenedPayload) error {
	latest, ok, err := s.state.LoadLatestState(payload.Wallet)
	if err != nil {
		return fmt.Errorf("failed to LoadLatestState: %w", err)
	}

	if !ok || latest.Height <= payload.Height {
		return nil
	}

	s.Logger.Log("Challenging claim for wallet %s: claimed height %d, known height %d",
		payload.Wallet, payload.Height, latest.Height)

	if err := s.machine.Challenge(s.keyPair.GetAddr(), latest); err != nil {
		if errors.Is(err, core.ErrNoPendingRequest) {
			s.Logger.Log("Claim for wallet %s already closed", payload.Wallet)
			return nil
		}
		return fmt.Errorf("failed to challenge claim for wallet %s: %w", payload.Wallet, err)
	}

	return nil
}

func (s *BaseWatchtowerService) Deposit(d *dto.DepositDTO) error {
	return s.machine.Deposit(d.User, d.Asset, d.Amount)
}

func (s *BaseWatchtowerService) RequestWithdrawal(d *dto.WithdrawalRequestDTO) error {
	return s.machine.Request(d.Caller, stateFromDTO(d.State), d.Amount)
}

func (s *BaseWatchtowerService) Challenge(d *dto.ChallengeDTO) error {
	return s.machine.Challenge(d.Caller, stateFromDTO(d.Candidate))
}

func (s *BaseWatchtowerService) Withdraw(d *dto.WithdrawDTO) error {
	return s.machine.Withdraw(d.Caller, stateFromDTO(d.Finalize))
}

func (s *BaseWatchtowerService) SetNodeStatus(d *dto.NodeStatusDTO) error {
	return s.nodes.SetStatus(d.Caller, d.Authority, d.IsActive)
}

func (s *BaseWatchtowerService) GetPendingRequest(wallet string) (*core.WithdrawalRequest, error) {
	return s.machine.PendingRequest(wallet)
}

func (s *BaseWatchtowerService) GetVaultBalance(asset string) (uint64, error) {
	return s.ledger.Balance(asset)
}

// SubmitState records an attested state in the node's local view. The state
// becomes the reference the watchtower challenges stale claims with.
func (s *BaseWatchtowerService) SubmitState(d *dto.StateDTO) error {
	return s.state.SaveLatestState(d.Wallet, stateFromDTO(d))
}

// SignState co-signs the state's digest with the node's key. The node must be
// listed among the state's participants; its signature lands in the slot
// matching its position.
func (s *BaseWatchtowerService) SignState(d *dto.StateDTO) (*core.State, error) {
	signed := stateFromDTO(d)

	idx := -1
	for i, participant := range signed.Participants {
		if participant == s.keyPair.GetAddr() {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("node %s is not a participant of the state", s.userName)
	}

	if len(signed.Signatures) != len(signed.Participants) {
		signatures := make([][]byte, len(signed.Participants))
		copy(signatures, signed.Signatures)
		signed.Signatures = signatures
	}

	signature, err := s.keyPair.Sign(signed.SigningDigest())
	if err != nil {
		return nil, fmt.Errorf("failed to sign state digest: %w", err)
	}
	signed.Signatures[idx] = signature

	return signed, nil
}

func (s *BaseWatchtowerService) GetLatestState(wallet string) (*core.State, error) {
	latest, ok, err := s.state.LoadLatestState(wallet)
	if err != nil {
		return nil, fmt.Errorf("failed to LoadLatestState: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("no state known for wallet %s", wallet)
	}
	return latest, nil
}

func (s *BaseWatchtowerService) SaveOffset(d *dto.StateOffsetDTO) error {
	return s.state.SaveOffset(d.Offset)
}

func (s *BaseWatchtowerService) GetStateOffset() (uint64, error) {
	return s.state.LoadOffset()
}

func stateFromDTO(d *dto.StateDTO) *core.State {
	if d == nil {
		return nil
	}
	return &core.State{
		Wallet:       d.Wallet,
		Asset:        d.Asset,
		Height:       d.Height,
		Balance:      d.Balance,
		Participants: d.Participants,
		Signatures:   d.Signatures,
	}
}
