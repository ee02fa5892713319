package withdrawal_fsm

import (
	"errors"

	"github.com/clearnetwork/clearnet/core"
	"github.com/clearnetwork/clearnet/fsm/fsm"
	"github.com/clearnetwork/clearnet/fsm/state_machines/internal"
	"github.com/clearnetwork/clearnet/fsm/types/requests"
)

func unpack(args []interface{}) (*internal.WithdrawalStatePayload, interface{}, error) {
	if len(args) != 2 {
		return nil, nil, errors.New("payload and one request required")
	}

	payload, ok := args[0].(*internal.WithdrawalStatePayload)
	if !ok {
		return nil, nil, errors.New("cannot cast withdrawal state payload")
	}

	return payload, args[1], nil
}

// idle -> pending
func (m *WithdrawalFSM) actionWithdrawalOpen(event fsm.Event, args ...interface{}) (interface{}, error) {
	payload, arg, err := unpack(args)
	if err != nil {
		return nil, err
	}

	request, ok := arg.(requests.WithdrawalOpenRequest)
	if !ok {
		return nil, errors.New("cannot cast withdrawal open request")
	}

	if err := request.Validate(); err != nil {
		return nil, err
	}

	if request.Amount > request.State.Balance {
		return nil, core.ErrInsufficientAttestedBalance
	}

	payload.Request = core.WithdrawalRequest{
		Wallet:     request.State.Wallet,
		Asset:      request.State.Asset,
		Amount:     request.Amount,
		Height:     request.State.Height,
		Expiration: request.RequestedAt + request.ChallengePeriod,
	}
	payload.Bond = request.Bond

	return payload.Request, nil
}

// pending -> rejected
func (m *WithdrawalFSM) actionWithdrawalChallenge(event fsm.Event, args ...interface{}) (interface{}, error) {
	payload, arg, err := unpack(args)
	if err != nil {
		return nil, err
	}

	request, ok := arg.(requests.WithdrawalChallengeRequest)
	if !ok {
		return nil, errors.New("cannot cast withdrawal challenge request")
	}

	if err := request.Validate(); err != nil {
		return nil, err
	}

	if !payload.Request.Pending() {
		return nil, core.ErrNoPendingRequest
	}

	if request.Candidate.Wallet != payload.Request.Wallet ||
		request.Candidate.Asset != payload.Request.Asset {
		return nil, core.ErrStateMismatch
	}

	if request.Candidate.Height <= payload.Request.Height {
		return nil, core.ErrCandidateNotNewer
	}

	return payload.Request, nil
}

// pending -> paid
func (m *WithdrawalFSM) actionWithdrawalFinalize(event fsm.Event, args ...interface{}) (interface{}, error) {
	payload, arg, err := unpack(args)
	if err != nil {
		return nil, err
	}

	request, ok := arg.(requests.WithdrawalFinalizeRequest)
	if !ok {
		return nil, errors.New("cannot cast withdrawal finalize request")
	}

	if err := request.Validate(); err != nil {
		return nil, err
	}

	if !payload.Request.Pending() {
		return nil, core.ErrNoPendingRequest
	}

	if request.FinalizedAt < payload.Request.Expiration {
		return nil, core.ErrChallengePeriodNotExpired
	}

	// The payout is bound to the exact approved claim, not a newer or older
	// view of the balance.
	if request.Finalize.Height != payload.Request.Height {
		return nil, core.ErrStateMismatch
	}

	if request.Finalize.Wallet != payload.Request.Wallet ||
		request.Finalize.Asset != payload.Request.Asset {
		return nil, core.ErrStateMismatch
	}

	return payload.Request, nil
}
