package requests

import "errors"

func (r *WithdrawalOpenRequest) Validate() error {
	if r.State == nil {
		return errors.New("{State} cannot be nil")
	}

	if r.State.Wallet == "" {
		return errors.New("{State.Wallet} cannot be empty")
	}

	if r.State.Asset == "" {
		return errors.New("{State.Asset} cannot be empty")
	}

	if len(r.State.Participants) == 0 {
		return errors.New("{State.Participants} cannot be empty")
	}

	if r.Amount == 0 {
		return errors.New("{Amount} cannot be zero")
	}

	if r.RequestedAt <= 0 {
		return errors.New("{RequestedAt} cannot be a zero time")
	}

	if r.ChallengePeriod <= 0 {
		return errors.New("{ChallengePeriod} cannot be zero")
	}

	return nil
}

func (r *WithdrawalChallengeRequest) Validate() error {
	if r.Candidate == nil {
		return errors.New("{Candidate} cannot be nil")
	}

	if r.Candidate.Wallet == "" {
		return errors.New("{Candidate.Wallet} cannot be empty")
	}

	return nil
}

func (r *WithdrawalFinalizeRequest) Validate() error {
	if r.Finalize == nil {
		return errors.New("{Finalize} cannot be nil")
	}

	if r.Finalize.Wallet == "" {
		return errors.New("{Finalize.Wallet} cannot be empty")
	}

	if r.FinalizedAt <= 0 {
		return errors.New("{FinalizedAt} cannot be a zero time")
	}

	return nil
}
