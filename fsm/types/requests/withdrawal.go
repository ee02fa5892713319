package requests

import "github.com/clearnetwork/clearnet/core"

// WithdrawalOpenRequest opens a pending withdrawal for State.Wallet.
// RequestedAt and ChallengePeriod are unix seconds; the machine computes the
// slot expiration from them.
type WithdrawalOpenRequest struct {
	State           *core.State
	Amount          uint64
	Bond            uint64
	RequestedAt     int64
	ChallengePeriod int64
}

// WithdrawalChallengeRequest rejects a pending withdrawal by presenting a
// strictly newer attested state for the same wallet and asset.
type WithdrawalChallengeRequest struct {
	Candidate *core.State
}

// WithdrawalFinalizeRequest pays out a pending withdrawal once the challenge
// window has elapsed. Finalize must carry the exact height that opened the
// request.
type WithdrawalFinalizeRequest struct {
	Finalize    *core.State
	FinalizedAt int64
}
