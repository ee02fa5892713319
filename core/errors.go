package core

import "errors"

// Precondition violations of the withdrawal protocol. Every operation
// validates synchronously and atomically: a returned error means no state
// was changed and no funds were moved.
var (
	// Config / registry.
	ErrAlreadyInitialized = errors.New("config already initialized")
	ErrNotInitialized     = errors.New("config not initialized")
	ErrNotAdmin           = errors.New("caller is not the admin")

	// Request / withdraw.
	ErrCallerNotOwner              = errors.New("caller is not the wallet owner")
	ErrInsufficientAttestedBalance = errors.New("amount exceeds attested balance")
	ErrRequestAlreadyPending       = errors.New("withdrawal request already pending")
	ErrQuorumVerificationFailed    = errors.New("quorum verification failed")

	// Challenge.
	ErrNoPendingRequest        = errors.New("no pending withdrawal request")
	ErrCandidateNotNewer       = errors.New("candidate state is not newer")
	ErrChallengerNotAuthorized = errors.New("challenger is neither the wallet owner nor an active node")

	// Withdraw.
	ErrChallengePeriodNotExpired = errors.New("challenge period not expired")
	ErrStateMismatch             = errors.New("finalizing state does not match the pending request")

	// Ledger.
	ErrNotCustodyAuthority      = errors.New("caller is not the vault custody authority")
	ErrInsufficientVaultBalance = errors.New("insufficient vault balance")
)
