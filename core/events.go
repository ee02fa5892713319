package core

// Event names published to the append-only notification stream, one per
// successful vault transition.
const (
	EventDeposited             = "vault_deposited"
	EventWithdrawalRequested   = "vault_withdrawal_requested"
	EventChallengeWindowOpened = "vault_challenge_window_opened"
	EventWithdrawalRejected    = "vault_withdrawal_rejected"
	EventWithdrawn             = "vault_withdrawn"
)

type DepositedPayload struct {
	Wallet string `json:"wallet"`
	Asset  string `json:"asset"`
	Amount uint64 `json:"amount"`
}

type WithdrawalRequestedPayload struct {
	Wallet string `json:"wallet"`
	Asset  string `json:"asset"`
	Amount uint64 `json:"amount"`
}

type ChallengeWindowOpenedPayload struct {
	Wallet     string `json:"wallet"`
	Height     uint64 `json:"height"`
	Expiration int64  `json:"expiration"`
}

type WithdrawalRejectedPayload struct {
	Wallet string `json:"wallet"`
	Asset  string `json:"asset"`
	Amount uint64 `json:"amount"`
}

type WithdrawnPayload struct {
	Wallet string `json:"wallet"`
	Asset  string `json:"asset"`
	Amount uint64 `json:"amount"`
}
