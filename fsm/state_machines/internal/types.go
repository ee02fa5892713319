package internal

import "github.com/clearnetwork/clearnet/core"

// WithdrawalStatePayload is the per-wallet machine payload that gets dumped
// to the slot store between operations. Request.Expiration == 0 only before
// the machine has left the idle state.
type WithdrawalStatePayload struct {
	Request core.WithdrawalRequest `json:"request"`

	// Bond is the bookkeeping reserve posted when the request was opened.
	// It is credited to a successful challenger, or returned to the wallet
	// on payout.
	Bond uint64 `json:"bond"`
}
