package core

// WithdrawalRequest is the single pending-withdrawal slot of a wallet.
// Expiration == 0 means the slot is free; any positive value is the unix
// second at which the challenge window closes.
type WithdrawalRequest struct {
	Wallet     string `json:"wallet"`
	Asset      string `json:"asset"`
	Amount     uint64 `json:"amount"`
	Height     uint64 `json:"height"`
	Expiration int64  `json:"expiration"`
}

func (r *WithdrawalRequest) Pending() bool {
	return r.Expiration > 0
}
