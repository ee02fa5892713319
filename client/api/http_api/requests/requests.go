package requests

type StateForm struct {
	Wallet       string   `json:"wallet" validate:"attr=wallet,min=1"`
	Asset        string   `json:"asset" validate:"attr=asset,min=1"`
	Height       uint64   `json:"height"`
	Balance      uint64   `json:"balance"`
	Participants []string `json:"participants"`
	Signatures   [][]byte `json:"signatures"`
}

type DepositForm struct {
	User   string `json:"user" validate:"attr=user,min=1"`
	Asset  string `json:"asset" validate:"attr=asset,min=1"`
	Amount uint64 `json:"amount"`
}

type WithdrawalRequestForm struct {
	Caller string     `json:"caller" validate:"attr=caller,min=1"`
	Amount uint64     `json:"amount"`
	State  *StateForm `json:"state"`
}

type ChallengeForm struct {
	Caller    string     `json:"caller" validate:"attr=caller,min=1"`
	Candidate *StateForm `json:"candidate"`
}

type WithdrawForm struct {
	Caller   string     `json:"caller" validate:"attr=caller,min=1"`
	Finalize *StateForm `json:"finalize"`
}

type NodeStatusForm struct {
	Caller    string `json:"caller" validate:"attr=caller,min=1"`
	Authority string `json:"authority" validate:"attr=authority,min=1"`
	IsActive  bool   `json:"is_active"`
}

type WalletForm struct {
	Wallet string `query:"wallet" json:"wallet"`
}

type AssetForm struct {
	Asset string `query:"asset" json:"asset"`
}

type StateOffsetForm struct {
	Offset uint64 `json:"offset"`
}
