package dto

type StateDTO struct {
	Wallet       string
	Asset        string
	Height       uint64
	Balance      uint64
	Participants []string
	Signatures   [][]byte
}

type DepositDTO struct {
	User   string
	Asset  string
	Amount uint64
}

type WithdrawalRequestDTO struct {
	Caller string
	Amount uint64
	State  *StateDTO
}

type ChallengeDTO struct {
	Caller    string
	Candidate *StateDTO
}

type WithdrawDTO struct {
	Caller   string
	Finalize *StateDTO
}

type NodeStatusDTO struct {
	Caller    string
	Authority string
	IsActive  bool
}

type WalletDTO struct {
	Wallet string
}

type AssetDTO struct {
	Asset string
}

type StateOffsetDTO struct {
	Offset uint64
}
