package main

import (
	"github.com/clearnetwork/clearnet/core"
)

type Response struct {
	ErrorMessage string      `json:"error_message,omitempty"`
	Result       interface{} `json:"result"`
}

type PendingRequestResponse struct {
	ErrorMessage string                  `json:"error_message,omitempty"`
	Result       *core.WithdrawalRequest `json:"result"`
}

type StateResponse struct {
	ErrorMessage string      `json:"error_message,omitempty"`
	Result       *core.State `json:"result"`
}

type BalanceResponse struct {
	ErrorMessage string `json:"error_message,omitempty"`
	Result       uint64 `json:"result"`
}
