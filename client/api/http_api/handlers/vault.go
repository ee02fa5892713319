package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	. "github.com/clearnetwork/clearnet/client/api/dto"
	cs "github.com/clearnetwork/clearnet/client/api/http_api/context_service"
	req "github.com/clearnetwork/clearnet/client/api/http_api/requests"
)

func (a *HTTPApp) Deposit(c echo.Context) error {
	stx := c.(*cs.ContextService)
	formDTO := &DepositDTO{}
	if err := stx.BindToDTO(&req.DepositForm{}, formDTO); err != nil {
		return stx.JsonError(http.StatusBadRequest, err)
	}

	if err := a.watchtower.Deposit(formDTO); err != nil {
		return stx.JsonError(http.StatusInternalServerError, err)
	}
	return stx.Json(http.StatusOK, "ok")
}

func (a *HTTPApp) RequestWithdrawal(c echo.Context) error {
	stx := c.(*cs.ContextService)
	request := &req.WithdrawalRequestForm{}
	if err := stx.BindToRequest(request); err != nil {
		return stx.JsonError(http.StatusBadRequest, err)
	}
	if request.State == nil {
		return stx.JsonError(http.StatusBadRequest, errors.New("state is required"))
	}

	formDTO := &WithdrawalRequestDTO{
		Caller: request.Caller,
		Amount: request.Amount,
		State:  stateDTOFromForm(request.State),
	}

	if err := a.watchtower.RequestWithdrawal(formDTO); err != nil {
		return stx.JsonError(http.StatusInternalServerError, err)
	}
	return stx.Json(http.StatusOK, "ok")
}

func (a *HTTPApp) Challenge(c echo.Context) error {
	stx := c.(*cs.ContextService)
	request := &req.ChallengeForm{}
	if err := stx.BindToRequest(request); err != nil {
		return stx.JsonError(http.StatusBadRequest, err)
	}
	if request.Candidate == nil {
		return stx.JsonError(http.StatusBadRequest, errors.New("candidate is required"))
	}

	formDTO := &ChallengeDTO{
		Caller:    request.Caller,
		Candidate: stateDTOFromForm(request.Candidate),
	}

	if err := a.watchtower.Challenge(formDTO); err != nil {
		return stx.JsonError(http.StatusInternalServerError, err)
	}
	return stx.Json(http.StatusOK, "ok")
}

func (a *HTTPApp) Withdraw(c echo.Context) error {
	stx := c.(*cs.ContextService)
	request := &req.WithdrawForm{}
	if err := stx.BindToRequest(request); err != nil {
		return stx.JsonError(http.StatusBadRequest, err)
	}
	if request.Finalize == nil {
		return stx.JsonError(http.StatusBadRequest, errors.New("finalize is required"))
	}

	formDTO := &WithdrawDTO{
		Caller:   request.Caller,
		Finalize: stateDTOFromForm(request.Finalize),
	}

	if err := a.watchtower.Withdraw(formDTO); err != nil {
		return stx.JsonError(http.StatusInternalServerError, err)
	}
	return stx.Json(http.StatusOK, "ok")
}

func (a *HTTPApp) GetPendingRequest(c echo.Context) error {
	stx := c.(*cs.ContextService)
	request := &req.WalletForm{}
	if err := stx.BindToRequest(request); err != nil {
		return stx.JsonError(http.StatusBadRequest, err)
	}

	pending, err := a.watchtower.GetPendingRequest(request.Wallet)
	if err != nil {
		return stx.JsonError(http.StatusInternalServerError, err)
	}
	return stx.Json(http.StatusOK, pending)
}

func (a *HTTPApp) GetVaultBalance(c echo.Context) error {
	stx := c.(*cs.ContextService)
	request := &req.AssetForm{}
	if err := stx.BindToRequest(request); err != nil {
		return stx.JsonError(http.StatusBadRequest, err)
	}

	balance, err := a.watchtower.GetVaultBalance(request.Asset)
	if err != nil {
		return stx.JsonError(http.StatusInternalServerError, err)
	}
	return stx.Json(http.StatusOK, balance)
}

func stateDTOFromForm(form *req.StateForm) *StateDTO {
	return &StateDTO{
		Wallet:       form.Wallet,
		Asset:        form.Asset,
		Height:       form.Height,
		Balance:      form.Balance,
		Participants: form.Participants,
		Signatures:   form.Signatures,
	}
}
