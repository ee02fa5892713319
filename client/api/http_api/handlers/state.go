package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	. "github.com/clearnetwork/clearnet/client/api/dto"
	cs "github.com/clearnetwork/clearnet/client/api/http_api/context_service"
	req "github.com/clearnetwork/clearnet/client/api/http_api/requests"
)

func (a *HTTPApp) SubmitState(c echo.Context) error {
	stx := c.(*cs.ContextService)
	formDTO := &StateDTO{}
	if err := stx.BindToDTO(&req.StateForm{}, formDTO); err != nil {
		return stx.JsonError(http.StatusBadRequest, err)
	}

	if err := a.watchtower.SubmitState(formDTO); err != nil {
		return stx.JsonError(http.StatusInternalServerError, err)
	}
	return stx.Json(http.StatusOK, "ok")
}

func (a *HTTPApp) SignState(c echo.Context) error {
	stx := c.(*cs.ContextService)
	formDTO := &StateDTO{}
	if err := stx.BindToDTO(&req.StateForm{}, formDTO); err != nil {
		return stx.JsonError(http.StatusBadRequest, err)
	}

	signed, err := a.watchtower.SignState(formDTO)
	if err != nil {
		return stx.JsonError(http.StatusInternalServerError, err)
	}
	return stx.Json(http.StatusOK, signed)
}

func (a *HTTPApp) GetLatestState(c echo.Context) error {
	stx := c.(*cs.ContextService)
	request := &req.WalletForm{}
	if err := stx.BindToRequest(request); err != nil {
		return stx.JsonError(http.StatusBadRequest, err)
	}

	latest, err := a.watchtower.GetLatestState(request.Wallet)
	if err != nil {
		return stx.JsonError(http.StatusInternalServerError, err)
	}
	return stx.Json(http.StatusOK, latest)
}

func (a *HTTPApp) SaveStateOffset(c echo.Context) error {
	stx := c.(*cs.ContextService)
	formDTO := &StateOffsetDTO{}
	if err := stx.BindToDTO(&req.StateOffsetForm{}, formDTO); err != nil {
		return stx.JsonError(http.StatusBadRequest, err)
	}

	if err := a.watchtower.SaveOffset(formDTO); err != nil {
		return stx.JsonError(http.StatusInternalServerError, err)
	}
	return stx.Json(http.StatusOK, "ok")
}

func (a *HTTPApp) GetStateOffset(c echo.Context) error {
	stx := c.(*cs.ContextService)

	offset, err := a.watchtower.GetStateOffset()
	if err != nil {
		return stx.JsonError(http.StatusInternalServerError, err)
	}
	return stx.Json(http.StatusOK, offset)
}
