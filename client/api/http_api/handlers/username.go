package handlers

import (
	"encoding/hex"
	"net/http"

	"github.com/labstack/echo/v4"

	cs "github.com/clearnetwork/clearnet/client/api/http_api/context_service"
)

func (a *HTTPApp) GetUsername(c echo.Context) error {
	stx := c.(*cs.ContextService)
	return stx.Json(http.StatusOK, a.watchtower.GetUsername())
}

func (a *HTTPApp) GetPubKey(c echo.Context) error {
	stx := c.(*cs.ContextService)
	return stx.Json(http.StatusOK, hex.EncodeToString(a.watchtower.GetPubKey()))
}
