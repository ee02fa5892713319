package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	. "github.com/clearnetwork/clearnet/client/api/dto"
	cs "github.com/clearnetwork/clearnet/client/api/http_api/context_service"
	req "github.com/clearnetwork/clearnet/client/api/http_api/requests"
)

func (a *HTTPApp) SetNodeStatus(c echo.Context) error {
	stx := c.(*cs.ContextService)
	formDTO := &NodeStatusDTO{}
	if err := stx.BindToDTO(&req.NodeStatusForm{}, formDTO); err != nil {
		return stx.JsonError(http.StatusBadRequest, err)
	}

	if err := a.watchtower.SetNodeStatus(formDTO); err != nil {
		return stx.JsonError(http.StatusInternalServerError, err)
	}
	return stx.Json(http.StatusOK, "ok")
}
