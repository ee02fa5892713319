package router

import (
	"github.com/labstack/echo/v4"

	"github.com/clearnetwork/clearnet/client/api/http_api/handlers"
	"github.com/clearnetwork/clearnet/client/services/watchtower"
)

func SetRouter(e *echo.Echo, watchtower watchtower.WatchtowerService) {
	h := handlers.NewHTTPApp(watchtower)

	e.GET("/getUsername", h.GetUsername)
	e.GET("/getPubKey", h.GetPubKey)

	e.POST("/deposit", h.Deposit)
	e.POST("/requestWithdrawal", h.RequestWithdrawal)
	e.POST("/challenge", h.Challenge)
	e.POST("/withdraw", h.Withdraw)
	e.GET("/getPendingRequest", h.GetPendingRequest)
	e.GET("/getVaultBalance", h.GetVaultBalance)

	e.POST("/setNodeStatus", h.SetNodeStatus)

	e.POST("/submitState", h.SubmitState)
	e.POST("/signState", h.SignState)
	e.GET("/getLatestState", h.GetLatestState)

	e.POST("/saveOffset", h.SaveStateOffset)
	e.GET("/getOffset", h.GetStateOffset)
}
