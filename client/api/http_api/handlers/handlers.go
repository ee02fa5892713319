package handlers

import (
	"github.com/clearnetwork/clearnet/client/services/watchtower"
)

type HTTPApp struct {
	watchtower watchtower.WatchtowerService
}

func NewHTTPApp(watchtower watchtower.WatchtowerService) *HTTPApp {
	return &HTTPApp{
		watchtower: watchtower,
	}
}
