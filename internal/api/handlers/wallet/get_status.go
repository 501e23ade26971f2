package wallet

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/selendra/did-wallet/internal/api"
	"github.com/selendra/did-wallet/internal/util"
	"github.com/selendra/did-wallet/internal/wallet"
)

func GetStatusRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Wallet.GET("/status", getStatusHandler(s))
}

func getStatusHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		return util.ValidateAndReturn(c, http.StatusOK, wallet.StateToSessionStateResponse(s.Wallet.Session().State()))
	}
}
