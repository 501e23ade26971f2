package wallet

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/selendra/did-wallet/internal/api"
	"github.com/selendra/did-wallet/internal/util"
	"github.com/selendra/did-wallet/internal/wallet"
)

func DeleteAuthRequestRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Wallet.DELETE("/auth-request", deleteAuthRequestHandler(s))
}

func deleteAuthRequestHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		state := s.Wallet.Session().DismissAuthentication()

		return util.ValidateAndReturn(c, http.StatusOK, wallet.StateToSessionStateResponse(state))
	}
}
