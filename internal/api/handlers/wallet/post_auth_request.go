package wallet

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/selendra/did-wallet/internal/api"
	"github.com/selendra/did-wallet/internal/util"
	"github.com/selendra/did-wallet/internal/wallet"
)

func PostAuthRequestRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Wallet.POST("/auth-request", postAuthRequestHandler(s))
}

// postAuthRequestHandler asks for the unlock prompt, e.g. before a signature.
// It is a no-op when the session is unlocked.
func postAuthRequestHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		state := s.Wallet.Session().RequestAuthentication()

		return util.ValidateAndReturn(c, http.StatusOK, wallet.StateToSessionStateResponse(state))
	}
}
