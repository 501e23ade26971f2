package wallet

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/selendra/did-wallet/internal/api"
	"github.com/selendra/did-wallet/internal/util"
	"github.com/selendra/did-wallet/internal/wallet"
)

func PostLockWalletRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Wallet.POST("/lock", postLockWalletHandler(s))
}

func postLockWalletHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := s.Wallet.Lock(c.Request().Context()); err != nil {
			return err
		}

		return util.ValidateAndReturn(c, http.StatusOK, wallet.StateToSessionStateResponse(s.Wallet.Session().State()))
	}
}
