package wallet

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/selendra/did-wallet/internal/api"
)

func DeleteWalletRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Wallet.DELETE("", deleteWalletHandler(s))
}

// deleteWalletHandler forgets the wallet on this device. The UI theme is kept.
func deleteWalletHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := s.Wallet.Forget(c.Request().Context()); err != nil {
			return err
		}

		return c.NoContent(http.StatusNoContent)
	}
}
