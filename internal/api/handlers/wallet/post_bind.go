package wallet

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/selendra/did-wallet/internal/api"
	"github.com/selendra/did-wallet/internal/util"
	"github.com/selendra/did-wallet/internal/wallet"
)

func PostBindRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Wallet.POST("/bind", postBindHandler(s))
}

func postBindHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		receipt, err := s.Wallet.BindWallet(c.Request().Context())
		if err != nil {
			return err
		}

		return util.ValidateAndReturn(c, http.StatusOK, wallet.ReceiptToBindResponse(receipt))
	}
}
