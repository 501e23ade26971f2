package wallet

import (
	"net/http"

	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github.com/selendra/did-wallet/internal/api"
	"github.com/selendra/did-wallet/internal/types"
	"github.com/selendra/did-wallet/internal/util"
	"github.com/selendra/did-wallet/internal/wallet"
)

func PostUnlockWalletRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Wallet.POST("/unlock", postUnlockWalletHandler(s))
}

func postUnlockWalletHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		var body types.PostUnlockWalletPayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		if err := s.Wallet.Unlock(ctx, swag.StringValue(body.Password)); err != nil {
			util.LogFromContext(ctx).Debug().Err(err).Msg("Unlock failed")
			return err
		}

		return util.ValidateAndReturn(c, http.StatusOK, wallet.StateToSessionStateResponse(s.Wallet.Session().State()))
	}
}
