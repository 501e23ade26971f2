package wallet

import (
	"net/http"

	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github.com/selendra/did-wallet/internal/api"
	"github.com/selendra/did-wallet/internal/types"
	"github.com/selendra/did-wallet/internal/util"
)

func PostGenerateMnemonicRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Wallet.POST("/mnemonic", postGenerateMnemonicHandler(s))
}

func postGenerateMnemonicHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		var body types.PostGenerateMnemonicPayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		mnemonic, err := s.Wallet.GenerateMnemonic(ctx, int(body.Words))
		if err != nil {
			return err
		}

		return util.ValidateAndReturn(c, http.StatusOK, &types.MnemonicResponse{
			Mnemonic: swag.String(mnemonic),
		})
	}
}
