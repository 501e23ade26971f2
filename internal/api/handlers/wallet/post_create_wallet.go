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

func PostCreateWalletRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Wallet.POST("/create", postCreateWalletHandler(s))
}

// postCreateWalletHandler creates the device wallet. Airdrop and bind failures
// are reported per step with 201, the wallet itself exists at that point.
func postCreateWalletHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		var body types.PostCreateWalletPayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		result, err := s.Wallet.CreateWallet(ctx, wallet.CreateRequest{
			Mnemonic:       body.Mnemonic,
			Words:          int(body.Words),
			Password:       swag.StringValue(body.Password),
			RequestAirdrop: body.RequestAirdrop,
			Bind:           body.Bind,
		})
		if err != nil {
			log.Debug().Err(err).Msg("Failed to create wallet")
			return err
		}

		return util.ValidateAndReturn(c, http.StatusCreated, result.ToCreateWalletResponse())
	}
}
