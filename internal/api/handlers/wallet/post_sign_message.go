package wallet

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github.com/selendra/did-wallet/internal/api"
	"github.com/selendra/did-wallet/internal/types"
	"github.com/selendra/did-wallet/internal/util"
)

func PostSignMessageRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Wallet.POST("/sign", postSignMessageHandler(s))
}

func postSignMessageHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		var body types.PostSignMessagePayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		addr, sig, err := s.Wallet.SignMessage(ctx, []byte(swag.StringValue(body.Message)))
		if err != nil {
			return err
		}

		return util.ValidateAndReturn(c, http.StatusOK, &types.SignMessageResponse{
			Address:   swag.String(addr),
			Signature: swag.String(hexutil.Encode(sig)),
		})
	}
}
