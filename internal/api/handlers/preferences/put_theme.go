package preferences

import (
	"net/http"

	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github.com/selendra/did-wallet/internal/api"
	"github.com/selendra/did-wallet/internal/types"
	"github.com/selendra/did-wallet/internal/util"
)

func PutThemeRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Preferences.PUT("/theme", putThemeHandler(s))
}

func putThemeHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		var body types.ThemePayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		if err := s.Wallet.SetTheme(c.Request().Context(), swag.StringValue(body.Theme)); err != nil {
			return err
		}

		return util.ValidateAndReturn(c, http.StatusOK, &body)
	}
}
