package preferences

import (
	"net/http"

	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github.com/selendra/did-wallet/internal/api"
	"github.com/selendra/did-wallet/internal/types"
	"github.com/selendra/did-wallet/internal/util"
)

func GetThemeRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Preferences.GET("/theme", getThemeHandler(s))
}

func getThemeHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		theme, err := s.Wallet.Theme(c.Request().Context())
		if err != nil {
			return err
		}

		return util.ValidateAndReturn(c, http.StatusOK, &types.ThemePayload{Theme: swag.String(theme)})
	}
}
