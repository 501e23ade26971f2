package wallet

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/selendra/did-wallet/internal/api"
)

func GetExportVaultRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Wallet.GET("/export", getExportVaultHandler(s))
}

// getExportVaultHandler downloads the encrypted vault. It works while locked,
// the document is only usable with the password.
func getExportVaultHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		export, err := s.Wallet.ExportVault(c.Request().Context())
		if err != nil {
			return err
		}

		c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", export.Filename))

		return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, export.Data)
	}
}
