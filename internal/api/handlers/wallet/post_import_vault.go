package wallet

import (
	"io"
	"net/http"

	"github.com/gabriel-vasile/mimetype"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/selendra/did-wallet/internal/api"
	"github.com/selendra/did-wallet/internal/api/httperrors"
	"github.com/selendra/did-wallet/internal/util"
	"github.com/selendra/did-wallet/internal/wallet"
)

const importFormField = "file"

func PostImportVaultRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Wallet.POST("/import", postImportVaultHandler(s))
}

// postImportVaultHandler replaces the stored vault with an uploaded wallet
// JSON document. The session ends up locked.
func postImportVaultHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		fh, err := c.FormFile(importFormField)
		if err != nil {
			log.Debug().Err(err).Msg("Missing vault file in upload")
			return echo.NewHTTPError(http.StatusBadRequest, "missing form file "+importFormField)
		}

		if fh.Size == 0 {
			return httperrors.ErrBadRequestZeroFileSize
		}

		file, err := fh.Open()
		if err != nil {
			return errors.Wrap(err, "failed to open uploaded file")
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			return errors.Wrap(err, "failed to read uploaded file")
		}

		mime := mimetype.Detect(data)
		if !mime.Is(echo.MIMEApplicationJSON) {
			log.Debug().Str("mimetype", mime.String()).Msg("Rejected vault upload")
			return httperrors.ErrUnsupportedMediaTypeVaultUpload
		}

		if _, err := s.Wallet.ImportVault(ctx, data); err != nil {
			return err
		}

		return util.ValidateAndReturn(c, http.StatusOK, wallet.StateToSessionStateResponse(s.Wallet.Session().State()))
	}
}
