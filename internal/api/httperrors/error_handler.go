package httperrors

import (
	"errors"
	"net/http"

	"github.com/go-openapi/swag"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/selendra/did-wallet/internal/types"
)

const headerAcceptLanguage = "Accept-Language"

type HTTPErrorHandlerConfig struct {
	HideInternalServerErrorDetails bool
	// Mapper turns domain errors into HTTP errors; nil results fall through to a 500.
	Mapper func(err error) *HTTPError
	// Translate renders a message id for the given Accept-Language header.
	Translate func(messageID string, acceptLanguage string) string
}

func HTTPErrorHandlerWithConfig(cfg HTTPErrorHandlerConfig) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var (
			he  *HTTPError
			hve *HTTPValidationError
			ee  *echo.HTTPError
		)

		switch {
		case errors.As(err, &hve):
			writeJSON(c, int(swag.Int64Value(hve.Code)), hve)
			return
		case errors.As(err, &he):
			// fine as is
		case errors.As(err, &ee):
			he = NewFromEcho(ee)
		default:
			if cfg.Mapper != nil {
				he = cfg.Mapper(err)
			}
			if he == nil {
				he = NewHTTPError(http.StatusInternalServerError, types.PublicHTTPErrorTypeGeneric, http.StatusText(http.StatusInternalServerError))
				if !cfg.HideInternalServerErrorDetails {
					he.Detail = err.Error()
				}
			}
		}

		code := int(swag.Int64Value(he.Code))
		if code >= http.StatusInternalServerError {
			log.Ctx(c.Request().Context()).Error().Err(err).Msg("Request failed with internal error")
		}

		if he.MessageID != "" && cfg.Translate != nil {
			he = he.Wrap(he.Internal)
			he.Title = swag.String(cfg.Translate(he.MessageID, c.Request().Header.Get(headerAcceptLanguage)))
		}

		writeJSON(c, code, he)
	}
}

func writeJSON(c echo.Context, code int, body any) {
	var err error
	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, body)
	}
	if err != nil {
		log.Ctx(c.Request().Context()).Warn().Err(err).Msg("Failed to write error response")
	}
}
