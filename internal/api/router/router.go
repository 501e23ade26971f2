package router

import (
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/selendra/did-wallet/internal/api"
	"github.com/selendra/did-wallet/internal/api/handlers"
	"github.com/selendra/did-wallet/internal/api/httperrors"
	"github.com/selendra/did-wallet/internal/api/middleware"
)

// bodyLimit covers a vault upload with room to spare.
const bodyLimit = "1M"

func Init(s *api.Server) error {
	s.Echo = echo.New()

	s.Echo.Debug = s.Config.Echo.Debug
	s.Echo.HideBanner = true
	s.Echo.HidePort = true

	s.Echo.HTTPErrorHandler = httperrors.HTTPErrorHandlerWithConfig(httperrors.HTTPErrorHandlerConfig{
		HideInternalServerErrorDetails: s.Config.Echo.HideInternalServerErrorDetails,
		Mapper:                         api.MapWalletError,
		Translate: func(messageID string, acceptLanguage string) string {
			return s.I18n.Translate(messageID, s.I18n.ParseAcceptLanguage(acceptLanguage))
		},
	})

	// ---
	// General middleware
	if s.Config.Echo.EnableTrailingSlashMiddleware {
		s.Echo.Pre(echoMiddleware.RemoveTrailingSlash())
	} else {
		log.Warn().Msg("Disabling trailing slash middleware due to environment config")
	}

	if s.Config.Echo.EnableRecoverMiddleware {
		s.Echo.Use(echoMiddleware.RecoverWithConfig(echoMiddleware.RecoverConfig{
			LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
				log.Ctx(c.Request().Context()).Error().Err(err).Bytes("stack", stack).Msg("Recovered from panic")
				return err
			},
		}))
	} else {
		log.Warn().Msg("Disabling recover middleware due to environment config")
	}

	if s.Config.Echo.EnableRequestIDMiddleware {
		s.Echo.Use(echoMiddleware.RequestID())
	} else {
		log.Warn().Msg("Disabling request ID middleware due to environment config")
	}

	if s.Config.Echo.EnableLoggerMiddleware {
		s.Echo.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
			Level:             s.Config.Logger.RequestLevel,
			LogRequestHeader:  s.Config.Logger.LogRequestHeader,
			LogRequestQuery:   s.Config.Logger.LogRequestQuery,
			LogResponseHeader: s.Config.Logger.LogResponseHeader,
			Skipper: func(c echo.Context) bool {
				// management probes are too chatty
				return strings.HasPrefix(c.Request().URL.Path, "/-/")
			},
		}))
	} else {
		log.Warn().Msg("Disabling logger middleware due to environment config")
	}

	if s.Config.Echo.EnableCORSMiddleware {
		s.Echo.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
			AllowOrigins: s.Config.Echo.AllowOrigins,
		}))
	} else {
		log.Warn().Msg("Disabling CORS middleware due to environment config")
	}

	s.Echo.Use(echoMiddleware.BodyLimit(bodyLimit))

	if s.Config.Management.EnableMetrics {
		metricsConfig := echoprometheus.MiddlewareConfig{
			Namespace:  "did_wallet",
			Subsystem:  "http",
			Registerer: s.Metrics.Registry,
			Skipper: func(c echo.Context) bool {
				return strings.HasPrefix(c.Path(), "/-/") || c.Path() == "/metrics"
			},
		}
		mw, err := metricsConfig.ToMiddleware()
		if err != nil {
			return errors.Wrap(err, "failed to create metrics middleware")
		}
		s.Echo.Use(mw)
	}

	s.Router = &api.Router{
		Routes:           nil, // will be populated by handlers.AttachAllRoutes(s)
		Root:             s.Echo.Group(""),
		Management:       s.Echo.Group("/-"),
		APIV1Wallet:      s.Echo.Group("/api/v1/wallet"),
		APIV1Preferences: s.Echo.Group("/api/v1/preferences"),
	}

	// ---
	// Finally attach our handlers
	handlers.AttachAllRoutes(s)

	return nil
}
