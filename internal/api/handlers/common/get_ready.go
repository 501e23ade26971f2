package common

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/selendra/did-wallet/internal/api"
	"github.com/selendra/did-wallet/internal/util"
)

// statusNotReady is used instead of 503 so it is not mistaken for a proxy error.
const statusNotReady = 521

func GetReadyRoute(s *api.Server) *echo.Route {
	return s.Router.Management.GET("/ready", getReadyHandler(s))
}

// Readiness check
// This endpoint returns 200 when our Service is ready to serve traffic (i.e. the wallet session was restored).
func getReadyHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !s.Ready() {
			util.LogFromEchoContext(c).Warn().Msg("Readiness check failed, server is not fully initialized")
			return c.String(statusNotReady, "Not ready.")
		}

		if s.Wallet.Session().State().CheckingAuth {
			util.LogFromEchoContext(c).Debug().Msg("Readiness check failed, session not restored yet")
			return c.String(statusNotReady, "Not ready.")
		}

		return c.String(http.StatusOK, "Ready.")
	}
}
