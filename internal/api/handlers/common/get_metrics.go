package common

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/selendra/did-wallet/internal/api"
)

func GetMetricsRoute(s *api.Server) *echo.Route {
	return s.Router.Root.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: s.Metrics.Registry,
	}))
}
