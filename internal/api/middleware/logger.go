package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/selendra/did-wallet/internal/util"
)

type LoggerConfig struct {
	Skipper           middleware.Skipper
	Level             zerolog.Level
	LogRequestHeader  bool
	LogRequestQuery   bool
	LogResponseHeader bool
}

var DefaultLoggerConfig = LoggerConfig{
	Skipper: middleware.DefaultSkipper,
	Level:   zerolog.DebugLevel,
}

// sensitiveHeaders are redacted when headers are logged.
var sensitiveHeaders = map[string]struct{}{
	http.CanonicalHeaderKey(echo.HeaderAuthorization): {},
	http.CanonicalHeaderKey(echo.HeaderCookie):        {},
	http.CanonicalHeaderKey(echo.HeaderSetCookie):     {},
}

func Logger() echo.MiddlewareFunc {
	return LoggerWithConfig(DefaultLoggerConfig)
}

// LoggerWithConfig attaches a request scoped zerolog logger to the request context,
// so util.LogFromContext carries the request id, and logs every finished request.
func LoggerWithConfig(config LoggerConfig) echo.MiddlewareFunc {
	if config.Skipper == nil {
		config.Skipper = DefaultLoggerConfig.Skipper
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if config.Skipper(c) {
				return next(c)
			}

			req := c.Request()
			res := c.Response()

			id := req.Header.Get(echo.HeaderXRequestID)
			if id == "" {
				id = res.Header().Get(echo.HeaderXRequestID)
			}

			l := log.With().
				Str("id", id).
				Str("host", req.Host).
				Str("method", req.Method).
				Str("url", req.URL.Path).
				Logger()

			ctx := context.WithValue(req.Context(), util.CTXKeyRequestID, id)
			c.SetRequest(req.WithContext(l.WithContext(ctx)))

			start := time.Now()
			if err := next(c); err != nil {
				c.Error(err)
			}

			e := l.WithLevel(config.Level).
				Int("status", res.Status).
				Int64("bytes_out", res.Size).
				Dur("duration", time.Since(start)).
				Str("remote_ip", c.RealIP())

			if config.LogRequestQuery {
				e = e.Str("query", req.URL.RawQuery)
			}
			if config.LogRequestHeader {
				e = e.Dict("req_header", headerDict(req.Header))
			}
			if config.LogResponseHeader {
				e = e.Dict("res_header", headerDict(res.Header()))
			}

			e.Msg("Request")

			return nil
		}
	}
}

func headerDict(h http.Header) *zerolog.Event {
	dict := zerolog.Dict()
	for k, v := range h {
		if _, ok := sensitiveHeaders[http.CanonicalHeaderKey(k)]; ok {
			dict = dict.Str(k, "*****")
			continue
		}
		dict = dict.Str(k, strings.Join(v, ", "))
	}

	return dict
}
