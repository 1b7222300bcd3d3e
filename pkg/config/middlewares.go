package config

import (
	"net/http"

	"github.com/anonto42/yatube/backend/pkg/telemetry"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"
)

// MaxBodySize bounds request bodies. It leaves room for a base64-encoded image
// of serializers.MaxImageSize plus the rest of a post.
const MaxBodySize = "15M"

// SetupMiddleware installs the global middleware chain. Paths are normalised to
// a trailing slash before routing.
func SetupMiddleware(e *echo.Echo, metrics *telemetry.Metrics) {
	e.Pre(middleware.AddTrailingSlash())
	if metrics != nil {
		e.Use(metrics.Middleware())
	}
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			event := log.Info()
			if v.Status >= http.StatusInternalServerError {
				event = log.Error()
			}
			if v.Error != nil {
				event = event.Err(v.Error)
			}
			event.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(MaxBodySize))
	e.Use(middleware.CORS())
	log.Info().Msg("Global middleware configured.")
}
