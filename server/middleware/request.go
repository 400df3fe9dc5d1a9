package middleware

import (
	"log/slog"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/hrygo/ctparse/server/internal/observability"
)

// HeaderRequestID carries the request ID on requests and responses.
const HeaderRequestID = echo.HeaderXRequestID

// RequestContext attaches an observability.RequestContext to each request,
// echoes its ID in the response and records HTTP metrics.
func RequestContext(logger *slog.Logger, metrics *observability.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			route := c.Path()
			var reqCtx *observability.RequestContext
			if id := c.Request().Header.Get(HeaderRequestID); id != "" {
				reqCtx = observability.NewRequestContextWithID(logger, id, route)
			} else {
				reqCtx = observability.NewRequestContext(logger, route)
			}
			c.Response().Header().Set(HeaderRequestID, reqCtx.RequestID)
			c.SetRequest(c.Request().WithContext(observability.WithRequestContext(c.Request().Context(), reqCtx)))

			metrics.InFlight.Inc()
			err := next(c)
			metrics.InFlight.Dec()
			if err != nil {
				// Let echo render the error so the recorded status is final.
				c.Error(err)
			}

			status := c.Response().Status
			metrics.RequestsTotal.WithLabelValues(route, c.Request().Method, strconv.Itoa(status)).Inc()
			metrics.RequestDuration.WithLabelValues(route).Observe(reqCtx.Duration().Seconds())
			reqCtx.Debug("request served",
				slog.Int("status", status),
				slog.Int64(observability.LogFieldDuration, reqCtx.DurationMs()),
			)
			return nil
		}
	}
}
