package middleware

import (
	"context"

	"sofida/business/discount"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const TraceHeader = "X-Trace-ID"

// Trace attaches a trace id to every request context so engine-level debug
// logs can be correlated with HTTP responses. Incoming ids are honored.
func Trace() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tid := c.Request().Header.Get(TraceHeader)
			if tid == "" {
				tid = uuid.NewString()
			}

			ctx := context.WithValue(c.Request().Context(), discount.TraceIDKey, tid)
			c.SetRequest(c.Request().WithContext(ctx))
			c.Response().Header().Set(TraceHeader, tid)

			return next(c)
		}
	}
}
