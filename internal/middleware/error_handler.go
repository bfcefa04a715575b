package middleware

import (
	"net/http"

	"sofida/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ErrorHandler is the central Echo error handler: echo.HTTPError passes
// through with its status, anything else becomes an opaque 500.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := any("internal server error")

	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		message = he.Message
	} else {
		logger.Error("unhandled error", "path", c.Path(), "error", err)
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, echo.Map{"message": message})
}
