package server

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/labstack/echo/v4"

	"github.com/nfrund/fleetconsole/internal/middleware"
)

// setupErrorHandling installs an error handler that logs unhandled errors
// with a stack trace. HTTP errors raised on purpose go through echo's
// default handler.
func setupErrorHandling(e *echo.Echo) {
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			e.DefaultHTTPErrorHandler(err, c)
			return
		}

		logger := middleware.FromContext(c.Request().Context())
		logger.Error("Internal Server Error (Unhandled)",
			"error", err.Error(),
			"path", c.Request().URL.Path,
			slog.String("stack_trace", string(debug.Stack())),
		)
		if c.Response().Committed {
			return
		}
		if err := c.String(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)); err != nil {
			logger.Error("Failed to write error response", "error", err)
		}
	}
}
