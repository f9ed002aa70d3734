package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health answers GET /health.
func Health(app string) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, HealthResponse{Status: "ok", App: app})
	}
}
