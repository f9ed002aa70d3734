package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signIn(e *echo.Echo, path, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, nil)
	req.RemoteAddr = ip + ":40000"
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRateLimiter_SharedAcrossSignInRoutes(t *testing.T) {
	e := echo.New()
	ok := func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }

	limiter := RateLimiter()
	e.POST("/login", ok, limiter)
	e.POST("/register", ok, limiter)
	e.POST("/logout", ok)

	const ip = "198.51.100.7"
	for i := 0; i < 10; i++ {
		path := "/login"
		if i%2 == 1 {
			path = "/register"
		}
		require.Equal(t, http.StatusNoContent, signIn(e, path, ip).Code, "attempt %d", i+1)
	}

	for _, path := range []string{"/login", "/register"} {
		rec := signIn(e, path, ip)
		assert.Equal(t, http.StatusTooManyRequests, rec.Code, path)
		assert.Contains(t, rec.Body.String(), "Too many requests")
	}

	assert.Equal(t, http.StatusNoContent, signIn(e, "/logout", ip).Code, "unguarded routes are not limited")
	assert.Equal(t, http.StatusNoContent, signIn(e, "/login", "198.51.100.8").Code, "other clients keep their budget")
}
