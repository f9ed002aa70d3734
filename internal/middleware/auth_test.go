package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/sessions"
	echosession "github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfrund/fleetconsole/internal/domain"
	"github.com/nfrund/fleetconsole/internal/router"
)

const testSessionSecret = "a-very-secret-key-for-testing-!"

func newSessionEcho(t *testing.T) *echo.Echo {
	t.Helper()
	table, err := router.ForApp("admin")
	require.NoError(t, err)

	e := echo.New()
	e.Use(echosession.Middleware(sessions.NewCookieStore([]byte(testSessionSecret))))
	e.Use(Session(table, nil))

	e.POST("/login", func(c echo.Context) error {
		s, ok := SessionFrom(c)
		require.True(t, ok)
		require.NoError(t, s.Login(c.Request().Context(), domain.Profile{"username": "alice"}, "tok"))
		return c.NoContent(http.StatusNoContent)
	})
	e.POST("/logout", func(c echo.Context) error {
		s, _ := SessionFrom(c)
		require.NoError(t, s.Logout(c.Request().Context()))
		h, ok := HistoryFrom(c)
		require.True(t, ok)
		cur, _ := h.Current()
		return c.String(http.StatusOK, cur.Path)
	})
	e.GET("/devices", func(c echo.Context) error {
		s, _ := SessionFrom(c)
		h, _ := HistoryFrom(c)
		cur, _ := h.Current()
		if !s.IsAuthenticated() {
			return c.String(http.StatusUnauthorized, cur.Name)
		}
		return c.String(http.StatusOK, s.User().String()+"@"+cur.Name)
	})
	return e
}

func cookiesFrom(rec *httptest.ResponseRecorder) []*http.Cookie {
	return rec.Result().Cookies()
}

func do(e *echo.Echo, method, target string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// lastCookies keeps the final value of each cookie name, as a browser would.
func lastCookies(cookies []*http.Cookie) []*http.Cookie {
	byName := map[string]*http.Cookie{}
	var order []string
	for _, c := range cookies {
		if _, seen := byName[c.Name]; !seen {
			order = append(order, c.Name)
		}
		byName[c.Name] = c
	}
	out := make([]*http.Cookie, 0, len(order))
	for _, name := range order {
		out = append(out, byName[name])
	}
	return out
}

func TestSessionMiddleware(t *testing.T) {
	e := newSessionEcho(t)

	t.Run("anonymous request", func(t *testing.T) {
		rec := do(e, http.MethodGet, "/devices", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "devices", rec.Body.String())
	})

	t.Run("login persists in the cookie", func(t *testing.T) {
		rec := do(e, http.MethodPost, "/login", nil)
		require.Equal(t, http.StatusNoContent, rec.Code)
		jar := lastCookies(cookiesFrom(rec))
		require.NotEmpty(t, jar)

		rec = do(e, http.MethodGet, "/devices", jar)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "alice@devices", rec.Body.String())

		rec = do(e, http.MethodPost, "/logout", jar)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "/login", rec.Body.String())
		jar = lastCookies(cookiesFrom(rec))

		rec = do(e, http.MethodGet, "/devices", jar)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestLogger(t *testing.T) {
	e := echo.New()
	e.GET("/", func(c echo.Context) error {
		assert.NotNil(t, FromContext(c.Request().Context()))
		return c.NoContent(http.StatusOK)
	}, Logger)

	rec := do(e, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotNil(t, FromContext(context.Background()))
}
