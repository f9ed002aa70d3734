package server

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfrund/fleetconsole/internal/app"
	"github.com/nfrund/fleetconsole/internal/config"
	"github.com/nfrund/fleetconsole/internal/domain"
	"github.com/nfrund/fleetconsole/internal/pubsub"
	"github.com/nfrund/fleetconsole/internal/session"
	"github.com/nfrund/fleetconsole/internal/testutils"
)

func TestHTTPErrorHandler_WithStackTrace(t *testing.T) {
	// --- Setup ---
	e := echo.New()

	// 1. Capture log output
	// We temporarily redirect slog's output to a buffer to inspect it.
	var logBuffer bytes.Buffer
	// Create a new logger that writes to our buffer
	handler := slog.NewTextHandler(&logBuffer, &slog.HandlerOptions{
		AddSource: true,
	})
	logger := slog.New(handler)
	// Store the original default logger and defer its restoration
	originalLogger := slog.Default()
	slog.SetDefault(logger)
	defer slog.SetDefault(originalLogger)

	// 2. Set up the error handler we want to test
	setupErrorHandling(e)

	// 3. Define a route that will always produce an unhandled error
	e.GET("/test-unhandled-error", func(c echo.Context) error {
		// This is the kind of error that should trigger our stack trace logging.
		return errors.New("a deliberate unhandled error occurred")
	})

	// --- Act ---
	req := httptest.NewRequest(http.MethodGet, "/test-unhandled-error", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	// --- Assert ---
	// First, check that the HTTP response is correct (a 500 error)
	require.Equal(t, http.StatusInternalServerError, rec.Code, "Expected a 500 Internal Server Error response")

	// Now, check the captured log output
	logOutput := logBuffer.String()

	// Assert that the log contains the key pieces of information
	assert.Contains(t, logOutput, "Internal Server Error (Unhandled)", "Log message should indicate an unhandled error")
	assert.Contains(t, logOutput, "error=\"a deliberate unhandled error occurred\"", "Log should contain the original error message")
	assert.Contains(t, logOutput, "stack_trace=", "Log must contain the stack_trace field")

	// A good stack trace will contain the path to the Go runtime and this test file.
	// This is a strong indicator that a real stack trace was captured.
	assert.Contains(t, logOutput, "runtime/debug/stack.go", "Stack trace should originate from the debug package")
	assert.Contains(t, logOutput, "internal/server/server_test.go", "Stack trace should point back to this test file")
}

func TestHTTPErrorHandler_HTTPErrorsPassThrough(t *testing.T) {
	e := echo.New()
	setupErrorHandling(e)
	e.GET("/teapot", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusTeapot, "short and stout")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/teapot", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Contains(t, rec.Body.String(), "short and stout")
}

func newTestServer(t *testing.T, appName string) *Server {
	t.Helper()
	cfg := testutils.ConfigForTests(t, appName, testutils.NewBackend(t).URL)
	i := app.New(cfg, afero.NewMemMapFs())
	t.Cleanup(func() { i.Shutdown() })

	deps, err := app.ResolveDependencies(i)
	require.NoError(t, err)
	s, err := New(deps)
	require.NoError(t, err)
	return s
}

func TestNewRefusesMissingSessionSecret(t *testing.T) {
	cfg := testutils.ConfigForTests(t, "admin", "http://localhost:10060")
	cfg.SessionSecret = ""
	i := app.New(cfg, afero.NewMemMapFs())
	t.Cleanup(func() { i.Shutdown() })

	deps, err := app.ResolveDependencies(i)
	require.NoError(t, err)
	_, err = New(deps)
	assert.ErrorIs(t, err, config.ErrNoSessionSecret)
}

type browser struct {
	s   *Server
	jar map[string]*http.Cookie
}

func (b *browser) do(method, target string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req.RemoteAddr = "192.0.2.10:1234"
	for _, c := range b.jar {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	b.s.E.ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		b.jar[c.Name] = c
	}
	return rec
}

func TestServerRoutes(t *testing.T) {
	b := &browser{s: newTestServer(t, "admin"), jar: map[string]*http.Cookie{}}

	t.Run("health", func(t *testing.T) {
		rec := b.do(http.MethodGet, "/health", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"ok","app":"admin"}`, rec.Body.String())
		assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
	})

	t.Run("index redirect", func(t *testing.T) {
		rec := b.do(http.MethodGet, "/", nil)
		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/devices", rec.Header().Get(echo.HeaderLocation))
	})

	t.Run("unknown path", func(t *testing.T) {
		rec := b.do(http.MethodGet, "/nowhere", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("rejected login", func(t *testing.T) {
		rec := b.do(http.MethodPost, "/login", url.Values{"username": {"alice"}, "password": {"wrong"}})
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get(echo.HeaderLocation))

		rec = b.do(http.MethodGet, "/login", nil)
		assert.Contains(t, rec.Body.String(), "Invalid username or password.")
	})

	t.Run("login then logout", func(t *testing.T) {
		rec := b.do(http.MethodPost, "/login", url.Values{"username": {"alice"}, "password": {"secret"}})
		require.Equal(t, http.StatusSeeOther, rec.Code)

		rec = b.do(http.MethodGet, "/models", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Signed in as alice")
		assert.Contains(t, rec.Body.String(), `data-layouts="admin/AdminView"`)

		rec = b.do(http.MethodPost, "/logout", nil)
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login", rec.Header().Get(echo.HeaderLocation))

		rec = b.do(http.MethodGet, "/models", nil)
		assert.NotContains(t, rec.Body.String(), "Signed in as")
	})
}

func TestWatchSessionsLogsChanges(t *testing.T) {
	var logBuffer bytes.Buffer
	originalLogger := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&logBuffer, nil)))
	defer slog.SetDefault(originalLogger)

	bus := pubsub.NewWatermillBridge()
	t.Cleanup(func() { _ = bus.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, watchSessions(ctx, bus))

	ev := session.Event{Kind: session.KindLogin, Authenticated: true, User: domain.Profile{"username": "alice"}}
	require.NoError(t, pubsub.Publish(ctx, bus, session.Changed, "client-1", ev))

	out := logBuffer.String()
	assert.Contains(t, out, `"msg":"Session changed"`)
	assert.Contains(t, out, `"client_id":"client-1"`)
	assert.Contains(t, out, `"user":"alice"`)
}
