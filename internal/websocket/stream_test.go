package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/gorilla/sessions"
	echosession "github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfrund/fleetconsole/internal/domain"
	"github.com/nfrund/fleetconsole/internal/middleware"
	"github.com/nfrund/fleetconsole/internal/pubsub"
	"github.com/nfrund/fleetconsole/internal/router"
	"github.com/nfrund/fleetconsole/internal/session"
)

func TestSessionStream(t *testing.T) {
	table, err := router.ForApp("admin")
	require.NoError(t, err)

	bus := pubsub.NewWatermillBridge()
	t.Cleanup(func() { _ = bus.Close() })

	stream := NewSessionStream()
	require.NoError(t, stream.Run(context.Background(), bus))

	e := echo.New()
	e.Use(echosession.Middleware(sessions.NewCookieStore([]byte("a-very-secret-key-for-testing-!"))))
	e.Use(middleware.Session(table, bus))
	e.GET("/ws/session", stream.Handler)
	e.POST("/login", func(c echo.Context) error {
		s, _ := middleware.SessionFrom(c)
		if err := s.Login(c.Request().Context(), domain.Profile{"username": "alice"}, "tok"); err != nil {
			return err
		}
		return c.String(http.StatusOK, s.Key())
	})

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)

	// First request creates the browser's cookie session.
	resp, err := http.Post(srv.URL+"/login", "text/plain", nil)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	cookies := resp.Cookies()
	require.NotEmpty(t, cookies)

	// Keep the last value of each cookie, as a browser would.
	latest := map[string]string{}
	for _, c := range cookies {
		latest[c.Name] = c.Value
	}
	header := http.Header{}
	for name, value := range latest {
		header.Add("Cookie", name+"="+value)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http")+"/ws/session", &websocket.DialOptions{HTTPHeader: header})
	require.NoError(t, err)
	defer conn.CloseNow()

	// Publishing for another key must not reach this tab.
	require.NoError(t, pubsub.Publish(ctx, bus, session.Changed, "someone-else", session.Event{Kind: session.KindLogin}))

	req, err := http.NewRequest(http.MethodPost, srv.URL+"/login", nil)
	require.NoError(t, err)
	req.Header = header.Clone()
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	_, data, err := conn.Read(ctx)
	require.NoError(t, err)

	var ev session.Event
	require.NoError(t, json.Unmarshal(data, &ev))
	assert.Equal(t, session.KindLogin, ev.Kind)
	assert.True(t, ev.Authenticated)
	assert.Equal(t, "alice", ev.User["username"])
}

func TestSessionStreamRequiresSession(t *testing.T) {
	stream := NewSessionStream()
	e := echo.New()
	e.GET("/ws/session", stream.Handler)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws/session", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
