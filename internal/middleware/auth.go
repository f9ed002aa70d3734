package middleware

import (
	"net/http"

	echosession "github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"

	"github.com/nfrund/fleetconsole/internal/pubsub"
	"github.com/nfrund/fleetconsole/internal/router"
	"github.com/nfrund/fleetconsole/internal/session"
	"github.com/nfrund/fleetconsole/internal/storage"
)

const (
	sessionContextKey = "console_session"
	historyContextKey = "console_history"
)

// Session restores the console session carried by the request's cookie and
// makes it available to handlers through SessionFrom. Each request gets a
// History starting at the route it asked for, so handlers can see where a
// session operation navigated. It must run after the echo-contrib session
// middleware.
func Session(table *router.Table, publisher pubsub.Publisher) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, err := echosession.Get(storage.SessionName, c)
			if err != nil {
				FromContext(c.Request().Context()).Error("Failed to load cookie session", "error", err)
				return echo.NewHTTPError(http.StatusInternalServerError, "session unavailable")
			}
			store := storage.NewCookieStorage(sess, c.Request(), c.Response())
			clientID, err := store.ClientID()
			if err != nil {
				return err
			}

			start := ""
			if m, err := table.Resolve(c.Request().URL.Path); err == nil {
				start = m.Entry.Name
			}
			history := router.NewHistory(table, start)

			ctx := c.Request().Context()
			s := session.Restore(ctx, store,
				session.WithKey(clientID),
				session.WithPublisher(publisher),
				session.WithNavigator(history),
				session.WithLogger(FromContext(ctx).With("client_id", clientID)),
			)

			c.Set(sessionContextKey, s)
			c.Set(historyContextKey, history)
			return next(c)
		}
	}
}

// SessionFrom returns the session installed by the Session middleware.
func SessionFrom(c echo.Context) (*session.Session, bool) {
	s, ok := c.Get(sessionContextKey).(*session.Session)
	return s, ok
}

// HistoryFrom returns the request's navigation history.
func HistoryFrom(c echo.Context) (*router.History, bool) {
	h, ok := c.Get(historyContextKey).(*router.History)
	return h, ok
}
