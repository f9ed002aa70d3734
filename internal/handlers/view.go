package handlers

import (
	"context"
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/nfrund/fleetconsole/internal/apiclient"
	"github.com/nfrund/fleetconsole/internal/middleware"
	"github.com/nfrund/fleetconsole/internal/router"
	"github.com/nfrund/fleetconsole/internal/session"
	"github.com/nfrund/fleetconsole/internal/view"
)

// OverviewAPI fetches the home summary.
type OverviewAPI interface {
	HomeOverview(ctx context.Context) (*apiclient.Overview, error)
}

// ViewHandler serves the shell page of each view route.
type ViewHandler struct {
	app      string
	table    *router.Table
	overview OverviewAPI
}

// NewViewHandler creates a ViewHandler. overview may be nil.
func NewViewHandler(app string, table *router.Table, overview OverviewAPI) *ViewHandler {
	return &ViewHandler{app: app, table: table, overview: overview}
}

// Serve returns the handler for entry; it has the router.ViewHandler shape.
func (h *ViewHandler) Serve(entry router.Entry) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		page := view.Page{
			App:     h.app,
			Title:   view.Title(entry.Name, entry.View),
			View:    entry.View,
			Path:    entry.Path,
			Layouts: entry.Layouts,
			Flashes: view.GetFlashData(c),
			Nav:     view.NavLinks(h.table, entry.Path),
		}
		if p, err := h.table.PathFor(session.LoginRoute); err == nil {
			page.LoginPath = p
		}

		s, ok := middleware.SessionFrom(c)
		if ok {
			page.Authenticated = s.IsAuthenticated()
			page.User = s.User()
		}
		page.Content = h.content(c, entry, s)

		return c.Render(http.StatusOK, entry.View, view.Shell(ctx, page))
	}
}

func (h *ViewHandler) content(c echo.Context, entry router.Entry, s *session.Session) templ.Component {
	switch entry.Name {
	case "login":
		form := view.AuthForm{Action: "/login", Username: view.GetFormUsername(c)}
		if p, err := h.table.PathFor("register"); err == nil {
			form.AltPath, form.AltLabel = p, "Create an account"
		}
		return view.CredentialsForm(form)
	case "register":
		form := view.AuthForm{Action: "/register", Username: view.GetFormUsername(c), WithEmail: true}
		if p, err := h.table.PathFor("login"); err == nil {
			form.AltPath, form.AltLabel = p, "Back to login"
		}
		return view.CredentialsForm(form)
	case "profile":
		if s != nil && s.IsAuthenticated() {
			return view.ProfileForm(s.User())
		}
	case "home":
		if h.overview == nil {
			return nil
		}
		ctx := c.Request().Context()
		if s != nil {
			ctx = apiclient.ContextWithTokens(ctx, s)
		}
		o, err := h.overview.HomeOverview(ctx)
		if err != nil {
			middleware.FromContext(ctx).Warn("Home overview unavailable", "error", err)
			return nil
		}
		return view.OverviewPanel(o)
	}
	return nil
}
