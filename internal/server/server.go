package server

import (
	"fmt"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/nfrund/fleetconsole/internal/app"
	"github.com/nfrund/fleetconsole/internal/handlers"
	"github.com/nfrund/fleetconsole/internal/middleware"
)

// Server is the console web server of one app.
type Server struct {
	E    *echo.Echo
	deps app.Dependencies
}

// New creates the echo instance, its middleware chain and every route.
func New(deps app.Dependencies) (*Server, error) {
	if err := deps.Config.ValidateServer(); err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handlers.NewValidator()
	e.Renderer = deps.Renderer

	e.Use(echomw.RequestID())
	e.Use(middleware.Logger)
	e.Use(echomw.Recover())

	store := sessions.NewCookieStore([]byte(deps.Config.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	e.Use(session.Middleware(store))

	setupErrorHandling(e)

	s := &Server{E: e, deps: deps}
	if err := s.RegisterRoutes(); err != nil {
		return nil, fmt.Errorf("register routes: %w", err)
	}
	return s, nil
}

// sessionMiddleware restores the console session for routes that use it.
func (s *Server) sessionMiddleware() echo.MiddlewareFunc {
	return middleware.Session(s.deps.Routes, s.deps.Publisher)
}

