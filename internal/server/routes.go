package server

import (
	"github.com/nfrund/fleetconsole/internal/handlers"
	"github.com/nfrund/fleetconsole/internal/middleware"
	"github.com/nfrund/fleetconsole/internal/router"
)

// RegisterRoutes sets up all the application routes.
func (s *Server) RegisterRoutes() error {
	app := s.deps.Config.App
	authHandler := handlers.NewAuthHandler(s.deps.API, s.deps.Routes)
	viewHandler := handlers.NewViewHandler(app, s.deps.Routes, s.deps.API)
	rateLimiter := middleware.RateLimiter()

	s.E.GET("/health", handlers.Health(app))

	console := s.E.Group("", s.sessionMiddleware())
	console.POST("/login", authHandler.LoginPost, rateLimiter)
	console.POST("/register", authHandler.RegisterPost, rateLimiter)
	console.POST("/logout", authHandler.Logout)
	console.POST("/profile", authHandler.ProfilePost)
	console.GET("/ws/session", s.deps.Stream.Handler)

	return router.Mount(console, s.deps.Routes, viewHandler.Serve)
}
