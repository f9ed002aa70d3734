package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nfrund/fleetconsole/internal/apiclient"
	"github.com/nfrund/fleetconsole/internal/domain"
	"github.com/nfrund/fleetconsole/internal/middleware"
	"github.com/nfrund/fleetconsole/internal/router"
	"github.com/nfrund/fleetconsole/internal/session"
	"github.com/nfrund/fleetconsole/internal/view"
)

// AuthAPI is the part of the backend API the sign-in flow uses.
type AuthAPI interface {
	Login(ctx context.Context, creds domain.Credentials) (*apiclient.AuthResult, error)
	Register(ctx context.Context, reg domain.Registration) (*apiclient.AuthResult, error)
	UpdateProfile(ctx context.Context, fields domain.Profile) (domain.Profile, error)
}

// AuthHandler handles the login, register, logout and profile form posts.
type AuthHandler struct {
	api   AuthAPI
	table *router.Table
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(api AuthAPI, table *router.Table) *AuthHandler {
	return &AuthHandler{api: api, table: table}
}

func (h *AuthHandler) pathFor(name, fallback string) string {
	if p, err := h.table.PathFor(name); err == nil {
		return p
	}
	return fallback
}

func (h *AuthHandler) homePath() string {
	return h.pathFor("home", "/")
}

func (h *AuthHandler) loginPath() string {
	return h.pathFor(session.LoginRoute, "/")
}

func currentSession(c echo.Context) (*session.Session, error) {
	s, ok := middleware.SessionFrom(c)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "session middleware not installed")
	}
	return s, nil
}

// LoginPost signs in against the backend and stores the returned session.
func (h *AuthHandler) LoginPost(c echo.Context) error {
	s, err := currentSession(c)
	if err != nil {
		return err
	}
	logger := middleware.FromContext(c.Request().Context())

	var creds domain.Credentials
	if err := bindForm(c, &creds); err != nil {
		view.SetFlashError(c, firstFieldError(err))
		view.SetFormUsername(c, creds.Username)
		return c.Redirect(http.StatusSeeOther, h.loginPath())
	}

	res, err := h.api.Login(c.Request().Context(), creds)
	if err != nil {
		logger.Warn("Failed login attempt", "username", creds.Username, "error", err)
		view.SetFlashError(c, loginFailureMessage(err))
		view.SetFormUsername(c, creds.Username)
		return c.Redirect(http.StatusSeeOther, h.loginPath())
	}
	token := res.BearerToken()
	if token == "" || res.User == nil {
		logger.Error("Login response carried no session", "username", creds.Username)
		view.SetFlashError(c, "The server did not return a session.")
		return c.Redirect(http.StatusSeeOther, h.loginPath())
	}

	if err := s.Login(c.Request().Context(), res.User, token); err != nil {
		logger.Error("Failed to store session", "error", err)
		view.SetFlashError(c, "Could not save your session.")
		return c.Redirect(http.StatusSeeOther, h.loginPath())
	}

	view.SetFlashSuccess(c, "Logged in successfully!")
	return c.Redirect(http.StatusSeeOther, h.homePath())
}

func loginFailureMessage(err error) string {
	var apiErr *apiclient.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusBadRequest {
			return "Invalid username or password."
		}
		return "Sign-in failed: " + apiErr.Message
	}
	return "The server could not be reached."
}

// RegisterPost creates an account. When the backend signs the new user in
// right away the session is stored; otherwise the user is sent to the login
// form.
func (h *AuthHandler) RegisterPost(c echo.Context) error {
	s, err := currentSession(c)
	if err != nil {
		return err
	}
	logger := middleware.FromContext(c.Request().Context())
	registerPath := h.pathFor("register", h.loginPath())

	var reg domain.Registration
	if err := bindForm(c, &reg); err != nil {
		view.SetFlashError(c, firstFieldError(err))
		view.SetFormUsername(c, reg.Username)
		return c.Redirect(http.StatusSeeOther, registerPath)
	}

	res, err := h.api.Register(c.Request().Context(), reg)
	if err != nil {
		logger.Warn("Registration failed", "username", reg.Username, "error", err)
		msg := "Could not create your account."
		var apiErr *apiclient.APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			msg = apiErr.Message
		}
		view.SetFlashError(c, msg)
		view.SetFormUsername(c, reg.Username)
		return c.Redirect(http.StatusSeeOther, registerPath)
	}

	if token := res.BearerToken(); token != "" && res.User != nil {
		if err := s.Login(c.Request().Context(), res.User, token); err != nil {
			logger.Error("Failed to store session", "error", err)
		} else {
			view.SetFlashSuccess(c, "Account created successfully!")
			return c.Redirect(http.StatusSeeOther, h.homePath())
		}
	}

	view.SetFlashSuccess(c, "Account created. Please log in.")
	view.SetFormUsername(c, reg.Username)
	return c.Redirect(http.StatusSeeOther, h.loginPath())
}

// Logout clears the session and redirects to wherever the logout navigated.
func (h *AuthHandler) Logout(c echo.Context) error {
	s, err := currentSession(c)
	if err != nil {
		return err
	}
	if err := s.Logout(c.Request().Context()); err != nil {
		middleware.FromContext(c.Request().Context()).Warn("Logout incomplete", "error", err)
	}

	target := "/"
	if history, ok := middleware.HistoryFrom(c); ok {
		if cur, ok := history.Current(); ok {
			target = cur.Path
		}
	}
	view.SetFlashSuccess(c, "You have been logged out.")
	return c.Redirect(http.StatusSeeOther, target)
}

// ProfilePost sends the submitted profile fields to the backend and merges
// the result into the session user.
func (h *AuthHandler) ProfilePost(c echo.Context) error {
	s, err := currentSession(c)
	if err != nil {
		return err
	}
	if !s.IsAuthenticated() {
		view.SetFlashError(c, "Please log in first.")
		return c.Redirect(http.StatusSeeOther, h.loginPath())
	}
	logger := middleware.FromContext(c.Request().Context())
	profilePath := h.pathFor("profile", h.homePath())

	form, err := c.FormParams()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	partial := domain.Profile{}
	for key, values := range form {
		if len(values) > 0 && values[0] != "" {
			partial[key] = values[0]
		}
	}
	if len(partial) == 0 {
		view.SetFlashError(c, "Nothing to update.")
		return c.Redirect(http.StatusSeeOther, profilePath)
	}

	ctx := apiclient.ContextWithTokens(c.Request().Context(), s)
	updated, err := h.api.UpdateProfile(ctx, partial)
	if err != nil {
		logger.Warn("Profile update rejected", "error", err)
		view.SetFlashError(c, "Could not update your profile.")
		return c.Redirect(http.StatusSeeOther, profilePath)
	}
	if len(updated) > 0 {
		partial = updated
	}

	if err := s.UpdateUser(c.Request().Context(), partial); err != nil {
		logger.Error("Failed to store updated profile", "error", err)
		view.SetFlashError(c, "Profile saved, but the session could not be updated.")
		return c.Redirect(http.StatusSeeOther, profilePath)
	}
	view.SetFlashSuccess(c, "Profile updated.")
	return c.Redirect(http.StatusSeeOther, profilePath)
}
