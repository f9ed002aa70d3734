package apiclient

import (
	"context"
	"net/http"

	"github.com/nfrund/fleetconsole/internal/domain"
)

// AuthResult is the response of the login and register endpoints.
type AuthResult struct {
	Token       string         `json:"token"`
	AccessToken string         `json:"access_token"`
	User        domain.Profile `json:"user"`
	Message     string         `json:"message,omitempty"`
}

// BearerToken returns whichever token field the backend filled in.
func (r *AuthResult) BearerToken() string {
	if r.Token != "" {
		return r.Token
	}
	return r.AccessToken
}

// Login posts credentials, POST /api/auth/login.
func (c *Client) Login(ctx context.Context, creds domain.Credentials) (*AuthResult, error) {
	var out AuthResult
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", nil, creds, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates an account, POST /api/auth/register.
func (c *Client) Register(ctx context.Context, reg domain.Registration) (*AuthResult, error) {
	var out AuthResult
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", nil, reg, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Profile fetches the signed-in user, GET /api/auth/profile. Backends either
// return the profile itself or wrap it in a "user" field.
func (c *Client) Profile(ctx context.Context) (domain.Profile, error) {
	var out domain.Profile
	if err := c.do(ctx, http.MethodGet, "/api/auth/profile", nil, nil, &out); err != nil {
		return nil, err
	}
	return unwrapUser(out), nil
}

// UpdateProfile changes profile fields, PUT /api/auth/profile.
func (c *Client) UpdateProfile(ctx context.Context, fields domain.Profile) (domain.Profile, error) {
	var out domain.Profile
	if err := c.do(ctx, http.MethodPut, "/api/auth/profile", nil, fields, &out); err != nil {
		return nil, err
	}
	return unwrapUser(out), nil
}

func unwrapUser(p domain.Profile) domain.Profile {
	if inner, ok := p["user"].(map[string]any); ok {
		return domain.Profile(inner)
	}
	return p
}
