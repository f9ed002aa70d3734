package domain

import "errors"

// Sentinel errors for the domain layer. These provide consistent, checkable
// errors for common failures across the session, router and API client.
var (
	ErrNotFound         = errors.New("requested resource not found")
	ErrInvalidProfile   = errors.New("user profile is not a JSON object")
	ErrUnknownApp       = errors.New("unknown console app")
	ErrRouteNotFound    = errors.New("no route matches")
	ErrDuplicateRoute   = errors.New("conflicting route definition")
	ErrRedirectLoop     = errors.New("route redirect loop")
	ErrNotAuthenticated = errors.New("no active session")
)
