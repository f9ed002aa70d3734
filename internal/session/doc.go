// Package session holds the console's authentication state: the bearer token
// and the user profile returned by the backend at login.
//
// A Session is an explicit object handed to its consumers (the API client,
// HTTP handlers, CLI commands). Persistence is delegated to a storage.Storage
// and the post-logout navigation to a Navigator, so the same type backs the
// file-based CLI session and the cookie-based browser session.
package session
