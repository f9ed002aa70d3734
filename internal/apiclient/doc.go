// Package apiclient is the HTTP client the consoles use to talk to the
// fleet backend: one Client per app, a base URL, a fixed request timeout and
// a bearer token attached to every request when the session holds one.
package apiclient
