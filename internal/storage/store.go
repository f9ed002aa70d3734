package storage

import (
	"context"
)

// Keys under which the session is persisted. The user is stored as its JSON
// serialization.
const (
	KeyToken = "token"
	KeyUser  = "user"
)

// Storage is a flat string key/value store that survives restarts of the
// client. Get reports ok=false for a missing key; Remove of a missing key is
// not an error.
type Storage interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}
