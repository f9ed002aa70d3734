package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/nfrund/fleetconsole/internal/domain"
	"github.com/nfrund/fleetconsole/internal/pubsub"
	"github.com/nfrund/fleetconsole/internal/storage"
)

// LoginRoute is the route name logout navigates to.
const LoginRoute = "login"

// Navigator moves the client to a named route.
type Navigator interface {
	Navigate(ctx context.Context, routeName string) error
}

// Session is the current user identity and bearer token of one client.
// It is safe for concurrent use.
type Session struct {
	mu    sync.RWMutex
	user  domain.Profile
	token string

	store     storage.Storage
	navigator Navigator
	publisher pubsub.Publisher
	key       string
	logger    *slog.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithNavigator sets the navigator used by Logout.
func WithNavigator(n Navigator) Option {
	return func(s *Session) {
		s.navigator = n
	}
}

// WithPublisher publishes a Changed event after every state change.
func WithPublisher(p pubsub.Publisher) Option {
	return func(s *Session) {
		s.publisher = p
	}
}

// WithKey sets the identifier carried by published events.
func WithKey(key string) Option {
	return func(s *Session) {
		s.key = key
	}
}

// WithLogger overrides the default logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		s.logger = l
	}
}

// Restore creates a Session from what the storage holds. Unreadable or
// malformed entries are logged and ignored, so the result is at worst an
// unauthenticated session.
func Restore(ctx context.Context, store storage.Storage, opts ...Option) *Session {
	s := &Session{
		store:  store,
		logger: slog.Default().With("component", "session"),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.token, s.user = s.load(ctx)
	return s
}

func (s *Session) load(ctx context.Context) (string, domain.Profile) {
	token, _, err := s.store.Get(ctx, storage.KeyToken)
	if err != nil {
		s.logger.Warn("Failed to read saved token", "error", err)
		token = ""
	}

	raw, ok, err := s.store.Get(ctx, storage.KeyUser)
	if err != nil {
		s.logger.Warn("Failed to read saved user", "error", err)
		return token, nil
	}
	if !ok || raw == "" || raw == "null" {
		return token, nil
	}

	user, err := domain.ParseProfile([]byte(raw))
	if err != nil {
		s.logger.Error("Failed to parse saved user", "error", err)
		return token, nil
	}
	return token, user
}

// Login replaces the user and token and persists both.
func (s *Session) Login(ctx context.Context, user domain.Profile, token string) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	s.mu.Lock()
	s.user = user.Clone()
	s.token = token
	err = errors.Join(
		s.store.Set(ctx, storage.KeyToken, token),
		s.store.Set(ctx, storage.KeyUser, string(data)),
	)
	s.mu.Unlock()

	s.publish(ctx, KindLogin)
	if err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

// Logout clears the session, deletes both storage keys and navigates to the
// login route.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.user = nil
	s.token = ""
	err := errors.Join(
		s.store.Remove(ctx, storage.KeyToken),
		s.store.Remove(ctx, storage.KeyUser),
	)
	s.mu.Unlock()

	s.publish(ctx, KindLogout)
	if err != nil {
		err = fmt.Errorf("clear session: %w", err)
	}

	if s.navigator != nil {
		if navErr := s.navigator.Navigate(ctx, LoginRoute); navErr != nil {
			err = errors.Join(err, fmt.Errorf("navigate to %s: %w", LoginRoute, navErr))
		}
	}
	return err
}

// UpdateUser shallow-merges partial into the current user and persists the
// whole object. Fields absent from partial are kept.
func (s *Session) UpdateUser(ctx context.Context, partial domain.Profile) error {
	s.mu.Lock()
	merged := s.user.Merge(partial)
	data, err := json.Marshal(merged)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("encode user: %w", err)
	}
	s.user = merged
	err = s.store.Set(ctx, storage.KeyUser, string(data))
	s.mu.Unlock()

	s.publish(ctx, KindUpdate)
	if err != nil {
		return fmt.Errorf("persist user: %w", err)
	}
	return nil
}

// Reload re-reads the storage, picking up changes written by another
// process. It reports whether the state changed.
func (s *Session) Reload(ctx context.Context) bool {
	token, user := s.load(ctx)

	s.mu.Lock()
	changed := token != s.token || !sameProfile(user, s.user)
	s.token, s.user = token, user
	s.mu.Unlock()

	if changed {
		s.publish(ctx, KindReload)
	}
	return changed
}

// IsAuthenticated reports whether both a token and a user are present.
func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != "" && s.user != nil
}

// User returns a copy of the current user, or nil.
func (s *Session) User() domain.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user.Clone()
}

// Token returns the current bearer token, or "".
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// BearerToken implements apiclient.TokenSource.
func (s *Session) BearerToken(ctx context.Context) (string, error) {
	return s.Token(), nil
}

// Key returns the identifier set with WithKey.
func (s *Session) Key() string {
	return s.key
}

// TokenExpiry returns the exp claim of the token when it is a JWT. The
// signature is not verified; the value is informational.
func (s *Session) TokenExpiry() (time.Time, bool) {
	token := s.Token()
	if token == "" {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

func sameProfile(a, b domain.Profile) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	ja, errA := json.Marshal(a)
	jb, errB := json.Marshal(b)
	return errA == nil && errB == nil && string(ja) == string(jb)
}
