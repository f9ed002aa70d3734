package storage

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

// SessionName is the name of the cookie session holding the console state.
const SessionName = "fleetconsole-session"

const keyClientID = "client_id"

// CookieStorage keeps the keys inside a gorilla session, so each browser
// carries its own copy in a signed cookie. Every write saves the session
// immediately.
type CookieStorage struct {
	sess *sessions.Session
	r    *http.Request
	w    http.ResponseWriter
}

// NewCookieStorage wraps a session loaded for the current request.
func NewCookieStorage(sess *sessions.Session, r *http.Request, w http.ResponseWriter) *CookieStorage {
	return &CookieStorage{sess: sess, r: r, w: w}
}

// Get returns the string value stored under key.
func (s *CookieStorage) Get(ctx context.Context, key string) (string, bool, error) {
	v, ok := s.sess.Values[key]
	if !ok {
		return "", false, nil
	}
	str, ok := v.(string)
	if !ok {
		return "", false, fmt.Errorf("session value %q has type %T", key, v)
	}
	return str, true, nil
}

// Set stores value under key and saves the session.
func (s *CookieStorage) Set(ctx context.Context, key, value string) error {
	s.sess.Values[key] = value
	return s.save()
}

// Remove deletes key and saves the session.
func (s *CookieStorage) Remove(ctx context.Context, key string) error {
	if _, ok := s.sess.Values[key]; !ok {
		return nil
	}
	delete(s.sess.Values, key)
	return s.save()
}

// ClientID returns the random identifier of this browser's session, creating
// and saving one on first use.
func (s *CookieStorage) ClientID() (string, error) {
	if id, ok := s.sess.Values[keyClientID].(string); ok && id != "" {
		return id, nil
	}
	id := uuid.NewString()
	s.sess.Values[keyClientID] = id
	if err := s.save(); err != nil {
		return "", err
	}
	return id, nil
}

func (s *CookieStorage) save() error {
	if err := s.sess.Save(s.r, s.w); err != nil {
		return fmt.Errorf("save cookie session: %w", err)
	}
	return nil
}
