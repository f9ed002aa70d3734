package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/labstack/echo/v4"

	"github.com/nfrund/fleetconsole/internal/middleware"
	"github.com/nfrund/fleetconsole/internal/pubsub"
	"github.com/nfrund/fleetconsole/internal/session"
)

const (
	// Time allowed to write a message to the peer.
	writeWait  = 10 * time.Second
	sendBuffer = 16
)

// SessionStream pushes session.Changed events to the browser tabs that share
// the changed session.
type SessionStream struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
}

// NewSessionStream creates an empty stream.
func NewSessionStream() *SessionStream {
	return &SessionStream{clients: make(map[string]map[*Client]struct{})}
}

// Run subscribes to session events. Delivery stops when the bus closes.
func (s *SessionStream) Run(ctx context.Context, sub pubsub.Subscriber) error {
	return pubsub.Subscribe(ctx, sub, session.Changed, s.deliver)
}

func (s *SessionStream) deliver(_ context.Context, key string, ev session.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for c := range s.clients[key] {
		c.SendMessage(data)
	}
	return nil
}

// Clients returns the number of connected tabs for key.
func (s *SessionStream) Clients(key string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients[key])
}

func (s *SessionStream) add(key string) *Client {
	c := newClient(key)
	s.mu.Lock()
	if s.clients[key] == nil {
		s.clients[key] = make(map[*Client]struct{})
	}
	s.clients[key][c] = struct{}{}
	s.mu.Unlock()
	slog.Debug("Session stream client registered", "key", key)
	return c
}

func (s *SessionStream) remove(c *Client) {
	s.mu.Lock()
	if set, ok := s.clients[c.Key]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(s.clients, c.Key)
		}
	}
	s.mu.Unlock()
	c.Close()
	slog.Debug("Session stream client unregistered", "key", c.Key)
}

// Handler upgrades GET /ws/session. It needs the session middleware to
// identify the browser.
func (s *SessionStream) Handler(c echo.Context) error {
	sess, ok := middleware.SessionFrom(c)
	if !ok || sess.Key() == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "no session")
	}
	logger := middleware.FromContext(c.Request().Context())

	// Registered before the handshake completes so no event published after
	// the client connects is missed.
	client := s.add(sess.Key())
	defer s.remove(client)

	conn, err := websocket.Accept(c.Response(), c.Request(), nil)
	if err != nil {
		logger.Error("Failed to upgrade connection to WebSocket", "error", err)
		return nil
	}
	defer conn.CloseNow()

	// The stream is one-way; CloseRead handles control frames and cancels
	// ctx once the peer goes away.
	ctx := conn.CloseRead(c.Request().Context())

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-client.queue():
			if !ok {
				return nil
			}
			wctx, cancel := context.WithTimeout(ctx, writeWait)
			err := conn.Write(wctx, websocket.MessageText, msg)
			cancel()
			if err != nil {
				if !errors.Is(err, context.Canceled) {
					logger.Warn("WebSocket write error", "key", client.Key, "error", err)
				}
				return nil
			}
		}
	}
}
