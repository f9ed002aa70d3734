package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/nfrund/fleetconsole/internal/pubsub"
	"github.com/nfrund/fleetconsole/internal/session"
)

const shutdownTimeout = 10 * time.Second

// Start runs the HTTP server until ctx is done, then shuts it down
// gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	if err := s.deps.Stream.Run(ctx, s.deps.Subscriber); err != nil {
		return err
	}
	if s.deps.Config.WatchSession {
		if err := watchSessions(ctx, s.deps.Subscriber); err != nil {
			return err
		}
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Console server listening", "addr", addr, "app", s.deps.Config.App, "api", s.deps.API.BaseURL())
		if err := s.E.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down console server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.E.Shutdown(shutdownCtx)
}

// watchSessions logs every session change the console handles.
func watchSessions(ctx context.Context, sub pubsub.Subscriber) error {
	return pubsub.Subscribe(ctx, sub, session.Changed, func(_ context.Context, key string, ev session.Event) error {
		slog.Info("Session changed",
			"client_id", key,
			"kind", ev.Kind,
			"authenticated", ev.Authenticated,
			"user", ev.User.String(),
		)
		return nil
	})
}
