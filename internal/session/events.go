package session

import (
	"context"

	"github.com/nfrund/fleetconsole/internal/domain"
	"github.com/nfrund/fleetconsole/internal/pubsub"
)

// Kind names the operation that produced an Event.
type Kind string

const (
	KindLogin  Kind = "login"
	KindLogout Kind = "logout"
	KindUpdate Kind = "update"
	KindReload Kind = "reload"
)

// Event is a snapshot of a session after a change.
type Event struct {
	Kind          Kind           `json:"kind"`
	Authenticated bool           `json:"authenticated"`
	User          domain.Profile `json:"user,omitempty"`
}

// Changed is published after every session change.
var Changed = pubsub.NewEvent[Event]("session.changed")

func (s *Session) publish(ctx context.Context, kind Kind) {
	if s.publisher == nil {
		return
	}
	ev := Event{
		Kind:          kind,
		Authenticated: s.IsAuthenticated(),
		User:          s.User(),
	}
	if err := pubsub.Publish(ctx, s.publisher, Changed, s.key, ev); err != nil {
		s.logger.Warn("Failed to publish session event", "kind", kind, "error", err)
	}
}
