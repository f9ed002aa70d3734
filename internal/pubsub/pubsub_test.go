package pubsub

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ping struct {
	N int `json:"n"`
}

func TestWatermillBridge_TypedRoundTrip(t *testing.T) {
	bus := NewWatermillBridge()
	defer bus.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	event := NewEvent[ping]("test.ping")
	received := make(chan ping, 1)
	keys := make(chan string, 1)

	err := Subscribe(ctx, bus, event, func(ctx context.Context, key string, p ping) error {
		keys <- key
		received <- p
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, Publish(ctx, bus, event, "state-a", ping{N: 7}))

	select {
	case p := <-received:
		assert.Equal(t, 7, p.N)
		assert.Equal(t, "state-a", <-keys)
	case <-time.After(2 * time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestMessageMapping_KeepsCustomMetadata(t *testing.T) {
	msg := Message{
		Topic:    "session.changed",
		Key:      "k",
		Payload:  []byte(`{}`),
		Metadata: map[string]string{"source": "cli"},
	}

	back := mapToPubSubMessage(mapToWatermillMessage(msg))

	assert.Equal(t, msg.Topic, back.Topic)
	assert.Equal(t, msg.Key, back.Key)
	assert.Equal(t, msg.Payload, back.Payload)
	assert.Equal(t, map[string]string{"source": "cli"}, back.Metadata)
}
