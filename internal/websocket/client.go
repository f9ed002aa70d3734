package websocket

import (
	"log/slog"
	"sync"
)

// Client is one connected browser tab.
type Client struct {
	// Key is the session key the tab belongs to.
	Key  string
	send chan []byte
	mu   sync.RWMutex
}

func newClient(key string) *Client {
	return &Client{Key: key, send: make(chan []byte, sendBuffer)}
}

// SendMessage queues msg without blocking. Messages for a client whose queue
// is full are dropped.
func (c *Client) SendMessage(msg []byte) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.send == nil {
		return
	}
	select {
	case c.send <- msg:
	default:
		slog.Warn("Client send channel full, dropping message", "key", c.Key)
	}
}

// Close closes the send queue. It is safe to call more than once.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.send != nil {
		close(c.send)
		c.send = nil
	}
}

func (c *Client) queue() <-chan []byte {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.send
}
