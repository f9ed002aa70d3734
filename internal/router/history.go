package router

import (
	"context"
	"sync"
)

// History records navigation pushes against a route table. It satisfies
// session.Navigator so the CLI and the server can learn where a session
// operation sent the user.
type History struct {
	table *Table

	mu      sync.Mutex
	entries []Entry
}

// NewHistory starts a history at the route named start. An empty or unknown
// start leaves the history empty.
func NewHistory(table *Table, start string) *History {
	h := &History{table: table}
	if e, ok := table.Lookup(start); ok {
		h.entries = append(h.entries, e)
	}
	return h
}

// Navigate pushes the route named name, following its redirects.
func (h *History) Navigate(ctx context.Context, name string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := h.table.PathFor(name)
	if err != nil {
		return err
	}
	m, err := h.table.Resolve(p)
	if err != nil {
		return err
	}
	h.mu.Lock()
	h.entries = append(h.entries, m.Entry)
	h.mu.Unlock()
	return nil
}

// Current returns the most recent entry.
func (h *History) Current() (Entry, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.entries) == 0 {
		return Entry{}, false
	}
	return h.entries[len(h.entries)-1], true
}

// Entries returns a copy of the pushed entries, oldest first.
func (h *History) Entries() []Entry {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Entry, len(h.entries))
	copy(out, h.entries)
	return out
}
