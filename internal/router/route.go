package router

import (
	"fmt"
	"log/slog"
	"maps"
	"path"
	"sort"
	"strings"

	"github.com/nfrund/fleetconsole/internal/domain"
)

// maxRedirects bounds how many redirects Resolve follows.
const maxRedirects = 8

// Route is one declarative entry of an app's route table. A route either
// names a View or a Redirect target (by route name). Children paths are
// relative to their parent; a child with an empty path matches the parent
// path itself.
type Route struct {
	Path     string
	Name     string
	View     string
	Redirect string
	Children []Route
	Meta     map[string]string
}

// Entry is a flattened route with an absolute path.
type Entry struct {
	Path     string            `json:"path"`
	Name     string            `json:"name,omitempty"`
	View     string            `json:"view,omitempty"`
	Redirect string            `json:"redirect,omitempty"`
	Layouts  []string          `json:"layouts,omitempty"`
	Meta     map[string]string `json:"meta,omitempty"`
}

// IsRedirect reports whether the entry only redirects.
func (e Entry) IsRedirect() bool {
	return e.Redirect != ""
}

// Match is the outcome of resolving a path.
type Match struct {
	Entry Entry
	// Redirects lists the paths that were redirected away from, in order.
	Redirects []string
}

// Table is the immutable route table of one app.
type Table struct {
	app     string
	entries []Entry
	byPath  map[string]int
	byName  map[string]int
}

// NewTable flattens and validates routes. Identical duplicate definitions
// are collapsed; conflicting ones are rejected with ErrDuplicateRoute.
// Every redirect must name an existing route.
func NewTable(app string, routes []Route) (*Table, error) {
	t := &Table{
		app:    app,
		byPath: make(map[string]int),
		byName: make(map[string]int),
	}
	for _, r := range routes {
		if !strings.HasPrefix(r.Path, "/") {
			return nil, fmt.Errorf("%s: top-level route path %q must start with /", app, r.Path)
		}
		if err := t.add("", nil, r); err != nil {
			return nil, err
		}
	}
	for _, e := range t.entries {
		if e.Redirect == "" {
			continue
		}
		if _, ok := t.byName[e.Redirect]; !ok {
			return nil, fmt.Errorf("%s: route %q redirects to unknown route %q: %w", app, e.Path, e.Redirect, domain.ErrRouteNotFound)
		}
	}
	return t, nil
}

// MustTable is NewTable for the static tables declared in this package.
func MustTable(app string, routes []Route) *Table {
	t, err := NewTable(app, routes)
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Table) add(parent string, layouts []string, r Route) error {
	full := joinPath(parent, r.Path)

	if len(r.Children) > 0 {
		nested := append(append([]string(nil), layouts...), r.View)
		hasIndex := false
		for _, child := range r.Children {
			if child.Path == "" {
				hasIndex = true
			}
			if strings.HasPrefix(child.Path, "/") {
				return fmt.Errorf("%s: child path %q under %q must be relative", t.app, child.Path, full)
			}
			if err := t.add(full, nested, child); err != nil {
				return err
			}
		}
		if hasIndex {
			return nil
		}
	}

	if r.View == "" && r.Redirect == "" {
		return fmt.Errorf("%s: route %q has neither a view nor a redirect", t.app, full)
	}

	entry := Entry{
		Path:     full,
		Name:     r.Name,
		View:     r.View,
		Redirect: r.Redirect,
		Layouts:  layouts,
		Meta:     maps.Clone(r.Meta),
	}
	return t.insert(entry)
}

func (t *Table) insert(e Entry) error {
	if i, ok := t.byPath[e.Path]; ok {
		if sameEntry(t.entries[i], e) {
			slog.Debug("Duplicate route definition ignored", "app", t.app, "path", e.Path, "name", e.Name)
			return nil
		}
		return fmt.Errorf("%s: path %q: %w", t.app, e.Path, domain.ErrDuplicateRoute)
	}
	if e.Name != "" {
		if _, ok := t.byName[e.Name]; ok {
			return fmt.Errorf("%s: name %q: %w", t.app, e.Name, domain.ErrDuplicateRoute)
		}
		t.byName[e.Name] = len(t.entries)
	}
	t.byPath[e.Path] = len(t.entries)
	t.entries = append(t.entries, e)
	return nil
}

// App returns the app the table belongs to.
func (t *Table) App() string {
	return t.app
}

// Routes returns the flattened entries in declaration order.
func (t *Table) Routes() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Names returns the route names, sorted.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.byName))
	for name := range t.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the entry named name.
func (t *Table) Lookup(name string) (Entry, bool) {
	i, ok := t.byName[name]
	if !ok {
		return Entry{}, false
	}
	return t.entries[i], true
}

// PathFor returns the path of the route named name.
func (t *Table) PathFor(name string) (string, error) {
	e, ok := t.Lookup(name)
	if !ok {
		return "", fmt.Errorf("%s: route name %q: %w", t.app, name, domain.ErrRouteNotFound)
	}
	return e.Path, nil
}

// Resolve finds the entry for p, following redirects.
func (t *Table) Resolve(p string) (Match, error) {
	current := normalize(p)
	var m Match
	for hops := 0; ; hops++ {
		i, ok := t.byPath[current]
		if !ok {
			return Match{}, fmt.Errorf("%s: path %q: %w", t.app, current, domain.ErrRouteNotFound)
		}
		e := t.entries[i]
		if !e.IsRedirect() {
			m.Entry = e
			return m, nil
		}
		if hops >= maxRedirects {
			return Match{}, fmt.Errorf("%s: path %q: %w", t.app, p, domain.ErrRedirectLoop)
		}
		m.Redirects = append(m.Redirects, current)
		current = t.entries[t.byName[e.Redirect]].Path
	}
}

func joinPath(parent, child string) string {
	if parent == "" {
		return normalize(child)
	}
	if child == "" {
		return parent
	}
	return normalize(path.Join(parent, child))
}

// normalize strips query, fragment and trailing slashes.
func normalize(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
		if p == "" {
			p = "/"
		}
	}
	return p
}

func sameEntry(a, b Entry) bool {
	return a.Path == b.Path && a.Name == b.Name && a.View == b.View &&
		a.Redirect == b.Redirect && strings.Join(a.Layouts, "|") == strings.Join(b.Layouts, "|") &&
		maps.Equal(a.Meta, b.Meta)
}
