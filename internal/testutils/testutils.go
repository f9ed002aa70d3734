package testutils

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/nfrund/fleetconsole/internal/config"
)

// Password is the only password the fake backend accepts.
const Password = "secret"

// ConfigForTests sets the environment for app talking to apiURL and builds
// the configuration from it, the same way the binaries do.
func ConfigForTests(t *testing.T, app, apiURL string) *config.Config {
	t.Helper()

	t.Setenv("APP", app)
	t.Setenv("API_BASE_URL", apiURL)
	t.Setenv("STATE_DIR", "/state")
	t.Setenv("SESSION_SECRET", "0123456789abcdef")
	t.Setenv("SERVER_ADDR", ":0")
	t.Setenv("LOG_LEVEL", "error")

	cfg, err := config.FromEnv()
	if err != nil {
		t.Fatalf("failed to build test config: %v", err)
	}
	return cfg
}

// Request is what the fake backend received.
type Request struct {
	Method string
	Path   string
	Query  string
	Auth   string
	Body   string
}

type reply struct {
	status int
	body   string
	auth   bool
}

// Backend is a fake console API. It answers POST /api/auth/login for any
// user with Password, issuing the token "tok-<username>", and whatever
// was registered with Handle.
type Backend struct {
	*httptest.Server

	mu       sync.Mutex
	replies  map[string]reply
	requests []Request
}

// NewBackend starts a fake backend that is closed when the test ends.
func NewBackend(t *testing.T) *Backend {
	t.Helper()
	b := &Backend{replies: make(map[string]reply)}
	b.Server = httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(b.Close)
	return b
}

// Handle registers a JSON reply for method and path.
func (b *Backend) Handle(method, path string, status int, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.replies[method+" "+path] = reply{status: status, body: body}
}

// HandleAuthed is Handle for an endpoint that answers 401 without a
// bearer token.
func (b *Backend) HandleAuthed(method, path string, status int, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.replies[method+" "+path] = reply{status: status, body: body, auth: true}
}

// Last returns the most recent request, or the zero Request.
func (b *Backend) Last() Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.requests) == 0 {
		return Request{}
	}
	return b.requests[len(b.requests)-1]
}

// Requests returns every request received so far.
func (b *Backend) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Request(nil), b.requests...)
}

func (b *Backend) serve(w http.ResponseWriter, r *http.Request) {
	data, _ := io.ReadAll(r.Body)
	req := Request{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.RawQuery,
		Auth:   r.Header.Get("Authorization"),
		Body:   string(data),
	}

	b.mu.Lock()
	b.requests = append(b.requests, req)
	rep, ok := b.replies[r.Method+" "+r.URL.Path]
	b.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")

	if !ok && r.Method == http.MethodPost && r.URL.Path == "/api/auth/login" {
		login(w, data)
		return
	}
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"message":"not found"}`)
		return
	}
	if rep.auth && req.Auth == "" {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"message":"token required"}`)
		return
	}
	w.WriteHeader(rep.status)
	_, _ = io.WriteString(w, rep.body)
}

func login(w http.ResponseWriter, data []byte) {
	var creds struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	_ = json.Unmarshal(data, &creds)
	if creds.Password != Password {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"message":"invalid credentials"}`)
		return
	}
	user, _ := json.Marshal(map[string]string{"username": creds.Username, "role": "admin"})
	fmt.Fprintf(w, `{"token":"tok-%s","user":%s}`, creds.Username, user)
}
