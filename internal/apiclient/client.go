package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultTimeout is the fixed timeout applied to every request.
const DefaultTimeout = 10 * time.Second

// TokenSource supplies the bearer token for outgoing requests. An empty
// token means the request is sent without an Authorization header.
type TokenSource interface {
	BearerToken(ctx context.Context) (string, error)
}

// StaticToken is a TokenSource that always returns the same token.
type StaticToken string

// BearerToken implements TokenSource.
func (t StaticToken) BearerToken(context.Context) (string, error) {
	return string(t), nil
}

type tokenSourceKey struct{}

// ContextWithTokens returns a copy of ctx whose requests take their bearer
// token from tokens instead of the client's own TokenSource. A server shares
// one Client across sessions this way.
func ContextWithTokens(ctx context.Context, tokens TokenSource) context.Context {
	return context.WithValue(ctx, tokenSourceKey{}, tokens)
}

// TokensFromContext returns the TokenSource installed by ContextWithTokens.
func TokensFromContext(ctx context.Context) (TokenSource, bool) {
	ts, ok := ctx.Value(tokenSourceKey{}).(TokenSource)
	return ts, ok
}

// Client provides HTTP communication with the backend.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

// Option configures a Client.
type Option func(*clientOptions)

type clientOptions struct {
	timeout   time.Duration
	transport http.RoundTripper
	userAgent string
}

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(o *clientOptions) {
		o.timeout = d
	}
}

// WithTransport sets the transport the bearer transport wraps.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *clientOptions) {
		o.transport = rt
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(o *clientOptions) {
		o.userAgent = ua
	}
}

// New creates a client for baseURL. tokens may be nil for anonymous use.
func New(baseURL string, tokens TokenSource, opts ...Option) (*Client, error) {
	o := clientOptions{
		timeout:   DefaultTimeout,
		transport: http.DefaultTransport,
		userAgent: "fleetconsole/1.0",
	}
	for _, opt := range opts {
		opt(&o)
	}

	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "http://" + baseURL
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}

	return &Client{
		baseURL: u,
		http: &http.Client{
			Timeout:   o.timeout,
			Transport: &bearerTransport{next: o.transport, tokens: tokens},
		},
		userAgent: o.userAgent,
	}, nil
}

// BaseURL returns the base URL of the client.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Params are query parameters of list endpoints.
type Params map[string]string

func (p Params) encode() string {
	if len(p) == 0 {
		return ""
	}
	q := url.Values{}
	for k, v := range p {
		q.Set(k, v)
	}
	return q.Encode()
}

// do sends a request and decodes a 2xx JSON response into out (when non-nil).
func (c *Client) do(ctx context.Context, method, path string, params Params, body, out any) error {
	// path arrives escaped. RawPath carries it verbatim so a "/" inside an
	// id stays one segment.
	u := *c.baseURL
	u.RawPath = c.baseURL.EscapedPath() + path
	unescaped, err := url.PathUnescape(u.RawPath)
	if err != nil {
		return fmt.Errorf("invalid path %q: %w", path, err)
	}
	u.Path = unescaped
	u.RawQuery = params.encode()

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return newAPIError(resp, method, path)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
		return fmt.Errorf("parse response of %s %s: %w", method, path, err)
	}
	return nil
}

// bearerTransport adds the Authorization and X-Request-ID headers.
type bearerTransport struct {
	next   http.RoundTripper
	tokens TokenSource
}

// RoundTrip implements http.RoundTripper.
func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// The caller's request must stay untouched.
	req = req.Clone(req.Context())

	tokens := t.tokens
	if override, ok := TokensFromContext(req.Context()); ok {
		tokens = override
	}
	if tokens != nil {
		token, err := tokens.BearerToken(req.Context())
		if err != nil {
			return nil, fmt.Errorf("bearer token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	if req.Header.Get("X-Request-ID") == "" {
		req.Header.Set("X-Request-ID", uuid.NewString())
	}
	return t.next.RoundTrip(req)
}
