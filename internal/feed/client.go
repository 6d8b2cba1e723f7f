// Package feed fetches the paginated JSON feeds and query API served by the
// Topical Guide backend.
package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/tidwall/gjson"

	"github.com/tinytelemetry/topicalguide/internal/model"
)

var (
	// ErrTransport covers connection failures and non-2xx responses.
	ErrTransport = errors.New("feed: transport error")
	// ErrMalformed is returned for bodies that are not the expected JSON.
	ErrMalformed = errors.New("feed: malformed response")
	// ErrServer is returned when the body carries an "error" member.
	ErrServer = errors.New("feed: server error")
	// ErrNotFound is returned when the query API answers without the
	// requested topic or document.
	ErrNotFound = errors.New("feed: not found")
)

const maxBodyBytes = 32 << 20

// uncached feeds answer differently on every request.
var uncached = []string{"/feeds/word-in-context/"}

func cacheable(path string) bool {
	for _, p := range uncached {
		if strings.HasPrefix(path, p) {
			return false
		}
	}
	return true
}

// Options tune a Client.
type Options struct {
	Timeout    time.Duration
	CacheSize  int
	CacheTTL   time.Duration
	HTTPClient *http.Client
}

// Client performs feed requests against one backend.
type Client struct {
	base       *url.URL
	httpClient *http.Client
	timeout    time.Duration
	cache      *expirable.LRU[string, []byte]
}

// NewClient creates a client for the backend at baseURL.
func NewClient(baseURL string, opts Options) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse feed url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("feed url %q: scheme must be http or https", baseURL)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = model.DefaultFeedTimeout
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	c := &Client{base: u, httpClient: hc, timeout: opts.Timeout}
	if opts.CacheSize > 0 {
		ttl := opts.CacheTTL
		if ttl <= 0 {
			ttl = model.DefaultFeedCacheTTL
		}
		c.cache = expirable.NewLRU[string, []byte](opts.CacheSize, nil, ttl)
	}
	return c, nil
}

// URL resolves a feed path against the backend address.
func (c *Client) URL(path string) string {
	return c.base.String() + path
}

// Get fetches path and checks that the body is a JSON object without an
// "error" member. Successful bodies are cached unless the feed is random.
func (c *Client) Get(ctx context.Context, path string) ([]byte, error) {
	target := c.URL(path)
	useCache := c.cache != nil && cacheable(path)
	if useCache {
		if body, ok := c.cache.Get(target); ok {
			return body, nil
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request %s: %v", ErrTransport, path, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: GET %s: %w", ErrTransport, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrTransport, path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if msg := gjson.GetBytes(body, "error"); gjson.ValidBytes(body) && msg.Exists() {
			return nil, fmt.Errorf("%w: %s", ErrServer, msg.String())
		}
		return nil, fmt.Errorf("%w: GET %s: status %d", ErrTransport, path, resp.StatusCode)
	}
	if err := Check(body); err != nil {
		return nil, err
	}

	if useCache {
		c.cache.Add(target, body)
	}
	return body, nil
}

// Check validates that body is a JSON object and carries no "error" member,
// plus any required members.
func Check(body []byte, required ...string) error {
	if !gjson.ValidBytes(body) {
		return fmt.Errorf("%w: invalid JSON", ErrMalformed)
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return fmt.Errorf("%w: expected an object", ErrMalformed)
	}
	if msg := root.Get("error"); msg.Exists() {
		return fmt.Errorf("%w: %s", ErrServer, msg.String())
	}
	for _, key := range required {
		if !root.Get(key).Exists() {
			return fmt.Errorf("%w: missing %q", ErrMalformed, key)
		}
	}
	return nil
}

// Message returns the text shown to users for a fetch error.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrServer):
		return strings.TrimPrefix(err.Error(), ErrServer.Error()+": ")
	case errors.Is(err, ErrNotFound):
		return strings.TrimPrefix(err.Error(), ErrNotFound.Error()+": ")
	case errors.Is(err, ErrMalformed):
		return "the server sent a response that could not be read"
	case errors.Is(err, context.DeadlineExceeded):
		return "the server took too long to respond"
	case errors.Is(err, ErrTransport):
		return "the server could not be reached"
	}
	return err.Error()
}
