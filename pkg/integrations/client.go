package integrations

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/matzehuels/versionwatch/pkg/cache"
	"github.com/matzehuels/versionwatch/pkg/observability"
)

// maxBodySize caps a single repository document. maven-metadata.xml for the
// busiest artifacts on Central stays well below 1 MiB.
const maxBodySize = 16 << 20

// Client fetches documents from repositories and remembers them in a
// [cache.Cache]. It is safe for concurrent use.
type Client struct {
	http    *http.Client
	cache   cache.Cache
	keyer   cache.Keyer
	backoff cache.Backoff
	prefix  string
	ttl     time.Duration
	headers map[string]string
}

// NewClient returns a client whose cache entries live under prefix and
// expire after ttl. headers are sent with every request. A nil c disables
// caching.
func NewClient(c cache.Cache, prefix string, ttl time.Duration, headers map[string]string) *Client {
	if c == nil {
		c = cache.NewNullCache()
	}
	return &Client{
		http:    NewHTTPClient(),
		cache:   c,
		keyer:   cache.NewDefaultKeyer(),
		backoff: cache.DefaultBackoff,
		prefix:  prefix,
		ttl:     ttl,
		headers: headers,
	}
}

// WithKeyer swaps the key builder, e.g. for a [cache.ScopedKeyer] shared by
// several tenants of one Redis instance.
func (c *Client) WithKeyer(k cache.Keyer) *Client {
	if k != nil {
		c.keyer = k
	}
	return c
}

// WithBackoff replaces the retry policy for transient failures.
func (c *Client) WithBackoff(b cache.Backoff) *Client {
	c.backoff = b
	return c
}

func (c *Client) Keyer() cache.Keyer { return c.keyer }

// Cached returns the value stored under key, or calls fetch, stores its
// result and returns it. refresh skips the lookup but still stores the
// fresh value. Values round-trip through JSON; an entry that no longer
// decodes into T counts as a miss. Transient fetch failures are retried
// according to the client's backoff.
func Cached[T any](ctx context.Context, c *Client, key string, refresh bool, fetch func(context.Context) (T, error)) (T, error) {
	fullKey := c.keyer.HTTPKey(c.prefix, key)
	hooks := observability.Cache()

	var v T
	if !refresh {
		if data, ok, err := c.cache.Get(ctx, fullKey); err == nil && ok && json.Unmarshal(data, &v) == nil {
			hooks.OnCacheHit(ctx, c.prefix)
			return v, nil
		}
		hooks.OnCacheMiss(ctx, c.prefix)
	}

	err := c.backoff.Retry(ctx, func() error {
		var err error
		v, err = fetch(ctx)
		return err
	})
	if err != nil {
		var zero T
		return zero, err
	}

	if data, err := json.Marshal(v); err == nil && c.cache.Set(ctx, fullKey, data, c.ttl) == nil {
		hooks.OnCacheSet(ctx, c.prefix, len(data))
	}
	return v, nil
}

// GetBytes downloads url. headers are added to the client's defaults and
// win on conflict.
func (c *Client) GetBytes(ctx context.Context, url string, headers map[string]string) ([]byte, error) {
	resp, err := c.get(ctx, url, headers)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return nil, cache.Retryable(fmt.Errorf("%w: read %s: %v", ErrNetwork, url, err))
	}
	if len(data) > maxBodySize {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrNetwork, url, maxBodySize)
	}
	return data, nil
}

// GetText is GetBytes without extra headers, returned as a string.
func (c *Client) GetText(ctx context.Context, url string) (string, error) {
	data, err := c.GetBytes(ctx, url, nil)
	return string(data), err
}

func (c *Client) get(ctx context.Context, rawURL string, headers map[string]string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	for _, hs := range []map[string]string{c.headers, headers} {
		for k, v := range hs {
			req.Header.Set(k, v)
		}
	}

	var host, path string
	if u, err := url.Parse(rawURL); err == nil {
		host, path = u.Host, u.Path
	}
	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.Method, host, path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, host, path, err)
		return nil, cache.Retryable(fmt.Errorf("%w: %v", ErrNetwork, err))
	}
	hooks.OnResponse(ctx, req.Method, host, path, resp.StatusCode, time.Since(start))

	if err := statusError(resp.StatusCode); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp, nil
}

// statusError classifies a repository response. Rate limiting and server
// errors are worth retrying; authentication failures are not.
func statusError(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusTooManyRequests, code >= 500:
		return cache.Retryable(fmt.Errorf("%w: status %d", ErrNetwork, code))
	case code == http.StatusUnauthorized, code == http.StatusForbidden:
		return fmt.Errorf("%w: status %d (check the repository credentials)", ErrNetwork, code)
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}
