package integrations

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/versionwatch/pkg/cache"
)

var fastBackoff = cache.Backoff{Attempts: 3, Initial: time.Millisecond}

func newTestClient(t *testing.T, headers map[string]string) *Client {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return NewClient(c, "maven", time.Hour, headers).WithBackoff(fastBackoff)
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient(nil, "maven", time.Hour, nil)
	if _, ok := c.cache.(*cache.NullCache); !ok {
		t.Errorf("nil cache should become a NullCache, got %T", c.cache)
	}
	if c.backoff != cache.DefaultBackoff {
		t.Errorf("backoff = %+v, want DefaultBackoff", c.backoff)
	}
	if _, ok := c.Keyer().(cache.DefaultKeyer); !ok {
		t.Errorf("Keyer() = %T, want DefaultKeyer", c.Keyer())
	}

	scoped := cache.NewScopedKeyer(nil, "team-a:")
	if c.WithKeyer(scoped).Keyer() != scoped {
		t.Error("WithKeyer should install the keyer")
	}
	if c.WithKeyer(nil).Keyer() != scoped {
		t.Error("WithKeyer(nil) should keep the current keyer")
	}
}

func TestGetBytesHeaders(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.Write([]byte("<metadata/>"))
	}))
	defer srv.Close()

	c := newTestClient(t, map[string]string{"User-Agent": "versionwatch/test", "Authorization": "Basic default"})
	data, err := c.GetBytes(context.Background(), srv.URL+"/junit/junit/maven-metadata.xml", map[string]string{"Authorization": "Basic repo"})
	if err != nil {
		t.Fatalf("GetBytes: %v", err)
	}
	if string(data) != "<metadata/>" {
		t.Errorf("body = %q", data)
	}
	if got.Get("User-Agent") != "versionwatch/test" {
		t.Errorf("User-Agent = %q", got.Get("User-Agent"))
	}
	if got.Get("Authorization") != "Basic repo" {
		t.Errorf("per-request header should win, got %q", got.Get("Authorization"))
	}

	text, err := c.GetText(context.Background(), srv.URL)
	if err != nil || text != "<metadata/>" {
		t.Errorf("GetText = %q, %v", text, err)
	}
}

func TestGetBytesTooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(strings.Repeat("x", maxBodySize+1)))
	}))
	defer srv.Close()

	_, err := newTestClient(t, nil).GetBytes(context.Background(), srv.URL, nil)
	if !errors.Is(err, ErrNetwork) || cache.IsRetryable(err) {
		t.Errorf("oversized body error = %v", err)
	}
}

func TestStatusError(t *testing.T) {
	tests := []struct {
		code      int
		want      error
		retryable bool
	}{
		{http.StatusOK, nil, false},
		{http.StatusNotFound, ErrNotFound, false},
		{http.StatusTooManyRequests, ErrNetwork, true},
		{http.StatusBadGateway, ErrNetwork, true},
		{http.StatusServiceUnavailable, ErrNetwork, true},
		{http.StatusUnauthorized, ErrNetwork, false},
		{http.StatusForbidden, ErrNetwork, false},
		{http.StatusTeapot, ErrNetwork, false},
	}
	for _, tt := range tests {
		err := statusError(tt.code)
		if tt.want == nil {
			if err != nil {
				t.Errorf("statusError(%d) = %v, want nil", tt.code, err)
			}
			continue
		}
		if !errors.Is(err, tt.want) {
			t.Errorf("statusError(%d) = %v, want %v", tt.code, err, tt.want)
		}
		if got := cache.IsRetryable(err); got != tt.retryable {
			t.Errorf("statusError(%d) retryable = %v, want %v", tt.code, got, tt.retryable)
		}
	}
}

func TestCached(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t, nil)

	calls := 0
	fetch := func(context.Context) ([]string, error) {
		calls++
		return []string{"1.0", "1.1"}, nil
	}

	for i := 0; i < 3; i++ {
		got, err := Cached(ctx, c, "junit:junit", false, fetch)
		if err != nil {
			t.Fatalf("Cached: %v", err)
		}
		if len(got) != 2 || got[1] != "1.1" {
			t.Errorf("Cached = %v", got)
		}
	}
	if calls != 1 {
		t.Errorf("fetch called %d times, want 1", calls)
	}

	if _, err := Cached(ctx, c, "junit:junit", true, fetch); err != nil {
		t.Fatal(err)
	}
	if calls != 2 {
		t.Errorf("refresh should fetch again, calls = %d", calls)
	}
}

func TestCachedTypeMismatchIsMiss(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t, nil)

	if _, err := Cached(ctx, c, "k", false, func(context.Context) (string, error) { return "text", nil }); err != nil {
		t.Fatal(err)
	}
	got, err := Cached(ctx, c, "k", false, func(context.Context) ([]string, error) { return []string{"fresh"}, nil })
	if err != nil || len(got) != 1 || got[0] != "fresh" {
		t.Errorf("Cached after type change = %v, %v", got, err)
	}
}

func TestCachedRetries(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c := newTestClient(t, nil)
	got, err := Cached(context.Background(), c, "flaky", false, func(ctx context.Context) (string, error) {
		return c.GetText(ctx, srv.URL)
	})
	if err != nil || got != "ok" {
		t.Errorf("Cached = %q, %v", got, err)
	}
	if hits.Load() != 3 {
		t.Errorf("server hits = %d, want 3", hits.Load())
	}
}

func TestCachedErrorIsNotStored(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t, nil)

	calls := 0
	_, err := Cached(ctx, c, "missing", false, func(context.Context) ([]string, error) {
		calls++
		return nil, ErrNotFound
	})
	if !errors.Is(err, ErrNotFound) || calls != 1 {
		t.Errorf("err = %v after %d calls; want ErrNotFound without retries", err, calls)
	}
	if _, err := Cached(ctx, c, "missing", false, func(context.Context) ([]string, error) { return nil, nil }); err != nil {
		t.Errorf("failed fetch should not be cached: %v", err)
	}
}

func TestRepositoryURL(t *testing.T) {
	tests := []struct {
		name     string
		base     string
		segments []string
		want     string
	}{
		{"plain", "https://repo.example.com/maven2", []string{"junit", "junit"}, "https://repo.example.com/maven2/junit/junit"},
		{"trailing slash", "https://repo.example.com/maven2//", []string{"a"}, "https://repo.example.com/maven2/a"},
		{"escaped", "http://localhost", []string{"my artifact", "a?b"}, "http://localhost/my%20artifact/a%3Fb"},
		{"no segments", "http://localhost/", nil, "http://localhost"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RepositoryURL(tt.base, tt.segments...); got != tt.want {
				t.Errorf("RepositoryURL(%q, %q) = %q, want %q", tt.base, tt.segments, got, tt.want)
			}
		})
	}
}

func TestNewHTTPClient(t *testing.T) {
	client := NewHTTPClient()
	if client == nil {
		t.Fatal("NewHTTPClient() returned nil")
	}
	if client.Timeout != httpTimeout {
		t.Errorf("Timeout = %v, want %v", client.Timeout, httpTimeout)
	}
	tr, ok := client.Transport.(*http.Transport)
	if !ok || tr.MaxIdleConnsPerHost != maxConnsPerHost {
		t.Errorf("Transport = %T, want *http.Transport with %d idle conns per host", client.Transport, maxConnsPerHost)
	}
}
