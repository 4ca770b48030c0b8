package integrations

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/matzehuels/versionwatch/pkg/cache"
)

const (
	httpTimeout = 10 * time.Second

	// maxConnsPerHost matches the resolver's worker count; a batch never has
	// more requests in flight against one repository.
	maxConnsPerHost = 5
)

// Lookup failures. Both alias the cache package's sentinels so that callers
// can test with errors.Is regardless of which layer produced the error.
var (
	ErrNotFound = cache.ErrNotFound
	ErrNetwork  = cache.ErrNetwork
)

// NewHTTPClient returns the client used for repository requests.
func NewHTTPClient() *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConnsPerHost = maxConnsPerHost
	return &http.Client{Timeout: httpTimeout, Transport: transport}
}

// RepositoryURL appends path segments to a repository base URL, escaping
// each segment. Trailing slashes on base are ignored.
func RepositoryURL(base string, segments ...string) string {
	var b strings.Builder
	b.WriteString(strings.TrimRight(base, "/"))
	for _, s := range segments {
		b.WriteByte('/')
		b.WriteString(url.PathEscape(s))
	}
	return b.String()
}
