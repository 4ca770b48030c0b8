// Package integrations holds what the repository clients share: an HTTP
// client that sends default headers, retries transient failures and caches
// decoded results.
//
// The maven subpackage builds on it:
//
//	base := integrations.NewClient(c, "maven", 6*time.Hour, headers)
//	versions, err := integrations.Cached(ctx, base, key, refresh,
//	    func(ctx context.Context) ([]string, error) {
//	        data, err := base.GetBytes(ctx, url, nil)
//	        ...
//	    })
//
// A 404 yields [ErrNotFound]. Every other failure yields [ErrNetwork];
// connection errors, 429 and 5xx responses are additionally marked
// retryable for [cache.Backoff].
//
// [cache.Backoff]: https://pkg.go.dev/github.com/matzehuels/versionwatch/pkg/cache#Backoff
package integrations
