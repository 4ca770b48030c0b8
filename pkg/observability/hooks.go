// Package observability lets an embedding program watch versionwatch work
// without the libraries depending on any metrics or tracing backend.
//
// There are three hook sets: [ResolverHooks] for dependency and plugin
// batches, [CacheHooks] for the metadata cache, and [HTTPHooks] for
// repository requests. Each starts out as a no-op and can be replaced at any
// time; the libraries look the current set up on every event:
//
//	counters := observability.NewCounters()
//	observability.SetResolverHooks(counters)
//	observability.SetCacheHooks(counters)
//
// [Counters] is the implementation behind `versionwatch serve`'s /v1/stats.
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// ResolverHooks receives events from the update resolver.
type ResolverHooks interface {
	// OnBatchStart and OnBatchComplete bracket one batch; kind is
	// "dependencies" or "plugins".
	OnBatchStart(ctx context.Context, kind string, size int)
	OnBatchComplete(ctx context.Context, kind string, size int, duration time.Duration, err error)

	// OnLookup reports one groupId:artifactId lookup and how many
	// candidate versions survived filtering.
	OnLookup(ctx context.Context, coordinate string, versions int, duration time.Duration, err error)
}

// CacheHooks receives events from the metadata cache. keyType is the
// namespace of the client that accessed it, e.g. "maven:".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives events for requests to remote repositories.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, host, path string)
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)
	// OnError is called when no response arrived at all.
	OnError(ctx context.Context, method, host, path string, err error)
}

type (
	NoopResolverHooks struct{}
	NoopCacheHooks    struct{}
	NoopHTTPHooks     struct{}
)

func (NoopResolverHooks) OnBatchStart(context.Context, string, int)                           {}
func (NoopResolverHooks) OnBatchComplete(context.Context, string, int, time.Duration, error) {}
func (NoopResolverHooks) OnLookup(context.Context, string, int, time.Duration, error)        {}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// slot holds the current implementation of one hook set.
type slot[T any] struct {
	p    atomic.Pointer[T]
	noop T
}

func (s *slot[T]) get() T {
	if h := s.p.Load(); h != nil {
		return *h
	}
	return s.noop
}

func (s *slot[T]) set(h T) { s.p.Store(&h) }

func (s *slot[T]) reset() { s.p.Store(nil) }

var (
	resolverSlot = slot[ResolverHooks]{noop: NoopResolverHooks{}}
	cacheSlot    = slot[CacheHooks]{noop: NoopCacheHooks{}}
	httpSlot     = slot[HTTPHooks]{noop: NoopHTTPHooks{}}
)

// SetResolverHooks replaces the resolver hooks. nil is ignored.
func SetResolverHooks(h ResolverHooks) {
	if h != nil {
		resolverSlot.set(h)
	}
}

// SetCacheHooks replaces the cache hooks. nil is ignored.
func SetCacheHooks(h CacheHooks) {
	if h != nil {
		cacheSlot.set(h)
	}
}

// SetHTTPHooks replaces the HTTP hooks. nil is ignored.
func SetHTTPHooks(h HTTPHooks) {
	if h != nil {
		httpSlot.set(h)
	}
}

func Resolver() ResolverHooks { return resolverSlot.get() }
func Cache() CacheHooks       { return cacheSlot.get() }
func HTTP() HTTPHooks         { return httpSlot.get() }

// Reset puts the no-op hooks back in place.
func Reset() {
	resolverSlot.reset()
	cacheSlot.reset()
	httpSlot.reset()
}
