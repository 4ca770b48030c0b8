// Logging for the versionwatch commands.
//
// All commands support --verbose (-v) for debug-level logging, which shows
// the ignore lists in effect, every version removed by them and every lookup
// started, along with repository requests and cache hits. Loggers travel through context.Context so that the HTTP handlers
// can attach the request ID to everything they log.

package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/versionwatch/pkg/observability"
)

// newLogger creates a logger with "HH:MM:SS.ms" timestamps that writes to w
// and filters messages below level.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs the completion of an operation with its elapsed time.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with keyvals and an "elapsed" field rounded to the millisecond.
func (p *progress) done(msg string, keyvals ...any) {
	keyvals = append(keyvals, "elapsed", time.Since(p.start).Round(time.Millisecond))
	p.logger.Info(msg, keyvals...)
}

type ctxKey int

const (
	loggerKey ctxKey = iota
	requestIDKey
)

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx. Without one attached it
// returns a logger that discards everything.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.NewWithOptions(io.Discard, log.Options{})
}

// withRequestID attaches an HTTP request ID to ctx and to its logger.
func withRequestID(ctx context.Context, id string) context.Context {
	ctx = context.WithValue(ctx, requestIDKey, id)
	return withLogger(ctx, loggerFromContext(ctx).With("request_id", id))
}

// requestIDFromContext returns the request ID attached by withRequestID.
func requestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// debugHooks logs repository traffic and cache activity at debug level.
// Installed by --verbose.
type debugHooks struct {
	logger *log.Logger
}

func installDebugHooks(l *log.Logger) {
	h := debugHooks{logger: l}
	observability.SetHTTPHooks(h)
	observability.SetCacheHooks(h)
}

func (h debugHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("repository request", "method", method, "host", host, "path", path)
}

func (h debugHooks) OnResponse(_ context.Context, _, host, path string, status int, d time.Duration) {
	h.logger.Debug("repository response", "host", host, "path", path, "status", status, "took", d.Round(time.Millisecond))
}

func (h debugHooks) OnError(_ context.Context, _, host, path string, err error) {
	h.logger.Debug("repository error", "host", host, "path", path, "err", err)
}

func (h debugHooks) OnCacheHit(_ context.Context, namespace string) {
	h.logger.Debug("cache hit", "namespace", namespace)
}

func (h debugHooks) OnCacheMiss(_ context.Context, namespace string) {
	h.logger.Debug("cache miss", "namespace", namespace)
}

func (h debugHooks) OnCacheSet(_ context.Context, namespace string, size int) {
	h.logger.Debug("cache store", "namespace", namespace, "bytes", size)
}
