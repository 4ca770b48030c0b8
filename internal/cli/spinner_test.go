package cli

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/versionwatch/pkg/observability"
)

func TestSpinnerLifecycle(t *testing.T) {
	tests := []struct {
		name string
		ctx  func() (context.Context, context.CancelFunc)
	}{
		{"stopped", func() (context.Context, context.CancelFunc) { return context.WithCancel(context.Background()) }},
		{"parent cancelled", func() (context.Context, context.CancelFunc) {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			return ctx, cancel
		}},
		{"parent timed out", func() (context.Context, context.CancelFunc) {
			return context.WithTimeout(context.Background(), 20*time.Millisecond)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := tt.ctx()
			defer cancel()

			var buf strings.Builder
			s := newSpinnerWithContext(ctx, "Checking org.acme:app:1.0")
			s.w = &buf
			s.Start()
			s.Start()
			time.Sleep(120 * time.Millisecond)
			s.Stop()
			s.Stop()

			if !s.Cancelled() {
				t.Error("spinner context should be done after Stop")
			}
		})
	}
}

func TestSpinnerStopWithoutStart(t *testing.T) {
	s := newSpinner("idle")
	s.w = &strings.Builder{}
	s.Stop()
	if !s.Cancelled() {
		t.Error("Stop should cancel an unstarted spinner")
	}
}

func TestSpinnerTracksLookups(t *testing.T) {
	var buf strings.Builder
	s := newSpinner("Checking org.acme:app:1.0")
	s.w = &buf

	restore := s.Track()
	hooks := observability.Resolver()
	hooks.OnBatchStart(context.Background(), "dependencies", 3)
	hooks.OnLookup(context.Background(), "g:a", 1, time.Millisecond, nil)
	hooks.OnLookup(context.Background(), "g:b", 0, time.Millisecond, nil)
	restore()

	if got := s.status(); got != "Checking org.acme:app:1.0  2/3" {
		t.Errorf("status() = %q", got)
	}
	if observability.Resolver() == observability.ResolverHooks(s) {
		t.Error("restore should reinstate the previous hooks")
	}

	s.draw(spinnerFrames[0])
	s.Stop()
	if !strings.Contains(buf.String(), "2/3") {
		t.Errorf("drawn line missing progress: %q", buf.String())
	}
	if !strings.HasSuffix(buf.String(), "\r") {
		t.Error("Stop should blank the line")
	}
}
