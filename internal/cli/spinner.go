package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/matzehuels/versionwatch/pkg/observability"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner animates a status line on stderr while lookups run. Once tracking
// is enabled it also counts finished lookups against the announced batch
// sizes ("Checking org.acme:app:1.0  4/12").
type Spinner struct {
	observability.NoopResolverHooks

	message string
	w       io.Writer
	ctx     context.Context
	cancel  context.CancelFunc

	total    atomic.Int64
	finished atomic.Int64

	mu       sync.Mutex
	width    int
	started  atomic.Bool
	quit     chan struct{}
	exited   chan struct{}
	stopOnce sync.Once
}

func newSpinner(message string) *Spinner {
	return newSpinnerWithContext(context.Background(), message)
}

// newSpinnerWithContext returns a spinner that goes quiet when ctx ends.
func newSpinnerWithContext(ctx context.Context, message string) *Spinner {
	ctx, cancel := context.WithCancel(ctx)
	return &Spinner{
		message: message,
		w:       os.Stderr,
		ctx:     ctx,
		cancel:  cancel,
		quit:    make(chan struct{}),
		exited:  make(chan struct{}),
	}
}

// Start launches the animation.
func (s *Spinner) Start() {
	if s.started.CompareAndSwap(false, true) {
		go s.run()
	}
}

func (s *Spinner) run() {
	defer close(s.exited)
	tick := time.NewTicker(80 * time.Millisecond)
	defer tick.Stop()

	for frame := 0; ; frame++ {
		select {
		case <-s.quit:
			return
		case <-s.ctx.Done():
			s.clear()
			return
		case <-tick.C:
			s.draw(spinnerFrames[frame%len(spinnerFrames)])
		}
	}
}

func (s *Spinner) status() string {
	if total := s.total.Load(); total > 0 {
		return fmt.Sprintf("%s  %d/%d", s.message, s.finished.Load(), total)
	}
	return s.message
}

func (s *Spinner) draw(frame string) {
	line := styleIconSpinner.Render(frame) + " " + styleMuted.Render(s.status())
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = max(s.width, len(s.status())+2)
	fmt.Fprintf(s.w, "\r%s", line)
}

func (s *Spinner) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width > 0 {
		fmt.Fprintf(s.w, "\r%*s\r", s.width, "")
	}
}

// Stop ends the animation and blanks the line. Repeated calls are no-ops.
func (s *Spinner) Stop() {
	s.stopOnce.Do(func() {
		close(s.quit)
		if s.started.Load() {
			<-s.exited
		}
		s.cancel()
		s.clear()
	})
}

// Cancelled reports whether the spinner's context has ended.
func (s *Spinner) Cancelled() bool {
	return s.ctx.Err() != nil
}

// Track routes resolver events to the spinner until the returned function
// is called, which reinstates the previous hooks.
func (s *Spinner) Track() (restore func()) {
	prev := observability.Resolver()
	observability.SetResolverHooks(s)
	return func() { observability.SetResolverHooks(prev) }
}

// OnBatchStart grows the expected lookup count.
func (s *Spinner) OnBatchStart(_ context.Context, _ string, size int) {
	s.total.Add(int64(size))
}

// OnLookup counts a finished lookup.
func (s *Spinner) OnLookup(context.Context, string, int, time.Duration, error) {
	s.finished.Add(1)
}
