package versions

import (
	"context"
	"fmt"
	"math/rand"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/matzehuels/versionwatch/pkg/errors"
	"github.com/matzehuels/versionwatch/pkg/observability"
	"github.com/matzehuels/versionwatch/pkg/rules"
)

// fakeSource serves fixed versions and records calls.
type fakeSource struct {
	versions map[string][]string
	fail     map[string]bool
	delay    func() time.Duration

	mu      sync.Mutex
	calls   []string
	active  atomic.Int32
	maxSeen atomic.Int32
}

func (s *fakeSource) Versions(ctx context.Context, c Coordinate, plugin bool) ([]string, error) {
	n := s.active.Add(1)
	defer s.active.Add(-1)
	for {
		m := s.maxSeen.Load()
		if n <= m || s.maxSeen.CompareAndSwap(m, n) {
			break
		}
	}

	s.mu.Lock()
	s.calls = append(s.calls, fmt.Sprintf("%s plugin=%v", c, plugin))
	s.mu.Unlock()

	if s.fail[c.String()] {
		return nil, fmt.Errorf("connection refused")
	}
	if s.delay != nil {
		select {
		case <-time.After(s.delay()):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.versions[c.String()], nil
}

func deps(n int) []Dependency {
	out := make([]Dependency, n)
	for i := range out {
		out[i] = Dependency{GroupID: fmt.Sprintf("org.g%02d", i), ArtifactID: "lib", Version: "1.0"}
	}
	return out
}

func TestLookupDependenciesUpdatesOrdered(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	var rngMu sync.Mutex
	src := &fakeSource{
		versions: map[string][]string{},
		delay: func() time.Duration {
			rngMu.Lock()
			defer rngMu.Unlock()
			return time.Duration(rng.Intn(5)) * time.Millisecond
		},
	}
	input := deps(20)
	for _, d := range input {
		src.versions[d.Coordinate().String()] = []string{"0.9", "1.0", "1.1", "2.0"}
	}
	h, err := NewHelper(nil, src, nil)
	if err != nil {
		t.Fatal(err)
	}

	shuffled := make([]Dependency, len(input))
	copy(shuffled, input)
	rand.New(rand.NewSource(4)).Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	var firstKeys []Dependency
	for run := 0; run < 5; run++ {
		got, err := h.LookupDependenciesUpdates(context.Background(), shuffled, false, false)
		if err != nil {
			t.Fatalf("LookupDependenciesUpdates: %v", err)
		}
		if got.Len() != len(input) {
			t.Fatalf("Len() = %d, want %d", got.Len(), len(input))
		}
		keys := got.Keys()
		if !reflect.DeepEqual(keys, input) {
			t.Fatalf("keys not in dependency order: %v", keys)
		}
		if run == 0 {
			firstKeys = keys
		} else if !reflect.DeepEqual(keys, firstKeys) {
			t.Fatal("iteration order changed between runs")
		}
		for d, u := range got.All() {
			if !reflect.DeepEqual(u.Newer, []string{"1.1", "2.0"}) {
				t.Errorf("%s: Newer = %v", d, u.Newer)
			}
		}
	}

	if m := src.maxSeen.Load(); m > lookupWorkers {
		t.Errorf("max concurrent lookups = %d, want <= %d", m, lookupWorkers)
	}
}

func TestLookupDependenciesUpdatesFailFast(t *testing.T) {
	input := deps(12)
	bad := Dependency{GroupID: "org.bad", ArtifactID: "lib", Version: "1.0"}
	src := &fakeSource{
		versions: map[string][]string{},
		fail:     map[string]bool{bad.Coordinate().String(): true},
		delay:    func() time.Duration { return 10 * time.Second },
	}
	h, err := NewHelper(nil, src, nil)
	if err != nil {
		t.Fatal(err)
	}

	start := time.Now()
	got, err := h.LookupDependenciesUpdates(context.Background(), append([]Dependency{bad}, input...), false, false)
	if err == nil {
		t.Fatal("batch with a failing lookup should fail")
	}
	if got != nil {
		t.Errorf("partial result returned: %d entries", got.Len())
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("batch took %v; remaining lookups were not cancelled", elapsed)
	}
	if !errors.Is(err, errors.ErrCodeBatchFailed) {
		t.Errorf("error code = %s, want BATCH_FAILED", errors.GetCode(err))
	}
	if !errors.Is(err, errors.ErrCodeMetadataRetrieval) {
		t.Error("batch error should wrap the metadata retrieval failure")
	}
	msg := err.Error()
	for _, want := range []string{"dependencies", "org.bad:lib:1.0", "org.g00:lib:1.0", "connection refused"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error %q should mention %q", msg, want)
		}
	}

	// a fresh pool per call: repeating the failing batch behaves the same
	if _, err := h.LookupDependenciesUpdates(context.Background(), []Dependency{bad}, false, false); !errors.Is(err, errors.ErrCodeBatchFailed) {
		t.Errorf("repeated failing batch: %v", err)
	}
	if n := src.active.Load(); n != 0 {
		t.Errorf("%d lookups still running after the batch returned", n)
	}
}

func TestLookupDependenciesUpdatesInterrupted(t *testing.T) {
	src := &fakeSource{versions: map[string][]string{}}
	h, err := NewHelper(nil, src, nil)
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := h.LookupDependenciesUpdates(ctx, deps(3), false, false)
	if got != nil || !errors.Is(err, errors.ErrCodeBatchFailed) {
		t.Fatalf("cancelled batch = %v, %v; want BATCH_FAILED", got, err)
	}
	if !strings.Contains(err.Error(), context.Canceled.Error()) {
		t.Errorf("error %q should carry the cancellation", err)
	}
}

func TestLookupDependenciesUpdatesEmptyAndDuplicates(t *testing.T) {
	src := &fakeSource{versions: map[string][]string{"org.a:lib": {"1.0", "2.0"}}}
	h, err := NewHelper(nil, src, nil)
	if err != nil {
		t.Fatal(err)
	}

	got, err := h.LookupDependenciesUpdates(context.Background(), nil, false, false)
	if err != nil || got.Len() != 0 {
		t.Fatalf("empty batch = %v, %v", got, err)
	}

	d := Dependency{GroupID: "org.a", ArtifactID: "lib", Version: "1.0"}
	got, err = h.LookupDependenciesUpdates(context.Background(), []Dependency{d, d}, false, false)
	if err != nil {
		t.Fatal(err)
	}
	if got.Len() != 1 {
		t.Errorf("duplicate dependencies should collapse, Len() = %d", got.Len())
	}
}

func TestLookupDependencyUpdates(t *testing.T) {
	src := &fakeSource{versions: map[string][]string{
		"org.a:lib": {"1.0", "1.1-SNAPSHOT", "1.1", "2.0-beta", "2.0"},
	}}
	rs := &rules.RuleSet{IgnoreVersions: []rules.IgnoreVersion{{Type: rules.IgnoreRegex, Value: ".*-beta"}}}
	h, err := NewHelper(rs, src, nil)
	if err != nil {
		t.Fatal(err)
	}

	u, err := h.LookupDependencyUpdates(context.Background(), Dependency{GroupID: "org.a", ArtifactID: "lib", Version: "1.0"}, false, false)
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"1.1", "2.0"}; !reflect.DeepEqual(u.Newer, want) {
		t.Errorf("Newer = %v, want %v", u.Newer, want)
	}
	if u.Latest != "2.0" || !u.HasUpdates() || u.Comparator != "maven" {
		t.Errorf("Updates = %+v", u)
	}
	if next, _ := u.Next(); next != "1.1" {
		t.Errorf("Next() = %s, want 1.1", next)
	}

	u, err = h.LookupDependencyUpdates(context.Background(), Dependency{GroupID: "org.a", ArtifactID: "lib", Version: "1.0"}, true, false)
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"1.1-SNAPSHOT", "1.1", "2.0"}; !reflect.DeepEqual(u.Newer, want) {
		t.Errorf("Newer with snapshots = %v, want %v", u.Newer, want)
	}

	// no version: every candidate is an update
	u, err = h.LookupDependencyUpdates(context.Background(), Dependency{GroupID: "org.a", ArtifactID: "lib"}, false, false)
	if err != nil {
		t.Fatal(err)
	}
	if u.Current != "[,0]" || len(u.Newer) != 3 {
		t.Errorf("unversioned dependency: current %q, newer %v", u.Current, u.Newer)
	}
}

func TestLookupArtifactVersionsError(t *testing.T) {
	src := &fakeSource{fail: map[string]bool{"org.a:lib": true}}
	h, err := NewHelper(nil, src, nil)
	if err != nil {
		t.Fatal(err)
	}
	_, err = h.LookupArtifactVersions(context.Background(), Coordinate{"org.a", "lib"}, false)
	if !errors.Is(err, errors.ErrCodeMetadataRetrieval) {
		t.Errorf("error = %v, want METADATA_RETRIEVAL", err)
	}
}

func TestLookupPluginsUpdates(t *testing.T) {
	src := &fakeSource{versions: map[string][]string{
		"org.apache.maven.plugins:maven-compiler-plugin": {"3.8.0", "3.11.0"},
		"org.apache.maven.plugins:maven-jar-plugin":      {"3.3.0"},
		"org.ow2.asm:asm":                                {"9.0", "9.5"},
	}}
	h, err := NewHelper(nil, src, nil)
	if err != nil {
		t.Fatal(err)
	}

	compiler := Plugin{
		GroupID: "org.apache.maven.plugins", ArtifactID: "maven-compiler-plugin", Version: "3.8.0",
		Dependencies: []Dependency{{GroupID: "org.ow2.asm", ArtifactID: "asm", Version: "9.0"}},
	}
	jar := Plugin{GroupID: "org.apache.maven.plugins", ArtifactID: "maven-jar-plugin"}

	got, err := h.LookupPluginsUpdates(context.Background(), []Plugin{jar, compiler}, false)
	if err != nil {
		t.Fatalf("LookupPluginsUpdates: %v", err)
	}
	keys := got.Keys()
	if len(keys) != 2 || keys[0].ArtifactID != "maven-compiler-plugin" || keys[1].ArtifactID != "maven-jar-plugin" {
		t.Fatalf("keys = %v", keys)
	}

	cu, ok := got.Get(compiler)
	if !ok {
		t.Fatal("compiler plugin missing")
	}
	if !reflect.DeepEqual(cu.Newer, []string{"3.11.0"}) {
		t.Errorf("compiler Newer = %v", cu.Newer)
	}
	asm, ok := cu.Dependencies.Get(compiler.Dependencies[0])
	if !ok || !reflect.DeepEqual(asm.Newer, []string{"9.5"}) {
		t.Errorf("asm updates = %+v", asm)
	}
	if !cu.HasUpdates() {
		t.Error("compiler plugin should report updates")
	}

	ju, _ := got.Get(jar)
	if ju.Current != VersionLatest || ju.HasUpdates() || ju.Latest != "3.3.0" {
		t.Errorf("unversioned plugin = %+v", ju.Updates)
	}

	src.mu.Lock()
	calls := strings.Join(src.calls, "\n")
	src.mu.Unlock()
	for _, want := range []string{
		"org.apache.maven.plugins:maven-compiler-plugin plugin=true",
		"org.apache.maven.plugins:maven-jar-plugin plugin=true",
		"org.ow2.asm:asm plugin=false",
	} {
		if !strings.Contains(calls, want) {
			t.Errorf("missing lookup %q in\n%s", want, calls)
		}
	}
}

func TestLookupPluginsUpdatesNestedFailure(t *testing.T) {
	src := &fakeSource{
		versions: map[string][]string{"org.p:plugin": {"1.0"}},
		fail:     map[string]bool{"org.bad:dep": true},
	}
	h, err := NewHelper(nil, src, nil)
	if err != nil {
		t.Fatal(err)
	}
	p := Plugin{GroupID: "org.p", ArtifactID: "plugin", Version: "1.0",
		Dependencies: []Dependency{{GroupID: "org.bad", ArtifactID: "dep", Version: "1"}}}

	_, err = h.LookupPluginsUpdates(context.Background(), []Plugin{p}, false)
	if !errors.Is(err, errors.ErrCodeBatchFailed) {
		t.Fatalf("error = %v, want BATCH_FAILED", err)
	}
	if msg := err.Error(); !strings.Contains(msg, "plugins [org.p:plugin:1.0]") || !strings.Contains(msg, "dependencies [org.bad:dep:1]") {
		t.Errorf("error should name both batches: %s", msg)
	}
}

type recordingHooks struct {
	observability.NoopResolverHooks
	mu      sync.Mutex
	batches []string
	lookups atomic.Int32
}

func (r *recordingHooks) OnBatchComplete(_ context.Context, kind string, size int, _ time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = append(r.batches, fmt.Sprintf("%s/%d/%v", kind, size, err == nil))
}

func (r *recordingHooks) OnLookup(context.Context, string, int, time.Duration, error) {
	r.lookups.Add(1)
}

func TestResolverHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetResolverHooks(hooks)
	defer observability.Reset()

	src := &fakeSource{versions: map[string][]string{}}
	h, err := NewHelper(nil, src, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := h.LookupDependenciesUpdates(context.Background(), deps(3), false, false); err != nil {
		t.Fatal(err)
	}
	if hooks.lookups.Load() != 3 {
		t.Errorf("lookups = %d, want 3", hooks.lookups.Load())
	}
	if !reflect.DeepEqual(hooks.batches, []string{"dependencies/3/true"}) {
		t.Errorf("batches = %v", hooks.batches)
	}
}
