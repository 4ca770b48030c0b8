package versions

import (
	"reflect"
	"strings"
	"testing"
)

func TestOrdered(t *testing.T) {
	keys := []string{"c", "a", "b", "a"}
	values := []int{3, 1, 2, 10}
	o := NewOrdered(keys, values, strings.Compare)

	if o.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", o.Len())
	}
	if got := o.Keys(); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("Keys() = %v", got)
	}
	// last input wins for duplicate keys
	if v, ok := o.Get("a"); !ok || v != 10 {
		t.Errorf("Get(a) = %d, %v; want 10", v, ok)
	}
	if _, ok := o.Get("z"); ok {
		t.Error("Get(z) should miss")
	}
	if got := o.Values(); !reflect.DeepEqual(got, []int{10, 2, 3}) {
		t.Errorf("Values() = %v", got)
	}

	var seen []string
	for k, v := range o.All() {
		seen = append(seen, k)
		if k == "b" {
			if v != 2 {
				t.Errorf("All() b = %d", v)
			}
			break
		}
	}
	if !reflect.DeepEqual(seen, []string{"a", "b"}) {
		t.Errorf("All() with break = %v", seen)
	}

	// Keys returns a copy
	o.Keys()[0] = "mutated"
	if o.Keys()[0] != "a" {
		t.Error("Keys() must return a copy")
	}
}

func TestOrderedNil(t *testing.T) {
	var o *Ordered[string, int]
	if o.Len() != 0 || o.Keys() != nil || o.Values() != nil {
		t.Error("nil Ordered should be empty")
	}
	if _, ok := o.Get("a"); ok {
		t.Error("nil Ordered Get should miss")
	}
	for range o.All() {
		t.Error("nil Ordered should not yield")
	}
}

func TestCompareDependencies(t *testing.T) {
	a := Dependency{GroupID: "g", ArtifactID: "a", Version: "1"}
	tests := []struct {
		b    Dependency
		want int
	}{
		{Dependency{GroupID: "g", ArtifactID: "a", Version: "1"}, 0},
		{Dependency{GroupID: "h", ArtifactID: "a", Version: "1"}, -1},
		{Dependency{GroupID: "g", ArtifactID: "b", Version: "0"}, -1},
		{Dependency{GroupID: "g", ArtifactID: "a", Version: "0"}, 1},
		{Dependency{GroupID: "g", ArtifactID: "a", Version: "1", Type: "jar"}, -1},
		{Dependency{GroupID: "g", ArtifactID: "a", Version: "1", Classifier: "sources"}, -1},
		// scope is not part of the key
		{Dependency{GroupID: "g", ArtifactID: "a", Version: "1", Scope: "test"}, 0},
	}
	for _, tt := range tests {
		if got := CompareDependencies(a, tt.b); got != tt.want {
			t.Errorf("CompareDependencies(%v, %v) = %d, want %d", a, tt.b, got, tt.want)
		}
	}

	p := Plugin{GroupID: "g", ArtifactID: "a", Version: "1"}
	withDeps := Plugin{GroupID: "g", ArtifactID: "a", Version: "1", Dependencies: []Dependency{a}}
	if ComparePlugins(p, withDeps) != 0 {
		t.Error("plugin dependencies are not part of the key")
	}
}

func TestDependencyString(t *testing.T) {
	tests := []struct {
		d    Dependency
		want string
	}{
		{Dependency{GroupID: "g", ArtifactID: "a", Version: "1"}, "g:a:1"},
		{Dependency{GroupID: "g", ArtifactID: "a", Version: "1", Type: "pom"}, "g:a:1:pom"},
		{Dependency{GroupID: "g", ArtifactID: "a", Version: "1", Classifier: "tests"}, "g:a:1::tests"},
	}
	for _, tt := range tests {
		if got := tt.d.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
