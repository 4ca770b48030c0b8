package versions

import (
	"reflect"
	"testing"

	"github.com/matzehuels/versionwatch/pkg/ordering"
)

func TestArtifactVersions(t *testing.T) {
	c := Coordinate{"org.a", "lib"}
	av := NewArtifactVersions(c, []string{"1.10", "1.2", "2.0-SNAPSHOT", "1.9"}, ordering.Numeric, false)

	if got := av.Versions(); !reflect.DeepEqual(got, []string{"1.10", "1.2", "2.0-SNAPSHOT", "1.9"}) {
		t.Errorf("Versions() = %v, want source order", got)
	}
	if got := av.Sorted(); !reflect.DeepEqual(got, []string{"1.2", "1.9", "1.10"}) {
		t.Errorf("Sorted() = %v", got)
	}
	if newest, ok := av.Newest(); !ok || newest != "1.10" {
		t.Errorf("Newest() = %s, %v", newest, ok)
	}
	if got := av.NewerThan("1.2"); !reflect.DeepEqual(got, []string{"1.9", "1.10"}) {
		t.Errorf("NewerThan(1.2) = %v", got)
	}
	if av.HasUpdates("1.10") {
		t.Error("HasUpdates(1.10) should be false")
	}

	snap := av.WithSnapshots(true)
	if newest, _ := snap.Newest(); newest != "2.0-SNAPSHOT" {
		t.Errorf("Newest() with snapshots = %s", newest)
	}
	if av.IncludeSnapshots {
		t.Error("WithSnapshots must not modify the receiver")
	}
}

func TestArtifactVersionsNewerThanSpecial(t *testing.T) {
	av := NewArtifactVersions(Coordinate{"org.a", "lib"}, []string{"1.0", "1.5", "2.0", "2.1"}, nil, false)
	if av.Comparator.Name() != "maven" {
		t.Errorf("default comparator = %s", av.Comparator.Name())
	}

	tests := []struct {
		current string
		want    []string
	}{
		{"LATEST", nil},
		{"RELEASE", nil},
		{"[1.0,2.0)", []string{"2.0", "2.1"}},
		{"[,0]", []string{"1.0", "1.5", "2.0", "2.1"}},
		{"[3.0,)", []string{"1.0", "1.5", "2.0", "2.1"}},
		{"1.5", []string{"2.0", "2.1"}},
	}
	for _, tt := range tests {
		if got := av.NewerThan(tt.current); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("NewerThan(%q) = %v, want %v", tt.current, got, tt.want)
		}
	}
}

func TestArtifactVersionsRangeSkipsSnapshots(t *testing.T) {
	av := NewArtifactVersions(Coordinate{"org.a", "lib"}, []string{"0.9", "1.1-SNAPSHOT", "2.0"}, ordering.Maven, false)

	// the only version inside the range is a snapshot, so nothing anchors it
	if got, want := av.NewerThan("[1.0,2.0)"), []string{"0.9", "2.0"}; !reflect.DeepEqual(got, want) {
		t.Errorf("NewerThan without snapshots = %v, want %v", got, want)
	}
	if got, want := av.WithSnapshots(true).NewerThan("[1.0,2.0)"), []string{"2.0"}; !reflect.DeepEqual(got, want) {
		t.Errorf("NewerThan with snapshots = %v, want %v", got, want)
	}
}

func TestArtifactVersionsEmpty(t *testing.T) {
	av := NewArtifactVersions(Coordinate{"org.a", "lib"}, nil, ordering.Maven, false)
	if _, ok := av.Newest(); ok {
		t.Error("Newest() on empty view should report false")
	}
	if av.HasUpdates("1.0") {
		t.Error("empty view has no updates")
	}
}
