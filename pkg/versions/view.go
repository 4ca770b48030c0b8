package versions

import (
	"slices"
	"strings"

	"deps.dev/util/semver"

	"github.com/matzehuels/versionwatch/pkg/ordering"
)

// Meta versions that track the newest release instead of pinning one.
const (
	VersionLatest  = "LATEST"
	VersionRelease = "RELEASE"
)

// unpinnedRange is the requirement used for dependencies declared without a
// version: no real version satisfies it, so every candidate is an update.
const unpinnedRange = "[,0]"

// ArtifactVersions is the filtered set of known versions of one artifact
// together with the comparator that orders them.
type ArtifactVersions struct {
	Coordinate       Coordinate
	Comparator       ordering.Comparator
	IncludeSnapshots bool

	versions []string
}

// NewArtifactVersions creates a view over versions, which are kept in the
// order given.
func NewArtifactVersions(c Coordinate, versions []string, comparator ordering.Comparator, includeSnapshots bool) *ArtifactVersions {
	if comparator == nil {
		comparator = ordering.Lookup(ordering.DefaultName)
	}
	return &ArtifactVersions{
		Coordinate:       c,
		Comparator:       comparator,
		IncludeSnapshots: includeSnapshots,
		versions:         slices.Clone(versions),
	}
}

// WithSnapshots returns a copy of the view with IncludeSnapshots set.
func (av *ArtifactVersions) WithSnapshots(include bool) *ArtifactVersions {
	cp := *av
	cp.IncludeSnapshots = include
	return &cp
}

// Versions returns every candidate in source order, snapshots included.
func (av *ArtifactVersions) Versions() []string {
	return slices.Clone(av.versions)
}

// Sorted returns the candidates in ascending order, honoring IncludeSnapshots.
func (av *ArtifactVersions) Sorted() []string {
	return ordering.Sort(av.candidates(), av.Comparator)
}

// Newest returns the greatest candidate, honoring IncludeSnapshots.
func (av *ArtifactVersions) Newest() (string, bool) {
	sorted := av.Sorted()
	if len(sorted) == 0 {
		return "", false
	}
	return sorted[len(sorted)-1], true
}

// NewerThan returns the candidates newer than current in ascending order.
//
// current may be a plain version, a version range such as "[1.0,2.0)" or a
// meta version. For a range the newest candidate inside the range is the
// reference point; if none is inside, every candidate is newer. LATEST and
// RELEASE already follow the newest release, so nothing is newer.
func (av *ArtifactVersions) NewerThan(current string) []string {
	current = strings.TrimSpace(current)
	if current == VersionLatest || current == VersionRelease {
		return nil
	}
	candidates := av.candidates()
	if isRange(current) {
		ref, ok := av.newestInRange(current)
		if !ok {
			return ordering.Sort(candidates, av.Comparator)
		}
		current = ref
	}
	cmp := ordering.ForList(av.Comparator, slices.Concat(candidates, []string{current}))
	var out []string
	for _, v := range ordering.Sort(candidates, cmp) {
		if cmp.Compare(v, current) > 0 {
			out = append(out, v)
		}
	}
	return out
}

// HasUpdates reports whether any candidate is newer than current.
func (av *ArtifactVersions) HasUpdates(current string) bool {
	return len(av.NewerThan(current)) > 0
}

func (av *ArtifactVersions) candidates() []string {
	if av.IncludeSnapshots {
		return av.versions
	}
	out := make([]string, 0, len(av.versions))
	for _, v := range av.versions {
		if !ordering.IsSnapshot(v) {
			out = append(out, v)
		}
	}
	return out
}

func (av *ArtifactVersions) newestInRange(requirement string) (string, bool) {
	constraint, err := semver.Maven.ParseConstraint(requirement)
	if err != nil {
		return "", false
	}
	candidates := av.candidates()
	cmp := ordering.ForList(av.Comparator, candidates)
	best, found := "", false
	for _, v := range candidates {
		parsed, err := semver.Maven.Parse(v)
		if err != nil || !constraint.MatchVersion(parsed) {
			continue
		}
		if !found || cmp.Compare(v, best) > 0 {
			best, found = v, true
		}
	}
	return best, found
}

func isRange(v string) bool {
	return strings.HasPrefix(v, "[") || strings.HasPrefix(v, "(")
}

// Updates describes the update situation of one declared artifact.
type Updates struct {
	Coordinate Coordinate `json:"coordinate"`
	Current    string     `json:"current"`
	Newer      []string   `json:"newer"`
	Latest     string     `json:"latest,omitempty"`
	Comparator string     `json:"comparison_method"`

	versions *ArtifactVersions
}

func newUpdates(view *ArtifactVersions, current string) *Updates {
	latest, _ := view.Newest()
	newer := view.NewerThan(current)
	if newer == nil {
		newer = []string{}
	}
	return &Updates{
		Coordinate: view.Coordinate,
		Current:    current,
		Newer:      newer,
		Latest:     latest,
		Comparator: view.Comparator.Name(),
		versions:   view,
	}
}

// HasUpdates reports whether a newer version exists.
func (u *Updates) HasUpdates() bool {
	return len(u.Newer) > 0
}

// Next returns the smallest newer version.
func (u *Updates) Next() (string, bool) {
	if len(u.Newer) == 0 {
		return "", false
	}
	return u.Newer[0], true
}

// Versions returns the underlying view.
func (u *Updates) Versions() *ArtifactVersions {
	return u.versions
}

// PluginUpdates describes a plugin and the dependencies declared inside it.
type PluginUpdates struct {
	*Updates
	Dependencies *Ordered[Dependency, *Updates] `json:"-"`
}

// HasUpdates reports whether the plugin or any of its dependencies can be
// updated.
func (p *PluginUpdates) HasUpdates() bool {
	if p.Updates.HasUpdates() {
		return true
	}
	for _, u := range p.Dependencies.All() {
		if u.HasUpdates() {
			return true
		}
	}
	return false
}
