package ordering

import (
	"regexp"
	"slices"
	"sort"
	"strings"
)

// DefaultName is the comparison method used when none is configured or the
// configured one is unknown.
const DefaultName = "maven"

// Comparator orders version strings. Compare returns a negative number when
// a sorts before b, zero when they are equivalent and a positive number
// otherwise.
type Comparator interface {
	Name() string
	Compare(a, b string) int
}

var registry = map[string]Comparator{
	"maven":   Maven,
	"numeric": Numeric,
	"mercury": alias{name: "mercury", Comparator: Maven},
	"semver":  SemVer,
}

// Lookup returns the comparator registered under name, ignoring case.
// Unknown and blank names resolve to the maven comparator.
func Lookup(name string) Comparator {
	if c, ok := registry[strings.ToLower(strings.TrimSpace(name))]; ok {
		return c
	}
	return registry[DefaultName]
}

// Known reports whether name is a registered comparison method.
func Known(name string) bool {
	_, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// Names returns the registered comparison methods in alphabetical order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ForList returns the comparator that orders versions as one list. A
// comparator that falls back to another method for some inputs makes that
// choice once for the whole list, so every pair is compared the same way.
func ForList(c Comparator, versions []string) Comparator {
	if lc, ok := c.(interface{ forList([]string) Comparator }); ok {
		return lc.forList(versions)
	}
	return c
}

// Sort returns a copy of versions in ascending order. Equivalent versions
// keep their relative order.
func Sort(versions []string, c Comparator) []string {
	out := slices.Clone(versions)
	slices.SortStableFunc(out, ForList(c, versions).Compare)
	return out
}

var timestampedSnapshot = regexp.MustCompile(`-\d{8}\.\d{6}-\d+$`)

// IsSnapshot reports whether v is a snapshot version, either "-SNAPSHOT" or
// a timestamped deployment like "1.0-20240102.030405-7".
func IsSnapshot(v string) bool {
	return strings.HasSuffix(strings.ToUpper(v), "-SNAPSHOT") || timestampedSnapshot.MatchString(v)
}

type alias struct {
	name string
	Comparator
}

func (a alias) Name() string { return a.name }
