package ordering

import (
	"strings"

	"deps.dev/util/semver"
)

// Maven orders versions the way Maven's ComparableVersion does: numeric
// segments compare numerically, qualifiers such as alpha, beta, rc and
// SNAPSHOT sort before the release, and trailing zero segments are ignored.
var Maven Comparator = mavenComparator{}

type mavenComparator struct{}

func (mavenComparator) Name() string { return "maven" }

func (mavenComparator) Compare(a, b string) int {
	va, errA := semver.Maven.Parse(a)
	vb, errB := semver.Maven.Parse(b)
	switch {
	case errA == nil && errB == nil:
		return va.Compare(vb)
	case errA == nil:
		return 1
	case errB == nil:
		return -1
	default:
		return strings.Compare(a, b)
	}
}
