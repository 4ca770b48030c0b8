package ordering

import (
	"github.com/Masterminds/semver/v3"
)

// SemVer orders versions by Semantic Versioning 2.0 precedence. Pairs where
// either side is not a semantic version fall back to [Maven]. Mixing both
// kinds in one list can make pairwise results inconsistent, so lists are
// ordered through [ForList], which uses Maven for the whole list as soon as
// one entry is not a semantic version.
var SemVer Comparator = semverComparator{}

type semverComparator struct{}

func (semverComparator) Name() string { return "semver" }

func (semverComparator) Compare(a, b string) int {
	va, errA := semver.NewVersion(a)
	vb, errB := semver.NewVersion(b)
	if errA != nil || errB != nil {
		return Maven.Compare(a, b)
	}
	return va.Compare(vb)
}

func (c semverComparator) forList(versions []string) Comparator {
	for _, v := range versions {
		if _, err := semver.NewVersion(v); err != nil {
			return Maven
		}
	}
	return c
}
