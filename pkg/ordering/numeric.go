package ordering

import (
	"strings"
	"unicode"
)

// Numeric orders versions segment by segment on '.' boundaries. Each segment
// compares by its leading number; a segment carrying a "-qualifier" sorts
// before the same number without one. When every shared segment is equal the
// version with more segments is newer.
var Numeric Comparator = numericComparator{}

type numericComparator struct{}

func (numericComparator) Name() string { return "numeric" }

func (numericComparator) Compare(a, b string) int {
	sa := strings.Split(a, ".")
	sb := strings.Split(b, ".")
	for i := 0; i < len(sa) && i < len(sb); i++ {
		if c := compareSegment(sa[i], sb[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(sa) < len(sb):
		return -1
	case len(sa) > len(sb):
		return 1
	default:
		return 0
	}
}

func compareSegment(a, b string) int {
	na, ta := splitNumber(a)
	nb, tb := splitNumber(b)
	switch {
	case na == "" && nb == "":
		return strings.Compare(strings.ToLower(a), strings.ToLower(b))
	case na == "":
		return -1
	case nb == "":
		return 1
	}
	if c := compareDigits(na, nb); c != 0 {
		return c
	}
	switch {
	case ta == tb:
		return 0
	case ta == "":
		return 1
	case tb == "":
		return -1
	default:
		return strings.Compare(strings.ToLower(ta), strings.ToLower(tb))
	}
}

// splitNumber splits a segment into its leading digits and the rest.
func splitNumber(s string) (digits, tail string) {
	i := strings.IndexFunc(s, func(r rune) bool { return !unicode.IsDigit(r) })
	if i < 0 {
		return s, ""
	}
	return s[:i], s[i:]
}

// compareDigits compares two decimal strings of any length.
func compareDigits(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}
