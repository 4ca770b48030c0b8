package rules

import (
	"regexp"
	"strings"
)

// Specificity weights. A pattern's score is the sum of the weights of its
// wildcards; literal characters weigh nothing, so a pattern without wildcards
// scores 0 and is the most specific.
const (
	singleCharWeight = 1
	anyRunWeight     = 1000
)

// Pattern is a compiled groupId or artifactId wildcard pattern.
//
// Two wildcards are recognized: '?' matches exactly one character and '*'
// matches any run of characters, including none. Everything else is literal.
type Pattern struct {
	raw      string
	exact    *regexp.Regexp
	wildcard *regexp.Regexp
	score    int
}

// CompilePattern compiles a wildcard pattern into its exact and wildcard
// matchers.
func CompilePattern(pattern string) (*Pattern, error) {
	exact, err := regexp.Compile(wildcardRegex(pattern, true))
	if err != nil {
		return nil, err
	}
	wildcard, err := regexp.Compile(wildcardRegex(pattern, false))
	if err != nil {
		return nil, err
	}
	return &Pattern{raw: pattern, exact: exact, wildcard: wildcard, score: Score(pattern)}, nil
}

// MustCompilePattern is like CompilePattern but panics on error.
func MustCompilePattern(pattern string) *Pattern {
	p, err := CompilePattern(pattern)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the source pattern.
func (p *Pattern) String() string { return p.raw }

// Score returns the specificity score. Lower is more specific.
func (p *Pattern) Score() int { return p.score }

// MatchesExact reports whether the whole value matches the pattern.
func (p *Pattern) MatchesExact(value string) bool { return p.exact.MatchString(value) }

// Matches reports whether the pattern matches a prefix of value, so that
// "org.apache" matches "org.apache.maven".
func (p *Pattern) Matches(value string) bool { return p.wildcard.MatchString(value) }

// MatchesExact compiles pattern and reports whether it matches all of value.
func MatchesExact(pattern, value string) bool {
	p, err := CompilePattern(pattern)
	return err == nil && p.MatchesExact(value)
}

// Matches compiles pattern and reports whether it matches value as a prefix
// pattern.
func Matches(pattern, value string) bool {
	p, err := CompilePattern(pattern)
	return err == nil && p.Matches(value)
}

// Score returns the specificity score of a wildcard pattern.
func Score(pattern string) int {
	score := 0
	for _, r := range pattern {
		switch r {
		case '?':
			score += singleCharWeight
		case '*':
			score += anyRunWeight
		}
	}
	return score
}

// wildcardRegex translates a wildcard pattern into an anchored regular
// expression. Literal runs are quoted. Non-exact expressions accept any
// trailing characters.
func wildcardRegex(pattern string, exact bool) string {
	var b strings.Builder
	b.WriteString("^(?:")
	literal := 0
	flush := func(end int) {
		if literal < end {
			b.WriteString(regexp.QuoteMeta(pattern[literal:end]))
		}
	}
	for i := 0; i < len(pattern); i++ {
		switch pattern[i] {
		case '?':
			flush(i)
			b.WriteString(".")
			literal = i + 1
		case '*':
			flush(i)
			b.WriteString(".*")
			literal = i + 1
		}
	}
	flush(len(pattern))
	if !exact {
		b.WriteString(".*")
	}
	b.WriteString(")$")
	return b.String()
}
