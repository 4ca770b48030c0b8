package rules

import (
	"math/rand"
	"strings"
	"testing"
)

func TestScore(t *testing.T) {
	tests := []struct {
		pattern string
		want    int
	}{
		{"org.apache.maven", 0},
		{"", 0},
		{"org.apache.?", 1},
		{"org.??", 2},
		{"org.*", 1000},
		{"*", 1000},
		{"*.*", 2000},
		{"org.*.?", 1001},
	}
	for _, tt := range tests {
		if got := Score(tt.pattern); got != tt.want {
			t.Errorf("Score(%q) = %d, want %d", tt.pattern, got, tt.want)
		}
	}
}

func TestPatternMatching(t *testing.T) {
	tests := []struct {
		pattern   string
		value     string
		wantExact bool
		wantMatch bool
	}{
		{"org.apache", "org.apache", true, true},
		{"org.apache", "org.apache.maven", false, true},
		{"org.apache", "org.apachex", false, true},
		{"org.apache", "com.apache", false, false},
		{"org.*", "org.apache.maven", true, true},
		{"org.*", "org", false, false},
		{"*", "", true, true},
		{"*", "anything", true, true},
		{"junit?", "junit5", true, true},
		{"junit?", "junit", false, false},
		{"junit?", "junit55", false, true},
		{"com.example.*", "com.example.foo", true, true},
		{"com.example.*", "com.exampleXfoo", false, false},
		{"a+b", "a+b", true, true},
		{"a+b", "aab", false, false},
		{"(x)", "(x)", true, true},
	}
	for _, tt := range tests {
		p, err := CompilePattern(tt.pattern)
		if err != nil {
			t.Fatalf("CompilePattern(%q): %v", tt.pattern, err)
		}
		if got := p.MatchesExact(tt.value); got != tt.wantExact {
			t.Errorf("%q.MatchesExact(%q) = %v, want %v", tt.pattern, tt.value, got, tt.wantExact)
		}
		if got := p.Matches(tt.value); got != tt.wantMatch {
			t.Errorf("%q.Matches(%q) = %v, want %v", tt.pattern, tt.value, got, tt.wantMatch)
		}
		if got := MatchesExact(tt.pattern, tt.value); got != tt.wantExact {
			t.Errorf("MatchesExact(%q, %q) = %v, want %v", tt.pattern, tt.value, got, tt.wantExact)
		}
		if got := Matches(tt.pattern, tt.value); got != tt.wantMatch {
			t.Errorf("Matches(%q, %q) = %v, want %v", tt.pattern, tt.value, got, tt.wantMatch)
		}
	}
}

func TestWildcardRegex(t *testing.T) {
	if got := wildcardRegex("org.*", true); got != `^(?:org\..*)$` {
		t.Errorf("exact regex = %s", got)
	}
	if got := wildcardRegex("a?b", false); got != `^(?:a.b.*)$` {
		t.Errorf("wildcard regex = %s", got)
	}
}

// An exact match always implies a wildcard match.
func TestExactImpliesMatch(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 2000; i++ {
		pattern := randomPattern(rng)
		value := randomValue(rng)
		p := MustCompilePattern(pattern)
		if p.MatchesExact(value) && !p.Matches(value) {
			t.Fatalf("%q matches %q exactly but not as a wildcard", pattern, value)
		}
	}
}

// Replacing a literal with a wildcard, or appending one, never lowers the score.
func TestScoreMonotonic(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	for i := 0; i < 2000; i++ {
		pattern := randomPattern(rng)
		base := Score(pattern)

		for _, wc := range []string{"?", "*"} {
			if got := Score(pattern + wc); got < base {
				t.Fatalf("Score(%q) = %d < Score(%q) = %d", pattern+wc, got, pattern, base)
			}
			if idx := strings.IndexFunc(pattern, func(r rune) bool { return r != '*' && r != '?' }); idx >= 0 {
				replaced := pattern[:idx] + wc + pattern[idx+1:]
				if got := Score(replaced); got < base {
					t.Fatalf("Score(%q) = %d < Score(%q) = %d", replaced, got, pattern, base)
				}
			}
		}
		if got := Score(strings.Replace(pattern, "?", "*", 1)); got < base {
			t.Fatalf("widening ? to * lowered the score of %q", pattern)
		}
	}
}

func randomPattern(rng *rand.Rand) string {
	const alphabet = "ab.-*?"
	n := rng.Intn(8)
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteByte(alphabet[rng.Intn(len(alphabet))])
	}
	return b.String()
}

func randomValue(rng *rand.Rand) string {
	const alphabet = "ab.-"
	n := rng.Intn(8)
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteByte(alphabet[rng.Intn(len(alphabet))])
	}
	return b.String()
}
