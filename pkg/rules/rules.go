package rules

import (
	"encoding/xml"
	"regexp"
	"strings"

	"github.com/matzehuels/versionwatch/pkg/errors"
)

// Ignore-version types.
const (
	IgnoreExact = "exact"
	IgnoreRegex = "regex"
)

// IgnoreVersion excludes candidate versions, either by exact value or by a
// regular expression that must match the whole version string.
type IgnoreVersion struct {
	Type  string `xml:"type,attr" toml:"type" json:"type"`
	Value string `xml:",chardata" toml:"value" json:"value"`

	re *regexp.Regexp
}

// Valid reports whether the entry has a known type.
func (iv IgnoreVersion) Valid() bool {
	return iv.Type == IgnoreExact || iv.Type == IgnoreRegex
}

// Matches reports whether version is excluded by this entry. Entries with an
// unknown type match nothing.
func (iv IgnoreVersion) Matches(version string) bool {
	switch iv.Type {
	case IgnoreExact:
		return version == iv.Value
	case IgnoreRegex:
		re := iv.re
		if re == nil {
			var err error
			if re, err = compileIgnoreRegex(iv.Value); err != nil {
				return false
			}
		}
		return re.MatchString(version)
	default:
		return false
	}
}

// String returns "type:value".
func (iv IgnoreVersion) String() string {
	return iv.Type + ":" + iv.Value
}

func compileIgnoreRegex(expr string) (*regexp.Regexp, error) {
	return regexp.Compile("^(?:" + expr + ")$")
}

// Rule binds a groupId/artifactId wildcard pair to a comparison method and
// a list of ignored versions.
type Rule struct {
	GroupID          string          `xml:"groupId,attr" toml:"group_id" json:"group_id"`
	ArtifactID       string          `xml:"artifactId,attr" toml:"artifact_id" json:"artifact_id"`
	ComparisonMethod string          `xml:"comparisonMethod,attr" toml:"comparison_method" json:"comparison_method,omitempty"`
	IgnoreVersions   []IgnoreVersion `xml:"ignoreVersions>ignoreVersion" toml:"ignore_versions" json:"ignore_versions,omitempty"`

	group    *Pattern
	artifact *Pattern
}

// String returns "groupId:artifactId".
func (r *Rule) String() string {
	return r.GroupID + ":" + r.ArtifactID
}

// GroupPattern returns the compiled groupId pattern.
func (r *Rule) GroupPattern() *Pattern {
	if r.group == nil {
		r.group = MustCompilePattern(r.GroupID)
	}
	return r.group
}

// ArtifactPattern returns the compiled artifactId pattern.
func (r *Rule) ArtifactPattern() *Pattern {
	if r.artifact == nil {
		r.artifact = MustCompilePattern(r.ArtifactID)
	}
	return r.artifact
}

// RuleSet is the policy configuration: an ordered list of rules, a default
// comparison method and ignore-version entries that apply to every artifact.
//
// A RuleSet must be compiled before use and is read-only afterwards, so it
// can be shared between goroutines without locking.
type RuleSet struct {
	XMLName          xml.Name        `xml:"ruleset" toml:"-" json:"-"`
	ComparisonMethod string          `xml:"comparisonMethod,attr" toml:"comparison_method" json:"comparison_method,omitempty"`
	IgnoreVersions   []IgnoreVersion `xml:"ignoreVersions>ignoreVersion" toml:"ignore_versions" json:"ignore_versions,omitempty"`
	Rules            []Rule          `xml:"rules>rule" toml:"rules" json:"rules,omitempty"`

	compiled bool
}

// Empty returns a compiled rule set with no rules and no ignored versions.
func Empty() *RuleSet {
	return &RuleSet{compiled: true}
}

// Compile normalizes and validates the rule set and precompiles every
// pattern. It is idempotent.
//
// Rules without a groupId and regex ignore entries that do not compile are
// reported as [errors.ErrCodeInvalidRule]. An empty artifactId means "*" and
// an empty ignore type means "exact". Entries of an unknown type are kept;
// they are reported when the versions of a matching artifact are filtered.
func (rs *RuleSet) Compile() error {
	if rs.compiled {
		return nil
	}
	rs.ComparisonMethod = strings.TrimSpace(rs.ComparisonMethod)
	if err := compileIgnores(rs.IgnoreVersions, "ruleset"); err != nil {
		return err
	}
	for i := range rs.Rules {
		r := &rs.Rules[i]
		r.GroupID = strings.TrimSpace(r.GroupID)
		r.ArtifactID = strings.TrimSpace(r.ArtifactID)
		r.ComparisonMethod = strings.TrimSpace(r.ComparisonMethod)
		if r.GroupID == "" {
			return errors.New(errors.ErrCodeInvalidRule, "rule %d has an empty groupId", i+1)
		}
		if r.ArtifactID == "" {
			r.ArtifactID = "*"
		}
		var err error
		if r.group, err = CompilePattern(r.GroupID); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidRule, err, "rule %s: groupId pattern", r)
		}
		if r.artifact, err = CompilePattern(r.ArtifactID); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidRule, err, "rule %s: artifactId pattern", r)
		}
		if err := compileIgnores(r.IgnoreVersions, "rule "+r.String()); err != nil {
			return err
		}
	}
	rs.compiled = true
	return nil
}

func compileIgnores(ignores []IgnoreVersion, owner string) error {
	for i := range ignores {
		iv := &ignores[i]
		iv.Type = strings.TrimSpace(iv.Type)
		iv.Value = strings.TrimSpace(iv.Value)
		if iv.Type == "" {
			iv.Type = IgnoreExact
		}
		if iv.Type != IgnoreRegex {
			continue
		}
		re, err := compileIgnoreRegex(iv.Value)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidRule, err, "%s: ignore version %q is not a valid regular expression", owner, iv.Value)
		}
		iv.re = re
	}
	return nil
}
