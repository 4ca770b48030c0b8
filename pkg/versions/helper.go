package versions

import (
	"io"
	"math"
	"slices"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/versionwatch/pkg/errors"
	"github.com/matzehuels/versionwatch/pkg/ordering"
	"github.com/matzehuels/versionwatch/pkg/rules"
)

// Helper applies a rule set to artifact versions: it selects the best-fit
// rule for a coordinate, filters ignored versions, picks the comparator and
// resolves batches of dependencies and plugins concurrently.
//
// A Helper is safe for concurrent use. The rule set is read-only and the
// best-fit cache is the only shared mutable state.
type Helper struct {
	rules  *rules.RuleSet
	source MetadataSource
	logger *log.Logger

	// bestFit maps "groupId:artifactId" to a bestFitEntry. Entries are never
	// evicted.
	bestFit sync.Map
}

type bestFitEntry struct {
	rule *rules.Rule
}

// NewHelper compiles rs and returns a Helper reading versions from source.
// A nil rule set behaves like an empty one; a nil logger discards output.
func NewHelper(rs *rules.RuleSet, source MetadataSource, logger *log.Logger) (*Helper, error) {
	if rs == nil {
		rs = rules.Empty()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if err := rs.Compile(); err != nil {
		return nil, err
	}
	if source == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no metadata source configured")
	}

	for _, name := range comparisonMethods(rs) {
		if !ordering.Known(name) {
			logger.Warn("unknown comparison method, using default", "method", name, "default", ordering.DefaultName)
		}
	}

	return &Helper{rules: rs, source: source, logger: logger}, nil
}

func comparisonMethods(rs *rules.RuleSet) []string {
	var names []string
	if rs.ComparisonMethod != "" {
		names = append(names, rs.ComparisonMethod)
	}
	for i := range rs.Rules {
		if m := rs.Rules[i].ComparisonMethod; m != "" && !slices.Contains(names, m) {
			names = append(names, m)
		}
	}
	return names
}

// RuleSet returns the compiled rule set.
func (h *Helper) RuleSet() *rules.RuleSet {
	return h.rules
}

// BestFitRule returns the most specific rule matching groupID:artifactID, or
// nil when no rule matches. The answer is cached for the life of the Helper.
//
// Rules are ranked by the specificity of their groupId pattern first and of
// their artifactId pattern second. Within a tier an exact match beats a
// wildcard match, and among equals the rule scanned last wins.
func (h *Helper) BestFitRule(groupID, artifactID string) *rules.Rule {
	key := groupID + ":" + artifactID
	if e, ok := h.bestFit.Load(key); ok {
		return e.(bestFitEntry).rule
	}
	e, _ := h.bestFit.LoadOrStore(key, bestFitEntry{rule: h.findBestFit(groupID, artifactID)})
	return e.(bestFitEntry).rule
}

func (h *Helper) findBestFit(groupID, artifactID string) *rules.Rule {
	var bestFit *rules.Rule
	bestGroupScore, bestArtifactScore := math.MaxInt, math.MaxInt
	exactGroupID, exactArtifactID := false, false

	for i := range h.rules.Rules {
		rule := &h.rules.Rules[i]

		group := rule.GroupPattern()
		groupScore := group.Score()
		if groupScore > bestGroupScore {
			continue
		}
		exact := group.MatchesExact(groupID)
		match := exact || group.Matches(groupID)
		if !match || (exactGroupID && !exact) {
			continue
		}
		if bestGroupScore > groupScore {
			bestArtifactScore = math.MaxInt
			exactArtifactID = false
		}
		bestGroupScore = groupScore
		if exact && !exactGroupID {
			exactGroupID = true
			bestArtifactScore = math.MaxInt
			exactArtifactID = false
		}

		artifact := rule.ArtifactPattern()
		artifactScore := artifact.Score()
		if artifactScore > bestArtifactScore {
			continue
		}
		exact = artifact.MatchesExact(artifactID)
		match = exact || artifact.Matches(artifactID)
		if !match || (exactArtifactID && !exact) {
			continue
		}
		bestArtifactScore = artifactScore
		if exact && !exactArtifactID {
			exactArtifactID = true
		}
		bestFit = rule
	}
	return bestFit
}

// IgnoredVersions returns the ignore entries in effect for groupID:artifactID:
// the rule set's global entries followed by those of the best-fit rule.
// Entries of an unknown type are logged and left out.
func (h *Helper) IgnoredVersions(groupID, artifactID string) []rules.IgnoreVersion {
	var out []rules.IgnoreVersion
	add := func(ivs []rules.IgnoreVersion, owner string) {
		for _, iv := range ivs {
			if !iv.Valid() {
				h.logger.Warn("invalid ignore version type, entry skipped",
					"type", iv.Type, "value", iv.Value, "in", owner)
				continue
			}
			out = append(out, iv)
		}
	}
	add(h.rules.IgnoreVersions, "ruleset")
	if rule := h.BestFitRule(groupID, artifactID); rule != nil {
		add(rule.IgnoreVersions, rule.String())
	}
	return out
}

// FilterVersions returns candidates without the versions ignored for c.
// Surviving versions keep their order.
func (h *Helper) FilterVersions(c Coordinate, candidates []string) []string {
	ignored := h.IgnoredVersions(c.GroupID, c.ArtifactID)
	if len(ignored) == 0 {
		return slices.Clone(candidates)
	}
	h.logger.Debug("ignoring versions", "artifact", c, "entries", len(ignored))

	out := make([]string, 0, len(candidates))
	for _, v := range candidates {
		if iv, ok := firstMatch(ignored, v); ok {
			h.logger.Debug("version ignored", "artifact", c, "version", v, "by", iv)
			continue
		}
		out = append(out, v)
	}
	return out
}

func firstMatch(ignored []rules.IgnoreVersion, version string) (rules.IgnoreVersion, bool) {
	for _, iv := range ignored {
		if iv.Matches(version) {
			return iv, true
		}
	}
	return rules.IgnoreVersion{}, false
}

// ComparisonMethodFor returns the name of the comparison method configured
// for groupID:artifactID: the best-fit rule's override, else the rule set's
// default, else [ordering.DefaultName].
func (h *Helper) ComparisonMethodFor(groupID, artifactID string) string {
	if rule := h.BestFitRule(groupID, artifactID); rule != nil && rule.ComparisonMethod != "" {
		return rule.ComparisonMethod
	}
	if h.rules.ComparisonMethod != "" {
		return h.rules.ComparisonMethod
	}
	return ordering.DefaultName
}

// ComparatorFor returns the comparator for groupID:artifactID.
func (h *Helper) ComparatorFor(groupID, artifactID string) ordering.Comparator {
	return ordering.Lookup(h.ComparisonMethodFor(groupID, artifactID))
}
