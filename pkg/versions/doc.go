// Package versions decides which versions of an artifact are update
// candidates and resolves them for whole sets of dependencies and plugins.
//
// # Helper
//
// A [Helper] combines a compiled [rules.RuleSet] with a [MetadataSource]:
//
//	helper, err := versions.NewHelper(rs, source, logger)
//	rule := helper.BestFitRule("com.example.foo", "bar")
//	cmp := helper.ComparatorFor("com.example.foo", "bar")
//	view, err := helper.LookupArtifactVersions(ctx, coord, false)
//
// For every coordinate the helper selects at most one best-fit rule, merges
// the rule set's ignore entries with those of that rule, removes ignored
// versions from the candidates and attaches the configured comparator.
//
// # Batches
//
// [Helper.LookupDependenciesUpdates] and [Helper.LookupPluginsUpdates] fan
// lookups out over a fixed pool of workers. They wait for every lookup and
// return an [Ordered] result whose iteration order depends only on the keys.
// The first failure cancels the rest of the batch and is returned wrapped in
// an error naming the batch; partial results are discarded.
//
// [rules.RuleSet]: github.com/matzehuels/versionwatch/pkg/rules.RuleSet
package versions
