// Package pkg provides the libraries behind versionwatch, a Maven update
// checker.
//
// # Overview
//
// Versionwatch answers one question for every dependency and plugin of a
// Maven project: which newer versions exist that the project's rule set does
// not exclude? The pkg directory is organized into four areas:
//
//  1. [rules] and [ordering] - the rule set and the comparison methods it names
//  2. [versions] - the engine (rule selection, filtering, concurrent lookups)
//  3. [integrations] and [cache] - repository metadata retrieval
//  4. [pom] - the project model the CLI feeds into the engine
//
// # Architecture
//
// The typical data flow:
//
//	pom.xml
//	   ↓
//	[pom] package (declared dependencies and plugins)
//	   ↓
//	[versions] package (best-fit rule → ignore list → comparator)
//	   ↓
//	[integrations/maven] package (maven-metadata.xml, cached in [cache])
//	   ↓
//	ordered update report
//
// # Quick Start
//
//	rs, _ := rules.Load(ctx, "rules.xml", rules.LoadOptions{})
//	source := &versions.RepositorySource{
//	    Client:       maven.NewClient(cache.NewNullCache(), time.Hour),
//	    Repositories: []maven.Repository{maven.Central()},
//	}
//	helper, _ := versions.NewHelper(rs, source, nil)
//
//	project, _ := pom.Read("pom.xml")
//	updates, _ := helper.LookupDependenciesUpdates(ctx, project.Dependencies, false, false)
//	for dep, u := range updates.All() {
//	    fmt.Println(dep, u.Newer)
//	}
//
// # Main Packages
//
// [rules] - RuleSet, Rule and IgnoreVersion, wildcard patterns, and loading
// from files, URLs and the rule sets built into the binary.
//
// [ordering] - Comparison methods (maven, numeric, mercury, semver) behind a
// case-insensitive registry.
//
// [versions] - The Helper: best-fit rule selection with a per-helper cache,
// ignore filtering, comparator selection, and dependency and plugin batches
// resolved by a fixed pool of workers.
//
// [integrations/maven] - Reads version lists from local and remote Maven
// repositories.
//
// [cache] - File, Redis, MongoDB and null cache backends for repository
// metadata.
//
// [observability] - Hooks for batches, lookups, cache and HTTP activity.
//
// # Testing
//
//	go test ./pkg/...                    # All tests
//	go test -run Example ./pkg/...       # Examples only
//	go test -tags integration ./pkg/...  # Redis, MongoDB and Maven Central
//
// [rules]: https://pkg.go.dev/github.com/matzehuels/versionwatch/pkg/rules
// [ordering]: https://pkg.go.dev/github.com/matzehuels/versionwatch/pkg/ordering
// [versions]: https://pkg.go.dev/github.com/matzehuels/versionwatch/pkg/versions
// [integrations]: https://pkg.go.dev/github.com/matzehuels/versionwatch/pkg/integrations
// [integrations/maven]: https://pkg.go.dev/github.com/matzehuels/versionwatch/pkg/integrations/maven
// [cache]: https://pkg.go.dev/github.com/matzehuels/versionwatch/pkg/cache
// [pom]: https://pkg.go.dev/github.com/matzehuels/versionwatch/pkg/pom
// [observability]: https://pkg.go.dev/github.com/matzehuels/versionwatch/pkg/observability
package pkg
