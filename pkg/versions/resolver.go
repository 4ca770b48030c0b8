package versions

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/versionwatch/pkg/errors"
	"github.com/matzehuels/versionwatch/pkg/observability"
)

// lookupWorkers bounds the number of concurrent lookups in one batch.
const lookupWorkers = 5

// Batch kinds reported to observability hooks and in errors.
const (
	kindDependencies = "dependencies"
	kindPlugins      = "plugins"
)

// LookupArtifactVersions returns the filtered versions of c together with
// its comparator. Snapshots are excluded from the view's sorted results.
func (h *Helper) LookupArtifactVersions(ctx context.Context, c Coordinate, usePluginRepositories bool) (*ArtifactVersions, error) {
	start := time.Now()
	raw, err := h.source.Versions(ctx, c, usePluginRepositories)
	if err != nil {
		err = errors.Wrap(errors.ErrCodeMetadataRetrieval, err, "unable to retrieve versions of %s", c)
		observability.Resolver().OnLookup(ctx, c.String(), 0, time.Since(start), err)
		return nil, err
	}
	filtered := h.FilterVersions(c, raw)
	observability.Resolver().OnLookup(ctx, c.String(), len(filtered), time.Since(start), nil)
	return NewArtifactVersions(c, filtered, h.ComparatorFor(c.GroupID, c.ArtifactID), false), nil
}

// LookupArtifactUpdates returns the versions of a newer than a.Version.
func (h *Helper) LookupArtifactUpdates(ctx context.Context, a Dependency, allowSnapshots, usePluginRepositories bool) (*Updates, error) {
	current := strings.TrimSpace(a.Version)
	if current == "" {
		current = unpinnedRange
	}
	h.logger.Debug("checking for updates", "artifact", a.Coordinate(), "current", current)

	view, err := h.LookupArtifactVersions(ctx, a.Coordinate(), usePluginRepositories)
	if err != nil {
		return nil, err
	}
	return newUpdates(view.WithSnapshots(allowSnapshots), current), nil
}

// LookupDependencyUpdates returns the updates available for one dependency.
// A dependency without a version is compared against the range "[,0]", so
// every known version counts as an update.
func (h *Helper) LookupDependencyUpdates(ctx context.Context, d Dependency, allowSnapshots, usePluginRepositories bool) (*Updates, error) {
	return h.LookupArtifactUpdates(ctx, d, allowSnapshots, usePluginRepositories)
}

// LookupDependenciesUpdates resolves deps concurrently. The result is
// ordered by [CompareDependencies]. The first failure cancels the remaining
// lookups and fails the whole batch; no partial result is returned.
func (h *Helper) LookupDependenciesUpdates(ctx context.Context, deps []Dependency, allowSnapshots, usePluginRepositories bool) (*Ordered[Dependency, *Updates], error) {
	return resolveBatch(ctx, kindDependencies, deps, CompareDependencies,
		func(ctx context.Context, d Dependency) (*Updates, error) {
			return h.LookupDependencyUpdates(ctx, d, allowSnapshots, usePluginRepositories)
		})
}

// LookupPluginUpdates returns the updates available for a plugin, read from
// the plugin repositories, and for each dependency declared inside it, read
// from the artifact repositories. A plugin without a version is treated as
// LATEST.
func (h *Helper) LookupPluginUpdates(ctx context.Context, p Plugin, allowSnapshots bool) (*PluginUpdates, error) {
	version := strings.TrimSpace(p.Version)
	if version == "" {
		version = VersionLatest
	}
	h.logger.Debug("checking plugin for updates", "plugin", p.Coordinate(), "current", version)

	view, err := h.LookupArtifactVersions(ctx, p.Coordinate(), true)
	if err != nil {
		return nil, err
	}
	deps, err := h.LookupDependenciesUpdates(ctx, p.Dependencies, allowSnapshots, false)
	if err != nil {
		return nil, err
	}
	return &PluginUpdates{
		Updates:      newUpdates(view.WithSnapshots(allowSnapshots), version),
		Dependencies: deps,
	}, nil
}

// LookupPluginsUpdates resolves plugins concurrently, ordered by
// [ComparePlugins], with the same failure semantics as
// [Helper.LookupDependenciesUpdates].
func (h *Helper) LookupPluginsUpdates(ctx context.Context, plugins []Plugin, allowSnapshots bool) (*Ordered[Plugin, *PluginUpdates], error) {
	return resolveBatch(ctx, kindPlugins, plugins, ComparePlugins,
		func(ctx context.Context, p Plugin) (*PluginUpdates, error) {
			return h.LookupPluginUpdates(ctx, p, allowSnapshots)
		})
}

// resolveBatch runs lookup for every key on a fresh bounded worker group.
// The group's context is cancelled on the first error, which stops the
// queueing of further keys and is passed to in-flight lookups.
func resolveBatch[K interface{ String() string }, V any](
	ctx context.Context,
	kind string,
	keys []K,
	cmp func(a, b K) int,
	lookup func(context.Context, K) (V, error),
) (*Ordered[K, V], error) {
	hooks := observability.Resolver()
	hooks.OnBatchStart(ctx, kind, len(keys))
	start := time.Now()

	results := make([]V, len(keys))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(lookupWorkers)
	for i, key := range keys {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			v, err := lookup(gctx, key)
			if err != nil {
				return err
			}
			results[i] = v
			return nil
		})
	}
	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		err = errors.Wrap(errors.ErrCodeBatchFailed, err, "unable to acquire metadata for %s %s", kind, describe(keys))
		hooks.OnBatchComplete(ctx, kind, len(keys), time.Since(start), err)
		return nil, err
	}

	hooks.OnBatchComplete(ctx, kind, len(keys), time.Since(start), nil)
	return NewOrdered(keys, results, cmp), nil
}

func describe[K interface{ String() string }](keys []K) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
