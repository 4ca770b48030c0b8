package versions

import (
	"context"

	"github.com/matzehuels/versionwatch/pkg/integrations/maven"
)

// MetadataSource lists the known versions of an artifact. Implementations
// must be safe for concurrent use.
type MetadataSource interface {
	// Versions returns the raw versions of c. usePluginRepositories selects
	// the plugin repositories instead of the artifact repositories.
	Versions(ctx context.Context, c Coordinate, usePluginRepositories bool) ([]string, error)
}

// SourceFunc adapts a function to MetadataSource.
type SourceFunc func(ctx context.Context, c Coordinate, usePluginRepositories bool) ([]string, error)

// Versions calls f.
func (f SourceFunc) Versions(ctx context.Context, c Coordinate, usePluginRepositories bool) ([]string, error) {
	return f(ctx, c, usePluginRepositories)
}

// RepositorySource reads versions from Maven repositories. The local
// repository, when set, is consulted before any remote one.
type RepositorySource struct {
	Client *maven.Client

	Local              *maven.Repository
	Repositories       []maven.Repository
	PluginRepositories []maven.Repository

	// Refresh bypasses cached remote metadata.
	Refresh bool
}

// Versions implements MetadataSource. Without configured plugin repositories
// plugin lookups use the artifact repositories.
func (s *RepositorySource) Versions(ctx context.Context, c Coordinate, usePluginRepositories bool) ([]string, error) {
	return s.Client.Versions(ctx, s.repositories(usePluginRepositories), c.GroupID, c.ArtifactID, s.Refresh)
}

func (s *RepositorySource) repositories(plugin bool) []maven.Repository {
	remote := s.Repositories
	if plugin && len(s.PluginRepositories) > 0 {
		remote = s.PluginRepositories
	}
	repos := make([]maven.Repository, 0, len(remote)+1)
	if s.Local != nil {
		repos = append(repos, *s.Local)
	}
	return append(repos, remote...)
}
