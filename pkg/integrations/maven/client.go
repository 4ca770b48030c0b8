package maven

import (
	"context"
	"encoding/base64"
	"encoding/xml"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/matzehuels/versionwatch/pkg/buildinfo"
	"github.com/matzehuels/versionwatch/pkg/cache"
	"github.com/matzehuels/versionwatch/pkg/integrations"
)

const (
	remoteMetadataFile = "maven-metadata.xml"
	localMetadataFile  = "maven-metadata-local.xml"
)

// CentralURL is the default remote repository.
const CentralURL = "https://repo.maven.apache.org/maven2"

// Repository is a Maven repository, local (a directory) or remote (http/https).
type Repository struct {
	ID       string `toml:"id" json:"id"`
	URL      string `toml:"url" json:"url"`
	Username string `toml:"username" json:"-"`
	Password string `toml:"password" json:"-"`
}

// Central returns the Maven Central repository.
func Central() Repository {
	return Repository{ID: "central", URL: CentralURL}
}

// Local returns a repository backed by the directory at path, e.g. ~/.m2/repository.
func Local(path string) Repository {
	return Repository{ID: "local", URL: path}
}

// IsLocal reports whether the repository is a directory on disk. URLs with
// a file scheme and plain paths are local.
func (r Repository) IsLocal() bool {
	u, err := url.Parse(r.URL)
	if err != nil {
		return true
	}
	switch u.Scheme {
	case "http", "https":
		return false
	default:
		return true
	}
}

// String returns the repository id and URL.
func (r Repository) String() string {
	if r.ID == "" {
		return r.URL
	}
	return r.ID + " (" + r.URL + ")"
}

func (r Repository) dir() string {
	if strings.HasPrefix(r.URL, "file://") {
		if u, err := url.Parse(r.URL); err == nil {
			return filepath.FromSlash(u.Path)
		}
	}
	return r.URL
}

func (r Repository) headers() map[string]string {
	if r.Username == "" {
		return nil
	}
	token := base64.StdEncoding.EncodeToString([]byte(r.Username + ":" + r.Password))
	return map[string]string{"Authorization": "Basic " + token}
}

// Client reads version metadata from Maven repositories.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	*integrations.Client
}

// NewClient creates a metadata client. Remote responses are cached in c for
// ttl; pass a nil cache to disable caching.
func NewClient(c cache.Cache, ttl time.Duration) *Client {
	return &Client{
		Client: integrations.NewClient(c, "maven", ttl, map[string]string{
			"User-Agent": buildinfo.UserAgent(),
		}),
	}
}

// Versions returns every version of groupID:artifactID known to repos.
// Repositories are consulted in order and the result is de-duplicated,
// keeping the first occurrence. A repository without metadata for the
// artifact contributes nothing; any other failure aborts the lookup.
//
// If refresh is true, cached remote metadata is ignored.
func (c *Client) Versions(ctx context.Context, repos []Repository, groupID, artifactID string, refresh bool) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, repo := range repos {
		versions, err := c.RepositoryVersions(ctx, repo, groupID, artifactID, refresh)
		if err != nil {
			return nil, err
		}
		for _, v := range versions {
			if !seen[v] {
				seen[v] = true
				out = append(out, v)
			}
		}
	}
	return out, nil
}

// RepositoryVersions returns the versions listed in one repository's
// metadata for groupID:artifactID, in document order.
func (c *Client) RepositoryVersions(ctx context.Context, repo Repository, groupID, artifactID string, refresh bool) ([]string, error) {
	if repo.IsLocal() {
		return readLocal(repo.dir(), groupID, artifactID)
	}

	key := c.Keyer().MetadataKey(repo.URL, groupID, artifactID)
	metaURL := metadataURL(repo.URL, groupID, artifactID)

	versions, err := integrations.Cached(ctx, c.Client, key, refresh, func(ctx context.Context) ([]string, error) {
		data, err := c.GetBytes(ctx, metaURL, repo.headers())
		if errors.Is(err, integrations.ErrNotFound) {
			return []string{}, nil
		}
		if err != nil {
			return nil, err
		}
		parsed, err := parseMetadata(data)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", metaURL, err)
		}
		return parsed, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s:%s from %s: %w", groupID, artifactID, repo, err)
	}
	return versions, nil
}

func metadataURL(base, groupID, artifactID string) string {
	segments := append(strings.Split(groupID, "."), artifactID, remoteMetadataFile)
	return integrations.RepositoryURL(base, segments...)
}

func groupPath(groupID string) string {
	return strings.ReplaceAll(groupID, ".", "/")
}

// readLocal reads maven-metadata-local.xml plus any maven-metadata-<repo>.xml
// files the build tool left in the artifact directory.
func readLocal(root, groupID, artifactID string) ([]string, error) {
	dir := filepath.Join(root, filepath.FromSlash(groupPath(groupID)), artifactID)

	files, err := filepath.Glob(filepath.Join(dir, "maven-metadata*.xml"))
	if err != nil {
		return nil, err
	}
	sort.SliceStable(files, func(i, j int) bool {
		// the local file always goes first
		li := filepath.Base(files[i]) == localMetadataFile
		lj := filepath.Base(files[j]) == localMetadataFile
		if li != lj {
			return li
		}
		return files[i] < files[j]
	})

	seen := make(map[string]bool)
	var out []string
	for _, f := range files {
		data, err := os.ReadFile(f)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, err
		}
		versions, err := parseMetadata(data)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", f, err)
		}
		for _, v := range versions {
			if !seen[v] {
				seen[v] = true
				out = append(out, v)
			}
		}
	}
	return out, nil
}

func parseMetadata(data []byte) ([]string, error) {
	var md metadata
	if err := xml.Unmarshal(data, &md); err != nil {
		return nil, err
	}
	out := make([]string, 0, len(md.Versioning.Versions))
	for _, v := range md.Versioning.Versions {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out, nil
}

type metadata struct {
	XMLName    xml.Name `xml:"metadata"`
	GroupID    string   `xml:"groupId"`
	ArtifactID string   `xml:"artifactId"`
	Versioning struct {
		Latest      string   `xml:"latest"`
		Release     string   `xml:"release"`
		Versions    []string `xml:"versions>version"`
		LastUpdated string   `xml:"lastUpdated"`
	} `xml:"versioning"`
}
