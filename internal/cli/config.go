package cli

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/versionwatch/pkg/errors"
	"github.com/matzehuels/versionwatch/pkg/integrations/maven"
)

const (
	defaultCacheTTL   = "24h"
	defaultServerAddr = ":8080"
)

// Config is the versionwatch config file.
//
//	rules_uri = "classpath:/no-prereleases.xml"
//	comparison_method = "maven"
//	local_repository = "~/.m2/repository"
//
//	[[remote_repositories]]
//	id = "central"
//	url = "https://repo.maven.apache.org/maven2"
//
//	[cache]
//	backend = "redis"
//	url = "redis://localhost:6379/0"
//	ttl = "6h"
//	scope = "ci"
type Config struct {
	RulesURI           string             `toml:"rules_uri"`
	ComparisonMethod   string             `toml:"comparison_method"`
	LocalRepository    string             `toml:"local_repository"`
	Repositories       []maven.Repository `toml:"remote_repositories"`
	PluginRepositories []maven.Repository `toml:"plugin_repositories"`
	AllowSnapshots     bool               `toml:"allow_snapshots"`

	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// CacheConfig selects the metadata cache backend.
type CacheConfig struct {
	// Backend is one of "file" (default), "redis", "mongo" or "none".
	Backend string `toml:"backend"`
	// URL is the cache directory for the file backend and the connection
	// URI for redis and mongo.
	URL string `toml:"url"`
	// TTL is a duration such as "24h".
	TTL string `toml:"ttl"`
	// Scope prefixes every key, for installations sharing one backend.
	Scope string `toml:"scope"`
}

// TTLDuration parses TTL.
func (c CacheConfig) TTLDuration() (time.Duration, error) {
	d, err := time.ParseDuration(c.TTL)
	if err != nil {
		return 0, errors.Wrap(errors.ErrCodeConfigLoad, err, "invalid cache ttl %q", c.TTL)
	}
	return d, nil
}

// ServerConfig configures "versionwatch serve".
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// WithDefaults fills unset fields and returns c.
func (c *Config) WithDefaults() *Config {
	if len(c.Repositories) == 0 {
		c.Repositories = []maven.Repository{maven.Central()}
	}
	if c.LocalRepository == "" {
		if home, err := os.UserHomeDir(); err == nil {
			c.LocalRepository = filepath.Join(home, ".m2", "repository")
		}
	}
	c.LocalRepository = expandHome(c.LocalRepository)
	c.ComparisonMethod = strings.TrimSpace(c.ComparisonMethod)
	if c.Cache.Backend == "" {
		c.Cache.Backend = backendFile
	}
	if c.Cache.TTL == "" {
		c.Cache.TTL = defaultCacheTTL
	}
	if c.Server.Addr == "" {
		c.Server.Addr = defaultServerAddr
	}
	return c
}

// loadConfig reads the config file at path. With an empty path the default
// location is used and a missing file yields the defaults.
func loadConfig(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := configFile()
		if err != nil {
			return (&Config{}).WithDefaults(), nil
		}
		path = p
	}

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg.WithDefaults(), nil
		}
		return nil, errors.Wrap(errors.ErrCodeConfigLoad, err, "load config %s", path)
	}
	cfg.WithDefaults()
	if _, err := cfg.Cache.TTLDuration(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}

// xdgPath resolves elem below $<env>, or below ~/<fallback> when the
// variable is unset.
func xdgPath(env, fallback string, elem ...string) (string, error) {
	base := os.Getenv(env)
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, fallback)
	}
	return filepath.Join(append([]string{base}, elem...)...), nil
}

// cacheDir is the file backend's default directory, ~/.cache/versionwatch.
func cacheDir() (string, error) {
	return xdgPath("XDG_CACHE_HOME", ".cache", appName)
}

// configFile is the default config location, ~/.config/versionwatch/config.toml.
func configFile() (string, error) {
	return xdgPath("XDG_CONFIG_HOME", ".config", appName, "config.toml")
}
