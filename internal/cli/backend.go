package cli

import (
	"context"
	"strings"

	"github.com/matzehuels/versionwatch/pkg/cache"
	"github.com/matzehuels/versionwatch/pkg/errors"
)

// Cache backends selectable in the config file.
const (
	backendFile  = "file"
	backendRedis = "redis"
	backendMongo = "mongo"
	backendNone  = "none"
)

// openCache opens the configured metadata cache. noCache forces the null
// cache regardless of configuration.
func openCache(ctx context.Context, cfg CacheConfig, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch strings.ToLower(cfg.Backend) {
	case "", backendFile:
		dir, err := fileCacheDir(cfg)
		if err != nil {
			return cache.NewNullCache(), nil
		}
		c, err := cache.NewFileCache(dir)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeConfigLoad, err, "open file cache %s", dir)
		}
		return c, nil
	case backendRedis:
		c, err := cache.NewRedisCache(ctx, cfg.URL, appName+":")
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeConfigLoad, err, "connect to redis cache")
		}
		return c, nil
	case backendMongo, "mongodb":
		c, err := cache.NewMongoCache(ctx, cfg.URL)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeConfigLoad, err, "connect to mongo cache")
		}
		return c, nil
	case backendNone, "null":
		return cache.NewNullCache(), nil
	default:
		return nil, errors.New(errors.ErrCodeConfigLoad, "unknown cache backend %q", cfg.Backend)
	}
}

func fileCacheDir(cfg CacheConfig) (string, error) {
	if cfg.URL != "" {
		return expandHome(cfg.URL), nil
	}
	return cacheDir()
}

// cacheKeyer returns the keyer for cfg. A scope isolates this installation's
// entries in a shared backend.
func cacheKeyer(cfg CacheConfig) cache.Keyer {
	if cfg.Scope == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(nil, cfg.Scope+":")
}
