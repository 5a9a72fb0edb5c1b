package cache

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/redis/go-redis/v9"
)

// Open creates the cache described by spec:
//
//	""                      file cache in DefaultDir
//	"none", "off"           caching disabled
//	"/some/dir", "file:///some/dir"
//	                        file cache in that directory
//	"redis://host:6379/0"   Redis cache (also rediss:// for TLS); the
//	                        "prefix" query parameter overrides DefaultRedisPrefix
//
// Open does not contact a Redis server; use RedisCache.Ping for that.
func Open(spec string) (Cache, error) {
	switch spec {
	case "":
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		return openFile(dir)
	case "none", "off":
		return NewNullCache(), nil
	}

	if !strings.Contains(spec, "://") {
		return openFile(spec)
	}
	u, err := url.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedURL, err)
	}
	switch u.Scheme {
	case "file":
		return openFile(u.Path)
	case "redis", "rediss":
		prefix := u.Query().Get("prefix")
		q := u.Query()
		q.Del("prefix")
		u.RawQuery = q.Encode()
		opts, err := redis.ParseURL(u.String())
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnsupportedURL, err)
		}
		return NewRedisCache(redis.NewClient(opts), prefix), nil
	}
	return nil, fmt.Errorf("%w: scheme %q", ErrUnsupportedURL, u.Scheme)
}

func openFile(dir string) (Cache, error) {
	c, err := NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return c, nil
}
