package webfont

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/iconfont/pkg/cache"
	ierrors "github.com/matzehuels/iconfont/pkg/errors"
	"github.com/matzehuels/iconfont/pkg/format"
	"github.com/matzehuels/iconfont/pkg/observability"
	"github.com/matzehuels/iconfont/pkg/taskgraph"
)

// Generator turns icon files into a font bundle, reusing cached
// artifacts where the inputs are unchanged.
//
// The Generator holds no per-run state. Multiple goroutines can safely
// use the same Generator with different options.
type Generator struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	registry *format.Registry
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithRegistry replaces the built-in format registry.
func WithRegistry(r *format.Registry) GeneratorOption {
	return func(g *Generator) { g.registry = r }
}

// NewGenerator creates a generator with the given cache and keyer.
// If cache is nil, a NullCache is used (caching disabled).
// If keyer is nil, a DefaultKeyer is used.
// If logger is nil, log output is discarded.
func NewGenerator(c cache.Cache, keyer cache.Keyer, logger *log.Logger, options ...GeneratorOption) *Generator {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	g := &Generator{Cache: c, Keyer: keyer, Logger: logger}
	for _, opt := range options {
		opt(g)
	}
	if g.registry == nil {
		g.registry = format.Default()
	}
	return g
}

// Registry returns the format registry the generator converts with.
func (g *Generator) Registry() *format.Registry { return g.registry }

// Stats describes one generation.
type Stats struct {
	Duration time.Duration
	Tasks    map[format.ID]TaskStats
}

// TaskStats describes the conversion of one format.
type TaskStats struct {
	Bytes   int
	Elapsed time.Duration
	Cached  bool // loaded from the cache instead of converted
}

// CacheHits counts the formats loaded from the cache.
func (s Stats) CacheHits() int {
	n := 0
	for _, t := range s.Tasks {
		if t.Cached {
			n++
		}
	}
	return n
}

// Generate validates opts, converts every requested type plus its
// dependencies and, when opts.WriteFiles is set, writes the fonts,
// stylesheet and preview page.
//
// Configuration errors are returned before any conversion starts.
// A conversion failure fails the whole call; no partial result is
// returned.
func (g *Generator) Generate(ctx context.Context, opts *Options) (*Result, error) {
	if opts == nil {
		return nil, ierrors.Configf("options are undefined")
	}
	logger := opts.Logger
	if logger == nil {
		logger = g.Logger
	}
	if err := opts.validate(g.registry, logger); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	start := time.Now()
	hash, err := ContentHash(opts)
	if err != nil {
		return nil, err
	}

	hits := &cacheHits{}
	orch := taskgraph.New(g.cached(hash, hits), g.Logger)
	tasks, err := orch.Run(ctx, opts.Types, opts.formatOptions())
	if err != nil {
		return nil, err
	}

	result := &Result{
		Fonts:  make(map[format.ID][]byte, len(tasks)),
		Types:  opts.Types,
		Glyphs: opts.Glyphs(),
		Hash:   hash,
		Stats:  Stats{Tasks: make(map[format.ID]TaskStats, len(tasks))},
		opts:   opts,
	}
	for id, t := range tasks {
		data, _ := t.Wait()
		result.Fonts[id] = data
		result.Stats.Tasks[id] = TaskStats{Bytes: len(data), Elapsed: t.Elapsed(), Cached: hits.has(id)}
	}
	result.Stats.Duration = time.Since(start)

	g.Logger.Info("generated font",
		"font", opts.FontName,
		"glyphs", len(result.Glyphs),
		"types", opts.Types,
		"cached", result.Stats.CacheHits(),
		"duration", result.Stats.Duration)

	if opts.WriteFiles {
		written, err := WriteResult(result)
		if err != nil {
			return nil, err
		}
		result.Written = written
		g.Logger.Debug("wrote files", "count", len(written), "dest", opts.Dest)
	}
	return result, nil
}

type cacheHits struct {
	mu  sync.Mutex
	ids map[format.ID]bool
}

func (c *cacheHits) add(id format.ID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ids == nil {
		c.ids = make(map[format.ID]bool)
	}
	c.ids[id] = true
}

func (c *cacheHits) has(id format.ID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ids[id]
}

// cached layers the artifact cache over every converter of the registry.
// Cache failures are logged and fall through to the converter.
func (g *Generator) cached(inputHash string, hits *cacheHits) *format.Registry {
	if _, disabled := g.Cache.(*cache.NullCache); disabled {
		return g.registry
	}
	return g.registry.Wrap(func(d format.Descriptor) format.ConvertFunc {
		return func(ctx context.Context, opts *format.Options, deps ...[]byte) ([]byte, error) {
			key := g.Keyer.ArtifactKey(inputHash, cache.ArtifactKeyOpts{
				Format:  string(d.ID),
				Options: opts.FormatOptions[d.ID],
				Tool:    format.Tool(d.ID),
			})
			logger := g.Logger.With("format", d.ID)

			data, hit, err := g.Cache.Get(ctx, key)
			switch {
			case err != nil:
				logger.Warn("cache read failed", "err", err)
			case hit && len(data) > 0:
				observability.Cache().OnCacheHit(ctx, key)
				logger.Debug("cache hit", "bytes", len(data))
				hits.add(d.ID)
				return data, nil
			default:
				observability.Cache().OnCacheMiss(ctx, key)
			}

			data, err = d.Convert(ctx, opts, deps...)
			if err != nil {
				return nil, err
			}
			if err := g.Cache.Set(ctx, key, data, cache.DefaultTTL); err != nil {
				logger.Warn("cache write failed", "err", err)
			} else {
				observability.Cache().OnCacheSet(ctx, key, len(data))
			}
			return data, nil
		}
	})
}
