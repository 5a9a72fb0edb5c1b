package cli

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/iconfont/pkg/buildinfo"
	"github.com/matzehuels/iconfont/pkg/cache"
	"github.com/matzehuels/iconfont/pkg/webfont"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "iconfont"

	// cacheURLEnv selects the cache backend when --cache-url is not given.
	cacheURLEnv = "ICONFONT_CACHE_URL"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "iconfont turns SVG icons into web fonts",
		Long:         `iconfont converts a set of SVG icons into svg, ttf, woff, woff2 and eot fonts plus a stylesheet and an HTML preview page.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.generateCommand())
	root.AddCommand(c.formatsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())
	registerFlagCompletions(root)

	return root
}

// =============================================================================
// Generator Factory
// =============================================================================

// cacheFlags are the cache flags shared by generate and serve.
type cacheFlags struct {
	noCache bool
	url     string
}

func (f *cacheFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().StringVar(&f.url, "cache-url", "", "cache location: directory, redis://host:port/db or none (env "+cacheURLEnv+")")
}

// newGenerator creates a font generator for CLI use. Cache keys are
// scoped to the build version, since converters may change between
// releases. The returned cleanup closes the cache.
func (c *CLI) newGenerator(ctx context.Context, flags cacheFlags) (*webfont.Generator, func(), error) {
	ch, err := c.openCache(ctx, flags)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if err := ch.Close(); err != nil {
			c.Logger.Debug("close cache", "err", err)
		}
	}
	keyer := cache.NewScopedKeyer(nil, buildinfo.Version+":")
	return webfont.NewGenerator(ch, keyer, c.Logger), cleanup, nil
}

// openCache opens the configured cache. An unreachable Redis server
// disables caching instead of failing the command.
func (c *CLI) openCache(ctx context.Context, flags cacheFlags) (cache.Cache, error) {
	if flags.noCache {
		return cache.NewNullCache(), nil
	}
	spec := flags.url
	if spec == "" {
		spec = os.Getenv(cacheURLEnv)
	}
	ch, err := cache.Open(spec)
	if err != nil {
		return nil, err
	}
	if rc, ok := ch.(*cache.RedisCache); ok {
		if err := rc.Ping(ctx); err != nil {
			c.Logger.Warn("cache unavailable, continuing without it", "err", err)
			_ = rc.Close()
			return cache.NewNullCache(), nil
		}
	}
	c.Logger.Debug("using cache", "location", describeCache(ch))
	return ch, nil
}

func describeCache(ch cache.Cache) string {
	switch v := ch.(type) {
	case *cache.FileCache:
		return v.Dir()
	case *cache.RedisCache:
		return "redis"
	}
	return "none"
}
