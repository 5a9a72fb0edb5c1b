package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	ierrors "github.com/matzehuels/iconfont/pkg/errors"
	"github.com/matzehuels/iconfont/pkg/format"
	"github.com/matzehuels/iconfont/pkg/webfont"
)

// generateFlags holds the command-line flags for the generate command.
// Flags override the config file, which overrides the defaults.
type generateFlags struct {
	config         string  // TOML config file
	dest           string  // font output directory
	fontName       string  // font family and file base name
	types          string  // comma-separated font types
	order          string  // comma-separated @font-face src order
	css            bool    // write the stylesheet
	cssDest        string  // stylesheet path
	cssTemplate    string  // css, scss or a template file
	fontsURL       string  // font URL prefix in the stylesheet
	html           bool    // write the preview page
	htmlDest       string  // preview page path
	htmlTemplate   string  // html or a template file
	startCodepoint string  // first auto-assigned code point
	fontHeight     float64 // em size
	descent        float64 // baseline offset
	normalize      bool    // scale glyphs to the font height
	round          float64 // coordinate rounding factor
	progress       bool    // show the task board
	cache          cacheFlags
}

// generateCommand creates the generate command.
func (c *CLI) generateCommand() *cobra.Command {
	var flags generateFlags

	cmd := &cobra.Command{
		Use:   "generate [files...]",
		Short: "Generate web fonts from SVG icons",
		Long: `Generate web fonts from SVG icons.

Files may be glob patterns. Options are read from iconfont.toml in the
working directory (or --config) and overridden by flags.`,
		Example: `  # woff2 and woff fonts plus a stylesheet in dist/fonts
  iconfont generate icons/*.svg -o dist/fonts --types woff2,woff

  # Everything from the config file, with a live task board
  iconfont generate --config icons/iconfont.toml --progress`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.generateOptions(cmd, args, &flags)
			if err != nil {
				return err
			}
			return c.runGenerate(cmd.Context(), opts, flags)
		},
	}

	defaults := flags.registerFont(cmd)
	flags.css, flags.html = defaults.CSS, defaults.HTML
	cmd.Flags().StringVarP(&flags.dest, "dest", "o", "", "output directory for fonts")
	cmd.Flags().StringVar(&flags.order, "order", joinIDs(defaults.Order), "order of the @font-face src entries")
	cmd.Flags().BoolVar(&flags.css, "css", flags.css, "write the stylesheet")
	cmd.Flags().StringVar(&flags.cssDest, "css-dest", "", "stylesheet path (default <dest>/<name>.css)")
	cmd.Flags().StringVar(&flags.cssTemplate, "css-template", defaults.CSSTemplate, "stylesheet template: css, scss or a file")
	cmd.Flags().StringVar(&flags.fontsURL, "css-fonts-url", "", "URL prefix of the fonts in the stylesheet")
	cmd.Flags().BoolVar(&flags.html, "html", flags.html, "write the HTML preview page")
	cmd.Flags().StringVar(&flags.htmlDest, "html-dest", "", "preview page path (default <dest>/<name>.html)")
	cmd.Flags().StringVar(&flags.htmlTemplate, "html-template", defaults.HTMLTemplate, "preview template: html or a file")
	cmd.Flags().BoolVar(&flags.progress, "progress", false, "show a live board of conversion tasks")

	return cmd
}

// registerFont registers the flags that shape the font itself, shared
// by generate and serve, and returns the defaults they start from.
func (f *generateFlags) registerFont(cmd *cobra.Command) *webfont.Options {
	defaults := webfont.DefaultOptions()
	f.normalize = defaults.Normalize

	cmd.Flags().StringVar(&f.config, "config", "", "config file (default ./"+webfont.DefaultConfigFile+" if present)")
	cmd.Flags().StringVarP(&f.fontName, "name", "n", defaults.FontName, "font name")
	cmd.Flags().StringVarP(&f.types, "types", "t", joinIDs(defaults.Types), "font types (comma-separated)")
	cmd.Flags().StringVar(&f.startCodepoint, "start-codepoint", "0x"+webfont.Hex(defaults.StartCodepoint), "first automatically assigned code point")
	cmd.Flags().Float64Var(&f.fontHeight, "font-height", 0, "em size (default: tallest glyph)")
	cmd.Flags().Float64Var(&f.descent, "descent", 0, "distance from the baseline to the bottom of the em box")
	cmd.Flags().BoolVar(&f.normalize, "normalize", f.normalize, "scale every glyph to the font height")
	cmd.Flags().Float64Var(&f.round, "round", 0, "coordinate rounding factor")
	f.cache.register(cmd)
	return defaults
}

// generateOptions layers defaults, the config file and the flags that
// were set explicitly. Flags the command does not register count as unset.
func (c *CLI) generateOptions(cmd *cobra.Command, args []string, f *generateFlags) (*webfont.Options, error) {
	opts := webfont.DefaultOptions()
	opts.Logger = c.Logger

	cfg, err := loadConfig(f.config)
	if err != nil {
		return nil, err
	}
	if cfg != nil {
		if err := cfg.Apply(opts); err != nil {
			return nil, err
		}
	}

	if len(args) > 0 {
		files, err := webfont.ExpandFiles(args)
		if err != nil {
			return nil, err
		}
		opts.Files = files
	}

	changed := cmd.Flags().Changed
	if changed("dest") {
		opts.Dest = f.dest
	}
	if changed("name") {
		opts.FontName = f.fontName
	}
	if changed("types") {
		opts.Types = format.ParseIDs(f.types)
	}
	if changed("order") {
		opts.Order = format.ParseIDs(f.order)
	}
	if changed("css") {
		opts.CSS = f.css
	}
	if changed("css-dest") {
		opts.CSSDest = f.cssDest
	}
	if changed("css-template") {
		opts.CSSTemplate = f.cssTemplate
	}
	if changed("css-fonts-url") {
		opts.CSSFontsURL = f.fontsURL
	}
	if changed("html") {
		opts.HTML = f.html
	}
	if changed("html-dest") {
		opts.HTMLDest = f.htmlDest
	}
	if changed("html-template") {
		opts.HTMLTemplate = f.htmlTemplate
	}
	if changed("start-codepoint") {
		cp, err := parseCodepoint(f.startCodepoint)
		if err != nil {
			return nil, err
		}
		opts.StartCodepoint = cp
	}
	if changed("font-height") {
		opts.FontHeight = f.fontHeight
	}
	if changed("descent") {
		opts.Descent = f.descent
	}
	if changed("normalize") {
		opts.Normalize = f.normalize
	}
	if changed("round") {
		opts.Round = f.round
	}

	if opts.Files == nil {
		return nil, ierrors.Configf("no icon files given")
	}
	return opts, nil
}

// loadConfig loads path, or the default config file if path is empty
// and the file exists. It returns nil when there is nothing to load.
func loadConfig(path string) (*webfont.Config, error) {
	if path == "" {
		if _, err := os.Stat(webfont.DefaultConfigFile); errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		path = webfont.DefaultConfigFile
	}
	return webfont.LoadConfig(path)
}

// parseCodepoint accepts "0xF101", "U+F101" or a decimal number.
func parseCodepoint(s string) (rune, error) {
	s = strings.TrimSpace(s)
	var (
		n   int64
		err error
	)
	if rest, ok := strings.CutPrefix(strings.ToUpper(s), "U+"); ok {
		n, err = strconv.ParseInt(rest, 16, 32)
	} else {
		n, err = strconv.ParseInt(s, 0, 32)
	}
	if err != nil {
		return 0, ierrors.New(ierrors.ErrCodeInvalidCodepoint, "invalid code point %q", s)
	}
	return rune(n), nil
}

func joinIDs(ids []format.ID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = string(id)
	}
	return strings.Join(parts, ",")
}

// runGenerate generates the font and prints a summary.
func (c *CLI) runGenerate(ctx context.Context, opts *webfont.Options, f generateFlags) error {
	gen, cleanup, err := c.newGenerator(ctx, f.cache)
	if err != nil {
		return err
	}
	defer cleanup()

	prog := newProgress(c.Logger)
	var result *webfont.Result
	switch {
	case f.progress:
		result, err = runBoard(ctx, gen, opts)
	case c.Logger.GetLevel() > log.DebugLevel:
		spinner := newSpinner(ctx, fmt.Sprintf("Generating %s...", opts.FontName))
		spinner.Start()
		result, err = gen.Generate(ctx, opts)
		if err != nil && !spinner.Cancelled() {
			spinner.StopWithError(fmt.Sprintf("Could not generate %s", opts.FontName))
			return err
		}
		spinner.Stop()
	default:
		result, err = gen.Generate(ctx, opts)
	}
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Generated %d glyphs", len(result.Glyphs)))

	printSuccess("Generated %s", StyleHighlight.Render(result.Options().FontName))
	for _, path := range result.Written {
		printFile(path)
	}
	printStats(len(result.Glyphs), len(result.Fonts), result.Stats.CacheHits())
	return nil
}
