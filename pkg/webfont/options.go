package webfont

import (
	"io"
	"maps"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"

	ierrors "github.com/matzehuels/iconfont/pkg/errors"
	"github.com/matzehuels/iconfont/pkg/format"
	"github.com/matzehuels/iconfont/pkg/render"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultFontName is the font family name and output file base name.
	DefaultFontName = "iconfont"

	// DefaultStartCodepoint is the first automatically assigned code point,
	// inside the Unicode Private Use Area.
	DefaultStartCodepoint rune = 0xF101

	// DefaultBaseSelector is the CSS selector shared by every icon.
	DefaultBaseSelector = ".icon"

	// DefaultClassPrefix prefixes the glyph name in per-icon class names.
	DefaultClassPrefix = "icon-"
)

// DefaultTypes are the font types generated when none are given.
var DefaultTypes = []format.ID{format.EOT, format.WOFF, format.WOFF2}

// DefaultOrder is the order of the @font-face src entries.
var DefaultOrder = []format.ID{format.EOT, format.WOFF2, format.WOFF, format.TTF, format.SVG}

// RenameFunc derives a glyph name from an icon file path.
type RenameFunc func(path string) string

// Basename names a glyph after its file without the extension:
// "icons/arrow-up.svg" becomes "arrow-up".
func Basename(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// =============================================================================
// Options
// =============================================================================

// Options configures one font generation.
// Start from DefaultOptions: several defaults are true booleans.
type Options struct {
	// Inputs
	Files      []string        `json:"files"`                // icon SVG files, in glyph order
	Rename     RenameFunc      `json:"-"`                    // file path to glyph name
	Codepoints map[string]rune `json:"codepoints,omitempty"` // explicit code points by glyph name

	// StartCodepoint is the first code point handed out to glyphs
	// without an explicit one.
	StartCodepoint rune `json:"start_codepoint"`

	// Font
	FontName   string      `json:"font_name"`
	Types      []format.ID `json:"types"`
	Order      []format.ID `json:"order"`
	FontHeight float64     `json:"font_height,omitempty"`
	Descent    float64     `json:"descent,omitempty"`
	Normalize  bool        `json:"normalize"`
	Round      float64     `json:"round,omitempty"`

	// FormatOptions holds per-format converter overrides keyed by type.
	FormatOptions map[format.ID]map[string]any `json:"format_options,omitempty"`

	// Output
	WriteFiles   bool   `json:"write_files"`
	Dest         string `json:"dest,omitempty"`          // font output directory
	CSS          bool   `json:"css"`                     // write the stylesheet
	CSSDest      string `json:"css_dest,omitempty"`      // default <Dest>/<FontName>.css
	CSSTemplate  string `json:"css_template,omitempty"`  // "css", "scss" or a file path
	CSSFontsURL  string `json:"css_fonts_url,omitempty"` // base URL of the fonts in the stylesheet
	HTML         bool   `json:"html"`                    // write the preview page
	HTMLDest     string `json:"html_dest,omitempty"`     // default <Dest>/<FontName>.html
	HTMLTemplate string `json:"html_template,omitempty"` // "html" or a file path

	// TemplateOptions are passed to the stylesheet and preview templates.
	TemplateOptions map[string]any `json:"template_options,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	names     []string
	assigned  map[string]rune
	validated bool
}

// DefaultOptions returns options with every default applied. Files and
// Dest still have to be set.
func DefaultOptions() *Options {
	return &Options{
		FontName:       DefaultFontName,
		Types:          append([]format.ID(nil), DefaultTypes...),
		Order:          append([]format.ID(nil), DefaultOrder...),
		Rename:         Basename,
		StartCodepoint: DefaultStartCodepoint,
		Normalize:      true,
		WriteFiles:     true,
		CSS:            true,
		CSSTemplate:    render.TemplateCSS,
		HTMLTemplate:   render.TemplateHTML,
		TemplateOptions: map[string]any{
			"baseSelector": DefaultBaseSelector,
			"classPrefix":  DefaultClassPrefix,
		},
	}
}

// Validate checks the options and fills in derived values: glyph names,
// code points, output paths and template options. Configuration
// problems are reported as INVALID_CONFIG, INVALID_CODEPOINT,
// INVALID_GLYPH or UNKNOWN_FORMAT errors before any conversion starts.
// Validate is idempotent. Warnings go to o.Logger when it is set.
func (o *Options) Validate() error {
	return o.validate(format.Default(), o.Logger)
}

// validate fills in derived values once. The format checks run on every
// call since a later caller may use a different registry.
func (o *Options) validate(registry *format.Registry, logger *log.Logger) error {
	if o.validated {
		return o.checkFormats(registry)
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	if o.Files == nil {
		return ierrors.Configf("files is undefined")
	}
	if len(o.Files) == 0 {
		return ierrors.Configf("files is empty")
	}
	if o.WriteFiles && o.Dest == "" {
		return ierrors.Configf("dest is undefined")
	}

	if o.FontName == "" {
		o.FontName = DefaultFontName
	}
	if err := ierrors.ValidateFontName(o.FontName); err != nil {
		return err
	}

	if o.Types == nil {
		o.Types = append([]format.ID(nil), DefaultTypes...)
	}
	if o.Order == nil {
		o.Order = append([]format.ID(nil), DefaultOrder...)
	}
	if err := o.checkFormats(registry); err != nil {
		return err
	}
	if o.Round < 0 || o.FontHeight < 0 {
		return ierrors.Configf("round and font height must not be negative")
	}

	if err := o.resolveNames(); err != nil {
		return err
	}

	if o.StartCodepoint == 0 {
		o.StartCodepoint = DefaultStartCodepoint
	}
	assigned, err := AssignCodepoints(o.names, o.Codepoints, o.StartCodepoint)
	if err != nil {
		return err
	}
	o.assigned = assigned

	if err := ierrors.ValidateURL(o.CSSFontsURL); err != nil {
		return err
	}
	if o.CSSDest == "" {
		o.CSSDest = filepath.Join(o.Dest, o.FontName+".css")
	}
	if o.HTMLDest == "" {
		o.HTMLDest = filepath.Join(o.Dest, o.FontName+".html")
	}
	if o.CSSTemplate == "" {
		o.CSSTemplate = render.TemplateCSS
	}
	if o.HTMLTemplate == "" {
		o.HTMLTemplate = render.TemplateHTML
	}
	o.applyTemplateDefaults(logger)

	o.validated = true
	return nil
}

// checkFormats reports types, order entries and format option keys that
// registry does not know.
func (o *Options) checkFormats(registry *format.Registry) error {
	if err := registry.Validate(o.Types); err != nil {
		return err
	}
	if err := registry.Validate(o.Order); err != nil {
		return err
	}
	for id := range o.FormatOptions {
		if err := registry.Validate([]format.ID{id}); err != nil {
			return ierrors.Wrap(ierrors.ErrCodeInvalidConfig, err, "format options")
		}
	}
	return nil
}

func (o *Options) resolveNames() error {
	rename := o.Rename
	if rename == nil {
		rename = Basename
	}
	o.names = make([]string, len(o.Files))
	seen := make(map[string]string, len(o.Files))
	for i, file := range o.Files {
		name := rename(file)
		if err := ierrors.ValidateGlyphName(name); err != nil {
			return ierrors.Wrap(ierrors.ErrCodeInvalidConfig, err, "file %s", file)
		}
		if prev, dup := seen[name]; dup {
			return ierrors.Configf("glyph name %q is used by both %s and %s", name, prev, file)
		}
		seen[name] = file
		o.names[i] = name
	}
	return nil
}

// applyTemplateDefaults rewrites the deprecated baseClass option and
// merges the template options over the defaults.
func (o *Options) applyTemplateDefaults(logger *log.Logger) {
	opts := map[string]any{
		"baseSelector": DefaultBaseSelector,
		"classPrefix":  DefaultClassPrefix,
	}
	user := maps.Clone(o.TemplateOptions)
	if v, ok := user["baseClass"]; ok {
		logger.Warn("template option baseClass is deprecated, use baseSelector instead")
		if s, ok := v.(string); ok {
			user["baseSelector"] = "." + s
		}
		delete(user, "baseClass")
	}
	maps.Copy(opts, user)
	o.TemplateOptions = opts
}

// Names returns the glyph names in file order. Only valid after Validate.
func (o *Options) Names() []string {
	return o.names
}

// Glyphs returns the glyphs to convert, in file order. Only valid after Validate.
func (o *Options) Glyphs() []format.Glyph {
	glyphs := make([]format.Glyph, len(o.names))
	for i, name := range o.names {
		glyphs[i] = format.Glyph{Name: name, Path: o.Files[i], Codepoint: o.assigned[name]}
	}
	return glyphs
}

// formatOptions builds the converter options shared by every format.
func (o *Options) formatOptions() *format.Options {
	return &format.Options{
		Glyphs:        o.Glyphs(),
		FontName:      o.FontName,
		FontHeight:    o.FontHeight,
		Descent:       o.Descent,
		Normalize:     o.Normalize,
		Round:         o.Round,
		FormatOptions: o.FormatOptions,
	}
}
