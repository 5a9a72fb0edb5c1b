package webfont

import (
	"errors"
	"io/fs"
	"maps"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	ierrors "github.com/matzehuels/iconfont/pkg/errors"
	"github.com/matzehuels/iconfont/pkg/format"
	"github.com/matzehuels/iconfont/pkg/render"
)

// DefaultConfigFile is the config file looked up in the working directory.
const DefaultConfigFile = "iconfont.toml"

// Config is the TOML configuration file. Unset keys leave the options
// untouched; relative paths are resolved against the file's directory.
//
//	font_name = "acme"
//	files = ["icons/*.svg"]
//	dest = "dist/fonts"
//	types = ["woff2", "woff"]
//	start_codepoint = 0xE001
//
//	[codepoints]
//	home = 0xE000
//
//	[template_options]
//	classPrefix = "acme-"
//
//	[format_options.ttf]
//	copyright = "ACME Inc."
type Config struct {
	Files          []string `toml:"files"`
	Dest           string   `toml:"dest"`
	FontName       string   `toml:"font_name"`
	Types          []string `toml:"types"`
	Order          []string `toml:"order"`
	StartCodepoint int64    `toml:"start_codepoint"`
	FontHeight     *float64 `toml:"font_height"`
	Descent        *float64 `toml:"descent"`
	Normalize      *bool    `toml:"normalize"`
	Round          *float64 `toml:"round"`

	CSS          *bool  `toml:"css"`
	CSSDest      string `toml:"css_dest"`
	CSSTemplate  string `toml:"css_template"`
	CSSFontsURL  string `toml:"css_fonts_url"`
	CSSFontsPath string `toml:"css_fonts_path"` // deprecated alias of css_fonts_url
	HTML         *bool  `toml:"html"`
	HTMLDest     string `toml:"html_dest"`
	HTMLTemplate string `toml:"html_template"`

	Codepoints      map[string]int64          `toml:"codepoints"`
	TemplateOptions map[string]any            `toml:"template_options"`
	FormatOptions   map[string]map[string]any `toml:"format_options"`

	dir string
}

// LoadConfig reads a TOML config file. Unknown keys are rejected.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ierrors.Wrap(ierrors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return nil, ierrors.Wrap(ierrors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, ierrors.Configf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	cfg.dir = filepath.Dir(path)
	return &cfg, nil
}

// Apply copies every key set in the file onto opts. Glob patterns in
// files are expanded.
func (c *Config) Apply(opts *Options) error {
	if len(c.Files) > 0 {
		files, err := ExpandFiles(c.resolveAll(c.Files))
		if err != nil {
			return err
		}
		opts.Files = files
	}
	setString(&opts.Dest, c.resolve(c.Dest))
	setString(&opts.FontName, c.FontName)
	if c.Types != nil {
		opts.Types = toIDs(c.Types)
	}
	if c.Order != nil {
		opts.Order = toIDs(c.Order)
	}
	if c.StartCodepoint != 0 {
		opts.StartCodepoint = rune(c.StartCodepoint)
	}
	setPtr(&opts.FontHeight, c.FontHeight)
	setPtr(&opts.Descent, c.Descent)
	setPtr(&opts.Normalize, c.Normalize)
	setPtr(&opts.Round, c.Round)

	setPtr(&opts.CSS, c.CSS)
	setString(&opts.CSSDest, c.resolve(c.CSSDest))
	setString(&opts.CSSTemplate, c.resolveTemplate(c.CSSTemplate))
	if c.CSSFontsPath != "" {
		if opts.Logger != nil {
			opts.Logger.Warn("css_fonts_path is deprecated, use css_fonts_url instead")
		}
		opts.CSSFontsURL = c.CSSFontsPath
	}
	setString(&opts.CSSFontsURL, c.CSSFontsURL)
	setPtr(&opts.HTML, c.HTML)
	setString(&opts.HTMLDest, c.resolve(c.HTMLDest))
	setString(&opts.HTMLTemplate, c.resolveTemplate(c.HTMLTemplate))

	if len(c.Codepoints) > 0 {
		if opts.Codepoints == nil {
			opts.Codepoints = make(map[string]rune, len(c.Codepoints))
		}
		for name, cp := range c.Codepoints {
			if cp < 0 || cp > ierrors.MaxCodepoint {
				return ierrors.New(ierrors.ErrCodeInvalidCodepoint, "glyph %q: codepoint %d out of range", name, cp)
			}
			opts.Codepoints[name] = rune(cp)
		}
	}
	if len(c.TemplateOptions) > 0 {
		if opts.TemplateOptions == nil {
			opts.TemplateOptions = make(map[string]any, len(c.TemplateOptions))
		}
		maps.Copy(opts.TemplateOptions, c.TemplateOptions)
	}
	if len(c.FormatOptions) > 0 {
		if opts.FormatOptions == nil {
			opts.FormatOptions = make(map[format.ID]map[string]any, len(c.FormatOptions))
		}
		for id, params := range c.FormatOptions {
			opts.FormatOptions[format.ID(strings.ToLower(id))] = params
		}
	}
	return nil
}

func (c *Config) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.dir, path)
}

func (c *Config) resolveAll(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = c.resolve(p)
	}
	return out
}

func (c *Config) resolveTemplate(ref string) string {
	if _, builtin := render.DefaultTemplate(ref); builtin {
		return ref
	}
	return c.resolve(ref)
}

// ExpandFiles expands glob patterns, keeping the order of the patterns.
// Plain paths are kept even if they do not exist, so a missing file is
// reported by the conversion that reads it. Duplicates are dropped.
func ExpandFiles(patterns []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)
	add := func(f string) {
		if !seen[f] {
			seen[f] = true
			files = append(files, f)
		}
	}
	for _, p := range patterns {
		if !strings.ContainsAny(p, "*?[") {
			add(p)
			continue
		}
		matches, err := filepath.Glob(p)
		if err != nil {
			return nil, ierrors.Wrap(ierrors.ErrCodeInvalidConfig, err, "pattern %s", p)
		}
		if len(matches) == 0 {
			return nil, ierrors.Configf("pattern %s matches no files", p)
		}
		for _, m := range matches {
			add(m)
		}
	}
	return files, nil
}

func toIDs(ss []string) []format.ID {
	ids := make([]format.ID, len(ss))
	for i, s := range ss {
		ids[i] = format.ID(strings.ToLower(strings.TrimSpace(s)))
	}
	return ids
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setPtr[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
