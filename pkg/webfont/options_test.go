package webfont

import (
	"bytes"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	ierrors "github.com/matzehuels/iconfont/pkg/errors"
	"github.com/matzehuels/iconfont/pkg/format"
	"github.com/matzehuels/iconfont/pkg/render"
)

func TestDefaultOptions(t *testing.T) {
	opts := DefaultOptions()

	if opts.FontName != "iconfont" {
		t.Errorf("FontName = %q, want iconfont", opts.FontName)
	}
	if !opts.CSS || opts.HTML {
		t.Errorf("CSS = %v, HTML = %v, want true, false", opts.CSS, opts.HTML)
	}
	if !slices.Equal(opts.Types, []format.ID{format.EOT, format.WOFF, format.WOFF2}) {
		t.Errorf("Types = %v", opts.Types)
	}
	if !slices.Equal(opts.Order, []format.ID{format.EOT, format.WOFF2, format.WOFF, format.TTF, format.SVG}) {
		t.Errorf("Order = %v", opts.Order)
	}
	if opts.StartCodepoint != 0xF101 {
		t.Errorf("StartCodepoint = %#x, want 0xf101", opts.StartCodepoint)
	}
	if !opts.Normalize || !opts.WriteFiles {
		t.Errorf("Normalize = %v, WriteFiles = %v, want true", opts.Normalize, opts.WriteFiles)
	}
	if opts.TemplateOptions["baseSelector"] != ".icon" || opts.TemplateOptions["classPrefix"] != "icon-" {
		t.Errorf("TemplateOptions = %v", opts.TemplateOptions)
	}
	if got := opts.Rename("icons/arrow-up.svg"); got != "arrow-up" {
		t.Errorf("Rename = %q, want arrow-up", got)
	}

	// Every call returns fresh slices.
	opts.Types[0] = format.SVG
	if DefaultOptions().Types[0] != format.EOT {
		t.Error("DefaultOptions shares its Types slice")
	}
}

func TestBasename(t *testing.T) {
	tests := map[string]string{
		"home.svg":           "home",
		"icons/arrow-up.svg": "arrow-up",
		"a/b.c.svg":          "b.c",
		"noext":              "noext",
	}
	for in, want := range tests {
		if got := Basename(in); got != want {
			t.Errorf("Basename(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestOptionsValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Options)
		code   ierrors.Code
	}{
		{"files undefined", func(o *Options) { o.Files = nil }, ierrors.ErrCodeInvalidConfig},
		{"files empty", func(o *Options) { o.Files = []string{} }, ierrors.ErrCodeInvalidConfig},
		{"dest undefined", func(o *Options) { o.Dest = "" }, ierrors.ErrCodeInvalidConfig},
		{"unknown type", func(o *Options) { o.Types = []format.ID{"otf"} }, ierrors.ErrCodeUnknownFormat},
		{"unknown order", func(o *Options) { o.Order = []format.ID{"otf"} }, ierrors.ErrCodeUnknownFormat},
		{"unknown format options", func(o *Options) {
			o.FormatOptions = map[format.ID]map[string]any{"otf": {}}
		}, ierrors.ErrCodeInvalidConfig},
		{"bad font name", func(o *Options) { o.FontName = "a/b" }, ierrors.ErrCodeInvalidConfig},
		{"duplicate glyph names", func(o *Options) {
			o.Files = []string{"a/home.svg", "b/home.svg"}
		}, ierrors.ErrCodeInvalidConfig},
		{"glyph name with space", func(o *Options) {
			o.Files = []string{"my icon.svg"}
		}, ierrors.ErrCodeInvalidGlyph},
		{"zero codepoint", func(o *Options) {
			o.Codepoints = map[string]rune{"home": 0}
		}, ierrors.ErrCodeInvalidCodepoint},
		{"negative round", func(o *Options) { o.Round = -1 }, ierrors.ErrCodeInvalidConfig},
		{"quote in fonts url", func(o *Options) { o.CSSFontsURL = `fonts/"` }, ierrors.ErrCodeInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.Files = []string{"icons/home.svg", "icons/user.svg"}
			opts.Dest = "dist"
			tt.modify(opts)

			err := opts.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !ierrors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestOptionsValidate_Defaults(t *testing.T) {
	opts := DefaultOptions()
	opts.Files = []string{"icons/home.svg", "icons/user.svg", "icons/star.svg"}
	opts.Dest = "dist"
	opts.Codepoints = map[string]rune{"user": 0xF101}
	opts.TemplateOptions = map[string]any{"classPrefix": "i-", "extra": 1}

	if err := opts.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	if want := filepath.Join("dist", "iconfont.css"); opts.CSSDest != want {
		t.Errorf("CSSDest = %q, want %q", opts.CSSDest, want)
	}
	if want := filepath.Join("dist", "iconfont.html"); opts.HTMLDest != want {
		t.Errorf("HTMLDest = %q, want %q", opts.HTMLDest, want)
	}
	if opts.TemplateOptions["baseSelector"] != ".icon" {
		t.Errorf("baseSelector = %v, want default", opts.TemplateOptions["baseSelector"])
	}
	if opts.TemplateOptions["classPrefix"] != "i-" || opts.TemplateOptions["extra"] != 1 {
		t.Errorf("TemplateOptions = %v", opts.TemplateOptions)
	}
	if !slices.Equal(opts.Names(), []string{"home", "user", "star"}) {
		t.Errorf("Names = %v", opts.Names())
	}

	want := []format.Glyph{
		{Name: "home", Path: "icons/home.svg", Codepoint: 0xF102},
		{Name: "user", Path: "icons/user.svg", Codepoint: 0xF101},
		{Name: "star", Path: "icons/star.svg", Codepoint: 0xF103},
	}
	if got := opts.Glyphs(); !slices.Equal(got, want) {
		t.Errorf("Glyphs = %v, want %v", got, want)
	}

	// Validating again is a no-op.
	if err := opts.Validate(); err != nil {
		t.Errorf("second Validate: %v", err)
	}
}

func TestOptionsValidate_NoDestWithoutWriting(t *testing.T) {
	opts := DefaultOptions()
	opts.Files = []string{"home.svg"}
	opts.WriteFiles = false

	if err := opts.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestOptionsValidate_EmptyFallbacks(t *testing.T) {
	opts := &Options{Files: []string{"home.svg"}}

	if err := opts.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if opts.FontName != DefaultFontName || opts.StartCodepoint != DefaultStartCodepoint {
		t.Errorf("FontName = %q, StartCodepoint = %#x", opts.FontName, opts.StartCodepoint)
	}
	if opts.CSSTemplate != render.TemplateCSS || opts.HTMLTemplate != render.TemplateHTML {
		t.Errorf("templates = %q, %q", opts.CSSTemplate, opts.HTMLTemplate)
	}
	if !slices.Equal(opts.Types, DefaultTypes) {
		t.Errorf("Types = %v", opts.Types)
	}
}

func TestOptionsValidate_BaseClassDeprecated(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Files = []string{"home.svg"}
	opts.WriteFiles = false
	opts.TemplateOptions = map[string]any{"baseClass": "glyph"}
	opts.Logger = log.New(&buf)

	if err := opts.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if got := opts.TemplateOptions["baseSelector"]; got != ".glyph" {
		t.Errorf("baseSelector = %v, want .glyph", got)
	}
	if _, ok := opts.TemplateOptions["baseClass"]; ok {
		t.Error("baseClass should be removed")
	}
	if !strings.Contains(buf.String(), "baseClass is deprecated") {
		t.Errorf("expected deprecation warning, got %q", buf.String())
	}
}

func TestOptionsValidate_CustomRename(t *testing.T) {
	opts := DefaultOptions()
	opts.Files = []string{"icons/Home.svg"}
	opts.WriteFiles = false
	opts.Rename = func(path string) string { return "ic_" + strings.ToLower(Basename(path)) }

	if err := opts.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if got := opts.Names(); !slices.Equal(got, []string{"ic_home"}) {
		t.Errorf("Names = %v", got)
	}
}
