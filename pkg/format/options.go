package format

import (
	"github.com/mitchellh/mapstructure"

	ierrors "github.com/matzehuels/iconfont/pkg/errors"
)

// DefaultRound is the default coordinate rounding factor: coordinates are
// rounded to the nearest 1/DefaultRound unit.
const DefaultRound = 10e12

// Glyph is one input icon bound to its output character.
type Glyph struct {
	Name      string // glyph name, also the ligature string
	Path      string // path to the SVG icon file
	Codepoint rune   // assigned code point
}

// Ligature returns the character sequence that selects the glyph through
// ligature substitution. Every character of the name is one code point
// of the sequence, so typing the name renders the icon.
func (g Glyph) Ligature() string {
	return g.Name
}

// Options is the configuration shared by every converter in one run.
// It is read-only once conversion starts.
type Options struct {
	Glyphs     []Glyph // input icons in output order
	FontName   string  // font family name
	FontHeight float64 // em size; 0 means the tallest glyph
	Descent    float64 // distance from baseline to the bottom of the em box
	Normalize  bool    // scale every glyph to the font height
	Round      float64 // coordinate rounding factor; 0 means DefaultRound

	// FormatOptions holds per-format overrides keyed by format ID.
	// The keys each format accepts are documented on its params type.
	FormatOptions map[ID]map[string]any
}

// decodeOverride merges opts.FormatOptions[id] into params, which must be
// a pointer to a copy owned by the caller. Unknown keys are rejected.
func decodeOverride(opts *Options, id ID, params any) error {
	override := opts.FormatOptions[id]
	if len(override) == 0 {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           params,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		TagName:          "option",
		MatchName:        func(key, field string) bool { return key == field },
	})
	if err != nil {
		return ierrors.Wrap(ierrors.ErrCodeInternal, err, "build %s option decoder", id)
	}
	if err := dec.Decode(override); err != nil {
		return ierrors.Wrap(ierrors.ErrCodeInvalidConfig, err, "invalid %s format options", id)
	}
	return nil
}
