package format

import (
	"context"
	"strconv"

	"golang.org/x/image/font/sfnt"

	ierrors "github.com/matzehuels/iconfont/pkg/errors"
)

// ttfParams are the "ttf" format options, forwarded to svg2ttf.
type ttfParams struct {
	Copyright string `option:"copyright"` // copyright string
	Timestamp int64  `option:"ts"`        // creation time override, unix seconds
	Version   string `option:"version"`   // font version string, e.g. "1.2"
	Command   string `option:"command"`   // svg2ttf replacement
}

// ConvertTTF turns the SVG font into a TrueType font with svg2ttf. The
// ligature glyphs of the SVG font become GSUB ligature substitutions.
// The output is parsed back to make sure the program produced a font.
func ConvertTTF(ctx context.Context, opts *Options, deps ...[]byte) ([]byte, error) {
	svgFont, err := dependency(TTF, deps)
	if err != nil {
		return nil, err
	}
	var params ttfParams
	if err := decodeOverride(opts, TTF, &params); err != nil {
		return nil, err
	}

	var flags []string
	if params.Copyright != "" {
		flags = append(flags, "-c", params.Copyright)
	}
	if params.Timestamp != 0 {
		flags = append(flags, "--ts", strconv.FormatInt(params.Timestamp, 10))
	}
	if params.Version != "" {
		flags = append(flags, "--vs", params.Version)
	}

	ttf, err := svg2ttfTool.withCommand(params.Command).run(ctx, svgFont, "svg", "ttf", func(in, out string) []string {
		return append(flags, in, out)
	})
	if err != nil {
		return nil, err
	}

	parsed, err := sfnt.Parse(ttf)
	if err != nil {
		return nil, ierrors.Wrap(ierrors.ErrCodeConversion, err, "svg2ttf produced an invalid font")
	}
	if want := len(opts.Glyphs); parsed.NumGlyphs() < want {
		return nil, ierrors.New(ierrors.ErrCodeConversion, "svg2ttf produced %d glyphs, want at least %d", parsed.NumGlyphs(), want)
	}
	return ttf, nil
}
