package format

import "context"

// woff2Params are the "woff2" format options.
type woff2Params struct {
	Command string `option:"command"` // woff2_compress replacement
}

// ConvertWOFF2 compresses a TrueType font to WOFF2 with woff2_compress,
// which writes its result next to the input with a .woff2 extension.
func ConvertWOFF2(ctx context.Context, opts *Options, deps ...[]byte) ([]byte, error) {
	ttf, err := dependency(WOFF2, deps)
	if err != nil {
		return nil, err
	}
	var params woff2Params
	if err := decodeOverride(opts, WOFF2, &params); err != nil {
		return nil, err
	}
	if _, err := parseSFNT(ttf); err != nil {
		return nil, err
	}
	return woff2Tool.withCommand(params.Command).run(ctx, ttf, "ttf", "woff2", func(in, _ string) []string {
		return []string{in}
	})
}
