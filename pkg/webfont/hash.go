package webfont

import (
	"os"
	"path"
	"strings"

	"github.com/matzehuels/iconfont/pkg/cache"
	ierrors "github.com/matzehuels/iconfont/pkg/errors"
	"github.com/matzehuels/iconfont/pkg/format"
)

// hashedOptions are the options that influence font contents.
// Output locations and the requested types do not.
type hashedOptions struct {
	FontName      string                       `json:"font_name"`
	Names         []string                     `json:"names"`
	Codepoints    map[string]rune              `json:"codepoints"`
	FontHeight    float64                      `json:"font_height"`
	Descent       float64                      `json:"descent"`
	Normalize     bool                         `json:"normalize"`
	Round         float64                      `json:"round"`
	FormatOptions map[format.ID]map[string]any `json:"format_options,omitempty"`
}

// ContentHash returns the SHA-256 over every glyph file and the options
// that shape the fonts. Equal hashes mean byte-identical fonts, which
// makes the hash usable both as a cache key and as a URL cache buster.
// opts must be validated.
func ContentHash(opts *Options) (string, error) {
	var h cache.Hasher
	for _, file := range opts.Files {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", ierrors.Wrap(ierrors.ErrCodeFileNotFound, err, "read glyph %s", file)
		}
		h.Write(data)
	}
	err := h.WriteJSON(hashedOptions{
		FontName:      opts.FontName,
		Names:         opts.names,
		Codepoints:    opts.assigned,
		FontHeight:    opts.FontHeight,
		Descent:       opts.Descent,
		Normalize:     opts.Normalize,
		Round:         opts.Round,
		FormatOptions: opts.FormatOptions,
	})
	if err != nil {
		return "", ierrors.Wrap(ierrors.ErrCodeInvalidConfig, err, "encode options")
	}
	return h.Sum(), nil
}

// MakeURLs returns the stylesheet URL of every type:
// "<fontName>.<type>?<hash>", joined onto fontsURL when it is set.
// Backslashes in fontsURL are turned into slashes.
func MakeURLs(fontName string, types []format.ID, hash, fontsURL string) map[format.ID]string {
	base := strings.ReplaceAll(fontsURL, `\`, "/")
	urls := make(map[format.ID]string, len(types))
	for _, t := range types {
		name := fontName + "." + string(t) + "?" + hash
		if base != "" {
			name = joinURL(base, name)
		}
		urls[t] = name
	}
	return urls
}

func joinURL(base, name string) string {
	if strings.Contains(base, "://") || strings.HasPrefix(base, "//") {
		return strings.TrimSuffix(base, "/") + "/" + name
	}
	return path.Join(base, name)
}
