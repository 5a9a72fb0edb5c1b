package errors

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxCodepoint is the largest valid Unicode scalar value.
const MaxCodepoint = 0x10FFFF

// ValidateFontName validates a font name for safety and correctness.
// The font name becomes part of output file names, so it is rejected
// when it could escape the destination directory.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - No path separators or traversal sequences
//   - Maximum length of 128 characters
func ValidateFontName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidConfig, "font name cannot be empty")
	}

	if len(name) > 128 {
		return New(ErrCodeInvalidConfig, "font name too long (max 128 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidConfig, "font name contains invalid control characters")
		}
	}

	if strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return New(ErrCodeInvalidConfig, "font name cannot contain path separators: %q", name)
	}

	return nil
}

// ValidateGlyphName validates a glyph name used for CSS class names and ligatures.
func ValidateGlyphName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidGlyph, "glyph name cannot be empty")
	}
	if !utf8.ValidString(name) {
		return New(ErrCodeInvalidGlyph, "glyph name is not valid UTF-8: %q", name)
	}
	for _, r := range name {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidGlyph, "glyph name contains whitespace or control characters: %q", name)
		}
	}
	return nil
}

// ValidateCodepoint checks that cp can be assigned to a glyph.
// Zero, surrogates and values beyond the Unicode range are rejected.
func ValidateCodepoint(name string, cp rune) error {
	switch {
	case cp <= 0:
		return New(ErrCodeInvalidCodepoint, "glyph %q: codepoint must be positive, got %d", name, cp)
	case cp > MaxCodepoint:
		return New(ErrCodeInvalidCodepoint, "glyph %q: codepoint %#x beyond the Unicode range", name, cp)
	case cp >= 0xD800 && cp <= 0xDFFF:
		return New(ErrCodeInvalidCodepoint, "glyph %q: codepoint %#x is a surrogate", name, cp)
	}
	return nil
}

// ValidateURL validates a base URL used for font references in stylesheets.
// Relative paths are allowed; only control characters and quotes, which
// would break out of a CSS url() token, are rejected.
func ValidateURL(rawURL string) error {
	for _, r := range rawURL {
		if unicode.IsControl(r) || r == '"' || r == '\'' {
			return New(ErrCodeInvalidConfig, "fonts URL contains invalid characters: %q", rawURL)
		}
	}
	return nil
}
