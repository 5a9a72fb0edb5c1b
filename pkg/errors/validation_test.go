package errors

import (
	"strings"
	"testing"
)

func TestValidateFontName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid simple", "iconfont", false},
		{"valid with dash", "my-icons", false},
		{"valid with dot", "icons.v2", false},

		{"empty", "", true},
		{"too long", strings.Repeat("a", 200), true},
		{"slash", "fonts/icons", true},
		{"backslash", `fonts\icons`, true},
		{"traversal", "..icons", true},
		{"control char", "icons\x01", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFontName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFontName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateGlyphName(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"home", false},
		{"arrow-left", false},
		{"ünïcode", false},
		{"", true},
		{"two words", true},
		{"tab\there", true},
		{"bad\xffutf8", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := ValidateGlyphName(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateGlyphName(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateCodepoint(t *testing.T) {
	tests := []struct {
		name    string
		cp      rune
		wantErr bool
	}{
		{"private use", 0xF101, false},
		{"ascii", 'a', false},
		{"max", MaxCodepoint, false},
		{"zero", 0, true},
		{"negative", -1, true},
		{"surrogate", 0xD800, true},
		{"beyond unicode", MaxCodepoint + 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCodepoint("glyph", tt.cp)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateCodepoint(%#x) error = %v, wantErr %v", tt.cp, err, tt.wantErr)
			}
			if err != nil && !Is(err, ErrCodeInvalidCodepoint) {
				t.Errorf("error code = %v, want %v", GetCode(err), ErrCodeInvalidCodepoint)
			}
		})
	}
}

func TestValidateURL(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"", false},
		{"/static/fonts", false},
		{"https://cdn.example.com/fonts/", false},
		{`fonts")`, true},
		{"fonts\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := ValidateURL(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
