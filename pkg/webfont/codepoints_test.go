package webfont

import (
	"maps"
	"testing"

	ierrors "github.com/matzehuels/iconfont/pkg/errors"
)

func TestAssignCodepoints(t *testing.T) {
	tests := []struct {
		name     string
		names    []string
		explicit map[string]rune
		start    rune
		want     map[string]rune
	}{
		{
			name:  "sequential",
			names: []string{"home", "user", "star"},
			start: 0xF101,
			want:  map[string]rune{"home": 0xF101, "user": 0xF102, "star": 0xF103},
		},
		{
			name:     "explicit kept and skipped",
			names:    []string{"home", "user", "star"},
			explicit: map[string]rune{"user": 0xF101},
			start:    0xF101,
			want:     map[string]rune{"home": 0xF102, "user": 0xF101, "star": 0xF103},
		},
		{
			name:     "explicit outside the range",
			names:    []string{"home", "user"},
			explicit: map[string]rune{"home": 0x41},
			start:    0xE000,
			want:     map[string]rune{"home": 0x41, "user": 0xE000},
		},
		{
			name:     "unused explicit entries stay reserved",
			names:    []string{"home"},
			explicit: map[string]rune{"gone": 0xF101},
			start:    0xF101,
			want:     map[string]rune{"home": 0xF102},
		},
		{
			name:     "removed icon keeps its gap",
			names:    []string{"home", "star"},
			explicit: map[string]rune{"home": 0xF101, "user": 0xF102, "star": 0xF103},
			start:    0xF101,
			want:     map[string]rune{"home": 0xF101, "star": 0xF103},
		},
		{
			name:     "removed icon sharing a value is not an error",
			names:    []string{"home", "user"},
			explicit: map[string]rune{"home": 0xF101, "gone": 0xF101},
			start:    0xF101,
			want:     map[string]rune{"home": 0xF101, "user": 0xF102},
		},
		{
			name:  "surrogates skipped",
			names: []string{"a", "b"},
			start: 0xD7FF,
			want:  map[string]rune{"a": 0xD7FF, "b": 0xE000},
		},
		{
			name:  "empty",
			start: 0xF101,
			want:  map[string]rune{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AssignCodepoints(tt.names, tt.explicit, tt.start)
			if err != nil {
				t.Fatalf("AssignCodepoints: %v", err)
			}
			if !maps.Equal(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAssignCodepoints_Errors(t *testing.T) {
	tests := []struct {
		name     string
		names    []string
		explicit map[string]rune
		start    rune
	}{
		{"explicit zero", []string{"home"}, map[string]rune{"home": 0}, 0xF101},
		{"explicit surrogate", []string{"home"}, map[string]rune{"home": 0xD800}, 0xF101},
		{"explicit beyond unicode", []string{"home"}, map[string]rune{"home": 0x110000}, 0xF101},
		{"shared explicit", []string{"home", "user"}, map[string]rune{"home": 0xE000, "user": 0xE000}, 0xF101},
		{"zero start", []string{"home"}, nil, 0},
		{"exhausted", []string{"a", "b"}, nil, 0x10FFFF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := AssignCodepoints(tt.names, tt.explicit, tt.start)
			if !ierrors.Is(err, ierrors.ErrCodeInvalidCodepoint) {
				t.Errorf("error = %v, want INVALID_CODEPOINT", err)
			}
		})
	}
}

func TestHex(t *testing.T) {
	tests := map[rune]string{
		0xF101:   "f101",
		0x41:     "41",
		0x10FFFF: "10ffff",
	}
	for cp, want := range tests {
		if got := Hex(cp); got != want {
			t.Errorf("Hex(%#x) = %q, want %q", cp, got, want)
		}
	}
}
