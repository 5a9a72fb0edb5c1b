package format

import (
	"math"
	"testing"
)

func TestParsePath(t *testing.T) {
	tests := []struct {
		name string
		d    string
		want string
	}{
		{"simple", "M0 0L10 10Z", "M0 0L10 10Z"},
		{"implicit lineto", "M0 0 10 0 10 10z", "M0 0L10 0L10 10z"},
		{"relative implicit", "m1 1 2 2", "m1 1l2 2"},
		{"compact numbers", "M1.5.5L-1-2", "M1.5 0.5L-1 -2"},
		{"exponent", "M1e2 2E-1", "M100 0.2"},
		{"arc flags glued", "M0 0a5 5 0 01 10 0", "M0 0a5 5 0 0 1 10 0"},
		{"commas", "M 1,2 C 3,4,5,6,7,8", "M1 2C3 4 5 6 7 8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := parsePath(tt.d)
			if err != nil {
				t.Fatalf("parsePath(%q) error = %v", tt.d, err)
			}
			if got := p.format(0); got != tt.want {
				t.Errorf("parsePath(%q) = %q, want %q", tt.d, got, tt.want)
			}
		})
	}
}

func TestParsePathErrors(t *testing.T) {
	for _, d := range []string{"L0 0", "M0", "M0 0 Z 1", "M0 0 X1 1", "M0 0 A1 1 0 2 0 1 1"} {
		if _, err := parsePath(d); err == nil {
			t.Errorf("parsePath(%q) error = nil, want error", d)
		}
	}
}

func TestPathAbsolute(t *testing.T) {
	p, _ := parsePath("m10 10 l5 0 h5 v5 c1 1 2 2 3 3 a1 1 0 0 1 2 2 z m1 1 l1 0")
	got := p.absolute().format(0)
	want := "M10 10L15 10H20V15C21 16 22 17 23 18A1 1 0 0 1 25 20ZM11 11L12 11"
	if got != want {
		t.Errorf("absolute() = %q, want %q", got, want)
	}
}

func TestPathTransformMirrorsArcs(t *testing.T) {
	p, _ := parsePath("M0 0A5 10 30 0 1 10 0H4V6")
	got := p.transform(affine{sx: 2, sy: -2, tx: 1, ty: 100}).format(0)
	want := "M1 100A10 20 -30 0 0 21 100H9V88"
	if got != want {
		t.Errorf("transform() = %q, want %q", got, want)
	}
}

func TestPathBounds(t *testing.T) {
	p, _ := parsePath("M1 2H10V-3C0 0 20 5 4 4Z")
	minX, minY, maxX, maxY, ok := p.absolute().bounds()
	if !ok {
		t.Fatal("bounds() ok = false")
	}
	if minX != 0 || minY != -3 || maxX != 20 || maxY != 5 {
		t.Errorf("bounds() = %v %v %v %v", minX, minY, maxX, maxY)
	}
	if _, _, _, _, ok := (path{}).bounds(); ok {
		t.Error("empty path should have no bounds")
	}
}

func TestAffineThen(t *testing.T) {
	a := affine{sx: 2, sy: 3, tx: 1, ty: 1}
	b := affine{sx: -1, sy: 1, tx: 10, ty: 0}
	c := a.then(b)
	x, y := 5.0, 7.0
	if c.x(x) != b.x(a.x(x)) || c.y(y) != b.y(a.y(y)) {
		t.Errorf("then() = %+v, does not compose", c)
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		v, round float64
		want     string
	}{
		{1.23456, 100, "1.23"},
		{-0.0001, 100, "0"},
		{2, DefaultRound, "2"},
		{1.0 / 3, 1000, "0.333"},
		{math.Copysign(0, -1), 0, "0"},
	}
	for _, tt := range tests {
		if got := formatNumber(tt.v, tt.round); got != tt.want {
			t.Errorf("formatNumber(%v, %v) = %q, want %q", tt.v, tt.round, got, tt.want)
		}
	}
}
