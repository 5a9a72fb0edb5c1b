package format

import (
	"math"
	"strconv"
	"strings"

	ierrors "github.com/matzehuels/iconfont/pkg/errors"
)

// segment is one path command with its arguments.
type segment struct {
	cmd  byte
	args []float64
}

// path is SVG path data. After absolute() every command is upper case.
type path []segment

var pathArgCount = map[byte]int{
	'M': 2, 'L': 2, 'H': 1, 'V': 1, 'C': 6, 'S': 4, 'Q': 4, 'T': 2, 'A': 7, 'Z': 0,
}

// parsePath parses SVG path data. Implicit command repetition is
// expanded so that every segment carries exactly one argument group.
func parsePath(d string) (path, error) {
	sc := pathScanner{s: d}
	var (
		p   path
		cmd byte
	)
	for {
		sc.skipSeparators()
		if sc.eof() {
			return p, nil
		}
		c := sc.s[sc.i]
		if _, ok := pathArgCount[upper(c)]; ok {
			cmd = c
			sc.i++
		} else if cmd == 0 || upper(cmd) == 'Z' {
			return nil, ierrors.New(ierrors.ErrCodeInvalidGlyph, "path data: unexpected %q at offset %d", c, sc.i)
		}
		if len(p) == 0 && upper(cmd) != 'M' {
			return nil, ierrors.New(ierrors.ErrCodeInvalidGlyph, "path data must start with a moveto, got %q", cmd)
		}

		n := pathArgCount[upper(cmd)]
		seg := segment{cmd: cmd, args: make([]float64, n)}
		for k := 0; k < n; k++ {
			sc.skipSeparators()
			var err error
			if upper(cmd) == 'A' && (k == 3 || k == 4) {
				seg.args[k], err = sc.flag()
			} else {
				seg.args[k], err = sc.number()
			}
			if err != nil {
				return nil, err
			}
		}
		p = append(p, seg)

		// Coordinate pairs after a moveto are implicit linetos.
		switch cmd {
		case 'M':
			cmd = 'L'
		case 'm':
			cmd = 'l'
		}
	}
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - ('a' - 'A')
	}
	return c
}

type pathScanner struct {
	s string
	i int
}

func (sc *pathScanner) eof() bool { return sc.i >= len(sc.s) }

func (sc *pathScanner) skipSeparators() {
	for !sc.eof() {
		switch sc.s[sc.i] {
		case ' ', '\t', '\n', '\r', '\f', ',':
			sc.i++
		default:
			return
		}
	}
}

// number scans one SVG number. "1.5.5" yields 1.5 then .5, and "1-2" yields 1 then -2.
func (sc *pathScanner) number() (float64, error) {
	start := sc.i
	if !sc.eof() && (sc.s[sc.i] == '+' || sc.s[sc.i] == '-') {
		sc.i++
	}
	digits := sc.digits()
	if !sc.eof() && sc.s[sc.i] == '.' {
		sc.i++
		digits += sc.digits()
	}
	if digits == 0 {
		return 0, ierrors.New(ierrors.ErrCodeInvalidGlyph, "path data: expected number at offset %d", start)
	}
	if !sc.eof() && (sc.s[sc.i] == 'e' || sc.s[sc.i] == 'E') {
		mark := sc.i
		sc.i++
		if !sc.eof() && (sc.s[sc.i] == '+' || sc.s[sc.i] == '-') {
			sc.i++
		}
		if sc.digits() == 0 {
			sc.i = mark
		}
	}
	v, err := strconv.ParseFloat(sc.s[start:sc.i], 64)
	if err != nil {
		return 0, ierrors.Wrap(ierrors.ErrCodeInvalidGlyph, err, "path data: bad number %q", sc.s[start:sc.i])
	}
	return v, nil
}

func (sc *pathScanner) digits() int {
	n := 0
	for !sc.eof() && sc.s[sc.i] >= '0' && sc.s[sc.i] <= '9' {
		sc.i++
		n++
	}
	return n
}

// flag scans a single-character arc flag, which may be glued to the next value.
func (sc *pathScanner) flag() (float64, error) {
	if sc.eof() || (sc.s[sc.i] != '0' && sc.s[sc.i] != '1') {
		return 0, ierrors.New(ierrors.ErrCodeInvalidGlyph, "path data: expected arc flag at offset %d", sc.i)
	}
	v := float64(sc.s[sc.i] - '0')
	sc.i++
	return v, nil
}

// absolute returns a copy of p with every command converted to its
// absolute form.
func (p path) absolute() path {
	out := make(path, 0, len(p))
	var cx, cy, sx, sy float64
	for _, seg := range p {
		a := append([]float64(nil), seg.args...)
		rel := seg.cmd >= 'a' && seg.cmd <= 'z'
		cmd := upper(seg.cmd)
		switch cmd {
		case 'H':
			if rel {
				a[0] += cx
			}
			cx = a[0]
		case 'V':
			if rel {
				a[0] += cy
			}
			cy = a[0]
		case 'A':
			if rel {
				a[5] += cx
				a[6] += cy
			}
			cx, cy = a[5], a[6]
		case 'Z':
			cx, cy = sx, sy
		default:
			for k := 0; k+1 < len(a); k += 2 {
				if rel {
					a[k] += cx
					a[k+1] += cy
				}
			}
			cx, cy = a[len(a)-2], a[len(a)-1]
			if cmd == 'M' {
				sx, sy = cx, cy
			}
		}
		out = append(out, segment{cmd: cmd, args: a})
	}
	return out
}

// affine is an axis-aligned transform: x' = sx*x + tx, y' = sy*y + ty.
type affine struct {
	sx, sy, tx, ty float64
}

var identity = affine{sx: 1, sy: 1}

// then returns the transform that applies a, then b.
func (a affine) then(b affine) affine {
	return affine{
		sx: a.sx * b.sx,
		sy: a.sy * b.sy,
		tx: a.tx*b.sx + b.tx,
		ty: a.ty*b.sy + b.ty,
	}
}

func (a affine) x(v float64) float64 { return a.sx*v + a.tx }
func (a affine) y(v float64) float64 { return a.sy*v + a.ty }

// transform applies t to an absolute path. Arc radii are scaled and,
// when t mirrors the plane, arc rotation and sweep direction are flipped.
func (p path) transform(t affine) path {
	mirror := t.sx*t.sy < 0
	out := make(path, 0, len(p))
	for _, seg := range p {
		a := append([]float64(nil), seg.args...)
		switch seg.cmd {
		case 'H':
			a[0] = t.x(a[0])
		case 'V':
			a[0] = t.y(a[0])
		case 'A':
			a[0] *= math.Abs(t.sx)
			a[1] *= math.Abs(t.sy)
			if mirror {
				a[2] = -a[2]
				a[4] = 1 - a[4]
			}
			a[5], a[6] = t.x(a[5]), t.y(a[6])
		case 'Z':
		default:
			for k := 0; k+1 < len(a); k += 2 {
				a[k], a[k+1] = t.x(a[k]), t.y(a[k+1])
			}
		}
		out = append(out, segment{cmd: seg.cmd, args: a})
	}
	return out
}

// bounds returns the bounding box of the on-curve and control points of
// an absolute path. ok is false for an empty path.
func (p path) bounds() (minX, minY, maxX, maxY float64, ok bool) {
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	add := func(x, y float64) {
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
		ok = true
	}
	var cx, cy float64
	for _, seg := range p {
		a := seg.args
		switch seg.cmd {
		case 'H':
			cx = a[0]
			add(cx, cy)
		case 'V':
			cy = a[0]
			add(cx, cy)
		case 'A':
			cx, cy = a[5], a[6]
			add(cx, cy)
		case 'Z':
		default:
			for k := 0; k+1 < len(a); k += 2 {
				add(a[k], a[k+1])
			}
			cx, cy = a[len(a)-2], a[len(a)-1]
		}
	}
	return minX, minY, maxX, maxY, ok
}

// format serialises p, rounding every number with round.
func (p path) format(round float64) string {
	var b strings.Builder
	for _, seg := range p {
		b.WriteByte(seg.cmd)
		for k, v := range seg.args {
			if k > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(formatNumber(v, round))
		}
	}
	return b.String()
}

// formatNumber rounds v to the nearest 1/round and prints it without
// trailing zeros. Values too large to round without losing precision
// are printed as they are.
func formatNumber(v, round float64) string {
	if round > 0 {
		if scaled := v * round; math.Abs(scaled) < 1<<52 {
			v = math.Round(scaled) / round
		}
	}
	if v == 0 {
		v = 0 // drop negative zero
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
