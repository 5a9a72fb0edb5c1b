package format

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	ierrors "github.com/matzehuels/iconfont/pkg/errors"
)

// outline is a parsed icon: its drawing in icon coordinates and the
// icon's viewport.
type outline struct {
	path                       path // absolute commands, icon coordinates
	minX, minY, width, height float64
}

// skippedElements hold content that is never painted directly.
var skippedElements = map[string]bool{
	"defs": true, "clipPath": true, "mask": true, "symbol": true, "pattern": true,
	"marker": true, "title": true, "desc": true, "metadata": true, "style": true,
}

// parseGlyph reads an SVG icon and flattens every painted shape into one
// absolute path. Only axis-aligned transforms (translate, scale and
// matrices without rotation or skew) are supported.
func parseGlyph(data []byte) (*outline, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = false

	var (
		o      *outline
		stack  []affine
		skip   int
		hidden int
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, ierrors.Wrap(ierrors.ErrCodeInvalidGlyph, err, "parse SVG")
		}

		switch el := tok.(type) {
		case xml.StartElement:
			name := el.Name.Local
			attrs := attrMap(el.Attr)

			if o == nil {
				if name != "svg" {
					return nil, ierrors.New(ierrors.ErrCodeInvalidGlyph, "root element is <%s>, want <svg>", name)
				}
				if o, err = viewport(attrs); err != nil {
					return nil, err
				}
			}

			parent := identity
			if len(stack) > 0 {
				parent = stack[len(stack)-1]
			}
			t, err := parseTransform(attrs["transform"])
			if err != nil {
				return nil, err
			}
			current := t.then(parent)
			stack = append(stack, current)

			if skip > 0 || skippedElements[name] {
				skip++
				continue
			}
			if hidden > 0 || attrs["display"] == "none" || attrs["visibility"] == "hidden" {
				hidden++
				continue
			}

			d, err := shapePath(name, attrs)
			if err != nil {
				return nil, err
			}
			if d == "" {
				continue
			}
			p, err := parsePath(d)
			if err != nil {
				return nil, err
			}
			o.path = append(o.path, p.absolute().transform(current)...)

		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
			if skip > 0 {
				skip--
			} else if hidden > 0 {
				hidden--
			}
		}
	}

	if o == nil {
		return nil, ierrors.New(ierrors.ErrCodeInvalidGlyph, "no <svg> element")
	}
	return o, nil
}

func attrMap(attrs []xml.Attr) map[string]string {
	m := make(map[string]string, len(attrs))
	for _, a := range attrs {
		m[a.Name.Local] = a.Value
	}
	for _, decl := range strings.Split(m["style"], ";") {
		k, v, ok := strings.Cut(decl, ":")
		if ok {
			m[strings.TrimSpace(k)] = strings.TrimSpace(v)
		}
	}
	return m
}

// viewport reads the icon's coordinate system from viewBox, falling back
// to width and height.
func viewport(attrs map[string]string) (*outline, error) {
	if vb := attrs["viewBox"]; vb != "" {
		v, err := numberList(vb)
		if err != nil || len(v) != 4 {
			return nil, ierrors.New(ierrors.ErrCodeInvalidGlyph, "invalid viewBox %q", vb)
		}
		if v[2] <= 0 || v[3] <= 0 {
			return nil, ierrors.New(ierrors.ErrCodeInvalidGlyph, "viewBox %q has no area", vb)
		}
		return &outline{minX: v[0], minY: v[1], width: v[2], height: v[3]}, nil
	}
	w, werr := length(attrs["width"])
	h, herr := length(attrs["height"])
	if werr != nil || herr != nil || w <= 0 || h <= 0 {
		return nil, ierrors.New(ierrors.ErrCodeInvalidGlyph, "icon needs a viewBox or a positive width and height")
	}
	return &outline{width: w, height: h}, nil
}

// length parses an SVG length, accepting a "px" unit.
func length(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(s), "px"), 64)
}

func numberList(s string) ([]float64, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// parseTransform parses a transform list into a single axis-aligned transform.
func parseTransform(s string) (affine, error) {
	t := identity
	s = strings.TrimSpace(s)
	for s != "" {
		open := strings.IndexByte(s, '(')
		end := strings.IndexByte(s, ')')
		if open < 0 || end < open {
			return t, ierrors.New(ierrors.ErrCodeInvalidGlyph, "invalid transform %q", s)
		}
		fn := strings.TrimSpace(strings.Trim(s[:open], ", "))
		args, err := numberList(s[open+1 : end])
		if err != nil {
			return t, ierrors.Wrap(ierrors.ErrCodeInvalidGlyph, err, "invalid transform arguments %q", s[open+1:end])
		}
		var step affine
		switch {
		case fn == "translate" && len(args) == 1:
			step = affine{sx: 1, sy: 1, tx: args[0]}
		case fn == "translate" && len(args) == 2:
			step = affine{sx: 1, sy: 1, tx: args[0], ty: args[1]}
		case fn == "scale" && len(args) == 1:
			step = affine{sx: args[0], sy: args[0]}
		case fn == "scale" && len(args) == 2:
			step = affine{sx: args[0], sy: args[1]}
		case fn == "matrix" && len(args) == 6 && args[1] == 0 && args[2] == 0:
			step = affine{sx: args[0], sy: args[3], tx: args[4], ty: args[5]}
		case fn == "rotate" && len(args) >= 1 && math.Mod(args[0], 360) == 0:
			step = identity
		default:
			return t, ierrors.New(ierrors.ErrCodeInvalidGlyph, "unsupported transform %s(%s)", fn, s[open+1:end])
		}
		// Transform lists apply right to left.
		t = step.then(t)
		s = strings.TrimSpace(s[end+1:])
	}
	return t, nil
}

// shapePath converts a basic shape to path data in its own coordinates.
// Elements that draw nothing return "".
func shapePath(name string, attrs map[string]string) (string, error) {
	num := func(key string) float64 {
		v, _ := length(attrs[key])
		return v
	}
	switch name {
	case "path":
		return attrs["d"], nil
	case "rect":
		x, y, w, h := num("x"), num("y"), num("width"), num("height")
		if w <= 0 || h <= 0 {
			return "", nil
		}
		rx, ry := num("rx"), num("ry")
		if rx == 0 {
			rx = ry
		}
		if ry == 0 {
			ry = rx
		}
		rx, ry = math.Min(rx, w/2), math.Min(ry, h/2)
		if rx <= 0 {
			return fmt.Sprintf("M%g %gH%gV%gH%gZ", x, y, x+w, y+h, x), nil
		}
		return fmt.Sprintf("M%g %gH%gA%g %g 0 0 1 %g %gV%gA%g %g 0 0 1 %g %gH%gA%g %g 0 0 1 %g %gV%gA%g %g 0 0 1 %g %gZ",
			x+rx, y, x+w-rx,
			rx, ry, x+w, y+ry, y+h-ry,
			rx, ry, x+w-rx, y+h, x+rx,
			rx, ry, x, y+h-ry, y+ry,
			rx, ry, x+rx, y), nil
	case "circle":
		r := num("r")
		if r <= 0 {
			return "", nil
		}
		return ellipsePath(num("cx"), num("cy"), r, r), nil
	case "ellipse":
		rx, ry := num("rx"), num("ry")
		if rx <= 0 || ry <= 0 {
			return "", nil
		}
		return ellipsePath(num("cx"), num("cy"), rx, ry), nil
	case "line":
		return fmt.Sprintf("M%g %gL%g %g", num("x1"), num("y1"), num("x2"), num("y2")), nil
	case "polyline", "polygon":
		pts, err := numberList(attrs["points"])
		if err != nil || len(pts) < 4 || len(pts)%2 != 0 {
			return "", ierrors.New(ierrors.ErrCodeInvalidGlyph, "invalid %s points %q", name, attrs["points"])
		}
		var b strings.Builder
		for k := 0; k < len(pts); k += 2 {
			cmd := "L"
			if k == 0 {
				cmd = "M"
			}
			fmt.Fprintf(&b, "%s%g %g", cmd, pts[k], pts[k+1])
		}
		if name == "polygon" {
			b.WriteString("Z")
		}
		return b.String(), nil
	}
	return "", nil
}

func ellipsePath(cx, cy, rx, ry float64) string {
	return fmt.Sprintf("M%g %gA%g %g 0 1 0 %g %gA%g %g 0 1 0 %g %gZ",
		cx-rx, cy, rx, ry, cx+rx, cy, rx, ry, cx-rx, cy)
}
