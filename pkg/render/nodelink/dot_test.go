package nodelink

import (
	"strings"
	"testing"

	"github.com/matzehuels/iconfont/pkg/format"
)

func TestToDOT_Basic(t *testing.T) {
	dot := ToDOT(format.Default(), Options{})

	if !strings.Contains(dot, "digraph formats") {
		t.Error("ToDOT() output missing digraph declaration")
	}
	for _, id := range []string{"svg", "ttf", "woff", "woff2", "eot"} {
		if !strings.Contains(dot, `"`+id+`" [label="`+id+`"`) {
			t.Errorf("ToDOT() output missing node %s", id)
		}
	}
	for _, edge := range []string{`"svg" -> "ttf"`, `"ttf" -> "woff"`, `"ttf" -> "woff2"`, `"ttf" -> "eot"`} {
		if !strings.Contains(dot, edge) {
			t.Errorf("ToDOT() output missing edge %s", edge)
		}
	}
	if strings.Count(dot, "->") != 4 {
		t.Errorf("ToDOT() has %d edges, want 4", strings.Count(dot, "->"))
	}
	if strings.Contains(dot, "dashed") {
		t.Error("no format should be marked unused without a request")
	}
}

func TestToDOT_Detailed(t *testing.T) {
	dot := ToDOT(format.Default(), Options{Detailed: true})

	if !strings.Contains(dot, `label="ttf\ndeps: 1"`) {
		t.Errorf("ToDOT() detailed output missing dependency count:\n%s", dot)
	}
}

func TestToDOT_Requested(t *testing.T) {
	dot := ToDOT(format.Default(), Options{Requested: []format.ID{format.WOFF2}})

	lines := strings.Split(dot, "\n")
	node := func(id string) string {
		for _, l := range lines {
			if strings.HasPrefix(strings.TrimSpace(l), `"`+id+`" [`) {
				return l
			}
		}
		t.Fatalf("node %s not found", id)
		return ""
	}

	if !strings.Contains(node("woff2"), "penwidth=2") {
		t.Error("requested format not highlighted")
	}
	for _, id := range []string{"woff", "eot"} {
		if !strings.Contains(node(id), "dashed") {
			t.Errorf("%s is outside the closure but not dashed", id)
		}
	}
	for _, id := range []string{"svg", "ttf"} {
		if strings.Contains(node(id), "dashed") {
			t.Errorf("%s is in the closure but dashed", id)
		}
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 100.00 50.00" width="100" height="50"`) {
		t.Errorf("normalizeViewBox() = %s", out)
	}

	plain := []byte(`<svg><g/></svg>`)
	if string(normalizeViewBox(plain)) != string(plain) {
		t.Error("SVG without viewBox should be unchanged")
	}
}
