package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"slices"
	"testing"

	ierrors "github.com/matzehuels/iconfont/pkg/errors"
	"github.com/matzehuels/iconfont/pkg/format"
)

const testIcon = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 20 20"><path d="M0 0h20v20H0z"/></svg>`

// writeIcons writes one SVG icon per name into a new directory.
func writeIcons(t *testing.T, names ...string) (string, []string) {
	t.Helper()
	dir := t.TempDir()
	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = filepath.Join(dir, name+".svg")
		if err := os.WriteFile(paths[i], []byte(testIcon), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir, paths
}

// execute runs the CLI with args and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := New(io.Discard, LogInfo).RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(t.Context())
	return out.String(), err
}

func TestRootCommand(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()

	var names []string
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	for _, want := range []string{"generate", "formats", "serve", "cache", "completion"} {
		if !slices.Contains(names, want) {
			t.Errorf("missing command %q in %v", want, names)
		}
	}
}

func TestParseCodepoint(t *testing.T) {
	tests := []struct {
		in      string
		want    rune
		wantErr bool
	}{
		{"0xF101", 0xF101, false},
		{"0xe000", 0xE000, false},
		{"U+E001", 0xE001, false},
		{"u+e001", 0xE001, false},
		{"61697", 61697, false},
		{" 0x41 ", 0x41, false},
		{"", 0, true},
		{"zz", 0, true},
		{"U+", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseCodepoint(tt.in)
			if tt.wantErr {
				if !ierrors.Is(err, ierrors.ErrCodeInvalidCodepoint) {
					t.Errorf("error = %v, want INVALID_CODEPOINT", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseCodepoint: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %#x, want %#x", got, tt.want)
			}
		})
	}
}

func TestJoinIDs(t *testing.T) {
	if got := joinIDs([]format.ID{format.WOFF2, format.WOFF}); got != "woff2,woff" {
		t.Errorf("joinIDs = %q", got)
	}
	if got := joinIDs(nil); got != "" {
		t.Errorf("joinIDs(nil) = %q", got)
	}
}
