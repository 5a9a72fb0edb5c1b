package format

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	ierrors "github.com/matzehuels/iconfont/pkg/errors"
)

// tool is an external converter program.
type tool struct {
	name string // program looked up on PATH
	hint string // install instructions shown when it is missing
}

var (
	svg2ttfTool = tool{
		name: "svg2ttf",
		hint: "install it with: npm install -g svg2ttf",
	}
	woff2Tool = tool{
		name: "woff2_compress",
		hint: "install it with:\n  macOS:  brew install woff2\n  Linux:  apt install woff2",
	}
)

// Tool returns the external program the built-in converter of id runs,
// or "" for formats encoded natively.
func Tool(id ID) string {
	switch id {
	case TTF:
		return svg2ttfTool.name
	case WOFF2:
		return woff2Tool.name
	}
	return ""
}

// withCommand returns t with its program replaced by command, if set.
func (t tool) withCommand(command string) tool {
	if command != "" {
		t.name = command
	}
	return t
}

// run writes input to a scratch file named font.<inExt>, runs the program
// with argv(inPath, outPath) and returns the contents of font.<outExt>.
func (t tool) run(ctx context.Context, input []byte, inExt, outExt string, argv func(in, out string) []string) ([]byte, error) {
	path, err := exec.LookPath(t.name)
	if err != nil {
		return nil, ierrors.New(ierrors.ErrCodeToolMissing, "%s not found on PATH; %s", t.name, t.hint)
	}

	dir, err := os.MkdirTemp("", "iconfont-"+outExt+"-")
	if err != nil {
		return nil, ierrors.Wrap(ierrors.ErrCodeInternal, err, "create scratch directory")
	}
	defer os.RemoveAll(dir)

	in := filepath.Join(dir, "font."+inExt)
	out := filepath.Join(dir, "font."+outExt)
	if err := os.WriteFile(in, input, 0644); err != nil {
		return nil, ierrors.Wrap(ierrors.ErrCodeInternal, err, "write %s input", t.name)
	}

	cmd := exec.CommandContext(ctx, path, argv(in, out)...)
	var stderr bytes.Buffer
	cmd.Stdout = &stderr
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, ierrors.Wrap(ierrors.ErrCodeConversion, err, "%s: %s", t.name, strings.TrimSpace(stderr.String()))
	}

	data, err := os.ReadFile(out)
	if err != nil {
		return nil, ierrors.Wrap(ierrors.ErrCodeConversion, err, "%s produced no output", t.name)
	}
	return data, nil
}
