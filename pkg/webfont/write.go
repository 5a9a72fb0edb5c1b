package webfont

import (
	"os"
	"path/filepath"
	"slices"

	ierrors "github.com/matzehuels/iconfont/pkg/errors"
	"github.com/matzehuels/iconfont/pkg/format"
)

// WriteResult writes every artifact of result to <Dest>/<FontName>.<type>,
// then the stylesheet and the preview page when they are enabled.
// Parent directories are created. It returns the written paths.
func WriteResult(result *Result) ([]string, error) {
	opts := result.opts
	var written []string

	if err := os.MkdirAll(opts.Dest, 0o755); err != nil {
		return nil, ierrors.Wrap(ierrors.ErrCodeWriteFailed, err, "create %s", opts.Dest)
	}
	ids := make([]format.ID, 0, len(result.Fonts))
	for id := range result.Fonts {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		path := filepath.Join(opts.Dest, opts.FontName+"."+string(id))
		if err := writeFile(path, result.Fonts[id]); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	if opts.CSS {
		css, err := result.GenerateCSS(nil)
		if err != nil {
			return written, err
		}
		if err := writeFile(opts.CSSDest, []byte(css)); err != nil {
			return written, err
		}
		written = append(written, opts.CSSDest)
	}

	if opts.HTML {
		html, err := result.GenerateHTML()
		if err != nil {
			return written, err
		}
		if err := writeFile(opts.HTMLDest, []byte(html)); err != nil {
			return written, err
		}
		written = append(written, opts.HTMLDest)
	}
	return written, nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return ierrors.Wrap(ierrors.ErrCodeWriteFailed, err, "create directory for %s", path)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return ierrors.Wrap(ierrors.ErrCodeWriteFailed, err, "write %s", path)
	}
	return nil
}
