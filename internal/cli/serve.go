package cli

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/matzehuels/iconfont/pkg/format"
	"github.com/matzehuels/iconfont/pkg/observability"
	"github.com/matzehuels/iconfont/pkg/webfont"
)

const (
	defaultAddr     = "localhost:8080"
	shutdownTimeout = 5 * time.Second
)

// contentTypes maps font formats to their media types.
var contentTypes = map[format.ID]string{
	format.SVG:   "image/svg+xml",
	format.TTF:   "font/ttf",
	format.WOFF:  "font/woff",
	format.WOFF2: "font/woff2",
	format.EOT:   "application/vnd.ms-fontobject",
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		flags generateFlags
		addr  string
	)

	cmd := &cobra.Command{
		Use:   "serve [files...]",
		Short: "Generate a font in memory and preview it over HTTP",
		Example: `  iconfont serve icons/*.svg
  iconfont serve --config iconfont.toml --addr :9000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.generateOptions(cmd, args, &flags)
			if err != nil {
				return err
			}
			return c.runServe(cmd.Context(), opts, flags.cache, addr)
		},
	}

	flags.registerFont(cmd)
	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")

	return cmd
}

// runServe generates the font and serves it until ctx is cancelled.
func (c *CLI) runServe(ctx context.Context, opts *webfont.Options, cf cacheFlags, addr string) error {
	// Everything is served from the root, so every URL is relative to it.
	opts.WriteFiles = false
	opts.Dest, opts.CSSDest, opts.HTMLDest, opts.CSSFontsURL = "", "", "", ""

	gen, cleanup, err := c.newGenerator(ctx, cf)
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := gen.Generate(ctx, opts)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           newPreviewHandler(result, c.Logger),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	base := "http://" + addr
	if strings.HasPrefix(addr, ":") {
		base = "http://localhost" + addr
	}
	printSuccess("Serving %s", StyleHighlight.Render(opts.FontName))
	printKeyValue("Preview", StyleLink.Render(base+"/"))
	printKeyValue("Stylesheet", StyleLink.Render(base+"/"+opts.FontName+".css"))
	printDetail("Press Ctrl+C to stop")

	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return ctx.Err()
}

// =============================================================================
// Preview Handler
// =============================================================================

// previewServer serves one generated font.
type previewServer struct {
	result *webfont.Result
	logger *log.Logger
}

// newPreviewHandler routes:
//
//	GET /                 preview page
//	GET /<name>.css       stylesheet
//	GET /<name>.<type>    font file
//	GET /api/glyphs       glyph names and code points as JSON
//	GET /healthz          liveness probe
func newPreviewHandler(result *webfont.Result, logger *log.Logger) http.Handler {
	s := &previewServer{result: result, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/", s.handleIndex)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.Get("/api/glyphs", s.handleGlyphs)
	r.Get("/{file}", s.handleFile)

	return r
}

// observe logs each request and reports it to the HTTP hooks.
func (s *previewServer) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		observability.HTTP().OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		observability.HTTP().OnResponse(r.Context(), r.Method, r.URL.Path, status, elapsed)
		s.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "status", status, "duration", elapsed)
	})
}

func (s *previewServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	page, err := s.result.GenerateHTML()
	if err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(page))
}

func (s *previewServer) handleFile(w http.ResponseWriter, r *http.Request) {
	file := chi.URLParam(r, "file")
	name := s.result.Options().FontName
	ext := strings.TrimPrefix(path.Ext(file), ".")
	if strings.TrimSuffix(file, "."+ext) != name {
		http.NotFound(w, r)
		return
	}

	if ext == "css" {
		css, err := s.result.GenerateCSS(nil)
		if err != nil {
			s.fail(w, err)
			return
		}
		w.Header().Set("Content-Type", "text/css; charset=utf-8")
		_, _ = w.Write([]byte(css))
		return
	}

	id := format.ID(ext)
	data, ok := s.result.Font(id)
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", contentTypes[id])
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	_, _ = w.Write(data)
}

// glyphInfo is one glyph in the /api/glyphs response.
type glyphInfo struct {
	Name      string `json:"name"`
	Codepoint string `json:"codepoint"`
	Class     string `json:"class"`
}

func (s *previewServer) handleGlyphs(w http.ResponseWriter, r *http.Request) {
	prefix, _ := s.result.Options().TemplateOptions["classPrefix"].(string)
	glyphs := make([]glyphInfo, len(s.result.Glyphs))
	for i, g := range s.result.Glyphs {
		glyphs[i] = glyphInfo{Name: g.Name, Codepoint: webfont.Hex(g.Codepoint), Class: prefix + g.Name}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"font":   s.result.Options().FontName,
		"hash":   s.result.Hash,
		"glyphs": glyphs,
	})
}

func (s *previewServer) fail(w http.ResponseWriter, err error) {
	s.logger.Error("render failed", "err", err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}
