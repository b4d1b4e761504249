package display

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apperrors "runcharts/internal/errors"
)

// shutdownTimeout bounds the graceful stop of the gallery server
const shutdownTimeout = 5 * time.Second

var indexTemplate = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Run charts</title></head>
<body>
<h1>Run charts</h1>
{{range .}}<figure>
<img src="/charts/{{.}}" alt="{{.}}">
<figcaption>{{.}}</figcaption>
</figure>
{{else}}<p>No charts were rendered.</p>
{{end}}</body>
</html>
`))

// Gallery collects the charts of a run and, on Close, serves them on a
// local HTTP address until the context is cancelled. Only charts passed to
// Show are reachable.
type Gallery struct {
	addr     string
	logger   *slog.Logger
	gatherer prometheus.Gatherer

	mu     sync.Mutex
	order  []string
	charts map[string]string // base name -> path
	bound  string
}

// NewGallery creates a gallery that will listen on addr
func NewGallery(addr string, logger *slog.Logger, gatherer prometheus.Gatherer) *Gallery {
	return &Gallery{
		addr:     addr,
		logger:   logger,
		gatherer: gatherer,
		charts:   make(map[string]string),
	}
}

// Show records a rendered chart
func (g *Gallery) Show(_ context.Context, path string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	name := filepath.Base(path)
	if _, seen := g.charts[name]; !seen {
		g.order = append(g.order, name)
	}
	g.charts[name] = path
	return nil
}

// Addr returns the address the gallery is listening on, or "" before it
// has started
func (g *Gallery) Addr() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.bound
}

// Routes returns the gallery router
func (g *Gallery) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/", g.handleIndex)
	r.Get("/charts/{name}", g.handleChart)
	if g.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(g.gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

// Close serves the gallery and blocks until ctx is cancelled. A clean
// shutdown returns nil.
func (g *Gallery) Close(ctx context.Context) error {
	ln, err := net.Listen("tcp", g.addr)
	if err != nil {
		return apperrors.NewDisplayError("listen", err).WithContext("addr", g.addr)
	}

	srv := &http.Server{
		Handler:           g.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g.mu.Lock()
	g.bound = ln.Addr().String()
	g.mu.Unlock()

	g.logger.InfoContext(ctx, "Serving chart gallery, press Ctrl-C to stop",
		slog.String("url", "http://"+ln.Addr().String()+"/"),
		slog.Int("charts", len(g.names())))

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			g.logger.Warn("Gallery shutdown", slog.String("error", err.Error()))
		}
	}()

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return apperrors.NewDisplayError("serve", err).WithContext("addr", g.addr)
	}
	return nil
}

func (g *Gallery) names() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

func (g *Gallery) handleIndex(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, g.names()); err != nil {
		render.Status(r, http.StatusInternalServerError)
		render.PlainText(w, r, err.Error())
		return
	}
	render.HTML(w, r, buf.String())
}

func (g *Gallery) handleChart(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	g.mu.Lock()
	path, ok := g.charts[name]
	g.mu.Unlock()

	if !ok {
		render.Status(r, http.StatusNotFound)
		render.PlainText(w, r, "chart not found: "+name)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	http.ServeFile(w, r, path)
}
