package charts

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"runcharts/internal/config"
	apperrors "runcharts/internal/errors"
)

// Viewer is notified after each chart file is written
type Viewer interface {
	Show(ctx context.Context, path string) error
}

// Figure sizes
var (
	heatmapSize = size{W: 10 * vg.Inch, H: 6 * vg.Inch}
	lineSize    = size{W: 8 * vg.Inch, H: 5 * vg.Inch}
	scatterSize = size{W: 8 * vg.Inch, H: 6 * vg.Inch}
	boxSize     = size{W: 8 * vg.Inch, H: 5 * vg.Inch}
)

type size struct {
	W, H vg.Length
}

// Renderer draws the six run charts. Every chart is built on a fresh plot
// and written as PNG into the output directory, replacing any previous file.
type Renderer struct {
	cfg       config.ChartsConfig
	outputDir string
	viewer    Viewer
	logger    *slog.Logger
}

// NewRenderer creates a renderer writing into outputDir. viewer may be nil.
// Colormap names are checked up front so a bad name fails before any file
// is touched.
func NewRenderer(cfg config.ChartsConfig, outputDir string, viewer Viewer, logger *slog.Logger) (*Renderer, error) {
	for _, name := range []string{cfg.TauColormap, cfg.DeltaCColormap, cfg.ScatterColormap} {
		if _, err := ColorMap(name); err != nil {
			return nil, apperrors.NewConfigError("invalid chart colormap", err).WithContext("colormap", name)
		}
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 100
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{
		cfg:       cfg,
		outputDir: outputDir,
		viewer:    viewer,
		logger:    logger,
	}, nil
}

// newPlot returns a blank plot with title and axis labels set
func newPlot(title, xLabel, yLabel string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	return p
}

// layer draws one plot into a region of the output canvas
type layer func(dc draw.Canvas)

// write rasterises the layers at the configured DPI and saves the PNG,
// then hands the path to the viewer.
func (r *Renderer) write(ctx context.Context, chart, file string, sz size, layers ...layer) (string, error) {
	path := filepath.Join(r.outputDir, file)

	img := vgimg.NewWith(vgimg.UseWH(sz.W, sz.H), vgimg.UseDPI(r.cfg.DPI))
	dc := draw.New(img)
	if err := drawLayers(dc, layers); err != nil {
		return "", apperrors.NewRenderError(chart, err).WithContext("file", path)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", apperrors.NewStorageError("create chart file", err).WithContext("file", path)
	}
	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(f); err != nil {
		f.Close()
		return "", apperrors.NewStorageError("write chart file", err).WithContext("file", path)
	}
	if err := f.Close(); err != nil {
		return "", apperrors.NewStorageError("close chart file", err).WithContext("file", path)
	}

	r.logger.InfoContext(ctx, "Chart written",
		slog.String("chart", chart),
		slog.String("file", path))

	if r.viewer != nil {
		if err := r.viewer.Show(ctx, path); err != nil {
			return path, err
		}
	}
	return path, nil
}

// drawLayers runs each layer, turning a plotting panic into an error
func drawLayers(dc draw.Canvas, layers []layer) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("draw: %v", rec)
		}
	}()
	for _, l := range layers {
		l(dc)
	}
	return nil
}

// whole draws p over the full canvas
func whole(p *plot.Plot) layer {
	return func(dc draw.Canvas) { p.Draw(dc) }
}
