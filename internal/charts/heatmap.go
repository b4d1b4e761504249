package charts

import (
	"context"
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg/draw"

	"runcharts/internal/dataset"
)

// pivotGrid adapts a pivot table to plotter.GridXYZ. Grid row 0 is the
// last pivot row, so the first pivot row is drawn at the top.
type pivotGrid struct {
	p *dataset.PivotTable
}

func (g pivotGrid) Dims() (c, r int) {
	rows, cols := g.p.Dims()
	return cols, rows
}

func (g pivotGrid) Z(c, r int) float64 {
	rows, _ := g.p.Dims()
	return g.p.Cells[rows-1-r][c]
}

func (g pivotGrid) X(c int) float64 { return float64(c) }
func (g pivotGrid) Y(r int) float64 { return float64(r) }

// TauHeatmap renders the mean TauL pivot as an annotated heatmap
func (r *Renderer) TauHeatmap(ctx context.Context, p *dataset.PivotTable) (string, error) {
	return r.heatmap(ctx, "tau_heatmap", r.cfg.TauHeatmap, p, heatmapStyle{
		title:    "Average TauL by Foresight and Complexity",
		colormap: r.cfg.TauColormap,
		format:   "%.1f",
	})
}

// DeltaCHeatmap renders the mean deltaC pivot as an annotated heatmap
func (r *Renderer) DeltaCHeatmap(ctx context.Context, p *dataset.PivotTable) (string, error) {
	return r.heatmap(ctx, "deltaC_heatmap", r.cfg.DeltaCHeatmap, p, heatmapStyle{
		title:    "Forecast Advantage (ΔC) by Foresight and Complexity",
		colormap: r.cfg.DeltaCColormap,
		format:   "%.2f",
	})
}

type heatmapStyle struct {
	title    string
	colormap string
	format   string
}

func (r *Renderer) heatmap(ctx context.Context, chart, file string, p *dataset.PivotTable, style heatmapStyle) (string, error) {
	plt := newPlot(style.title, "Complexity", "Foresight")

	lo, hi, ok := p.Range()
	if !ok {
		// Nothing defined to color; draw the labelled axes only.
		setPivotTicks(plt, p)
		return r.write(ctx, chart, file, heatmapSize, whole(plt))
	}
	lo, hi = widen(lo, hi)

	cm, err := scaledColorMap(style.colormap, lo, hi)
	if err != nil {
		return "", err
	}
	pal := cm.Palette(paletteSize)

	hm := plotter.NewHeatMap(pivotGrid{p: p}, pal)
	hm.Min, hm.Max = lo, hi
	hm.NaN = color.Transparent
	plt.Add(hm)

	labels, err := annotations(p, pal, lo, hi, style.format)
	if err != nil {
		return "", err
	}
	if labels != nil {
		plt.Add(labels)
	}

	setPivotTicks(plt, p)
	plt.X.Padding = 0
	plt.Y.Padding = 0

	return r.write(ctx, chart, file, heatmapSize, withColorBar(plt, cm, ""))
}

// setPivotTicks labels each cell center with its key
func setPivotTicks(plt *plot.Plot, p *dataset.PivotTable) {
	if len(p.ColKeys) > 0 {
		plt.NominalX(p.ColKeys...)
	}
	if n := len(p.RowKeys); n > 0 {
		reversed := make([]string, n)
		for i, k := range p.RowKeys {
			reversed[n-1-i] = k
		}
		plt.NominalY(reversed...)
	}
}

// annotations writes each defined cell value at the cell center. Undefined
// cells get no label.
func annotations(p *dataset.PivotTable, pal palette.Palette, lo, hi float64, format string) (*plotter.Labels, error) {
	colors := pal.Colors()
	scale := float64(len(colors)-1) / (hi - lo)
	rows, cols := p.Dims()

	var (
		xys   plotter.XYs
		texts []string
		fills []color.Color
	)
	for i := 0; i < rows; i++ {
		for c := 0; c < cols; c++ {
			v := p.Cells[i][c]
			if math.IsNaN(v) {
				continue
			}
			xys = append(xys, plotter.XY{X: float64(c), Y: float64(rows - 1 - i)})
			texts = append(texts, fmt.Sprintf(format, v))
			fills = append(fills, colors[int((v-lo)*scale+0.5)])
		}
	}
	if len(xys) == 0 {
		return nil, nil
	}

	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: texts})
	if err != nil {
		return nil, err
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].XAlign = draw.XCenter
		labels.TextStyle[i].YAlign = draw.YCenter
		labels.TextStyle[i].Color = textColorOn(fills[i])
	}
	return labels, nil
}
