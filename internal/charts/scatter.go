package charts

import (
	"context"
	"image/color"
	"math"

	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"runcharts/internal/dataset"
)

// scatterAlpha is the opacity of scatter points
const scatterAlpha = 0.7

// DeltaCVsK plots deltaC against K with each point colored by TauL, plus a
// TauL color bar
func (r *Renderer) DeltaCVsK(ctx context.Context, t *dataset.Table) (string, error) {
	const chart = "deltaC_vs_K_TauL"

	ks, err := t.Float64s(dataset.ColK)
	if err != nil {
		return "", err
	}
	deltas, err := t.Float64s(dataset.ColDeltaC)
	if err != nil {
		return "", err
	}
	taus, err := t.Float64s(dataset.ColTauL)
	if err != nil {
		return "", err
	}

	var (
		xys  plotter.XYs
		tauC []float64
	)
	lo, hi := math.Inf(1), math.Inf(-1)
	for i := range ks {
		if math.IsNaN(ks[i]) || math.IsNaN(deltas[i]) || math.IsNaN(taus[i]) {
			continue
		}
		xys = append(xys, plotter.XY{X: ks[i], Y: deltas[i]})
		tauC = append(tauC, taus[i])
		lo = math.Min(lo, taus[i])
		hi = math.Max(hi, taus[i])
	}

	p := newPlot("ΔC vs K colored by TauL", "Kolmogorov Proxy (K)", "Forecast Advantage (ΔC)")
	p.Add(plotter.NewGrid())

	if len(xys) == 0 {
		return r.write(ctx, chart, r.cfg.DeltaCVsK, scatterSize, whole(p))
	}

	points, err := scaledColorMap(r.cfg.ScatterColormap, lo, hi)
	if err != nil {
		return "", err
	}
	points.SetAlpha(scatterAlpha)

	colors := make([]color.Color, len(tauC))
	for i, v := range tauC {
		c, err := points.At(v)
		if err != nil {
			return "", err
		}
		colors[i] = c
	}

	sc, err := plotter.NewScatter(xys)
	if err != nil {
		return "", err
	}
	sc.GlyphStyleFunc = func(i int) draw.GlyphStyle {
		return draw.GlyphStyle{
			Color:  colors[i],
			Radius: vg.Points(3),
			Shape:  draw.CircleGlyph{},
		}
	}
	p.Add(sc)

	bar, err := scaledColorMap(r.cfg.ScatterColormap, lo, hi)
	if err != nil {
		return "", err
	}
	return r.write(ctx, chart, r.cfg.DeltaCVsK, scatterSize, withColorBar(p, bar, dataset.ColTauL))
}
