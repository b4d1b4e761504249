package charts

import (
	"context"

	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"runcharts/internal/dataset"
)

// DeltaCVsNoise plots mean deltaC against noise with a one standard
// deviation band
func (r *Renderer) DeltaCVsNoise(ctx context.Context, t *dataset.Table) (string, error) {
	return r.meanLine(ctx, "deltaC_vs_noise", r.cfg.DeltaCVsNoise, t,
		dataset.ColNoise, dataset.ColDeltaC,
		"Forecast Advantage vs Noise", "Noise", "Forecast Advantage (ΔC)")
}

// TauLVsNoise plots mean TauL against noise with a one standard deviation
// band
func (r *Renderer) TauLVsNoise(ctx context.Context, t *dataset.Table) (string, error) {
	return r.meanLine(ctx, "tauL_vs_noise", r.cfg.TauLVsNoise, t,
		dataset.ColNoise, dataset.ColTauL,
		"Lyapunov Horizon vs Noise", "Noise", "TauL")
}

func (r *Renderer) meanLine(ctx context.Context, chart, file string, t *dataset.Table, x, y, title, xLabel, yLabel string) (string, error) {
	stats, err := dataset.GroupStats(t, x, y)
	if err != nil {
		return "", err
	}

	p := newPlot(title, xLabel, yLabel)
	p.Add(plotter.NewGrid())

	if len(stats) > 0 {
		band, err := sdBand(stats)
		if err != nil {
			return "", err
		}
		p.Add(band)

		means := make(plotter.XYs, len(stats))
		for i, s := range stats {
			means[i] = plotter.XY{X: s.X, Y: s.Mean}
		}
		line, err := plotter.NewLine(means)
		if err != nil {
			return "", err
		}
		line.Color = seriesColor
		line.Width = vg.Points(1.5)
		p.Add(line)
	}

	return r.write(ctx, chart, file, lineSize, whole(p))
}

// sdBand is the closed region between mean-sd and mean+sd
func sdBand(stats []dataset.GroupStat) (*plotter.Polygon, error) {
	ring := make(plotter.XYs, 0, 2*len(stats))
	for _, s := range stats {
		ring = append(ring, plotter.XY{X: s.X, Y: s.Mean + s.StdDev})
	}
	for i := len(stats) - 1; i >= 0; i-- {
		s := stats[i]
		ring = append(ring, plotter.XY{X: s.X, Y: s.Mean - s.StdDev})
	}

	band, err := plotter.NewPolygon(ring)
	if err != nil {
		return nil, err
	}
	band.Color = bandColor
	band.LineStyle.Width = 0
	return band, nil
}
