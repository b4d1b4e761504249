package charts

import (
	"context"

	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"runcharts/internal/dataset"
)

// boxWidth is the drawn width of one box
const boxWidth = 40

// DeltaCVsForesight draws one deltaC box per foresight value. t is expected
// to be the forecast-useful subset.
func (r *Renderer) DeltaCVsForesight(ctx context.Context, t *dataset.Table) (string, error) {
	groups, err := dataset.GroupValues(t, dataset.ColForesight, dataset.ColDeltaC)
	if err != nil {
		return "", err
	}

	p := newPlot("ΔC vs Foresight in Forecast-Useful Zone", "Foresight Depth", "Forecast Advantage (ΔC)")
	p.Add(plotter.NewGrid())

	if len(groups) > 0 {
		names := make([]string, len(groups))
		for i, g := range groups {
			names[i] = g.Key
			if len(g.Values) == 0 {
				continue
			}
			box, err := plotter.NewBoxPlot(vg.Points(boxWidth), float64(i), plotter.Values(g.Values))
			if err != nil {
				return "", err
			}
			box.FillColor = boxFill
			p.Add(box)
		}
		p.NominalX(names...)
		p.X.Min, p.X.Max = -0.5, float64(len(names))-0.5
	}

	return r.write(ctx, "deltaC_vs_foresight_ridge", r.cfg.DeltaCVsForesight, boxSize, whole(p))
}
