package charts

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// paletteSize is the number of discrete colors a heatmap uses
const paletteSize = 256

// colorMaps maps the configured colormap names to perceptual gonum maps
var colorMaps = map[string]func() palette.ColorMap{
	"viridis": moreland.Kindlmann,
	"magma":   moreland.ExtendedBlackBody,
	"plasma":  moreland.BlackBody,
}

// Series colors
var (
	seriesColor = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff}
	bandColor   = color.NRGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0x40}
	boxFill     = color.NRGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xb0}
)

// ColorMap returns a new instance of the named colormap. Every call
// returns a fresh value, so callers may set its range and alpha freely.
func ColorMap(name string) (palette.ColorMap, error) {
	ctor, ok := colorMaps[name]
	if !ok {
		return nil, fmt.Errorf("unknown colormap %q", name)
	}
	return ctor(), nil
}

// scaledColorMap returns the named colormap spanning [lo, hi]. A degenerate
// range is widened so every value still maps to a color.
func scaledColorMap(name string, lo, hi float64) (palette.ColorMap, error) {
	cm, err := ColorMap(name)
	if err != nil {
		return nil, err
	}
	lo, hi = widen(lo, hi)
	cm.SetMin(lo)
	cm.SetMax(hi)
	return cm, nil
}

func widen(lo, hi float64) (float64, float64) {
	if lo == hi {
		return lo - 0.5, hi + 0.5
	}
	return lo, hi
}

// luminance approximates perceived brightness in [0, 1]
func luminance(c color.Color) float64 {
	r, g, b, _ := c.RGBA()
	return (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)) / 0xffff
}

// textColorOn picks black or white text for legibility on bg
func textColorOn(bg color.Color) color.Color {
	if luminance(bg) < 0.5 {
		return color.White
	}
	return color.Black
}

// colorBarWidth is the horizontal space reserved for a color bar
const colorBarWidth = 1.1 * vg.Inch

// withColorBar draws main on the left of the canvas and a vertical color
// bar for cm, labelled label, in a strip on the right.
func withColorBar(main *plot.Plot, cm palette.ColorMap, label string) layer {
	bar := plot.New()
	bar.HideX()
	bar.Y.Padding = 0
	bar.Y.Label.Text = label
	bar.Add(&plotter.ColorBar{ColorMap: cm, Vertical: true})

	return func(dc draw.Canvas) {
		w := dc.Max.X - dc.Min.X
		main.Draw(draw.Crop(dc, 0, -colorBarWidth, 0, 0))

		// Keep the bar level with the data area of the main plot.
		top := -(main.Title.TextStyle.Height(main.Title.Text) + main.Title.Padding + vg.Points(6))
		bottom := main.X.Label.TextStyle.Height(main.X.Label.Text) + vg.Points(24)
		bar.Draw(draw.Crop(dc, w-colorBarWidth+vg.Points(8), -vg.Points(4), bottom, top))
	}
}
