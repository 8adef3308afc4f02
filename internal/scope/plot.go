package scope

import (
	"image/color"
	"math"
	"net/http"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// handlePlotPNG renders the current frame as a PNG using gonum/plot: blue
// measurement points, a green beam line, and the outer range ring. Useful
// for headless checks and embedding in reports.
func (ws *WebServer) handlePlotPNG(w http.ResponseWriter, r *http.Request) {
	f := ws.latest()
	if f == nil {
		ws.writeJSONError(w, http.StatusNotFound, "no frame rendered yet")
		return
	}

	maxRange := ws.state.MaxRange()
	pad := maxRange * 1.05

	p := plot.New()
	p.HideAxes()
	p.X.Min, p.X.Max = -pad, pad
	p.Y.Min, p.Y.Max = -pad, pad

	pts := make(plotter.XYs, len(f.Points))
	for i, pt := range f.Points {
		pts[i] = plotter.XY{X: pt.X, Y: pt.Y}
	}
	scatter, err := plotter.NewScatter(pts)
	if err != nil {
		ws.writeJSONError(w, http.StatusInternalServerError, "failed to build scatter")
		return
	}
	scatter.GlyphStyle.Color = color.RGBA{B: 255, A: 255}
	scatter.GlyphStyle.Radius = vg.Points(2)
	p.Add(scatter)

	beam, err := plotter.NewLine(plotter.XYs{
		{X: 0, Y: 0},
		{X: f.Beam.End.X, Y: f.Beam.End.Y},
	})
	if err != nil {
		ws.writeJSONError(w, http.StatusInternalServerError, "failed to build beam line")
		return
	}
	beam.Color = color.RGBA{G: 255, A: 255}
	beam.Width = vg.Points(2)
	p.Add(beam)

	for _, ring := range ws.scene.Rings {
		circle, err := plotter.NewLine(ringPoints(ring))
		if err != nil {
			continue
		}
		circle.Color = color.RGBA{G: 128, A: 255}
		circle.Width = vg.Points(0.5)
		p.Add(circle)
	}

	wt, err := p.WriterTo(6*vg.Inch, 6*vg.Inch, "png")
	if err != nil {
		ws.writeJSONError(w, http.StatusInternalServerError, "failed to render plot")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	if _, err := wt.WriteTo(w); err != nil {
		// client went away mid-write; nothing to do
		return
	}
}

// ringPoints approximates a circle of the given radius as a closed polyline.
func ringPoints(radius float64) plotter.XYs {
	const segments = 200
	pts := make(plotter.XYs, segments+1)
	for i := 0; i <= segments; i++ {
		theta := 2 * math.Pi * float64(i) / segments
		pts[i] = plotter.XY{X: radius * math.Cos(theta), Y: radius * math.Sin(theta)}
	}
	return pts
}
