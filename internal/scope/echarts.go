package scope

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// handleChartPolar renders a quick XY scatter (HTML) of the current distance
// buffer using go-echarts. This is a debugging-only endpoint to eyeball the
// sweep without the canvas page.
func (ws *WebServer) handleChartPolar(w http.ResponseWriter, r *http.Request) {
	f := ws.latest()
	if f == nil {
		ws.writeJSONError(w, http.StatusNotFound, "no frame rendered yet")
		return
	}

	snap := ws.state.Snapshot()
	maxRange := ws.state.MaxRange()

	data := make([]opts.ScatterData, 0, len(f.Points))
	for i, p := range f.Points {
		// third dimension drives the visual map colour
		data = append(data, opts.ScatterData{Value: []interface{}{p.X, p.Y, snap.Distances[i]}})
	}

	// Add a small padding so points at the edges are visible
	pad := maxRange * 1.05

	// Force a square plot by using equal width/height and symmetric axis ranges
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: "Sweep (Polar->XY)", Theme: "dark", Width: "900px", Height: "900px"}),
		charts.WithTitleOpts(opts.Title{Title: "Sweep Distance Buffer", Subtitle: fmt.Sprintf("steps=%d step_deg=%d seq=%d", len(f.Points), ws.state.StepDegrees(), f.Seq)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Min: -pad, Max: pad, Name: "X (cm)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Min: -pad, Max: pad, Name: "Y (cm)", NameLocation: "middle", NameGap: 30}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        float32(maxRange),
			Dimension:  "2",
			InRange:    &opts.VisualMapInRange{Color: []string{"#440154", "#31688e", "#35b779", "#fde725"}},
		}),
	)

	scatter.AddSeries("readings", data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 5}))

	var buf bytes.Buffer
	if err := scatter.Render(&buf); err != nil {
		ws.writeJSONError(w, http.StatusInternalServerError, fmt.Sprintf("failed to render chart: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}
