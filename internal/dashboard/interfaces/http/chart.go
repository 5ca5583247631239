package http

import (
	"bytes"
	"net/http"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"

	dashboard "condmon-cloud/internal/dashboard/domain"
)

// writeTrendPNG renders the chart series as a PNG line chart. The core only
// emits plain series; all charting stays in this interface layer.
func writeTrendPNG(w http.ResponseWriter, view dashboard.View) error {
	series := make([]chart.Series, 0, len(view.Series))
	for _, s := range view.Series {
		times := make([]time.Time, 0, len(s.Points))
		values := make([]float64, 0, len(s.Points))
		for _, p := range s.Points {
			times = append(times, p.Timestamp)
			values = append(values, p.Value)
		}
		// go-chart needs at least two X values per series.
		if len(times) == 1 {
			times = append(times, times[0].Add(time.Second))
			values = append(values, values[0])
		}
		series = append(series, chart.TimeSeries{Name: s.Label, XValues: times, YValues: values})
	}

	graph := chart.Chart{
		Title:      "Trend of Selected Point Measurements",
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 24}},
		Width:      1024,
		Height:     480,
		Series:     series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "image/png")
	_, err := w.Write(buf.Bytes())
	return err
}
