// Package render draws chart rows as line charts.
package render

import (
	"errors"
	"fmt"
	"io"
	"math"

	"energydash/internal/models"

	"github.com/wcharczuk/go-chart/v2"
)

// ErrNothingToPlot is returned when no series has enough points to draw.
var ErrNothingToPlot = errors.New("render: no data to plot")

type Format string

const (
	PNG Format = "png"
	SVG Format = "svg"
)

func (f Format) ContentType() string {
	if f == SVG {
		return "image/svg+xml"
	}
	return "image/png"
}

func (f Format) provider() (chart.RendererProvider, error) {
	switch f {
	case PNG:
		return chart.PNG, nil
	case SVG:
		return chart.SVG, nil
	}
	return nil, fmt.Errorf("render: unsupported format %q", f)
}

// LineChart writes one line per series label, in first-seen order.
func LineChart(w io.Writer, title string, rows []models.ChartRow, format Format) error {
	provider, err := format.provider()
	if err != nil {
		return err
	}

	lines := groupSeries(rows)
	if len(lines) == 0 {
		return ErrNothingToPlot
	}

	ch := chart.Chart{
		Title:      title,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 12, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:           "Year",
			ValueFormatter: yearFormatter,
		},
		YAxis:  chart.YAxis{Range: flatRange(rows)},
		Series: lines,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	if err := ch.Render(provider, w); err != nil {
		return fmt.Errorf("render %s: %w", format, err)
	}
	return nil
}

// groupSeries splits rows by label. A single point cannot span an axis
// range, so it is drawn as a flat segment one year wide.
func groupSeries(rows []models.ChartRow) []chart.Series {
	order := make([]string, 0)
	xs := make(map[string][]float64)
	ys := make(map[string][]float64)
	for _, r := range rows {
		if _, seen := xs[r.SeriesLabel]; !seen {
			order = append(order, r.SeriesLabel)
		}
		xs[r.SeriesLabel] = append(xs[r.SeriesLabel], float64(r.Year))
		ys[r.SeriesLabel] = append(ys[r.SeriesLabel], r.Value)
	}

	out := make([]chart.Series, 0, len(order))
	for i, label := range order {
		x, y := xs[label], ys[label]
		if len(x) == 1 {
			x = append(x, x[0]+1)
			y = append(y, y[0])
		}
		out = append(out, chart.ContinuousSeries{
			Name:    label,
			XValues: x,
			YValues: y,
			Style: chart.Style{
				StrokeColor: chart.GetDefaultColor(i),
				StrokeWidth: 2,
			},
		})
	}
	return out
}

// flatRange pads the y axis when every value is equal, since go-chart
// refuses to draw a zero-height range.
func flatRange(rows []models.ChartRow) chart.Range {
	if len(rows) == 0 {
		return nil
	}
	lo, hi := rows[0].Value, rows[0].Value
	for _, r := range rows[1:] {
		lo = math.Min(lo, r.Value)
		hi = math.Max(hi, r.Value)
	}
	if lo != hi {
		return nil
	}
	return &chart.ContinuousRange{Min: lo - 1, Max: hi + 1}
}

func yearFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return fmt.Sprintf("%.0f", f)
	}
	return ""
}
