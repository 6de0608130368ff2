package render

import (
	"io"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"linkmap/internal/core/aggregate"
	"linkmap/internal/core/resolver"
	perr "linkmap/internal/platform/errors"
)

// DefaultTop is the number of bars drawn when ChartOptions.Top is zero
const DefaultTop = 20

// ChartOptions controls the PNG bar chart
type ChartOptions struct {
	Title string
	Top   int  // bars drawn, largest first
	Known bool // leave out the Unknown bucket
}

const (
	barWidth   = 36
	barSpacing = 14
	minWidth   = 480
	chartH     = 420
)

var barColor = drawing.ColorFromHex("0a66c2")

// PNG renders counts as a bar chart
func PNG(w io.Writer, counts []aggregate.Count, opts ChartOptions) error {
	if opts.Known {
		counts = aggregate.Without(counts, resolver.Unknown)
	}
	top := opts.Top
	if top <= 0 {
		top = DefaultTop
	}
	counts = aggregate.Top(counts, top)
	if len(counts) == 0 {
		return perr.Validationf("nothing to chart")
	}

	maxV := 0
	bars := make([]chart.Value, 0, len(counts))
	for _, c := range counts {
		if c.Connections > maxV {
			maxV = c.Connections
		}
		bars = append(bars, chart.Value{
			Label: c.Country,
			Value: float64(c.Connections),
			Style: chart.Style{FillColor: barColor, StrokeColor: barColor},
		})
	}

	width := len(bars)*(barWidth+barSpacing) + 160
	if width < minWidth {
		width = minWidth
	}
	title := opts.Title
	if title == "" {
		title = "Connections by country"
	}

	bc := chart.BarChart{
		Title:      title,
		Width:      width,
		Height:     chartH,
		BarWidth:   barWidth,
		BarSpacing: barSpacing,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: float64(maxV) * 1.1},
		},
		XAxis: chart.Style{FontSize: 8},
		Bars:  bars,
	}
	return bc.Render(chart.PNG, w)
}
