// Package charts renders spend breakdowns as images.
package charts

import (
	"bytes"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"

	"budget/internal/core"
)

const (
	defaultWidth  = 800
	defaultHeight = 400
)

// Generator renders charts at a fixed size.
type Generator struct {
	width  int
	height int
}

// NewGenerator creates a generator. Non-positive sizes fall back to 800x400.
func NewGenerator(width, height int) *Generator {
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}
	return &Generator{width: width, height: height}
}

// SpendChartPNG draws one bar per category at its bucketed percentage, in the
// order given. It returns nil when there is nothing to draw.
func (g *Generator) SpendChartPNG(spends []core.CategorySpend) ([]byte, error) {
	if len(spends) == 0 {
		return nil, nil
	}

	bars := make([]chart.Value, 0, len(spends))
	for _, s := range spends {
		bars = append(bars, chart.Value{
			Label: fmt.Sprintf("%s (%s)", s.Name, core.FormatAmount(s.Spent)),
			Value: float64(s.Percent),
			Style: chart.Style{
				StrokeColor: chart.ColorBlue,
				FillColor:   chart.ColorBlue.WithAlpha(160),
				FontSize:    10,
				FontColor:   chart.ColorBlack,
			},
		})
	}

	graph := chart.BarChart{
		Title: "Percentage spent by category",
		TitleStyle: chart.Style{
			FontSize:  14,
			FontColor: chart.ColorBlack,
		},
		Width:    g.width,
		Height:   g.height,
		BarWidth: barWidth(g.width, len(spends)),
		Background: chart.Style{
			Padding: chart.Box{
				Top:    50,
				Left:   20,
				Right:  20,
				Bottom: 20,
			},
			FillColor: chart.ColorWhite,
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: 100},
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%.0f%%", v.(float64))
			},
			Style: chart.Style{
				FontSize:  10,
				FontColor: chart.ColorBlack,
			},
		},
		Bars: bars,
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, fmt.Errorf("failed to render spend chart: %w", err)
	}

	return buffer.Bytes(), nil
}

// barWidth spreads the bars over the canvas, between 20 and 80 pixels.
func barWidth(width, n int) int {
	w := width / (2 * n)
	if w < 20 {
		return 20
	}
	if w > 80 {
		return 80
	}
	return w
}
