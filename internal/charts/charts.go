package charts

import (
	"context"
	"fmt"
	"io"
	"os"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/cleared-dev/spendwise/internal/id"
	"github.com/cleared-dev/spendwise/internal/logger"
	"github.com/cleared-dev/spendwise/internal/model"
	"github.com/cleared-dev/spendwise/internal/tiers"
)

// Chart dimensions in pixels.
const (
	pieSize       = 512
	scatterWidth  = 800
	scatterHeight = 600
)

var tierColors = map[model.Tier]drawing.Color{
	model.TierLow:    drawing.ColorFromHex("4caf50"),
	model.TierMedium: drawing.ColorFromHex("ff9800"),
	model.TierHigh:   drawing.ColorFromHex("f44336"),
}

// Refs holds the references to one run's rendered charts.
type Refs struct {
	PieChart    string
	ScatterPlot string
}

// Render draws the tier pie chart and the frequency scatter plot for txns
// into s and returns their references. It does not reset s.
func Render(ctx context.Context, s Store, txns []model.Transaction) (Refs, error) {
	log := logger.For(ctx, logger.ComponentCharts)
	if len(txns) == 0 {
		return Refs{}, fmt.Errorf("rendering charts: no transactions")
	}

	pieName := s.NewName(id.KindPieChart)
	if err := writePNG(s.Path(pieName), pieChart(txns)); err != nil {
		return Refs{}, fmt.Errorf("rendering pie chart: %w", err)
	}
	scatterName := s.NewName(id.KindScatterPlot)
	if err := writePNG(s.Path(scatterName), scatterPlot(txns)); err != nil {
		return Refs{}, fmt.Errorf("rendering scatter plot: %w", err)
	}

	log.Debug().Str("pie", pieName).Str("scatter", scatterName).Msg("charts written")
	return Refs{PieChart: s.Ref(pieName), ScatterPlot: s.Ref(scatterName)}, nil
}

type renderable interface {
	Render(rp chart.RendererProvider, w io.Writer) error
}

func writePNG(path string, c renderable) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := c.Render(chart.PNG, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func pieChart(txns []model.Transaction) *chart.PieChart {
	counts := tiers.Counts(txns)
	var values []chart.Value
	for _, tier := range model.Tiers {
		n := counts[tier]
		if n == 0 {
			continue
		}
		pct := 100 * float64(n) / float64(len(txns))
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s %.1f%%", tier, pct),
			Value: float64(n),
			Style: chart.Style{FillColor: tierColors[tier], StrokeColor: drawing.ColorWhite},
		})
	}
	return &chart.PieChart{
		Title:  "Spending Categories",
		Width:  pieSize,
		Height: pieSize,
		Values: values,
	}
}

// Frequency counts how often each transaction name occurs in txns.
func Frequency(txns []model.Transaction) map[string]int {
	freq := make(map[string]int)
	for _, t := range txns {
		freq[t.TransactionName]++
	}
	return freq
}

func scatterPlot(txns []model.Transaction) *chart.Chart {
	freq := Frequency(txns)
	xs := make(map[model.Tier][]float64)
	ys := make(map[model.Tier][]float64)
	maxX, maxY := 1.0, 1.0
	for _, t := range txns {
		x := float64(freq[t.TransactionName])
		y := t.DebitedAmount.InexactFloat64()
		xs[t.Category] = append(xs[t.Category], x)
		ys[t.Category] = append(ys[t.Category], y)
		maxX = max(maxX, x)
		maxY = max(maxY, y)
	}

	graph := &chart.Chart{
		Title:  "Frequency vs. Price",
		Width:  scatterWidth,
		Height: scatterHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name:  "Frequency",
			Range: &chart.ContinuousRange{Min: 0, Max: maxX + 1},
		},
		YAxis: chart.YAxis{
			Name:  "Price",
			Range: &chart.ContinuousRange{Min: 0, Max: maxY * 1.1},
		},
	}
	for _, tier := range model.Tiers {
		if len(xs[tier]) == 0 {
			continue
		}
		graph.Series = append(graph.Series, chart.ContinuousSeries{
			Name: string(tier),
			Style: chart.Style{
				StrokeColor: tierColors[tier],
				StrokeWidth: chart.Disabled,
				DotWidth:    5,
				DotColor:    tierColors[tier],
			},
			XValues: xs[tier],
			YValues: ys[tier],
		})
	}
	graph.Elements = []chart.Renderable{chart.Legend(graph)}
	return graph
}
