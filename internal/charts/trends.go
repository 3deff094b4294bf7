package charts

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/terraincognita07/kepler/internal/services"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	walkBarColor      = "#8CA99B"
	maxAxisTicks      = 5
	histogramBarWidth = 48
	histogramBarGap   = 24
)

// RenderWalkHistogram draws one bar per day of the weekly walk histogram.
// The y axis always starts at zero and shows whole walks only.
func RenderWalkHistogram(w io.Writer, histogram []services.WalkDayCount, format Format, options Options) error {
	provider, err := format.provider()
	if err != nil {
		return err
	}
	if len(histogram) == 0 {
		return fmt.Errorf("render walk histogram: empty histogram")
	}

	maxCount := 0
	bars := make([]chart.Value, 0, len(histogram))
	for _, day := range histogram {
		maxCount = max(maxCount, day.Count)
		bars = append(bars, chart.Value{
			Label: day.Label,
			Value: float64(day.Count),
			Style: chart.Style{
				FillColor:   colorFromHex(walkBarColor),
				StrokeColor: colorFromHex(walkBarColor),
			},
		})
	}

	width, height := options.size()
	upper := float64(max(1, maxCount))
	graph := chart.BarChart{
		Title:      options.Title,
		Width:      width,
		Height:     height,
		BarWidth:   histogramBarWidth,
		BarSpacing: histogramBarGap,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: upper},
			Ticks: countTicks(maxCount),
		},
		Bars: bars,
	}
	if err := graph.Render(provider, w); err != nil {
		return fmt.Errorf("render walk histogram: %w", err)
	}
	return nil
}

// RenderConsistency draws the bathroom consistency distribution as a pie in
// the level colors.
func RenderConsistency(w io.Writer, distribution []services.ConsistencyBucket, format Format, options Options) error {
	provider, err := format.provider()
	if err != nil {
		return err
	}

	values := make([]chart.Value, 0, len(distribution))
	for _, bucket := range distribution {
		if bucket.Count <= 0 {
			continue
		}
		values = append(values, chart.Value{
			Label: fmt.Sprintf("%s (%d)", bucket.Name, bucket.Count),
			Value: float64(bucket.Count),
			Style: chart.Style{
				FillColor:   colorFromHex(bucket.Color),
				StrokeColor: drawing.ColorWhite,
				StrokeWidth: 2,
			},
		})
	}
	if len(values) == 0 {
		return ErrNoConsistencyData
	}

	width, height := options.size()
	size := min(width, height)
	graph := chart.PieChart{
		Title:  options.Title,
		Width:  size,
		Height: size,
		Values: values,
	}
	if err := graph.Render(provider, w); err != nil {
		return fmt.Errorf("render consistency: %w", err)
	}
	return nil
}

// countTicks labels 0..maxCount with at most maxAxisTicks+1 whole-number
// steps.
func countTicks(maxCount int) []chart.Tick {
	upper := max(1, maxCount)
	step := int(math.Ceil(float64(upper) / maxAxisTicks))
	ticks := make([]chart.Tick, 0, maxAxisTicks+1)
	for value := 0; value < upper; value += step {
		ticks = append(ticks, chart.Tick{Value: float64(value), Label: strconv.Itoa(value)})
	}
	return append(ticks, chart.Tick{Value: float64(upper), Label: strconv.Itoa(upper)})
}
