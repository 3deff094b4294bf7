package charts

import (
	"fmt"
	"io"
	"math"

	"github.com/terraincognita07/kepler/internal/models"
	"github.com/terraincognita07/kepler/internal/services"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	routeColor       = "#5C4620"
	routeStrokeWidth = 4
	routePadding     = 16
)

// RenderRoute draws the walk strokes onto a width x height canvas, scaled
// uniformly to fit and centered. Strokes go through the same midpoint
// smoothing as the capture preview.
func RenderRoute(w io.Writer, strokes []models.Stroke, width, height int, format Format) error {
	provider, err := format.provider()
	if err != nil {
		return err
	}
	if width <= 2*routePadding || height <= 2*routePadding {
		return fmt.Errorf("%w: %dx%d", ErrInvalidCanvasSize, width, height)
	}

	drawable := drawableStrokes(strokes)
	if len(drawable) == 0 {
		return ErrNoRoute
	}

	renderer, err := provider(width, height)
	if err != nil {
		return fmt.Errorf("create renderer: %w", err)
	}

	renderer.SetFillColor(drawing.ColorWhite)
	renderer.MoveTo(0, 0)
	renderer.LineTo(width, 0)
	renderer.LineTo(width, height)
	renderer.LineTo(0, height)
	renderer.Close()
	renderer.Fill()

	renderer.SetStrokeColor(colorFromHex(routeColor))
	renderer.SetStrokeWidth(routeStrokeWidth)
	tracer := &rendererTracer{
		renderer:  renderer,
		transform: fitTransform(drawable, width, height, routePadding),
	}
	services.TraceStrokes(drawable, nil, tracer)
	renderer.Stroke()

	if err := renderer.Save(w); err != nil {
		return fmt.Errorf("save route: %w", err)
	}
	return nil
}

func drawableStrokes(strokes []models.Stroke) []models.Stroke {
	drawable := make([]models.Stroke, 0, len(strokes))
	for _, stroke := range strokes {
		if len(stroke) >= 2 {
			drawable = append(drawable, stroke)
		}
	}
	return drawable
}

// transform maps a capture-surface point to integer canvas pixels.
type transform func(x, y float64) (int, int)

// fitTransform scales the bounding box of strokes into the canvas minus
// padding, keeping the aspect ratio. A zero-extent axis is centered.
func fitTransform(strokes []models.Stroke, width, height, padding int) transform {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, stroke := range strokes {
		for _, point := range stroke {
			minX, maxX = math.Min(minX, point.X), math.Max(maxX, point.X)
			minY, maxY = math.Min(minY, point.Y), math.Max(maxY, point.Y)
		}
	}

	innerWidth := float64(width - 2*padding)
	innerHeight := float64(height - 2*padding)
	spanX, spanY := maxX-minX, maxY-minY

	scale := 1.0
	switch {
	case spanX > 0 && spanY > 0:
		scale = math.Min(innerWidth/spanX, innerHeight/spanY)
	case spanX > 0:
		scale = innerWidth / spanX
	case spanY > 0:
		scale = innerHeight / spanY
	}

	offsetX := float64(padding) + (innerWidth-spanX*scale)/2
	offsetY := float64(padding) + (innerHeight-spanY*scale)/2
	return func(x, y float64) (int, int) {
		return int(math.Round(offsetX + (x-minX)*scale)), int(math.Round(offsetY + (y-minY)*scale))
	}
}

// rendererTracer adapts a go-chart renderer to services.PathTracer.
type rendererTracer struct {
	renderer  chart.Renderer
	transform transform
}

func (tracer *rendererTracer) MoveTo(x, y float64) {
	tracer.renderer.MoveTo(tracer.transform(x, y))
}

func (tracer *rendererTracer) QuadCurveTo(cx, cy, x, y float64) {
	controlX, controlY := tracer.transform(cx, cy)
	endX, endY := tracer.transform(x, y)
	tracer.renderer.QuadCurveTo(controlX, controlY, endX, endY)
}

func (tracer *rendererTracer) LineTo(x, y float64) {
	tracer.renderer.LineTo(tracer.transform(x, y))
}
