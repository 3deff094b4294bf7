package services

import (
	"strconv"
	"strings"

	"github.com/terraincognita07/kepler/internal/models"
)

// PathTracer receives the drawing commands of a smoothed stroke.
type PathTracer interface {
	MoveTo(x, y float64)
	QuadCurveTo(cx, cy, x, y float64)
	LineTo(x, y float64)
}

// TraceStroke draws a stroke as one continuous line. Each interior point is
// the control point of a quadratic curve ending at the midpoint to its
// successor; the last segment is straight. Strokes shorter than two points
// draw nothing.
func TraceStroke(stroke models.Stroke, tracer PathTracer) {
	if len(stroke) < minStrokePoints {
		return
	}

	last := len(stroke) - 1
	tracer.MoveTo(stroke[0].X, stroke[0].Y)
	for index := 1; index < last; index++ {
		control := stroke[index]
		end := midpoint(stroke[index], stroke[index+1])
		tracer.QuadCurveTo(control.X, control.Y, end.X, end.Y)
	}
	tracer.LineTo(stroke[last].X, stroke[last].Y)
}

// TraceStrokes draws the committed strokes followed by the in-progress one.
func TraceStrokes(committed []models.Stroke, inProgress models.Stroke, tracer PathTracer) {
	for _, stroke := range committed {
		TraceStroke(stroke, tracer)
	}
	TraceStroke(inProgress, tracer)
}

func midpoint(a models.Point, b models.Point) models.Point {
	return models.Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

type SegmentKind string

const (
	SegmentMove SegmentKind = "M"
	SegmentQuad SegmentKind = "Q"
	SegmentLine SegmentKind = "L"
)

// PathSegment is one recorded drawing command. Control is set only for
// quadratic segments.
type PathSegment struct {
	Kind    SegmentKind
	Control models.Point
	To      models.Point
}

type segmentRecorder struct {
	segments []PathSegment
}

func (recorder *segmentRecorder) MoveTo(x, y float64) {
	recorder.segments = append(recorder.segments, PathSegment{Kind: SegmentMove, To: models.Point{X: x, Y: y}})
}

func (recorder *segmentRecorder) QuadCurveTo(cx, cy, x, y float64) {
	recorder.segments = append(recorder.segments, PathSegment{
		Kind:    SegmentQuad,
		Control: models.Point{X: cx, Y: cy},
		To:      models.Point{X: x, Y: y},
	})
}

func (recorder *segmentRecorder) LineTo(x, y float64) {
	recorder.segments = append(recorder.segments, PathSegment{Kind: SegmentLine, To: models.Point{X: x, Y: y}})
}

func SmoothSegments(stroke models.Stroke) []PathSegment {
	recorder := &segmentRecorder{segments: make([]PathSegment, 0, len(stroke)+1)}
	TraceStroke(stroke, recorder)
	return recorder.segments
}

// SVGPathBuilder writes SVG path data ("M x y Q cx cy x y L x y").
type SVGPathBuilder struct {
	builder strings.Builder
}

func (svg *SVGPathBuilder) MoveTo(x, y float64) {
	svg.command("M", x, y)
}

func (svg *SVGPathBuilder) QuadCurveTo(cx, cy, x, y float64) {
	svg.command("Q", cx, cy, x, y)
}

func (svg *SVGPathBuilder) LineTo(x, y float64) {
	svg.command("L", x, y)
}

func (svg *SVGPathBuilder) String() string {
	return svg.builder.String()
}

func (svg *SVGPathBuilder) command(name string, values ...float64) {
	if svg.builder.Len() > 0 {
		svg.builder.WriteByte(' ')
	}
	svg.builder.WriteString(name)
	for _, value := range values {
		svg.builder.WriteByte(' ')
		svg.builder.WriteString(strconv.FormatFloat(value, 'f', -1, 64))
	}
}

func SVGPathData(strokes ...models.Stroke) string {
	builder := &SVGPathBuilder{}
	for _, stroke := range strokes {
		TraceStroke(stroke, builder)
	}
	return builder.String()
}
