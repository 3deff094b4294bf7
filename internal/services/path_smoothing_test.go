package services

import (
	"testing"

	"github.com/terraincognita07/kepler/internal/models"
)

func TestSmoothSegments(t *testing.T) {
	tests := []struct {
		name   string
		stroke models.Stroke
		want   []PathSegment
	}{
		{
			name:   "empty stroke",
			stroke: nil,
			want:   []PathSegment{},
		},
		{
			name:   "single point draws nothing",
			stroke: models.Stroke{{X: 1, Y: 1}},
			want:   []PathSegment{},
		},
		{
			name:   "two points is a straight line",
			stroke: models.Stroke{{X: 0, Y: 0}, {X: 10, Y: 0}},
			want: []PathSegment{
				{Kind: SegmentMove, To: models.Point{X: 0, Y: 0}},
				{Kind: SegmentLine, To: models.Point{X: 10, Y: 0}},
			},
		},
		{
			name:   "interior points curve to midpoints",
			stroke: models.Stroke{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 20, Y: 10}},
			want: []PathSegment{
				{Kind: SegmentMove, To: models.Point{X: 0, Y: 0}},
				{Kind: SegmentQuad, Control: models.Point{X: 10, Y: 0}, To: models.Point{X: 10, Y: 5}},
				{Kind: SegmentQuad, Control: models.Point{X: 10, Y: 10}, To: models.Point{X: 15, Y: 10}},
				{Kind: SegmentLine, To: models.Point{X: 20, Y: 10}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SmoothSegments(tt.stroke)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d segments, got %d: %#v", len(tt.want), len(got), got)
			}
			for index := range tt.want {
				if got[index] != tt.want[index] {
					t.Fatalf("segment %d: expected %#v, got %#v", index, tt.want[index], got[index])
				}
			}
		})
	}
}

func TestSmoothingDoesNotAlterStoredPoints(t *testing.T) {
	stroke := models.Stroke{{X: 0, Y: 0}, {X: 3, Y: 7}, {X: 9, Y: 2}}
	original := models.CloneStroke(stroke)

	SmoothSegments(stroke)
	_ = SVGPathData(stroke)

	for index := range original {
		if stroke[index] != original[index] {
			t.Fatalf("point %d changed from %#v to %#v", index, original[index], stroke[index])
		}
	}
}

func TestSVGPathData(t *testing.T) {
	got := SVGPathData(
		models.Stroke{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}},
		models.Stroke{{X: 1.5, Y: 2}},
		models.Stroke{{X: 5, Y: 5}, {X: 6, Y: 7}},
	)

	want := "M 0 0 Q 10 0 10 5 L 10 10 M 5 5 L 6 7"
	if got != want {
		t.Fatalf("SVGPathData() = %q, want %q", got, want)
	}
}

func TestTraceStrokesDrawsInProgressAfterCommitted(t *testing.T) {
	recorder := &segmentRecorder{}
	committed := []models.Stroke{{{X: 0, Y: 0}, {X: 1, Y: 1}}}
	inProgress := models.Stroke{{X: 7, Y: 7}, {X: 8, Y: 8}}

	TraceStrokes(committed, inProgress, recorder)

	if len(recorder.segments) != 4 {
		t.Fatalf("expected 4 segments, got %#v", recorder.segments)
	}
	if recorder.segments[2].Kind != SegmentMove || recorder.segments[2].To != inProgress[0] {
		t.Fatalf("expected in-progress stroke to start third segment, got %#v", recorder.segments[2])
	}
}
