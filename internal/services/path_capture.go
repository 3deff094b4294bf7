package services

import (
	"sync"

	"github.com/terraincognita07/kepler/internal/models"
)

type CaptureState int

const (
	CaptureIdle CaptureState = iota
	CaptureTracking
)

func (state CaptureState) String() string {
	if state == CaptureTracking {
		return "tracking"
	}
	return "idle"
}

const minStrokePoints = 2

// StrokeSource holds the committed strokes a capture session draws onto.
// Strokes reports false once the strokes are gone, for example when the
// entry was deleted; gestures are then discarded.
type StrokeSource interface {
	Strokes() ([]models.Stroke, bool)
	SetStrokes(paths []models.Stroke)
}

// CaptureSession turns pointer gestures on one walk entry into strokes.
// Capture mode starts off. Committed strokes are read from the source on
// every change, so updates made elsewhere are never overwritten.
type CaptureSession struct {
	mu      sync.Mutex
	enabled bool
	state   CaptureState
	current models.Stroke
	source  StrokeSource
}

// NewCaptureSession keeps the strokes in the session itself; onChange
// receives the committed paths after every change to them.
func NewCaptureSession(initial []models.Stroke, onChange func([]models.Stroke)) *CaptureSession {
	return NewBoundCaptureSession(&bufferedStrokes{
		paths:    models.CloneStrokes(initial),
		onChange: onChange,
	})
}

func NewBoundCaptureSession(source StrokeSource) *CaptureSession {
	return &CaptureSession{
		state:  CaptureIdle,
		source: source,
	}
}

type bufferedStrokes struct {
	mu       sync.Mutex
	paths    []models.Stroke
	onChange func([]models.Stroke)
}

func (buffer *bufferedStrokes) Strokes() ([]models.Stroke, bool) {
	buffer.mu.Lock()
	defer buffer.mu.Unlock()
	return models.CloneStrokes(buffer.paths), true
}

func (buffer *bufferedStrokes) SetStrokes(paths []models.Stroke) {
	buffer.mu.Lock()
	buffer.paths = models.CloneStrokes(paths)
	buffer.mu.Unlock()

	if buffer.onChange != nil {
		buffer.onChange(models.CloneStrokes(paths))
	}
}

func (session *CaptureSession) SetCaptureMode(enabled bool) {
	session.mu.Lock()
	defer session.mu.Unlock()
	session.enabled = enabled
}

func (session *CaptureSession) CaptureMode() bool {
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.enabled
}

func (session *CaptureSession) State() CaptureState {
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.state
}

func (session *CaptureSession) PointerDown(point models.Point) {
	session.mu.Lock()
	defer session.mu.Unlock()

	if !session.enabled {
		return
	}
	session.state = CaptureTracking
	session.current = models.Stroke{point}
}

func (session *CaptureSession) PointerMove(point models.Point) {
	session.mu.Lock()
	defer session.mu.Unlock()

	if session.state != CaptureTracking || !session.enabled {
		return
	}
	session.current = append(session.current, point)
}

func (session *CaptureSession) PointerUp() {
	session.finishGesture()
}

func (session *CaptureSession) PointerLeave() {
	session.finishGesture()
}

func (session *CaptureSession) finishGesture() {
	session.mu.Lock()
	if session.state != CaptureTracking {
		session.mu.Unlock()
		return
	}
	stroke := session.current
	session.current = nil
	session.state = CaptureIdle
	session.mu.Unlock()

	if len(stroke) < minStrokePoints {
		return
	}
	paths, ok := session.source.Strokes()
	if !ok {
		return
	}
	session.source.SetStrokes(append(paths, stroke))
}

func (session *CaptureSession) Undo() {
	paths, ok := session.source.Strokes()
	if !ok || len(paths) == 0 {
		return
	}
	session.source.SetStrokes(paths[:len(paths)-1 : len(paths)-1])
}

func (session *CaptureSession) Clear() {
	session.mu.Lock()
	session.current = nil
	session.state = CaptureIdle
	session.mu.Unlock()

	paths, ok := session.source.Strokes()
	if !ok || len(paths) == 0 {
		return
	}
	session.source.SetStrokes([]models.Stroke{})
}

// Paths returns the committed strokes, or none once the source is gone.
func (session *CaptureSession) Paths() []models.Stroke {
	paths, ok := session.source.Strokes()
	if !ok {
		return []models.Stroke{}
	}
	return paths
}

// InProgress returns the stroke being drawn, or nil when idle.
func (session *CaptureSession) InProgress() models.Stroke {
	session.mu.Lock()
	defer session.mu.Unlock()
	return models.CloneStroke(session.current)
}
