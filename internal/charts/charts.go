package charts

import (
	"errors"
	"fmt"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var (
	ErrUnknownFormat     = errors.New("unknown chart format")
	ErrNoConsistencyData = errors.New("no consistency data")
	ErrNoRoute           = errors.New("walk has no drawable route")
	ErrInvalidCanvasSize = errors.New("invalid canvas size")
)

type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

const (
	defaultWidth  = 640
	defaultHeight = 360
)

func ParseFormat(raw string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(raw))) {
	case FormatPNG, "":
		return FormatPNG, nil
	case FormatSVG:
		return FormatSVG, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, raw)
	}
}

// Extension is the file suffix for the format, without the dot.
func (format Format) Extension() string {
	return string(format)
}

func (format Format) provider() (chart.RendererProvider, error) {
	switch format {
	case FormatPNG:
		return chart.PNG, nil
	case FormatSVG:
		return chart.SVG, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, string(format))
	}
}

// Options controls chart chrome. Zero values fall back to a 640x360 canvas
// without a title.
type Options struct {
	Title  string
	Width  int
	Height int
}

func (options Options) size() (int, int) {
	width, height := options.Width, options.Height
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}
	return width, height
}

// colorFromHex accepts "#RRGGBB" as well as the bare hex digits.
func colorFromHex(hex string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(strings.TrimSpace(hex), "#"))
}
