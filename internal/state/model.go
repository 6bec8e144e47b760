package state

import (
	"fmt"
	"math"
	"strings"
)

// BackgroundColor is the canvas fill. Eraser strokes paint with it.
const BackgroundColor = "#ffffff"

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Finite reports whether both coordinates are real numbers.
func (p Point) Finite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

type Tool string

const (
	ToolPen    Tool = "pen"
	ToolEraser Tool = "eraser"
)

func ParseTool(s string) (Tool, error) {
	switch Tool(strings.ToLower(strings.TrimSpace(s))) {
	case ToolPen:
		return ToolPen, nil
	case ToolEraser:
		return ToolEraser, nil
	}
	return "", fmt.Errorf("%w: unknown tool %q", ErrValidation, s)
}

// Stroke is one pointer-down to pointer-up drawing action.
type Stroke struct {
	ID     string  `json:"id"`
	Points []Point `json:"points"`
	Color  string  `json:"color"` // "#rrggbb"
	Size   int     `json:"size"`  // line width in buffer pixels
	Tool   Tool    `json:"tool"`
}

// RenderColor is the colour the stroke is painted with.
func (s Stroke) RenderColor() string {
	if s.Tool == ToolEraser {
		return BackgroundColor
	}
	return s.Color
}

func (s Stroke) Clone() Stroke {
	c := s
	c.Points = append([]Point(nil), s.Points...)
	return c
}

// NormalizeColor accepts "#rgb" or "#rrggbb" and returns lower-case "#rrggbb".
func NormalizeColor(s string) (string, error) {
	c := strings.ToLower(strings.TrimSpace(s))
	if !strings.HasPrefix(c, "#") {
		return "", fmt.Errorf("%w: color %q must start with #", ErrValidation, s)
	}
	hex := c[1:]
	for _, r := range hex {
		if !(r >= '0' && r <= '9' || r >= 'a' && r <= 'f') {
			return "", fmt.Errorf("%w: color %q is not hexadecimal", ErrValidation, s)
		}
	}
	switch len(hex) {
	case 6:
		return c, nil
	case 3:
		return "#" + string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]}), nil
	}
	return "", fmt.Errorf("%w: color %q must be #rgb or #rrggbb", ErrValidation, s)
}
