package input

import (
	"errors"
	"fmt"

	"LocalSketch/internal/render"
	"LocalSketch/internal/state"
)

// Brush is the current tool setting applied to new strokes.
type Brush struct {
	Color string     `json:"color"`
	Size  int        `json:"size"`
	Tool  state.Tool `json:"tool"`
}

// DefaultBrush matches a fresh page: black 3px pen.
func DefaultBrush() Brush {
	return Brush{Color: "#000000", Size: 3, Tool: state.ToolPen}
}

// Capture routes normalized pointer events into a History and paints the
// incremental segments on a surface while a stroke is open.
type Capture struct {
	history *state.History
	surface render.Surface
	brush   func() Brush

	// style is the open stroke's colour, size and tool, without points.
	style state.Stroke
	last  state.Point
}

func NewCapture(h *state.History, s render.Surface, brush func() Brush) *Capture {
	return &Capture{history: h, surface: s, brush: brush}
}

// Handle applies ev. It reports whether a stroke was committed.
func (c *Capture) Handle(ev PointerEvent, rect Rect) (bool, error) {
	switch ev.Phase {
	case PhaseDown:
		return c.down(ev, rect)
	case PhaseMove:
		return false, c.move(ev, rect)
	case PhaseUp, PhaseCancel:
		return c.up()
	}
	return false, fmt.Errorf("%w: unknown pointer phase %v", state.ErrValidation, ev.Phase)
}

func (c *Capture) down(ev PointerEvent, rect Rect) (bool, error) {
	// A lost up event leaves a stroke open; finish it before starting over.
	committed, err := c.up()
	if err != nil {
		return false, err
	}

	b := c.brush()
	if _, err := c.history.BeginStroke(b.Color, b.Size, b.Tool); err != nil {
		return committed, err
	}
	p := c.toCanvas(ev, rect)
	if err := c.history.AppendPoint(p); err != nil {
		c.history.DiscardStroke()
		return committed, err
	}
	c.style, _ = c.history.Pending()
	c.last = p
	return committed, nil
}

func (c *Capture) move(ev PointerEvent, rect Rect) error {
	if !c.history.IsPending() {
		return nil
	}
	p := c.toCanvas(ev, rect)
	if err := c.history.AppendPoint(p); err != nil {
		// A bad sample is dropped; the stroke stays open.
		if errors.Is(err, state.ErrValidation) {
			return nil
		}
		return err
	}
	render.DrawSegment(c.surface, c.style, c.last, p)
	c.last = p
	return nil
}

func (c *Capture) up() (bool, error) {
	if !c.history.IsPending() {
		return false, nil
	}
	return c.history.CommitStroke()
}

// Drawing reports whether a stroke is open.
func (c *Capture) Drawing() bool {
	return c.history.IsPending()
}

func (c *Capture) toCanvas(ev PointerEvent, rect Rect) state.Point {
	w, h := c.surface.Size()
	return MapToCanvas(ev.ClientX, ev.ClientY, rect, w, h)
}
