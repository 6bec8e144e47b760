// Package input turns platform pointer events into canvas-space samples and
// feeds them to the stroke history.
package input

import (
	"fmt"

	"LocalSketch/internal/state"
)

type Phase int

const (
	PhaseDown Phase = iota + 1
	PhaseMove
	PhaseUp
	// PhaseCancel ends a stroke the same way as PhaseUp (pointer left the
	// canvas, touch cancelled).
	PhaseCancel
)

var phaseNames = map[Phase]string{
	PhaseDown:   "down",
	PhaseMove:   "move",
	PhaseUp:     "up",
	PhaseCancel: "cancel",
}

func (p Phase) String() string {
	if s, ok := phaseNames[p]; ok {
		return s
	}
	return fmt.Sprintf("Phase(%d)", int(p))
}

func ParsePhase(s string) (Phase, error) {
	for p, name := range phaseNames {
		if name == s {
			return p, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown pointer phase %q", state.ErrValidation, s)
}

// PointerEvent is the uniform event every input source is reduced to.
// Coordinates are viewport (client) coordinates.
type PointerEvent struct {
	Phase   Phase
	ClientX float64
	ClientY float64
}

// FromMouse normalizes a DOM-style mouse event name.
func FromMouse(kind string, clientX, clientY float64) (PointerEvent, error) {
	var p Phase
	switch kind {
	case "mousedown", "pointerdown":
		p = PhaseDown
	case "mousemove", "pointermove":
		p = PhaseMove
	case "mouseup", "pointerup":
		p = PhaseUp
	case "mouseout", "mouseleave", "pointerleave", "pointercancel":
		p = PhaseCancel
	default:
		return PointerEvent{}, fmt.Errorf("%w: unknown mouse event %q", state.ErrValidation, kind)
	}
	return PointerEvent{Phase: p, ClientX: clientX, ClientY: clientY}, nil
}

type Touch struct {
	ClientX float64 `json:"clientX"`
	ClientY float64 `json:"clientY"`
}

// FromTouches normalizes a touch event. Only the first active touch is used;
// touchend and touchcancel carry no coordinates.
func FromTouches(kind string, touches []Touch) (PointerEvent, error) {
	switch kind {
	case "touchend":
		return PointerEvent{Phase: PhaseUp}, nil
	case "touchcancel":
		return PointerEvent{Phase: PhaseCancel}, nil
	case "touchstart", "touchmove":
	default:
		return PointerEvent{}, fmt.Errorf("%w: unknown touch event %q", state.ErrValidation, kind)
	}
	if len(touches) == 0 {
		return PointerEvent{}, fmt.Errorf("%w: %s without touches", state.ErrValidation, kind)
	}
	p := PhaseDown
	if kind == "touchmove" {
		p = PhaseMove
	}
	return PointerEvent{Phase: p, ClientX: touches[0].ClientX, ClientY: touches[0].ClientY}, nil
}
