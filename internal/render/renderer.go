package render

import "LocalSketch/internal/state"

// MaxEdge bounds either side of a canvas buffer in pixels.
const MaxEdge = 8192

// RenderAll clears s to the background and replays strokes in commit order.
// It depends only on strokes; two calls with the same input paint the same
// pixels.
func RenderAll(s Surface, strokes []state.Stroke) {
	s.Fill(state.BackgroundColor)
	for _, st := range strokes {
		renderStroke(s, st)
	}
}

func renderStroke(s Surface, st state.Stroke) {
	// A lone point is a moveTo with nothing to stroke.
	if len(st.Points) < 2 {
		return
	}
	s.StrokePolyline(st.Points, st.RenderColor(), float64(st.Size))
}

// DrawSegment paints the incremental piece of a stroke being drawn, from the
// previous sample to the newest one.
func DrawSegment(s Surface, st state.Stroke, from, to state.Point) {
	s.StrokePolyline([]state.Point{from, to}, st.RenderColor(), float64(st.Size))
}

// Clear fills s with the background colour.
func Clear(s Surface) {
	s.Fill(state.BackgroundColor)
}

// ResizeAndRender changes the buffer dimensions when they differ and repaints
// from strokes. It reports whether the size changed.
func ResizeAndRender(s Surface, width, height int, strokes []state.Stroke) (bool, error) {
	w, h := s.Size()
	if w == width && h == height {
		return false, nil
	}
	if err := s.Resize(width, height); err != nil {
		return false, err
	}
	RenderAll(s, strokes)
	return true, nil
}
