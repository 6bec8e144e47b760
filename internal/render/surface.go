// Package render replays stroke history onto drawing surfaces.
//
// The history is the source of truth; a surface's pixels are a disposable
// projection of it. Any change of surface dimensions, and every undo or redo,
// is followed by RenderAll.
package render

import "LocalSketch/internal/state"

// Surface is anything strokes can be painted on: a CPU pixel buffer, a
// recorded draw list sent to a browser canvas, a desktop widget.
type Surface interface {
	// Size returns the buffer dimensions in pixels.
	Size() (width, height int)
	// Resize changes the buffer dimensions. Prior pixels are lost.
	Resize(width, height int) error
	// Fill paints the whole buffer with color ("#rrggbb").
	Fill(color string)
	// StrokePolyline draws connected segments through points using round
	// caps and joins. Callers pass at least two points.
	StrokePolyline(points []state.Point, color string, width float64)
}
