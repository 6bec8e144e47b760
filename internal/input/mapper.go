package input

import "LocalSketch/internal/state"

// Rect is the canvas element's on-screen bounding box in client coordinates.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// MapToCanvas converts client coordinates to canvas buffer coordinates,
// correcting for the buffer being displayed at a different size. Points
// outside the canvas are passed through unclamped.
func MapToCanvas(clientX, clientY float64, rect Rect, bufferWidth, bufferHeight int) state.Point {
	return state.Point{
		X: (clientX - rect.Left) * scale(bufferWidth, rect.Width),
		Y: (clientY - rect.Top) * scale(bufferHeight, rect.Height),
	}
}

// scale is 1 for a collapsed element so points stay finite.
func scale(buffer int, displayed float64) float64 {
	if displayed <= 0 || buffer <= 0 {
		return 1
	}
	return float64(buffer) / displayed
}
