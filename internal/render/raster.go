package render

import (
	"image"
	"io"
	"log/slog"

	"github.com/gogpu/gg"

	"LocalSketch/internal/state"
)

// Raster is a CPU pixel buffer surface.
type Raster struct {
	dc *gg.Context
}

var _ Surface = (*Raster)(nil)

// NewRaster returns a background-filled raster of the given size.
func NewRaster(width, height int) *Raster {
	r := &Raster{dc: gg.NewContext(max(width, 1), max(height, 1))}
	Clear(r)
	return r
}

func (r *Raster) Size() (int, int) {
	return r.dc.Width(), r.dc.Height()
}

func (r *Raster) Resize(width, height int) error {
	return r.dc.Resize(width, height)
}

func (r *Raster) Fill(color string) {
	r.dc.ClearWithColor(gg.Hex(color))
}

func (r *Raster) StrokePolyline(points []state.Point, color string, width float64) {
	if len(points) < 2 {
		return
	}
	r.dc.SetHexColor(color)
	r.dc.SetLineWidth(width)
	r.dc.SetLineCap(gg.LineCapRound)
	r.dc.SetLineJoin(gg.LineJoinRound)

	r.dc.MoveTo(points[0].X, points[0].Y)
	for _, p := range points[1:] {
		r.dc.LineTo(p.X, p.Y)
	}
	if err := r.dc.Stroke(); err != nil {
		slog.Warn("raster stroke failed", "points", len(points), "error", err)
	}
}

// Image returns a copy of the current pixels.
func (r *Raster) Image() *image.RGBA {
	return r.dc.Image().(*image.RGBA)
}

func (r *Raster) EncodePNG(w io.Writer) error {
	return r.dc.EncodePNG(w)
}

func (r *Raster) Close() error {
	return r.dc.Close()
}
