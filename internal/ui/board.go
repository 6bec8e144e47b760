package ui

import (
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"LocalSketch/internal/input"
)

// Board shows the drawing buffer scaled to fit and turns mouse input into
// pointer events in widget coordinates.
type Board struct {
	widget.BaseWidget

	image      *canvas.Image
	background *canvas.Rectangle
	bufW, bufH int
	drawing    bool

	// OnPointer receives every event with the displayed buffer's box.
	OnPointer func(input.PointerEvent, input.Rect)
	// OnResize reports the space available to the buffer.
	OnResize func(width, height int)
}

var _ fyne.Widget = (*Board)(nil)
var _ fyne.Draggable = (*Board)(nil)
var _ desktop.Mouseable = (*Board)(nil)

func NewBoard() *Board {
	b := &Board{
		image:      canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 1, 1))),
		background: canvas.NewRectangle(color.NRGBA{R: 58, G: 58, B: 58, A: 255}),
		bufW:       1,
		bufH:       1,
	}
	b.image.FillMode = canvas.ImageFillContain
	b.image.SetMinSize(fyne.NewSize(300, 300))
	b.ExtendBaseWidget(b)
	return b
}

// SetImage replaces the displayed buffer. Call on the UI goroutine.
func (b *Board) SetImage(img image.Image) {
	bounds := img.Bounds()
	b.bufW, b.bufH = bounds.Dx(), bounds.Dy()
	b.image.Image = img
	b.image.Refresh()
}

func (b *Board) Resize(size fyne.Size) {
	b.BaseWidget.Resize(size)
	if b.OnResize != nil {
		b.OnResize(int(size.Width), int(size.Height))
	}
}

func (b *Board) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	b.drawing = true
	b.emit(input.PhaseDown, e.Position)
}

func (b *Board) Dragged(e *fyne.DragEvent) {
	if b.drawing {
		b.emit(input.PhaseMove, e.Position)
	}
}

func (b *Board) DragEnd() {
	if b.drawing {
		b.drawing = false
		b.emit(input.PhaseUp, fyne.Position{})
	}
}

func (b *Board) MouseUp(e *desktop.MouseEvent) {
	if e.Button == desktop.MouseButtonPrimary && b.drawing {
		b.drawing = false
		b.emit(input.PhaseUp, e.Position)
	}
}

func (b *Board) emit(phase input.Phase, pos fyne.Position) {
	if b.OnPointer == nil {
		return
	}
	ev := input.PointerEvent{Phase: phase, ClientX: float64(pos.X), ClientY: float64(pos.Y)}
	b.OnPointer(ev, displayRect(b.Size(), b.bufW, b.bufH))
}

func (b *Board) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(container.NewStack(b.background, b.image))
}

// displayRect is where a bufW×bufH buffer lands when scaled to fit size,
// centred, keeping its aspect ratio.
func displayRect(size fyne.Size, bufW, bufH int) input.Rect {
	w, h := float64(size.Width), float64(size.Height)
	if bufW <= 0 || bufH <= 0 || w <= 0 || h <= 0 {
		return input.Rect{Width: w, Height: h}
	}
	scale := min(w/float64(bufW), h/float64(bufH))
	dw, dh := float64(bufW)*scale, float64(bufH)*scale
	return input.Rect{Left: (w - dw) / 2, Top: (h - dh) / 2, Width: dw, Height: dh}
}
