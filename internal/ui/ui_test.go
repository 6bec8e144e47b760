package ui

import (
	"context"
	"image/color"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LocalSketch/internal/input"
	"LocalSketch/internal/session"
	"LocalSketch/internal/state"
)

type stubSource struct{}

func (stubSource) Folders(context.Context) ([]string, error) { return []string{"figures"}, nil }
func (stubSource) Images(context.Context, []string) ([]string, error) {
	return []string{"figures/a.png"}, nil
}
func (stubSource) ReadImage(context.Context, string) ([]byte, error) { return nil, nil }

func TestDisplayRect(t *testing.T) {
	tests := []struct {
		name       string
		size       fyne.Size
		bufW, bufH int
		want       input.Rect
	}{
		{"same aspect fills", fyne.NewSize(600, 300), 1200, 600, input.Rect{Width: 600, Height: 300}},
		{"pillarboxed", fyne.NewSize(800, 400), 400, 400, input.Rect{Left: 200, Width: 400, Height: 400}},
		{"letterboxed", fyne.NewSize(400, 800), 400, 200, input.Rect{Top: 300, Width: 400, Height: 200}},
		{"empty buffer", fyne.NewSize(100, 50), 0, 0, input.Rect{Width: 100, Height: 50}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, displayRect(tt.size, tt.bufW, tt.bufH))
		})
	}
}

func TestHexColor(t *testing.T) {
	assert.Equal(t, "#000000", hexColor(color.Black))
	assert.Equal(t, "#ff0000", hexColor(color.NRGBA{R: 255, A: 255}))
	assert.Equal(t, "#ffff00", hexColor(palette[4]))
}

func TestBoard_EmitsPointerEvents(t *testing.T) {
	test.NewTempApp(t)
	b := NewBoard()
	b.Resize(fyne.NewSize(200, 100))

	var phases []input.Phase
	var rects []input.Rect
	b.OnPointer = func(ev input.PointerEvent, r input.Rect) {
		phases = append(phases, ev.Phase)
		rects = append(rects, r)
	}

	b.MouseDown(&desktop.MouseEvent{Button: desktop.MouseButtonSecondary})
	b.Dragged(&fyne.DragEvent{})
	assert.Empty(t, phases, "secondary button does not draw")

	b.MouseDown(&desktop.MouseEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(5, 5)}, Button: desktop.MouseButtonPrimary})
	b.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(9, 9)}})
	b.DragEnd()
	b.MouseUp(&desktop.MouseEvent{Button: desktop.MouseButtonPrimary})

	assert.Equal(t, []input.Phase{input.PhaseDown, input.PhaseMove, input.PhaseUp}, phases)
	// 1x1 buffer in a 200x100 widget is shown as a centred 100x100 square.
	assert.Equal(t, input.Rect{Left: 50, Width: 100, Height: 100}, rects[0])
}

func TestApp_DrawUndo(t *testing.T) {
	fa := test.NewTempApp(t)
	a := New(fa, Options{Source: stubSource{}, Brush: input.DefaultBrush(), Mode: session.ModeFreeDraw})
	defer a.Close()

	a.board.Resize(fyne.NewSize(600, 600))
	primary := func(x, y float32) *desktop.MouseEvent {
		return &desktop.MouseEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(x, y)}, Button: desktop.MouseButtonPrimary}
	}
	a.board.MouseDown(primary(10, 10))
	a.board.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: fyne.NewPos(50, 50)}})
	a.board.MouseUp(primary(50, 50))

	committed := a.sess.History().Committed()
	require.Len(t, committed, 1)
	assert.Equal(t, []state.Point{{X: 25, Y: 25}, {X: 125, Y: 125}}, committed[0].Points)
	assert.False(t, a.tools.undo.Disabled())
	assert.True(t, a.tools.redo.Disabled())

	test.Tap(a.tools.undo)
	assert.Zero(t, a.sess.History().Len())
	assert.False(t, a.tools.redo.Disabled())

	test.Tap(a.tools.eraser)
	assert.Equal(t, state.ToolEraser, a.sess.Brush().Tool)
}
