package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"LocalSketch/internal/render"
	"LocalSketch/internal/state"
)

func TestMapToCanvas(t *testing.T) {
	rect := Rect{Left: 10, Top: 20, Width: 200, Height: 100}

	p := MapToCanvas(110, 70, rect, 400, 200)

	assert.Equal(t, state.Point{X: 200, Y: 100}, p)
}

func TestMapToCanvas_NoClamping(t *testing.T) {
	rect := Rect{Left: 10, Top: 20, Width: 200, Height: 100}

	p := MapToCanvas(0, 500, rect, 200, 100)

	assert.Equal(t, state.Point{X: -10, Y: 480}, p)
}

func TestMapToCanvas_CollapsedRect(t *testing.T) {
	p := MapToCanvas(15, 25, Rect{Left: 5, Top: 5}, 300, 300)

	assert.Equal(t, state.Point{X: 10, Y: 20}, p)
	assert.True(t, p.Finite())
}

func TestFromMouse(t *testing.T) {
	ev, err := FromMouse("mousedown", 3, 4)
	require.NoError(t, err)
	assert.Equal(t, PointerEvent{Phase: PhaseDown, ClientX: 3, ClientY: 4}, ev)

	ev, err = FromMouse("mouseout", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, PhaseCancel, ev.Phase)

	_, err = FromMouse("dblclick", 0, 0)
	assert.ErrorIs(t, err, state.ErrValidation)
}

func TestFromTouches_UsesFirstTouchOnly(t *testing.T) {
	ev, err := FromTouches("touchmove", []Touch{{ClientX: 1, ClientY: 2}, {ClientX: 50, ClientY: 60}})
	require.NoError(t, err)
	assert.Equal(t, PointerEvent{Phase: PhaseMove, ClientX: 1, ClientY: 2}, ev)

	ev, err = FromTouches("touchend", nil)
	require.NoError(t, err)
	assert.Equal(t, PhaseUp, ev.Phase)

	_, err = FromTouches("touchstart", nil)
	assert.ErrorIs(t, err, state.ErrValidation)
}

func TestParsePhase(t *testing.T) {
	for _, p := range []Phase{PhaseDown, PhaseMove, PhaseUp, PhaseCancel} {
		got, err := ParsePhase(p.String())
		require.NoError(t, err)
		assert.Equal(t, p, got)
	}
	_, err := ParsePhase("hover")
	assert.Error(t, err)
}

func TestKeyCommand(t *testing.T) {
	tests := []struct {
		key  Key
		want Command
	}{
		{Key{Key: "z", Ctrl: true}, CommandUndo},
		{Key{Key: "z", Meta: true}, CommandUndo},
		{Key{Key: "Z", Ctrl: true, Shift: true}, CommandRedo},
		{Key{Key: "y", Meta: true}, CommandRedo},
		{Key{Key: "z"}, CommandNone},
		{Key{Key: "x", Ctrl: true}, CommandNone},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.key.Command(), "%+v", tt.key)
	}
}

type captureFixture struct {
	history *state.History
	surface *render.DrawList
	brush   Brush
	capture *Capture
	rect    Rect
}

func newCaptureFixture() *captureFixture {
	f := &captureFixture{
		history: state.NewHistory(state.WithIDSource(state.SequentialIDs("s"))),
		surface: render.NewDrawList(400, 200),
		brush:   DefaultBrush(),
		rect:    Rect{Left: 10, Top: 20, Width: 200, Height: 100},
	}
	f.capture = NewCapture(f.history, f.surface, func() Brush { return f.brush })
	return f
}

func (f *captureFixture) handle(t *testing.T, p Phase, x, y float64) bool {
	t.Helper()
	committed, err := f.capture.Handle(PointerEvent{Phase: p, ClientX: x, ClientY: y}, f.rect)
	require.NoError(t, err)
	return committed
}

func TestCapture_StrokeLifecycle(t *testing.T) {
	f := newCaptureFixture()

	f.handle(t, PhaseDown, 10, 20)
	assert.True(t, f.capture.Drawing())
	f.handle(t, PhaseMove, 110, 70)
	committed := f.handle(t, PhaseUp, 0, 0)

	require.True(t, committed)
	strokes := f.history.Committed()
	require.Len(t, strokes, 1)
	assert.Equal(t, []state.Point{{X: 0, Y: 0}, {X: 200, Y: 100}}, strokes[0].Points)
	assert.Equal(t, "#000000", strokes[0].Color)

	ops := f.surface.Flush()
	require.Len(t, ops, 1)
	assert.Equal(t, render.OpStroke, ops[0].Kind)
	assert.Equal(t, []state.Point{{X: 0, Y: 0}, {X: 200, Y: 100}}, ops[0].Points)
}

func TestCapture_MoveWhileIdleIsIgnored(t *testing.T) {
	f := newCaptureFixture()

	f.handle(t, PhaseMove, 50, 50)
	committed := f.handle(t, PhaseUp, 50, 50)

	assert.False(t, committed)
	assert.Zero(t, f.history.Len())
	assert.Zero(t, f.surface.Len())
}

func TestCapture_EraserSegmentsUseBackground(t *testing.T) {
	f := newCaptureFixture()
	f.brush = Brush{Color: "#ff0000", Size: 12, Tool: state.ToolEraser}

	f.handle(t, PhaseDown, 10, 20)
	f.handle(t, PhaseMove, 20, 30)
	f.handle(t, PhaseCancel, 0, 0)

	ops := f.surface.Flush()
	require.Len(t, ops, 1)
	assert.Equal(t, state.BackgroundColor, ops[0].Color)
	assert.Equal(t, 12.0, ops[0].LineWidth)
	assert.Equal(t, state.ToolEraser, f.history.Committed()[0].Tool)
}

func TestCapture_DownWhilePendingCommitsPrevious(t *testing.T) {
	f := newCaptureFixture()

	f.handle(t, PhaseDown, 10, 20)
	f.handle(t, PhaseMove, 20, 20)
	committed := f.handle(t, PhaseDown, 60, 60)
	f.handle(t, PhaseUp, 0, 0)

	assert.True(t, committed)
	assert.Equal(t, 2, f.history.Len())
}

func TestCapture_SinglePointStrokeIsCommitted(t *testing.T) {
	f := newCaptureFixture()

	f.handle(t, PhaseDown, 30, 40)
	committed := f.handle(t, PhaseUp, 0, 0)

	assert.True(t, committed)
	assert.Len(t, f.history.Committed()[0].Points, 1)
	assert.Zero(t, f.surface.Len())
}

func TestCapture_InvalidBrushLeavesIdle(t *testing.T) {
	f := newCaptureFixture()
	f.brush = Brush{Color: "#000000", Size: 0, Tool: state.ToolPen}

	_, err := f.capture.Handle(PointerEvent{Phase: PhaseDown, ClientX: 10, ClientY: 20}, f.rect)

	assert.ErrorIs(t, err, state.ErrValidation)
	assert.False(t, f.capture.Drawing())
}
