package ui

import (
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"LocalSketch/internal/session"
	"LocalSketch/internal/state"
)

var palette = []color.Color{
	color.Black,
	color.NRGBA{R: 255, A: 255},         // Red
	color.NRGBA{G: 255, A: 255},         // Green
	color.NRGBA{B: 255, A: 255},         // Blue
	color.NRGBA{R: 255, G: 255, A: 255}, // Yellow
}

type colorSwatch struct {
	widget.BaseWidget
	Color    color.Color
	OnTapped func(color.Color)
}

func newColorSwatch(c color.Color, tapped func(color.Color)) *colorSwatch {
	s := &colorSwatch{Color: c, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(s.Color)
	rect.SetMinSize(fyne.NewSize(32, 32))

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Color)
	}
}

// hexColor formats c as #rrggbb, dropping alpha.
func hexColor(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}

// toolbar holds the drawing controls; update mirrors session state into them.
type toolbar struct {
	pen, eraser *widget.Button
	undo, redo  *widget.Button
	size        *widget.Slider
	sizeLabel   *widget.Label
	freeDraw    *widget.Check

	// set while update runs so widget callbacks don't echo back
	syncing bool
}

func (a *App) newToolbar() (*toolbar, fyne.CanvasObject) {
	t := &toolbar{}

	t.pen = widget.NewButtonWithIcon("Pen", theme.DocumentCreateIcon(), func() {
		a.apply(a.sess.SetTool(state.ToolPen))
	})
	t.eraser = widget.NewButtonWithIcon("Eraser", theme.ContentClearIcon(), func() {
		a.apply(a.sess.SetTool(state.ToolEraser))
	})

	swatches := container.NewHBox()
	for _, c := range palette {
		swatches.Add(newColorSwatch(c, func(c color.Color) {
			a.apply(a.sess.SetColor(hexColor(c)))
		}))
	}

	t.size = widget.NewSlider(session.MinBrushSize, session.MaxBrushSize)
	t.size.Step = 1
	t.sizeLabel = widget.NewLabel("")
	t.size.OnChanged = func(v float64) {
		t.sizeLabel.SetText(fmt.Sprintf("%dpx", int(v)))
		if !t.syncing {
			a.apply(a.sess.SetSize(int(v)))
		}
	}
	sizeBox := container.New(layout.NewGridWrapLayout(fyne.NewSize(150, 35)), t.size)

	t.undo = widget.NewButtonWithIcon("", theme.ContentUndoIcon(), func() { a.apply(a.sess.Undo()) })
	t.redo = widget.NewButtonWithIcon("", theme.ContentRedoIcon(), func() { a.apply(a.sess.Redo()) })
	clearBtn := widget.NewButtonWithIcon("Clear", theme.DeleteIcon(), a.confirmClear)

	t.freeDraw = widget.NewCheck("Free draw", func(on bool) {
		if t.syncing {
			return
		}
		mode := session.ModeReference
		if on {
			mode = session.ModeFreeDraw
		}
		a.apply(a.sess.SetMode(mode))
		a.showReference(mode == session.ModeReference)
	})

	save := widget.NewButtonWithIcon("Save", theme.DocumentSaveIcon(), a.showExport)

	bar := container.NewHBox(
		widget.NewLabel("Tool:"), t.pen, t.eraser,
		widget.NewSeparator(),
		widget.NewLabel("Color:"), swatches,
		widget.NewSeparator(),
		widget.NewLabel("Size:"), sizeBox, t.sizeLabel,
		widget.NewSeparator(),
		t.undo, t.redo, clearBtn,
		widget.NewSeparator(),
		t.freeDraw,
		layout.NewSpacer(),
		save,
	)
	return t, bar
}

func (t *toolbar) update(v session.View) {
	t.syncing = true
	defer func() { t.syncing = false }()

	t.pen.Importance = widget.MediumImportance
	t.eraser.Importance = widget.MediumImportance
	if v.Brush.Tool == state.ToolEraser {
		t.eraser.Importance = widget.HighImportance
	} else {
		t.pen.Importance = widget.HighImportance
	}
	t.pen.Refresh()
	t.eraser.Refresh()

	setEnabled(t.undo, v.CanUndo)
	setEnabled(t.redo, v.CanRedo)
	t.size.SetValue(float64(v.Brush.Size))
	t.freeDraw.SetChecked(v.Mode == session.ModeFreeDraw)
}

func setEnabled(w fyne.Disableable, on bool) {
	if on {
		w.Enable()
	} else {
		w.Disable()
	}
}
