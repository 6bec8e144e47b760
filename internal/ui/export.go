package ui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"

	"LocalSketch/internal/export"
)

// showExport asks for a .png or .pdf destination and writes a snapshot of
// the committed strokes at the current buffer size.
func (a *App) showExport() {
	d := dialog.NewFileSave(func(w fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, a.win)
			return
		}
		if w == nil {
			return
		}
		if err := a.writeExport(w); err != nil {
			a.log.Error("export failed", "uri", w.URI().String(), "error", err)
			dialog.ShowError(err, a.win)
			return
		}
		a.status.SetText("Saved " + w.URI().Name())
	}, a.win)
	d.SetFileName("sketch.png")
	d.SetFilter(storage.NewExtensionFileFilter([]string{".png", ".pdf"}))
	d.Show()
}

func (a *App) writeExport(w fyne.URIWriteCloser) error {
	defer w.Close()
	f, err := export.FormatFromPath(w.URI().Name())
	if err != nil {
		return err
	}
	if err := export.Write(w, f, a.drawing()); err != nil {
		return fmt.Errorf("saving %s: %w", w.URI().Name(), err)
	}
	return nil
}

func (a *App) drawing() export.Drawing {
	v := a.sess.View()
	return export.Drawing{
		Width:   v.Width,
		Height:  v.Height,
		Strokes: a.sess.History().Committed(),
		Title:   a.sess.Image().Path,
	}
}
