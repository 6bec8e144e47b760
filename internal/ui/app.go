// Package ui is the desktop front-end: a fyne window with the reference
// image, the drawing board and the practice controls.
package ui

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"LocalSketch/internal/input"
	"LocalSketch/internal/library"
	"LocalSketch/internal/render"
	"LocalSketch/internal/session"
	"LocalSketch/internal/state"
)

const appID = "io.localsketch.desktop"

// Source is where the desktop front-end gets folders and images: a
// library.Client for a remote server or a local library.Library.
type Source interface {
	library.Catalog
	ReadImage(ctx context.Context, rel string) ([]byte, error)
}

type Options struct {
	Source   Source
	Brush    input.Brush
	Mode     session.Mode
	Interval int
	// Location is shown in the title bar (server URL or library root).
	Location string
	Logger   *slog.Logger
}

type App struct {
	win    fyne.Window
	source Source
	log    *slog.Logger
	ctx    context.Context
	cancel context.CancelFunc

	sess      *session.Session
	raster    *render.Raster
	board     *Board
	reference *canvas.Image
	refPane   fyne.CanvasObject
	tools     *toolbar

	folders  *widget.CheckGroup
	interval *widget.Entry
	status   *widget.Label
	counter  *widget.Label
	timer    *widget.Label
}

// Run opens the window and blocks until it is closed.
func Run(opts Options) error {
	if opts.Source == nil {
		return errors.New("no image source")
	}
	a := New(app.NewWithID(appID), opts)
	defer a.Close()
	a.win.ShowAndRun()
	return nil
}

// New builds the window on fa without showing it.
func New(fa fyne.App, opts Options) *App {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Interval < 1 {
		opts.Interval = 60
	}
	ctx, cancel := context.WithCancel(context.Background())

	title := "LocalSketch"
	if opts.Location != "" {
		title += " - " + opts.Location
	}
	a := &App{
		win:     fa.NewWindow(title),
		source:  opts.Source,
		log:     opts.Logger,
		ctx:     ctx,
		cancel:  cancel,
		raster:  render.NewRaster(1, 1),
		board:   NewBoard(),
		status:  widget.NewLabel("Ready"),
		counter: widget.NewLabel("0 / 0"),
		timer:   widget.NewLabel(session.FormatRemaining(0, false)),
	}
	a.win.Resize(fyne.NewSize(1280, 800))

	a.sess = session.New(opts.Source, a.raster, session.Options{
		Brush:  opts.Brush,
		Mode:   opts.Mode,
		Post:   a.post,
		Logger: opts.Logger,
	})
	a.sess.OnStatus = a.status.SetText
	a.sess.OnTimer = func(remaining int, active bool) {
		a.timer.SetText(session.FormatRemaining(remaining, active))
	}
	a.sess.OnImage = func(v session.ImageView) {
		a.counter.SetText(v.Counter)
		go a.fetchReference(v.Path)
	}
	a.sess.OnChange = func(v session.View) {
		if a.tools != nil {
			a.tools.update(v)
		}
	}

	a.board.OnPointer = func(ev input.PointerEvent, rect input.Rect) {
		a.apply(a.sess.Pointer(ev, rect))
	}
	a.board.OnResize = func(w, h int) {
		a.sess.SetContainer(w, h)
		a.present()
	}

	a.win.SetContent(a.layout(opts))
	a.tools.update(a.sess.View())
	a.showReference(a.sess.Mode() == session.ModeReference)
	installShortcuts(a.win.Canvas(), a)
	a.present()

	go a.fetchFolders()
	return a
}

func (a *App) layout(opts Options) fyne.CanvasObject {
	tools, bar := a.newToolbar()
	a.tools = tools

	a.reference = &canvas.Image{FillMode: canvas.ImageFillContain}
	noImage := widget.NewLabel("Select folders and load images to begin")
	noImage.Alignment = fyne.TextAlignCenter
	a.refPane = container.NewStack(noImage, a.reference)

	a.folders = widget.NewCheckGroup(nil, nil)
	a.interval = widget.NewEntry()
	a.interval.SetText(strconv.Itoa(opts.Interval))

	sidebar := container.NewVBox(
		widget.NewLabelWithStyle("Folders", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewGridWrap(fyne.NewSize(220, 240), container.NewVScroll(a.folders)),
		widget.NewButtonWithIcon("Load Images", theme.FolderOpenIcon(), a.loadImages),
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Timer", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewForm(widget.NewFormItem("Interval (s)", a.interval)),
		container.NewHBox(
			widget.NewButtonWithIcon("", theme.MediaPlayIcon(), a.startTimer),
			widget.NewButtonWithIcon("", theme.MediaStopIcon(), a.sess.StopTimer),
			widget.NewButtonWithIcon("", theme.MediaSkipNextIcon(), a.next),
		),
		a.timer,
		a.counter,
	)

	split := container.NewHSplit(a.refPane, a.board)
	split.SetOffset(0.5)
	return container.NewBorder(bar, a.status, sidebar, nil, split)
}

// post runs fn on the UI goroutine; the session uses it for timer ticks.
func (a *App) post(fn func()) {
	fyne.Do(func() {
		fn()
		a.present()
	})
}

// present copies the raster into the board.
func (a *App) present() {
	a.board.SetImage(a.raster.Image())
}

// apply repaints after a session call and reports its error.
func (a *App) apply(err error) {
	a.present()
	if err != nil {
		a.showError(err)
	}
}

func (a *App) showError(err error) {
	switch {
	case errors.Is(err, state.ErrNetworkFailure):
		a.status.SetText(err.Error())
	case errors.Is(err, state.ErrInvalidState):
		a.log.Debug("ignored while drawing", "error", err)
	default:
		dialog.ShowError(err, a.win)
	}
}

func (a *App) showReference(on bool) {
	if on {
		a.refPane.Show()
	} else {
		a.refPane.Hide()
	}
}

func (a *App) confirmClear() {
	dialog.ShowConfirm("Clear", "Clear the canvas?", func(ok bool) {
		if ok {
			a.apply(a.sess.Clear())
		}
	}, a.win)
}

func (a *App) startTimer() {
	n, err := strconv.Atoi(a.interval.Text)
	if err != nil {
		n = 0
	}
	a.apply(a.sess.StartTimer(n))
}

func (a *App) next() {
	if !a.sess.Next() {
		a.showError(fmt.Errorf("%w: please load images first", state.ErrValidation))
	}
	a.present()
}

func (a *App) fetchFolders() {
	folders, err := a.source.Folders(a.ctx)
	fyne.Do(func() {
		if err != nil {
			a.log.Error("loading folders failed", "error", err)
			a.status.SetText("Error loading folders")
			return
		}
		if len(folders) == 0 {
			a.status.SetText("No folders found")
		}
		a.folders.Options = folders
		a.folders.Refresh()
	})
}

// loadImages fetches off the UI goroutine and hands the list to the session.
func (a *App) loadImages() {
	selected := append([]string(nil), a.folders.Selected...)
	if len(selected) == 0 {
		a.showError(fmt.Errorf("%w: please select at least one folder", state.ErrValidation))
		return
	}
	a.status.SetText("Loading images...")
	go func() {
		images, err := a.source.Images(a.ctx, selected)
		fyne.Do(func() {
			if err != nil {
				a.log.Error("loading images failed", "folders", selected, "error", err)
				a.status.SetText("Error loading images")
				return
			}
			a.apply(a.sess.SetImages(images))
		})
	}()
}

func (a *App) fetchReference(rel string) {
	data, err := a.source.ReadImage(a.ctx, rel)
	if err == nil {
		img, decErr := library.DecodeImage(bytes.NewReader(data))
		if decErr == nil {
			fyne.Do(func() {
				// The deck may have moved on while this was loading.
				if a.sess.Image().Path != rel {
					return
				}
				a.reference.Image = img
				a.reference.Refresh()
				b := img.Bounds()
				a.sess.SetImageSize(b.Dx(), b.Dy())
				a.present()
			})
			return
		}
		err = decErr
	}
	a.log.Warn("loading reference image failed", "path", rel, "error", err)
	fyne.Do(func() { a.status.SetText("Error loading image " + rel) })
}

// Close stops the timer and any fetches in flight.
func (a *App) Close() {
	a.cancel()
	a.sess.Close()
	_ = a.raster.Close()
}
