// Package session holds the state of one practice session: the stroke
// history, tool settings, canvas sizing, the shuffled image deck and the
// auto-advance timer. Front-ends (websocket peer, desktop window) own one
// Session each and drive it from a single goroutine.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/google/uuid"

	"LocalSketch/internal/input"
	"LocalSketch/internal/library"
	"LocalSketch/internal/render"
	"LocalSketch/internal/state"
)

const (
	MinBrushSize = 1
	MaxBrushSize = 100
)

type Options struct {
	ID        string
	Brush     input.Brush
	Mode      Mode
	// Post schedules timer ticks on the owner's goroutine. Without it the
	// session has no timer and StartTimer fails.
	Post      func(func())
	NewTicker TickerFunc
	Rand      *rand.Rand
	IDSource  state.IDSource
	Logger    *slog.Logger
}

// ImageView describes the reference image on display.
type ImageView struct {
	Path    string `json:"path"`
	Index   int    `json:"index"`
	Total   int    `json:"total"`
	Counter string `json:"counter"`
}

// View is what a front-end shows in its toolbar and status line.
type View struct {
	CanUndo     bool        `json:"canUndo"`
	CanRedo     bool        `json:"canRedo"`
	Strokes     int         `json:"strokes"`
	Brush       input.Brush `json:"brush"`
	Mode        Mode        `json:"mode"`
	Width       int         `json:"width"`
	Height      int         `json:"height"`
	TimerActive bool        `json:"timerActive"`
}

type Session struct {
	ID string

	catalog library.Catalog
	history *state.History
	surface render.Surface
	capture *input.Capture
	timer   *Timer
	noTimer bool
	rng     *rand.Rand
	log     *slog.Logger

	brush     input.Brush
	mode      Mode
	container Size
	native    Size
	deck      *library.Deck

	OnImage  func(ImageView)
	OnTimer  func(remaining int, active bool)
	OnStatus func(text string)
	OnChange func(View)
}

func New(catalog library.Catalog, surface render.Surface, opts Options) *Session {
	if opts.ID == "" {
		opts.ID = uuid.NewString()
	}
	if opts.Brush == (input.Brush{}) {
		opts.Brush = input.DefaultBrush()
	}
	if opts.Mode == "" {
		opts.Mode = ModeReference
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	s := &Session{
		ID:      opts.ID,
		catalog: catalog,
		history: state.NewHistory(state.WithIDSource(opts.IDSource)),
		surface: surface,
		rng:     opts.Rand,
		log:     opts.Logger.With("session", opts.ID),
		brush:   opts.Brush,
		mode:    opts.Mode,
	}
	s.capture = input.NewCapture(s.history, surface, func() input.Brush { return s.brush })
	s.noTimer = opts.Post == nil
	if s.noTimer {
		opts.Post = func(fn func()) { fn() }
	}
	s.timer = NewTimer(opts.NewTicker, opts.Post)
	s.timer.OnFire = func() { s.Next() }
	s.timer.OnTick = func(remaining int) { s.notifyTimer(remaining, true) }

	if s.mode == ModeFreeDraw {
		s.resize()
	}
	return s
}

// Pointer feeds one normalized pointer event. rect is the canvas element's
// on-screen box.
func (s *Session) Pointer(ev input.PointerEvent, rect input.Rect) error {
	committed, err := s.capture.Handle(ev, rect)
	if committed {
		s.changed()
	}
	return err
}

// Key applies the undo/redo shortcuts. Other keys are ignored.
func (s *Session) Key(k input.Key) error {
	switch k.Command() {
	case input.CommandUndo:
		return s.Undo()
	case input.CommandRedo:
		return s.Redo()
	}
	return nil
}

func (s *Session) Undo() error {
	changed, err := s.history.Undo()
	if err != nil {
		return err
	}
	if changed {
		s.Redraw()
		s.changed()
	}
	return nil
}

func (s *Session) Redo() error {
	changed, err := s.history.Redo()
	if err != nil {
		return err
	}
	if changed {
		s.Redraw()
		s.changed()
	}
	return nil
}

// Clear empties the history and paints the background.
func (s *Session) Clear() error {
	if err := s.history.Clear(); err != nil {
		return err
	}
	render.Clear(s.surface)
	s.changed()
	return nil
}

// Redraw repaints the surface from the committed strokes.
func (s *Session) Redraw() {
	render.RenderAll(s.surface, s.history.Committed())
}

func (s *Session) SetTool(t state.Tool) error {
	if t != state.ToolPen && t != state.ToolEraser {
		return fmt.Errorf("%w: unknown tool %q", state.ErrValidation, t)
	}
	s.brush.Tool = t
	s.changed()
	return nil
}

// SetColor changes the pen colour and switches back to the pen.
func (s *Session) SetColor(color string) error {
	c, err := state.NormalizeColor(color)
	if err != nil {
		return err
	}
	s.brush.Color = c
	s.brush.Tool = state.ToolPen
	s.changed()
	return nil
}

func (s *Session) SetSize(size int) error {
	if size < MinBrushSize || size > MaxBrushSize {
		return fmt.Errorf("%w: pen size must be between %d and %d, got %d", state.ErrValidation, MinBrushSize, MaxBrushSize, size)
	}
	s.brush.Size = size
	s.changed()
	return nil
}

// SetMode switches between reference and free-draw sizing. A stroke still
// open is dropped and the drawing is re-rendered, at the new size when the
// buffer changes.
func (s *Session) SetMode(m Mode) error {
	if _, err := ParseMode(string(m)); err != nil {
		return err
	}
	s.history.DiscardStroke()
	s.mode = m
	if !s.resize() {
		s.Redraw()
	}
	s.changed()
	return nil
}

// SetContainer records the size of the area the canvas is laid out in.
func (s *Session) SetContainer(width, height int) {
	s.container = Size{Width: width, Height: height}
	s.resize()
}

// SetImageSize records the native size of the reference image on display.
func (s *Session) SetImageSize(width, height int) {
	s.native = Size{Width: width, Height: height}
	s.resize()
}

// resize reports whether the buffer was resized and repainted.
func (s *Session) resize() bool {
	size, ok := BufferSize(s.mode, s.container, s.native)
	if !ok {
		return false
	}
	changed, err := render.ResizeAndRender(s.surface, size.Width, size.Height, s.history.Committed())
	if err != nil {
		s.log.Warn("canvas resize failed", "width", size.Width, "height", size.Height, "error", err)
		return false
	}
	if changed {
		s.log.Debug("canvas resized", "width", size.Width, "height", size.Height, "mode", s.mode)
	}
	return changed
}

// LoadImages fetches the images under folders from the catalog and starts a
// new shuffled deck.
func (s *Session) LoadImages(ctx context.Context, folders []string) error {
	if len(folders) == 0 {
		return fmt.Errorf("%w: select at least one folder", state.ErrValidation)
	}
	images, err := s.catalog.Images(ctx, folders)
	if err != nil {
		s.status("Error loading images")
		s.log.Error("loading images failed", "folders", folders, "error", err)
		return err
	}
	return s.SetImages(images)
}

// SetImages starts a new shuffled deck from an already fetched image list.
func (s *Session) SetImages(images []string) error {
	if len(images) == 0 {
		s.status("No images found")
		return fmt.Errorf("%w: no images found in selected folders", state.ErrValidation)
	}
	s.deck = library.NewDeck(images, s.rng)
	s.status(fmt.Sprintf("Loaded %d images", len(images)))
	s.showImage()
	return nil
}

// Next advances to the following image and clears the drawing. It reports
// false when no images are loaded.
func (s *Session) Next() bool {
	if _, ok := s.deck.Next(); !ok {
		return false
	}
	s.showImage()
	s.history.Reset()
	render.Clear(s.surface)
	s.changed()
	return true
}

func (s *Session) showImage() {
	path, ok := s.deck.Current()
	if !ok {
		return
	}
	if s.OnImage != nil {
		s.OnImage(s.Image())
	}
	s.log.Debug("showing image", "path", path, "counter", s.deck.Counter())
}

// Image describes the current reference image; Path is empty before a deck
// is loaded.
func (s *Session) Image() ImageView {
	path, _ := s.deck.Current()
	return ImageView{
		Path:    path,
		Index:   s.deck.Index(),
		Total:   s.deck.Len(),
		Counter: s.deck.Counter(),
	}
}

// StartTimer begins auto-advancing every intervalSeconds, replacing any
// running countdown.
func (s *Session) StartTimer(intervalSeconds int) error {
	s.StopTimer()
	if intervalSeconds < 1 {
		return fmt.Errorf("%w: please enter a valid interval (minimum 1 second)", state.ErrValidation)
	}
	if s.deck.Len() == 0 {
		return fmt.Errorf("%w: please load images first", state.ErrValidation)
	}
	if s.noTimer {
		return fmt.Errorf("%w: session has no event loop for the timer", state.ErrInvalidState)
	}
	if err := s.timer.Start(intervalSeconds); err != nil {
		return err
	}
	s.status("Auto-switch active")
	s.notifyTimer(s.timer.Remaining(), true)
	s.changed()
	return nil
}

// StopTimer cancels auto-advance. It is safe to call when stopped.
func (s *Session) StopTimer() {
	if !s.timer.Active() {
		return
	}
	s.timer.Stop()
	s.status("Auto-switch stopped")
	s.notifyTimer(0, false)
	s.changed()
}

func (s *Session) TimerActive() bool {
	return s.timer.Active()
}

// Close stops background work. The session must not be used afterwards.
func (s *Session) Close() {
	s.timer.Stop()
}

func (s *Session) History() *state.History {
	return s.history
}

func (s *Session) Brush() input.Brush {
	return s.brush
}

func (s *Session) Mode() Mode {
	return s.mode
}

func (s *Session) View() View {
	w, h := s.surface.Size()
	return View{
		CanUndo:     s.history.CanUndo(),
		CanRedo:     s.history.CanRedo(),
		Strokes:     s.history.Len(),
		Brush:       s.brush,
		Mode:        s.mode,
		Width:       w,
		Height:      h,
		TimerActive: s.timer.Active(),
	}
}

func (s *Session) changed() {
	if s.OnChange != nil {
		s.OnChange(s.View())
	}
}

func (s *Session) status(text string) {
	s.log.Info(text)
	if s.OnStatus != nil {
		s.OnStatus(text)
	}
}

func (s *Session) notifyTimer(remaining int, active bool) {
	if s.OnTimer != nil {
		s.OnTimer(remaining, active)
	}
}
