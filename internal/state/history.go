package state

import "fmt"

// phase is the history's drawing state: idle or pending.
type phase interface {
	isPhase()
}

type idle struct{}

type pending struct {
	stroke *Stroke
}

func (idle) isPhase()    {}
func (pending) isPhase() {}

// StrokeHandle identifies the stroke opened by BeginStroke.
type StrokeHandle struct {
	ID string
}

// History is the ordered log of committed strokes plus the redo buffer and
// the stroke currently being drawn. It is not safe for concurrent use; a
// session drives it from a single goroutine.
type History struct {
	committed []Stroke
	redo      []Stroke
	phase     phase
	newID     IDSource
}

type Option func(*History)

// WithIDSource replaces the uuid stroke identifiers.
func WithIDSource(src IDSource) Option {
	return func(h *History) {
		if src != nil {
			h.newID = src
		}
	}
}

func NewHistory(opts ...Option) *History {
	h := &History{
		phase: idle{},
		newID: NewStrokeID,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// BeginStroke opens a pending stroke with no points.
func (h *History) BeginStroke(color string, size int, tool Tool) (StrokeHandle, error) {
	if _, ok := h.phase.(pending); ok {
		return StrokeHandle{}, fmt.Errorf("begin stroke: %w: a stroke is already pending", ErrInvalidState)
	}
	if size < 1 {
		return StrokeHandle{}, fmt.Errorf("begin stroke: %w: size %d must be positive", ErrValidation, size)
	}
	if tool != ToolPen && tool != ToolEraser {
		return StrokeHandle{}, fmt.Errorf("begin stroke: %w: unknown tool %q", ErrValidation, tool)
	}
	c, err := NormalizeColor(color)
	if err != nil {
		return StrokeHandle{}, fmt.Errorf("begin stroke: %w", err)
	}

	s := &Stroke{
		ID:     h.newID(),
		Points: make([]Point, 0, 64),
		Color:  c,
		Size:   size,
		Tool:   tool,
	}
	h.phase = pending{stroke: s}
	return StrokeHandle{ID: s.ID}, nil
}

// AppendPoint adds p to the pending stroke.
func (h *History) AppendPoint(p Point) error {
	ps, ok := h.phase.(pending)
	if !ok {
		return fmt.Errorf("append point: %w: no pending stroke", ErrInvalidState)
	}
	if !p.Finite() {
		return fmt.Errorf("append point: %w: point (%v, %v) is not finite", ErrValidation, p.X, p.Y)
	}
	ps.stroke.Points = append(ps.stroke.Points, p)
	return nil
}

// CommitStroke moves the pending stroke onto the committed log and empties
// the redo buffer. A stroke without points is dropped and false is returned.
func (h *History) CommitStroke() (bool, error) {
	ps, ok := h.phase.(pending)
	if !ok {
		return false, fmt.Errorf("commit stroke: %w: no pending stroke", ErrInvalidState)
	}
	h.phase = idle{}
	if len(ps.stroke.Points) == 0 {
		return false, nil
	}
	h.committed = append(h.committed, *ps.stroke)
	h.redo = nil
	return true, nil
}

// DiscardStroke drops the pending stroke, if any, without touching history.
func (h *History) DiscardStroke() bool {
	_, ok := h.phase.(pending)
	h.phase = idle{}
	return ok
}

// Undo moves the last committed stroke to the redo buffer. It reports whether
// anything changed; the caller must re-render on true.
func (h *History) Undo() (bool, error) {
	if err := h.requireIdle("undo"); err != nil {
		return false, err
	}
	n := len(h.committed)
	if n == 0 {
		return false, nil
	}
	last := h.committed[n-1]
	h.committed = h.committed[:n-1]
	h.redo = append(h.redo, last)
	return true, nil
}

// Redo re-applies the most recently undone stroke.
func (h *History) Redo() (bool, error) {
	if err := h.requireIdle("redo"); err != nil {
		return false, err
	}
	n := len(h.redo)
	if n == 0 {
		return false, nil
	}
	s := h.redo[n-1]
	h.redo = h.redo[:n-1]
	h.committed = append(h.committed, s)
	return true, nil
}

// Clear empties both the committed log and the redo buffer.
func (h *History) Clear() error {
	if err := h.requireIdle("clear"); err != nil {
		return err
	}
	h.committed = nil
	h.redo = nil
	return nil
}

// Reset is Clear that also drops a pending stroke. Used when the reference
// image changes under the user.
func (h *History) Reset() {
	h.phase = idle{}
	h.committed = nil
	h.redo = nil
}

func (h *History) requireIdle(op string) error {
	if _, ok := h.phase.(pending); ok {
		return fmt.Errorf("%s: %w: a stroke is pending", op, ErrInvalidState)
	}
	return nil
}

func (h *History) IsPending() bool {
	_, ok := h.phase.(pending)
	return ok
}

// Pending returns a copy of the stroke being drawn.
func (h *History) Pending() (Stroke, bool) {
	ps, ok := h.phase.(pending)
	if !ok {
		return Stroke{}, false
	}
	return ps.stroke.Clone(), true
}

// Committed returns a copy of the committed strokes, oldest first.
func (h *History) Committed() []Stroke {
	return cloneStrokes(h.committed)
}

// RedoBuffer returns a copy of the redo buffer, most recently undone last.
func (h *History) RedoBuffer() []Stroke {
	return cloneStrokes(h.redo)
}

func (h *History) Len() int      { return len(h.committed) }
func (h *History) CanUndo() bool { return len(h.committed) > 0 && !h.IsPending() }
func (h *History) CanRedo() bool { return len(h.redo) > 0 && !h.IsPending() }

// Snapshot is a deep copy of the whole history.
type Snapshot struct {
	Committed []Stroke `json:"committed"`
	Redo      []Stroke `json:"redo"`
	Pending   *Stroke  `json:"pending,omitempty"`
}

func (h *History) Snapshot() Snapshot {
	snap := Snapshot{
		Committed: h.Committed(),
		Redo:      h.RedoBuffer(),
	}
	if s, ok := h.Pending(); ok {
		snap.Pending = &s
	}
	return snap
}

func cloneStrokes(in []Stroke) []Stroke {
	out := make([]Stroke, len(in))
	for i, s := range in {
		out[i] = s.Clone()
	}
	return out
}
