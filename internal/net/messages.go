package net

import (
	"errors"

	"LocalSketch/internal/input"
	"LocalSketch/internal/library"
	"LocalSketch/internal/render"
	"LocalSketch/internal/session"
	"LocalSketch/internal/state"
)

// Client message types.
const (
	msgPointer    = "pointer"
	msgTouch      = "touch"
	msgKey        = "key"
	msgTool       = "tool"
	msgColor      = "color"
	msgSize       = "size"
	msgUndo       = "undo"
	msgRedo       = "redo"
	msgClear      = "clear"
	msgMode       = "mode"
	msgContainer  = "container"
	msgImage      = "image"
	msgLoad       = "load"
	msgNext       = "next"
	msgTimerStart = "timer_start"
	msgTimerStop  = "timer_stop"
	msgExport     = "export"
)

// ClientMessage is every client message flattened into one shape; Type says
// which fields are set.
type ClientMessage struct {
	Type string `json:"type"`

	// pointer, touch: Event is the DOM event type ("mousedown", "touchmove").
	Event   string        `json:"event,omitempty"`
	ClientX float64       `json:"clientX,omitempty"`
	ClientY float64       `json:"clientY,omitempty"`
	Touches []input.Touch `json:"touches,omitempty"`
	Rect    input.Rect    `json:"rect"`

	// key
	Key   string `json:"key,omitempty"`
	Ctrl  bool   `json:"ctrl,omitempty"`
	Meta  bool   `json:"meta,omitempty"`
	Shift bool   `json:"shift,omitempty"`

	Tool     string   `json:"tool,omitempty"`
	Color    string   `json:"color,omitempty"`
	Size     int      `json:"size,omitempty"`
	Mode     string   `json:"mode,omitempty"`
	Width    int      `json:"width,omitempty"`
	Height   int      `json:"height,omitempty"`
	Folders  []string `json:"folders,omitempty"`
	Interval int      `json:"interval,omitempty"`
	Format   string   `json:"format,omitempty"`
}

type DrawMessage struct {
	Type string      `json:"type"`
	Ops  []render.Op `json:"ops"`
}

type ImageMessage struct {
	Type string `json:"type"`
	session.ImageView
}

type TimerMessage struct {
	Type      string `json:"type"`
	Remaining int    `json:"remaining"`
	Active    bool   `json:"active"`
	Display   string `json:"display"`
}

type StatusMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type ErrorMessage struct {
	Type    string `json:"type"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type StateMessage struct {
	Type string `json:"type"`
	session.View
}

type ExportMessage struct {
	Type   string `json:"type"`
	Format string `json:"format"`
	Data   []byte `json:"data"` // base64 in JSON
}

// Error kinds sent to the client.
const (
	KindValidation   = "validation"
	KindInvalidState = "invalid_state"
	KindNetwork      = "network"
	KindInternal     = "internal"
)

func errorKind(err error) string {
	switch {
	case errors.Is(err, state.ErrValidation), errors.Is(err, library.ErrOutsideRoot):
		return KindValidation
	case errors.Is(err, state.ErrInvalidState):
		return KindInvalidState
	case errors.Is(err, state.ErrNetworkFailure):
		return KindNetwork
	}
	return KindInternal
}
