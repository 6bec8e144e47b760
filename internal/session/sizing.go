package session

import (
	"fmt"
	"math"

	"LocalSketch/internal/render"
	"LocalSketch/internal/state"
)

// Mode selects how the canvas buffer is sized.
type Mode string

const (
	// ModeReference sizes the canvas to the reference image.
	ModeReference Mode = "reference"
	// ModeFreeDraw uses a fixed square buffer.
	ModeFreeDraw Mode = "free"
)

// FreeDrawSize is the buffer edge length in free-draw mode.
const FreeDrawSize = 1500

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeReference, ModeFreeDraw:
		return Mode(s), nil
	}
	return "", fmt.Errorf("%w: unknown mode %q", state.ErrValidation, s)
}

type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (s Size) Empty() bool {
	return s.Width <= 0 || s.Height <= 0
}

// FitToImage returns the largest size with the image's aspect ratio that fits
// in container, never larger than the image itself nor render.MaxEdge.
func FitToImage(container, native Size) Size {
	if container.Empty() || native.Empty() {
		return Size{}
	}
	aspect := float64(native.Width) / float64(native.Height)
	containerAspect := float64(container.Width) / float64(container.Height)

	var w, h float64
	if aspect > containerAspect {
		w = float64(container.Width)
		h = w / aspect
	} else {
		h = float64(container.Height)
		w = h * aspect
	}
	if w > float64(native.Width) || h > float64(native.Height) {
		w, h = float64(native.Width), float64(native.Height)
	}
	if scale := render.MaxEdge / max(w, h); scale < 1 {
		w, h = w*scale, h*scale
	}
	return Size{
		Width:  max(int(math.Floor(w)), 1),
		Height: max(int(math.Floor(h)), 1),
	}
}

// BufferSize applies the sizing policy. ok is false when reference mode has
// no loaded image or no container yet; the buffer keeps its current size.
func BufferSize(mode Mode, container, native Size) (size Size, ok bool) {
	if mode == ModeFreeDraw {
		return Size{Width: FreeDrawSize, Height: FreeDrawSize}, true
	}
	s := FitToImage(container, native)
	return s, !s.Empty()
}
