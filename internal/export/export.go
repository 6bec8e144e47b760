// Package export writes raster snapshots of a drawing as PNG files or as a
// single-page PDF sized to the canvas.
package export

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"LocalSketch/internal/render"
	"LocalSketch/internal/state"
)

type Format string

const (
	FormatPNG Format = "png"
	FormatPDF Format = "pdf"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatPNG, FormatPDF:
		return f, nil
	}
	return "", fmt.Errorf("%w: unknown export format %q", state.ErrValidation, s)
}

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(strings.TrimPrefix(filepath.Ext(path), "."))
}

// Drawing is what gets exported: the committed strokes and the canvas
// buffer size they were drawn on.
type Drawing struct {
	Width   int
	Height  int
	Strokes []state.Stroke
	Title   string
}

func (d Drawing) validate() error {
	if d.Width < 1 || d.Height < 1 || d.Width > render.MaxEdge || d.Height > render.MaxEdge {
		return fmt.Errorf("%w: canvas size %dx%d", state.ErrValidation, d.Width, d.Height)
	}
	return nil
}

// Rasterize renders the drawing onto a new raster. The caller closes it.
func Rasterize(d Drawing) (*render.Raster, error) {
	if err := d.validate(); err != nil {
		return nil, err
	}
	r := render.NewRaster(d.Width, d.Height)
	render.RenderAll(r, d.Strokes)
	return r, nil
}

func PNG(w io.Writer, d Drawing) error {
	r, err := Rasterize(d)
	if err != nil {
		return err
	}
	defer r.Close()
	if err := r.EncodePNG(w); err != nil {
		return fmt.Errorf("encoding png: %w", err)
	}
	return nil
}

func Write(w io.Writer, f Format, d Drawing) error {
	switch f {
	case FormatPNG:
		return PNG(w, d)
	case FormatPDF:
		return PDF(w, d)
	}
	return fmt.Errorf("%w: unknown export format %q", state.ErrValidation, f)
}

// Bytes returns the encoded file body.
func Bytes(f Format, d Drawing) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, f, d); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile exports to path; the format follows the extension.
func WriteFile(path string, d Drawing) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	data, err := Bytes(f, d)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
