package library

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// ImageInfo is a reference image's native pixel size.
type ImageInfo struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format string `json:"format"`
}

// DecodeInfo reads only the image header.
func DecodeInfo(r io.Reader) (ImageInfo, error) {
	cfg, format, err := image.DecodeConfig(r)
	if err != nil {
		return ImageInfo{}, fmt.Errorf("decode image header: %w", err)
	}
	return ImageInfo{Width: cfg.Width, Height: cfg.Height, Format: format}, nil
}

// DecodeImage decodes any supported reference image format.
func DecodeImage(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// Info returns the native size of the image at rel.
func (l *Library) Info(rel string) (ImageInfo, error) {
	if !IsImage(rel) {
		return ImageInfo{}, fmt.Errorf("%q is not an image", rel)
	}
	p, err := l.Resolve(rel)
	if err != nil {
		return ImageInfo{}, err
	}
	f, err := os.Open(p)
	if err != nil {
		return ImageInfo{}, err
	}
	defer f.Close()
	return DecodeInfo(f)
}

// Open opens the image at rel for reading.
func (l *Library) Open(rel string) (*os.File, error) {
	if !IsImage(rel) {
		return nil, fmt.Errorf("%q is not an image: %w", rel, os.ErrNotExist)
	}
	p, err := l.Resolve(rel)
	if err != nil {
		return nil, err
	}
	return os.Open(p)
}

// ReadImage returns the bytes of the image at rel. It mirrors Client.ReadImage
// so the desktop front-end can use either source.
func (l *Library) ReadImage(ctx context.Context, rel string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := l.Open(rel)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
