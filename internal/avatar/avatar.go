// Package avatar normalizes uploaded profile pictures into a fixed-size PNG.
package avatar

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/gabriel-vasile/mimetype"
	"github.com/tazhibayda/task-manager/internal/domain"
	"golang.org/x/image/draw"
)

const (
	DefaultMaxBytes  = 1_000_000
	DefaultSize      = 100
	DefaultMaxPixels = 4096 * 4096
)

type Transformer struct {
	MaxBytes int64
	Size     int
	// MaxPixels bounds width*height as declared in the image header, so a
	// small compressed file cannot expand into a huge bitmap.
	MaxPixels int
}

func New(maxBytes int64, size int) Transformer {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if size <= 0 {
		size = DefaultSize
	}
	return Transformer{MaxBytes: maxBytes, Size: size, MaxPixels: DefaultMaxPixels}
}

// Normalize decodes raw as PNG or JPEG, centre-crops it to a square, scales it
// to Size x Size and returns the PNG encoding. Anything else is ErrUnsupportedImage.
func (t Transformer) Normalize(raw []byte) ([]byte, error) {
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: empty upload", domain.ErrUnsupportedImage)
	}
	if int64(len(raw)) > t.MaxBytes {
		return nil, fmt.Errorf("%w: file too large", domain.ErrUnsupportedImage)
	}

	var (
		decode       func(io.Reader) (image.Image, error)
		decodeConfig func(io.Reader) (image.Config, error)
	)
	switch mt := mimetype.Detect(raw); {
	case mt.Is("image/png"):
		decode, decodeConfig = png.Decode, png.DecodeConfig
	case mt.Is("image/jpeg"):
		decode, decodeConfig = jpeg.Decode, jpeg.DecodeConfig
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedImage, mt.String())
	}

	cfg, err := decodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnsupportedImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > int64(t.maxPixels()) {
		return nil, fmt.Errorf("%w: %dx%d exceeds pixel limit", domain.ErrUnsupportedImage, cfg.Width, cfg.Height)
	}

	src, err := decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnsupportedImage, err)
	}

	dst := image.NewRGBA(image.Rect(0, 0, t.Size, t.Size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, squareCrop(src.Bounds()), draw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (t Transformer) maxPixels() int {
	if t.MaxPixels <= 0 {
		return DefaultMaxPixels
	}
	return t.MaxPixels
}

func squareCrop(b image.Rectangle) image.Rectangle {
	w, h := b.Dx(), b.Dy()
	if w > h {
		off := (w - h) / 2
		return image.Rect(b.Min.X+off, b.Min.Y, b.Min.X+off+h, b.Max.Y)
	}
	off := (h - w) / 2
	return image.Rect(b.Min.X, b.Min.Y+off, b.Max.X, b.Min.Y+off+w)
}
