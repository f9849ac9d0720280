package avatar

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tazhibayda/task-manager/internal/domain"
)

func sample(t *testing.T, w, h int, asJPEG bool) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 80, A: 255})
		}
	}
	var buf bytes.Buffer
	if asJPEG {
		require.NoError(t, jpeg.Encode(&buf, img, nil))
	} else {
		require.NoError(t, png.Encode(&buf, img))
	}
	return buf.Bytes()
}

func TestNormalize_ResizesToSquarePNG(t *testing.T) {
	tr := New(0, 0)
	for _, jpg := range []bool{false, true} {
		out, err := tr.Normalize(sample(t, 320, 200, jpg))
		require.NoError(t, err)

		img, format, err := image.Decode(bytes.NewReader(out))
		require.NoError(t, err)
		require.Equal(t, "png", format)
		require.Equal(t, DefaultSize, img.Bounds().Dx())
		require.Equal(t, DefaultSize, img.Bounds().Dy())
	}
}

func TestNormalize_Rejects(t *testing.T) {
	tr := New(0, 0)

	_, err := tr.Normalize(nil)
	require.ErrorIs(t, err, domain.ErrUnsupportedImage)

	_, err = tr.Normalize([]byte("%PDF-1.4 definitely not an image"))
	require.ErrorIs(t, err, domain.ErrUnsupportedImage)

	small := New(100, 10)
	_, err = small.Normalize(sample(t, 64, 64, false))
	require.ErrorIs(t, err, domain.ErrUnsupportedImage)

	// valid PNG signature, broken body
	broken := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 32)...)
	_, err = tr.Normalize(broken)
	require.ErrorIs(t, err, domain.ErrUnsupportedImage)
}

func TestSquareCrop(t *testing.T) {
	require.Equal(t, image.Rect(60, 0, 260, 200), squareCrop(image.Rect(0, 0, 320, 200)))
	require.Equal(t, image.Rect(0, 10, 50, 60), squareCrop(image.Rect(0, 0, 50, 70)))
}

// pngHeader returns a PNG that declares w x h gray pixels but carries no image data.
func pngHeader(w, h uint32) []byte {
	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")

	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:4], w)
	binary.BigEndian.PutUint32(ihdr[4:8], h)
	ihdr[8] = 8 // bit depth; color type, compression, filter, interlace stay 0

	chunk := append([]byte("IHDR"), ihdr...)
	_ = binary.Write(&buf, binary.BigEndian, uint32(len(ihdr)))
	buf.Write(chunk)
	_ = binary.Write(&buf, binary.BigEndian, crc32.ChecksumIEEE(chunk))
	return buf.Bytes()
}

func TestNormalize_RejectsHugeDimensions(t *testing.T) {
	tr := New(0, 0)

	_, err := tr.Normalize(pngHeader(12000, 12000))
	require.ErrorIs(t, err, domain.ErrUnsupportedImage)
	require.Contains(t, err.Error(), "12000x12000")

	_, err = tr.Normalize(pngHeader(1<<20, 1))
	require.ErrorIs(t, err, domain.ErrUnsupportedImage)
}

func TestNormalize_PixelLimitIsConfigurable(t *testing.T) {
	tr := New(0, 0)
	tr.MaxPixels = 150 * 150

	_, err := tr.Normalize(sample(t, 200, 200, false))
	require.ErrorIs(t, err, domain.ErrUnsupportedImage)

	out, err := tr.Normalize(sample(t, 150, 150, true))
	require.NoError(t, err)
	cfg, err := png.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	require.Equal(t, 100, cfg.Width)
}
