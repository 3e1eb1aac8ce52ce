package fieldscan

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"testing"

	"github.com/stretchr/testify/require"
)

func encodeTestJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 255), G: 120, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func TestPrepareJPEGDownscalesWideImages(t *testing.T) {
	data := encodeTestJPEG(t, 2000, 1000)

	out, err := PrepareJPEG(data, 1280, 85)
	require.NoError(t, err)

	decoded, _, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	require.Equal(t, 1280, decoded.Bounds().Dx())
	require.Equal(t, 640, decoded.Bounds().Dy(), "aspect ratio preserved")
}

func TestPrepareJPEGKeepsNarrowImages(t *testing.T) {
	data := encodeTestJPEG(t, 640, 480)

	out, err := PrepareJPEG(data, 1280, 85)
	require.NoError(t, err)

	decoded, _, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	require.Equal(t, 640, decoded.Bounds().Dx())
}

func TestPrepareJPEGRejectsGarbage(t *testing.T) {
	_, err := PrepareJPEG([]byte("not an image"), 1280, 85)
	require.Error(t, err)
}
