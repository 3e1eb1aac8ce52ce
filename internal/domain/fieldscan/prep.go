package fieldscan

import (
	"bytes"
	"image"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"

	apperrors "github.com/krishivikas/assistant/pkg/errors"
)

// PrepareJPEG downscales an image to at most maxWidth pixels wide and
// re-encodes it as JPEG for upload. Images already narrow enough are
// re-encoded without scaling, which also strips metadata the server has
// no use for.
func PrepareJPEG(data []byte, maxWidth, quality int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInvalidInput, "decode image", err)
	}

	bounds := img.Bounds()
	if maxWidth > 0 && bounds.Dx() > maxWidth {
		h := bounds.Dy() * maxWidth / bounds.Dx()
		dst := image.NewRGBA(image.Rect(0, 0, maxWidth, h))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
	}

	if quality <= 0 || quality > 100 {
		quality = 85
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInvalidInput, "encode jpeg", err)
	}
	return buf.Bytes(), nil
}
