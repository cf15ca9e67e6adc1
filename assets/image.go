package assets

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/milk9111/pinball/vpx"
)

func decodeImage(img *vpx.Image) (image.Image, error) {
	if len(img.Data) == 0 {
		return nil, ErrNoEncodedData
	}
	decoded, _, err := image.Decode(bytes.NewReader(img.Data))
	if err != nil {
		return nil, err
	}
	return decoded, nil
}
