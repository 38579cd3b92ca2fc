package openai

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
)

// maxPhotoEdge is the longest edge photos are scaled to before they are sent
// to the encoder service. The encoder resizes internally anyway; shrinking
// here keeps request payloads small.
const maxPhotoEdge = 512

// normalizePhoto decodes a photo, scales it to fit maxPhotoEdge, and
// re-encodes it as JPEG. Orientation metadata is applied during decode.
func normalizePhoto(photo []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(photo), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode photo: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() > maxPhotoEdge || bounds.Dy() > maxPhotoEdge {
		img = imaging.Fit(img, maxPhotoEdge, maxPhotoEdge, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(90)); err != nil {
		return nil, fmt.Errorf("encode photo: %w", err)
	}
	return buf.Bytes(), nil
}
