package mask

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
)

// Image returns a gray image sharing nothing with the mask. Rows of the
// image are rows of the uploaded texture.
func (m *StrandMask) Image() *image.Gray {
	n := int(m.Size)
	img := image.NewGray(image.Rect(0, 0, n, n))
	copy(img.Pix, m.Data)
	return img
}

// EncodePNG writes the mask as an 8-bit grayscale PNG.
func (m *StrandMask) EncodePNG(w io.Writer) error {
	return png.Encode(w, m.Image())
}

// DecodePNG reads a square image back into a mask. Non-gray images are
// converted with the standard gray model.
func DecodePNG(r io.Reader) (*StrandMask, error) {
	img, err := png.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode mask: %w", err)
	}
	return FromImage(img)
}

// FromImage converts a square image into a mask.
func FromImage(img image.Image) (*StrandMask, error) {
	bounds := img.Bounds()
	if bounds.Dx() != bounds.Dy() || bounds.Dx() == 0 {
		return nil, fmt.Errorf("%w: mask image must be square, got %dx%d", ErrInvalidArgument, bounds.Dx(), bounds.Dy())
	}

	gray, ok := img.(*image.Gray)
	if !ok || gray.Stride != bounds.Dx() || bounds.Min != (image.Point{}) {
		gray = image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(gray, gray.Bounds(), img, bounds.Min, draw.Src)
	}

	size := uint32(bounds.Dx())
	data := make([]uint8, len(gray.Pix))
	copy(data, gray.Pix)
	return &StrandMask{Size: size, Data: data}, nil
}
