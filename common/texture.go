// Package common contains plain helpers shared throughout the engine: matrix math, texture decoding, and small generic utilities.
package common

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/anthonynsimon/bild/clone"
	"github.com/anthonynsimon/bild/transform"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// ErrEmptyTexture is returned when texture data is empty or decodes to a zero-sized image.
var ErrEmptyTexture = errors.New("empty texture")

// DecodeTexture decodes PNG, JPEG, BMP, or WebP bytes into RGBA pixels.
// Images wider or taller than maxSize are scaled down to fit, keeping the aspect ratio.
//
// Parameters:
//   - data: the encoded image bytes
//   - maxSize: the largest allowed edge in pixels, or 0 for no limit
//
// Returns:
//   - *image.RGBA: the decoded pixels, with bounds starting at the origin
//   - error: error if decoding fails
func DecodeTexture(data []byte, maxSize int) (*image.RGBA, error) {
	if len(data) == 0 {
		return nil, ErrEmptyTexture
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return nil, fmt.Errorf("%w: %s image has no pixels", ErrEmptyTexture, format)
	}

	rgba := clone.AsRGBA(img)
	w, h := FitSize(bounds.Dx(), bounds.Dy(), maxSize)
	if w != bounds.Dx() || h != bounds.Dy() {
		rgba = transform.Resize(rgba, w, h, transform.Linear)
	}
	return rgba, nil
}

// FitSize scales width and height down so neither exceeds maxSize, keeping the aspect ratio.
// Each edge stays at least one pixel.
//
// Parameters:
//   - width: the source width
//   - height: the source height
//   - maxSize: the largest allowed edge, or 0 for no limit
//
// Returns:
//   - int: the fitted width
//   - int: the fitted height
func FitSize(width, height, maxSize int) (int, int) {
	if maxSize <= 0 || (width <= maxSize && height <= maxSize) {
		return width, height
	}
	if width >= height {
		return maxSize, max(1, height*maxSize/width)
	}
	return max(1, width*maxSize/height), maxSize
}
