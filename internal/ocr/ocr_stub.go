//go:build !tessocr

package ocr

import (
	"errors"
	"image"
)

// ErrUnavailable is returned by DetectWords in builds without the tessocr tag.
var ErrUnavailable = errors.New("ocr: built without tessocr tag")

// Enabled reports whether OCR support was compiled in.
func Enabled() bool { return false }

// DetectWords is a stub; it always returns ErrUnavailable.
func DetectWords(img image.Image) ([]Word, error) {
	return nil, ErrUnavailable
}
