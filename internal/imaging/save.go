package imaging

import (
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"
)

// JPEGQuality is the encoding quality for generated certificates. High enough
// to preserve visual fidelity while bounding file size.
const JPEGQuality = 95

// SaveJPEG writes img to path as a quality-95 JPEG.
//
// The output keeps the source image's resolution; no scaling is applied.
func SaveJPEG(img image.Image, path string) error {
	if err := imaging.Save(img, path, imaging.JPEGQuality(JPEGQuality)); err != nil {
		return fmt.Errorf("failed to save certificate %q: %w", path, err)
	}
	return nil
}

// EncodeJPEG writes img to w as a quality-95 JPEG stream.
func EncodeJPEG(w io.Writer, img image.Image) error {
	if err := imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(JPEGQuality)); err != nil {
		return fmt.Errorf("failed to encode certificate: %w", err)
	}
	return nil
}

// Thumbnail returns a preview copy of img scaled down so its width does not
// exceed maxWidth. Images already within the limit are cloned unchanged.
func Thumbnail(img image.Image, maxWidth int) image.Image {
	if maxWidth <= 0 || img.Bounds().Dx() <= maxWidth {
		return imaging.Clone(img)
	}
	return imaging.Resize(img, maxWidth, 0, imaging.Lanczos)
}
