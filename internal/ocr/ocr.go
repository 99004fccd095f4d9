package ocr

import (
	"certforge/internal/region"
)

// Word is one OCR-recognized token with its location on the template.
type Word struct {
	// Text is the recognized token.
	Text string `json:"text"`

	// Confidence is the recognition confidence in [0,1].
	Confidence float64 `json:"confidence"`

	// Rect is the token's bounding box in template pixel space.
	Rect region.Rect `json:"rect"`
}
