// Package ocr locates already-printed text on a template so the detector
// can avoid proposing regions on top of it.
//
// The implementation wraps Tesseract via gosseract and is only compiled in
// when the binary is built with the tessocr tag (Tesseract and its language
// data must be installed on the system):
//
//	go build -tags tessocr ./...
//
// Default builds ship a pure-Go stub: Enabled() reports false and detection
// skips the veto. Detection quality degrades gracefully — the heuristic
// masks still catch most printed content.
package ocr
