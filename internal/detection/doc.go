// Package detection proposes candidate blank regions on a certificate
// template — rectangular patches of near-uniform background enclosed by
// inked content, suitable for inserting variable text.
//
// The detector is advisory only. Its proposals seed the region store but
// never block manual region creation, and finding zero candidates is a
// valid, non-error outcome: the user simply places regions by hand.
//
// # Algorithm
//
// The template is converted to grayscale and blurred, then two masks are
// built: an edge-density mask (Sobel gradients, thresholded and dilated)
// marking printed content, and a dark-pixel mask catching filled areas the
// gradient misses. Their union is inverted to a blank mask, cleaned up with
// erode/dilate, and grouped into connected components. Component bounding
// boxes are filtered by area share, aspect ratio and brightness, padded,
// merged when adjacent, and returned in reading order (top-to-bottom, then
// left-to-right).
//
// When the binary is built with the tessocr tag, boxes that overlap text
// recognized by Tesseract are additionally vetoed.
package detection
