package textfit

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/image/font"

	"certforge/internal/region"
)

const (
	// Padding is the internal margin, in pixels, kept between the fitted
	// text and each edge of the region.
	Padding = 6

	// MinFontSize is the smallest size the fitter will return. Text that
	// does not fit even at this size is clamped and flagged as overflow.
	MinFontSize = 8

	// maxFontSize bounds the binary search; no certificate field needs
	// larger glyphs and face construction cost grows with size.
	maxFontSize = 512
)

// Fit is the result of laying out one text value inside one region.
type Fit struct {
	// Text is the display text after the truncation policy was applied.
	Text string

	// Lines is Text split at explicit line breaks, in draw order.
	Lines []string

	// FontSize is the chosen integer size in points (72 DPI: 1pt = 1px).
	FontSize int

	// Width and Height are the measured extents of the laid-out text at
	// FontSize, before rotation.
	Width  int
	Height int

	// Overflow is set when even MinFontSize (or a pinned explicit size)
	// exceeds the padded region. Rendering proceeds anyway; the batch
	// records this as a warning, not an error.
	Overflow bool
}

// Empty reports whether there is nothing to draw.
func (f Fit) Empty() bool { return f.Text == "" }

// Truncate applies the fixed shortening policy: values of three or more
// whitespace-delimited words keep only the first two. This is an explicit
// product policy for keeping names short, not a guess — callers should
// surface it to users rather than let data vanish silently.
func Truncate(text string) string {
	words := strings.Fields(text)
	if len(words) >= 3 {
		return words[0] + " " + words[1]
	}
	return strings.TrimSpace(text)
}

// Fitter computes text layouts against a font registry.
type Fitter struct {
	reg *Registry
}

// NewFitter creates a fitter resolving font families through reg.
func NewFitter(reg *Registry) *Fitter {
	return &Fitter{reg: reg}
}

// Registry returns the fitter's font registry.
func (f *Fitter) Registry() *Registry { return f.reg }

// Fit lays out text inside r using the given style.
//
// The truncation policy is applied first. With FontSize 0 (auto) the fitter
// binary-searches the integer size range for the largest size whose measured
// extents — rotated by the region's angle — stay within the region minus
// Padding on every side. A positive style FontSize is pinned exactly and
// never shrunk; it only marks Overflow when it doesn't fit.
//
// Fit is deterministic: identical inputs always produce identical results.
func (f *Fitter) Fit(text string, r region.Region, st region.Style) (Fit, error) {
	display := Truncate(text)
	if display == "" {
		return Fit{}, nil
	}
	lines := strings.Split(display, "\n")

	family := f.reg.Family(st.FontFamily)
	variant := Variant{Bold: st.Bold, Italic: st.Italic}

	availW := r.Rect.W - 2*Padding
	availH := r.Rect.H - 2*Padding
	if availW < 1 {
		availW = 1
	}
	if availH < 1 {
		availH = 1
	}

	if st.FontSize > 0 {
		w, h, err := measure(family, variant, st.FontSize, lines)
		if err != nil {
			return Fit{}, err
		}
		fits := rotatedFits(w, h, r.Rotation, availW, availH)
		return Fit{
			Text:     display,
			Lines:    lines,
			FontSize: st.FontSize,
			Width:    w,
			Height:   h,
			Overflow: !fits,
		}, nil
	}

	lo, hi := MinFontSize, maxInt(availW, availH)
	if hi > maxFontSize {
		hi = maxFontSize
	}
	if hi < lo {
		hi = lo
	}

	best := 0
	bestW, bestH := 0, 0
	for lo <= hi {
		mid := (lo + hi) / 2
		w, h, err := measure(family, variant, mid, lines)
		if err != nil {
			return Fit{}, err
		}
		if rotatedFits(w, h, r.Rotation, availW, availH) {
			best, bestW, bestH = mid, w, h
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}

	if best == 0 {
		// Even the minimum overflows: clamp rather than fail so one long
		// field can't abort a whole batch.
		w, h, err := measure(family, variant, MinFontSize, lines)
		if err != nil {
			return Fit{}, err
		}
		return Fit{
			Text:     display,
			Lines:    lines,
			FontSize: MinFontSize,
			Width:    w,
			Height:   h,
			Overflow: true,
		}, nil
	}

	return Fit{
		Text:     display,
		Lines:    lines,
		FontSize: best,
		Width:    bestW,
		Height:   bestH,
	}, nil
}

// measure returns the pixel extents of lines rendered at size with the
// family's variant face.
func measure(family *Family, v Variant, size int, lines []string) (w, h int, err error) {
	face, err := family.Face(v, float64(size))
	if err != nil {
		return 0, 0, fmt.Errorf("failed to measure text: %w", err)
	}
	defer face.Close()

	metrics := face.Metrics()
	lineHeight := (metrics.Ascent + metrics.Descent).Ceil()

	for _, line := range lines {
		lw := font.MeasureString(face, line).Ceil()
		if lw > w {
			w = lw
		}
	}
	return w, lineHeight * len(lines), nil
}

// rotatedFits reports whether a w×h text block rotated by deg degrees stays
// within the available box. The effective extents are those of the rotated
// rectangle, not the raw axis-aligned width and height.
func rotatedFits(w, h int, deg float64, availW, availH int) bool {
	rw, rh := RotatedExtents(w, h, deg)
	return rw <= availW && rh <= availH
}

// RotatedExtents returns the axis-aligned extents of a w×h rectangle after
// rotation by deg degrees.
func RotatedExtents(w, h int, deg float64) (int, int) {
	if deg == 0 {
		return w, h
	}
	rad := deg * math.Pi / 180
	sin, cos := math.Abs(math.Sin(rad)), math.Abs(math.Cos(rad))
	fw := float64(w)
	fh := float64(h)
	return int(math.Ceil(fw*cos + fh*sin)), int(math.Ceil(fw*sin + fh*cos))
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
