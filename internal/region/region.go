package region

import (
	"image/color"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Origin records how a region came to exist.
type Origin string

const (
	// OriginAuto marks regions proposed by the blank-region detector.
	OriginAuto Origin = "auto"

	// OriginManual marks regions created by an explicit user command.
	OriginManual Origin = "manual"
)

// Rect is an axis-aligned rectangle in template pixel space.
type Rect struct {
	X int `json:"x"` // left edge
	Y int `json:"y"` // top edge
	W int `json:"w"` // width in pixels
	H int `json:"h"` // height in pixels
}

// Intersects reports whether r and o overlap.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.X+o.W && r.X+r.W > o.X && r.Y < o.Y+o.H && r.Y+r.H > o.Y
}

// Union returns the smallest rectangle containing both r and o.
func (r Rect) Union(o Rect) Rect {
	x1 := minInt(r.X, o.X)
	y1 := minInt(r.Y, o.Y)
	x2 := maxInt(r.X+r.W, o.X+o.W)
	y2 := maxInt(r.Y+r.H, o.Y+o.H)
	return Rect{X: x1, Y: y1, W: x2 - x1, H: y2 - y1}
}

// Expanded returns r grown by margin pixels on every side.
func (r Rect) Expanded(margin int) Rect {
	return Rect{X: r.X - margin, Y: r.Y - margin, W: r.W + 2*margin, H: r.H + 2*margin}
}

// Style holds the text formatting attributes for one region.
//
// Color is a hex string of the form "#RRGGBB". FontSize 0 means auto-fit;
// a positive value pins the size exactly and is never shrunk by the fitter.
type Style struct {
	Bold       bool   `json:"bold"`
	Italic     bool   `json:"italic"`
	Underline  bool   `json:"underline"`
	Color      string `json:"color"`
	FontFamily string `json:"fontFamily,omitempty"`
	FontSize   int    `json:"fontSize,omitempty"`
}

// DefaultStyle returns the style applied to newly created regions:
// regular weight, near-black text, auto-fitted size.
func DefaultStyle() Style {
	return Style{Color: "#141414"}
}

// TextColor parses the style color into a drawable color. Invalid or empty
// hex strings fall back to the default near-black.
func (s Style) TextColor() color.Color {
	c, err := colorful.Hex(s.Color)
	if err != nil {
		return color.RGBA{R: 20, G: 20, B: 20, A: 255}
	}
	return c
}

// NormalizeColor rewrites the style color into canonical lowercase "#rrggbb"
// form. Unparseable values are replaced with the default color.
func (s *Style) NormalizeColor() {
	c, err := colorful.Hex(s.Color)
	if err != nil {
		s.Color = DefaultStyle().Color
		return
	}
	s.Color = c.Hex()
}

// Region is one text placement area on the template.
type Region struct {
	ID       string  `json:"id"`
	Rect     Rect    `json:"rect"`
	Rotation float64 `json:"rotation"` // degrees, normalized to [0,360)
	Origin   Origin  `json:"origin"`
	Binding  string  `json:"binding,omitempty"` // dataset variable name, "" = unbound
	Style    Style   `json:"style"`
}

// Bound reports whether the region is bound to a dataset variable.
func (r *Region) Bound() bool { return r.Binding != "" }

// NormalizeRotation maps an arbitrary angle in degrees onto [0,360).
func NormalizeRotation(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// letterID converts a zero-based sequence number to the region id scheme:
// a..z, then aa, ab, ... (bijective base-26).
func letterID(n int) string {
	n++ // bijective numbering is 1-based
	var buf []byte
	for n > 0 {
		n--
		buf = append([]byte{byte('a' + n%26)}, buf...)
		n /= 26
	}
	return string(buf)
}

// letterSeq parses a letter id back to its zero-based sequence number.
// Returns -1 for ids outside the a..z, aa.. scheme.
func letterSeq(id string) int {
	if id == "" {
		return -1
	}
	n := 0
	for _, r := range id {
		if r < 'a' || r > 'z' {
			return -1
		}
		n = n*26 + int(r-'a') + 1
	}
	return n - 1
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
