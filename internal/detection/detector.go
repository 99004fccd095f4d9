package detection

import (
	"fmt"
	"image"
	"log"
	"sort"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/segment"

	"certforge/internal/ocr"
	"certforge/internal/region"
)

// Options tunes the blank-region detector. Zero values are replaced by the
// corresponding defaults.
type Options struct {
	// MaxRegions caps the number of proposals. Default 8.
	MaxRegions int

	// MinAreaFrac and MaxAreaFrac bound a candidate's area as a fraction
	// of the template area. Defaults 0.003 and 0.15.
	MinAreaFrac float64
	MaxAreaFrac float64

	// MinAspect and MaxAspect bound width/height, rejecting slivers.
	// Defaults 0.2 and 5.
	MinAspect float64
	MaxAspect float64

	// MinWidth and MinHeight are the smallest usable text box in pixels.
	// Defaults 60 and 25.
	MinWidth  int
	MinHeight int

	// BrightLevel is the grayscale value above which a pixel counts as
	// background, and FreeRatio the minimum fraction of such pixels a
	// candidate must contain. Defaults 200 and 0.4.
	BrightLevel uint8
	FreeRatio   float64
}

// DefaultOptions returns the detector tuning used by the interactive tool.
func DefaultOptions() Options {
	return Options{
		MaxRegions:  8,
		MinAreaFrac: 0.003,
		MaxAreaFrac: 0.15,
		MinAspect:   0.2,
		MaxAspect:   5,
		MinWidth:    60,
		MinHeight:   25,
		BrightLevel: 200,
		FreeRatio:   0.4,
	}
}

func (o *Options) applyDefaults() {
	d := DefaultOptions()
	if o.MaxRegions == 0 {
		o.MaxRegions = d.MaxRegions
	}
	if o.MinAreaFrac == 0 {
		o.MinAreaFrac = d.MinAreaFrac
	}
	if o.MaxAreaFrac == 0 {
		o.MaxAreaFrac = d.MaxAreaFrac
	}
	if o.MinAspect == 0 {
		o.MinAspect = d.MinAspect
	}
	if o.MaxAspect == 0 {
		o.MaxAspect = d.MaxAspect
	}
	if o.MinWidth == 0 {
		o.MinWidth = d.MinWidth
	}
	if o.MinHeight == 0 {
		o.MinHeight = d.MinHeight
	}
	if o.BrightLevel == 0 {
		o.BrightLevel = d.BrightLevel
	}
	if o.FreeRatio == 0 {
		o.FreeRatio = d.FreeRatio
	}
}

// Detect scans a decoded template image and proposes blank rectangular
// regions suitable for text placement, in reading order.
//
// The returned rectangles all have positive width and height and lie fully
// inside the image bounds. An empty result is not an error.
func Detect(img image.Image, opts Options) ([]region.Rect, error) {
	if img == nil {
		return nil, fmt.Errorf("detect: nil template image")
	}
	opts.applyDefaults()

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width < opts.MinWidth || height < opts.MinHeight {
		return nil, nil
	}

	gray := grayPlane(blur.Gaussian(effect.Grayscale(img), 1.5))

	// Printed-content mask: strong gradients, thickened so letter gaps
	// don't read as blank space.
	edges := effect.Dilate(segment.Threshold(effect.Sobel(blur.Gaussian(img, 1.5)), 60), 7)

	// Dark-fill mask catches solid shapes the gradient pass misses.
	dark := effect.Dilate(effect.Invert(segment.Threshold(blur.Gaussian(img, 1.5), 180)), 3)

	// Blank = neither printed nor dark, with a morphological cleanup pass.
	blank := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !isWhite(edges, bounds.Min.X+x, bounds.Min.Y+y) && !isWhite(dark, bounds.Min.X+x, bounds.Min.Y+y) {
				blank.Pix[y*blank.Stride+x] = 255
			}
		}
	}
	cleaned := effect.Dilate(effect.Erode(blank, 2), 3)

	mask := make([][]bool, height)
	for y := 0; y < height; y++ {
		mask[y] = make([]bool, width)
		for x := 0; x < width; x++ {
			mask[y][x] = isWhite(cleaned, x, y)
		}
	}

	boxes := componentBounds(mask, width, height)

	totalArea := float64(width * height)
	candidates := make([]region.Rect, 0, len(boxes))
	for _, b := range boxes {
		area := float64(b.W * b.H)
		if area < opts.MinAreaFrac*totalArea || area > opts.MaxAreaFrac*totalArea {
			continue
		}
		aspect := float64(b.W) / float64(b.H)
		if aspect < opts.MinAspect || aspect > opts.MaxAspect {
			continue
		}
		if freeRatio(gray, b, opts.BrightLevel) < opts.FreeRatio {
			continue
		}
		candidates = append(candidates, padAndClamp(b, width, height))
	}

	merged := mergeAdjacent(candidates)

	final := merged[:0]
	for _, r := range merged {
		if r.W >= opts.MinWidth && r.H >= opts.MinHeight {
			final = append(final, r)
		}
	}
	sortReadingOrder(final)

	final = vetoPrintedText(img, final)

	if len(final) > opts.MaxRegions {
		final = final[:opts.MaxRegions]
	}
	return final, nil
}

// vetoPrintedText drops candidates overlapping OCR-recognized words. With
// OCR unavailable (default build) the candidates pass through unchanged.
func vetoPrintedText(img image.Image, candidates []region.Rect) []region.Rect {
	if !ocr.Enabled() || len(candidates) == 0 {
		return candidates
	}
	words, err := ocr.DetectWords(img)
	if err != nil {
		log.Printf("detect: OCR veto unavailable: %v", err)
		return candidates
	}

	kept := candidates[:0]
	for _, c := range candidates {
		hit := false
		for _, w := range words {
			if w.Confidence >= 0.5 && c.Intersects(w.Rect) {
				hit = true
				break
			}
		}
		if !hit {
			kept = append(kept, c)
		}
	}
	return kept
}

// componentBounds groups connected mask pixels into components and returns
// their bounding boxes. Components under 10 pixels are discarded as noise.
func componentBounds(mask [][]bool, width, height int) []region.Rect {
	visited := make([][]bool, height)
	for y := range visited {
		visited[y] = make([]bool, width)
	}

	var boxes []region.Rect
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !mask[y][x] || visited[y][x] {
				continue
			}
			minX, minY, maxX, maxY, size := floodFill(mask, visited, x, y, width, height)
			if size < 10 {
				continue
			}
			boxes = append(boxes, region.Rect{
				X: minX,
				Y: minY,
				W: maxX - minX + 1,
				H: maxY - minY + 1,
			})
		}
	}
	return boxes
}

type point struct{ x, y int }

// floodFill walks one 8-connected component iteratively (a stack, not
// recursion, so large blank areas can't overflow the goroutine stack) and
// returns the component's bounding box and pixel count.
func floodFill(mask, visited [][]bool, startX, startY, width, height int) (minX, minY, maxX, maxY, size int) {
	minX, minY = startX, startY
	maxX, maxY = startX, startY
	stack := []point{{startX, startY}}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if p.x < 0 || p.x >= width || p.y < 0 || p.y >= height {
			continue
		}
		if visited[p.y][p.x] || !mask[p.y][p.x] {
			continue
		}
		visited[p.y][p.x] = true
		size++

		if p.x < minX {
			minX = p.x
		}
		if p.x > maxX {
			maxX = p.x
		}
		if p.y < minY {
			minY = p.y
		}
		if p.y > maxY {
			maxY = p.y
		}

		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				stack = append(stack, point{p.x + dx, p.y + dy})
			}
		}
	}
	return minX, minY, maxX, maxY, size
}

// padAndClamp grows a box by 10% of its smaller dimension on every side and
// clamps the result to the image, so proposals leave breathing room around
// the blank area without escaping bounds.
func padAndClamp(r region.Rect, width, height int) region.Rect {
	pad := minInt(r.W, r.H) / 10
	r.X -= pad
	r.Y -= pad
	r.W += 2 * pad
	r.H += 2 * pad

	if r.X < 0 {
		r.W += r.X
		r.X = 0
	}
	if r.Y < 0 {
		r.H += r.Y
		r.Y = 0
	}
	if r.X+r.W > width {
		r.W = width - r.X
	}
	if r.Y+r.H > height {
		r.H = height - r.Y
	}
	return r
}

// mergeAdjacent unions boxes that intersect when expanded by 10px, so a
// blank area split by a faint line still yields one proposal.
func mergeAdjacent(boxes []region.Rect) []region.Rect {
	sortReadingOrder(boxes)

	var merged []region.Rect
	for _, b := range boxes {
		found := false
		for i, m := range merged {
			if b.Intersects(m.Expanded(10)) {
				merged[i] = m.Union(b)
				found = true
				break
			}
		}
		if !found {
			merged = append(merged, b)
		}
	}
	return merged
}

// sortReadingOrder sorts top-to-bottom, then left-to-right.
func sortReadingOrder(boxes []region.Rect) {
	sort.SliceStable(boxes, func(i, j int) bool {
		if boxes[i].Y != boxes[j].Y {
			return boxes[i].Y < boxes[j].Y
		}
		return boxes[i].X < boxes[j].X
	})
}

// freeRatio is the fraction of pixels in r brighter than level.
func freeRatio(gray *image.Gray, r region.Rect, level uint8) float64 {
	total := r.W * r.H
	if total == 0 {
		return 0
	}
	free := 0
	for y := r.Y; y < r.Y+r.H; y++ {
		for x := r.X; x < r.X+r.W; x++ {
			if gray.Pix[y*gray.Stride+x] > level {
				free++
			}
		}
	}
	return float64(free) / float64(total)
}

// grayPlane reduces an RGBA grayscale image to a single-channel plane
// anchored at (0,0).
func grayPlane(img image.Image) *image.Gray {
	bounds := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			lum := 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(b>>8)
			out.Pix[y*out.Stride+x] = uint8(lum)
		}
	}
	return out
}

// isWhite reports whether a mask pixel is set (above half intensity).
func isWhite(img image.Image, x, y int) bool {
	r, _, _, _ := img.At(x, y).RGBA()
	return r>>8 > 127
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
