package detection

import (
	"image"
	"image/color"
	"testing"

	"certforge/internal/region"
)

// createInkedTemplate builds a dark canvas with white cut-out rectangles,
// mimicking a certificate whose decoration surrounds blank fill-in areas.
func createInkedTemplate(width, height int, holes []image.Rectangle) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	ink := color.RGBA{R: 40, G: 40, B: 60, A: 255}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, ink)
		}
	}
	for _, hole := range holes {
		for y := hole.Min.Y; y < hole.Max.Y; y++ {
			for x := hole.Min.X; x < hole.Max.X; x++ {
				img.Set(x, y, color.White)
			}
		}
	}
	return img
}

func TestDetect_FindsEnclosedBlankRegion(t *testing.T) {
	img := createInkedTemplate(400, 300, []image.Rectangle{
		image.Rect(100, 100, 280, 170),
	})

	regions, err := Detect(img, DefaultOptions())
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(regions) != 1 {
		t.Fatalf("expected 1 region, got %d: %v", len(regions), regions)
	}

	r := regions[0]
	if r.W <= 0 || r.H <= 0 {
		t.Errorf("region has non-positive size: %+v", r)
	}
	// The proposal must sit on the blank area, roughly centered on it.
	cx := r.X + r.W/2
	cy := r.Y + r.H/2
	if cx < 100 || cx > 280 || cy < 100 || cy > 170 {
		t.Errorf("region center (%d,%d) outside the blank area: %+v", cx, cy, r)
	}
}

func TestDetect_AllRegionsInsideBounds(t *testing.T) {
	img := createInkedTemplate(500, 400, []image.Rectangle{
		image.Rect(40, 40, 220, 100),
		image.Rect(260, 150, 460, 220),
		image.Rect(40, 280, 200, 360),
	})

	regions, err := Detect(img, DefaultOptions())
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(regions) == 0 {
		t.Fatal("expected at least one region")
	}
	for _, r := range regions {
		if r.W <= 0 || r.H <= 0 {
			t.Errorf("non-positive region size: %+v", r)
		}
		if r.X < 0 || r.Y < 0 || r.X+r.W > 500 || r.Y+r.H > 400 {
			t.Errorf("region extends past image bounds: %+v", r)
		}
	}
}

func TestDetect_ReadingOrder(t *testing.T) {
	img := createInkedTemplate(500, 400, []image.Rectangle{
		image.Rect(260, 260, 440, 330), // bottom right
		image.Rect(40, 40, 220, 110),   // top left
		image.Rect(260, 40, 440, 110),  // top right
	})

	regions, err := Detect(img, DefaultOptions())
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	for i := 1; i < len(regions); i++ {
		prev, cur := regions[i-1], regions[i]
		if cur.Y < prev.Y || (cur.Y == prev.Y && cur.X < prev.X) {
			t.Errorf("regions not in reading order: %v before %v", prev, cur)
		}
	}
}

func TestDetect_UniformImageYieldsNoRegions(t *testing.T) {
	// A fully blank template has no enclosed holes: the single component
	// spans the whole image and fails the area cap. Zero proposals is a
	// valid outcome, not an error.
	img := createInkedTemplate(400, 300, []image.Rectangle{
		image.Rect(0, 0, 400, 300),
	})

	regions, err := Detect(img, DefaultOptions())
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(regions) != 0 {
		t.Errorf("expected no regions on a blank template, got %v", regions)
	}
}

func TestDetect_RejectsTinyHoles(t *testing.T) {
	img := createInkedTemplate(400, 300, []image.Rectangle{
		image.Rect(100, 100, 125, 112), // far below the 60x25 minimum
	})

	regions, err := Detect(img, DefaultOptions())
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(regions) != 0 {
		t.Errorf("expected tiny hole to be rejected, got %v", regions)
	}
}

func TestDetect_MaxRegionsCap(t *testing.T) {
	var holes []image.Rectangle
	for row := 0; row < 4; row++ {
		for col := 0; col < 3; col++ {
			x := 40 + col*260
			y := 40 + row*180
			holes = append(holes, image.Rect(x, y, x+180, y+80))
		}
	}
	img := createInkedTemplate(820, 780, holes)

	opts := DefaultOptions()
	opts.MaxRegions = 5
	regions, err := Detect(img, opts)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(regions) > 5 {
		t.Errorf("expected at most 5 regions, got %d", len(regions))
	}
}

func TestDetect_NilImage(t *testing.T) {
	if _, err := Detect(nil, DefaultOptions()); err == nil {
		t.Error("expected error for nil image")
	}
}

func TestMergeAdjacent(t *testing.T) {
	boxes := []region.Rect{
		{X: 100, Y: 100, W: 80, H: 40},
		{X: 185, Y: 100, W: 80, H: 40}, // 5px gap, within merge distance
		{X: 100, Y: 200, W: 80, H: 40}, // far below, stays separate
	}

	merged := mergeAdjacent(boxes)
	if len(merged) != 2 {
		t.Fatalf("expected 2 boxes after merge, got %d: %v", len(merged), merged)
	}
	want := region.Rect{X: 100, Y: 100, W: 165, H: 40}
	if merged[0] != want {
		t.Errorf("merged box = %+v, want %+v", merged[0], want)
	}
	if merged[1] != boxes[2] {
		t.Errorf("distant box changed by merge: %+v", merged[1])
	}
}

func TestPadAndClamp(t *testing.T) {
	// 10% of the smaller dimension on each side.
	r := padAndClamp(region.Rect{X: 100, Y: 100, W: 100, H: 50}, 400, 300)
	want := region.Rect{X: 95, Y: 95, W: 110, H: 60}
	if r != want {
		t.Errorf("padded box = %+v, want %+v", r, want)
	}

	// A box against the corner must not escape the image.
	r = padAndClamp(region.Rect{X: 0, Y: 0, W: 100, H: 50}, 102, 52)
	if r.X < 0 || r.Y < 0 || r.X+r.W > 102 || r.Y+r.H > 52 {
		t.Errorf("clamped box escapes bounds: %+v", r)
	}
}