package imaging

import (
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

// writeTestPNG writes a solid-color PNG to dir and returns its path.
func writeTestPNG(t *testing.T, dir string, name string, width, height int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.White)
		}
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create test image: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode test image: %v", err)
	}
	return path
}

func TestLoadTemplate(t *testing.T) {
	path := writeTestPNG(t, t.TempDir(), "template.png", 320, 240)

	tmpl, err := LoadTemplate(path)
	if err != nil {
		t.Fatalf("LoadTemplate failed: %v", err)
	}
	if tmpl.Width() != 320 || tmpl.Height() != 240 {
		t.Errorf("expected 320x240, got %dx%d", tmpl.Width(), tmpl.Height())
	}
	if tmpl.Format() != "png" {
		t.Errorf("expected format png, got %q", tmpl.Format())
	}
	if tmpl.Bounds() != image.Rect(0, 0, 320, 240) {
		t.Errorf("unexpected bounds: %v", tmpl.Bounds())
	}
}

func TestLoadTemplate_MissingFile(t *testing.T) {
	_, err := LoadTemplate(filepath.Join(t.TempDir(), "nope.png"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	var unreadable *UnreadableImageError
	if !errors.As(err, &unreadable) {
		t.Errorf("expected UnreadableImageError, got %T", err)
	}
}

func TestLoadTemplate_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.png")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatalf("failed to write corrupt file: %v", err)
	}

	_, err := LoadTemplate(path)
	var unreadable *UnreadableImageError
	if !errors.As(err, &unreadable) {
		t.Fatalf("expected UnreadableImageError, got %v", err)
	}
	if unreadable.Path != path {
		t.Errorf("expected path %q in error, got %q", path, unreadable.Path)
	}
	if unreadable.Unwrap() == nil {
		t.Error("expected wrapped cause in UnreadableImageError")
	}
}

func TestCache_LoadReusesDecodedTemplate(t *testing.T) {
	path := writeTestPNG(t, t.TempDir(), "cached.png", 64, 48)
	cache := NewCache()

	first, err := cache.Load(path)
	if err != nil {
		t.Fatalf("first Load failed: %v", err)
	}
	second, err := cache.Load(path)
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if first != second {
		t.Error("expected cache to return the same template instance")
	}

	cache.Evict(path)
	third, err := cache.Load(path)
	if err != nil {
		t.Fatalf("Load after Evict failed: %v", err)
	}
	if third == first {
		t.Error("expected a fresh template after Evict")
	}
}

func TestCache_Clear(t *testing.T) {
	dir := t.TempDir()
	path := writeTestPNG(t, dir, "a.png", 10, 10)
	cache := NewCache()

	if _, err := cache.Load(path); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	cache.Clear()

	// Removing the file proves a reload is attempted after Clear.
	if err := os.Remove(path); err != nil {
		t.Fatalf("failed to remove file: %v", err)
	}
	if _, err := cache.Load(path); err == nil {
		t.Error("expected Load to hit disk (and fail) after Clear")
	}
}

func TestSaveJPEG_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	img := image.NewRGBA(image.Rect(0, 0, 80, 60))
	out := filepath.Join(dir, "certificate_001.jpg")

	if err := SaveJPEG(img, out); err != nil {
		t.Fatalf("SaveJPEG failed: %v", err)
	}

	tmpl, err := LoadTemplate(out)
	if err != nil {
		t.Fatalf("failed to reload saved JPEG: %v", err)
	}
	if tmpl.Width() != 80 || tmpl.Height() != 60 {
		t.Errorf("expected 80x60 output, got %dx%d", tmpl.Width(), tmpl.Height())
	}
	if tmpl.Format() != "jpeg" {
		t.Errorf("expected jpeg format, got %q", tmpl.Format())
	}
}

func TestThumbnail(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1000, 500))

	small := Thumbnail(img, 480)
	if small.Bounds().Dx() != 480 {
		t.Errorf("expected width 480, got %d", small.Bounds().Dx())
	}
	if small.Bounds().Dy() != 240 {
		t.Errorf("expected aspect-preserving height 240, got %d", small.Bounds().Dy())
	}

	same := Thumbnail(img, 2000)
	if same.Bounds().Dx() != 1000 {
		t.Errorf("expected unscaled width 1000, got %d", same.Bounds().Dx())
	}
}
