package imaging

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"os"
	"sync"

	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
)

// UnreadableImageError reports a template file that could not be opened or
// decoded. It is fatal for the session: no region work can start without a
// decoded template.
type UnreadableImageError struct {
	Path string // file that failed to load
	Err  error  // underlying open or decode error
}

func (e *UnreadableImageError) Error() string {
	return fmt.Sprintf("unreadable template image %q: %v", e.Path, e.Err)
}

func (e *UnreadableImageError) Unwrap() error {
	return e.Err
}

// Template is an immutable decoded certificate template.
//
// The pixel data is loaded once and never mutated; renders always paint onto
// a fresh copy. A Template is safe to share across goroutines.
type Template struct {
	img    image.Image
	width  int
	height int
	path   string
	format string
}

// LoadTemplate opens and decodes a template image file.
//
// Supported formats are PNG, JPEG, GIF, BMP and TIFF. On failure the returned
// error is an *UnreadableImageError wrapping the underlying cause.
func LoadTemplate(path string) (*Template, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &UnreadableImageError{Path: path, Err: err}
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, &UnreadableImageError{Path: path, Err: err}
	}

	return NewTemplate(img, path, format), nil
}

// NewTemplate wraps an already-decoded image as a Template.
// The caller must not mutate img afterwards.
func NewTemplate(img image.Image, path, format string) *Template {
	b := img.Bounds()
	return &Template{
		img:    img,
		width:  b.Dx(),
		height: b.Dy(),
		path:   path,
		format: format,
	}
}

// Image returns the decoded pixel data. Callers must treat it as read-only.
func (t *Template) Image() image.Image { return t.img }

// Width returns the template width in pixels.
func (t *Template) Width() int { return t.width }

// Height returns the template height in pixels.
func (t *Template) Height() int { return t.height }

// Path returns the file path the template was loaded from, if any.
func (t *Template) Path() string { return t.path }

// Format returns the decoded image format ("png", "jpeg", ...), if known.
func (t *Template) Format() string { return t.format }

// Bounds returns the template rectangle anchored at (0,0).
func (t *Template) Bounds() image.Rectangle {
	return image.Rect(0, 0, t.width, t.height)
}

// Cache provides thread-safe caching of decoded templates to avoid redundant
// disk reads when the same template is referenced repeatedly within a session.
//
// Cached templates remain in memory until explicitly removed via Evict() or
// Clear().
type Cache struct {
	mu        sync.RWMutex
	templates map[string]*Template
}

// NewCache creates an empty template cache ready for concurrent use.
func NewCache() *Cache {
	return &Cache{
		templates: make(map[string]*Template),
	}
}

// Load returns the cached template for path, loading it from disk on a miss.
//
// The template is cached by the exact path string provided; relative and
// absolute paths to the same file produce separate entries.
func (c *Cache) Load(path string) (*Template, error) {
	c.mu.RLock()
	if t, ok := c.templates[path]; ok {
		c.mu.RUnlock()
		return t, nil
	}
	c.mu.RUnlock()

	t, err := LoadTemplate(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.templates[path] = t
	c.mu.Unlock()

	return t, nil
}

// Evict removes the template loaded from path, if cached.
func (c *Cache) Evict(path string) {
	c.mu.Lock()
	delete(c.templates, path)
	c.mu.Unlock()
}

// Clear removes all cached templates, freeing the associated memory.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.templates = make(map[string]*Template)
	c.mu.Unlock()
}
