package textfit

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Variant selects one of the four style faces of a family.
type Variant struct {
	Bold   bool
	Italic bool
}

// Family is one typeface with up to four style variants. Variants missing
// from the family (single-file custom fonts) fall back to the regular face,
// so metrics stay consistent even without true bold/italic glyphs.
type Family struct {
	name  string
	fonts map[Variant]*opentype.Font
}

// Name returns the family's registered name.
func (f *Family) Name() string { return f.name }

// Face builds a font.Face of the variant at the given point size (72 DPI,
// so points equal pixels).
func (f *Family) Face(v Variant, size float64) (font.Face, error) {
	fnt := f.fonts[v]
	if fnt == nil {
		fnt = f.fonts[Variant{}]
	}
	if fnt == nil {
		return nil, fmt.Errorf("font family %q has no regular variant", f.name)
	}
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build %q face at size %v: %w", f.name, size, err)
	}
	return face, nil
}

var (
	defaultFamilyOnce sync.Once
	defaultFamily     *Family
)

// DefaultFamily returns the bundled Go font family with true regular, bold,
// italic and bold-italic variants.
func DefaultFamily() *Family {
	defaultFamilyOnce.Do(func() {
		defaultFamily = &Family{
			name: "Go",
			fonts: map[Variant]*opentype.Font{
				{}:                         mustParse(goregular.TTF),
				{Bold: true}:               mustParse(gobold.TTF),
				{Italic: true}:             mustParse(goitalic.TTF),
				{Bold: true, Italic: true}: mustParse(gobolditalic.TTF),
			},
		}
	})
	return defaultFamily
}

// mustParse parses embedded font data. The bundled Go fonts are known-good,
// so a parse failure is a programmer error.
func mustParse(data []byte) *opentype.Font {
	fnt, err := opentype.Parse(data)
	if err != nil {
		panic(fmt.Sprintf("textfit: failed to parse bundled font: %v", err))
	}
	return fnt
}

// LoadFamilyFile parses a TTF/OTF file as a single-variant family. All style
// variants share the one face; bold/italic render as the file's glyphs.
func LoadFamilyFile(name, path string) (*Family, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read font file: %w", err)
	}
	fnt, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font file %q: %w", path, err)
	}
	return &Family{
		name:  name,
		fonts: map[Variant]*opentype.Font{{}: fnt},
	}, nil
}

// Registry resolves style font-family names to loaded families.
//
// Unknown names resolve to the default family rather than failing: a layout
// authored on another machine may reference fonts that aren't present, and
// generation should degrade, not abort. Registry is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	families map[string]*Family
}

// NewRegistry creates a registry preloaded with the default family under
// both the empty name and "Go".
func NewRegistry() *Registry {
	def := DefaultFamily()
	return &Registry{
		families: map[string]*Family{
			"":   def,
			"Go": def,
		},
	}
}

// Register adds or replaces a family under its name.
func (r *Registry) Register(f *Family) {
	r.mu.Lock()
	r.families[f.Name()] = f
	r.mu.Unlock()
}

// Family resolves a style's fontFamily value. Unregistered names fall back
// to the default family.
func (r *Registry) Family(name string) *Family {
	r.mu.RLock()
	f, ok := r.families[name]
	r.mu.RUnlock()
	if ok {
		return f
	}
	return DefaultFamily()
}
