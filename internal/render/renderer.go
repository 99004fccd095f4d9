package render

import (
	"fmt"
	"image"

	"github.com/fogleman/gg"

	"certforge/internal/dataset"
	"certforge/internal/imaging"
	"certforge/internal/region"
	"certforge/internal/textfit"
)

// OverflowWarning records a field whose text did not fit its region even at
// the minimum (or pinned) font size. The text is still drawn, clamped.
type OverflowWarning struct {
	RegionID string
	Binding  string
	Text     string
}

func (w OverflowWarning) String() string {
	return fmt.Sprintf("region %s (%s): %q exceeds region bounds", w.RegionID, w.Binding, w.Text)
}

// Renderer composites dataset values onto template images.
type Renderer struct {
	fitter *textfit.Fitter

	// renderRow is swapped out by batch tests to force row failures.
	renderRow func(*imaging.Template, []region.Region, dataset.Row) (image.Image, []OverflowWarning, error)
}

// NewRenderer creates a renderer fitting text through fitter.
func NewRenderer(fitter *textfit.Fitter) *Renderer {
	r := &Renderer{fitter: fitter}
	r.renderRow = r.Render
	return r
}

// Render paints one dataset row onto a copy of the template.
//
// Each bound region receives its row value: the value is fitted (truncation,
// size search, rotation-aware extents), then drawn centered in the region
// with the region's style, rotated about the region center. Unbound regions
// and empty values are skipped. The template itself is never modified.
func (r *Renderer) Render(tpl *imaging.Template, regions []region.Region, row dataset.Row) (image.Image, []OverflowWarning, error) {
	if tpl == nil {
		return nil, nil, fmt.Errorf("render: nil template")
	}

	dc := gg.NewContext(tpl.Width(), tpl.Height())
	dc.DrawImage(tpl.Image(), 0, 0)

	var warnings []OverflowWarning
	for _, reg := range regions {
		if !reg.Bound() {
			continue
		}
		fit, err := r.fitter.Fit(row[reg.Binding], reg, reg.Style)
		if err != nil {
			return nil, nil, fmt.Errorf("render: region %s: %w", reg.ID, err)
		}
		if fit.Empty() {
			continue
		}
		if fit.Overflow {
			warnings = append(warnings, OverflowWarning{
				RegionID: reg.ID,
				Binding:  reg.Binding,
				Text:     fit.Text,
			})
		}
		if err := r.drawRegion(dc, reg, fit); err != nil {
			return nil, nil, fmt.Errorf("render: region %s: %w", reg.ID, err)
		}
	}
	return dc.Image(), warnings, nil
}

// drawRegion paints one fitted value. The rotation applies to the text and
// its underline together, about the region center.
func (r *Renderer) drawRegion(dc *gg.Context, reg region.Region, fit textfit.Fit) error {
	family := r.fitter.Registry().Family(reg.Style.FontFamily)
	variant := textfit.Variant{Bold: reg.Style.Bold, Italic: reg.Style.Italic}
	face, err := family.Face(variant, float64(fit.FontSize))
	if err != nil {
		return err
	}
	defer face.Close()

	cx := float64(reg.Rect.X) + float64(reg.Rect.W)/2
	cy := float64(reg.Rect.Y) + float64(reg.Rect.H)/2

	dc.Push()
	defer dc.Pop()
	if reg.Rotation != 0 {
		dc.RotateAbout(gg.Radians(reg.Rotation), cx, cy)
	}
	dc.SetFontFace(face)
	dc.SetColor(reg.Style.TextColor())

	lineHeight := float64(fit.Height) / float64(len(fit.Lines))
	top := cy - float64(fit.Height)/2
	for i, line := range fit.Lines {
		ly := top + lineHeight*(float64(i)+0.5)
		dc.DrawStringAnchored(line, cx, ly, 0.5, 0.5)

		if reg.Style.Underline && line != "" {
			lw, lh := dc.MeasureString(line)
			baseline := ly + lh/2
			dc.SetLineWidth(maxFloat(1, float64(fit.FontSize)/12))
			dc.DrawLine(cx-lw/2, baseline+2, cx+lw/2, baseline+2)
			dc.Stroke()
		}
	}
	return nil
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
