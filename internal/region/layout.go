package region

import (
	"encoding/json"
	"fmt"
	"os"
)

// Layout is the serializable form of a session's regions.
//
// The template dimensions are embedded so a layout can only be imported onto
// a template of the same size; geometry saved against one template would
// otherwise land out of bounds on another.
type Layout struct {
	TemplateWidth  int            `json:"templateWidth"`
	TemplateHeight int            `json:"templateHeight"`
	Regions        []LayoutRegion `json:"regions"`
}

// LayoutRegion is one region entry in a saved layout.
type LayoutRegion struct {
	ID       string  `json:"id"`
	X        int     `json:"x"`
	Y        int     `json:"y"`
	W        int     `json:"w"`
	H        int     `json:"h"`
	Rotation float64 `json:"rotation"`
	Origin   Origin  `json:"origin,omitempty"`
	Binding  string  `json:"binding,omitempty"`
	Style    Style   `json:"style"`
}

// ExportLayout captures the store's current regions as a Layout.
func (s *Store) ExportLayout() Layout {
	l := Layout{
		TemplateWidth:  s.templateWidth,
		TemplateHeight: s.templateHeight,
		Regions:        make([]LayoutRegion, 0, len(s.regions)),
	}
	for _, r := range s.regions {
		l.Regions = append(l.Regions, LayoutRegion{
			ID:       r.ID,
			X:        r.Rect.X,
			Y:        r.Rect.Y,
			W:        r.Rect.W,
			H:        r.Rect.H,
			Rotation: r.Rotation,
			Origin:   r.Origin,
			Binding:  r.Binding,
			Style:    r.Style,
		})
	}
	return l
}

// ImportLayout replaces the store's regions with the layout's.
//
// The layout's template dimensions must match the store's exactly; a
// mismatch returns *LayoutMismatchError and leaves the store unchanged.
// Duplicate region ids or duplicate bound variable names in the layout are
// rejected the same way.
func (s *Store) ImportLayout(l Layout) error {
	if l.TemplateWidth != s.templateWidth || l.TemplateHeight != s.templateHeight {
		return &LayoutMismatchError{
			LayoutWidth:    l.TemplateWidth,
			LayoutHeight:   l.TemplateHeight,
			TemplateWidth:  s.templateWidth,
			TemplateHeight: s.templateHeight,
		}
	}

	seenIDs := make(map[string]bool, len(l.Regions))
	boundBy := make(map[string]string, len(l.Regions))
	for _, lr := range l.Regions {
		if lr.ID == "" {
			continue
		}
		if seenIDs[lr.ID] {
			return &DuplicateRegionIDError{ID: lr.ID}
		}
		seenIDs[lr.ID] = true
		if lr.Binding != "" {
			if holder, ok := boundBy[lr.Binding]; ok {
				return &DuplicateVariableNameError{Name: lr.Binding, HolderID: holder}
			}
			boundBy[lr.Binding] = lr.ID
		}
	}

	s.regions = nil
	s.nextSeq = 0
	for _, lr := range l.Regions {
		s.Add(Region{
			ID:       lr.ID,
			Rect:     Rect{X: lr.X, Y: lr.Y, W: lr.W, H: lr.H},
			Rotation: lr.Rotation,
			Origin:   lr.Origin,
			Binding:  lr.Binding,
			Style:    lr.Style,
		})
	}
	return nil
}

// ReadLayoutFile loads a layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("failed to read layout file: %w", err)
	}
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("failed to parse layout file: %w", err)
	}
	return l, nil
}

// WriteFile saves the layout as indented JSON.
func (l Layout) WriteFile(path string) error {
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode layout: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write layout file: %w", err)
	}
	return nil
}
