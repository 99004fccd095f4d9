package region

// Store holds the regions of one editing session.
//
// All mutation goes through Store methods so the geometry and binding
// invariants hold at every step. The store is not safe for concurrent
// writers: region editing is single-user interactive state, and the
// duplicate-name and clamping checks are check-then-act. Callers that ever
// introduce concurrent edits must serialize mutations externally.
type Store struct {
	templateWidth  int
	templateHeight int
	regions        []*Region
	nextSeq        int
}

// NewStore creates an empty store for a template of the given pixel size.
func NewStore(templateWidth, templateHeight int) *Store {
	return &Store{
		templateWidth:  templateWidth,
		templateHeight: templateHeight,
	}
}

// TemplateWidth returns the width the store's geometry is clamped against.
func (s *Store) TemplateWidth() int { return s.templateWidth }

// TemplateHeight returns the height the store's geometry is clamped against.
func (s *Store) TemplateHeight() int { return s.templateHeight }

// Len returns the number of regions in the store.
func (s *Store) Len() int { return len(s.regions) }

// Add inserts a region and returns the stored copy.
//
// An empty ID is assigned the next letter in the a..z, aa.. sequence. An
// empty origin defaults to manual, an empty color to the default style color.
// Geometry is clamped into template bounds and rotation normalized.
func (s *Store) Add(r Region) Region {
	if r.ID == "" {
		r.ID = s.allocateID()
	} else if seq := letterSeq(r.ID); seq >= s.nextSeq {
		s.nextSeq = seq + 1
	}
	if r.Origin == "" {
		r.Origin = OriginManual
	}
	if r.Style.Color == "" {
		r.Style.Color = DefaultStyle().Color
	}
	r.Style.NormalizeColor()
	r.Rotation = NormalizeRotation(r.Rotation)
	s.clamp(&r.Rect)

	stored := r
	s.regions = append(s.regions, &stored)
	return stored
}

// Patch describes a partial region update. Nil fields are left unchanged.
type Patch struct {
	X        *int
	Y        *int
	W        *int
	H        *int
	Rotation *float64
	Style    *Style
}

// Update applies a partial update to the region with the given id.
// Resulting geometry is clamped and rotation normalized.
func (s *Store) Update(id string, p Patch) (Region, error) {
	r := s.find(id)
	if r == nil {
		return Region{}, ErrRegionNotFound
	}
	if p.X != nil {
		r.Rect.X = *p.X
	}
	if p.Y != nil {
		r.Rect.Y = *p.Y
	}
	if p.W != nil {
		r.Rect.W = *p.W
	}
	if p.H != nil {
		r.Rect.H = *p.H
	}
	if p.Rotation != nil {
		r.Rotation = NormalizeRotation(*p.Rotation)
	}
	if p.Style != nil {
		r.Style = *p.Style
		if r.Style.Color == "" {
			r.Style.Color = DefaultStyle().Color
		}
		r.Style.NormalizeColor()
	}
	s.clamp(&r.Rect)
	return *r, nil
}

// MoveTo positions the region's top-left corner, clamped into bounds.
func (s *Store) MoveTo(id string, x, y int) (Region, error) {
	return s.Update(id, Patch{X: &x, Y: &y})
}

// ResizeTo sets the region's width and height, clamped into bounds.
func (s *Store) ResizeTo(id string, w, h int) (Region, error) {
	return s.Update(id, Patch{W: &w, H: &h})
}

// RotateTo sets the region's rotation; the angle is normalized to [0,360).
func (s *Store) RotateTo(id string, degrees float64) (Region, error) {
	return s.Update(id, Patch{Rotation: &degrees})
}

// Bind associates the region with a dataset variable name.
//
// Binding fails with *DuplicateVariableNameError when another region already
// holds the exact (case-sensitive) name; the store is left unchanged. An
// empty name clears the region's binding. Surviving ids are never renumbered.
func (s *Store) Bind(id, name string) error {
	r := s.find(id)
	if r == nil {
		return ErrRegionNotFound
	}
	if name != "" {
		for _, other := range s.regions {
			if other.ID != id && other.Binding == name {
				return &DuplicateVariableNameError{Name: name, HolderID: other.ID}
			}
		}
	}
	r.Binding = name
	return nil
}

// Remove deletes the region and any binding it held.
func (s *Store) Remove(id string) error {
	for i, r := range s.regions {
		if r.ID == id {
			s.regions = append(s.regions[:i], s.regions[i+1:]...)
			return nil
		}
	}
	return ErrRegionNotFound
}

// Get returns a copy of the region with the given id.
func (s *Store) Get(id string) (Region, bool) {
	if r := s.find(id); r != nil {
		return *r, true
	}
	return Region{}, false
}

// List returns copies of all regions in insertion order.
func (s *Store) List() []Region {
	out := make([]Region, len(s.regions))
	for i, r := range s.regions {
		out[i] = *r
	}
	return out
}

// BoundNames returns the variable names of all bound regions, in region
// order. The set is unique by the Bind invariant.
func (s *Store) BoundNames() []string {
	var names []string
	for _, r := range s.regions {
		if r.Binding != "" {
			names = append(names, r.Binding)
		}
	}
	return names
}

func (s *Store) find(id string) *Region {
	for _, r := range s.regions {
		if r.ID == id {
			return r
		}
	}
	return nil
}

func (s *Store) allocateID() string {
	id := letterID(s.nextSeq)
	s.nextSeq++
	return id
}

// clamp corrects geometry into template bounds instead of rejecting it, so
// interactive edits can't dead-end on a validation error.
func (s *Store) clamp(r *Rect) {
	if r.W < 1 {
		r.W = 1
	}
	if r.H < 1 {
		r.H = 1
	}
	if r.W > s.templateWidth {
		r.W = s.templateWidth
	}
	if r.H > s.templateHeight {
		r.H = s.templateHeight
	}
	if r.X < 0 {
		r.X = 0
	}
	if r.Y < 0 {
		r.Y = 0
	}
	if r.X+r.W > s.templateWidth {
		r.X = s.templateWidth - r.W
	}
	if r.Y+r.H > s.templateHeight {
		r.Y = s.templateHeight - r.H
	}
}
