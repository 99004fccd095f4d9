package region

import (
	"errors"
	"fmt"
)

// ErrRegionNotFound is returned by store operations referencing an id that
// does not exist (or was removed).
var ErrRegionNotFound = errors.New("region: no region with that id")

// DuplicateVariableNameError reports a Bind attempt using a variable name
// already held by another region. The store is left unchanged.
type DuplicateVariableNameError struct {
	Name     string // the rejected variable name
	HolderID string // region currently bound to Name
}

func (e *DuplicateVariableNameError) Error() string {
	return fmt.Sprintf("region: variable name %q is already bound to region %q", e.Name, e.HolderID)
}

// LayoutMismatchError reports an ImportLayout attempt whose saved template
// dimensions differ from the currently loaded template.
type LayoutMismatchError struct {
	LayoutWidth    int
	LayoutHeight   int
	TemplateWidth  int
	TemplateHeight int
}

func (e *LayoutMismatchError) Error() string {
	return fmt.Sprintf("region: layout was saved for a %dx%d template, current template is %dx%d",
		e.LayoutWidth, e.LayoutHeight, e.TemplateWidth, e.TemplateHeight)
}

// DuplicateRegionIDError reports a layout import containing the same region
// id twice.
type DuplicateRegionIDError struct {
	ID string
}

func (e *DuplicateRegionIDError) Error() string {
	return fmt.Sprintf("region: duplicate region id %q in layout", e.ID)
}
