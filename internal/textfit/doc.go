// Package textfit computes the largest font size at which a text value fits
// inside a region's padded bounds.
//
// Fitting measures real glyph metrics for the style's actual font variant
// (bold and italic change advance widths, so a regular-weight approximation
// would over- or under-fit), binary-searches the integer font-size range for
// the largest size that fits, and accounts for region rotation by testing
// the rotated text rectangle's extents rather than the raw width/height.
//
// Fitting never fails outright on long text: below the minimum size the
// fitter clamps and flags overflow so batch generation can continue and
// report a warning instead of aborting.
//
// The bundled Go fonts (regular, bold, italic, bold-italic) serve as the
// default family; TTF/OTF files can be loaded as additional families.
package textfit
