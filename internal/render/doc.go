// Package render paints dataset values into the bound regions of a template
// and drives batch generation of the resulting certificates.
//
// Render produces a single composited image for one dataset row. RenderBatch
// fans rows out across workers, writes numbered JPEG files in row order, and
// returns a report of what was generated, what was skipped and why, and which
// fields overflowed their regions.
package render
