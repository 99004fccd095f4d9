// Package region models the editable text regions placed on a certificate
// template and the session-scoped store that owns them.
//
// A region is a rectangle in template pixel space with an optional rotation,
// a text style, and an optional binding to a named dataset variable. Regions
// are created by the detector (origin "auto") or by the user (origin
// "manual"), then refined through discrete, validated mutation commands:
// MoveTo, ResizeTo, RotateTo, Bind.
//
// # Invariants
//
//   - Geometry is always clamped inside the template bounds; out-of-range
//     edits are corrected, never rejected, so an edit can't dead-end.
//   - Rotation is normalized to [0,360).
//   - Region ids are unique within a session and never renumbered.
//   - Bound variable names are unique across regions (case-sensitive).
//
// Overlapping regions are permitted; the store does not police overlap.
//
// # Ownership
//
// A Store belongs to exactly one editing session. Loading a new template
// discards the store and starts a fresh one; there is no global state.
package region
