// Package imaging handles template image I/O for certificate generation.
//
// A certificate template is an immutable decoded raster image loaded once per
// editing session. This package decodes PNG, JPEG, GIF, BMP and TIFF files,
// caches decoded templates by path, and writes generated certificates as
// quality-95 JPEG output.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with (0,0) at the top-left corner,
// X increasing rightward and Y increasing downward.
//
// # Thread Safety
//
// The Cache type is safe for concurrent use. Template values are immutable
// after loading and may be shared freely across goroutines.
//
// # Error Handling
//
// A template that cannot be opened or decoded yields an *UnreadableImageError.
// This is fatal to the session: no region work may begin without a decoded
// template.
package imaging
