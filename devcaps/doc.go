// Package devcaps models the capabilities of an eSCL scan device.
//
// An eSCL device advertises its capabilities as an XML document
// listing its input sources (flatbed platen and single- or
// double-sided document feeder), and for each source the physical
// scan window bounds, the supported color modes and document
// formats, and the supported resolutions, given either as a discrete
// list or as per-axis ranges.
//
// Parse consumes such a document, already loaded into an xmlquery
// node tree, and either returns a complete validated Capabilities
// value or an error describing the first violation found; no
// partially parsed document is ever returned.  A Capabilities value
// is immutable once returned and safe for concurrent readers.
//
// SelectResolution maps a requested resolution onto the nearest
// resolution a source actually supports.
package devcaps
