// Package strip implements notebook normalization: the rules that decide,
// per document and per cell, what to keep, drop or rewrite so that version
// control sees only source changes.
//
// Two parts cooperate:
//
// Policy resolution (policy.go) decides for one cell whether its outputs are
// kept, from explicit flags, per-cell metadata, tags and the document default,
// and which cells are dropped outright by the drop predicates.
//
// The document transform (strip.go) walks the cells of a notebook in order,
// applies the drop predicates, filters outputs by size and output type, nulls
// execution counters, renumbers cell ids and erases configured metadata paths.
//
// The transform is deterministic and idempotent: stripping an already
// stripped notebook with the same Config changes nothing.
package strip
