// Package notebook provides the document model and codec for notebook files.
//
// A notebook is held as a generic, order-preserving tree of nodes rather than
// a schema'd struct, so fields the stripper never touches survive a
// parse/serialize round trip unchanged: key order, number literals and any
// metadata written by third-party extensions.
//
// Two document kinds are supported:
//   - Notebook: Jupyter/IPython documents. The cell layout (flat "cells" for
//     nbformat >= 4, "worksheets" for older files) is chosen once at parse time.
//   - Zeppelin: flat "paragraphs" documents.
//
// The writer reproduces the byte layout of the reference Python writers
// (one-space indent for Jupyter, two-space ASCII-escaped for Zeppelin), so a
// notebook that needs no changes is written back byte-for-byte.
package notebook
