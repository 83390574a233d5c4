package strip

import (
	"github.com/roach88/nbstripout/internal/notebook"
)

const (
	keepOutputKey = "keep_output"
	initCellKey   = "init_cell"
	keepOutputTag = "keep_output"
)

// ResolveKeepOutput decides whether the outputs of cell are kept.
//
// Precedence:
//  1. metadata.init_cell, when present: its truth value, forced false by
//     stripInitCells.
//  2. metadata.keep_output and the "keep_output" tag: keep if either says
//     so. Metadata false with the tag set is a *MetadataError.
//  3. defaultKeep.
//
// The returned MetadataError has CellIndex 0; the transform fills in the
// position.
func ResolveKeepOutput(cell notebook.Cell, defaultKeep, stripInitCells bool) (bool, error) {
	md, ok := cell.Metadata()
	if !ok {
		return defaultKeep, nil
	}
	if v, ok := md.Get(initCellKey); ok {
		return notebook.Truthy(v) && !stripInitCells, nil
	}

	metaValue, hasMeta := md.Get(keepOutputKey)
	metaKeep := hasMeta && notebook.Truthy(metaValue)
	hasTag := cell.HasTag(keepOutputTag)

	if hasMeta && hasTag && !metaKeep {
		return false, newContradictionError(0)
	}
	if hasMeta || hasTag {
		return metaKeep || hasTag, nil
	}
	return defaultKeep, nil
}

// documentKeepOutput resolves the default for every cell of a document:
// the configured value when set, else the document's metadata.keep_output,
// else false.
func documentKeepOutput(nb *notebook.Notebook, configured *bool) bool {
	if configured != nil {
		return *configured
	}
	md, ok := nb.Metadata()
	if !ok {
		return false
	}
	v, ok := md.Get(keepOutputKey)
	return ok && notebook.Truthy(v)
}

// dropPredicate reports whether a cell survives.
type dropPredicate func(notebook.Cell) bool

// dropPredicates builds the active predicates for cfg. A cell is removed if
// any predicate rejects it.
func dropPredicates(cfg Config) []dropPredicate {
	var preds []dropPredicate
	if cfg.DropEmptyCells {
		preds = append(preds, notebook.Cell.HasContent)
	}
	for _, tag := range cfg.DropTaggedCells {
		tag := tag // per-iteration copy; go.mod targets Go 1.21 loop semantics
		preds = append(preds, func(c notebook.Cell) bool {
			return !c.HasTag(tag)
		})
	}
	return preds
}

// keepCell composes preds with logical AND.
func keepCell(preds []dropPredicate) func(notebook.Cell) bool {
	return func(c notebook.Cell) bool {
		for _, p := range preds {
			if !p(c) {
				return false
			}
		}
		return true
	}
}
