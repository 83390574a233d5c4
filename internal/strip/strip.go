package strip

import (
	"strconv"

	"go.uber.org/zap"

	"github.com/roach88/nbstripout/internal/notebook"
)

// Stripper applies one Config to any number of documents.
type Stripper struct {
	cfg        Config
	paths      erasePaths
	predicates []dropPredicate
	types      outputTypeFilter
	logger     *zap.Logger
}

// New prepares a Stripper. Invalid extra keys are reported to logger once,
// here, and ignored afterwards. A nil logger discards diagnostics.
func New(cfg Config, logger *zap.Logger) *Stripper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Stripper{
		cfg:        cfg,
		paths:      splitExtraKeys(cfg.ExtraKeys, cfg.KeepMetadataKeys, logger),
		predicates: dropPredicates(cfg),
		types:      newOutputTypeFilter(cfg.KeepOutputTypes, cfg.DropOutputTypes),
		logger:     logger,
	}
}

// StripOutput strips nb with cfg. See Stripper.Strip.
func StripOutput(nb *notebook.Notebook, cfg Config) (*notebook.Notebook, error) {
	return New(cfg, nil).Strip(nb)
}

// Strip normalizes nb in place and returns it. On a *MetadataError the
// document must be discarded: cells before the offending one have already
// been rewritten.
func (s *Stripper) Strip(nb *notebook.Notebook) (*notebook.Notebook, error) {
	defaultKeep := documentKeepOutput(nb, s.cfg.KeepOutput)

	if md, ok := nb.Metadata(); ok {
		for _, path := range s.paths.document {
			PopRecursive(md, path)
		}
	}

	if len(s.predicates) > 0 {
		before := len(nb.Cells())
		nb.FilterCells(keepCell(s.predicates))
		s.logger.Debug("applied drop predicates",
			zap.Int("predicates", len(s.predicates)),
			zap.Int("dropped", before-len(nb.Cells())))
	}

	for i, cell := range nb.Cells() {
		if err := s.stripCell(i, cell, defaultKeep); err != nil {
			return nil, err
		}
	}
	return nb, nil
}

func (s *Stripper) stripCell(index int, cell notebook.Cell, defaultKeep bool) error {
	keep, err := ResolveKeepOutput(cell, defaultKeep, s.cfg.StripInitCells)
	if err != nil {
		if me, ok := err.(*MetadataError); ok {
			me.CellIndex = index
		}
		return err
	}

	if outputs, ok := cell.Outputs(); ok {
		kept := make(notebook.Array, 0, len(outputs))
		for _, out := range outputs {
			if s.retain(out, keep) {
				kept = append(kept, out)
			}
		}
		if !s.cfg.KeepCount {
			for _, out := range kept {
				if obj, ok := out.(*notebook.Object); ok && obj.Has("execution_count") {
					obj.Set("execution_count", notebook.Null{})
				}
			}
		}
		cell.Set("outputs", kept)
	}

	if !s.cfg.KeepCount {
		for _, key := range []string{"prompt_number", "execution_count"} {
			if cell.Has(key) {
				cell.Set(key, notebook.Null{})
			}
		}
	}

	if !s.cfg.KeepID && cell.Has("id") {
		cell.Set("id", notebook.String(strconv.Itoa(index)))
	}

	for _, path := range s.paths.cell {
		PopRecursive(cell.Object, path)
	}
	return nil
}

// Changed reports whether two documents differ structurally.
func Changed(before, after notebook.Node) bool {
	return !notebook.Equal(before, after)
}
