package strip

import (
	"unicode/utf8"

	"github.com/roach88/nbstripout/internal/notebook"
)

// OutputSize measures an output: the summed length of every string in it
// (in code points), where non-string scalars count the length of their
// textual form and object keys are not counted.
func OutputSize(n notebook.Node) int64 {
	switch v := n.(type) {
	case notebook.String:
		return int64(utf8.RuneCountInString(string(v)))
	case notebook.Array:
		var total int64
		for _, elem := range v {
			total += OutputSize(elem)
		}
		return total
	case *notebook.Object:
		var total int64
		for _, k := range v.Keys() {
			elem, _ := v.Get(k)
			total += OutputSize(elem)
		}
		return total
	case notebook.Number:
		return int64(len(v))
	case notebook.Bool:
		if v {
			return int64(len("True"))
		}
		return int64(len("False"))
	default:
		return int64(len("None"))
	}
}

// verdict is the output-type rule that applies to one output.
type verdict int

const (
	verdictNone verdict = iota
	verdictKeep
	verdictDrop
)

// outputTypeFilter matches outputs against "output_type" and
// "output_type:name" rules.
type outputTypeFilter struct {
	keep map[string]bool
	drop map[string]bool
}

func newOutputTypeFilter(keep, drop []string) outputTypeFilter {
	f := outputTypeFilter{
		keep: make(map[string]bool, len(keep)),
		drop: make(map[string]bool, len(drop)),
	}
	for _, k := range keep {
		f.keep[k] = true
	}
	for _, d := range drop {
		f.drop[d] = true
	}
	return f
}

// restrictive reports whether only outputs matched by a keep rule survive.
func (f outputTypeFilter) restrictive() bool {
	return len(f.keep) > 0
}

// match returns the verdict for out. The "output_type:name" rule is checked
// before the bare "output_type" rule; at equal specificity keep wins.
func (f outputTypeFilter) match(out *notebook.Object) verdict {
	typ, _ := out.Text("output_type")
	if name, ok := out.Text("name"); ok {
		specific := typ + ":" + name
		if f.keep[specific] {
			return verdictKeep
		}
		if f.drop[specific] {
			return verdictDrop
		}
	}
	if f.keep[typ] {
		return verdictKeep
	}
	if f.drop[typ] {
		return verdictDrop
	}
	return verdictNone
}

// retain decides whether one output survives in a cell whose keep-output
// decision is cellKeep.
func (s *Stripper) retain(out notebook.Node, cellKeep bool) bool {
	if obj, ok := out.(*notebook.Object); ok {
		switch s.types.match(obj) {
		case verdictKeep:
			return true
		case verdictDrop:
			return false
		}
	}
	if s.types.restrictive() {
		return false
	}
	if cellKeep {
		return true
	}
	return OutputSize(out) <= s.cfg.MaxSize
}
