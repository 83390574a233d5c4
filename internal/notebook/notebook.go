package notebook

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotNotebook is returned when a document is valid JSON but not a
// Jupyter notebook.
var ErrNotNotebook = errors.New("not a valid notebook")

// Notebook is a parsed Jupyter document.
type Notebook struct {
	// Root is the top-level object. Edits made through Cells and Metadata
	// are edits to Root.
	Root *Object

	// Major and Minor are the nbformat version numbers. They are read-only.
	Major int
	Minor int

	layout cellLayout
}

// ParseNotebook parses data and selects the cell layout for its format
// version.
func ParseNotebook(data []byte) (*Notebook, error) {
	n, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotNotebook, err)
	}
	return FromNode(n)
}

// FromNode wraps an already parsed tree.
func FromNode(n Node) (*Notebook, error) {
	root, ok := n.(*Object)
	if !ok {
		return nil, fmt.Errorf("%w: top-level value is not an object", ErrNotNotebook)
	}
	major, ok := root.Int("nbformat")
	if !ok {
		return nil, fmt.Errorf("%w: missing integer nbformat", ErrNotNotebook)
	}
	minor, _ := root.Int("nbformat_minor")

	nb := &Notebook{Root: root, Major: int(major), Minor: int(minor)}
	if major < 4 {
		nb.layout = worksheetLayout{root: root}
	} else {
		nb.layout = flatLayout{root: root}
	}
	return nb, nil
}

// Metadata returns the document-level metadata object.
func (nb *Notebook) Metadata() (*Object, bool) {
	return nb.Root.Object("metadata")
}

// Cells returns the cells in document order. In the legacy layout the cells
// of all worksheets are concatenated.
func (nb *Notebook) Cells() []Cell {
	return nb.layout.cells()
}

// FilterCells removes every cell for which keep returns false. In the legacy
// layout each worksheet is filtered on its own and kept even when emptied.
func (nb *Notebook) FilterCells(keep func(Cell) bool) {
	nb.layout.filter(keep)
}

// Clone returns a deep copy of the notebook.
func (nb *Notebook) Clone() *Notebook {
	root := Clone(nb.Root).(*Object)
	out := &Notebook{Root: root, Major: nb.Major, Minor: nb.Minor}
	if nb.Major < 4 {
		out.layout = worksheetLayout{root: root}
	} else {
		out.layout = flatLayout{root: root}
	}
	return out
}

// Marshal serializes the notebook in the nbformat layout.
func (nb *Notebook) Marshal() ([]byte, error) {
	return Marshal(nb.Root, JupyterFormat)
}

// cellLayout is the shared cell-iteration capability of the two notebook
// layouts.
type cellLayout interface {
	cells() []Cell
	filter(keep func(Cell) bool)
}

// flatLayout stores cells in a top-level "cells" array (nbformat >= 4).
type flatLayout struct {
	root *Object
}

func (l flatLayout) cells() []Cell {
	arr, _ := l.root.Array("cells")
	return collectCells(arr)
}

func (l flatLayout) filter(keep func(Cell) bool) {
	arr, ok := l.root.Array("cells")
	if !ok {
		return
	}
	l.root.Set("cells", filterCells(arr, keep))
}

// worksheetLayout stores cells in "worksheets[*].cells" (nbformat < 4).
type worksheetLayout struct {
	root *Object
}

func (l worksheetLayout) worksheets() []*Object {
	arr, _ := l.root.Array("worksheets")
	var out []*Object
	for _, n := range arr {
		if ws, ok := n.(*Object); ok {
			out = append(out, ws)
		}
	}
	return out
}

func (l worksheetLayout) cells() []Cell {
	var out []Cell
	for _, ws := range l.worksheets() {
		arr, _ := ws.Array("cells")
		out = append(out, collectCells(arr)...)
	}
	return out
}

func (l worksheetLayout) filter(keep func(Cell) bool) {
	for _, ws := range l.worksheets() {
		arr, ok := ws.Array("cells")
		if !ok {
			continue
		}
		ws.Set("cells", filterCells(arr, keep))
	}
}

func collectCells(arr Array) []Cell {
	out := make([]Cell, 0, len(arr))
	for _, n := range arr {
		if obj, ok := n.(*Object); ok {
			out = append(out, Cell{obj})
		}
	}
	return out
}

// filterCells keeps entries that are not cells untouched.
func filterCells(arr Array, keep func(Cell) bool) Array {
	out := make(Array, 0, len(arr))
	for _, n := range arr {
		obj, ok := n.(*Object)
		if !ok || keep(Cell{obj}) {
			out = append(out, n)
		}
	}
	return out
}

// Cell is one cell object of a notebook.
type Cell struct {
	*Object
}

// Type returns cell_type ("code", "markdown", "raw").
func (c Cell) Type() string {
	t, _ := c.Text("cell_type")
	return t
}

// Metadata returns the cell metadata object.
func (c Cell) Metadata() (*Object, bool) {
	return c.Object.Object("metadata")
}

// Tags returns metadata.tags, ignoring entries that are not strings.
func (c Cell) Tags() []string {
	md, ok := c.Metadata()
	if !ok {
		return nil
	}
	arr, ok := md.Array("tags")
	if !ok {
		return nil
	}
	tags := make([]string, 0, len(arr))
	for _, n := range arr {
		if s, ok := n.(String); ok {
			tags = append(tags, string(s))
		}
	}
	return tags
}

// HasTag reports whether tag is listed in metadata.tags.
func (c Cell) HasTag(tag string) bool {
	for _, t := range c.Tags() {
		if t == tag {
			return true
		}
	}
	return false
}

// Outputs returns the outputs array when the cell has one.
func (c Cell) Outputs() (Array, bool) {
	return c.Array("outputs")
}

// HasContent reports whether any source line contains a non-whitespace
// character. source may be a single string or a list of strings.
func (c Cell) HasContent() bool {
	src, ok := c.Get("source")
	if !ok {
		return false
	}
	switch v := src.(type) {
	case String:
		return strings.TrimSpace(string(v)) != ""
	case Array:
		for _, line := range v {
			if s, ok := line.(String); ok && strings.TrimSpace(string(s)) != "" {
				return true
			}
		}
	}
	return false
}
