package notebook

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const flatNotebook = `{
 "cells": [
  {"cell_type": "code", "metadata": {"tags": ["a", "b"]}, "outputs": [], "source": ["x = 1\n"]},
  {"cell_type": "markdown", "metadata": {}, "source": "  \n\t"},
  "not a cell",
  {"cell_type": "raw", "source": ["", "  text  "]}
 ],
 "metadata": {"keep_output": true},
 "nbformat": 4,
 "nbformat_minor": 2
}`

const legacyNotebook = `{
 "metadata": {},
 "nbformat": 3,
 "nbformat_minor": 0,
 "worksheets": [
  {"cells": [
   {"cell_type": "code", "metadata": {}, "input": ["1"], "prompt_number": 1, "outputs": []},
   {"cell_type": "markdown", "metadata": {"tags": ["drop"]}, "source": ["text"]}
  ]},
  {"cells": [
   {"cell_type": "markdown", "metadata": {"tags": ["drop"]}, "source": ["gone"]}
  ]}
 ]
}`

func TestParseNotebookSelectsLayout(t *testing.T) {
	nb, err := ParseNotebook([]byte(flatNotebook))
	require.NoError(t, err)
	assert.Equal(t, 4, nb.Major)
	assert.Equal(t, 2, nb.Minor)
	assert.IsType(t, flatLayout{}, nb.layout)
	assert.Len(t, nb.Cells(), 3, "non-object entries are not cells")

	legacy, err := ParseNotebook([]byte(legacyNotebook))
	require.NoError(t, err)
	assert.Equal(t, 3, legacy.Major)
	assert.IsType(t, worksheetLayout{}, legacy.layout)
	assert.Len(t, legacy.Cells(), 3)
}

func TestParseNotebookRejectsNonNotebooks(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"invalid json", "{"},
		{"array", "[]"},
		{"missing nbformat", `{"cells": []}`},
		{"string nbformat", `{"nbformat": "4", "cells": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseNotebook([]byte(tt.input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrNotNotebook))
		})
	}
}

func TestFilterCellsFlat(t *testing.T) {
	nb, err := ParseNotebook([]byte(flatNotebook))
	require.NoError(t, err)

	nb.FilterCells(func(c Cell) bool { return c.Type() != "markdown" })

	cells := nb.Cells()
	require.Len(t, cells, 2)
	assert.Equal(t, "code", cells[0].Type())
	assert.Equal(t, "raw", cells[1].Type())

	raw, _ := nb.Root.Array("cells")
	assert.Len(t, raw, 3, "the non-cell entry stays in place")
}

func TestFilterCellsLegacyKeepsEmptyWorksheets(t *testing.T) {
	nb, err := ParseNotebook([]byte(legacyNotebook))
	require.NoError(t, err)

	nb.FilterCells(func(c Cell) bool { return !c.HasTag("drop") })

	require.Len(t, nb.Cells(), 1)
	worksheets, _ := nb.Root.Array("worksheets")
	require.Len(t, worksheets, 2)
	second := worksheets[1].(*Object)
	cells, ok := second.Array("cells")
	require.True(t, ok)
	assert.Empty(t, cells)
}

func TestCellHelpers(t *testing.T) {
	nb, err := ParseNotebook([]byte(flatNotebook))
	require.NoError(t, err)
	cells := nb.Cells()

	assert.Equal(t, []string{"a", "b"}, cells[0].Tags())
	assert.True(t, cells[0].HasTag("b"))
	assert.False(t, cells[0].HasTag("c"))
	_, ok := cells[0].Outputs()
	assert.True(t, ok)

	assert.True(t, cells[0].HasContent())
	assert.False(t, cells[1].HasContent(), "whitespace-only string source")
	assert.True(t, cells[2].HasContent())
	assert.Nil(t, cells[2].Tags(), "no metadata means no tags")

	md, ok := nb.Metadata()
	require.True(t, ok)
	assert.True(t, md.Has("keep_output"))
}

func TestNotebookCloneIsIndependent(t *testing.T) {
	nb, err := ParseNotebook([]byte(legacyNotebook))
	require.NoError(t, err)

	cp := nb.Clone()
	cp.FilterCells(func(Cell) bool { return false })

	assert.Empty(t, cp.Cells())
	assert.Len(t, nb.Cells(), 3)
	assert.False(t, Equal(nb.Root, cp.Root))
}

func TestParseZeppelin(t *testing.T) {
	z, err := ParseZeppelin([]byte(`{"paragraphs": [{"text": "a", "results": {"code": "SUCCESS"}}, 1], "name": "n"}`))
	require.NoError(t, err)
	assert.Len(t, z.Paragraphs(), 1)

	out, err := z.Marshal(true)
	require.NoError(t, err)
	assert.Equal(t, byte('\n'), out[len(out)-1])

	out, err = z.Marshal(false)
	require.NoError(t, err)
	assert.Equal(t, byte('}'), out[len(out)-1])

	_, err = ParseZeppelin([]byte(`{"cells": []}`))
	assert.True(t, errors.Is(err, ErrNotZeppelin))
}

func TestZeppelinCloneIsIndependent(t *testing.T) {
	z, err := ParseZeppelin([]byte(`{"paragraphs": [{"text": "x", "results": {"code": "SUCCESS"}}]}`))
	require.NoError(t, err)

	cp := z.Clone()
	cp.Paragraphs()[0].Set("results", NewObject())

	results, ok := z.Paragraphs()[0].Object("results")
	require.True(t, ok)
	assert.Equal(t, 1, results.Len())
	assert.False(t, Equal(z.Root, cp.Root))
}
