package strip

import (
	"errors"
	"fmt"
)

// MetadataError reports a cell whose metadata contradicts its tags: the
// metadata says keep_output is false while the "keep_output" tag is set.
// It aborts the transform of the whole document.
type MetadataError struct {
	// CellIndex is the position of the offending cell among the surviving
	// cells of the document.
	CellIndex int

	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (e *MetadataError) Error() string {
	return fmt.Sprintf("cell %d: %s", e.CellIndex, e.Message)
}

// IsMetadataError returns true if err is or wraps a MetadataError.
func IsMetadataError(err error) bool {
	var me *MetadataError
	return errors.As(err, &me)
}

func newContradictionError(index int) *MetadataError {
	return &MetadataError{
		CellIndex: index,
		Message:   "cell metadata contradicts tags: `keep_output` is false, but `keep_output` in tags",
	}
}
