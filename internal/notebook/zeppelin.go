package notebook

import (
	"errors"
	"fmt"
)

// ErrNotZeppelin is returned when a document has no "paragraphs" array.
var ErrNotZeppelin = errors.New("not a valid Zeppelin note")

// Zeppelin is a parsed Zeppelin note: a flat list of paragraphs.
type Zeppelin struct {
	Root *Object
}

// ParseZeppelin parses a Zeppelin note.
func ParseZeppelin(data []byte) (*Zeppelin, error) {
	n, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotZeppelin, err)
	}
	root, ok := n.(*Object)
	if !ok {
		return nil, fmt.Errorf("%w: top-level value is not an object", ErrNotZeppelin)
	}
	if _, ok := root.Array("paragraphs"); !ok {
		return nil, fmt.Errorf("%w: missing paragraphs", ErrNotZeppelin)
	}
	return &Zeppelin{Root: root}, nil
}

// Paragraphs returns the paragraph objects in order.
func (z *Zeppelin) Paragraphs() []*Object {
	arr, _ := z.Root.Array("paragraphs")
	out := make([]*Object, 0, len(arr))
	for _, n := range arr {
		if obj, ok := n.(*Object); ok {
			out = append(out, obj)
		}
	}
	return out
}

// Clone returns a deep copy of the note.
func (z *Zeppelin) Clone() *Zeppelin {
	return &Zeppelin{Root: Clone(z.Root).(*Object)}
}

// Marshal serializes the note. Stream output gets a trailing newline, file
// output does not.
func (z *Zeppelin) Marshal(stream bool) ([]byte, error) {
	f := ZeppelinFormat
	f.TrailingNewline = stream
	return Marshal(z.Root, f)
}
