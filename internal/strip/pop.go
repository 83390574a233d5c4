package strip

import (
	"strings"

	"github.com/roach88/nbstripout/internal/notebook"
)

// PopRecursive removes the entry addressed by a dotted key such as "a.b.c"
// and returns it. A key that exists verbatim at the current level wins over
// splitting it, so names that contain dots can still be removed. When any
// segment is missing or is not an object the tree is left untouched and
// ok is false.
func PopRecursive(n notebook.Node, key string) (notebook.Node, bool) {
	obj, isObj := n.(*notebook.Object)
	if !isObj || obj == nil {
		return nil, false
	}
	if obj.Has(key) {
		return obj.Delete(key)
	}
	head, tail, found := strings.Cut(key, ".")
	if !found {
		return nil, false
	}
	child, ok := obj.Get(head)
	if !ok {
		return nil, false
	}
	return PopRecursive(child, tail)
}
