package notebook

import (
	"strconv"
)

// Node is a sealed interface over the JSON value kinds a notebook can hold.
// Only Null, Bool, Number, String, Array and *Object implement it.
type Node interface {
	node() // Sealed
}

// Null is a JSON null.
type Null struct{}

func (Null) node() {}

// Bool is a JSON boolean.
type Bool bool

func (Bool) node() {}

// Number is a JSON number kept as its literal source text, so "1.0" and
// "1e3" are written back exactly as they were read.
type Number string

func (Number) node() {}

// Int64 parses the literal as a base-10 integer.
func (n Number) Int64() (int64, error) {
	return strconv.ParseInt(string(n), 10, 64)
}

// Int returns a Number for an integer value.
func Int(v int64) Number {
	return Number(strconv.FormatInt(v, 10))
}

// String is a JSON string.
type String string

func (String) node() {}

// Array is a JSON array.
type Array []Node

func (Array) node() {}

// Object is an ordered JSON object. Keys keep their insertion order;
// replacing the value of an existing key keeps its position.
type Object struct {
	keys   []string
	fields map[string]Node
}

func (*Object) node() {}

// NewObject creates an empty object.
func NewObject() *Object {
	return &Object{fields: make(map[string]Node)}
}

// Len returns the number of keys.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Keys returns the keys in document order.
func (o *Object) Keys() []string {
	keys := make([]string, len(o.keys))
	copy(keys, o.keys)
	return keys
}

// Has reports whether key is present.
func (o *Object) Has(key string) bool {
	_, ok := o.fields[key]
	return ok
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (Node, bool) {
	v, ok := o.fields[key]
	return v, ok
}

// Set stores v under key. New keys are appended at the end.
func (o *Object) Set(key string, v Node) {
	if o.fields == nil {
		o.fields = make(map[string]Node)
	}
	if _, ok := o.fields[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.fields[key] = v
}

// Delete removes key and returns the removed value.
func (o *Object) Delete(key string) (Node, bool) {
	v, ok := o.fields[key]
	if !ok {
		return nil, false
	}
	delete(o.fields, key)
	for i, k := range o.keys {
		if k == key {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
	return v, true
}

// Object returns the value under key if it is an object.
func (o *Object) Object(key string) (*Object, bool) {
	v, ok := o.fields[key]
	if !ok {
		return nil, false
	}
	obj, ok := v.(*Object)
	return obj, ok
}

// Array returns the value under key if it is an array.
func (o *Object) Array(key string) (Array, bool) {
	v, ok := o.fields[key]
	if !ok {
		return nil, false
	}
	arr, ok := v.(Array)
	return arr, ok
}

// Text returns the value under key if it is a string.
func (o *Object) Text(key string) (string, bool) {
	v, ok := o.fields[key]
	if !ok {
		return "", false
	}
	s, ok := v.(String)
	return string(s), ok
}

// Int returns the value under key if it is an integer number.
func (o *Object) Int(key string) (int64, bool) {
	v, ok := o.fields[key]
	if !ok {
		return 0, false
	}
	n, ok := v.(Number)
	if !ok {
		return 0, false
	}
	i, err := n.Int64()
	if err != nil {
		return 0, false
	}
	return i, true
}

// Truthy reports the truth value of n the way notebook tooling reads
// loosely-typed metadata flags: null, false, zero, "" and empty
// containers are false.
func Truthy(n Node) bool {
	switch v := n.(type) {
	case nil, Null:
		return false
	case Bool:
		return bool(v)
	case Number:
		f, err := strconv.ParseFloat(string(v), 64)
		return err != nil || f != 0
	case String:
		return v != ""
	case Array:
		return len(v) > 0
	case *Object:
		return v != nil && v.Len() > 0
	default:
		return false
	}
}

// Clone returns a deep copy of n.
func Clone(n Node) Node {
	switch v := n.(type) {
	case Array:
		if v == nil {
			return Array(nil)
		}
		out := make(Array, len(v))
		for i, elem := range v {
			out[i] = Clone(elem)
		}
		return out
	case *Object:
		if v == nil {
			return (*Object)(nil)
		}
		out := &Object{
			keys:   make([]string, len(v.keys)),
			fields: make(map[string]Node, len(v.fields)),
		}
		copy(out.keys, v.keys)
		for k, elem := range v.fields {
			out.fields[k] = Clone(elem)
		}
		return out
	default:
		return n
	}
}

// Equal reports whether a and b are structurally equal. Object key order is
// not significant; array order is.
func Equal(a, b Node) bool {
	switch av := a.(type) {
	case nil:
		return b == nil
	case Null:
		_, ok := b.(Null)
		return ok
	case Bool:
		bv, ok := b.(Bool)
		return ok && av == bv
	case Number:
		bv, ok := b.(Number)
		return ok && numbersEqual(av, bv)
	case String:
		bv, ok := b.(String)
		return ok && av == bv
	case Array:
		bv, ok := b.(Array)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case *Object:
		bv, ok := b.(*Object)
		if !ok || av.Len() != bv.Len() {
			return false
		}
		for k, v := range av.fields {
			other, ok := bv.fields[k]
			if !ok || !Equal(v, other) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// numbersEqual compares literals by value so "1.0" equals "1".
func numbersEqual(a, b Number) bool {
	if a == b {
		return true
	}
	fa, errA := strconv.ParseFloat(string(a), 64)
	fb, errB := strconv.ParseFloat(string(b), 64)
	return errA == nil && errB == nil && fa == fb
}
