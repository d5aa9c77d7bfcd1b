// Package structmerge implements a recursive structural merge over abstract
// value trees, used to combine a stored chart template with caller-supplied
// overrides without losing sibling data.
package structmerge

import "strconv"

// Node is a sealed interface representing one of the three structured value
// shapes: Object, Array or Scalar. Only those types implement it.
type Node interface {
	node()
}

// Object is a string-keyed mapping of child nodes.
type Object map[string]Node

func (Object) node() {}

// Array is an ordered sequence of child nodes.
type Array []Node

func (Array) node() {}

// Scalar is an opaque leaf value.
type Scalar struct {
	Value any
}

func (Scalar) node() {}

// Merge combines source into target and returns the merged tree. Neither
// input is mutated and the result shares no mutable memory with either, so
// callers may freely modify the returned value.
//
// Rules, applied per matching key and recursively:
//   - object/object: recurse per key; keys present only in source are added,
//     keys present only in target are untouched
//   - object/array: source entries merge into the object under their decimal
//     position ("0", "1", ...), last write wins
//   - array/array: source elements are appended to target's
//   - array/scalar: the scalar is appended to target's array
//   - anything else: source replaces target
func Merge(target, source Node) Node {
	if source == nil {
		return clone(target)
	}
	if target == nil {
		return clone(source)
	}

	switch t := target.(type) {
	case Object:
		switch s := source.(type) {
		case Object:
			out := make(Object, len(t)+len(s))
			for k, v := range t {
				out[k] = clone(v)
			}
			for k, v := range s {
				if existing, ok := out[k]; ok {
					out[k] = Merge(existing, v)
				} else {
					out[k] = clone(v)
				}
			}
			return out
		case Array:
			// Positional variant: array entries land under their index key.
			out := make(Object, len(t)+len(s))
			for k, v := range t {
				out[k] = clone(v)
			}
			for i, v := range s {
				k := strconv.Itoa(i)
				if existing, ok := out[k]; ok {
					out[k] = Merge(existing, v)
				} else {
					out[k] = clone(v)
				}
			}
			return out
		}
	case Array:
		switch s := source.(type) {
		case Array:
			out := make(Array, 0, len(t)+len(s))
			for _, v := range t {
				out = append(out, clone(v))
			}
			for _, v := range s {
				out = append(out, clone(v))
			}
			return out
		case Scalar:
			out := make(Array, 0, len(t)+1)
			for _, v := range t {
				out = append(out, clone(v))
			}
			return append(out, s)
		}
	}

	// Scalar target, mismatched shapes, or anything else: source wins.
	return clone(source)
}

// clone deep-copies a node tree.
func clone(n Node) Node {
	switch v := n.(type) {
	case Object:
		out := make(Object, len(v))
		for k, c := range v {
			out[k] = clone(c)
		}
		return out
	case Array:
		out := make(Array, len(v))
		for i, c := range v {
			out[i] = clone(c)
		}
		return out
	default:
		return n
	}
}

// FromAny converts a JSON-shaped value (maps, slices, scalars) into a Node.
func FromAny(v any) Node {
	switch val := v.(type) {
	case nil:
		return Scalar{Value: nil}
	case map[string]any:
		out := make(Object, len(val))
		for k, c := range val {
			out[k] = FromAny(c)
		}
		return out
	case []any:
		out := make(Array, len(val))
		for i, c := range val {
			out[i] = FromAny(c)
		}
		return out
	case Node:
		return val
	default:
		return Scalar{Value: val}
	}
}

// ToAny converts a Node back into its JSON-shaped value.
func ToAny(n Node) any {
	switch v := n.(type) {
	case Object:
		out := make(map[string]any, len(v))
		for k, c := range v {
			out[k] = ToAny(c)
		}
		return out
	case Array:
		out := make([]any, len(v))
		for i, c := range v {
			out[i] = ToAny(c)
		}
		return out
	case Scalar:
		return v.Value
	default:
		return nil
	}
}

// MergeMaps merges two JSON-shaped maps using the Node rules above.
func MergeMaps(target, source map[string]any) map[string]any {
	merged := Merge(FromAny(target), FromAny(source))
	out, _ := ToAny(merged).(map[string]any)
	return out
}
