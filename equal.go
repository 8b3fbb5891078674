package huml

import "math"

// Equal reports whether v and other are semantically equal: recursively equal
// content where, for Dicts, entry order does not matter. NaN floats are
// considered equal to each other (HUML's `nan` is a single literal value,
// not IEEE NaN's usual incomparability).
func (v Value) Equal(other Value) bool {
	return valueEqual(v, other, false)
}

// EqualOrdered reports whether v and other are equal the way [Value.Equal]
// does, but additionally requires Dicts to have the same insertion order —
// the comparison relevant to canonical serialization.
func (v Value) EqualOrdered(other Value) bool {
	return valueEqual(v, other, true)
}

func valueEqual(a, b Value, ordered bool) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindInt:
		return a.i == b.i
	case KindFloat:
		if math.IsNaN(a.f) && math.IsNaN(b.f) {
			return true
		}
		return a.f == b.f
	case KindString:
		return a.s == b.s
	case KindList:
		if len(a.list) != len(b.list) {
			return false
		}
		for i := range a.list {
			if !valueEqual(a.list[i], b.list[i], ordered) {
				return false
			}
		}
		return true
	case KindDict:
		return dictEqual(a.dict, b.dict, ordered)
	default:
		return false
	}
}

func dictEqual(a, b *Dict, ordered bool) bool {
	if a.Len() != b.Len() {
		return false
	}
	if ordered {
		for i, k := range a.keys {
			if b.keys[i] != k || !valueEqual(a.values[i], b.values[i], true) {
				return false
			}
		}
		return true
	}
	for k, av := range a.Iter() {
		bv, ok := b.Get(k)
		if !ok || !valueEqual(av, bv, false) {
			return false
		}
	}
	return true
}

// Equal reports whether d and other are semantically equal: same keys
// mapping to equal values, regardless of order.
func (d *Dict) Equal(other *Dict) bool { return dictEqual(d, other, false) }

// Equal reports whether two documents are equal: same version metadata
// and structurally equal (order-significant) root values, per §4.4.
func Equal(a, b Document) bool {
	return a.HasVersion == b.HasVersion && a.Version == b.Version && a.Root.EqualOrdered(b.Root)
}
