package huml

import (
	"fmt"
	"iter"
)

// ValueKind tags the content of a [Value].
type ValueKind int

const (
	KindNull ValueKind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindList
	KindDict
)

func (k ValueKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindDict:
		return "dict"
	default:
		return "unknown"
	}
}

// IntBase records the source radix of an [Value] of kind [KindInt]. The
// canonical serializer does not read it: it always writes decimal.
type IntBase int

const (
	BaseDecimal IntBase = iota
	BaseHex
	BaseOctal
	BaseBinary
)

// Value is a node in a HUML document tree: a tagged union of
// Null | Bool | Integer | Float | String | List | Dict.
//
// A Value's zero value is the Null value. Values are immutable once
// constructed; construct new ones with [Null], [Bool], [Int], [Float],
// [String], [NewList], or by building a [Dict] and calling [DictValue].
type Value struct {
	kind ValueKind
	b    bool
	i    int64
	base IntBase
	f    float64
	s    string
	list []Value
	dict *Dict
}

// Kind reports the value's tag.
func (v Value) Kind() ValueKind { return v.kind }

// Null returns the Null value.
func Null() Value { return Value{kind: KindNull} }

// Bool returns a Bool value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int returns an Integer value serialized in base 10.
func Int(i int64) Value { return Value{kind: KindInt, i: i, base: BaseDecimal} }

// IntInBase returns an Integer value that records its source base, for
// implementations that choose to preserve it across round-trip (§3,
// optional). The canonical serializer ignores this and always emits
// decimal; it is exposed for callers that build their own serialization.
func IntInBase(i int64, base IntBase) Value { return Value{kind: KindInt, i: i, base: base} }

// Float returns a Float value. NaN and +/-Inf are representable.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// String returns a String value.
func String(s string) Value { return Value{kind: KindString, s: s} }

// NewList returns a List value. The slice is copied; the caller may reuse
// it afterward.
func NewList(vs []Value) Value {
	cp := make([]Value, len(vs))
	copy(cp, vs)
	return Value{kind: KindList, list: cp}
}

// DictValue wraps a [*Dict] as a Value. The Dict must not be mutated after
// being wrapped; [Dict.Clone] if you need to keep modifying a copy.
func DictValue(d *Dict) Value {
	if d == nil {
		d = NewDict()
	}
	return Value{kind: KindDict, dict: d}
}

// BoolVal returns the value's boolean content. Panics if Kind() != KindBool.
func (v Value) BoolVal() bool {
	v.mustBe(KindBool)
	return v.b
}

// IntVal returns the value's integer content. Panics if Kind() != KindInt.
func (v Value) IntVal() int64 {
	v.mustBe(KindInt)
	return v.i
}

// IntBaseVal reports the source base recorded for an Integer value.
func (v Value) IntBaseVal() IntBase {
	v.mustBe(KindInt)
	return v.base
}

// FloatVal returns the value's float content. Panics if Kind() != KindFloat.
func (v Value) FloatVal() float64 {
	v.mustBe(KindFloat)
	return v.f
}

// StringVal returns the value's string content. Panics if Kind() != KindString.
func (v Value) StringVal() string {
	v.mustBe(KindString)
	return v.s
}

// ListVal returns the value's elements. Panics if Kind() != KindList. The
// returned slice must not be mutated.
func (v Value) ListVal() []Value {
	v.mustBe(KindList)
	return v.list
}

// DictVal returns the value's dict. Panics if Kind() != KindDict. The
// returned Dict must not be mutated.
func (v Value) DictVal() *Dict {
	v.mustBe(KindDict)
	return v.dict
}

func (v Value) mustBe(k ValueKind) {
	if v.kind != k {
		panic(fmt.Sprintf("huml: Value is %s, not %s", v.kind, k))
	}
}

// Dict is an ordered mapping from string keys to [Value]s. Keys are unique;
// insertion order is preserved and is significant for canonical
// serialization (see [Dict.Iter]) but not for [Value.Equal].
//
// The zero value is not usable; construct with [NewDict].
type Dict struct {
	keys   []string
	index  map[string]int
	values []Value
}

// NewDict returns an empty, ready-to-use Dict.
func NewDict() *Dict {
	return &Dict{index: make(map[string]int)}
}

// Len reports the number of entries.
func (d *Dict) Len() int { return len(d.keys) }

// Get looks up a key, reporting whether it was present.
func (d *Dict) Get(key string) (Value, bool) {
	i, ok := d.index[key]
	if !ok {
		return Value{}, false
	}
	return d.values[i], true
}

// Append inserts a new key-value pair, preserving insertion order. It
// returns an error if the key is already present; callers that need
// duplicate-key detection with position information should check
// beforehand and build a [*Error] with [DuplicateKey] themselves (this is
// what [Parse] does).
func (d *Dict) Append(key string, v Value) error {
	if _, ok := d.index[key]; ok {
		return fmt.Errorf("huml: duplicate key %q", key)
	}
	d.index[key] = len(d.keys)
	d.keys = append(d.keys, key)
	d.values = append(d.values, v)
	return nil
}

// Keys returns the dict's keys in insertion order. The returned slice must
// not be mutated.
func (d *Dict) Keys() []string { return d.keys }

// Iter walks entries in insertion order.
func (d *Dict) Iter() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for i, k := range d.keys {
			if !yield(k, d.values[i]) {
				return
			}
		}
	}
}

// Clone returns a shallow copy of d whose entry list is independent of d's
// (appending to the clone does not affect d), though contained [Value]s are
// shared (they are immutable, so this is safe).
func (d *Dict) Clone() *Dict {
	cp := &Dict{
		keys:   append([]string(nil), d.keys...),
		values: append([]Value(nil), d.values...),
		index:  make(map[string]int, len(d.index)),
	}
	for k, i := range d.index {
		cp.index[k] = i
	}
	return cp
}

// Document is the top-level parsed object: an optional version string
// (from a `%HUML v<version>` header) plus a root value, which is either a
// Dict, a List, or a single scalar (including Null).
type Document struct {
	HasVersion bool
	Version    string
	Root       Value
}
