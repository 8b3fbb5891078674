package huml

import (
	"math"
	"testing"
)

func TestDictAppendAndGet(t *testing.T) {
	t.Parallel()

	d := NewDict()
	if err := d.Append("a", Int(1)); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := d.Append("b", String("x")); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := d.Append("a", Int(2)); err == nil {
		t.Fatal("Append: expected error on duplicate key, got nil")
	}

	v, ok := d.Get("a")
	if !ok || v.IntVal() != 1 {
		t.Fatalf("Get(a) = %v, %v; want 1, true", v, ok)
	}
	if _, ok := d.Get("missing"); ok {
		t.Fatal("Get(missing) = true; want false")
	}
	if got, want := d.Keys(), []string{"a", "b"}; !equalStrings(got, want) {
		t.Fatalf("Keys() = %v; want %v", got, want)
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestDictClone(t *testing.T) {
	t.Parallel()

	d := NewDict()
	_ = d.Append("a", Int(1))
	cp := d.Clone()
	_ = cp.Append("b", Int(2))

	if d.Len() != 1 {
		t.Fatalf("original mutated: Len() = %d; want 1", d.Len())
	}
	if cp.Len() != 2 {
		t.Fatalf("clone Len() = %d; want 2", cp.Len())
	}
}

func TestValueEqual(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		desc string
		a, b Value
		want bool
	}{
		{"null==null", Null(), Null(), true},
		{"int equal", Int(3), Int(3), true},
		{"int differ", Int(3), Int(4), false},
		{"float nan equal", Float(math.NaN()), Float(math.NaN()), true},
		{"kind mismatch", Int(1), String("1"), false},
		{"list equal", NewList([]Value{Int(1), Int(2)}), NewList([]Value{Int(1), Int(2)}), true},
		{"list order differs", NewList([]Value{Int(1), Int(2)}), NewList([]Value{Int(2), Int(1)}), false},
	} {
		tc := tc
		t.Run(tc.desc, func(t *testing.T) {
			t.Parallel()
			if got := tc.a.Equal(tc.b); got != tc.want {
				t.Errorf("Equal() = %v; want %v", got, tc.want)
			}
		})
	}
}

func TestDictEqualIgnoresOrder(t *testing.T) {
	t.Parallel()

	a := NewDict()
	_ = a.Append("x", Int(1))
	_ = a.Append("y", Int(2))

	b := NewDict()
	_ = b.Append("y", Int(2))
	_ = b.Append("x", Int(1))

	av, bv := DictValue(a), DictValue(b)
	if !av.Equal(bv) {
		t.Error("Equal() = false for dicts differing only in order; want true")
	}
	if av.EqualOrdered(bv) {
		t.Error("EqualOrdered() = true for dicts with different insertion order; want false")
	}
}
