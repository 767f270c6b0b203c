package slice

import "testing"

func TestCompareAndEqual(t *testing.T) {
	a := New([]byte("hello"))
	b := New([]byte("hello"))
	c := New([]byte("hellp"))
	if !a.Equal(b) {
		t.Fatalf("expected equal slices")
	}
	if a.Compare(c) >= 0 {
		t.Fatalf("expected a < c")
	}
}

func TestEqualFold(t *testing.T) {
	a := New([]byte("Foo"))
	b := New([]byte("foo"))
	if !a.EqualFold(b) {
		t.Fatalf("expected case-insensitive equality")
	}
}

func TestNullVsEmpty(t *testing.T) {
	n := Null()
	e := New([]byte{})
	if !n.IsNull() {
		t.Fatalf("expected null slice")
	}
	if e.IsNull() {
		t.Fatalf("empty slice must not be null")
	}
}

func TestHashStable(t *testing.T) {
	a := New([]byte("key"))
	b := New([]byte("key"))
	if a.Hash() != b.Hash() {
		t.Fatalf("expected stable hash for identical content")
	}
}
