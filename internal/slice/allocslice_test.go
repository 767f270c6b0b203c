package slice

import "testing"

func TestRefCountLifecycle(t *testing.T) {
	a, err := NewAllocSlice(4)
	if err != nil {
		t.Fatal(err)
	}
	if a.RefCount() != 1 {
		t.Fatalf("expected refcount 1, got %d", a.RefCount())
	}
	b := a.Retain()
	if a.RefCount() != 2 {
		t.Fatalf("expected refcount 2 after retain, got %d", a.RefCount())
	}
	b.Release()
	if !a.Valid() {
		t.Fatalf("expected slice still valid after one of two releases")
	}
	a.Release()
	if a.Valid() {
		t.Fatalf("expected slice invalid after final release")
	}
	if a.Bytes() != nil {
		t.Fatalf("expected nil bytes after final release")
	}
}

func TestAppendHandlesAliasing(t *testing.T) {
	a := FromBytes([]byte("abc"))
	defer a.Release()
	src := a.Bytes()[1:] // "bc", aliases a's own backing array
	if err := a.Append(src); err != nil {
		t.Fatal(err)
	}
	if got := string(a.Bytes()); got != "abcbc" {
		t.Fatalf("expected abcbc, got %q", got)
	}
}

func TestResizeGrowAndShrink(t *testing.T) {
	a, _ := NewAllocSlice(2)
	defer a.Release()
	copy(a.Bytes(), []byte("hi"))
	if err := a.Resize(5); err != nil {
		t.Fatal(err)
	}
	if a.Len() != 5 || string(a.Bytes()[:2]) != "hi" {
		t.Fatalf("expected grown buffer to preserve prefix, got %q", a.Bytes())
	}
	if err := a.Resize(1); err != nil {
		t.Fatal(err)
	}
	if a.Len() != 1 {
		t.Fatalf("expected shrunk length 1, got %d", a.Len())
	}
}
