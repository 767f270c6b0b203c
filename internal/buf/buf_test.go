package buf

import (
	"math"
	"testing"
)

func TestAddOverflowSafe(t *testing.T) {
	if sum, ok := AddOverflowSafe(3, 4); !ok || sum != 7 {
		t.Fatalf("expected 7, true; got %d, %v", sum, ok)
	}
	if _, ok := AddOverflowSafe(math.MaxInt, 1); ok {
		t.Fatalf("expected overflow to be detected")
	}
	if _, ok := AddOverflowSafe(math.MinInt, -1); ok {
		t.Fatalf("expected underflow to be detected")
	}
}

func TestSliceInBounds(t *testing.T) {
	b := []byte("0123456789")
	s, ok := Slice(b, 2, 3)
	if !ok || string(s) != "234" {
		t.Fatalf("expected \"234\", true; got %q, %v", s, ok)
	}
}

func TestSliceRejectsOutOfBounds(t *testing.T) {
	b := []byte("abc")
	cases := []struct {
		off, n int
	}{
		{-1, 1},
		{0, -1},
		{4, 0},
		{2, 5},
	}
	for _, c := range cases {
		if _, ok := Slice(b, c.off, c.n); ok {
			t.Fatalf("expected Slice(%d, %d) to fail", c.off, c.n)
		}
	}
}

func TestSliceAtExactEnd(t *testing.T) {
	b := []byte("abc")
	if _, ok := Slice(b, 3, 0); !ok {
		t.Fatalf("expected a zero-length slice at the end to be valid")
	}
}

func TestHasMirrorsSlice(t *testing.T) {
	b := make([]byte, 10)
	if !Has(b, 0, 10) {
		t.Fatalf("expected full-length range to fit")
	}
	if Has(b, 0, 11) {
		t.Fatalf("expected one-past-the-end range to not fit")
	}
}

func TestU16RoundTrip(t *testing.T) {
	b := make([]byte, 2)
	PutU16(b, 0xABCD)
	if got := U16(b); got != 0xABCD {
		t.Fatalf("expected 0xABCD, got %#x", got)
	}
}

func TestU16TooShortReturnsZero(t *testing.T) {
	if got := U16([]byte{0x01}); got != 0 {
		t.Fatalf("expected 0 for truncated input, got %d", got)
	}
}

func TestU32RoundTrip(t *testing.T) {
	b := make([]byte, 4)
	PutU32(b, 0xDEADBEEF)
	if got := U32(b); got != 0xDEADBEEF {
		t.Fatalf("expected 0xDEADBEEF, got %#x", got)
	}
}

func TestU64RoundTrip(t *testing.T) {
	b := make([]byte, 8)
	PutU64(b, 0x0102030405060708)
	if got := U64(b); got != 0x0102030405060708 {
		t.Fatalf("expected round trip, got %#x", got)
	}
}

func TestF32RoundTrip(t *testing.T) {
	b := make([]byte, 4)
	PutF32(b, 3.5)
	if got := F32(b); got != 3.5 {
		t.Fatalf("expected 3.5, got %v", got)
	}
}

func TestF64RoundTrip(t *testing.T) {
	b := make([]byte, 8)
	PutF64(b, -12.25)
	if got := F64(b); got != -12.25 {
		t.Fatalf("expected -12.25, got %v", got)
	}
}

func TestVarintRoundTripSmallAndLarge(t *testing.T) {
	values := []uint64{0, 1, 127, 128, 300, 16384, math.MaxUint64}
	for _, v := range values {
		n := VarintLen(v)
		b := make([]byte, n)
		written := PutVarint(b, v)
		if written != n {
			t.Fatalf("value %d: VarintLen said %d, PutVarint wrote %d", v, n, written)
		}
		got, consumed := Varint(b)
		if consumed != n || got != v {
			t.Fatalf("value %d: round trip got %d consuming %d bytes", v, got, consumed)
		}
	}
}

func TestVarintIncompleteReportsZero(t *testing.T) {
	// A continuation byte with the high bit set but nothing following is
	// an incomplete varint.
	b := []byte{0x80}
	got, n := Varint(b)
	if got != 0 || n != 0 {
		t.Fatalf("expected (0, 0) for incomplete varint, got (%d, %d)", got, n)
	}
}
