package format

import "testing"

func TestSmallIntRoundTrip(t *testing.T) {
	for _, v := range []int64{0, 1, -1, 2047, -2048, 1000, -1000} {
		if !FitsSmallInt(v) {
			t.Fatalf("expected %d to fit SmallInt", v)
		}
		buf := make([]byte, 2)
		EncodeSmallInt(buf, v)
		got := DecodeSmallInt(buf[0], buf[1])
		if got != v {
			t.Fatalf("round trip %d got %d", v, got)
		}
	}
	if FitsSmallInt(2048) || FitsSmallInt(-2049) {
		t.Fatal("expected values outside [-2048,2047] to not fit")
	}
}

func TestIntPayloadRoundTrip(t *testing.T) {
	cases := []int64{0, -1, 127, -128, 1 << 40, -(1 << 40)}
	for _, v := range cases {
		n := MinBytesForInt(v)
		payload := make([]byte, n)
		PutIntPayload(payload, v)
		got := DecodeIntPayload(payload)
		if got != v {
			t.Fatalf("int payload round trip %d (n=%d) got %d", v, n, got)
		}
	}
}

func TestUintPayloadRoundTrip(t *testing.T) {
	cases := []uint64{0, 255, 256, 1 << 40, ^uint64(0)}
	for _, v := range cases {
		n := MinBytesForUint(v)
		payload := make([]byte, n)
		PutUintPayload(payload, v)
		got := DecodeUintPayload(payload)
		if got != v {
			t.Fatalf("uint payload round trip %d (n=%d) got %d", v, n, got)
		}
	}
}

func TestContainerHeaderRoundTrip(t *testing.T) {
	buf := make([]byte, 2)
	EncodeContainerHeader(buf, TagArray, 1500, true)
	count, wide := DecodeContainerHeader(buf[0], buf[1])
	if count != 1500 || !wide {
		t.Fatalf("got count=%d wide=%v", count, wide)
	}
}

func TestTrailerRoundTrip(t *testing.T) {
	data := make([]byte, 50)
	if !EncodeTrailer(data, 10) {
		t.Fatal("expected trailer encode to succeed")
	}
	addr, ok := DecodeTrailer(data)
	if !ok || addr != 10 {
		t.Fatalf("got addr=%d ok=%v", addr, ok)
	}
}

func TestStringHeaderShortAndLong(t *testing.T) {
	short := make([]byte, EncodedHeaderLen(5))
	n := EncodeStringHeader(short, 5, false)
	length, off, ok := DecodeStringHeader(short[:n])
	if !ok || length != 5 || off != 1 {
		t.Fatalf("short header: length=%d off=%d ok=%v", length, off, ok)
	}

	long := make([]byte, EncodedHeaderLen(1000))
	n = EncodeStringHeader(long, 1000, true)
	length, off, ok = DecodeStringHeader(long[:n])
	if !ok || length != 1000 || off != n {
		t.Fatalf("long header: length=%d off=%d ok=%v want off=%d", length, off, ok, n)
	}
}
