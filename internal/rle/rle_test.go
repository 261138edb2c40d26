package rle

import (
	"bytes"
	"math/rand"
	"testing"
)

func TestDecodeLiteral(t *testing.T) {
	src := []byte{0x05, 1, 2, 3, 4, 5}

	got := Decode(src)
	want := []byte{1, 2, 3, 4, 5}
	if !bytes.Equal(got, want) {
		t.Errorf("Decode = %v, want %v", got, want)
	}
}

func TestDecodeRepeat(t *testing.T) {
	got := Decode([]byte{0x83, 0x7a})
	want := []byte{0x7a, 0x7a, 0x7a, 0x7a}
	if !bytes.Equal(got, want) {
		t.Errorf("Decode = %v, want %v", got, want)
	}

	got = Decode([]byte{0xff, 0x01})
	if len(got) != 128 {
		t.Errorf("0xff repeat length = %d, want 128", len(got))
	}
	got = Decode([]byte{0x80, 0x09})
	if !bytes.Equal(got, []byte{0x09}) {
		t.Errorf("0x80 repeat = %v, want [9]", got)
	}
}

func TestDecodeMixed(t *testing.T) {
	src := []byte{0x02, 0xaa, 0xbb, 0x81, 0x00, 0x00, 0x01, 0xcc}

	got := Decode(src)
	want := []byte{0xaa, 0xbb, 0x00, 0x00, 0xcc}
	if !bytes.Equal(got, want) {
		t.Errorf("Decode = %v, want %v", got, want)
	}
}

func TestDecodeTruncated(t *testing.T) {
	// Literal run announced for 4 bytes but only 2 present.
	got := Decode([]byte{0x04, 1, 2})
	if !bytes.Equal(got, []byte{1, 2}) {
		t.Errorf("Decode = %v, want [1 2]", got)
	}

	// Repeat control with no value byte.
	got = Decode([]byte{0x01, 7, 0x90})
	if !bytes.Equal(got, []byte{7}) {
		t.Errorf("Decode = %v, want [7]", got)
	}
}

func TestRoundTrip(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))

	inputs := [][]byte{
		nil,
		{0},
		bytes.Repeat([]byte{0x42}, 1000),
		bytes.Repeat([]byte{1, 2}, 300),
	}
	for i := 0; i < 50; i++ {
		buf := make([]byte, rnd.Intn(4096))
		for j := range buf {
			// Small alphabet so both run kinds show up.
			buf[j] = byte(rnd.Intn(3))
		}
		inputs = append(inputs, buf)
	}

	for i, in := range inputs {
		enc := Encode(in)
		got := Decode(enc)
		if !bytes.Equal(got, in) {
			t.Fatalf("input %d: round trip mismatch (len %d -> %d)", i, len(in), len(got))
		}
	}
}

func TestEncodeRunLimits(t *testing.T) {
	enc := Encode(bytes.Repeat([]byte{9}, 300))

	// 128 + 128 + 44
	want := []byte{0xff, 9, 0xff, 9, 0x2c + 0x7f, 9}
	if !bytes.Equal(enc, want) {
		t.Errorf("Encode = %x, want %x", enc, want)
	}
}
