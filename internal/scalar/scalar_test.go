package scalar

import (
	"errors"
	"testing"

	"github.com/dyuri/sc2conv/internal/sc2err"
)

func TestInt32(t *testing.T) {
	buf := []byte{0x00, 0xff, 0xff, 0xff, 0xfe, 0x00}

	v, err := Int32(buf, 1)
	if err != nil {
		t.Fatalf("Int32 failed: %v", err)
	}
	if v != -2 {
		t.Errorf("Int32 = %d, want -2", v)
	}

	u, err := Uint32(buf, 0)
	if err != nil {
		t.Fatalf("Uint32 failed: %v", err)
	}
	if u != 0x00ffffff {
		t.Errorf("Uint32 = 0x%x, want 0xffffff", u)
	}
}

func TestReadPastEnd(t *testing.T) {
	buf := make([]byte, 4)

	if _, err := Int32(buf, 1); !errors.Is(err, sc2err.ErrTruncatedInput) {
		t.Errorf("Int32 past end error = %v, want TruncatedInput", err)
	}
	if _, err := Uint16(buf, 3); !errors.Is(err, sc2err.ErrTruncatedInput) {
		t.Errorf("Uint16 past end error = %v, want TruncatedInput", err)
	}
	if _, err := Uint8(buf, -1); !errors.Is(err, sc2err.ErrTruncatedInput) {
		t.Errorf("Uint8 negative offset error = %v, want TruncatedInput", err)
	}
	if _, err := Int32s(make([]byte, 6)); !errors.Is(err, sc2err.ErrTruncatedInput) {
		t.Errorf("Int32s ragged error = %v, want TruncatedInput", err)
	}
}

func TestUint(t *testing.T) {
	buf := []byte{0x12, 0x34, 0x56, 0x78}

	tests := []struct {
		off, n int
		want   uint32
	}{
		{0, 1, 0x12},
		{1, 2, 0x3456},
		{0, 4, 0x12345678},
	}

	for _, tt := range tests {
		got, err := Uint[uint32](buf, tt.off, tt.n)
		if err != nil {
			t.Fatalf("Uint(%d, %d) failed: %v", tt.off, tt.n, err)
		}
		if got != tt.want {
			t.Errorf("Uint(%d, %d) = 0x%x, want 0x%x", tt.off, tt.n, got, tt.want)
		}
	}
}

func TestBitString(t *testing.T) {
	tests := []struct {
		v    uint32
		pad  int
		want string
	}{
		{0, 0, ""},
		{0, 4, "0000"},
		{5, 0, "101"},
		{5, 8, "00000101"},
		{0x80, 8, "10000000"},
		{0xf800, 16, "1111100000000000"},
	}

	for _, tt := range tests {
		got := BitString(tt.v, tt.pad)
		if got != tt.want {
			t.Errorf("BitString(%d, %d) = %q, want %q", tt.v, tt.pad, got, tt.want)
		}
		if back := ParseBitString(got); back != tt.v {
			t.Errorf("ParseBitString(%q) = %d, want %d", got, back, tt.v)
		}
	}
}

func TestBitsMSBFirst(t *testing.T) {
	// 1010 0101 1100 0011
	bits := NewBits([]byte{0xa5, 0xc3})

	if got := bits.Read(4); got != 0xa {
		t.Errorf("first nibble = 0x%x, want 0xa", got)
	}
	if !bits.Bool() {
		t.Error("bit 4 = false, want true")
	}
	if got := bits.Read(3); got != 0x5 {
		t.Errorf("next 3 bits = %d, want 5", got)
	}
	if got := bits.Read(8); got != 0xc3 {
		t.Errorf("second byte = 0x%x, want 0xc3", got)
	}
	if bits.Err != nil {
		t.Fatalf("unexpected error: %v", bits.Err)
	}

	bits.Read(1)
	if bits.Err == nil {
		t.Error("read past end did not set Err")
	}
}

func TestStrings(t *testing.T) {
	if got := string(TrimmedString([]byte("ABC\x00\x00"))); got != "ABC" {
		t.Errorf("TrimmedString = %q, want %q", got, "ABC")
	}
	if got := string(UntilZero([]byte("AB\x00CD"))); got != "AB" {
		t.Errorf("UntilZero = %q, want %q", got, "AB")
	}

	p, err := PascalString([]byte{0xff, 3, 'F', 'O', 'O', 'X'}, 1)
	if err != nil {
		t.Fatalf("PascalString failed: %v", err)
	}
	if string(p) != "FOO" {
		t.Errorf("PascalString = %q, want %q", p, "FOO")
	}

	p, err = PascalString([]byte{9, 'A'}, 0)
	if err != nil {
		t.Fatalf("PascalString clamp failed: %v", err)
	}
	if string(p) != "A" {
		t.Errorf("clamped PascalString = %q, want %q", p, "A")
	}
}
