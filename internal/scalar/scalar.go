// Package scalar converts fixed-width big-endian integers and MSB-first bit
// strings. All reads are bounds-checked and fail with a TruncatedInput error.
package scalar

import (
	"bytes"
	"encoding/binary"
	"strings"

	"github.com/dyuri/sc2conv/internal/sc2err"
	"github.com/icza/bitio"
	"golang.org/x/exp/constraints"
)

func check(b []byte, off, n int) error {
	if off < 0 || off+n > len(b) {
		return sc2err.Truncated("", off, n, len(b))
	}
	return nil
}

// Int32 reads a big-endian signed 32-bit integer at off.
func Int32(b []byte, off int) (int32, error) {
	if err := check(b, off, 4); err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(b[off : off+4])), nil
}

// Uint32 reads a big-endian unsigned 32-bit integer at off.
func Uint32(b []byte, off int) (uint32, error) {
	if err := check(b, off, 4); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b[off : off+4]), nil
}

// Uint16 reads a big-endian unsigned 16-bit integer at off.
func Uint16(b []byte, off int) (uint16, error) {
	if err := check(b, off, 2); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b[off : off+2]), nil
}

// Uint8 reads a single byte at off.
func Uint8(b []byte, off int) (uint8, error) {
	if err := check(b, off, 1); err != nil {
		return 0, err
	}
	return b[off], nil
}

// Uint reads an n-byte (1, 2 or 4) big-endian unsigned value at off.
func Uint[T constraints.Unsigned](b []byte, off, n int) (T, error) {
	if err := check(b, off, n); err != nil {
		return 0, err
	}
	var v T
	for _, c := range b[off : off+n] {
		v = v<<8 | T(c)
	}
	return v, nil
}

// Int32s splits b into sequential big-endian int32 values.
func Int32s(b []byte) ([]int32, error) {
	if len(b)%4 != 0 {
		return nil, sc2err.Truncated("", len(b)-len(b)%4, 4, len(b))
	}
	out := make([]int32, len(b)/4)
	for i := range out {
		out[i] = int32(binary.BigEndian.Uint32(b[i*4:]))
	}
	return out, nil
}

// Slice returns b[off:off+n] or a TruncatedInput error.
func Slice(b []byte, off, n int) ([]byte, error) {
	if err := check(b, off, n); err != nil {
		return nil, err
	}
	return b[off : off+n], nil
}

// BitString renders v as an MSB-first binary string, zero-padded to pad
// characters. A zero pad means no padding.
func BitString(v uint32, pad int) string {
	var sb strings.Builder
	for v > 0 {
		if v&1 == 1 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
		v >>= 1
	}
	s := []byte(sb.String())
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
	if len(s) < pad {
		return strings.Repeat("0", pad-len(s)) + string(s)
	}
	return string(s)
}

// ParseBitString parses an MSB-first binary string. Characters other than
// '1' count as zero bits.
func ParseBitString(s string) uint32 {
	var v uint32
	for i := 0; i < len(s); i++ {
		v <<= 1
		if s[i] == '1' {
			v |= 1
		}
	}
	return v
}

// Bits is an MSB-first bit cursor. Reads past the end yield zero bits and
// set Err.
type Bits struct {
	r   *bitio.Reader
	Err error
}

// NewBits returns a cursor positioned at the first (most significant) bit of b.
func NewBits(b []byte) *Bits {
	return &Bits{r: bitio.NewReader(bytes.NewReader(b))}
}

// Read returns the next n bits as an unsigned value.
func (b *Bits) Read(n uint8) uint32 {
	if b.Err != nil {
		return 0
	}
	v, err := b.r.ReadBits(n)
	if err != nil {
		b.Err = err
		return 0
	}
	return uint32(v)
}

// Bool returns the next bit.
func (b *Bits) Bool() bool {
	if b.Err != nil {
		return false
	}
	v, err := b.r.ReadBool()
	if err != nil {
		b.Err = err
		return false
	}
	return v
}

// TrimmedString drops trailing zero padding from a fixed-length buffer.
func TrimmedString(b []byte) []byte {
	return bytes.TrimRight(b, "\x00")
}

// UntilZero returns b up to (not including) the first zero byte.
func UntilZero(b []byte) []byte {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		return b[:i]
	}
	return b
}

// PascalString reads a length-prefixed string at off. The length is clamped
// to the bytes available.
func PascalString(b []byte, off int) ([]byte, error) {
	n, err := Uint8(b, off)
	if err != nil {
		return nil, err
	}
	end := off + 1 + int(n)
	if end > len(b) {
		end = len(b)
	}
	return b[off+1 : end], nil
}
