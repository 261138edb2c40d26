// Package rle implements the run-length coding used by compressed chunks.
//
// A stream is a sequence of control bytes. 0x01-0x7F copies that many
// literal bytes; 0x80-0xFF repeats the following byte (control-0x7F) times.
// 0x00 is never emitted by the game and is skipped.
package rle

import "bytes"

const (
	maxLiteral = 0x7f
	maxRepeat  = 0xff - 0x7f
)

type state int

const (
	awaitingControl state = iota
	copyLiteral
	repeatByte
)

// Decode expands an RLE stream. A stream that ends inside a run yields the
// bytes decoded so far.
func Decode(src []byte) []byte {
	out := make([]byte, 0, len(src)*2)
	st := awaitingControl
	count := 0

	for _, b := range src {
		switch st {
		case awaitingControl:
			switch {
			case b == 0:
				// no-op
			case b <= maxLiteral:
				st, count = copyLiteral, int(b)
			default:
				st, count = repeatByte, int(b)-0x7f
			}
		case copyLiteral:
			out = append(out, b)
			count--
			if count == 0 {
				st = awaitingControl
			}
		case repeatByte:
			out = append(out, bytes.Repeat([]byte{b}, count)...)
			st, count = awaitingControl, 0
		}
	}

	return out
}

// Encode produces a stream that Decode expands back to src. Runs of three
// or more equal bytes become repeat runs; everything else is literal.
func Encode(src []byte) []byte {
	var out bytes.Buffer
	literal := make([]byte, 0, maxLiteral)

	flush := func() {
		if len(literal) == 0 {
			return
		}
		out.WriteByte(byte(len(literal)))
		out.Write(literal)
		literal = literal[:0]
	}

	for i := 0; i < len(src); {
		run := 1
		for i+run < len(src) && src[i+run] == src[i] && run < maxRepeat {
			run++
		}

		if run >= 3 {
			flush()
			out.WriteByte(byte(run + 0x7f))
			out.WriteByte(src[i])
			i += run
			continue
		}

		literal = append(literal, src[i])
		i++
		if len(literal) == maxLiteral {
			flush()
		}
	}
	flush()

	return out.Bytes()
}
