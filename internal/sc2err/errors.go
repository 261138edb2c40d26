// Package sc2err defines the error taxonomy shared by the decode pipeline.
package sc2err

import (
	"errors"
	"fmt"
)

// Kind classifies a decode failure.
type Kind string

const (
	// FormatMismatch is a bad tag, length or post-decompression size. Aborts the file.
	FormatMismatch Kind = "format_mismatch"
	// TruncatedInput means a read ran past the end of a buffer. Aborts the file.
	TruncatedInput Kind = "truncated_input"
	// UnknownLookupId means the building table has no entry for an id. Aborts the file.
	UnknownLookupId Kind = "unknown_lookup_id"
	// StructuralAnomaly is logged and recorded; decoding continues.
	StructuralAnomaly Kind = "structural_anomaly"
)

// Sentinels for errors.Is matching on kind.
var (
	ErrFormatMismatch    = &Error{Kind: FormatMismatch, Message: "format mismatch", Offset: -1}
	ErrTruncatedInput    = &Error{Kind: TruncatedInput, Message: "truncated input", Offset: -1}
	ErrUnknownLookupId   = &Error{Kind: UnknownLookupId, Message: "unknown building id", Offset: -1}
	ErrStructuralAnomaly = &Error{Kind: StructuralAnomaly, Message: "structural anomaly", Offset: -1}
)

// Error is a decode error carrying the chunk and offset that failed.
type Error struct {
	Kind    Kind
	Message string
	Chunk   string // Chunk id, if known
	Offset  int    // Byte offset, -1 if not applicable
	Cause   error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Chunk != "" && e.Offset >= 0 {
		msg = fmt.Sprintf("%s (chunk %s, offset 0x%x)", msg, e.Chunk, e.Offset)
	} else if e.Chunk != "" {
		msg = fmt.Sprintf("%s (chunk %s)", msg, e.Chunk)
	} else if e.Offset >= 0 {
		msg = fmt.Sprintf("%s (offset 0x%x)", msg, e.Offset)
	}
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Format builds a FormatMismatch error.
func Format(chunk string, offset int, format string, args ...interface{}) *Error {
	return &Error{Kind: FormatMismatch, Message: fmt.Sprintf(format, args...), Chunk: chunk, Offset: offset}
}

// Truncated builds a TruncatedInput error for a read of n bytes at offset.
func Truncated(chunk string, offset, n, size int) *Error {
	return &Error{
		Kind:    TruncatedInput,
		Message: fmt.Sprintf("read of %d bytes past end of %d byte buffer", n, size),
		Chunk:   chunk,
		Offset:  offset,
	}
}

// UnknownID builds an UnknownLookupId error.
func UnknownID(id uint8) *Error {
	return &Error{
		Kind:    UnknownLookupId,
		Message: fmt.Sprintf("building id 0x%02x missing from lookup table", id),
		Chunk:   "XBLD",
		Offset:  -1,
	}
}

// WithChunk returns a copy of err annotated with chunk, if err is an *Error
// without one. Other errors are returned unchanged.
func WithChunk(err error, chunk string) error {
	var e *Error
	if !errors.As(err, &e) || e.Chunk != "" {
		return err
	}
	c := *e
	c.Chunk = chunk
	return &c
}

// KindOf returns the kind of err, or "" if err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
