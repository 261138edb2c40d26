// Package iff parses the chunked container used by city saves and tile sets.
//
// The container is an IFF-style envelope: a 4-byte tag, a big-endian
// declared length (excluding the first 8 bytes), a 4-byte sub-type tag, then
// a sequence of [id][length][payload] chunks.
package iff

import (
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/dyuri/sc2conv/internal/sc2err"
	"github.com/dyuri/sc2conv/internal/scalar"
	"github.com/elliotwutingfeng/asciiset"
)

// Kind selects the expected tag pair.
type Kind int

const (
	KindCity Kind = iota
	KindTileSet
)

func (k Kind) String() string {
	switch k {
	case KindCity:
		return "city"
	case KindTileSet:
		return "tileset"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Tag returns the container tag expected at offset 0.
func (k Kind) Tag() string {
	if k == KindTileSet {
		return "MIFF"
	}
	return "FORM"
}

// SubType returns the tag expected at offset 8.
func (k Kind) SubType() string {
	if k == KindTileSet {
		return "SC2K"
	}
	return "SCDH"
}

const (
	headerSize      = 12
	chunkHeaderSize = 8
	macOffset       = 0x80
	cnamSize        = 32
)

// RepeatableID is the one chunk id that may appear more than once.
const RepeatableID = "TEXT"

// Recognized lists the chunk ids that get their own slot.
var Recognized = []string{
	"CNAM", "ALTM", "SCEN", "PICT", "TILE", "MISC",
	"XTER", "XBLD", "XTRF", "XPLT", "XVAL", "XCRM", "XZON", "XUND",
	"XTXT", "XBIT", "XPLC", "XFIR", "XPOP", "XROG", "XLAB", "XMIC",
	"XTHG", "XGRP",
}

var recognized = func() map[string]bool {
	m := make(map[string]bool, len(Recognized))
	for _, id := range Recognized {
		m[id] = true
	}
	return m
}()

var printable = func() asciiset.ASCIISet {
	chars := make([]byte, 0, 0x7f-0x20)
	for c := byte(0x20); c < 0x7f; c++ {
		chars = append(chars, c)
	}
	as, _ := asciiset.MakeASCIISet(string(chars))
	return as
}()

// Header is the parsed 12-byte envelope.
type Header struct {
	Tag          string
	DeclaredSize int // Length field as stored (total - 8)
	SubType      string

	// Mac is set when the container was found at offset 0x80.
	Mac bool
	// MacName is the embedded Pascal string from a Mac file (length byte excluded).
	MacName []byte
}

// BadID records a chunk whose id is not four printable ASCII characters.
// Such chunks are kept in Unknown under their raw id.
type BadID struct {
	ID     string
	Offset int
}

// Chunks holds the raw payloads of one container.
type Chunks struct {
	Text    [][]byte
	slots   map[string][]byte
	Unknown map[string][]byte
	BadIDs  []BadID
}

// NewChunks returns an empty chunk set.
func NewChunks() *Chunks {
	return &Chunks{
		slots:   make(map[string][]byte),
		Unknown: make(map[string][]byte),
	}
}

// Get returns the payload stored for a recognized id, or nil.
func (c *Chunks) Get(id string) []byte {
	return c.slots[id]
}

// Has reports whether a recognized id was present.
func (c *Chunks) Has(id string) bool {
	_, ok := c.slots[id]
	return ok
}

// Set stores a payload. TEXT appends, recognized ids overwrite, anything else
// lands in Unknown.
func (c *Chunks) Set(id string, data []byte) {
	switch {
	case id == RepeatableID:
		c.Text = append(c.Text, data)
	case recognized[id]:
		c.slots[id] = data
	default:
		c.Unknown[id] = data
	}
}

// IDs returns the recognized ids present, sorted.
func (c *Chunks) IDs() []string {
	ids := make([]string, 0, len(c.slots))
	for id := range c.slots {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Parse validates the envelope of data against kind and splits it into
// chunks. Mac files are normalised first.
func Parse(data []byte, kind Kind) (*Header, *Chunks, error) {
	if kind == KindCity && IsClassic(data) {
		return nil, nil, sc2err.Format("", 0, "SimCity Classic saves are not supported")
	}

	hdr := &Header{}
	if IsMac(data, kind) {
		normal, name, err := NormalizeMac(data)
		if err != nil {
			return nil, nil, fmt.Errorf("normalize mac container: %w", err)
		}
		data = normal
		hdr.Mac = true
		hdr.MacName = name
	}

	if err := readHeader(data, kind, hdr); err != nil {
		return nil, nil, err
	}

	chunks, err := readChunks(data)
	if err != nil {
		return nil, nil, err
	}

	// Mac saves keep the name outside the container.
	if hdr.Mac && !chunks.Has("CNAM") {
		cnam := make([]byte, cnamSize)
		cnam[0] = byte(len(hdr.MacName))
		copy(cnam[1:], hdr.MacName)
		chunks.Set("CNAM", cnam)
	}

	return hdr, chunks, nil
}

// IsMac reports whether the container tag is missing at offset 0 but present
// at 0x80.
func IsMac(data []byte, kind Kind) bool {
	if len(data) < macOffset+4 {
		return false
	}
	tag := kind.Tag()
	return string(data[0:4]) != tag && string(data[macOffset:macOffset+4]) == tag
}

// IsClassic reports whether data looks like a SimCity Classic save.
func IsClassic(data []byte) bool {
	if len(data) < 0x49 {
		return false
	}
	return data[0] == 0x00 && data[1] == 0x0d && string(data[0x41:0x49]) == "CITYMCRP"
}

// NormalizeMac returns the real container inside a Mac file with trailing
// bytes trimmed, and the Pascal string stored at offset 1.
func NormalizeMac(data []byte) ([]byte, []byte, error) {
	name, err := scalar.PascalString(data, 1)
	if err != nil {
		return nil, nil, err
	}

	declared, err := scalar.Uint32(data, macOffset+4)
	if err != nil {
		return nil, nil, err
	}
	total := int(declared) + chunkHeaderSize
	body, err := scalar.Slice(data, macOffset, total)
	if err != nil {
		return nil, nil, err
	}

	return body, name, nil
}

func readHeader(data []byte, kind Kind, hdr *Header) error {
	if len(data) < headerSize {
		return sc2err.Truncated("", 0, headerSize, len(data))
	}

	// Offset 0x00: container tag
	hdr.Tag = string(data[0:4])
	if hdr.Tag != kind.Tag() {
		return sc2err.Format("", 0, "expected %s tag %q, found %q", kind, kind.Tag(), hdr.Tag)
	}

	// Offset 0x04: declared length, excluding tag and length field
	hdr.DeclaredSize = int(binary.BigEndian.Uint32(data[4:8]))
	if hdr.DeclaredSize+chunkHeaderSize != len(data) {
		return sc2err.Format("", 4, "declared length %d does not match file size %d",
			hdr.DeclaredSize+chunkHeaderSize, len(data))
	}

	// Offset 0x08: sub-type
	hdr.SubType = string(data[8:12])
	if hdr.SubType != kind.SubType() {
		return sc2err.Format("", 8, "expected %s sub-type %q, found %q", kind, kind.SubType(), hdr.SubType)
	}

	return nil
}

func readChunks(data []byte) (*Chunks, error) {
	chunks := NewChunks()
	off := headerSize
	remaining := len(data) - headerSize

	for remaining > 0 {
		if off+chunkHeaderSize > len(data) {
			return nil, sc2err.Truncated("", off, chunkHeaderSize, len(data))
		}

		id := data[off : off+4]
		if !ValidID(id) {
			chunks.BadIDs = append(chunks.BadIDs, BadID{ID: string(id), Offset: off})
		}
		size := int(binary.BigEndian.Uint32(data[off+4 : off+8]))

		start := off + chunkHeaderSize
		if size < 0 || start+size > len(data) {
			return nil, sc2err.Truncated(string(id), start, size, len(data))
		}

		chunks.Set(string(id), data[start:start+size])
		off = start + size
		remaining -= size + chunkHeaderSize
	}

	return chunks, nil
}

// ValidID reports whether id is four printable ASCII characters.
func ValidID(id []byte) bool {
	if len(id) != 4 {
		return false
	}
	for _, c := range id {
		if !printable.Contains(c) {
			return false
		}
	}
	return true
}
