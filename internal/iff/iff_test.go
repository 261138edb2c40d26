package iff

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/dyuri/sc2conv/internal/sc2err"
)

type rawChunk struct {
	id   string
	data []byte
}

func buildContainer(tag, sub string, chunks ...rawChunk) []byte {
	var body bytes.Buffer
	body.WriteString(sub)
	for _, c := range chunks {
		body.WriteString(c.id)
		binary.Write(&body, binary.BigEndian, uint32(len(c.data)))
		body.Write(c.data)
	}

	var out bytes.Buffer
	out.WriteString(tag)
	binary.Write(&out, binary.BigEndian, uint32(body.Len()))
	out.Write(body.Bytes())
	return out.Bytes()
}

func TestParseCity(t *testing.T) {
	data := buildContainer("FORM", "SCDH",
		rawChunk{"CNAM", []byte("name")},
		rawChunk{"TEXT", []byte{1}},
		rawChunk{"MISC", []byte{1, 2, 3}},
		rawChunk{"TEXT", []byte{2}},
		rawChunk{"ZZZZ", []byte{9}},
		rawChunk{"MISC", []byte{4}},
	)

	hdr, chunks, err := Parse(data, KindCity)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if hdr.Tag != "FORM" || hdr.SubType != "SCDH" {
		t.Errorf("header = %s/%s, want FORM/SCDH", hdr.Tag, hdr.SubType)
	}
	if hdr.DeclaredSize != len(data)-8 {
		t.Errorf("DeclaredSize = %d, want %d", hdr.DeclaredSize, len(data)-8)
	}
	if hdr.Mac {
		t.Error("Mac = true, want false")
	}

	if len(chunks.Text) != 2 {
		t.Errorf("len(Text) = %d, want 2", len(chunks.Text))
	}
	if got := chunks.Get("MISC"); !bytes.Equal(got, []byte{4}) {
		t.Errorf("MISC = %v, want last occurrence [4]", got)
	}
	if got := chunks.Unknown["ZZZZ"]; !bytes.Equal(got, []byte{9}) {
		t.Errorf("Unknown[ZZZZ] = %v, want [9]", got)
	}
	if ids := chunks.IDs(); len(ids) != 2 || ids[0] != "CNAM" || ids[1] != "MISC" {
		t.Errorf("IDs = %v, want [CNAM MISC]", ids)
	}
}

func TestParseTileSet(t *testing.T) {
	data := buildContainer("MIFF", "SC2K", rawChunk{"TILE", []byte{1, 2}})

	if _, _, err := Parse(data, KindTileSet); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if _, _, err := Parse(data, KindCity); !errors.Is(err, sc2err.ErrFormatMismatch) {
		t.Errorf("tile set parsed as city error = %v, want FormatMismatch", err)
	}
}

func TestParseErrors(t *testing.T) {
	good := buildContainer("FORM", "SCDH", rawChunk{"CNAM", make([]byte, 4)})

	badLen := append([]byte(nil), good...)
	binary.BigEndian.PutUint32(badLen[4:8], uint32(len(good)))

	badSub := append([]byte(nil), good...)
	copy(badSub[8:12], "XXXX")

	overrun := append([]byte(nil), good...)
	binary.BigEndian.PutUint32(overrun[16:20], 100)

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"short", []byte("FORM"), sc2err.ErrTruncatedInput},
		{"length", badLen, sc2err.ErrFormatMismatch},
		{"subtype", badSub, sc2err.ErrFormatMismatch},
		{"overrun", overrun, sc2err.ErrTruncatedInput},
	}

	for _, tt := range tests {
		_, _, err := Parse(tt.data, KindCity)
		if !errors.Is(err, tt.want) {
			t.Errorf("%s: error = %v, want %v", tt.name, err, tt.want)
		}
	}
}

func TestMacVariant(t *testing.T) {
	inner := buildContainer("FORM", "SCDH", rawChunk{"MISC", []byte{7}})

	prefix := make([]byte, macOffset)
	prefix[1] = 5
	copy(prefix[2:], "HELLO")

	data := append(prefix, inner...)
	data = append(data, "trailing garbage"...)

	if !IsMac(data, KindCity) {
		t.Fatal("IsMac = false, want true")
	}

	normal, name, err := NormalizeMac(data)
	if err != nil {
		t.Fatalf("NormalizeMac failed: %v", err)
	}
	if !bytes.Equal(normal, inner) {
		t.Errorf("normalized view does not start at 0x80 (len %d, want %d)", len(normal), len(inner))
	}
	if string(name) != "HELLO" {
		t.Errorf("name = %q, want %q", name, "HELLO")
	}

	hdr, chunks, err := Parse(data, KindCity)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !hdr.Mac || string(hdr.MacName) != "HELLO" {
		t.Errorf("header Mac = %v, name %q", hdr.Mac, hdr.MacName)
	}

	cnam := chunks.Get("CNAM")
	if len(cnam) != cnamSize {
		t.Fatalf("synthesized CNAM length = %d, want %d", len(cnam), cnamSize)
	}
	if cnam[0] != 5 || string(cnam[1:6]) != "HELLO" {
		t.Errorf("synthesized CNAM = %q", cnam)
	}
}

func TestClassicRejected(t *testing.T) {
	data := make([]byte, 0x100)
	data[1] = 0x0d
	copy(data[0x41:], "CITYMCRP")

	_, _, err := Parse(data, KindCity)
	if !errors.Is(err, sc2err.ErrFormatMismatch) {
		t.Errorf("classic error = %v, want FormatMismatch", err)
	}
}

func TestParseBadChunkID(t *testing.T) {
	data := buildContainer("FORM", "SCDH",
		rawChunk{"CNAM", make([]byte, 4)},
		rawChunk{"XY\x01Z", []byte{9, 8}},
	)

	_, chunks, err := Parse(data, KindCity)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !chunks.Has("CNAM") {
		t.Error("CNAM missing")
	}
	if got := chunks.Unknown["XY\x01Z"]; !bytes.Equal(got, []byte{9, 8}) {
		t.Errorf("Unknown[XY\\x01Z] = %v, want [9 8]", got)
	}
	if len(chunks.BadIDs) != 1 {
		t.Fatalf("len(BadIDs) = %d, want 1", len(chunks.BadIDs))
	}
	if bad := chunks.BadIDs[0]; bad.ID != "XY\x01Z" || bad.Offset != 24 {
		t.Errorf("BadIDs[0] = %+v, want XY\\x01Z at 24", bad)
	}
}

func TestValidID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"XBLD", true},
		{"a b~", true},
		{"XBL", false},
		{"XB\x00D", false},
		{"XB\x7fD", false},
	}

	for _, tt := range tests {
		if got := ValidID([]byte(tt.id)); got != tt.want {
			t.Errorf("ValidID(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
}
