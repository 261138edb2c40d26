package binary

import (
	"bytes"
	"encoding/binary"
	"sort"

	"github.com/dyuri/sc2conv/internal/iff"
	"github.com/dyuri/sc2conv/internal/rle"
)

// cityFixture builds a synthetic city save from decompressed chunk payloads.
type cityFixture struct {
	chunks map[string][]byte
	text   [][]byte
}

func newCityFixture(name string) *cityFixture {
	f := &cityFixture{chunks: make(map[string][]byte)}

	cnam := make([]byte, 32)
	cnam[0] = byte(len(name))
	copy(cnam[1:], name)
	f.chunks["CNAM"] = cnam

	f.chunks["ALTM"] = make([]byte, CitySize*CitySize*2)
	for _, id := range []string{"XTER", "XBLD", "XZON", "XUND", "XTXT", "XBIT"} {
		f.chunks[id] = make([]byte, CitySize*CitySize)
	}
	for _, id := range []string{"XTRF", "XPLT", "XVAL", "XCRM"} {
		f.chunks[id] = make([]byte, 64*64)
	}
	for _, id := range []string{"XPLC", "XFIR", "XPOP", "XROG"} {
		f.chunks[id] = make([]byte, 32*32)
	}
	f.chunks["MISC"] = make([]byte, MiscSize)
	f.chunks["XGRP"] = make([]byte, 16*graphLen)

	return f
}

func (f *cityFixture) set(id string, idx int, v byte) {
	f.chunks[id][idx] = v
}

func (f *cityFixture) setMisc(off int, v int32) {
	binary.BigEndian.PutUint32(f.chunks["MISC"][off:], uint32(v))
}

// bytes encodes the fixture as a container, compressing chunks the same way
// the game does.
func (f *cityFixture) bytes() []byte {
	ids := make([]string, 0, len(f.chunks))
	for id := range f.chunks {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var body bytes.Buffer
	body.WriteString("SCDH")

	write := func(id string, data []byte) {
		if rle.Compressed(iff.KindCity, id) {
			data = rle.Encode(data)
		}
		body.WriteString(id)
		binary.Write(&body, binary.BigEndian, uint32(len(data)))
		body.Write(data)
	}

	for _, id := range ids {
		write(id, f.chunks[id])
	}
	for _, t := range f.text {
		write("TEXT", t)
	}

	var out bytes.Buffer
	out.WriteString("FORM")
	binary.Write(&out, binary.BigEndian, uint32(body.Len()))
	out.Write(body.Bytes())
	return out.Bytes()
}

func textRecord(id uint32, s string) []byte {
	b := make([]byte, 4, 4+len(s))
	binary.BigEndian.PutUint32(b, id)
	return append(b, s...)
}
