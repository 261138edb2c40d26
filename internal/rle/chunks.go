package rle

import (
	"github.com/dyuri/sc2conv/internal/iff"
	"github.com/dyuri/sc2conv/internal/sc2err"
)

// Chunks stored without compression, per container kind.
var passthrough = map[iff.Kind]map[string]bool{
	iff.KindCity: {
		"CNAM": true, "ALTM": true, "TEXT": true, "SCEN": true, "PICT": true,
	},
	iff.KindTileSet: {
		"CNAM": true, "ALTM": true, "TILE": true,
	},
}

// ExpectedSize holds the decompressed size of each fixed-size city chunk.
var ExpectedSize = map[string]int{
	"CNAM": 32,
	"MISC": 4800,
	"ALTM": 32768,
	"XTER": 16384,
	"XBLD": 16384,
	"XZON": 16384,
	"XUND": 16384,
	"XTXT": 16384,
	"XBIT": 16384,
}

// Compressed reports whether chunk id is RLE-compressed in a container of
// the given kind.
func Compressed(kind iff.Kind, id string) bool {
	return !passthrough[kind][id]
}

// DecompressChunks expands every compressed chunk in c. For city containers
// the fixed-size chunks are checked after decoding.
func DecompressChunks(c *iff.Chunks, kind iff.Kind) (*iff.Chunks, error) {
	out := iff.NewChunks()
	out.BadIDs = c.BadIDs

	expand := func(id string, data []byte) []byte {
		if Compressed(kind, id) {
			return Decode(data)
		}
		return data
	}

	for _, text := range c.Text {
		out.Set(iff.RepeatableID, expand(iff.RepeatableID, text))
	}
	for _, id := range c.IDs() {
		out.Set(id, expand(id, c.Get(id)))
	}
	for id, data := range c.Unknown {
		out.Set(id, expand(id, data))
	}

	if kind != iff.KindCity {
		return out, nil
	}

	for _, id := range c.IDs() {
		want, ok := ExpectedSize[id]
		if !ok {
			continue
		}
		if got := len(out.Get(id)); got != want {
			return nil, sc2err.Format(id, -1, "decompressed size %d, expected %d", got, want)
		}
	}

	return out, nil
}
