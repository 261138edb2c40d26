package binary

import (
	"github.com/dyuri/sc2conv/internal/iff"
	"github.com/dyuri/sc2conv/internal/model"
	"github.com/dyuri/sc2conv/internal/sc2err"
	"github.com/dyuri/sc2conv/internal/scalar"
)

// Overlay chunks. The first four are stored at half resolution, the rest
// at quarter resolution.
var gridChunks = []struct {
	id     string
	name   string
	size   int
	factor int
	assign func(*model.City, *model.ScaledGrid)
}{
	{"XTRF", "traffic", 64, 2, func(c *model.City, g *model.ScaledGrid) { c.Traffic = g }},
	{"XPLT", "pollution", 64, 2, func(c *model.City, g *model.ScaledGrid) { c.Pollution = g }},
	{"XVAL", "value", 64, 2, func(c *model.City, g *model.ScaledGrid) { c.Value = g }},
	{"XCRM", "crime", 64, 2, func(c *model.City, g *model.ScaledGrid) { c.Crime = g }},
	{"XPLC", "police", 32, 4, func(c *model.City, g *model.ScaledGrid) { c.Police = g }},
	{"XFIR", "fire", 32, 4, func(c *model.City, g *model.ScaledGrid) { c.Fire = g }},
	{"XPOP", "density", 32, 4, func(c *model.City, g *model.ScaledGrid) { c.Density = g }},
	{"XROG", "growth", 32, 4, func(c *model.City, g *model.ScaledGrid) { c.Growth = g }},
}

// readScaledGrids copies the eight overlay chunks. A missing overlay is an
// anomaly and stays zeroed.
func (r *Reader) readScaledGrids(city *model.City, chunks *iff.Chunks) error {
	for _, gc := range gridChunks {
		g := model.NewScaledGrid(gc.name, gc.size, gc.factor)
		gc.assign(city, g)

		if !chunks.Has(gc.id) {
			r.anomaly(gc.id, -1, -1, "overlay chunk missing, left empty")
			continue
		}

		raw, err := scalar.Slice(chunks.Get(gc.id), 0, len(g.Data))
		if err != nil {
			return sc2err.WithChunk(err, gc.id)
		}
		copy(g.Data, raw)
	}
	return nil
}

// readTiles decodes the per-tile planes in row-major order.
func (r *Reader) readTiles(city *model.City, chunks *iff.Chunks) error {
	n := city.Size * city.Size

	planes := []struct {
		id    string
		width int
	}{
		{"ALTM", 2}, {"XTER", 1}, {"XZON", 1}, {"XUND", 1},
		{"XTXT", 1}, {"XBIT", 1}, {"XBLD", 1},
	}
	for _, p := range planes {
		if _, err := scalar.Slice(chunks.Get(p.id), 0, n*p.width); err != nil {
			return sc2err.WithChunk(err, p.id)
		}
	}

	altm := chunks.Get("ALTM")
	xter := chunks.Get("XTER")
	xzon := chunks.Get("XZON")
	xund := chunks.Get("XUND")
	xtxt := chunks.Get("XTXT")
	xbit := chunks.Get("XBIT")
	xbld := chunks.Get("XBLD")

	for i := range city.Tiles {
		t := &city.Tiles[i]

		decodeAltitude(t, altm[i*2:i*2+2])
		t.Terrain = xter[i]
		decodeZone(t, xzon[i])
		t.Underground = xund[i]
		t.TextPointer = int(xtxt[i])
		t.Flags = DecodeFlags(xbit[i])
		t.BuildingID = xbld[i]
	}

	r.log.WithField("tiles", n).Debug("tiles decoded")
	return nil
}

// decodeAltitude splits the 16-bit ALTM word, most significant bit first:
// bits 0-7 tunnel altitude, bit 8 water, bits 9-10 reserved, bits 11-15
// surface altitude.
func decodeAltitude(t *model.Tile, word []byte) {
	bits := scalar.NewBits(word)
	t.AltitudeTunnel = bits.Read(8)
	t.IsWater = bits.Bool()
	t.AltitudeUnknown = bits.Read(2)
	t.Altitude = bits.Read(5)
}

// decodeZone splits XZON into the corner mask (high nibble) and zone type.
func decodeZone(t *model.Tile, b byte) {
	bits := scalar.NewBits([]byte{b})
	t.ZoneCornerMask = uint8(bits.Read(4))
	t.ZoneCorners = scalar.BitString(uint32(t.ZoneCornerMask), 4)
	t.Zone = uint8(bits.Read(4))
}

// DecodeFlags tests each XBIT bit in bit-string order.
func DecodeFlags(b byte) model.BitFlags {
	s := scalar.BitString(uint32(b), 8)
	bit := func(i int) bool { return s[i] == '1' }

	return model.BitFlags{
		Powerable: bit(0),
		Powered:   bit(1),
		Piped:     bit(2),
		Watered:   bit(3),
		XVal:      bit(4),
		Water:     bit(5),
		Rotate:    bit(6),
		Salt:      bit(7),
	}
}
