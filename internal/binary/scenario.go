package binary

import (
	"bytes"
	"strings"

	"github.com/dyuri/sc2conv/internal/iff"
	"github.com/dyuri/sc2conv/internal/model"
	"github.com/dyuri/sc2conv/internal/sc2err"
	"github.com/dyuri/sc2conv/internal/scalar"
)

// TEXT record ids
const (
	shortTextID = 0x80000000
	longTextID  = 0x81000000
)

var pictMagic = []byte{0x80, 0x00, 0x00, 0x00}

// goalFields are the SCEN goal record fields in storage order, starting at
// offset 4.
var goalFields = []struct {
	size  int
	store func(g *model.ScenarioGoals, v uint32)
}{
	{2, func(g *model.ScenarioGoals, v uint32) { g.DisasterType = uint16(v) }},
	{1, func(g *model.ScenarioGoals, v uint32) { g.DisasterX = uint8(v) }},
	{1, func(g *model.ScenarioGoals, v uint32) { g.DisasterY = uint8(v) }},
	{2, func(g *model.ScenarioGoals, v uint32) { g.TimeLimitMonths = uint16(v) }},
	{4, func(g *model.ScenarioGoals, v uint32) { g.CitySize = v }},
	{4, func(g *model.ScenarioGoals, v uint32) { g.Residential = v }},
	{4, func(g *model.ScenarioGoals, v uint32) { g.Commercial = v }},
	{4, func(g *model.ScenarioGoals, v uint32) { g.Industrial = v }},
	{4, func(g *model.ScenarioGoals, v uint32) { g.CashFlow = v }},
	{4, func(g *model.ScenarioGoals, v uint32) { g.LandValue = v }},
	{4, func(g *model.ScenarioGoals, v uint32) { g.PollutionLimit = v }},
	{4, func(g *model.ScenarioGoals, v uint32) { g.TrafficLimit = v }},
	{4, func(g *model.ScenarioGoals, v uint32) { g.CrimeLimit = v }},
	{1, func(g *model.ScenarioGoals, v uint32) { g.BuildItemOne = uint8(v) }},
	{1, func(g *model.ScenarioGoals, v uint32) { g.BuildItemTwo = uint8(v) }},
	{2, func(g *model.ScenarioGoals, v uint32) { g.ItemOneTiles = uint16(v) }},
	{2, func(g *model.ScenarioGoals, v uint32) { g.ItemTwoTiles = uint16(v) }},
}

const goalOffset = 4

func hasScenario(chunks *iff.Chunks) bool {
	return len(chunks.Text) > 0 && len(chunks.Get("SCEN")) > 0 && len(chunks.Get("PICT")) > 0
}

// readScenario decodes the scenario texts, goals and preview picture.
func (r *Reader) readScenario(chunks *iff.Chunks) (*model.Scenario, error) {
	scen := &model.Scenario{}

	for i, entry := range chunks.Text {
		if len(entry) < 4 {
			r.anomaly("TEXT", -1, -1, "text record %d is %d bytes, too short for an id", i, len(entry))
			continue
		}
		id, _ := scalar.Uint32(entry, 0)
		text := strings.ReplaceAll(r.decodeString(entry[4:]), "\r", "\n")

		switch id {
		case shortTextID:
			scen.ShortText = text
		case longTextID:
			scen.LongText = text
		default:
			r.anomaly("TEXT", -1, -1, "unknown text record id 0x%08x", id)
		}
	}

	goals, err := readGoals(chunks.Get("SCEN"))
	if err != nil {
		return nil, sc2err.WithChunk(err, "SCEN")
	}
	scen.Goals = goals

	scen.Picture = r.readPicture(chunks.Get("PICT"))
	return scen, nil
}

func readGoals(raw []byte) (model.ScenarioGoals, error) {
	var g model.ScenarioGoals
	off := goalOffset
	for _, f := range goalFields {
		v, err := scalar.Uint[uint32](raw, off, f.size)
		if err != nil {
			return g, err
		}
		f.store(&g, v)
		off += f.size
	}
	return g, nil
}

// readPicture decodes the PICT preview. Problems are anomalies: a bad magic
// drops the picture, a short row stops decoding.
func (r *Reader) readPicture(pict []byte) *model.Picture {
	if len(pict) < 8 {
		r.anomaly("PICT", -1, -1, "picture chunk is %d bytes, too short for a header", len(pict))
		return nil
	}
	if !bytes.Equal(pict[0:4], pictMagic) {
		r.anomaly("PICT", -1, -1, "bad picture magic % x", pict[0:4])
		return nil
	}

	// Dimensions are stored least significant byte first, unlike the rest
	// of the file.
	width := int(pict[4]) | int(pict[5])<<8
	height := int(pict[6]) | int(pict[7])<<8

	pic := &model.Picture{
		Width:  width,
		Height: height,
		Rows:   make([][]byte, 0, height),
	}

	data := pict[8:]
	stride := width + 1
	for row := 0; row < height; row++ {
		start := row * stride
		if start+stride > len(data) {
			r.anomaly("PICT", -1, -1, "picture row %d runs past end of chunk", row)
			break
		}

		raw := data[start : start+stride]
		if raw[width] != 0xFF {
			pic.Rows = append(pic.Rows, []byte{})
			continue
		}
		pic.Rows = append(pic.Rows, append([]byte(nil), raw[:width]...))
	}

	return pic
}
