package binary

import (
	"fmt"

	"github.com/dyuri/sc2conv/internal/model"
	"github.com/dyuri/sc2conv/internal/sc2err"
	"github.com/dyuri/sc2conv/internal/scalar"
)

// MiscSize is the decompressed size of the MISC parameter block.
const MiscSize = 4800

type entryKind int

const (
	plainField entryKind = iota
	subDecoder
	skipMarker
)

// Destination map for a plain field.
type fieldGroup int

const (
	groupAttributes fieldGroup = iota
	groupSimulator
	groupGame
	groupInvention
)

type subKind int

const (
	subNone subKind = iota
	subPopulationGraphs
	subIndustryGraphs
	subTileCounts
	subNeighbours
	subBudget
	subList
	subExtra
)

type miscEntry struct {
	offset int
	kind   entryKind
	name   string
	group  fieldGroup
	sub    subKind
	count  int // subList length
}

func plain(off int, name string) miscEntry {
	return miscEntry{offset: off, kind: plainField, name: name}
}

func setting(off int, name string, g fieldGroup) miscEntry {
	return miscEntry{offset: off, kind: plainField, name: name, group: g}
}

func sub(off int, name string, k subKind) miscEntry {
	return miscEntry{offset: off, kind: subDecoder, name: name, sub: k}
}

func list(off int, name string, n int) miscEntry {
	return miscEntry{offset: off, kind: subDecoder, name: name, sub: subList, count: n}
}

func skip(off int, name string) miscEntry {
	return miscEntry{offset: off, kind: skipMarker, name: name}
}

// Series names of the interleaved graph regions.
var (
	PopulationGraphNames = []string{"population_percent", "health_le", "education_eq"}
	IndustryGraphNames   = []string{"industrial_ratios", "industrial_tax_rate", "industrial_demand"}
)

const (
	populationGraphsLen = 240
	industryGraphsLen   = 132
	tileCountsLen       = 256
	neighbourCount      = 4
	neighbourRecordLen  = 16
)

// miscTable maps every known MISC offset to its field, in offset order.
var miscTable = []miscEntry{
	plain(0x0000, "FirstEntry"),
	plain(0x0004, "GameMode"),
	setting(0x0008, "Compass", groupSimulator),
	plain(0x000C, "baseYear"),
	plain(0x0010, "simCycle"),
	plain(0x0014, "TotalFunds"),
	plain(0x0018, "TotalBonds"),
	plain(0x001C, "GameLevel"),
	plain(0x0020, "CityStatus"),
	plain(0x0024, "CityValue"),
	plain(0x0028, "LandValue"),
	plain(0x002C, "CrimeCount"),
	plain(0x0030, "TrafficCount"),
	plain(0x0034, "Pollution"),
	plain(0x0038, "CityFame"),
	plain(0x003C, "Advertising"),
	plain(0x0040, "Garbage"),
	plain(0x0044, "WorkerPercent"),
	plain(0x0048, "WorkerHealth"),
	plain(0x004C, "WorkerEducate"),
	plain(0x0050, "NationalPop"),
	plain(0x0054, "NationalValue"),
	plain(0x0058, "NationalTax"),
	plain(0x005C, "NationalTrend"),
	plain(0x0060, "heat"),
	plain(0x0064, "wind"),
	plain(0x0068, "humid"),
	plain(0x006C, "weatherTrend"),
	plain(0x0070, "NewDisaster"),
	plain(0x0074, "oldResPop"),
	plain(0x0078, "Rewards"),
	sub(0x007C, "Population Graphs", subPopulationGraphs),
	sub(0x016C, "Industry Graphs", subIndustryGraphs),
	sub(0x01F0, "Tile Counts", subTileCounts),
	plain(0x05F0, "ZonePop|0"),
	plain(0x05F4, "ZonePop|1"),
	plain(0x05F8, "ZonePop|2"),
	plain(0x05FC, "ZonePop|3"),
	plain(0x0600, "ZonePop|4"),
	plain(0x0604, "ZonePop|5"),
	plain(0x0608, "ZonePop|6"),
	plain(0x060C, "ZonePop|7"),
	skip(0x0610, "Bonds"),
	sub(0x06D8, "Neighbours", subNeighbours),
	plain(0x0718, "Valve?|0"),
	plain(0x071C, "Valve?|1"),
	plain(0x0720, "Valve?|2"),
	plain(0x0724, "Valve?|3"),
	plain(0x0728, "Valve?|4"),
	plain(0x072C, "Valve?|5"),
	plain(0x0730, "Valve?|6"),
	plain(0x0734, "Valve?|7"),
	setting(0x0738, "gas_power", groupInvention),
	setting(0x073C, "nuclear_power", groupInvention),
	setting(0x0740, "solar_power", groupInvention),
	setting(0x0744, "wind_power", groupInvention),
	setting(0x0748, "microwave_power", groupInvention),
	setting(0x074C, "fusion_power", groupInvention),
	setting(0x0750, "airport", groupInvention),
	setting(0x0754, "highways", groupInvention),
	setting(0x0758, "buses", groupInvention),
	setting(0x075C, "subways", groupInvention),
	setting(0x0760, "water_treatment", groupInvention),
	setting(0x0764, "desalinisation", groupInvention),
	setting(0x0768, "plymouth", groupInvention),
	setting(0x076C, "forest", groupInvention),
	setting(0x0770, "darco", groupInvention),
	setting(0x0774, "launch", groupInvention),
	setting(0x0778, "highway_2", groupInvention),
	sub(0x077C, "Budget", subBudget),
	setting(0x0E3C, "YearEnd", groupSimulator),
	setting(0x0E40, "GlobalSeaLevel", groupSimulator),
	setting(0x0E44, "terCoast", groupSimulator),
	setting(0x0E48, "terRiver", groupSimulator),
	setting(0x0E4C, "Military", groupSimulator),
	list(0x0E50, "Paper List", 30),
	list(0x0EC8, "News List", 54),
	skip(0x0FA0, "Ordinances"),
	plain(0x0FA4, "unemployed"),
	list(0x0FA8, "Military Count", 16),
	plain(0x0FE8, "SubwayCnt"),
	setting(0x0FEC, "GameSpeed", groupGame),
	setting(0x0FF0, "AutoBudget", groupGame),
	setting(0x0FF4, "AutoGo", groupGame),
	setting(0x0FF8, "UserSoundOn", groupGame),
	setting(0x0FFC, "UserMusicOn", groupGame),
	setting(0x1000, "NoDisasters", groupGame),
	plain(0x1004, "PaperDeliver"),
	plain(0x1008, "PaperExtra"),
	plain(0x100C, "PaperChoice"),
	plain(0x1010, "unknown128"),
	setting(0x1014, "Zoom", groupSimulator),
	setting(0x1018, "CityCentX", groupSimulator),
	setting(0x101C, "CityCentY", groupSimulator),
	plain(0x1020, "GlobalArcoPop"),
	plain(0x1024, "ConnectTiles"),
	plain(0x1028, "TeamsActive"),
	plain(0x102C, "TotalPop"),
	plain(0x1030, "IndustryBonus"),
	plain(0x1034, "PolluteBonus"),
	plain(0x1038, "oldArrest"),
	plain(0x103C, "PoliceBonus"),
	plain(0x1040, "DisasterObject"),
	plain(0x1044, "CurrentDisaster"),
	plain(0x1048, "GoDisaster"),
	plain(0x104C, "SewerBonus"),
	sub(0x1050, "Extra", subExtra),
}

// readMisc decodes the parameter block into city.
func (r *Reader) readMisc(city *model.City, misc []byte) error {
	if len(misc) != MiscSize {
		return sc2err.Format("MISC", -1, "parameter block is %d bytes, expected %d", len(misc), MiscSize)
	}

	for _, e := range miscTable {
		var err error
		switch e.kind {
		case skipMarker:
			// Decoded with the budget.
		case plainField:
			err = storePlain(city, misc, e)
		case subDecoder:
			err = r.decodeSub(city, misc, e)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", e.name, sc2err.WithChunk(err, "MISC"))
		}
	}

	r.log.WithField("attributes", len(city.Attributes)).Debug("parameter block decoded")
	return nil
}

func storePlain(city *model.City, misc []byte, e miscEntry) error {
	v, err := scalar.Int32(misc, e.offset)
	if err != nil {
		return err
	}

	switch e.group {
	case groupSimulator:
		city.SimulatorSettings[e.name] = v
	case groupGame:
		city.GameSettings[e.name] = v
	case groupInvention:
		city.Inventions[e.name] = v
	default:
		city.Attributes[e.name] = v
	}
	return nil
}

func (r *Reader) decodeSub(city *model.City, misc []byte, e miscEntry) error {
	switch e.sub {
	case subPopulationGraphs:
		values, err := int32sAt(misc, e.offset, populationGraphsLen/4)
		if err != nil {
			return err
		}
		city.PopulationGraphs = Deinterleave(values, PopulationGraphNames)

	case subIndustryGraphs:
		values, err := int32sAt(misc, e.offset, industryGraphsLen/4)
		if err != nil {
			return err
		}
		city.IndustryGraphs = Deinterleave(values, IndustryGraphNames)

	case subTileCounts:
		values, err := int32sAt(misc, e.offset, tileCountsLen)
		if err != nil {
			return err
		}
		city.TileCounts = values

	case subNeighbours:
		for n := 0; n < neighbourCount; n++ {
			nb, err := readNeighbour(misc, e.offset+n*neighbourRecordLen)
			if err != nil {
				return err
			}
			city.Neighbours[n] = nb
		}

	case subBudget:
		budget, err := r.readBudget(misc)
		if err != nil {
			return err
		}
		city.Budget = budget

	case subList:
		return storeList(city, misc, e.name, e.offset, e.count)

	case subExtra:
		return storeList(city, misc, e.name, e.offset, (MiscSize-e.offset)/4)
	}
	return nil
}

func storeList(city *model.City, misc []byte, name string, off, n int) error {
	values, err := int32sAt(misc, off, n)
	if err != nil {
		return err
	}
	for i, v := range values {
		city.Attributes[fmt.Sprintf("%s|%d", name, i)] = v
	}
	return nil
}

func int32sAt(b []byte, off, n int) ([]int32, error) {
	raw, err := scalar.Slice(b, off, n*4)
	if err != nil {
		return nil, err
	}
	return scalar.Int32s(raw)
}

// Deinterleave splits round-robin interleaved values: value i belongs to
// series i mod len(names).
func Deinterleave(values []int32, names []string) map[string][]int32 {
	out := make(map[string][]int32, len(names))
	for _, name := range names {
		out[name] = make([]int32, 0, len(values)/len(names)+1)
	}
	for i, v := range values {
		name := names[i%len(names)]
		out[name] = append(out[name], v)
	}
	return out
}

// NeighbourField maps a byte offset inside a neighbour record to its field
// index (name, population, value, fame). The stored order is rotated by two
// fields.
func NeighbourField(rel int) int {
	return ((rel + 8) % neighbourRecordLen) / 4
}

func readNeighbour(misc []byte, base int) (model.Neighbour, error) {
	var fields [4]int32
	for rel := 0; rel < neighbourRecordLen; rel += 4 {
		v, err := scalar.Int32(misc, base+rel)
		if err != nil {
			return model.Neighbour{}, err
		}
		fields[NeighbourField(rel)] = v
	}
	return model.Neighbour{
		Name:       fields[0],
		Population: fields[1],
		Value:      fields[2],
		Fame:       fields[3],
	}, nil
}
