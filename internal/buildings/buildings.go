// Package buildings is the static XBLD id table: name, footprint size and
// class for every possible id.
package buildings

import (
	"fmt"

	"github.com/dyuri/sc2conv/internal/model"
	"github.com/dyuri/sc2conv/internal/sc2err"
)

// Info describes one building id.
type Info struct {
	Name  string
	Size  int
	Class model.BuildingClass
}

type idRange struct {
	first, last uint8
	name        string
	size        int
	class       model.BuildingClass
}

var ranges = []idRange{
	{0x00, 0x00, "Clear", 1, model.ClassOther},
	{0x01, 0x04, "Rubble", 1, model.ClassOther},
	{0x05, 0x05, "Radioactive Waste", 1, model.ClassOther},
	{0x06, 0x0C, "Trees", 1, model.ClassOther},
	{0x0D, 0x0D, "Small Park", 1, model.ClassOther},

	{0x0E, 0x1C, "Power Line", 1, model.ClassNetwork},
	{0x1D, 0x2B, "Road", 1, model.ClassNetwork},
	{0x2C, 0x3A, "Rail", 1, model.ClassNetwork},
	{0x3B, 0x3E, "Rail Slope", 1, model.ClassNetwork},
	{0x3F, 0x42, "Tunnel Entrance", 1, model.ClassNetwork},
	{0x43, 0x44, "Crossover Road/Power", 1, model.ClassNetwork},
	{0x45, 0x46, "Crossover Road/Rail", 1, model.ClassNetwork},
	{0x47, 0x48, "Crossover Rail/Power", 1, model.ClassNetwork},
	{0x49, 0x4A, "Crossover Highway/Road", 2, model.ClassNetwork},
	{0x4B, 0x4C, "Crossover Highway/Rail", 2, model.ClassNetwork},
	{0x4D, 0x4E, "Crossover Highway/Power", 2, model.ClassNetwork},
	{0x4F, 0x50, "Crossover Highway/Highway", 2, model.ClassNetwork},
	{0x51, 0x55, "Suspension Bridge", 1, model.ClassNetwork},
	{0x56, 0x59, "Road Bridge", 1, model.ClassNetwork},
	{0x5A, 0x5B, "Rail Bridge", 1, model.ClassNetwork},
	{0x5C, 0x5F, "Elevated Power Line", 1, model.ClassNetwork},
	{0x60, 0x63, "Highway Onramp", 2, model.ClassNetwork},
	{0x64, 0x6B, "Highway", 2, model.ClassNetwork},
	{0x6C, 0x6F, "Highway Bridge", 2, model.ClassNetwork},

	{0x70, 0x8B, "Building 1x1", 1, model.ClassOther},
	{0x8C, 0xC5, "Building 2x2", 2, model.ClassOther},
	{0xC6, 0xF2, "Building 3x3", 3, model.ClassOther},
	{0xF3, 0xFF, "Building 4x4", 4, model.ClassOther},
}

// Named overrides for well-known ids inside the generic ranges.
var names = map[uint8]string{
	0xF3: "Coal Power Plant",
	0xF4: "Oil Power Plant",
	0xF5: "Nuclear Power Plant",
	0xF6: "Microwave Power Plant",
	0xF7: "Fusion Power Plant",
	0xF8: "Gas Power Plant",
	0xFB: "Plymouth Arcology",
	0xFC: "Forest Arcology",
	0xFD: "Darco Arcology",
	0xFE: "Launch Arcology",
}

var table = build()

func build() map[uint8]Info {
	t := make(map[uint8]Info, 256)
	for _, r := range ranges {
		for id := int(r.first); id <= int(r.last); id++ {
			name := r.name
			if r.last != r.first {
				name = fmt.Sprintf("%s %d", r.name, id-int(r.first)+1)
			}
			if n, ok := names[uint8(id)]; ok {
				name = n
			}
			t[uint8(id)] = Info{Name: name, Size: r.size, Class: r.class}
		}
	}
	return t
}

// Lookup returns the table entry for id. A missing entry means the table is
// incomplete and is reported as UnknownLookupId.
func Lookup(id uint8) (Info, error) {
	info, ok := table[id]
	if !ok {
		return Info{}, sc2err.UnknownID(id)
	}
	return info, nil
}

// IsGroundcover reports whether id is loose groundcover (rubble, waste, trees).
func IsGroundcover(id uint8) bool {
	return id >= 0x01 && id <= 0x0C
}

// IsNetwork reports whether id belongs to a transport or utility network.
func IsNetwork(id uint8) bool {
	return id >= 0x0E && id <= 0x6F
}

// IsHighway2x2 reports whether id is a highway piece placed as a 2x2
// footprint rather than as single tiles.
func IsHighway2x2(id uint8) bool {
	return (id >= 0x49 && id <= 0x50) || (id >= 0x60 && id <= 0x6F)
}
