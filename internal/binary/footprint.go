package binary

import (
	"fmt"

	"github.com/boljen/go-bitmap"
	"github.com/dyuri/sc2conv/internal/buildings"
	"github.com/dyuri/sc2conv/internal/model"
	"github.com/dyuri/sc2conv/internal/sc2err"
	"github.com/sirupsen/logrus"
)

// Corner bit that marks a footprint origin, indexed by city rotation.
var cornerBits = [4]uint8{0b1000, 0b0001, 0b0010, 0b0100}

// Footprint rows stop short of this row. Some 3x3 industrial buildings on
// the bottom edge claim rows that do not exist; the game ignores them.
const footprintRowLimit = 127

// CornerBit returns the XZON corner bit marking an origin under rotation.
func CornerBit(rotation int32) (uint8, error) {
	if rotation < 0 || int(rotation) >= len(cornerBits) {
		return 0, sc2err.Format("MISC", 0x08, "rotation %d out of range 0-3", rotation)
	}
	return cornerBits[rotation], nil
}

type footprints struct {
	r       *Reader
	city    *model.City
	claimed bitmap.Bitmap
	holes   int
}

// resolveFootprints scans tiles row-major for origin corners and rebuilds
// every building footprint from the XBLD plane.
func (r *Reader) resolveFootprints(city *model.City) error {
	rotation := city.SimulatorSettings["Compass"]
	corner, err := CornerBit(rotation)
	if err != nil {
		return err
	}
	r.log.WithField("rotation", rotation).Debug("footprint origin corner selected")

	f := &footprints{
		r:       r,
		city:    city,
		claimed: bitmap.New(city.Size * city.Size),
	}

	for row := 0; row < city.Size; row++ {
		for col := 0; col < city.Size; col++ {
			if err := f.visit(row, col, corner); err != nil {
				return err
			}
		}
	}

	r.log.WithFields(logrus.Fields{
		"buildings":   len(city.Buildings),
		"networks":    len(city.Networks),
		"groundcover": len(city.Groundcover),
		"holes":       f.holes,
	}).Debug("footprints resolved")
	return nil
}

func (f *footprints) visit(row, col int, corner uint8) error {
	t := f.city.Tile(row, col)
	id := t.BuildingID

	switch {
	case t.ZoneCornerMask&corner != 0:
		return f.place(row, col, id)

	case f.isClaimed(row, col):
		// Part of a footprint found earlier.

	case buildings.IsGroundcover(id):
		b, err := f.newBuilding(id, row, col)
		if err != nil {
			return err
		}
		f.attach(f.city.Groundcover, b, row, col)

	case buildings.IsNetwork(id) && !buildings.IsHighway2x2(id):
		b, err := f.newBuilding(id, row, col)
		if err != nil {
			return err
		}
		f.attach(f.city.Networks, b, row, col)
	}

	return nil
}

// place builds the footprint anchored at an origin tile. Rows run down from
// the origin, columns run leftwards.
func (f *footprints) place(row, col int, id uint8) error {
	if f.isClaimed(row, col) {
		f.hole(row, col, "origin of 0x%02x already claimed by %s", id, f.city.Tile(row, col).Building.Name)
		return nil
	}

	b, err := f.newBuilding(id, row, col)
	if err != nil {
		return err
	}
	target := f.city.Buildings
	if b.Class == model.ClassNetwork {
		target = f.city.Networks
	}

	f.attach(target, b, row, col)
	if b.Size == 1 {
		return nil
	}

	rowEnd := row + b.Size
	if rowEnd > footprintRowLimit {
		rowEnd = footprintRowLimit
	}

	for fr := row; fr < rowEnd; fr++ {
		for fc := col; fc >= col-(b.Size-1); fc-- {
			if fr == row && fc == col {
				continue
			}
			if fc < 0 || fr >= f.city.Size {
				f.hole(fr, fc, "footprint of %s at (%d, %d) leaves the map", b.Name, row, col)
				continue
			}

			tile := f.city.Tile(fr, fc)
			switch {
			case tile.BuildingID != id:
				f.hole(fr, fc, "hole in %s at (%d, %d): found id 0x%02x", b.Name, row, col, tile.BuildingID)
			case f.isClaimed(fr, fc):
				f.hole(fr, fc, "hole in %s at (%d, %d): tile claimed by %s", b.Name, row, col, tile.Building.Name)
			default:
				f.attach(target, b, fr, fc)
			}
		}
	}

	return nil
}

func (f *footprints) newBuilding(id uint8, row, col int) (*model.Building, error) {
	info, err := buildings.Lookup(id)
	if err != nil {
		return nil, fmt.Errorf("tile (%d, %d): %w", row, col, err)
	}
	return &model.Building{
		ID:     id,
		Origin: model.Coord{Row: row, Col: col},
		Name:   info.Name,
		Size:   info.Size,
		Class:  info.Class,
	}, nil
}

func (f *footprints) attach(target map[model.Coord]*model.Building, b *model.Building, row, col int) {
	target[model.Coord{Row: row, Col: col}] = b
	f.city.Tile(row, col).Building = b
	f.claimed.Set(row*f.city.Size+col, true)
}

func (f *footprints) isClaimed(row, col int) bool {
	return f.claimed.Get(row*f.city.Size + col)
}

func (f *footprints) hole(row, col int, format string, args ...interface{}) {
	f.holes++
	f.r.anomaly("XBLD", row, col, format, args...)
}
