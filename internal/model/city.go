package model

// City is the decoded contents of one city save in a format-agnostic way.
// It is built once by the binary reader and not modified afterwards.
type City struct {
	Name string
	Size int // Tiles per side
	Mac  bool

	// Tiles holds Size*Size entries in row-major order.
	Tiles []Tile

	// Building collections keyed by every footprint tile. All tiles of one
	// footprint map to the same *Building.
	Buildings   map[Coord]*Building
	Networks    map[Coord]*Building
	Groundcover map[Coord]*Building

	// Simulation overlays
	Traffic   *ScaledGrid
	Pollution *ScaledGrid
	Value     *ScaledGrid
	Crime     *ScaledGrid
	Police    *ScaledGrid
	Fire      *ScaledGrid
	Density   *ScaledGrid
	Growth    *ScaledGrid

	// Parameter block
	Attributes        map[string]int32 // Plain fields, plus "name|index" list entries
	SimulatorSettings map[string]int32
	GameSettings      map[string]int32
	Inventions        map[string]int32
	PopulationGraphs  map[string][]int32
	IndustryGraphs    map[string][]int32
	TileCounts        []int32
	Neighbours        [4]Neighbour
	Budget            *Budget

	Graphs   []Graph // XGRP, in file order
	Scenario *Scenario
	Labels   []string
	MicroSim []MicroSim
	Things   []Thing

	// Unknown holds decompressed chunks with unrecognised ids.
	Unknown map[string][]byte

	// Anomalies recorded while decoding; the decode still succeeded.
	Anomalies []Anomaly
}

// Coord addresses a tile.
type Coord struct {
	Row int
	Col int
}

// BuildingClass separates transport networks from everything else.
type BuildingClass int

const (
	ClassOther   BuildingClass = iota // Everything that is not a network
	ClassNetwork                      // Roads, rails, power lines, pipes, highways
)

func (c BuildingClass) String() string {
	switch c {
	case ClassNetwork:
		return "network"
	default:
		return "other"
	}
}

// Building is a placed structure. Every tile of its footprint points to the
// same Building.
type Building struct {
	ID     uint8
	Origin Coord
	Name   string
	Size   int // Footprint edge length in tiles
	Class  BuildingClass
}

// Anomaly is a non-fatal structural problem found while decoding.
type Anomaly struct {
	Chunk   string
	Row     int // -1 if not tile related
	Col     int
	Message string
}

// NewCity creates an empty city of size×size tiles with every tile
// positioned and all collections allocated.
func NewCity(size int) *City {
	c := &City{
		Size:              size,
		Tiles:             make([]Tile, size*size),
		Buildings:         make(map[Coord]*Building),
		Networks:          make(map[Coord]*Building),
		Groundcover:       make(map[Coord]*Building),
		Attributes:        make(map[string]int32),
		SimulatorSettings: make(map[string]int32),
		GameSettings:      make(map[string]int32),
		Inventions:        make(map[string]int32),
		PopulationGraphs:  make(map[string][]int32),
		IndustryGraphs:    make(map[string][]int32),
		Unknown:           make(map[string][]byte),
	}

	for i := range c.Tiles {
		c.Tiles[i].Row = i / size
		c.Tiles[i].Col = i % size
		c.Tiles[i].TextPointer = -1
	}

	return c
}

// Tile returns the tile at (row, col), or nil outside the map.
func (c *City) Tile(row, col int) *Tile {
	if row < 0 || col < 0 || row >= c.Size || col >= c.Size {
		return nil
	}
	return &c.Tiles[row*c.Size+col]
}

// Grids returns the eight overlays in chunk order
// (XTRF XPLT XVAL XCRM XPLC XFIR XPOP XROG).
func (c *City) Grids() []*ScaledGrid {
	return []*ScaledGrid{
		c.Traffic, c.Pollution, c.Value, c.Crime,
		c.Police, c.Fire, c.Density, c.Growth,
	}
}

// Overlay returns the read-only lookup view tiles use for their overlay
// accessors.
func (c *City) Overlay() *Overlay {
	return &Overlay{
		Traffic:   c.Traffic,
		Pollution: c.Pollution,
		Value:     c.Value,
		Crime:     c.Crime,
		Police:    c.Police,
		Fire:      c.Fire,
		Density:   c.Density,
		Growth:    c.Growth,
		Labels:    c.Labels,
	}
}

// UniqueBuildings returns each distinct building once, in first-seen
// row-major order across all three collections.
func (c *City) UniqueBuildings() []*Building {
	seen := make(map[*Building]bool)
	var out []*Building
	for i := range c.Tiles {
		coord := Coord{c.Tiles[i].Row, c.Tiles[i].Col}
		for _, m := range []map[Coord]*Building{c.Buildings, c.Networks, c.Groundcover} {
			if b, ok := m[coord]; ok && !seen[b] {
				seen[b] = true
				out = append(out, b)
			}
		}
	}
	return out
}

// TileSet is a decoded .mif tile set. Only the container is interpreted.
type TileSet struct {
	Name   string
	Mac    bool
	Chunks map[string][]byte
	Text   [][]byte
}

// NewTileSet creates an empty tile set.
func NewTileSet() *TileSet {
	return &TileSet{
		Chunks: make(map[string][]byte),
	}
}
