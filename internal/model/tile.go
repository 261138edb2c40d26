package model

// Tile is one map cell. Only the decoded scalar fields and the building
// reference belong to the tile; overlay values are looked up on demand.
type Tile struct {
	Row int
	Col int

	// ALTM
	AltitudeTunnel  uint32
	IsWater         bool
	AltitudeUnknown uint32 // Reserved bits, kept opaque
	Altitude        uint32

	Terrain uint8 // XTER

	// XZON
	ZoneCorners    string // Corner mask as a 4-char bit string
	ZoneCornerMask uint8
	Zone           uint8

	Underground uint8 // XUND
	TextPointer int   // XTXT, -1 before decode
	Flags       BitFlags
	BuildingID  uint8 // Raw XBLD byte

	Building *Building

	overlay *Overlay
}

// Overlay holds the city-wide lookup tables shared by every tile.
type Overlay struct {
	Traffic   *ScaledGrid
	Pollution *ScaledGrid
	Value     *ScaledGrid
	Crime     *ScaledGrid
	Police    *ScaledGrid
	Fire      *ScaledGrid
	Density   *ScaledGrid
	Growth    *ScaledGrid
	Labels    []string
}

// SetOverlay attaches the shared lookup tables.
func (t *Tile) SetOverlay(o *Overlay) {
	t.overlay = o
}

func (t *Tile) lookup(pick func(*Overlay) *ScaledGrid) uint8 {
	if t.overlay == nil {
		return 0
	}
	g := pick(t.overlay)
	if g == nil {
		return 0
	}
	return g.At(t.Row, t.Col)
}

func (t *Tile) Traffic() uint8   { return t.lookup(func(o *Overlay) *ScaledGrid { return o.Traffic }) }
func (t *Tile) Pollution() uint8 { return t.lookup(func(o *Overlay) *ScaledGrid { return o.Pollution }) }
func (t *Tile) Value() uint8     { return t.lookup(func(o *Overlay) *ScaledGrid { return o.Value }) }
func (t *Tile) Crime() uint8     { return t.lookup(func(o *Overlay) *ScaledGrid { return o.Crime }) }
func (t *Tile) Police() uint8    { return t.lookup(func(o *Overlay) *ScaledGrid { return o.Police }) }
func (t *Tile) Fire() uint8      { return t.lookup(func(o *Overlay) *ScaledGrid { return o.Fire }) }
func (t *Tile) Density() uint8   { return t.lookup(func(o *Overlay) *ScaledGrid { return o.Density }) }
func (t *Tile) Growth() uint8    { return t.lookup(func(o *Overlay) *ScaledGrid { return o.Growth }) }

// Text returns the sign text this tile points at. A pointer past the end
// of the label list is not an error, it just means no text.
func (t *Tile) Text() (string, bool) {
	if t.overlay == nil || t.TextPointer < 0 || t.TextPointer >= len(t.overlay.Labels) {
		return "", false
	}
	s := t.overlay.Labels[t.TextPointer]
	return s, s != ""
}

// BitFlags are the eight XBIT status bits, most significant first.
type BitFlags struct {
	Powerable bool // Needs power
	Powered   bool
	Piped     bool
	Watered   bool
	XVal      bool // Land value flag
	Water     bool // Covered in water
	Rotate    bool
	Salt      bool // Salt water
}

// Byte packs the flags back into the on-disk byte.
func (f BitFlags) Byte() uint8 {
	var v uint8
	for i, b := range f.list() {
		if b {
			v |= 0x80 >> i
		}
	}
	return v
}

// String renders the flags as an 8-char bit string.
func (f BitFlags) String() string {
	s := make([]byte, 8)
	for i, b := range f.list() {
		s[i] = '0'
		if b {
			s[i] = '1'
		}
	}
	return string(s)
}

func (f BitFlags) list() [8]bool {
	return [8]bool{f.Powerable, f.Powered, f.Piped, f.Watered, f.XVal, f.Water, f.Rotate, f.Salt}
}

// ScaledGrid is a square overlay stored at reduced resolution. Lookups take
// full-resolution coordinates.
type ScaledGrid struct {
	Name   string
	Size   int // Cells per side
	Factor int // Tiles per cell side
	Data   []uint8
}

// NewScaledGrid allocates a zeroed grid.
func NewScaledGrid(name string, size, factor int) *ScaledGrid {
	return &ScaledGrid{
		Name:   name,
		Size:   size,
		Factor: factor,
		Data:   make([]uint8, size*size),
	}
}

// At returns the value covering full-resolution tile (row, col).
func (g *ScaledGrid) At(row, col int) uint8 {
	return g.Cell(row/g.Factor, col/g.Factor)
}

// Cell returns the value at grid cell (row, col), or 0 outside the grid.
func (g *ScaledGrid) Cell(row, col int) uint8 {
	if row < 0 || col < 0 || row >= g.Size || col >= g.Size {
		return 0
	}
	return g.Data[row*g.Size+col]
}

// Set stores v in the cell covering full-resolution tile (row, col).
func (g *ScaledGrid) Set(row, col int, v uint8) {
	r, c := row/g.Factor, col/g.Factor
	if r < 0 || c < 0 || r >= g.Size || c >= g.Size {
		return
	}
	g.Data[r*g.Size+c] = v
}

// Rows returns the grid as Size slices of Size values.
func (g *ScaledGrid) Rows() [][]uint8 {
	rows := make([][]uint8, g.Size)
	for i := range rows {
		rows[i] = g.Data[i*g.Size : (i+1)*g.Size]
	}
	return rows
}
