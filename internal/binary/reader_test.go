package binary

import (
	"bytes"
	"errors"
	"testing"

	"github.com/dyuri/sc2conv/internal/sc2err"
)

func parseFixture(t *testing.T, f *cityFixture, opts ...Option) *Reader {
	t.Helper()
	data := f.bytes()
	return NewReader(bytes.NewReader(data), int64(len(data)), opts...)
}

// TestParseSingleBuilding decodes an otherwise empty city with one 1x1
// building at (5, 5).
func TestParseSingleBuilding(t *testing.T) {
	f := newCityFixture("TESTVILLE")
	idx := 5*CitySize + 5
	f.set("XBLD", idx, 0x70)
	f.set("XZON", idx, 0b1000<<4)

	city, err := parseFixture(t, f).Parse()
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if city.Name != "TESTVILLE" {
		t.Errorf("Name = %q, want %q", city.Name, "TESTVILLE")
	}
	if len(city.Tiles) != CitySize*CitySize {
		t.Fatalf("len(Tiles) = %d, want %d", len(city.Tiles), CitySize*CitySize)
	}
	if len(city.Buildings) != 1 {
		t.Fatalf("len(Buildings) = %d, want 1", len(city.Buildings))
	}
	if len(city.Networks) != 0 || len(city.Groundcover) != 0 {
		t.Errorf("networks = %d, groundcover = %d, want 0, 0", len(city.Networks), len(city.Groundcover))
	}
	if len(city.Anomalies) != 0 {
		t.Errorf("Anomalies = %v, want none", city.Anomalies)
	}

	tile := city.Tile(5, 5)
	if tile.Building == nil {
		t.Fatal("tile (5, 5) has no building")
	}
	if tile.Building.ID != 0x70 || tile.Building.Origin.Row != 5 || tile.Building.Origin.Col != 5 {
		t.Errorf("Building = %+v, want id 0x70 at (5, 5)", tile.Building)
	}
	if tile.ZoneCorners != "1000" {
		t.Errorf("ZoneCorners = %q, want %q", tile.ZoneCorners, "1000")
	}
	if city.Tile(5, 6).Building != nil {
		t.Error("tile (5, 6) has a building, want none")
	}
	if len(city.Graphs) != 16 {
		t.Errorf("len(Graphs) = %d, want 16", len(city.Graphs))
	}
	if city.Scenario != nil {
		t.Error("Scenario set without scenario chunks")
	}
}

func TestParseTileFields(t *testing.T) {
	f := newCityFixture("X")
	idx := 2*CitySize + 3
	f.chunks["ALTM"][idx*2] = 0xAB
	f.chunks["ALTM"][idx*2+1] = 0xCD
	f.set("XTER", idx, 0x11)
	f.set("XZON", idx, 0x9A)
	f.set("XUND", idx, 0x07)
	f.set("XTXT", idx, 1)
	f.set("XBIT", idx, 0b10100001)
	f.set("XTRF", 1*64+1, 42)
	f.set("XPLC", 0, 9)

	xlab := make([]byte, 2*labelLen)
	copy(xlab[labelLen:], "\x05HELLO")
	f.chunks["XLAB"] = xlab

	city, err := parseFixture(t, f).Parse()
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	tile := city.Tile(2, 3)
	if tile.AltitudeTunnel != 0xAB {
		t.Errorf("AltitudeTunnel = %d, want %d", tile.AltitudeTunnel, 0xAB)
	}
	if !tile.IsWater {
		t.Error("IsWater = false, want true")
	}
	if tile.AltitudeUnknown != 2 {
		t.Errorf("AltitudeUnknown = %d, want 2", tile.AltitudeUnknown)
	}
	if tile.Altitude != 13 {
		t.Errorf("Altitude = %d, want 13", tile.Altitude)
	}
	if tile.Terrain != 0x11 || tile.Underground != 0x07 {
		t.Errorf("Terrain/Underground = 0x%x/0x%x, want 0x11/0x07", tile.Terrain, tile.Underground)
	}
	if tile.ZoneCornerMask != 9 || tile.ZoneCorners != "1001" || tile.Zone != 10 {
		t.Errorf("zone = %d %q %d, want 9 \"1001\" 10", tile.ZoneCornerMask, tile.ZoneCorners, tile.Zone)
	}

	fl := tile.Flags
	if !fl.Powerable || fl.Powered || !fl.Piped || fl.Watered || fl.XVal || fl.Water || fl.Rotate || !fl.Salt {
		t.Errorf("Flags = %s, want 10100001", fl)
	}
	if fl.Byte() != 0b10100001 {
		t.Errorf("Flags.Byte() = %08b, want 10100001", fl.Byte())
	}

	if got := tile.Traffic(); got != 42 {
		t.Errorf("Traffic() = %d, want 42", got)
	}
	if got := tile.Police(); got != 9 {
		t.Errorf("Police() = %d, want 9", got)
	}
	if text, ok := tile.Text(); !ok || text != "HELLO" {
		t.Errorf("Text() = %q, %v, want \"HELLO\", true", text, ok)
	}

	// Pointer 0 is an empty label, pointer 0 elsewhere too.
	if _, ok := city.Tile(0, 0).Text(); ok {
		t.Error("Text() on empty label reported text")
	}

	f.set("XTXT", idx, 200)
	city, err = parseFixture(t, f).Parse()
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if _, ok := city.Tile(2, 3).Text(); ok {
		t.Error("Text() past end of labels reported text")
	}
}

func TestParseFallbackName(t *testing.T) {
	f := newCityFixture("")
	delete(f.chunks, "CNAM")

	city, err := parseFixture(t, f, WithFileName("/saves/new city.sc2")).Parse()
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if city.Name != "NEW CITY" {
		t.Errorf("Name = %q, want %q", city.Name, "NEW CITY")
	}

	long := "abcdefghijklmnopqrstuvwxyz0123456789.sc2"
	city, err = parseFixture(t, f, WithFileName(long)).Parse()
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(city.Name) != maxNameLen {
		t.Errorf("len(Name) = %d, want %d", len(city.Name), maxNameLen)
	}
}

func TestParseMacVariant(t *testing.T) {
	f := newCityFixture("")
	delete(f.chunks, "CNAM")
	inner := f.bytes()

	prefix := make([]byte, 0x80)
	prefix[1] = 6
	copy(prefix[2:], "MACTON")
	data := append(prefix, inner...)

	city, err := NewReader(bytes.NewReader(data), int64(len(data))).Parse()
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !city.Mac {
		t.Error("Mac = false, want true")
	}
	if city.Name != "MACTON" {
		t.Errorf("Name = %q, want %q", city.Name, "MACTON")
	}
}

func TestParseErrors(t *testing.T) {
	missing := newCityFixture("X")
	delete(missing.chunks, "XBLD")

	short := newCityFixture("X")
	short.chunks["XTER"] = make([]byte, 100)

	badMisc := newCityFixture("X")
	badMisc.chunks["MISC"] = make([]byte, 4000)

	badRotation := newCityFixture("X")
	badRotation.setMisc(0x08, 7)

	tests := []struct {
		name string
		f    *cityFixture
		want error
	}{
		{"missing chunk", missing, sc2err.ErrFormatMismatch},
		{"short plane", short, sc2err.ErrFormatMismatch},
		{"short misc", badMisc, sc2err.ErrFormatMismatch},
		{"rotation", badRotation, sc2err.ErrFormatMismatch},
	}

	for _, tt := range tests {
		_, err := parseFixture(t, tt.f).Parse()
		if !errors.Is(err, tt.want) {
			t.Errorf("%s: error = %v, want %v", tt.name, err, tt.want)
		}
	}

	data := []byte("not a city at all")
	if _, err := NewReader(bytes.NewReader(data), int64(len(data))).Parse(); err == nil {
		t.Error("Parse of garbage succeeded")
	}
}

func TestParseUnknownChunkKept(t *testing.T) {
	f := newCityFixture("X")
	f.chunks["QQQQ"] = []byte{1, 2, 3}

	city, err := parseFixture(t, f).Parse()
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !bytes.Equal(city.Unknown["QQQQ"], []byte{1, 2, 3}) {
		t.Errorf("Unknown[QQQQ] = %v, want [1 2 3]", city.Unknown["QQQQ"])
	}
}

func TestParseTileSet(t *testing.T) {
	var body bytes.Buffer
	body.WriteString("SC2K")
	body.WriteString("TILE")
	body.Write([]byte{0, 0, 0, 2, 0xAA, 0xBB})

	data := append([]byte("MIFF"), 0, 0, 0, byte(body.Len()))
	data = append(data, body.Bytes()...)

	ts, err := NewReader(bytes.NewReader(data), int64(len(data)), WithFileName("tiles.mif")).ParseTileSet()
	if err != nil {
		t.Fatalf("ParseTileSet failed: %v", err)
	}
	if !bytes.Equal(ts.Chunks["TILE"], []byte{0xAA, 0xBB}) {
		t.Errorf("TILE = %v, want passthrough", ts.Chunks["TILE"])
	}
	if ts.Name != "TILES" {
		t.Errorf("Name = %q, want %q", ts.Name, "TILES")
	}
}

func TestParseKeepsBadChunkID(t *testing.T) {
	f := newCityFixture("ODDTOWN")
	f.chunks["XY\x01Z"] = []byte{1, 2, 3}

	city, err := parseFixture(t, f).Parse()
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if got := city.Unknown["XY\x01Z"]; !bytes.Equal(got, []byte{1, 2, 3}) {
		t.Errorf("Unknown chunk = %v, want [1 2 3]", got)
	}
	if len(city.Anomalies) != 1 || city.Anomalies[0].Chunk != "XY\x01Z" {
		t.Errorf("Anomalies = %v, want one for the bad chunk id", city.Anomalies)
	}
}
