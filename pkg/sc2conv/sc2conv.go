// Package sc2conv provides functions for working with SimCity 2000 city
// saves (.sc2, .scn) and tile sets (.mif).
//
// This package can be used as a library to decode saves and export them
// programmatically.
//
// Example usage:
//
//	f, _ := os.Open("city.sc2")
//	defer f.Close()
//	stat, _ := f.Stat()
//
//	city, err := sc2conv.ParseCity(f, stat.Size())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	out, _ := os.Create("city.json.zst")
//	defer out.Close()
//	sc2conv.WriteDocument(out, sc2conv.CityDocument(city, sc2conv.Source{}), sc2conv.WriteOptions{})
package sc2conv

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dyuri/sc2conv/internal/binary"
	"github.com/dyuri/sc2conv/internal/export"
	"github.com/dyuri/sc2conv/internal/model"
	"github.com/dyuri/sc2conv/internal/sc2err"
)

type (
	City    = model.City
	TileSet = model.TileSet
	Anomaly = model.Anomaly

	Option       = binary.Option
	Source       = export.Source
	WriteOptions = export.Options
	Compression  = export.Compression
)

// Decode options
var (
	WithLogger   = binary.WithLogger
	WithFileName = binary.WithFileName
	WithCharset  = binary.WithCharset
)

// ParseCity decodes a city save.
//
// The reader must support ReadAt for random access. The size parameter
// should be the total file size in bytes.
func ParseCity(r io.ReaderAt, size int64, opts ...Option) (*City, error) {
	reader := binary.NewReader(r, size, opts...)
	return reader.Parse()
}

// ParseTileSet decodes a .mif tile set container.
func ParseTileSet(r io.ReaderAt, size int64, opts ...Option) (*TileSet, error) {
	reader := binary.NewReader(r, size, opts...)
	return reader.ParseTileSet()
}

// IsTileSet reports whether path names a tile set rather than a city.
func IsTileSet(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".mif")
}

// ParseFile opens path and decodes it as a city or a tile set depending on
// its extension. Exactly one of the returned values is non-nil on success.
func ParseFile(path string, opts ...Option) (*City, *TileSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open input file: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, nil, fmt.Errorf("stat input file: %w", err)
	}

	opts = append([]Option{WithFileName(path)}, opts...)
	if IsTileSet(path) {
		ts, err := ParseTileSet(f, stat.Size(), opts...)
		return nil, ts, err
	}
	city, err := ParseCity(f, stat.Size(), opts...)
	return city, nil, err
}

// CityDocument builds the nested export document of a city.
func CityDocument(city *City, src Source) map[string]interface{} {
	return export.CityDocument(city, src)
}

// TileSetDocument builds the nested export document of a tile set.
func TileSetDocument(ts *TileSet, src Source) map[string]interface{} {
	return export.TileSetDocument(ts, src)
}

// WriteDocument writes doc as JSON through the configured compression
// (zstd unless set).
func WriteDocument(w io.Writer, doc map[string]interface{}, opts WriteOptions) error {
	return export.Write(w, doc, opts)
}

// ValidationError represents a validation issue found in a city
type ValidationError struct {
	Field   string // Chunk id or location
	Message string // Error description
	Level   string // "error" or "warning"
}

// Validate checks a decoded city for problems that did not stop decoding.
//
// Returns a list of validation errors/warnings. An empty list means
// the city is clean.
func Validate(city *City) []ValidationError {
	var out []ValidationError

	for _, a := range city.Anomalies {
		field := a.Chunk
		if a.Row >= 0 {
			field = fmt.Sprintf("%s (%d, %d)", a.Chunk, a.Row, a.Col)
		}
		out = append(out, ValidationError{Field: field, Message: a.Message, Level: "warning"})
	}

	unknown := make([]string, 0, len(city.Unknown))
	for id := range city.Unknown {
		unknown = append(unknown, id)
	}
	sort.Strings(unknown)
	for _, id := range unknown {
		out = append(out, ValidationError{Field: id, Message: "unrecognised chunk kept opaque", Level: "warning"})
	}

	if len(city.Graphs) == 0 {
		out = append(out, ValidationError{Field: "XGRP", Message: "no history graphs", Level: "warning"})
	}

	for _, m := range []map[model.Coord]*model.Building{city.Buildings, city.Networks, city.Groundcover} {
		for _, coord := range sortedCoords(m) {
			b := m[coord]
			t := city.Tile(coord.Row, coord.Col)
			if t == nil {
				out = append(out, ValidationError{
					Field:   "XBLD",
					Message: fmt.Sprintf("%s covers (%d, %d) outside the map", b.Name, coord.Row, coord.Col),
					Level:   "error",
				})
				continue
			}
			if t.Building != b {
				out = append(out, ValidationError{
					Field:   fmt.Sprintf("XBLD (%d, %d)", coord.Row, coord.Col),
					Message: fmt.Sprintf("tile does not point at %s", b.Name),
					Level:   "error",
				})
			}
		}
	}

	return out
}

// sortedCoords returns the keys of m in row-major order.
func sortedCoords(m map[model.Coord]*model.Building) []model.Coord {
	coords := make([]model.Coord, 0, len(m))
	for c := range m {
		coords = append(coords, c)
	}
	sort.Slice(coords, func(i, j int) bool {
		if coords[i].Row != coords[j].Row {
			return coords[i].Row < coords[j].Row
		}
		return coords[i].Col < coords[j].Col
	})
	return coords
}

// Error kinds, matched with errors.Is
var (
	ErrFormatMismatch    = sc2err.ErrFormatMismatch
	ErrTruncatedInput    = sc2err.ErrTruncatedInput
	ErrUnknownLookupId   = sc2err.ErrUnknownLookupId
	ErrStructuralAnomaly = sc2err.ErrStructuralAnomaly
)

// Error represents a decode error
type Error = sc2err.Error
