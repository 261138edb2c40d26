// Package render draws decoded cities as images.
package render

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"strings"

	"github.com/dyuri/sc2conv/internal/buildings"
	"github.com/dyuri/sc2conv/internal/model"
	"github.com/fogleman/gg"
	"golang.org/x/image/bmp"
)

// MapOptions control the overview render.
type MapOptions struct {
	Scale    int    // Pixels per tile side, at least 1
	Overlay  string // Overlay name (traffic, pollution, ...) drawn instead of the map
	Outlines bool   // Stroke a border around multi-tile buildings
}

// Tile palette
var (
	colorWater    = color.RGBA{0x1e, 0x5a, 0xa8, 0xff}
	colorNetwork  = color.RGBA{0x40, 0x40, 0x40, 0xff}
	colorTrees    = color.RGBA{0x1f, 0x6e, 0x2b, 0xff}
	colorRubble   = color.RGBA{0x7a, 0x6a, 0x5a, 0xff}
	colorBuilding = color.RGBA{0xb0, 0xb0, 0xb0, 0xff}
	colorOutline  = color.RGBA{0x00, 0x00, 0x00, 0xff}
)

var zoneColors = map[uint8]color.RGBA{
	1: {0x8f, 0xd9, 0x8f, 0xff}, // Light residential
	2: {0x3c, 0xb0, 0x3c, 0xff}, // Dense residential
	3: {0x8f, 0xb4, 0xe6, 0xff}, // Light commercial
	4: {0x3c, 0x6e, 0xd2, 0xff}, // Dense commercial
	5: {0xe6, 0xd7, 0x78, 0xff}, // Light industrial
	6: {0xc8, 0xa0, 0x28, 0xff}, // Dense industrial
	7: {0x5a, 0xc8, 0xc8, 0xff}, // Seaport
	8: {0xc8, 0x5a, 0xc8, 0xff}, // Airport
	9: {0x80, 0x80, 0x50, 0xff}, // Military
}

// TileColor is the overview colour of one tile.
func TileColor(t *model.Tile) color.RGBA {
	if b := t.Building; b != nil {
		switch {
		case b.Class == model.ClassNetwork:
			return colorNetwork
		case b.ID >= 0x06 && b.ID <= 0x0C:
			return colorTrees
		case buildings.IsGroundcover(b.ID):
			return colorRubble
		case b.ID != 0:
			if c, ok := zoneColors[t.Zone]; ok {
				return c
			}
			return colorBuilding
		}
	}

	if t.IsWater || t.Flags.Water {
		return colorWater
	}
	if c, ok := zoneColors[t.Zone]; ok {
		return c
	}

	// Bare land, lighter with altitude.
	shade := uint8(0x60 + (t.Altitude&0x1f)*4)
	return color.RGBA{shade, shade - 0x10, 0x40, 0xff}
}

func heatColor(v uint8) color.RGBA {
	return color.RGBA{v, 0, 0xff - v, 0xff}
}

// Map draws city at opts.Scale pixels per tile.
func Map(city *model.City, opts MapOptions) (*gg.Context, error) {
	scale := opts.Scale
	if scale < 1 {
		scale = 1
	}

	var grid *model.ScaledGrid
	if opts.Overlay != "" {
		for _, g := range city.Grids() {
			if g != nil && strings.EqualFold(g.Name, opts.Overlay) {
				grid = g
			}
		}
		if grid == nil {
			return nil, fmt.Errorf("unknown overlay: %s", opts.Overlay)
		}
	}

	dc := gg.NewContext(city.Size*scale, city.Size*scale)
	for i := range city.Tiles {
		t := &city.Tiles[i]
		c := TileColor(t)
		if grid != nil {
			c = heatColor(grid.At(t.Row, t.Col))
		}

		dc.SetColor(c)
		for y := 0; y < scale; y++ {
			for x := 0; x < scale; x++ {
				dc.SetPixel(t.Col*scale+x, t.Row*scale+y)
			}
		}
	}

	if opts.Outlines && scale > 1 {
		dc.SetColor(colorOutline)
		dc.SetLineWidth(1)
		for _, b := range city.UniqueBuildings() {
			if b.Size < 2 {
				continue
			}
			// Footprints grow down and to the left of the origin.
			left := b.Origin.Col - (b.Size - 1)
			dc.DrawRectangle(float64(left*scale)+0.5, float64(b.Origin.Row*scale)+0.5,
				float64(b.Size*scale-1), float64(b.Size*scale-1))
			dc.Stroke()
		}
	}

	return dc, nil
}

// EncodeMapPNG renders city and writes it to w as PNG.
func EncodeMapPNG(w io.Writer, city *model.City, opts MapOptions) error {
	dc, err := Map(city, opts)
	if err != nil {
		return err
	}
	return dc.EncodePNG(w)
}

// Picture converts a scenario preview into an 8-bit grayscale image. Empty
// rows stay black.
func Picture(p *model.Picture) *image.Paletted {
	palette := make(color.Palette, 256)
	for i := range palette {
		palette[i] = color.Gray{Y: uint8(i)}
	}

	img := image.NewPaletted(image.Rect(0, 0, p.Width, p.Height), palette)
	for y, row := range p.Rows {
		if y >= p.Height {
			break
		}
		copy(img.Pix[y*img.Stride:], row)
	}
	return img
}

// EncodePictureBMP writes the scenario preview to w as BMP.
func EncodePictureBMP(w io.Writer, p *model.Picture) error {
	if p == nil || p.Width == 0 || p.Height == 0 {
		return fmt.Errorf("empty picture")
	}
	return bmp.Encode(w, Picture(p))
}
