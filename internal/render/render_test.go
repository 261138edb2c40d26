package render

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"

	"github.com/dyuri/sc2conv/internal/model"
	"golang.org/x/image/bmp"
)

func sameColor(a, b color.Color) bool {
	r1, g1, b1, a1 := a.RGBA()
	r2, g2, b2, a2 := b.RGBA()
	return r1 == r2 && g1 == g2 && b1 == b2 && a1 == a2
}

func renderCity() *model.City {
	city := model.NewCity(4)
	city.Tile(0, 0).IsWater = true
	road := &model.Building{ID: 0x1D, Origin: model.Coord{Row: 1, Col: 1}, Size: 1, Class: model.ClassNetwork}
	city.Networks[road.Origin] = road
	city.Tile(1, 1).Building = road
	city.Tile(2, 2).Zone = 5
	city.Traffic = model.NewScaledGrid("traffic", 2, 2)
	city.Traffic.Set(0, 0, 200)
	return city
}

func TestMap(t *testing.T) {
	dc, err := Map(renderCity(), MapOptions{Scale: 2})
	if err != nil {
		t.Fatalf("Map failed: %v", err)
	}

	img := dc.Image()
	if b := img.Bounds(); b.Dx() != 8 || b.Dy() != 8 {
		t.Fatalf("bounds = %v, want 8x8", b)
	}

	tests := []struct {
		x, y int
		want color.Color
	}{
		{1, 1, colorWater},
		{2, 3, colorNetwork},
		{5, 4, zoneColors[5]},
	}
	for _, tt := range tests {
		if got := img.At(tt.x, tt.y); !sameColor(got, tt.want) {
			t.Errorf("pixel (%d, %d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestMapOverlay(t *testing.T) {
	dc, err := Map(renderCity(), MapOptions{Scale: 1, Overlay: "Traffic"})
	if err != nil {
		t.Fatalf("Map failed: %v", err)
	}
	if got := dc.Image().At(1, 1); !sameColor(got, heatColor(200)) {
		t.Errorf("pixel (1, 1) = %v, want heat 200", got)
	}
	if got := dc.Image().At(3, 3); !sameColor(got, heatColor(0)) {
		t.Errorf("pixel (3, 3) = %v, want heat 0", got)
	}

	if _, err := Map(renderCity(), MapOptions{Overlay: "smog"}); err == nil {
		t.Error("Map with unknown overlay succeeded")
	}
}

func TestEncodeMapPNG(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeMapPNG(&buf, renderCity(), MapOptions{Scale: 3, Outlines: true}); err != nil {
		t.Fatalf("EncodeMapPNG failed: %v", err)
	}

	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("png.Decode failed: %v", err)
	}
	if img.Bounds().Dx() != 12 {
		t.Errorf("width = %d, want 12", img.Bounds().Dx())
	}
}

func TestPictureBMP(t *testing.T) {
	pic := &model.Picture{
		Width:  3,
		Height: 2,
		Rows:   [][]byte{{10, 20, 30}, {}},
	}

	var buf bytes.Buffer
	if err := EncodePictureBMP(&buf, pic); err != nil {
		t.Fatalf("EncodePictureBMP failed: %v", err)
	}

	img, err := bmp.Decode(&buf)
	if err != nil {
		t.Fatalf("bmp.Decode failed: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 3 || b.Dy() != 2 {
		t.Fatalf("bounds = %v, want 3x2", b)
	}
	if got := img.At(2, 0); !sameColor(got, color.Gray{Y: 30}) {
		t.Errorf("pixel (2, 0) = %v, want gray 30", got)
	}
	if got := img.At(0, 1); !sameColor(got, color.Gray{Y: 0}) {
		t.Errorf("pixel (0, 1) = %v, want black for empty row", got)
	}

	if err := EncodePictureBMP(&buf, nil); err == nil {
		t.Error("EncodePictureBMP(nil) succeeded")
	}
}
