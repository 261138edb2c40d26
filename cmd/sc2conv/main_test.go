package main

import (
	"testing"

	"github.com/dyuri/sc2conv/internal/model"
	"github.com/dyuri/sc2conv/pkg/sc2conv"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{5 * 1024 * 1024, "5.0 MB"},
	}
	for _, tt := range tests {
		if got := formatBytes(tt.in); got != tt.want {
			t.Errorf("formatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestUniqueCount(t *testing.T) {
	a := &model.Building{ID: 0x8C, Size: 2}
	b := &model.Building{ID: 0x0E, Size: 1}
	m := map[model.Coord]*model.Building{
		{Row: 0, Col: 0}: a,
		{Row: 0, Col: 1}: a,
		{Row: 1, Col: 0}: a,
		{Row: 1, Col: 1}: a,
		{Row: 5, Col: 5}: b,
	}
	if got := uniqueCount(m); got != 2 {
		t.Errorf("uniqueCount = %d, want 2", got)
	}
}

func TestPlatform(t *testing.T) {
	if platform(true) != "Mac" || platform(false) != "PC" {
		t.Errorf("platform = %q/%q, want Mac/PC", platform(true), platform(false))
	}
}

func TestValidatorLevels(t *testing.T) {
	v := &validator{}
	v.add(sc2conv.ValidationError{Field: "XBLD", Message: "hole", Level: "warning"})
	if v.hasErrors() || !v.hasWarnings() {
		t.Fatalf("errors=%d warnings=%d, want 0/1", len(v.errors), len(v.warnings))
	}

	v.add(sc2conv.ValidationError{Field: "buildings", Message: "off map", Level: "error"})
	if !v.hasErrors() {
		t.Error("error level not recorded as error")
	}
	if v.errors[0] != "buildings: off map" {
		t.Errorf("errors[0] = %q, want %q", v.errors[0], "buildings: off map")
	}
}
