package vfont

import (
	"bytes"
	"path/filepath"
	"testing"
)

func TestSheetLayout(t *testing.T) {
	f := NewFont()
	f.Init256Blanks()
	f.Glyphs[17].Set(0, 0)
	img := f.Sheet()
	// 16 columns of 8x16 cells with one pixel of grid
	if img.Bounds().Dx() != 16*9+1 || img.Bounds().Dy() != 16*17+1 {
		t.Fatalf("sheet bounds = %v", img.Bounds())
	}
	// glyph 17 sits in column 1, row 1
	r, _, _, _ := img.At(1*9+1, 1*17+1).RGBA()
	if r == 0 {
		t.Error("set pixel did not render white")
	}
}

func TestSheetRoundTrip(t *testing.T) {
	f := NewFont()
	f.Init256Blanks()
	f.Glyphs[0].Set(0, 0)
	f.Glyphs[65].Set(3, 5)
	f.Glyphs[255].Set(7, 15)

	path := filepath.Join(t.TempDir(), "sheet.png")
	if err := f.SavePNG(path); err != nil {
		t.Fatalf("SavePNG: %v", err)
	}
	rt := NewFont()
	if err := rt.LoadSheet(path, Size{8, 16}); err != nil {
		t.Fatalf("LoadSheet: %v", err)
	}
	if len(rt.Glyphs) != 256 {
		t.Fatalf("got %d glyphs, want 256", len(rt.Glyphs))
	}
	for _, idx := range []int{0, 65, 255} {
		if !bytes.Equal(rt.Glyphs[idx].Data, f.Glyphs[idx].Data) {
			t.Errorf("glyph %d changed in the round trip", idx)
		}
	}
}
