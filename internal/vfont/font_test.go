package vfont

import "testing"

func TestInit256Blanks(t *testing.T) {
	f := NewFont()
	f.Init256Blanks()
	if len(f.Glyphs) != 256 {
		t.Fatalf("got %d glyphs, want 256", len(f.Glyphs))
	}
	if f.CellSize() != (Size{8, 16}) {
		t.Errorf("cell = %v, want 8x16", f.CellSize())
	}
}

func TestCanvasGrowAndCrop(t *testing.T) {
	f := NewFont()
	f.Glyphs = []Glyph{parse(t,
		"##",
		"#.")}
	f.Canvas(4, 3)
	expect(t, f.Glyphs[0],
		"##..",
		"#...",
		"....")
	f.Crop(1, 0, 2, 2)
	expect(t, f.Glyphs[0],
		"#.",
		"..")
}

func TestTranslateClips(t *testing.T) {
	f := NewFont()
	f.Glyphs = []Glyph{parse(t,
		"#.",
		".#")}
	f.Translate(1, 0)
	expect(t, f.Glyphs[0],
		".#",
		"..")
}

func TestFindAscentDescent(t *testing.T) {
	f := NewFont()
	f.Glyphs = []Glyph{parse(t,
		"....",
		"#..#",
		"####",
		"#..#",
		"....",
		"....")}
	f.EnsureMap().Add(0, 'M')
	asc, desc := f.FindAscentDescent()
	if asc != 4 || desc != 2 {
		t.Errorf("metrics = %d/%d, want 4/2", asc, desc)
	}
}

func TestFindAscentDescentFallback(t *testing.T) {
	f := NewFont()
	f.Glyphs = []Glyph{NewGlyph(Size{4, 6})}
	f.EnsureMap().Add(0, '!')
	asc, desc := f.FindAscentDescent()
	if asc != 6 || desc != 0 {
		t.Errorf("metrics = %d/%d, want 6/0", asc, desc)
	}
}

func TestLGERange(t *testing.T) {
	f := NewFont()
	f.Init256Blanks()
	for i := range f.Glyphs {
		f.Glyphs[i].Set(6, 0)
	}
	f.LGE()
	if f.Glyphs[0x00].Get(7, 0) {
		t.Error("glyph 0x00 was touched outside the box-drawing range")
	}
	if !f.Glyphs[0xC0].Get(7, 0) {
		t.Error("glyph 0xC0 did not get the column copy")
	}
	if f.Glyphs[0xE0].Get(7, 0) {
		t.Error("glyph 0xE0 was touched outside the box-drawing range")
	}
}
