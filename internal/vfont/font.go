package vfont

import "golang.org/x/image/draw"

// Font owns an ordered glyph sequence, an optional UnicodeMap and a property
// table consumed by the spline-font writer. Codecs populate it; the batch
// transforms below mutate every glyph in place.
type Font struct {
	Glyphs []Glyph
	Map    *UnicodeMap
	Props  map[string]string
}

func NewFont() *Font {
	return &Font{Props: make(map[string]string)}
}

// Init256Blanks replaces the glyph sequence with 256 blank 8x16 glyphs, the
// usual code-page slot layout.
func (f *Font) Init256Blanks() {
	f.Glyphs = make([]Glyph, 256)
	for i := range f.Glyphs {
		f.Glyphs[i] = NewGlyph(Size{8, 16})
	}
}

// EnsureMap returns the font's UnicodeMap, creating an empty one if needed.
func (f *Font) EnsureMap() *UnicodeMap {
	if f.Map == nil {
		f.Map = NewUnicodeMap()
	}
	return f.Map
}

// Codepoints returns the code points for a glyph index, falling back to the
// identity mapping when no map is loaded.
func (f *Font) Codepoints(idx int) []rune {
	if f.Map == nil {
		return []rune{rune(idx)}
	}
	return f.Map.Codepoints(idx)
}

// CellSize returns the size of the first glyph, the nominal cell of the font.
func (f *Font) CellSize() Size {
	if len(f.Glyphs) == 0 {
		return Size{}
	}
	return f.Glyphs[0].Size
}

func (f *Font) Flip(x, y bool) {
	for i := range f.Glyphs {
		f.Glyphs[i] = f.Glyphs[i].Flip(x, y)
	}
}

func (f *Font) Invert() {
	for i := range f.Glyphs {
		f.Glyphs[i].Invert()
	}
}

func (f *Font) Upscale(factor Size) {
	for i := range f.Glyphs {
		f.Glyphs[i] = f.Glyphs[i].Upscale(factor)
	}
}

func (f *Font) Overstrike(px int) {
	for i := range f.Glyphs {
		f.Glyphs[i] = f.Glyphs[i].Overstrike(px)
	}
}

// Smoothscale enlarges every glyph through an interpolating scaler; a nil
// scaler selects Catmull-Rom.
func (f *Font) Smoothscale(factor int, scaler draw.Scaler) {
	for i := range f.Glyphs {
		f.Glyphs[i] = f.Glyphs[i].Smoothscale(factor, scaler)
	}
}

// Canvas re-blits every glyph onto a fresh w x h canvas anchored top-left.
func (f *Font) Canvas(w, h int) {
	cell := f.CellSize()
	for i := range f.Glyphs {
		f.Glyphs[i] = f.Glyphs[i].CopyRect(Rect{0, 0, cell.W, cell.H},
			NewGlyph(Size{w, h}), Rect{0, 0, w, h}, true)
	}
}

// Crop cuts the w x h region at (x, y) out of every glyph.
func (f *Font) Crop(x, y, w, h int) {
	cell := f.CellSize()
	for i := range f.Glyphs {
		f.Glyphs[i] = f.Glyphs[i].CopyRect(Rect{x, y, cell.W, cell.H},
			NewGlyph(Size{w, h}), Rect{0, 0, w, h}, true)
	}
}

// Translate shifts every glyph by (x, y) within its cell, clipping at the
// edges.
func (f *Font) Translate(x, y int) {
	cell := f.CellSize()
	for i := range f.Glyphs {
		f.Glyphs[i] = f.Glyphs[i].CopyRect(Rect{0, 0, cell.W, cell.H},
			NewGlyph(cell), Rect{x, y, cell.W, cell.H}, true)
	}
}

// LGE applies the line-graphics-extension fixup to the CP437 box-drawing
// range 0xC0-0xDF.
func (f *Font) LGE() {
	for k := 0xC0; k <= 0xDF && k < len(f.Glyphs); k++ {
		f.Glyphs[k].LGE(1)
	}
}

// LGEAll applies the fixup to every glyph regardless of index.
func (f *Font) LGEAll() {
	for i := range f.Glyphs {
		f.Glyphs[i].LGE(1)
	}
}

// FindAscentDescent infers vertical metrics by probing the glyphs for 'M',
// 'X' and 'x' and taking the deepest baseline found. Fonts lacking all three
// report (cell height, 0).
func (f *Font) FindAscentDescent() (ascent, descent int) {
	cell := f.CellSize()
	ascent = -1
	for _, cp := range []rune{'M', 'X', 'x'} {
		idx := int(cp)
		if f.Map != nil {
			i, ok := f.Map.Index(cp)
			if !ok {
				continue
			}
			idx = i
		}
		if idx < 0 || idx >= len(f.Glyphs) {
			continue
		}
		if b := f.Glyphs[idx].FindBaseline(); b > ascent {
			ascent = b
		}
	}
	if ascent < 0 {
		return cell.H, 0
	}
	return ascent, cell.H - ascent
}
