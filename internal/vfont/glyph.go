// Package vfont holds the in-memory model for legacy console fonts: the
// bit-packed Glyph, the index-to-codepoint UnicodeMap, the Font that owns
// both, and the raster-to-outline vectorizer.
package vfont

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Size is a glyph extent in pixels.
type Size struct {
	W, H int
}

// Rect selects a region for blit operations.
type Rect struct {
	X, Y, W, H int
}

// bitPos addresses a single bit in the packed buffer. Bits are row-major and
// MSB-first within each byte.
type bitPos struct {
	byte int
	mask byte
}

func bit(n int) bitPos {
	return bitPos{n >> 3, 0x80 >> (n & 7)}
}

// Glyph is one character's fixed-size bitmap. Data is fully bit-packed: a
// 9x16 glyph occupies 18 bytes, not the 32 of the row-padded on-disk layouts.
type Glyph struct {
	Size Size
	Data []byte
}

// PackedSize returns the buffer length for a fully bit-packed glyph.
func PackedSize(s Size) int {
	return (s.W*s.H + 7) / 8
}

// RowPaddedSize returns the buffer length when every row is individually
// padded to a byte boundary, as PSF2, BDF and raw FNT store glyphs.
func RowPaddedSize(s Size) int {
	return s.H * ((s.W + 7) / 8)
}

// NewGlyph returns an all-clear glyph of the given size.
func NewGlyph(s Size) Glyph {
	return Glyph{Size: s, Data: make([]byte, PackedSize(s))}
}

// FromRowPadded imports a glyph from the row-padded layout.
func FromRowPadded(s Size, buf []byte) Glyph {
	ng := NewGlyph(s)
	bpl := (s.W + 7) / 8
	for y := 0; y < s.H; y++ {
		for x := 0; x < s.W; x++ {
			q := bit(x)
			if y*bpl+q.byte >= len(buf) {
				continue
			}
			if buf[y*bpl+q.byte]&q.mask != 0 {
				o := bit(y*s.W + x)
				ng.Data[o.byte] |= o.mask
			}
		}
	}
	return ng
}

// ToRowPadded is the inverse of FromRowPadded.
func (g Glyph) ToRowPadded() []byte {
	buf := make([]byte, RowPaddedSize(g.Size))
	bpl := (g.Size.W + 7) / 8
	for y := 0; y < g.Size.H; y++ {
		for x := 0; x < g.Size.W; x++ {
			if g.Get(x, y) {
				q := bit(x)
				buf[y*bpl+q.byte] |= q.mask
			}
		}
	}
	return buf
}

// Get reports whether the pixel at (x, y) is set. Out-of-range coordinates
// read as clear.
func (g Glyph) Get(x, y int) bool {
	if x < 0 || y < 0 || x >= g.Size.W || y >= g.Size.H {
		return false
	}
	p := bit(y*g.Size.W + x)
	return g.Data[p.byte]&p.mask != 0
}

// Set sets the pixel at (x, y). Out-of-range coordinates are ignored.
func (g Glyph) Set(x, y int) {
	if x < 0 || y < 0 || x >= g.Size.W || y >= g.Size.H {
		return
	}
	p := bit(y*g.Size.W + x)
	g.Data[p.byte] |= p.mask
}

// Clear clears the pixel at (x, y).
func (g Glyph) Clear(x, y int) {
	if x < 0 || y < 0 || x >= g.Size.W || y >= g.Size.H {
		return
	}
	p := bit(y*g.Size.W + x)
	g.Data[p.byte] &^= p.mask
}

// Clone returns an independent copy.
func (g Glyph) Clone() Glyph {
	ng := Glyph{Size: g.Size, Data: make([]byte, len(g.Data))}
	copy(ng.Data, g.Data)
	return ng
}

// CopyRect blits the src region of g into a copy of dst at dstRect.
// Coordinates falling outside either glyph or outside dstRect are clipped.
// With overwrite false, only set source pixels are transferred, which gives
// transparent compositing for translate and overstrike.
func (g Glyph) CopyRect(src Rect, dst Glyph, dstRect Rect, overwrite bool) Glyph {
	ng := dst.Clone()
	for y := src.Y; y < src.Y+src.H; y++ {
		for x := src.X; x < src.X+src.W; x++ {
			ox := dstRect.X + x - src.X
			oy := dstRect.Y + y - src.Y
			if ox < dstRect.X || oy < dstRect.Y ||
				ox >= dstRect.X+dstRect.W || oy >= dstRect.Y+dstRect.H {
				continue
			}
			if g.Get(x, y) {
				ng.Set(ox, oy)
			} else if overwrite {
				ng.Clear(ox, oy)
			}
		}
	}
	return ng
}

// Flip mirrors the glyph along the requested axes.
func (g Glyph) Flip(flipX, flipY bool) Glyph {
	ng := NewGlyph(g.Size)
	for y := 0; y < g.Size.H; y++ {
		oy := y
		if flipY {
			oy = g.Size.H - 1 - y
		}
		for x := 0; x < g.Size.W; x++ {
			ox := x
			if flipX {
				ox = g.Size.W - 1 - x
			}
			if g.Get(x, y) {
				ng.Set(ox, oy)
			}
		}
	}
	return ng
}

// Invert complements the bitmap in place.
func (g Glyph) Invert() {
	for i := range g.Data {
		g.Data[i] = ^g.Data[i]
	}
}

// Upscale replicates every pixel factor.W times horizontally and factor.H
// times vertically.
func (g Glyph) Upscale(factor Size) Glyph {
	ng := NewGlyph(Size{g.Size.W * factor.W, g.Size.H * factor.H})
	for y := 0; y < ng.Size.H; y++ {
		for x := 0; x < ng.Size.W; x++ {
			if g.Get(x/factor.W, y/factor.H) {
				ng.Set(x, y)
			}
		}
	}
	return ng
}

// LGE copies the bit adjust positions left of the right edge into the
// rightmost column of every row. VGA hardware did this for the line-graphics
// characters 0xC0-0xDF so that box drawings connect in 9-pixel cells.
func (g Glyph) LGE(adjust int) {
	if g.Size.W < 1+adjust {
		return
	}
	for y := 0; y < g.Size.H; y++ {
		if g.Get(g.Size.W-1-adjust, y) {
			g.Set(g.Size.W-1, y)
		} else {
			g.Clear(g.Size.W-1, y)
		}
	}
}

// Overstrike composites px+1 horizontally shifted copies, a cheap bold.
func (g Glyph) Overstrike(px int) Glyph {
	ng := NewGlyph(g.Size)
	full := Rect{0, 0, g.Size.W, g.Size.H}
	for i := 0; i <= px; i++ {
		ng = g.CopyRect(full, ng, Rect{i, 0, g.Size.W, g.Size.H}, false)
	}
	return ng
}

// FindBaseline returns the number of rows from the top through the lowest
// set row, or -1 for a blank glyph. For a classic VGA 'M' occupying rows
// 0-11 of a 8x16 cell this yields 12, the ascent.
func (g Glyph) FindBaseline() int {
	for y := g.Size.H - 1; y >= 0; y-- {
		for x := 0; x < g.Size.W; x++ {
			if g.Get(x, y) {
				return y + 1
			}
		}
	}
	return -1
}

// rgba renders the glyph as opaque white on transparent black.
func (g Glyph) rgba() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, g.Size.W, g.Size.H))
	for y := 0; y < g.Size.H; y++ {
		for x := 0; x < g.Size.W; x++ {
			if g.Get(x, y) {
				img.SetRGBA(x, y, color.RGBA{0xFF, 0xFF, 0xFF, 0xFF})
			}
		}
	}
	return img
}

// Smoothscale enlarges the glyph by factor per axis through an interpolating
// image scaler and re-thresholds the result. A one-pixel transparent border
// is added first so the kernel sees background beyond the cell edge.
func (g Glyph) Smoothscale(factor int, scaler draw.Scaler) Glyph {
	if scaler == nil {
		scaler = draw.CatmullRom
	}
	padded := g.CopyRect(Rect{0, 0, g.Size.W, g.Size.H},
		NewGlyph(Size{g.Size.W + 2, g.Size.H + 2}),
		Rect{1, 1, g.Size.W, g.Size.H}, true)
	src := padded.rgba()
	dst := image.NewRGBA(image.Rect(0, 0, padded.Size.W*factor, padded.Size.H*factor))
	scaler.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	ng := NewGlyph(Size{g.Size.W * factor, g.Size.H * factor})
	for y := 0; y < ng.Size.H; y++ {
		for x := 0; x < ng.Size.W; x++ {
			if dst.RGBAAt(x+factor, y+factor).A >= 0x80 {
				ng.Set(x, y)
			}
		}
	}
	return ng
}
