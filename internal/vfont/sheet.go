package vfont

import (
	"image"
	"image/color"
	"image/png"
	"os"

	// the sheet loader accepts any registered image format
	_ "image/gif"
	_ "image/jpeg"
)

const sheetColumns = 16

// Sheet renders the font as a glyph table image, sixteen glyphs per row with
// a one-pixel grid between the cells, white on black.
func (f *Font) Sheet() *image.RGBA {
	cell := f.CellSize()
	rows := (len(f.Glyphs) + sheetColumns - 1) / sheetColumns
	img := image.NewRGBA(image.Rect(0, 0,
		sheetColumns*(cell.W+1)+1, rows*(cell.H+1)+1))
	grid := color.RGBA{0x40, 0x40, 0x40, 0xFF}
	for y := 0; y < img.Bounds().Dy(); y++ {
		for x := 0; x < img.Bounds().Dx(); x++ {
			img.SetRGBA(x, y, grid)
		}
	}
	for i, g := range f.Glyphs {
		ox := (i%sheetColumns)*(cell.W+1) + 1
		oy := (i/sheetColumns)*(cell.H+1) + 1
		for y := 0; y < g.Size.H; y++ {
			for x := 0; x < g.Size.W; x++ {
				c := color.RGBA{0, 0, 0, 0xFF}
				if g.Get(x, y) {
					c = color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}
				}
				img.SetRGBA(ox+x, oy+y, c)
			}
		}
	}
	return img
}

// SavePNG writes the glyph table image to path.
func (f *Font) SavePNG(path string) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(out, f.Sheet()); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// LoadSheet reads a glyph table image back, slicing it along the Sheet grid
// for the given cell size. Pixels at or above half luminance count as set.
// Every grid cell covered by the image becomes a glyph, so a sheet with a
// partially filled last row yields trailing blanks.
func (f *Font) LoadSheet(path string, cell Size) error {
	in, err := os.Open(path)
	if err != nil {
		return err
	}
	defer in.Close()
	img, _, err := image.Decode(in)
	if err != nil {
		return err
	}
	b := img.Bounds()
	rows := (b.Dy() - 1) / (cell.H + 1)
	for i := 0; i < rows*sheetColumns; i++ {
		ox := b.Min.X + (i%sheetColumns)*(cell.W+1) + 1
		oy := b.Min.Y + (i/sheetColumns)*(cell.H+1) + 1
		g := NewGlyph(cell)
		for y := 0; y < cell.H; y++ {
			for x := 0; x < cell.W; x++ {
				gc := color.GrayModel.Convert(img.At(ox+x, oy+y)).(color.Gray)
				if gc.Y >= 0x80 {
					g.Set(x, y)
				}
			}
		}
		f.Glyphs = append(f.Glyphs, g)
	}
	return nil
}
