// Package raw handles headerless console font dumps, the .fnt payload of
// DOS code-page files: back-to-back row-padded bitmaps with no metadata at
// all, so the cell size is guessed or supplied by the caller.
package raw

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/consoleet/consoleet-utils/internal/codec"
	"github.com/consoleet/consoleet-utils/internal/vfont"
)

// Options carries the cell size for Load. Zero Height enables the classic
// heuristic: 16 rows, or size/256 when the file is smaller than 8192 bytes
// (a 256-glyph 8xN dump). Width defaults to 8.
type Options struct {
	Width, Height int
}

var ErrTrailingData = errors.New("raw: trailing partial glyph")

// Load appends the glyphs of a headerless font file to fnt.
func Load(path string, fnt *vfont.Font, opt Options) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if opt.Width == 0 {
		opt.Width = 8
	}
	if opt.Height == 0 {
		opt.Height = 16
		if st, err := f.Stat(); err == nil &&
			st.Size() > 0 && st.Size() < 8192 {
			// files under one glyph row per slot still get a
			// one-row cell so the read loop always consumes bytes
			opt.Height = max(1, int(st.Size()/256))
		}
	}
	if err := Read(f, fnt, vfont.Size{W: opt.Width, H: opt.Height}); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// Read parses a stream of row-padded glyphs of the given cell size.
func Read(r io.Reader, fnt *vfont.Font, cell vfont.Size) error {
	buf := make([]byte, vfont.RowPaddedSize(cell))
	if len(buf) == 0 {
		return fmt.Errorf("raw: invalid cell size %dx%d", cell.W, cell.H)
	}
	for {
		_, err := io.ReadFull(r, buf)
		if err == io.EOF {
			return nil
		}
		if err == io.ErrUnexpectedEOF {
			return ErrTrailingData
		}
		if err != nil {
			return err
		}
		fnt.Glyphs = append(fnt.Glyphs, vfont.FromRowPadded(cell, buf))
	}
}

// Save writes every glyph back-to-back in row-padded form.
func Save(path string, fnt *vfont.Font) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	for _, g := range fnt.Glyphs {
		if _, err := w.Write(g.ToRowPadded()); err != nil {
			return err
		}
	}
	return w.Flush()
}

type rawCodec struct{}

func (rawCodec) Load(path string, fnt *vfont.Font) error {
	return Load(path, fnt, Options{})
}
func (rawCodec) Save(path string, fnt *vfont.Font) error { return Save(path, fnt) }

func init() {
	codec.Register("fnt", rawCodec{}, ".fnt")
}
