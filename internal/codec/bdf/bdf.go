// Package bdf reads and writes Glyph Bitmap Distribution Format fonts.
package bdf

import (
	"bufio"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/consoleet/consoleet-utils/internal/codec"
	"github.com/consoleet/consoleet-utils/internal/vfont"
)

var ErrNotBDF = errors.New("bdf: missing STARTFONT header")

// Load appends the glyphs of a BDF file to fnt. ENCODING values become
// unicode map entries; FAMILY_NAME is kept in the property table.
func Load(path string, fnt *vfont.Font) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := Read(f, fnt); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func Read(r io.Reader, fnt *vfont.Font) error {
	sc := bufio.NewScanner(r)
	if !sc.Scan() || !strings.HasPrefix(sc.Text(), "STARTFONT") {
		return ErrNotBDF
	}
	m := fnt.EnsureMap()
	var (
		inChar         bool
		encoding       = -1
		bw, bh, bx, by int
		fbb            vfont.Rect
		haveFBB        bool
		rows           []byte
		inBitmap       bool
	)
	flush := func() {
		if !inChar {
			return
		}
		g := vfont.FromRowPadded(vfont.Size{W: bw, H: bh}, rows)
		if haveFBB {
			// place the glyph box inside the font bounding box so
			// fonts whose BBX carries nonzero offsets keep their
			// baseline alignment; both boxes share the baseline at
			// yoff rows below their bottom edge
			cell := vfont.NewGlyph(vfont.Size{W: fbb.W, H: fbb.H})
			g = g.CopyRect(vfont.Rect{X: 0, Y: 0, W: bw, H: bh}, cell,
				vfont.Rect{
					X: bx - fbb.X,
					Y: (fbb.H + fbb.Y) - (bh + by),
					W: bw, H: bh,
				}, false)
		}
		idx := len(fnt.Glyphs)
		fnt.Glyphs = append(fnt.Glyphs, g)
		if encoding >= 0 {
			m.Add(idx, rune(encoding))
		}
		inChar, inBitmap = false, false
		encoding, bw, bh, bx, by = -1, 0, 0, 0, 0
		rows = nil
	}
	for sc.Scan() {
		line := sc.Text()
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "STARTCHAR":
			flush()
			inChar = true
		case "ENCODING":
			if len(fields) > 1 {
				if v, err := strconv.Atoi(fields[1]); err == nil {
					encoding = v
				}
			}
		case "FONTBOUNDINGBOX":
			if len(fields) >= 5 {
				fbb.W, _ = strconv.Atoi(fields[1])
				fbb.H, _ = strconv.Atoi(fields[2])
				fbb.X, _ = strconv.Atoi(fields[3])
				fbb.Y, _ = strconv.Atoi(fields[4])
				haveFBB = fbb.W > 0 && fbb.H > 0
			}
		case "BBX":
			if len(fields) >= 3 {
				bw, _ = strconv.Atoi(fields[1])
				bh, _ = strconv.Atoi(fields[2])
			}
			if len(fields) >= 5 {
				bx, _ = strconv.Atoi(fields[3])
				by, _ = strconv.Atoi(fields[4])
			}
		case "BITMAP":
			inBitmap = true
		case "ENDCHAR":
			flush()
		case "FAMILY_NAME":
			if i := strings.IndexByte(line, '"'); i >= 0 {
				fnt.Props["FamilyName"] = strings.Trim(line[i:], "\"")
			}
		default:
			if inBitmap {
				row, err := hex.DecodeString(fields[0])
				if err != nil {
					return fmt.Errorf("bdf: bad bitmap row %q", fields[0])
				}
				rows = append(rows, row...)
			}
		}
	}
	flush()
	return sc.Err()
}

// Save writes fnt as BDF 2.1. Glyphs are emitted in codepoint order when a
// map exists, index order otherwise.
func Save(path string, fnt *vfont.Font) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	if err := Write(w, fnt); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return w.Flush()
}

func Write(w io.Writer, fnt *vfont.Font) error {
	cell := fnt.CellSize()
	ascent, descent := fnt.FindAscentDescent()
	name := fnt.Props["FamilyName"]
	if name == "" {
		name = "vfontas output"
	}

	fmt.Fprintln(w, "STARTFONT 2.1")
	fmt.Fprintf(w, "FONT -misc-%s-medium-r-normal--%d-%d-75-75-c-%d-iso10646-1\n",
		strings.ReplaceAll(name, "-", " "), cell.H, cell.H*10, cell.W*10)
	fmt.Fprintf(w, "SIZE %d 75 75\n", cell.H)
	fmt.Fprintf(w, "FONTBOUNDINGBOX %d %d 0 %d\n", cell.W, cell.H, -descent)
	fmt.Fprintln(w, "STARTPROPERTIES 24")
	fmt.Fprintln(w, "FONTNAME_REGISTRY \"\"")
	fmt.Fprintln(w, "FOUNDRY \"misc\"")
	fmt.Fprintf(w, "FAMILY_NAME \"%s\"\n", name)
	fmt.Fprintln(w, "WEIGHT_NAME \"medium\"")
	fmt.Fprintln(w, "SLANT \"r\"")
	fmt.Fprintln(w, "SETWIDTH_NAME \"normal\"")
	fmt.Fprintln(w, "ADD_STYLE_NAME \"\"")
	fmt.Fprintf(w, "PIXEL_SIZE %d\n", cell.H)
	fmt.Fprintf(w, "POINT_SIZE %d\n", cell.H*10)
	fmt.Fprintln(w, "RESOLUTION_X 75")
	fmt.Fprintln(w, "RESOLUTION_Y 75")
	fmt.Fprintln(w, "SPACING \"C\"")
	fmt.Fprintf(w, "AVERAGE_WIDTH %d\n", cell.W*10)
	fmt.Fprintln(w, "CHARSET_REGISTRY \"ISO10646\"")
	fmt.Fprintln(w, "CHARSET_ENCODING \"1\"")
	fmt.Fprintf(w, "UNDERLINE_POSITION %d\n", -descent)
	fmt.Fprintln(w, "UNDERLINE_THICKNESS 1")
	fmt.Fprintf(w, "CAP_HEIGHT %d\n", ascent)
	fmt.Fprintf(w, "X_HEIGHT %d\n", ascent)
	fmt.Fprintf(w, "FONT_ASCENT %d\n", ascent)
	fmt.Fprintf(w, "FONT_DESCENT %d\n", descent)
	if _, ok := defaultChar(fnt); ok {
		fmt.Fprintln(w, "DEFAULT_CHAR 65533")
	} else {
		fmt.Fprintln(w, "DEFAULT_CHAR 0")
	}
	fmt.Fprintln(w, "FONT_VERSION \"001.000\"")
	fmt.Fprintln(w, "FONT_TYPE \"Bitmap\"")
	fmt.Fprintln(w, "ENDPROPERTIES")

	writeGlyph := func(cp rune, g vfont.Glyph) {
		fmt.Fprintf(w, "STARTCHAR U+%04x\n", cp)
		fmt.Fprintf(w, "ENCODING %d\n", cp)
		fmt.Fprintln(w, "SWIDTH 1000 0")
		fmt.Fprintf(w, "DWIDTH %d 0\n", g.Size.W)
		fmt.Fprintf(w, "BBX %d %d 0 %d\n", g.Size.W, g.Size.H, -descent)
		fmt.Fprintln(w, "BITMAP")
		buf := g.ToRowPadded()
		bpl := (g.Size.W + 7) / 8
		for y := 0; y < g.Size.H; y++ {
			fmt.Fprintf(w, "%x\n", buf[y*bpl:(y+1)*bpl])
		}
		fmt.Fprintln(w, "ENDCHAR")
	}

	if fnt.Map != nil && fnt.Map.Len() > 0 {
		entries := fnt.Map.ByCodepoint()
		fmt.Fprintf(w, "CHARS %d\n", len(entries))
		for _, e := range entries {
			if e.Index < len(fnt.Glyphs) {
				writeGlyph(e.Codepoint, fnt.Glyphs[e.Index])
			}
		}
	} else {
		fmt.Fprintf(w, "CHARS %d\n", len(fnt.Glyphs))
		for i, g := range fnt.Glyphs {
			writeGlyph(rune(i), g)
		}
	}
	_, err := fmt.Fprintln(w, "ENDFONT")
	return err
}

func defaultChar(fnt *vfont.Font) (int, bool) {
	if fnt.Map == nil {
		return 0, false
	}
	idx, ok := fnt.Map.Index(0xFFFD)
	return idx, ok
}

type bdfCodec struct{}

func (bdfCodec) Load(path string, fnt *vfont.Font) error { return Load(path, fnt) }
func (bdfCodec) Save(path string, fnt *vfont.Font) error { return Save(path, fnt) }

func init() {
	codec.Register("bdf", bdfCodec{}, ".bdf")
}
