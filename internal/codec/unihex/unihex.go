// Package unihex reads and writes the GNU Unifont .hex text format: one
// glyph per line, "<codepoint>:<row bytes>", 16 bytes for 8x16 glyphs and 32
// bytes for 16x16 ones.
package unihex

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/consoleet/consoleet-utils/internal/codec"
	"github.com/consoleet/consoleet-utils/internal/vfont"
)

// Load appends the glyphs of a .hex file to fnt, mapping each to the
// codepoint on its line. Lines of unexpected shape are reported to diag and
// skipped.
func Load(path string, fnt *vfont.Font) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := Read(f, fnt, os.Stderr); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

func Read(r io.Reader, fnt *vfont.Font, diag io.Writer) error {
	m := fnt.EnsureMap()
	sc := bufio.NewScanner(r)
	lnum := 0
	for sc.Scan() {
		lnum++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		cphex, rowhex, ok := strings.Cut(line, ":")
		if !ok {
			fmt.Fprintf(diag, "hex line %d: no colon\n", lnum)
			continue
		}
		cp, err := strconv.ParseUint(cphex, 16, 21)
		if err != nil {
			fmt.Fprintf(diag, "hex line %d: bad codepoint %q\n", lnum, cphex)
			continue
		}
		rows, err := hex.DecodeString(rowhex)
		if err != nil {
			fmt.Fprintf(diag, "hex line %d: bad bitmap\n", lnum)
			continue
		}
		var size vfont.Size
		switch len(rows) {
		case 16:
			size = vfont.Size{W: 8, H: 16}
		case 32:
			size = vfont.Size{W: 16, H: 16}
		default:
			fmt.Fprintf(diag, "hex line %d: unexpected bitmap length %d\n",
				lnum, len(rows))
			continue
		}
		idx := len(fnt.Glyphs)
		fnt.Glyphs = append(fnt.Glyphs, vfont.FromRowPadded(size, rows))
		m.Add(idx, rune(cp))
	}
	return sc.Err()
}

// Save writes fnt in .hex form, one line per mapped codepoint (per index
// when no map exists).
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
	line := func(cp rune, g vfont.Glyph) error {
		_, err := fmt.Fprintf(w, "%04X:%X\n", cp, g.ToRowPadded())
		return err
	}
	if fnt.Map != nil && fnt.Map.Len() > 0 {
		for _, e := range fnt.Map.ByCodepoint() {
			if e.Index >= len(fnt.Glyphs) {
				continue
			}
			if err := line(e.Codepoint, fnt.Glyphs[e.Index]); err != nil {
				return err
			}
		}
		return nil
	}
	for i, g := range fnt.Glyphs {
		if err := line(rune(i), g); err != nil {
			return err
		}
	}
	return nil
}

type hexCodec struct{}

func (hexCodec) Load(path string, fnt *vfont.Font) error { return Load(path, fnt) }
func (hexCodec) Save(path string, fnt *vfont.Font) error { return Save(path, fnt) }

func init() {
	codec.Register("hex", hexCodec{}, ".hex")
}
