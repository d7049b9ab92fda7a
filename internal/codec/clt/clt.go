// Package clt handles consoleet layout text directories: one small text file
// per glyph, named by the hexadecimal codepoint, holding a "PCLT" header, the
// cell size and the bitmap as two-character cells ("##" set, ".." clear).
// The same directory convention is reused for PBM output.
package clt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/consoleet/consoleet-utils/internal/codec"
	"github.com/consoleet/consoleet-utils/internal/vfont"
)

var ErrNotCLT = errors.New("clt: missing PCLT header")

// LoadDir appends every recognizable glyph file under dir to fnt. Files whose
// names are not hex codepoints, or whose content lacks the PCLT header, are
// reported to stderr and skipped.
func LoadDir(dir string, fnt *vfont.Font) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	m := fnt.EnsureMap()
	for _, de := range entries {
		name := de.Name()
		if strings.HasPrefix(name, ".") || de.IsDir() {
			continue
		}
		stem, _, ok := strings.Cut(name, ".")
		if !ok {
			continue
		}
		cp, err := strconv.ParseUint(stem, 16, 21)
		if err != nil {
			continue
		}
		path := filepath.Join(dir, name)
		g, err := loadGlyph(path)
		if errors.Is(err, ErrNotCLT) {
			fmt.Fprintf(os.Stderr, "%s not recognized as a CLT file\n", path)
			continue
		}
		if err != nil {
			return err
		}
		m.Add(len(fnt.Glyphs), rune(cp))
		fnt.Glyphs = append(fnt.Glyphs, g)
	}
	return nil
}

func loadGlyph(path string) (vfont.Glyph, error) {
	f, err := os.Open(path)
	if err != nil {
		return vfont.Glyph{}, err
	}
	defer f.Close()
	return readGlyph(f)
}

func readGlyph(r io.Reader) (vfont.Glyph, error) {
	sc := bufio.NewScanner(r)
	if !sc.Scan() || sc.Text() != "PCLT" {
		return vfont.Glyph{}, ErrNotCLT
	}
	if !sc.Scan() {
		return vfont.Glyph{}, ErrNotCLT
	}
	var w, h int
	if n, _ := fmt.Sscanf(sc.Text(), "%d %d", &w, &h); n != 2 {
		return vfont.Glyph{}, ErrNotCLT
	}
	g := vfont.NewGlyph(vfont.Size{W: w, H: h})
	for y := 0; sc.Scan(); y++ {
		line := sc.Text()
		for x := 0; x*2 < len(line); x++ {
			if line[x*2] == '#' {
				g.Set(x, y)
			}
		}
	}
	return g, sc.Err()
}

// SaveDir writes one "<codepoint>.txt" file per glyph into dir, creating the
// directory as needed.
func SaveDir(dir string, fnt *vfont.Font) error {
	return saveEach(dir, fnt, "%04x.txt", func(w io.Writer, g vfont.Glyph) error {
		fmt.Fprintf(w, "PCLT\n%d %d\n", g.Size.W, g.Size.H)
		for y := 0; y < g.Size.H; y++ {
			for x := 0; x < g.Size.W; x++ {
				if g.Get(x, y) {
					io.WriteString(w, "##")
				} else {
					io.WriteString(w, "..")
				}
			}
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		return nil
	})
}

// SavePBMDir writes one "<codepoint>.pbm" plain-PBM file per glyph into dir.
func SavePBMDir(dir string, fnt *vfont.Font) error {
	return saveEach(dir, fnt, "%04x.pbm", func(w io.Writer, g vfont.Glyph) error {
		fmt.Fprintf(w, "P1\n%d %d\n", g.Size.W, g.Size.H)
		for y := 0; y < g.Size.H; y++ {
			for x := 0; x < g.Size.W; x++ {
				if g.Get(x, y) {
					io.WriteString(w, "1")
				} else {
					io.WriteString(w, "0")
				}
			}
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}
		return nil
	})
}

func saveEach(dir string, fnt *vfont.Font, pattern string,
	emit func(io.Writer, vfont.Glyph) error) error {
	if err := os.MkdirAll(dir, 0o777); err != nil {
		return err
	}
	write := func(cp rune, g vfont.Glyph) error {
		path := filepath.Join(dir, fmt.Sprintf(pattern, cp))
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		w := bufio.NewWriter(f)
		if err := emit(w, g); err != nil {
			f.Close()
			return fmt.Errorf("%s: %w", path, err)
		}
		if err := w.Flush(); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	}
	if fnt.Map != nil && fnt.Map.Len() > 0 {
		for _, e := range fnt.Map.ByCodepoint() {
			if e.Index >= len(fnt.Glyphs) {
				continue
			}
			if err := write(e.Codepoint, fnt.Glyphs[e.Index]); err != nil {
				return err
			}
		}
		return nil
	}
	for i, g := range fnt.Glyphs {
		if err := write(rune(i), g); err != nil {
			return err
		}
	}
	return nil
}

type cltCodec struct{}

func (cltCodec) Load(path string, fnt *vfont.Font) error { return LoadDir(path, fnt) }
func (cltCodec) Save(path string, fnt *vfont.Font) error { return SaveDir(path, fnt) }

func init() {
	codec.Register("clt", cltCodec{})
}
