// Package sfd writes FontForge SplineFontDB files, vectorizing every glyph
// through one of the outline smoothing strategies. This codec is write-only.
package sfd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/consoleet/consoleet-utils/internal/codec"
	"github.com/consoleet/consoleet-utils/internal/vfont"
)

// Save writes fnt as a SplineFontDB 3.0 file using the given outline
// strategy.
func Save(path string, fnt *vfont.Font, alg vfont.Algorithm) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	if err := Write(w, fnt, alg); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return w.Flush()
}

// prop returns the property value or a default.
func prop(fnt *vfont.Font, key, def string) string {
	if v, ok := fnt.Props[key]; ok && v != "" {
		return v
	}
	return def
}

func Write(w io.Writer, fnt *vfont.Font, alg vfont.Algorithm) error {
	scaleX, scaleY := 2, 2
	ascent, descent := fnt.FindAscentDescent()
	ascent *= scaleY
	descent *= scaleY

	// the PostScript FontName must not contain spaces
	fullname := prop(fnt, "FullName", "vfontas output")
	psname := prop(fnt, "FontName", strings.ReplaceAll(fullname, " ", "-"))

	fmt.Fprintln(w, "SplineFontDB: 3.0")
	fmt.Fprintf(w, "FontName: %s\n", psname)
	fmt.Fprintf(w, "FullName: %s\n", fullname)
	fmt.Fprintf(w, "FamilyName: %s\n", prop(fnt, "FamilyName", fullname))
	fmt.Fprintf(w, "Weight: %s\n", prop(fnt, "Weight", "medium"))
	fmt.Fprintln(w, "Version: 001.000")
	fmt.Fprintln(w, "ItalicAngle: 0")
	fmt.Fprintln(w, "UnderlinePosition: -100")
	fmt.Fprintln(w, "UnderlineWidth: 40")
	fmt.Fprintf(w, "Ascent: %d\n", ascent)
	fmt.Fprintf(w, "Descent: %d\n", descent)
	fmt.Fprintln(w, "NeedsXUIDChange: 1")
	fmt.Fprintln(w, "FSType: 0")
	fmt.Fprintln(w, "PfmFamily: 32")
	fmt.Fprintf(w, "TTFWeight: %s\n", prop(fnt, "TTFWeight", "500"))
	fmt.Fprintln(w, "TTFWidth: 5")
	if sm, ok := fnt.Props["StyleMap"]; ok {
		fmt.Fprintf(w, "StyleMap: %s\n", sm)
	}
	fmt.Fprintln(w, "Panose: 2 0 6 4 0 0 0 0 0 0")
	fmt.Fprintln(w, "LineGap: 72")
	fmt.Fprintln(w, "VLineGap: 0")
	fmt.Fprintf(w, "OS2WinAscent: %d\n", ascent)
	fmt.Fprintln(w, "OS2WinAOffset: 1")
	fmt.Fprintf(w, "OS2WinDescent: %d\n", descent)
	fmt.Fprintln(w, "OS2WinDOffset: 1")
	fmt.Fprintf(w, "HheadAscent: %d\n", ascent)
	fmt.Fprintln(w, "HheadAOffset: 1")
	fmt.Fprintf(w, "HheadDescent: %d\n", descent)
	fmt.Fprintln(w, "HheadDOffset: 1")
	fmt.Fprintln(w, "Encoding: UnicodeBmp")
	fmt.Fprintln(w, "UnicodeInterp: none")
	fmt.Fprintln(w, "DisplaySize: -24")
	fmt.Fprintln(w, "AntiAlias: 1")
	fmt.Fprintln(w, "FitToEm: 1")
	fmt.Fprintln(w, "WinInfo: 0 50 22")
	fmt.Fprintf(w, "BeginChars: 65536 %d\n\n", len(fnt.Glyphs))

	_, rawDescent := fnt.FindAscentDescent()
	emit := func(cp rune, g vfont.Glyph) error {
		return writeGlyph(w, cp, g, alg, rawDescent, scaleX, scaleY)
	}
	if fnt.Map != nil && fnt.Map.Len() > 0 {
		for _, e := range fnt.Map.ByCodepoint() {
			if e.Index >= len(fnt.Glyphs) {
				continue
			}
			if err := emit(e.Codepoint, fnt.Glyphs[e.Index]); err != nil {
				return err
			}
		}
	} else {
		for i, g := range fnt.Glyphs {
			if err := emit(rune(i), g); err != nil {
				return err
			}
		}
	}
	fmt.Fprintln(w, "EndChars")
	_, err := fmt.Fprintln(w, "EndSplineFont")
	return err
}

func writeGlyph(w io.Writer, cp rune, g vfont.Glyph, alg vfont.Algorithm,
	descent, scaleX, scaleY int) error {
	fmt.Fprintf(w, "StartChar: %04x\n", cp)
	fmt.Fprintf(w, "Encoding: %d %d %d\n", cp, cp, cp)
	fmt.Fprintf(w, "Width: %d\n", g.Size.W*scaleX)
	fmt.Fprintln(w, "TeX: 0 0 0 0")
	fmt.Fprintln(w, "Flags: MW")
	fmt.Fprintln(w, "Fore")
	vk := vfont.NewVectorizer(g, descent)
	vk.ScaleX, vk.ScaleY = scaleX, scaleY
	for _, poly := range vk.Outline(alg) {
		if len(poly) == 0 {
			continue
		}
		fmt.Fprintf(w, "%d %d m 25\n", poly[0].From.X, poly[0].From.Y)
		for _, e := range poly {
			fmt.Fprintf(w, " %d %d l 25\n", e.To.X, e.To.Y)
		}
	}
	fmt.Fprintln(w, "EndSplineSet")
	_, err := fmt.Fprintln(w, "EndChar")
	return err
}

type sfdCodec struct{}

func (sfdCodec) Load(path string, fnt *vfont.Font) error { return codec.ErrUnsupported }
func (sfdCodec) Save(path string, fnt *vfont.Font) error {
	return Save(path, fnt, vfont.Simple)
}

func init() {
	codec.Register("sfd", sfdCodec{}, ".sfd")
}
