// Package psf reads PC Screen Fonts (PSF1 and PSF2) and writes PSF2.
package psf

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"

	"github.com/consoleet/consoleet-utils/internal/codec"
	"github.com/consoleet/consoleet-utils/internal/vfont"
)

const (
	psf1Magic0 = 0x36
	psf1Magic1 = 0x04

	psf1Mode512    = 0x01
	psf1ModeHasTab = 0x02
	psf1ModeHasSeq = 0x04

	psf1Separator = 0xFFFF
	psf1StartSeq  = 0xFFFE

	psf2HasUnicodeTable = 0x01
	psf2Separator       = 0xFF
	psf2StartSeq        = 0xFE
)

var psf2Magic = [4]byte{0x72, 0xB5, 0x4A, 0x86}

var (
	ErrBadMagic  = errors.New("psf: bad magic")
	ErrBadHeader = errors.New("psf: inconsistent header")
)

type psf2Header struct {
	Magic      [4]byte
	Version    uint32
	HeaderSize uint32
	Flags      uint32
	Length     uint32
	Charsize   uint32
	Height     uint32
	Width      uint32
}

// Load reads a PSF1 or PSF2 file, selected by magic, appending its glyphs
// (and unicode table, if present) to fnt.
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

// Read parses a PSF stream.
func Read(r io.Reader, fnt *vfont.Font) error {
	br := bufio.NewReader(r)
	magic, err := br.Peek(4)
	if err != nil {
		return ErrBadMagic
	}
	switch {
	case magic[0] == psf1Magic0 && magic[1] == psf1Magic1:
		return readPSF1(br, fnt)
	case [4]byte(magic) == psf2Magic:
		return readPSF2(br, fnt)
	}
	return ErrBadMagic
}

func readPSF1(r *bufio.Reader, fnt *vfont.Font) error {
	var hdr struct {
		Magic    [2]byte
		Mode     uint8
		Charsize uint8
	}
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return err
	}
	count := 256
	if hdr.Mode&psf1Mode512 != 0 {
		count = 512
	}
	start := len(fnt.Glyphs)
	size := vfont.Size{W: 8, H: int(hdr.Charsize)}
	buf := make([]byte, hdr.Charsize)
	for i := 0; i < count; i++ {
		if _, err := io.ReadFull(r, buf); err != nil {
			return fmt.Errorf("psf1 glyph %d: %w", i, err)
		}
		fnt.Glyphs = append(fnt.Glyphs, vfont.FromRowPadded(size, buf))
	}
	if hdr.Mode&(psf1ModeHasTab|psf1ModeHasSeq) == 0 {
		return nil
	}

	// the table is one run of UCS-2LE units per glyph, 0xFFFF terminated;
	// 0xFFFE opens a combining sequence, which this toolkit skips
	m := fnt.EnsureMap()
	dec := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
	var u16 [2]byte
	var run []byte
	inSeq := false
	for idx := 0; idx < count; {
		if _, err := io.ReadFull(r, u16[:]); err != nil {
			if err == io.EOF && len(run) == 0 {
				break
			}
			return err
		}
		switch u := binary.LittleEndian.Uint16(u16[:]); u {
		case psf1Separator:
			utf, err := dec.Bytes(run)
			if err == nil {
				for _, cp := range string(utf) {
					m.Add(start+idx, cp)
				}
			}
			run = run[:0]
			inSeq = false
			idx++
		case psf1StartSeq:
			inSeq = true
		default:
			if !inSeq {
				run = append(run, u16[0], u16[1])
			}
		}
	}
	return nil
}

func readPSF2(r *bufio.Reader, fnt *vfont.Font) error {
	var hdr psf2Header
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return err
	}
	if hdr.Magic != psf2Magic || hdr.Version != 0 {
		return ErrBadMagic
	}
	size := vfont.Size{W: int(hdr.Width), H: int(hdr.Height)}
	if hdr.HeaderSize < 32 || int(hdr.Charsize) != vfont.RowPaddedSize(size) {
		return ErrBadHeader
	}
	if _, err := io.CopyN(io.Discard, r, int64(hdr.HeaderSize-32)); err != nil {
		return err
	}
	start := len(fnt.Glyphs)
	buf := make([]byte, hdr.Charsize)
	for i := uint32(0); i < hdr.Length; i++ {
		if _, err := io.ReadFull(r, buf); err != nil {
			return fmt.Errorf("psf2 glyph %d: %w", i, err)
		}
		fnt.Glyphs = append(fnt.Glyphs, vfont.FromRowPadded(size, buf))
	}
	if hdr.Flags&psf2HasUnicodeTable == 0 {
		return nil
	}

	// one run of UTF-8 per glyph, 0xFF terminated, 0xFE opens a sequence
	m := fnt.EnsureMap()
	var run []byte
	inSeq := false
	for idx := uint32(0); idx < hdr.Length; {
		b, err := r.ReadByte()
		if err != nil {
			if err == io.EOF {
				break
			}
			return err
		}
		switch b {
		case psf2Separator:
			for len(run) > 0 {
				cp, n := utf8.DecodeRune(run)
				if cp == utf8.RuneError && n <= 1 {
					break
				}
				m.Add(int(start)+int(idx), cp)
				run = run[n:]
			}
			run = run[:0]
			inSeq = false
			idx++
		case psf2StartSeq:
			inSeq = true
		default:
			if !inSeq {
				run = append(run, b)
			}
		}
	}
	return nil
}

// Save writes fnt as PSF2. A unicode table is appended when the font has a
// map; glyphs without entries get an empty run so the table stays aligned
// with the glyph count.
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

// Write serializes fnt as PSF2 to w.
func Write(w io.Writer, fnt *vfont.Font) error {
	hdr := psf2Header{
		Magic:      psf2Magic,
		HeaderSize: 32,
		Length:     uint32(len(fnt.Glyphs)),
	}
	if fnt.Map != nil {
		hdr.Flags = psf2HasUnicodeTable
	}
	if len(fnt.Glyphs) > 0 {
		cell := fnt.CellSize()
		hdr.Charsize = uint32(vfont.RowPaddedSize(cell))
		hdr.Height = uint32(cell.H)
		hdr.Width = uint32(cell.W)
	}
	if err := binary.Write(w, binary.LittleEndian, &hdr); err != nil {
		return err
	}
	for _, g := range fnt.Glyphs {
		if _, err := w.Write(g.ToRowPadded()); err != nil {
			return err
		}
	}
	if fnt.Map == nil {
		return nil
	}
	var run []byte
	for idx := range fnt.Glyphs {
		run = run[:0]
		if cps, ok := fnt.Map.Mapped(idx); ok {
			for _, cp := range cps {
				run = utf8.AppendRune(run, cp)
			}
		}
		run = append(run, psf2Separator)
		if _, err := w.Write(run); err != nil {
			return err
		}
	}
	return nil
}

type psfCodec struct{}

func (psfCodec) Load(path string, fnt *vfont.Font) error { return Load(path, fnt) }
func (psfCodec) Save(path string, fnt *vfont.Font) error { return Save(path, fnt) }

func init() {
	codec.Register("psf", psfCodec{}, ".psf", ".psfu")
}
