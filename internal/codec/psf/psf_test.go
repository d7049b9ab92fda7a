package psf

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/consoleet/consoleet-utils/internal/vfont"
)

func TestPSF2RoundTrip(t *testing.T) {
	f := vfont.NewFont()
	f.Glyphs = make([]vfont.Glyph, 4)
	for i := range f.Glyphs {
		g := vfont.NewGlyph(vfont.Size{W: 8, H: 16})
		g.Set(i, i)
		g.Set(7, 15)
		f.Glyphs[i] = g
	}
	m := f.EnsureMap()
	m.Add(0, 0x0041)
	m.Add(1, 0x00E4) // two-byte UTF-8
	m.Add(1, 0x0391)
	m.Add(2, 0x2588) // three-byte UTF-8

	var buf bytes.Buffer
	if err := Write(&buf, f); err != nil {
		t.Fatalf("Write: %v", err)
	}
	first := append([]byte(nil), buf.Bytes()...)

	rt := vfont.NewFont()
	if err := Read(&buf, rt); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(rt.Glyphs) != len(f.Glyphs) {
		t.Fatalf("got %d glyphs, want %d", len(rt.Glyphs), len(f.Glyphs))
	}
	for i := range f.Glyphs {
		if !bytes.Equal(rt.Glyphs[i].Data, f.Glyphs[i].Data) {
			t.Errorf("glyph %d changed", i)
		}
	}
	for _, idx := range []int{0, 1, 2} {
		want, _ := f.Map.Mapped(idx)
		got, ok := rt.Map.Mapped(idx)
		if !ok {
			t.Errorf("glyph %d lost its mapping", idx)
			continue
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("glyph %d mapping mismatch (-want +got):\n%s", idx, diff)
		}
	}
	if _, ok := rt.Map.Mapped(3); ok {
		t.Error("unmapped glyph gained entries")
	}

	// serializing the reloaded font must reproduce the file
	var second bytes.Buffer
	if err := Write(&second, rt); err != nil {
		t.Fatalf("second Write: %v", err)
	}
	if !bytes.Equal(first, second.Bytes()) {
		t.Error("second serialization differs from the first")
	}
}

func TestPSF2NoTableByteIdentity(t *testing.T) {
	f := vfont.NewFont()
	f.Glyphs = make([]vfont.Glyph, 3)
	for i := range f.Glyphs {
		g := vfont.NewGlyph(vfont.Size{W: 8, H: 16})
		g.Set(i, 2*i)
		f.Glyphs[i] = g
	}
	var first bytes.Buffer
	if err := Write(&first, f); err != nil {
		t.Fatalf("Write: %v", err)
	}
	rt := vfont.NewFont()
	if err := Read(bytes.NewReader(first.Bytes()), rt); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if rt.Map != nil {
		t.Fatal("flags=0 input grew a unicode map")
	}
	var second bytes.Buffer
	if err := Write(&second, rt); err != nil {
		t.Fatalf("second Write: %v", err)
	}
	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		t.Error("load then save changed the file")
	}
}

func TestPSF1Read(t *testing.T) {
	// two 8x2 glyphs with a table mapping them to A and B/Ä
	data := []byte{
		0x36, 0x04, // magic
		psf1ModeHasTab,
		2, // charsize
		0x80, 0x01,
		0x00, 0x18,
		0x41, 0x00, 0xFF, 0xFF, // "A"
		0x42, 0x00, 0xE4, 0x00, 0xFF, 0xFF, // "B", "ä"
	}
	// the mode byte does not request 512 glyphs, so only glyph data for
	// 256 is expected; pad the glyph block accordingly
	glyphs := data[4:8]
	table := data[8:]
	full := append([]byte(nil), data[:4]...)
	full = append(full, glyphs...)
	full = append(full, make([]byte, 2*254)...)
	full = append(full, table...)

	f := vfont.NewFont()
	if err := Read(bytes.NewReader(full), f); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(f.Glyphs) != 256 {
		t.Fatalf("got %d glyphs, want 256", len(f.Glyphs))
	}
	if f.Glyphs[0].Size != (vfont.Size{W: 8, H: 2}) {
		t.Errorf("cell = %v, want 8x2", f.Glyphs[0].Size)
	}
	if !f.Glyphs[0].Get(0, 0) || f.Glyphs[0].Get(7, 0) {
		t.Error("glyph 0 bits do not match the input")
	}
	if got, _ := f.Map.Mapped(0); len(got) != 1 || got[0] != 'A' {
		t.Errorf("glyph 0 mapped to %q, want A", string(got))
	}
	if got, _ := f.Map.Mapped(1); len(got) != 2 || got[0] != 'B' || got[1] != 'ä' {
		t.Errorf("glyph 1 mapped to %q, want Bä", string(got))
	}
}

func TestReadRejectsGarbage(t *testing.T) {
	f := vfont.NewFont()
	if err := Read(bytes.NewReader([]byte("not a font")), f); err == nil {
		t.Fatal("garbage input was accepted")
	}
}
