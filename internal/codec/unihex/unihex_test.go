package unihex

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/consoleet/consoleet-utils/internal/vfont"
)

const sampleA = "0041:0000001818242442427E424242420000"

func TestReadNarrowGlyph(t *testing.T) {
	f := vfont.NewFont()
	if err := Read(strings.NewReader(sampleA+"\n"), f, io.Discard); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(f.Glyphs) != 1 {
		t.Fatalf("got %d glyphs, want 1", len(f.Glyphs))
	}
	g := f.Glyphs[0]
	if g.Size != (vfont.Size{W: 8, H: 16}) {
		t.Fatalf("cell = %v, want 8x16", g.Size)
	}
	// row 5 is 0x24: pixels 2 and 5
	if !g.Get(2, 5) || !g.Get(5, 5) || g.Get(0, 5) {
		t.Error("row 5 bits do not match 0x24")
	}
	if idx, ok := f.Map.Index('A'); !ok || idx != 0 {
		t.Errorf("Index('A') = %d, %v; want 0, true", idx, ok)
	}
}

func TestReadWideGlyph(t *testing.T) {
	f := vfont.NewFont()
	line := "4E00:" + strings.Repeat("FF00", 16) + "\n"
	if err := Read(strings.NewReader(line), f, io.Discard); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if f.Glyphs[0].Size != (vfont.Size{W: 16, H: 16}) {
		t.Fatalf("cell = %v, want 16x16", f.Glyphs[0].Size)
	}
	if !f.Glyphs[0].Get(0, 0) || f.Glyphs[0].Get(8, 0) {
		t.Error("wide glyph bits do not match")
	}
}

func TestReadSkipsBadLines(t *testing.T) {
	var diag bytes.Buffer
	f := vfont.NewFont()
	input := "nonsense\n" + sampleA + "\n0042:1234\n"
	if err := Read(strings.NewReader(input), f, &diag); err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(f.Glyphs) != 1 {
		t.Errorf("got %d glyphs, want 1", len(f.Glyphs))
	}
	if diag.Len() == 0 {
		t.Error("bad lines were not reported")
	}
}

func TestWriteRoundTrip(t *testing.T) {
	f := vfont.NewFont()
	if err := Read(strings.NewReader(sampleA+"\n"), f, io.Discard); err != nil {
		t.Fatalf("Read: %v", err)
	}
	var buf bytes.Buffer
	if err := Write(&buf, f); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if got := buf.String(); got != sampleA+"\n" {
		t.Errorf("Write = %q, want %q", got, sampleA+"\n")
	}
}
