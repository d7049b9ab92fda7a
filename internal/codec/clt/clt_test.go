package clt

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/consoleet/consoleet-utils/internal/vfont"
)

func TestReadGlyph(t *testing.T) {
	input := "PCLT\n4 3\n" +
		"##......\n" +
		"..##....\n" +
		"......##\n"
	g, err := readGlyph(strings.NewReader(input))
	if err != nil {
		t.Fatalf("readGlyph: %v", err)
	}
	if g.Size != (vfont.Size{W: 4, H: 3}) {
		t.Fatalf("size = %v, want 4x3", g.Size)
	}
	for _, want := range []struct {
		x, y int
		set  bool
	}{{0, 0, true}, {1, 0, false}, {1, 1, true}, {3, 2, true}, {0, 2, false}} {
		if g.Get(want.x, want.y) != want.set {
			t.Errorf("pixel (%d,%d) = %v, want %v",
				want.x, want.y, !want.set, want.set)
		}
	}
}

func TestReadGlyphRejectsOtherFiles(t *testing.T) {
	if _, err := readGlyph(strings.NewReader("P1\n4 3\n")); err != ErrNotCLT {
		t.Fatalf("err = %v, want ErrNotCLT", err)
	}
}

func TestSaveLoadDirRoundTrip(t *testing.T) {
	f := vfont.NewFont()
	g := vfont.NewGlyph(vfont.Size{W: 8, H: 16})
	g.Set(0, 0)
	g.Set(7, 15)
	f.Glyphs = []vfont.Glyph{g}
	f.EnsureMap().Add(0, 'A')

	dir := filepath.Join(t.TempDir(), "out")
	if err := SaveDir(dir, f); err != nil {
		t.Fatalf("SaveDir: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "0041.txt")); err != nil {
		t.Fatalf("expected glyph file: %v", err)
	}

	rt := vfont.NewFont()
	if err := LoadDir(dir, rt); err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if len(rt.Glyphs) != 1 {
		t.Fatalf("got %d glyphs, want 1", len(rt.Glyphs))
	}
	if !bytes.Equal(rt.Glyphs[0].Data, g.Data) {
		t.Error("glyph changed in the round trip")
	}
	if idx, ok := rt.Map.Index('A'); !ok || idx != 0 {
		t.Errorf("Index('A') = %d, %v; want 0, true", idx, ok)
	}
}

func TestLoadDirSkipsForeignFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "README.md"),
		[]byte("hi"), 0o666); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "0041.txt"),
		[]byte("PCLT\n1 1\n##\n"), 0o666); err != nil {
		t.Fatal(err)
	}
	f := vfont.NewFont()
	if err := LoadDir(dir, f); err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if len(f.Glyphs) != 1 {
		t.Errorf("got %d glyphs, want 1", len(f.Glyphs))
	}
}

func TestSavePBMDir(t *testing.T) {
	f := vfont.NewFont()
	g := vfont.NewGlyph(vfont.Size{W: 2, H: 2})
	g.Set(0, 0)
	g.Set(1, 1)
	f.Glyphs = []vfont.Glyph{g}

	dir := t.TempDir()
	if err := SavePBMDir(dir, f); err != nil {
		t.Fatalf("SavePBMDir: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "0000.pbm"))
	if err != nil {
		t.Fatal(err)
	}
	want := "P1\n2 2\n10\n01\n"
	if string(data) != want {
		t.Errorf("pbm = %q, want %q", data, want)
	}
}
