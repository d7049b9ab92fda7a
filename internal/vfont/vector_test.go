package vfont

import (
	"io"
	"testing"
)

// signedArea is twice the enclosed area, positive for counter-clockwise
// contours.
func signedArea(p Polygon) int {
	sum := 0
	for _, e := range p {
		sum += e.From.X*e.To.Y - e.To.X*e.From.Y
	}
	return sum / 2
}

func checkClosed(t *testing.T, p Polygon) {
	t.Helper()
	if len(p) < 3 {
		t.Fatalf("polygon with %d edges", len(p))
	}
	for i, e := range p {
		next := p[(i+1)%len(p)]
		if e.To != next.From {
			t.Fatalf("edge %d ends at %v, next starts at %v", i, e.To, next.From)
		}
	}
}

func outline(t *testing.T, g Glyph, alg Algorithm) []Polygon {
	t.Helper()
	vk := NewVectorizer(g, 0)
	vk.Diag = io.Discard
	polys := vk.Outline(alg)
	for _, p := range polys {
		checkClosed(t, p)
	}
	return polys
}

func TestOutlineSolidBlock(t *testing.T) {
	g := NewGlyph(Size{8, 16})
	for y := 0; y < 16; y++ {
		for x := 0; x < 8; x++ {
			g.Set(x, y)
		}
	}
	polys := outline(t, g, Simple)
	if len(polys) != 1 {
		t.Fatalf("got %d polygons, want 1", len(polys))
	}
	p := polys[0]
	if len(p) != 4 {
		t.Errorf("solid block gave %d edges, want 4", len(p))
	}
	if a := signedArea(p); a != 16*32 {
		t.Errorf("signed area = %d, want %d", a, 16*32)
	}
	for _, e := range p {
		v := e.From
		if (v.X != 0 && v.X != 16) || (v.Y != 0 && v.Y != 32) {
			t.Errorf("vertex %v is not a corner of the 16x32 rectangle", v)
		}
	}
}

func TestOutlineSinglePixel(t *testing.T) {
	g := parse(t, "#")
	for _, alg := range []Algorithm{Simple, N1} {
		polys := outline(t, g, alg)
		if len(polys) != 1 {
			t.Fatalf("alg %d: got %d polygons, want 1", alg, len(polys))
		}
		if a := signedArea(polys[0]); a != 4 {
			t.Errorf("alg %d: signed area = %d, want 4", alg, a)
		}
	}
	// the angle pass rounds an isolated dot but must keep it one
	// positively wound contour
	for _, alg := range []Algorithm{N2, N2EV} {
		polys := outline(t, g, alg)
		if len(polys) != 1 {
			t.Fatalf("alg %d: got %d polygons, want 1", alg, len(polys))
		}
		if a := signedArea(polys[0]); a <= 0 {
			t.Errorf("alg %d: signed area = %d, want positive", alg, a)
		}
	}
}

func TestOutlineHole(t *testing.T) {
	g := parse(t,
		"###",
		"#.#",
		"###")
	polys := outline(t, g, Simple)
	if len(polys) != 2 {
		t.Fatalf("got %d polygons, want outer plus hole", len(polys))
	}
	// net enclosed area equals set pixel count times the scaled cell area
	total := 0
	pos, neg := 0, 0
	for _, p := range polys {
		a := signedArea(p)
		total += a
		if a > 0 {
			pos++
		} else {
			neg++
		}
	}
	if total != 8*4 {
		t.Errorf("net area = %d, want %d", total, 8*4)
	}
	if pos != 1 || neg != 1 {
		t.Errorf("got %d outer and %d hole contours, want 1 and 1", pos, neg)
	}
}

func TestCancelPairsLeavesEvenDegree(t *testing.T) {
	g := parse(t,
		"##.#",
		"#.##",
		"####")
	vk := NewVectorizer(g, 0)
	s := newEdgeSet(io.Discard)
	for y := 0; y < g.Size.H; y++ {
		for x := 0; x < g.Size.W; x++ {
			if g.Get(x, y) {
				vk.addSquare(s, x, g.Size.H-1-y)
			}
		}
	}
	s.cancelPairs()
	degree := make(map[Vertex]int)
	for _, e := range s.all() {
		if s.has(e.To, e.From) {
			t.Fatalf("edge %v kept its reverse twin", e)
		}
		degree[e.From]++
		degree[e.To]++
	}
	for v, d := range degree {
		if d%2 != 0 {
			t.Errorf("vertex %v has odd degree %d", v, d)
		}
	}
}

func TestOutlineDescentShiftsDown(t *testing.T) {
	g := parse(t,
		"#",
		".")
	vk := NewVectorizer(g, 1)
	polys := vk.Outline(Simple)
	if len(polys) != 1 {
		t.Fatalf("got %d polygons, want 1", len(polys))
	}
	// the blank bottom row is the descent area, so the set pixel sits in
	// the band just above the baseline rather than one cell higher
	for _, e := range polys[0] {
		if e.From.Y < 0 || e.From.Y > 2 {
			t.Errorf("vertex %v outside the expected band", e.From)
		}
	}
}

func TestOutlinePinchDefaultSeparates(t *testing.T) {
	g := parse(t,
		"#..",
		".#.",
		"..#")
	polys := outline(t, g, Simple)
	if len(polys) != 3 {
		t.Errorf("diagonal gave %d polygons, want 3 separate squares", len(polys))
	}
}

func TestOutlinePinchN2EVJoinsStroke(t *testing.T) {
	g := parse(t,
		"#..",
		".#.",
		"..#")
	polys := outline(t, g, N2EV)
	if len(polys) != 1 {
		t.Errorf("diagonal stroke gave %d polygons, want 1", len(polys))
	}
}

func TestOutlineTwoPixelDiagonalStaysSeparate(t *testing.T) {
	// no continuation beyond either pixel, so the isthmus probe must
	// treat the touch as two blobs even under n2ev
	g := parse(t,
		"#.",
		".#")
	polys := outline(t, g, N2EV)
	if len(polys) != 2 {
		t.Errorf("got %d polygons, want 2", len(polys))
	}
}

func TestOutlineN1BevelsStaircase(t *testing.T) {
	g := parse(t,
		".#",
		"##")
	polys := outline(t, g, N1)
	if len(polys) != 1 {
		t.Fatalf("got %d polygons, want 1", len(polys))
	}
	diagonal := 0
	for _, e := range polys[0] {
		d := edgeDir(e)
		if d.DX != 0 && d.DY != 0 {
			diagonal++
		}
	}
	if diagonal == 0 {
		t.Error("staircase produced no beveled edges")
	}
}

func TestOutlineN2CutsCorner(t *testing.T) {
	// an isolated one-pixel protrusion on a long run is a pimple and
	// must come back with 45 degree edges
	g := parse(t,
		".#..",
		"####")
	polys := outline(t, g, N2)
	if len(polys) != 1 {
		t.Fatalf("got %d polygons, want 1", len(polys))
	}
	diagonal := 0
	for _, e := range polys[0] {
		d := edgeDir(e)
		if d.DX != 0 && d.DY != 0 {
			diagonal++
		}
	}
	if diagonal == 0 {
		t.Error("pimple survived the angle pass unsmoothed")
	}
}
