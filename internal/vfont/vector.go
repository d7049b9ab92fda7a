package vfont

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/exp/slices"
)

// Vertex is a lattice point in the scaled, Y-up outline space.
type Vertex struct {
	X, Y int
}

// Edge is a directed segment between two lattice points. Interior lies to
// the left of the direction of travel, so outer contours come out
// counter-clockwise (positive signed area).
type Edge struct {
	From, To Vertex
}

// Polygon is one closed walk of edges.
type Polygon []Edge

// Algorithm selects the outline construction strategy.
type Algorithm int

const (
	// Simple traces exact pixel boundaries, staircases included.
	Simple Algorithm = iota
	// N1 classifies 3x3 neighbourhoods and bevels staircase corners at
	// square-insertion time.
	N1
	// N2 post-processes the pixel boundary with the angle-pattern pass.
	N2
	// N2EV is N2 with unit edges retained during the walk and
	// isthmus-aware pinch handling.
	N2EV
)

func sgn(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}

// dir is a normalized edge direction; components are -1, 0 or 1.
type dir struct {
	DX, DY int
}

func dirBetween(a, b Vertex) dir {
	return dir{sgn(b.X - a.X), sgn(b.Y - a.Y)}
}

func edgeDir(e Edge) dir {
	return dirBetween(e.From, e.To)
}

// cross is positive when b is a left turn from a.
func cross(a, b dir) int {
	return a.DX*b.DY - a.DY*b.DX
}

func compareVertex(a, b Vertex) int {
	if a.Y != b.Y {
		return a.Y - b.Y
	}
	return a.X - b.X
}

func compareEdge(a, b Edge) int {
	if c := compareVertex(a.From, b.From); c != 0 {
		return c
	}
	return compareVertex(a.To, b.To)
}

// edgeSet is the working graph: a duplicate-free set of directed edges with
// ordered lookup of the edges departing a vertex.
type edgeSet struct {
	out  map[Vertex]map[Vertex]struct{}
	n    int
	diag io.Writer
}

func newEdgeSet(diag io.Writer) *edgeSet {
	return &edgeSet{out: make(map[Vertex]map[Vertex]struct{}), diag: diag}
}

func (s *edgeSet) add(from, to Vertex) {
	if from == to {
		fmt.Fprintf(s.diag, "vectorizer: degenerate edge at %d,%d\n", from.X, from.Y)
		return
	}
	set, ok := s.out[from]
	if !ok {
		set = make(map[Vertex]struct{})
		s.out[from] = set
	}
	if _, dup := set[to]; !dup {
		set[to] = struct{}{}
		s.n++
	}
}

// ring adds the closed edge cycle through the given points.
func (s *edgeSet) ring(pts ...Vertex) {
	for i, p := range pts {
		s.add(p, pts[(i+1)%len(pts)])
	}
}

func (s *edgeSet) has(from, to Vertex) bool {
	_, ok := s.out[from][to]
	return ok
}

func (s *edgeSet) remove(from, to Vertex) {
	set, ok := s.out[from]
	if !ok {
		return
	}
	if _, ok := set[to]; ok {
		delete(set, to)
		s.n--
		if len(set) == 0 {
			delete(s.out, from)
		}
	}
}

// succs returns the targets of all edges departing from, in vertex order.
// At most two exist after pair cancellation (two only at a pinch vertex).
func (s *edgeSet) succs(from Vertex) []Vertex {
	set, ok := s.out[from]
	if !ok {
		return nil
	}
	out := make([]Vertex, 0, len(set))
	for to := range set {
		out = append(out, to)
	}
	slices.SortFunc(out, compareVertex)
	return out
}

// all returns every remaining edge in (From, To) order.
func (s *edgeSet) all() []Edge {
	out := make([]Edge, 0, s.n)
	for from, set := range s.out {
		for to := range set {
			out = append(out, Edge{from, to})
		}
	}
	slices.SortFunc(out, compareEdge)
	return out
}

// cancelPairs removes every edge together with its reverse twin. Touching
// unit squares were inserted with consistent orientation, so their shared
// border is exactly such a pair; what survives is the boundary of the union,
// never re-oriented.
func (s *edgeSet) cancelPairs() {
	for _, e := range s.all() {
		if s.has(e.From, e.To) && s.has(e.To, e.From) {
			s.remove(e.From, e.To)
			s.remove(e.To, e.From)
		}
	}
}

// Vectorizer turns one glyph into closed polygons. Raster row 0 is the top
// of the glyph; outline Y grows upward and is shifted so that Descent rows
// lie below zero. Coordinates are scaled by ScaleX/ScaleY (default 2, which
// leaves room for the half-unit cuts of the smoothing passes).
type Vectorizer struct {
	ScaleX, ScaleY int
	Descent        int

	// Diag receives walk diagnostics. Defaults to os.Stderr.
	Diag io.Writer

	g Glyph
}

func NewVectorizer(g Glyph, descent int) *Vectorizer {
	return &Vectorizer{ScaleX: 2, ScaleY: 2, Descent: descent, g: g}
}

func (v *Vectorizer) dw() io.Writer {
	if v.Diag != nil {
		return v.Diag
	}
	return os.Stderr
}

// cell reports the raster pixel for outline cell coordinates, where cy counts
// rows upward from the descent line.
func (v *Vectorizer) cell(cx, cy int) bool {
	return v.g.Get(cx, v.g.Size.H-1-cy-v.Descent)
}

// addSquare inserts the scaled boundary of one pixel cell, counter-clockwise.
func (v *Vectorizer) addSquare(s *edgeSet, cx, cy int) {
	x0, y0 := cx*v.ScaleX, cy*v.ScaleY
	x1, y1 := x0+v.ScaleX, y0+v.ScaleY
	s.ring(Vertex{x0, y0}, Vertex{x1, y0}, Vertex{x1, y1}, Vertex{x0, y1})
}

// Outline builds the closed polygons of the glyph with the chosen algorithm.
// Every returned polygon is a closed walk; holes come out with the opposite
// orientation of outer contours.
func (v *Vectorizer) Outline(alg Algorithm) []Polygon {
	s := newEdgeSet(v.dw())
	h := v.g.Size.H
	for y := 0; y < h; y++ {
		cy := h - 1 - y - v.Descent
		for x := 0; x < v.g.Size.W; x++ {
			if !v.g.Get(x, y) {
				continue
			}
			if alg == N1 {
				v.addCellN1(s, x, cy)
			} else {
				v.addSquare(s, x, cy)
			}
		}
	}
	s.cancelPairs()

	merge := alg != N2EV
	var polys []Polygon
	for _, e := range s.all() {
		if !s.has(e.From, e.To) {
			continue
		}
		poly, ok := v.walk(s, e, merge, alg == N2EV)
		if !ok {
			continue
		}
		if alg == N2 || alg == N2EV {
			poly = v.angleSmooth(poly)
		}
		if len(poly) > 0 {
			polys = append(polys, poly)
		}
	}
	return polys
}

// walk extends a closed walk from start until it returns to its first
// vertex. An exhausted neighbourhood before closure is diagnosed and the
// partial polygon discarded; its edges stay consumed so later walks make
// progress.
func (v *Vectorizer) walk(s *edgeSet, start Edge, merge, isthmus bool) (Polygon, bool) {
	s.remove(start.From, start.To)
	poly := Polygon{start}
	prev := edgeDir(start)
	for {
		tail := poly[len(poly)-1].To
		if tail == poly[0].From {
			break
		}
		cands := s.succs(tail)
		if len(cands) == 0 {
			fmt.Fprintf(v.dw(), "vectorizer: unclosed polygon walk at %d,%d\n", tail.X, tail.Y)
			return nil, false
		}
		next := cands[0]
		if len(cands) > 1 {
			next = v.pick(tail, prev, cands, isthmus)
		}
		s.remove(tail, next)
		d := dirBetween(tail, next)
		if merge && d == prev {
			poly[len(poly)-1].To = next
		} else {
			poly = append(poly, Edge{tail, next})
		}
		prev = d
	}
	if merge && len(poly) > 2 {
		// the walk may have started mid-run; fold a collinear final edge
		// into the first one
		first, last := poly[0], poly[len(poly)-1]
		if edgeDir(first) == edgeDir(last) {
			poly[0].From = last.From
			poly = poly[:len(poly)-1]
		}
	}
	return poly, true
}

// pick resolves a pinch vertex. The default is the sharpest turn toward the
// interior, which closes each touching contour separately; with isthmus
// probing enabled, a diagonal stroke in the raster instead takes the
// crossing continuation so the stroke stays one polygon.
func (v *Vectorizer) pick(tail Vertex, incoming dir, cands []Vertex, isthmus bool) Vertex {
	inward, outward := cands[0], cands[0]
	inCross := cross(incoming, dirBetween(tail, inward))
	outCross := inCross
	for _, c := range cands[1:] {
		x := cross(incoming, dirBetween(tail, c))
		if x > inCross {
			inward, inCross = c, x
		}
		if x < outCross {
			outward, outCross = c, x
		}
	}
	if isthmus && v.joinedAt(tail) {
		return outward
	}
	return inward
}

// joinedAt probes the raster around a lattice point shared by two diagonal
// pixel squares. It reports true when the diagonal continues beyond either
// square, i.e. the configuration is a stroke rather than two blobs touching
// by accident.
func (v *Vectorizer) joinedAt(t Vertex) bool {
	if t.X%v.ScaleX != 0 || t.Y%v.ScaleY != 0 {
		return false
	}
	cx, cy := t.X/v.ScaleX, t.Y/v.ScaleY
	ur, ul := v.cell(cx, cy), v.cell(cx-1, cy)
	lr, ll := v.cell(cx, cy-1), v.cell(cx-1, cy-1)
	switch {
	case ur && ll && !ul && !lr:
		return v.cell(cx+1, cy+1) || v.cell(cx-2, cy-2)
	case ul && lr && !ur && !ll:
		return v.cell(cx-2, cy+1) || v.cell(cx+1, cy-2)
	}
	return false
}
