package vfont

// The n2/n2ev strategies trace plain pixel boundaries first and then reshape
// each polygon: a window around every short edge is classified against the
// local turn pattern, either a chicane (single staircase step), a pimple
// (isolated one-pixel protrusion) or a dimple (isolated one-pixel notch).
// Matched corners are split, pulling each half a unit back along its two
// adjacent runs, which puts a 45 degree cut exactly on the old corner.
// Overlapping matches share trim budgets; a match that would consume more of
// a run than remains is vetoed.

// segment is a maximal straight run of the polygon boundary.
type segment struct {
	d          dir
	length     int // scaled length
	start, end Vertex
}

func (v *Vectorizer) segUnit(s segment) int {
	if s.d.DX != 0 {
		return v.ScaleX
	}
	return v.ScaleY
}

func (v *Vectorizer) segHalf(s segment) int {
	return max(1, v.segUnit(s)/2)
}

func (v *Vectorizer) halfVec(s segment) Vertex {
	h := v.segHalf(s)
	return Vertex{s.d.DX * h, s.d.DY * h}
}

func scaledLen(a, b Vertex) int {
	dx, dy := b.X-a.X, b.Y-a.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// angleSmooth runs the pattern pass over one closed polygon and returns the
// rebuilt polygon with zero-length edges pruned and collinear runs merged.
func (v *Vectorizer) angleSmooth(poly Polygon) Polygon {
	if len(poly) < 4 {
		return poly
	}
	pts := make([]Vertex, len(poly))
	for i, e := range poly {
		pts[i] = e.From
	}
	n := len(pts)

	// rotate the cycle so it starts on a corner
	rot := -1
	for i := 0; i < n; i++ {
		prev := pts[(i-1+n)%n]
		next := pts[(i+1)%n]
		if dirBetween(prev, pts[i]) != dirBetween(pts[i], next) {
			rot = i
			break
		}
	}
	if rot < 0 {
		return poly
	}
	pts = append(pts[rot:], pts[:rot:rot]...)

	var segs []segment
	for i := 0; i < n; i++ {
		a, b := pts[i], pts[(i+1)%n]
		d := dirBetween(a, b)
		if len(segs) > 0 && segs[len(segs)-1].d == d {
			last := &segs[len(segs)-1]
			last.end = b
			last.length += scaledLen(a, b)
		} else {
			segs = append(segs, segment{d, scaledLen(a, b), a, b})
		}
	}
	m := len(segs)
	if m < 4 {
		return poly
	}

	// corner k sits between segs[k-1] and segs[k]; positive turn = left
	turnAt := func(k int) int {
		return cross(segs[(k-1+m)%m].d, segs[k%m].d)
	}
	isUnit := func(i int) bool {
		return segs[i].length == v.segUnit(segs[i])
	}

	flagged := make([]bool, m)
	trim := make([]int, m)
	propose := func(k int) {
		k = ((k % m) + m) % m
		if flagged[k] {
			return
		}
		p := (k - 1 + m) % m
		if trim[p]+v.segHalf(segs[p]) > segs[p].length ||
			trim[k]+v.segHalf(segs[k]) > segs[k].length {
			// veto: an earlier match already claimed this run
			return
		}
		flagged[k] = true
		trim[p] += v.segHalf(segs[p])
		trim[k] += v.segHalf(segs[k])
	}

	for i := 0; i < m; i++ {
		if !isUnit(i) {
			continue
		}
		tIn, tOut := turnAt(i), turnAt(i+1)
		if tIn == 0 || tOut == 0 {
			continue
		}
		switch {
		case (tIn > 0) != (tOut > 0):
			// chicane: one staircase step, possibly terminating a
			// longer run on either side
			propose(i)
			propose(i + 1)
		case isUnit((i-1+m)%m) && isUnit((i+1)%m):
			// pimple (convex) or dimple (concave)
			propose(i)
			propose(i + 1)
		}
	}

	// split flagged corners, shifting half a unit along both adjacent runs
	var out []Vertex
	for k := 0; k < m; k++ {
		p := segs[k].start
		if flagged[k] {
			hin := v.halfVec(segs[(k-1+m)%m])
			hout := v.halfVec(segs[k])
			out = append(out,
				Vertex{p.X - hin.X, p.Y - hin.Y},
				Vertex{p.X + hout.X, p.Y + hout.Y})
		} else {
			out = append(out, p)
		}
	}
	return rebuild(out)
}

// rebuild turns a point cycle back into a polygon, dropping zero-length
// edges and merging collinear neighbours, including across the wrap.
func rebuild(pts []Vertex) Polygon {
	var res Polygon
	n := len(pts)
	for i := 0; i < n; i++ {
		a, b := pts[i], pts[(i+1)%n]
		if a == b {
			continue
		}
		if len(res) > 0 && res[len(res)-1].To == a &&
			edgeDir(res[len(res)-1]) == dirBetween(a, b) {
			res[len(res)-1].To = b
		} else {
			res = append(res, Edge{a, b})
		}
	}
	if len(res) > 2 {
		first, last := res[0], res[len(res)-1]
		if last.To == first.From && edgeDir(first) == edgeDir(last) {
			res[0].From = last.From
			res = res[:len(res)-1]
		}
	}
	return res
}
