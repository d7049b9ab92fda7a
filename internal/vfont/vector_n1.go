package vfont

// The n1 strategy decides per pixel corner whether a 45 degree bevel or a
// square corner is correct, from the 3x3 neighbourhood. A corner is beveled
// when nothing touches it orthogonally or diagonally but the pixel continues
// along the crossing diagonal, which turns staircases of set pixels into 45
// degree cuts while leaving isolated convex and concave corners square. The
// pixel is emitted as four half-unit quadrants, square or corner-cut; shared
// quadrant borders cancel in the pair-elimination step like whole squares do.

// addCellN1 inserts the quadrant decomposition for the pixel at cell
// coordinates (cx, cy).
func (v *Vectorizer) addCellN1(s *edgeSet, x, cy int) {
	up := v.cell(x, cy+1)
	dn := v.cell(x, cy-1)
	lf := v.cell(x-1, cy)
	rt := v.cell(x+1, cy)
	ul := v.cell(x-1, cy+1)
	ur := v.cell(x+1, cy+1)
	ll := v.cell(x-1, cy-1)
	lr := v.cell(x+1, cy-1)

	cutTL := !up && !lf && !ul && (ur || ll)
	cutTR := !up && !rt && !ur && (ul || lr)
	cutBL := !dn && !lf && !ll && (ul || lr)
	cutBR := !dn && !rt && !lr && (ur || ll)
	if cutTL && cutTR && cutBL && cutBR {
		// full-diagonal case: the pixel is touched on both diagonals;
		// cutting everything would shrink it to a diamond and break
		// 8-connectivity, so it keeps its square
		cutTL, cutTR, cutBL, cutBR = false, false, false, false
	}

	x0, y0 := x*v.ScaleX, cy*v.ScaleY
	x1, y1 := x0+v.ScaleX, y0+v.ScaleY
	xm, ym := x0+max(1, v.ScaleX/2), y0+max(1, v.ScaleY/2)

	if cutBL {
		s.ring(Vertex{xm, y0}, Vertex{xm, ym}, Vertex{x0, ym})
	} else {
		s.ring(Vertex{x0, y0}, Vertex{xm, y0}, Vertex{xm, ym}, Vertex{x0, ym})
	}
	if cutBR {
		s.ring(Vertex{xm, y0}, Vertex{x1, ym}, Vertex{xm, ym})
	} else {
		s.ring(Vertex{xm, y0}, Vertex{x1, y0}, Vertex{x1, ym}, Vertex{xm, ym})
	}
	if cutTR {
		s.ring(Vertex{xm, ym}, Vertex{x1, ym}, Vertex{xm, y1})
	} else {
		s.ring(Vertex{xm, ym}, Vertex{x1, ym}, Vertex{x1, y1}, Vertex{xm, y1})
	}
	if cutTL {
		s.ring(Vertex{x0, ym}, Vertex{xm, ym}, Vertex{xm, y1})
	} else {
		s.ring(Vertex{x0, ym}, Vertex{xm, ym}, Vertex{xm, y1}, Vertex{x0, y1})
	}
}
