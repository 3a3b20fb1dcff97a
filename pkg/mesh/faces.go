package mesh

// Exterior face extraction in half-voxel integer space.
//
// A voxel at coordinate c spans [2c-1, 2c+1] per axis in half-voxel units, so
// every cube corner, face, and edge endpoint has exact integer coordinates.
// One half-voxel unit equals the padding distance P in world space.

// halfPoint is a corner or edge endpoint in half-voxel units.
type halfPoint struct {
	X, Y, Z int
}

// less orders points lexicographically, axis by axis.
func (p halfPoint) less(o halfPoint) bool {
	if p.X != o.X {
		return p.X < o.X
	}
	if p.Y != o.Y {
		return p.Y < o.Y
	}
	return p.Z < o.Z
}

// halfEdge is a boundary edge with canonically ordered endpoints: the
// lexicographically smaller endpoint comes first, so exact equality is
// sufficient for deduplication.
type halfEdge struct {
	A, B halfPoint
}

func newHalfEdge(a, b halfPoint) halfEdge {
	if b.less(a) {
		a, b = b, a
	}
	return halfEdge{A: a, B: b}
}

// axisComponent returns the point's coordinate on the given axis (0=x 1=y 2=z).
func (p halfPoint) axisComponent(axis int) int {
	switch axis {
	case 0:
		return p.X
	case 1:
		return p.Y
	default:
		return p.Z
	}
}

func (p *halfPoint) setAxisComponent(axis, v int) {
	switch axis {
	case 0:
		p.X = v
	case 1:
		p.Y = v
	default:
		p.Z = v
	}
}

// exteriorEdges emits the 4 border edges of every exterior face: a face is
// exterior iff the voxel adjacent in its direction is unoccupied. Edges are
// deduplicated by their canonical endpoint pair; the returned slice keeps
// insertion order, which downstream merging depends on for reproducible
// output.
func exteriorEdges(occ *occupancy) []halfEdge {
	dedup := make(map[halfEdge]bool)
	var edges []halfEdge

	emit := func(a, b halfPoint) {
		e := newHalfEdge(a, b)
		if dedup[e] {
			return
		}
		dedup[e] = true
		edges = append(edges, e)
	}

	for _, v := range occ.order {
		for dir, d := range faceDirections {
			if occ.has(v.add(d)) {
				continue
			}
			axis := dir / 2 // 0=x 1=y 2=z
			sgn := 1 - 2*(dir%2)

			// Face plane: the voxel center in half units, pushed one half
			// unit along the face normal.
			center := halfPoint{2 * v.X, 2 * v.Y, 2 * v.Z}
			center.setAxisComponent(axis, center.axisComponent(axis)+sgn)

			u := (axis + 1) % 3
			w := (axis + 2) % 3
			corner := func(du, dw int) halfPoint {
				p := center
				p.setAxisComponent(u, p.axisComponent(u)+du)
				p.setAxisComponent(w, p.axisComponent(w)+dw)
				return p
			}

			c00 := corner(-1, -1)
			c01 := corner(-1, 1)
			c11 := corner(1, 1)
			c10 := corner(1, -1)
			emit(c00, c01)
			emit(c01, c11)
			emit(c11, c10)
			emit(c10, c00)
		}
	}

	return edges
}
