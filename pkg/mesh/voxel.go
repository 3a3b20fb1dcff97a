// Package mesh derives a minimal exterior wireframe around a group of placed
// nodes. Member positions are voxelized on a sparse integer grid, connected
// by carved corridors, reduced to exterior faces, and the resulting edges are
// deduplicated and merged into maximal collinear segments.
//
// All face and edge arithmetic happens in half-voxel integer space, so equal
// inputs produce bit-identical output on every platform; world-space floats
// appear only in the final conversion.
package mesh

import (
	"math"

	"github.com/golang/geo/r3"
)

// DefaultPadding is the default half-extent of the cube grown around each
// member position, in world units. The voxel edge length is twice this.
const DefaultPadding = 20.0

// VoxelCoord is an integer 3-tuple coordinate in voxel space.
type VoxelCoord struct {
	X, Y, Z int
}

// faceDirections is the fixed evaluation order for the 6 axis-aligned faces.
var faceDirections = [6]VoxelCoord{
	{1, 0, 0}, {-1, 0, 0},
	{0, 1, 0}, {0, -1, 0},
	{0, 0, 1}, {0, 0, -1},
}

func (c VoxelCoord) add(d VoxelCoord) VoxelCoord {
	return VoxelCoord{c.X + d.X, c.Y + d.Y, c.Z + d.Z}
}

// distSq is the squared Euclidean distance in voxel-coordinate space.
func (c VoxelCoord) distSq(o VoxelCoord) int {
	dx, dy, dz := c.X-o.X, c.Y-o.Y, c.Z-o.Z
	return dx*dx + dy*dy + dz*dz
}

// occupancy is a sparse voxel set that remembers insertion order. The voxel
// grid is conceptually unbounded; only occupied coordinates are stored. A
// fresh set is built per boundary computation, and iteration always follows
// insertion order so results do not depend on map ordering.
type occupancy struct {
	set   map[VoxelCoord]bool
	order []VoxelCoord
}

func newOccupancy() *occupancy {
	return &occupancy{set: make(map[VoxelCoord]bool)}
}

// add marks a voxel occupied, reporting whether it was newly added.
func (o *occupancy) add(c VoxelCoord) bool {
	if o.set[c] {
		return false
	}
	o.set[c] = true
	o.order = append(o.order, c)
	return true
}

func (o *occupancy) has(c VoxelCoord) bool { return o.set[c] }

func (o *occupancy) size() int { return len(o.order) }

// voxelize maps world positions to voxel coordinates by dividing by the voxel
// edge length and rounding each axis to the nearest integer. Positions
// falling into the same voxel collapse; the returned slice holds the distinct
// node voxels in first-seen order.
func voxelize(positions []r3.Vector, voxelSize float64) (*occupancy, []VoxelCoord) {
	occ := newOccupancy()
	var nodes []VoxelCoord
	for _, p := range positions {
		c := VoxelCoord{
			X: int(math.Round(p.X / voxelSize)),
			Y: int(math.Round(p.Y / voxelSize)),
			Z: int(math.Round(p.Z / voxelSize)),
		}
		if occ.add(c) {
			nodes = append(nodes, c)
		}
	}
	return occ, nodes
}

// carveCorridors connects each node voxel to its nearest other node voxel by
// marking every intermediate voxel along an axis-by-axis walk: all x steps
// first, then y, then z. Distance ties break to the first candidate in node
// order.
//
// Known limitation, preserved for compatibility: each voxel connects only to
// its single nearest neighbor, not to a spanning tree, so configurations
// whose nearest-neighbor relation is disconnected can leave multiple voxel
// components. Callers detect this via component counting and report a
// diagnostic rather than altering the geometry.
func carveCorridors(occ *occupancy, nodes []VoxelCoord) {
	if len(nodes) < 2 {
		return
	}
	for _, from := range nodes {
		best := -1
		bestDist := 0
		for j, to := range nodes {
			if to == from {
				continue
			}
			if d := from.distSq(to); best < 0 || d < bestDist {
				best, bestDist = j, d
			}
		}
		carve(occ, from, nodes[best])
	}
}

// carve walks from a to b one axis at a time, occupying every step.
func carve(occ *occupancy, a, b VoxelCoord) {
	cur := a
	for cur.X != b.X {
		cur.X += sign(b.X - cur.X)
		occ.add(cur)
	}
	for cur.Y != b.Y {
		cur.Y += sign(b.Y - cur.Y)
		occ.add(cur)
	}
	for cur.Z != b.Z {
		cur.Z += sign(b.Z - cur.Z)
		occ.add(cur)
	}
}

func sign(v int) int {
	if v < 0 {
		return -1
	}
	return 1
}

// countComponents returns the number of face-adjacency connected components
// in the occupancy set.
func countComponents(occ *occupancy) int {
	seen := make(map[VoxelCoord]bool, occ.size())
	components := 0
	for _, start := range occ.order {
		if seen[start] {
			continue
		}
		components++
		queue := []VoxelCoord{start}
		seen[start] = true
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, d := range faceDirections {
				next := cur.add(d)
				if occ.has(next) && !seen[next] {
					seen[next] = true
					queue = append(queue, next)
				}
			}
		}
	}
	return components
}
