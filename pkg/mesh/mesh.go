package mesh

import (
	"github.com/golang/geo/r3"

	"github.com/gridmesh/gridmesh/pkg/errors"
	"github.com/gridmesh/gridmesh/pkg/graph"
)

// Options configures boundary extraction.
type Options struct {
	// Padding is the half-extent of the cube grown around each member
	// position, in world units. Zero means DefaultPadding. The voxel edge
	// length is 2*Padding.
	Padding float64
}

func (o *Options) setDefaults() {
	if o.Padding == 0 {
		o.Padding = DefaultPadding
	}
}

// Boundary is the exterior wireframe of one group's voxel union.
type Boundary struct {
	// Segments is the merged boundary polyline as two-endpoint segments,
	// in a deterministic order derived from voxel insertion order.
	Segments []Segment

	// VoxelCount is the size of the occupied voxel set (node voxels plus
	// carved corridor voxels).
	VoxelCount int

	// Components is the number of face-adjacency connected components of
	// the voxel set. 1 for every group the corridor carving fully connects.
	Components int

	// Diagnostics reports non-fatal conditions (disconnected voxel sets).
	Diagnostics []graph.Diagnostic
}

// Build computes the exterior boundary of the union of axis-aligned cubes of
// half-extent Padding centered on the given positions.
//
// Positions are voxelized at edge length 2*Padding, each node voxel is
// connected to its nearest other node voxel by a carved corridor, exterior
// faces are extracted (a face is exterior iff its neighboring voxel is
// unoccupied), and the face border edges are deduplicated and merged into
// maximal collinear segments.
//
// Zero positions produce an empty boundary, not an error. groupID only labels
// diagnostics.
func Build(groupID string, positions []r3.Vector, opts Options) Boundary {
	opts.setDefaults()
	if len(positions) == 0 {
		return Boundary{}
	}

	voxelSize := 2 * opts.Padding
	occ, nodes := voxelize(positions, voxelSize)
	carveCorridors(occ, nodes)

	b := Boundary{
		VoxelCount: occ.size(),
		Components: countComponents(occ),
	}
	if b.Components > 1 {
		b.Diagnostics = append(b.Diagnostics, graph.Diag(
			errors.DiagDisconnectedVoxels,
			"group %q voxel set has %d components; nearest-neighbor corridors left it disconnected",
			groupID, b.Components))
	}

	edges := exteriorEdges(occ)
	raw := make([]Segment, len(edges))
	for i, e := range edges {
		raw[i] = Segment{A: toWorld(e.A, opts.Padding), B: toWorld(e.B, opts.Padding)}
	}
	b.Segments = Merge(raw)
	return b
}

// Centroid returns the mean of the given world positions, or the zero vector
// for an empty slice.
func Centroid(positions []r3.Vector) r3.Vector {
	if len(positions) == 0 {
		return r3.Vector{}
	}
	var sum r3.Vector
	for _, p := range positions {
		sum = sum.Add(p)
	}
	return sum.Mul(1 / float64(len(positions)))
}

// toWorld converts a half-voxel integer point to world space: one half-voxel
// unit equals the padding distance.
func toWorld(p halfPoint, padding float64) r3.Vector {
	return r3.Vector{
		X: float64(p.X) * padding,
		Y: float64(p.Y) * padding,
		Z: float64(p.Z) * padding,
	}
}
