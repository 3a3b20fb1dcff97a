// Package layout assigns collision-free integer grid coordinates to graph
// nodes, clustering nodes that share group membership and keeping distinct
// groups separated by a spacing buffer.
//
// The positioner is a pure function of its inputs: given the same node, edge,
// and group ordering it reproduces the same grid bit-for-bit. All search and
// tie-break rules are fixed (see [Place]).
package layout

import (
	"slices"

	"github.com/golang/geo/r3"

	"github.com/gridmesh/gridmesh/pkg/errors"
	"github.com/gridmesh/gridmesh/pkg/graph"
)

const (
	// DefaultSpacing is the world-space distance between adjacent grid cells.
	DefaultSpacing = 80.0

	// DefaultBuffer is the inter-group spacing buffer in grid cells.
	DefaultBuffer = 3

	// maxSearchRadius caps the constrained ring search. Past this the
	// positioner falls back to the nearest free cell ignoring spacing.
	maxSearchRadius = 100
)

// Cell is an integer coordinate on the placement grid.
type Cell struct {
	X, Y int
}

// neighborOffsets is the fixed priority order for adjacent-cell placement:
// +x, -x, +y, -y, then the four diagonals.
var neighborOffsets = [8]Cell{
	{1, 0}, {-1, 0}, {0, 1}, {0, -1},
	{1, 1}, {-1, 1}, {1, -1}, {-1, -1},
}

// Options configures the positioner.
type Options struct {
	// Spacing is the world-space distance between adjacent grid cells.
	// Zero means DefaultSpacing.
	Spacing float64

	// Buffer is the inter-group spacing buffer in grid cells.
	// Zero means DefaultBuffer; negative disables the buffer.
	Buffer int
}

func (o *Options) setDefaults() {
	if o.Spacing == 0 {
		o.Spacing = DefaultSpacing
	}
	if o.Buffer == 0 {
		o.Buffer = DefaultBuffer
	}
	if o.Buffer < 0 {
		o.Buffer = 0
	}
}

// Result holds the output of one positioner run.
type Result struct {
	// Cells maps node ID to its assigned grid cell.
	Cells map[string]Cell

	// Positions maps node ID to its derived world position:
	// (gridX*Spacing, 0, gridY*Spacing).
	Positions map[string]r3.Vector

	// GroupBounds maps group ID to the grid bounds of its placed members.
	// Groups with no placed members are absent.
	GroupBounds map[string]graph.GridBounds

	// Diagnostics collects non-fatal conditions (search exhaustion).
	Diagnostics []graph.Diagnostic
}

// Place assigns a grid cell to every node of a graph. Input is normally the
// output of [graph.Graph.Validate]; a node whose primary group matches no
// group record is recovered as ungrouped with a diagnostic rather than
// rejected.
//
// # Algorithm
//
// Nodes are partitioned by the first entry of their group list; within each
// group and within the ungrouped set, members are sorted by degree descending
// (stable, so ties keep input order). Groups are ranked by total member
// degree descending, stable by group input order.
//
// The first member of the top-ranked group lands at the origin. Each further
// group's first member takes the first cell found by scanning concentric
// square rings outward from the origin (dx outer, dy inner, ring boundary
// only) that is free and outside every other group's buffered bounds.
// Remaining group members try the 8 neighbors of each already-placed member,
// anchors in placement order, offsets in the fixed priority order, before
// falling back to a ring search centered on the group's first member.
//
// Ungrouped nodes are placed after all groups, anchored on their own already
// placed graph neighbors instead of group members; with no placed neighbor
// the ring search anchors at the origin. Ungrouped nodes conflict with every
// group's buffer.
//
// # Fallback
//
// The constrained ring search gives up after 100 rings; placement then takes
// the nearest free cell ignoring spacing and records a SEARCH_EXHAUSTED
// diagnostic. Placement never aborts.
func Place(g graph.Graph, conn *graph.Connectivity, opts Options) *Result {
	opts.setDefaults()

	p := &positioner{
		conn:    conn,
		tracker: NewSpacingTracker(opts.Buffer),
		result: &Result{
			Cells:       make(map[string]Cell, len(g.Nodes)),
			Positions:   make(map[string]r3.Vector, len(g.Nodes)),
			GroupBounds: make(map[string]graph.GridBounds),
		},
		spacing: opts.Spacing,
	}

	groups, ungrouped := p.partition(g)

	for gi, grp := range groups {
		p.placeGroup(grp, gi == 0)
	}
	for _, id := range ungrouped {
		p.placeUngrouped(id)
	}

	for id, b := range p.tracker.bounds {
		p.result.GroupBounds[id] = b
	}

	return p.result
}

type positioner struct {
	conn    *graph.Connectivity
	tracker *SpacingTracker
	result  *Result
	spacing float64
}

// memberGroup is a group prepared for placement: members sorted, degree
// summed for ranking.
type memberGroup struct {
	id          string
	members     []string
	totalDegree int
	placed      []Cell // cells of placed members, in placement order
}

// partition splits nodes into ranked groups and the ungrouped set, each
// sorted by degree descending with input order as the stable tie-break.
func (p *positioner) partition(g graph.Graph) ([]*memberGroup, []string) {
	byGroup := make(map[string]*memberGroup)
	var groups []*memberGroup
	for _, grp := range g.Groups {
		mg := &memberGroup{id: grp.ID}
		byGroup[grp.ID] = mg
		groups = append(groups, mg)
	}

	var ungrouped []string
	for _, n := range g.Nodes {
		gid := n.PrimaryGroup()
		if gid == "" {
			ungrouped = append(ungrouped, n.ID)
			continue
		}
		mg := byGroup[gid]
		if mg == nil {
			// Unknown group references survive only on unvalidated input;
			// recover the same way validation would, as ungrouped.
			p.result.Diagnostics = append(p.result.Diagnostics, graph.Diag(
				errors.DiagUnknownGroup,
				"node %q references unknown group %q; placing as ungrouped", n.ID, gid))
			ungrouped = append(ungrouped, n.ID)
			continue
		}
		mg.members = append(mg.members, n.ID)
		mg.totalDegree += p.conn.Degree(n.ID)
	}

	// Drop groups with no layout members; they contribute nothing to the grid.
	groups = slices.DeleteFunc(groups, func(mg *memberGroup) bool {
		return len(mg.members) == 0
	})

	byDegreeDesc := func(a, b string) int {
		return p.conn.Degree(b) - p.conn.Degree(a)
	}
	for _, mg := range groups {
		slices.SortStableFunc(mg.members, byDegreeDesc)
	}
	slices.SortStableFunc(ungrouped, byDegreeDesc)
	slices.SortStableFunc(groups, func(a, b *memberGroup) int {
		return b.totalDegree - a.totalDegree
	})

	return groups, ungrouped
}

// placeGroup places all members of one group.
func (p *positioner) placeGroup(mg *memberGroup, first bool) {
	origin := Cell{0, 0}

	for i, id := range mg.members {
		var cell Cell
		switch {
		case i == 0 && first:
			// The very first placement owns the origin.
			cell = origin
		case i == 0:
			cell = p.findCell(origin, mg.id, id)
		default:
			c, ok := p.tryNeighbors(mg.placed, mg.id)
			if !ok {
				c = p.findCell(mg.placed[0], mg.id, id)
			}
			cell = c
		}
		p.commit(id, mg.id, cell)
		mg.placed = append(mg.placed, cell)
	}
}

// placeUngrouped places a node with no primary group, anchoring on its
// already-placed graph neighbors.
func (p *positioner) placeUngrouped(id string) {
	var anchors []Cell
	for _, nb := range p.conn.Neighbors(id) {
		if c, ok := p.result.Cells[nb]; ok {
			anchors = append(anchors, c)
		}
	}

	if cell, ok := p.tryNeighbors(anchors, ""); ok {
		p.commit(id, "", cell)
		return
	}

	center := Cell{0, 0}
	if len(anchors) > 0 {
		center = anchors[0]
	}
	p.commit(id, "", p.findCell(center, "", id))
}

// commit records a node's cell, marks it occupied, extends its group bounds,
// and derives the world position.
func (p *positioner) commit(nodeID, groupID string, c Cell) {
	p.tracker.Occupy(c, nodeID)
	if groupID != "" {
		p.tracker.Update(groupID, c)
	}
	p.result.Cells[nodeID] = c
	p.result.Positions[nodeID] = r3.Vector{
		X: float64(c.X) * p.spacing,
		Y: 0,
		Z: float64(c.Y) * p.spacing,
	}
}

// tryNeighbors scans anchor cells in order and their 8 neighbors in the fixed
// priority order, returning the first cell that is free and respects the
// spacing buffer.
func (p *positioner) tryNeighbors(anchors []Cell, groupID string) (Cell, bool) {
	for _, a := range anchors {
		for _, off := range neighborOffsets {
			c := Cell{a.X + off.X, a.Y + off.Y}
			if p.tracker.CanPlace(c, groupID) {
				return c, true
			}
		}
	}
	return Cell{}, false
}

// findCell runs the constrained ring search from center, falling back to the
// nearest free cell ignoring spacing when 100 rings turn up nothing. nodeID
// is only used for the fallback diagnostic.
func (p *positioner) findCell(center Cell, groupID, nodeID string) Cell {
	if c, ok := p.ringSearch(center, maxSearchRadius, func(c Cell) bool {
		return p.tracker.CanPlace(c, groupID)
	}); ok {
		return c
	}

	p.result.Diagnostics = append(p.result.Diagnostics, graph.Diag(
		errors.DiagSearchExhausted,
		"no buffered cell within %d rings of (%d,%d) for node %q; placing unconstrained",
		maxSearchRadius, center.X, center.Y, nodeID))

	// Unbounded: the occupancy set is finite, so a free cell always exists.
	c, _ := p.ringSearch(center, -1, func(c Cell) bool {
		return !p.tracker.Occupied(c)
	})
	return c
}

// ringSearch scans the center cell, then concentric square rings of
// increasing radius: dx runs the outer loop from -r to r, dy the inner, and
// only cells on the ring boundary (|dx|=r or |dy|=r) are considered. This
// exact scan order is the tie-break between equidistant candidates and must
// not change. maxRadius < 0 means unbounded.
func (p *positioner) ringSearch(center Cell, maxRadius int, accept func(Cell) bool) (Cell, bool) {
	if accept(center) {
		return center, true
	}
	for r := 1; maxRadius < 0 || r <= maxRadius; r++ {
		for dx := -r; dx <= r; dx++ {
			for dy := -r; dy <= r; dy++ {
				if dx > -r && dx < r && dy > -r && dy < r {
					continue
				}
				c := Cell{center.X + dx, center.Y + dy}
				if accept(c) {
					return c, true
				}
			}
		}
	}
	return Cell{}, false
}
