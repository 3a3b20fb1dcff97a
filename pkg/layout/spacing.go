package layout

import "github.com/gridmesh/gridmesh/pkg/graph"

// SpacingTracker tracks cell occupancy and per-group axis-aligned bounds in
// grid space, and enforces the inter-group spacing buffer during placement.
//
// A fresh tracker is constructed per build; it owns no shared state (the
// occupancy set is scoped to a single positioner run).
type SpacingTracker struct {
	buffer   int
	occupied map[Cell]string // cell -> node ID
	bounds   map[string]graph.GridBounds
}

// NewSpacingTracker creates an empty tracker with the given buffer width,
// measured in grid cells per direction.
func NewSpacingTracker(buffer int) *SpacingTracker {
	return &SpacingTracker{
		buffer:   buffer,
		occupied: make(map[Cell]string),
		bounds:   make(map[string]graph.GridBounds),
	}
}

// Occupy marks a cell as taken by the given node.
func (t *SpacingTracker) Occupy(c Cell, nodeID string) {
	t.occupied[c] = nodeID
}

// Occupied reports whether a cell is already taken.
func (t *SpacingTracker) Occupied(c Cell) bool {
	_, ok := t.occupied[c]
	return ok
}

// CanPlace reports whether a cell is available for a node of the given group.
// It returns false iff the cell is occupied, or the cell lies within the
// spacing-buffered bounds of any group other than groupID.
//
// An empty groupID (ungrouped node) conflicts with every group's buffer:
// ungrouped nodes may not encroach on any group's territory.
func (t *SpacingTracker) CanPlace(c Cell, groupID string) bool {
	if t.Occupied(c) {
		return false
	}
	for id, b := range t.bounds {
		if id == groupID {
			continue
		}
		if c.X >= b.MinX-t.buffer && c.X <= b.MaxX+t.buffer &&
			c.Y >= b.MinY-t.buffer && c.Y <= b.MaxY+t.buffer {
			return false
		}
	}
	return true
}

// Update extends the group's min/max bounds to include the cell.
// The first update for a group initializes its bounds to exactly that cell.
func (t *SpacingTracker) Update(groupID string, c Cell) {
	b, ok := t.bounds[groupID]
	if !ok {
		t.bounds[groupID] = graph.GridBounds{MinX: c.X, MinY: c.Y, MaxX: c.X, MaxY: c.Y}
		return
	}
	if c.X < b.MinX {
		b.MinX = c.X
	}
	if c.X > b.MaxX {
		b.MaxX = c.X
	}
	if c.Y < b.MinY {
		b.MinY = c.Y
	}
	if c.Y > b.MaxY {
		b.MaxY = c.Y
	}
	t.bounds[groupID] = b
}

// Bounds returns the group's current bounds and whether any member has been
// placed yet.
func (t *SpacingTracker) Bounds(groupID string) (graph.GridBounds, bool) {
	b, ok := t.bounds[groupID]
	return b, ok
}
