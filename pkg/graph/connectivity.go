package graph

// Connectivity is the degree and adjacency index derived from a graph's edge
// list. It is built once per layout run from a validated graph and is
// read-only afterwards.
//
// Degrees count both endpoints of every edge, so a self-loop contributes two.
// Adjacency lists preserve edge input order, which the positioner relies on
// for deterministic anchor scanning. Parallel edges produce repeated
// neighbors; the positioner tolerates duplicates, so they are not collapsed.
type Connectivity struct {
	degrees   map[string]int
	adjacency map[string][]string
}

// BuildConnectivity indexes degrees and adjacency for a validated graph.
// Edges with unknown endpoints must already have been dropped by
// [Graph.Validate]; unknown IDs here would silently skew degrees.
func BuildConnectivity(g Graph) *Connectivity {
	c := &Connectivity{
		degrees:   make(map[string]int, len(g.Nodes)),
		adjacency: make(map[string][]string, len(g.Nodes)),
	}
	for _, n := range g.Nodes {
		c.degrees[n.ID] = 0
	}
	for _, e := range g.Edges {
		c.degrees[e.Source]++
		c.degrees[e.Target]++
		c.adjacency[e.Source] = append(c.adjacency[e.Source], e.Target)
		c.adjacency[e.Target] = append(c.adjacency[e.Target], e.Source)
	}
	return c
}

// Degree returns the number of edge endpoints touching the node.
func (c *Connectivity) Degree(id string) int { return c.degrees[id] }

// Neighbors returns the node's adjacent node IDs in edge input order.
// The returned slice is owned by the index and must not be modified.
func (c *Connectivity) Neighbors(id string) []string { return c.adjacency[id] }
