package graph

import (
	"fmt"

	"github.com/gridmesh/gridmesh/pkg/errors"
)

// =============================================================================
// Graph - Host Graph Description
// =============================================================================

// Graph is the canonical serialization format for a host graph description.
// Used for API requests, storage, caching, and the CLI file format.
//
// The format is human-readable and designed for round-trip fidelity:
// import → validate → export → re-import produces identical results, minus
// any references dropped during validation.
type Graph struct {
	Nodes  []Node  `json:"nodes" bson:"nodes"`
	Edges  []Edge  `json:"edges,omitempty" bson:"edges,omitempty"`
	Groups []Group `json:"groups,omitempty" bson:"groups,omitempty"`
}

// Node is a graph vertex as described by the host.
// Layout-derived data (grid cell, world position) lives in [Layout], not here:
// the input description is treated as an immutable snapshot during a build.
type Node struct {
	ID       string         `json:"id" bson:"id"`
	GroupIDs []string       `json:"group_ids,omitempty" bson:"group_ids,omitempty"`
	Label    string         `json:"label,omitempty" bson:"label,omitempty"` // Display label (defaults to ID)
	Meta     map[string]any `json:"meta,omitempty" bson:"meta,omitempty"`
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// PrimaryGroup returns the first entry of the node's group list, which is
// authoritative for placement. Returns empty string for ungrouped nodes.
func (n *Node) PrimaryGroup() string {
	if len(n.GroupIDs) == 0 {
		return ""
	}
	return n.GroupIDs[0]
}

// Edge represents a directed edge between two nodes.
// Direction is preserved for the host but ignored by the positioner, which
// treats adjacency as symmetric.
type Edge struct {
	Source string `json:"source" bson:"source"`
	Target string `json:"target" bson:"target"`
}

// Group represents a named cluster of nodes.
type Group struct {
	ID        string   `json:"id" bson:"id"`
	Label     string   `json:"label,omitempty" bson:"label,omitempty"`
	MemberIDs []string `json:"member_ids,omitempty" bson:"member_ids,omitempty"`
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.Nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.Edges) }

// GroupCount returns the number of groups.
func (g *Graph) GroupCount() int { return len(g.Groups) }

// =============================================================================
// Diagnostics - Non-Fatal Build Conditions
// =============================================================================

// Diagnostic reports a recoverable condition encountered while validating or
// laying out a graph. Diagnostics never abort a build; they are collected and
// returned alongside results.
type Diagnostic struct {
	Code    errors.Code `json:"code" bson:"code"`
	Message string      `json:"message" bson:"message"`
}

// Diag creates a diagnostic with a formatted message.
func Diag(code errors.Code, format string, args ...any) Diagnostic {
	return Diagnostic{Code: code, Message: fmt.Sprintf(format, args...)}
}

// String returns "CODE: message".
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s", d.Code, d.Message)
}

// =============================================================================
// Validation
// =============================================================================

// Validate returns a copy of the graph with dangling references removed:
//
//   - edges whose source or target matches no node
//   - group member IDs that match no node
//   - node group references that match no group
//
// Each dropped reference produces a diagnostic. Validation never fails on
// structurally valid input; an error is returned only for malformed records
// (empty or duplicate node IDs).
func (g *Graph) Validate() (Graph, []Diagnostic, error) {
	var diags []Diagnostic

	nodeSet := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		if err := errors.ValidateIdentifier(n.ID); err != nil {
			return Graph{}, nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "node id %q", n.ID)
		}
		if nodeSet[n.ID] {
			return Graph{}, nil, errors.New(errors.ErrCodeInvalidGraph, "duplicate node id %q", n.ID)
		}
		nodeSet[n.ID] = true
	}

	groupSet := make(map[string]bool, len(g.Groups))
	for _, grp := range g.Groups {
		if err := errors.ValidateIdentifier(grp.ID); err != nil {
			return Graph{}, nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "group id %q", grp.ID)
		}
		if groupSet[grp.ID] {
			return Graph{}, nil, errors.New(errors.ErrCodeInvalidGraph, "duplicate group id %q", grp.ID)
		}
		groupSet[grp.ID] = true
	}

	out := Graph{
		Nodes:  make([]Node, 0, len(g.Nodes)),
		Edges:  make([]Edge, 0, len(g.Edges)),
		Groups: make([]Group, 0, len(g.Groups)),
	}

	for _, n := range g.Nodes {
		kept := n
		kept.GroupIDs = nil
		for _, gid := range n.GroupIDs {
			if !groupSet[gid] {
				diags = append(diags, Diag(errors.DiagUnknownGroup,
					"node %q references unknown group %q", n.ID, gid))
				continue
			}
			kept.GroupIDs = append(kept.GroupIDs, gid)
		}
		out.Nodes = append(out.Nodes, kept)
	}

	for _, e := range g.Edges {
		if !nodeSet[e.Source] || !nodeSet[e.Target] {
			diags = append(diags, Diag(errors.DiagDanglingEdge,
				"edge %s→%s references unknown node", e.Source, e.Target))
			continue
		}
		out.Edges = append(out.Edges, e)
	}

	for _, grp := range g.Groups {
		kept := grp
		kept.MemberIDs = nil
		for _, mid := range grp.MemberIDs {
			if !nodeSet[mid] {
				diags = append(diags, Diag(errors.DiagUnknownMember,
					"group %q lists unknown member %q", grp.ID, mid))
				continue
			}
			kept.MemberIDs = append(kept.MemberIDs, mid)
		}
		out.Groups = append(out.Groups, kept)
	}

	return out, diags, nil
}
