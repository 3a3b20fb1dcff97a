// Package export renders a computed layout for debugging: Graphviz DOT with
// every node pinned to its grid cell, and SVG rendered from that DOT.
//
// This is a development aid, not the host rendering path; the host consumes
// the layout JSON directly.
package export

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/gridmesh/gridmesh/pkg/graph"
)

// groupPalette cycles fill colors per group, in group input order.
var groupPalette = []string{
	"lightblue", "lightpink", "palegreen", "khaki",
	"plum", "lightsalmon", "paleturquoise", "wheat",
}

// Options configures DOT generation.
type Options struct {
	// Detailed includes grid coordinates in node labels.
	Detailed bool
}

// ToDOT converts a graph and its layout to Graphviz DOT with pinned
// positions. Positions use the grid coordinates directly (one inch per cell,
// y negated so +y grid points down-screen); rendering requires a
// position-respecting engine such as neato.
func ToDOT(g graph.Graph, l graph.Layout, opts Options) string {
	colors := make(map[string]string, len(g.Groups))
	for i, grp := range g.Groups {
		colors[grp.ID] = groupPalette[i%len(groupPalette)]
	}

	cells := make(map[string]graph.PlacedNode, len(l.Nodes))
	for _, pn := range l.Nodes {
		cells[pn.ID] = pn
	}

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=10];\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes {
		pn := cells[n.ID]
		attrs := []string{
			fmt.Sprintf("label=%q", fmtLabel(n, pn, opts.Detailed)),
			fmt.Sprintf("pos=\"%d,%d!\"", pn.GridX, -pn.GridY),
		}
		if c, ok := colors[n.PrimaryGroup()]; ok {
			attrs = append(attrs, fmt.Sprintf("fillcolor=%q", c))
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges {
		fmt.Fprintf(&buf, "  %q -- %q;\n", e.Source, e.Target)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n graph.Node, pn graph.PlacedNode, detailed bool) string {
	if !detailed {
		return n.DisplayLabel()
	}
	return fmt.Sprintf("%s\n(%d,%d)", n.DisplayLabel(), pn.GridX, pn.GridY)
}

// RenderSVG renders a DOT graph to SVG with the neato engine, which honors
// the pinned positions.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
