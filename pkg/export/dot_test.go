package export

import (
	"strings"
	"testing"

	"github.com/gridmesh/gridmesh/pkg/graph"
)

func testInputs() (graph.Graph, graph.Layout) {
	g := graph.Graph{
		Nodes: []graph.Node{
			{ID: "a", GroupIDs: []string{"g1"}, Label: "Alpha"},
			{ID: "b", GroupIDs: []string{"g1"}},
			{ID: "c"},
		},
		Edges: []graph.Edge{
			{Source: "a", Target: "b"},
			{Source: "b", Target: "c"},
		},
		Groups: []graph.Group{{ID: "g1", MemberIDs: []string{"a", "b"}}},
	}
	l := graph.Layout{
		Nodes: []graph.PlacedNode{
			{ID: "a", GridX: 0, GridY: 0},
			{ID: "b", GridX: 1, GridY: 0},
			{ID: "c", GridX: 1, GridY: 1},
		},
	}
	return g, l
}

func TestToDOTStructure(t *testing.T) {
	g, l := testInputs()
	dot := ToDOT(g, l, Options{})

	if !strings.HasPrefix(dot, "graph G {") {
		t.Error("ToDOT() should open an undirected graph")
	}
	if !strings.HasSuffix(strings.TrimSpace(dot), "}") {
		t.Error("ToDOT() should close the graph")
	}
	for _, want := range []string{`"a" --`, `-- "b"`, `"b" -- "c"`} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing edge fragment %q", want)
		}
	}
}

func TestToDOTPinsPositions(t *testing.T) {
	g, l := testInputs()
	dot := ToDOT(g, l, Options{})

	// Grid y is negated so +y points down-screen; the "!" pins the position.
	for _, want := range []string{`pos="0,0!"`, `pos="1,0!"`, `pos="1,-1!"`} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q", want)
		}
	}
}

func TestToDOTColorsGroups(t *testing.T) {
	g, l := testInputs()
	dot := ToDOT(g, l, Options{})

	lines := strings.Split(dot, "\n")
	var aLine, cLine string
	for _, line := range lines {
		if strings.Contains(line, `"a" [`) {
			aLine = line
		}
		if strings.Contains(line, `"c" [`) {
			cLine = line
		}
	}
	if !strings.Contains(aLine, "fillcolor=\"lightblue\"") {
		t.Errorf("grouped node line %q missing group fill color", aLine)
	}
	if strings.Contains(cLine, "lightblue") {
		t.Errorf("ungrouped node line %q should not carry a group color", cLine)
	}
}

func TestToDOTLabels(t *testing.T) {
	g, l := testInputs()

	plain := ToDOT(g, l, Options{})
	if !strings.Contains(plain, "Alpha") {
		t.Error("ToDOT() should use the display label")
	}
	if strings.Contains(plain, "(0,0)") {
		t.Error("ToDOT() should omit coordinates unless detailed")
	}

	detailed := ToDOT(g, l, Options{Detailed: true})
	if !strings.Contains(detailed, "(0,0)") {
		t.Error("ToDOT() detailed should include grid coordinates")
	}
}
