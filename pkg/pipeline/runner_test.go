package pipeline

import (
	"context"
	"testing"

	"github.com/gridmesh/gridmesh/pkg/cache"
	"github.com/gridmesh/gridmesh/pkg/errors"
	"github.com/gridmesh/gridmesh/pkg/graph"
)

func testGraph() graph.Graph {
	return graph.Graph{
		Nodes: []graph.Node{
			{ID: "a", GroupIDs: []string{"g1"}},
			{ID: "b", GroupIDs: []string{"g1"}},
			{ID: "c"},
		},
		Edges: []graph.Edge{
			{Source: "a", Target: "b"},
			{Source: "b", Target: "c"},
		},
		Groups: []graph.Group{
			{ID: "g1", MemberIDs: []string{"a", "b"}},
		},
	}
}

func TestExecuteEndToEnd(t *testing.T) {
	runner := NewRunner(nil, nil)
	defer runner.Close()

	res, err := runner.Execute(context.Background(), testGraph(), Options{})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	if len(res.Layout.Nodes) != 3 {
		t.Errorf("placed %d nodes, want 3", len(res.Layout.Nodes))
	}
	if len(res.Layout.Groups) != 1 {
		t.Fatalf("meshed %d groups, want 1", len(res.Layout.Groups))
	}
	if res.Layout.Groups[0].ID != "g1" || len(res.Layout.Groups[0].Segments) == 0 {
		t.Errorf("group outline = %+v, want g1 with segments", res.Layout.Groups[0])
	}
	if res.Layout.Spacing != 80 || res.Layout.Buffer != 3 || res.Layout.Padding != 20 {
		t.Errorf("config echo = %v/%v/%v, want defaults 80/3/20",
			res.Layout.Spacing, res.Layout.Buffer, res.Layout.Padding)
	}
	if res.GraphHash == "" {
		t.Error("GraphHash is empty")
	}
	if res.CacheInfo.LayoutHit {
		t.Error("first build reported a cache hit")
	}
}

func TestExecuteNodesFollowInputOrder(t *testing.T) {
	runner := NewRunner(nil, nil)
	defer runner.Close()

	res, err := runner.Execute(context.Background(), testGraph(), Options{})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	want := []string{"a", "b", "c"}
	for i, id := range want {
		if res.Layout.Nodes[i].ID != id {
			t.Errorf("Nodes[%d].ID = %s, want %s", i, res.Layout.Nodes[i].ID, id)
		}
	}
}

func TestExecuteSurfacesDiagnostics(t *testing.T) {
	g := testGraph()
	g.Edges = append(g.Edges, graph.Edge{Source: "a", Target: "ghost"})

	runner := NewRunner(nil, nil)
	defer runner.Close()

	res, err := runner.Execute(context.Background(), g, Options{})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	found := false
	for _, d := range res.Layout.Diagnostics {
		if d.Code == errors.DiagDanglingEdge {
			found = true
		}
	}
	if !found {
		t.Errorf("Diagnostics = %v, want a DANGLING_EDGE entry", res.Layout.Diagnostics)
	}
}

func TestExecuteRejectsInvalidGraph(t *testing.T) {
	g := graph.Graph{Nodes: []graph.Node{{ID: "a"}, {ID: "a"}}}

	runner := NewRunner(nil, nil)
	defer runner.Close()

	_, err := runner.Execute(context.Background(), g, Options{})
	if err == nil {
		t.Fatal("Execute() should reject duplicate node IDs")
	}
	if errors.GetCode(err) != errors.ErrCodeInvalidGraph {
		t.Errorf("error code = %s, want %s", errors.GetCode(err), errors.ErrCodeInvalidGraph)
	}
}

func TestExecuteEmptyGraph(t *testing.T) {
	runner := NewRunner(nil, nil)
	defer runner.Close()

	res, err := runner.Execute(context.Background(), graph.Graph{}, Options{})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if len(res.Layout.Nodes) != 0 || len(res.Layout.Groups) != 0 {
		t.Errorf("empty graph produced %d nodes, %d groups", len(res.Layout.Nodes), len(res.Layout.Groups))
	}
}

func TestExecuteCacheHit(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error: %v", err)
	}
	runner := NewRunner(fc, nil)
	defer runner.Close()

	ctx := context.Background()
	first, err := runner.Execute(ctx, testGraph(), Options{})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if first.CacheInfo.LayoutHit {
		t.Fatal("first run reported a cache hit")
	}

	second, err := runner.Execute(ctx, testGraph(), Options{})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !second.CacheInfo.LayoutHit {
		t.Fatal("second run missed the cache")
	}
	if len(second.Layout.Nodes) != len(first.Layout.Nodes) {
		t.Errorf("cached layout has %d nodes, want %d", len(second.Layout.Nodes), len(first.Layout.Nodes))
	}
}

func TestExecuteRefreshBypassesCacheRead(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error: %v", err)
	}
	runner := NewRunner(fc, nil)
	defer runner.Close()

	ctx := context.Background()
	if _, err := runner.Execute(ctx, testGraph(), Options{}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	res, err := runner.Execute(ctx, testGraph(), Options{Refresh: true})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if res.CacheInfo.LayoutHit {
		t.Error("refresh run reported a cache hit")
	}
}

func TestExecuteOptionsChangeCacheKey(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error: %v", err)
	}
	runner := NewRunner(fc, nil)
	defer runner.Close()

	ctx := context.Background()
	if _, err := runner.Execute(ctx, testGraph(), Options{}); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	res, err := runner.Execute(ctx, testGraph(), Options{Spacing: 100})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if res.CacheInfo.LayoutHit {
		t.Error("different spacing hit the cache for the same graph")
	}
	if res.Layout.Spacing != 100 {
		t.Errorf("Layout.Spacing = %v, want 100", res.Layout.Spacing)
	}
}

func TestExecuteIsDeterministic(t *testing.T) {
	runner := NewRunner(nil, nil)
	defer runner.Close()

	ctx := context.Background()
	first, err := runner.Execute(ctx, testGraph(), Options{})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	firstJSON, err := graph.MarshalLayout(first.Layout)
	if err != nil {
		t.Fatalf("MarshalLayout() error: %v", err)
	}

	for i := 0; i < 3; i++ {
		again, err := runner.Execute(ctx, testGraph(), Options{})
		if err != nil {
			t.Fatalf("Execute() error: %v", err)
		}
		againJSON, err := graph.MarshalLayout(again.Layout)
		if err != nil {
			t.Fatalf("MarshalLayout() error: %v", err)
		}
		if string(againJSON) != string(firstJSON) {
			t.Fatalf("run %d produced a different layout", i)
		}
	}
}

func TestOptionsSetDefaults(t *testing.T) {
	var opts Options
	opts.SetDefaults()

	if opts.Spacing != 80 || opts.Buffer != 3 || opts.Padding != 20 {
		t.Errorf("SetDefaults() = %v/%v/%v, want 80/3/20", opts.Spacing, opts.Buffer, opts.Padding)
	}
	if opts.Logger == nil {
		t.Error("SetDefaults() left Logger nil")
	}

	opts.SetDefaults() // idempotent
	if opts.Spacing != 80 {
		t.Error("SetDefaults() is not idempotent")
	}
}
