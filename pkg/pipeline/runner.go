package pipeline

import (
	"context"
	"time"

	"github.com/golang/geo/r3"

	"github.com/gridmesh/gridmesh/pkg/cache"
	"github.com/gridmesh/gridmesh/pkg/graph"
	"github.com/gridmesh/gridmesh/pkg/layout"
	"github.com/gridmesh/gridmesh/pkg/mesh"
	"github.com/gridmesh/gridmesh/pkg/observability"
)

// Result contains the outputs of one pipeline run.
type Result struct {
	// Layout is the completed layout: positions, outlines, diagnostics.
	Layout graph.Layout

	// GraphHash is the content hash of the input graph.
	GraphHash string

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks whether the layout came from cache.
	CacheInfo CacheInfo
}

// Runner executes layout builds with caching.
// A Runner is safe for concurrent use: each build owns its occupancy and
// voxel sets, and the cache backends are concurrency-safe.
type Runner struct {
	cache cache.Cache
	keyer cache.Keyer
}

// NewRunner creates a pipeline runner.
// A nil cache disables caching; a nil keyer uses the default keyer.
func NewRunner(c cache.Cache, k cache.Keyer) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if k == nil {
		k = cache.NewDefaultKeyer()
	}
	return &Runner{cache: c, keyer: k}
}

// Close releases the runner's cache backend.
func (r *Runner) Close() error {
	return r.cache.Close()
}

// Execute runs the full pipeline: validate, position, mesh.
//
// Recoverable input problems (dangling edges, unknown members) become
// diagnostics on the returned layout; an error is returned only for
// structurally invalid graphs (empty or duplicate IDs) or cache backend
// failures during write-back. An empty graph yields an empty layout.
//
// The context governs cache access only: the engine itself is synchronous
// and runs to completion once started.
func (r *Runner) Execute(ctx context.Context, g graph.Graph, opts Options) (*Result, error) {
	opts.SetDefaults()
	logger := opts.Logger

	data, err := graph.MarshalGraph(g)
	if err != nil {
		return nil, err
	}
	graphHash := cache.Hash(data)
	key := r.keyer.LayoutKey(graphHash, cache.LayoutKeyOpts{
		Spacing: opts.Spacing,
		Buffer:  opts.Buffer,
		Padding: opts.Padding,
	})

	if !opts.Refresh {
		if cached, ok, err := r.cache.Get(ctx, key); err == nil && ok {
			if l, err := graph.UnmarshalLayout(cached); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				logger.Debug("layout cache hit", "hash", graphHash[:12])
				return &Result{
					Layout:    l,
					GraphHash: graphHash,
					Stats:     statsFor(g),
					CacheInfo: CacheInfo{LayoutHit: true},
				}, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	l, stats, err := r.build(ctx, g, opts)
	if err != nil {
		return nil, err
	}

	if encoded, err := graph.MarshalLayout(l); err == nil {
		if err := r.cache.Set(ctx, key, encoded, cache.DefaultTTL); err != nil {
			logger.Warn("layout cache write failed", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "layout", len(encoded))
		}
	}

	return &Result{
		Layout:    l,
		GraphHash: graphHash,
		Stats:     stats,
	}, nil
}

// build runs the engine stages without cache involvement.
func (r *Runner) build(ctx context.Context, g graph.Graph, opts Options) (graph.Layout, Stats, error) {
	logger := opts.Logger

	stats := statsFor(g)

	valid, diags, err := g.Validate()
	if err != nil {
		return graph.Layout{}, Stats{}, err
	}
	observability.Build().OnValidate(ctx, valid.NodeCount(), valid.EdgeCount(), len(diags))
	for _, d := range diags {
		logger.Warn(d.Message, "code", d.Code)
	}

	conn := graph.BuildConnectivity(valid)

	observability.Build().OnPositionStart(ctx, valid.NodeCount(), valid.GroupCount())
	posStart := time.Now()
	placed := layout.Place(valid, conn, layout.Options{
		Spacing: opts.Spacing,
		Buffer:  opts.Buffer,
	})
	stats.PositionTime = time.Since(posStart)
	observability.Build().OnPositionComplete(ctx, valid.NodeCount(), stats.PositionTime)
	diags = append(diags, placed.Diagnostics...)

	out := graph.Layout{
		Spacing: opts.Spacing,
		Buffer:  opts.Buffer,
		Padding: opts.Padding,
		Nodes:   make([]graph.PlacedNode, 0, len(valid.Nodes)),
	}
	for _, n := range valid.Nodes {
		c := placed.Cells[n.ID]
		p := placed.Positions[n.ID]
		out.Nodes = append(out.Nodes, graph.PlacedNode{
			ID:       n.ID,
			GridX:    c.X,
			GridY:    c.Y,
			Position: [3]float64{p.X, p.Y, p.Z},
		})
	}

	boundaryStart := time.Now()
	for _, grp := range valid.Groups {
		if len(grp.MemberIDs) == 0 {
			continue
		}
		positions := make([]r3.Vector, 0, len(grp.MemberIDs))
		for _, mid := range grp.MemberIDs {
			positions = append(positions, placed.Positions[mid])
		}

		observability.Build().OnBoundaryStart(ctx, grp.ID, len(positions))
		bStart := time.Now()
		b := mesh.Build(grp.ID, positions, mesh.Options{Padding: opts.Padding})
		observability.Build().OnBoundaryComplete(ctx, grp.ID, len(b.Segments), time.Since(bStart))
		diags = append(diags, b.Diagnostics...)

		centroid := mesh.Centroid(positions)
		outline := graph.GroupOutline{
			ID:         grp.ID,
			Centroid:   [3]float64{centroid.X, centroid.Y, centroid.Z},
			VoxelCount: b.VoxelCount,
			Segments:   make([][2][3]float64, 0, len(b.Segments)),
		}
		if bounds, ok := placed.GroupBounds[grp.ID]; ok {
			outline.Bounds = bounds
		}
		for _, s := range b.Segments {
			outline.Segments = append(outline.Segments, [2][3]float64{
				{s.A.X, s.A.Y, s.A.Z},
				{s.B.X, s.B.Y, s.B.Z},
			})
		}
		out.Groups = append(out.Groups, outline)
	}
	stats.BoundaryTime = time.Since(boundaryStart)

	out.Diagnostics = diags
	return out, stats, nil
}

func statsFor(g graph.Graph) Stats {
	return Stats{
		NodeCount:  g.NodeCount(),
		EdgeCount:  g.EdgeCount(),
		GroupCount: g.GroupCount(),
	}
}
