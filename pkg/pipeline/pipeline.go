// Package pipeline provides the core build pipeline for gridmesh.
//
// This package implements the complete validate → position → mesh pipeline
// that is shared by the CLI and the HTTP API. Centralizing it here keeps
// behavior identical across entry points: the same graph with the same
// options always produces the same layout, wherever it is built.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Validate: drop dangling references, collect diagnostics
//  2. Position: assign a collision-free grid cell to every node
//  3. Mesh: derive each group's exterior boundary polyline
//
// The engine itself is a synchronous pure function of its inputs; the runner
// adds caching around it, keyed by a content hash of the graph and options.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil)
//	result, err := runner.Execute(ctx, g, pipeline.Options{})
//	if err != nil {
//	    return err
//	}
//	layout := result.Layout
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/gridmesh/gridmesh/pkg/layout"
	"github.com/gridmesh/gridmesh/pkg/mesh"
)

// =============================================================================
// Options - Build Configuration
// =============================================================================

// Options contains all configuration for a layout build.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Spacing is the world-space distance between adjacent grid cells.
	// Zero means layout.DefaultSpacing (80).
	Spacing float64 `json:"spacing,omitempty"`

	// Buffer is the inter-group spacing buffer in grid cells.
	// Zero means layout.DefaultBuffer (3).
	Buffer int `json:"buffer,omitempty"`

	// Padding is the boundary half-extent around each node in world units.
	// Zero means mesh.DefaultPadding (20).
	Padding float64 `json:"padding,omitempty"`

	// Refresh bypasses the cache read (the result is still written back).
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// SetDefaults fills unset fields with engine defaults.
// This method is idempotent.
func (o *Options) SetDefaults() {
	if o.Spacing == 0 {
		o.Spacing = layout.DefaultSpacing
	}
	if o.Buffer == 0 {
		o.Buffer = layout.DefaultBuffer
	}
	if o.Padding == 0 {
		o.Padding = mesh.DefaultPadding
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// =============================================================================
// Result - Build Output
// =============================================================================

// Stats contains build execution statistics.
type Stats struct {
	NodeCount    int
	EdgeCount    int
	GroupCount   int
	PositionTime time.Duration
	BoundaryTime time.Duration
}

// CacheInfo tracks whether the build came from cache.
type CacheInfo struct {
	LayoutHit bool
}
