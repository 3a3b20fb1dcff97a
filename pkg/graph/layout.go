package graph

import (
	"encoding/json"
	"fmt"
	"os"
)

// =============================================================================
// Layout - Engine Output Format
// =============================================================================

// Layout is the serialization format for a completed build: per-node grid
// cells and world positions, per-group bounds, centroids, and boundary
// polylines, plus any diagnostics collected along the way.
//
// The host renders this data and never mutates it; recomputing a layout fully
// replaces the previous one.
type Layout struct {
	// Build configuration echoed back for reproducibility.
	Spacing float64 `json:"spacing" bson:"spacing"`
	Buffer  int     `json:"buffer" bson:"buffer"`
	Padding float64 `json:"padding" bson:"padding"`

	Nodes  []PlacedNode   `json:"nodes" bson:"nodes"`
	Groups []GroupOutline `json:"groups,omitempty" bson:"groups,omitempty"`

	Diagnostics []Diagnostic `json:"diagnostics,omitempty" bson:"diagnostics,omitempty"`
}

// PlacedNode carries a node's assigned grid cell and derived world position.
type PlacedNode struct {
	ID       string     `json:"id" bson:"id"`
	GridX    int        `json:"grid_x" bson:"grid_x"`
	GridY    int        `json:"grid_y" bson:"grid_y"`
	Position [3]float64 `json:"position" bson:"position"`
}

// GridBounds is an axis-aligned bounding box in grid space, inclusive.
type GridBounds struct {
	MinX int `json:"min_x" bson:"min_x"`
	MinY int `json:"min_y" bson:"min_y"`
	MaxX int `json:"max_x" bson:"max_x"`
	MaxY int `json:"max_y" bson:"max_y"`
}

// Contains reports whether the cell (x, y) lies within the bounds.
func (b GridBounds) Contains(x, y int) bool {
	return x >= b.MinX && x <= b.MaxX && y >= b.MinY && y <= b.MaxY
}

// GroupOutline carries a group's derived geometry: grid bounds, world-space
// centroid, and the merged exterior boundary as two-endpoint segments.
type GroupOutline struct {
	ID       string          `json:"id" bson:"id"`
	Bounds   GridBounds      `json:"bounds" bson:"bounds"`
	Centroid [3]float64      `json:"centroid" bson:"centroid"`
	Segments [][2][3]float64 `json:"segments,omitempty" bson:"segments,omitempty"`

	// VoxelCount is the size of the occupied voxel set the boundary was
	// extracted from (node voxels plus carved corridor voxels).
	VoxelCount int `json:"voxel_count,omitempty" bson:"voxel_count,omitempty"`
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
