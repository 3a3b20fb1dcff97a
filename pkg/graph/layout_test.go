package graph

import (
	"path/filepath"
	"testing"
)

func TestGridBoundsContains(t *testing.T) {
	b := GridBounds{MinX: -1, MinY: 0, MaxX: 2, MaxY: 3}

	cases := []struct {
		x, y int
		want bool
	}{
		{0, 0, true},
		{-1, 0, true},
		{2, 3, true},
		{-2, 0, false},
		{0, 4, false},
		{3, 3, false},
	}
	for _, c := range cases {
		if got := b.Contains(c.x, c.y); got != c.want {
			t.Errorf("Contains(%d,%d) = %v, want %v", c.x, c.y, got, c.want)
		}
	}
}

func TestLayoutFileRoundTrip(t *testing.T) {
	l := Layout{
		Spacing: 80,
		Buffer:  3,
		Padding: 20,
		Nodes: []PlacedNode{
			{ID: "a", GridX: 1, GridY: -1, Position: [3]float64{80, 0, -80}},
		},
		Groups: []GroupOutline{
			{
				ID:       "g1",
				Bounds:   GridBounds{MaxX: 1, MinY: -1},
				Centroid: [3]float64{40, 0, -40},
				Segments: [][2][3]float64{
					{{-20, -20, -20}, {20, -20, -20}},
				},
				VoxelCount: 2,
			},
		},
	}

	path := filepath.Join(t.TempDir(), "layout.json")
	if err := WriteLayoutFile(l, path); err != nil {
		t.Fatalf("WriteLayoutFile() error: %v", err)
	}
	got, err := ReadLayoutFile(path)
	if err != nil {
		t.Fatalf("ReadLayoutFile() error: %v", err)
	}

	if got.Spacing != 80 || got.Buffer != 3 || got.Padding != 20 {
		t.Errorf("round trip changed config echo: %+v", got)
	}
	if len(got.Nodes) != 1 || got.Nodes[0].Position != [3]float64{80, 0, -80} {
		t.Errorf("round trip changed nodes: %+v", got.Nodes)
	}
	if len(got.Groups) != 1 || got.Groups[0].VoxelCount != 2 {
		t.Errorf("round trip changed groups: %+v", got.Groups)
	}
}
