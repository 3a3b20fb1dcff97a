package mesh

import (
	"testing"

	"github.com/golang/geo/r3"
)

func seg(ax, ay, az, bx, by, bz float64) Segment {
	return Segment{A: r3.Vector{X: ax, Y: ay, Z: az}, B: r3.Vector{X: bx, Y: by, Z: bz}}
}

func TestMergeCollinearRun(t *testing.T) {
	segs := []Segment{
		seg(0, 0, 0, 20, 0, 0),
		seg(20, 0, 0, 40, 0, 0),
		seg(40, 0, 0, 60, 0, 0),
	}
	got := Merge(segs)

	if len(got) != 1 {
		t.Fatalf("Merge() = %d segments, want 1", len(got))
	}
	if got[0].A.X != 0 || got[0].B.X != 60 {
		t.Errorf("Merge() span = [%v, %v], want [0, 60]", got[0].A.X, got[0].B.X)
	}
}

func TestMergeHandlesReversedSegments(t *testing.T) {
	segs := []Segment{
		seg(20, 0, 0, 0, 0, 0), // endpoints reversed
		seg(20, 0, 0, 40, 0, 0),
	}
	got := Merge(segs)

	if len(got) != 1 {
		t.Fatalf("Merge() = %d segments, want 1", len(got))
	}
	if got[0].A.X != 0 || got[0].B.X != 40 {
		t.Errorf("Merge() span = [%v, %v], want [0, 40]", got[0].A.X, got[0].B.X)
	}
}

func TestMergeKeepsGappedSegmentsApart(t *testing.T) {
	segs := []Segment{
		seg(0, 0, 0, 20, 0, 0),
		seg(25, 0, 0, 40, 0, 0), // 5 unit gap, far beyond tolerance
	}
	if got := Merge(segs); len(got) != 2 {
		t.Errorf("Merge() = %d segments, want 2", len(got))
	}
}

func TestMergeKeepsParallelLinesApart(t *testing.T) {
	segs := []Segment{
		seg(0, 0, 0, 20, 0, 0),
		seg(20, 20, 0, 40, 20, 0), // same axis, different fixed y
	}
	if got := Merge(segs); len(got) != 2 {
		t.Errorf("Merge() = %d segments, want 2", len(got))
	}
}

func TestMergeKeepsPerpendicularApart(t *testing.T) {
	segs := []Segment{
		seg(0, 0, 0, 20, 0, 0),
		seg(20, 0, 0, 20, 20, 0),
	}
	if got := Merge(segs); len(got) != 2 {
		t.Errorf("Merge() = %d segments, want 2", len(got))
	}
}

func TestMergePassesThroughDiagonal(t *testing.T) {
	d := seg(0, 0, 0, 10, 10, 0)
	got := Merge([]Segment{d})

	if len(got) != 1 || got[0] != d {
		t.Errorf("Merge() = %v, want diagonal passed through unchanged", got)
	}
}

func TestMergeIsIdempotent(t *testing.T) {
	segs := []Segment{
		seg(0, 0, 0, 20, 0, 0),
		seg(20, 0, 0, 40, 0, 0),
		seg(0, 0, 0, 0, 20, 0),
		seg(0, 20, 0, 0, 40, 0),
		seg(40, 0, 0, 40, 0, 20),
	}
	once := Merge(segs)
	twice := Merge(once)

	if len(once) != len(twice) {
		t.Fatalf("second Merge() changed count: %d -> %d", len(once), len(twice))
	}
	for i := range once {
		if once[i] != twice[i] {
			t.Errorf("second Merge() changed segment %d: %v -> %v", i, once[i], twice[i])
		}
	}
}

func TestMergeOutputFollowsSeedOrder(t *testing.T) {
	segs := []Segment{
		seg(0, 0, 0, 0, 20, 0),  // chain 1 seed
		seg(0, 0, 0, 20, 0, 0),  // chain 2 seed
		seg(0, 20, 0, 0, 40, 0), // extends chain 1
		seg(20, 0, 0, 40, 0, 0), // extends chain 2
	}
	got := Merge(segs)

	if len(got) != 2 {
		t.Fatalf("Merge() = %d segments, want 2", len(got))
	}
	// First output chain is along y (seeded first), second along x.
	if got[0].A.Y == got[0].B.Y {
		t.Errorf("Merge() first output %v, want the y-axis chain first", got[0])
	}
	if got[1].A.X == got[1].B.X {
		t.Errorf("Merge() second output %v, want the x-axis chain second", got[1])
	}
}

func TestClassifyAxes(t *testing.T) {
	cases := []struct {
		s    Segment
		axis int
	}{
		{seg(0, 0, 0, 5, 0, 0), 0},
		{seg(0, 0, 0, 0, 5, 0), 1},
		{seg(0, 0, 0, 0, 0, 5), 2},
		{seg(0, 0, 0, 5, 5, 0), -1},
		{seg(1, 2, 3, 1, 2, 3), -1}, // degenerate point
	}
	for _, c := range cases {
		if got := classify(c.s); got.axis != c.axis {
			t.Errorf("classify(%v).axis = %d, want %d", c.s, got.axis, c.axis)
		}
	}
}
