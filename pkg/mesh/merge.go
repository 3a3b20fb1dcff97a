package mesh

import (
	"math"

	"github.com/golang/geo/r3"
)

// MergeTolerance is the maximum world-space distance at which two segment
// endpoints are considered coincident during merging. Boundary segments are
// generated from exact integer arithmetic, so in practice matches are exact;
// the tolerance guards callers feeding externally computed geometry.
const MergeTolerance = 0.01

// Segment is a straight boundary segment between two world-space endpoints.
type Segment struct {
	A, B r3.Vector
}

// Merge collapses runs of collinear, end-to-end-adjacent axis-aligned
// segments into single longer segments, reducing vertex count without
// changing the enclosed outline.
//
// Segments sharing an axis and the same two fixed coordinates form a merge
// group. Within a group a chain is extended greedily: the remaining unused
// segments are scanned in list order and the first one whose endpoint
// coincides with the chain's end (or start) within MergeTolerance is
// absorbed, until a full pass absorbs nothing. Output order follows the input
// order of each chain's seed segment, so merging is deterministic for a fixed
// input enumeration, and merging an already-merged list returns it unchanged.
//
// Segments that are not axis-aligned are passed through untouched.
func Merge(segs []Segment) []Segment {
	items := make([]chainable, len(segs))
	for i, s := range segs {
		items[i] = classify(s)
	}

	used := make([]bool, len(segs))
	var out []Segment

	for i := range items {
		if used[i] {
			continue
		}
		used[i] = true

		cur := items[i]
		if cur.axis < 0 {
			out = append(out, segs[i])
			continue
		}

		for extended := true; extended; {
			extended = false
			for j := i + 1; j < len(items); j++ {
				if used[j] || items[j].axis != cur.axis ||
					items[j].fixedU != cur.fixedU || items[j].fixedW != cur.fixedW {
					continue
				}
				switch {
				case math.Abs(items[j].lo-cur.hi) <= MergeTolerance:
					cur.hi = items[j].hi
				case math.Abs(items[j].hi-cur.lo) <= MergeTolerance:
					cur.lo = items[j].lo
				default:
					continue
				}
				used[j] = true
				extended = true
			}
		}

		out = append(out, segmentAlong(cur.axis, cur.template.A, cur.lo, cur.hi))
	}

	return out
}

// chainable is a segment prepared for merging: its varying axis, quantized
// fixed coordinates (the merge group key), and extent along the axis.
type chainable struct {
	axis     int // varying axis, -1 if not axis-aligned
	fixedU   int64
	fixedW   int64
	lo, hi   float64 // extent along the varying axis
	template Segment // source of the two fixed coordinates
}

// classify determines a segment's varying axis and quantizes its two fixed
// coordinates for grouping. A segment varying on zero or multiple axes is
// marked non-mergeable.
func classify(s Segment) (c chainable) {
	c.axis = -1
	c.template = s

	varying := -1
	for axis := 0; axis < 3; axis++ {
		if math.Abs(component(s.B, axis)-component(s.A, axis)) > MergeTolerance {
			if varying >= 0 {
				return c
			}
			varying = axis
		}
	}
	if varying < 0 {
		return c
	}

	c.axis = varying
	u, w := (varying+1)%3, (varying+2)%3
	c.fixedU = quantize(component(s.A, u))
	c.fixedW = quantize(component(s.A, w))
	c.lo = math.Min(component(s.A, varying), component(s.B, varying))
	c.hi = math.Max(component(s.A, varying), component(s.B, varying))
	return c
}

// quantize snaps a fixed coordinate to the tolerance grid for use as a merge
// group key.
func quantize(v float64) int64 {
	return int64(math.Round(v / MergeTolerance))
}

func component(v r3.Vector, axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// segmentAlong rebuilds a segment on the given axis from lo to hi, taking the
// two fixed coordinates from ref.
func segmentAlong(axis int, ref r3.Vector, lo, hi float64) Segment {
	a, b := ref, ref
	switch axis {
	case 0:
		a.X, b.X = lo, hi
	case 1:
		a.Y, b.Y = lo, hi
	default:
		a.Z, b.Z = lo, hi
	}
	return Segment{A: a, B: b}
}
