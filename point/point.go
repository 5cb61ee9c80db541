// Package point represents a single particle or sample location, keyed for
// placement in a linear octree.
package point

import (
	"sort"

	"github.com/flier/octree/domain"
	"github.com/flier/octree/morton"
)

// Point is an immutable sample location together with the Morton key of the
// finest-resolution cell containing it, and a GlobalIndex used to break ties
// when two points share a key.
type Point struct {
	Coordinate  [3]float64
	GlobalIndex uint64
	Key         morton.Key
}

// Less orders points by (Key, GlobalIndex), the total order localtree and
// partition sort on.
func Less(a, b Point) bool {
	if a.Key != b.Key {
		return a.Key < b.Key
	}
	return a.GlobalIndex < b.GlobalIndex
}

// Encode builds a Point for each coordinate, translating it into d's unit
// cube and encoding a morton.Key at level. GlobalIndex is assigned by
// position in coords, offset by firstIndex so callers can encode disjoint
// local slices of a larger distributed point set without index collisions.
func Encode(coords [][3]float64, firstIndex uint64, d domain.Domain, level uint8) []Point {
	out := make([]Point, len(coords))
	for i, c := range coords {
		out[i] = Point{
			Coordinate:  c,
			GlobalIndex: firstIndex + uint64(i),
			Key:         morton.EncodePoint(d.Relative(c), level),
		}
	}
	return out
}

// SortByKey sorts pts in place by (Key, GlobalIndex). The sort is stable in
// effect because ties are broken deterministically by GlobalIndex, so the
// result is independent of the sort algorithm's own stability.
func SortByKey(pts []Point) {
	sort.Slice(pts, func(i, j int) bool { return Less(pts[i], pts[j]) })
}

// AssignLeaf returns the index into the sorted, complete keys slice of the
// deepest enclosing leaf for p: the rightmost key <= p.Key, which is either
// p.Key itself (p already at LMax) or one of its ancestors, guaranteed by the
// tree's completeness invariant. Panics if keys is empty or p's key precedes
// every entry, which indicates an incomplete tree.
func AssignLeaf(keys []morton.Key, p Point) int {
	i := sort.Search(len(keys), func(i int) bool { return keys[i] > p.Key }) - 1
	if i < 0 {
		panic("point: no leaf covers key " + p.Key.String())
	}
	return i
}
