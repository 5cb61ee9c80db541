// Package relation builds the derived spatial relation maps — near-field,
// interaction-list, and leaf-to-particle index — over a tree's sorted leaf
// keys. These are views, not owned state: the leaf keys live once in the
// tree's []morton.Key slice, and every map here stores indices into that
// slice rather than copies of the keys, the same "own memory once,
// reference by index" discipline the teacher's pkg/arena applies at the
// byte level; at the granularity of a handful of machine words per Key, a
// plain index is the idiomatic expression of it, so nothing here imports
// pkg/arena directly (see DESIGN.md).
package relation

import (
	"context"
	"iter"
	"sort"

	"github.com/flier/octree/internal/workpool"
	"github.com/flier/octree/internal/xsync"
	"github.com/flier/octree/morton"
	"github.com/flier/octree/pkg/xiter"
	"github.com/flier/octree/point"
)

// indexBufPool recycles the scratch slice liftAll accumulates lifted indices
// into before the final sorted copy, cutting per-leaf allocation churn
// during parallel relation-map construction (adapted from the teacher's
// xsync.Pool[T], used here over []int rather than []MortonKey since the
// lifted form — not the raw candidate keys — is what's reused across calls).
var indexBufPool = xsync.Pool[[]int]{
	New: func() *[]int {
		buf := make([]int, 0, 32)
		return &buf
	},
	Reset: func(b *[]int) { *b = (*b)[:0] },
}

// Maps holds the relation maps derived from one sorted, complete leaf set.
// Keys is the same slice the tree owns; NearField, InteractionList and
// LeafToParticles index into it (and, for LeafToParticles, into the
// corresponding points slice).
type Maps struct {
	Keys            []morton.Key
	NearField       [][]int
	InteractionList [][]int
	LeafToParticles [][]int
}

// Build constructs Maps for keys (sorted, pairwise-disjoint, complete) and
// pts (assigned to leaves of keys), computing NearField and InteractionList
// in parallel across workers goroutines. Construction never fails: a leaf
// whose algebraic neighbors all fall outside the present leaf set simply
// gets an empty entry.
func Build(ctx context.Context, keys []morton.Key, pts []point.Point, workers int) Maps {
	near := workpool.Map(ctx, workers, keys, func(k morton.Key) []int {
		return liftAll(keys, morton.ComputeNearField(k))
	})

	inter := workpool.Map(ctx, workers, keys, func(k morton.Key) []int {
		return liftAll(keys, morton.ComputeInteractionList(k))
	})

	leafToParticles := groupByLeaf(keys, pts)

	return Maps{
		Keys:            keys,
		NearField:       near,
		InteractionList: inter,
		LeafToParticles: leafToParticles,
	}
}

// groupByLeaf assigns each point in pts (sorted ascending by Key, as every
// caller of Build guarantees) to its leaf in keys. Since AssignLeaf is a
// binary search over an ascending-sorted slice, its result is non-decreasing
// as p.Key increases, so points sharing a leaf always form one contiguous
// run in pts: xiter.ChunkByKey partitions pts along exactly those runs,
// expressing the grouping declaratively instead of a hand-rolled
// append-per-point loop.
func groupByLeaf(keys []morton.Key, pts []point.Point) [][]int {
	leafToParticles := make([][]int, len(keys))

	idx := 0
	for chunk := range xiter.ChunkByKey(slicesValues(pts), func(p point.Point) int {
		return point.AssignLeaf(keys, p)
	}) {
		li := point.AssignLeaf(keys, chunk[0])

		ids := make([]int, len(chunk))
		for j := range chunk {
			ids[j] = idx + j
		}
		leafToParticles[li] = ids
		idx += len(chunk)
	}

	return leafToParticles
}

// slicesValues adapts a []point.Point into an iter.Seq[point.Point], the
// form xiter's combinators operate on.
func slicesValues(pts []point.Point) iter.Seq[point.Point] {
	return func(yield func(point.Point) bool) {
		for _, p := range pts {
			if !yield(p) {
				return
			}
		}
	}
}

// liftAll lifts every candidate key to its representative leaf index in
// keys, dropping candidates with no present ancestor-or-self and
// deduplicating (distinct unbalanced-tree candidates can lift to the same
// coarser leaf). Returned indices are sorted ascending.
func liftAll(keys []morton.Key, candidates []morton.Key) []int {
	bufp := indexBufPool.Get()
	buf := (*bufp)[:0]

	seen := make(map[int]struct{}, len(candidates))
	for _, c := range candidates {
		i, ok := lift(keys, c)
		if !ok {
			continue
		}
		if _, dup := seen[i]; dup {
			continue
		}
		seen[i] = struct{}{}
		buf = append(buf, i)
	}

	sort.Ints(buf)

	out := make([]int, len(buf))
	copy(out, buf)

	*bufp = buf
	indexBufPool.Put(bufp)

	return out
}

// lift finds the coarsest ancestor of n (including n itself) that is present
// in keys, returning its index. Because keys is pairwise disjoint, at most
// one key in n's ancestor chain can be present, so checking finest-first and
// returning the first hit is equivalent to checking coarsest-first.
func lift(keys []morton.Key, n morton.Key) (int, bool) {
	if i, ok := indexOf(keys, n); ok {
		return i, true
	}

	ancestors := n.Ancestors() // root..n inclusive, length level+1
	for l := int(n.Level()) - 1; l >= 0; l-- {
		if i, ok := indexOf(keys, ancestors[l]); ok {
			return i, true
		}
	}

	return 0, false
}

func indexOf(keys []morton.Key, k morton.Key) (int, bool) {
	i := sort.Search(len(keys), func(i int) bool { return keys[i] >= k })
	if i < len(keys) && keys[i] == k {
		return i, true
	}
	return 0, false
}
