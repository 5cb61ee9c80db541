package localtree

import (
	"sort"

	"github.com/flier/octree/morton"
)

// CompleteRegion produces the minimal sorted linear octree whose union
// exactly covers the open Morton interval strictly between a and b, by
// recursively descending from their finest common ancestor (Finkel–Bentley
// region filling). a and b are not themselves part of the result, and
// nothing already covered by a's or b's own subtree is re-added — this is
// what lets a and b be arbitrary keys, not just LMax leaves: passing a coarse
// key whose subtree already reaches up to b correctly yields no fill at all.
func CompleteRegion(a, b morton.Key) []morton.Key {
	if !(a < b) {
		return nil
	}

	anc := morton.FinestAncestor(a, b)

	out := completeRegionRec(anc, a, b)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out
}

func completeRegionRec(w, a, b morton.Key) []morton.Key {
	if w.Level() >= morton.LMax {
		return nil
	}

	var out []morton.Key
	aEnd := a.DeepestLastDescendant()

	for _, c := range w.Children() {
		if c == a || c == b || morton.IsAncestor(a, c) || morton.IsAncestor(b, c) {
			// Already covered by a's or b's own subtree.
			continue
		}

		first, last := c.DeepestFirstDescendant(), c.DeepestLastDescendant()

		switch {
		case last <= aEnd || first >= b:
			// c's whole subtree lies outside (a, b).
			continue
		case aEnd < first && last < b:
			// c's whole subtree lies inside (a, b): a single leaf suffices.
			out = append(out, c)
		default:
			// c straddles a or b: descend further.
			out = append(out, completeRegionRec(c, a, b)...)
		}
	}

	return out
}

// CompleteLocalTree builds the complete linear octree covering [first, last]
// from a sorted set of seed leaf keys: it fills the gap before the first
// seed, between every pair of consecutive seeds, and after the last seed
// with CompleteRegion, then linearizes the result. first and last bound the
// block this call is responsible for completing — a rank's partition bounds
// during a distributed build, or the whole domain for CompleteGlobalTree —
// and are themselves included only if a gap-fill or a seed doesn't already
// reach them.
func CompleteLocalTree(seeds []morton.Key, first, last morton.Key) []morton.Key {
	sorted := append([]morton.Key(nil), seeds...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	out := make([]morton.Key, 0, len(sorted)*2)
	out = append(out, CompleteRegion(first, sorted[0])...)

	for i, s := range sorted {
		out = append(out, s)
		if i+1 < len(sorted) {
			out = append(out, CompleteRegion(s, sorted[i+1])...)
		}
	}

	out = append(out, CompleteRegion(sorted[len(sorted)-1], last)...)

	return Linearize(out)
}

// CompleteGlobalTree is CompleteLocalTree bracketed by the whole domain: the
// root's deepest-first descendant as the lower bound and its deepest-last
// descendant as the upper bound (the global minimum and maximum LMax keys),
// for a single-rank build. The lower bound must be a leaf, not Root itself —
// CompleteRegion(Root, x) always finds Root an ancestor of every candidate
// child and fills nothing, silently dropping the region before the first
// seed.
func CompleteGlobalTree(seeds []morton.Key) []morton.Key {
	return CompleteLocalTree(seeds, morton.Root.DeepestFirstDescendant(), morton.Root.DeepestLastDescendant())
}
